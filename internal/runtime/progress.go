package runtime

import (
	"sync/atomic"
	"time"
)

// Counters holds the atomic progress counters a parallel traversal
// updates as it runs: methods processed, nodes visited, pairs discovered.
// Workers increment these directly; a Progress reporter only reads them.
type Counters struct {
	methodsProcessed int64
	nodesVisited     int64
	pairsDiscovered  int64
}

// AddMethodsProcessed increments the methods-processed counter.
func (c *Counters) AddMethodsProcessed(n int64) {
	atomic.AddInt64(&c.methodsProcessed, n)
}

// AddNodesVisited increments the nodes-visited counter.
func (c *Counters) AddNodesVisited(n int64) {
	atomic.AddInt64(&c.nodesVisited, n)
}

// AddPairsDiscovered increments the pairs-discovered counter.
func (c *Counters) AddPairsDiscovered(n int64) {
	atomic.AddInt64(&c.pairsDiscovered, n)
}

// Snapshot reads all three counters at once. The read is not atomic across
// fields, which is acceptable for a progress display.
func (c *Counters) Snapshot() (methodsProcessed, nodesVisited, pairsDiscovered int64) {
	return atomic.LoadInt64(&c.methodsProcessed),
		atomic.LoadInt64(&c.nodesVisited),
		atomic.LoadInt64(&c.pairsDiscovered)
}

// ReportProgress runs report on a fixed interval until done is closed, then
// returns. Intended to run in its own goroutine alongside a worker pool:
//
//	done := make(chan struct{})
//	go runtime.ReportProgress(5*time.Second, done, func() { ... })
//	defer close(done)
func ReportProgress(interval time.Duration, done <-chan struct{}, report func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report()
		case <-done:
			return
		}
	}
}
