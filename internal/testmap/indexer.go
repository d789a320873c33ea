// Package testmap discovers the reachable-symbol-to-test-method mapping:
// which production symbols each test method transitively exercises. It
// runs in four phases — discover test classes, discover their test
// methods, forward-BFS each method's reachable set in parallel, and
// persist the deduplicated (symbol, test method) pairs to the companion
// database.
package testmap

import (
	goruntime "runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
	"github.com/craigsteyn/sourcetraildb/internal/runtime"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// Options configures one indexing run. Zero values fall back to the
// defaults below.
type Options struct {
	TestNamespace  string
	ClassChunkSize int // Phase B partition size; default 64.
	BatchThreshold int // Phase B/C batch-flush size; default 256.
	Workers        int // parallel workers for Phase B/C; default GOMAXPROCS, else 4.
	Logger         *logging.Logger
}

const (
	defaultClassChunkSize = 64
	defaultBatchThreshold = 256
	defaultWorkers        = 4
	progressInterval      = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.ClassChunkSize <= 0 {
		o.ClassChunkSize = defaultClassChunkSize
	}
	if o.BatchThreshold <= 0 {
		o.BatchThreshold = defaultBatchThreshold
	}
	if o.Workers <= 0 {
		o.Workers = goruntime.GOMAXPROCS(0)
		if o.Workers <= 0 {
			o.Workers = defaultWorkers
		}
	}
	return o
}

// Summary reports what one indexing run found and persisted.
type Summary struct {
	ClassesFound    int
	MethodsFound    int
	PairsDiscovered int
	Inserted        int
	Failed          []storage.TestPair
}

// Run executes all four phases against g and persists the result to
// companion. TestNamespace resolving to zero namespace nodes is fatal.
func Run(g *graph.Graph, companion *storage.CompanionDB, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	runID := uuid.New().String()
	if opts.Logger != nil {
		opts.Logger.Info("starting test-mapping index run", map[string]interface{}{"run_id": runID, "test_namespace": opts.TestNamespace})
	}

	classIDs, err := DiscoverTestClasses(g, opts.TestNamespace)
	if err != nil {
		return Summary{}, err
	}

	var counters runtime.Counters
	var trail AuditTrail
	done := make(chan struct{})
	if opts.Logger != nil {
		go runtime.ReportProgress(progressInterval, done, func() {
			methods, nodes, pairs := counters.Snapshot()
			opts.Logger.Info("test-mapping progress", map[string]interface{}{
				"run_id":            runID,
				"methods_processed": methods,
				"nodes_visited":     nodes,
				"pairs_discovered":  pairs,
				"batch_fingerprint": trail.Latest(),
			})
		})
	}

	methodIDs := DiscoverTestMethods(g, classIDs, opts.ClassChunkSize, opts.BatchThreshold, opts.Workers)
	pairs := BuildPairs(g, methodIDs, opts.BatchThreshold, opts.Workers, &counters, &trail)
	close(done)

	result, err := companion.InsertPairs(pairs)
	if err != nil {
		return Summary{}, err
	}

	if opts.Logger != nil {
		opts.Logger.Info("test-mapping index run complete", map[string]interface{}{
			"run_id":   runID,
			"inserted": result.Inserted,
			"failed":   len(result.Failed),
		})
	}

	return Summary{
		ClassesFound:    len(classIDs),
		MethodsFound:    len(methodIDs),
		PairsDiscovered: len(pairs),
		Inserted:        result.Inserted,
		Failed:          result.Failed,
	}, nil
}

// DiscoverTestClasses is Phase A: resolve the test namespace to one or
// more namespace nodes, then collect every CLASS/STRUCT reached via an
// outgoing MEMBER edge whose tail name ends in Test or Tests.
func DiscoverTestClasses(g *graph.Graph, testNamespace string) ([]int64, error) {
	namespaceIDs := make([]int64, 0)
	for _, id := range g.IDsByFQN(testNamespace) {
		if g.Kind(id) == storage.KindNamespace {
			namespaceIDs = append(namespaceIDs, id)
		}
	}
	if len(namespaceIDs) == 0 {
		return nil, graphErrors.New(graphErrors.ResolutionError,
			"test namespace not found: "+testNamespace, nil)
	}

	seen := make(map[int64]struct{})
	var classIDs []int64
	for _, nsID := range namespaceIDs {
		for _, e := range g.Outgoing(nsID) {
			if e.Kind != storage.EdgeMember {
				continue
			}
			kind := g.Kind(e.Neighbor)
			if kind != storage.KindClass && kind != storage.KindStruct {
				continue
			}
			name := tailName(g, e.Neighbor)
			if !hasTestSuffix(name) {
				continue
			}
			if _, dup := seen[e.Neighbor]; dup {
				continue
			}
			seen[e.Neighbor] = struct{}{}
			classIDs = append(classIDs, e.Neighbor)
		}
	}

	sort.Slice(classIDs, func(i, j int) bool { return classIDs[i] < classIDs[j] })
	return classIDs, nil
}

// DiscoverTestMethods is Phase B: partition classIDs into chunks across
// workers; each worker emits the id of every METHOD child reached via an
// outgoing MEMBER edge from one of its assigned classes.
func DiscoverTestMethods(g *graph.Graph, classIDs []int64, chunkSize, batchThreshold, workers int) []int64 {
	if len(classIDs) == 0 {
		return nil
	}

	sink := runtime.NewBatchedSink[int64](batchThreshold)
	stealer := runtime.NewWorkStealer(len(classIDs), chunkSize)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := sink.NewBatch()
			for {
				start, end, ok := stealer.Next()
				if !ok {
					break
				}
				for _, classID := range classIDs[start:end] {
					for _, e := range g.Outgoing(classID) {
						if e.Kind != storage.EdgeMember {
							continue
						}
						if g.Kind(e.Neighbor) == storage.KindMethod {
							batch.Add(e.Neighbor)
						}
					}
				}
			}
			batch.Flush()
		}()
	}
	wg.Wait()

	methodIDs := sink.Items()
	sort.Slice(methodIDs, func(i, j int) bool { return methodIDs[i] < methodIDs[j] })
	return methodIDs
}

// BuildPairs is Phase C: a shared atomic index dispenses method ids to
// workers one at a time; each worker runs a forward BFS from its method
// over outgoing non-MEMBER edges and emits a (reached-symbol, method)
// pair for every newly-visited target. trail, if non-nil, records a
// content fingerprint of each worker-local batch as it crosses
// batchThreshold, independent of the sink's own merge threshold. The
// returned pairs are sorted by symbol id, then by test method id.
func BuildPairs(g *graph.Graph, methodIDs []int64, batchThreshold, workers int, counters *runtime.Counters, trail *AuditTrail) []storage.TestPair {
	if len(methodIDs) == 0 {
		return nil
	}

	sink := runtime.NewBatchedSink[storage.TestPair](batchThreshold)
	stealer := runtime.NewWorkStealer(len(methodIDs), 1)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := sink.NewBatch()
			var audit []storage.TestPair
			for {
				start, end, ok := stealer.Next()
				if !ok {
					break
				}
				for _, methodID := range methodIDs[start:end] {
					found := reachFrom(g, methodID, counters)
					for _, pair := range found {
						batch.Add(pair)
					}
					counters.AddPairsDiscovered(int64(len(found)))
					audit = append(audit, found...)
					if len(audit) >= batchThreshold {
						trail.Record(audit)
						audit = audit[:0]
					}
					counters.AddMethodsProcessed(1)
				}
			}
			batch.Flush()
			trail.Record(audit)
		}()
	}
	wg.Wait()

	pairs := sink.Items()
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].SymbolID != pairs[j].SymbolID {
			return pairs[i].SymbolID < pairs[j].SymbolID
		}
		return pairs[i].TestSymbolID < pairs[j].TestSymbolID
	})
	return pairs
}

// reachFrom runs one method's forward BFS and returns a (reached-symbol,
// method) pair for every newly-visited target. The visited set is local
// to this method, matching the "reached set is per test method" contract;
// MEMBER edges are excluded because they are structural, not behavioral.
func reachFrom(g *graph.Graph, methodID int64, counters *runtime.Counters) []storage.TestPair {
	visited := map[int64]struct{}{methodID: {}}
	queue := []int64{methodID}

	var found []storage.TestPair
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.Outgoing(current) {
			if e.Kind == storage.EdgeMember {
				continue
			}
			if _, seen := visited[e.Neighbor]; seen {
				continue
			}
			visited[e.Neighbor] = struct{}{}
			queue = append(queue, e.Neighbor)
			found = append(found, storage.TestPair{SymbolID: e.Neighbor, TestSymbolID: methodID})
			counters.AddNodesVisited(1)
		}
	}
	return found
}

func hasTestSuffix(name string) bool {
	return strings.HasSuffix(name, "Test") || strings.HasSuffix(name, "Tests")
}

// tailName reads a node's decoded tail element name through the graph's
// own hierarchy accessor, so this package never re-decodes a serialized
// name itself.
func tailName(g *graph.Graph, id int64) string {
	h := g.Hierarchy(id)
	if len(h.Elements) == 0 {
		return ""
	}
	return h.Elements[len(h.Elements)-1].Name
}
