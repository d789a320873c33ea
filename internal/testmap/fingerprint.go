package testmap

import (
	"encoding/binary"
	"encoding/hex"
	"sort"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// AuditTrail records a content fingerprint of each flushed pair batch and
// keeps the most recent one. A batch is sorted before hashing, so its
// digest does not depend on the order of pairs within it; which pairs land
// in a batch, and which batch is recorded last, depend on how the work was
// split across workers.
type AuditTrail struct {
	mu     sync.Mutex
	latest string
}

// Record hashes batch's pairs (order-independent: sorted before hashing)
// with blake2b-256 and stores the hex digest as the trail's latest
// fingerprint. A nil or empty batch is a no-op.
func (a *AuditTrail) Record(batch []storage.TestPair) {
	if a == nil || len(batch) == 0 {
		return
	}

	sorted := make([]storage.TestPair, len(batch))
	copy(sorted, batch)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SymbolID != sorted[j].SymbolID {
			return sorted[i].SymbolID < sorted[j].SymbolID
		}
		return sorted[i].TestSymbolID < sorted[j].TestSymbolID
	})

	buf := make([]byte, 16*len(sorted))
	for i, p := range sorted {
		binary.BigEndian.PutUint64(buf[i*16:], uint64(p.SymbolID))
		binary.BigEndian.PutUint64(buf[i*16+8:], uint64(p.TestSymbolID))
	}
	sum := blake2b.Sum256(buf)

	a.mu.Lock()
	a.latest = hex.EncodeToString(sum[:])
	a.mu.Unlock()
}

// Latest returns the most recently recorded fingerprint, or "" if Record
// has never been called.
func (a *AuditTrail) Latest() string {
	if a == nil {
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}
