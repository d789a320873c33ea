package testmap

import (
	"testing"

	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

func TestAuditTrailOrderIndependent(t *testing.T) {
	var a, b AuditTrail
	a.Record([]storage.TestPair{{SymbolID: 1, TestSymbolID: 2}, {SymbolID: 3, TestSymbolID: 4}})
	b.Record([]storage.TestPair{{SymbolID: 3, TestSymbolID: 4}, {SymbolID: 1, TestSymbolID: 2}})

	if a.Latest() != b.Latest() {
		t.Errorf("Latest() differs by batch order: %q vs %q", a.Latest(), b.Latest())
	}
	if a.Latest() == "" {
		t.Error("Latest() should be non-empty after Record")
	}
}

func TestAuditTrailEmptyBatchNoOp(t *testing.T) {
	var a AuditTrail
	a.Record(nil)
	if a.Latest() != "" {
		t.Errorf("Latest() = %q, want empty after recording an empty batch", a.Latest())
	}
}

func TestAuditTrailNilReceiverSafe(t *testing.T) {
	var a *AuditTrail
	a.Record([]storage.TestPair{{SymbolID: 1, TestSymbolID: 2}})
	if a.Latest() != "" {
		t.Errorf("Latest() on nil trail = %q, want empty", a.Latest())
	}
}
