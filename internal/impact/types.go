// Package impact implements the reverse-reachability test-impact
// traversal: given starting symbols and a test namespace, it discovers
// every test class whose test methods transitively depend on a start,
// walking incoming references (plus outgoing OVERRIDE edges) with
// mode-dependent edge filtering and exclude-set pruning.
package impact

import (
	"github.com/craigsteyn/sourcetraildb/internal/logging"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// StartSpec is one configured traversal start: a name pattern optionally
// narrowed to a single symbol kind.
type StartSpec struct {
	Kind    storage.SymbolKind // empty means "any"
	Pattern string
}

// Hit is one discovered test class: its id, fully qualified name, and the
// reconstructed chain of FQNs from a start symbol to the class.
type Hit struct {
	TestClassID  int64
	TestClassFQN string
	Path         []string
}

// Options configures one traversal run.
type Options struct {
	TestNamespace string
	Exclude       map[string]struct{}
	// Bound limits the total number of frames ever enqueued; 0 uses
	// DefaultBound. The count is checked before each dequeue, so one
	// expansion can push it past Bound; once it exceeds Bound the traversal
	// ends early and sets Result.Incomplete.
	Bound int
	// Logger, if set, receives the run's start/completion lines tagged
	// with a per-run id so concurrent or repeated invocations stay
	// distinguishable in the diagnostic stream.
	Logger *logging.Logger
}

// Result is the outcome of one traversal: unique hits in first-detected
// order, plus whether the safety bound truncated the search.
type Result struct {
	Hits       []Hit
	Incomplete bool
}

// DefaultBound is the safety bound on total enqueued frames used when
// Options.Bound is unset.
const DefaultBound = 200_000
