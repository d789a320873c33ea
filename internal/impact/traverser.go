package impact

import (
	"strings"

	"github.com/google/uuid"

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/namecodec"
	"github.com/craigsteyn/sourcetraildb/internal/runtime"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// item is one BFS frontier payload: a symbol id and the mode its owning
// start spec carries. Mode narrows edge-filtering during expansion; "" is
// the unfiltered "any" mode.
type item struct {
	symbolID int64
	mode     storage.SymbolKind
}

type visitKey struct {
	symbolID int64
	mode     storage.SymbolKind
}

// Run resolves every start spec against g, then performs a reverse
// reachability search — incoming references plus outgoing OVERRIDE edges,
// mode-filtered — to discover test classes transitively depending on any
// start. Start specs are evaluated as a batch: a spec matching zero
// symbols is fatal, per graphErrors.ResolutionError.
func Run(g *graph.Graph, starts []StartSpec, opts Options) (Result, error) {
	runID := uuid.New().String()
	if opts.Logger != nil {
		opts.Logger.Info("starting test-impact traversal", map[string]interface{}{"run_id": runID, "starts": len(starts)})
	}

	bound := opts.Bound
	if bound <= 0 {
		bound = DefaultBound
	}

	visited := make(map[visitKey]struct{})
	queue := runtime.NewPathQueue[item]()

	for _, spec := range starts {
		ids, err := resolveStart(g, spec)
		if err != nil {
			return Result{}, err
		}
		for _, id := range ids {
			key := visitKey{symbolID: id, mode: spec.Kind}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			queue.PushRoot(item{symbolID: id, mode: spec.Kind})
		}
	}

	var hits []Hit
	detectedIDs := make(map[int64]struct{})
	detectedFQNs := make(map[string]struct{})
	incomplete := false

	for {
		if queue.Enqueued() > bound {
			incomplete = true
			break
		}
		frame, idx, ok := queue.Pop()
		if !ok {
			break
		}
		cur := frame.Payload

		fqn := g.FQN(cur.symbolID)
		hierarchy := g.Hierarchy(cur.symbolID)
		if excluded(hierarchy, fqn, opts.Exclude) {
			continue
		}

		if classID, classFQN, ok := detectTestHit(g, cur.symbolID, hierarchy, opts.TestNamespace); ok {
			if _, already := detectedIDs[classID]; !already {
				if _, alreadyFQN := detectedFQNs[classFQN]; !alreadyFQN {
					detectedIDs[classID] = struct{}{}
					detectedFQNs[classFQN] = struct{}{}
					hits = append(hits, Hit{
						TestClassID:  classID,
						TestClassFQN: classFQN,
						Path:         pathTo(g, queue, idx, cur.symbolID, classID, classFQN),
					})
				}
			}
		}

		for _, neighbor := range expand(g, cur) {
			key := visitKey{symbolID: neighbor, mode: cur.mode}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			queue.Push(item{symbolID: neighbor, mode: cur.mode}, idx)
		}
	}

	if opts.Logger != nil {
		opts.Logger.Info("test-impact traversal complete", map[string]interface{}{"run_id": runID, "hits": len(hits), "incomplete": incomplete})
	}
	return Result{Hits: hits, Incomplete: incomplete}, nil
}

// resolveStart resolves one start spec against the already-built graph. A
// pattern containing the hierarchy delimiter is treated as qualified and
// looked up by exact FQN first, falling back to a simple-name match on its
// tail element; a pattern without a delimiter resolves directly by simple
// name. The spec's Kind, if set, narrows the result.
func resolveStart(g *graph.Graph, spec StartSpec) ([]int64, error) {
	var ids []int64
	if isQualifiedPattern(spec.Pattern) {
		ids = g.IDsByFQN(spec.Pattern)
		if len(ids) == 0 {
			tail := tailElement(spec.Pattern)
			ids = g.IDsBySimpleName(tail)
		}
	} else {
		ids = g.IDsBySimpleName(spec.Pattern)
	}

	if spec.Kind != "" {
		filtered := make([]int64, 0, len(ids))
		for _, id := range ids {
			if g.Kind(id) == spec.Kind {
				filtered = append(filtered, id)
			}
		}
		ids = filtered
	}

	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, graphErrors.New(graphErrors.ResolutionError,
			"start spec matched zero symbols: "+spec.Pattern, nil)
	}
	return ids, nil
}

func isQualifiedPattern(pattern string) bool {
	return strings.Contains(pattern, "::") || strings.Contains(pattern, ".")
}

func tailElement(pattern string) string {
	sep := "::"
	if !strings.Contains(pattern, sep) {
		sep = "."
	}
	parts := strings.Split(pattern, sep)
	return parts[len(parts)-1]
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// excluded reports whether h or fqn matches a configured exclusion, checked
// against the full FQN, the tail element's name, and every intermediate
// element's name.
func excluded(h namecodec.NameHierarchy, fqn string, exclude map[string]struct{}) bool {
	if len(exclude) == 0 {
		return false
	}
	if _, ok := exclude[fqn]; ok {
		return true
	}
	for _, e := range h.Elements {
		if _, ok := exclude[e.Name]; ok {
			return true
		}
	}
	return false
}

// detectTestHit reports whether id is, or is owned by, a test class: a
// CLASS/STRUCT whose tail name ends in Test or Tests, or a METHOD whose
// owning element does, both additionally requiring a hierarchy element to
// match testNamespace. For the method case the emitted hit is the owning
// class, resolved back through the graph's FQN index.
func detectTestHit(g *graph.Graph, id int64, h namecodec.NameHierarchy, testNamespace string) (int64, string, bool) {
	if len(h.Elements) == 0 || !hasNamespaceElement(h, testNamespace) {
		return 0, "", false
	}

	last := h.Elements[len(h.Elements)-1]
	kind := g.Kind(id)

	switch kind {
	case storage.KindClass, storage.KindStruct:
		if hasTestSuffix(last.Name) {
			return id, g.FQN(id), true
		}
	case storage.KindMethod:
		if len(h.Elements) < 2 {
			return 0, "", false
		}
		owner := h.Elements[len(h.Elements)-2]
		if !hasTestSuffix(owner.Name) {
			return 0, "", false
		}
		ownerFQN := fqnPrefix(h)
		for _, candidate := range g.IDsByFQN(ownerFQN) {
			switch g.Kind(candidate) {
			case storage.KindClass, storage.KindStruct:
				return candidate, ownerFQN, true
			}
		}
	}
	return 0, "", false
}

func hasNamespaceElement(h namecodec.NameHierarchy, testNamespace string) bool {
	if testNamespace == "" {
		return true
	}
	for _, e := range h.Elements[:len(h.Elements)-1] {
		if e.Name == testNamespace {
			return true
		}
	}
	return false
}

func hasTestSuffix(name string) bool {
	return strings.HasSuffix(name, "Test") || strings.HasSuffix(name, "Tests")
}

// fqnPrefix rebuilds the qualified name of everything but h's tail element.
func fqnPrefix(h namecodec.NameHierarchy) string {
	if len(h.Elements) < 2 {
		return ""
	}
	names := make([]string, 0, len(h.Elements)-1)
	for _, e := range h.Elements[:len(h.Elements)-1] {
		names = append(names, e.Name)
	}
	delim := h.Delimiter
	if delim == "" {
		delim = "::"
	}
	return strings.Join(names, delim)
}

// expand returns cur's reverse-reachability neighbors: every incoming edge,
// plus outgoing OVERRIDE edges, which lead from cur to the method it
// overrides. Overriders of cur are reached through their OVERRIDE edges
// into cur, which the incoming pass already walks. storage.KindMethod mode
// additionally drops
// MEMBER and TYPE_USAGE edges, which otherwise pull in a method's
// containing class and its unrelated type references.
func expand(g *graph.Graph, cur item) []int64 {
	var neighbors []int64
	for _, e := range g.Incoming(cur.symbolID) {
		if cur.mode == storage.KindMethod && (e.Kind == storage.EdgeMember || e.Kind == storage.EdgeTypeUsage) {
			continue
		}
		neighbors = append(neighbors, e.Neighbor)
	}
	for _, e := range g.Outgoing(cur.symbolID) {
		if e.Kind == storage.EdgeOverride {
			neighbors = append(neighbors, e.Neighbor)
		}
	}
	return neighbors
}

// pathTo reconstructs the FQN chain from a start to the discovered class:
// the queue's own chain of symbol FQNs through cur, with the owning class's
// FQN appended when detection resolved to an ancestor rather than cur
// itself.
func pathTo(g *graph.Graph, queue *runtime.PathQueue[item], idx int, curID, classID int64, classFQN string) []string {
	chain := queue.Backtrack(idx)
	path := make([]string, 0, len(chain)+1)
	for _, it := range chain {
		path = append(path, g.FQN(it.symbolID))
	}
	if classID != curID {
		path = append(path, classFQN)
	}
	return path
}
