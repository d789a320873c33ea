// Package graph materializes the decoded node and edge streams from the
// storage adapter into a compact, id-indexed in-memory graph: the one-time
// construction every traversal (impact, testmap) then reads without
// further allocation.
package graph

import (
	"github.com/craigsteyn/sourcetraildb/internal/namecodec"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// Edge is an adjacency-list entry: the neighbor id and the edge kind that
// connects to it.
type Edge struct {
	Neighbor int64
	Kind     storage.EdgeKind
}

// Graph is the dense, id-indexed symbol graph. All slices are sized
// maxID+1 and indexed directly by node id; id 0 is reserved for "missing"
// and every slice's index-0 entry is the zero value.
type Graph struct {
	maxID int64

	symbolByID []storage.Node
	hasSymbol  []bool // symbolByID[i] is populated iff hasSymbol[i]
	fqnByID    []string
	kindByID   []storage.SymbolKind
	hierarchy  []namecodec.NameHierarchy

	fqnToIDs        map[string][]int64
	simpleNameToIDs map[string][]int64

	outgoing [][]Edge
	incoming [][]Edge

	numEdges int
}

// Build constructs a Graph from the full node and edge streams in one
// pass. Adjacency preserves the insertion order of the edge stream.
func Build(nodes []storage.Node, edges []storage.EdgeBrief) *Graph {
	var maxID int64
	for _, n := range nodes {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	for _, e := range edges {
		if e.SourceID > maxID {
			maxID = e.SourceID
		}
		if e.TargetID > maxID {
			maxID = e.TargetID
		}
	}

	g := &Graph{
		maxID:      maxID,
		symbolByID:      make([]storage.Node, maxID+1),
		hasSymbol:       make([]bool, maxID+1),
		fqnByID:         make([]string, maxID+1),
		kindByID:        make([]storage.SymbolKind, maxID+1),
		hierarchy:       make([]namecodec.NameHierarchy, maxID+1),
		fqnToIDs:        make(map[string][]int64),
		simpleNameToIDs: make(map[string][]int64),
		outgoing:        make([][]Edge, maxID+1),
		incoming:        make([][]Edge, maxID+1),
	}

	for _, n := range nodes {
		if n.ID <= 0 {
			continue
		}
		g.symbolByID[n.ID] = n
		g.hasSymbol[n.ID] = true

		h := namecodec.Decode(n.SerializedName)
		fqn := namecodec.FQN(h)
		g.hierarchy[n.ID] = h
		g.fqnByID[n.ID] = fqn
		g.fqnToIDs[fqn] = append(g.fqnToIDs[fqn], n.ID)

		if kind, ok := storage.SymbolKindOf(n.NodeKind); ok {
			g.kindByID[n.ID] = kind
		}

		simpleName := namecodec.SimpleName(h)
		g.simpleNameToIDs[simpleName] = append(g.simpleNameToIDs[simpleName], n.ID)
	}

	for _, e := range edges {
		// An endpoint may reference an id the node stream never
		// materialized (a node the reader chose to omit); adjacency
		// still records it, it is simply absent from symbolByID.
		g.outgoing[e.SourceID] = append(g.outgoing[e.SourceID], Edge{Neighbor: e.TargetID, Kind: e.Kind})
		g.incoming[e.TargetID] = append(g.incoming[e.TargetID], Edge{Neighbor: e.SourceID, Kind: e.Kind})
		g.numEdges++
	}

	return g
}

// MaxID returns the largest node id present in the graph (including edge
// endpoints referencing ids outside the node stream).
func (g *Graph) MaxID() int64 { return g.maxID }

// NumEdges returns the total number of edges ingested.
func (g *Graph) NumEdges() int { return g.numEdges }

// HasNode reports whether id is a known symbol (appears in the is-symbol
// projection of the node stream, per storage.Node population).
func (g *Graph) HasNode(id int64) bool {
	return id > 0 && id <= g.maxID && g.hasSymbol[id]
}

// Node returns the node for id, and whether it is populated.
func (g *Graph) Node(id int64) (storage.Node, bool) {
	if !g.HasNode(id) {
		return storage.Node{}, false
	}
	return g.symbolByID[id], true
}

// FQN returns the fully qualified name for id, or "" if id is out of
// range or was never populated.
func (g *Graph) FQN(id int64) string {
	if id <= 0 || id > g.maxID {
		return ""
	}
	return g.fqnByID[id]
}

// IDsByFQN returns every id whose fully qualified name is fqn. More than
// one id can share an FQN when overloads collapse to the same qualified
// name without their distinguishing signature.
func (g *Graph) IDsByFQN(fqn string) []int64 {
	return g.fqnToIDs[fqn]
}

// IDsBySimpleName returns every id whose tail name element equals name.
func (g *Graph) IDsBySimpleName(name string) []int64 {
	return g.simpleNameToIDs[name]
}

// Kind returns the SymbolKind of id, or "" if id is out of range or its
// node_kind carries no known bit.
func (g *Graph) Kind(id int64) storage.SymbolKind {
	if id <= 0 || id > g.maxID {
		return ""
	}
	return g.kindByID[id]
}

// Hierarchy returns the decoded name hierarchy for id.
func (g *Graph) Hierarchy(id int64) namecodec.NameHierarchy {
	if id <= 0 || id > g.maxID {
		return namecodec.NameHierarchy{}
	}
	return g.hierarchy[id]
}

// Outgoing returns id's outgoing adjacency in edge-stream insertion order.
func (g *Graph) Outgoing(id int64) []Edge {
	if id <= 0 || id > g.maxID {
		return nil
	}
	return g.outgoing[id]
}

// Incoming returns id's incoming adjacency in edge-stream insertion order.
func (g *Graph) Incoming(id int64) []Edge {
	if id <= 0 || id > g.maxID {
		return nil
	}
	return g.incoming[id]
}
