package testmap

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
	"github.com/craigsteyn/sourcetraildb/internal/runtime"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

func nameOf(elements ...string) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = e + "\ts" + "\tp"
	}
	return "::" + "\tm" + strings.Join(parts, "\tn")
}

// buildScenarioD constructs the namespace UT holding UT::ATests with
// methods m1, m2; m1 calls Lib::a1, a1 calls Lib::a2; m2 calls Lib::b1.
func buildScenarioD() *graph.Graph {
	const (
		ut    = 1
		aTests = 2
		m1    = 3
		m2    = 4
		a1    = 5
		a2    = 6
		b1    = 7
	)
	nodes := []storage.Node{
		{ID: ut, NodeKind: storage.NodeKindOf(storage.KindNamespace), SerializedName: nameOf("UT")},
		{ID: aTests, NodeKind: storage.NodeKindOf(storage.KindClass), SerializedName: nameOf("UT", "ATests")},
		{ID: m1, NodeKind: storage.NodeKindOf(storage.KindMethod), SerializedName: nameOf("UT", "ATests", "m1")},
		{ID: m2, NodeKind: storage.NodeKindOf(storage.KindMethod), SerializedName: nameOf("UT", "ATests", "m2")},
		{ID: a1, NodeKind: storage.NodeKindOf(storage.KindFunction), SerializedName: nameOf("Lib", "a1")},
		{ID: a2, NodeKind: storage.NodeKindOf(storage.KindFunction), SerializedName: nameOf("Lib", "a2")},
		{ID: b1, NodeKind: storage.NodeKindOf(storage.KindFunction), SerializedName: nameOf("Lib", "b1")},
	}
	edges := []storage.EdgeBrief{
		{SourceID: ut, TargetID: aTests, Kind: storage.EdgeMember},
		{SourceID: aTests, TargetID: m1, Kind: storage.EdgeMember},
		{SourceID: aTests, TargetID: m2, Kind: storage.EdgeMember},
		{SourceID: m1, TargetID: a1, Kind: storage.EdgeCall},
		{SourceID: a1, TargetID: a2, Kind: storage.EdgeCall},
		{SourceID: m2, TargetID: b1, Kind: storage.EdgeCall},
	}
	return graph.Build(nodes, edges)
}

func TestDiscoverTestClassesFindsSuffixedMembers(t *testing.T) {
	g := buildScenarioD()
	ids, err := DiscoverTestClasses(g, "UT")
	if err != nil {
		t.Fatalf("DiscoverTestClasses() error = %v", err)
	}
	if len(ids) != 1 || g.FQN(ids[0]) != "UT::ATests" {
		t.Fatalf("DiscoverTestClasses() = %v", ids)
	}
}

func TestDiscoverTestClassesNamespaceNotFoundIsFatal(t *testing.T) {
	g := buildScenarioD()
	if _, err := DiscoverTestClasses(g, "NoSuchNamespace"); err == nil {
		t.Fatal("DiscoverTestClasses() error = nil, want a resolution error")
	}
}

func TestDiscoverTestMethodsFindsBothMethods(t *testing.T) {
	g := buildScenarioD()
	classIDs, err := DiscoverTestClasses(g, "UT")
	if err != nil {
		t.Fatalf("DiscoverTestClasses() error = %v", err)
	}
	methodIDs := DiscoverTestMethods(g, classIDs, 64, 256, 4)
	sort.Slice(methodIDs, func(i, j int) bool { return methodIDs[i] < methodIDs[j] })

	var fqns []string
	for _, id := range methodIDs {
		fqns = append(fqns, g.FQN(id))
	}
	sort.Strings(fqns)
	want := []string{"UT::ATests::m1", "UT::ATests::m2"}
	if len(fqns) != len(want) {
		t.Fatalf("DiscoverTestMethods() = %v, want %v", fqns, want)
	}
	for i := range want {
		if fqns[i] != want[i] {
			t.Errorf("DiscoverTestMethods()[%d] = %q, want %q", i, fqns[i], want[i])
		}
	}
}

func TestBuildPairsMatchesScenarioD(t *testing.T) {
	g := buildScenarioD()
	classIDs, err := DiscoverTestClasses(g, "UT")
	if err != nil {
		t.Fatalf("DiscoverTestClasses() error = %v", err)
	}
	methodIDs := DiscoverTestMethods(g, classIDs, 64, 256, 4)

	var counters runtime.Counters
	var trail AuditTrail
	pairs := BuildPairs(g, methodIDs, 256, 4, &counters, &trail)
	if trail.Latest() == "" {
		t.Error("AuditTrail should have recorded a fingerprint for a non-empty pair set")
	}

	got := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		got[g.FQN(p.SymbolID)+"|"+g.FQN(p.TestSymbolID)] = struct{}{}
	}

	want := []string{
		"Lib::a1|UT::ATests::m1",
		"Lib::a2|UT::ATests::m1",
		"Lib::b1|UT::ATests::m2",
	}
	if len(got) != len(want) {
		t.Fatalf("BuildPairs() produced %d pairs, want %d: %v", len(got), len(want), pairs)
	}
	for _, w := range want {
		if _, ok := got[w]; !ok {
			t.Errorf("BuildPairs() missing pair %q", w)
		}
	}

	methods, nodes, pairsDiscovered := counters.Snapshot()
	if methods != int64(len(methodIDs)) {
		t.Errorf("Counters methods processed = %d, want %d", methods, len(methodIDs))
	}
	if nodes != int64(len(pairs)) {
		t.Errorf("Counters nodes visited = %d, want %d", nodes, len(pairs))
	}
	if pairsDiscovered != int64(len(pairs)) {
		t.Errorf("Counters pairs discovered = %d, want %d", pairsDiscovered, len(pairs))
	}
}

func TestDiscoverTestMethodsEmptyClassList(t *testing.T) {
	g := buildScenarioD()
	if ids := DiscoverTestMethods(g, nil, 64, 256, 4); ids != nil {
		t.Errorf("DiscoverTestMethods(nil) = %v, want nil", ids)
	}
}

func TestBuildPairsEmptyMethodList(t *testing.T) {
	g := buildScenarioD()
	var counters runtime.Counters
	if pairs := BuildPairs(g, nil, 256, 4, &counters, nil); pairs != nil {
		t.Errorf("BuildPairs(nil) = %v, want nil", pairs)
	}
}

func TestRunPersistsScenarioDPairsToCompanion(t *testing.T) {
	g := buildScenarioD()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Format: logging.JSONFormat, Output: io.Discard})

	companion, err := storage.OpenCompanion(filepath.Join(t.TempDir(), "companion.db"), logger)
	if err != nil {
		t.Fatalf("OpenCompanion() error = %v", err)
	}
	t.Cleanup(func() { companion.Close() })

	summary, err := Run(g, companion, Options{TestNamespace: "UT"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.ClassesFound != 1 {
		t.Errorf("ClassesFound = %d, want 1", summary.ClassesFound)
	}
	if summary.MethodsFound != 2 {
		t.Errorf("MethodsFound = %d, want 2", summary.MethodsFound)
	}
	if summary.PairsDiscovered != 3 {
		t.Errorf("PairsDiscovered = %d, want 3", summary.PairsDiscovered)
	}
	if summary.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3", summary.Inserted)
	}
	if len(summary.Failed) != 0 {
		t.Errorf("Failed = %+v, want none", summary.Failed)
	}
}
