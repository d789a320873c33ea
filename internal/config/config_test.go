package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadChunkerConfig(t *testing.T) {
	path := writeTemp(t, "chunker.json", `{
		"db_path": "/idx/project.srctrldb",
		"project_name": "widgets",
		"root_dir": "/home/dev/widgets",
		"indexed_root": "/build/widgets",
		"chunk_output_root": "/out/chunks",
		"paths_to_chunk": ["src/foo", "src/bar"]
	}`)

	cfg, err := LoadChunkerConfig(path)
	if err != nil {
		t.Fatalf("LoadChunkerConfig() error = %v", err)
	}

	if cfg.DBPath != "/idx/project.srctrldb" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ProjectName != "widgets" {
		t.Errorf("ProjectName = %q", cfg.ProjectName)
	}
	if len(cfg.PathsToChunk) != 2 || cfg.PathsToChunk[0] != "src/foo" {
		t.Errorf("PathsToChunk = %v", cfg.PathsToChunk)
	}
}

func TestLoadChunkerConfig_MissingRequiredKey(t *testing.T) {
	path := writeTemp(t, "chunker.json", `{"project_name": "widgets"}`)

	if _, err := LoadChunkerConfig(path); err == nil {
		t.Fatal("expected error for missing db_path/indexed_root/chunk_output_root")
	}
}

func TestLoadImpactConfig(t *testing.T) {
	path := writeTemp(t, "impact.ini", `
# comment line
[test_namespace]
UnitTests

[start_symbols]
kind=METHOD, MyNS::Foo::bar
; another comment
NoKindPattern

[exclude_symbols]
FooTests
MyNS::Internal::helper
`)

	cfg, err := LoadImpactConfig(path)
	if err != nil {
		t.Fatalf("LoadImpactConfig() error = %v", err)
	}

	if cfg.TestNamespace != "UnitTests" {
		t.Errorf("TestNamespace = %q", cfg.TestNamespace)
	}
	if len(cfg.StartSymbols) != 2 {
		t.Fatalf("len(StartSymbols) = %d, want 2", len(cfg.StartSymbols))
	}
	if cfg.StartSymbols[0].KindFilter != "METHOD" || cfg.StartSymbols[0].Pattern != "MyNS::Foo::bar" {
		t.Errorf("StartSymbols[0] = %+v", cfg.StartSymbols[0])
	}
	if cfg.StartSymbols[1].KindFilter != "" || cfg.StartSymbols[1].Pattern != "NoKindPattern" {
		t.Errorf("StartSymbols[1] = %+v", cfg.StartSymbols[1])
	}
	if len(cfg.ExcludeSymbols) != 2 || cfg.ExcludeSymbols[0] != "FooTests" {
		t.Errorf("ExcludeSymbols = %v", cfg.ExcludeSymbols)
	}
}

func TestLoadImpactConfig_WildcardKind(t *testing.T) {
	path := writeTemp(t, "impact.ini", `
[test_namespace]
UT
[start_symbols]
kind=*, Lib::thing
`)

	cfg, err := LoadImpactConfig(path)
	if err != nil {
		t.Fatalf("LoadImpactConfig() error = %v", err)
	}
	if cfg.StartSymbols[0].KindFilter != "" {
		t.Errorf("KindFilter for '*' should be empty (any), got %q", cfg.StartSymbols[0].KindFilter)
	}
}

func TestLoadImpactConfig_MissingSection(t *testing.T) {
	path := writeTemp(t, "impact.ini", `[start_symbols]
kind=METHOD, Foo::bar
`)

	if _, err := LoadImpactConfig(path); err == nil {
		t.Fatal("expected error for missing [test_namespace] section")
	}
}

func TestLoadImpactConfig_DuplicateNamespaceLine(t *testing.T) {
	path := writeTemp(t, "impact.ini", `[test_namespace]
UT
AnotherLine
[start_symbols]
Foo::bar
`)

	if _, err := LoadImpactConfig(path); err == nil {
		t.Fatal("expected error for [test_namespace] with more than one non-blank line")
	}
}
