package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyMigrationsCreatesIndex(t *testing.T) {
	c := openTestCompanion(t)

	migrationsPath := filepath.Join(t.TempDir(), "migrations.yaml")
	yamlContent := "indexes:\n  - name: idx_tests_test_symbol\n    columns: [test_symbol_id]\n"
	if err := os.WriteFile(migrationsPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := c.ApplyMigrations(migrationsPath); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}

	var name string
	row := c.conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, "idx_tests_test_symbol")
	if err := row.Scan(&name); err != nil {
		t.Fatalf("expected index to exist: %v", err)
	}
}

func TestApplyMigrationsMissingFileIsNoOp(t *testing.T) {
	c := openTestCompanion(t)
	if err := c.ApplyMigrations(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err != nil {
		t.Errorf("ApplyMigrations() error = %v, want nil for a missing file", err)
	}
}

func TestApplyMigrationsEmptyPathIsNoOp(t *testing.T) {
	c := openTestCompanion(t)
	if err := c.ApplyMigrations(""); err != nil {
		t.Errorf("ApplyMigrations() error = %v, want nil for an empty path", err)
	}
}

func TestApplyMigrationsRejectsInvalidIdentifier(t *testing.T) {
	c := openTestCompanion(t)

	migrationsPath := filepath.Join(t.TempDir(), "migrations.yaml")
	yamlContent := "indexes:\n  - name: \"bad; drop table tests\"\n    columns: [test_symbol_id]\n"
	if err := os.WriteFile(migrationsPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := c.ApplyMigrations(migrationsPath); err == nil {
		t.Error("ApplyMigrations() should reject a non-identifier index name")
	}
}
