package storage

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/craigsteyn/sourcetraildb/internal/logging"
)

// buildFixtureDB creates a temp SQLite file with the minimal index schema
// (schema generation is out of scope for this adapter; tests lay it down
// directly) and returns its path.
func buildFixtureDB(t *testing.T, version int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "project.srctrldb")

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture db: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE schema_version (version INTEGER NOT NULL)`,
		`INSERT INTO schema_version (version) VALUES (` + itoa(version) + `)`,
		`CREATE TABLE node (id INTEGER PRIMARY KEY, node_kind INTEGER NOT NULL, serialized_name TEXT NOT NULL)`,
		`CREATE TABLE symbol (id INTEGER PRIMARY KEY, definition_kind TEXT NOT NULL)`,
		`CREATE TABLE edge (id INTEGER PRIMARY KEY, source_node_id INTEGER NOT NULL, target_node_id INTEGER NOT NULL, edge_kind TEXT NOT NULL)`,
		`CREATE TABLE file (id INTEGER PRIMARY KEY, path TEXT NOT NULL, language TEXT NOT NULL, indexed INTEGER NOT NULL, complete INTEGER NOT NULL)`,
		`CREATE TABLE source_location (id INTEGER PRIMARY KEY, file_id INTEGER NOT NULL, start_line INTEGER NOT NULL, start_col INTEGER NOT NULL, end_line INTEGER NOT NULL, end_col INTEGER NOT NULL, kind TEXT NOT NULL)`,
		`CREATE TABLE occurrence (element_id INTEGER NOT NULL, source_location_id INTEGER NOT NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("fixture schema setup failed (%s): %v", stmt, err)
		}
	}

	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Format: logging.JSONFormat, Output: io.Discard})
}

func TestOpenRejectsMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.srctrldb"), testLogger())
	if err == nil {
		t.Fatal("expected error opening a nonexistent database")
	}
}

func TestOpenRejectsIncompatibleVersion(t *testing.T) {
	path := buildFixtureDB(t, 99)

	_, err := Open(path, testLogger())
	if err == nil {
		t.Fatal("expected error opening a database with an unsupported schema version")
	}
}

func TestOpenAcceptsSupportedVersion(t *testing.T) {
	path := buildFixtureDB(t, supportedSchemaVersion)

	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
}

func TestOpenDoesNotCreateMissingFile(t *testing.T) {
	// Open is read-only: confirm it does not create a file that does not
	// already exist, unlike a typical sql.Open("sqlite", path) call.
	path := filepath.Join(t.TempDir(), "absent.srctrldb")
	if _, err := Open(path, testLogger()); err == nil {
		t.Fatal("expected Open to refuse to create a missing database file")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Fatal("Open must not create a file when the database is missing")
	}
}
