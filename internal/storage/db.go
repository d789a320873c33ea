// Package storage is the read-only adapter over a pre-populated,
// Sourcetrail-style symbol-index SQLite database. It never writes to the
// primary database; the only writer in this package is the companion
// database used to persist discovered test mappings.
package storage

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
)

// supportedSchemaVersion is the only index schema version this adapter
// knows how to read. Any other value is rejected at Open.
const supportedSchemaVersion = 1

// DB is a read-only handle onto the symbol-index database.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open verifies the file exists, opens it read-only, and checks the stored
// schema version against supportedSchemaVersion.
func Open(path string, logger *logging.Logger) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "index database not found: "+path, err)
	}

	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "failed to open index database", err)
	}

	pragmas := []string{
		"PRAGMA query_only=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-64000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, graphErrors.New(graphErrors.StorageError, "failed to set pragma", err)
		}
	}

	db := &DB{conn: conn, logger: logger, dbPath: path}

	version, err := db.schemaVersion()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if version != supportedSchemaVersion {
		conn.Close()
		return nil, graphErrors.New(graphErrors.StorageError,
			fmt.Sprintf("incompatible schema version %d, expected %d", version, supportedSchemaVersion), nil)
	}

	logger.Debug("opened index database", map[string]interface{}{
		"path":    path,
		"version": version,
	})

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func (db *DB) schemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		return 0, graphErrors.New(graphErrors.StorageError, "failed to read schema_version", err)
	}
	return version, nil
}

func edgeKindFromRow(kind string) EdgeKind {
	return EdgeKind(kind)
}
