package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
)

// CompanionDB is the append-only sink for discovered (symbol, test-method)
// pairs. Unlike DB it is opened read-write and owns its own schema.
type CompanionDB struct {
	conn   *sql.DB
	logger *logging.Logger
}

// TestPair is one (reached-symbol, test-method) association.
type TestPair struct {
	SymbolID     int64
	TestSymbolID int64
}

// OpenCompanion opens or creates the companion database at path and ensures
// the tests table exists.
func OpenCompanion(path string, logger *logging.Logger) (*CompanionDB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, graphErrors.New(graphErrors.StorageError, "failed to open companion database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, graphErrors.New(graphErrors.StorageError, "failed to set companion pragma", err)
		}
	}

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS tests (
			symbol_id INTEGER NOT NULL,
			test_symbol_id INTEGER NOT NULL,
			PRIMARY KEY (symbol_id, test_symbol_id)
		)
	`); err != nil {
		conn.Close()
		return nil, graphErrors.New(graphErrors.StorageError, "failed to create tests table", err)
	}

	return &CompanionDB{conn: conn, logger: logger}, nil
}

// Close closes the companion connection.
func (c *CompanionDB) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (c *CompanionDB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := c.conn.Begin()
	if err != nil {
		return graphErrors.New(graphErrors.StorageError, "failed to begin companion transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.Error("failed to rollback companion transaction", map[string]interface{}{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return graphErrors.New(graphErrors.StorageError, "failed to commit companion transaction", err)
	}
	return nil
}

// InsertResult reports how InsertPairs fared.
type InsertResult struct {
	Inserted int
	Failed   []TestPair
}

// InsertPairs persists every pair in one transaction using INSERT OR
// IGNORE semantics: a pair already present does not count as a failure,
// only a genuine statement error does. Failures are reported per pair
// without aborting the transaction.
func (c *CompanionDB) InsertPairs(pairs []TestPair) (InsertResult, error) {
	var result InsertResult

	err := c.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO tests (symbol_id, test_symbol_id) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, pair := range pairs {
			res, execErr := stmt.Exec(pair.SymbolID, pair.TestSymbolID)
			if execErr != nil {
				c.logger.Warn("failed to insert test pair", map[string]interface{}{
					"symbol_id":      pair.SymbolID,
					"test_symbol_id": pair.TestSymbolID,
					"error":          execErr.Error(),
				})
				result.Failed = append(result.Failed, pair)
				continue
			}
			if n, _ := res.RowsAffected(); n > 0 {
				result.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}
