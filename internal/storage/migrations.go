package storage

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type migrationsFile struct {
	Indexes []struct {
		Name    string   `yaml:"name"`
		Columns []string `yaml:"columns"`
	} `yaml:"indexes"`
}

// ApplyMigrations reads an optional YAML file describing additional indexes
// to create on the companion database's tests table, run once before the
// main insert transaction. A missing path is a no-op: most companion
// databases need nothing beyond the primary-key index InsertPairs relies
// on, so this is opt-in tuning rather than a required step.
func (c *CompanionDB) ApplyMigrations(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return graphErrors.New(graphErrors.StorageError, "failed to read migrations file", err)
	}

	var mf migrationsFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return graphErrors.New(graphErrors.ConfigError, "failed to parse migrations file", err)
	}

	for _, idx := range mf.Indexes {
		if idx.Name == "" || len(idx.Columns) == 0 {
			continue
		}
		if !identifierPattern.MatchString(idx.Name) {
			return graphErrors.New(graphErrors.ConfigError, "invalid migration index name: "+idx.Name, nil)
		}
		for _, col := range idx.Columns {
			if !identifierPattern.MatchString(col) {
				return graphErrors.New(graphErrors.ConfigError, "invalid migration index column: "+col, nil)
			}
		}

		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON tests (%s)", idx.Name, strings.Join(idx.Columns, ", "))
		if _, err := c.conn.Exec(stmt); err != nil {
			return graphErrors.New(graphErrors.StorageError, "failed to apply migration "+idx.Name, err)
		}
	}
	return nil
}
