// Package config loads the two configuration formats consumed by this
// module's CLI tools: the chunker's JSON config and the impact-analyzer's
// INI-like config. Both file formats are themselves explicitly out of scope
// for this module's core (the graph engine treats config as an external
// collaborator); this package only decodes them into the structs the
// traversal components need.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	graphErrors "github.com/craigsteyn/sourcetraildb/internal/errors"
)

// ChunkerConfig is the JSON config consumed by the chunker tool.
type ChunkerConfig struct {
	DBPath              string   `mapstructure:"db_path"`
	ProjectName         string   `mapstructure:"project_name"`
	ProjectDescription  string   `mapstructure:"project_description"`
	RootDir             string   `mapstructure:"root_dir"`
	IndexedRoot         string   `mapstructure:"indexed_root"`
	ChunkOutputRoot     string   `mapstructure:"chunk_output_root"`
	PathsToChunk        []string `mapstructure:"paths_to_chunk"`
}

// LoadChunkerConfig reads a chunker JSON config file via viper, the same
// mechanism the rest of this lineage uses for JSON configuration.
func LoadChunkerConfig(path string) (*ChunkerConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, graphErrors.New(graphErrors.ConfigError, "failed to read chunker config", err)
	}

	var cfg ChunkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, graphErrors.New(graphErrors.ConfigError, "failed to decode chunker config", err)
	}

	if cfg.DBPath == "" {
		return nil, graphErrors.New(graphErrors.ConfigError, "chunker config missing required key db_path", nil)
	}
	if cfg.IndexedRoot == "" {
		return nil, graphErrors.New(graphErrors.ConfigError, "chunker config missing required key indexed_root", nil)
	}
	if cfg.ChunkOutputRoot == "" {
		return nil, graphErrors.New(graphErrors.ConfigError, "chunker config missing required key chunk_output_root", nil)
	}

	return &cfg, nil
}

// StartSpec is one line of the impact-analyzer's [start_symbols] section:
// an optional kind filter and a name-or-FQN pattern.
type StartSpec struct {
	KindFilter string // empty means "any"
	Pattern    string
}

// ImpactConfig is the decoded INI-like config consumed by impact-analyzer.
type ImpactConfig struct {
	TestNamespace  string
	StartSymbols   []StartSpec
	ExcludeSymbols []string
}

// LoadImpactConfig parses the three-section INI-like config described in
// spec section 6: `[test_namespace]`, `[start_symbols]`, `[exclude_symbols]`.
// `#` and `;` introduce line comments. No third-party INI/TOML library in
// the dependency set parses this bespoke dialect (TOML and this format are
// different grammars), so it is hand-parsed with bufio.Scanner.
func LoadImpactConfig(path string) (*ImpactConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, graphErrors.New(graphErrors.ConfigError, "failed to open impact config", err)
	}
	defer f.Close()

	cfg := &ImpactConfig{}
	var section string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		switch section {
		case "test_namespace":
			if cfg.TestNamespace != "" {
				return nil, graphErrors.New(graphErrors.ConfigError, "[test_namespace] must contain exactly one non-blank line", nil)
			}
			cfg.TestNamespace = line
		case "start_symbols":
			spec, err := parseStartSpec(line)
			if err != nil {
				return nil, graphErrors.New(graphErrors.ConfigError, fmt.Sprintf("invalid [start_symbols] line %q", line), err)
			}
			cfg.StartSymbols = append(cfg.StartSymbols, spec)
		case "exclude_symbols":
			cfg.ExcludeSymbols = append(cfg.ExcludeSymbols, line)
		default:
			return nil, graphErrors.New(graphErrors.ConfigError, fmt.Sprintf("content outside a known section: %q", line), nil)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, graphErrors.New(graphErrors.ConfigError, "failed to read impact config", err)
	}

	if cfg.TestNamespace == "" {
		return nil, graphErrors.New(graphErrors.ConfigError, "missing required [test_namespace] section", nil)
	}
	if len(cfg.StartSymbols) == 0 {
		return nil, graphErrors.New(graphErrors.ConfigError, "missing required [start_symbols] section", nil)
	}

	return cfg, nil
}

// parseStartSpec parses a line of form `kind=<KIND|*>, <pattern>` where the
// kind prefix is optional; absent means "any".
func parseStartSpec(line string) (StartSpec, error) {
	if idx := strings.Index(line, ","); idx >= 0 {
		left := strings.TrimSpace(line[:idx])
		pattern := strings.TrimSpace(line[idx+1:])
		if pattern == "" {
			return StartSpec{}, fmt.Errorf("pattern is empty")
		}
		if strings.HasPrefix(left, "kind=") {
			kind := strings.TrimSpace(strings.TrimPrefix(left, "kind="))
			if kind == "*" {
				kind = ""
			}
			return StartSpec{KindFilter: kind, Pattern: pattern}, nil
		}
		return StartSpec{}, fmt.Errorf("expected kind=<KIND|*> before comma, got %q", left)
	}
	// No comma: the whole line is the pattern, any kind.
	pattern := strings.TrimSpace(line)
	if pattern == "" {
		return StartSpec{}, fmt.Errorf("empty start symbol line")
	}
	return StartSpec{Pattern: pattern}, nil
}
