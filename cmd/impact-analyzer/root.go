package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/craigsteyn/sourcetraildb/internal/config"
	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/impact"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
	"github.com/craigsteyn/sourcetraildb/internal/version"
)

var outputFormat string

var rootCmd = &cobra.Command{
	Use:     "impact-analyzer <db_path> <config_path>",
	Short:   "Find test classes transitively affected by a set of starting symbols",
	Version: version.Version,
	Args:    cobra.ExactArgs(2),
	RunE:    runImpactAnalyzer,
}

func init() {
	rootCmd.SetVersionTemplate("impact-analyzer version {{.Version}}\n")
	rootCmd.Flags().StringVar(&outputFormat, "format", "human", "Output format: human or json")
}

func runImpactAnalyzer(cmd *cobra.Command, args []string) error {
	dbPath, configPath := args[0], args[1]
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel, Tool: "impact-analyzer"})

	cfg, err := config.LoadImpactConfig(configPath)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	nodes, err := db.AllSymbolNodes()
	if err != nil {
		return err
	}
	edges, err := db.AllEdgesBrief()
	if err != nil {
		return err
	}
	g := graph.Build(nodes, edges)

	starts := make([]impact.StartSpec, 0, len(cfg.StartSymbols))
	for _, s := range cfg.StartSymbols {
		starts = append(starts, impact.StartSpec{Kind: storage.SymbolKind(s.KindFilter), Pattern: s.Pattern})
	}

	exclude := make(map[string]struct{}, len(cfg.ExcludeSymbols))
	for _, name := range cfg.ExcludeSymbols {
		exclude[name] = struct{}{}
	}

	result, err := impact.Run(g, starts, impact.Options{
		TestNamespace: cfg.TestNamespace,
		Exclude:       exclude,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	return printResult(result, outputFormat)
}

func printResult(result impact.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	default:
		for _, hit := range result.Hits {
			fmt.Printf("%s\n", hit.TestClassFQN)
			for _, step := range hit.Path {
				fmt.Printf("  <- %s\n", step)
			}
		}
		if result.Incomplete {
			fmt.Fprintln(os.Stderr, "warning: results may be incomplete (safety bound reached)")
		}
	}
	return nil
}
