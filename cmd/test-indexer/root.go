package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
	"github.com/craigsteyn/sourcetraildb/internal/testmap"
	"github.com/craigsteyn/sourcetraildb/internal/version"
)

var migrationsPath string

var rootCmd = &cobra.Command{
	Use:     "test-indexer <source_db> <target_db> <test_namespace>",
	Short:   "Index every reachable-symbol-to-test-method pair into a companion database",
	Version: version.Version,
	Args:    cobra.ExactArgs(3),
	RunE:    runTestIndexer,
}

func init() {
	rootCmd.SetVersionTemplate("test-indexer version {{.Version}}\n")
	rootCmd.Flags().StringVar(&migrationsPath, "migrations", "", "Optional migrations.yaml describing extra indexes to create on the companion database before indexing")
}

func runTestIndexer(cmd *cobra.Command, args []string) error {
	sourceDBPath, targetDBPath, testNamespace := args[0], args[1], args[2]
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel, Tool: "test-indexer"})

	db, err := storage.Open(sourceDBPath, logger)
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

	companion, err := storage.OpenCompanion(targetDBPath, logger)
	if err != nil {
		return err
	}
	defer companion.Close()

	if err := companion.ApplyMigrations(migrationsPath); err != nil {
		return err
	}

	summary, err := testmap.Run(g, companion, testmap.Options{
		TestNamespace: testNamespace,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("classes found: %d\n", summary.ClassesFound)
	fmt.Printf("methods found: %d\n", summary.MethodsFound)
	fmt.Printf("pairs discovered: %d\n", summary.PairsDiscovered)
	fmt.Printf("pairs inserted: %d\n", summary.Inserted)
	if len(summary.Failed) > 0 {
		fmt.Printf("pairs failed: %d\n", len(summary.Failed))
	}
	return nil
}
