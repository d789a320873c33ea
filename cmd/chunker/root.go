package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craigsteyn/sourcetraildb/internal/chunker"
	"github.com/craigsteyn/sourcetraildb/internal/config"
	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/logging"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
	"github.com/craigsteyn/sourcetraildb/internal/version"
)

var (
	compressOutput bool
	verifySource   bool
)

var rootCmd = &cobra.Command{
	Use:     "chunker <config.json>",
	Short:   "Slice every indexed symbol's source range into per-file JSON chunk documents",
	Version: version.Version,
	Args:    cobra.ExactArgs(1),
	RunE:    runChunker,
}

func init() {
	rootCmd.SetVersionTemplate("chunker version {{.Version}}\n")
	rootCmd.Flags().BoolVar(&compressOutput, "compress", false, "Write zstd-compressed .json.zst chunk files")
	rootCmd.Flags().BoolVar(&verifySource, "verify-source", false, "Parse each selected file with tree-sitter and warn on drift from the index")
}

func runChunker(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel, Tool: "chunker"})

	cfg, err := config.LoadChunkerConfig(args[0])
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath, logger)
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

	c := chunker.New(db, g, chunker.Options{
		IndexedRoot:  cfg.IndexedRoot,
		LocalRoot:    cfg.RootDir,
		OutputRoot:   cfg.ChunkOutputRoot,
		PathsToChunk: cfg.PathsToChunk,
		Compress:     compressOutput,
		VerifySource: verifySource,
		Logger:       logger,
	})

	summary, err := c.Run()
	if err != nil {
		return err
	}

	fmt.Printf("files selected: %d\n", summary.FilesSelected)
	fmt.Printf("files written: %d\n", summary.FilesWritten)
	fmt.Printf("files skipped (already chunked): %d\n", summary.FilesSkipped)
	fmt.Printf("files failed: %d\n", summary.FilesFailed)
	fmt.Printf("symbols emitted: %d\n", summary.SymbolsEmitted)
	if summary.VerifyWarnings > 0 {
		fmt.Printf("tree-sitter verification warnings: %d\n", summary.VerifyWarnings)
	}
	return nil
}
