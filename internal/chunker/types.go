// Package chunker slices each indexed file's source text into per-symbol
// records: one chunk per symbol, bounded by its SCOPE (or sole TOKEN)
// source range, alongside its outgoing references. Output is one JSON
// document per selected file.
package chunker

import "github.com/craigsteyn/sourcetraildb/internal/logging"

// Options configures one chunking run.
type Options struct {
	IndexedRoot     string
	LocalRoot       string
	OutputRoot      string
	PathsToChunk    []string // empty selects every file
	Compress        bool     // write ".json.zst" via zstd instead of ".json"
	VerifySource    bool     // parse each file with tree-sitter before slicing
	Logger          *logging.Logger
}

// ReferenceRecord is one outgoing edge from a chunked symbol.
type ReferenceRecord struct {
	EdgeKind string `json:"edge_kind"`
	TargetID int64  `json:"target_id"`
}

// ChunkRecord is one symbol's sliced source and metadata.
type ChunkRecord struct {
	SymbolID   int64             `json:"symbol_id"`
	SymbolKind string            `json:"symbol_kind"`
	FQN        string            `json:"fqn"`
	SimpleName string            `json:"simple_name"`
	StartLine  int               `json:"start_line"`
	StartCol   int               `json:"start_col"`
	EndLine    int               `json:"end_line"`
	EndCol     int               `json:"end_col"`
	Code       string            `json:"code_chunk"`
	References []ReferenceRecord `json:"references"`
}

// FileRecord is the one JSON document emitted per selected file.
type FileRecord struct {
	FilePath string        `json:"file_path"`
	Chunks   []ChunkRecord `json:"chunks"`
}

// Summary reports what one chunking run did.
type Summary struct {
	FilesSelected int
	FilesSkipped  int // output already existed
	FilesWritten  int
	FilesFailed   int
	SymbolsEmitted int
	VerifyWarnings int
}
