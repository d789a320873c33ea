package chunker

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/craigsteyn/sourcetraildb/internal/graph"
	"github.com/craigsteyn/sourcetraildb/internal/namecodec"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// Chunker drives C6: file selection, skip-existing, per-file slicing and
// emission, against a closed, read-only graph plus the still-open storage
// adapter (for file/location/symbol-in-file lookups the graph does not
// carry).
type Chunker struct {
	db   *storage.DB
	g    *graph.Graph
	opts Options
}

// New returns a Chunker bound to db and g.
func New(db *storage.DB, g *graph.Graph, opts Options) *Chunker {
	return &Chunker{db: db, g: g, opts: opts}
}

// Run selects files, skips those already chunked, and emits one JSON
// document per remaining file.
func (c *Chunker) Run() (Summary, error) {
	files, err := c.db.AllFiles()
	if err != nil {
		return Summary{}, err
	}

	prefixes := resolvePrefixes(c.opts.PathsToChunk, c.opts.IndexedRoot, c.opts.LocalRoot)

	var summary Summary
	for _, f := range files {
		if !fileSelected(f.Path, prefixes) {
			continue
		}
		summary.FilesSelected++

		outPath := c.outputPathFor(f)
		if _, err := os.Stat(outPath); err == nil {
			summary.FilesSkipped++
			continue
		}

		record, symbolCount, verifyWarned, err := c.chunkFile(f)
		if err != nil {
			summary.FilesFailed++
			if c.opts.Logger != nil {
				c.opts.Logger.Warn("skipping file", map[string]interface{}{"file": f.Path, "error": err.Error()})
			}
			continue
		}
		if verifyWarned {
			summary.VerifyWarnings++
		}

		if err := c.writeRecord(outPath, record); err != nil {
			summary.FilesFailed++
			if c.opts.Logger != nil {
				c.opts.Logger.Warn("failed writing chunk file", map[string]interface{}{"file": f.Path, "error": err.Error()})
			}
			continue
		}
		summary.FilesWritten++
		summary.SymbolsEmitted += symbolCount
	}

	return summary, nil
}

// outputPathFor computes output_root/relative_to(indexed_root)+".json",
// falling back to relative-to-local or the basename, per spec.
func (c *Chunker) outputPathFor(f storage.File) string {
	rel, ok := relativeTo(f.Path, c.opts.IndexedRoot)
	if !ok {
		rel, ok = relativeTo(f.Path, c.opts.LocalRoot)
	}
	if !ok {
		rel = filepath.Base(normalizePath(f.Path))
	}
	suffix := ".json"
	if c.opts.Compress {
		suffix = ".json.zst"
	}
	return filepath.Join(c.opts.OutputRoot, rel+suffix)
}

// readSource tries the mapped local path, then local_root joined with the
// path relative to indexed_root, then the recorded path as-is.
func (c *Chunker) readSource(f storage.File) (string, error) {
	candidates := []string{mapDBPathToLocal(f.Path, c.opts.IndexedRoot, c.opts.LocalRoot)}
	if rel, ok := relativeTo(f.Path, c.opts.IndexedRoot); ok {
		candidates = append(candidates, joinPath(c.opts.LocalRoot, rel))
	}
	candidates = append(candidates, f.Path)

	var lastErr error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return string(data), nil
		}
		lastErr = err
	}
	return "", lastErr
}

// chunkFile builds the FileRecord for one selected file.
func (c *Chunker) chunkFile(f storage.File) (FileRecord, int, bool, error) {
	text, err := c.readSource(f)
	if err != nil {
		return FileRecord{}, 0, false, err
	}

	verifyWarned := false
	if c.opts.VerifySource {
		if warned, err := VerifySource(f, text); err != nil {
			if c.opts.Logger != nil {
				c.opts.Logger.Warn("tree-sitter verification failed", map[string]interface{}{"file": f.Path, "error": err.Error()})
			}
			verifyWarned = true
		} else {
			verifyWarned = warned
		}
	}

	offsets := lineOffsets(text)

	symbols, err := c.db.SymbolsInFiles([]int64{f.ID})
	if err != nil {
		return FileRecord{}, 0, false, err
	}

	relPath, ok := relativeTo(f.Path, c.opts.IndexedRoot)
	if !ok {
		relPath = normalizePath(f.Path)
	}
	record := FileRecord{FilePath: relPath}
	for _, sym := range symbols {
		chunk, ok, err := c.chunkSymbol(sym, f, text, offsets)
		if err != nil {
			return FileRecord{}, 0, false, err
		}
		if ok {
			record.Chunks = append(record.Chunks, chunk)
		}
	}

	return record, len(record.Chunks), verifyWarned, nil
}

// chunkSymbol locates sym's scope (or sole token) location in f, slices
// its source text, and collects its outgoing references.
func (c *Chunker) chunkSymbol(sym storage.Node, f storage.File, text string, offsets []int) (ChunkRecord, bool, error) {
	locations, err := c.db.LocationsForSymbolInFile(sym.ID, f.ID)
	if err != nil {
		return ChunkRecord{}, false, err
	}

	loc, ok := pickLocation(locations)
	if !ok {
		return ChunkRecord{}, false, nil
	}

	start, end := byteRange(offsets, len(text), loc.StartLine, loc.StartCol, loc.EndLine, loc.EndCol)

	h := c.g.Hierarchy(sym.ID)
	kind, _ := storage.SymbolKindOf(sym.NodeKind)

	var refs []ReferenceRecord
	for _, e := range c.g.Outgoing(sym.ID) {
		refs = append(refs, ReferenceRecord{EdgeKind: string(e.Kind), TargetID: e.Neighbor})
	}

	last := namecodec.LastElement(h)
	return ChunkRecord{
		SymbolID:   sym.ID,
		SymbolKind: string(kind),
		FQN:        last.Prefix + c.g.FQN(sym.ID) + last.Postfix,
		SimpleName: last.Name,
		StartLine:  loc.StartLine,
		StartCol:   loc.StartCol,
		EndLine:    loc.EndLine,
		EndCol:     loc.EndCol,
		Code:       text[start:end],
		References: refs,
	}, true, nil
}

// pickLocation prefers the first SCOPE location, falling back to the
// first TOKEN location; returns ok=false if neither kind is present.
func pickLocation(locations []storage.SourceLocation) (storage.SourceLocation, bool) {
	for _, l := range locations {
		if l.Kind == storage.LocationScope {
			return l, true
		}
	}
	for _, l := range locations {
		if l.Kind == storage.LocationToken {
			return l, true
		}
	}
	return storage.SourceLocation{}, false
}

// writeRecord marshals record to JSON and writes it to outPath, creating
// parent directories and optionally zstd-compressing the output.
func (c *Chunker) writeRecord(outPath string, record FileRecord) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if !c.opts.Compress {
		_, err = out.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
