package chunker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/craigsteyn/sourcetraildb/internal/complexity"
	"github.com/craigsteyn/sourcetraildb/internal/storage"
)

// VerifySource parses f's text with tree-sitter as a diagnostic
// cross-check: it does not feed chunk slicing (the recorded (line,col)
// ranges come entirely from the index database), it only surfaces a
// warning when the file's language is unrecognized or tree-sitter fails
// to parse it, signaling the source has drifted since indexing. warned
// reports whether the file's language has no tree-sitter grammar wired
// up (not itself an error).
func VerifySource(f storage.File, text string) (warned bool, err error) {
	lang, ok := complexity.LanguageFromExtension(strings.ToLower(filepath.Ext(f.Path)))
	if !ok {
		return true, nil
	}

	parser := complexity.NewParser()
	root, err := parser.Parse(context.Background(), []byte(text), lang)
	if err != nil {
		return false, fmt.Errorf("tree-sitter parse of %s: %w", f.Path, err)
	}
	if root == nil {
		return false, fmt.Errorf("tree-sitter returned no root node for %s", f.Path)
	}
	return false, nil
}
