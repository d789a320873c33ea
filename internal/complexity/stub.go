//go:build !cgo

package complexity

import (
	"errors"
)

// ErrNoCGO is returned when tree-sitter parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("source verification requires CGO (tree-sitter)")

// Parser wraps tree-sitter parsing functionality.
// This is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser creates a new tree-sitter parser.
// Returns nil when CGO is disabled.
func NewParser() *Parser {
	return nil
}

// IsAvailable returns whether tree-sitter parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
