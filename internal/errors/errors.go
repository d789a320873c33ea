// Package errors defines the typed failure taxonomy shared by the storage
// adapter, traversal components, and CLI entrypoints.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes.
type ErrorCode string

const (
	// ConfigError indicates a malformed config, a missing required section,
	// or an unknown kind name.
	ConfigError ErrorCode = "CONFIG_ERROR"
	// StorageError indicates the index DB cannot be opened, has an
	// incompatible schema version, is missing a required table, or a query
	// failed at the driver level.
	StorageError ErrorCode = "STORAGE_ERROR"
	// ResolutionError indicates a start spec matched zero symbols (fatal for
	// the test-impact traverser), or a test namespace was not found (fatal
	// for the test-mapping indexer).
	ResolutionError ErrorCode = "RESOLUTION_ERROR"
	// FileIoError indicates a source file could not be read. Non-fatal in
	// the chunker: the offending file is skipped with a warning.
	FileIoError ErrorCode = "FILE_IO_ERROR"
	// LimitExceeded indicates a traversal hit its safety bound. Non-fatal;
	// surfaced as an incomplete-results flag on the run's output.
	LimitExceeded ErrorCode = "LIMIT_EXCEEDED"
	// Internal indicates an invariant violation, e.g. an edge endpoint id
	// outside the graph's max_id range. Fatal with diagnostic.
	Internal ErrorCode = "INTERNAL"
)

// GraphError carries a stable code, a human message, and an optional
// underlying cause. It is the single error type returned across component
// boundaries (C1, C4, C5, C6); none of this module's failures are used as
// exceptions for control flow.
type GraphError struct {
	Code    ErrorCode
	Message string
	Details interface{}
	cause   error
}

// New creates a GraphError.
func New(code ErrorCode, message string, cause error) *GraphError {
	return &GraphError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *GraphError) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured context to the error and returns it for
// chaining.
func (e *GraphError) WithDetails(details interface{}) *GraphError {
	e.Details = details
	return e
}

// Is reports whether target is a GraphError with the same code, enabling
// errors.Is(err, errors.New(errors.StorageError, "", nil)) style checks.
func (e *GraphError) Is(target error) bool {
	t, ok := target.(*GraphError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
