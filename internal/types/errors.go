package types

import (
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================
// Every failure in the pipeline is one of these two kinds. Neither is
// recovered from; both propagate to the command and end the run.

// IOError reports a file that could not be opened, read, written or closed.
type IOError struct {
	// Op is the operation that failed ("open", "read", "create", "write", "close").
	Op string

	// Path is the file involved.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports input that could not be decoded into records.
type ParseError struct {
	// Path is the input file.
	Path string

	// Line is the 1-indexed line (or sheet row) where decoding failed.
	// Zero if unknown.
	Line int

	// Column is the 1-indexed column, zero if unknown.
	Column int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
