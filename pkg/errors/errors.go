// =============================================================================
// Disperse Input - Errors
// =============================================================================
//
// ERROR TYPES:
//   - Sentinels : ErrInvalidInput, ErrResolutionBlocked, ErrSubmissionBlocked,
//                 ErrEmptyBatch, ErrUnsupportedFormat, ErrUnknownStrategy
//   - InputError : an operation refused because of invalid lines
//   - ParseError : a .csv or .xlsx source that could not be read
//   - IOError    : a file operation that failed
//
// =============================================================================

// Package errors provides the sentinel and typed errors used across the
// disperse input tool. Callers check them with errors.Is / errors.As.
package errors

import (
	"errors"
	"fmt"
)

// New is an alias for the standard library errors.New.
var New = errors.New

// Sentinel errors.
var (
	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResolutionBlocked indicates that keep-first or combine was requested
	// while the current text still has format, address or amount errors.
	ErrResolutionBlocked = errors.New("duplicate resolution blocked by invalid lines")

	// ErrSubmissionBlocked indicates that submission was requested while the
	// current text still has format, address or amount errors.
	ErrSubmissionBlocked = errors.New("submission blocked by invalid lines")

	// ErrEmptyBatch indicates that there is nothing to submit.
	ErrEmptyBatch = errors.New("no records to submit")

	// ErrUnsupportedFormat indicates an input or output format that is not handled.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnknownStrategy indicates an unrecognised resolution strategy name.
	ErrUnknownStrategy = errors.New("unknown resolution strategy")
)

// InputError carries the line-level messages that blocked an operation.
type InputError struct {
	Op       string
	Messages []string
	Err      error
}

// Error implements the error interface
func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v (%d problem(s))", e.Op, e.Err, len(e.Messages))
}

// Unwrap implements errors.Unwrap
func (e *InputError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError creates a new InputError
func NewInputError(op string, err error, messages []string) *InputError {
	return &InputError{Op: op, Messages: messages, Err: err}
}

// ParseError represents an error when reading an input source
type ParseError struct {
	Format  string // "csv", "xlsx", "text"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// IsResolutionBlocked checks if an error is a blocked resolution
func IsResolutionBlocked(err error) bool {
	return errors.Is(err, ErrResolutionBlocked)
}

// IsSubmissionBlocked checks if an error is a blocked submission
func IsSubmissionBlocked(err error) bool {
	return errors.Is(err, ErrSubmissionBlocked)
}

// IsInvalidInput checks if an error was caused by invalid input
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
