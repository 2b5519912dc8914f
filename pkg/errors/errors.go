// Package errors provides custom error types for the rollcall system.
// These errors enable programmatic error checking and map onto the
// error taxonomy exposed to batch callers (VALIDATION, IO, UNKNOWN).
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the rollcall system
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrIO indicates that the backing store could not be read or written
	ErrIO = errors.New("io failure")

	// ErrStale indicates that an update lost an optimistic-concurrency check.
	// Reserved: nothing in the current engine produces it.
	ErrStale = errors.New("stale update")
)

// Code identifies an error kind in the batch response taxonomy.
type Code string

// Error codes surfaced to batch callers.
const (
	CodeValidation Code = "VALIDATION"
	CodeIO         Code = "IO"
	CodeStale      Code = "STALE_UPDATE"
	CodeUnknown    Code = "UNKNOWN"
)

// CodeOf maps any error to its taxonomy code. Unrecognized errors
// (including nil wrapping mistakes) report CodeUnknown.
func CodeOf(err error) Code {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrIO):
		return CodeIO
	case errors.Is(err, ErrStale):
		return CodeStale
	default:
		return CodeUnknown
	}
}

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Index   int // zero-based record index in the batch, -1 when batch-level
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Index >= 0:
		return fmt.Sprintf("validation failed for field %s at record %d: %s", e.Field, e.Index, e.Message)
	case e.Field != "":
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new batch-level ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Index: -1, Message: message}
}

// NewRecordValidationError creates a ValidationError for one record in a batch
func NewRecordValidationError(index int, field, message string) *ValidationError {
	return &ValidationError{Field: field, Index: index, Message: message}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing persisted data.
// It participates in the IO taxonomy: a store whose file cannot be
// decoded is as fatal to a batch as one that cannot be read.
type ParseError struct {
	Format  string // "yaml", "json"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrIO
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, err error) *ParseError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// BatchError represents a failure of an entire batch operation
type BatchError struct {
	BatchID string
	Err     error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	if e.BatchID != "" {
		return fmt.Sprintf("batch %s failed: %v", e.BatchID, e.Err)
	}
	return fmt.Sprintf("batch failed: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BatchError) Unwrap() error {
	return e.Err
}

// NewBatchError creates a new BatchError
func NewBatchError(batchID string, err error) *BatchError {
	return &BatchError{BatchID: batchID, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsIO checks if an error is an I/O error
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err)
}
