// Package errors provides structured error types for phylo.
//
// Every failure the tree core reports is a typed, coded error rather than a
// silent default. A missing branch length, for example, surfaces as
// [ErrCodeMissingLengths] and is never treated as zero.
//
// # Error Codes
//
//   - MALFORMED_TOPOLOGY: cyclic, disconnected or multi-rooted edge sets
//   - SYNTAX_ERROR: unparseable Newick text
//   - UNKNOWN_TIP / UNKNOWN_LABEL: a node or name that is not in the tree
//   - MISSING_LENGTHS: an operation needs branch lengths that are unset
//   - AMBIGUOUS_MATCH: name matching found duplicate candidates
//
// The core never retries: these are structural data problems, not
// transient ones.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownTip, "tip %q not in tree", name)
//	if errors.Is(err, errors.ErrCodeUnknownTip) {
//	    // Handle missing tip
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Tree structure errors
	ErrCodeMalformedTopology Code = "MALFORMED_TOPOLOGY"
	ErrCodeSyntax            Code = "SYNTAX_ERROR"
	ErrCodeUnknownTip        Code = "UNKNOWN_TIP"
	ErrCodeUnknownLabel      Code = "UNKNOWN_LABEL"
	ErrCodeMissingLengths    Code = "MISSING_LENGTHS"
	ErrCodeAmbiguousMatch    Code = "AMBIGUOUS_MATCH"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed
// by the position and reason of a [SyntaxError] cause if there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		var se *SyntaxError
		if errors.As(e.Cause, &se) {
			return e.Message + ": " + se.Error()
		}
		return e.Message
	}
	return err.Error()
}

// SyntaxError describes a Newick parse failure at a specific position.
// It is always carried as the Cause of an [ErrCodeSyntax] error.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}
