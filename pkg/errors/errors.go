// Package errors provides structured error types for spyn.
//
// Every failure that crosses a package boundary carries a Code naming the
// phase it happened in, so the CLI can report a single annotated chain and
// tests can assert on the phase without matching message text.
//
// # Error Codes
//
//   - INVALID_INPUT, CONFIG: bad flags or configuration
//   - IO: reading scripts and requirement files, creating directories,
//     writing the manifest
//   - BUILDER_MISSING: the uv executable cannot be located
//   - BUILD, INSTALL: the builder exited non-zero
//   - PUBLISH: the scratch environment could not be renamed into the cache
//   - LAUNCH: the target executable could not be started
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeInstall, cause, "install requirements into %s", dir)
//	if errors.Is(err, errors.ErrCodeInstall) {
//	    // ...
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the phases of an invocation.
const (
	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeConfig       Code = "CONFIG"

	// Filesystem errors
	ErrCodeIO       Code = "IO"
	ErrCodeNotFound Code = "NOT_FOUND"

	// Environment build errors
	ErrCodeBuilderMissing Code = "BUILDER_MISSING"
	ErrCodeBuild          Code = "BUILD"
	ErrCodeInstall        Code = "INSTALL"
	ErrCodePublish        Code = "PUBLISH"

	// Process errors
	ErrCodeLaunch Code = "LAUNCH"
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
// It unwraps the error chain looking for an *Error with a matching code,
// so an INSTALL error wrapped by an outer IO error still reports INSTALL.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message chain without code prefixes.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// ExitError reports that a spawned child process exited with a non-zero
// status. main propagates Code as the process exit code.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with status %d", e.Code)
}
