package model

import (
	"errors"
	"fmt"
)

// ExitCode defines standard CLI exit codes.
// These codes allow scripts and CI systems to programmatically determine
// the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitMissingArgument indicates a required invocation argument was absent.
	ExitMissingArgument ExitCode = 2

	// ExitProjectNotFound indicates no project (or no version mapping)
	// could be resolved for the invocation.
	ExitProjectNotFound ExitCode = 3

	// ExitTagParseFailed indicates the latest tag was missing or did not
	// have three numeric components.
	ExitTagParseFailed ExitCode = 4

	// ExitGitError indicates a Git operation (add, commit, tag, push) failed.
	ExitGitError ExitCode = 5

	// ExitVersionNotFound indicates a mapping pattern matched nothing in its file.
	ExitVersionNotFound ExitCode = 6

	// ExitInvalidPattern indicates a mapping pattern failed to compile or
	// did not declare exactly one capturing group.
	ExitInvalidPattern ExitCode = 7

	// ExitFileError indicates a mapped file could not be read or written.
	ExitFileError ExitCode = 8
)

// ErrorKind classifies a command failure. Every kind is terminal for the
// current invocation; none is retried.
type ErrorKind string

const (
	// KindNone is the kind of a successful result.
	KindNone ErrorKind = ""

	// KindBackendCommand marks a failed git invocation. The message carries
	// git's own output.
	KindBackendCommand ErrorKind = "backend-command-failure"

	// KindTagParse marks a missing or malformed latest tag during auto-increment.
	KindTagParse ErrorKind = "tag-parse-failure"

	// KindMissingArgument marks an absent required argument.
	KindMissingArgument ErrorKind = "missing-argument"

	// KindProjectResolution marks a missing project or version mapping.
	KindProjectResolution ErrorKind = "project-resolution-failure"

	// KindVersionNotFound marks a pattern that produced no match in its file.
	KindVersionNotFound ErrorKind = "version-not-found-in-file"

	// KindInvalidPattern marks a pattern that cannot be used for substitution.
	KindInvalidPattern ErrorKind = "invalid-pattern"

	// KindFileIO marks a failed read or write of a mapped file.
	KindFileIO ErrorKind = "file-io-failure"
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// ExitCode returns the process exit code associated with the kind.
func (k ErrorKind) ExitCode() ExitCode {
	switch k {
	case KindNone:
		return ExitSuccess
	case KindBackendCommand:
		return ExitGitError
	case KindTagParse:
		return ExitTagParseFailed
	case KindMissingArgument:
		return ExitMissingArgument
	case KindProjectResolution:
		return ExitProjectNotFound
	case KindVersionNotFound:
		return ExitVersionNotFound
	case KindInvalidPattern:
		return ExitInvalidPattern
	case KindFileIO:
		return ExitFileError
	default:
		return ExitGeneralError
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Kind is the failure classification, if known.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf extracts the exit code carried by err. Errors that are not
// (and do not wrap) a CLIError map to ExitGeneralError; nil maps to ExitSuccess.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
