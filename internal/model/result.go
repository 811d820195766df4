package model

import "fmt"

// Result is the terminal outcome of a command handler. A zero ExitCode
// signals success; anything else is a failure with Message as the
// human-readable cause and Kind as its classification.
type Result struct {
	ExitCode ExitCode  `json:"exitCode"`
	Kind     ErrorKind `json:"kind,omitempty"`
	Message  string    `json:"message"`
}

// Success builds a successful Result.
func Success(format string, args ...any) Result {
	return Result{ExitCode: ExitSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failure builds a failed Result whose exit code is derived from kind.
func Failure(kind ErrorKind, format string, args ...any) Result {
	code := kind.ExitCode()
	if code == ExitSuccess {
		code = ExitGeneralError
	}
	return Result{ExitCode: code, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// OK reports whether the result signals success.
func (r Result) OK() bool {
	return r.ExitCode == ExitSuccess
}

// Err converts a failed result into a *CLIError for the cobra error path.
// It returns nil for a successful result.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &CLIError{Code: r.ExitCode, Kind: r.Kind, Message: r.Message}
}
