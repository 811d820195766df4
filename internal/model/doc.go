// Package model defines the domain types and value objects for the
// quickgo-release CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (InvocationContext, ProjectMetadata, VersionMapping, Result)
// are created at the start of a single command invocation and discarded at
// its end. Nothing here is persisted.
//
// The package also defines exit codes (ExitCode), the error taxonomy
// (ErrorKind) and a custom error type (CLIError) that carries exit codes for
// proper OS process exit handling.
package model
