// Package cli implements the cobra-based CLI commands for quickgo-release.
//
// Each subcommand (git, version) is defined in its own file within this
// package. This file defines the root command that serves as the parent
// for all subcommands and handles global flags, result output and exit
// codes.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quickgo-release/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// It also switches the log formatter to JSON.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool

	// workDir is the directory git runs in and the project is discovered
	// from. Empty means the current working directory.
	workDir string

	// configPath overrides the location of the user-level defaults file.
	configPath string

	// dryRun prints mutating git commands and planned file rewrites
	// instead of performing them.
	dryRun bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; the git and version subcommands do the work.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quickgo-release",
		Short: "Commit, tag and push a QuickGo project, or bump its version strings",
		Long: `quickgo-release automates the release chores of a QuickGo project.

"git" stages all changes, commits them, optionally tags the commit (or
auto-increments the latest tag) and pushes to the remote.

"version" rewrites the version string in every file listed in the
project's context.versionMapping.

Arguments are written as key=value pairs or bare keys, e.g.
  quickgo-release git m="Fix login" tag
  quickgo-release version v=1.4.0`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the defaults file (default: $XDG_CONFIG_HOME/quickgo/release.toml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print what would be done without changing anything")

	rootCmd.AddCommand(NewGitCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and exits the process with the resulting
// exit code. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, rootCmd)
	stop()
	os.Exit(int(code))
}

// run executes rootCmd and translates its error into an exit code.
// CLIError types carry their own exit codes; other errors (including
// cobra's own flag and usage errors) default to exit code 1.
func run(ctx context.Context, rootCmd *cobra.Command) model.ExitCode {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return model.ExitSuccess
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(rootCmd.ErrOrStderr(), cliErr.Kind, cliErr.Message, cliErr.Err)
		return cliErr.Code
	}

	printError(rootCmd.ErrOrStderr(), model.KindNone, err.Error(), nil)
	return model.ExitGeneralError
}

// printResult writes a successful command result to w and converts a
// failed one into the error returned to cobra.
func printResult(w io.Writer, result model.Result) error {
	if !result.OK() {
		return result.Err()
	}

	if jsonOutput {
		out := struct {
			Message  string         `json:"message"`
			ExitCode model.ExitCode `json:"exitCode"`
		}{result.Message, result.ExitCode}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintln(w, result.Message)
	return nil
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, kind model.ErrorKind, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"message": message,
		}
		if kind != model.KindNone {
			errObj["kind"] = kind.String()
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		// Errors go to stderr even in JSON mode because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
