// version.go implements the "quickgo-release version" command.
//
// The version command rewrites the version string in every file of the
// project's version mapping. The project is discovered in --dir (or the
// current directory) from quickgo.yaml or quickgo.json.

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quickgo-release/internal/fsstore"
	"github.com/shinji-kodama/quickgo-release/internal/model"
	"github.com/shinji-kodama/quickgo-release/internal/project"
	"github.com/shinji-kodama/quickgo-release/internal/propagate"
)

// NewVersionCommand creates the "version" cobra command.
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version v=<version>",
		Short: "Update the version string in every mapped file",
		Long: `Rewrite the version in each file listed under context.versionMapping
of the project file (quickgo.yaml or quickgo.json).

Each mapping pairs a file path with a regular expression that has exactly
one capturing group around the version. The first match in each file is
rewritten; files are processed in the order they are declared and the
first failure stops the run.

Example project file:
  name: shop
  context:
    versionMapping:
      version.go: 'Version = "(\d+\.\d+\.\d+)"'
      web/package.json: '"version": "(\d+\.\d+\.\d+)"'

Examples:
  quickgo-release version v=1.4.0
  quickgo-release -C ./shop --dry-run version v=1.4.0`,

		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, args)
		},
	}

	return cmd
}

// runVersion is the main logic function for the version command.
func runVersion(cmd *cobra.Command, args []string) error {
	env, err := prepare(cmd, "version", args)
	if err != nil {
		return err
	}

	// A directory without a project file is reported by the propagator
	// itself (after the version argument is checked), so it is not an
	// error here. A project file that exists but cannot be parsed is.
	proj, err := project.Find(env.dir)
	if err != nil {
		if !errors.Is(err, project.ErrNotFound) {
			return printResult(cmd.OutOrStdout(),
				model.Failure(model.KindProjectResolution, "could not load project: %v", err))
		}
		env.log.Debugf("No project file in %s", env.dir)
	} else {
		env.log.Debugf("Loaded project %s from %s", proj.Name, proj.ConfigFile)
	}

	propagator := propagate.New(fsstore.NewOS(), propagate.Options{DryRun: dryRun}, env.log)
	return printResult(cmd.OutOrStdout(), propagator.Run(cmd.Context(), env.inv, proj))
}
