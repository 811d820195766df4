// git.go implements the "quickgo-release git" command.
//
// The git command stages all changes, commits them, optionally tags the
// commit and pushes to the remote. The sequencing lives in the release
// package; this file wires it to a real git client.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quickgo-release/internal/git"
	"github.com/shinji-kodama/quickgo-release/internal/release"
)

// NewGitCommand creates the "git" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewGitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git [m=<message>] [tag | tag=<name>] [origin | origin=<branch>]",
		Short: "Commit, tag and push all changes",
		Long: `Stage every change, commit, optionally tag, and push.

Arguments:
  m=<message>      Commit message (default from the defaults file, or "QuickGo update")
  tag              Tag the commit with the next patch version after the latest tag
  tag=<name>       Tag the commit with <name>
  origin=<branch>  Push to <branch> on the remote and set it as upstream
  origin           Push to the remote's default branch (the default)

Examples:
  quickgo-release git m="Fix login redirect"
  quickgo-release git m="Release" tag
  quickgo-release git tag=v2.0.0 origin=main
  quickgo-release --dry-run git tag`,

		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGit(cmd, args)
		},
	}

	return cmd
}

// runGit is the main logic function for the git command.
func runGit(cmd *cobra.Command, args []string) error {
	env, err := prepare(cmd, "git", args)
	if err != nil {
		return err
	}

	client := git.NewClient(git.NewExecRunner(), env.dir,
		git.WithDryRun(dryRun),
		git.WithLogger(env.log),
	)

	orchestrator := release.New(client, release.Options{
		CommitMessage: env.defaults.CommitMessage,
		TagPrefix:     env.defaults.TagPrefix,
		Remote:        env.defaults.Remote,
		DryRun:        dryRun,
	}, env.log)

	result := orchestrator.Run(cmd.Context(), env.inv)
	if !result.OK() {
		env.log.WithField("kind", result.Kind).Debug("Release failed")
	}
	return printResult(cmd.OutOrStdout(), result)
}
