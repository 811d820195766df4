package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quickgo-release/internal/config"
	"github.com/shinji-kodama/quickgo-release/internal/logging"
	"github.com/shinji-kodama/quickgo-release/internal/model"
)

// commandEnv is what every subcommand needs before running its handler:
// the parsed arguments, the resolved defaults and a run-scoped logger.
type commandEnv struct {
	inv      *model.InvocationContext
	defaults config.Defaults
	log      *logrus.Entry
	dir      string
}

// prepare parses positional args, loads the defaults file and builds the
// logger for the named command.
func prepare(cmd *cobra.Command, name string, args []string) (*commandEnv, error) {
	inv, err := model.ParseArgs(args)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid argument", err)
	}

	path := configPath
	if path == "" {
		// Without a resolvable home directory there is simply no defaults
		// file; the built-in values apply.
		path, _ = config.DefaultPath()
	}

	defaults := config.Builtin()
	if path != "" {
		defaults, err = config.Load(path)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load defaults", err)
		}
	}

	logger := logging.New(logging.Options{
		Level:   defaults.LogLevel,
		Verbose: verbose,
		JSON:    jsonOutput,
		Output:  cmd.ErrOrStderr(),
	})
	log := logging.ForRun(logger, name)
	log.WithField("args", inv.Keys()).Debug("Parsed invocation arguments")

	dir := workDir
	if dir == "" {
		dir = "."
	}

	return &commandEnv{inv: inv, defaults: defaults, log: log, dir: dir}, nil
}
