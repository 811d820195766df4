// Package logging builds the logrus logger shared by the quickgo-release
// commands. Diagnostics go to stderr so stdout stays reserved for command
// results.
package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", ...).
	// Empty means "info".
	Level string

	// Verbose forces the debug level regardless of Level.
	Verbose bool

	// JSON selects the JSON formatter instead of the text formatter.
	JSON bool

	// Output overrides the destination. Defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger configured by opts. An unknown level falls back to
// info and is reported as a warning on the returned logger.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetLevel(logrus.InfoLevel)
	if opts.Level != "" {
		if level, err := logrus.ParseLevel(opts.Level); err == nil {
			log.SetLevel(level)
		} else {
			log.Warnf("invalid log level %s, defaulting to info", opts.Level)
		}
	}
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

// ForRun returns an entry tagged with the command name and a fresh run
// identifier, so interleaved output from concurrent CLI invocations can be
// told apart.
func ForRun(log logrus.FieldLogger, command string) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"command": command,
		"run":     uuid.NewString(),
	})
}
