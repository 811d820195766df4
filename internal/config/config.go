// Package config loads the optional user-level defaults for quickgo-release.
//
// Defaults live in a TOML file, by default
// $XDG_CONFIG_HOME/quickgo/release.toml (or ~/.config/quickgo/release.toml):
//
//	[commit]
//	message = "QuickGo update"
//
//	[tag]
//	prefix = "v"
//
//	[remote]
//	name = "origin"
//
//	[log]
//	level = "info"
//
// Every key is optional. A missing file yields the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

const (
	// DefaultCommitMessage is the commit message used when `m` is absent.
	DefaultCommitMessage = "QuickGo update"

	// DefaultTagPrefix is the prefix of release tags.
	DefaultTagPrefix = "v"

	// DefaultRemote is the remote pushed to.
	DefaultRemote = "origin"

	// DefaultLogLevel is the logrus level name used without --verbose.
	DefaultLogLevel = "info"

	fileName = "release.toml"
)

// Defaults holds the resolved configuration values.
type Defaults struct {
	CommitMessage string
	TagPrefix     string
	Remote        string
	LogLevel      string
}

// Builtin returns the built-in defaults.
func Builtin() Defaults {
	return Defaults{
		CommitMessage: DefaultCommitMessage,
		TagPrefix:     DefaultTagPrefix,
		Remote:        DefaultRemote,
		LogLevel:      DefaultLogLevel,
	}
}

// DefaultPath returns the location of the user-level defaults file.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quickgo", fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quickgo", fileName), nil
}

// Load reads defaults from path. A missing file is not an error; a file
// that cannot be parsed, or that holds a non-string value for a known key,
// is.
func Load(path string) (Defaults, error) {
	d := Builtin()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return d, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	tree, err := toml.LoadBytes(data)
	if err != nil {
		return d, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"commit.message", &d.CommitMessage},
		{"tag.prefix", &d.TagPrefix},
		{"remote.name", &d.Remote},
		{"log.level", &d.LogLevel},
	}
	for _, f := range fields {
		if !tree.Has(f.key) {
			continue
		}
		s, ok := tree.Get(f.key).(string)
		if !ok {
			return d, fmt.Errorf("config %s: %s must be a string", path, f.key)
		}
		*f.dst = s
	}

	if d.CommitMessage == "" {
		return d, fmt.Errorf("config %s: commit.message must not be empty", path)
	}
	if d.Remote == "" {
		d.Remote = DefaultRemote
	}
	return d, nil
}
