// root_test.go drives the root command end to end: argument parsing,
// defaults loading, project discovery, output formatting and exit codes.
// The git tests use --dry-run with every value given explicitly, so no
// git binary is needed.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/quickgo-release/internal/model"
)

// execute runs the root command with args and returns the exit code and
// the captured stdout/stderr. XDG_CONFIG_HOME points at an empty directory
// so the user's own defaults file never leaks into a test.
func execute(t *testing.T, args ...string) (model.ExitCode, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	code := run(context.Background(), root)
	return code, stdout.String(), stderr.String()
}

// writeProject creates a project directory with a quickgo.yaml mapping
// VERSION to a simple pattern.
func writeProject(t *testing.T, version string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quickgo.yaml"), []byte(
		"name: demo\ncontext:\n  versionMapping:\n    VERSION: 'version: (\\d+\\.\\d+\\.\\d+)'\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("version: "+version+"\n"), 0644))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVersionCommand_UpdatesFiles(t *testing.T) {
	dir := writeProject(t, "1.0.0")

	code, stdout, _ := execute(t, "-C", dir, "version", "v=1.1.0")

	assert.Equal(t, model.ExitSuccess, code)
	assert.Equal(t, "updated project 'demo' to version 1.1.0\n", stdout)
	assert.Equal(t, "version: 1.1.0\n", readFile(t, filepath.Join(dir, "VERSION")))
}

func TestVersionCommand_JSONOutput(t *testing.T) {
	dir := writeProject(t, "1.0.0")

	code, stdout, _ := execute(t, "--json", "--dir", dir, "version", "v=2.0.0")
	require.Equal(t, model.ExitSuccess, code)

	var out struct {
		Message  string `json:"message"`
		ExitCode int    `json:"exitCode"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "updated project 'demo' to version 2.0.0", out.Message)
	assert.Equal(t, 0, out.ExitCode)
}

func TestVersionCommand_DryRunLeavesFiles(t *testing.T) {
	dir := writeProject(t, "1.0.0")

	code, stdout, stderr := execute(t, "--dry-run", "-C", dir, "version", "v=1.1.0")

	assert.Equal(t, model.ExitSuccess, code)
	assert.Equal(t, "dry run: updated project 'demo' to version 1.1.0\n", stdout)
	assert.Contains(t, stderr, "+ write VERSION (1.0.0 -> 1.1.0)")
	assert.Equal(t, "version: 1.0.0\n", readFile(t, filepath.Join(dir, "VERSION")))
}

// TestVersionCommand_Failures checks the exit code and stderr message for
// each way the version command can fail before or during propagation.
func TestVersionCommand_Failures(t *testing.T) {
	empty := t.TempDir()

	broken := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(broken, "quickgo.yaml"), []byte("name: [\n"), 0644))

	unmapped := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(unmapped, "quickgo.yaml"), []byte("name: bare\n"), 0644))

	stale := writeProject(t, "1.0.0")
	require.NoError(t, os.WriteFile(filepath.Join(stale, "VERSION"), []byte("nothing to see\n"), 0644))

	tests := []struct {
		name    string
		args    []string
		code    model.ExitCode
		message string
	}{
		{"missing version", []string{"-C", writeProject(t, "1.0.0"), "version"}, model.ExitMissingArgument, "Error: version not provided in arguments: v=<version>"},
		{"bare version flag", []string{"-C", writeProject(t, "1.0.0"), "version", "v"}, model.ExitMissingArgument, "v=<version>"},
		{"no project", []string{"-C", empty, "version", "v=1.0.0"}, model.ExitProjectNotFound, "must be run in a QuickGo project"},
		{"broken project", []string{"-C", broken, "version", "v=1.0.0"}, model.ExitProjectNotFound, "could not load project"},
		{"no mapping", []string{"-C", unmapped, "version", "v=1.0.0"}, model.ExitProjectNotFound, "project.context.versionMapping"},
		{"version not in file", []string{"-C", stale, "version", "v=1.1.0"}, model.ExitVersionNotFound, "version not found in file VERSION"},
		{"empty argument name", []string{"version", "=1.0.0"}, model.ExitGeneralError, "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.message)
		})
	}
}

func TestVersionCommand_JSONError(t *testing.T) {
	code, stdout, stderr := execute(t, "--json", "-C", t.TempDir(), "version")

	assert.Equal(t, model.ExitMissingArgument, code)
	assert.Empty(t, stdout)

	var out struct {
		Error struct {
			Message string `json:"message"`
			Kind    string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stderr), &out))
	assert.Equal(t, "version not provided in arguments: v=<version>", out.Error.Message)
	assert.Equal(t, string(model.KindMissingArgument), out.Error.Kind)
}

func TestGitCommand_DryRun(t *testing.T) {
	code, stdout, stderr := execute(t, "--dry-run", "-C", t.TempDir(),
		"git", "m=Release day", "tag=v1.0.0", "origin=main")

	assert.Equal(t, model.ExitSuccess, code)
	assert.Equal(t, "dry run: changes committed and pushed to origin/main with tag v1.0.0\n", stdout)
	assert.Contains(t, stderr, "+ git add .")
	assert.Contains(t, stderr, "+ git commit -m Release day")
	assert.Contains(t, stderr, "+ git tag v1.0.0")
	assert.Contains(t, stderr, "+ git push -u origin main --tags")
}

// TestGitCommand_Defaults verifies that the defaults file supplies the
// commit message and remote.
func TestGitCommand_Defaults(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "release.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
[commit]
message = "Chore: sync"

[remote]
name = "upstream"
`), 0644))

	code, stdout, stderr := execute(t, "--dry-run", "--config", cfg, "-C", t.TempDir(), "git", "origin=dev")

	assert.Equal(t, model.ExitSuccess, code)
	assert.Equal(t, "dry run: changes committed and pushed to upstream/dev\n", stdout)
	assert.Contains(t, stderr, "+ git commit -m Chore: sync")
	assert.Contains(t, stderr, "+ git push -u upstream dev")
}

func TestGitCommand_BadDefaultsFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "release.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[commit\nmessage = 1\n"), 0644))

	code, stdout, stderr := execute(t, "--dry-run", "--config", cfg, "git")

	assert.Equal(t, model.ExitGeneralError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: failed to load defaults")
}

func TestRoot_UnknownFlag(t *testing.T) {
	code, _, stderr := execute(t, "--no-such-flag", "git")

	assert.Equal(t, model.ExitGeneralError, code)
	assert.Contains(t, stderr, "Error: unknown flag")
}

func TestPrintError(t *testing.T) {
	t.Run("text with detail", func(t *testing.T) {
		jsonOutput = false
		var buf bytes.Buffer
		printError(&buf, model.KindNone, "failed to load defaults", assert.AnError)
		assert.Equal(t, "Error: failed to load defaults: "+assert.AnError.Error()+"\n", buf.String())
	})

	t.Run("json with kind", func(t *testing.T) {
		jsonOutput = true
		t.Cleanup(func() { jsonOutput = false })

		var buf bytes.Buffer
		printError(&buf, model.KindFileIO, "could not write file a.txt", nil)

		var out map[string]map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "could not write file a.txt", out["error"]["message"])
		assert.Equal(t, "file-io-failure", out["error"]["kind"])
		_, hasDetail := out["error"]["detail"]
		assert.False(t, hasDetail)
	})
}
