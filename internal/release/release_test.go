package release

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/quickgo-release/internal/git"
	"github.com/shinji-kodama/quickgo-release/internal/model"
)

// fakeResponse is the canned outcome for one git invocation.
type fakeResponse struct {
	out string
	err error
}

// fakeRunner records every git invocation and answers from a table keyed
// by the full argument string (e.g. "tag --sort=committerdate") or, failing
// that, by the subcommand alone (e.g. "push").
type fakeRunner struct {
	calls     []string
	responses map[string]fakeResponse
}

func newFakeRunner(responses map[string]fakeResponse) *fakeRunner {
	if responses == nil {
		responses = map[string]fakeResponse{}
	}
	return &fakeRunner{responses: responses}
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) (string, error) {
	line := strings.Join(args, " ")
	f.calls = append(f.calls, name+" "+line)

	if r, ok := f.responses[line]; ok {
		return r.out, r.err
	}
	if len(args) > 0 {
		if r, ok := f.responses[args[0]]; ok {
			return r.out, r.err
		}
	}
	return "", nil
}

var errExit = errors.New("exit status 1")

func defaultOptions() Options {
	return Options{CommitMessage: "QuickGo update", TagPrefix: "v", Remote: "origin"}
}

func newOrchestrator(t *testing.T, runner *fakeRunner, opts Options) (*Orchestrator, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	client := git.NewClient(runner, t.TempDir(), git.WithLogger(log), git.WithDryRun(opts.DryRun))
	return New(client, opts, log), hook
}

func mustArgs(t *testing.T, words ...string) *model.InvocationContext {
	t.Helper()
	inv, err := model.ParseArgs(words)
	require.NoError(t, err)
	return inv
}

// TestRun_AutoIncrementFullSequence exercises every step in order with a
// bare `tag` flag: the latest tag v1.2.3 becomes v1.2.4.
func TestRun_AutoIncrementFullSequence(t *testing.T) {
	runner := newFakeRunner(map[string]fakeResponse{
		"tag --sort=committerdate":                    {out: "v1.0.0\nv1.2.3\n"},
		"symbolic-ref refs/remotes/origin/HEAD --short": {out: "origin/main\n"},
	})
	o, hook := newOrchestrator(t, runner, defaultOptions())

	result := o.Run(context.Background(), mustArgs(t, "tag"))

	require.True(t, result.OK(), result.Message)
	assert.Equal(t, []string{
		"git add .",
		"git tag --sort=committerdate",
		"git commit -m QuickGo update",
		"git tag v1.2.4",
		"git symbolic-ref refs/remotes/origin/HEAD --short",
		"git push -u origin main --tags",
	}, runner.calls)
	assert.Equal(t, "changes committed and pushed to origin/main with tag v1.2.4", result.Message)

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.InfoLevel && e.Message == "Incrementing tag from v1.2.3 to v1.2.4" {
			found = true
		}
	}
	assert.True(t, found, "increment should be logged at info level")
}

// TestRun_StringTagUsedVerbatim checks that a tag value is never parsed or
// incremented.
func TestRun_StringTagUsedVerbatim(t *testing.T) {
	runner := newFakeRunner(map[string]fakeResponse{
		"symbolic-ref": {out: "origin/trunk"},
	})
	o, _ := newOrchestrator(t, runner, defaultOptions())

	result := o.Run(context.Background(), mustArgs(t, "tag=v2.0.0", "m=Release v2"))

	require.True(t, result.OK(), result.Message)
	assert.Equal(t, []string{
		"git add .",
		"git commit -m Release v2",
		"git tag v2.0.0",
		"git symbolic-ref refs/remotes/origin/HEAD --short",
		"git push -u origin trunk --tags",
	}, runner.calls)
}

// TestRun_StringTrueIsNotAutoIncrement ensures only the boolean flag
// triggers the increment algorithm.
func TestRun_StringTrueIsNotAutoIncrement(t *testing.T) {
	runner := newFakeRunner(nil)
	o, _ := newOrchestrator(t, runner, defaultOptions())

	inv := model.NewInvocationContext()
	inv.Set(ArgTag, model.Text("true"))
	inv.Set(ArgOrigin, model.Text("main"))

	result := o.Run(context.Background(), inv)
	require.True(t, result.OK(), result.Message)
	assert.NotContains(t, runner.calls, "git tag --sort=committerdate")
	assert.Contains(t, runner.calls, "git tag true")
}

func TestRun_FalseFlagMeansNoTag(t *testing.T) {
	runner := newFakeRunner(nil)
	o, _ := newOrchestrator(t, runner, defaultOptions())

	inv := model.NewInvocationContext()
	inv.Set(ArgTag, model.Flag(false))
	inv.Set(ArgOrigin, model.Text("main"))

	result := o.Run(context.Background(), inv)
	require.True(t, result.OK(), result.Message)
	assert.Equal(t, []string{
		"git add .",
		"git commit -m QuickGo update",
		"git push -u origin main",
	}, runner.calls)
}

// TestRun_CommitMessage verifies the default message and the `m` override.
func TestRun_CommitMessage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default message", []string{"origin=main"}, "git commit -m QuickGo update"},
		{"explicit message", []string{"origin=main", "m=X"}, "git commit -m X"},
		{"bare m falls back to default", []string{"origin=main", "m"}, "git commit -m QuickGo update"},
		{"empty m falls back to default", []string{"origin=main", "m="}, "git commit -m QuickGo update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner(nil)
			o, _ := newOrchestrator(t, runner, defaultOptions())
			result := o.Run(context.Background(), mustArgs(t, tt.args...))
			require.True(t, result.OK(), result.Message)
			assert.Contains(t, runner.calls, tt.want)
		})
	}
}

// TestRun_TagParseFailures covers an empty tag history and a tag without a
// patch component. Neither may commit, tag or push.
func TestRun_TagParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		message string
	}{
		{"no tags", "", "the repository has no tags"},
		{"missing patch", "v1.2\n", `"v1.2"`},
		{"not semver", "nightly\n", `"nightly"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner(map[string]fakeResponse{
				"tag --sort=committerdate": {out: tt.listing},
			})
			o, _ := newOrchestrator(t, runner, defaultOptions())

			result := o.Run(context.Background(), mustArgs(t, "tag"))

			assert.False(t, result.OK())
			assert.Equal(t, model.KindTagParse, result.Kind)
			assert.Equal(t, model.ExitTagParseFailed, result.ExitCode)
			assert.Contains(t, result.Message, tt.message)
			assert.Equal(t, []string{"git add .", "git tag --sort=committerdate"}, runner.calls)
		})
	}
}

// TestRun_ExplicitOriginSkipsDiscovery verifies `origin=<branch>` pushes
// with upstream tracking and never queries origin/HEAD.
func TestRun_ExplicitOriginSkipsDiscovery(t *testing.T) {
	runner := newFakeRunner(nil)
	o, _ := newOrchestrator(t, runner, defaultOptions())

	result := o.Run(context.Background(), mustArgs(t, "origin=develop"))

	require.True(t, result.OK(), result.Message)
	assert.Equal(t, "git push -u origin develop", runner.calls[len(runner.calls)-1])
	for _, c := range runner.calls {
		assert.NotContains(t, c, "symbolic-ref")
	}
}

// TestRun_DiscoveryFailureFallsBack checks that a missing origin/HEAD only
// produces a warning and a plain `git push`.
func TestRun_DiscoveryFailureFallsBack(t *testing.T) {
	runner := newFakeRunner(map[string]fakeResponse{
		"symbolic-ref": {out: "fatal: ref refs/remotes/origin/HEAD is not a symbolic ref", err: errExit},
	})
	o, hook := newOrchestrator(t, runner, defaultOptions())

	result := o.Run(context.Background(), mustArgs(t, "tag=v1.0.0"))

	require.True(t, result.OK(), result.Message)
	assert.Equal(t, "git push --tags", runner.calls[len(runner.calls)-1])
	assert.Equal(t, "changes committed and pushed with tag v1.0.0", result.Message)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "not a symbolic ref") {
			warned = true
		}
	}
	assert.True(t, warned, "discovery failure should be logged as a warning")
}

func TestRun_DiscoveryFallbackWithoutTag(t *testing.T) {
	runner := newFakeRunner(map[string]fakeResponse{
		"symbolic-ref": {err: errExit},
	})
	o, _ := newOrchestrator(t, runner, defaultOptions())

	result := o.Run(context.Background(), model.NewInvocationContext())
	require.True(t, result.OK(), result.Message)
	assert.Equal(t, "git push", runner.calls[len(runner.calls)-1])
}

// TestRun_BackendFailuresAbort verifies that each failing step aborts the
// sequence and surfaces git's own output.
func TestRun_BackendFailuresAbort(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]fakeResponse
		args      []string
		lastCall  string
		message   string
	}{
		{
			name:      "stage fails",
			responses: map[string]fakeResponse{"add": {out: "fatal: not a git repository", err: errExit}},
			args:      []string{"tag"},
			lastCall:  "git add .",
			message:   "could not add files to git: fatal: not a git repository",
		},
		{
			name:      "commit fails",
			responses: map[string]fakeResponse{"commit": {out: "nothing to commit, working tree clean", err: errExit}},
			args:      []string{"tag=v1.0.0"},
			lastCall:  "git commit -m QuickGo update",
			message:   "could not commit changes to git: nothing to commit, working tree clean",
		},
		{
			name:      "tag fails",
			responses: map[string]fakeResponse{"tag v1.0.0": {out: "fatal: tag 'v1.0.0' already exists", err: errExit}},
			args:      []string{"tag=v1.0.0"},
			lastCall:  "git tag v1.0.0",
			message:   "could not tag commit with tag v1.0.0: fatal: tag 'v1.0.0' already exists",
		},
		{
			name:      "push fails",
			responses: map[string]fakeResponse{"push": {out: "rejected", err: errExit}},
			args:      []string{"origin=main"},
			lastCall:  "git push -u origin main",
			message:   "could not push changes to remote repository: rejected",
		},
		{
			name:      "tag listing fails",
			responses: map[string]fakeResponse{"tag --sort=committerdate": {err: errExit}},
			args:      []string{"tag"},
			lastCall:  "git tag --sort=committerdate",
			message:   "could not list tags: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner(tt.responses)
			o, _ := newOrchestrator(t, runner, defaultOptions())

			result := o.Run(context.Background(), mustArgs(t, tt.args...))

			assert.False(t, result.OK())
			assert.Equal(t, model.KindBackendCommand, result.Kind)
			assert.Equal(t, model.ExitGitError, result.ExitCode)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, tt.lastCall, runner.calls[len(runner.calls)-1])
		})
	}
}

// TestRun_DryRun verifies that only read-only queries reach git.
func TestRun_DryRun(t *testing.T) {
	runner := newFakeRunner(map[string]fakeResponse{
		"tag --sort=committerdate": {out: "v0.9.9\n"},
		"symbolic-ref":             {out: "origin/main"},
	})
	opts := defaultOptions()
	opts.DryRun = true
	o, hook := newOrchestrator(t, runner, opts)

	result := o.Run(context.Background(), mustArgs(t, "tag"))

	require.True(t, result.OK(), result.Message)
	assert.Equal(t, []string{
		"git tag --sort=committerdate",
		"git symbolic-ref refs/remotes/origin/HEAD --short",
	}, runner.calls)
	assert.Equal(t, "dry run: changes committed and pushed to origin/main with tag v0.9.10", result.Message)

	var printed []string
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "+ git ") {
			printed = append(printed, e.Message)
		}
	}
	assert.Equal(t, []string{
		"+ git add .",
		"+ git commit -m QuickGo update",
		"+ git tag v0.9.10",
		"+ git push -u origin main --tags",
	}, printed)
}

func TestRun_CustomPrefixAndRemote(t *testing.T) {
	runner := newFakeRunner(map[string]fakeResponse{
		"tag --sort=committerdate":                      {out: "1.0.0\n"},
		"symbolic-ref refs/remotes/upstream/HEAD --short": {out: "upstream/main"},
	})
	o, _ := newOrchestrator(t, runner, Options{CommitMessage: "bump", TagPrefix: "", Remote: "upstream"})

	result := o.Run(context.Background(), mustArgs(t, "tag"))

	require.True(t, result.OK(), result.Message)
	assert.Contains(t, runner.calls, "git tag 1.0.1")
	assert.Equal(t, "git push -u upstream main --tags", runner.calls[len(runner.calls)-1])
}

func TestNew_Defaults(t *testing.T) {
	o := New(git.NewClient(newFakeRunner(nil), ""), Options{}, nil)
	assert.Equal(t, "QuickGo update", o.opts.CommitMessage)
	assert.Equal(t, "origin", o.opts.Remote)
}
