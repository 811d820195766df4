package git

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/quickgo-release/internal/semtag"
)

// DefaultRemote is the remote name used when none is configured.
const DefaultRemote = "origin"

// CommandError is returned when a git invocation fails. Output holds git's
// own diagnostic text, which callers surface to the user verbatim.
type CommandError struct {
	// Args are the git arguments (without the leading "git").
	Args []string

	// Output is the combined stdout/stderr captured from git.
	Output string

	// Err is the underlying runner error.
	Err error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s: %s", msg, out)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// PushOptions describes a single `git push` invocation.
type PushOptions struct {
	// Remote is the remote name. Ignored when Branch is empty.
	Remote string

	// Branch is the branch to push. When empty, no remote or branch
	// arguments are passed and git falls back to its own push default.
	Branch string

	// SetUpstream adds -u so Branch tracks Remote.
	SetUpstream bool

	// Tags adds --tags.
	Tags bool
}

// Args returns the git arguments for the push, starting with "push".
//
//	git push [-u <remote> <branch>] [--tags]
func (o PushOptions) Args() []string {
	args := []string{"push"}
	if o.Branch != "" {
		remote := o.Remote
		if remote == "" {
			remote = DefaultRemote
		}
		if o.SetUpstream {
			args = append(args, "-u")
		}
		args = append(args, remote, o.Branch)
	}
	if o.Tags {
		args = append(args, "--tags")
	}
	return args
}

// Client performs release-related git operations in one repository.
type Client struct {
	runner Runner
	dir    string
	dryRun bool
	log    logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithDryRun makes mutating operations (add, commit, tag, push) log the
// command instead of running it. Read-only queries still run.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) { c.dryRun = dryRun }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a Client that runs git in dir through runner.
// An empty dir means the current working directory.
func NewClient(runner Runner, dir string, opts ...Option) *Client {
	c := &Client{runner: runner, dir: dir}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.log = discard
	}
	return c
}

// DryRun reports whether the client only prints mutating commands.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// AddAll stages every change in the working tree (`git add .`).
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.mutate(ctx, "add", ".")
	return err
}

// Commit records staged changes with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.mutate(ctx, "commit", "-m", message)
	return err
}

// CreateTag creates a lightweight tag pointing at HEAD.
func (c *Client) CreateTag(ctx context.Context, name string) error {
	_, err := c.mutate(ctx, "tag", name)
	return err
}

// LatestTag returns the most recent tag, ordered by committer date.
// It returns an empty string when the repository has no tags.
func (c *Client) LatestTag(ctx context.Context) (string, error) {
	out, err := c.query(ctx, "tag", "--sort=committerdate")
	if err != nil {
		return "", err
	}
	return semtag.Latest(out), nil
}

// DefaultBranch resolves the branch that <remote>/HEAD points to, e.g.
// "main" for "origin/main".
func (c *Client) DefaultBranch(ctx context.Context, remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemote
	}
	out, err := c.query(ctx, "symbolic-ref", "refs/remotes/"+remote+"/HEAD", "--short")
	if err != nil {
		return "", err
	}

	ref := strings.TrimSpace(out)
	branch := strings.TrimPrefix(ref, remote+"/")
	if branch == "" || branch == ref {
		return "", &CommandError{
			Args:   []string{"symbolic-ref", "refs/remotes/" + remote + "/HEAD", "--short"},
			Output: fmt.Sprintf("unexpected ref %q", ref),
		}
	}
	return branch, nil
}

// Push runs git push as described by opts.
func (c *Client) Push(ctx context.Context, opts PushOptions) error {
	_, err := c.mutate(ctx, opts.Args()...)
	return err
}

// mutate runs a command that changes the repository or a remote.
// In dry-run mode the command is only logged.
func (c *Client) mutate(ctx context.Context, args ...string) (string, error) {
	if c.dryRun {
		c.log.Infof("+ git %s", strings.Join(args, " "))
		return "", nil
	}
	return c.run(ctx, args...)
}

// query runs a read-only command, also in dry-run mode.
func (c *Client) query(ctx context.Context, args ...string) (string, error) {
	return c.run(ctx, args...)
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.log.Debugf("Executing git command: git %s", strings.Join(args, " "))
	out, err := c.runner.Run(ctx, c.dir, "git", args...)
	if err != nil {
		return out, &CommandError{Args: args, Output: out, Err: err}
	}
	return out, nil
}
