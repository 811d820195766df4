// Package release implements the `git` command: stage, optionally
// auto-increment the tag, commit, tag and push, in that order.
//
// Orchestration steps:
//  1. Stage all changes
//  2. When `tag` is the bare flag, derive the next patch tag from the latest tag
//  3. Commit with `m` or the default message
//  4. Tag the commit when a tag value is present
//  5. Push to `origin=<branch>`, the discovered default branch, or git's default
//
// The first failing step aborts the rest. Nothing already done (staged
// files, the commit, the tag) is rolled back.
package release

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/quickgo-release/internal/config"
	"github.com/shinji-kodama/quickgo-release/internal/git"
	"github.com/shinji-kodama/quickgo-release/internal/model"
	"github.com/shinji-kodama/quickgo-release/internal/semtag"
)

// Argument names read from the invocation context.
const (
	ArgMessage = "m"
	ArgTag     = "tag"
	ArgOrigin  = "origin"
)

// Backend is the set of git operations the orchestrator sequences.
// *git.Client implements it.
type Backend interface {
	AddAll(ctx context.Context) error
	LatestTag(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) error
	CreateTag(ctx context.Context, name string) error
	DefaultBranch(ctx context.Context, remote string) (string, error)
	Push(ctx context.Context, opts git.PushOptions) error
}

// Options tunes the orchestrator.
type Options struct {
	// CommitMessage is used when `m` is not supplied.
	CommitMessage string

	// TagPrefix is the prefix of auto-incremented tags.
	TagPrefix string

	// Remote is the remote name pushed to.
	Remote string

	// DryRun only changes the wording of the success message; the Backend
	// decides whether commands actually run.
	DryRun bool
}

// Orchestrator runs the release sequence against a Backend.
type Orchestrator struct {
	backend Backend
	opts    Options
	log     logrus.FieldLogger
}

// New creates an Orchestrator. Empty options fall back to the built-in
// defaults; a nil logger discards output.
func New(backend Backend, opts Options, log logrus.FieldLogger) *Orchestrator {
	if opts.CommitMessage == "" {
		opts.CommitMessage = config.DefaultCommitMessage
	}
	if opts.Remote == "" {
		opts.Remote = config.DefaultRemote
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Orchestrator{backend: backend, opts: opts, log: log}
}

// Run executes the release sequence for one invocation.
func (o *Orchestrator) Run(ctx context.Context, inv *model.InvocationContext) model.Result {
	// Step 1: stage everything.
	o.log.Info("Staging all changes")
	if err := o.backend.AddAll(ctx); err != nil {
		return model.Failure(model.KindBackendCommand, "could not add files to git: %s", diagnostic(err))
	}

	// Step 2: resolve the tag value. A bare `tag` flag means "next patch
	// after the latest tag"; a string value is used verbatim.
	tagName, result, ok := o.resolveTag(ctx, inv.Get(ArgTag))
	if !ok {
		return result
	}

	// Step 3: commit.
	message := o.opts.CommitMessage
	if m := inv.Get(ArgMessage); m.Kind == model.ArgText && m.Text != "" {
		message = m.Text
		o.log.Infof("Committing changes with message: '%s'", message)
	} else {
		o.log.Infof("Committing changes with default message: '%s'", message)
	}
	if err := o.backend.Commit(ctx, message); err != nil {
		return model.Failure(model.KindBackendCommand, "could not commit changes to git: %s", diagnostic(err))
	}

	// Step 4: tag the new commit.
	if tagName != "" {
		o.log.Infof("Tagging commit with tag %s", tagName)
		if err := o.backend.CreateTag(ctx, tagName); err != nil {
			return model.Failure(model.KindBackendCommand, "could not tag commit with tag %s: %s", tagName, diagnostic(err))
		}
	}

	// Step 5: push.
	push := o.pushOptions(ctx, inv.Get(ArgOrigin), tagName != "")
	o.log.Infof("Executing git command: git %s", strings.Join(push.Args(), " "))
	if err := o.backend.Push(ctx, push); err != nil {
		return model.Failure(model.KindBackendCommand, "could not push changes to remote repository: %s", diagnostic(err))
	}

	return model.Success("%s", o.summary(tagName, push))
}

// resolveTag returns the effective tag name ("" for none). When ok is
// false, result holds the failure that aborts the run.
func (o *Orchestrator) resolveTag(ctx context.Context, arg model.Arg) (string, model.Result, bool) {
	switch arg.Kind {
	case model.ArgFlag:
		if !arg.Flag {
			return "", model.Result{}, true
		}
		return o.incrementTag(ctx)
	case model.ArgText:
		return arg.Text, model.Result{}, true
	default:
		return "", model.Result{}, true
	}
}

func (o *Orchestrator) incrementTag(ctx context.Context) (string, model.Result, bool) {
	latest, err := o.backend.LatestTag(ctx)
	if err != nil {
		return "", model.Failure(model.KindBackendCommand, "could not list tags: %s", diagnostic(err)), false
	}

	current, err := semtag.Parse(latest, o.opts.TagPrefix)
	if err != nil {
		if errors.Is(err, semtag.ErrNoTag) {
			return "", model.Failure(model.KindTagParse, "could not find a tag to increment: the repository has no tags"), false
		}
		return "", model.Failure(model.KindTagParse, "could not find a valid tag to increment: %v", err), false
	}

	next := current.NextPatch().String()
	o.log.Infof("Incrementing tag from %s to %s", latest, next)
	return next, model.Result{}, true
}

// pushOptions builds the push invocation. An explicit origin branch wins;
// otherwise the remote's default branch is discovered, and when that fails
// git's own push default is used.
func (o *Orchestrator) pushOptions(ctx context.Context, origin model.Arg, tags bool) git.PushOptions {
	push := git.PushOptions{Remote: o.opts.Remote, Tags: tags}

	if origin.Kind == model.ArgText && origin.Text != "" {
		o.log.Info("Pushing changes to remote repository")
		push.Branch = origin.Text
		push.SetUpstream = true
	} else {
		o.log.Info("Pushing changes to default remote repository")
		branch, err := o.backend.DefaultBranch(ctx, o.opts.Remote)
		if err != nil {
			o.log.Warnf("Could not determine default remote repository, trying fallback method: %s", diagnostic(err))
		} else {
			push.Branch = branch
			push.SetUpstream = true
		}
	}

	if tags {
		o.log.Info("Pushing tags to remote repository")
	}
	return push
}

func (o *Orchestrator) summary(tagName string, push git.PushOptions) string {
	var b strings.Builder
	if o.opts.DryRun {
		b.WriteString("dry run: ")
	}
	b.WriteString("changes committed and pushed")
	if push.Branch != "" {
		b.WriteString(" to " + push.Remote + "/" + push.Branch)
	}
	if tagName != "" {
		b.WriteString(" with tag " + tagName)
	}
	return b.String()
}

// diagnostic extracts git's own output from err, falling back to the
// error text when git printed nothing.
func diagnostic(err error) string {
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		if out := strings.TrimSpace(cmdErr.Output); out != "" {
			return out
		}
		if cmdErr.Err != nil {
			return cmdErr.Err.Error()
		}
	}
	return err.Error()
}
