// Package propagate implements the `version` command: it rewrites the
// version string in every file of a project's version mapping.
//
// Each mapping entry pairs a file with a regular expression that has
// exactly one capturing group around the current version. Files are
// processed one at a time in declaration order. The first failure stops
// the run, and files rewritten before it stay rewritten; the failure
// message lists them so the user knows the bump is partially applied.
package propagate

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/shinji-kodama/quickgo-release/internal/fsstore"
	"github.com/shinji-kodama/quickgo-release/internal/model"
)

// ArgVersion is the invocation argument holding the target version.
const ArgVersion = "v"

// Options tunes the propagator.
type Options struct {
	// DryRun validates every file and computes the substitutions but
	// writes nothing.
	DryRun bool
}

// Propagator rewrites mapped files through a Store.
type Propagator struct {
	store fsstore.Store
	opts  Options
	log   logrus.FieldLogger
}

// New creates a Propagator. A nil logger discards output.
func New(store fsstore.Store, opts Options, log logrus.FieldLogger) *Propagator {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Propagator{store: store, opts: opts, log: log}
}

// Run updates every mapped file of project to the version in inv.
// project may be nil when the host could not resolve one.
func (p *Propagator) Run(ctx context.Context, inv *model.InvocationContext, project *model.ProjectMetadata) model.Result {
	arg := inv.Get(ArgVersion)
	if arg.Kind != model.ArgText || arg.Text == "" {
		return model.Failure(model.KindMissingArgument, "version not provided in arguments: %s=<version>", ArgVersion)
	}
	version := arg.Text

	if project == nil {
		return model.Failure(model.KindProjectResolution,
			"this command must be run in a QuickGo project, or the directory for the project must be specified")
	}

	if project.VersionMapping.IsEmpty() {
		return model.Failure(model.KindProjectResolution,
			"version mapping not provided in '%s' project.context.versionMapping", configPath(project))
	}

	if !semver.IsValid(normalize(version)) {
		p.log.Warnf("Target version %s is not a valid semantic version", version)
	}

	var done []string
	for _, entry := range project.VersionMapping.Entries {
		if err := ctx.Err(); err != nil {
			return p.failure(model.KindNone, done, "version update interrupted: %v", err)
		}

		name := displayPath(project, entry.File)
		if result, ok := p.apply(entry, name, version, done); !ok {
			return result
		}
		done = append(done, name)
	}

	prefix := ""
	if p.opts.DryRun {
		prefix = "dry run: "
	}
	return model.Success("%supdated project '%s' to version %s", prefix, projectName(project), version)
}

// apply rewrites a single mapping entry. When ok is false, result holds the
// failure that aborts the run.
func (p *Propagator) apply(entry model.MappingEntry, name, version string, done []string) (model.Result, bool) {
	content, err := p.store.Read(entry.File)
	if err != nil {
		return p.failure(model.KindFileIO, done, "could not read file %s: %v", name, err), false
	}

	re, err := compile(entry.Pattern)
	if err != nil {
		return p.failure(model.KindInvalidPattern, done, "invalid pattern '%s' for file %s: %v", entry.Pattern, name, err), false
	}

	updated, old, found := Replace(re, content, version)
	if !found {
		return p.failure(model.KindVersionNotFound, done, "version not found in file %s using pattern '%s'", name, entry.Pattern), false
	}

	p.log.Debugf("Updating version in file %s from %s to %s", name, old, version)

	if updated == content {
		p.log.Debugf("File %s already at version %s", name, version)
		return model.Result{}, true
	}
	if p.opts.DryRun {
		p.log.Infof("+ write %s (%s -> %s)", name, old, version)
		return model.Result{}, true
	}

	if err := p.store.Write(entry.File, updated); err != nil {
		return p.failure(model.KindFileIO, done, "could not write file %s: %v", name, err), false
	}
	return model.Result{}, true
}

// failure builds a failed result and, when files were already rewritten,
// says so: they are not rolled back.
func (p *Propagator) failure(kind model.ErrorKind, done []string, format string, args ...any) model.Result {
	msg := fmt.Sprintf(format, args...)
	if len(done) > 0 && !p.opts.DryRun {
		msg += fmt.Sprintf(" (already updated, not rolled back: %s)", strings.Join(done, ", "))
	}
	return model.Failure(kind, "%s", msg)
}

// compile compiles pattern and checks that it declares exactly one
// capturing group.
func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("pattern must declare exactly one capturing group, found %d", n)
	}
	return re, nil
}

// Replace finds the first match of re in content and replaces the text of
// its capturing group with version, at the group's exact offset. Other
// occurrences of the old version, before or after the match, are left
// alone. It returns the new content, the replaced text and whether a match
// with a participating group was found.
func Replace(re *regexp.Regexp, content, version string) (updated, old string, found bool) {
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil || len(loc) < 4 || loc[2] < 0 {
		return content, "", false
	}

	start, end := loc[2], loc[3]
	return content[:start] + version + content[end:], content[start:end], true
}

func normalize(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func configPath(project *model.ProjectMetadata) string {
	if project.ConfigFile != "" {
		return project.ConfigFile
	}
	return filepath.Join(project.Dir, "quickgo.yaml")
}

func projectName(project *model.ProjectMetadata) string {
	if project.Name != "" {
		return project.Name
	}
	if project.Dir != "" {
		return filepath.Base(project.Dir)
	}
	return "project"
}

// displayPath shortens file to a path relative to the project directory
// when it lives inside it.
func displayPath(project *model.ProjectMetadata, file string) string {
	if project.Dir == "" || !filepath.IsAbs(file) {
		return file
	}
	rel, err := filepath.Rel(project.Dir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return filepath.ToSlash(rel)
}
