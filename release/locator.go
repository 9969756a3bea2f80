// Package release locates BO4E releases: the latest published release, the
// final release preceding a version in commit history, and whether a release
// was cut from the main line.
package release

import (
	"context"
	"log/slog"
	"slices"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/history"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// DefaultMainBranch is the branch every latest release must be reachable from,
// as printed by `git branch -a`.
const DefaultMainBranch = "remotes/origin/main"

// Locator answers release questions from a registry and the git history.
type Locator struct {
	registry   Registry
	reader     *history.Reader
	mainBranch string
	logger     *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithMainBranch sets the branch name latest releases must be contained in.
func WithMainBranch(branch string) Option {
	return func(l *Locator) {
		if branch != "" {
			l.mainBranch = branch
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocator creates a Locator.
func NewLocator(registry Registry, reader *history.Reader, opts ...Option) *Locator {
	l := &Locator{
		registry:   registry,
		reader:     reader,
		mainBranch: DefaultMainBranch,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MainBranch returns the branch latest releases must be contained in.
func (l *Locator) MainBranch() string {
	return l.mainBranch
}

// LatestRelease returns the version of the release the registry marks as
// latest. A latest release that is a release candidate is a format error.
func (l *Locator) LatestRelease(ctx context.Context) (version.Version, error) {
	rel, err := l.registry.LatestRelease(ctx)
	if err != nil {
		return version.Version{}, err
	}

	v, err := version.Parse(rel.TagName, false)
	if err != nil {
		return version.Version{}, errors.Wrapf(err, errors.CodeInvalidFormat, "latest release %q", rel.TagName)
	}
	return v, nil
}

// LastVersionBefore returns the newest final release reachable from the tag
// of v, excluding v itself.
func (l *Locator) LastVersionBefore(ctx context.Context, v version.Version) (version.Version, error) {
	tags, err := history.Collect(l.reader.ListTags(ctx, 1, v.TagName(), true))
	if err != nil {
		return version.Version{}, err
	}
	if len(tags) != 1 {
		return version.Version{}, errors.Newf(errors.CodeNotFound, "no release before %s", v)
	}

	before, err := version.Parse(tags[0], false)
	if err != nil {
		return version.Version{}, errors.Wrapf(err, errors.CodeInvalidFormat, "release before %s", v)
	}
	return before, nil
}

// EnsureLatestOnMain fails with a policy error unless the commit tagged by
// latest is contained in the main branch. isCurrentLatest selects the message
// for a release that was just tagged and marked latest.
func (l *Locator) EnsureLatestOnMain(ctx context.Context, latest version.Version, isCurrentLatest bool) error {
	source := l.reader.Source()

	commit, err := source.ResolveCommit(ctx, "tags/"+latest.TagName())
	if err != nil {
		return errors.Wrapf(err, errors.CodeNotFound, "cannot resolve commit of %s", latest)
	}

	branches, err := source.BranchesContaining(ctx, commit)
	if err != nil {
		return errors.Wrapf(err, errors.CodeUnavailable, "cannot list branches containing %s", commit)
	}

	if slices.Contains(branches, l.mainBranch) {
		return nil
	}

	if isCurrentLatest {
		return errors.Policyf(errors.ReasonCurrentLatestNotOnMain,
			"tagged version %s is marked as latest but is not on %s (branches %v contain commit %s); "+
				"either tag on the main branch or don't mark the release as latest, "+
				"and revert the latest mark if it was set by accident",
			latest, l.mainBranch, branches, commit).
			WithContext("commit", commit).
			WithContext("branches", branches)
	}
	return errors.Policyf(errors.ReasonLatestNotOnMain,
		"latest release %s is not on %s (branches %v contain commit %s); "+
			"ensure that the latest release is on the main branch",
		latest, l.mainBranch, branches, commit).
		WithContext("commit", commit).
		WithContext("branches", branches)
}
