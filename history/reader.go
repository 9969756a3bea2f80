// Package history reads release tags from the commit history of a reference,
// newest first, the way a release workflow sees them.
package history

import (
	"context"
	"iter"
	"log/slog"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/git"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// DefaultRemote is the remote whose tracking branches anchor branch histories.
const DefaultRemote = "origin"

// Source answers the git queries the history reader and the release locator
// need. Both the go-git repository and the git command line implement it.
type Source interface {
	// TagsMergedInto returns the names of the tags reachable from ref, newest
	// creator date first.
	TagsMergedInto(ctx context.Context, ref string) ([]string, error)

	// ResolveCommit returns the full hash of the commit ref denotes.
	ResolveCommit(ctx context.Context, ref string) (string, error)

	// BranchesContaining lists local and remote branches whose history
	// contains commit, e.g. "main" or "remotes/origin/main".
	BranchesContaining(ctx context.Context, commit string) ([]string, error)
}

// Reader lists the release tags preceding a tag or on a branch.
type Reader struct {
	source Source
	remote string
	logger *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithRemote sets the remote used to build branch references.
func WithRemote(remote string) Option {
	return func(r *Reader) {
		if remote != "" {
			r.remote = remote
		}
	}
}

// WithLogger sets the logger receiving shortfall warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a Reader over source.
func NewReader(source Source, opts ...Option) *Reader {
	r := &Reader{
		source: source,
		remote: DefaultRemote,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the git source the reader queries.
func (r *Reader) Source() Source {
	return r.source
}

// Reference returns the git reference anchoring the history of onBranch.
// A version tag (candidates included) maps to "tags/<onBranch>", anything
// else to "remotes/<remote>/<onBranch>".
func (r *Reader) Reference(onBranch string) (ref string, isTag bool) {
	if _, err := version.Parse(onBranch, true); err == nil {
		return "tags/" + onBranch, true
	}
	return "remotes/" + r.remote + "/" + onBranch, false
}

// ListTags yields up to n tag names from the history of onBranch, newest
// creator date first. When onBranch is a tag, that tag itself is left out.
// Every tag must be a version tag: the first malformed one yields a format
// error and ends the sequence. With excludeCandidates, release candidates are
// skipped without counting towards n.
//
// Tags are parsed lazily, so breaking out of the loop early leaves the rest of
// the history unchecked. When the history runs out before n tags were
// produced a warning is logged.
func (r *Reader) ListTags(ctx context.Context, n int, onBranch string, excludeCandidates bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ref, isTag := r.Reference(onBranch)

		tags, err := r.source.TagsMergedInto(ctx, ref)
		if err != nil {
			yield("", errors.Wrapf(err, sourceErrorCode(err), "cannot list tags merged into %s", ref))
			return
		}

		counter := 0
		for _, tag := range tags {
			if counter >= n {
				return
			}
			if isTag && tag == onBranch {
				continue
			}

			v, err := version.Parse(tag, true)
			if err != nil {
				yield("", errors.Wrapf(err, errors.CodeInvalidFormat, "tag %q in history of %s", tag, ref))
				return
			}
			if excludeCandidates && v.IsCandidate() {
				continue
			}

			if !yield(tag, nil) {
				return
			}
			counter++
		}

		if counter < n {
			if isTag {
				r.logger.WarnContext(ctx, "found fewer tags before tag than requested",
					"found", counter, "tag", onBranch, "requested", n)
			} else {
				r.logger.WarnContext(ctx, "found fewer tags on branch than requested",
					"found", counter, "branch", onBranch, "requested", n)
			}
		}
	}
}

// Collect drains a tag sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var tags []string
	for tag, err := range seq {
		if err != nil {
			return tags, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// sourceErrorCode classifies a Source failure: an unknown reference is a
// missing release, anything else means git could not be queried.
func sourceErrorCode(err error) errors.ErrorCode {
	if errors.Is(err, git.ErrResolveFailed) || errors.Is(err, git.ErrInvalidRef) {
		return errors.CodeNotFound
	}
	return errors.CodeUnavailable
}

var (
	_ Source = (*git.Repo)(nil)
	_ Source = (*git.CLI)(nil)
)
