package git

import (
	"context"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ResolveCommit resolves a revision specification to the full hash of the
// commit it denotes. Annotated tags are peeled to their commit.
//
// Revisions follow git's short forms: "tags/v202401.1.0" and
// "remotes/origin/main" resolve through refs/tags and refs/remotes.
func (r *Repo) ResolveCommit(ctx context.Context, rev string) (string, error) {
	commit, err := r.commitFor(rev)
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

// BranchesContaining lists the local and remote-tracking branches whose tips
// have commit in their history, named the way `git branch -a` prints them:
// "main" for local branches and "remotes/origin/main" for remote ones.
// Symbolic references such as remotes/origin/HEAD are skipped.
func (r *Repo) BranchesContaining(ctx context.Context, commit string) ([]string, error) {
	if !plumbing.IsHash(commit) {
		return nil, WrapErrorf(ErrInvalidRef, "%q is not a commit hash", commit)
	}

	target, err := r.repo.CommitObject(plumbing.NewHash(commit))
	if err != nil {
		return nil, WrapErrorf(ErrResolveFailed, "commit %s", commit)
	}

	refs, err := r.repo.References()
	if err != nil {
		return nil, WrapError(err, "failed to get references")
	}
	defer refs.Close()

	var branches []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		name, ok := branchDisplayName(ref.Name())
		if !ok {
			return nil
		}

		tip, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil
		}

		contains, err := containsCommit(tip, target)
		if err != nil {
			return WrapErrorf(err, "failed to walk branch %q", name)
		}
		if contains {
			branches = append(branches, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(branches)
	r.logger().DebugContext(ctx, "listed branches containing commit", "commit", commit, "branches", branches)
	return branches, nil
}

func (r *Repo) commitFor(rev string) (*object.Commit, error) {
	if rev == "" {
		return nil, WrapError(ErrInvalidRef, "revision cannot be empty")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, WrapErrorf(ErrResolveFailed, "revision %q", rev)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, WrapErrorf(err, "failed to get commit object for %q", rev)
	}
	return commit, nil
}

func branchDisplayName(name plumbing.ReferenceName) (string, bool) {
	switch {
	case name.IsBranch():
		return name.Short(), true
	case name.IsRemote():
		return strings.TrimPrefix(name.String(), "refs/"), true
	default:
		return "", false
	}
}

func containsCommit(tip, target *object.Commit) (bool, error) {
	if tip.Hash == target.Hash {
		return true, nil
	}
	return target.IsAncestor(tip)
}
