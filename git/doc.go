// Package git answers the history questions a release check asks of a
// repository: which tags are merged into a reference and in which order they
// were created, which commit a reference denotes, which branches contain a
// commit, and what changed between the trees of two releases.
//
// Two implementations share these queries. Repo reads the object database
// directly through go-git and works on any go-billy filesystem, including
// in-memory ones:
//
//	repo, err := git.OpenPath(ctx, ".", &git.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	tags, err := repo.TagsMergedInto(ctx, "remotes/origin/main")
//
// CLI runs the git binary in a working copy and parses its output:
//
//	cli := git.NewCLI(".", logger)
//	commit, err := cli.ResolveCommit(ctx, "tags/v202401.1.0")
//
// # Ordering
//
// Tag lists are ordered newest creator date first, like
// `git tag --merged <ref> --sort=-creatordate`. The creator date of an
// annotated tag is its tagger date; a lightweight tag uses the committer date
// of the commit it points at. Repo breaks ties by tag name.
//
// # Revisions
//
// Revisions use git's short forms. "tags/<name>" names a tag and
// "remotes/<remote>/<branch>" a remote-tracking branch. Branch names are
// reported the way `git branch -a` prints them.
//
// # Errors
//
// Failures wrap the sentinel errors of this package, so callers can use
// errors.Is with ErrResolveFailed, ErrInvalidRef, ErrRemoteMissing and so on.
package git
