package git

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// baseTime anchors fixture commit and tag dates.
var baseTime = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// testRepo is a helper struct that contains a test repository and its filesystem
type testRepo struct {
	repo *Repo
	fs   billy.Filesystem
	ctx  context.Context
}

// setupTestRepo creates a new non-bare test repository on an in-memory filesystem
func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := memfs.New()

	repo, err := Init(ctx, &Options{FS: memFS, Workdir: "."})
	require.NoError(t, err, "failed to initialize test repository")
	require.NotNil(t, repo, "repository should not be nil")

	return &testRepo{repo: repo, fs: memFS, ctx: ctx}
}

// commit writes files (path -> content; nil content removes the file) and
// commits them with a committer date offset by minutes from baseTime.
func (tr *testRepo) commit(t *testing.T, msg string, minutes int, files map[string][]byte) string {
	t.Helper()

	wt, err := tr.repo.repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	for path, content := range files {
		if content == nil {
			_, err = wt.Remove(path)
			require.NoError(t, err, "failed to remove %s", path)
			continue
		}
		require.NoError(t, util.WriteFile(tr.fs, path, content, 0o644), "failed to write %s", path)
		_, err = wt.Add(path)
		require.NoError(t, err, "failed to add %s", path)
	}

	sig := &object.Signature{
		Name:  "BO4E Bot",
		Email: "bot@bo4e.de",
		When:  baseTime.Add(time.Duration(minutes) * time.Minute),
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	require.NoError(t, err, "failed to commit %q", msg)

	return hash.String()
}

// checkoutNewBranch creates branch at HEAD and checks it out
func (tr *testRepo) checkoutNewBranch(t *testing.T, branch string) {
	t.Helper()

	wt, err := tr.repo.repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	err = wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Create: true})
	require.NoError(t, err, "failed to check out %s", branch)
}

// checkout switches to an existing branch
func (tr *testRepo) checkout(t *testing.T, branch string) {
	t.Helper()

	wt, err := tr.repo.repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	err = wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)})
	require.NoError(t, err, "failed to check out %s", branch)
}

// tag creates a lightweight tag at target
func (tr *testRepo) tag(t *testing.T, name, target string) {
	t.Helper()

	require.NoError(t, tr.repo.CreateTag(tr.ctx, name, target, "", nil), "failed to tag %s", name)
}

// annotatedTag creates an annotated tag at target with a tagger date offset
// by minutes from baseTime
func (tr *testRepo) annotatedTag(t *testing.T, name, target string, minutes int) {
	t.Helper()

	tagger := &Signature{Name: "Release Bot", Email: "release@bo4e.de", When: baseTime.Add(time.Duration(minutes) * time.Minute)}
	require.NoError(t, tr.repo.CreateTag(tr.ctx, name, target, "Release "+name, tagger), "failed to tag %s", name)
}

// createRemoteBranch creates a remote-tracking branch reference at target
func (tr *testRepo) createRemoteBranch(t *testing.T, remoteName, branchName, target string) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remoteName, branchName), plumbing.NewHash(target))
	require.NoError(t, tr.repo.repo.Storer.SetReference(ref), "failed to create remote branch reference")
}

// createRemoteHead creates the symbolic remotes/<remote>/HEAD reference
func (tr *testRepo) createRemoteHead(t *testing.T, remoteName, branchName string) {
	t.Helper()

	ref := plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName(remoteName),
		plumbing.NewRemoteReferenceName(remoteName, branchName),
	)
	require.NoError(t, tr.repo.repo.Storer.SetReference(ref), "failed to create remote HEAD")
}

// discardLogger returns a logger that drops every record
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
