package git

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/EWPStanislavKhodorov/BO4E-python/executor"
)

// commandRunner runs the git binary with arguments.
type commandRunner interface {
	Execute(ctx context.Context, args []string, opts ...executor.Option) (*executor.Result, error)
}

// CLI answers history queries by running the git binary in a working copy.
// It offers the same queries as Repo for environments where the repository
// layout is not readable by go-git (e.g. partial clones).
type CLI struct {
	git    commandRunner
	logger *slog.Logger
}

// cliEnv keeps git output parseable and stops it from prompting for
// credentials.
var cliEnv = map[string]string{
	"LC_ALL":              "C",
	"GIT_TERMINAL_PROMPT": "0",
}

// NewCLI creates a CLI bound to the working copy at dir.
func NewCLI(dir string, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{
		git: executor.NewWrappedExecutor("git",
			executor.WithWorkingDir(dir),
			executor.WithEnv(cliEnv),
			executor.WithLogger(logger),
		),
		logger: logger,
	}
}

// TagsMergedInto runs `git tag --merged <ref> --sort=-creatordate`.
func (c *CLI) TagsMergedInto(ctx context.Context, ref string) ([]string, error) {
	if ref == "" {
		return nil, WrapError(ErrInvalidRef, "revision cannot be empty")
	}

	res, err := c.git.Execute(ctx, []string{"tag", "--merged", ref, "--sort=-creatordate"})
	if err != nil {
		return nil, WrapErrorf(ErrResolveFailed, "tags merged into %q: %v", ref, err)
	}
	return res.Lines(), nil
}

// ResolveCommit runs `git rev-parse --verify <ref>~0`.
func (c *CLI) ResolveCommit(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", WrapError(ErrInvalidRef, "revision cannot be empty")
	}

	res, err := c.git.Execute(ctx, []string{"rev-parse", "--verify", ref + "~0"})
	if err != nil {
		return "", WrapErrorf(ErrResolveFailed, "revision %q: %v", ref, err)
	}

	lines := res.Lines()
	if len(lines) != 1 {
		return "", WrapErrorf(ErrResolveFailed, "revision %q resolved to %d lines", ref, len(lines))
	}
	return lines[0], nil
}

// BranchesContaining runs `git branch -a --contains <commit>` and returns the
// branch names without the current-branch marker. Symbolic entries
// ("remotes/origin/HEAD -> origin/main") and detached HEAD entries are skipped.
func (c *CLI) BranchesContaining(ctx context.Context, commit string) ([]string, error) {
	if commit == "" {
		return nil, WrapError(ErrInvalidRef, "commit cannot be empty")
	}

	res, err := c.git.Execute(ctx, []string{"branch", "-a", "--contains", commit})
	if err != nil {
		return nil, WrapErrorf(ErrResolveFailed, "branches containing %s: %v", commit, err)
	}

	var branches []string
	for _, line := range res.Lines() {
		name := branchName(line)
		if name == "" || strings.HasPrefix(name, "(") || strings.Contains(name, " -> ") {
			continue
		}
		branches = append(branches, name)
	}
	sort.Strings(branches)

	c.logger.DebugContext(ctx, "listed branches containing commit", "commit", commit, "branches", branches)
	return branches, nil
}

// branchMarkers prefix the current branch and branches checked out in
// another worktree in `git branch` output.
var branchMarkers = []string{"* ", "+ "}

func branchName(line string) string {
	for _, m := range branchMarkers {
		line = strings.TrimPrefix(line, m)
	}
	return strings.TrimSpace(line)
}

// Fetch runs `git fetch --tags <remote>`. Credentials come from the git
// configuration of the working copy.
func (c *CLI) Fetch(ctx context.Context, remote string) error {
	if remote == "" {
		remote = DefaultRemoteName
	}

	if _, err := c.git.Execute(ctx, []string{"fetch", "--tags", remote}); err != nil {
		return WrapErrorf(err, "failed to fetch from %q", remote)
	}
	return nil
}
