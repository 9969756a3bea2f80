package testutil

import (
	"context"
	"fmt"

	"github.com/EWPStanislavKhodorov/BO4E-python/git"
)

// Source is an in-memory history source. Tags maps a reference such as
// "tags/v202401.1.0" or "remotes/origin/main" to the tags merged into it,
// newest first. Commits maps references to commit hashes and Branches maps
// commit hashes to the branches containing them.
type Source struct {
	Tags     map[string][]string
	Commits  map[string]string
	Branches map[string][]string

	// Err, when set, is returned by every query.
	Err error

	// Calls records the queried references and commits in order.
	Calls []string
}

// NewSource returns an empty Source.
func NewSource() *Source {
	return &Source{
		Tags:     make(map[string][]string),
		Commits:  make(map[string]string),
		Branches: make(map[string][]string),
	}
}

func (s *Source) TagsMergedInto(ctx context.Context, ref string) ([]string, error) {
	s.Calls = append(s.Calls, "tags "+ref)
	if s.Err != nil {
		return nil, s.Err
	}
	tags, ok := s.Tags[ref]
	if !ok {
		return nil, git.WrapErrorf(git.ErrResolveFailed, "revision %q", ref)
	}
	return append([]string(nil), tags...), nil
}

func (s *Source) ResolveCommit(ctx context.Context, ref string) (string, error) {
	s.Calls = append(s.Calls, "resolve "+ref)
	if s.Err != nil {
		return "", s.Err
	}
	commit, ok := s.Commits[ref]
	if !ok {
		return "", git.WrapErrorf(git.ErrResolveFailed, "revision %q", ref)
	}
	return commit, nil
}

func (s *Source) BranchesContaining(ctx context.Context, commit string) ([]string, error) {
	s.Calls = append(s.Calls, "branches "+commit)
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]string(nil), s.Branches[commit]...), nil
}

// AddRelease registers tag on commit, merged into history (newest first,
// the tag itself included) and contained in branches.
func (s *Source) AddRelease(tag, commit string, history []string, branches ...string) {
	ref := "tags/" + tag
	s.Tags[ref] = append([]string{tag}, history...)
	s.Commits[ref] = commit
	s.Branches[commit] = branches
}

// Commit returns a deterministic fake commit hash for n.
func Commit(n int) string {
	return fmt.Sprintf("%040x", n)
}
