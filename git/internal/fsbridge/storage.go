// Package fsbridge lays out go-git storage and worktree filesystems on top of a
// go-billy filesystem root.
package fsbridge

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// minCacheSize is used when an invalid cache size is requested.
const minCacheSize = 100

// NewStorage creates a new git storage with LRU cache for object storage.
//
// The LRU cache keeps frequently accessed objects in memory, which matters when
// walking the full history once per tag.
func NewStorage(billyFS billy.Filesystem, cacheSize int) *filesystem.Storage {
	if cacheSize <= 0 {
		cacheSize = minCacheSize
	}

	objCache := cache.NewObjectLRU(cache.FileSize(cacheSize))
	return filesystem.NewStorage(billyFS, objCache)
}

// Layout returns the object storage and worktree filesystem for a repository
// rooted at workdir within root. Bare repositories keep their storage at the
// root and have no worktree; other repositories keep it in ".git".
//
//nolint:ireturn // go-git expects the billy.Filesystem interface for worktrees
func Layout(root billy.Filesystem, workdir string, bare bool, cacheSize int) (*filesystem.Storage, billy.Filesystem, error) {
	scoped, err := root.Chroot(workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", workdir, err)
	}

	if bare {
		return NewStorage(scoped, cacheSize), nil, nil
	}

	dotGit, err := scoped.Chroot(".git")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access .git directory: %w", err)
	}
	return NewStorage(dotGit, cacheSize), scoped, nil
}
