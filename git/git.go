package git

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/EWPStanislavKhodorov/BO4E-python/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultRemoteName is the default remote name used for operations.
	DefaultRemoteName = "origin"
)

// Options configures repository discovery/creation and performance.
type Options struct {
	// FS is the REQUIRED filesystem root (OS or in-memory).
	// All repository state lives within this filesystem.
	FS billy.Filesystem

	// Workdir is the path within FS for the worktree root.
	// Defaults to "." (current directory in FS).
	Workdir string

	// Bare indicates a bare repository (.git only, no worktree).
	Bare bool

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth is an optional provider that resolves per-URL AuthMethod for fetches.
	Auth AuthProvider

	// Logger receives debug records for history queries.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}

	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidRef, "StorerCacheSize cannot be negative")
	}

	return nil
}

func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}

	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Init creates a new git repository at the specified location.
// Used to build fixture histories; the checker itself only opens repositories.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	storage, worktreeFS, err := fsbridge.Layout(opts.FS, opts.Workdir, opts.Bare, opts.StorerCacheSize)
	if err != nil {
		return nil, WrapError(err, "failed to lay out repository")
	}

	repo, err := git.Init(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}

	return &Repo{repo: repo, options: *opts}, nil
}

// Open opens an existing git repository.
// The repository must already exist at the specified workdir within the filesystem.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	storage, worktreeFS, err := fsbridge.Layout(opts.FS, opts.Workdir, opts.Bare, opts.StorerCacheSize)
	if err != nil {
		return nil, WrapError(err, "failed to lay out repository")
	}

	repo, err := git.Open(storage, worktreeFS)
	if err != nil {
		return nil, WrapErrorf(err, "failed to open repository at %q", opts.Workdir)
	}

	opts.Logger.DebugContext(ctx, "opened repository", "workdir", opts.Workdir, "bare", opts.Bare)
	return &Repo{repo: repo, options: *opts}, nil
}

// OpenPath opens the on-disk repository at path. opts may be nil; its FS and
// Workdir are replaced.
func OpenPath(ctx context.Context, path string, opts *Options) (*Repo, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	o.FS = osfs.New(path)
	o.Workdir = DefaultWorkdir
	return Open(ctx, &o)
}

// AuthProvider resolves authentication methods for git operations.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Repo is a git repository opened for release history queries.
type Repo struct {
	repo    *git.Repository
	options Options
}

func (r *Repo) logger() *slog.Logger {
	return r.options.Logger
}
