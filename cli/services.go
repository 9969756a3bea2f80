package cli

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/EWPStanislavKhodorov/BO4E-python/config"
	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/git"
	"github.com/EWPStanislavKhodorov/BO4E-python/history"
	"github.com/EWPStanislavKhodorov/BO4E-python/release"
	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// Oracle diffs release schemas, optionally grouped per schema file.
type Oracle interface {
	schemadiff.Oracle
	DiffSchemas(ctx context.Context, from, to version.Version) ([]schemadiff.SchemaDiff, error)
}

// Services are the collaborators the commands run against.
type Services struct {
	Reader   *history.Reader
	Releases *release.Locator
	Oracle   Oracle
}

// Builder creates the Services for a resolved configuration.
type Builder func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error)

type fetcher interface {
	Fetch(ctx context.Context, remote string) error
}

// BuildServices opens the repository at cfg.RepoPath and connects to the
// GitHub release registry.
func BuildServices(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	opts := &git.Options{Logger: logger}
	if cfg.TokenProvided() {
		opts.Auth = git.TokenAuth(cfg.GHToken)
	}

	repo, err := git.OpenPath(ctx, cfg.RepoPath, opts)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound, "cannot open repository at %q", cfg.RepoPath)
	}

	var source interface {
		history.Source
		fetcher
	} = repo
	if cfg.GitBackend == config.BackendCLI {
		source = git.NewCLI(cfg.RepoPath, logger)
	}

	if cfg.Fetch {
		if err := fetch(ctx, source, cfg.Remote, logger); err != nil {
			return nil, err
		}
	}

	registryOpts := []release.RegistryOption{
		release.WithRepository(cfg.GitHubRepo),
		release.WithRegistryLogger(logger),
	}
	if cfg.TokenProvided() {
		registryOpts = append(registryOpts, release.WithToken(cfg.GHToken))
	}
	if cfg.GitHubAPIURL != "" {
		registryOpts = append(registryOpts, release.WithBaseURL(cfg.GitHubAPIURL))
	}
	registry, err := release.NewGitHubRegistry(ctx, registryOpts...)
	if err != nil {
		return nil, err
	}

	reader := history.NewReader(source, history.WithRemote(cfg.Remote), history.WithLogger(logger))

	oracleOpts := []schemadiff.Option{
		schemadiff.WithSchemaDir(cfg.SchemaDir),
		schemadiff.WithIgnoreKeys(cfg.IgnoreKeys...),
		schemadiff.WithLogger(logger),
	}
	if cfg.LocalSchemas {
		oracleOpts = append(oracleOpts, schemadiff.WithLocalFS(osfs.New(cfg.RepoPath)))
	}

	return &Services{
		Reader:   reader,
		Releases: release.NewLocator(registry, reader, release.WithMainBranch(cfg.MainBranch), release.WithLogger(logger)),
		Oracle:   schemadiff.NewGitOracle(repo, oracleOpts...),
	}, nil
}

func fetch(ctx context.Context, f fetcher, remote string, logger *slog.Logger) error {
	err := f.Fetch(ctx, remote)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "fetched remote", "remote", remote)
	case errors.Is(err, git.ErrAlreadyUpToDate):
		logger.DebugContext(ctx, "remote already up to date", "remote", remote)
	default:
		return errors.Wrapf(err, errors.CodeUnavailable, "cannot fetch %s", remote)
	}
	return nil
}
