package release

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
)

// DefaultRepository is the GitHub repository publishing BO4E releases.
const DefaultRepository = "bo4e/BO4E-python"

// Release is a published release as recorded by the registry.
type Release struct {
	TagName string `json:"tag_name"`
	Latest  bool   `json:"latest"`
}

// Registry is the authority on published releases.
type Registry interface {
	// LatestRelease returns the release marked as latest.
	LatestRelease(ctx context.Context) (Release, error)

	// ReleaseByTag returns the release published for tag.
	ReleaseByTag(ctx context.Context, tag string) (Release, error)
}

// GitHubRegistry reads releases of a GitHub repository.
type GitHubRegistry struct {
	client *github.Client
	owner  string
	repo   string
	logger *slog.Logger
}

// RegistryOption configures a GitHubRegistry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	repository string
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithRepository sets the "<owner>/<repo>" to read releases from.
func WithRepository(repository string) RegistryOption {
	return func(o *registryOptions) {
		o.repository = repository
	}
}

// WithToken authenticates requests with a GitHub access token, which raises
// the API rate limit.
func WithToken(token string) RegistryOption {
	return func(o *registryOptions) {
		o.token = token
	}
}

// WithBaseURL points the client at a GitHub Enterprise or test API endpoint.
func WithBaseURL(baseURL string) RegistryOption {
	return func(o *registryOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used when no token is configured.
func WithHTTPClient(client *http.Client) RegistryOption {
	return func(o *registryOptions) {
		o.httpClient = client
	}
}

// WithRegistryLogger sets the logger for registry requests.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// NewGitHubRegistry creates a registry client for the configured repository.
func NewGitHubRegistry(ctx context.Context, opts ...RegistryOption) (*GitHubRegistry, error) {
	o := registryOptions{repository: DefaultRepository}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	owner, repo, ok := strings.Cut(o.repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, errors.Newf(errors.CodeInvalidConfig, "repository %q is not of the form <owner>/<repo>", o.repository)
	}

	httpClient := o.httpClient
	if o.token != "" {
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
	}

	client := github.NewClient(httpClient)
	if o.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "invalid GitHub API URL %q", o.baseURL)
		}
		client.BaseURL = base
	}

	return &GitHubRegistry{client: client, owner: owner, repo: repo, logger: o.logger}, nil
}

// LatestRelease returns the release GitHub marks as latest.
func (g *GitHubRegistry) LatestRelease(ctx context.Context) (Release, error) {
	rel, _, err := g.client.Repositories.GetLatestRelease(ctx, g.owner, g.repo)
	if err != nil {
		return Release{}, g.wrap(err, "latest release")
	}

	g.logger.DebugContext(ctx, "fetched latest release", "repository", g.owner+"/"+g.repo, "tag", rel.GetTagName())
	return Release{TagName: rel.GetTagName(), Latest: true}, nil
}

// ReleaseByTag returns the release published for tag. Latest is set when the
// release is the one GitHub marks as latest.
func (g *GitHubRegistry) ReleaseByTag(ctx context.Context, tag string) (Release, error) {
	rel, _, err := g.client.Repositories.GetReleaseByTag(ctx, g.owner, g.repo, tag)
	if err != nil {
		return Release{}, g.wrap(err, "release "+tag)
	}

	latest, err := g.LatestRelease(ctx)
	if err != nil {
		return Release{}, err
	}

	return Release{TagName: rel.GetTagName(), Latest: latest.TagName == rel.GetTagName()}, nil
}

func (g *GitHubRegistry) wrap(err error, what string) error {
	code := errors.CodeUnavailable
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		code = errors.CodeNotFound
	}
	return errors.Wrapf(err, code, "cannot get %s of %s/%s", what, g.owner, g.repo)
}
