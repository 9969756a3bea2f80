// Package auth provides the access token authentication used when fetching
// release tags from a hosted remote.
package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenUsername is the user name GitHub expects alongside an access token.
const TokenUsername = "x-access-token"

// TokenProvider authenticates HTTPS remotes with an access token.
// It wraps go-git's http.BasicAuth with host pattern matching.
type TokenProvider struct {
	auth *http.BasicAuth

	// AllowedHosts restricts authentication to specific host patterns.
	// If empty, the token is sent to every HTTPS remote.
	// Supports patterns like "*.github.com" or "github.*".
	AllowedHosts []string
}

// NewTokenProvider creates a provider sending token to HTTPS remotes whose
// host matches one of allowedHosts.
func NewTokenProvider(token string, allowedHosts ...string) *TokenProvider {
	return &TokenProvider{
		auth: &http.BasicAuth{
			Username: TokenUsername,
			Password: token,
		},
		AllowedHosts: allowedHosts,
	}
}

// Method returns the authentication method for the given remote URL.
// Remotes that are not HTTPS, or whose host is not allowed, get no
// authentication; a malformed URL is an error.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *TokenProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	parsedURL, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "https" {
		return nil, nil
	}

	if len(p.AllowedHosts) > 0 && !p.isHostAllowed(parsedURL.Hostname()) {
		return nil, nil
	}

	return p.auth, nil
}

func (p *TokenProvider) isHostAllowed(host string) bool {
	for _, pattern := range p.AllowedHosts {
		if matchesPattern(host, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a host matches a pattern with one leading "*."
// or trailing ".*" wildcard.
func matchesPattern(host, pattern string) bool {
	if host == pattern {
		return true
	}

	if strings.Count(pattern, "*") != 1 {
		return false
	}

	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.HasSuffix(host, "."+suffix) || host == suffix
	}

	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(host, prefix+".")
	}

	return false
}
