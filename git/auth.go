package git

import "github.com/EWPStanislavKhodorov/BO4E-python/git/internal/auth"

// DefaultTokenHost is the host receiving the access token when TokenAuth is
// given no hosts.
const DefaultTokenHost = "github.com"

// TokenAuth returns an AuthProvider that sends token as HTTPS basic auth to
// remotes on hosts (patterns like "*.github.com" are allowed).
func TokenAuth(token string, hosts ...string) AuthProvider {
	if len(hosts) == 0 {
		hosts = []string{DefaultTokenHost}
	}
	return auth.NewTokenProvider(token, hosts...)
}
