package git

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
)

// RemoteURL returns the first URL configured for remote.
func (r *Repo) RemoteURL(remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemoteName
	}

	rem, err := r.repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", WrapErrorf(ErrRemoteMissing, "remote %q", remote)
		}
		return "", WrapError(err, "failed to get remote configuration")
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", WrapErrorf(ErrRemoteMissing, "remote %q has no URL", remote)
	}
	return urls[0], nil
}

// Fetch updates the remote-tracking branches of remote and fetches all of its
// tags. Returns ErrAlreadyUpToDate if there are no changes to fetch.
func (r *Repo) Fetch(ctx context.Context, remote string) error {
	if remote == "" {
		remote = DefaultRemoteName
	}

	fetchOpts := &git.FetchOptions{
		RemoteName: remote,
		Tags:       git.AllTags,
	}

	if r.options.Auth != nil {
		url, err := r.RemoteURL(remote)
		if err != nil {
			return err
		}

		authMethod, authErr := r.options.Auth.Method(url)
		if authErr != nil {
			return WrapError(ErrAuthRequired, authErr.Error())
		}
		fetchOpts.Auth = authMethod
	}

	r.logger().DebugContext(ctx, "fetching remote", "remote", remote)

	err := r.repo.FetchContext(ctx, fetchOpts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.ErrRemoteNotFound):
		return WrapErrorf(ErrRemoteMissing, "remote %q", remote)
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	default:
		return WrapErrorf(err, "failed to fetch from %q", remote)
	}
}
