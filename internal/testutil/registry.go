package testutil

import (
	"context"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/release"
)

// Registry is an in-memory release registry.
type Registry struct {
	Latest string
	Tags   []string

	// Err, when set, is returned by every query.
	Err error
}

func (r *Registry) LatestRelease(ctx context.Context) (release.Release, error) {
	if r.Err != nil {
		return release.Release{}, r.Err
	}
	if r.Latest == "" {
		return release.Release{}, errors.New(errors.CodeNotFound, "no latest release")
	}
	return release.Release{TagName: r.Latest, Latest: true}, nil
}

func (r *Registry) ReleaseByTag(ctx context.Context, tag string) (release.Release, error) {
	if r.Err != nil {
		return release.Release{}, r.Err
	}
	if tag != r.Latest {
		found := false
		for _, t := range r.Tags {
			found = found || t == tag
		}
		if !found {
			return release.Release{}, errors.Newf(errors.CodeNotFound, "no release %s", tag)
		}
	}
	return release.Release{TagName: tag, Latest: tag == r.Latest}, nil
}
