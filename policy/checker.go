// Package policy enforces that the version bump of a release tag matches the
// schema changes it ships: functional changes need a functional bump, a
// functional bump needs functional changes, and major bumps may be disallowed.
package policy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// Releases locates the releases a check compares against.
type Releases interface {
	LatestRelease(ctx context.Context) (version.Version, error)
	LastVersionBefore(ctx context.Context, v version.Version) (version.Version, error)
	EnsureLatestOnMain(ctx context.Context, latest version.Version, isCurrentLatest bool) error
}

// Report records what a check found. Fields are filled in as far as the
// check got; Predecessor is nil when the check stopped before locating it.
type Report struct {
	Declared         version.Version     `json:"declared" yaml:"declared"`
	Latest           *version.Version    `json:"latest,omitempty" yaml:"latest,omitempty"`
	IsLatest         bool                `json:"is_latest" yaml:"is_latest"`
	Predecessor      *version.Version    `json:"predecessor,omitempty" yaml:"predecessor,omitempty"`
	Bump             version.Bump        `json:"bump" yaml:"bump"`
	MajorBumpAllowed bool                `json:"major_bump_allowed" yaml:"major_bump_allowed"`
	SchemasCompared  bool                `json:"schemas_compared" yaml:"schemas_compared"`
	Changes          []schemadiff.Change `json:"changes" yaml:"changes"`
}

// Checker runs the release consistency check.
type Checker struct {
	releases Releases
	oracle   schemadiff.Oracle
	logger   *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger receiving progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker.
func NewChecker(releases Releases, oracle schemadiff.Oracle, opts ...Option) *Checker {
	c := &Checker{
		releases: releases,
		oracle:   oracle,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check verifies the declared release tag against the latest release, the
// commit history and the schema changes since the preceding final release.
// The returned report is non-nil whenever declared parses, also on failure.
func (c *Checker) Check(ctx context.Context, declared string, majorBumpAllowed bool) (*Report, error) {
	current, err := version.Parse(declared, true)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "tagged release version", "version", current)

	report := &Report{Declared: current, MajorBumpAllowed: majorBumpAllowed}

	latest, err := c.releases.LatestRelease(ctx)
	if err != nil {
		return report, err
	}
	report.Latest = &latest
	c.logger.InfoContext(ctx, "got latest release version", "version", latest)

	report.IsLatest = current.Equal(latest)
	if report.IsLatest {
		c.logger.InfoContext(ctx, "tagged version is marked as latest")
	}

	if err := c.releases.EnsureLatestOnMain(ctx, latest, report.IsLatest); err != nil {
		return report, err
	}
	c.logger.InfoContext(ctx, "latest release is on main branch")

	before, err := c.releases.LastVersionBefore(ctx, current)
	if err != nil {
		return report, err
	}
	report.Predecessor = &before
	c.logger.InfoContext(ctx, "comparing with the final release before the tagged one", "version", before)

	if !current.Greater(before) {
		return report, errors.Newf(errors.CodeInvariant, "version did not increase: %s <= %s", current, before).
			WithContext("predecessor", before.TagName())
	}
	report.Bump = current.BumpFrom(before)
	c.logger.InfoContext(ctx, "version increased", "from", before, "to", current, "bump", report.Bump)

	if current.BumpedMajor(before) {
		if !majorBumpAllowed {
			return report, errors.Policyf(errors.ReasonMajorBumpDisallowed,
				"major bump detected from %s to %s but major bumps are not allowed", before, current)
		}
		c.logger.InfoContext(ctx, "major version bump detected, no further checks needed")
		return report, nil
	}

	changes, err := c.oracle.Diff(ctx, before, current)
	if err != nil {
		return report, err
	}
	report.SchemasCompared = true
	report.Changes = changes

	functional := len(changes) > 0
	if functional {
		c.logger.InfoContext(ctx, "functional release bump is needed", "changes", len(changes))
	} else {
		c.logger.InfoContext(ctx, "technical release bump is needed")
	}

	bumpedFunctional := current.BumpedFunctional(before)
	if !functional && bumpedFunctional {
		return report, errors.Policyf(errors.ReasonFunctionalBumpWithoutChanges,
			"functional version bump from %s to %s but no functional changes found; "+
				"bump the technical release count instead of the functional one", before, current)
	}
	if functional && !bumpedFunctional {
		return report, errors.Policyf(errors.ReasonChangesWithoutFunctionalBump,
			"no functional version bump from %s to %s but functional changes found; "+
				"bump the functional release count. Detected changes:\n%s", before, current, formatChanges(changes)).
			WithContext("changes", len(changes))
	}

	return report, nil
}

func formatChanges(changes []schemadiff.Change) string {
	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = "  " + c.String()
	}
	return strings.Join(lines, "\n")
}
