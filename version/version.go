// Package version implements the BO4E release version identifier.
//
// A version has the textual form
//
//	v<major>.<functional>.<technical>[-rc<candidate>]
//
// where major is a six digit calendar value such as 202401. A functional bump
// signals a backward-compatible schema change, a technical bump signals a
// release without schema changes and a major bump signals a breaking change.
// Release candidates sort below the final release of the same triple.
package version

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
)

// Pattern is the grammar every version tag must match. Only the major
// component is zero padded, so every matching tag is the TagName of the
// version it parses to.
var Pattern = regexp.MustCompile(`^v(?P<major>\d{6})\.(?P<functional>0|[1-9]\d*)\.(?P<technical>0|[1-9]\d*)(?:-rc(?P<candidate>0|[1-9]\d*))?$`)

// Version is an immutable BO4E version. The zero value is not a valid version;
// obtain one from Parse, New or NewCandidate.
type Version struct {
	major      int
	functional int
	technical  int
	candidate  int
	isRC       bool
}

// New returns the final release version major.functional.technical.
func New(major, functional, technical int) Version {
	return Version{major: major, functional: functional, technical: technical}
}

// NewCandidate returns the release candidate major.functional.technical-rc<candidate>.
func NewCandidate(major, functional, technical, candidate int) Version {
	return Version{major: major, functional: functional, technical: technical, candidate: candidate, isRC: true}
}

// Parse parses a version tag.
// It fails with errors.ErrFormat if text does not match Pattern, or if text
// is a release candidate and allowCandidate is false.
func Parse(text string, allowCandidate bool) (Version, error) {
	m := Pattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, errors.Newf(errors.CodeInvalidFormat,
			"expected version to match %s, got %q", Pattern.String(), text)
	}

	var v Version
	var err error
	if v.major, err = atoi(m[1]); err != nil {
		return Version{}, errors.Wrapf(err, errors.CodeInvalidFormat, "invalid major component in %q", text)
	}
	if v.functional, err = atoi(m[2]); err != nil {
		return Version{}, errors.Wrapf(err, errors.CodeInvalidFormat, "invalid functional component in %q", text)
	}
	if v.technical, err = atoi(m[3]); err != nil {
		return Version{}, errors.Wrapf(err, errors.CodeInvalidFormat, "invalid technical component in %q", text)
	}
	if m[4] != "" {
		if v.candidate, err = atoi(m[4]); err != nil {
			return Version{}, errors.Wrapf(err, errors.CodeInvalidFormat, "invalid candidate component in %q", text)
		}
		v.isRC = true
	}

	if !allowCandidate && v.isRC {
		return Version{}, errors.Newf(errors.CodeInvalidFormat,
			"expected a version without candidate, got a candidate version: %s", text)
	}
	return v, nil
}

// atoi guards against components too large for int.
func atoi(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// MustParse parses a version tag, allowing candidates, and panics on failure.
//
// Only use this for hardcoded strings or in tests.
func MustParse(text string) Version {
	v, err := Parse(text, true)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse: %v", err))
	}
	return v
}

// Major returns the calendar major component.
func (v Version) Major() int { return v.major }

// Functional returns the functional component.
func (v Version) Functional() int { return v.functional }

// Technical returns the technical component.
func (v Version) Technical() int { return v.technical }

// Candidate returns the release candidate number and whether v is a candidate.
func (v Version) Candidate() (int, bool) { return v.candidate, v.isRC }

// IsCandidate reports whether v is a release candidate.
func (v Version) IsCandidate() bool { return v.isRC }

// Final returns v without its candidate component.
func (v Version) Final() Version {
	return New(v.major, v.functional, v.technical)
}

// TagName returns the tag naming v in version control history.
func (v Version) TagName() string {
	s := fmt.Sprintf("v%06d.%d.%d", v.major, v.functional, v.technical)
	if v.isRC {
		s += fmt.Sprintf("-rc%d", v.candidate)
	}
	return s
}

// String implements fmt.Stringer. It is identical to TagName.
func (v Version) String() string {
	return v.TagName()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.TagName()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Candidates are accepted.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text), true)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to or
// after b. It is suitable for slices.SortFunc.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.major, b.major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.functional, b.functional); c != 0 {
		return c
	}
	if c := cmp.Compare(a.technical, b.technical); c != 0 {
		return c
	}
	switch {
	case a.isRC && b.isRC:
		return cmp.Compare(a.candidate, b.candidate)
	case a.isRC:
		return -1
	case b.isRC:
		return 1
	default:
		return 0
	}
}

// Compare compares v with other, see Compare.
func (v Version) Compare(other Version) int { return Compare(v, other) }

// Equal reports whether v and other name the same release.
func (v Version) Equal(other Version) bool { return Compare(v, other) == 0 }

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return Compare(v, other) < 0 }

// Greater reports whether v sorts after other.
func (v Version) Greater(other Version) bool { return Compare(v, other) > 0 }

// BumpedMajor reports whether v is a major bump from the older version other.
func (v Version) BumpedMajor(other Version) bool {
	return v.major > other.major
}

// BumpedFunctional reports whether v is a functional bump from other.
// It is false if a major bump is detected.
func (v Version) BumpedFunctional(other Version) bool {
	return !v.BumpedMajor(other) && v.functional > other.functional
}

// BumpedTechnical reports whether v is a technical bump from other.
// It is false if a major or functional bump is detected.
func (v Version) BumpedTechnical(other Version) bool {
	return !v.BumpedMajor(other) && !v.BumpedFunctional(other) && v.technical > other.technical
}

// BumpedCandidate reports whether v is a candidate bump from other.
// It is false if a major, functional or technical bump is detected and fails
// with errors.ErrDomain if either version is not a candidate.
func (v Version) BumpedCandidate(other Version) (bool, error) {
	if !v.isRC || !other.isRC {
		return false, errors.Newf(errors.CodeDomain,
			"cannot compare candidate numbers of %s and %s: both must be candidates", v, other)
	}
	return !v.BumpedMajor(other) && !v.BumpedFunctional(other) && !v.BumpedTechnical(other) &&
		v.candidate > other.candidate, nil
}
