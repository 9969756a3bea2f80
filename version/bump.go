package version

// Bump classifies the difference between a version and its predecessor.
type Bump int

const (
	// BumpNone means neither major, functional nor technical component increased.
	BumpNone Bump = iota

	// BumpTechnical means only the technical component increased.
	BumpTechnical

	// BumpFunctional means the functional component increased.
	BumpFunctional

	// BumpMajor means the major component increased.
	BumpMajor
)

// String returns a human-readable string representation of the Bump.
func (b Bump) String() string {
	switch b {
	case BumpNone:
		return "none"
	case BumpTechnical:
		return "technical"
	case BumpFunctional:
		return "functional"
	case BumpMajor:
		return "major"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Bump) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BumpFrom classifies v relative to the older version other following the
// precedence major > functional > technical.
func (v Version) BumpFrom(other Version) Bump {
	switch {
	case v.BumpedMajor(other):
		return BumpMajor
	case v.BumpedFunctional(other):
		return BumpFunctional
	case v.BumpedTechnical(other):
		return BumpTechnical
	default:
		return BumpNone
	}
}
