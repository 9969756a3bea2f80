// Package errors provides the error kinds raised by the release version checker.
// It extends Go's standard error handling with string error codes that survive
// wrapping and can be matched with errors.Is against the package sentinels.
package errors

// ErrorCode represents a specific failure class of the version checker.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Input errors.

	// CodeInvalidFormat indicates a version or tag string does not match the
	// required grammar, or a candidate was given where a final release is required.
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// CodeDomain indicates an operation was invoked on inputs violating its
	// precondition, e.g. comparing candidate numbers of a final release.
	CodeDomain ErrorCode = "DOMAIN_VIOLATION"

	// CodeInvalidConfig indicates a configuration error prevents the check.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// History errors.

	// CodeNotFound indicates a required unique predecessor tag could not be found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Check errors.

	// CodePolicy indicates the declared version bump disagrees with the bump
	// required by the observed schema or branch state.
	CodePolicy ErrorCode = "POLICY_VIOLATION"

	// CodeInvariant indicates the declared version is not ahead of its predecessor.
	CodeInvariant ErrorCode = "INVARIANT_VIOLATION"

	// Infrastructure errors.

	// CodeUnavailable indicates the release registry could not be queried.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// CodeInternal indicates an unexpected failure of a collaborator.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// PolicyReason distinguishes the policy violations reported under CodePolicy.
type PolicyReason string

const (
	// ReasonNotOnMain is the generic "latest release is not on the main line" case.
	ReasonNotOnMain PolicyReason = "not-on-main"

	// ReasonLatestNotOnMain reports that the release marked latest is not on main
	// while another version is being checked.
	ReasonLatestNotOnMain PolicyReason = "latest-not-on-main"

	// ReasonCurrentLatestNotOnMain reports that the version being checked is
	// marked latest but was tagged outside the main line.
	ReasonCurrentLatestNotOnMain PolicyReason = "current-latest-not-on-main"

	// ReasonMajorBumpDisallowed reports a major bump in an invocation that forbids it.
	ReasonMajorBumpDisallowed PolicyReason = "major-bump-disallowed"

	// ReasonFunctionalBumpWithoutChanges reports a functional bump with no schema changes.
	ReasonFunctionalBumpWithoutChanges PolicyReason = "functional-bump-without-changes"

	// ReasonChangesWithoutFunctionalBump reports schema changes released without a functional bump.
	ReasonChangesWithoutFunctionalBump PolicyReason = "changes-without-functional-bump"
)
