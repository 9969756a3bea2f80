package git

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be checked with errors.Is().
// They wrap underlying go-git errors behind a stable API.

// ErrAlreadyUpToDate is returned when a fetch brings in no changes.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrAuthRequired is returned when authentication cannot be resolved for a remote.
var ErrAuthRequired = errors.New("authentication required")

// ErrTagExists is returned when attempting to create a tag that already exists.
var ErrTagExists = errors.New("tag already exists")

// ErrTagMissing is returned when a tag does not exist.
var ErrTagMissing = errors.New("tag does not exist")

// ErrRemoteMissing is returned when the named remote is not configured.
var ErrRemoteMissing = errors.New("remote does not exist")

// ErrInvalidRef is returned when a reference name or revision specification
// is malformed or empty.
var ErrInvalidRef = errors.New("invalid reference")

// ErrResolveFailed is returned when a revision specification cannot be resolved
// to a commit (e.g. the branch or tag doesn't exist).
var ErrResolveFailed = errors.New("cannot resolve revision")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
