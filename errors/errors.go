package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is. Any *Error with the same code
// matches, regardless of its message or cause.
var (
	ErrFormat        = &Error{Code: CodeInvalidFormat, Message: "invalid format"}
	ErrDomain        = &Error{Code: CodeDomain, Message: "domain violation"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrPolicy        = &Error{Code: CodePolicy, Message: "policy violation"}
	ErrInvariant     = &Error{Code: CodeInvariant, Message: "invariant violation"}
	ErrInvalidConfig = &Error{Code: CodeInvalidConfig, Message: "invalid configuration"}
	ErrUnavailable   = &Error{Code: CodeUnavailable, Message: "service unavailable"}
)

// Error provides structured error information for the checker.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type Error struct {
	Code    ErrorCode
	Reason  PolicyReason
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	code := string(e.Code)
	if e.Reason != "" {
		code += "/" + string(e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same code. A target with a
// reason only matches errors carrying the same reason; ReasonNotOnMain also
// matches both of its specialised forms.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	switch t.Reason {
	case "", e.Reason:
		return true
	case ReasonNotOnMain:
		return e.Reason == ReasonLatestNotOnMain || e.Reason == ReasonCurrentLatestNotOnMain
	default:
		return false
	}
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a code and a formatted message.
func Wrapf(cause error, code ErrorCode, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Policy creates a CodePolicy error for the given reason.
func Policy(reason PolicyReason, message string) *Error {
	return &Error{
		Code:    CodePolicy,
		Reason:  reason,
		Message: message,
	}
}

// Policyf creates a CodePolicy error for the given reason with a formatted message.
func Policyf(reason PolicyReason, format string, args ...any) *Error {
	return Policy(reason, fmt.Sprintf(format, args...))
}

// WithContext attaches debugging context to the error and returns it.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal
// when err carries no code. It returns "" for a nil error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ReasonOf returns the policy reason of the first *Error in err's chain that has one.
func ReasonOf(err error) PolicyReason {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// PolicyReason sentinels, usable as errors.Is targets.
var (
	ErrNotOnMain                    = &Error{Code: CodePolicy, Reason: ReasonNotOnMain}
	ErrLatestNotOnMain              = &Error{Code: CodePolicy, Reason: ReasonLatestNotOnMain}
	ErrCurrentLatestNotOnMain       = &Error{Code: CodePolicy, Reason: ReasonCurrentLatestNotOnMain}
	ErrMajorBumpDisallowed          = &Error{Code: CodePolicy, Reason: ReasonMajorBumpDisallowed}
	ErrFunctionalBumpWithoutChanges = &Error{Code: CodePolicy, Reason: ReasonFunctionalBumpWithoutChanges}
	ErrChangesWithoutFunctionalBump = &Error{Code: CodePolicy, Reason: ReasonChangesWithoutFunctionalBump}
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
