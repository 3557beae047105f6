// Package kayerr defines the error taxonomy shared by the registries, the
// config store, and the toggle path. Callers classify failures with
// errors.As against these types; nothing in the core retries on its own.
package kayerr

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports malformed user input: a definition or binding that
// violates its invariants. Recoverable by correcting the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateAliasError reports an attempt to add a definition under an alias
// that already exists.
type DuplicateAliasError struct {
	Alias string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q already exists", e.Alias)
}

// DuplicateKeyChordError reports an attempt to bind a chord that is already
// bound. One chord maps to exactly one alias.
type DuplicateKeyChordError struct {
	Chord string
}

func (e *DuplicateKeyChordError) Error() string {
	return fmt.Sprintf("key chord %q is already bound", e.Chord)
}

// NotFoundError reports a lookup miss. Kind names the registry that missed
// ("application" or "shortcut") and Key the alias or chord looked up.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// CorruptConfigError reports an unreadable durable document. Fatal for that
// document only; the caller decides whether to abort or reinitialize.
type CorruptConfigError struct {
	Path string
	Err  error
}

func (e *CorruptConfigError) Error() string {
	return fmt.Sprintf("corrupt config %s: %v", e.Path, e.Err)
}

func (e *CorruptConfigError) Unwrap() error { return e.Err }

// TimeoutError reports that the window snapshot provider exceeded its
// deadline. The caller may retry; the core never does.
type TimeoutError struct {
	Op      string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Elapsed)
}

// ExecutorError reports a failed side effect: launch, activate, or minimize.
type ExecutorError struct {
	Op  string
	Err error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExecutorError) Unwrap() error { return e.Err }

// Wire codes carried in control socket responses, so the taxonomy survives
// the daemon boundary.
const (
	CodeValidation    = "validation"
	CodeDuplicate     = "duplicate"
	CodeNotFound      = "not_found"
	CodeCorruptConfig = "corrupt_config"
	CodeTimeout       = "timeout"
	CodeExecutor      = "executor"
	CodeInternal      = "internal"
)

// RemoteError is a failure reported by the daemon over the control socket.
// Its code feeds the same classifiers as the local error types.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Code maps err onto its wire code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return CodeNotFound
	case IsDuplicate(err):
		return CodeDuplicate
	case IsValidation(err):
		return CodeValidation
	case IsCorruptConfig(err):
		return CodeCorruptConfig
	case IsTimeout(err):
		return CodeTimeout
	case IsExecutor(err):
		return CodeExecutor
	default:
		return CodeInternal
	}
}

func hasCode(err error, code string) bool {
	var target *RemoteError
	return errors.As(err, &target) && target.Code == code
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target) || hasCode(err, CodeValidation)
}

// IsDuplicate reports whether err is a duplicate-alias or duplicate-chord
// error.
func IsDuplicate(err error) bool {
	var alias *DuplicateAliasError
	var chord *DuplicateKeyChordError
	return errors.As(err, &alias) || errors.As(err, &chord) || hasCode(err, CodeDuplicate)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target) || hasCode(err, CodeNotFound)
}

// IsCorruptConfig reports whether err is a CorruptConfigError.
func IsCorruptConfig(err error) bool {
	var target *CorruptConfigError
	return errors.As(err, &target) || hasCode(err, CodeCorruptConfig)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target) || hasCode(err, CodeTimeout)
}

// IsExecutor reports whether err is an ExecutorError.
func IsExecutor(err error) bool {
	var target *ExecutorError
	return errors.As(err, &target) || hasCode(err, CodeExecutor)
}
