// Package apperr defines the error taxonomy shared by the store, the progress
// gate and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation needs a session and none
// was supplied. Callers route the user to login.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrGameLocked is returned when a completion is reported for a game whose
// slot has not been unlocked yet.
var ErrGameLocked = errors.New("game is locked")

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrStoreUnavailable wraps a transport or database failure. Gating state is
// unknown when this is returned and the operation may be retried.
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

func (e *ErrStoreUnavailable) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store unavailable: %v", e.Err)
	}
	return fmt.Sprintf("store unavailable (%s): %v", e.Op, e.Err)
}

func (e *ErrStoreUnavailable) Unwrap() error { return e.Err }

// ErrValidation reports malformed user input. No store call is made.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Invalid is shorthand for constructing an *ErrValidation.
func Invalid(field, reason string) error {
	return &ErrValidation{Field: field, Reason: reason}
}

// Unavailable wraps err as an *ErrStoreUnavailable unless it is nil or
// already classified.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var su *ErrStoreUnavailable
	if errors.As(err, &su) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &ErrStoreUnavailable{Op: op, Err: err}
}

// Retryable reports whether the caller may safely retry the operation.
func Retryable(err error) bool {
	var su *ErrStoreUnavailable
	return errors.As(err, &su)
}

// IsValidation reports whether err is a validation failure, including a
// locked game.
func IsValidation(err error) bool {
	var v *ErrValidation
	return errors.As(err, &v) || errors.Is(err, ErrGameLocked)
}
