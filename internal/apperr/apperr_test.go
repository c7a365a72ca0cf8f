package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailable(t *testing.T) {
	assert.Nil(t, Unavailable("get", nil))

	base := errors.New("connection refused")
	err := Unavailable("get progress", base)
	assert.True(t, Retryable(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "store unavailable (get progress): connection refused", err.Error())

	// Already classified errors pass through untouched.
	assert.Same(t, err, Unavailable("outer", err))
	assert.ErrorIs(t, Unavailable("lookup", ErrNotFound), ErrNotFound)
	assert.False(t, Retryable(Unavailable("lookup", ErrNotFound)))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		retryable  bool
	}{
		{"validation", Invalid("score", "out of range"), true, false},
		{"wrapped validation", fmt.Errorf("submit: %w", Invalid("answers", "empty")), true, false},
		{"locked", fmt.Errorf("complete: %w", ErrGameLocked), true, false},
		{"unauthenticated", ErrNotAuthenticated, false, false},
		{"store", &ErrStoreUnavailable{Err: errors.New("io")}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.retryable, Retryable(tt.err))
		})
	}
}

func TestValidationMessage(t *testing.T) {
	assert.Equal(t, "validation failed: email: required", Invalid("email", "required").Error())
	assert.Equal(t, "validation failed: bad", (&ErrValidation{Reason: "bad"}).Error())
}
