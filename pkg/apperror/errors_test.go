package apperror

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"conflict", ErrConflict, http.StatusConflict},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("topic: %w", ErrNotFound), http.StatusNotFound},
		{"app error carries code", New(http.StatusConflict, "dup", nil), http.StatusConflict},
		{"helper not found", NotFound("no such post"), http.StatusNotFound},
		{"helper validation", Validation("content too long"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.expected {
				t.Errorf("MapErrorToStatus() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("db down")
	err := New(http.StatusInternalServerError, "failed", inner)

	if err.Error() != "db down" {
		t.Errorf("Error() = %q, want inner error message", err.Error())
	}
	if err.Unwrap() != inner {
		t.Error("Unwrap() should return the wrapped error")
	}
}
