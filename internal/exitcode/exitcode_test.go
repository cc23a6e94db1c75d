package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"Forbidden", Forbidden, 3},
		{"NotFound", NotFound, 4},
		{"AuthError", AuthError, 5},
		{"NetworkError", NetworkError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error returns success", nil, Success},
		{"not logged in", rerrors.NewNotAuthenticatedError(), AuthError},
		{"wrong credentials", fmt.Errorf("login: %w", rerrors.NewInvalidCredentialsError("")), AuthError},
		{"session rejected", rerrors.NewSessionExpiredError(nil), AuthError},
		{"token storage", rerrors.NewTokenStorageError("read", errors.New("eacces")), AuthError},
		{"role forbidden", rerrors.NewRoleForbiddenError("sportsman", []string{"sponsor"}), Forbidden},
		{"not found", rerrors.New(rerrors.ErrCodeNotFound, "no event"), NotFound},
		{"network", rerrors.NewNetworkError("GET", "http://x", errors.New("refused")), NetworkError},
		{"timeout", rerrors.New(rerrors.ErrCodeTimeout, "slow"), NetworkError},
		{"validation", rerrors.NewValidationError("event", errors.New("bad")), UsageError},
		{"config", rerrors.NewConfigInvalidError(errors.New("bad")), UsageError},
		{"server", rerrors.New(rerrors.ErrCodeServer, "500"), GeneralError},
		{"cancelled", fmt.Errorf("run: %w", context.Canceled), Interrupted},
		{"unknown command", errors.New(`unknown command "foo" for "rcup"`), UsageError},
		{"required flag", errors.New(`required flag(s) "email" not set`), UsageError},
		{"arg count", errors.New("accepts 1 arg(s), received 0"), UsageError},
		{"generic", errors.New("something went wrong"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	for _, code := range []int{Success, GeneralError, UsageError, Forbidden, NotFound, AuthError, NetworkError, Interrupted} {
		if desc := GetExitCodeDescription(code); desc == "" || desc == "Unknown error" {
			t.Errorf("code %d has no description", code)
		}
	}
	if GetExitCodeDescription(99) != "Unknown error" {
		t.Errorf("unexpected description for unknown code")
	}
}
