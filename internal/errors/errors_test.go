package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTokenMalformed, "test error message")

	if err.Code != ErrCodeTokenMalformed {
		t.Errorf("expected code %s, got %s", ErrCodeTokenMalformed, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeTokenStorage, "failed to write credential", cause)

	if err.Code != ErrCodeTokenStorage {
		t.Errorf("expected code %s, got %s", ErrCodeTokenStorage, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *RcupError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeNotAuthenticated, "not logged in"),
			wantCode: "SESSION-001",
			wantMsg:  "not logged in",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeNetwork, "no response", fmt.Errorf("connection refused")),
			wantCode: "NET-001",
			wantMsg:  "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeRoleForbidden, "forbidden").
		WithSuggestions("Suggestion 1", "Suggestion 2")

	if len(err.Suggestions) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Suggestions:") {
		t.Errorf("error string should contain suggestions section")
	}
	for _, suggestion := range err.Suggestions {
		if !strings.Contains(errStr, suggestion) {
			t.Errorf("error string should contain suggestion: %s", suggestion)
		}
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("loading profile: %w", NewSessionExpiredError(nil))

	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected errors.Is to match ErrUnauthorized by code")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected no match for a different code")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"direct", NewNotAuthenticatedError(), ErrCodeNotAuthenticated},
		{"wrapped", fmt.Errorf("ctx: %w", NewInvalidCredentialsError("")), ErrCodeInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCodeWalksNestedErrors(t *testing.T) {
	inner := NewNetworkError("GET", "http://localhost:8000/api/events", errors.New("dial tcp: refused"))
	outer := Wrap(ErrCodeProfileNotLoaded, "profile fetch failed", inner)

	if !HasCode(outer, ErrCodeNetwork) {
		t.Errorf("expected nested NET code to be found")
	}
	if !HasCode(outer, ErrCodeProfileNotLoaded) {
		t.Errorf("expected outer code to be found")
	}
	if HasCode(outer, ErrCodeTimeout) {
		t.Errorf("unexpected timeout code")
	}
}

func TestNewInvalidCredentialsError(t *testing.T) {
	err := NewInvalidCredentialsError("Неверный email или пароль")

	if err.Code != ErrCodeInvalidCredentials {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidCredentials, err.Code)
	}
	if !strings.Contains(err.Message, "Неверный email") {
		t.Errorf("message should carry server detail, got %q", err.Message)
	}
	if len(err.Suggestions) == 0 {
		t.Errorf("expected a suggestion")
	}
}

func TestNewNetworkError(t *testing.T) {
	err := NewNetworkError("POST", "http://localhost:8000/api/token", errors.New("timeout"))

	errStr := err.Error()
	if !strings.Contains(errStr, "RCUP_API_URL") {
		t.Errorf("suggestions should mention RCUP_API_URL, got: %s", errStr)
	}
	if !strings.Contains(errStr, "/api/token") {
		t.Errorf("message should contain URL, got: %s", errStr)
	}
}

type statusErr struct{ code ErrorCode }

func (s statusErr) Error() string        { return "status" }
func (s statusErr) ErrorCode() ErrorCode { return s.code }

func TestCodeOfUsesCoder(t *testing.T) {
	err := fmt.Errorf("request: %w", statusErr{code: ErrCodeForbidden})

	if got := CodeOf(err); got != ErrCodeForbidden {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeForbidden)
	}
	if !HasCode(err, ErrCodeForbidden) {
		t.Errorf("HasCode should see Coder implementations")
	}
}
