package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Token errors (TOKEN-001 to TOKEN-099)
	ErrCodeTokenEmpty     ErrorCode = "TOKEN-001"
	ErrCodeTokenMalformed ErrorCode = "TOKEN-002"
	ErrCodeTokenExpired   ErrorCode = "TOKEN-003"
	ErrCodeTokenStorage   ErrorCode = "TOKEN-004"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNotAuthenticated ErrorCode = "SESSION-001"
	ErrCodeRoleForbidden    ErrorCode = "SESSION-002"
	ErrCodeSessionExpired   ErrorCode = "SESSION-003"

	// Remote API errors (API-001 to API-099)
	ErrCodeInvalidCredentials ErrorCode = "API-001"
	ErrCodeUnauthorized       ErrorCode = "API-002"
	ErrCodeForbidden          ErrorCode = "API-003"
	ErrCodeNotFound           ErrorCode = "API-004"
	ErrCodeBadRequest         ErrorCode = "API-005"
	ErrCodeServer             ErrorCode = "API-006"
	ErrCodeDecode             ErrorCode = "API-007"

	// Network errors (NET-001 to NET-099)
	ErrCodeNetwork ErrorCode = "NET-001"
	ErrCodeTimeout ErrorCode = "NET-002"

	// Profile errors (PROFILE-001 to PROFILE-099)
	ErrCodeProfileNotLoaded ErrorCode = "PROFILE-001"
	ErrCodeProfileRole      ErrorCode = "PROFILE-002"

	// Event errors (EVENT-001 to EVENT-099)
	ErrCodeEventImage ErrorCode = "EVENT-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigRead    ErrorCode = "CONFIG-002"

	// Validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodeValidation ErrorCode = "VALIDATION-001"
)

// RcupError represents an enhanced error with code and suggestions
type RcupError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *RcupError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *RcupError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code. This lets callers match
// against the package-level sentinels below.
func (e *RcupError) Is(target error) bool {
	t, ok := target.(*RcupError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new RcupError
func New(code ErrorCode, message string) *RcupError {
	return &RcupError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new RcupError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *RcupError {
	return &RcupError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *RcupError) WithSuggestion(suggestion string) *RcupError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *RcupError) WithSuggestions(suggestions ...string) *RcupError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Coder is implemented by errors from other packages that map onto a code,
// such as HTTP errors returned by the API client.
type Coder interface {
	ErrorCode() ErrorCode
}

// CodeOf returns the code of the first coded error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		switch e := err.(type) {
		case *RcupError:
			return e.Code
		case Coder:
			if code := e.ErrorCode(); code != "" {
				return code
			}
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		switch e := err.(type) {
		case *RcupError:
			if e.Code == code {
				return true
			}
		case Coder:
			if e.ErrorCode() == code {
				return true
			}
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Sentinels for errors.Is matching by code.
var (
	ErrNotAuthenticated   = New(ErrCodeNotAuthenticated, "not authenticated")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "wrong email or password")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "session is no longer valid")
)

// Common error constructors for frequently used errors

// NewNotAuthenticatedError creates an error for commands that need a session
func NewNotAuthenticatedError() *RcupError {
	return New(ErrCodeNotAuthenticated, "not logged in").
		WithSuggestion("Run 'rcup auth login' to authenticate")
}

// NewRoleForbiddenError creates an error for a role that may not run a command
func NewRoleForbiddenError(role string, allowed []string) *RcupError {
	return New(ErrCodeRoleForbidden, fmt.Sprintf("role %q is not allowed here", role)).
		WithSuggestion(fmt.Sprintf("This action requires one of: %s", strings.Join(allowed, ", ")))
}

// NewSessionExpiredError is returned after the server rejected the stored credential
func NewSessionExpiredError(cause error) *RcupError {
	return Wrap(ErrCodeUnauthorized, "session expired or revoked", cause).
		WithSuggestion("Run 'rcup auth login' to sign in again")
}

// NewInvalidCredentialsError creates the login failure error
func NewInvalidCredentialsError(detail string) *RcupError {
	msg := "wrong email or password"
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}
	return New(ErrCodeInvalidCredentials, msg).
		WithSuggestion("Check the email and password and try again")
}

// NewNetworkError wraps a transport failure where no response was received
func NewNetworkError(method, url string, cause error) *RcupError {
	return Wrap(ErrCodeNetwork, fmt.Sprintf("no response from %s %s", method, url), cause).
		WithSuggestion("Check that the API is reachable (RCUP_API_URL)").
		WithSuggestion("Run 'rcup config show' to see the active API URL")
}

// NewTokenStorageError wraps a failure of the credential slot backend
func NewTokenStorageError(op string, cause error) *RcupError {
	return Wrap(ErrCodeTokenStorage, fmt.Sprintf("credential storage %s failed", op), cause).
		WithSuggestion("Check permissions of the credential directory (RCUP_TOKEN_DIR)").
		WithSuggestion("For the redis backend, check RCUP_REDIS_ADDR")
}

// NewValidationError wraps input validation failures
func NewValidationError(subject string, cause error) *RcupError {
	return Wrap(ErrCodeValidation, fmt.Sprintf("invalid %s", subject), cause)
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(cause error) *RcupError {
	return Wrap(ErrCodeConfigInvalid, "invalid configuration", cause).
		WithSuggestion("Run 'rcup config show' to inspect the effective configuration")
}
