package exitcode

import (
	"context"
	"errors"
	"os"
	"strings"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage, input or configuration
	UsageError = 2

	// Forbidden indicates the server or the session refused the action for this role
	Forbidden = 3

	// NotFound indicates the requested resource does not exist
	NotFound = 4

	// AuthError indicates a missing, expired or rejected session, or wrong credentials
	AuthError = 5

	// NetworkError indicates the API could not be reached or timed out
	NetworkError = 6

	// Interrupted indicates the user cancelled the command
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode maps an error to an exit code, by error code first and
// by cobra's usage messages second.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, context.Canceled) {
		return Interrupted
	}

	code := rerrors.CodeOf(err)
	switch {
	case code == rerrors.ErrCodeNotAuthenticated,
		code == rerrors.ErrCodeSessionExpired,
		code == rerrors.ErrCodeUnauthorized,
		code == rerrors.ErrCodeInvalidCredentials,
		strings.HasPrefix(string(code), "TOKEN-"):
		return AuthError
	case code == rerrors.ErrCodeRoleForbidden, code == rerrors.ErrCodeForbidden:
		return Forbidden
	case code == rerrors.ErrCodeNotFound:
		return NotFound
	case strings.HasPrefix(string(code), "NET-"):
		return NetworkError
	case code == rerrors.ErrCodeValidation,
		code == rerrors.ErrCodeBadRequest,
		code == rerrors.ErrCodeEventImage,
		strings.HasPrefix(string(code), "CONFIG-"):
		return UsageError
	case code != "":
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or input)"
	case Forbidden:
		return "Forbidden for this role"
	case NotFound:
		return "Not found"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
