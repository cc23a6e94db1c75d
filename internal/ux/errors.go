package ux

import (
	"errors"
	"fmt"
	"io"
	"strings"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion for API failures that do not carry one.
// Coded errors with their own suggestions are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var rcupErr *rerrors.RcupError
	if errors.As(err, &rcupErr) && len(rcupErr.Suggestions) > 0 {
		return err
	}

	switch rerrors.CodeOf(err) {
	case rerrors.ErrCodeUnauthorized:
		return NewErrorWithSuggestion(err, "Your session has ended. Run 'rcup auth login' to sign in again")
	case rerrors.ErrCodeForbidden:
		return NewErrorWithSuggestion(err, "Your role is not allowed to do this. Check 'rcup auth status'")
	case rerrors.ErrCodeNotFound:
		return NewErrorWithSuggestion(err, "Check the ID. 'rcup events list' shows available events")
	case rerrors.ErrCodeServer:
		return NewErrorWithSuggestion(err, "The server failed. Try again later")
	case rerrors.ErrCodeValidation:
		return NewErrorWithSuggestion(err, "Fix the fields listed above and run the command again")
	}

	if strings.Contains(err.Error(), "connection refused") {
		return NewErrorWithSuggestion(err, "Check that the API is running and RCUP_API_URL points to it")
	}
	return err
}

// PrintError writes err to w with the error style.
func PrintError(w io.Writer, err error, styles Styles) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", styles.Error.Render("Error:"), EnhanceError(err))
}
