package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
	Body       []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ErrorCode maps the HTTP status onto an error code.
func (e *APIError) ErrorCode() rerrors.ErrorCode {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return rerrors.ErrCodeUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return rerrors.ErrCodeForbidden
	case e.StatusCode == http.StatusNotFound:
		return rerrors.ErrCodeNotFound
	case e.StatusCode >= 500:
		return rerrors.ErrCodeServer
	default:
		return rerrors.ErrCodeBadRequest
	}
}

// Is lets errors.Is match an APIError against the coded sentinels.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*rerrors.RcupError)
	return ok && t.Code == e.ErrorCode()
}

// errorBody covers FastAPI's {"detail": ...} and the generic
// {"error": ..., "message": ...} shapes.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable message from an error body.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return strings.TrimSpace(truncate(string(body), 200))
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}
		var issues []validationIssue
		if err := json.Unmarshal(eb.Detail, &issues); err == nil && len(issues) > 0 {
			parts := make([]string, 0, len(issues))
			for _, is := range issues {
				field := ""
				if n := len(is.Loc); n > 0 {
					field = fmt.Sprint(is.Loc[n-1])
				}
				if field != "" {
					parts = append(parts, field+": "+is.Msg)
				} else {
					parts = append(parts, is.Msg)
				}
			}
			return strings.Join(parts, "; ")
		}
		return string(eb.Detail)
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
