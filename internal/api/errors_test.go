package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Мероприятие не найдено"}`, "Мероприятие не найдено"},
		{"validation list", `{"detail":[{"loc":["body","password"],"msg":"too short","type":"value_error"}]}`, "password: too short"},
		{"validation list without loc", `{"detail":[{"msg":"bad"}]}`, "bad"},
		{"error field", `{"error":"boom"}`, "boom"},
		{"message field", `{"message":"Рейтинги работают"}`, "Рейтинги работают"},
		{"plain text", "Internal Server Error", "Internal Server Error"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestAPIErrorCodes(t *testing.T) {
	tests := []struct {
		status int
		want   rerrors.ErrorCode
	}{
		{http.StatusUnauthorized, rerrors.ErrCodeUnauthorized},
		{http.StatusForbidden, rerrors.ErrCodeForbidden},
		{http.StatusNotFound, rerrors.ErrCodeNotFound},
		{http.StatusUnprocessableEntity, rerrors.ErrCodeBadRequest},
		{http.StatusBadGateway, rerrors.ErrCodeServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{StatusCode: tt.status, Method: "GET", Path: "/x"})
			assert.Equal(t, tt.want, rerrors.CodeOf(err))
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, Method: "GET", Path: "/events/1", Detail: "not found"}
	assert.Equal(t, "GET /events/1: 404 Not Found: not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}
