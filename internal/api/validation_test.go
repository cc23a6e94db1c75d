package api

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rcup/internal/token"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		FullName: "Ivan Petrov",
		Email:    "ivan@example.com",
		Password: "Secret123",
		Role:     token.RoleSportsman,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"single word name", func(r *RegisterRequest) { r.FullName = "Ivanovich" }, "full_name"},
		{"short name with space", func(r *RegisterRequest) { r.FullName = " Iv P " }, "full_name"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "Ab1" }, "password"},
		{"no digit", func(r *RegisterRequest) { r.Password = "Secretpass" }, "password"},
		{"no upper", func(r *RegisterRequest) { r.Password = "secret123" }, "password"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "admin" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			errs, ok := err.(validation.Errors)
			require.True(t, ok, "expected validation.Errors, got %T", err)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestValidateProfileUpdate(t *testing.T) {
	require.NoError(t, ValidateProfileUpdate(token.RoleSportsman, map[string]any{
		"bio":              "runner",
		"experience_years": int64(4),
	}))
	require.NoError(t, ValidateProfileUpdate(token.RoleSponsor, map[string]any{
		"contact_phone": "+7 912 345 67 89",
		"contact_email": "org@example.com",
		"website":       "https://example.org",
	}))

	tests := []struct {
		name    string
		role    token.Role
		partial map[string]any
		field   string
	}{
		{"foreign key", token.RoleSportsman, map[string]any{"region_name": "Москва"}, "region_name"},
		{"negative years", token.RoleSportsman, map[string]any{"experience_years": -1}, "experience_years"},
		{"string years", token.RoleSportsman, map[string]any{"experience_years": "four"}, "experience_years"},
		{"bad phone", token.RoleRegion, map[string]any{"contact_phone": "12"}, "contact_phone"},
		{"bad email", token.RoleRegion, map[string]any{"contact_email": "nope"}, "contact_email"},
		{"bad website", token.RoleSponsor, map[string]any{"website": "not a url"}, "website"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileUpdate(tt.role, tt.partial)
			require.Error(t, err)
			errs, ok := err.(validation.Errors)
			require.True(t, ok)
			assert.Contains(t, errs, tt.field)
		})
	}

	assert.Error(t, ValidateProfileUpdate(token.RoleSponsor, nil))
	assert.Error(t, ValidateProfileUpdate("admin", map[string]any{"x": 1}))
}

func TestParseProfileValue(t *testing.T) {
	v, err := ParseProfileValue("experience_years", " 7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = ParseProfileValue("population", "many")
	assert.Error(t, err)

	v, err = ParseProfileValue("contact_phone", "+7 912 345-67-89")
	require.NoError(t, err)
	assert.Equal(t, "+79123456789", v)

	v, err = ParseProfileValue("bio", "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestProfileKeys(t *testing.T) {
	assert.Equal(t, []string{"bio", "experience_years", "specialization"}, ProfileKeys(token.RoleSportsman))
	assert.Empty(t, ProfileKeys("admin"))
}

func TestEventInputValidate(t *testing.T) {
	date := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	before := date.Add(-24 * time.Hour)
	after := date.Add(24 * time.Hour)
	zero := 0

	assert.NoError(t, EventInput{Name: "Cup", Date: &date, RegistrationDeadline: &before}.validateCreate())
	assert.Error(t, EventInput{Name: "Cup"}.validateCreate(), "date is required on create")
	assert.Error(t, EventInput{Date: &date}.validateCreate(), "name is required on create")
	assert.NoError(t, EventInput{}.Validate(), "empty update is allowed")
	assert.Error(t, EventInput{Date: &date, RegistrationDeadline: &after}.Validate())
	assert.Error(t, EventInput{MaxParticipants: &zero}.Validate())
	assert.Error(t, EventInput{EventType: "party"}.Validate())
	assert.Error(t, EventInput{DifficultyLevel: "insane"}.Validate())
	assert.Error(t, EventInput{Status: "archived"}.Validate())
}
