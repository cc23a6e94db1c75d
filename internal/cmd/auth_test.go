package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/exitcode"
	"github.com/felixgeelhaar/rcup/internal/token"
	"github.com/felixgeelhaar/rcup/internal/token/tokentest"
)

// TestAuthSubcommands tests that all auth subcommands are registered
func TestAuthSubcommands(t *testing.T) {
	subcommands := map[string]bool{
		"register": false,
		"login":    false,
		"logout":   false,
		"status":   false,
	}

	for _, cmd := range authCmd.Commands() {
		if _, exists := subcommands[cmd.Name()]; exists {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		if !found {
			t.Errorf("subcommand '%s' not found in auth command", name)
		}
	}
}

// loginAPI serves /token for password "Secret123" and /profiles/me.
func loginAPI(t *testing.T, env *testEnv) {
	env.mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("password") != "Secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Неверный email или пароль"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": tokentest.Mint(t, "user-1", "sportsman", time.Now().Add(time.Hour)),
			"token_type":   "bearer",
		})
	})
	env.mux.HandleFunc("GET /api/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, profileBody("sportsman", map[string]any{"rating": 1200, "bio": "Competitive programmer"}))
	})
}

func TestAuthLoginShowsProfile(t *testing.T) {
	env := newTestEnv(t)
	loginAPI(t, env)

	out, stderr, err := env.run("auth", "login", "--email", "ivan@example.com", "--password", "Secret123")
	require.NoError(t, err)

	assert.Contains(t, out, "Ivan Petrov")
	assert.Contains(t, out, "Competitive programmer")
	assert.Contains(t, stderr, "Logged in as ivan@example.com")
	assert.NotEmpty(t, env.credential())
}

func TestAuthLoginPromptsForMissingValues(t *testing.T) {
	env := newTestEnv(t)
	loginAPI(t, env)

	origPassword, origString := promptPassword, promptString
	t.Cleanup(func() { promptPassword, promptString = origPassword, origString })
	var asked []string
	promptString = func(title, placeholder string, required bool) (string, error) {
		asked = append(asked, title)
		return "ivan@example.com", nil
	}
	promptPassword = func(title string) (string, error) {
		asked = append(asked, title)
		return "Secret123", nil
	}

	_, _, err := env.run("auth", "login")
	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Password"}, asked)
	assert.NotEmpty(t, env.credential())
}

func TestAuthLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	loginAPI(t, env)

	_, stderr, err := env.run("auth", "login", "--email", "ivan@example.com", "--password", "nope")
	require.Error(t, err)

	assert.True(t, rerrors.HasCode(err, rerrors.ErrCodeInvalidCredentials))
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))
	assert.Contains(t, stderr, "Неверный email или пароль")
	assert.NotContains(t, stderr, "Session expired")
	assert.Empty(t, env.credential())
}

func TestAuthStatus(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	env.signIn(token.RoleSponsor)
	out, _, err = env.run("-o", "json", "auth", "status")
	require.NoError(t, err)

	var st struct {
		Authenticated bool   `json:"authenticated"`
		UserID        string `json:"user_id"`
		Role          string `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.True(t, st.Authenticated)
	assert.Equal(t, "user-1", st.UserID)
	assert.Equal(t, "sponsor", st.Role)
}

func TestAuthStatusPurgesExpiredCredential(t *testing.T) {
	env := newTestEnv(t)
	expired := tokentest.Mint(t, "user-1", "sportsman", time.Now().Add(-time.Minute))
	require.NoError(t, env.slot.Store(context.Background(), expired))

	out, _, err := env.run("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
	assert.Empty(t, env.credential())
}

func TestAuthLogout(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(token.RoleSportsman)

	out, _, err := env.run("auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Empty(t, env.credential())

	out, _, err = env.run("auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestAuthRegister(t *testing.T) {
	env := newTestEnv(t)
	loginAPI(t, env)

	var registered map[string]any
	env.mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&registered)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok", "user_id": "user-1"})
	})

	out, _, err := env.run("auth", "register",
		"--full-name", "Ivan Petrov", "--email", "ivan@example.com", "--password", "Secret123", "--role", "sportsman")
	require.NoError(t, err)

	assert.Equal(t, "Ivan Petrov", registered["full_name"])
	assert.Equal(t, "sportsman", registered["role"])
	assert.Contains(t, out, "Ivan Petrov")
	assert.NotEmpty(t, env.credential())
}

func TestAuthRegisterValidatesLocally(t *testing.T) {
	env := newTestEnv(t)
	called := false
	env.mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, _, err := env.run("auth", "register",
		"--full-name", "Ivan", "--email", "not-an-email", "--password", "Secret123")
	require.Error(t, err)
	assert.True(t, rerrors.HasCode(err, rerrors.ErrCodeValidation))
	assert.Equal(t, exitcode.UsageError, exitcode.DetermineExitCode(err))
	assert.False(t, called)

	_, _, err = env.run("auth", "register",
		"--full-name", "Ivan Petrov", "--email", "ivan@example.com", "--password", "Secret123", "--role", "admin")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "admin"))
}

func TestExpiredSessionRedirectsToLoginOnce(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(token.RoleSportsman)

	hits := 0
	env.mux.HandleFunc("GET /api/events/my", func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
	})

	_, stderr, err := env.run("events", "mine")
	require.Error(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))
	assert.Equal(t, 1, strings.Count(stderr, "sign in again with: rcup auth login"))
	assert.Empty(t, env.credential())
}
