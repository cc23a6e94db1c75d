package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rcup/internal/token"
	"github.com/felixgeelhaar/rcup/internal/token/tokentest"
)

// testEnv is an isolated home directory, credential slot and fake API.
type testEnv struct {
	t      *testing.T
	dir    string
	mux    *http.ServeMux
	server *httptest.Server
	slot   *token.FileSlot
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("HOME", dir)
	t.Setenv("RCUP_API_URL", server.URL+"/api")
	t.Setenv("RCUP_TOKEN_BACKEND", "file")
	t.Setenv("RCUP_TOKEN_DIR", dir)
	t.Setenv("RCUP_OUTPUT", "")
	t.Setenv("RCUP_LOG_LEVEL", "error")

	return &testEnv{t: t, dir: dir, mux: mux, server: server, slot: token.NewFileSlot(dir)}
}

// signIn stores a valid credential for role.
func (e *testEnv) signIn(role token.Role) string {
	e.t.Helper()
	credential := tokentest.Mint(e.t, "user-1", string(role), time.Now().Add(time.Hour))
	require.NoError(e.t, e.slot.Store(context.Background(), credential))
	return credential
}

func (e *testEnv) credential() string {
	e.t.Helper()
	value, _, err := e.slot.Load(context.Background())
	require.NoError(e.t, err)
	return value
}

// run executes the CLI with args and returns stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	e.t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func profileBody(role string, data map[string]any) map[string]any {
	return map[string]any{
		"user_id":      "user-1",
		"full_name":    "Ivan Petrov",
		"email":        "ivan@example.com",
		"role":         role,
		"profile_data": data,
		"created_at":   "2025-03-01T10:00:00",
	}
}

func eventBody(id, name string) map[string]any {
	return map[string]any{
		"id":                    id,
		"name":                  name,
		"description":           "Annual round",
		"date":                  "2026-04-01T10:00:00",
		"registration_deadline": "2026-03-25T10:00:00",
		"location":              "Moscow",
		"is_online":             false,
		"max_participants":      50,
		"current_participants":  12,
		"event_type":            "hackathon",
		"difficulty_level":      "medium",
		"status":                "registration",
		"organizer_id":          "sponsor-1",
		"tags":                  []any{"algorithms", map[string]any{"id": "t2", "name": "teams"}},
		"created_at":            "2026-01-10T09:00:00",
	}
}

// authorized reports whether r carries a bearer credential.
func authorized(r *http.Request) bool {
	return len(r.Header.Get("Authorization")) > len("Bearer ")
}
