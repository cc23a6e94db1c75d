package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
)

func TestProfileEndpoints(t *testing.T) {
	var updateBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profiles/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, profileBody())
	})
	mux.HandleFunc("/api/profiles/user-2", func(w http.ResponseWriter, r *http.Request) {
		body := profileBody()
		body["user_id"] = "user-2"
		writeJSON(w, http.StatusOK, body)
	})
	mux.HandleFunc("/api/profiles/sportsman", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&updateBody))
		writeJSON(w, http.StatusOK, map[string]any{"id": "p1", "bio": "runner", "rating": 10})
	})
	f := newFixture(t, mux)
	ctx := context.Background()

	me, err := f.client.MyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, token.RoleSportsman, me.Role)

	other, err := f.client.Profile(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "user-2", other.UserID)

	updated, err := f.client.UpdateProfile(ctx, token.RoleSportsman, map[string]any{"bio": "runner"})
	require.NoError(t, err)
	assert.Equal(t, "runner", updated["bio"])
	assert.Equal(t, map[string]any{"bio": "runner"}, updateBody)
}

func TestUpdateProfileRejectsForeignKeys(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	_, err := f.client.UpdateProfile(context.Background(), token.RoleSponsor, map[string]any{"bio": "x"})
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeValidation, rerrors.CodeOf(err))
}

func TestProfileCloneIsDeep(t *testing.T) {
	p := &Profile{
		UserID:      "user-1",
		ProfileData: map[string]any{"bio": "a", "nested": map[string]any{"k": "v"}, "list": []any{"x"}},
	}
	c := p.Clone()
	c.ProfileData["bio"] = "b"
	c.ProfileData["nested"].(map[string]any)["k"] = "changed"
	c.ProfileData["list"].([]any)[0] = "y"

	assert.Equal(t, "a", p.ProfileData["bio"])
	assert.Equal(t, "v", p.ProfileData["nested"].(map[string]any)["k"])
	assert.Equal(t, "x", p.ProfileData["list"].([]any)[0])
	assert.Nil(t, (*Profile)(nil).Clone())
}

func TestProfileMerge(t *testing.T) {
	p := &Profile{ProfileData: map[string]any{"bio": "a", "wins": 3}}
	p.Merge(map[string]any{"bio": "b", "specialization": "sprint"})
	assert.Equal(t, map[string]any{"bio": "b", "wins": 3, "specialization": "sprint"}, p.ProfileData)

	empty := &Profile{}
	empty.Merge(map[string]any{"bio": "x"})
	assert.Equal(t, "x", empty.ProfileData["bio"])
}

func TestProfileRoleData(t *testing.T) {
	p := &Profile{Role: token.RoleSponsor, ProfileData: map[string]any{
		"organization_name":   "Федерация",
		"hosted_events_count": float64(4),
		"updated_at":          nil,
	}}
	data, err := p.RoleData()
	require.NoError(t, err)
	sponsor, ok := data.(*SponsorData)
	require.True(t, ok)
	assert.Equal(t, "Федерация", sponsor.OrganizationName)
	assert.Equal(t, 4, sponsor.HostedEventsCount)

	_, err = (&Profile{Role: "admin"}).RoleData()
	assert.Equal(t, rerrors.ErrCodeProfileRole, rerrors.CodeOf(err))
}
