// Package session derives authentication state from the stored credential.
//
// Nothing here is cached: every query re-reads the token store, so the
// session can never diverge from the credential it is derived from.
package session

import (
	"context"
	"time"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// State is a point-in-time view of the session.
type State struct {
	Authenticated bool       `json:"authenticated" yaml:"authenticated"`
	UserID        string     `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Role          token.Role `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Guard answers read-side session questions. It holds no state of its own.
type Guard struct {
	store *token.Store
}

// NewGuard creates a Guard over store.
func NewGuard(store *token.Store) *Guard {
	return &Guard{store: store}
}

// State computes the session from the current credential. Storage failures
// are reported as unauthenticated.
func (g *Guard) State(ctx context.Context) State {
	claims, err := g.store.Claims(ctx)
	if err != nil || claims == nil {
		return State{}
	}
	st := State{
		Authenticated: true,
		UserID:        claims.UserID(),
		Role:          claims.Role,
	}
	if claims.ExpiresAt != nil {
		st.ExpiresAt = claims.ExpiresAt.Time
	}
	return st
}

// IsAuthenticated reports whether a stored, unexpired credential exists.
func (g *Guard) IsAuthenticated(ctx context.Context) bool {
	credential, err := g.store.Get(ctx)
	return err == nil && credential != ""
}

// Role returns the role claim of a valid credential.
func (g *Guard) Role(ctx context.Context) (token.Role, bool) {
	st := g.State(ctx)
	if !st.Authenticated || st.Role == "" {
		return "", false
	}
	return st.Role, true
}

// UserID returns the subject claim of a valid credential.
func (g *Guard) UserID(ctx context.Context) (string, bool) {
	st := g.State(ctx)
	if !st.Authenticated || st.UserID == "" {
		return "", false
	}
	return st.UserID, true
}

func (g *Guard) hasRole(ctx context.Context, want token.Role) bool {
	r, ok := g.Role(ctx)
	return ok && r == want
}

func (g *Guard) IsSportsman(ctx context.Context) bool { return g.hasRole(ctx, token.RoleSportsman) }
func (g *Guard) IsSponsor(ctx context.Context) bool   { return g.hasRole(ctx, token.RoleSponsor) }
func (g *Guard) IsRegion(ctx context.Context) bool    { return g.hasRole(ctx, token.RoleRegion) }

// Require returns nil when the session is valid and, if roles are given,
// its role is one of them.
func (g *Guard) Require(ctx context.Context, roles ...token.Role) error {
	st := g.State(ctx)
	if !st.Authenticated {
		return rerrors.NewNotAuthenticatedError()
	}
	if len(roles) == 0 {
		return nil
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if st.Role == r {
			return nil
		}
		names = append(names, r.String())
	}
	return rerrors.NewRoleForbiddenError(st.Role.String(), names)
}
