// Package profile caches the signed-in user's profile for the lifetime of a
// process and keeps it consistent with the session.
package profile

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/log"
	"github.com/felixgeelhaar/rcup/internal/metrics"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// State is the lifecycle state of a Session.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Errored
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Fetcher is the subset of the API client the session needs.
type Fetcher interface {
	MyProfile(ctx context.Context) (*api.Profile, error)
	UpdateProfile(ctx context.Context, role token.Role, partial map[string]any) (map[string]any, error)
}

// Authenticator reports whether a valid credential is stored.
type Authenticator interface {
	IsAuthenticated(ctx context.Context) bool
}

// Session holds the profile and its load state. All transitions happen under
// mu; network calls run outside it.
type Session struct {
	fetcher Fetcher
	auth    Authenticator
	logger  *log.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	state   State
	profile *api.Profile
	err     error
	started bool
	// generation changes on Reset so results of fetches begun before it
	// are dropped.
	generation uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records fetch outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates an uninitialized session.
func NewSession(fetcher Fetcher, auth Authenticator, opts ...Option) *Session {
	s := &Session{
		fetcher: fetcher,
		auth:    auth,
		logger:  log.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("profile")
	return s
}

// Load performs the initial fetch. Only the first call does anything, and
// only when a valid session exists.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	if !s.auth.IsAuthenticated(ctx) {
		s.logger.DebugContext(ctx, "no session, skipping initial profile load")
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

// Refresh re-fetches the profile. It returns false without fetching when a
// fetch is already in flight.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	authenticated := s.auth.IsAuthenticated(ctx)

	s.mu.Lock()
	if s.state == Loading {
		s.mu.Unlock()
		s.metrics.RecordProfileFetch("skipped")
		return false, nil
	}
	if !authenticated {
		err := rerrors.NewNotAuthenticatedError()
		s.state, s.err = Errored, err
		s.mu.Unlock()
		return true, err
	}
	s.state = Loading
	s.started = true
	gen := s.generation
	s.mu.Unlock()

	profile, err := s.fetcher.MyProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return true, err
	}
	if err != nil {
		s.metrics.RecordProfileFetch("error")
		if api.IsUnauthorized(err) {
			s.resetLocked()
			return true, err
		}
		s.state, s.err = Errored, err
		s.logger.WithError(err).WarnContext(ctx, "profile fetch failed")
		return true, err
	}
	s.metrics.RecordProfileFetch("ok")
	s.state, s.profile, s.err = Ready, profile, nil
	return true, nil
}

// Update sends a partial update for role. On success partial is merged into
// the cached profile data and the server payload is returned. On failure the
// cache is left as it was.
func (s *Session) Update(ctx context.Context, role token.Role, partial map[string]any) (map[string]any, error) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	updated, err := s.fetcher.UpdateProfile(ctx, role, partial)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if api.IsUnauthorized(err) && gen == s.generation {
			s.resetLocked()
		}
		return nil, err
	}
	if s.profile != nil && gen == s.generation {
		s.profile.Merge(partial)
	}
	return updated, nil
}

// Reset discards the profile and returns to Uninitialized. A later Load
// fetches again.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.generation++
	s.state = Uninitialized
	s.profile = nil
	s.err = nil
	s.started = false
}

// Snapshot returns a copy of the profile with the current state and last
// fetch error.
func (s *Session) Snapshot() (*api.Profile, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone(), s.state, s.err
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns a copy of the cached profile, or nil.
func (s *Session) Profile() *api.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}
