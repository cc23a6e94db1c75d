package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
	"github.com/felixgeelhaar/rcup/internal/token/tokentest"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestAPIChecker(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"reachable", nil, StatusHealthy},
		{"refused", rerrors.NewNetworkError("GET", "http://x/api/events", errors.New("refused")), StatusUnhealthy},
		{"server error", &api.APIError{StatusCode: 502, Method: "GET", Path: "/events"}, StatusUnhealthy},
		{"client error", &api.APIError{StatusCode: 422, Method: "GET", Path: "/events"}, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAPIChecker(pingFunc(func(context.Context) error { return tt.err }), "http://x/api")
			r := c.Check(context.Background())
			assert.Equal(t, tt.want, r.Status)
			assert.Equal(t, "http://x/api", r.Details["url"])
		})
	}
}

func TestCredentialChecker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := token.NewStore(token.NewMemorySlot(), token.NewCodec(token.WithClock(func() time.Time { return now })), nil)
	c := NewCredentialChecker(store)

	r := c.Check(ctx)
	assert.Equal(t, StatusDegraded, r.Status)
	assert.Equal(t, "not logged in", r.Message)

	require.NoError(t, store.Save(ctx, tokentest.Mint(t, "user-1", "sponsor", now.Add(72*time.Hour))))
	r = c.Check(ctx)
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, "logged in as sponsor", r.Message)
	assert.Equal(t, "user-1", r.Details["user_id"])

	require.NoError(t, store.Save(ctx, tokentest.Mint(t, "user-1", "sponsor", now.Add(2*time.Hour))))
	r = c.Check(ctx)
	assert.Equal(t, StatusDegraded, r.Status)
	assert.Equal(t, "credential expires in 2h0m0s", r.Message)
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisChecker(client)
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)

	mr.Close()
	assert.Equal(t, StatusUnhealthy, c.Check(context.Background()).Status)
}
