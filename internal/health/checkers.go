package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// Pinger is implemented by *api.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIChecker checks that the API answers.
type APIChecker struct {
	pinger Pinger
	url    string
}

// NewAPIChecker checks p, reporting url in the details.
func NewAPIChecker(p Pinger, url string) *APIChecker {
	return &APIChecker{pinger: p, url: url}
}

func (c *APIChecker) Name() string { return "api" }

func (c *APIChecker) Check(ctx context.Context) *Result {
	err := c.pinger.Ping(ctx)
	switch {
	case err == nil:
		return Healthy("API is reachable").WithDetail("url", c.url)
	case rerrors.HasCode(err, rerrors.ErrCodeNetwork), rerrors.HasCode(err, rerrors.ErrCodeTimeout):
		return Unhealthy("API is unreachable").WithDetail("url", c.url).WithDetail("error", err.Error())
	case api.StatusCode(err) >= 500:
		return Unhealthy("API answered with a server error").
			WithDetail("url", c.url).
			WithDetail("status", api.StatusCode(err))
	default:
		return Degraded("API answered with an error").WithDetail("url", c.url).WithDetail("error", err.Error())
	}
}

// DefaultExpiryWarning is how close to expiry a credential is reported as
// degraded.
const DefaultExpiryWarning = 24 * time.Hour

// CredentialChecker checks the stored credential.
type CredentialChecker struct {
	store *token.Store
	warn  time.Duration
}

// NewCredentialChecker checks the credential held by store.
func NewCredentialChecker(store *token.Store) *CredentialChecker {
	return &CredentialChecker{store: store, warn: DefaultExpiryWarning}
}

func (c *CredentialChecker) Name() string { return "credential" }

func (c *CredentialChecker) Check(ctx context.Context) *Result {
	claims, err := c.store.Claims(ctx)
	if err != nil {
		return Unhealthy("credential storage is not readable").WithDetail("error", err.Error())
	}
	if claims == nil {
		return Degraded("not logged in")
	}

	r := Healthy("logged in as %s", claims.Role).WithDetail("user_id", claims.UserID())
	if claims.ExpiresAt != nil {
		expires := claims.ExpiresAt.Time
		r.WithDetail("expires_at", expires.UTC().Format(time.RFC3339))
		if left := expires.Sub(c.store.Codec().Now()); left < c.warn {
			r.Status = StatusDegraded
			r.Message = "credential expires in " + left.Round(time.Minute).String()
		}
	}
	return r
}

// RedisChecker checks the redis token backend.
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker pings client.
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) *Result {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return Unhealthy("redis is unreachable").WithDetail("error", err.Error())
	}
	return Healthy("redis answers")
}
