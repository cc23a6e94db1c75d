package token

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the credential under a single Redis key so several
// processes can share one session.
type RedisSlot struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// RedisSlotOption configures a RedisSlot.
type RedisSlotOption func(*RedisSlot)

// WithKeyPrefix namespaces the slot key, e.g. per user profile on a shared server.
func WithKeyPrefix(prefix string) RedisSlotOption {
	return func(r *RedisSlot) {
		if prefix != "" {
			r.key = prefix + ":" + r.key
		}
	}
}

// WithTTL makes Redis drop the key after ttl. Zero keeps it until Delete.
func WithTTL(ttl time.Duration) RedisSlotOption {
	return func(r *RedisSlot) {
		r.ttl = ttl
	}
}

// NewRedisSlot creates a slot backed by client.
func NewRedisSlot(client redis.UniversalClient, opts ...RedisSlotOption) *RedisSlot {
	r := &RedisSlot{client: client, key: DefaultKey}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the Redis key in use.
func (r *RedisSlot) Key() string {
	return r.key
}

// Load implements Slot.
func (r *RedisSlot) Load(ctx context.Context) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Store implements Slot.
func (r *RedisSlot) Store(ctx context.Context, value string) error {
	return r.client.Set(ctx, r.key, value, r.ttl).Err()
}

// Delete implements Slot.
func (r *RedisSlot) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

var _ Slot = (*RedisSlot)(nil)
