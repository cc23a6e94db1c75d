package config

import (
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/rcup/internal/token"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenSlot builds the credential slot for the configured backend. The
// returned closer releases backend connections.
func (c *Config) OpenSlot() (token.Slot, io.Closer) {
	switch c.Token.Backend {
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Token.RedisAddr,
			Password: c.Token.RedisPassword,
			DB:       c.Token.RedisDB,
		})
		return token.NewRedisSlot(client, token.WithKeyPrefix(c.Token.RedisPrefix)), client
	case BackendMemory:
		return token.NewMemorySlot(), nopCloser{}
	default:
		return token.NewFileSlot(c.Token.Dir), nopCloser{}
	}
}
