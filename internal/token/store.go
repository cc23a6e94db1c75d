package token

import (
	"context"
	"errors"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/log"
)

// Store is the only way the rest of the client touches the credential slot.
type Store struct {
	slot   Slot
	codec  *Codec
	logger *log.Logger
}

// NewStore wraps slot. A nil codec uses NewCodec(); a nil logger discards.
func NewStore(slot Slot, codec *Codec, logger *log.Logger) *Store {
	if codec == nil {
		codec = NewCodec()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Store{
		slot:   slot,
		codec:  codec,
		logger: logger.WithComponent("token"),
	}
}

// Codec returns the codec used for expiry checks.
func (s *Store) Codec() *Codec {
	return s.codec
}

// Save persists credential. An empty credential is logged and ignored.
func (s *Store) Save(ctx context.Context, credential string) error {
	if credential == "" {
		s.logger.Warn("attempted to save empty credential")
		return nil
	}
	if err := s.slot.Store(ctx, credential); err != nil {
		return rerrors.NewTokenStorageError("write", err)
	}
	return nil
}

// Get returns the stored credential, or "" when there is none. Malformed or
// expired credentials are purged before "" is returned.
func (s *Store) Get(ctx context.Context) (string, error) {
	credential, ok, err := s.slot.Load(ctx)
	if errors.Is(err, ErrCorruptSlot) {
		s.logger.WithError(err).Warn("credential slot unreadable, removing")
		return "", s.Remove(ctx)
	}
	if err != nil {
		return "", rerrors.NewTokenStorageError("read", err)
	}
	if !ok || credential == "" {
		return "", nil
	}

	if n := SegmentCount(credential); n != 3 {
		s.logger.Warn("invalid credential format, removing", "segments", n)
		return "", s.Remove(ctx)
	}

	if s.codec.IsExpired(credential) {
		s.logger.Info("credential expired, removing")
		return "", s.Remove(ctx)
	}

	return credential, nil
}

// Claims returns the decoded claims of the current valid credential.
func (s *Store) Claims(ctx context.Context) (*Claims, error) {
	credential, err := s.Get(ctx)
	if err != nil || credential == "" {
		return nil, err
	}
	claims, ok := s.codec.Decode(credential)
	if !ok {
		return nil, nil
	}
	return claims, nil
}

// Remove clears the slot. It is idempotent.
func (s *Store) Remove(ctx context.Context) error {
	if err := s.slot.Delete(ctx); err != nil {
		return rerrors.NewTokenStorageError("delete", err)
	}
	return nil
}
