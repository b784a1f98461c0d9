package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidnier/storefront-backend/pkg/config"
	redisclient "github.com/davidnier/storefront-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session has no stored blob (expired or
// never written).
var ErrNotFound = errors.New("session data not found")

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type cartKeyer interface {
	CartKey(sessionID string) string
}

// Store persists per-session cart blobs in Redis. Every save rewrites the
// whole blob and resets the TTL; concurrent writers to the same session
// race whole-blob, last write wins.
type Store struct {
	store kvStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewStore constructs a session store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.CartConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("cart session ttl must be positive")
	}
	return &Store{
		store: client,
		keyer: client,
		ttl:   cfg.SessionTTL,
	}, nil
}

// Get loads the raw blob stored for the session.
func (s *Store) Get(ctx context.Context, sessionID string) ([]byte, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	raw, err := s.store.Get(ctx, s.keyer.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(raw), nil
}

// Save writes the blob through immediately and resets the session TTL.
func (s *Store) Save(ctx context.Context, sessionID string, blob []byte) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.store.Set(ctx, s.keyer.CartKey(sessionID), string(blob), s.ttl)
}

// Delete drops the session blob entirely.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.store.Del(ctx, s.keyer.CartKey(sessionID))
}

// Touch extends the TTL on read-heavy paths without rewriting the blob.
func (s *Store) Touch(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.store.Expire(ctx, s.keyer.CartKey(sessionID), s.ttl)
}

// NewSessionID produces the identifier stored in the session cookie.
func NewSessionID() string {
	return uuid.NewString()
}
