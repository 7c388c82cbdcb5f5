package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:v1:"

// ErrNoSession indicates the token is unknown or expired.
var ErrNoSession = errors.New("session not found")

// Sessions issues opaque bearer tokens backed by Redis with a TTL. A token is
// just a uuid; everything about the session lives server side.
type Sessions struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewSessions builds the session service.
func NewSessions(cache *redis.Client, ttl time.Duration) *Sessions {
	return &Sessions{cache: cache, ttl: ttl}
}

// Issue creates a fresh session token for the user.
func (s *Sessions) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve maps a token back to its user id.
func (s *Sessions) Resolve(ctx context.Context, token string) (int64, error) {
	raw, err := s.cache.Get(ctx, sessionPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}
