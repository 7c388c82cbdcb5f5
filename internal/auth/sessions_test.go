package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestIssueAndResolve(t *testing.T) {
	mr := miniredis.RunT(t)
	sessions := NewSessions(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	ctx := context.Background()

	token, err := sessions.Issue(ctx, 42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	userID, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	mr := miniredis.RunT(t)
	sessions := NewSessions(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	if _, err := sessions.Resolve(context.Background(), "missing"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	sessions := NewSessions(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	token, err := sessions.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}
