package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, Config{MaxLoginAttempts: max, LoginCooldownDuration: time.Minute}), mr
}

func TestLimiterBlocksAfterBudget(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.CheckLogin(ctx, "a@x.com"); err != nil {
			t.Fatalf("attempt %d blocked early: %v", i, err)
		}
		if err := l.FailLogin(ctx, "a@x.com"); err != nil {
			t.Fatalf("FailLogin: %v", err)
		}
	}
	if err := l.CheckLogin(ctx, "A@X.com "); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := l.CheckLogin(ctx, "other@x.com"); err != nil {
		t.Fatalf("other email must not be limited: %v", err)
	}
}

func TestLimiterWindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := l.FailLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("FailLogin: %v", err)
	}
	if err := l.CheckLogin(ctx, "a@x.com"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected limit, got %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if err := l.CheckLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("window should have expired: %v", err)
	}
}

func TestLimiterReset(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	_ = l.FailLogin(ctx, "a@x.com")
	if err := l.ResetLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("ResetLogin: %v", err)
	}
	if err := l.CheckLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("reset did not clear counter: %v", err)
	}
}

func TestLimiterRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()
	if err := l.CheckLogin(context.Background(), "a@x.com"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}

func TestLimiterCounterAlwaysCarriesTTL(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	ctx := context.Background()
	key := loginKey("a@x.com")

	if err := l.FailLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("FailLogin: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("ttl after first failure = %v", ttl)
	}

	mr.FastForward(30 * time.Second)
	if err := l.FailLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("FailLogin: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 30*time.Second {
		t.Fatalf("later failures must not extend the window, ttl = %v", ttl)
	}
	if got, _ := mr.Get(key); got != "2" {
		t.Fatalf("counter = %q, want 2", got)
	}
}
