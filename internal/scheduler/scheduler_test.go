package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
	"fintrack-backend/internal/testutil"
)

type failingSweeper struct{}

func (failingSweeper) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestSweepExpiredTokens(t *testing.T) {
	tokens := repository.NewTokenRepository(testutil.OpenDB(t))
	ctx := context.Background()
	now := time.Now()

	for _, tok := range []*models.Token{
		{Token: "old", UserID: "u", Type: models.TokenRefresh, Expires: now.Add(-time.Hour)},
		{Token: "new", UserID: "u", Type: models.TokenRefresh, Expires: now.Add(time.Hour)},
	} {
		if err := tokens.SaveToken(ctx, tok); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	if n := SweepExpiredTokens(ctx, tokens, now); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if n := SweepExpiredTokens(ctx, tokens, now); n != 0 {
		t.Fatalf("second sweep removed %d", n)
	}
}

func TestSweepSwallowsErrors(t *testing.T) {
	if n := SweepExpiredTokens(context.Background(), failingSweeper{}, time.Now()); n != 0 {
		t.Fatalf("n = %d", n)
	}
}

func TestInitializeAndStop(t *testing.T) {
	if err := Initialize(config.SchedulerConfig{TokenSweepMinutes: 5}, failingSweeper{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if jobs := scheduler.Jobs(); len(jobs) != 1 {
		t.Fatalf("jobs = %d", len(jobs))
	}
	Stop()
}
