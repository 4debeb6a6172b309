package scheduler

import (
	"context"
	"fmt"
	"time"

	"fintrack-backend/config"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// TokenSweeper removes token records that expired before now.
type TokenSweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

const sweepTimeout = 30 * time.Second

var scheduler *gocron.Scheduler

// Initialize creates the scheduler, registers the expired-token sweep and
// starts it in the background.
func Initialize(cfg config.SchedulerConfig, tokens TokenSweeper) error {
	interval := cfg.TokenSweepMinutes
	if interval <= 0 {
		interval = 60
	}

	scheduler = gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).Minutes().Tag("token-sweep").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		SweepExpiredTokens(ctx, tokens, time.Now())
	})
	if err != nil {
		return fmt.Errorf("schedule token sweep: %w", err)
	}

	scheduler.StartAsync()
	log.Info().Int("interval_minutes", interval).Msg("Scheduler started")
	return nil
}

// SweepExpiredTokens runs one sweep and reports how many records went away.
func SweepExpiredTokens(ctx context.Context, tokens TokenSweeper, now time.Time) int64 {
	n, err := tokens.DeleteExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired tokens")
		return 0
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Expired tokens swept")
	}
	return n
}

// Stop gracefully shuts down the scheduler
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}
