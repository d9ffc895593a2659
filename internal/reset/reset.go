// Package reset implements the daily counter reset job and its scheduler.
package reset

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/pkg/config"
	"github.com/neonverse/wordboard/pkg/logging"
	"github.com/neonverse/wordboard/pkg/telemetry"
)

// Runner executes the daily reset. It is either idle or running; triggering
// it while a pass is in flight is a no-op.
type Runner struct {
	repo        *db.Repository
	tick        time.Duration
	defaultTime string
	running     atomic.Bool
	lastFired   string // minute of the last scheduled fire, "2006-01-02 15:04"
	logger      *zap.Logger
}

// NewRunner creates a new reset runner
func NewRunner(repo *db.Repository, cfg *config.ResetConfig) *Runner {
	return &Runner{
		repo:        repo,
		tick:        cfg.TickInterval,
		defaultTime: cfg.DefaultResetTime,
		logger:      logging.GetLogger().With(zap.String("component", "reset")),
	}
}

// TryRun starts a reset pass unless one is already running. The bool reports
// whether this call performed the pass.
func (r *Runner) TryRun(ctx context.Context) (bool, error) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Debug("Reset already running, skipping trigger")
		return false, nil
	}
	defer r.running.Store(false)

	if err := r.run(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// run zeroes every topic's daily counters and records the completion time.
// The whole pass is one transaction: a crash leaves either the previous state
// or the fully reset one, never topics reset with a stale global marker.
func (r *Runner) run(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "reset.run")
	defer span.End()

	started := time.Now()
	var topicsReset int64

	err := r.repo.Transaction(ctx, func(tx *db.Repository) error {
		now := time.Now().UTC()
		count, err := db.NewTopicRepository(tx).ResetDailyCounters(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to reset topic counters: %w", err)
		}
		topicsReset = count
		return db.NewSettingsRepository(tx).SetTime(ctx, models.SettingLastResetAt, now)
	})
	if err != nil {
		r.logger.Error("Daily reset failed", zap.Error(err))
		return err
	}

	r.logger.Info("Daily reset completed",
		zap.Int64("topics_reset", topicsReset),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

// Start runs the scheduler loop until ctx is cancelled. Each tick compares
// the wall clock against the configured reset time at minute resolution and
// fires at most once per matching minute.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("Reset scheduler started",
		zap.Duration("tick", r.tick),
		zap.String("default_time", r.defaultTime))

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reset scheduler stopped")
			return
		case <-ticker.C:
			r.checkSchedule(ctx, time.Now())
		}
	}
}

// checkSchedule fires the reset when the current minute matches the
// configured reset time
func (r *Runner) checkSchedule(ctx context.Context, now time.Time) {
	resetTime, err := db.NewSettingsRepository(r.repo).
		GetString(ctx, models.SettingDailyResetTime, r.defaultTime)
	if err != nil {
		r.logger.Error("Failed to read reset time setting", zap.Error(err))
		return
	}

	fire, minute := shouldFire(now, resetTime, r.lastFired)
	if !fire {
		return
	}
	r.lastFired = minute

	if _, err := r.TryRun(ctx); err != nil {
		// No retry: the stale last_reset_at marker is the failure signal
		r.logger.Error("Scheduled reset failed", zap.Error(err))
	}
}

// shouldFire reports whether a scheduled reset is due at now given the
// configured "HH:MM" reset time and the minute of the last fire. A malformed
// reset time never fires.
func shouldFire(now time.Time, resetTime, lastFired string) (bool, string) {
	if _, err := time.Parse("15:04", resetTime); err != nil {
		return false, lastFired
	}
	if now.Format("15:04") != resetTime {
		return false, lastFired
	}
	minute := now.Format("2006-01-02 15:04")
	if minute == lastFired {
		return false, lastFired
	}
	return true, minute
}
