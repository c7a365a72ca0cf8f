// Package scheduler runs the periodic background jobs: the progress resync
// that feeds connected streams and the daily Telegram digest.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

const (
	DefaultResyncInterval = 30 * time.Second
	DefaultDigestAt       = "09:00"
)

// Config tunes the job schedule.
type Config struct {
	ResyncInterval time.Duration `mapstructure:"resync_interval"`
	DigestAt       string        `mapstructure:"digest_at"`
	Timezone       string        `mapstructure:"timezone"`
}

// Digester posts the daily digest. notify.Notifier satisfies it.
type Digester interface {
	SendDigest(ctx context.Context, d store.Digest, stats []store.GameStat) error
}

// Scheduler wraps a gocron scheduler with the application's jobs.
type Scheduler struct {
	cron   *gocron.Scheduler
	cfg    Config
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler.
func New(cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ResyncInterval <= 0 {
		cfg.ResyncInterval = DefaultResyncInterval
	}
	if cfg.DigestAt == "" {
		cfg.DigestAt = DefaultDigestAt
	}
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("scheduler timezone: %w", err)
		}
	}

	cron := gocron.NewScheduler(loc)
	cron.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{cron: cron, cfg: cfg, logger: logger, ctx: ctx, cancel: cancel}, nil
}

// ScheduleResync republishes progress to every connected stream on the
// configured interval.
func (s *Scheduler) ScheduleResync(hub *progress.Hub, repo store.ProgressRepo) error {
	_, err := s.cron.Every(s.cfg.ResyncInterval).Tag("resync").Do(ResyncJob(s.ctx, hub, repo, s.logger))
	if err != nil {
		return fmt.Errorf("schedule resync: %w", err)
	}
	return nil
}

// ScheduleDigest posts yesterday's activity once a day.
func (s *Scheduler) ScheduleDigest(stats store.StatsRepo, d Digester) error {
	_, err := s.cron.Every(1).Day().At(s.cfg.DigestAt).Tag("digest").Do(DigestJob(s.ctx, stats, d, time.Now, s.logger))
	if err != nil {
		return fmt.Errorf("schedule digest at %q: %w", s.cfg.DigestAt, err)
	}
	return nil
}

// Tags lists the tags of every scheduled job.
func (s *Scheduler) Tags() []string {
	var out []string
	for _, j := range s.cron.Jobs() {
		out = append(out, j.Tags()...)
	}
	return out
}

// Start runs the jobs in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	s.logger.Info("scheduler started", "jobs", s.cron.Len(), "resync", s.cfg.ResyncInterval, "digest_at", s.cfg.DigestAt)
}

// Stop cancels running jobs and waits for the scheduler to halt.
func (s *Scheduler) Stop() {
	s.cancel()
	s.cron.Stop()
}

// ResyncJob returns a job that pushes full progress to subscribed users.
func ResyncJob(ctx context.Context, hub *progress.Hub, repo store.ProgressRepo, logger *slog.Logger) func() {
	return func() {
		if len(hub.Users()) == 0 {
			return
		}
		if err := hub.Resync(ctx, repo); err != nil {
			logger.Warn("progress resync failed", "err", err)
		}
	}
}

// DigestJob returns a job that sends the activity of the last 24 hours.
func DigestJob(ctx context.Context, stats store.StatsRepo, d Digester, now func() time.Time, logger *slog.Logger) func() {
	return func() {
		since := now().Add(-24 * time.Hour)
		digest, err := stats.Digest(ctx, since)
		if err != nil {
			logger.Warn("digest query failed", "err", err)
			return
		}
		games, err := stats.Games(ctx)
		if err != nil {
			logger.Warn("game stats query failed", "err", err)
			return
		}
		if err := d.SendDigest(ctx, digest, games); err != nil {
			logger.Warn("digest delivery failed", "err", err)
			return
		}
		logger.Info("digest sent", "users", digest.Users, "completions", digest.Completions, "certificates", digest.Certificates)
	}
}
