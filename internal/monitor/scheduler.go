package monitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/aleister1102/stocknotifier/internal/rslimiter"
	"github.com/rs/zerolog"
)

// UsageReporter exposes process and host resource usage for cycle summaries.
type UsageReporter interface {
	Usage() rslimiter.ResourceUsage
}

// Scheduler drives the poll loop: take a snapshot, check every host bucket,
// then sleep for an interval adapted to the time of day.
type Scheduler struct {
	source          ItemSource
	worker          *HostWorker
	limiter         *ConcurrencyLimiter
	schedule        CycleSchedule
	snapshotTimeout time.Duration
	usage           UsageReporter
	logger          zerolog.Logger

	now       func() time.Time
	randFloat func() float64
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewScheduler creates the cycle driver for the given item source and worker.
func NewScheduler(cfg config.PollerConfig, source ItemSource, worker *HostWorker, logger zerolog.Logger) (*Scheduler, error) {
	if source == nil {
		return nil, fmt.Errorf("item source is required")
	}
	if worker == nil {
		return nil, fmt.Errorf("host worker is required")
	}

	schedule, err := NewCycleSchedule(cfg)
	if err != nil {
		return nil, err
	}

	snapshotTimeout := cfg.SnapshotTimeout()
	if snapshotTimeout <= 0 {
		snapshotTimeout = time.Duration(config.DefaultPollerSnapshotTimeoutSecs) * time.Second
	}

	return &Scheduler{
		source:          source,
		worker:          worker,
		limiter:         NewConcurrencyLimiter(cfg.MaxConcurrentHosts),
		schedule:        schedule,
		snapshotTimeout: snapshotTimeout,
		logger:          logger.With().Str("component", "Scheduler").Logger(),
		now:             time.Now,
		randFloat:       rand.Float64,
		sleep:           sleepContext,
	}, nil
}

// SetUsageReporter attaches resource usage to every cycle summary
func (s *Scheduler) SetUsageReporter(usage UsageReporter) {
	s.usage = usage
}

// Run alternates between checking and sleeping until ctx is done, then
// returns nil. Failures inside a cycle are logged and never end the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.schedule.Interval).
		Dur("jitter", s.schedule.Jitter).
		Int("active_start_hour", s.schedule.StartHour).
		Int("active_end_hour", s.schedule.EndHour).
		Str("timezone", s.schedule.Location.String()).
		Int("max_concurrent_hosts", s.limiter.MaxConcurrent()).
		Msg("Scheduler started")

	for {
		stats := s.RunCycle(ctx)
		if ctx.Err() != nil {
			break
		}

		now := s.now()
		sleepFor := s.schedule.NextSleep(now, stats.Elapsed(), s.randFloat())
		s.logger.Info().
			Str("cycle_id", stats.CycleID).
			Bool("active_hours", s.schedule.InActiveHours(now)).
			Dur("sleep", sleepFor).
			Msg("Sleeping until next cycle")

		if err := s.sleep(ctx, sleepFor); err != nil {
			break
		}
	}

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// RunCycle performs one complete check of the current snapshot. Snapshot
// failures and worker panics are recorded in the returned stats.
func (s *Scheduler) RunCycle(ctx context.Context) (stats *models.CycleStats) {
	stats = models.NewCycleStats(s.now())
	defer s.finishCycle(stats)

	defer func() {
		if r := recover(); r != nil {
			stats.Err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	snapshotCtx, cancel := context.WithTimeout(ctx, s.snapshotTimeout)
	items, err := s.source.Snapshot(snapshotCtx)
	cancel()
	if err != nil {
		stats.Err = fmt.Errorf("failed to read item snapshot: %w", err)
		return stats
	}

	buckets := PartitionByHost(items)
	stats.Hosts = len(buckets)

	s.logger.Debug().
		Str("cycle_id", stats.CycleID).
		Int("items", len(items)).
		Int("hosts", len(buckets)).
		Msg("Cycle started")

	outcomes, err := s.limiter.Dispatch(ctx, buckets, s.worker.Run)
	stats.Outcomes = outcomes
	if err != nil {
		stats.Err = err
	}
	return stats
}

func (s *Scheduler) finishCycle(stats *models.CycleStats) {
	stats.EndTime = s.now()

	if stats.Err != nil {
		s.logger.Error().
			Err(stats.Err).
			Str("cycle_id", stats.CycleID).
			Dur("elapsed", stats.Elapsed()).
			Msg("Cycle failed")
	}

	event := s.logger.Info().
		Str("cycle_id", stats.CycleID).
		Int("hosts", stats.Hosts).
		Int("checked", len(stats.Outcomes)).
		Int("matched", stats.Count(models.OutcomeMatched)).
		Int("no_match", stats.Count(models.OutcomeNoMatch)).
		Int("failed", stats.Count(models.OutcomeFailed)).
		Dur("elapsed", stats.Elapsed())

	if s.usage != nil {
		usage := s.usage.Usage()
		event = event.
			Int64("alloc_mb", usage.AllocMB).
			Int("goroutines", usage.Goroutines).
			Float64("system_mem_percent", usage.SystemMemUsedPercent)
	}

	event.Msg("Cycle completed")
}
