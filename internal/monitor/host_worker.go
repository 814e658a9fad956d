package monitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/rs/zerolog"
)

const (
	pacingJitter         = 500 * time.Millisecond
	minimumPause         = 100 * time.Millisecond
	defaultNotifyTimeout = 30 * time.Second
)

// HostWorker checks the items of one host bucket strictly one after another,
// pausing between consecutive requests to the same site.
type HostWorker struct {
	fetcher       Fetcher
	matcher       *Matcher
	notifier      Notifier
	sameHostDelay time.Duration
	notifyTimeout time.Duration
	logger        zerolog.Logger

	randFloat func() float64
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewHostWorker creates a worker. sameHostDelay is the base pause between two
// checks against one host; uniform jitter of up to half a second either way is
// added to it.
func NewHostWorker(fetcher Fetcher, matcher *Matcher, notifier Notifier, sameHostDelay time.Duration, logger zerolog.Logger) *HostWorker {
	if matcher == nil {
		matcher = NewMatcher(0)
	}
	return &HostWorker{
		fetcher:       fetcher,
		matcher:       matcher,
		notifier:      notifier,
		sameHostDelay: sameHostDelay,
		notifyTimeout: defaultNotifyTimeout,
		logger:        logger.With().Str("component", "HostWorker").Logger(),
		randFloat:     rand.Float64,
		sleep:         sleepContext,
	}
}

// SetNotifyTimeout bounds a single notify call
func (w *HostWorker) SetNotifyTimeout(d time.Duration) {
	if d > 0 {
		w.notifyTimeout = d
	}
}

// PauseDuration returns the next inter-item pause: sameHostDelay plus jitter
// drawn from [-0.5s, +0.5s], never shorter than 100ms.
func (w *HostWorker) PauseDuration() time.Duration {
	jitter := time.Duration((2*w.randFloat() - 1) * float64(pacingJitter))
	pause := w.sameHostDelay + jitter
	if pause < minimumPause {
		pause = minimumPause
	}
	return pause
}

// Run checks every item of the bucket in order and returns one outcome per
// checked item. A failing item never prevents the following ones from being
// checked. When ctx is done the worker stops before the next item.
func (w *HostWorker) Run(ctx context.Context, bucket models.HostBucket) []models.ItemOutcome {
	logger := w.logger.With().Str("host", bucket.Host).Logger()
	outcomes := make([]models.ItemOutcome, 0, len(bucket.Items))

	for i, item := range bucket.Items {
		if i > 0 {
			pause := w.PauseDuration()
			logger.Debug().Dur("pause", pause).Msg("Pacing before next item on host")
			if err := w.sleep(ctx, pause); err != nil {
				logger.Info().Int("remaining", len(bucket.Items)-i).Msg("Shutdown requested, leaving host bucket")
				break
			}
		}
		if ctx.Err() != nil {
			logger.Info().Int("remaining", len(bucket.Items)-i).Msg("Shutdown requested, leaving host bucket")
			break
		}

		outcomes = append(outcomes, w.checkItem(ctx, item, logger))
	}

	return outcomes
}

// checkItem fetches, matches and, on a match, notifies for a single item.
// Errors and panics are converted into a failed outcome.
func (w *HostWorker) checkItem(ctx context.Context, item models.MonitoredItem, logger zerolog.Logger) (result models.ItemOutcome) {
	result = models.ItemOutcome{Item: item}
	itemLogger := logger.With().Int64("item_id", item.ID).Str("item", item.Name).Str("url", item.URL).Logger()

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = models.OutcomeFailed
			result.Err = fmt.Errorf("panic while checking item: %v", r)
			itemLogger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered panic while checking item")
		}
	}()

	content, err := w.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		result.Err = err
		itemLogger.Warn().Err(err).Msg("Failed to fetch item page")
		return result
	}

	matched, err := w.matcher.Matches(content, item.Pattern)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		result.Err = err
		itemLogger.Error().Err(err).Str("pattern", item.Pattern).Msg("Failed to evaluate indicator")
		return result
	}

	if !matched {
		result.Outcome = models.OutcomeNoMatch
		itemLogger.Debug().Msg("Indicator not found")
		return result
	}

	itemLogger.Info().Msg("Indicator found, notifying")

	// Delivery is allowed to complete during shutdown, bounded by notifyTimeout.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.notifyTimeout)
	defer cancel()

	if err := w.notifier.Notify(notifyCtx, item); err != nil {
		result.Outcome = models.OutcomeFailed
		result.Err = fmt.Errorf("notify failed: %w", err)
		itemLogger.Error().Err(err).Msg("Failed to send notification")
		return result
	}

	result.Outcome = models.OutcomeMatched
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
