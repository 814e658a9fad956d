package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aleister1102/stocknotifier/internal/models"
	"golang.org/x/sync/errgroup"
)

// BucketRunner processes one host bucket.
type BucketRunner func(ctx context.Context, bucket models.HostBucket) []models.ItemOutcome

// ConcurrencyLimiter runs host buckets in parallel while keeping at most
// maxConcurrent of them in flight.
type ConcurrencyLimiter struct {
	maxConcurrent int
}

// NewConcurrencyLimiter creates a limiter; values below one are raised to one.
func NewConcurrencyLimiter(maxConcurrent int) *ConcurrencyLimiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ConcurrencyLimiter{maxConcurrent: maxConcurrent}
}

// MaxConcurrent returns the permit count
func (l *ConcurrencyLimiter) MaxConcurrent() int {
	return l.maxConcurrent
}

// Dispatch runs run for every bucket and waits until all started runs have
// returned. Buckets not yet started when ctx is done are skipped. A panic that
// escapes a runner is reported in the returned error; the outcomes of all
// other buckets are still returned.
func (l *ConcurrencyLimiter) Dispatch(ctx context.Context, buckets []models.HostBucket, run BucketRunner) ([]models.ItemOutcome, error) {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		outcomes []models.ItemOutcome
		errs     []error
	)
	g.SetLimit(l.maxConcurrent)

	for _, bucket := range buckets {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("worker for host %q panicked: %v", bucket.Host, r))
					mu.Unlock()
				}
			}()

			result := run(ctx, bucket)

			mu.Lock()
			outcomes = append(outcomes, result...)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return outcomes, errors.Join(errs...)
}
