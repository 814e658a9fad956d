package httpclient

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// RetryHandler retries network-class fetch failures with exponential backoff
type RetryHandler struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	logger      zerolog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// RetryHandlerConfig configuration for retry handler
type RetryHandlerConfig struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int           `json:"max_attempts"`
	BaseDelay   time.Duration `json:"base_delay"`
	// MaxDelay caps a single backoff; zero means uncapped.
	MaxDelay time.Duration `json:"max_delay"`
}

// DefaultRetryHandlerConfig returns 3 attempts with 1s, 2s backoff
func DefaultRetryHandlerConfig() RetryHandlerConfig {
	return RetryHandlerConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(config RetryHandlerConfig, logger zerolog.Logger) *RetryHandler {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &RetryHandler{
		maxAttempts: config.MaxAttempts,
		baseDelay:   config.BaseDelay,
		maxDelay:    config.MaxDelay,
		logger:      logger.With().Str("component", "RetryHandler").Logger(),
		sleep:       sleepContext,
	}
}

// MaxAttempts returns the attempt ceiling
func (rh *RetryHandler) MaxAttempts() int {
	return rh.maxAttempts
}

// CalculateDelay returns the wait after the given 0-based attempt failed:
// baseDelay * 2^attempt.
func (rh *RetryHandler) CalculateDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := rh.baseDelay << uint(attempt)
	if rh.maxDelay > 0 && (delay > rh.maxDelay || delay < rh.baseDelay) {
		delay = rh.maxDelay
	}
	return delay
}

// ShouldRetry reports whether a failed attempt may be followed by another one
func (rh *RetryHandler) ShouldRetry(err error, attempt int) bool {
	if attempt+1 >= rh.maxAttempts {
		return false
	}
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// WaitForRetry waits for the backoff of the given attempt or until ctx is done
func (rh *RetryHandler) WaitForRetry(ctx context.Context, attempt int, url string, cause error) error {
	delay := rh.CalculateDelay(attempt)

	rh.logger.Warn().
		Err(cause).
		Str("url", url).
		Int("attempt", attempt+1).
		Int("max_attempts", rh.maxAttempts).
		Dur("delay", delay).
		Msg("Network error, waiting before retry")

	return rh.sleep(ctx, delay)
}

// DoWithRetry runs fetch until it succeeds, fails with a non-network error, or
// the attempt ceiling is reached. The error of the final attempt is returned.
func (rh *RetryHandler) DoWithRetry(ctx context.Context, url string, fetch func() ([]byte, error)) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < rh.maxAttempts; attempt++ {
		body, err := fetch()
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !rh.ShouldRetry(err, attempt) {
			return nil, annotateAttempts(err, attempt+1)
		}

		if waitErr := rh.WaitForRetry(ctx, attempt, url, err); waitErr != nil {
			return nil, WrapError(annotateAttempts(lastErr, attempt+1), "retry aborted")
		}
	}

	return nil, annotateAttempts(lastErr, rh.maxAttempts)
}

func annotateAttempts(err error, attempts int) error {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		netErr.Attempts = attempts
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
