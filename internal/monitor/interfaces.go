package monitor

import (
	"context"

	"github.com/aleister1102/stocknotifier/internal/models"
)

// ItemSource supplies the items to check. It is read once at the start of
// every cycle and must honor ctx so that a slow store cannot stall the poller.
type ItemSource interface {
	Snapshot(ctx context.Context) ([]models.MonitoredItem, error)
}

// Notifier is invoked once for every positive match. The poller neither
// retries a failed notification within a cycle nor deduplicates matches across
// cycles; both are left to the implementation.
type Notifier interface {
	Notify(ctx context.Context, item models.MonitoredItem) error
}

// Fetcher downloads page content, handling its own retries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, item models.MonitoredItem) error

// Notify calls f(ctx, item).
func (f NotifierFunc) Notify(ctx context.Context, item models.MonitoredItem) error {
	return f(ctx, item)
}
