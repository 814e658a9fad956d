package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/stocknotifier/internal/models"
)

type fakePage struct {
	content string
	err     error
	panics  bool
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]fakePage
	calls map[string]int
	hook  func(url string)
}

func newFakeFetcher(pages map[string]fakePage) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls[url]++
	page, ok := f.pages[url]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	if !ok {
		return nil, errors.New("unknown url")
	}
	if page.panics {
		panic("fetcher blew up")
	}
	if page.err != nil {
		return nil, page.err
	}
	return []byte(page.content), nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []models.MonitoredItem
	err   error
	check func(ctx context.Context)
}

func (n *recordingNotifier) Notify(ctx context.Context, item models.MonitoredItem) error {
	if n.check != nil {
		n.check(ctx)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
	return n.err
}

func (n *recordingNotifier) notified() []models.MonitoredItem {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.MonitoredItem(nil), n.items...)
}

// sleepRecorder stands in for real sleeping and remembers requested durations.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	onCall func(n int) error
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	n := len(r.delays)
	onCall := r.onCall
	r.mu.Unlock()

	if onCall != nil {
		if err := onCall(n); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

type staticSource struct {
	items []models.MonitoredItem
	err   error
	calls int
}

func (s *staticSource) Snapshot(ctx context.Context) ([]models.MonitoredItem, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.items, s.err
}

func item(id int64, url, pattern string) models.MonitoredItem {
	return models.MonitoredItem{ID: id, Name: url, URL: url, Pattern: pattern}
}
