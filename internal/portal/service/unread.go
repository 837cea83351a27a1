package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval matches the web client's refresh cadence for the
// unread-notification counter.
const DefaultPollInterval = 30 * time.Second

// FetchUnreadFunc fetches the unread-notification count for one session.
type FetchUnreadFunc func(ctx context.Context) (int, error)

// UnreadPoller keeps a session's unread-notification count fresh. It
// fetches once immediately on Start, then on a fixed interval, and can be
// refetched on demand. The count has exactly one writer (the poller);
// consumers only read.
//
// A fetch failure, or a nonsensical (negative) count, degrades the badge
// to zero rather than surfacing an error or freezing a stale value.
type UnreadPoller struct {
	fetch    FetchUnreadFunc
	logger   *slog.Logger
	interval time.Duration

	mu      sync.RWMutex
	count   int
	loading bool
	stopped bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewUnreadPoller creates a poller. If interval is 0 or negative it
// defaults to DefaultPollInterval.
func NewUnreadPoller(fetch FetchUnreadFunc, logger *slog.Logger, interval time.Duration) *UnreadPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &UnreadPoller{
		fetch:    fetch,
		logger:   logger,
		interval: interval,
		loading:  true,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. Non-blocking; call Stop to
// tear the loop down.
func (p *UnreadPoller) Start() {
	go p.run()
}

// Stop cancels the refresh loop deterministically and blocks until it has
// exited. After Stop returns no further count updates are applied, even
// from a fetch already in flight. Safe to call more than once.
func (p *UnreadPoller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()

		close(p.stopCh)
		<-p.doneCh
	})
}

func (p *UnreadPoller) run() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Fetch immediately so the badge is never stale for a full interval.
	p.Refetch(context.Background())

	for {
		select {
		case <-ticker.C:
			p.Refetch(context.Background())
		case <-p.stopCh:
			return
		}
	}
}

// Refetch fetches the count once and returns the value now visible to
// consumers. Overlapping calls are safe: the last write wins, and results
// arriving after Stop are discarded.
func (p *UnreadPoller) Refetch(ctx context.Context) int {
	p.setLoading(true)

	count, err := p.fetch(ctx)
	if err != nil || count < 0 {
		if err != nil {
			p.logger.Warn("failed to fetch unread count", "error", err)
		} else {
			p.logger.Warn("upstream reported a negative unread count", "count", count)
		}
		count = 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.loading = false
	if p.stopped {
		return p.count
	}
	p.count = count
	return p.count
}

func (p *UnreadPoller) setLoading(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = v
}

// UnreadCount returns the current count.
func (p *UnreadPoller) UnreadCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}

// IsLoading reports whether a fetch is in flight (or the first fetch has
// not completed yet).
func (p *UnreadPoller) IsLoading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}
