package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/homeeasy/portal/internal/portal/store"
)

// DefaultSweepInterval is how often expired sessions are swept.
const DefaultSweepInterval = 5 * time.Minute

// HousekeepingService periodically removes expired session records and
// tears down their shells so pollers never outlive their sessions.
type HousekeepingService struct {
	sessions store.Sessions
	shells   *ShellManager
	logger   *slog.Logger
	interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. interval <= 0 falls back to
// DefaultSweepInterval.
func NewHousekeepingService(sessions store.Sessions, shells *ShellManager, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &HousekeepingService{
		sessions: sessions,
		shells:   shells,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine.
func (s *HousekeepingService) Start() {
	go s.run()
}

// Stop signals the loop to exit and blocks until it has.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep once on startup to clear anything left from a previous run.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ids, err := s.sessions.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to sweep expired sessions", "error", err)
		return
	}

	for _, id := range ids {
		s.shells.Unmount(id)
	}

	if len(ids) > 0 {
		s.logger.Info("swept expired sessions", "count", len(ids))
	}
}
