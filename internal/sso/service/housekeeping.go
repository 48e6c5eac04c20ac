package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/signonhq/signon/internal/sso/store"
)

// TokenRetention is how long expired token rows are kept before the sweep
// deletes them. Generous on purpose: token validity is always decided
// per-call by wall clock, the sweep only bounds table growth, and keeping
// recently expired rows preserves the expired-vs-nonexistent error
// distinction for a sensible window.
const TokenRetention = 30 * 24 * time.Hour

// HousekeepingService periodically deletes long-expired tokens.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background sweep loop. Non-blocking.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the loop down, waiting for an in-progress sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

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
	ctx := context.Background()
	cutoff := time.Now().Add(-TokenRetention)

	if err := s.Store.Tokens().DeleteExpiredBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete expired tokens", "error", err)
		return
	}
	s.Logger.Debug("expired tokens swept", "cutoff", cutoff)
}
