package shows

import (
	"context"
	"time"

	"boxoffice/pkg/logger"
)

// Scheduler drives time-based show status transitions: ACTIVE|HOUSE_FULL to
// SHOW_STARTED at start time, SHOW_STARTED to SHOW_DONE after the show ends.
// The booking transaction never performs these transitions itself.
type Scheduler struct {
	service  Service
	interval time.Duration
	done     chan struct{}
	log      *logger.Logger
}

func NewScheduler(service Service, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
		log:      logger.GetDefault(),
	}
}

// Start launches the polling loop in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("show scheduler started", "interval", s.interval)
	go s.run(ctx)
}

// Stop terminates the polling loop.
func (s *Scheduler) Stop() {
	close(s.done)
	s.log.Info("show scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run once immediately so overdue shows transition at startup.
	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.service.TransitionDue(ctx, time.Now().UTC()); err != nil {
		s.log.Error("show transition sweep failed", "error", err)
	}
}
