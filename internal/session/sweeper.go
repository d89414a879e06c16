package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically ends sessions whose page went away without saying so.
type Sweeper struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewSweeper(store Store, ttl time.Duration, logger *zap.Logger) *Sweeper {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.logger.Info("Starting session sweeper",
		zap.Duration("ttl", s.ttl),
		zap.Duration("interval", s.interval))

	go s.run()
}

// Stop ends the sweep loop and waits for it to exit. Safe to call twice.
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
		<-s.done
		s.logger.Info("Stopped session sweeper")
	})
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce ends every session idle for longer than the TTL.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	n, err := s.store.Sweep(ctx, s.now().UTC().Add(-s.ttl))
	if err != nil {
		s.logger.Error("Failed to sweep idle sessions", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.logger.Debug("Swept idle sessions", zap.Int("count", n))
	}
	return n
}
