package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/logger"
)

// Saver runs Persist on a ticker between Start and Stop.
type Saver struct {
	config Config
	target Persister
	logger logger.Logger

	mu      sync.Mutex
	running bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
	saves   int
}

// New creates a stopped Saver.
func New(cfg Config, target Persister, log logger.Logger) *Saver {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Saver{
		config: cfg,
		target: target,
		logger: log,
	}
}

// Start begins periodic saving. It returns immediately; the loop ends on
// Stop, Close or ctx cancellation.
func (s *Saver) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSaverClosed
	}
	if s.running {
		return ErrAlreadyRunning
	}

	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(ctx, s.stop, s.done)

	s.logger.Debug("autosave started", "interval", s.config.Interval)
	return nil
}

// Stop halts the loop and waits for it to exit.
func (s *Saver) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSaverClosed
	}
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	stop, done := s.stop, s.done
	s.running = false
	s.mu.Unlock()

	close(stop)
	<-done

	s.logger.Debug("autosave stopped")
	return nil
}

// Close stops the loop if needed and rejects further use.
func (s *Saver) Close() error {
	err := s.Stop()
	if err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Running reports whether the loop is active.
func (s *Saver) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Saves returns how many ticks persisted successfully.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Saver) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Saver) tick() {
	if err := s.target.Persist(); err != nil {
		if errors.Is(err, library.ErrNoActiveSession) {
			s.logger.Debug("autosave skipped, no active session")
			return
		}
		s.logger.Warn("autosave failed", "error", err)
		return
	}

	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
}
