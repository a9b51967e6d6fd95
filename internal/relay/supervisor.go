package relay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is the supervisor's lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Config tunes the supervisor's poll and reconnect behavior.
type Config struct {
	// Channels is the full set of notification channels to listen on.
	// Reconnecting always re-subscribes to all of them.
	Channels []string

	// PollTimeout bounds each blocking poll so stop requests are
	// observed promptly.
	PollTimeout time.Duration

	// MinBackoff and MaxBackoff bound the exponential delay between
	// reconnect attempts.
	MinBackoff time.Duration
	MaxBackoff time.Duration

	// MaxReconnectAttempts caps consecutive failed attempts before the
	// supervisor gives up and stops. Zero means retry forever.
	MaxReconnectAttempts int
}

// Supervisor owns the listen/decode/dispatch loop. It connects the
// listener, runs the loop on a single background goroutine, and on
// connection loss reconnects with bounded exponential backoff instead
// of terminating.
type Supervisor struct {
	listener   Listener
	registry   *Registry
	dispatcher *Dispatcher
	buffer     PendingBuffer
	cfg        Config
	logger     *slog.Logger
	stats      *Stats

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	state  atomic.Int32
}

func NewSupervisor(listener Listener, registry *Registry, buffer PendingBuffer, cfg Config, logger *slog.Logger) *Supervisor {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = cfg.MinBackoff
	}

	stats := &Stats{}
	return &Supervisor{
		listener:   listener,
		registry:   registry,
		dispatcher: NewDispatcher(registry, buffer, stats, logger),
		buffer:     buffer,
		cfg:        cfg,
		logger:     logger,
		stats:      stats,
	}
}

// Start launches the background loop. Calling Start while the loop is
// already running is a no-op.
func (s *Supervisor) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if State(s.state.Load()) != StateStopped {
		s.logger.Warn("relay already running, ignoring start")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state.Store(int32(StateStarting))

	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("relay starting", "channels", s.cfg.Channels)
}

// Stop signals the loop to exit and blocks until it has terminated.
// Safe to call when already stopped.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if State(s.state.Load()) == StateStopped {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.state.Store(int32(StateStopped))
	s.logger.Info("relay stopped")
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of the relay counters.
func (s *Supervisor) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// RegisterBackend registers a sink for a tenant and replays any
// events buffered while the tenant had no destination.
func (s *Supervisor) RegisterBackend(tenantID string, sink Sink) {
	s.registry.Register(tenantID, sink)

	if s.buffer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, expired, err := s.buffer.Drain(ctx, tenantID)
	if err != nil {
		s.logger.Warn("failed to drain pending events", "tenant", tenantID, "error", err)
		return
	}
	s.stats.BufferExpired.Add(expired)
	for _, event := range events {
		s.dispatcher.Push(event, sink)
	}
	if len(events) > 0 {
		s.logger.Info("replayed pending events", "tenant", tenantID, "count", len(events))
	}
}

// UnregisterBackend removes a sink for a tenant.
func (s *Supervisor) UnregisterBackend(tenantID string, sink Sink) {
	s.registry.Unregister(tenantID, sink)
}

// run is the supervisor's explicit retry loop: connect, subscribe,
// poll until failure, back off, repeat. It is the only goroutine that
// calls Poll.
func (s *Supervisor) run(ctx context.Context) {
	defer s.wg.Done()
	defer s.state.Store(int32(StateStopped))

	backoff := s.cfg.MinBackoff
	attempts := 0

	for {
		if ctx.Err() != nil {
			return
		}

		s.state.Store(int32(StateStarting))
		if err := s.connect(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("relay connect failed", "error", err)
			if !s.waitBackoff(ctx, &backoff, &attempts) {
				return
			}
			continue
		}

		backoff = s.cfg.MinBackoff
		attempts = 0
		s.state.Store(int32(StateRunning))
		s.logger.Info("relay running", "channels", s.cfg.Channels)

		err := s.pollLoop(ctx)
		_ = s.listener.Close(context.Background())
		if ctx.Err() != nil {
			return
		}

		s.stats.Reconnects.Add(1)
		s.state.Store(int32(StateReconnecting))
		s.logger.Warn("relay connection lost, reconnecting", "error", err)
		if !s.waitBackoff(ctx, &backoff, &attempts) {
			return
		}
	}
}

func (s *Supervisor) connect(ctx context.Context) error {
	if err := s.listener.Connect(ctx); err != nil {
		return err
	}
	if err := s.listener.Subscribe(ctx, s.cfg.Channels); err != nil {
		_ = s.listener.Close(context.Background())
		return err
	}
	return nil
}

// pollLoop runs until the context is cancelled or the listener fails.
// Only listener errors escape; decode and sink problems are absorbed
// by the dispatcher.
func (s *Supervisor) pollLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		batch, err := s.listener.Poll(ctx, s.cfg.PollTimeout)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			continue
		}
		s.dispatcher.Dispatch(ctx, batch)
	}
}

// waitBackoff sleeps the current backoff interval, doubling it up to
// the cap. It returns false when the supervisor should stop, either
// because Stop was called or the attempt ceiling was reached.
func (s *Supervisor) waitBackoff(ctx context.Context, backoff *time.Duration, attempts *int) bool {
	*attempts++
	if s.cfg.MaxReconnectAttempts > 0 && *attempts > s.cfg.MaxReconnectAttempts {
		s.logger.Error("relay giving up after repeated failures", "attempts", *attempts-1)
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(*backoff):
	}

	*backoff *= 2
	if *backoff > s.cfg.MaxBackoff {
		*backoff = s.cfg.MaxBackoff
	}
	return true
}
