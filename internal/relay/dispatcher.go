package relay

import (
	"context"
	"log/slog"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

// PendingBuffer optionally retains events that arrive before any sink
// has registered for their tenant, so a late-joining backend can catch
// up. A nil buffer means such events are dropped after logging.
type PendingBuffer interface {
	// Stash records an event with no current destination.
	Stash(ctx context.Context, event domain.Event) error

	// Drain returns the buffered events for a tenant that are still
	// within the retention window, along with the count of expired
	// entries it discarded, and clears the tenant's buffer.
	Drain(ctx context.Context, tenantID string) ([]domain.Event, int64, error)
}

// Dispatcher routes decoded events to the sinks registered for their
// tenant. Decode failures, missing destinations and sink push failures
// are all absorbed here; nothing escalates to the supervisor.
type Dispatcher struct {
	registry *Registry
	buffer   PendingBuffer
	stats    *Stats
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, buffer PendingBuffer, stats *Stats, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		buffer:   buffer,
		stats:    stats,
		logger:   logger,
	}
}

// Dispatch decodes and routes a batch of notifications in arrival
// order. It never returns an error and never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []Notification) {
	for _, n := range batch {
		event, err := Decode(n)
		if err != nil {
			d.stats.DecodeFailures.Add(1)
			d.logger.Warn("dropping undecodable notification",
				"channel", n.Channel,
				"error", err,
			)
			continue
		}
		d.deliver(ctx, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event domain.Event) {
	sinks := d.registry.SinksFor(event.TenantID)
	if len(sinks) == 0 {
		// Expected when a tenant's backend is not running yet.
		d.stats.NoDestination.Add(1)
		d.logger.Debug("no destination for event",
			"tenant", event.TenantID,
			"kind", event.Kind,
			"entity_id", event.EntityID,
		)
		if d.buffer != nil {
			if err := d.buffer.Stash(ctx, event); err != nil {
				d.logger.Warn("failed to buffer event", "tenant", event.TenantID, "error", err)
			}
		}
		return
	}

	for _, sink := range sinks {
		d.Push(event, sink)
	}
	d.stats.Dispatched.Add(1)
}

// Push delivers one event to one sink, isolating failures and panics
// so the other sinks and the poll loop are unaffected.
func (d *Dispatcher) Push(event domain.Event, sink Sink) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.SinkPushFailures.Add(1)
			d.logger.Error("sink panicked during push",
				"tenant", event.TenantID,
				"sink_id", sink.ID(),
				"panic", r,
			)
		}
	}()

	if err := sink.Push(event); err != nil {
		d.stats.SinkPushFailures.Add(1)
		d.logger.Warn("sink rejected event",
			"tenant", event.TenantID,
			"sink_id", sink.ID(),
			"error", err,
		)
	}
}
