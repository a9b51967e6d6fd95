package relay

import (
	"log/slog"
	"sync"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

// Sink receives events for exactly one tenant. Implementations must
// not block in Push; a sink that cannot keep up should reject the
// event and let the dispatcher count the failure.
type Sink interface {
	ID() string
	Push(event domain.Event) error
}

// Registry maps tenant identifiers to the live sinks registered for
// them. It is the only state shared between the dispatch loop
// (reader) and tenant-backend startups (writers).
type Registry struct {
	mu     sync.RWMutex
	sinks  map[string]map[string]Sink
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sinks:  make(map[string]map[string]Sink),
		logger: logger,
	}
}

// Register adds a sink for a tenant. Registering a sink that is
// already present is a no-op.
func (r *Registry) Register(tenantID string, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sinks[tenantID]
	if !ok {
		set = make(map[string]Sink)
		r.sinks[tenantID] = set
	}
	if _, exists := set[sink.ID()]; exists {
		r.logger.Debug("sink already registered", "tenant", tenantID, "sink_id", sink.ID())
		return
	}
	set[sink.ID()] = sink
	r.logger.Info("sink registered", "tenant", tenantID, "sink_id", sink.ID())
}

// Unregister removes a sink for a tenant. Removing a sink that is not
// registered is a no-op.
func (r *Registry) Unregister(tenantID string, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sinks[tenantID]
	if !ok {
		return
	}
	if _, exists := set[sink.ID()]; !exists {
		return
	}
	delete(set, sink.ID())
	if len(set) == 0 {
		delete(r.sinks, tenantID)
	}
	r.logger.Info("sink unregistered", "tenant", tenantID, "sink_id", sink.ID())
}

// SinksFor returns the sinks registered for a tenant. Unknown tenants
// get an empty slice, not an error.
func (r *Registry) SinksFor(tenantID string) []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.sinks[tenantID]
	out := make([]Sink, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

// Tenants returns the tenant ids that currently have at least one sink.
func (r *Registry) Tenants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sinks))
	for t := range r.sinks {
		out = append(out, t)
	}
	return out
}
