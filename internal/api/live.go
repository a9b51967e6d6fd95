package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Priya8975/interaction-stream/internal/relay"
	ws "github.com/Priya8975/interaction-stream/internal/websocket"
)

// LiveHandler serves the per-tenant WebSocket endpoint. The first
// connection for a tenant creates its hub and registers it with the
// relay as that tenant's backend; the hub then lives for the rest of
// the process.
type LiveHandler struct {
	supervisor *relay.Supervisor
	logger     *slog.Logger

	mu   sync.Mutex
	hubs map[string]*ws.Hub
}

func NewLiveHandler(supervisor *relay.Supervisor, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{
		supervisor: supervisor,
		logger:     logger,
		hubs:       make(map[string]*ws.Hub),
	}
}

// Handle upgrades the connection and attaches the client to the
// tenant's hub. Tenant validity is checked by the router middleware.
func (h *LiveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	hub := h.hubFor(tenant)
	hub.HandleWebSocket(w, r)
}

func (h *LiveHandler) hubFor(tenant string) *ws.Hub {
	h.mu.Lock()
	defer h.mu.Unlock()

	hub, ok := h.hubs[tenant]
	if !ok {
		hub = ws.NewHub(tenant, h.logger)
		h.hubs[tenant] = hub
		go hub.Run()
		h.supervisor.RegisterBackend(tenant, hub)
		h.logger.Info("tenant backend started", "tenant", tenant)
	}
	return hub
}

// Shutdown unregisters every hub from the relay.
func (h *LiveHandler) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tenant, hub := range h.hubs {
		h.supervisor.UnregisterBackend(tenant, hub)
	}
	h.hubs = make(map[string]*ws.Hub)
}
