package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Priya8975/interaction-stream/internal/relay"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(interactions InteractionStore, supervisor *relay.Supervisor, live *LiveHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(corsMiddleware)

	interactionHandler := NewInteractionHandler(interactions)
	relayHandler := NewRelayHandler(supervisor)
	knownTenant := tenantMiddleware(interactions)

	// WebSocket endpoint for tenant-backend live sessions
	r.Route("/ws/{tenant}", func(r chi.Router) {
		r.Use(knownTenant)
		r.Get("/", live.Handle)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())
		r.Get("/relay/stats", relayHandler.Stats)

		r.Route("/tenants/{tenant}", func(r chi.Router) {
			r.Use(knownTenant)

			r.Route("/interactions", func(r chi.Router) {
				r.Post("/", interactionHandler.Create)
				r.Get("/", interactionHandler.List)
				r.Get("/{id}", interactionHandler.Get)
				r.Patch("/{id}/status", interactionHandler.UpdateStatus)
				r.Delete("/{id}", interactionHandler.Delete)
			})

			r.Get("/stats", interactionHandler.Stats)
		})
	})

	return r
}

// tenantMiddleware rejects requests for tenants outside the
// configured set before any handler runs.
func tenantMiddleware(store InteractionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.ValidTenant(chi.URLParam(r, "tenant")) {
				respondError(w, http.StatusNotFound, "unknown tenant")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware adds CORS headers for dashboard development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
