package api

import (
	"net/http"

	"github.com/Priya8975/interaction-stream/internal/relay"
)

type RelayHandler struct {
	supervisor *relay.Supervisor
}

func NewRelayHandler(s *relay.Supervisor) *RelayHandler {
	return &RelayHandler{supervisor: s}
}

type relayStatsResponse struct {
	State string              `json:"state"`
	Stats relay.StatsSnapshot `json:"stats"`
}

// Stats reports the relay's lifecycle state and counters.
func (h *RelayHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, relayStatsResponse{
		State: h.supervisor.State().String(),
		Stats: h.supervisor.Stats(),
	})
}
