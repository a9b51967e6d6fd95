package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Priya8975/interaction-stream/internal/domain"
	"github.com/Priya8975/interaction-stream/internal/store"
)

// InteractionStore is the tenant-scoped persistence surface the
// handlers depend on.
type InteractionStore interface {
	ValidTenant(tenantID string) bool
	Create(ctx context.Context, tenantID string, req domain.CreateInteractionRequest) (int64, error)
	UpdateStatus(ctx context.Context, tenantID string, id int64, status domain.InteractionStatus) (bool, error)
	Get(ctx context.Context, tenantID string, id int64) (*domain.Interaction, error)
	List(ctx context.Context, tenantID string, filter domain.InteractionFilter, limit int) ([]domain.Interaction, error)
	Delete(ctx context.Context, tenantID string, id int64) (bool, error)
	Stats(ctx context.Context, tenantID string) (*store.TenantStats, error)
}

type InteractionHandler struct {
	store InteractionStore
}

func NewInteractionHandler(s InteractionStore) *InteractionHandler {
	return &InteractionHandler{store: s}
}

type createInteractionResponse struct {
	ID     int64                    `json:"id"`
	Status domain.InteractionStatus `json:"status"`
}

func (h *InteractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req domain.CreateInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Channel == "" {
		respondError(w, http.StatusBadRequest, "channel is required")
		return
	}
	if !domain.ValidChannel(req.Channel) {
		respondError(w, http.StatusBadRequest, "unknown channel")
		return
	}
	if req.UserIdentifier == "" {
		respondError(w, http.StatusBadRequest, "user_identifier is required")
		return
	}

	id, err := h.store.Create(r.Context(), tenant, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create interaction")
		return
	}

	respondJSON(w, http.StatusCreated, createInteractionResponse{ID: id, Status: domain.StatusNew})
}

func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	filter := domain.InteractionFilter{
		Channel: domain.InteractionChannel(r.URL.Query().Get("channel")),
		Status:  domain.InteractionStatus(r.URL.Query().Get("status")),
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	interactions, err := h.store.List(r.Context(), tenant, filter, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list interactions")
		return
	}

	respondJSON(w, http.StatusOK, interactions)
}

func (h *InteractionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interaction id")
		return
	}

	interaction, err := h.store.Get(r.Context(), tenant, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get interaction")
		return
	}
	if interaction == nil {
		respondError(w, http.StatusNotFound, "interaction not found")
		return
	}

	respondJSON(w, http.StatusOK, interaction)
}

type updateStatusRequest struct {
	Status domain.InteractionStatus `json:"status"`
}

func (h *InteractionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interaction id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !domain.ValidStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	updated, err := h.store.UpdateStatus(r.Context(), tenant, id, req.Status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	if !updated {
		respondError(w, http.StatusNotFound, "interaction not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

func (h *InteractionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interaction id")
		return
	}

	deleted, err := h.store.Delete(r.Context(), tenant, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete interaction")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "interaction not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *InteractionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	stats, err := h.store.Stats(r.Context(), tenant)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get tenant stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
