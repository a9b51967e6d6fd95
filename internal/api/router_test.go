package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Priya8975/interaction-stream/internal/domain"
	"github.com/Priya8975/interaction-stream/internal/relay"
	"github.com/Priya8975/interaction-stream/internal/store"
)

type stubStore struct {
	interactions map[int64]domain.Interaction
	nextID       int64
}

func newStubStore() *stubStore {
	return &stubStore{interactions: make(map[int64]domain.Interaction), nextID: 1}
}

func (s *stubStore) ValidTenant(tenantID string) bool {
	return tenantID == "company_a" || tenantID == "company_b"
}

func (s *stubStore) Create(_ context.Context, tenantID string, req domain.CreateInteractionRequest) (int64, error) {
	id := s.nextID
	s.nextID++
	s.interactions[id] = domain.Interaction{
		ID:             id,
		Channel:        req.Channel,
		UserIdentifier: req.UserIdentifier,
		Status:         domain.StatusNew,
		Text:           req.Text,
		TenantID:       tenantID,
	}
	return id, nil
}

func (s *stubStore) UpdateStatus(_ context.Context, _ string, id int64, status domain.InteractionStatus) (bool, error) {
	in, ok := s.interactions[id]
	if !ok {
		return false, nil
	}
	in.Status = status
	s.interactions[id] = in
	return true, nil
}

func (s *stubStore) Get(_ context.Context, _ string, id int64) (*domain.Interaction, error) {
	in, ok := s.interactions[id]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

func (s *stubStore) List(_ context.Context, tenantID string, _ domain.InteractionFilter, _ int) ([]domain.Interaction, error) {
	out := []domain.Interaction{}
	for _, in := range s.interactions {
		if in.TenantID == tenantID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *stubStore) Delete(_ context.Context, _ string, id int64) (bool, error) {
	if _, ok := s.interactions[id]; !ok {
		return false, nil
	}
	delete(s.interactions, id)
	return true, nil
}

func (s *stubStore) Stats(_ context.Context, tenantID string) (*store.TenantStats, error) {
	return &store.TenantStats{TenantID: tenantID, ByStatus: map[string]int{}, ByChannel: map[string]int{}}, nil
}

func setupRouter(t *testing.T) (http.Handler, *stubStore) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	stub := newStubStore()
	supervisor := relay.NewSupervisor(
		relay.NewPGListener("postgres://unused", logger),
		relay.NewRegistry(logger),
		nil,
		relay.Config{Channels: []string{relay.InteractionChangesChannel}},
		logger,
	)
	live := NewLiveHandler(supervisor, logger)
	return NewRouter(stub, supervisor, live), stub
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_UnknownTenantRejected(t *testing.T) {
	router, _ := setupRouter(t)

	paths := []string{
		"/api/v1/tenants/company_x/interactions",
		"/api/v1/tenants/company_x/stats",
	}
	for _, path := range paths {
		rec := doRequest(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestRouter_CreateInteraction(t *testing.T) {
	router, stub := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tenants/company_a/interactions",
		`{"channel":"whatsapp","user_identifier":"user_1","text":"help"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Status != "new" {
		t.Errorf("status: got %q, want %q", resp.Status, "new")
	}
	if _, ok := stub.interactions[resp.ID]; !ok {
		t.Error("interaction not stored")
	}
}

func TestRouter_CreateValidation(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing channel", `{"user_identifier":"u1"}`},
		{"unknown channel", `{"channel":"carrier_pigeon","user_identifier":"u1"}`},
		{"missing user identifier", `{"channel":"email"}`},
		{"invalid json", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/v1/tenants/company_a/interactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRouter_UpdateStatus(t *testing.T) {
	router, stub := setupRouter(t)
	id, _ := stub.Create(context.Background(), "company_a", domain.CreateInteractionRequest{
		Channel:        domain.ChannelEmail,
		UserIdentifier: "u1",
	})

	rec := doRequest(t, router, http.MethodPatch,
		"/api/v1/tenants/company_a/interactions/1/status",
		`{"status":"resolved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.interactions[id].Status != domain.StatusResolved {
		t.Errorf("status not updated: %q", stub.interactions[id].Status)
	}

	// Unknown id
	rec = doRequest(t, router, http.MethodPatch,
		"/api/v1/tenants/company_a/interactions/999/status",
		`{"status":"resolved"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}

	// Bad status
	rec = doRequest(t, router, http.MethodPatch,
		"/api/v1/tenants/company_a/interactions/1/status",
		`{"status":"vaporized"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestRouter_GetNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/tenants/company_a/interactions/42", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_RelayStats(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/relay/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.State != "stopped" {
		t.Errorf("state: got %q, want %q (supervisor never started)", resp.State, "stopped")
	}
}
