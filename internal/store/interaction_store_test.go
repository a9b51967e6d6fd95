package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

func testInteractionStore(tenants ...string) *InteractionStore {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewInteractionStore(&PostgresStore{}, tenants, logger)
}

func TestInteractionStore_TenantValidation(t *testing.T) {
	s := testInteractionStore("company_a", "company_b")

	if !s.ValidTenant("company_a") {
		t.Error("company_a should be valid")
	}
	if s.ValidTenant("company_x") {
		t.Error("company_x should not be valid")
	}
	if s.ValidTenant("") {
		t.Error("empty tenant should not be valid")
	}
	if s.ValidTenant("company_a; DROP TABLE eng_interactions") {
		t.Error("injection-shaped tenant should not be valid")
	}
}

func TestInteractionStore_UnknownTenantRejectedBeforeQuery(t *testing.T) {
	// The store has no live pool; reaching a query would panic. Every
	// operation must fail on tenant validation first.
	s := testInteractionStore("company_a")
	ctx := context.Background()

	_, err := s.Create(ctx, "intruder", domain.CreateInteractionRequest{Channel: domain.ChannelEmail})
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("Create: expected ErrUnknownTenant, got %v", err)
	}

	_, err = s.UpdateStatus(ctx, "intruder", 1, domain.StatusResolved)
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("UpdateStatus: expected ErrUnknownTenant, got %v", err)
	}

	_, err = s.Get(ctx, "intruder", 1)
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("Get: expected ErrUnknownTenant, got %v", err)
	}

	_, err = s.List(ctx, "intruder", domain.InteractionFilter{}, 10)
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("List: expected ErrUnknownTenant, got %v", err)
	}

	_, err = s.Delete(ctx, "intruder", 1)
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("Delete: expected ErrUnknownTenant, got %v", err)
	}

	_, err = s.Stats(ctx, "intruder")
	if !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("Stats: expected ErrUnknownTenant, got %v", err)
	}
}

func TestSchemaFor_QuotesIdentifier(t *testing.T) {
	s := testInteractionStore("company_a")

	schema, err := s.schemaFor("company_a")
	if err != nil {
		t.Fatalf("schemaFor failed: %v", err)
	}
	if schema != `"company_a"` {
		t.Errorf("schema: got %s, want quoted identifier", schema)
	}
}

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   domain.InteractionFilter
		limit    int
		wantSQL  []string
		wantArgs int
	}{
		{
			name:     "no filter",
			limit:    0,
			wantSQL:  []string{"ORDER BY sort_key DESC"},
			wantArgs: 0,
		},
		{
			name:     "channel only",
			filter:   domain.InteractionFilter{Channel: domain.ChannelWhatsApp},
			limit:    10,
			wantSQL:  []string{"WHERE channel = $1", "LIMIT $2"},
			wantArgs: 2,
		},
		{
			name:     "status only",
			filter:   domain.InteractionFilter{Status: domain.StatusNew},
			limit:    0,
			wantSQL:  []string{"WHERE status = $1"},
			wantArgs: 1,
		},
		{
			name:     "channel and status",
			filter:   domain.InteractionFilter{Channel: domain.ChannelEmail, Status: domain.StatusResolved},
			limit:    5,
			wantSQL:  []string{"WHERE channel = $1", "AND status = $2", "LIMIT $3"},
			wantArgs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(`"company_a"`, tt.filter, tt.limit)

			for _, fragment := range tt.wantSQL {
				if !strings.Contains(query, fragment) {
					t.Errorf("query missing %q:\n%s", fragment, query)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args: got %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}
