package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

const interactionColumns = `id, channel, channel_interaction_id, user_identifier, status,
	created_at, updated_at, original_created_at, last_reply_created_at,
	last_reply_direction, frontend_json, text, sort_key, tenant_id`

// InteractionStore is the tenant-scoped CRUD surface over
// eng_interactions. Each tenant's rows live in a schema named after
// the tenant; tenant ids are validated against the configured set
// before any query is built, never interpolated from untrusted input.
type InteractionStore struct {
	pg      *PostgresStore
	tenants map[string]struct{}
	logger  *slog.Logger
}

func NewInteractionStore(pg *PostgresStore, tenants []string, logger *slog.Logger) *InteractionStore {
	known := make(map[string]struct{}, len(tenants))
	for _, t := range tenants {
		known[t] = struct{}{}
	}
	return &InteractionStore{pg: pg, tenants: known, logger: logger}
}

// ValidTenant reports whether tenantID is part of the configured set.
func (s *InteractionStore) ValidTenant(tenantID string) bool {
	_, ok := s.tenants[tenantID]
	return ok
}

// Tenants returns the configured tenant ids.
func (s *InteractionStore) Tenants() []string {
	out := make([]string, 0, len(s.tenants))
	for t := range s.tenants {
		out = append(out, t)
	}
	return out
}

// schemaFor maps a tenant id to its quoted schema name, rejecting ids
// outside the configured set.
func (s *InteractionStore) schemaFor(tenantID string) (string, error) {
	if !s.ValidTenant(tenantID) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTenant, tenantID)
	}
	return pgx.Identifier{tenantID}.Sanitize(), nil
}

// Create inserts a new interaction and returns its assigned id. The
// insert fires the datastore trigger that notifies the relay.
func (s *InteractionStore) Create(ctx context.Context, tenantID string, req domain.CreateInteractionRequest) (int64, error) {
	schema, err := s.schemaFor(tenantID)
	if err != nil {
		return 0, err
	}
	if !domain.ValidChannel(req.Channel) {
		return 0, fmt.Errorf("invalid channel %q", req.Channel)
	}

	var id int64
	err = s.pg.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s.eng_interactions
			(channel, channel_interaction_id, user_identifier, status,
			 original_created_at, frontend_json, text, tenant_id)
		VALUES ($1, $2, $3, 'new', COALESCE($4, NOW()), $5, $6, $7)
		RETURNING id
	`, schema),
		req.Channel, req.ChannelInteractionID, req.UserIdentifier,
		req.OriginalCreatedAt, req.FrontendJSON, req.Text, tenantID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting interaction: %w", err)
	}

	s.logger.Info("interaction created", "tenant", tenantID, "id", id, "channel", req.Channel)
	return id, nil
}

// UpdateStatus moves an interaction to a new workflow state, stamping
// updated_at. Returns false when the id does not exist.
func (s *InteractionStore) UpdateStatus(ctx context.Context, tenantID string, id int64, status domain.InteractionStatus) (bool, error) {
	schema, err := s.schemaFor(tenantID)
	if err != nil {
		return false, err
	}
	if !domain.ValidStatus(status) {
		return false, fmt.Errorf("invalid status %q", status)
	}

	tag, err := s.pg.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s.eng_interactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, schema), status, id)
	if err != nil {
		return false, fmt.Errorf("updating interaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn("no interaction to update", "tenant", tenantID, "id", id)
		return false, nil
	}

	s.logger.Info("interaction status updated", "tenant", tenantID, "id", id, "status", status)
	return true, nil
}

// Get returns an interaction by id, or nil if not found.
func (s *InteractionStore) Get(ctx context.Context, tenantID string, id int64) (*domain.Interaction, error) {
	schema, err := s.schemaFor(tenantID)
	if err != nil {
		return nil, err
	}

	row := s.pg.pool.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s FROM %s.eng_interactions WHERE id = $1", interactionColumns, schema,
	), id)

	in, err := scanInteraction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying interaction: %w", err)
	}
	return in, nil
}

// List returns interactions for a tenant, newest first, optionally
// filtered by channel and status.
func (s *InteractionStore) List(ctx context.Context, tenantID string, filter domain.InteractionFilter, limit int) ([]domain.Interaction, error) {
	schema, err := s.schemaFor(tenantID)
	if err != nil {
		return nil, err
	}

	query, args := buildListQuery(schema, filter, limit)
	rows, err := s.pg.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	interactions := []domain.Interaction{}
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		interactions = append(interactions, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interactions: %w", err)
	}

	return interactions, nil
}

// Delete removes an interaction. Administrative operation: the live
// pipeline only ever creates and updates.
func (s *InteractionStore) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	schema, err := s.schemaFor(tenantID)
	if err != nil {
		return false, err
	}

	tag, err := s.pg.pool.Exec(ctx, fmt.Sprintf(
		"DELETE FROM %s.eng_interactions WHERE id = $1", schema,
	), id)
	if err != nil {
		return false, fmt.Errorf("deleting interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	s.logger.Info("interaction deleted", "tenant", tenantID, "id", id)
	return true, nil
}

// TenantStats aggregates a tenant's interaction counts.
type TenantStats struct {
	TenantID  string         `json:"tenant_id"`
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	ByChannel map[string]int `json:"by_channel"`
}

// Stats returns per-status and per-channel counts for a tenant.
func (s *InteractionStore) Stats(ctx context.Context, tenantID string) (*TenantStats, error) {
	schema, err := s.schemaFor(tenantID)
	if err != nil {
		return nil, err
	}

	stats := &TenantStats{
		TenantID:  tenantID,
		ByStatus:  map[string]int{},
		ByChannel: map[string]int{},
	}

	rows, err := s.pg.pool.Query(ctx, fmt.Sprintf(
		"SELECT status, COUNT(*) FROM %s.eng_interactions GROUP BY status", schema,
	))
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	rows, err = s.pg.pool.Query(ctx, fmt.Sprintf(
		"SELECT channel, COUNT(*) FROM %s.eng_interactions GROUP BY channel", schema,
	))
	if err != nil {
		return nil, fmt.Errorf("querying channel counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var channel string
		var count int
		if err := rows.Scan(&channel, &count); err != nil {
			return nil, fmt.Errorf("scanning channel count: %w", err)
		}
		stats.ByChannel[channel] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channel counts: %w", err)
	}

	return stats, nil
}

// buildListQuery assembles the filtered SELECT. Split out so the
// parameter numbering is testable without a database.
func buildListQuery(schema string, filter domain.InteractionFilter, limit int) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM %s.eng_interactions", interactionColumns, schema)
	args := []any{}
	argIdx := 1

	where := ""
	if filter.Channel != "" {
		where = fmt.Sprintf(" WHERE channel = $%d", argIdx)
		args = append(args, filter.Channel)
		argIdx++
	}
	if filter.Status != "" {
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", argIdx)
		} else {
			where += fmt.Sprintf(" AND status = $%d", argIdx)
		}
		args = append(args, filter.Status)
		argIdx++
	}

	query += where + " ORDER BY sort_key DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}
	return query, args
}

func scanInteraction(row pgx.Row) (*domain.Interaction, error) {
	var in domain.Interaction
	err := row.Scan(
		&in.ID, &in.Channel, &in.ChannelInteractionID, &in.UserIdentifier, &in.Status,
		&in.CreatedAt, &in.UpdatedAt, &in.OriginalCreatedAt, &in.LastReplyCreatedAt,
		&in.LastReplyDirection, &in.FrontendJSON, &in.Text, &in.SortKey, &in.TenantID,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}
