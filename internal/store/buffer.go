package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

// PendingBuffer retains events that arrived while a tenant had no
// registered backend, so a late-joining backend can replay them.
// Entries live in a per-tenant redis sorted set scored by receipt
// time; anything older than the TTL is discarded at drain time, and
// the key itself expires so abandoned tenants do not accumulate.
type PendingBuffer struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewPendingBuffer(rs *RedisStore, ttl time.Duration, logger *slog.Logger) *PendingBuffer {
	return &PendingBuffer{
		client: rs.Client(),
		ttl:    ttl,
		logger: logger,
	}
}

func pendingKey(tenantID string) string {
	return fmt.Sprintf("pending:%s", tenantID)
}

// Stash records an event that currently has no destination.
func (b *PendingBuffer) Stash(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	key := pendingKey(event.TenantID)
	pipe := b.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(event.ReceivedAt.UnixMicro()),
		Member: string(data),
	})
	pipe.Expire(ctx, key, b.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("buffering event: %w", err)
	}
	return nil
}

// Drain returns the tenant's buffered events that are still within the
// retention window, in receipt order, plus the number of expired
// entries discarded. The buffer is cleared either way.
func (b *PendingBuffer) Drain(ctx context.Context, tenantID string) ([]domain.Event, int64, error) {
	key := pendingKey(tenantID)
	cutoff := time.Now().Add(-b.ttl).UnixMicro()

	expired, err := b.client.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("expiring buffered events: %w", err)
	}

	members, err := b.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, expired, fmt.Errorf("reading buffered events: %w", err)
	}
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return nil, expired, fmt.Errorf("clearing buffer: %w", err)
	}

	events := make([]domain.Event, 0, len(members))
	for _, m := range members {
		var event domain.Event
		if err := json.Unmarshal([]byte(m), &event); err != nil {
			b.logger.Warn("dropping corrupt buffered event", "tenant", tenantID, "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, expired, nil
}
