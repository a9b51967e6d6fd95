package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

// drainWindow bounds how long Poll spends collecting notifications
// that arrived in the same burst as the first one.
const drainWindow = 10 * time.Millisecond

// PGListener receives PostgreSQL NOTIFY messages over a dedicated
// connection. LISTEN state is bound to a session, so the listener
// never borrows from the shared pool.
type PGListener struct {
	connString string
	logger     *slog.Logger
	conn       *pgx.Conn
}

func NewPGListener(connString string, logger *slog.Logger) *PGListener {
	return &PGListener{
		connString: connString,
		logger:     logger,
	}
}

func (l *PGListener) Connect(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return &domain.ConnectError{Err: err}
	}
	l.conn = conn
	l.logger.Info("change source connected")
	return nil
}

func (l *PGListener) Subscribe(ctx context.Context, channels []string) error {
	if l.conn == nil {
		return &domain.ConnectError{Err: errors.New("not connected")}
	}
	for _, ch := range channels {
		if _, err := l.conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("listening on channel %s: %w", ch, err)
		}
		l.logger.Info("listening on channel", "channel", ch)
	}
	return nil
}

// Poll waits up to timeout for at least one notification, then drains
// any others delivered in the same burst so the dispatcher sees them
// in arrival order within one batch.
func (l *PGListener) Poll(ctx context.Context, timeout time.Duration) ([]Notification, error) {
	if l.conn == nil || l.conn.IsClosed() {
		return nil, domain.ErrConnectionLost
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	n, err := l.conn.WaitForNotification(waitCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionLost, err)
	}

	batch := []Notification{{Channel: n.Channel, Payload: n.Payload}}
	for {
		drainCtx, cancel := context.WithTimeout(ctx, drainWindow)
		n, err := l.conn.WaitForNotification(drainCtx)
		cancel()
		if err != nil {
			// Deadline means the burst is drained; anything else
			// surfaces on the next poll.
			break
		}
		batch = append(batch, Notification{Channel: n.Channel, Payload: n.Payload})
	}
	return batch, nil
}

func (l *PGListener) Close(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close(ctx)
	l.conn = nil
	return err
}
