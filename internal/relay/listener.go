package relay

import (
	"context"
	"time"
)

// Notification channel names emitted by the datastore triggers, by
// convention: one for entity creation/change, one for status
// transitions.
const (
	InteractionChangesChannel = "interaction_changes"
	StatusChangesChannel      = "status_changes"
)

// Notification is a raw (channel, payload) pair received from the
// change source before decoding.
type Notification struct {
	Channel string
	Payload string
}

// Listener wraps the datastore's publish/subscribe primitive. A
// listener holds at most one open connection; after a connection is
// lost the supervisor calls Connect and Subscribe again, which must
// re-establish the full channel set.
type Listener interface {
	// Connect establishes the change-source connection. Failure is
	// reported as a *domain.ConnectError.
	Connect(ctx context.Context) error

	// Subscribe starts listening on the given notification channels.
	Subscribe(ctx context.Context, channels []string) error

	// Poll blocks up to timeout for notifications. A poll that sees
	// nothing returns an empty batch and a nil error. A dropped
	// transport is reported as domain.ErrConnectionLost so the
	// supervisor can reconnect.
	Poll(ctx context.Context, timeout time.Duration) ([]Notification, error)

	// Close releases the connection, if any.
	Close(ctx context.Context) error
}
