package domain

import (
	"time"
)

// EventKind identifies what kind of change an Event describes.
type EventKind string

const (
	KindInteractionCreated EventKind = "interaction_created"
	KindInteractionUpdated EventKind = "interaction_updated"
	KindInteractionDeleted EventKind = "interaction_deleted"
	KindStatusChanged      EventKind = "status_changed"
)

// Event is a decoded change notification routed to tenant sinks.
// TenantID and Kind are always present; an Event missing either is
// never constructed — decoding fails with a DecodeError instead.
type Event struct {
	TenantID   string         `json:"tenant"`
	Kind       EventKind      `json:"kind"`
	EntityID   string         `json:"entity_id"`
	Attributes map[string]any `json:"attributes,omitempty"`
	ReceivedAt time.Time      `json:"received_at"`
}

// Attr returns a pass-through attribute as a string, or "" if absent
// or not a string.
func (e Event) Attr(key string) string {
	v, ok := e.Attributes[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
