package relay

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

// Decode parses a raw notification payload into an Event. The payload
// must be a JSON object carrying at least tenant, kind and entity_id;
// every other field passes through as an attribute. Decode is pure
// apart from stamping ReceivedAt.
func Decode(n Notification) (domain.Event, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(n.Payload), &fields); err != nil {
		return domain.Event{}, &domain.DecodeError{
			Reason:     "payload is not a JSON object",
			RawPayload: n.Payload,
		}
	}

	tenant, _ := fields["tenant"].(string)
	if tenant == "" {
		return domain.Event{}, &domain.DecodeError{
			Reason:     "missing tenant",
			RawPayload: n.Payload,
		}
	}

	kind, _ := fields["kind"].(string)
	if kind == "" {
		return domain.Event{}, &domain.DecodeError{
			Reason:     "missing kind",
			RawPayload: n.Payload,
		}
	}

	entityID, ok := entityIDString(fields["entity_id"])
	if !ok {
		return domain.Event{}, &domain.DecodeError{
			Reason:     "missing entity_id",
			RawPayload: n.Payload,
		}
	}

	attrs := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case "tenant", "kind", "entity_id":
		default:
			attrs[k] = v
		}
	}
	if len(attrs) == 0 {
		attrs = nil
	}

	return domain.Event{
		TenantID:   tenant,
		Kind:       domain.EventKind(kind),
		EntityID:   entityID,
		Attributes: attrs,
		ReceivedAt: time.Now().UTC(),
	}, nil
}

// entityIDString normalizes a JSON number or string id to a string.
func entityIDString(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}
