package relay

import "sync/atomic"

// Stats holds the relay's operational counters. All fields are safe
// for concurrent use.
type Stats struct {
	Dispatched       atomic.Int64
	DecodeFailures   atomic.Int64
	NoDestination    atomic.Int64
	SinkPushFailures atomic.Int64
	Reconnects       atomic.Int64
	BufferExpired    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters for the
// stats API.
type StatsSnapshot struct {
	Dispatched       int64 `json:"dispatched"`
	DecodeFailures   int64 `json:"decode_failures"`
	NoDestination    int64 `json:"no_destination"`
	SinkPushFailures int64 `json:"sink_push_failures"`
	Reconnects       int64 `json:"reconnects"`
	BufferExpired    int64 `json:"buffer_expired"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Dispatched:       s.Dispatched.Load(),
		DecodeFailures:   s.DecodeFailures.Load(),
		NoDestination:    s.NoDestination.Load(),
		SinkPushFailures: s.SinkPushFailures.Load(),
		Reconnects:       s.Reconnects.Load(),
		BufferExpired:    s.BufferExpired.Load(),
	}
}
