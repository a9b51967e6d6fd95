package relay

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/Priya8975/interaction-stream/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testSink struct {
	id     string
	mu     sync.Mutex
	events []domain.Event
	pushFn func(domain.Event) error
}

func newTestSink(id string) *testSink {
	return &testSink{id: id}
}

func (s *testSink) ID() string { return s.id }

func (s *testSink) Push(event domain.Event) error {
	if s.pushFn != nil {
		if err := s.pushFn(event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *testSink) received() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestRegistry_RegisterIdempotent(t *testing.T) {
	reg := NewRegistry(testLogger())
	sink := newTestSink("s1")

	reg.Register("t1", sink)
	reg.Register("t1", sink)

	if got := len(reg.SinksFor("t1")); got != 1 {
		t.Fatalf("expected 1 sink after double register, got %d", got)
	}

	// A single unregister removes the sink entirely
	reg.Unregister("t1", sink)
	if got := len(reg.SinksFor("t1")); got != 0 {
		t.Fatalf("expected 0 sinks after unregister, got %d", got)
	}
}

func TestRegistry_UnregisterAbsentSink(t *testing.T) {
	reg := NewRegistry(testLogger())
	sink := newTestSink("s1")

	// Must not panic or error
	reg.Unregister("t1", sink)

	reg.Register("t1", sink)
	reg.Unregister("t1", sink)
	reg.Unregister("t1", sink)

	if got := len(reg.SinksFor("t1")); got != 0 {
		t.Fatalf("expected 0 sinks, got %d", got)
	}
}

func TestRegistry_UnknownTenantEmpty(t *testing.T) {
	reg := NewRegistry(testLogger())

	sinks := reg.SinksFor("nobody")
	if sinks == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(sinks) != 0 {
		t.Fatalf("expected 0 sinks, got %d", len(sinks))
	}
}

func TestRegistry_FanOutSameTenant(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register("t1", newTestSink("s1"))
	reg.Register("t1", newTestSink("s2"))
	reg.Register("t2", newTestSink("s3"))

	if got := len(reg.SinksFor("t1")); got != 2 {
		t.Errorf("t1: expected 2 sinks, got %d", got)
	}
	if got := len(reg.SinksFor("t2")); got != 1 {
		t.Errorf("t2: expected 1 sink, got %d", got)
	}
	if got := len(reg.Tenants()); got != 2 {
		t.Errorf("expected 2 tenants, got %d", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			sink := newTestSink(fmt.Sprintf("s%d", i))
			for j := 0; j < 100; j++ {
				reg.Register("t1", sink)
				reg.Unregister("t1", sink)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.SinksFor("t1")
				reg.Tenants()
			}
		}()
	}
	wg.Wait()
}
