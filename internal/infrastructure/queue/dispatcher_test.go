package queue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

type stubAuditService struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *stubAuditService) Process(_ context.Context, event domain.AuthEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *stubAuditService) snapshot() []domain.AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuthEvent(nil), s.events...)
}

func waitForEvents(t *testing.T, s *stubAuditService, n int) []domain.AuthEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := s.snapshot(); len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(s.snapshot()))
	return nil
}

func TestDispatcher_SameEmailProcessedInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &stubAuditService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		d.Record(domain.AuthEvent{
			Kind:   domain.KindUser,
			Action: domain.ActionLogin,
			Email:  "a@x.com",
			Reason: strconv.Itoa(i),
		})
	}

	// All events share one email, so they share one worker and their
	// processing order matches submission order.
	events := waitForEvents(t, svc, n)
	for i, event := range events[:n] {
		if event.Reason != strconv.Itoa(i) {
			t.Fatalf("event %d processed out of order: got %q", i, event.Reason)
		}
	}
}

func TestDispatcher_ShardingIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, &stubAuditService{}, zerolog.Nop())

	for _, email := range []string{"a@x.com", "b@x.com", "m@store.com"} {
		first := d.shardIndex(email)
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("shard index %d out of range for %q", first, email)
		}
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(email); got != first {
				t.Fatalf("shard index for %q changed: %d vs %d", email, got, first)
			}
		}
	}

	// A second dispatcher of the same size agrees on the mapping.
	other := NewDispatcher(4, &stubAuditService{}, zerolog.Nop())
	if d.shardIndex("a@x.com") != other.shardIndex("a@x.com") {
		t.Fatalf("shard mapping differs between dispatchers of equal size")
	}
}

func TestDispatcher_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	// Workers are never started, so the single buffer can only drain by
	// dropping. Record must return for every event regardless.
	d := NewDispatcher(1, &stubAuditService{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+100; i++ {
			d.Record(domain.AuthEvent{Email: "a@x.com", Reason: strconv.Itoa(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full worker buffer")
	}

	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", channelBuffer, got)
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &stubAuditService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
