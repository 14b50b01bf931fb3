package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

// firedRecorder collects trigger callbacks behind a mutex.
type firedRecorder struct {
	mu    sync.Mutex
	fired []string
}

func (r *firedRecorder) trigger(id string) {
	r.mu.Lock()
	r.fired = append(r.fired, id)
	r.mu.Unlock()
}

func (r *firedRecorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.fired {
		if f == id {
			n++
		}
	}
	return n
}

func (r *firedRecorder) waitFor(t *testing.T, id string, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if r.count(id) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("event %s fired %d times, want at least %d", id, r.count(id), want)
}

func TestScheduler_AddAndFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &firedRecorder{}
	s := New(ctx, rec.trigger)

	s.Add(CheckEvent{
		ComponentID: "aabbccdd",
		TriggerAt:   time.Now().Add(50 * time.Millisecond),
	})
	rec.waitFor(t, "aabbccdd", 1)
}

func TestScheduler_PastEventFiresImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &firedRecorder{}
	s := New(ctx, rec.trigger)

	s.Add(CheckEvent{
		ComponentID: "aabbccdd",
		TriggerAt:   time.Now().Add(-time.Minute),
	})
	rec.waitFor(t, "aabbccdd", 1)
}

func TestScheduler_RemoveCancelsPendingEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &firedRecorder{}
	s := New(ctx, rec.trigger)

	s.Add(CheckEvent{
		ComponentID: "cancelme",
		TriggerAt:   time.Now().Add(150 * time.Millisecond),
	})
	s.Add(CheckEvent{
		ComponentID: "keeper",
		TriggerAt:   time.Now().Add(150 * time.Millisecond),
	})
	s.Remove("cancelme")

	rec.waitFor(t, "keeper", 1)
	if rec.count("cancelme") != 0 {
		t.Fatal("removed event still fired")
	}
}

func TestScheduler_FiresInTriggerOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &firedRecorder{}
	s := New(ctx, rec.trigger)

	now := time.Now()
	s.Add(CheckEvent{ComponentID: "late", TriggerAt: now.Add(120 * time.Millisecond)})
	s.Add(CheckEvent{ComponentID: "early", TriggerAt: now.Add(40 * time.Millisecond)})

	rec.waitFor(t, "late", 1)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.fired) != 2 || rec.fired[0] != "early" || rec.fired[1] != "late" {
		t.Fatalf("fired out of order: %v", rec.fired)
	}
}

// TestScheduler_RecurringEventReschedules uses an every-minute cron
// expression and a trigger time in the past, so the first firing is
// immediate and the re-add path runs.
func TestScheduler_RecurringEventReschedules(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &firedRecorder{}
	s := New(ctx, rec.trigger)

	s.Add(CheckEvent{
		ComponentID: "recurring",
		TriggerAt:   time.Now().Add(-time.Second),
		CronExpr:    "* * * * *",
	})

	rec.waitFor(t, "recurring", 1)

	// The follow-up occurrence is up to a minute away; removing it
	// keeps the goroutine from firing again during other tests.
	s.Remove("recurring")
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	rec := &firedRecorder{}
	s := New(ctx, rec.trigger)
	cancel()

	// Neither call may block after cancellation.
	done := make(chan struct{})
	go func() {
		s.Add(CheckEvent{ComponentID: "x", TriggerAt: time.Now()})
		s.Remove("x")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Add/Remove blocked after context cancellation")
	}
}

func TestNextOccurrence(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 30, 30, 0, time.UTC)
	next, err := NextOccurrence("0 3 * * *", start)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}

	if _, err := NextOccurrence("not a cron expr", start); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestValidExpr(t *testing.T) {
	if !ValidExpr("*/15 * * * *") {
		t.Error("quarter-hourly expression rejected")
	}
	if ValidExpr("61 * * * *") {
		t.Error("out-of-range minute accepted")
	}
	if ValidExpr("") {
		t.Error("empty expression accepted")
	}
}
