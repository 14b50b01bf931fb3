package scheduler

import (
	"testing"
	"time"
)

func TestHeapPushPopOrdering(t *testing.T) {
	h := &checkHeap{}

	now := time.Now()
	heapPush(h, CheckEvent{ComponentID: "third", TriggerAt: now.Add(3 * time.Hour)})
	heapPush(h, CheckEvent{ComponentID: "first", TriggerAt: now.Add(1 * time.Hour)})
	heapPush(h, CheckEvent{ComponentID: "second", TriggerAt: now.Add(2 * time.Hour)})

	want := []string{"first", "second", "third"}
	for _, id := range want {
		got := heapPop(h)
		if got.ComponentID != id {
			t.Fatalf("pop = %s, want %s", got.ComponentID, id)
		}
	}
	if h.Len() != 0 {
		t.Fatalf("heap not drained, %d left", h.Len())
	}
}

func TestHeapRemoveByID(t *testing.T) {
	h := &checkHeap{}
	now := time.Now()
	heapPush(h, CheckEvent{ComponentID: "keep", TriggerAt: now.Add(time.Hour)})
	heapPush(h, CheckEvent{ComponentID: "drop", TriggerAt: now.Add(2 * time.Hour)})
	heapPush(h, CheckEvent{ComponentID: "drop", TriggerAt: now.Add(3 * time.Hour)})

	if !heapRemoveByID(h, "drop") {
		t.Fatal("expected removal")
	}
	if h.Len() != 1 || (*h)[0].ComponentID != "keep" {
		t.Fatalf("heap after removal: %+v", *h)
	}
	if heapRemoveByID(h, "missing") {
		t.Fatal("removal reported for unknown id")
	}
}

func TestHeapStableUnderInterleavedOps(t *testing.T) {
	h := &checkHeap{}
	now := time.Now()
	for i := 0; i < 10; i++ {
		heapPush(h, CheckEvent{
			ComponentID: string(rune('a' + i)),
			TriggerAt:   now.Add(time.Duration(10-i) * time.Minute),
		})
	}
	heapRemoveByID(h, "a") // latest trigger
	heapRemoveByID(h, "j") // earliest trigger

	prev := time.Time{}
	for h.Len() > 0 {
		e := heapPop(h)
		if e.TriggerAt.Before(prev) {
			t.Fatal("pop order not monotonic after removals")
		}
		prev = e.TriggerAt
	}
}
