package scheduler

import "container/heap"

// checkHeap is a min-heap of CheckEvents ordered by TriggerAt.
type checkHeap []CheckEvent

func (h checkHeap) Len() int           { return len(h) }
func (h checkHeap) Less(i, j int) bool { return h[i].TriggerAt.Before(h[j].TriggerAt) }
func (h checkHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *checkHeap) Push(x any) {
	*h = append(*h, x.(CheckEvent))
}

func (h *checkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *checkHeap, e CheckEvent) {
	heap.Push(h, e)
}

// heapPop removes and returns the earliest event. Panics on an empty
// heap.
func heapPop(h *checkHeap) CheckEvent {
	return heap.Pop(h).(CheckEvent)
}

// heapRemoveByID removes every event for the given component id and
// reports whether any was found.
func heapRemoveByID(h *checkHeap, componentID string) bool {
	removed := false
	for {
		found := -1
		for i, e := range *h {
			if e.ComponentID == componentID {
				found = i
				break
			}
		}
		if found < 0 {
			return removed
		}
		// Remove re-heapifies, so restart the scan from the top.
		heap.Remove(h, found)
		removed = true
	}
}
