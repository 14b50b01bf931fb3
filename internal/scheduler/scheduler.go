package scheduler

import (
	"container/heap"
	"context"
	"time"

	"github.com/adhocore/gronx"
)

const maxSleepCap = 60 * time.Second

// Scheduler fires update-check events at their trigger times. All heap
// state lives on one goroutine; Add and Remove communicate with it over
// channels and never block past context cancellation.
type Scheduler struct {
	addChan    chan CheckEvent
	removeChan chan string
	ctx        context.Context
}

// New creates and starts a scheduler. onTrigger is invoked with the
// component id of each fired event, on the scheduler goroutine; keep it
// cheap and hand real work elsewhere. The goroutine exits when ctx is
// cancelled.
func New(ctx context.Context, onTrigger func(componentID string)) *Scheduler {
	s := &Scheduler{
		addChan:    make(chan CheckEvent, 64),
		removeChan: make(chan string, 64),
		ctx:        ctx,
	}
	go s.run(onTrigger)
	return s
}

// Add enqueues an event.
func (s *Scheduler) Add(event CheckEvent) {
	select {
	case s.addChan <- event:
	case <-s.ctx.Done():
	}
}

// Remove cancels every pending event for a component id.
func (s *Scheduler) Remove(componentID string) {
	select {
	case s.removeChan <- componentID:
	case <-s.ctx.Done():
	}
}

func (s *Scheduler) run(onTrigger func(string)) {
	h := &checkHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	// The sleep is capped so a stepped clock or a laptop waking from
	// sleep is noticed within a minute.
	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].TriggerAt)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event := <-s.addChan:
			heapPush(h, event)
			timerCh = resetTimer()

		case id := <-s.removeChan:
			heapRemoveByID(h, id)
			timerCh = resetTimer()

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				event := heapPop(h)
				onTrigger(event.ComponentID)
				if event.CronExpr != "" {
					next, err := NextOccurrence(event.CronExpr, time.Now())
					if err == nil {
						heapPush(h, CheckEvent{
							ComponentID: event.ComponentID,
							TriggerAt:   next,
							CronExpr:    event.CronExpr,
						})
					}
				}
			}
			timerCh = resetTimer()
		}
	}
}

// NextOccurrence returns the next time the cron expression fires
// strictly after start.
func NextOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}

// ValidExpr reports whether expr is a parseable cron expression.
func ValidExpr(expr string) bool {
	return gronx.New().IsValid(expr)
}
