package scheduler

import "time"

// CheckEvent is one pending update check in the scheduler heap. It is
// an in-memory only type; the heap is rebuilt from configuration on
// daemon restart.
type CheckEvent struct {
	// ComponentID names the component to check when TriggerAt is
	// reached. The sentinel AllComponents requests a full sweep.
	ComponentID string
	// TriggerAt is the wall-clock time the check should fire.
	TriggerAt time.Time
	// CronExpr makes the event recurring. Empty means one-shot.
	CronExpr string
}

// AllComponents is the ComponentID sentinel for a sweep of every
// registered component.
const AllComponents = "*"
