package cruxlib

import (
	"time"

	version "github.com/hashicorp/go-version"
)

// UpdateItem is the per-component bookkeeping record. The collection of
// items is exclusively owned and mutated by the service's control
// goroutine; external callers only see value copies taken by
// UpdateService.Items and the snapshots handed to ping reporters.
type UpdateItem struct {
	// ID is the stable identifier derived from the component's
	// public-key hash. Unique within a service.
	ID string
	// State is the current lifecycle state.
	State State
	// Component is the registration record. Replaced wholesale on
	// re-registration; state and history are preserved.
	Component Component

	// LastCheck is stamped when the item enters a manifest query batch.
	// Used to rate-limit re-checks of terminal items.
	LastCheck time.Time

	// PreviousVersion and PreviousFP capture the installed version and
	// fingerprint at the time the current check cycle started.
	PreviousVersion *version.Version
	PreviousFP      string

	// NextVersion and NextFP are learned from the manifest for a
	// pending update. Meaningful only between StateCanUpdate and the
	// end of the install; cleared on each new check.
	NextVersion *version.Version
	NextFP      string

	// CRXURL and DiffCRXURL locate the full and differential packages
	// announced by the manifest. DiffCRXURL may be empty.
	CRXURL     string
	DiffCRXURL string

	// DiffUpdateFailed is sticky for the current check cycle: once a
	// differential attempt fails, later passes use the full artifact.
	DiffUpdateFailed bool

	// Failure classification for the main (full) attempt.
	ErrorCategory ErrorCategory
	ErrorCode     int
	ExtraCode     int

	// Failure classification for the differential attempt, tracked
	// separately so pings can report both outcomes.
	DiffErrorCategory ErrorCategory
	DiffErrorCode     int
	DiffExtraCode     int
}

// beginCheck resets the per-cycle bookkeeping and moves the item into
// StateChecking. Called exactly when the item is appended to a manifest
// query batch.
func (it *UpdateItem) beginCheck(now time.Time) {
	it.State = StateChecking
	it.LastCheck = now
	it.PreviousVersion = it.Component.Version
	it.PreviousFP = it.Component.Fingerprint
	it.NextVersion = nil
	it.NextFP = ""
	it.DiffUpdateFailed = false
	it.ErrorCategory = ErrorCategoryNone
	it.ErrorCode = 0
	it.ExtraCode = 0
	it.DiffErrorCategory = ErrorCategoryNone
	it.DiffErrorCode = 0
	it.DiffExtraCode = 0
}

// canTryDiff reports whether the next download pass for this item may
// use the differential artifact.
func (it *UpdateItem) canTryDiff(deltasEnabled bool) bool {
	return it.DiffCRXURL != "" && !it.DiffUpdateFailed && deltasEnabled
}

// notify delivers an event to the component's observer, if any, from a
// fresh goroutine so the control loop never blocks on observer code.
func (it *UpdateItem) notify(event Event, extra int) {
	if obs := it.Component.Observer; obs != nil {
		go obs.OnEvent(event, extra)
	}
}
