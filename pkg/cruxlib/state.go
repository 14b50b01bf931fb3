package cruxlib

// State is the lifecycle state of an update item. Items are created in
// StateNew and move through the check/download/install pipeline; the
// terminal-for-cycle states (StateUpdated, StateUpToDate, StateNoUpdate)
// feed back into StateChecking on the next scheduled or on-demand cycle.
type State int

const (
	// StateNew marks an item that has never been checked, or one that
	// was demoted for a priority on-demand check.
	StateNew State = iota
	// StateChecking marks an item included in an in-flight manifest query.
	StateChecking
	// StateCanUpdate marks an item the server announced a newer version
	// for; a download will be dispatched on the next pass.
	StateCanUpdate
	// StateDownloadingDiff marks an in-flight differential artifact fetch.
	StateDownloadingDiff
	// StateDownloading marks an in-flight full artifact fetch.
	StateDownloading
	// StateUpdatingDiff marks an in-flight install of a differential artifact.
	StateUpdatingDiff
	// StateUpdating marks an in-flight install of a full artifact.
	StateUpdating
	// StateUpdated marks a successfully installed update.
	StateUpdated
	// StateUpToDate marks an item the server considers current.
	StateUpToDate
	// StateNoUpdate marks an item whose cycle ended without an update,
	// either because the server said so or because a fetch, parse or
	// install step failed.
	StateNoUpdate
)

// String returns the wire name of the state, matching the names used by
// the control-plane status responses.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateChecking:
		return "checking"
	case StateCanUpdate:
		return "can_update"
	case StateDownloadingDiff:
		return "downloading_diff"
	case StateDownloading:
		return "downloading"
	case StateUpdatingDiff:
		return "updating_diff"
	case StateUpdating:
		return "updating"
	case StateUpdated:
		return "updated"
	case StateUpToDate:
		return "up_to_date"
	case StateNoUpdate:
		return "no_update"
	}
	return "unknown"
}

// InFlight reports whether the state requires an outstanding network or
// install operation. At most one item in a collection may be in such a
// state at any instant.
func (s State) InFlight() bool {
	switch s {
	case StateChecking, StateCanUpdate, StateDownloadingDiff,
		StateDownloading, StateUpdatingDiff, StateUpdating:
		return true
	}
	return false
}

// TerminalForCycle reports whether the state ends the current update
// cycle for an item. Terminal items become eligible for re-checking
// once the minimum re-check interval has passed.
func (s State) TerminalForCycle() bool {
	switch s {
	case StateUpdated, StateUpToDate, StateNoUpdate:
		return true
	}
	return false
}
