package common

import "time"

type InputComponentId struct {
	ComponentId string `json:"component_id"`
}

// RegisterParams registers a component over the control socket. The
// daemon builds a directory installer rooted at InstallDir; versions
// and the public-key hash travel as strings on the wire.
type RegisterParams struct {
	Name        string `json:"name"`
	PKHashHex   string `json:"pk_hash"`
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint,omitempty"`
	InstallDir  string `json:"install_dir"`
}

type RegisterResponse struct {
	ComponentId string `json:"component_id"`
	Replaced    bool   `json:"replaced,omitempty"`
}

type CheckNowParams struct {
	ComponentId string `json:"component_id"`
}

type CheckNowResponse struct {
	ComponentId string `json:"component_id"`
	State       string `json:"state"`
}

type CheckAllResponse struct {
	Triggered int `json:"triggered"`
}

type UpdateSetParams struct {
	ComponentIds []string `json:"component_ids"`
}

// UpdateSetResponse carries per-id trigger outcomes. Errors are
// stringified; an empty string means the check was accepted.
type UpdateSetResponse struct {
	Results map[string]string `json:"results"`
}

// ComponentInfo is the wire snapshot of one update item.
type ComponentInfo struct {
	ComponentId      string    `json:"component_id"`
	Name             string    `json:"name,omitempty"`
	Version          string    `json:"version"`
	Fingerprint      string    `json:"fingerprint,omitempty"`
	State            string    `json:"state"`
	LastCheck        time.Time `json:"last_check,omitzero"`
	NextVersion      string    `json:"next_version,omitempty"`
	DiffUpdateFailed bool      `json:"diff_update_failed,omitempty"`
	ErrorCategory    string    `json:"error_category,omitempty"`
	ErrorCode        int       `json:"error_code,omitempty"`
}

type StatusParams struct {
	ComponentId string `json:"component_id"`
}

type StatusResponse struct {
	Component ComponentInfo `json:"component"`
}

type ListResponse struct {
	Components []ComponentInfo `json:"components"`
}

type HistoryParams struct {
	ComponentId string `json:"component_id,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// OutcomeInfo is one journaled cycle result.
type OutcomeInfo struct {
	ComponentId   string    `json:"component_id"`
	State         string    `json:"state"`
	Success       bool      `json:"success"`
	ErrorCategory int       `json:"error_category,omitempty"`
	ErrorCode     int       `json:"error_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Reported      bool      `json:"reported"`
}

type HistoryResponse struct {
	Outcomes []OutcomeInfo `json:"outcomes"`
}

// WatchingResponse is pushed to subscribed clients as components move
// through their update cycles.
type WatchingResponse struct {
	ComponentId string         `json:"component_id"`
	Action      WatchingAction `json:"action"`
	Value       int            `json:"value,omitempty"`
}

type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}
