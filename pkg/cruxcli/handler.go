package cruxcli

import (
	"encoding/json"

	"github.com/cruxd/cruxd/common"
)

// Handler processes one pushed daemon update. Implementations receive
// the raw JSON message and are responsible for unmarshaling it.
type Handler interface {
	Handle(json.RawMessage) error
}

// WatchingHandler processes component progress events. The action
// field filters events to those matching the given action; an empty
// action receives everything.
type WatchingHandler struct {
	Action   common.WatchingAction
	Callback func(*common.WatchingResponse) error
}

// NewWatchingHandler creates a handler for component progress events.
func NewWatchingHandler(action common.WatchingAction, callback func(*common.WatchingResponse) error) *WatchingHandler {
	return &WatchingHandler{
		Action:   action,
		Callback: callback,
	}
}

func (h *WatchingHandler) Handle(m json.RawMessage) error {
	var v common.WatchingResponse
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	if h.Action != "" && v.Action != h.Action {
		return nil
	}
	return h.Callback(&v)
}
