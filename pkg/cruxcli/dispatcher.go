package cruxcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cruxd/cruxd/common"
)

// ErrDisconnect may be returned by a handler to end the Listen loop
// cleanly.
var ErrDisconnect = errors.New("disconnect")

// Dispatcher routes pushed updates to registered handlers by update
// type. Frames with no handler are ignored.
type Dispatcher struct {
	Handlers map[common.UpdateType][]Handler
}

// On registers a handler for one update type.
func (d *Dispatcher) On(utype common.UpdateType, h Handler) {
	d.Handlers[utype] = append(d.Handlers[utype], h)
}

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return fmt.Errorf("failed to parse (%w): %q", err, string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	for _, h := range d.Handlers[res.Update.Type] {
		if err := h.Handle(res.Update.Message); err != nil {
			return err
		}
	}
	return nil
}
