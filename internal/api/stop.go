package api

import (
	"encoding/json"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
)

type stopResponse struct {
	Stopped bool `json:"stopped"`
}

// stopHandler pauses the engine's scheduling. Operations already in
// flight run to completion; no new cycles are dispatched until the
// daemon restarts.
func (s *Api) stopHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	if err := s.svc.Stop(); err != nil {
		return common.UPDATE_STOP, nil, err
	}
	s.log.Info("update scheduling stopped by client request")
	return common.UPDATE_STOP, &stopResponse{Stopped: true}, nil
}
