package api

import (
	"encoding/json"
	"errors"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
)

// CheckNow raises the scheduling priority of one component. The
// engine's own debounce and in-flight rules decide whether the request
// is accepted.
func (s *Api) CheckNow(componentID string) (*common.CheckNowResponse, error) {
	if err := s.svc.CheckForUpdateSoon(componentID); err != nil {
		return nil, err
	}
	state := "new"
	if it, ok := s.svc.GetItem(componentID); ok {
		state = it.State.String()
	}
	return &common.CheckNowResponse{
		ComponentId: componentID,
		State:       state,
	}, nil
}

// CheckAll forces a re-check of every idle component, bypassing the
// on-demand debounce.
func (s *Api) CheckAll() (*common.CheckAllResponse, error) {
	n, err := s.svc.CheckAll()
	if err != nil {
		return nil, err
	}
	return &common.CheckAllResponse{Triggered: n}, nil
}

func (s *Api) checkNowHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.CheckNowParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_CHECK_NOW, nil, err
	}
	if p.ComponentId == "" {
		return common.UPDATE_CHECK_NOW, nil, errors.New("component_id is required")
	}
	resp, err := s.CheckNow(p.ComponentId)
	if err != nil {
		return common.UPDATE_CHECK_NOW, nil, err
	}
	return common.UPDATE_CHECK_NOW, resp, nil
}

func (s *Api) checkAllHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	resp, err := s.CheckAll()
	if err != nil {
		return common.UPDATE_CHECK_ALL, nil, err
	}
	return common.UPDATE_CHECK_ALL, resp, nil
}
