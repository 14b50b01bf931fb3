package api

import (
	"encoding/json"
	"errors"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
	"github.com/cruxd/cruxd/pkg/cruxlib"
)

// itemInfo converts an engine snapshot into its wire form.
func itemInfo(it cruxlib.UpdateItem) common.ComponentInfo {
	info := common.ComponentInfo{
		ComponentId:      it.ID,
		Name:             it.Component.Name,
		State:            it.State.String(),
		Fingerprint:      it.Component.Fingerprint,
		LastCheck:        it.LastCheck,
		DiffUpdateFailed: it.DiffUpdateFailed,
		ErrorCode:        it.ErrorCode,
	}
	if it.Component.Version != nil {
		info.Version = it.Component.Version.String()
	}
	if it.NextVersion != nil {
		info.NextVersion = it.NextVersion.String()
	}
	if it.ErrorCategory != cruxlib.ErrorCategoryNone {
		info.ErrorCategory = it.ErrorCategory.String()
	}
	return info
}

// Status returns the wire snapshot of one component.
func (s *Api) Status(componentID string) (*common.StatusResponse, error) {
	it, ok := s.svc.GetItem(componentID)
	if !ok {
		return nil, cruxlib.ErrComponentUnknown
	}
	return &common.StatusResponse{Component: itemInfo(it)}, nil
}

// List returns snapshots of every registered component in
// registration order.
func (s *Api) List() (*common.ListResponse, error) {
	items := s.svc.Items()
	infos := make([]common.ComponentInfo, 0, len(items))
	for _, it := range items {
		infos = append(infos, itemInfo(it))
	}
	return &common.ListResponse{Components: infos}, nil
}

func (s *Api) statusHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.StatusParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_STATUS, nil, err
	}
	if p.ComponentId == "" {
		return common.UPDATE_STATUS, nil, errors.New("component_id is required")
	}
	resp, err := s.Status(p.ComponentId)
	if err != nil {
		return common.UPDATE_STATUS, nil, err
	}
	return common.UPDATE_STATUS, resp, nil
}

func (s *Api) listHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	resp, err := s.List()
	if err != nil {
		return common.UPDATE_LIST, nil, err
	}
	return common.UPDATE_LIST, resp, nil
}
