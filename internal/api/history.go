package api

import (
	"encoding/json"
	"errors"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
)

// History returns journaled cycle outcomes, newest first. An empty
// component id selects all components.
func (s *Api) History(componentID string, limit int) (*common.HistoryResponse, error) {
	if s.journal == nil {
		return nil, errors.New("outcome journal is not enabled")
	}
	outcomes, err := s.journal.History(componentID, limit)
	if err != nil {
		return nil, err
	}
	infos := make([]common.OutcomeInfo, 0, len(outcomes))
	for _, o := range outcomes {
		infos = append(infos, common.OutcomeInfo{
			ComponentId:   o.ComponentID,
			State:         o.State,
			Success:       o.Success,
			ErrorCategory: o.ErrorCat,
			ErrorCode:     o.ErrorCode,
			CreatedAt:     o.CreatedAt,
			Reported:      o.Sent,
		})
	}
	return &common.HistoryResponse{Outcomes: infos}, nil
}

func (s *Api) historyHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.HistoryParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_HISTORY, nil, err
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	resp, err := s.History(p.ComponentId, limit)
	if err != nil {
		return common.UPDATE_HISTORY, nil, err
	}
	return common.UPDATE_HISTORY, resp, nil
}
