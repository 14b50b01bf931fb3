package api

import (
	"encoding/json"
	"errors"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
)

// UpdateSet triggers an on-demand check for a set of components as one
// exclusive batch: batches queue behind each other so two sets never
// interleave their completion tracking. The response reports per-id
// trigger outcomes immediately; cycle completion is observable through
// the event feed.
func (s *Api) UpdateSet(componentIDs []string) (*common.UpdateSetResponse, error) {
	if len(componentIDs) == 0 {
		return nil, errors.New("component_ids is required")
	}

	type outcome struct {
		errs map[string]error
		err  error
	}
	triggered := make(chan outcome, 1)

	s.queue.SubmitBatch(func(done func()) {
		errs, err := s.svc.UpdateSet(componentIDs, func(map[string]error) {
			done()
		})
		triggered <- outcome{errs, err}
		if err != nil {
			// Nothing was triggered, so no completion callback will
			// ever fire; release the batch slot ourselves.
			done()
		}
	})

	out := <-triggered
	if out.err != nil {
		return nil, out.err
	}
	results := make(map[string]string, len(out.errs))
	for id, err := range out.errs {
		if err != nil {
			results[id] = err.Error()
		} else {
			results[id] = ""
		}
	}
	return &common.UpdateSetResponse{Results: results}, nil
}

func (s *Api) updateSetHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.UpdateSetParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_UPDATE_SET, nil, err
	}
	resp, err := s.UpdateSet(p.ComponentIds)
	if err != nil {
		return common.UPDATE_UPDATE_SET, nil, err
	}
	return common.UPDATE_UPDATE_SET, resp, nil
}
