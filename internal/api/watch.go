package api

import (
	"encoding/json"
	"fmt"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
	"github.com/cruxd/cruxd/pkg/cruxlib"
)

// componentObserver fans one component's lifecycle events out to the
// socket watch pool and the JSON-RPC notifier. Events arrive off the
// engine's control goroutine, so it may call back into the service.
type componentObserver struct {
	api *Api
	id  string
}

func (s *Api) observer(id string) cruxlib.Observer {
	return &componentObserver{api: s, id: id}
}

func watchAction(event cruxlib.Event) (common.WatchingAction, bool) {
	switch event {
	case cruxlib.EventUpdaterStarted:
		return common.CheckStarted, true
	case cruxlib.EventUpdaterSleeping:
		return common.UpdaterIdle, true
	case cruxlib.EventUpdateFound:
		return common.UpdateFound, true
	case cruxlib.EventUpdateReady:
		return common.UpdateReady, true
	case cruxlib.EventUpdated:
		return common.UpdateApplied, true
	case cruxlib.EventUpdateError:
		return common.UpdateFailed, true
	}
	return "", false
}

func (o *componentObserver) OnEvent(event cruxlib.Event, extra int) {
	action, ok := watchAction(event)
	if !ok {
		return
	}
	s := o.api
	if s.pool != nil && s.pool.HasWatchers(o.id) {
		s.pool.Broadcast(o.id, server.MakeResult(common.UPDATE_WATCHING, &common.WatchingResponse{
			ComponentId: o.id,
			Action:      action,
			Value:       extra,
		}))
	}
	if event == cruxlib.EventUpdateError && s.pool != nil {
		s.pool.WriteError(o.id, server.ErrorTypeCritical, fmt.Sprintf("update failed with code %d", extra))
	}
	s.notifyRPC(o.id, event, extra)
}

// notifyRPC translates an engine event into a JSON-RPC push
// notification, filling versions from a fresh item snapshot.
func (s *Api) notifyRPC(id string, event cruxlib.Event, extra int) {
	if s.notifier == nil {
		return
	}
	it, ok := s.svc.GetItem(id)
	if !ok {
		return
	}
	switch event {
	case cruxlib.EventUpdateFound:
		n := server.UpdateFoundNotification{ComponentID: id}
		if it.Component.Version != nil {
			n.Version = it.Component.Version.String()
		}
		if it.NextVersion != nil {
			n.NextVersion = it.NextVersion.String()
		}
		s.notifier.Broadcast("component.updateFound", &n)
	case cruxlib.EventUpdated:
		n := server.UpdateAppliedNotification{ComponentID: id}
		if it.Component.Version != nil {
			n.Version = it.Component.Version.String()
		}
		s.notifier.Broadcast("component.updateApplied", &n)
	case cruxlib.EventUpdateError:
		s.notifier.Broadcast("component.updateError", &server.UpdateErrorNotification{
			ComponentID: id,
			Error:       it.ErrorCategory.String(),
			ErrorCode:   extra,
		})
	}
}

// watchingHandler subscribes the calling connection to pushed events
// for one component, or for every component with the wildcard id. The
// subscription lives until the connection closes. If the component has
// a memoized error from an earlier cycle it is surfaced immediately.
func (s *Api) watchingHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.InputComponentId
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_WATCHING, nil, err
	}
	id := p.ComponentId
	if id == "" {
		id = server.WatchAll
	}
	if id != server.WatchAll {
		if _, ok := s.svc.GetItem(id); !ok {
			return common.UPDATE_WATCHING, nil, cruxlib.ErrComponentUnknown
		}
	}
	pool.AddWatch(id, sconn.Conn)

	resp := &common.WatchingResponse{ComponentId: id}
	if memo := pool.GetError(id); memo != nil {
		resp.Action = common.UpdateFailed
	}
	return common.UPDATE_WATCHING, resp, nil
}
