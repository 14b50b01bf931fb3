package server

import (
	"encoding/json"

	"github.com/cruxd/cruxd/common"
)

// HandlerFunc handles a single framed request. It receives the
// synchronized connection, the watcher pool and the raw message body,
// and returns the update type for the response, the response payload
// and any error encountered.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
