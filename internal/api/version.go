package api

import (
	"encoding/json"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
)

// Version reports the daemon build information set at startup.
func (s *Api) Version() *common.VersionResponse {
	return &common.VersionResponse{
		Version: s.version,
		Commit:  s.commit,
	}
}

func (s *Api) versionHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_VERSION, s.Version(), nil
}
