package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	version "github.com/hashicorp/go-version"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/server"
	"github.com/cruxd/cruxd/pkg/cruxlib"
)

// Register validates the params, builds the component with a directory
// installer and an event observer, and upserts it into the engine.
func (s *Api) Register(p *common.RegisterParams) (*common.RegisterResponse, error) {
	comp, err := s.buildComponent(p)
	if err != nil {
		return nil, err
	}
	id := cruxlib.ComponentID(comp.PKHash)
	comp.Observer = s.observer(id)

	status, err := s.svc.RegisterComponent(comp)
	if err != nil {
		return nil, err
	}
	s.log.Info("registered component %s (%s %s)", id, p.Name, p.Version)
	return &common.RegisterResponse{
		ComponentId: id,
		Replaced:    status == cruxlib.StatusReplaced,
	}, nil
}

func (s *Api) buildComponent(p *common.RegisterParams) (cruxlib.Component, error) {
	var comp cruxlib.Component
	pkHash, err := hex.DecodeString(p.PKHashHex)
	if err != nil {
		return comp, fmt.Errorf("invalid pk_hash: %w", err)
	}
	if len(pkHash) != sha256.Size {
		return comp, fmt.Errorf("pk_hash must be %d bytes, got %d", sha256.Size, len(pkHash))
	}
	v, err := version.NewVersion(p.Version)
	if err != nil {
		return comp, fmt.Errorf("invalid version %q: %w", p.Version, err)
	}
	if p.InstallDir == "" {
		return comp, fmt.Errorf("install_dir is required")
	}
	comp.PKHash = pkHash
	comp.Version = v
	comp.Fingerprint = p.Fingerprint
	comp.Name = p.Name
	comp.Installer = NewDirInstaller(s.fs, p.InstallDir)
	return comp, nil
}

func (s *Api) registerHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.RegisterParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_REGISTER, nil, err
	}
	resp, err := s.Register(&p)
	if err != nil {
		return common.UPDATE_REGISTER, nil, err
	}
	return common.UPDATE_REGISTER, resp, nil
}
