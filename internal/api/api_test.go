package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/pkg/cruxlib"
	"github.com/cruxd/cruxd/pkg/logger"
)

type nopPipeline struct{}

func (nopPipeline) Install([]byte, string, string, cruxlib.Installer) cruxlib.InstallResult {
	return cruxlib.InstallResult{}
}

// testHash returns a deterministic 32-byte public-key hash.
func testHash(seed byte) []byte {
	h := make([]byte, 32)
	for i := range h {
		h[i] = seed + byte(i)
	}
	return h
}

// testContext mirrors t.Context (Go 1.24+): a context canceled when
// the test ends, needed because this builds with an older toolchain.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func newTestApi(t *testing.T) *Api {
	t.Helper()
	cfg := cruxlib.NewDefaultConfig()
	svc, err := cruxlib.NewUpdateService(testContext(t), cfg, &cruxlib.ServiceOpts{
		Pipeline: nopPipeline{},
	})
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewApi(logger.NewNop(), &Options{
		Service: svc,
		Queue:   cruxlib.NewTaskQueue(nil),
		Fs:      afero.NewMemMapFs(),
		Version: "1.2.3",
		Commit:  "abcdef0",
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func registerParams(seed byte, ver string) *common.RegisterParams {
	return &common.RegisterParams{
		Name:       "widget",
		PKHashHex:  hex.EncodeToString(testHash(seed)),
		Version:    ver,
		InstallDir: "/components/widget",
	}
}

func TestNewApiRequiresCollaborators(t *testing.T) {
	if _, err := NewApi(logger.NewNop(), nil); err == nil {
		t.Error("nil options accepted")
	}
	if _, err := NewApi(logger.NewNop(), &Options{}); err == nil {
		t.Error("missing service accepted")
	}
}

func TestRegisterAndStatus(t *testing.T) {
	a := newTestApi(t)
	resp, err := a.Register(registerParams(1, "1.0"))
	if err != nil {
		t.Fatal(err)
	}
	wantID := cruxlib.ComponentID(testHash(1))
	if resp.ComponentId != wantID {
		t.Errorf("id = %q, want %q", resp.ComponentId, wantID)
	}
	if resp.Replaced {
		t.Error("first registration reported as replaced")
	}

	st, err := a.Status(wantID)
	if err != nil {
		t.Fatal(err)
	}
	if st.Component.State != "new" || st.Component.Version != "1.0" || st.Component.Name != "widget" {
		t.Errorf("status = %+v", st.Component)
	}
}

func TestRegisterReplacePreservesItem(t *testing.T) {
	a := newTestApi(t)
	if _, err := a.Register(registerParams(1, "1.0")); err != nil {
		t.Fatal(err)
	}
	resp, err := a.Register(registerParams(1, "1.1"))
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Replaced {
		t.Error("re-registration not reported as replaced")
	}

	list, _ := a.List()
	if len(list.Components) != 1 {
		t.Fatalf("%d components after replace", len(list.Components))
	}
	if list.Components[0].Version != "1.1" {
		t.Errorf("version = %q after replace", list.Components[0].Version)
	}
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApi(t)
	tests := []struct {
		name string
		p    *common.RegisterParams
	}{
		{"bad hex", &common.RegisterParams{PKHashHex: "zz", Version: "1.0", InstallDir: "/x"}},
		{"short hash", &common.RegisterParams{PKHashHex: "abcd", Version: "1.0", InstallDir: "/x"}},
		{"bad version", &common.RegisterParams{PKHashHex: hex.EncodeToString(testHash(1)), Version: "not.a.version!", InstallDir: "/x"}},
		{"missing install dir", &common.RegisterParams{PKHashHex: hex.EncodeToString(testHash(1)), Version: "1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Register(tt.p); err == nil {
				t.Error("invalid registration accepted")
			}
		})
	}
}

func TestCheckNowUnknownComponent(t *testing.T) {
	a := newTestApi(t)
	if _, err := a.CheckNow("missing"); !errors.Is(err, cruxlib.ErrComponentUnknown) {
		t.Errorf("err = %v", err)
	}
}

func TestStatusUnknownComponent(t *testing.T) {
	a := newTestApi(t)
	if _, err := a.Status("missing"); !errors.Is(err, cruxlib.ErrComponentUnknown) {
		t.Errorf("err = %v", err)
	}
}

func TestListOrder(t *testing.T) {
	a := newTestApi(t)
	for seed := byte(1); seed <= 3; seed++ {
		if _, err := a.Register(registerParams(seed, "1.0")); err != nil {
			t.Fatal(err)
		}
	}
	list, err := a.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Components) != 3 {
		t.Fatalf("%d components", len(list.Components))
	}
	for i, seed := range []byte{1, 2, 3} {
		if want := cruxlib.ComponentID(testHash(seed)); list.Components[i].ComponentId != want {
			t.Errorf("component %d = %q, want %q", i, list.Components[i].ComponentId, want)
		}
	}
}

func TestUpdateSetReportsTriggerErrors(t *testing.T) {
	a := newTestApi(t)
	if _, err := a.Register(registerParams(1, "1.0")); err != nil {
		t.Fatal(err)
	}
	id := cruxlib.ComponentID(testHash(1))

	resp, err := a.UpdateSet([]string{id, "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results[id] != "" {
		t.Errorf("trigger error for registered component: %q", resp.Results[id])
	}
	if resp.Results["missing"] == "" {
		t.Error("no trigger error for unknown id")
	}

	if _, err := a.UpdateSet(nil); err == nil {
		t.Error("empty set accepted")
	}
}

func TestVersionInfo(t *testing.T) {
	a := newTestApi(t)
	v := a.Version()
	if v.Version != "1.2.3" || v.Commit != "abcdef0" {
		t.Errorf("version = %+v", v)
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	a := newTestApi(t)
	if _, err := a.History("", 10); err == nil {
		t.Error("history served without a journal")
	}
}

func TestRegisterHandlerBadBody(t *testing.T) {
	a := newTestApi(t)
	if _, _, err := a.registerHandler(nil, nil, json.RawMessage("{broken")); err == nil {
		t.Error("malformed body accepted")
	}
}

func TestCheckNowHandlerRequiresID(t *testing.T) {
	a := newTestApi(t)
	if _, _, err := a.checkNowHandler(nil, nil, json.RawMessage(`{}`)); err == nil {
		t.Error("missing component_id accepted")
	}
}
