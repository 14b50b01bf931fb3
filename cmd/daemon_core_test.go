package cmd

import (
	"testing"
	"time"

	"github.com/cruxd/cruxd/pkg/logger"
)

func TestBuildEngineConfig(t *testing.T) {
	deltasOff := false
	cfg := &DaemonConfig{
		Engine: EngineSection{
			UpdateURL:     "https://update.example/u",
			PingURL:       "https://update.example/p",
			CheckInterval: "2h",
			InitialDelay:  "30s",
			Deltas:        &deltasOff,
			URLSizeLimit:  512,
			ExtraParams:   "os=linux",
			HostVersion:   "100.0.4896.60",
		},
	}
	engineCfg, err := buildEngineConfig(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if engineCfg.UpdateURL != cfg.Engine.UpdateURL {
		t.Errorf("update URL = %q", engineCfg.UpdateURL)
	}
	if engineCfg.NextCheckDelay != 2*time.Hour {
		t.Errorf("next check delay = %v; want 2h", engineCfg.NextCheckDelay)
	}
	if engineCfg.InitialDelay != 30*time.Second {
		t.Errorf("initial delay = %v; want 30s", engineCfg.InitialDelay)
	}
	if engineCfg.DeltasEnabled {
		t.Error("deltas should be disabled")
	}
	if engineCfg.URLSizeLimit != 512 {
		t.Errorf("url size limit = %d; want 512", engineCfg.URLSizeLimit)
	}
	if engineCfg.HostVersion == nil {
		t.Error("host version should be set")
	}
}

func TestBuildEngineConfigBadHostVersion(t *testing.T) {
	cfg := &DaemonConfig{Engine: EngineSection{HostVersion: "not a version"}}
	if _, err := buildEngineConfig(cfg); err == nil {
		t.Fatal("expected an error")
	}
}

func TestInitDaemonComponents(t *testing.T) {
	t.Setenv("CRUXD_DATA_DIR", t.TempDir())
	cfg := &DaemonConfig{}
	cfg.Daemon.RPCSecret = "hunter2"
	dc, err := initDaemonComponents(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer dc.Close()
	if dc.Journal == nil || dc.Drainer == nil {
		t.Error("journal should be enabled by default")
	}
	if dc.Service == nil || dc.Queue == nil || dc.Scheduler == nil {
		t.Error("engine components missing")
	}
	if dc.Api == nil || dc.Server == nil {
		t.Error("api components missing")
	}
}

func TestInitDaemonComponentsJournalOff(t *testing.T) {
	t.Setenv("CRUXD_DATA_DIR", t.TempDir())
	cfg := &DaemonConfig{}
	cfg.Daemon.JournalPath = "off"
	dc, err := initDaemonComponents(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer dc.Close()
	if dc.Journal != nil || dc.Drainer != nil {
		t.Error("journal should be disabled")
	}
}

func TestInitDaemonComponentsRegistersConfigured(t *testing.T) {
	t.Setenv("CRUXD_DATA_DIR", t.TempDir())
	cfg := &DaemonConfig{
		Components: []ComponentConfig{{
			Name:       "pnacl",
			PKHash:     "8b2a3bf4fe1fb0041d4b7e7a2c2dd36a1ac6205fa7c42163b2b702f2ea81d0ee",
			Version:    "1.0.0",
			InstallDir: t.TempDir(),
			Cron:       "0 3 * * *",
		}},
	}
	dc, err := initDaemonComponents(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer dc.Close()
	resp, err := dc.Api.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Components) != 1 || resp.Components[0].Name != "pnacl" {
		t.Fatalf("components = %+v", resp.Components)
	}
}

func TestInitDaemonComponentsBadProxy(t *testing.T) {
	t.Setenv("CRUXD_DATA_DIR", t.TempDir())
	cfg := &DaemonConfig{}
	cfg.Engine.Proxy = "::not-a-url"
	if _, err := initDaemonComponents(logger.NewNop(), cfg); err == nil {
		t.Fatal("expected an error")
	}
}

func TestInitDaemonComponentsBadComponent(t *testing.T) {
	t.Setenv("CRUXD_DATA_DIR", t.TempDir())
	cfg := &DaemonConfig{
		Components: []ComponentConfig{{
			Name:       "bad",
			PKHash:     "zz",
			InstallDir: t.TempDir(),
		}},
	}
	if _, err := initDaemonComponents(logger.NewNop(), cfg); err == nil {
		t.Fatal("expected an error")
	}
}
