package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cruxd/cruxd/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cruxd.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDaemonConfig(t *testing.T) {
	path := writeConfig(t, `
[daemon]
port = 5000
rpc_secret = "hunter2"

[engine]
update_url = "https://update.example/service/update2"
ping_url = "https://update.example/service/ping"
check_interval = "2h"
deltas = false

[[component]]
name = "pnacl"
pk_hash = "ff00"
version = "1.0.0"
install_dir = "/opt/components/pnacl"
cron = "0 3 * * *"
`)
	cfg, err := loadDaemonConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.port() != 5000 {
		t.Errorf("port = %d; want 5000", cfg.port())
	}
	if cfg.Daemon.RPCSecret != "hunter2" {
		t.Errorf("rpc_secret = %q", cfg.Daemon.RPCSecret)
	}
	if cfg.Engine.UpdateURL != "https://update.example/service/update2" {
		t.Errorf("update_url = %q", cfg.Engine.UpdateURL)
	}
	if cfg.deltasEnabled() {
		t.Error("deltas should be disabled")
	}
	if d, _ := parseDuration(cfg.Engine.CheckInterval); d != 2*time.Hour {
		t.Errorf("check_interval = %v; want 2h", d)
	}
	if len(cfg.Components) != 1 || cfg.Components[0].Name != "pnacl" {
		t.Fatalf("components = %+v", cfg.Components)
	}
}

func TestLoadDaemonConfigDefaults(t *testing.T) {
	t.Setenv("CRUXD_DATA_DIR", t.TempDir())
	t.Setenv("CRUXD_CONFIG", "")
	cfg, err := loadDaemonConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.port() != common.DefaultTCPPort {
		t.Errorf("port = %d; want %d", cfg.port(), common.DefaultTCPPort)
	}
	if !cfg.deltasEnabled() {
		t.Error("deltas should default to enabled")
	}
	if len(cfg.Components) != 0 {
		t.Errorf("expected no components, got %d", len(cfg.Components))
	}
}

func TestLoadDaemonConfigMissingExplicit(t *testing.T) {
	if _, err := loadDaemonConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error for a missing explicit config")
	}
}

func TestLoadDaemonConfigInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad toml", `daemon = `},
		{"bad port", "[daemon]\nport = 99999\n"},
		{"bad interval", "[engine]\ncheck_interval = \"soon\"\n"},
		{"component without name", "[[component]]\npk_hash = \"ff\"\ninstall_dir = \"/x\"\n"},
		{"component without hash", "[[component]]\nname = \"c\"\ninstall_dir = \"/x\"\n"},
		{"component without dir", "[[component]]\nname = \"c\"\npk_hash = \"ff\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := loadDaemonConfig(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
