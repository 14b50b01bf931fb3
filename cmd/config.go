package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/cruxd/cruxd/common"
)

// DaemonConfig is the on-disk daemon configuration, read from a TOML
// file. Every field has a working default so an empty file (or no
// file at all) yields a runnable daemon with no components.
type DaemonConfig struct {
	Daemon     DaemonSection     `toml:"daemon"`
	Engine     EngineSection     `toml:"engine"`
	Components []ComponentConfig `toml:"component"`
}

type DaemonSection struct {
	// Port is the TCP fallback port for the control socket. The web
	// surface binds the next port up.
	Port int `toml:"port"`
	// ListenAll binds the web surface on all interfaces instead of
	// loopback. Only honored when an RPC secret is set.
	ListenAll bool `toml:"listen_all"`
	// RPCSecret enables the JSON-RPC surface. Empty disables it.
	RPCSecret string `toml:"rpc_secret"`
	// JournalPath is the outcome journal database location. Empty
	// puts it in the daemon data directory; "off" disables it.
	JournalPath string `toml:"journal_path"`
}

type EngineSection struct {
	UpdateURL string `toml:"update_url"`
	PingURL   string `toml:"ping_url"`
	// Proxy routes update traffic; http, https and socks5 URLs are
	// accepted. Empty uses the environment proxy settings.
	Proxy string `toml:"proxy"`
	// CheckInterval is the periodic check cadence as a Go duration
	// string, for example "6h".
	CheckInterval string `toml:"check_interval"`
	// InitialDelay is the wait before the first check after startup.
	InitialDelay string `toml:"initial_delay"`
	// Deltas permits differential downloads. Defaults to true.
	Deltas *bool `toml:"deltas"`
	// URLSizeLimit caps the manifest query URL length.
	URLSizeLimit int `toml:"url_size_limit"`
	// ExtraParams is appended verbatim to every check URL.
	ExtraParams string `toml:"extra_params"`
	// HostVersion gates manifests that demand a minimum host version.
	HostVersion string `toml:"host_version"`
}

// ComponentConfig pre-registers a component at daemon startup, so the
// daemon tracks it without any client calling register first.
type ComponentConfig struct {
	Name        string `toml:"name"`
	PKHash      string `toml:"pk_hash"`
	Version     string `toml:"version"`
	Fingerprint string `toml:"fingerprint"`
	InstallDir  string `toml:"install_dir"`
	// Cron schedules extra on-demand checks beyond the periodic
	// cadence, in standard five-field cron syntax.
	Cron string `toml:"cron"`
}

const configFileName = "cruxd.toml"

// loadDaemonConfig reads the config at path. An empty path falls back
// to CRUXD_CONFIG and then to cruxd.toml in the data directory; in
// that fallback case a missing file is not an error.
func loadDaemonConfig(path string) (*DaemonConfig, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("CRUXD_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, configFileName)
	}
	cfg := &DaemonConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *DaemonConfig) validate() error {
	if c.Daemon.Port < 0 || c.Daemon.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Daemon.Port)
	}
	if _, err := parseDuration(c.Engine.CheckInterval); err != nil {
		return fmt.Errorf("check_interval: %w", err)
	}
	if _, err := parseDuration(c.Engine.InitialDelay); err != nil {
		return fmt.Errorf("initial_delay: %w", err)
	}
	for i, comp := range c.Components {
		if comp.Name == "" {
			return fmt.Errorf("component %d: name is required", i)
		}
		if comp.PKHash == "" {
			return fmt.Errorf("component %q: pk_hash is required", comp.Name)
		}
		if comp.InstallDir == "" {
			return fmt.Errorf("component %q: install_dir is required", comp.Name)
		}
	}
	return nil
}

// port returns the configured control port or the default.
func (c *DaemonConfig) port() int {
	if c.Daemon.Port != 0 {
		return c.Daemon.Port
	}
	return common.DefaultTCPPort
}

// deltasEnabled defaults to true when the key is absent.
func (c *DaemonConfig) deltasEnabled() bool {
	return c.Engine.Deltas == nil || *c.Engine.Deltas
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
