package common

import "time"

// TCPHost is the loopback host used when the daemon falls back from
// its platform socket to TCP.
const TCPHost = "127.0.0.1"

const (
	// DefaultTCPPort is the fallback control port when the platform
	// socket is unavailable. The web surface binds the next port up.
	DefaultTCPPort = 4217

	// MaxMessageSize caps a single framed message on the control
	// socket.
	MaxMessageSize = 16 << 20

	// DefaultDialTimeout bounds client connection attempts.
	DefaultDialTimeout = 5 * time.Second
)

type UpdateType string

const (
	UPDATE_REGISTER   UpdateType = "register"
	UPDATE_CHECK_NOW  UpdateType = "check_now"
	UPDATE_CHECK_ALL  UpdateType = "check_all"
	UPDATE_UPDATE_SET UpdateType = "update_set"
	UPDATE_STATUS     UpdateType = "status"
	UPDATE_LIST       UpdateType = "list"
	UPDATE_HISTORY    UpdateType = "history"
	UPDATE_WATCHING   UpdateType = "watching"
	UPDATE_VERSION    UpdateType = "version"
	UPDATE_STOP       UpdateType = "stop"
)

// WatchingAction names the progress events pushed to watching clients
// while a component moves through an update cycle.
type WatchingAction string

const (
	CheckStarted  WatchingAction = "check_started"
	UpdateFound   WatchingAction = "update_found"
	UpdateReady   WatchingAction = "update_ready"
	UpdateApplied WatchingAction = "update_applied"
	UpdateFailed  WatchingAction = "update_failed"
	UpdaterIdle   WatchingAction = "updater_idle"
)
