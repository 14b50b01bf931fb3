// Package cruxlib implements the component update orchestration engine:
// a collection of independently registered components is periodically
// checked against a remote update server, newer versions are fetched
// (differentially when possible), verified, installed and reported on.
// All engine state lives in memory and is rebuilt from registrations on
// every process start.
package cruxlib

import (
	"encoding/hex"

	version "github.com/hashicorp/go-version"
)

// Installer applies an unpacked component onto the local machine. It is
// an opaque handle as far as the engine is concerned: the engine only
// carries it from registration to the install pipeline.
type Installer interface {
	// Install applies the component rooted at dir and returns an error
	// on failure. The directory is owned by the caller.
	Install(dir string) error
}

// Observer receives component lifecycle events. Events are delivered
// from a separate goroutine, so an observer may safely call back into
// the update service.
type Observer interface {
	OnEvent(event Event, extra int)
}

// Event identifies a component lifecycle notification.
type Event int

const (
	// EventUpdaterStarted fires once when the service begins its first cycle.
	EventUpdaterStarted Event = iota
	// EventUpdaterSleeping fires when a pass found no work and the
	// service re-armed the long idle delay.
	EventUpdaterSleeping
	// EventUpdateFound fires when the manifest announced a newer version.
	EventUpdateFound
	// EventUpdateReady fires when an artifact has been fetched and is
	// about to be installed.
	EventUpdateReady
	// EventUpdated fires when an install completed successfully.
	EventUpdated
	// EventUpdateError fires when a cycle ended with a failed download
	// or install.
	EventUpdateError
)

// Component is the registration record for one updatable unit. The
// public-key hash and installer are supplied at registration and never
// mutated by the engine; version and fingerprint advance when an update
// completes.
type Component struct {
	// PKHash is the SHA-256 hash of the component's packaging public
	// key. The component id is derived from its first half.
	PKHash []byte
	// Version is the currently installed version.
	Version *version.Version
	// Fingerprint identifies the exact installed package payload.
	Fingerprint string
	// Name is a human-readable label used only for logging and status.
	Name string
	// Installer applies fetched updates. Required.
	Installer Installer
	// Observer, if set, receives lifecycle events for this component.
	Observer Observer
}

// valid reports whether the registration carries the required identity
// material.
func (c *Component) valid() bool {
	return len(c.PKHash) > 0 && c.Version != nil && c.Installer != nil
}

// ComponentID derives the stable component id from a public-key hash:
// the first half of the hash, hex-encoded, with each hex digit mapped
// into the 'a'..'p' alphabet. The mapping keeps ids purely alphabetic
// so they survive every context a query parameter travels through.
func ComponentID(pkHash []byte) string {
	hexstr := hex.EncodeToString(pkHash[:len(pkHash)/2])
	id := make([]byte, len(hexstr))
	for i := 0; i < len(hexstr); i++ {
		c := hexstr[i]
		switch {
		case c >= '0' && c <= '9':
			id[i] = 'a' + c - '0'
		case c >= 'a' && c <= 'f':
			id[i] = 'a' + 10 + c - 'a'
		default:
			id[i] = 'a'
		}
	}
	return string(id)
}
