package cruxlib

import (
	"time"

	version "github.com/hashicorp/go-version"
)

// Config is the full tuning surface of the update service. It is
// supplied at construction and never mutated afterwards.
type Config struct {
	// InitialDelay is the wait before the first cycle after Start.
	InitialDelay time.Duration
	// StepDelay is the short re-arm used between steps of an in-flight
	// update, or while priority-boosted items are pending.
	StepDelay time.Duration
	// NextCheckDelay is the long idle re-arm used after a pass that
	// found nothing to do. Zero disables rescheduling entirely; tests
	// rely on that to run exactly one cycle.
	NextCheckDelay time.Duration
	// OnDemandDelay debounces repeated on-demand checks of an item
	// that was recently checked.
	OnDemandDelay time.Duration
	// MinimumReCheckWait rate-limits re-checks of terminal items.
	MinimumReCheckWait time.Duration

	// URLSizeLimit caps how many component fragments fit in one
	// manifest query URL.
	URLSizeLimit int
	// DeltasEnabled allows differential downloads when the manifest
	// offers one.
	DeltasEnabled bool
	// ExtraRequestParams is a static, unescaped parameter string
	// appended to every check URL.
	ExtraRequestParams string

	// UpdateURL is the base manifest query endpoint.
	UpdateURL string
	// PingURL is the outcome telemetry endpoint.
	PingURL string

	// HostVersion is the embedding application's version, used to
	// apply a manifest's minimum-browser-version gate. Optional; when
	// nil the gate is never applied.
	HostVersion *version.Version
}

// NewDefaultConfig returns production-shaped defaults. The endpoints
// are left empty on purpose.
func NewDefaultConfig() *Config {
	return &Config{
		InitialDelay:       time.Minute,
		StepDelay:          time.Second,
		NextCheckDelay:     6 * time.Hour,
		OnDemandDelay:      30 * time.Minute,
		MinimumReCheckWait: 6 * time.Hour,
		URLSizeLimit:       1024,
		DeltasEnabled:      true,
	}
}
