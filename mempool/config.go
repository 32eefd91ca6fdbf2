package mempool

import (
	"time"

	"github.com/pkg/errors"
)

// FlushProtectionConfig tunes the three-state latch that suppresses
// deletion propagation when the upstream suddenly reports an
// implausibly small pool (typically a node restart).
type FlushProtectionConfig struct {
	// MinBeforeSize is the pre-pass cache size at or below which the
	// latch never arms; small pools fluctuate wildly
	// under normal operation and arming on them would suppress real
	// deletions constantly.
	MinBeforeSize int
	// RatioThreshold arms the latch when after/before <= this value.
	RatioThreshold float64
	// Cooldown is how long the latch stays Armed before moving to
	// Cooling, and then Idle on the pass that observes Cooling.
	Cooldown time.Duration
}

// Config holds the tunables recognized by the engine. All durations are
// validated to be positive at construction; there is no runtime
// reconfiguration.
type Config struct {
	// RefreshRateMs is the nominal pass period. It is only used to
	// derive the per-pass ingest budget (10x); the engine does not
	// schedule itself, a supervisor calls RunOnce on this cadence.
	RefreshRateMs int
	// RateWindowSeconds is the rate tracker's smoothing window.
	RateWindowSeconds int
	// LatestCapacity bounds the latest-arrivals ring. Zero falls back
	// to the default of 6.
	LatestCapacity int
	FlushProtection FlushProtectionConfig
}

// DefaultConfig mirrors the typical values called out in the design
// notes: a 2s refresh cadence, a 150s rate window, and flush protection
// tuned for a node restart rather than routine churn.
func DefaultConfig() Config {
	return Config{
		RefreshRateMs:     2000,
		RateWindowSeconds: 150,
		LatestCapacity:    6,
		FlushProtection: FlushProtectionConfig{
			MinBeforeSize:  20000,
			RatioThreshold: 0.80,
			Cooldown:       120 * time.Second,
		},
	}
}

func (c Config) validate() error {
	if c.RefreshRateMs <= 0 {
		return errors.Wrap(ErrInvalidConfig, "refreshRateMs must be positive")
	}
	if c.RateWindowSeconds <= 0 {
		return errors.Wrap(ErrInvalidConfig, "rateWindowSeconds must be positive")
	}
	if c.FlushProtection.MinBeforeSize < 0 {
		return errors.Wrap(ErrInvalidConfig, "flushProtection.minBeforeSize must not be negative")
	}
	if c.FlushProtection.RatioThreshold < 0 || c.FlushProtection.RatioThreshold > 1 {
		return errors.Wrap(ErrInvalidConfig, "flushProtection.ratioThreshold must be in [0,1]")
	}
	if c.FlushProtection.Cooldown <= 0 {
		return errors.Wrap(ErrInvalidConfig, "flushProtection.cooldownMs must be positive")
	}
	return nil
}

func (c Config) latestCapacity() int {
	if c.LatestCapacity <= 0 {
		return 6
	}
	return c.LatestCapacity
}

// passBudget is the worst-case duration of a single ingest loop: 10x the
// nominal refresh cadence. A 2000ms refresh rate yields a 20s budget.
func (c Config) passBudget() time.Duration {
	return 10 * time.Duration(c.RefreshRateMs) * time.Millisecond
}
