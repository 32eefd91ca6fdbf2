package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	good := DefaultConfig()
	assert.NoError(t, good.validate())

	bad := DefaultConfig()
	bad.RefreshRateMs = 0
	assert.ErrorIs(t, bad.validate(), ErrInvalidConfig)

	bad = DefaultConfig()
	bad.RateWindowSeconds = -1
	assert.ErrorIs(t, bad.validate(), ErrInvalidConfig)

	bad = DefaultConfig()
	bad.FlushProtection.RatioThreshold = 1.5
	assert.ErrorIs(t, bad.validate(), ErrInvalidConfig)

	bad = DefaultConfig()
	bad.FlushProtection.Cooldown = 0
	assert.ErrorIs(t, bad.validate(), ErrInvalidConfig)
}

func TestConfig_PassBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RefreshRateMs = 2000
	assert.Equal(t, 20_000, int(cfg.passBudget().Milliseconds()))
}

func TestConfig_LatestCapacityDefault(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, 6, cfg.latestCapacity())
	cfg.LatestCapacity = 12
	assert.Equal(t, 12, cfg.latestCapacity())
}
