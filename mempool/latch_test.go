package mempool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlushLatch_ArmingPredicate(t *testing.T) {
	l := newFlushLatch(FlushProtectionConfig{
		MinBeforeSize:  20000,
		RatioThreshold: 0.80,
		Cooldown:       time.Minute,
	})
	defer l.stop()

	assert.False(t, l.tryArm(15000, 10), "below MinBeforeSize must never arm")
	assert.Equal(t, latchIdle, l.observe())

	assert.False(t, l.tryArm(30000, 25000), "ratio above threshold must not arm")
	assert.Equal(t, latchIdle, l.observe())

	assert.True(t, l.tryArm(30000, 1000))
	assert.Equal(t, latchArmed, l.observe())

	assert.False(t, l.tryArm(30000, 1000), "re-triggering while armed is a no-op")
}

func TestFlushLatch_CooldownToIdle(t *testing.T) {
	l := newFlushLatch(FlushProtectionConfig{
		MinBeforeSize:  100,
		RatioThreshold: 0.80,
		Cooldown:       5 * time.Millisecond,
	})
	defer l.stop()

	assert.True(t, l.tryArm(1000, 10))
	assert.Equal(t, latchArmed, l.observe())

	time.Sleep(20 * time.Millisecond)
	// First observation after the timer fires sees Idle (observe resolves
	// Cooling immediately); the classification phase treats that pass
	// the same as Idle, which is what lets deletions resume this pass.
	assert.Equal(t, latchIdle, l.observe())
}
