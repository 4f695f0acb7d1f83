package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterCacheAllowsBurstThenRejects(t *testing.T) {
	c := NewLimiterCache(2, time.Hour, 10)

	assert.True(t, c.Allow("10.0.0.1"))
	assert.True(t, c.Allow("10.0.0.1"))
	assert.False(t, c.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, c.Allow("10.0.0.2"))

	stats := c.Stats()
	assert.Equal(t, 2, stats.Clients)
	assert.Equal(t, int64(3), stats.Allowed)
	assert.Equal(t, int64(1), stats.Rejected)
}

func TestLimiterCacheEvictsOldest(t *testing.T) {
	c := NewLimiterCache(1, time.Hour, 2)

	c.Allow("a")
	time.Sleep(time.Millisecond)
	c.Allow("b")
	time.Sleep(time.Millisecond)
	c.Allow("c")

	assert.Equal(t, 2, c.Stats().Clients)
	// "a" was evicted, so it starts over with a full bucket
	assert.True(t, c.Allow("a"))
}

func TestLimiterCacheDefaults(t *testing.T) {
	c := NewLimiterCache(0, 0, 0)
	assert.True(t, c.Allow("x"))
	assert.False(t, c.Allow("x"))
}
