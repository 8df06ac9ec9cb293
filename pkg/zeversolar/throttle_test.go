package zeversolar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle(t *testing.T) {

	clock := newFakeClock()
	th := NewThrottle(10*time.Second, clock.Now)

	assert.True(t, th.Allow(), "first attempt")
	assert.False(t, th.Allow(), "same instant")

	clock.Advance(9 * time.Second)
	assert.False(t, th.Allow(), "inside the window")

	clock.Advance(2 * time.Second)
	assert.True(t, th.Allow(), "window elapsed")
	assert.False(t, th.Allow())

	assert.Equal(t, 10*time.Second, th.Interval())
}

func TestThrottleBoundary(t *testing.T) {

	clock := newFakeClock()
	th := NewThrottle(10*time.Second, clock.Now)

	require.True(t, th.Allow())

	clock.Advance(10 * time.Second)
	assert.False(t, th.Allow(), "exactly one interval later is still throttled")

	clock.Advance(time.Nanosecond)
	assert.True(t, th.Allow(), "strictly past the interval")
}
