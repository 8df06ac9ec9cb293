package zeversolar

import (
	"sync"
	"time"
)

const (
	MIN_TIME_BETWEEN_UPDATES = 10 * time.Second
)

type Clock func() time.Time

// Throttle admits an attempt only once strictly more than interval has
// elapsed since the last admitted one. The attempt is recorded when it is
// admitted, before any network call runs.
type Throttle struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
	now      Clock
}

func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = time.Now
	}
	return &Throttle{
		interval: interval,
		now:      clock,
	}
}

func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.last.IsZero() && !now.After(t.last.Add(t.interval)) {
		return false
	}
	t.last = now
	return true
}

func (t *Throttle) Interval() time.Duration {
	return t.interval
}
