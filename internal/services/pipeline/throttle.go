package pipeline

import (
	"sync"
	"time"
)

// Throttle bounds how often a full pipeline cycle may run, independent of
// how fast frames arrive. Rejected calls are cheap no-ops, so it is safe to
// drive at capture-device frequency.
type Throttle struct {
	mu           sync.Mutex
	interval     time.Duration
	lastAdmitted time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Admit reports whether a cycle may run at now. The admission time is only
// updated when the call is admitted. A throttle that has never admitted a
// frame admits immediately.
func (t *Throttle) Admit(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastAdmitted.IsZero() && now.Sub(t.lastAdmitted) < t.interval {
		return false
	}

	t.lastAdmitted = now
	return true
}

// Reset rearms the throttle so the next frame is admitted immediately.
// Called on pipeline (re)start.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastAdmitted = time.Time{}
}
