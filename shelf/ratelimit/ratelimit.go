package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter bounds outbound request rate to maxCalls per sliding period.
// One Limiter instance is shared by every network-touching operation in
// the process so they all draw from a single call budget. Safe for
// concurrent use; the timestamp window is guarded by a mutex and a caller
// that must wait sleeps while holding it, so waiters are served one at a
// time.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	period   time.Duration
	calls    []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Limiter allowing maxCalls per period. A non-positive
// maxCalls or period is a configuration error and fails fast.
func New(maxCalls int, period time.Duration) (*Limiter, error) {
	if maxCalls <= 0 {
		return nil, fmt.Errorf("ratelimit: max calls must be positive, got %d", maxCalls)
	}
	if period <= 0 {
		return nil, fmt.Errorf("ratelimit: period must be positive, got %s", period)
	}
	return &Limiter{
		maxCalls: maxCalls,
		period:   period,
		calls:    make([]time.Time, 0, maxCalls),
		now:      time.Now,
		sleep:    time.Sleep,
	}, nil
}

// Acquire blocks until performing one more call stays within the quota,
// then records the call. Timestamps older than the trailing period are
// evicted; if the window is still full the caller sleeps until the oldest
// recorded call leaves the window. The recorded timestamp is taken after
// any wait, not before it.
func (l *Limiter) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.period)

	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept

	if len(l.calls) >= l.maxCalls {
		sleepTime := l.period - now.Sub(l.calls[0])
		if sleepTime > 0 {
			l.sleep(sleepTime)
		}
	}

	l.calls = append(l.calls, l.now())
}

// MaxCalls returns the configured quota.
func (l *Limiter) MaxCalls() int {
	return l.maxCalls
}

// Period returns the configured window length.
func (l *Limiter) Period() time.Duration {
	return l.period
}
