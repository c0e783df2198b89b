// Package clock provides an injectable time source so that expiry and
// watermark logic can be tested without sleeping.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// Real is the wall clock
var Real Clock = realClock{}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manual is a Clock that only moves when told to. Safe for concurrent use.
type Manual struct {
	now time.Time
	mu  sync.RWMutex
}

// NewManual creates a manual clock frozen at t
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the frozen time
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t (backwards is allowed)
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Millis returns t as unix milliseconds, the resolution used for stored timestamps
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts unix milliseconds back to time.Time
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
