// Package clock provides time utilities for the application
package clock

import (
	"sync"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/quest-forge/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Stepping is a test clock that advances by Step on every call to Now, so
// records created in sequence get strictly increasing timestamps.
type Stepping struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewStepping starts a stepping clock at start
func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{now: start, Step: step}
}

// Now returns the current time and advances the clock
func (c *Stepping) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}
