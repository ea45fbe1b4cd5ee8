package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MustParseDate returns time.Time for provided string in date format
func MustParseDate(t *testing.T, date string) time.Time {
	parsed, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)

	return parsed
}

// Clock - manually advanced time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns Clock set to start
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns current clock time. Matches utils.Provider[time.Time]
func (c *Clock) Now(_ context.Context) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}
