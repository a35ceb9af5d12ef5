package clock

import (
	"sync"
	"time"

	"github.com/simaogato/wealthflow-planner/internal/date"
)

// Clock supplies "now" to the services; the projection engine only ever sees the date it yields
type Clock interface {
	Now() time.Time
}

// Today is the calendar day of c.Now() in loc
func Today(c Clock, loc *time.Location) date.Date {
	now := c.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return date.FromTime(now)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a settable clock for tests
type MockClock struct {
	mu       sync.Mutex
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FixedNow = now
}
