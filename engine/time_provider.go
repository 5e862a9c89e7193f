package engine

import "time"

// TimeProvider is the clock the engine stamps samples, events and session bounds with
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// UnixMs converts t to Unix milliseconds, the unit of every recorded timestamp
func UnixMs(t time.Time) int64 {
	return t.UnixMilli()
}
