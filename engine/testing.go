package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// MockTimeProvider provides a controllable time source for testing
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTimeProvider creates a new mock time provider with the given start time
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{currentTime: startTime}
}

// Now returns the current mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// NowMs returns the current mocked time in Unix ms
func (m *MockTimeProvider) NowMs() int64 {
	return UnixMs(m.Now())
}

// SetTime sets the current time for the mock
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance advances the current time by the given duration
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// ManualTicker is a TickSource driven explicitly by tests
type ManualTicker struct {
	c        chan time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewManualTicker creates an unbuffered manual ticker
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		c:      make(chan time.Time),
		stopCh: make(chan struct{}),
	}
}

func (m *ManualTicker) C() <-chan time.Time { return m.c }

func (m *ManualTicker) Stop() {
	m.stopOnce.Do(func() {
		m.stopped.Store(true)
		close(m.stopCh)
	})
}

// Stopped reports whether the consumer released the ticker
func (m *ManualTicker) Stopped() bool {
	return m.stopped.Load()
}

// Tick blocks until the consumer receives t, returns false once stopped
func (m *ManualTicker) Tick(t time.Time) bool {
	select {
	case <-m.stopCh:
		return false
	default:
	}
	select {
	case m.c <- t:
		return true
	case <-m.stopCh:
		return false
	}
}

// Factory returns a TickerFactory that always hands out this ticker
func (m *ManualTicker) Factory() TickerFactory {
	return func(time.Duration) TickSource { return m }
}
