package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/focusflow/core"
)

// TickSource delivers ticks until stopped
// Implementations: RealTicker (wall clock), ManualTicker (tests)
type TickSource interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a TickSource firing every interval
type TickerFactory func(interval time.Duration) TickSource

// RealTicker adapts time.Ticker to TickSource
type RealTicker struct {
	t *time.Ticker
}

// NewRealTicker is the default TickerFactory
func NewRealTicker(interval time.Duration) TickSource {
	return &RealTicker{t: time.NewTicker(interval)}
}

func (r *RealTicker) C() <-chan time.Time { return r.t.C }

func (r *RealTicker) Stop() { r.t.Stop() }

// Task runs a callback on every tick of its source until stopped
// Stop is idempotent and does not wait, so a callback may stop its own task
type Task struct {
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
	ticks    atomic.Uint64
}

func newTask() *Task {
	return &Task{
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Every starts fn on src in a recovered goroutine
func Every(src TickSource, fn func(now time.Time)) *Task {
	t := newTask()
	t.start(src, fn)
	return t
}

func (t *Task) start(src TickSource, fn func(now time.Time)) {
	if !t.running.CompareAndSwap(false, true) {
		return
	}
	core.Go(func() {
		defer close(t.done)
		defer src.Stop()
		for {
			select {
			case <-t.stopChan:
				return
			case now, ok := <-src.C():
				if !ok {
					return
				}
				// Stop wins over a tick that raced with it
				select {
				case <-t.stopChan:
					return
				default:
				}
				t.ticks.Add(1)
				fn(now)
			}
		}
	})
}

// Stop halts the task, returns true only for the call that stopped it
func (t *Task) Stop() bool {
	stopped := false
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.running.Store(false)
		stopped = true
	})
	return stopped
}

// Done is closed once the loop goroutine has exited
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the loop goroutine has exited
// Must not be called from inside the task callback
func (t *Task) Wait() {
	<-t.done
}

// Running reports whether Stop has not been called yet
func (t *Task) Running() bool {
	return t.running.Load()
}

// Ticks returns the number of callbacks executed
func (t *Task) Ticks() uint64 {
	return t.ticks.Load()
}

// Countdown decrements once per tick and fires onExpire when it reaches zero
type Countdown struct {
	remaining atomic.Int64
	task      *Task
	onTick    func(remaining int)
	onExpire  func()
}

// StartCountdown begins counting seconds down on src
// onTick runs after every decrement, onExpire once at zero; both run on the task goroutine
func StartCountdown(src TickSource, seconds int, onTick func(remaining int), onExpire func()) *Countdown {
	c := &Countdown{
		task:     newTask(),
		onTick:   onTick,
		onExpire: onExpire,
	}
	c.remaining.Store(int64(seconds))
	c.task.start(src, c.tick)
	return c
}

func (c *Countdown) tick(time.Time) {
	rem := c.remaining.Add(-1)
	if rem < 0 {
		c.remaining.Store(0)
		rem = 0
	}
	if c.onTick != nil {
		c.onTick(int(rem))
	}
	if rem == 0 && c.task.Stop() && c.onExpire != nil {
		c.onExpire()
	}
}

// Remaining returns seconds left
func (c *Countdown) Remaining() int {
	return int(c.remaining.Load())
}

// Stop cancels the countdown without firing onExpire
func (c *Countdown) Stop() bool {
	return c.task.Stop()
}

// Done is closed once the countdown goroutine has exited
func (c *Countdown) Done() <-chan struct{} {
	return c.task.Done()
}
