package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/status"
	"github.com/lixenwraith/focusflow/vmath"
)

// DefaultFrameInterval approximates a 60Hz display refresh
const DefaultFrameInterval = 16 * time.Millisecond

// Config sizes the canvas and seeds random placement
type Config struct {
	Width         float64
	Height        float64
	Seed          uint64 // 0 seeds from the clock
	FrameInterval time.Duration
}

// Option customizes an Engine
type Option func(*Engine)

// WithTimeProvider replaces the wall clock
func WithTimeProvider(tp TimeProvider) Option {
	return func(e *Engine) { e.clock = tp }
}

// WithTickerFactory replaces the frame tick source
func WithTickerFactory(f TickerFactory) Option {
	return func(e *Engine) { e.newTicker = f }
}

// WithStatus publishes live counters to reg
func WithStatus(reg *status.Registry) Option {
	return func(e *Engine) { e.status = reg }
}

// WithNotify mirrors every recorded event into q for UI and audio consumers
func WithNotify(q *event.Queue) Option {
	return func(e *Engine) { e.notify = q }
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine owns the target objects of one level session, matches gaze against them
// and records the session
// Update and RecordGaze may be called from different goroutines
type Engine struct {
	mu sync.Mutex

	level     core.Level
	cfg       Config
	clock     TimeProvider
	newTicker TickerFactory
	log       *zap.Logger
	notify    *event.Queue
	status    *status.Registry

	objects  []TargetObject
	patrol   patrolSquare
	matcher  Matcher
	recorder *Recorder
	tracker  *tracker

	gaze     *vmath.Vec2
	tracking bool
	frames   uint64

	started atomic.Bool
	running atomic.Bool
	task    *Task

	stat engineStats
}

type engineStats struct {
	frames   *atomic.Int64
	objects  *atomic.Int64
	events   *atomic.Int64
	samples  *atomic.Int64
	hits     *atomic.Int64
	accuracy *atomic.Int64
	tracking *atomic.Bool
}

// New creates an engine with the level's initial object set
func New(level core.Level, cfg Config, opts ...Option) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %.0fx%.0f", cfg.Width, cfg.Height)
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}

	e := &Engine{
		level:     level,
		cfg:       cfg,
		clock:     NewMonotonicTimeProvider(),
		newTicker: NewRealTicker,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("engine")

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(e.clock.Now().UnixNano())
	}
	objects, err := spawnLevel(level, cfg.Width, cfg.Height, vmath.NewFastRand(seed))
	if err != nil {
		return nil, err
	}
	e.objects = objects
	e.patrol = newPatrolSquare(cfg.Width, cfg.Height)
	e.recorder = NewRecorder(level)
	e.tracker = newTracker(level)

	if e.status != nil {
		e.stat = engineStats{
			frames:   e.status.Ints.Get(status.KeyFrames),
			objects:  e.status.Ints.Get(status.KeyObjects),
			events:   e.status.Ints.Get(status.KeyEvents),
			samples:  e.status.Ints.Get(status.KeySamples),
			hits:     e.status.Ints.Get(status.KeyHits),
			accuracy: e.status.Ints.Get(status.KeyAccuracy),
			tracking: e.status.Bools.Get(status.KeyTracking),
		}
		e.status.Strings.Get(status.KeyLevel).Store(string(level))
		e.stat.objects.Store(int64(len(objects)))
	}
	return e, nil
}

// Level returns the level being played
func (e *Engine) Level() core.Level {
	return e.level
}

// Start records the start time and launches the frame loop
// Returns false if the engine was already started
func (e *Engine) Start() bool {
	if !e.started.CompareAndSwap(false, true) {
		return false
	}
	e.mu.Lock()
	e.recorder.Begin(UnixMs(e.clock.Now()))
	e.running.Store(true)
	e.task = Every(e.newTicker(e.cfg.FrameInterval), func(time.Time) { e.Update() })
	e.mu.Unlock()

	e.log.Info("session started", zap.String("level", string(e.level)), zap.Int("objects", len(e.objects)))
	return true
}

// Stop records the end time once and halts the frame loop
// Returns false when not running; repeated calls are no-ops
func (e *Engine) Stop() bool {
	if !e.running.CompareAndSwap(true, false) {
		return false
	}

	e.mu.Lock()
	now := UnixMs(e.clock.Now())
	e.appendEvents(e.tracker.flush(now))
	e.recorder.Finalize(now)
	samples, events := e.recorder.Len()
	accuracy := e.matcher.TrackingAccuracy()
	task := e.task
	e.mu.Unlock()

	if task != nil {
		task.Stop()
	}
	e.log.Info("session stopped",
		zap.String("level", string(e.level)),
		zap.Int("samples", samples),
		zap.Int("events", events),
		zap.Int("accuracy", accuracy),
	)
	return true
}

// Running reports whether the frame loop is active
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Update advances the simulation one frame; no-op unless running
func (e *Engine) Update() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running.Load() {
		return
	}

	w, h := e.cfg.Width, e.cfg.Height
	turns := integrate(e.objects, e.patrol, w, h)

	now := UnixMs(e.clock.Now())
	var contacts []contact
	if e.level == core.Level2 {
		contacts = resolveCollisions(e.objects, w, h)
		for _, c := range contacts {
			e.appendEvents([]event.DomainEvent{event.New(now, event.CollisionPayload{
				Obj1: e.objects[c.i].ID,
				Obj2: e.objects[c.j].ID,
			})})
		}
	}
	e.appendEvents(e.tracker.frame(now, e.objects, turns, contacts))

	e.frames++
	if e.stat.frames != nil {
		e.stat.frames.Store(int64(e.frames))
	}
}

// RecordGaze classifies one gaze reading and appends it to the session
// ts is Unix ms; zero stamps the sample with the engine clock
// Returns false when the session is not running
func (e *Engine) RecordGaze(ts int64, x, y float64) (core.GazeSample, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running.Load() {
		return core.GazeSample{}, false
	}
	if ts == 0 {
		ts = UnixMs(e.clock.Now())
	}

	sample := e.matcher.Classify(e.objects, ts, x, y)
	if err := e.recorder.AppendSample(sample); err != nil {
		return core.GazeSample{}, false
	}
	e.gaze = &vmath.Vec2{X: x, Y: y}
	e.tracking = sample.OnTarget()
	e.appendEvents(e.tracker.observe(sample))

	if e.stat.samples != nil {
		score, total := e.matcher.Counts()
		e.stat.samples.Store(int64(total))
		e.stat.hits.Store(int64(score))
		e.stat.accuracy.Store(int64(e.matcher.TrackingAccuracy()))
		e.stat.tracking.Store(e.tracking)
	}
	return sample, true
}

// appendEvents records events and mirrors them to the notify queue, caller holds mu
func (e *Engine) appendEvents(events []event.DomainEvent) {
	for _, ev := range events {
		if err := e.recorder.AppendEvent(ev); err != nil {
			return
		}
		if e.notify != nil {
			e.notify.Push(ev)
		}
		if e.stat.events != nil {
			e.stat.events.Add(1)
		}
	}
}

// TrackingAccuracy returns the live accuracy over samples recorded so far
func (e *Engine) TrackingAccuracy() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matcher.TrackingAccuracy()
}

// Snapshot returns a deep copy of the renderable state
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	f := Frame{
		Level:     e.level,
		Width:     e.cfg.Width,
		Height:    e.cfg.Height,
		Objects:   make([]TargetObject, len(e.objects)),
		Tracking:  e.tracking,
		TrackedID: e.tracker.followed(),
		Accuracy:  e.matcher.TrackingAccuracy(),
		Frames:    e.frames,
		Running:   e.running.Load(),
	}
	copy(f.Objects, e.objects)
	if e.gaze != nil {
		g := *e.gaze
		f.Gaze = &g
	}
	return f
}

// SessionData returns a copy of the recorded session
// EndTime is set only after Stop
func (e *Engine) SessionData() core.SessionData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recorder.Data()
}
