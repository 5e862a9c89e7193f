package audio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/focusflow/event"
)

const (
	sampleRate = beep.SampleRate(48000)
	bufferSize = 100 * time.Millisecond
)

// Output is the device a Player mixes into
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	// Do runs fn while the output is not pulling samples
	Do(fn func())
	Close()
}

// speakerOutput drives the system speaker
type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, n int) error { return speaker.Init(rate, n) }
func (speakerOutput) Play(s beep.Streamer)                   { speaker.Play(s) }
func (speakerOutput) Close()                                 { speaker.Clear() }

func (speakerOutput) Do(fn func()) {
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}

// Player mixes session cues into one output stream
// A failed Initialize leaves the player silent, never fatal
type Player struct {
	mu          sync.Mutex
	out         Output
	mixer       *beep.Mixer
	initialized bool
	muted       atomic.Bool
	volume      float64
	logger      *zap.Logger
}

// Option configures a Player
type Option func(*Player)

// WithOutput replaces the system speaker
func WithOutput(o Output) Option {
	return func(p *Player) { p.out = o }
}

// WithVolume sets master volume in [0, 1]
func WithVolume(v float64) Option {
	return func(p *Player) { p.volume = min(max(v, 0), 1) }
}

// WithMuted starts the player muted
func WithMuted(m bool) Option {
	return func(p *Player) { p.muted.Store(m) }
}

func NewPlayer(logger *zap.Logger, opts ...Option) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Player{
		out:    speakerOutput{},
		mixer:  &beep.Mixer{},
		volume: 1,
		logger: logger.Named("Audio"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize opens the output and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := p.out.Init(sampleRate, sampleRate.N(bufferSize)); err != nil {
		return err
	}
	p.out.Play(p.mixer)
	p.initialized = true
	return nil
}

// Ready reports whether cues reach an output
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

func (p *Player) SetMuted(m bool) { p.muted.Store(m) }

func (p *Player) Muted() bool { return p.muted.Load() }

// Play queues a cue, false when muted or without an output
func (p *Player) Play(c Cue) bool {
	if p.muted.Load() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return false
	}
	s := c.Streamer(sampleRate, p.volume)
	p.out.Do(func() { p.mixer.Add(s) })
	return true
}

// HandleEvents plays at most one cue per kind for a batch of events
func (p *Player) HandleEvents(events []event.DomainEvent) int {
	seen := make(map[Cue]bool, len(events))
	played := 0
	for _, e := range events {
		c, ok := CueFor(e.Type)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		if p.Play(c) {
			played++
		}
	}
	return played
}

// Drain consumes q, plays the batch and hands it back to the caller
// The caller must be the queue's only consumer
func (p *Player) Drain(q *event.Queue) []event.DomainEvent {
	events := q.Consume()
	if len(events) > 0 {
		p.HandleEvents(events)
	}
	return events
}

// Cleanup stops all sounds and closes the output
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.out.Do(func() { p.mixer.Clear() })
	p.out.Close()
	p.initialized = false
}

func (p *Player) Name() string           { return "audio" }
func (p *Player) Dependencies() []string { return nil }

// Init tries the output; a missing device only disables cues
func (p *Player) Init(context.Context) error {
	if err := p.Initialize(); err != nil {
		p.logger.Warn("Audio unavailable, cues disabled", zap.Error(err))
	}
	return nil
}

func (p *Player) Start(context.Context) error { return nil }

func (p *Player) Stop(context.Context) error {
	p.Cleanup()
	return nil
}
