package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/focusflow/event"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	totalSamples int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rate.N(release),
		totalSamples: rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.release

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= releaseStart && e.release > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; math.Log2(0) is -Inf so zero is mapped to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Cue is a short sound played on a session occurrence
type Cue int

const (
	CueCountdown Cue = iota
	CueStart
	CueFollow
	CueAvoided
	CueCollision
	CuePattern
	CueDistractor
	CueSessionEnd
)

var cueNames = [...]string{"countdown", "start", "follow", "avoided", "collision", "pattern", "distractor", "session-end"}

func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[c]
}

// note is one segment of a cue
type note struct {
	freq float64
	dur  time.Duration
	wave WaveType
	vol  float64
}

// rest is a silent gap between notes
func rest(d time.Duration) note { return note{dur: d} }

var cueNotes = map[Cue][]note{
	CueCountdown:  {{freq: 660, dur: 90 * time.Millisecond, wave: WaveSine, vol: 0.35}},
	CueStart:      {{freq: 880, dur: 220 * time.Millisecond, wave: WaveSine, vol: 0.4}},
	CueFollow:     {{freq: 988, dur: 70 * time.Millisecond, wave: WaveSine, vol: 0.3}, {freq: 1319, dur: 110 * time.Millisecond, wave: WaveSine, vol: 0.3}},
	CueAvoided:    {{freq: 784, dur: 90 * time.Millisecond, wave: WaveSine, vol: 0.3}},
	CueCollision:  {{freq: 110, dur: 160 * time.Millisecond, wave: WaveSaw, vol: 0.25}},
	CuePattern:    {{freq: 1047, dur: 60 * time.Millisecond, wave: WaveSine, vol: 0.3}, rest(30 * time.Millisecond), {freq: 1047, dur: 60 * time.Millisecond, wave: WaveSine, vol: 0.3}},
	CueDistractor: {{freq: 523, dur: 80 * time.Millisecond, wave: WaveSquare, vol: 0.12}},
	CueSessionEnd: {{freq: 523, dur: 150 * time.Millisecond, wave: WaveSine, vol: 0.35}, {freq: 659, dur: 150 * time.Millisecond, wave: WaveSine, vol: 0.35}, {freq: 784, dur: 300 * time.Millisecond, wave: WaveSine, vol: 0.35}},
}

// Duration is the total length of the cue
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, n := range cueNotes[c] {
		d += n.dur
	}
	return d
}

// Streamer renders the cue at rate, scaled by volume in [0, 1]
func (c Cue) Streamer(rate beep.SampleRate, volume float64) beep.Streamer {
	notes := cueNotes[c]
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		if n.freq == 0 {
			parts = append(parts, beep.Silence(rate.N(n.dur)))
			continue
		}
		edge := n.dur / 8
		osc := newOscillator(n.freq, n.dur, n.wave, rate)
		parts = append(parts, newVolume(newEnvelope(osc, n.dur, edge, edge, rate), n.vol*volume))
	}
	return beep.Seq(parts...)
}

// CueFor maps a recorded event to its cue
func CueFor(t event.Type) (Cue, bool) {
	switch t {
	case event.ObjectFollowed:
		return CueFollow, true
	case event.CollisionAvoided:
		return CueAvoided, true
	case event.Collision:
		return CueCollision, true
	case event.PatternIdentified:
		return CuePattern, true
	case event.DistractorIgnored:
		return CueDistractor, true
	}
	return 0, false
}
