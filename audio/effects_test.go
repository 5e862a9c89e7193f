package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/focusflow/event"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			peak = max(peak, buf[i][0], -buf[i][0])
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestOscillatorStaysInRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw} {
		osc := newOscillator(440, 50*time.Millisecond, wave, rate)
		n, peak := drain(osc)
		assert.Equal(t, rate.N(50*time.Millisecond), n, "wave %d", wave)
		assert.LessOrEqual(t, peak, 1.0)
		assert.NoError(t, osc.Err())
	}
}

func TestEnvelopeStartsAndEndsSilent(t *testing.T) {
	rate := beep.SampleRate(8000)
	d := 100 * time.Millisecond
	env := newEnvelope(newOscillator(100, d, WaveSquare, rate), d, 20*time.Millisecond, 20*time.Millisecond, rate)

	buf := make([][2]float64, rate.N(d))
	n, _ := env.Stream(buf)
	require.Equal(t, len(buf), n)
	assert.Equal(t, 0.0, buf[0][0])
	assert.InDelta(t, 0.0, buf[n-1][0], 0.01)
	assert.InDelta(t, 1.0, buf[n/2][0]*buf[n/2][0], 1e-9, "sustain at full level")
}

func TestZeroVolumeIsSilent(t *testing.T) {
	rate := beep.SampleRate(8000)
	_, peak := drain(newVolume(newOscillator(440, 20*time.Millisecond, WaveSquare, rate), 0))
	assert.Equal(t, 0.0, peak)
}

func TestCueStreamerLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	for c := CueCountdown; c <= CueSessionEnd; c++ {
		require.NotZero(t, c.Duration(), c.String())
		n, peak := drain(c.Streamer(rate, 1))
		assert.InDelta(t, rate.N(c.Duration()), n, float64(len(cueNotes[c])), c.String())
		assert.Greater(t, peak, 0.0, c.String())
	}
	assert.Equal(t, "unknown", Cue(99).String())
}

func TestCueFor(t *testing.T) {
	c, ok := CueFor(event.Collision)
	require.True(t, ok)
	assert.Equal(t, CueCollision, c)

	c, ok = CueFor(event.ObjectFollowed)
	require.True(t, ok)
	assert.Equal(t, CueFollow, c)

	_, ok = CueFor(event.Type("bogus"))
	assert.False(t, ok)
}
