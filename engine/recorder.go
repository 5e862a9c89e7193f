package engine

import (
	"errors"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
)

// ErrFinalized is returned when appending to a finalized session
var ErrFinalized = errors.New("session already finalized")

// Recorder accumulates samples and events of one session in arrival order
// No dedup, reorder or filtering; not safe for concurrent use
type Recorder struct {
	data      core.SessionData
	finalized bool
}

// NewRecorder creates an empty recorder for level
func NewRecorder(level core.Level) *Recorder {
	return &Recorder{data: core.SessionData{Level: level}}
}

// Begin sets StartTime once; later calls are ignored
func (r *Recorder) Begin(startMs int64) {
	if r.data.StartTime == 0 {
		r.data.StartTime = startMs
	}
}

func (r *Recorder) AppendSample(s core.GazeSample) error {
	if r.finalized {
		return ErrFinalized
	}
	r.data.GazeData = append(r.data.GazeData, s)
	return nil
}

func (r *Recorder) AppendEvent(e event.DomainEvent) error {
	if r.finalized {
		return ErrFinalized
	}
	r.data.Events = append(r.data.Events, e)
	return nil
}

// Finalize sets EndTime once, returns false if already finalized
// EndTime never precedes StartTime
func (r *Recorder) Finalize(endMs int64) bool {
	if r.finalized {
		return false
	}
	if endMs < r.data.StartTime {
		endMs = r.data.StartTime
	}
	r.data.EndTime = endMs
	r.finalized = true
	return true
}

// Finalized reports whether Finalize has run
func (r *Recorder) Finalized() bool {
	return r.finalized
}

// Len returns recorded sample and event counts
func (r *Recorder) Len() (samples, events int) {
	return len(r.data.GazeData), len(r.data.Events)
}

// Data returns a deep copy of the recorded session
func (r *Recorder) Data() core.SessionData {
	return r.data.Clone()
}
