package core

import (
	"math"

	"github.com/lixenwraith/focusflow/event"
)

// GazeSample is one classified gaze reading
// ObjectX/ObjectY hold the matched target position, zero when unmatched
type GazeSample struct {
	Timestamp int64   `json:"timestamp"` // Unix ms
	GazeX     float64 `json:"gazeX"`
	GazeY     float64 `json:"gazeY"`
	ObjectID  *string `json:"objectId"`
	ObjectX   float64 `json:"objectX"`
	ObjectY   float64 `json:"objectY"`
}

// OnTarget reports whether the sample was matched to an object
func (g GazeSample) OnTarget() bool {
	return g.ObjectID != nil
}

// SessionData is the recorded aggregate of one session
// StartTime and EndTime are Unix ms; EndTime is zero until finalized
type SessionData struct {
	Level     Level               `json:"level"`
	StartTime int64               `json:"startTime"`
	EndTime   int64               `json:"endTime"`
	GazeData  []GazeSample        `json:"gazeData"`
	Events    []event.DomainEvent `json:"events"`
}

// Finalized reports whether EndTime has been recorded
func (s *SessionData) Finalized() bool {
	return s.EndTime != 0
}

// DurationMs returns elapsed milliseconds, zero before finalization
func (s *SessionData) DurationMs() int64 {
	if s.EndTime == 0 || s.EndTime < s.StartTime {
		return 0
	}
	return s.EndTime - s.StartTime
}

// DurationSeconds returns the session length rounded to whole seconds
func (s *SessionData) DurationSeconds() int {
	return int(math.Floor(float64(s.DurationMs())/1000 + 0.5))
}

// TrackedSamples counts matched samples
func (s *SessionData) TrackedSamples() int {
	n := 0
	for i := range s.GazeData {
		if s.GazeData[i].OnTarget() {
			n++
		}
	}
	return n
}

// TrackingAccuracy recomputes round(100 * matched / total) from the recorded samples
func (s *SessionData) TrackingAccuracy() int {
	return Accuracy(s.TrackedSamples(), len(s.GazeData))
}

// EventsOf returns events of the given type in recorded order
func (s *SessionData) EventsOf(t event.Type) []event.DomainEvent {
	var out []event.DomainEvent
	for _, e := range s.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy
func (s *SessionData) Clone() SessionData {
	out := SessionData{
		Level:     s.Level,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		GazeData:  make([]GazeSample, len(s.GazeData)),
		Events:    make([]event.DomainEvent, len(s.Events)),
	}
	for i, g := range s.GazeData {
		if g.ObjectID != nil {
			id := *g.ObjectID
			g.ObjectID = &id
		}
		out.GazeData[i] = g
	}
	copy(out.Events, s.Events)
	return out
}

// Accuracy returns round(100 * hits / total) as an integer in [0, 100], 0 when total is 0
func Accuracy(hits, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(100*float64(hits)/float64(total) + 0.5))
}
