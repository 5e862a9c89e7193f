package analyzer

import (
	"math"
	"time"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/vmath"
)

// SessionMetrics is the server-side summary a report is written from
type SessionMetrics struct {
	Level                 core.Level `json:"level"`
	Duration              int        `json:"duration"`              // seconds
	TrackingAccuracy      float64    `json:"trackingAccuracy"`      // one decimal
	TimeOnTarget          float64    `json:"timeOnTarget"`          // seconds, one decimal
	AvgDistanceFromTarget int        `json:"avgDistanceFromTarget"` // px over matched samples
	FocusScore            int        `json:"focusScore"`
	TotalDataPoints       int        `json:"totalDataPoints"`
	TrackedDataPoints     int        `json:"trackedDataPoints"`
	CalculatedAt          int64      `json:"calculatedAt"` // Unix ms
}

// ComputeSessionMetrics derives duration, accuracy, closeness and focus score from raw samples
// focusScore = round(0.7 x accuracy + 0.3 x max(0, 100 - avgDistance/10))
func ComputeSessionMetrics(s core.SessionData, now time.Time) SessionMetrics {
	seconds := float64(s.DurationMs()) / 1000
	total := len(s.GazeData)

	tracked := 0
	var distSum float64
	for _, g := range s.GazeData {
		if !g.OnTarget() {
			continue
		}
		tracked++
		distSum += vmath.V2Dist(vmath.Vec2{X: g.GazeX, Y: g.GazeY}, vmath.Vec2{X: g.ObjectX, Y: g.ObjectY})
	}

	var accuracy, onTarget, avgDist float64
	if total > 0 {
		accuracy = float64(tracked) / float64(total) * 100
		onTarget = float64(tracked) / float64(total) * seconds
	}
	if tracked > 0 {
		avgDist = distSum / float64(tracked)
	}
	focus := vmath.RoundHalfUp(accuracy*0.7 + math.Max(0, 100-avgDist/10)*0.3)

	return SessionMetrics{
		Level:                 s.Level,
		Duration:              int(vmath.RoundHalfUp(seconds)),
		TrackingAccuracy:      vmath.RoundTo(accuracy, 1),
		TimeOnTarget:          vmath.RoundTo(onTarget, 1),
		AvgDistanceFromTarget: int(vmath.RoundHalfUp(avgDist)),
		FocusScore:            int(focus),
		TotalDataPoints:       total,
		TrackedDataPoints:     tracked,
		CalculatedAt:          now.UnixMilli(),
	}
}
