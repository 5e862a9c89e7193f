package engine

import (
	"math"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/vmath"
)

// MatchRadiusFactor scales the nearest object's radius into the on-target threshold
// Generous on purpose: gaze estimates are noisy
const MatchRadiusFactor = 3.0

// Nearest returns the index of the object closest to p and its distance, -1 for an empty set
func Nearest(objects []TargetObject, p vmath.Vec2) (int, float64) {
	best, minDist := -1, math.Inf(1)
	for i := range objects {
		d := vmath.V2Dist(objects[i].Pos, p)
		if d < minDist {
			best, minDist = i, d
		}
	}
	return best, minDist
}

// Matcher classifies gaze samples and keeps the running tracking counters
// Not safe for concurrent use; Engine serializes access
type Matcher struct {
	totalFrames   int
	trackingScore int
}

// Classify annotates one gaze reading against the current objects and updates counters
func (m *Matcher) Classify(objects []TargetObject, ts int64, x, y float64) core.GazeSample {
	sample := core.GazeSample{Timestamp: ts, GazeX: x, GazeY: y}

	idx, dist := Nearest(objects, vmath.Vec2{X: x, Y: y})
	onTarget := idx >= 0 && dist < MatchRadiusFactor*objects[idx].Radius

	m.totalFrames++
	if onTarget {
		m.trackingScore++
		id := objects[idx].ID
		sample.ObjectID = &id
		sample.ObjectX = objects[idx].Pos.X
		sample.ObjectY = objects[idx].Pos.Y
	}
	return sample
}

// TrackingAccuracy returns round(100 * score / frames), 0 before any sample
func (m *Matcher) TrackingAccuracy() int {
	return core.Accuracy(m.trackingScore, m.totalFrames)
}

// Counts returns on-target and total sample counts
func (m *Matcher) Counts() (score, total int) {
	return m.trackingScore, m.totalFrames
}
