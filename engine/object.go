package engine

import (
	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/vmath"
)

// Pattern selects the movement mode of a target object
type Pattern string

const (
	PatternNone         Pattern = ""
	PatternSquarePatrol Pattern = "square-patrol"
	PatternRandomDrift  Pattern = "random-drift"
)

// TargetObject is one moving disc on the canvas
type TargetObject struct {
	ID      string
	Pos     vmath.Vec2
	Vel     vmath.Vec2
	Radius  float64
	Color   string // #RRGGBB
	Pattern Pattern
}

// Frame is an immutable copy of the simulation for renderers
type Frame struct {
	Level     core.Level
	Width     float64
	Height    float64
	Objects   []TargetObject
	Gaze      *vmath.Vec2 // last gaze point, nil before the first sample
	Tracking  bool        // last sample was on target
	TrackedID string      // object of the open follow run
	Accuracy  int         // live tracking accuracy
	Frames    uint64
	Running   bool
}
