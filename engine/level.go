package engine

import (
	"fmt"
	"math"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/vmath"
)

// Level layout constants
const (
	leaderRadius = 60
	leaderColor  = "#FF6B6B"

	crowdRadius   = 40
	crowdVelRange = 2.0

	patrolCount   = 2
	patrolRadius  = 35
	patrolSpeed   = 3.0
	patrolColor   = "#4A90E2"
	patrolHalfMax = 200.0

	distractorCount    = 4
	distractorRadius   = 30
	distractorVelRange = 2.5
	distractorColor    = "#95A5A6"
)

var crowdColors = []string{"#FF6B6B", "#4ECDC4", "#FFE66D"}

// spawnLevel builds the initial object set for level
func spawnLevel(level core.Level, w, h float64, rng *vmath.FastRand) ([]TargetObject, error) {
	switch level {
	case core.Level1:
		return []TargetObject{{
			ID:     "obj1",
			Pos:    vmath.Vec2{X: w / 2, Y: h / 2},
			Vel:    vmath.Vec2{X: 2, Y: 1.5},
			Radius: leaderRadius,
			Color:  leaderColor,
		}}, nil

	case core.Level2:
		objects := make([]TargetObject, 0, len(crowdColors))
		for i, color := range crowdColors {
			objects = append(objects, TargetObject{
				ID:     fmt.Sprintf("obj%d", i+1),
				Pos:    randomPoint(w, h, crowdRadius, rng),
				Vel:    vmath.Vec2{X: rng.Range(-crowdVelRange, crowdVelRange), Y: rng.Range(-crowdVelRange, crowdVelRange)},
				Radius: crowdRadius,
				Color:  color,
			})
		}
		return objects, nil

	case core.Level3:
		objects := make([]TargetObject, 0, patrolCount+distractorCount)
		for i := 0; i < patrolCount; i++ {
			objects = append(objects, TargetObject{
				ID: fmt.Sprintf("blue%d", i+1),
				Pos: vmath.Vec2{
					X: vmath.Clamp(100+float64(i)*200, patrolRadius, w-patrolRadius),
					Y: vmath.Clamp(100, patrolRadius, h-patrolRadius),
				},
				Vel:     vmath.Vec2{X: patrolSpeed, Y: 0},
				Radius:  patrolRadius,
				Color:   patrolColor,
				Pattern: PatternSquarePatrol,
			})
		}
		for i := 0; i < distractorCount; i++ {
			objects = append(objects, TargetObject{
				ID:      fmt.Sprintf("distractor%d", i+1),
				Pos:     randomPoint(w, h, distractorRadius, rng),
				Vel:     vmath.Vec2{X: rng.Range(-distractorVelRange, distractorVelRange), Y: rng.Range(-distractorVelRange, distractorVelRange)},
				Radius:  distractorRadius,
				Color:   distractorColor,
				Pattern: PatternRandomDrift,
			})
		}
		return objects, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownLevel, level)
}

// randomPoint returns a uniformly placed center that keeps the disc inside the canvas
func randomPoint(w, h, r float64, rng *vmath.FastRand) vmath.Vec2 {
	return vmath.Vec2{
		X: vmath.Clamp(rng.Range(r, w-r), r, w-r),
		Y: vmath.Clamp(rng.Range(r, h-r), r, h-r),
	}
}

// patrolSquare is the clockwise path of level-3 patrol objects
type patrolSquare struct {
	center vmath.Vec2
	half   float64
	speed  float64
}

// newPatrolSquare centers the square on the canvas, shrinking it to fit small canvases
func newPatrolSquare(w, h float64) patrolSquare {
	half := math.Min(patrolHalfMax, math.Min(w/2, h/2)-patrolRadius-patrolSpeed)
	if half < 0 {
		half = 0
	}
	return patrolSquare{
		center: vmath.Vec2{X: w / 2, Y: h / 2},
		half:   half,
		speed:  patrolSpeed,
	}
}
