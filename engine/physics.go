package engine

import (
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/vmath"
)

// cornerTurn records a patrol object changing direction this frame
type cornerTurn struct {
	index  int
	corner event.Corner
}

// contact records a level-2 pair touching this frame
type contact struct {
	i, j int
}

// turn snaps velocity to the next clockwise edge once the current edge is crossed
// Right edge -> down, bottom -> left, left -> up, top -> right
func (p patrolSquare) turn(o *TargetObject) (event.Corner, bool) {
	switch {
	case o.Vel.X > 0 && o.Pos.X > p.center.X+p.half:
		o.Vel = vmath.Vec2{X: 0, Y: p.speed}
		return event.CornerTopRight, true
	case o.Vel.Y > 0 && o.Pos.Y > p.center.Y+p.half:
		o.Vel = vmath.Vec2{X: -p.speed, Y: 0}
		return event.CornerBottomRight, true
	case o.Vel.X < 0 && o.Pos.X < p.center.X-p.half:
		o.Vel = vmath.Vec2{X: 0, Y: -p.speed}
		return event.CornerBottomLeft, true
	case o.Vel.Y < 0 && o.Pos.Y < p.center.Y-p.half:
		o.Vel = vmath.Vec2{X: p.speed, Y: 0}
		return event.CornerTopLeft, true
	}
	return "", false
}

// bounce clamps o into the canvas, reflecting the velocity component that points outward
func bounce(o *TargetObject, w, h float64) {
	vmath.ReflectAxis(&o.Pos.X, &o.Vel.X, o.Radius, w-o.Radius)
	vmath.ReflectAxis(&o.Pos.Y, &o.Vel.Y, o.Radius, h-o.Radius)
}

// integrate advances every object one frame: move, patrol turn, wall bounce
func integrate(objects []TargetObject, patrol patrolSquare, w, h float64) []cornerTurn {
	var turns []cornerTurn
	for i := range objects {
		o := &objects[i]
		o.Pos = vmath.V2Add(o.Pos, o.Vel)

		if o.Pattern == PatternSquarePatrol {
			if corner, ok := patrol.turn(o); ok {
				turns = append(turns, cornerTurn{index: i, corner: corner})
			}
		}

		bounce(o, w, h)
	}
	return turns
}

// resolveCollisions applies the elastic response to every touching pair
// Pairs are separated along the normal afterwards so one contact is reported once
func resolveCollisions(objects []TargetObject, w, h float64) []contact {
	var contacts []contact
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			a, b := &objects[i], &objects[j]
			if vmath.V2Dist(a.Pos, b.Pos) >= a.Radius+b.Radius {
				continue
			}
			contacts = append(contacts, contact{i: i, j: j})

			a.Vel, b.Vel = vmath.ElasticCollision2D(a.Pos, b.Pos, a.Vel, b.Vel)
			a.Pos, b.Pos, _ = vmath.SeparateOverlap2D(a.Pos, b.Pos, a.Radius, b.Radius)

			clampInside(a, w, h)
			clampInside(b, w, h)
		}
	}
	return contacts
}

// clampInside keeps the disc on the canvas without touching velocity
func clampInside(o *TargetObject, w, h float64) {
	o.Pos.X = vmath.Clamp(o.Pos.X, o.Radius, w-o.Radius)
	o.Pos.Y = vmath.Clamp(o.Pos.Y, o.Radius, h-o.Radius)
}
