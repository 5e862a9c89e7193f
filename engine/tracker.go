package engine

import (
	"math"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/vmath"
)

// Derived event thresholds
const (
	// MinFollowMs is the shortest on-target run reported as object_followed
	MinFollowMs = 500
	// FollowGraceMs is how long off-target samples may last before a run closes
	FollowGraceMs = 300

	nearMissFactor       = 1.5 // x (rA + rB)
	distractorZoneFactor = 3.0 // x target radius, plus distractor radius
)

type followRun struct {
	id      string
	start   int64
	lastHit int64
	seq     uint64
	open    bool
}

type pairState struct {
	inZone  bool
	touched bool
	engaged bool
	minDist float64
}

type distractorState struct {
	inZone bool
	target string
	seq    uint64
}

// tracker turns classified samples and physics outcomes into derived domain events
type tracker struct {
	level       core.Level
	run         followRun
	seq         uint64
	pairs       map[[2]int]*pairState
	distractors map[int]*distractorState
}

func newTracker(level core.Level) *tracker {
	return &tracker{
		level:       level,
		pairs:       make(map[[2]int]*pairState),
		distractors: make(map[int]*distractorState),
	}
}

// followed returns the object of the open follow run
func (t *tracker) followed() string {
	if !t.run.open {
		return ""
	}
	return t.run.id
}

// observe advances the follow run with one classified sample
func (t *tracker) observe(s core.GazeSample) []event.DomainEvent {
	ts := s.Timestamp
	if s.ObjectID == nil {
		if t.run.open && ts-t.run.lastHit > FollowGraceMs {
			return t.closeRun(ts)
		}
		return nil
	}

	id := *s.ObjectID
	if t.run.open && t.run.id == id {
		if ts > t.run.lastHit {
			t.run.lastHit = ts
		}
		return nil
	}

	var out []event.DomainEvent
	if t.run.open {
		out = t.closeRun(ts)
	}
	t.seq++
	t.run = followRun{id: id, start: ts, lastHit: ts, seq: t.seq, open: true}
	return out
}

func (t *tracker) closeRun(ts int64) []event.DomainEvent {
	r := t.run
	t.run.open = false
	if d := r.lastHit - r.start; d >= MinFollowMs {
		return []event.DomainEvent{event.New(ts, event.ObjectFollowedPayload{ObjectID: r.id, DurationMs: d})}
	}
	return nil
}

// frame evaluates per-frame derived events after physics has run
func (t *tracker) frame(now int64, objects []TargetObject, turns []cornerTurn, contacts []contact) []event.DomainEvent {
	switch t.level {
	case core.Level2:
		return t.nearMisses(now, objects, contacts)
	case core.Level3:
		out := t.patterns(now, objects, turns)
		return append(out, t.ignoredDistractors(now, objects)...)
	}
	return nil
}

func (t *tracker) nearMisses(now int64, objects []TargetObject, contacts []contact) []event.DomainEvent {
	touching := make(map[[2]int]bool, len(contacts))
	for _, c := range contacts {
		touching[[2]int{c.i, c.j}] = true
	}
	followed := t.followed()

	var out []event.DomainEvent
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			key := [2]int{i, j}
			st, ok := t.pairs[key]
			if !ok {
				st = &pairState{}
				t.pairs[key] = st
			}

			a, b := objects[i], objects[j]
			d := vmath.V2Dist(a.Pos, b.Pos)
			near := d < nearMissFactor*(a.Radius+b.Radius) || touching[key]

			if near {
				if !st.inZone {
					*st = pairState{inZone: true, minDist: math.Inf(1)}
				}
				st.minDist = math.Min(st.minDist, d)
				if touching[key] {
					st.touched = true
				}
				if followed != "" && (a.ID == followed || b.ID == followed) {
					st.engaged = true
				}
				continue
			}

			if st.inZone {
				if !st.touched && st.engaged {
					out = append(out, event.New(now, event.CollisionAvoidedPayload{
						Obj1:        a.ID,
						Obj2:        b.ID,
						MinDistance: vmath.RoundTo(st.minDist, 1),
					}))
				}
				st.inZone = false
			}
		}
	}
	return out
}

func (t *tracker) patterns(now int64, objects []TargetObject, turns []cornerTurn) []event.DomainEvent {
	followed := t.followed()
	if followed == "" {
		return nil
	}
	var out []event.DomainEvent
	for _, turn := range turns {
		if objects[turn.index].ID == followed {
			out = append(out, event.New(now, event.PatternIdentifiedPayload{ObjectID: followed, Corner: turn.corner}))
		}
	}
	return out
}

func (t *tracker) ignoredDistractors(now int64, objects []TargetObject) []event.DomainEvent {
	target := -1
	if followed := t.followed(); followed != "" {
		for i := range objects {
			if objects[i].ID == followed && objects[i].Pattern == PatternSquarePatrol {
				target = i
				break
			}
		}
	}

	var out []event.DomainEvent
	for i := range objects {
		if objects[i].Pattern != PatternRandomDrift {
			continue
		}
		st, ok := t.distractors[i]
		if !ok {
			st = &distractorState{}
			t.distractors[i] = st
		}
		if target < 0 {
			st.inZone = false
			continue
		}

		tgt := objects[target]
		zone := distractorZoneFactor*tgt.Radius + objects[i].Radius
		if vmath.V2Dist(objects[i].Pos, tgt.Pos) < zone {
			if !st.inZone || st.target != tgt.ID || st.seq != t.run.seq {
				*st = distractorState{inZone: true, target: tgt.ID, seq: t.run.seq}
			}
			continue
		}

		if st.inZone {
			if st.target == tgt.ID && st.seq == t.run.seq {
				out = append(out, event.New(now, event.DistractorIgnoredPayload{
					DistractorID: objects[i].ID,
					TargetID:     tgt.ID,
				}))
			}
			st.inZone = false
		}
	}
	return out
}

// flush closes the open run at session end
func (t *tracker) flush(now int64) []event.DomainEvent {
	if !t.run.open {
		return nil
	}
	return t.closeRun(now)
}
