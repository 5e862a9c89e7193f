package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/vmath"
)

func hit(ts int64, id string) core.GazeSample {
	return core.GazeSample{Timestamp: ts, ObjectID: &id}
}

func miss(ts int64) core.GazeSample {
	return core.GazeSample{Timestamp: ts}
}

func TestFollowRunEmitsAfterMinimumDuration(t *testing.T) {
	tr := newTracker(core.Level1)
	for ts := int64(0); ts <= 600; ts += 50 {
		assert.Empty(t, tr.observe(hit(ts, "obj1")))
	}
	assert.Equal(t, "obj1", tr.followed())

	// Short gaps inside the grace window keep the run alive
	assert.Empty(t, tr.observe(miss(800)))
	assert.Empty(t, tr.observe(hit(850, "obj1")))

	out := tr.observe(miss(850 + FollowGraceMs + 1))
	require.Len(t, out, 1)
	assert.Equal(t, event.ObjectFollowedPayload{ObjectID: "obj1", DurationMs: 850}, out[0].Data)
	assert.Equal(t, "", tr.followed())
}

func TestShortRunNotReported(t *testing.T) {
	tr := newTracker(core.Level1)
	tr.observe(hit(0, "obj1"))
	tr.observe(hit(400, "obj1"))
	assert.Empty(t, tr.observe(miss(1000)))
}

func TestSwitchingObjectsClosesRun(t *testing.T) {
	tr := newTracker(core.Level2)
	tr.observe(hit(0, "obj1"))
	tr.observe(hit(700, "obj1"))
	out := tr.observe(hit(720, "obj2"))
	require.Len(t, out, 1)
	assert.Equal(t, "obj1", out[0].Data.(event.ObjectFollowedPayload).ObjectID)
	assert.Equal(t, "obj2", tr.followed())
}

func TestFlushClosesOpenRun(t *testing.T) {
	tr := newTracker(core.Level1)
	tr.observe(hit(0, "obj1"))
	tr.observe(hit(2500, "obj1"))
	out := tr.flush(3000)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3000), out[0].Timestamp)
	assert.Empty(t, tr.flush(4000))
}

func TestNearMissReportedWhenFollowedPairSeparates(t *testing.T) {
	tr := newTracker(core.Level2)
	tr.observe(hit(0, "obj1"))

	objects := []TargetObject{
		{ID: "obj1", Pos: vmath.Vec2{X: 100, Y: 100}, Radius: 40},
		{ID: "obj2", Pos: vmath.Vec2{X: 200, Y: 100}, Radius: 40}, // 100 < 120 near zone
	}
	assert.Empty(t, tr.frame(1, objects, nil, nil))

	objects[1].Pos.X = 190
	assert.Empty(t, tr.frame(2, objects, nil, nil))

	objects[1].Pos.X = 300
	out := tr.frame(3, objects, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.CollisionAvoidedPayload{Obj1: "obj1", Obj2: "obj2", MinDistance: 90}, out[0].Data)
}

func TestNearMissSuppressedByContactOrNoFollow(t *testing.T) {
	objects := []TargetObject{
		{ID: "obj1", Pos: vmath.Vec2{X: 100, Y: 100}, Radius: 40},
		{ID: "obj2", Pos: vmath.Vec2{X: 150, Y: 100}, Radius: 40},
	}

	touched := newTracker(core.Level2)
	touched.observe(hit(0, "obj1"))
	touched.frame(1, objects, nil, []contact{{i: 0, j: 1}})
	objects[1].Pos.X = 400
	assert.Empty(t, touched.frame(2, objects, nil, nil))

	objects[1].Pos.X = 150
	unfollowed := newTracker(core.Level2)
	unfollowed.frame(1, objects, nil, nil)
	objects[1].Pos.X = 400
	assert.Empty(t, unfollowed.frame(2, objects, nil, nil))
}

func TestPatternIdentifiedOnlyForFollowedPatrol(t *testing.T) {
	tr := newTracker(core.Level3)
	objects := []TargetObject{
		{ID: "blue1", Pattern: PatternSquarePatrol, Radius: 35},
		{ID: "blue2", Pattern: PatternSquarePatrol, Radius: 35},
	}
	turns := []cornerTurn{{index: 0, corner: event.CornerTopRight}, {index: 1, corner: event.CornerBottomLeft}}

	assert.Empty(t, tr.frame(1, objects, turns, nil), "nothing followed")

	tr.observe(hit(0, "blue2"))
	out := tr.frame(2, objects, turns, nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.PatternIdentifiedPayload{ObjectID: "blue2", Corner: event.CornerBottomLeft}, out[0].Data)
}

func TestDistractorIgnored(t *testing.T) {
	tr := newTracker(core.Level3)
	tr.observe(hit(0, "blue1"))

	objects := []TargetObject{
		{ID: "blue1", Pattern: PatternSquarePatrol, Pos: vmath.Vec2{X: 500, Y: 300}, Radius: 35},
		{ID: "distractor1", Pattern: PatternRandomDrift, Pos: vmath.Vec2{X: 600, Y: 300}, Radius: 30}, // zone 135
	}
	assert.Empty(t, tr.frame(1, objects, nil, nil))

	objects[1].Pos.X = 700
	out := tr.frame(2, objects, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.DistractorIgnoredPayload{DistractorID: "distractor1", TargetID: "blue1"}, out[0].Data)
}

func TestDistractorNotIgnoredWhenRunBreaks(t *testing.T) {
	tr := newTracker(core.Level3)
	tr.observe(hit(0, "blue1"))

	objects := []TargetObject{
		{ID: "blue1", Pattern: PatternSquarePatrol, Pos: vmath.Vec2{X: 500, Y: 300}, Radius: 35},
		{ID: "distractor1", Pattern: PatternRandomDrift, Pos: vmath.Vec2{X: 600, Y: 300}, Radius: 30},
	}
	tr.frame(1, objects, nil, nil)

	// Player looked at the distractor, then back: a new run started
	tr.observe(hit(100, "distractor1"))
	tr.observe(hit(200, "blue1"))

	objects[1].Pos.X = 700
	assert.Empty(t, tr.frame(2, objects, nil, nil))
}
