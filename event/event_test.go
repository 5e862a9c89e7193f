package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainEventJSONShape(t *testing.T) {
	e := New(1700000000000, CollisionPayload{Obj1: "obj1", Obj2: "obj3"})

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"collision","timestamp":1700000000000,"data":{"obj1":"obj1","obj2":"obj3"}}`, string(b))
}

func TestDomainEventDecodesTypedPayload(t *testing.T) {
	raw := `[
		{"type":"object_followed","timestamp":10,"data":{"objectId":"obj1","durationMs":2400}},
		{"type":"pattern_identified","timestamp":11,"data":{"objectId":"blue1","corner":"top-right"}},
		{"type":"collision_avoided","timestamp":12,"data":{"obj1":"obj1","obj2":"obj2","minDistance":88.5}},
		{"type":"distractor_ignored","timestamp":13,"data":{"distractorId":"distractor2","targetId":"blue1"}}
	]`

	var events []DomainEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &events))
	require.Len(t, events, 4)

	followed, ok := events[0].Data.(ObjectFollowedPayload)
	require.True(t, ok)
	assert.Equal(t, int64(2400), followed.DurationMs)

	pattern, ok := events[1].Data.(PatternIdentifiedPayload)
	require.True(t, ok)
	assert.Equal(t, CornerTopRight, pattern.Corner)

	avoided, ok := events[2].Data.(CollisionAvoidedPayload)
	require.True(t, ok)
	assert.Equal(t, 88.5, avoided.MinDistance)

	assert.Equal(t, DistractorIgnored, events[3].Type)
}

func TestDomainEventUnknownTypeRejected(t *testing.T) {
	var e DomainEvent
	err := json.Unmarshal([]byte(`{"type":"teleport","timestamp":1,"data":{}}`), &e)
	assert.Error(t, err)
}

func TestDomainEventMismatchRejected(t *testing.T) {
	e := DomainEvent{Type: Collision, Data: ObjectFollowedPayload{ObjectID: "obj1"}}
	_, err := json.Marshal(e)
	assert.ErrorIs(t, err, ErrPayloadMismatch)
}

func TestDomainEventMissingDataDecodesZeroPayload(t *testing.T) {
	var e DomainEvent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"collision","timestamp":3}`), &e))
	assert.Equal(t, CollisionPayload{}, e.Data)
}

func TestQueueFIFOAndOverflow(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Consume())

	for i := 0; i < 3; i++ {
		q.Push(New(int64(i), CollisionPayload{}))
	}
	assert.Equal(t, 3, q.Len())
	got := q.Consume()
	require.Len(t, got, 3)
	assert.Equal(t, int64(0), got[0].Timestamp)
	assert.Equal(t, int64(2), got[2].Timestamp)

	for i := 0; i < QueueSize+10; i++ {
		q.Push(New(int64(i), CollisionPayload{}))
	}
	got = q.Consume()
	require.Len(t, got, QueueSize)
	assert.Equal(t, int64(10), got[0].Timestamp, "oldest events overwritten")
}
