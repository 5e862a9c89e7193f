package event

// Type is the tag of a DomainEvent; values are the wire names
type Type string

const (
	// Collision records two level-2 objects touching
	// Trigger: Engine pairwise check | Payload: CollisionPayload
	Collision Type = "collision"

	// CollisionAvoided records a near miss between two level-2 objects while one was followed
	// Trigger: Engine near-miss tracker | Payload: CollisionAvoidedPayload
	CollisionAvoided Type = "collision_avoided"

	// ObjectFollowed records a completed on-target run of at least the minimum follow time
	// Trigger: Engine follow tracker on run close | Payload: ObjectFollowedPayload
	ObjectFollowed Type = "object_followed"

	// PatternIdentified records a patrol corner turn while the patrol object was followed
	// Trigger: Engine patrol step (level 3) | Payload: PatternIdentifiedPayload
	PatternIdentified Type = "pattern_identified"

	// DistractorIgnored records a distractor passing the followed patrol object without breaking the run
	// Trigger: Engine distractor tracker (level 3) | Payload: DistractorIgnoredPayload
	DistractorIgnored Type = "distractor_ignored"
)

func (t Type) String() string {
	return string(t)
}
