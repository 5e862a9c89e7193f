package event

// Payload is implemented by the typed data of each DomainEvent variant
type Payload interface {
	EventType() Type
}

// CollisionPayload identifies the touching pair
type CollisionPayload struct {
	Obj1 string `json:"obj1"`
	Obj2 string `json:"obj2"`
}

func (CollisionPayload) EventType() Type { return Collision }

// CollisionAvoidedPayload identifies the pair and their closest approach in canvas pixels
type CollisionAvoidedPayload struct {
	Obj1        string  `json:"obj1"`
	Obj2        string  `json:"obj2"`
	MinDistance float64 `json:"minDistance"`
}

func (CollisionAvoidedPayload) EventType() Type { return CollisionAvoided }

// ObjectFollowedPayload carries the followed object and run length
type ObjectFollowedPayload struct {
	ObjectID   string `json:"objectId"`
	DurationMs int64  `json:"durationMs"`
}

func (ObjectFollowedPayload) EventType() Type { return ObjectFollowed }

// Corner names the patrol turn, clockwise from the top-right
type Corner string

const (
	CornerTopRight    Corner = "top-right"
	CornerBottomRight Corner = "bottom-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerTopLeft     Corner = "top-left"
)

// PatternIdentifiedPayload carries the patrol object and the corner it turned
type PatternIdentifiedPayload struct {
	ObjectID string `json:"objectId"`
	Corner   Corner `json:"corner"`
}

func (PatternIdentifiedPayload) EventType() Type { return PatternIdentified }

// DistractorIgnoredPayload carries the distractor and the followed target it passed
type DistractorIgnoredPayload struct {
	DistractorID string `json:"distractorId"`
	TargetID     string `json:"targetId"`
}

func (DistractorIgnoredPayload) EventType() Type { return DistractorIgnored }
