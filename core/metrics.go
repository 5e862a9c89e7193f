package core

// MetricsSource labels where level metrics came from
type MetricsSource string

const (
	MetricsRecorded  MetricsSource = "recorded"
	MetricsEstimated MetricsSource = "estimated"
)

// LevelMetrics holds level-specific derived counts
// Only the fields relevant to the session's level are populated
type LevelMetrics struct {
	// Level 1
	ObjectsFollowed   *int `json:"objectsFollowed,omitempty"`
	AverageFollowTime *int `json:"averageFollowTime,omitempty"` // ms

	// Level 2
	CollisionsAvoided *int `json:"collisionsAvoided,omitempty"`
	TotalCollisions   *int `json:"totalCollisions,omitempty"`

	// Level 3
	PatternsIdentified *int `json:"patternsIdentified,omitempty"`
	DistractorsIgnored *int `json:"distractorsIgnored,omitempty"`

	Source MetricsSource `json:"source,omitempty"`
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// Value dereferences p, returning 0 for nil
func Value(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
