package analyzer

// Tier is the performance band an accuracy falls into
type Tier string

const (
	TierExcellent        Tier = "excellent"
	TierGood             Tier = "good"
	TierModerate         Tier = "moderate"
	TierNeedsImprovement Tier = "needs-improvement"
)

// Tier lower bounds, inclusive
const (
	ThresholdExcellent = 80
	ThresholdGood      = 60
	ThresholdModerate  = 40
)

// TierFor maps an accuracy percentage to its tier
func TierFor(accuracy int) Tier {
	switch {
	case accuracy >= ThresholdExcellent:
		return TierExcellent
	case accuracy >= ThresholdGood:
		return TierGood
	case accuracy >= ThresholdModerate:
		return TierModerate
	}
	return TierNeedsImprovement
}

// Color returns the display color as #rrggbb
func (t Tier) Color() string {
	switch t {
	case TierExcellent:
		return "#10b981"
	case TierGood:
		return "#f59e0b"
	case TierModerate:
		return "#f97316"
	}
	return "#ef4444"
}

// Label returns a human readable tier name
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierModerate:
		return "Moderate"
	}
	return "Needs Improvement"
}
