package analyzer

import (
	"fmt"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/vmath"
)

// Sample count bounds for data quality
const (
	DataQualityHigh   = 1000
	DataQualityMedium = 500
)

// DataQuality grades how much gaze data a session collected
type DataQuality string

const (
	QualityHigh   DataQuality = "high"
	QualityMedium DataQuality = "medium"
	QualityLow    DataQuality = "low"
)

func DataQualityFor(points int) DataQuality {
	switch {
	case points >= DataQualityHigh:
		return QualityHigh
	case points >= DataQualityMedium:
		return QualityMedium
	}
	return QualityLow
}

func (q DataQuality) Description() string {
	switch q {
	case QualityHigh:
		return "High quality data collected"
	case QualityMedium:
		return "Good data collected"
	}
	return "Limited data collected"
}

// FormatDuration renders seconds as "4m 5s" or "45s"
func FormatDuration(seconds int) string {
	m, s := seconds/60, seconds%60
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationLong renders seconds as "1 minute 5 seconds"
func FormatDurationLong(seconds int) string {
	m, s := seconds/60, seconds%60
	if m > 0 {
		return fmt.Sprintf("%d %s %d %s", m, plural(m, "minute"), s, plural(s, "second"))
	}
	return fmt.Sprintf("%d %s", s, plural(s, "second"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// IsSessionComplete reports whether seconds is within tolerance of a full session
func IsSessionComplete(seconds, tolerance int) bool {
	return seconds >= TargetDuration-tolerance
}

// PercentageChange returns round((current - previous) / previous x 100), 0 when previous is 0
func PercentageChange(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(vmath.RoundHalfUp((current - previous) / previous * 100))
}

// Target is the goal shown next to a level metric
type Target struct {
	Metric string
	Value  int
	Unit   string
}

// LevelTargets returns the goals for each level's scorecard
func LevelTargets(level core.Level) []Target {
	switch level {
	case core.Level1:
		return []Target{{"objectsFollowed", 20, ""}, {"minFollowTime", 2000, "ms"}}
	case core.Level2:
		return []Target{{"avoidanceRate", 80, "%"}, {"maxCollisions", 5, ""}}
	case core.Level3:
		return []Target{{"patternsIdentified", 15, ""}, {"minAccuracy", 75, "%"}}
	}
	return nil
}

// AvoidanceRate returns avoided / (avoided + collisions) as a rounded percentage
func AvoidanceRate(m core.LevelMetrics) int {
	avoided, hit := core.Value(m.CollisionsAvoided), core.Value(m.TotalCollisions)
	if avoided+hit == 0 {
		return 0
	}
	return core.Accuracy(avoided, avoided+hit)
}

// MetricLine is one labelled level metric for display
type MetricLine struct {
	Label string
	Value string
}

// DescribeLevelMetrics formats the metrics of one level for the scorecard
func DescribeLevelMetrics(level core.Level, m core.LevelMetrics) []MetricLine {
	var out []MetricLine
	switch level {
	case core.Level1:
		out = []MetricLine{
			{"Objects Followed", fmt.Sprintf("%d", core.Value(m.ObjectsFollowed))},
			{"Avg Follow Time", fmt.Sprintf("%.1fs", float64(core.Value(m.AverageFollowTime))/1000)},
		}
	case core.Level2:
		out = []MetricLine{
			{"Collisions Avoided", fmt.Sprintf("%d", core.Value(m.CollisionsAvoided))},
			{"Total Collisions", fmt.Sprintf("%d", core.Value(m.TotalCollisions))},
			{"Avoidance Rate", fmt.Sprintf("%d%%", AvoidanceRate(m))},
		}
	case core.Level3:
		out = []MetricLine{
			{"Patterns Identified", fmt.Sprintf("%d", core.Value(m.PatternsIdentified))},
			{"Distractors Ignored", fmt.Sprintf("%d", core.Value(m.DistractorsIgnored))},
		}
	}
	if m.Source == core.MetricsEstimated {
		for i := range out {
			out[i].Label += " (est.)"
		}
	}
	return out
}
