package analyzer

import (
	"math"
	"strconv"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/history"
	"github.com/lixenwraith/focusflow/vmath"
)

const (
	// TargetDuration is a full session in seconds
	TargetDuration = 300

	fullSessionSeconds  = TargetDuration - 10
	shortSessionSeconds = TargetDuration - 30
	trendThreshold      = 5
	suggestUpAccuracy   = 85
	suggestDownAccuracy = 50
	maxImprovements     = 3
)

// Trend compares a session against the previous one of the same level
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Comparison describes the change from the previous session
type Comparison struct {
	PreviousAccuracy int     `json:"previousAccuracy"`
	Change           float64 `json:"change"`           // percentage points, one decimal
	ChangePercentage int     `json:"changePercentage"` // relative to previous, 0 when previous is 0
	Trend            Trend   `json:"trend"`
}

// Compare computes the comparison of current against previous accuracy
func Compare(current, previous int) Comparison {
	change := float64(current - previous)
	pct := 0
	if previous > 0 {
		pct = int(vmath.RoundHalfUp(change / float64(previous) * 100))
	}
	trend := TrendStable
	if math.Abs(change) >= trendThreshold {
		if change > 0 {
			trend = TrendImproving
		} else {
			trend = TrendDeclining
		}
	}
	return Comparison{
		PreviousAccuracy: previous,
		Change:           vmath.RoundTo(change, 1),
		ChangePercentage: pct,
		Trend:            trend,
	}
}

// Analysis is the feedback shown after a session
type Analysis struct {
	Tier               Tier        `json:"performanceLevel"`
	FeedbackMessage    string      `json:"feedbackMessage"`
	Strengths          []string    `json:"strengths"`
	Improvements       []string    `json:"improvements"`
	Comparison         *Comparison `json:"comparisonData,omitempty"`
	IsPersonalBest     bool        `json:"isPersonalBest"`
	SuggestedNextLevel core.Level  `json:"suggestedNextLevel,omitempty"`
}

// Input bundles everything Analyze looks at
// Previous and PersonalBest are nil when there is no history for the level
type Input struct {
	Session          core.SessionData
	TrackingAccuracy int
	Metrics          *core.LevelMetrics
	Previous         *history.Entry
	PersonalBest     *history.PersonalBest
}

// Analyze builds the full analysis; it never fails and falls back to generic messages
func Analyze(in Input) Analysis {
	acc := in.TrackingAccuracy
	tier := TierFor(acc)
	isPB := in.PersonalBest == nil || acc > in.PersonalBest.Accuracy

	var cmp *Comparison
	if in.Previous != nil {
		c := Compare(acc, in.Previous.TrackingAccuracy)
		cmp = &c
	}

	duration := in.Session.DurationSeconds()
	samples := len(in.Session.GazeData)

	a := Analysis{
		Tier:            tier,
		FeedbackMessage: feedback(tier, duration, cmp, isPB),
		Strengths:       strengths(in.Session.Level, acc, duration, samples, in.Metrics, cmp),
		Improvements:    improvements(in.Session.Level, acc, duration, samples, in.Metrics),
		Comparison:      cmp,
		IsPersonalBest:  isPB,
	}
	if next, ok := SuggestNextLevel(in.Session.Level, tier, acc); ok {
		a.SuggestedNextLevel = next
	}
	return a
}

func improving(cmp *Comparison) bool {
	return cmp != nil && cmp.Trend == TrendImproving
}

// formatChange renders percentage points the way they were shown historically: 12, 7.5
func formatChange(change float64) string {
	return strconv.FormatFloat(math.Abs(change), 'f', -1, 64)
}

func feedback(tier Tier, duration int, cmp *Comparison, isPB bool) string {
	full := duration >= fullSessionSeconds

	if isPB {
		return "🏆 New Personal Best! You've reached a new peak in your performance!"
	}
	if improving(cmp) {
		return "Great progress! Your accuracy improved by " + formatChange(cmp.Change) + "% from your last session."
	}

	switch tier {
	case TierExcellent:
		if full {
			return "Excellent tracking! Your focus was strong throughout the entire session."
		}
		return "Excellent tracking! Try completing the full 5-minute session to maximize your training."
	case TierGood:
		if full {
			return "Good effort! You maintained solid focus. Keep practicing to reach excellence."
		}
		return "Good effort! Try to maintain focus on the targets for longer periods."
	case TierModerate:
		return "You're making progress! Focus on keeping your eyes on the targets for longer stretches."
	}
	return "Keep practicing! Make sure you're in a well-lit area and positioned comfortably in front of the camera."
}

// at reports whether p is set and satisfies cmp
func at(p *int, cmp func(int) bool) bool {
	return p != nil && cmp(*p)
}

func strengths(level core.Level, acc, duration, samples int, m *core.LevelMetrics, cmp *Comparison) []string {
	var out []string

	switch {
	case acc >= 80:
		out = append(out, "Excellent eye tracking accuracy")
	case acc >= 60:
		out = append(out, "Good tracking consistency")
	}

	if duration >= fullSessionSeconds {
		out = append(out, "Completed full 5-minute session")
	}
	if improving(cmp) {
		out = append(out, formatChange(cmp.Change)+"% improvement from last session")
	}

	if m != nil {
		switch level {
		case core.Level1:
			if at(m.ObjectsFollowed, func(v int) bool { return v >= 15 }) {
				out = append(out, "Successfully followed "+strconv.Itoa(*m.ObjectsFollowed)+" objects")
			}
			if at(m.AverageFollowTime, func(v int) bool { return v >= 2000 }) {
				out = append(out, "Strong sustained attention")
			}
		case core.Level2:
			if at(m.CollisionsAvoided, func(v int) bool { return v >= 10 }) {
				out = append(out, "Avoided "+strconv.Itoa(*m.CollisionsAvoided)+" collisions")
			}
			if at(m.TotalCollisions, func(v int) bool { return v <= 3 }) {
				out = append(out, "Excellent collision avoidance")
			}
		case core.Level3:
			if at(m.PatternsIdentified, func(v int) bool { return v >= 12 }) {
				out = append(out, "Identified "+strconv.Itoa(*m.PatternsIdentified)+" patterns")
			}
			if at(m.DistractorsIgnored, func(v int) bool { return v >= 20 }) {
				out = append(out, "Great focus filtering out distractions")
			}
		}
	}

	if samples >= DataQualityHigh {
		out = append(out, "High quality eye tracking data collected")
	}

	if len(out) == 0 {
		return []string{"Session completed successfully"}
	}
	return out
}

func improvements(level core.Level, acc, duration, samples int, m *core.LevelMetrics) []string {
	var out []string

	switch {
	case acc < 60:
		out = append(out,
			"Try to keep your eyes focused on the moving targets",
			"Ensure good lighting and camera positioning",
		)
	case acc < 80:
		out = append(out, "Work on maintaining focus for longer periods")
	}

	if duration < shortSessionSeconds {
		out = append(out, "Try to complete the full 5-minute session for better results")
	}

	if m != nil {
		switch level {
		case core.Level1:
			if at(m.ObjectsFollowed, func(v int) bool { return v < 15 }) {
				out = append(out, "Focus on following each object smoothly")
			}
			if at(m.AverageFollowTime, func(v int) bool { return v < 2000 }) {
				out = append(out, "Try to track objects for longer durations")
			}
		case core.Level2:
			if at(m.TotalCollisions, func(v int) bool { return v > 5 }) {
				out = append(out, "Work on anticipating object movements")
			}
			if at(m.CollisionsAvoided, func(v int) bool { return v < 10 }) {
				out = append(out, "Practice quick eye movements to avoid collisions")
			}
		case core.Level3:
			if at(m.PatternsIdentified, func(v int) bool { return v < 10 }) {
				out = append(out, "Take time to identify patterns before moving on")
			}
			if at(m.DistractorsIgnored, func(v int) bool { return v < 15 }) {
				out = append(out, "Practice filtering out distracting elements")
			}
		}
	}

	if samples < DataQualityMedium {
		out = append(out, "Ensure your face stays visible to the camera throughout")
	}

	if len(out) == 0 {
		return []string{"Keep practicing to improve your skills"}
	}
	if len(out) > maxImprovements {
		out = out[:maxImprovements]
	}
	return out
}

// SuggestNextLevel proposes a harder level after an excellent run and an easier one after a poor run
func SuggestNextLevel(level core.Level, tier Tier, acc int) (core.Level, bool) {
	if tier == TierExcellent && acc >= suggestUpAccuracy {
		return level.Next()
	}
	if tier == TierNeedsImprovement && acc < suggestDownAccuracy {
		return level.Previous()
	}
	return "", false
}
