package analyzer

import (
	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/vmath"
)

// MetricsMode selects how level metrics are derived
type MetricsMode int

const (
	// MetricsRecorded counts recorded events only
	MetricsRecorded MetricsMode = iota
	// MetricsEstimateWhenMissing estimates from accuracy and duration when the session
	// carries none of the level's events
	MetricsEstimateWhenMissing
)

// ParseMetricsMode accepts "recorded" and "estimate"
func ParseMetricsMode(s string) (MetricsMode, bool) {
	switch s {
	case "", "recorded":
		return MetricsRecorded, true
	case "estimate", "estimated":
		return MetricsEstimateWhenMissing, true
	}
	return MetricsRecorded, false
}

// levelEvents lists the event types each level's metrics are built from
var levelEvents = map[core.Level][]event.Type{
	core.Level1: {event.ObjectFollowed},
	core.Level2: {event.CollisionAvoided, event.Collision},
	core.Level3: {event.PatternIdentified, event.DistractorIgnored},
}

// DeriveLevelMetrics fills the metrics of the session's level
// Estimated and recorded values are never mixed in one result
func DeriveLevelMetrics(s core.SessionData, mode MetricsMode) core.LevelMetrics {
	if mode == MetricsEstimateWhenMissing && !hasLevelEvents(s) {
		return estimateLevelMetrics(s)
	}

	m := core.LevelMetrics{Source: core.MetricsRecorded}
	switch s.Level {
	case core.Level1:
		follows := s.EventsOf(event.ObjectFollowed)
		var total int64
		for _, e := range follows {
			if p, ok := e.Data.(event.ObjectFollowedPayload); ok {
				total += p.DurationMs
			}
		}
		avg := 0
		if len(follows) > 0 {
			avg = int(vmath.RoundHalfUp(float64(total) / float64(len(follows))))
		}
		m.ObjectsFollowed = core.IntPtr(len(follows))
		m.AverageFollowTime = core.IntPtr(avg)
	case core.Level2:
		m.CollisionsAvoided = core.IntPtr(len(s.EventsOf(event.CollisionAvoided)))
		m.TotalCollisions = core.IntPtr(len(s.EventsOf(event.Collision)))
	case core.Level3:
		m.PatternsIdentified = core.IntPtr(len(s.EventsOf(event.PatternIdentified)))
		m.DistractorsIgnored = core.IntPtr(len(s.EventsOf(event.DistractorIgnored)))
	}
	return m
}

func hasLevelEvents(s core.SessionData) bool {
	for _, t := range levelEvents[s.Level] {
		if len(s.EventsOf(t)) > 0 {
			return true
		}
	}
	return false
}

// Estimation rates in opportunities per second of play
const (
	estFollowPerSec     = 1.0 / 15
	estFollowMaxMs      = 3000
	estEncounterPerSec  = 1.0 / 20
	estPatternPerSec    = 1.0 / 20
	estDistractorPerSec = 1.0 / 12
)

// estimateLevelMetrics scales per-level opportunity rates by accuracy
func estimateLevelMetrics(s core.SessionData) core.LevelMetrics {
	sec := float64(s.DurationSeconds())
	frac := float64(s.TrackingAccuracy()) / 100
	round := func(v float64) int { return int(vmath.RoundHalfUp(v)) }

	m := core.LevelMetrics{Source: core.MetricsEstimated}
	switch s.Level {
	case core.Level1:
		m.ObjectsFollowed = core.IntPtr(round(sec * estFollowPerSec * frac))
		m.AverageFollowTime = core.IntPtr(round(estFollowMaxMs * frac))
	case core.Level2:
		encounters := round(sec * estEncounterPerSec)
		avoided := round(float64(encounters) * frac)
		m.CollisionsAvoided = core.IntPtr(avoided)
		m.TotalCollisions = core.IntPtr(encounters - avoided)
	case core.Level3:
		m.PatternsIdentified = core.IntPtr(round(sec * estPatternPerSec * frac))
		m.DistractorsIgnored = core.IntPtr(round(sec * estDistractorPerSec * frac))
	}
	return m
}
