package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/history"
)

// session builds a finalized session with total samples of which hits matched obj1
func session(level core.Level, total, hits int, seconds int64) core.SessionData {
	s := core.SessionData{Level: level, StartTime: 1_000_000, EndTime: 1_000_000 + seconds*1000}
	id := "obj1"
	for i := 0; i < total; i++ {
		g := core.GazeSample{Timestamp: s.StartTime + int64(i)*10, GazeX: 100, GazeY: 100}
		if i < hits {
			g.ObjectID = &id
			g.ObjectX, g.ObjectY = 103, 104
		}
		s.GazeData = append(s.GazeData, g)
	}
	return s
}

func analyze(s core.SessionData, m *core.LevelMetrics, prev *history.Entry, pb *history.PersonalBest) Analysis {
	return Analyze(Input{Session: s, TrackingAccuracy: s.TrackingAccuracy(), Metrics: m, Previous: prev, PersonalBest: pb})
}

func TestTierBoundaries(t *testing.T) {
	cases := map[int]Tier{
		100: TierExcellent, 80: TierExcellent, 79: TierGood, 60: TierGood,
		59: TierModerate, 40: TierModerate, 39: TierNeedsImprovement, 0: TierNeedsImprovement,
	}
	for acc, want := range cases {
		assert.Equal(t, want, TierFor(acc), "accuracy %d", acc)
	}
	assert.Equal(t, "#10b981", TierExcellent.Color())
	assert.Equal(t, "#ef4444", TierNeedsImprovement.Color())
}

func TestCompare(t *testing.T) {
	c := Compare(75, 60)
	assert.Equal(t, Comparison{PreviousAccuracy: 60, Change: 15, ChangePercentage: 25, Trend: TrendImproving}, c)

	assert.Equal(t, TrendStable, Compare(64, 60).Trend)
	assert.Equal(t, TrendImproving, Compare(65, 60).Trend, "exactly 5 points counts")
	assert.Equal(t, TrendDeclining, Compare(55, 60).Trend)
	assert.Equal(t, 0, Compare(30, 0).ChangePercentage)
	assert.Equal(t, -33, Compare(2, 3).ChangePercentage)
}

func TestEndToEndExcellent(t *testing.T) {
	s := session(core.Level1, 100, 80, 60)
	require.Equal(t, 80, s.TrackingAccuracy())

	a := analyze(s, nil, nil, nil)
	assert.Equal(t, TierExcellent, a.Tier)
	assert.True(t, a.IsPersonalBest)
	assert.Nil(t, a.Comparison)
	assert.Equal(t, "🏆 New Personal Best! You've reached a new peak in your performance!", a.FeedbackMessage)
	assert.Equal(t, []string{"Excellent eye tracking accuracy"}, a.Strengths)
	assert.Equal(t, []string{
		"Try to complete the full 5-minute session for better results",
		"Ensure your face stays visible to the camera throughout",
	}, a.Improvements)
	assert.Empty(t, a.SuggestedNextLevel, "80 is below the promotion bar")
}

func TestFeedbackCascade(t *testing.T) {
	pb := &history.PersonalBest{Accuracy: 95}
	full := session(core.Level1, 100, 85, 295)
	partial := session(core.Level1, 100, 85, 200)

	assert.Equal(t, "Great progress! Your accuracy improved by 15% from your last session.",
		analyze(full, nil, &history.Entry{TrackingAccuracy: 70}, pb).FeedbackMessage)

	assert.Equal(t, "Excellent tracking! Your focus was strong throughout the entire session.",
		analyze(full, nil, nil, pb).FeedbackMessage)
	assert.Equal(t, "Excellent tracking! Try completing the full 5-minute session to maximize your training.",
		analyze(partial, nil, nil, pb).FeedbackMessage)

	good := session(core.Level1, 100, 65, 290)
	assert.Equal(t, "Good effort! You maintained solid focus. Keep practicing to reach excellence.",
		analyze(good, nil, nil, pb).FeedbackMessage)
	good = session(core.Level1, 100, 65, 289)
	assert.Equal(t, "Good effort! Try to maintain focus on the targets for longer periods.",
		analyze(good, nil, nil, pb).FeedbackMessage)

	assert.Equal(t, "You're making progress! Focus on keeping your eyes on the targets for longer stretches.",
		analyze(session(core.Level1, 100, 45, 300), nil, nil, pb).FeedbackMessage)
	assert.Equal(t, "Keep practicing! Make sure you're in a well-lit area and positioned comfortably in front of the camera.",
		analyze(session(core.Level1, 100, 10, 300), nil, nil, pb).FeedbackMessage)
}

func TestPersonalBestRequiresStrictImprovement(t *testing.T) {
	s := session(core.Level2, 100, 70, 300)
	assert.False(t, analyze(s, nil, nil, &history.PersonalBest{Accuracy: 70}).IsPersonalBest)
	assert.True(t, analyze(s, nil, nil, &history.PersonalBest{Accuracy: 69}).IsPersonalBest)
}

func TestLevelStrengthsAndImprovements(t *testing.T) {
	pb := &history.PersonalBest{Accuracy: 100}

	l1 := analyze(session(core.Level1, 1200, 1000, 300), &core.LevelMetrics{
		ObjectsFollowed: core.IntPtr(18), AverageFollowTime: core.IntPtr(2500),
	}, &history.Entry{TrackingAccuracy: 70}, pb)
	assert.Equal(t, []string{
		"Excellent eye tracking accuracy",
		"Completed full 5-minute session",
		"13% improvement from last session",
		"Successfully followed 18 objects",
		"Strong sustained attention",
		"High quality eye tracking data collected",
	}, l1.Strengths)
	assert.Equal(t, []string{"Keep practicing to improve your skills"}, l1.Improvements)

	l2 := analyze(session(core.Level2, 600, 300, 300), &core.LevelMetrics{
		CollisionsAvoided: core.IntPtr(4), TotalCollisions: core.IntPtr(8),
	}, nil, pb)
	assert.Equal(t, []string{"Completed full 5-minute session"}, l2.Strengths)
	assert.Equal(t, []string{
		"Try to keep your eyes focused on the moving targets",
		"Ensure good lighting and camera positioning",
		"Work on anticipating object movements",
	}, l2.Improvements, "truncated to three")

	l3 := analyze(session(core.Level3, 600, 420, 300), &core.LevelMetrics{
		PatternsIdentified: core.IntPtr(12), DistractorsIgnored: core.IntPtr(14),
	}, nil, pb)
	assert.Contains(t, l3.Strengths, "Identified 12 patterns")
	assert.Equal(t, []string{
		"Work on maintaining focus for longer periods",
		"Practice filtering out distracting elements",
	}, l3.Improvements)
}

func TestMissingMetricFieldsAreSkipped(t *testing.T) {
	pb := &history.PersonalBest{Accuracy: 100}
	a := analyze(session(core.Level2, 600, 420, 300), &core.LevelMetrics{}, nil, pb)
	assert.NotContains(t, a.Strengths, "Excellent collision avoidance")
	assert.NotContains(t, a.Improvements, "Practice quick eye movements to avoid collisions")
}

func TestFallbacks(t *testing.T) {
	// Short, sparse, moderate: no strengths
	a := analyze(session(core.Level1, 10, 5, 10), nil, nil, &history.PersonalBest{Accuracy: 100})
	assert.Equal(t, []string{"Session completed successfully"}, a.Strengths)
	assert.Len(t, a.Improvements, 3)

	// Empty session still analyzes
	empty := analyze(core.SessionData{Level: core.Level1}, nil, nil, nil)
	assert.Equal(t, TierNeedsImprovement, empty.Tier)
	assert.NotEmpty(t, empty.FeedbackMessage)
}

func TestSuggestNextLevel(t *testing.T) {
	next, ok := SuggestNextLevel(core.Level1, TierExcellent, 85)
	require.True(t, ok)
	assert.Equal(t, core.Level2, next)

	_, ok = SuggestNextLevel(core.Level1, TierExcellent, 84)
	assert.False(t, ok)
	_, ok = SuggestNextLevel(core.Level3, TierExcellent, 99)
	assert.False(t, ok, "already hardest")

	prev, ok := SuggestNextLevel(core.Level3, TierNeedsImprovement, 20)
	require.True(t, ok)
	assert.Equal(t, core.Level2, prev)
	_, ok = SuggestNextLevel(core.Level1, TierNeedsImprovement, 20)
	assert.False(t, ok, "already easiest")
	_, ok = SuggestNextLevel(core.Level2, TierGood, 70)
	assert.False(t, ok)
}
