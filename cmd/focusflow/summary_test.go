package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/backend"
	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/trainer"
)

func TestPrintSummaryNotStarted(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, trainer.Summary{SessionID: "session_x", Reason: trainer.ReasonCancelled})
	assert.Equal(t, "Session session_x ended before play began (cancelled).\n", buf.String())
}

func TestPrintSummaryScorecard(t *testing.T) {
	sum := trainer.Summary{
		SessionID: "session_x",
		Level:     core.Level1,
		Started:   true,
		Session:   core.SessionData{Level: core.Level1, StartTime: 0, EndTime: 65_000},
		Accuracy:  82,
		Metrics:   core.LevelMetrics{ObjectsFollowed: core.IntPtr(4), AverageFollowTime: core.IntPtr(1500), Source: core.MetricsRecorded},
		Analysis: analyzer.Analysis{
			Tier:               analyzer.TierExcellent,
			FeedbackMessage:    "Outstanding focus!",
			Strengths:          []string{"Steady tracking"},
			Improvements:       []string{"Play a full session"},
			Comparison:         &analyzer.Comparison{PreviousAccuracy: 70, Change: 12, ChangePercentage: 17, Trend: analyzer.TrendImproving},
			IsPersonalBest:     true,
			SuggestedNextLevel: core.Level2,
		},
		Saved:  true,
		Upload: trainer.Upload{Attempted: true, Response: &backend.SubmitResponse{S3Key: "sessions/u/s_1.json"}},
	}

	var buf bytes.Buffer
	printSummary(&buf, sum)
	out := buf.String()
	assert.Contains(t, out, "Level 1: Follow the Leader")
	assert.Contains(t, out, "Duration: 1m 5s")
	assert.Contains(t, out, "Tracking accuracy: 82% (Excellent)")
	assert.Contains(t, out, "New personal best!")
	assert.Contains(t, out, "Previous: 70%  Change: +12.0 (+17%, improving)")
	assert.Contains(t, out, "Objects Followed: 4")
	assert.Contains(t, out, "  - Steady tracking")
	assert.Contains(t, out, "Suggested next: Level 2: Collision Course")
	assert.Contains(t, out, "Upload: sent (sessions/u/s_1.json)")
	assert.NotContains(t, out, "not saved")

	sum.Upload = trainer.Upload{Attempted: true, Err: errors.New("timeout")}
	sum.Saved = false
	buf.Reset()
	printSummary(&buf, sum)
	assert.Contains(t, buf.String(), "Upload: failed (timeout)")
	assert.Contains(t, buf.String(), "History: not saved")
}
