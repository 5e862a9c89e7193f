package main

import (
	"fmt"
	"io"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/trainer"
)

// printSummary writes the post-session scorecard
func printSummary(w io.Writer, s trainer.Summary) {
	if !s.Started {
		_, _ = fmt.Fprintf(w, "Session %s ended before play began (%s).\n", s.SessionID, s.Reason)
		return
	}

	a := s.Analysis
	duration := s.Session.DurationSeconds()
	samples := len(s.Session.GazeData)
	quality := analyzer.DataQualityFor(samples)

	_, _ = fmt.Fprintf(w, "Session %s - Level %d: %s\n", s.SessionID, s.Level.Number(), s.Level.Name())
	_, _ = fmt.Fprintf(w, "Duration: %s  Samples: %d (%s)\n", analyzer.FormatDuration(duration), samples, quality.Description())
	_, _ = fmt.Fprintf(w, "Tracking accuracy: %d%% (%s)\n", s.Accuracy, a.Tier.Label())
	if a.IsPersonalBest {
		_, _ = fmt.Fprintln(w, "New personal best!")
	}
	if a.FeedbackMessage != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", a.FeedbackMessage)
	}
	if c := a.Comparison; c != nil {
		_, _ = fmt.Fprintf(w, "Previous: %d%%  Change: %+.1f (%+d%%, %s)\n", c.PreviousAccuracy, c.Change, c.ChangePercentage, c.Trend)
	}

	if lines := analyzer.DescribeLevelMetrics(s.Level, s.Metrics); len(lines) > 0 {
		_, _ = fmt.Fprintln(w, "\nLevel metrics:")
		for _, l := range lines {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", l.Label, l.Value)
		}
	}
	writeList(w, "Strengths", a.Strengths)
	writeList(w, "To work on", a.Improvements)

	if a.SuggestedNextLevel != "" && a.SuggestedNextLevel != s.Level {
		_, _ = fmt.Fprintf(w, "\nSuggested next: Level %d: %s\n", a.SuggestedNextLevel.Number(), a.SuggestedNextLevel.Name())
	}

	switch {
	case !s.Upload.Attempted:
		_, _ = fmt.Fprintln(w, "\nUpload: skipped (offline or no active profile)")
	case s.Upload.Err != nil:
		_, _ = fmt.Fprintf(w, "\nUpload: failed (%v)\n", s.Upload.Err)
	default:
		_, _ = fmt.Fprintf(w, "\nUpload: sent (%s)\n", s.Upload.Response.S3Key)
	}
	if !s.Saved {
		_, _ = fmt.Fprintln(w, "History: not saved to local storage")
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s:\n", title)
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "  - %s\n", it)
	}
}
