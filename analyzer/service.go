package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/history"
)

// Result is what Process hands to the summary screen
type Result struct {
	Analysis Analysis
	Entry    history.Entry
	Saved    bool
}

// Service analyzes finished sessions against history and records them
type Service struct {
	history *history.Store
	now     func() time.Time
	log     *zap.Logger
}

func NewService(h *history.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{history: h, now: time.Now, log: logger.Named("analyzer")}
}

// WithClock replaces time.Now, returns s for chaining
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Process reads the previous session and personal best, analyzes, then saves the entry
// Context is read before writing so the new session is not compared with itself
// History failures are logged and degrade to an analysis without context
func (s *Service) Process(ctx context.Context, sessionID string, session core.SessionData, metrics core.LevelMetrics) Result {
	acc := session.TrackingAccuracy()

	in := Input{Session: session, TrackingAccuracy: acc, Metrics: &metrics}
	if prev, ok := s.history.PreviousSession(ctx, session.Level); ok {
		in.Previous = &prev
	}
	if pb, ok := s.history.PersonalBest(ctx, session.Level); ok {
		in.PersonalBest = &pb
	}
	analysis := Analyze(in)

	ts := session.EndTime
	if ts == 0 {
		ts = s.now().UnixMilli()
	}
	entry := history.Entry{
		SessionID:        sessionID,
		Timestamp:        ts,
		Level:            session.Level,
		Duration:         session.DurationSeconds(),
		TrackingAccuracy: acc,
		LevelMetrics:     metrics,
	}

	res := Result{Analysis: analysis, Entry: entry}
	if err := s.history.SaveSession(ctx, entry); err != nil {
		s.log.Warn("session not saved to history", zap.String("session_id", sessionID), zap.Error(err))
		return res
	}
	res.Saved = true

	s.log.Info("session analyzed",
		zap.String("session_id", sessionID),
		zap.String("level", string(session.Level)),
		zap.Int("accuracy", acc),
		zap.String("tier", string(analysis.Tier)),
		zap.Bool("personal_best", analysis.IsPersonalBest),
	)
	return res
}
