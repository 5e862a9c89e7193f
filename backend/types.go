package backend

import (
	"time"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
)

// Gender values accepted for a profile
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// Valid reports whether g is one of the known values
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// Profile is a child managed by a therapist
type Profile struct {
	ProfileID   string   `json:"profileId"`
	TherapistID string   `json:"therapistId"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Gender      Gender   `json:"gender"`
	Weight      *float64 `json:"weight,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// ProfileInput is the create-profile request body
type ProfileInput struct {
	TherapistID string   `json:"therapistId"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Gender      Gender   `json:"gender,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Height      *float64 `json:"height,omitempty"`
}

type ProfileResponse struct {
	Message string  `json:"message,omitempty"`
	Profile Profile `json:"profile"`
}

type ProfilesResponse struct {
	TherapistID string    `json:"therapistId"`
	Profiles    []Profile `json:"profiles"`
	Count       int       `json:"count"`
}

type DeleteProfileResponse struct {
	Message   string `json:"message"`
	ProfileID string `json:"profileId"`
}

// SubmitMetrics is the metrics block of a session upload
type SubmitMetrics struct {
	TotalGazePoints    int `json:"totalGazePoints"`
	AccurateGazes      int `json:"accurateGazes"`
	AccuracyPercentage int `json:"accuracyPercentage"`
	core.LevelMetrics
}

// SubmitRequest is the session upload body
type SubmitRequest struct {
	UserID          string              `json:"userId"`
	SessionID       string              `json:"sessionId"`
	ProfileID       string              `json:"profileId"`
	ProfileName     string              `json:"profileName"`
	ProfileAge      int                 `json:"profileAge"`
	ProfileGender   Gender              `json:"profileGender"`
	ProfileWeight   *float64            `json:"profileWeight,omitempty"`
	ProfileHeight   *float64            `json:"profileHeight,omitempty"`
	Level           core.Level          `json:"level"`
	StartTime       int64               `json:"startTime"`
	EndTime         int64               `json:"endTime"`
	SessionDuration int                 `json:"sessionDuration"` // seconds
	DatePlayed      string              `json:"datePlayed"`
	GazeData        []core.GazeSample   `json:"gazeData"`
	Events          []event.DomainEvent `json:"events"`
	Metrics         SubmitMetrics       `json:"metrics"`
}

// Session rebuilds the recorded session carried by the upload
func (r *SubmitRequest) Session() core.SessionData {
	return core.SessionData{
		Level:     r.Level,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		GazeData:  r.GazeData,
		Events:    r.Events,
	}
}

type SubmitResponse struct {
	Message   string `json:"message"`
	S3Key     string `json:"s3Key"`
	SessionID string `json:"sessionId"`
}

// Report is a generated narrative for one uploaded session
type Report struct {
	UserID      string `json:"userId"`
	SessionID   string `json:"sessionId"`
	Timestamp   int64  `json:"timestamp"`
	Report      string `json:"report"`
	S3Key       string `json:"s3Key"`
	GeneratedAt int64  `json:"generatedAt"`
	ModelUsed   string `json:"modelUsed"`
}

type ReportsResponse struct {
	UserID  string   `json:"userId"`
	Reports []Report `json:"reports"`
	Count   int      `json:"count"`
}

// datePlayedLayout is ISO 8601 with milliseconds in UTC
const datePlayedLayout = "2006-01-02T15:04:05.000Z"

// BuildSubmission assembles the upload for a finalized session
// metrics may be nil, in which case only the gaze totals are sent
func BuildSubmission(userID, sessionID string, s core.SessionData, p Profile, metrics *core.LevelMetrics) SubmitRequest {
	played := s.EndTime
	if played == 0 {
		played = time.Now().UnixMilli()
	}
	req := SubmitRequest{
		UserID:          userID,
		SessionID:       sessionID,
		ProfileID:       p.ProfileID,
		ProfileName:     p.Name,
		ProfileAge:      p.Age,
		ProfileGender:   p.Gender,
		ProfileWeight:   p.Weight,
		ProfileHeight:   p.Height,
		Level:           s.Level,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		SessionDuration: s.DurationSeconds(),
		DatePlayed:      time.UnixMilli(played).UTC().Format(datePlayedLayout),
		GazeData:        s.GazeData,
		Events:          s.Events,
		Metrics: SubmitMetrics{
			TotalGazePoints:    len(s.GazeData),
			AccurateGazes:      s.TrackedSamples(),
			AccuracyPercentage: s.TrackingAccuracy(),
		},
	}
	if req.GazeData == nil {
		req.GazeData = []core.GazeSample{}
	}
	if req.Events == nil {
		req.Events = []event.DomainEvent{}
	}
	if metrics != nil {
		req.Metrics.LevelMetrics = *metrics
	}
	return req
}
