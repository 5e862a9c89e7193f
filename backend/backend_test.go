package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/kv"
)

func TestClientSubmitSession(t *testing.T) {
	var got SubmitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submit-session", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(SubmitResponse{Message: "ok", S3Key: "sessions/u/s_1.json", SessionID: got.SessionID})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", 0, nil)
	id := "blue1"
	s := core.SessionData{
		Level:     core.Level1,
		StartTime: 1_000,
		EndTime:   61_000,
		GazeData: []core.GazeSample{
			{Timestamp: 1_100, GazeX: 10, GazeY: 10, ObjectID: &id, ObjectX: 12, ObjectY: 12},
			{Timestamp: 1_200, GazeX: 500, GazeY: 500},
		},
		Events: []event.DomainEvent{event.New(1_500, event.ObjectFollowedPayload{ObjectID: id, DurationMs: 2000})},
	}
	weight := 30.5
	req := BuildSubmission("user_1", "session_1", s, Profile{ProfileID: "FOC-001", Name: "Ana", Age: 8, Gender: GenderFemale, Weight: &weight}, &core.LevelMetrics{ObjectsFollowed: core.IntPtr(1)})

	resp, err := c.SubmitSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "session_1", resp.SessionID)

	assert.Equal(t, "FOC-001", got.ProfileID)
	assert.Equal(t, 60, got.SessionDuration)
	assert.Equal(t, "1970-01-01T00:01:01.000Z", got.DatePlayed)
	assert.Equal(t, 2, got.Metrics.TotalGazePoints)
	assert.Equal(t, 1, got.Metrics.AccurateGazes)
	assert.Equal(t, 50, got.Metrics.AccuracyPercentage)
	require.NotNil(t, got.Metrics.ObjectsFollowed)
	assert.Equal(t, 1, *got.Metrics.ObjectsFollowed)
	require.Len(t, got.Events, 1)
	assert.Equal(t, event.ObjectFollowedPayload{ObjectID: id, DurationMs: 2000}, got.Events[0].Data)
	require.NotNil(t, got.ProfileWeight)
	assert.Nil(t, got.ProfileHeight)
}

func TestSubmitMetricsAreFlat(t *testing.T) {
	req := BuildSubmission("u", "s", core.SessionData{Level: core.Level2}, Profile{}, &core.LevelMetrics{TotalCollisions: core.IntPtr(3)})
	b, err := json.Marshal(req.Metrics)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalGazePoints":0,"accurateGazes":0,"accuracyPercentage":0,"totalCollisions":3}`, string(b))

	b, err = json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"gazeData":[]`)
	assert.Contains(t, string(b), `"events":[]`)
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Age must be between 3 and 18"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0, nil).CreateProfile(context.Background(), ProfileInput{TherapistID: "t", Name: "x", Age: 2})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Age must be between 3 and 18", apiErr.Code)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestClientErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 0, nil).DeleteProfile(context.Background(), "t", "FOC-001")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Contains(t, err.Error(), "Bad Gateway")
}

func TestClientPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		switch {
		case strings.HasPrefix(r.URL.Path, "/reports/"):
			_ = json.NewEncoder(w).Encode(ReportsResponse{UserID: "u", Reports: []Report{{SessionID: "s"}}, Count: 1})
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(ProfilesResponse{Profiles: []Profile{{ProfileID: "FOC-001"}}, Count: 1})
		default:
			_ = json.NewEncoder(w).Encode(DeleteProfileResponse{Message: "ok"})
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, 0, nil)
	ctx := context.Background()

	profiles, err := c.ListProfiles(ctx, "therapist_a b")
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	reports, err := c.ListReports(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	require.NoError(t, c.DeleteProfile(ctx, "t", "FOC-001"))

	assert.Equal(t, []string{
		"GET /profiles/therapist_a%20b",
		"GET /reports/user_1",
		"DELETE /profiles/t/FOC-001",
	}, paths)
}

func TestIdentityIDsAreStable(t *testing.T) {
	ctx := context.Background()
	id := NewIdentity(kv.NewMemory(), nil)

	u1, err := id.UserID(ctx)
	require.NoError(t, err)
	u2, err := id.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
	assert.True(t, strings.HasPrefix(u1, "user_"))

	th, err := id.TherapistID(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(th, "therapist_"))
	assert.NotEqual(t, NewSessionID(), NewSessionID())
	assert.True(t, strings.HasPrefix(NewSessionID(), "session_"))
}

type fakeLister struct {
	profiles []Profile
	err      error
}

func (f fakeLister) ListProfiles(context.Context, string) ([]Profile, error) {
	return f.profiles, f.err
}

func TestActiveProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	id := NewIdentity(store, nil)

	p, err := id.ActiveProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	ana := Profile{ProfileID: "FOC-001", TherapistID: "t", Name: "Ana", Age: 8}
	require.NoError(t, id.SetActiveProfile(ctx, ana))

	p, err = id.ActiveProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, ana, *p)

	require.NoError(t, id.ForgetProfile(ctx, "FOC-002"))
	p, _ = id.ActiveProfile(ctx)
	assert.NotNil(t, p, "other profile deleted")

	require.NoError(t, id.ForgetProfile(ctx, "FOC-001"))
	p, _ = id.ActiveProfile(ctx)
	assert.Nil(t, p)
}

func TestActiveProfileCorruptIsCleared(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, ActiveProfileKey, "{broken"))

	p, err := NewIdentity(store, nil).ActiveProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	_, ok, _ := store.Get(ctx, ActiveProfileKey)
	assert.False(t, ok)
}

func TestValidatedActiveProfile(t *testing.T) {
	ctx := context.Background()
	ana := Profile{ProfileID: "FOC-001", TherapistID: "t", Name: "Ana", Age: 8}

	t.Run("refreshed from backend", func(t *testing.T) {
		id := NewIdentity(kv.NewMemory(), nil)
		require.NoError(t, id.SetActiveProfile(ctx, ana))
		renamed := ana
		renamed.Name = "Ana B"
		p, err := id.ValidatedActiveProfile(ctx, fakeLister{profiles: []Profile{renamed}})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Ana B", p.Name)
	})

	t.Run("deleted remotely", func(t *testing.T) {
		id := NewIdentity(kv.NewMemory(), nil)
		require.NoError(t, id.SetActiveProfile(ctx, ana))
		p, err := id.ValidatedActiveProfile(ctx, fakeLister{})
		require.NoError(t, err)
		assert.Nil(t, p)
		p, _ = id.ActiveProfile(ctx)
		assert.Nil(t, p)
	})

	t.Run("backend down keeps local", func(t *testing.T) {
		id := NewIdentity(kv.NewMemory(), nil)
		require.NoError(t, id.SetActiveProfile(ctx, ana))
		p, err := id.ValidatedActiveProfile(ctx, fakeLister{err: errors.New("offline")})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "FOC-001", p.ProfileID)
	})
}
