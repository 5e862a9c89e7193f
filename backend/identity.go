package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/focusflow/kv"
)

// Storage keys for identity state
const (
	UserIDKey        = "focusflow_user_id"
	TherapistIDKey   = "focusflow_therapist_id"
	ActiveProfileKey = "focusflow_active_profile"
)

// NewSessionID returns a fresh "session_<uuid>" id
func NewSessionID() string {
	return "session_" + uuid.NewString()
}

// ProfileLister is the part of Client used to validate the active profile
type ProfileLister interface {
	ListProfiles(ctx context.Context, therapistID string) ([]Profile, error)
}

// Identity persists the local user, therapist and active profile in a kv store
type Identity struct {
	store  kv.Store
	logger *zap.Logger
}

func NewIdentity(store kv.Store, logger *zap.Logger) *Identity {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Identity{store: store, logger: logger.Named("Identity")}
}

// UserID returns the stored user id, creating "user_<uuid>" on first use
func (i *Identity) UserID(ctx context.Context) (string, error) {
	return i.getOrCreate(ctx, UserIDKey, "user_")
}

// TherapistID returns the stored therapist id, creating "therapist_<uuid>" on first use
func (i *Identity) TherapistID(ctx context.Context) (string, error) {
	return i.getOrCreate(ctx, TherapistIDKey, "therapist_")
}

func (i *Identity) getOrCreate(ctx context.Context, key, prefix string) (string, error) {
	v, ok, err := i.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if ok && v != "" {
		return v, nil
	}
	v = prefix + uuid.NewString()
	if err := i.store.Set(ctx, key, v); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	i.logger.Info("Created identity", zap.String("key", key), zap.String("id", v))
	return v, nil
}

// ActiveProfile returns the selected profile, nil when none
// An unreadable stored profile is removed and treated as none
func (i *Identity) ActiveProfile(ctx context.Context) (*Profile, error) {
	v, ok, err := i.store.Get(ctx, ActiveProfileKey)
	if err != nil {
		return nil, fmt.Errorf("read active profile: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var p Profile
	if err := json.Unmarshal([]byte(v), &p); err != nil || p.ProfileID == "" {
		i.logger.Warn("Discarding unreadable active profile", zap.Error(err))
		return nil, i.ClearActiveProfile(ctx)
	}
	return &p, nil
}

func (i *Identity) SetActiveProfile(ctx context.Context, p Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := i.store.Set(ctx, ActiveProfileKey, string(b)); err != nil {
		return fmt.Errorf("write active profile: %w", err)
	}
	return nil
}

func (i *Identity) ClearActiveProfile(ctx context.Context) error {
	if err := i.store.Remove(ctx, ActiveProfileKey); err != nil {
		return fmt.Errorf("clear active profile: %w", err)
	}
	return nil
}

// ForgetProfile clears the active profile if it is profileID
func (i *Identity) ForgetProfile(ctx context.Context, profileID string) error {
	p, err := i.ActiveProfile(ctx)
	if err != nil || p == nil || p.ProfileID != profileID {
		return err
	}
	return i.ClearActiveProfile(ctx)
}

// ValidatedActiveProfile returns the active profile only if the backend still lists it
// A profile missing from the backend is cleared; a backend failure keeps the local copy
func (i *Identity) ValidatedActiveProfile(ctx context.Context, lister ProfileLister) (*Profile, error) {
	p, err := i.ActiveProfile(ctx)
	if err != nil || p == nil {
		return p, err
	}
	profiles, err := lister.ListProfiles(ctx, p.TherapistID)
	if err != nil {
		i.logger.Warn("Could not validate active profile, using local copy", zap.Error(err))
		return p, nil
	}
	for _, remote := range profiles {
		if remote.ProfileID == p.ProfileID {
			if err := i.SetActiveProfile(ctx, remote); err != nil {
				return nil, err
			}
			return &remote, nil
		}
	}
	i.logger.Info("Active profile no longer exists", zap.String("profile_id", p.ProfileID))
	return nil, i.ClearActiveProfile(ctx)
}
