package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/internal/store/fixture"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/types"
)

func init() {
	logger.IsTest = true
}

func TestFetchPreferencesSeeded(t *testing.T) {
	svc := NewService(fixture.New())

	prefs, err := svc.FetchPreferences(context.Background(), fixture.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"chill"}, prefs.TravelVibe)
	assert.Equal(t, 50, prefs.Budget.Amount)
}

func TestFetchPreferencesDefaultsForNewUser(t *testing.T) {
	svc := NewService(fixture.New())

	prefs, err := svc.FetchPreferences(context.Background(), "brand-new-user")
	require.NoError(t, err)
	assert.Empty(t, prefs.TravelVibe)
	assert.Equal(t, 0, prefs.Budget.Amount)
}

func TestFetchPreferencesRequiresUser(t *testing.T) {
	svc := NewService(fixture.New())

	_, err := svc.FetchPreferences(context.Background(), "")
	assert.True(t, apperrors.IsType(err, apperrors.AuthError))
}

func TestUpdatePreferencesMergesSectionWise(t *testing.T) {
	svc := NewService(fixture.New())
	ctx := context.Background()

	_, err := svc.FetchPreferences(ctx, fixture.UserID)
	require.NoError(t, err)

	merged, err := svc.UpdatePreferences(ctx, fixture.UserID, types.PreferencesUpdate{
		TravelVibe: []string{"chill", "thrill"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"chill", "thrill"}, merged.TravelVibe)
	// Untouched sections survive the merge.
	assert.Equal(t, 50, merged.Budget.Amount)
	assert.Equal(t, []string{"mid_range"}, merged.Budget.Style)
}

func TestUpdatePreferencesLazyLoads(t *testing.T) {
	svc := NewService(fixture.New())

	// No prior fetch; the update loads the stored record first.
	merged, err := svc.UpdatePreferences(context.Background(), fixture.UserID, types.PreferencesUpdate{
		Companions: []string{"partner"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"partner"}, merged.Companions)
	assert.Equal(t, []string{"chill"}, merged.TravelVibe)
}

func TestUpdatePreferencesDedupesTags(t *testing.T) {
	svc := NewService(fixture.New())

	merged, err := svc.UpdatePreferences(context.Background(), fixture.UserID, types.PreferencesUpdate{
		FoodPreferences: []string{"street_food", "street_food", "vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"street_food", "vegan"}, merged.FoodPreferences)
}

func TestUpdatePreferencesRestoresSnapshotOnFailure(t *testing.T) {
	failing := &failingPrefs{PreferenceStore: fixture.New()}
	svc := NewService(failing)
	ctx := context.Background()

	before, err := svc.FetchPreferences(ctx, fixture.UserID)
	require.NoError(t, err)

	failing.fail = true
	_, err = svc.UpdatePreferences(ctx, fixture.UserID, types.PreferencesUpdate{
		TravelVibe: []string{"thrill"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.RemoteError))

	assert.Equal(t, before, svc.Current(), "failed save leaves the cached value as it was")
}

func TestResetPreferences(t *testing.T) {
	svc := NewService(fixture.New())
	ctx := context.Background()

	_, err := svc.FetchPreferences(ctx, fixture.UserID)
	require.NoError(t, err)

	reset, err := svc.ResetPreferences(ctx, fixture.UserID)
	require.NoError(t, err)
	assert.Empty(t, reset.TravelVibe)
	assert.Equal(t, 0, reset.Budget.Amount)

	// The reset is persisted, not just cached.
	again, err := svc.FetchPreferences(ctx, fixture.UserID)
	require.NoError(t, err)
	assert.Empty(t, again.TravelVibe)
}

type failingPrefs struct {
	store.PreferenceStore
	fail bool
}

func (f *failingPrefs) SavePreferences(ctx context.Context, userID string, prefs *types.Preferences) error {
	if f.fail {
		return errors.New("network down")
	}
	return f.PreferenceStore.SavePreferences(ctx, userID, prefs)
}
