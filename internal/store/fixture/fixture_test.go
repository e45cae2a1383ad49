package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/types"
)

func TestSeedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := New().GetItinerary(ctx, ItineraryID)
	require.NoError(t, err)
	b, err := New().GetItinerary(ctx, ItineraryID)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSeedShape(t *testing.T) {
	ctx := context.Background()
	itin, err := New().GetItinerary(ctx, ItineraryID)
	require.NoError(t, err)
	require.NotNil(t, itin)

	require.Len(t, itin.Days, 2)
	assert.True(t, itin.TotalCost.IsZero(), "fixture leaves total cost unset")

	// Containment: every activity's day id matches its containing day.
	for _, day := range itin.Days {
		for _, act := range day.Activities {
			assert.Equal(t, day.ID, act.DayID)
		}
	}
}

func TestGetItineraryMissingReturnsNil(t *testing.T) {
	itin, err := New().GetItinerary(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, itin)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	src := New()

	first, err := src.GetItinerary(ctx, ItineraryID)
	require.NoError(t, err)
	first.Days[0].Activities[0].Name = "tampered"

	second, err := src.GetItinerary(ctx, ItineraryID)
	require.NoError(t, err)
	assert.Equal(t, "Musée d'Orsay", second.Days[0].Activities[0].Name)
}

func TestListUserAndSharedItineraries(t *testing.T) {
	ctx := context.Background()
	src := New()

	owned, err := src.ListUserItineraries(ctx, UserID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	shared, err := src.ListSharedItineraries(ctx, UserID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "mock-itinerary-789", shared[0].ID)
}

func TestWritesMutateState(t *testing.T) {
	ctx := context.Background()
	src := New()

	require.NoError(t, src.InsertComment(ctx, &types.Comment{
		ID:         "c-new",
		ActivityID: "mock-activity-2",
		UserID:     UserID,
		Text:       "bring a picnic",
		AuthorName: "Mock",
	}))

	itin, err := src.GetItinerary(ctx, ItineraryID)
	require.NoError(t, err)
	_, act := itin.FindActivity("mock-activity-2")
	require.NotNil(t, act)
	require.Len(t, act.Comments, 1)
	assert.Equal(t, "bring a picnic", act.Comments[0].Text)

	err = src.DeleteActivity(ctx, "missing-activity")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := New()

	require.NoError(t, src.InsertFavorite(ctx, UserID, ItineraryID))
	ids, err := src.ListFavorites(ctx, UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{ItineraryID}, ids)

	require.NoError(t, src.DeleteFavorite(ctx, UserID, ItineraryID))
	ids, err = src.ListFavorites(ctx, UserID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDestinationsSeeded(t *testing.T) {
	dests, err := New().ListDestinations(context.Background())
	require.NoError(t, err)
	assert.Len(t, dests, 6)
}
