package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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

func newFixtureService(t *testing.T) (*Service, *fixture.Source) {
	t.Helper()
	src := fixture.New()
	return NewService(src), src
}

func loadParis(t *testing.T, svc *Service) *types.Itinerary {
	t.Helper()
	itin, err := svc.FetchItinerary(context.Background(), fixture.ItineraryID)
	require.NoError(t, err)
	require.NotNil(t, itin)
	return itin
}

func TestFetchItineraryDerivesTotalCost(t *testing.T) {
	svc, _ := newFixtureService(t)

	itin := loadParis(t, svc)
	// The fixture stores zero; the derived sum over activities is 25.
	assert.True(t, itin.TotalCost.Equal(decimal.NewFromInt(25)), "got %s", itin.TotalCost)
	assert.Len(t, itin.Days, 2)
}

func TestFetchItineraryMissingIsNotAnError(t *testing.T) {
	svc, _ := newFixtureService(t)

	itin, err := svc.FetchItinerary(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, itin)
}

func TestFetchItineraryEmptyID(t *testing.T) {
	svc, _ := newFixtureService(t)

	_, err := svc.FetchItinerary(context.Background(), "")
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func TestDeleteActivityRecomputesCost(t *testing.T) {
	svc, _ := newFixtureService(t)
	loadParis(t, svc)

	next, err := svc.DeleteActivity(context.Background(), "mock-activity-1")
	require.NoError(t, err)
	assert.True(t, next.TotalCost.IsZero(), "deleting the only paid activity zeroes the total, got %s", next.TotalCost)
}

func TestAddActivityCostInvariantAndContainment(t *testing.T) {
	svc, _ := newFixtureService(t)
	loadParis(t, svc)

	next, err := svc.AddActivity(context.Background(), "mock-day-2", types.Activity{
		Name:     "Dinner at Le Comptoir",
		Cost:     decimal.NewFromInt(40),
		Currency: "EUR",
		Category: types.CategoryFood,
	})
	require.NoError(t, err)
	assert.True(t, next.TotalCost.Equal(decimal.NewFromInt(65)))

	assertContainment(t, next)
}

func TestUpdateActivityCost(t *testing.T) {
	svc, _ := newFixtureService(t)
	loadParis(t, svc)

	cost := decimal.NewFromInt(30)
	next, err := svc.UpdateActivity(context.Background(), "mock-activity-1", types.ActivityUpdate{Cost: &cost})
	require.NoError(t, err)
	assert.True(t, next.TotalCost.Equal(decimal.NewFromInt(30)))

	negative := decimal.NewFromInt(-5)
	_, err = svc.UpdateActivity(context.Background(), "mock-activity-1", types.ActivityUpdate{Cost: &negative})
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func assertContainment(t *testing.T, itin *types.Itinerary) {
	t.Helper()
	seen := map[string]string{}
	for _, day := range itin.Days {
		for _, act := range day.Activities {
			assert.Equal(t, day.ID, act.DayID)
			if prev, dup := seen[act.ID]; dup {
				t.Fatalf("activity %s appears in both day %s and day %s", act.ID, prev, day.ID)
			}
			seen[act.ID] = day.ID
		}
	}
}

func TestAddDayUsesNextFreeNumber(t *testing.T) {
	svc, _ := newFixtureService(t)
	loadParis(t, svc)

	next, err := svc.DeleteDay(context.Background(), "mock-day-1")
	require.NoError(t, err)
	require.Len(t, next.Days, 1)

	next, err = svc.AddDay(context.Background(), next.Days[0].Date.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, next.Days, 2)
	// Day 2 survives, so the gap left by day 1 is not reused.
	assert.Equal(t, 3, next.Days[1].DayNumber)
}

func TestSubmitVoteToggleOff(t *testing.T) {
	svc, _ := newFixtureService(t)
	loadParis(t, svc)

	ctx := context.Background()

	next, err := svc.SubmitVote(ctx, "mock-activity-1", fixture.UserID, types.VoteUp)
	require.NoError(t, err)
	assert.Len(t, votesFor(next, "mock-activity-1", fixture.UserID), 1)

	// Same type again removes the vote entirely.
	next, err = svc.SubmitVote(ctx, "mock-activity-1", fixture.UserID, types.VoteUp)
	require.NoError(t, err)
	assert.Empty(t, votesFor(next, "mock-activity-1", fixture.UserID))
}

func TestSubmitVoteReplacesDifferentType(t *testing.T) {
	svc, _ := newFixtureService(t)
	loadParis(t, svc)

	ctx := context.Background()

	next, err := svc.SubmitVote(ctx, "mock-activity-1", fixture.UserID, types.VoteUp)
	require.NoError(t, err)

	next, err = svc.SubmitVote(ctx, "mock-activity-1", fixture.UserID, types.VoteDown)
	require.NoError(t, err)

	mine := votesFor(next, "mock-activity-1", fixture.UserID)
	require.Len(t, mine, 1)
	assert.Equal(t, types.VoteDown, mine[0].VoteType)

	// Sam's seeded vote is untouched throughout.
	assert.Len(t, votesFor(next, "mock-activity-1", fixture.OtherUserID), 1)
}

func votesFor(itin *types.Itinerary, activityID, userID string) []types.Vote {
	_, act := itin.FindActivity(activityID)
	var out []types.Vote
	for _, v := range act.Votes {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	_, err := svc.FetchFavorites(ctx, fixture.UserID)
	require.NoError(t, err)
	before := svc.Favorites()

	on, err := svc.ToggleFavorite(ctx, fixture.UserID, fixture.ItineraryID)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.ToggleFavorite(ctx, fixture.UserID, fixture.ItineraryID)
	require.NoError(t, err)
	assert.False(t, on)

	assert.Equal(t, before, svc.Favorites(), "two toggles restore original membership")
}

func TestToggleFavoriteRevertsOnRemoteFailure(t *testing.T) {
	failing := &failingFavorites{DataSource: fixture.New()}
	svc := NewService(failing)
	ctx := context.Background()

	_, err := svc.FetchFavorites(ctx, fixture.UserID)
	require.NoError(t, err)
	before := svc.Favorites()

	failing.fail = true
	_, err = svc.ToggleFavorite(ctx, fixture.UserID, fixture.ItineraryID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.RemoteError))

	assert.Equal(t, before, svc.Favorites(), "failed toggle restores the snapshot")
}

func TestSearchDestinations(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	upper, err := svc.SearchDestinations(ctx, "PARIS")
	require.NoError(t, err)
	lower, err := svc.SearchDestinations(ctx, "paris")
	require.NoError(t, err)
	assert.Equal(t, upper, lower, "matching is case-insensitive")
	require.NotEmpty(t, upper)
	assert.Equal(t, "Paris", upper[0].Title)

	again, err := svc.SearchDestinations(ctx, "paris")
	require.NoError(t, err)
	assert.Equal(t, lower, again, "same query, same results")

	none, err := svc.SearchDestinations(ctx, "atlantis-under-the-sea")
	require.NoError(t, err)
	assert.Empty(t, none)

	byTag, err := svc.SearchDestinations(ctx, "coastal")
	require.NoError(t, err)
	require.NotEmpty(t, byTag)
	assert.Equal(t, "Lisbon", byTag[0].Title)
}

func TestConcurrentFetchNewestWins(t *testing.T) {
	src := &gatedSource{
		DataSource: fixture.New(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := NewService(src)
	ctx := context.Background()

	firstDone := make(chan *types.Itinerary, 1)
	go func() {
		itin, err := svc.FetchItinerary(ctx, fixture.ItineraryID)
		assert.NoError(t, err)
		firstDone <- itin
	}()
	<-src.entered

	// A second fetch for a different id resolves while the first is stalled.
	itin2, err := svc.FetchItinerary(ctx, "mock-itinerary-456")
	require.NoError(t, err)
	require.NotNil(t, itin2)

	close(src.release)
	itin1 := <-firstDone

	// The stale caller still gets its value back.
	require.NotNil(t, itin1)
	assert.Equal(t, fixture.ItineraryID, itin1.ID)

	// But the aggregate store kept the newer request's result.
	cur := svc.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "mock-itinerary-456", cur.ID)
}

func TestMutateWithoutLoadedItinerary(t *testing.T) {
	svc, _ := newFixtureService(t)

	_, err := svc.AddDay(context.Background(), fixtureDate())
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func TestCreateItinerary(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	draft := &types.Itinerary{
		Title:    "Berlin Long Weekend",
		Currency: "EUR",
		Days: []types.Day{
			{Date: fixtureDate(), Activities: []types.Activity{
				{Name: "Museum Island", Cost: decimal.NewFromInt(19), Currency: "EUR", Category: types.CategorySightseeing},
			}},
		},
	}

	created, err := svc.CreateItinerary(ctx, fixture.UserID, draft)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixture.UserID, created.UserID)
	assert.True(t, created.TotalCost.Equal(decimal.NewFromInt(19)))
	require.Len(t, created.Days, 1)
	assert.Equal(t, 1, created.Days[0].DayNumber)
	assert.Equal(t, created.ID, created.Days[0].ItineraryID)
	assertContainment(t, created)

	fetched, err := svc.FetchItinerary(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Berlin Long Weekend", fetched.Title)
}

func TestCreateItineraryRequiresUser(t *testing.T) {
	svc, _ := newFixtureService(t)

	_, err := svc.CreateItinerary(context.Background(), "", &types.Itinerary{Title: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.AuthError))
}

func TestDeleteItineraryClearsCurrent(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()
	loadParis(t, svc)

	require.NoError(t, svc.DeleteItinerary(ctx, fixture.ItineraryID))
	assert.Nil(t, svc.Current())

	itin, err := svc.FetchItinerary(ctx, fixture.ItineraryID)
	require.NoError(t, err)
	assert.Nil(t, itin)
}

func TestSharedUserLifecycle(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()
	loadParis(t, svc)

	next, err := svc.AddSharedUser(ctx, "friend@example.com", types.SharedPermissionEdit, fixture.UserID)
	require.NoError(t, err)
	require.Len(t, next.SharedUsers, 2)
	added := next.SharedUsers[1]
	assert.Equal(t, types.PendingInviteUserID, added.UserID)
	assert.True(t, next.IsShared)

	next, err = svc.RemoveSharedUser(ctx, added.ID)
	require.NoError(t, err)
	assert.Len(t, next.SharedUsers, 1)

	_, err = svc.AddSharedUser(ctx, "friend@example.com", "admin", fixture.UserID)
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func TestAddActivityComment(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()
	loadParis(t, svc)

	next, err := svc.AddActivityComment(ctx, "mock-activity-2", fixture.UserID, "Alex", "Bring a picnic blanket")
	require.NoError(t, err)
	_, act := next.FindActivity("mock-activity-2")
	require.Len(t, act.Comments, 1)
	assert.Equal(t, "Alex", act.Comments[0].AuthorName)

	_, err = svc.AddActivityComment(ctx, "mock-activity-2", fixture.UserID, "Alex", "")
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func TestListScopesFailClosed(t *testing.T) {
	svc, _ := newFixtureService(t)

	own, err := svc.FetchUserItineraries(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, own)

	shared, err := svc.FetchSharedItineraries(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, shared)
}

func TestFetchSharedItineraries(t *testing.T) {
	svc, _ := newFixtureService(t)

	shared, err := svc.FetchSharedItineraries(context.Background(), fixture.UserID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "mock-itinerary-789", shared[0].ID)
}

func fixtureDate() time.Time {
	return time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC)
}

// failingFavorites wraps a data source and fails favorite writes on demand.
type failingFavorites struct {
	store.DataSource
	fail bool
}

func (f *failingFavorites) InsertFavorite(ctx context.Context, userID, itineraryID string) error {
	if f.fail {
		return errors.New("network down")
	}
	return f.DataSource.InsertFavorite(ctx, userID, itineraryID)
}

func (f *failingFavorites) DeleteFavorite(ctx context.Context, userID, itineraryID string) error {
	if f.fail {
		return errors.New("network down")
	}
	return f.DataSource.DeleteFavorite(ctx, userID, itineraryID)
}

// gatedSource stalls the first GetItinerary for the Paris fixture until
// released, so tests can interleave a competing fetch.
type gatedSource struct {
	store.DataSource
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSource) GetItinerary(ctx context.Context, id string) (*types.Itinerary, error) {
	if id == fixture.ItineraryID {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	return g.DataSource.GetItinerary(ctx, id)
}
