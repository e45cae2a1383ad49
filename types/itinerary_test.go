package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItinerary() *Itinerary {
	return &Itinerary{
		ID:       "itin-1",
		Title:    "Lisbon long weekend",
		Currency: "EUR",
		Days: []Day{
			{
				ID:          "day-1",
				ItineraryID: "itin-1",
				DayNumber:   1,
				Date:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				Activities: []Activity{
					{
						ID:       "act-1",
						DayID:    "day-1",
						Name:     "Tram 28",
						Cost:     decimal.NewFromInt(3),
						Currency: "EUR",
						Category: CategoryTransport,
						Votes:    []Vote{{ID: "v1", ActivityID: "act-1", UserID: "u1", VoteType: VoteUp}},
						Comments: []Comment{{ID: "c1", ActivityID: "act-1", UserID: "u1", Text: "early!"}},
					},
				},
			},
			{
				ID:          "day-2",
				ItineraryID: "itin-1",
				DayNumber:   3,
				Date:        time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
				Activities: []Activity{
					{ID: "act-2", DayID: "day-2", Name: "Belem", Cost: decimal.NewFromInt(12), Currency: "EUR", Category: CategorySightseeing},
				},
			},
		},
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleItinerary()
	clone := orig.Clone()

	clone.Days[0].Activities[0].Name = "changed"
	clone.Days[0].Activities[0].Votes[0].VoteType = VoteDown
	clone.Days = append(clone.Days, Day{ID: "day-9"})

	assert.Equal(t, "Tram 28", orig.Days[0].Activities[0].Name)
	assert.Equal(t, VoteUp, orig.Days[0].Activities[0].Votes[0].VoteType)
	assert.Len(t, orig.Days, 2)
}

func TestCloneNil(t *testing.T) {
	var itin *Itinerary
	assert.Nil(t, itin.Clone())
}

func TestRecomputeTotalCost(t *testing.T) {
	itin := sampleItinerary()
	itin.RecomputeTotalCost()
	assert.True(t, itin.TotalCost.Equal(decimal.NewFromInt(15)), "got %s", itin.TotalCost)

	itin.Days[1].Activities = nil
	itin.RecomputeTotalCost()
	assert.True(t, itin.TotalCost.Equal(decimal.NewFromInt(3)))
}

func TestFindActivityContainment(t *testing.T) {
	itin := sampleItinerary()

	day, act := itin.FindActivity("act-2")
	require.NotNil(t, day)
	require.NotNil(t, act)
	assert.Equal(t, "day-2", day.ID)
	assert.Equal(t, day.ID, act.DayID)

	day, act = itin.FindActivity("missing")
	assert.Nil(t, day)
	assert.Nil(t, act)
}

func TestNextDayNumberSkipsGaps(t *testing.T) {
	itin := sampleItinerary()
	// Day numbers are 1 and 3; the next must not reuse 2 or collide.
	assert.Equal(t, 4, itin.NextDayNumber())

	empty := &Itinerary{}
	assert.Equal(t, 1, empty.NextDayNumber())
}

func TestActivityCategoryIsValid(t *testing.T) {
	assert.True(t, CategoryFood.IsValid())
	assert.True(t, CategoryOther.IsValid())
	assert.False(t, ActivityCategory("nightlife").IsValid())
}

func TestVoteTypeIsValid(t *testing.T) {
	assert.True(t, VoteUp.IsValid())
	assert.True(t, VoteDown.IsValid())
	assert.False(t, VoteType("sideways").IsValid())
}

func TestSharedPermissionIsValid(t *testing.T) {
	assert.True(t, SharedPermissionView.IsValid())
	assert.True(t, SharedPermissionEdit.IsValid())
	assert.False(t, SharedPermission("owner").IsValid())
}
