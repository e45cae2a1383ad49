// Package fixture provides a deterministic in-memory data source so every
// read and write path can run without a backend. The seed data never varies
// between runs; writes mutate process-local state only.
package fixture

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/types"
)

// Well-known fixture ids used across the app and its tests.
const (
	ItineraryID = "mock-itinerary-123"
	UserID      = "mock-user-1"
	OtherUserID = "mock-user-2"
)

// Source is the fixture-backed store.DataSource implementation.
type Source struct {
	mu           sync.RWMutex
	itineraries  map[string]*types.Itinerary
	order        []string // insertion order for stable listings
	favorites    map[string]map[string]struct{}
	preferences  map[string]*types.Preferences
	destinations []types.Destination
}

var _ store.DataSource = (*Source)(nil)

// New returns a Source seeded with the canned itineraries, destination list
// and preferences.
func New() *Source {
	s := &Source{
		itineraries: make(map[string]*types.Itinerary),
		favorites:   make(map[string]map[string]struct{}),
		preferences: make(map[string]*types.Preferences),
	}
	for _, itin := range seedItineraries() {
		s.itineraries[itin.ID] = itin
		s.order = append(s.order, itin.ID)
	}
	s.destinations = seedDestinations()
	s.preferences[UserID] = &types.Preferences{
		TravelVibe:      []string{"chill"},
		Companions:      []string{},
		TripPurpose:     []string{},
		FoodPreferences: []string{},
		TechComfort:     []string{},
		Budget:          types.BudgetPreference{Amount: 50, Style: []string{"mid_range"}},
	}
	return s
}

func (s *Source) GetItinerary(_ context.Context, id string) (*types.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itin, ok := s.itineraries[id]
	if !ok {
		return nil, nil
	}
	return itin.Clone(), nil
}

func (s *Source) ListUserItineraries(_ context.Context, userID string) ([]*types.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Itinerary
	for _, id := range s.order {
		if itin := s.itineraries[id]; itin != nil && itin.UserID == userID {
			out = append(out, itin.Clone())
		}
	}
	return out, nil
}

func (s *Source) ListSharedItineraries(_ context.Context, userID string) ([]*types.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Itinerary
	for _, id := range s.order {
		itin := s.itineraries[id]
		if itin == nil || itin.UserID == userID {
			continue
		}
		for _, su := range itin.SharedUsers {
			if su.UserID == userID {
				out = append(out, itin.Clone())
				break
			}
		}
	}
	return out, nil
}

func (s *Source) InsertItinerary(_ context.Context, itinerary *types.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itineraries[itinerary.ID] = itinerary.Clone()
	s.order = append(s.order, itinerary.ID)
	return nil
}

// UpdateItinerary replaces the stored aggregate. The live source only
// rewrites the base row, but the fixture always receives the whole aggregate
// from the service so a full swap keeps the canned state consistent.
func (s *Source) UpdateItinerary(_ context.Context, itinerary *types.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.itineraries[itinerary.ID]; !ok {
		return store.ErrNotFound
	}
	s.itineraries[itinerary.ID] = itinerary.Clone()
	return nil
}

func (s *Source) DeleteItinerary(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.itineraries[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.itineraries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Source) InsertDay(_ context.Context, day *types.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	itin, ok := s.itineraries[day.ItineraryID]
	if !ok {
		return store.ErrNotFound
	}
	itin.Days = append(itin.Days, *day)
	return nil
}

func (s *Source) DeleteDay(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, itin := range s.itineraries {
		for i := range itin.Days {
			if itin.Days[i].ID == id {
				itin.Days = append(itin.Days[:i], itin.Days[i+1:]...)
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func (s *Source) InsertActivity(_ context.Context, activity *types.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.findDay(activity.DayID)
	if day == nil {
		return store.ErrNotFound
	}
	day.Activities = append(day.Activities, *activity)
	return nil
}

func (s *Source) UpdateActivity(_ context.Context, activity *types.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, act := s.findActivity(activity.ID)
	if act == nil {
		return store.ErrNotFound
	}
	*act = *activity
	return nil
}

func (s *Source) DeleteActivity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, itin := range s.itineraries {
		for di := range itin.Days {
			day := &itin.Days[di]
			for ai := range day.Activities {
				if day.Activities[ai].ID == id {
					day.Activities = append(day.Activities[:ai], day.Activities[ai+1:]...)
					return nil
				}
			}
		}
	}
	return store.ErrNotFound
}

func (s *Source) InsertVote(_ context.Context, vote *types.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, act := s.findActivity(vote.ActivityID)
	if act == nil {
		return store.ErrNotFound
	}
	act.Votes = append(act.Votes, *vote)
	return nil
}

func (s *Source) UpdateVote(_ context.Context, vote *types.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, itin := range s.itineraries {
		for di := range itin.Days {
			for ai := range itin.Days[di].Activities {
				act := &itin.Days[di].Activities[ai]
				for vi := range act.Votes {
					if act.Votes[vi].ID == vote.ID {
						act.Votes[vi] = *vote
						return nil
					}
				}
			}
		}
	}
	return store.ErrNotFound
}

func (s *Source) DeleteVote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, itin := range s.itineraries {
		for di := range itin.Days {
			for ai := range itin.Days[di].Activities {
				act := &itin.Days[di].Activities[ai]
				for vi := range act.Votes {
					if act.Votes[vi].ID == id {
						act.Votes = append(act.Votes[:vi], act.Votes[vi+1:]...)
						return nil
					}
				}
			}
		}
	}
	return store.ErrNotFound
}

func (s *Source) InsertComment(_ context.Context, comment *types.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, act := s.findActivity(comment.ActivityID)
	if act == nil {
		return store.ErrNotFound
	}
	act.Comments = append(act.Comments, *comment)
	return nil
}

func (s *Source) InsertSharedUser(_ context.Context, shared *types.SharedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	itin, ok := s.itineraries[shared.ItineraryID]
	if !ok {
		return store.ErrNotFound
	}
	itin.SharedUsers = append(itin.SharedUsers, *shared)
	itin.IsShared = true
	return nil
}

func (s *Source) DeleteSharedUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, itin := range s.itineraries {
		for i := range itin.SharedUsers {
			if itin.SharedUsers[i].ID == id {
				itin.SharedUsers = append(itin.SharedUsers[:i], itin.SharedUsers[i+1:]...)
				itin.IsShared = len(itin.SharedUsers) > 0
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func (s *Source) ListFavorites(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.favorites[userID]))
	for id := range s.favorites[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Source) InsertFavorite(_ context.Context, userID, itineraryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favorites[userID] == nil {
		s.favorites[userID] = make(map[string]struct{})
	}
	s.favorites[userID][itineraryID] = struct{}{}
	return nil
}

func (s *Source) DeleteFavorite(_ context.Context, userID, itineraryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites[userID], itineraryID)
	return nil
}

func (s *Source) GetPreferences(_ context.Context, userID string) (*types.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.preferences[userID]
	if !ok {
		return nil, nil
	}
	return prefs.Clone(), nil
}

func (s *Source) SavePreferences(_ context.Context, userID string, prefs *types.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[userID] = prefs.Clone()
	return nil
}

func (s *Source) ListDestinations(_ context.Context) ([]types.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Destination(nil), s.destinations...), nil
}

// findDay and findActivity walk the canned aggregates. Callers hold s.mu.
func (s *Source) findDay(dayID string) *types.Day {
	for _, itin := range s.itineraries {
		for di := range itin.Days {
			if itin.Days[di].ID == dayID {
				return &itin.Days[di]
			}
		}
	}
	return nil
}

func (s *Source) findActivity(activityID string) (*types.Day, *types.Activity) {
	for _, itin := range s.itineraries {
		if day, act := itin.FindActivity(activityID); act != nil {
			return day, act
		}
	}
	return nil, nil
}

func seedItineraries() []*types.Itinerary {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	overview := "Mild spring days with a chance of showers late in the week."

	paris := &types.Itinerary{
		ID:          ItineraryID,
		Title:       "Paris in Bloom",
		Description: "Four relaxed days across the left bank, with time for museums and long lunches.",
		ImageURL:    "https://images.example.com/paris.jpg",
		// TotalCost deliberately left at zero; the aggregate store derives it.
		Currency:        "EUR",
		UserID:          UserID,
		CreatedAt:       created,
		UpdatedAt:       created,
		IsPrivate:       true,
		Days:            parisDays(),
		WeatherOverview: &overview,
		Weather: []types.WeatherDay{
			{Date: time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC), Condition: "sunny", TempHighC: 18, TempLowC: 9, Icon: "sun"},
			{Date: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), Condition: "cloudy", TempHighC: 15, TempLowC: 8, Icon: "cloud"},
		},
		TripHighlights:         []string{"Musée d'Orsay", "Luxembourg Gardens picnic"},
		GeneralTips:            []string{"Buy museum tickets online", "Carry a metro carnet"},
		PackingRecommendations: []string{"Light rain jacket", "Comfortable walking shoes"},
		Warnings: []types.TravelWarning{
			{ID: "warn-1", Title: "Pickpockets", Message: "Watch belongings on line 1 and at Montmartre.", Severity: "low"},
		},
		SharedUsers: []types.SharedUser{
			{
				ID:          "shared-1",
				ItineraryID: ItineraryID,
				UserID:      OtherUserID,
				Email:       "sam@example.com",
				Permission:  types.SharedPermissionView,
				CreatedAt:   created,
				CreatedBy:   UserID,
			},
		},
	}

	kyoto := &types.Itinerary{
		ID:          "mock-itinerary-456",
		Title:       "Kyoto Temples",
		Description: "Autumn colors and quiet mornings.",
		Currency:    "JPY",
		UserID:      UserID,
		CreatedAt:   created.AddDate(0, 0, -30),
		UpdatedAt:   created.AddDate(0, 0, -30),
		IsCompleted: true,
		Days:        []types.Day{},
	}

	lisbon := &types.Itinerary{
		ID:          "mock-itinerary-789",
		Title:       "Lisbon Weekend",
		Description: "Shared plan from Sam.",
		Currency:    "EUR",
		UserID:      OtherUserID,
		CreatedAt:   created.AddDate(0, 0, -7),
		UpdatedAt:   created.AddDate(0, 0, -7),
		IsShared:    true,
		Days:        []types.Day{},
		SharedUsers: []types.SharedUser{
			{
				ID:          "shared-2",
				ItineraryID: "mock-itinerary-789",
				UserID:      UserID,
				Email:       "mock@example.com",
				Permission:  types.SharedPermissionEdit,
				CreatedAt:   created.AddDate(0, 0, -7),
				CreatedBy:   OtherUserID,
			},
		},
	}

	return []*types.Itinerary{paris, kyoto, lisbon}
}

func parisDays() []types.Day {
	return []types.Day{
		{
			ID:          "mock-day-1",
			ItineraryID: ItineraryID,
			DayNumber:   1,
			Date:        time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC),
			Activities: []types.Activity{
				{
					ID:          "mock-activity-1",
					DayID:       "mock-day-1",
					Name:        "Musée d'Orsay",
					TimeOfDay:   "morning",
					Description: "Impressionist wing first, before the crowds.",
					Location:    "1 Rue de la Légion d'Honneur",
					Cost:        decimal.NewFromInt(25),
					Currency:    "EUR",
					Category:    types.CategorySightseeing,
					Icon:        "museum",
					Votes: []types.Vote{
						{
							ID:         "mock-vote-1",
							ActivityID: "mock-activity-1",
							UserID:     OtherUserID,
							VoteType:   types.VoteUp,
							CreatedAt:  time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
						},
					},
					Comments: []types.Comment{
						{
							ID:         "mock-comment-1",
							ActivityID: "mock-activity-1",
							UserID:     OtherUserID,
							Text:       "Get there right at opening!",
							AuthorName: "Sam",
							CreatedAt:  time.Date(2026, 3, 11, 10, 5, 0, 0, time.UTC),
						},
					},
				},
			},
		},
		{
			ID:          "mock-day-2",
			ItineraryID: ItineraryID,
			DayNumber:   2,
			Date:        time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
			Activities: []types.Activity{
				{
					ID:          "mock-activity-2",
					DayID:       "mock-day-2",
					Name:        "Seine riverside walk",
					TimeOfDay:   "afternoon",
					Description: "Pont Neuf to Pont Alexandre III.",
					Location:    "Quai de Conti",
					Cost:        decimal.Zero,
					Currency:    "EUR",
					Category:    types.CategoryOther,
					Icon:        "walk",
				},
			},
		},
	}
}

func seedDestinations() []types.Destination {
	return []types.Destination{
		{ID: "dest-1", Title: "Paris", Location: "France", Description: "Museums, cafés and riverside walks.", Tags: []string{"culture", "food", "romantic"}, Rating: 4.8},
		{ID: "dest-2", Title: "Kyoto", Location: "Japan", Description: "Temples, gardens and tea houses.", Tags: []string{"culture", "nature", "quiet"}, Rating: 4.9},
		{ID: "dest-3", Title: "Lisbon", Location: "Portugal", Description: "Hills, tiles and pastel de nata.", Tags: []string{"food", "coastal", "budget"}, Rating: 4.6},
		{ID: "dest-4", Title: "Reykjavik", Location: "Iceland", Description: "Gateway to waterfalls and northern lights.", Tags: []string{"nature", "adventure"}, Rating: 4.5},
		{ID: "dest-5", Title: "Marrakech", Location: "Morocco", Description: "Souks, riads and desert day trips.", Tags: []string{"markets", "adventure", "food"}, Rating: 4.4},
		{ID: "dest-6", Title: "Queenstown", Location: "New Zealand", Description: "Bungee jumps and alpine lakes.", Tags: []string{"adventure", "nature", "thrill"}, Rating: 4.7},
	}
}
