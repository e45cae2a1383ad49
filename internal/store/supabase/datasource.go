// Package supabase implements the data-source boundary on top of the
// Supabase client SDK. Row shapes are snake_case PostgREST records; this
// package is the single place where they are mapped to the canonical types.
package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/types"
)

// Table names in the backing Supabase project.
const (
	tableItineraries  = "itineraries"
	tableDays         = "itinerary_days"
	tableActivities   = "activities"
	tableVotes        = "activity_votes"
	tableComments     = "activity_comments"
	tableSharedUsers  = "shared_itineraries"
	tableFavorites    = "user_favorites"
	tableProfiles     = "profiles"
	tableDestinations = "destinations"
)

// Source is the live store.DataSource implementation.
//
// The underlying postgrest builder does not accept a context, so the ctx
// parameters are not threaded into individual requests; cancellation and
// staleness are handled above this layer.
type Source struct {
	client *supa.Client
}

var _ store.DataSource = (*Source)(nil)

// New wraps an initialized Supabase client.
func New(client *supa.Client) *Source {
	return &Source{client: client}
}

func (s *Source) GetItinerary(_ context.Context, id string) (*types.Itinerary, error) {
	var base []itineraryRow
	if _, err := s.client.From(tableItineraries).
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&base); err != nil {
		return nil, fmt.Errorf("select itinerary: %w", err)
	}
	if len(base) == 0 {
		return nil, nil
	}
	itin := base[0].toItinerary()

	var dayRows []dayRow
	if _, err := s.client.From(tableDays).
		Select("*", "", false).
		Eq("itinerary_id", id).
		Order("day_number", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&dayRows); err != nil {
		return nil, fmt.Errorf("select itinerary days: %w", err)
	}

	dayIDs := make([]string, 0, len(dayRows))
	for _, d := range dayRows {
		dayIDs = append(dayIDs, d.ID)
	}

	activitiesByDay, err := s.loadActivities(dayIDs)
	if err != nil {
		return nil, err
	}

	itin.Days = make([]types.Day, 0, len(dayRows))
	for _, d := range dayRows {
		day := d.toDay()
		day.Activities = activitiesByDay[d.ID]
		if day.Activities == nil {
			day.Activities = []types.Activity{}
		}
		itin.Days = append(itin.Days, day)
	}

	var sharedRows []sharedUserRow
	if _, err := s.client.From(tableSharedUsers).
		Select("*", "", false).
		Eq("itinerary_id", id).
		ExecuteTo(&sharedRows); err != nil {
		return nil, fmt.Errorf("select shared users: %w", err)
	}
	for _, r := range sharedRows {
		itin.SharedUsers = append(itin.SharedUsers, r.toSharedUser())
	}

	return itin, nil
}

// loadActivities fetches activities for the given days plus their votes and
// comments, grouped by day id.
func (s *Source) loadActivities(dayIDs []string) (map[string][]types.Activity, error) {
	out := make(map[string][]types.Activity)
	if len(dayIDs) == 0 {
		return out, nil
	}

	var actRows []activityRow
	if _, err := s.client.From(tableActivities).
		Select("*", "", false).
		In("day_id", dayIDs).
		ExecuteTo(&actRows); err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	if len(actRows) == 0 {
		return out, nil
	}

	actIDs := make([]string, 0, len(actRows))
	for _, a := range actRows {
		actIDs = append(actIDs, a.ID)
	}

	var voteRows []voteRow
	if _, err := s.client.From(tableVotes).
		Select("*", "", false).
		In("activity_id", actIDs).
		ExecuteTo(&voteRows); err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}

	var commentRows []commentRow
	if _, err := s.client.From(tableComments).
		Select("*", "", false).
		In("activity_id", actIDs).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&commentRows); err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}

	votesByActivity := make(map[string][]types.Vote)
	for _, v := range voteRows {
		votesByActivity[v.ActivityID] = append(votesByActivity[v.ActivityID], v.toVote())
	}
	commentsByActivity := make(map[string][]types.Comment)
	for _, c := range commentRows {
		commentsByActivity[c.ActivityID] = append(commentsByActivity[c.ActivityID], c.toComment())
	}

	for _, a := range actRows {
		act := a.toActivity()
		act.Votes = votesByActivity[a.ID]
		act.Comments = commentsByActivity[a.ID]
		if act.Votes == nil {
			act.Votes = []types.Vote{}
		}
		if act.Comments == nil {
			act.Comments = []types.Comment{}
		}
		out[a.DayID] = append(out[a.DayID], act)
	}
	return out, nil
}

// ListUserItineraries returns base records only; the nested collections are
// loaded when a single itinerary is opened.
func (s *Source) ListUserItineraries(_ context.Context, userID string) ([]*types.Itinerary, error) {
	var rows []itineraryRow
	if _, err := s.client.From(tableItineraries).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select user itineraries: %w", err)
	}
	out := make([]*types.Itinerary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toItinerary())
	}
	return out, nil
}

func (s *Source) ListSharedItineraries(_ context.Context, userID string) ([]*types.Itinerary, error) {
	var sharedRows []sharedUserRow
	if _, err := s.client.From(tableSharedUsers).
		Select("itinerary_id", "", false).
		Eq("user_id", userID).
		ExecuteTo(&sharedRows); err != nil {
		return nil, fmt.Errorf("select shared links: %w", err)
	}
	if len(sharedRows) == 0 {
		return []*types.Itinerary{}, nil
	}

	ids := make([]string, 0, len(sharedRows))
	for _, r := range sharedRows {
		ids = append(ids, r.ItineraryID)
	}

	var rows []itineraryRow
	if _, err := s.client.From(tableItineraries).
		Select("*", "", false).
		In("id", ids).
		ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select shared itineraries: %w", err)
	}
	out := make([]*types.Itinerary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toItinerary())
	}
	return out, nil
}

func (s *Source) InsertItinerary(_ context.Context, itinerary *types.Itinerary) error {
	if _, _, err := s.client.From(tableItineraries).
		Insert(fromItinerary(itinerary), false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert itinerary: %w", err)
	}
	return nil
}

func (s *Source) UpdateItinerary(_ context.Context, itinerary *types.Itinerary) error {
	if _, _, err := s.client.From(tableItineraries).
		Update(fromItinerary(itinerary), "minimal", "").
		Eq("id", itinerary.ID).
		Execute(); err != nil {
		return fmt.Errorf("update itinerary: %w", err)
	}
	return nil
}

// DeleteItinerary removes the base record; nested rows go with it via the
// schema's ON DELETE CASCADE foreign keys.
func (s *Source) DeleteItinerary(_ context.Context, id string) error {
	if _, _, err := s.client.From(tableItineraries).
		Delete("minimal", "").
		Eq("id", id).
		Execute(); err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	return nil
}

func (s *Source) InsertDay(_ context.Context, day *types.Day) error {
	if _, _, err := s.client.From(tableDays).
		Insert(fromDay(day), false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert day: %w", err)
	}
	return nil
}

func (s *Source) DeleteDay(_ context.Context, id string) error {
	if _, _, err := s.client.From(tableDays).
		Delete("minimal", "").
		Eq("id", id).
		Execute(); err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	return nil
}

func (s *Source) InsertActivity(_ context.Context, activity *types.Activity) error {
	if _, _, err := s.client.From(tableActivities).
		Insert(fromActivity(activity), false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *Source) UpdateActivity(_ context.Context, activity *types.Activity) error {
	if _, _, err := s.client.From(tableActivities).
		Update(fromActivity(activity), "minimal", "").
		Eq("id", activity.ID).
		Execute(); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

func (s *Source) DeleteActivity(_ context.Context, id string) error {
	if _, _, err := s.client.From(tableActivities).
		Delete("minimal", "").
		Eq("id", id).
		Execute(); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

func (s *Source) InsertVote(_ context.Context, vote *types.Vote) error {
	if _, _, err := s.client.From(tableVotes).
		Insert(fromVote(vote), false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (s *Source) UpdateVote(_ context.Context, vote *types.Vote) error {
	if _, _, err := s.client.From(tableVotes).
		Update(fromVote(vote), "minimal", "").
		Eq("id", vote.ID).
		Execute(); err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	return nil
}

func (s *Source) DeleteVote(_ context.Context, id string) error {
	if _, _, err := s.client.From(tableVotes).
		Delete("minimal", "").
		Eq("id", id).
		Execute(); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (s *Source) InsertComment(_ context.Context, comment *types.Comment) error {
	if _, _, err := s.client.From(tableComments).
		Insert(fromComment(comment), false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *Source) InsertSharedUser(_ context.Context, shared *types.SharedUser) error {
	if _, _, err := s.client.From(tableSharedUsers).
		Insert(fromSharedUser(shared), false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert shared user: %w", err)
	}
	return nil
}

func (s *Source) DeleteSharedUser(_ context.Context, id string) error {
	if _, _, err := s.client.From(tableSharedUsers).
		Delete("minimal", "").
		Eq("id", id).
		Execute(); err != nil {
		return fmt.Errorf("delete shared user: %w", err)
	}
	return nil
}

func (s *Source) ListFavorites(_ context.Context, userID string) ([]string, error) {
	var rows []favoriteRow
	if _, err := s.client.From(tableFavorites).
		Select("itinerary_id", "", false).
		Eq("user_id", userID).
		ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItineraryID)
	}
	return ids, nil
}

func (s *Source) InsertFavorite(_ context.Context, userID, itineraryID string) error {
	row := favoriteRow{UserID: userID, ItineraryID: itineraryID}
	if _, _, err := s.client.From(tableFavorites).
		Insert(row, true, "user_id,itinerary_id", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (s *Source) DeleteFavorite(_ context.Context, userID, itineraryID string) error {
	if _, _, err := s.client.From(tableFavorites).
		Delete("minimal", "").
		Eq("user_id", userID).
		Eq("itinerary_id", itineraryID).
		Execute(); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (s *Source) GetPreferences(_ context.Context, userID string) (*types.Preferences, error) {
	var rows []profileRow
	if _, err := s.client.From(tableProfiles).
		Select("id,preferences", "", false).
		Eq("id", userID).
		ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}
	if len(rows) == 0 || rows[0].Preferences == nil {
		return nil, nil
	}
	return rows[0].Preferences, nil
}

func (s *Source) SavePreferences(_ context.Context, userID string, prefs *types.Preferences) error {
	row := profileRow{ID: userID, Preferences: prefs}
	if _, _, err := s.client.From(tableProfiles).
		Insert(row, true, "id", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *Source) ListDestinations(_ context.Context) ([]types.Destination, error) {
	var rows []destinationRow
	if _, err := s.client.From(tableDestinations).
		Select("*", "", false).
		Order("title", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select destinations: %w", err)
	}
	out := make([]types.Destination, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDestination())
	}
	logger.GetLogger().Debugw("Loaded destinations from Supabase", "count", len(out))
	return out, nil
}
