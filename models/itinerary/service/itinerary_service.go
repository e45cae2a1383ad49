// Package service implements the itinerary aggregate store: the single
// source of truth for the itinerary currently being viewed or edited, plus
// the user-scoped list views. All mutations go through here; nothing else in
// the app is allowed to rewrite itinerary state.
package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/types"
)

// Service holds the current itinerary aggregate and its list views. It is an
// injectable state container: construct one per session or test instead of
// sharing process-wide state. Safe for concurrent use.
type Service struct {
	store store.DataSource
	log   *zap.SugaredLogger

	// fetchSeq tags every FetchItinerary call; a resolved fetch only lands
	// if no newer fetch has been issued since.
	fetchSeq uint64

	mu                sync.Mutex
	current           *types.Itinerary
	userItineraries   []*types.Itinerary
	sharedItineraries []*types.Itinerary
	favorites         map[string]struct{}
	destinations      []types.Destination
}

// NewService creates an itinerary aggregate store over the given data source.
func NewService(dataSource store.DataSource) *Service {
	return &Service{
		store: dataSource,
		log:   logger.GetLogger(),
	}
}

// FetchItinerary loads one itinerary with all nested collections and makes
// it the current aggregate. A missing id resolves to nil, nil ("not found",
// not a failure). When fetches race, the response belonging to the newest
// issued request wins; older responses are returned to their callers but do
// not overwrite the current aggregate.
func (s *Service) FetchItinerary(ctx context.Context, id string) (*types.Itinerary, error) {
	if id == "" {
		return nil, apperrors.ValidationFailed("missing_id", "itinerary id is required")
	}

	token := atomic.AddUint64(&s.fetchSeq, 1)

	itin, err := s.store.GetItinerary(ctx, id)
	if err != nil {
		return nil, apperrors.RemoteFailed(err, "fetch itinerary")
	}
	if itin != nil {
		// Stored total cost is not trusted; the sum over activities is.
		itin.RecomputeTotalCost()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if atomic.LoadUint64(&s.fetchSeq) != token {
		s.log.Debugw("Discarding superseded fetch", "itineraryID", id)
		return itin, nil
	}
	if itin != nil {
		_, itin.IsFavorite = s.favorites[itin.ID]
	}
	s.current = itin
	return itin, nil
}

// Current returns a copy of the current aggregate, or nil when none is
// loaded.
func (s *Service) Current() *types.Itinerary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// FetchUserItineraries lists the user's own itineraries. With no
// authenticated user the list fails closed to empty.
func (s *Service) FetchUserItineraries(ctx context.Context, userID string) ([]*types.Itinerary, error) {
	if userID == "" {
		return []*types.Itinerary{}, nil
	}
	list, err := s.store.ListUserItineraries(ctx, userID)
	if err != nil {
		return nil, apperrors.RemoteFailed(err, "list user itineraries")
	}
	s.mu.Lock()
	s.userItineraries = list
	s.mu.Unlock()
	return list, nil
}

// FetchSharedItineraries lists itineraries shared with the user. Fails
// closed to empty without an authenticated user.
func (s *Service) FetchSharedItineraries(ctx context.Context, userID string) ([]*types.Itinerary, error) {
	if userID == "" {
		return []*types.Itinerary{}, nil
	}
	list, err := s.store.ListSharedItineraries(ctx, userID)
	if err != nil {
		return nil, apperrors.RemoteFailed(err, "list shared itineraries")
	}
	s.mu.Lock()
	s.sharedItineraries = list
	s.mu.Unlock()
	return list, nil
}

// CreateItinerary persists a new itinerary: the base record first, then each
// day and activity as separate writes. A nested write that fails mid-way
// leaves the records written so far in place; there is no rollback.
func (s *Service) CreateItinerary(ctx context.Context, userID string, draft *types.Itinerary) (*types.Itinerary, error) {
	if userID == "" {
		return nil, apperrors.AuthenticationRequired("sign in to create an itinerary")
	}

	itin := draft.Clone()
	now := time.Now().UTC()
	itin.ID = uuid.NewString()
	itin.UserID = userID
	itin.CreatedAt = now
	itin.UpdatedAt = now

	seenNumbers := make(map[int]struct{}, len(itin.Days))
	for di := range itin.Days {
		day := &itin.Days[di]
		day.ID = uuid.NewString()
		day.ItineraryID = itin.ID
		if day.DayNumber == 0 {
			day.DayNumber = di + 1
		}
		if _, dup := seenNumbers[day.DayNumber]; dup {
			return nil, apperrors.ValidationFailed("duplicate_day_number", "day numbers must be unique within an itinerary")
		}
		seenNumbers[day.DayNumber] = struct{}{}

		for ai := range day.Activities {
			act := &day.Activities[ai]
			act.ID = uuid.NewString()
			act.DayID = day.ID
			if err := validateActivity(act); err != nil {
				return nil, err
			}
		}
	}
	itin.RecomputeTotalCost()

	if err := s.store.InsertItinerary(ctx, itin); err != nil {
		return nil, apperrors.RemoteFailed(err, "insert itinerary")
	}
	for di := range itin.Days {
		day := itin.Days[di]
		if err := s.store.InsertDay(ctx, &day); err != nil {
			return nil, apperrors.RemoteFailed(err, "insert day")
		}
		for ai := range day.Activities {
			act := day.Activities[ai]
			if err := s.store.InsertActivity(ctx, &act); err != nil {
				return nil, apperrors.RemoteFailed(err, "insert activity")
			}
		}
	}

	s.mu.Lock()
	s.userItineraries = append([]*types.Itinerary{itin}, s.userItineraries...)
	s.mu.Unlock()

	s.log.Infow("Created itinerary", "itineraryID", itin.ID, "days", len(itin.Days))
	return itin, nil
}

// UpdateItinerary persists a whole-record overwrite of the base record and
// refreshes the matching list entry and the current pointer.
func (s *Service) UpdateItinerary(ctx context.Context, full *types.Itinerary) (*types.Itinerary, error) {
	if full == nil || full.ID == "" {
		return nil, apperrors.ValidationFailed("missing_id", "itinerary id is required")
	}
	next := full.Clone()
	next.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateItinerary(ctx, next); err != nil {
		return nil, apperrors.RemoteFailed(err, "update itinerary")
	}

	s.mu.Lock()
	for i, it := range s.userItineraries {
		if it.ID == next.ID {
			s.userItineraries[i] = next
			break
		}
	}
	if s.current != nil && s.current.ID == next.ID {
		s.current = next
	}
	s.mu.Unlock()
	return next, nil
}

// DeleteItinerary removes the remote record plus the matching list entry and
// current pointer.
func (s *Service) DeleteItinerary(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationFailed("missing_id", "itinerary id is required")
	}
	if err := s.store.DeleteItinerary(ctx, id); err != nil {
		return apperrors.RemoteFailed(err, "delete itinerary")
	}

	s.mu.Lock()
	for i, it := range s.userItineraries {
		if it.ID == id {
			s.userItineraries = append(s.userItineraries[:i], s.userItineraries[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	return nil
}

// AddDay appends a day to the current itinerary with the next free day
// number. Numbers stay unique but gaps left by deletions are not reused.
func (s *Service) AddDay(ctx context.Context, date time.Time) (*types.Itinerary, error) {
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	day := types.Day{
		ID:          uuid.NewString(),
		ItineraryID: next.ID,
		DayNumber:   next.NextDayNumber(),
		Date:        date,
		Activities:  []types.Activity{},
	}
	next.Days = append(next.Days, day)

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.InsertDay(ctx, &day)
	}, "insert day")
}

// DeleteDay removes a day and everything in it.
func (s *Service) DeleteDay(ctx context.Context, dayID string) (*types.Itinerary, error) {
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	found := false
	for i := range next.Days {
		if next.Days[i].ID == dayID {
			next.Days = append(next.Days[:i], next.Days[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.NotFound("Day", dayID)
	}

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.DeleteDay(ctx, dayID)
	}, "delete day")
}

// AddActivity adds an activity to the given day of the current itinerary.
func (s *Service) AddActivity(ctx context.Context, dayID string, activity types.Activity) (*types.Itinerary, error) {
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	day := next.FindDay(dayID)
	if day == nil {
		return nil, apperrors.NotFound("Day", dayID)
	}

	activity.ID = uuid.NewString()
	activity.DayID = dayID
	if activity.Category == "" {
		activity.Category = types.CategoryOther
	}
	if activity.Votes == nil {
		activity.Votes = []types.Vote{}
	}
	if activity.Comments == nil {
		activity.Comments = []types.Comment{}
	}
	if err := validateActivity(&activity); err != nil {
		return nil, err
	}
	day.Activities = append(day.Activities, activity)

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.InsertActivity(ctx, &activity)
	}, "insert activity")
}

// UpdateActivity applies a partial edit to an activity of the current
// itinerary.
func (s *Service) UpdateActivity(ctx context.Context, activityID string, update types.ActivityUpdate) (*types.Itinerary, error) {
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	_, act := next.FindActivity(activityID)
	if act == nil {
		return nil, apperrors.NotFound("Activity", activityID)
	}

	if update.Name != nil {
		act.Name = *update.Name
	}
	if update.TimeOfDay != nil {
		act.TimeOfDay = *update.TimeOfDay
	}
	if update.Description != nil {
		act.Description = *update.Description
	}
	if update.Location != nil {
		act.Location = *update.Location
	}
	if update.ImageURL != nil {
		act.ImageURL = *update.ImageURL
	}
	if update.Cost != nil {
		act.Cost = *update.Cost
	}
	if update.Currency != nil {
		act.Currency = *update.Currency
	}
	if update.Category != nil {
		act.Category = *update.Category
	}
	if update.Icon != nil {
		act.Icon = *update.Icon
	}
	if err := validateActivity(act); err != nil {
		return nil, err
	}

	updated := *act
	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.UpdateActivity(ctx, &updated)
	}, "update activity")
}

// DeleteActivity removes an activity from the current itinerary.
func (s *Service) DeleteActivity(ctx context.Context, activityID string) (*types.Itinerary, error) {
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	day, act := next.FindActivity(activityID)
	if act == nil {
		return nil, apperrors.NotFound("Activity", activityID)
	}
	for i := range day.Activities {
		if day.Activities[i].ID == activityID {
			day.Activities = append(day.Activities[:i], day.Activities[i+1:]...)
			break
		}
	}

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.DeleteActivity(ctx, activityID)
	}, "delete activity")
}

// AddActivityComment appends a comment with the author's display name
// denormalized at write time.
func (s *Service) AddActivityComment(ctx context.Context, activityID, userID, authorName, text string) (*types.Itinerary, error) {
	if text == "" {
		return nil, apperrors.ValidationFailed("empty_comment", "comment text is required")
	}
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	_, act := next.FindActivity(activityID)
	if act == nil {
		return nil, apperrors.NotFound("Activity", activityID)
	}

	comment := types.Comment{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		UserID:     userID,
		Text:       text,
		AuthorName: authorName,
		CreatedAt:  time.Now().UTC(),
	}
	act.Comments = append(act.Comments, comment)

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.InsertComment(ctx, &comment)
	}, "insert comment")
}

// SubmitVote records a user's vote on an activity. At most one vote exists
// per (activity, user): resubmitting the same type removes the vote, a
// different type replaces it in place.
func (s *Service) SubmitVote(ctx context.Context, activityID, userID string, voteType types.VoteType) (*types.Itinerary, error) {
	if !voteType.IsValid() {
		return nil, apperrors.ValidationFailed("invalid_vote_type", "vote type must be upvote or downvote")
	}
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	_, act := next.FindActivity(activityID)
	if act == nil {
		return nil, apperrors.NotFound("Activity", activityID)
	}

	var existing *types.Vote
	for i := range act.Votes {
		if act.Votes[i].UserID == userID {
			existing = &act.Votes[i]
			break
		}
	}

	switch {
	case existing == nil:
		vote := types.Vote{
			ID:         uuid.NewString(),
			ActivityID: activityID,
			UserID:     userID,
			VoteType:   voteType,
			CreatedAt:  time.Now().UTC(),
		}
		act.Votes = append(act.Votes, vote)
		return s.commit(ctx, next, func(ctx context.Context) error {
			return s.store.InsertVote(ctx, &vote)
		}, "insert vote")

	case existing.VoteType == voteType:
		// Same type again toggles the vote off.
		voteID := existing.ID
		for i := range act.Votes {
			if act.Votes[i].ID == voteID {
				act.Votes = append(act.Votes[:i], act.Votes[i+1:]...)
				break
			}
		}
		return s.commit(ctx, next, func(ctx context.Context) error {
			return s.store.DeleteVote(ctx, voteID)
		}, "delete vote")

	default:
		existing.VoteType = voteType
		existing.CreatedAt = time.Now().UTC()
		replaced := *existing
		return s.commit(ctx, next, func(ctx context.Context) error {
			return s.store.UpdateVote(ctx, &replaced)
		}, "update vote")
	}
}

// AddSharedUser invites another user to the current itinerary by email. The
// invitee's user id stays a placeholder until they accept.
func (s *Service) AddSharedUser(ctx context.Context, email string, permission types.SharedPermission, createdBy string) (*types.Itinerary, error) {
	if email == "" {
		return nil, apperrors.ValidationFailed("missing_email", "email is required")
	}
	if !permission.IsValid() {
		return nil, apperrors.ValidationFailed("invalid_permission", "permission must be view or edit")
	}
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	shared := types.SharedUser{
		ID:          uuid.NewString(),
		ItineraryID: next.ID,
		UserID:      types.PendingInviteUserID,
		Email:       email,
		Permission:  permission,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   createdBy,
	}
	next.SharedUsers = append(next.SharedUsers, shared)
	next.IsShared = true

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.InsertSharedUser(ctx, &shared)
	}, "insert shared user")
}

// RemoveSharedUser revokes a share on the current itinerary.
func (s *Service) RemoveSharedUser(ctx context.Context, sharedUserID string) (*types.Itinerary, error) {
	next, err := s.cloneCurrent()
	if err != nil {
		return nil, err
	}

	found := false
	for i := range next.SharedUsers {
		if next.SharedUsers[i].ID == sharedUserID {
			next.SharedUsers = append(next.SharedUsers[:i], next.SharedUsers[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.NotFound("SharedUser", sharedUserID)
	}
	next.IsShared = len(next.SharedUsers) > 0

	return s.commit(ctx, next, func(ctx context.Context) error {
		return s.store.DeleteSharedUser(ctx, sharedUserID)
	}, "delete shared user")
}

// FetchFavorites loads the user's favorite id set.
func (s *Service) FetchFavorites(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return []string{}, nil
	}
	ids, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperrors.RemoteFailed(err, "list favorites")
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.mu.Lock()
	s.favorites = set
	s.mu.Unlock()
	return ids, nil
}

// ToggleFavorite optimistically flips local membership, then issues the
// remote write. On failure the pre-mutation snapshot is restored, so the
// revert never races a second read.
func (s *Service) ToggleFavorite(ctx context.Context, userID, itineraryID string) (bool, error) {
	if userID == "" {
		return false, apperrors.AuthenticationRequired("sign in to favorite an itinerary")
	}
	if itineraryID == "" {
		return false, apperrors.ValidationFailed("missing_id", "itinerary id is required")
	}

	s.mu.Lock()
	if s.favorites == nil {
		s.favorites = make(map[string]struct{})
	}
	snapshot := make(map[string]struct{}, len(s.favorites))
	for id := range s.favorites {
		snapshot[id] = struct{}{}
	}
	_, wasFavorite := s.favorites[itineraryID]
	if wasFavorite {
		delete(s.favorites, itineraryID)
	} else {
		s.favorites[itineraryID] = struct{}{}
	}
	if s.current != nil && s.current.ID == itineraryID {
		s.current.IsFavorite = !wasFavorite
	}
	s.mu.Unlock()

	var err error
	if wasFavorite {
		err = s.store.DeleteFavorite(ctx, userID, itineraryID)
	} else {
		err = s.store.InsertFavorite(ctx, userID, itineraryID)
	}
	if err != nil {
		s.mu.Lock()
		s.favorites = snapshot
		if s.current != nil && s.current.ID == itineraryID {
			_, s.current.IsFavorite = snapshot[itineraryID]
		}
		s.mu.Unlock()
		return wasFavorite, apperrors.RemoteFailed(err, "toggle favorite")
	}
	return !wasFavorite, nil
}

// Favorites returns the locally known favorite ids, sorted.
func (s *Service) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SearchDestinations filters the loaded destination list by case-insensitive
// substring match over title, location, description and tags. This is a
// client-side stand-in for a remote full-text query; the list is loaded once
// and reused.
func (s *Service) SearchDestinations(ctx context.Context, query string) ([]types.Destination, error) {
	s.mu.Lock()
	loaded := s.destinations
	s.mu.Unlock()

	if loaded == nil {
		dests, err := s.store.ListDestinations(ctx)
		if err != nil {
			return nil, apperrors.RemoteFailed(err, "list destinations")
		}
		s.mu.Lock()
		s.destinations = dests
		loaded = dests
		s.mu.Unlock()
	}

	out := make([]types.Destination, 0, len(loaded))
	for i := range loaded {
		if loaded[i].MatchesQuery(query) {
			out = append(out, loaded[i])
		}
	}
	return out, nil
}

// cloneCurrent returns a deep copy of the current aggregate for a
// copy-and-replace mutation, or an error when nothing is loaded.
func (s *Service) cloneCurrent() (*types.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, apperrors.ValidationFailed("no_itinerary_loaded", "no itinerary loaded")
	}
	return s.current.Clone(), nil
}

// commit recomputes the cost invariant, issues the nested write followed by
// the base-record update, and swaps the aggregate in. A failed nested write
// leaves the in-memory aggregate untouched; a failed base update after a
// successful nested write is surfaced but not rolled back.
func (s *Service) commit(ctx context.Context, next *types.Itinerary, write func(context.Context) error, op string) (*types.Itinerary, error) {
	next.RecomputeTotalCost()
	next.UpdatedAt = time.Now().UTC()

	if err := write(ctx); err != nil {
		return nil, apperrors.RemoteFailed(err, op)
	}
	if err := s.store.UpdateItinerary(ctx, next); err != nil {
		return nil, apperrors.RemoteFailed(err, "update itinerary")
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return next, nil
}

func validateActivity(act *types.Activity) error {
	if act.Name == "" {
		return apperrors.ValidationFailed("missing_name", "activity name is required")
	}
	if act.Cost.IsNegative() {
		return apperrors.ValidationFailed("negative_cost", "activity cost cannot be negative")
	}
	if !act.Category.IsValid() {
		return apperrors.ValidationFailed("invalid_category", "unknown activity category")
	}
	return nil
}
