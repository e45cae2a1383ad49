// Package store defines the data-source boundary. The rest of the
// application only sees these interfaces; whether rows come from Supabase or
// from canned fixtures is decided once at construction time.
package store

import (
	"context"

	"github.com/wanderplan/wanderplan-backend/types"
)

// ItineraryStore handles itinerary aggregate persistence. Reads return the
// fully assembled aggregate; writes are table-scoped and not transactional,
// so a failed nested write can leave an orphaned base record behind.
type ItineraryStore interface {
	// GetItinerary returns the aggregate with all nested collections, or
	// nil, nil when no row matches.
	GetItinerary(ctx context.Context, id string) (*types.Itinerary, error)
	ListUserItineraries(ctx context.Context, userID string) ([]*types.Itinerary, error)
	ListSharedItineraries(ctx context.Context, userID string) ([]*types.Itinerary, error)
	InsertItinerary(ctx context.Context, itinerary *types.Itinerary) error
	// UpdateItinerary overwrites the base record (including total cost and
	// flags); it does not touch nested tables.
	UpdateItinerary(ctx context.Context, itinerary *types.Itinerary) error
	DeleteItinerary(ctx context.Context, id string) error

	InsertDay(ctx context.Context, day *types.Day) error
	DeleteDay(ctx context.Context, id string) error

	InsertActivity(ctx context.Context, activity *types.Activity) error
	UpdateActivity(ctx context.Context, activity *types.Activity) error
	DeleteActivity(ctx context.Context, id string) error

	InsertVote(ctx context.Context, vote *types.Vote) error
	UpdateVote(ctx context.Context, vote *types.Vote) error
	DeleteVote(ctx context.Context, id string) error

	InsertComment(ctx context.Context, comment *types.Comment) error

	InsertSharedUser(ctx context.Context, shared *types.SharedUser) error
	DeleteSharedUser(ctx context.Context, id string) error
}

// FavoriteStore handles the per-user favorite id set.
type FavoriteStore interface {
	ListFavorites(ctx context.Context, userID string) ([]string, error)
	InsertFavorite(ctx context.Context, userID, itineraryID string) error
	DeleteFavorite(ctx context.Context, userID, itineraryID string) error
}

// PreferenceStore handles the preferences blob on the user's profile record.
type PreferenceStore interface {
	// GetPreferences returns nil, nil when the profile has no stored
	// preferences yet.
	GetPreferences(ctx context.Context, userID string) (*types.Preferences, error)
	// SavePreferences overwrites the stored blob wholesale.
	SavePreferences(ctx context.Context, userID string, prefs *types.Preferences) error
}

// DestinationStore serves the browsable destination list. Searching is done
// client-side over this list, not as a remote full-text query.
type DestinationStore interface {
	ListDestinations(ctx context.Context) ([]types.Destination, error)
}

// DataSource is the full gateway surface consumed by the services.
type DataSource interface {
	ItineraryStore
	FavoriteStore
	PreferenceStore
	DestinationStore
}
