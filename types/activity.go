package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActivityCategory string

const (
	CategorySightseeing   ActivityCategory = "sightseeing"
	CategoryFood          ActivityCategory = "food"
	CategoryTransport     ActivityCategory = "transport"
	CategoryAccommodation ActivityCategory = "accommodation"
	CategoryOther         ActivityCategory = "other"
)

// IsValid checks if the category is a known activity category.
func (c ActivityCategory) IsValid() bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryTransport, CategoryAccommodation, CategoryOther:
		return true
	default:
		return false
	}
}

func (c ActivityCategory) String() string {
	return string(c)
}

// Activity belongs to exactly one day. There is no move operation; relocating
// an activity means delete and recreate.
type Activity struct {
	ID          string           `json:"id"`
	DayID       string           `json:"dayId"`
	Name        string           `json:"name"`
	TimeOfDay   string           `json:"timeOfDay"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Cost        decimal.Decimal  `json:"cost"`
	Currency    string           `json:"currency"`
	Category    ActivityCategory `json:"category"`
	Icon        string           `json:"icon,omitempty"`
	Votes       []Vote           `json:"votes"`
	Comments    []Comment        `json:"comments"`
}

// ActivityUpdate carries a partial activity edit. Nil fields are left
// unchanged.
type ActivityUpdate struct {
	Name        *string           `json:"name,omitempty"`
	TimeOfDay   *string           `json:"timeOfDay,omitempty"`
	Description *string           `json:"description,omitempty"`
	Location    *string           `json:"location,omitempty"`
	ImageURL    *string           `json:"imageUrl,omitempty"`
	Cost        *decimal.Decimal  `json:"cost,omitempty"`
	Currency    *string           `json:"currency,omitempty"`
	Category    *ActivityCategory `json:"category,omitempty"`
	Icon        *string           `json:"icon,omitempty"`
}

type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// IsValid checks if the vote type is known.
func (v VoteType) IsValid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote is one user's vote on an activity. At most one vote exists per
// (activity, user) pair; resubmitting the same type toggles it off and a
// different type replaces it.
type Vote struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activityId"`
	UserID     string    `json:"userId"`
	VoteType   VoteType  `json:"voteType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Comment is a user comment on an activity. AuthorName is denormalized at
// write time so the UI never joins against profiles.
type Comment struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activityId"`
	UserID     string    `json:"userId"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}
