package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Itinerary is the aggregate root for a planned trip. Nested collections have
// no lifecycle of their own; mutations always replace the whole aggregate.
type Itinerary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	Currency    string          `json:"currency"`
	UserID      string          `json:"userId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	IsFavorite   bool `json:"isFavorite"`
	IsBookmarked bool `json:"isBookmarked"`
	IsShared     bool `json:"isShared"`
	IsPublic     bool `json:"isPublic"`
	IsPrivate    bool `json:"isPrivate"`
	IsCompleted  bool `json:"isCompleted"`
	IsFeatured   bool `json:"isFeatured"`

	Days                   []Day           `json:"days"`
	Weather                []WeatherDay    `json:"weather,omitempty"`
	WeatherOverview        *string         `json:"weatherOverview,omitempty"`
	TripHighlights         []string        `json:"tripHighlights,omitempty"`
	GeneralTips            []string        `json:"generalTips,omitempty"`
	PackingRecommendations []string        `json:"packingRecommendations,omitempty"`
	Warnings               []TravelWarning `json:"warnings,omitempty"`
	SharedUsers            []SharedUser    `json:"sharedUsers,omitempty"`
}

// Day groups the activities planned for one calendar day. DayNumber is the
// ordinal the UI renders ("Day N"); numbers are unique within an itinerary
// but need not be contiguous.
type Day struct {
	ID          string     `json:"id"`
	ItineraryID string     `json:"itineraryId"`
	DayNumber   int        `json:"dayNumber"`
	Date        time.Time  `json:"date"`
	Activities  []Activity `json:"activities"`
}

// WeatherDay is a single day's forecast attached to an itinerary.
type WeatherDay struct {
	Date        time.Time `json:"date"`
	Condition   string    `json:"condition"`
	TempHighC   float64   `json:"tempHighC"`
	TempLowC    float64   `json:"tempLowC"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
}

// TravelWarning is an advisory attached to an itinerary.
type TravelWarning struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

type SharedPermission string

const (
	SharedPermissionView SharedPermission = "view"
	SharedPermissionEdit SharedPermission = "edit"
)

// IsValid checks if the permission is a known shared permission.
func (p SharedPermission) IsValid() bool {
	return p == SharedPermissionView || p == SharedPermissionEdit
}

// PendingInviteUserID is the placeholder stored for an invited user until
// the invitee accepts and their real user id is known.
const PendingInviteUserID = "pending"

// SharedUser records an invitation granting another user access to an
// itinerary.
type SharedUser struct {
	ID          string           `json:"id"`
	ItineraryID string           `json:"itineraryId"`
	UserID      string           `json:"userId"`
	Email       string           `json:"email"`
	Permission  SharedPermission `json:"permission"`
	CreatedAt   time.Time        `json:"createdAt"`
	CreatedBy   string           `json:"createdBy"`
}

// Clone returns a deep copy of the itinerary. Mutation operations copy the
// current aggregate, rewrite the matched node and swap the whole value.
func (i *Itinerary) Clone() *Itinerary {
	if i == nil {
		return nil
	}
	out := *i

	out.Days = make([]Day, len(i.Days))
	for di, d := range i.Days {
		nd := d
		nd.Activities = make([]Activity, len(d.Activities))
		for ai, a := range d.Activities {
			na := a
			na.Votes = append([]Vote(nil), a.Votes...)
			na.Comments = append([]Comment(nil), a.Comments...)
			nd.Activities[ai] = na
		}
		out.Days[di] = nd
	}

	out.Weather = append([]WeatherDay(nil), i.Weather...)
	out.TripHighlights = append([]string(nil), i.TripHighlights...)
	out.GeneralTips = append([]string(nil), i.GeneralTips...)
	out.PackingRecommendations = append([]string(nil), i.PackingRecommendations...)
	out.Warnings = append([]TravelWarning(nil), i.Warnings...)
	out.SharedUsers = append([]SharedUser(nil), i.SharedUsers...)
	if i.WeatherOverview != nil {
		ov := *i.WeatherOverview
		out.WeatherOverview = &ov
	}
	return &out
}

// FindDay returns a pointer into the itinerary's day slice, or nil.
func (i *Itinerary) FindDay(dayID string) *Day {
	for idx := range i.Days {
		if i.Days[idx].ID == dayID {
			return &i.Days[idx]
		}
	}
	return nil
}

// FindActivity locates an activity by id across all days. Returns the
// containing day and the activity, or nil, nil.
func (i *Itinerary) FindActivity(activityID string) (*Day, *Activity) {
	for di := range i.Days {
		day := &i.Days[di]
		for ai := range day.Activities {
			if day.Activities[ai].ID == activityID {
				return day, &day.Activities[ai]
			}
		}
	}
	return nil, nil
}

// RecomputeTotalCost sets TotalCost to the sum of every activity cost across
// all days. Must be called after any activity mutation.
func (i *Itinerary) RecomputeTotalCost() {
	total := decimal.Zero
	for di := range i.Days {
		for ai := range i.Days[di].Activities {
			total = total.Add(i.Days[di].Activities[ai].Cost)
		}
	}
	i.TotalCost = total
}

// NextDayNumber returns one past the highest day number in the itinerary.
// Day numbers stay unique even after deletions leave gaps.
func (i *Itinerary) NextDayNumber() int {
	max := 0
	for idx := range i.Days {
		if i.Days[idx].DayNumber > max {
			max = i.Days[idx].DayNumber
		}
	}
	return max + 1
}
