package supabase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wanderplan/wanderplan-backend/types"
)

// Row structs mirror the snake_case PostgREST records. Field-name
// normalization happens here and nowhere else.

type itineraryRow struct {
	ID                     string             `json:"id"`
	Title                  string             `json:"title"`
	Description            string             `json:"description"`
	ImageURL               string             `json:"image_url"`
	TotalCost              float64            `json:"total_cost"`
	Currency               string             `json:"currency"`
	UserID                 string             `json:"user_id"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
	IsFavorite             bool               `json:"is_favorite"`
	IsBookmarked           bool               `json:"is_bookmarked"`
	IsShared               bool               `json:"is_shared"`
	IsPublic               bool               `json:"is_public"`
	IsPrivate              bool               `json:"is_private"`
	IsCompleted            bool               `json:"is_completed"`
	IsFeatured             bool               `json:"is_featured"`
	Weather                []weatherRow       `json:"weather"`
	WeatherOverview        *string            `json:"weather_overview"`
	TripHighlights         []string           `json:"trip_highlights"`
	GeneralTips            []string           `json:"general_tips"`
	PackingRecommendations []string           `json:"packing_recommendation"`
	Warnings               []travelWarningRow `json:"warnings"`
}

type weatherRow struct {
	Date        time.Time `json:"date"`
	Condition   string    `json:"condition"`
	TempHighC   float64   `json:"temp_high_c"`
	TempLowC    float64   `json:"temp_low_c"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
}

type travelWarningRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type dayRow struct {
	ID          string    `json:"id"`
	ItineraryID string    `json:"itinerary_id"`
	DayNumber   int       `json:"day_number"`
	Date        time.Time `json:"date"`
}

type activityRow struct {
	ID          string  `json:"id"`
	DayID       string  `json:"day_id"`
	Name        string  `json:"name"`
	TimeOfDay   string  `json:"time_of_day"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"image_url"`
	Cost        float64 `json:"cost"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
}

type voteRow struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	UserID     string    `json:"user_id"`
	VoteType   string    `json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type commentRow struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type sharedUserRow struct {
	ID          string    `json:"id"`
	ItineraryID string    `json:"itinerary_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Permission  string    `json:"permission"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

type favoriteRow struct {
	UserID      string `json:"user_id"`
	ItineraryID string `json:"itinerary_id"`
}

type profileRow struct {
	ID          string             `json:"id"`
	Preferences *types.Preferences `json:"preferences"`
}

type destinationRow struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	Rating      float64  `json:"rating"`
}

func (r itineraryRow) toItinerary() *types.Itinerary {
	itin := &types.Itinerary{
		ID:                     r.ID,
		Title:                  r.Title,
		Description:            r.Description,
		ImageURL:               r.ImageURL,
		TotalCost:              decimal.NewFromFloat(r.TotalCost),
		Currency:               r.Currency,
		UserID:                 r.UserID,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
		IsFavorite:             r.IsFavorite,
		IsBookmarked:           r.IsBookmarked,
		IsShared:               r.IsShared,
		IsPublic:               r.IsPublic,
		IsPrivate:              r.IsPrivate,
		IsCompleted:            r.IsCompleted,
		IsFeatured:             r.IsFeatured,
		WeatherOverview:        r.WeatherOverview,
		TripHighlights:         r.TripHighlights,
		GeneralTips:            r.GeneralTips,
		PackingRecommendations: r.PackingRecommendations,
		Days:                   []types.Day{},
	}
	for _, w := range r.Weather {
		itin.Weather = append(itin.Weather, types.WeatherDay{
			Date:        w.Date,
			Condition:   w.Condition,
			TempHighC:   w.TempHighC,
			TempLowC:    w.TempLowC,
			Icon:        w.Icon,
			Description: w.Description,
		})
	}
	for _, w := range r.Warnings {
		itin.Warnings = append(itin.Warnings, types.TravelWarning{
			ID:       w.ID,
			Title:    w.Title,
			Message:  w.Message,
			Severity: w.Severity,
		})
	}
	return itin
}

func fromItinerary(i *types.Itinerary) itineraryRow {
	cost, _ := i.TotalCost.Float64()
	row := itineraryRow{
		ID:                     i.ID,
		Title:                  i.Title,
		Description:            i.Description,
		ImageURL:               i.ImageURL,
		TotalCost:              cost,
		Currency:               i.Currency,
		UserID:                 i.UserID,
		CreatedAt:              i.CreatedAt,
		UpdatedAt:              i.UpdatedAt,
		IsFavorite:             i.IsFavorite,
		IsBookmarked:           i.IsBookmarked,
		IsShared:               i.IsShared,
		IsPublic:               i.IsPublic,
		IsPrivate:              i.IsPrivate,
		IsCompleted:            i.IsCompleted,
		IsFeatured:             i.IsFeatured,
		WeatherOverview:        i.WeatherOverview,
		TripHighlights:         i.TripHighlights,
		GeneralTips:            i.GeneralTips,
		PackingRecommendations: i.PackingRecommendations,
	}
	for _, w := range i.Weather {
		row.Weather = append(row.Weather, weatherRow{
			Date:        w.Date,
			Condition:   w.Condition,
			TempHighC:   w.TempHighC,
			TempLowC:    w.TempLowC,
			Icon:        w.Icon,
			Description: w.Description,
		})
	}
	for _, w := range i.Warnings {
		row.Warnings = append(row.Warnings, travelWarningRow{
			ID:       w.ID,
			Title:    w.Title,
			Message:  w.Message,
			Severity: w.Severity,
		})
	}
	return row
}

func (r dayRow) toDay() types.Day {
	return types.Day{
		ID:          r.ID,
		ItineraryID: r.ItineraryID,
		DayNumber:   r.DayNumber,
		Date:        r.Date,
	}
}

func fromDay(d *types.Day) dayRow {
	return dayRow{
		ID:          d.ID,
		ItineraryID: d.ItineraryID,
		DayNumber:   d.DayNumber,
		Date:        d.Date,
	}
}

func (r activityRow) toActivity() types.Activity {
	return types.Activity{
		ID:          r.ID,
		DayID:       r.DayID,
		Name:        r.Name,
		TimeOfDay:   r.TimeOfDay,
		Description: r.Description,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		Cost:        decimal.NewFromFloat(r.Cost),
		Currency:    r.Currency,
		Category:    types.ActivityCategory(r.Category),
		Icon:        r.Icon,
	}
}

func fromActivity(a *types.Activity) activityRow {
	cost, _ := a.Cost.Float64()
	return activityRow{
		ID:          a.ID,
		DayID:       a.DayID,
		Name:        a.Name,
		TimeOfDay:   a.TimeOfDay,
		Description: a.Description,
		Location:    a.Location,
		ImageURL:    a.ImageURL,
		Cost:        cost,
		Currency:    a.Currency,
		Category:    string(a.Category),
		Icon:        a.Icon,
	}
}

func (r voteRow) toVote() types.Vote {
	return types.Vote{
		ID:         r.ID,
		ActivityID: r.ActivityID,
		UserID:     r.UserID,
		VoteType:   types.VoteType(r.VoteType),
		CreatedAt:  r.CreatedAt,
	}
}

func fromVote(v *types.Vote) voteRow {
	return voteRow{
		ID:         v.ID,
		ActivityID: v.ActivityID,
		UserID:     v.UserID,
		VoteType:   string(v.VoteType),
		CreatedAt:  v.CreatedAt,
	}
}

func (r commentRow) toComment() types.Comment {
	return types.Comment{
		ID:         r.ID,
		ActivityID: r.ActivityID,
		UserID:     r.UserID,
		Text:       r.Text,
		AuthorName: r.AuthorName,
		CreatedAt:  r.CreatedAt,
	}
}

func fromComment(c *types.Comment) commentRow {
	return commentRow{
		ID:         c.ID,
		ActivityID: c.ActivityID,
		UserID:     c.UserID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt,
	}
}

func (r sharedUserRow) toSharedUser() types.SharedUser {
	return types.SharedUser{
		ID:          r.ID,
		ItineraryID: r.ItineraryID,
		UserID:      r.UserID,
		Email:       r.Email,
		Permission:  types.SharedPermission(r.Permission),
		CreatedAt:   r.CreatedAt,
		CreatedBy:   r.CreatedBy,
	}
}

func fromSharedUser(s *types.SharedUser) sharedUserRow {
	return sharedUserRow{
		ID:          s.ID,
		ItineraryID: s.ItineraryID,
		UserID:      s.UserID,
		Email:       s.Email,
		Permission:  string(s.Permission),
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
	}
}

func (r destinationRow) toDestination() types.Destination {
	return types.Destination{
		ID:          r.ID,
		Title:       r.Title,
		Location:    r.Location,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		Rating:      r.Rating,
	}
}
