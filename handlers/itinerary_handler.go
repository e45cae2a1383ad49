package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/internal/query"
	itinsvc "github.com/wanderplan/wanderplan-backend/models/itinerary/service"
	"github.com/wanderplan/wanderplan-backend/types"
)

// ItineraryHandler exposes the itinerary aggregate over HTTP. Reads go
// through the query cache; mutations invalidate the affected scopes.
type ItineraryHandler struct {
	svc   *itinsvc.Service
	cache *query.Cache
}

// NewItineraryHandler creates an ItineraryHandler.
func NewItineraryHandler(svc *itinsvc.Service, cache *query.Cache) *ItineraryHandler {
	return &ItineraryHandler{svc: svc, cache: cache}
}

// CreateItineraryRequest is the request body for creating an itinerary.
type CreateItineraryRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Currency    string      `json:"currency,omitempty"`
	IsPrivate   bool        `json:"isPrivate,omitempty"`
	Days        []types.Day `json:"days,omitempty"`
}

// AddDayRequest is the request body for appending a day.
type AddDayRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

// AddCommentRequest is the request body for commenting on an activity.
type AddCommentRequest struct {
	Text       string `json:"text" binding:"required"`
	AuthorName string `json:"authorName,omitempty"`
}

// SubmitVoteRequest is the request body for voting on an activity.
type SubmitVoteRequest struct {
	VoteType types.VoteType `json:"voteType" binding:"required"`
}

// ShareRequest is the request body for inviting a user to an itinerary.
type ShareRequest struct {
	Email      string                 `json:"email" binding:"required"`
	Permission types.SharedPermission `json:"permission" binding:"required"`
}

// GetItinerary handles GET /itineraries/:id.
func (h *ItineraryHandler) GetItinerary(c *gin.Context) {
	id := c.Param("id")

	itin, err := query.Fetch(c.Request.Context(), h.cache, query.Key("itinerary", id),
		func(ctx context.Context) (*types.Itinerary, error) {
			return h.svc.FetchItinerary(ctx, id)
		})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if itin == nil {
		_ = c.Error(apperrors.NotFound("Itinerary", id))
		return
	}
	c.JSON(http.StatusOK, itin)
}

// ListItineraries handles GET /itineraries.
func (h *ItineraryHandler) ListItineraries(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}

	list, err := query.Fetch(c.Request.Context(), h.cache, query.Key("itineraries", userID),
		func(ctx context.Context) ([]*types.Itinerary, error) {
			return h.svc.FetchUserItineraries(ctx, userID)
		})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if list == nil {
		list = []*types.Itinerary{}
	}
	c.JSON(http.StatusOK, list)
}

// ListSharedItineraries handles GET /itineraries/shared.
func (h *ItineraryHandler) ListSharedItineraries(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}

	list, err := query.Fetch(c.Request.Context(), h.cache, query.Key("shared-itineraries", userID),
		func(ctx context.Context) ([]*types.Itinerary, error) {
			return h.svc.FetchSharedItineraries(ctx, userID)
		})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if list == nil {
		list = []*types.Itinerary{}
	}
	c.JSON(http.StatusOK, list)
}

// CreateItinerary handles POST /itineraries.
func (h *ItineraryHandler) CreateItinerary(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var req CreateItineraryRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	draft := &types.Itinerary{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Currency:    req.Currency,
		IsPrivate:   req.IsPrivate,
		Days:        req.Days,
	}

	res := query.Mutate(c.Request.Context(), h.cache,
		func(ctx context.Context) (*types.Itinerary, error) {
			return h.svc.CreateItinerary(ctx, userID, draft)
		},
		query.Key("itineraries", userID))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.JSON(http.StatusCreated, res.Value)
}

// UpdateItinerary handles PUT /itineraries/:id with a whole-record overwrite.
func (h *ItineraryHandler) UpdateItinerary(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	id := c.Param("id")

	var full types.Itinerary
	if !bindJSONOrError(c, &full) {
		return
	}
	full.ID = id

	res := query.Mutate(c.Request.Context(), h.cache,
		func(ctx context.Context) (*types.Itinerary, error) {
			return h.svc.UpdateItinerary(ctx, &full)
		},
		query.Key("itinerary", id), query.Key("itineraries", userID))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.JSON(http.StatusOK, res.Value)
}

// DeleteItinerary handles DELETE /itineraries/:id.
func (h *ItineraryHandler) DeleteItinerary(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	id := c.Param("id")

	res := query.Mutate(c.Request.Context(), h.cache,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, h.svc.DeleteItinerary(ctx, id)
		},
		query.Key("itinerary", id),
		query.Key("itineraries", userID),
		query.Key("shared-itineraries", userID),
		query.Key("favorites", userID))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ensureLoaded makes the aggregate for id current before a nested mutation.
func (h *ItineraryHandler) ensureLoaded(ctx context.Context, id string) error {
	if cur := h.svc.Current(); cur != nil && cur.ID == id {
		return nil
	}
	itin, err := h.svc.FetchItinerary(ctx, id)
	if err != nil {
		return err
	}
	if itin == nil {
		return apperrors.NotFound("Itinerary", id)
	}
	return nil
}

// mutateAggregate runs a nested mutation against the itinerary and
// invalidates its cached scopes on success.
func (h *ItineraryHandler) mutateAggregate(c *gin.Context, id string, fn func(context.Context) (*types.Itinerary, error)) {
	if err := h.ensureLoaded(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	res := query.Mutate(c.Request.Context(), h.cache, fn, query.Key("itinerary", id))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.JSON(http.StatusOK, res.Value)
}

// AddDay handles POST /itineraries/:id/days.
func (h *ItineraryHandler) AddDay(c *gin.Context) {
	var req AddDayRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.AddDay(ctx, req.Date)
	})
}

// DeleteDay handles DELETE /itineraries/:id/days/:dayId.
func (h *ItineraryHandler) DeleteDay(c *gin.Context) {
	dayID := c.Param("dayId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.DeleteDay(ctx, dayID)
	})
}

// AddActivity handles POST /itineraries/:id/days/:dayId/activities.
func (h *ItineraryHandler) AddActivity(c *gin.Context) {
	var activity types.Activity
	if !bindJSONOrError(c, &activity) {
		return
	}
	dayID := c.Param("dayId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.AddActivity(ctx, dayID, activity)
	})
}

// UpdateActivity handles PATCH /itineraries/:id/activities/:activityId.
func (h *ItineraryHandler) UpdateActivity(c *gin.Context) {
	var update types.ActivityUpdate
	if !bindJSONOrError(c, &update) {
		return
	}
	activityID := c.Param("activityId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.UpdateActivity(ctx, activityID, update)
	})
}

// DeleteActivity handles DELETE /itineraries/:id/activities/:activityId.
func (h *ItineraryHandler) DeleteActivity(c *gin.Context) {
	activityID := c.Param("activityId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.DeleteActivity(ctx, activityID)
	})
}

// AddComment handles POST /itineraries/:id/activities/:activityId/comments.
func (h *ItineraryHandler) AddComment(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var req AddCommentRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	activityID := c.Param("activityId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.AddActivityComment(ctx, activityID, userID, req.AuthorName, req.Text)
	})
}

// SubmitVote handles POST /itineraries/:id/activities/:activityId/votes.
// Submitting the same type twice toggles the vote off.
func (h *ItineraryHandler) SubmitVote(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var req SubmitVoteRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	activityID := c.Param("activityId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.SubmitVote(ctx, activityID, userID, req.VoteType)
	})
}

// ShareItinerary handles POST /itineraries/:id/shares.
func (h *ItineraryHandler) ShareItinerary(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var req ShareRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.AddSharedUser(ctx, req.Email, req.Permission, userID)
	})
}

// RemoveShare handles DELETE /itineraries/:id/shares/:shareId.
func (h *ItineraryHandler) RemoveShare(c *gin.Context) {
	shareID := c.Param("shareId")
	h.mutateAggregate(c, c.Param("id"), func(ctx context.Context) (*types.Itinerary, error) {
		return h.svc.RemoveSharedUser(ctx, shareID)
	})
}

// ListFavorites handles GET /favorites.
func (h *ItineraryHandler) ListFavorites(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}

	ids, err := query.Fetch(c.Request.Context(), h.cache, query.Key("favorites", userID),
		func(ctx context.Context) ([]string, error) {
			return h.svc.FetchFavorites(ctx, userID)
		})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"itineraryIds": ids})
}

// ToggleFavorite handles POST /favorites/:id/toggle.
func (h *ItineraryHandler) ToggleFavorite(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	id := c.Param("id")

	res := query.Mutate(c.Request.Context(), h.cache,
		func(ctx context.Context) (bool, error) {
			return h.svc.ToggleFavorite(ctx, userID, id)
		},
		query.Key("favorites", userID), query.Key("itinerary", id))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": res.Value})
}
