package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/wanderplan-backend/internal/query"
	prefsvc "github.com/wanderplan/wanderplan-backend/models/preferences/service"
	"github.com/wanderplan/wanderplan-backend/types"
)

// PreferencesHandler exposes per-user travel preferences over HTTP.
type PreferencesHandler struct {
	svc   *prefsvc.Service
	cache *query.Cache
}

// NewPreferencesHandler creates a PreferencesHandler.
func NewPreferencesHandler(svc *prefsvc.Service, cache *query.Cache) *PreferencesHandler {
	return &PreferencesHandler{svc: svc, cache: cache}
}

// GetPreferences handles GET /preferences. First fetch for a user resolves
// to the all-empty defaults, never an error.
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}

	prefs, err := query.Fetch(c.Request.Context(), h.cache, query.Key("preferences", userID),
		func(ctx context.Context) (*types.Preferences, error) {
			return h.svc.FetchPreferences(ctx, userID)
		})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences handles PATCH /preferences. Only the sections present in
// the body are replaced; everything else is preserved.
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var update types.PreferencesUpdate
	if !bindJSONOrError(c, &update) {
		return
	}

	res := query.Mutate(c.Request.Context(), h.cache,
		func(ctx context.Context) (*types.Preferences, error) {
			return h.svc.UpdatePreferences(ctx, userID, update)
		},
		query.Key("preferences", userID))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.JSON(http.StatusOK, res.Value)
}

// ResetPreferences handles POST /preferences/reset.
func (h *PreferencesHandler) ResetPreferences(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}

	res := query.Mutate(c.Request.Context(), h.cache,
		func(ctx context.Context) (*types.Preferences, error) {
			return h.svc.ResetPreferences(ctx, userID)
		},
		query.Key("preferences", userID))
	if res.Status == query.MutationError {
		_ = c.Error(res.Err)
		return
	}
	c.JSON(http.StatusOK, res.Value)
}
