package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/wanderplan-backend/internal/query"
	itinsvc "github.com/wanderplan/wanderplan-backend/models/itinerary/service"
	"github.com/wanderplan/wanderplan-backend/types"
)

// DestinationHandler serves the browsable destination catalog.
type DestinationHandler struct {
	svc   *itinsvc.Service
	cache *query.Cache
}

// NewDestinationHandler creates a DestinationHandler.
func NewDestinationHandler(svc *itinsvc.Service, cache *query.Cache) *DestinationHandler {
	return &DestinationHandler{svc: svc, cache: cache}
}

// SearchDestinations handles GET /destinations?q=... An empty query returns
// the full catalog; an unmatched query returns an empty list, not an error.
func (h *DestinationHandler) SearchDestinations(c *gin.Context) {
	q := c.Query("q")

	key := query.Key("destinations")
	if q != "" {
		key = query.Key("destinations", "q", q)
	}

	dests, err := query.Fetch(c.Request.Context(), h.cache, key,
		func(ctx context.Context) ([]types.Destination, error) {
			return h.svc.SearchDestinations(ctx, q)
		})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if dests == nil {
		dests = []types.Destination{}
	}
	c.JSON(http.StatusOK, dests)
}
