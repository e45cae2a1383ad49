package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan-backend/internal/query"
	"github.com/wanderplan/wanderplan-backend/internal/store/fixture"
	"github.com/wanderplan/wanderplan-backend/middleware"
	prefsvc "github.com/wanderplan/wanderplan-backend/models/preferences/service"
	"github.com/wanderplan/wanderplan-backend/types"
)

func newPreferencesRouter() *gin.Engine {
	cache := query.New(0)
	h := NewPreferencesHandler(prefsvc.NewService(fixture.New()), cache)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.StaticAuth(fixture.UserID, "mock@example.com"))
	r.GET("/preferences", h.GetPreferences)
	r.PATCH("/preferences", h.UpdatePreferences)
	r.POST("/preferences/reset", h.ResetPreferences)
	return r
}

func TestGetPreferences(t *testing.T) {
	r := newPreferencesRouter()

	w := doJSON(t, r, http.MethodGet, "/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)

	var prefs types.Preferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, []string{"chill"}, prefs.TravelVibe)
}

func TestUpdatePreferencesPartialMerge(t *testing.T) {
	r := newPreferencesRouter()

	w := doJSON(t, r, http.MethodPatch, "/preferences",
		`{"travelVibe":["chill","thrill"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var prefs types.Preferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, []string{"chill", "thrill"}, prefs.TravelVibe)
	assert.Equal(t, 50, prefs.Budget.Amount, "untouched budget section survives")

	// The cached read reflects the merge.
	w = doJSON(t, r, http.MethodGet, "/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, []string{"chill", "thrill"}, prefs.TravelVibe)
}

func TestResetPreferences(t *testing.T) {
	r := newPreferencesRouter()

	w := doJSON(t, r, http.MethodPost, "/preferences/reset", "")
	require.Equal(t, http.StatusOK, w.Code)

	var prefs types.Preferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Empty(t, prefs.TravelVibe)
	assert.Equal(t, 0, prefs.Budget.Amount)
}
