// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wanderplan/wanderplan-backend/config"
	"github.com/wanderplan/wanderplan-backend/handlers"
	"github.com/wanderplan/wanderplan-backend/middleware"
)

// Dependencies holds everything needed to set up the routes.
type Dependencies struct {
	Config             *config.Config
	AuthHandler        *handlers.AuthHandler
	HealthHandler      *handlers.HealthHandler
	ItineraryHandler   *handlers.ItineraryHandler
	PreferencesHandler *handlers.PreferencesHandler
	DestinationHandler *handlers.DestinationHandler
	// AuthMiddleware guards the authenticated route group. Fixture mode uses
	// middleware.StaticAuth, live mode uses middleware.AuthMiddleware.
	AuthMiddleware gin.HandlerFunc
}

// SetupRouter configures and returns the Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.Health)

	v1 := r.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signin", deps.AuthHandler.SignIn)
			authRoutes.POST("/signup", deps.AuthHandler.SignUp)
			authRoutes.POST("/signout", deps.AuthHandler.SignOut)
			authRoutes.POST("/refresh", deps.AuthHandler.Refresh)
			authRoutes.GET("/me", deps.AuthHandler.Me)
		}

		authed := v1.Group("")
		authed.Use(deps.AuthMiddleware)
		{
			itineraries := authed.Group("/itineraries")
			{
				itineraries.GET("", deps.ItineraryHandler.ListItineraries)
				itineraries.POST("", deps.ItineraryHandler.CreateItinerary)
				itineraries.GET("/shared", deps.ItineraryHandler.ListSharedItineraries)
				itineraries.GET("/:id", deps.ItineraryHandler.GetItinerary)
				itineraries.PUT("/:id", deps.ItineraryHandler.UpdateItinerary)
				itineraries.DELETE("/:id", deps.ItineraryHandler.DeleteItinerary)

				itineraries.POST("/:id/days", deps.ItineraryHandler.AddDay)
				itineraries.DELETE("/:id/days/:dayId", deps.ItineraryHandler.DeleteDay)
				itineraries.POST("/:id/days/:dayId/activities", deps.ItineraryHandler.AddActivity)

				itineraries.PATCH("/:id/activities/:activityId", deps.ItineraryHandler.UpdateActivity)
				itineraries.DELETE("/:id/activities/:activityId", deps.ItineraryHandler.DeleteActivity)
				itineraries.POST("/:id/activities/:activityId/comments", deps.ItineraryHandler.AddComment)
				itineraries.POST("/:id/activities/:activityId/votes", deps.ItineraryHandler.SubmitVote)

				itineraries.POST("/:id/shares", deps.ItineraryHandler.ShareItinerary)
				itineraries.DELETE("/:id/shares/:shareId", deps.ItineraryHandler.RemoveShare)
			}

			favorites := authed.Group("/favorites")
			{
				favorites.GET("", deps.ItineraryHandler.ListFavorites)
				favorites.POST("/:id/toggle", deps.ItineraryHandler.ToggleFavorite)
			}

			preferences := authed.Group("/preferences")
			{
				preferences.GET("", deps.PreferencesHandler.GetPreferences)
				preferences.PATCH("", deps.PreferencesHandler.UpdatePreferences)
				preferences.POST("/reset", deps.PreferencesHandler.ResetPreferences)
			}

			authed.GET("/destinations", deps.DestinationHandler.SearchDestinations)
		}
	}

	return r
}
