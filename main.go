package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supabase-community/supabase-go"

	"github.com/wanderplan/wanderplan-backend/config"
	"github.com/wanderplan/wanderplan-backend/handlers"
	"github.com/wanderplan/wanderplan-backend/internal/auth"
	"github.com/wanderplan/wanderplan-backend/internal/query"
	"github.com/wanderplan/wanderplan-backend/internal/store"
	"github.com/wanderplan/wanderplan-backend/internal/store/fixture"
	supastore "github.com/wanderplan/wanderplan-backend/internal/store/supabase"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/middleware"
	itinsvc "github.com/wanderplan/wanderplan-backend/models/itinerary/service"
	prefsvc "github.com/wanderplan/wanderplan-backend/models/preferences/service"
	"github.com/wanderplan/wanderplan-backend/router"
)

func main() {
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		dataSource     store.DataSource
		sessions       auth.SessionProvider
		authMiddleware gin.HandlerFunc
		staleAfter     time.Duration
	)

	if cfg.UseFixtures() {
		log.Info("Using fixture data source; no backend required")
		dataSource = fixture.New()
		sessions = auth.NewStatic(fixture.UserID, "mock@example.com")
		authMiddleware = middleware.StaticAuth(fixture.UserID, "mock@example.com")
		// Fixtures are static, cached reads never go stale.
		staleAfter = 0
	} else {
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, &supabase.ClientOptions{})
		if err != nil {
			log.Fatalf("Failed to create Supabase client: %v", err)
		}
		dataSource = supastore.New(client)
		sessions = auth.NewSupabaseProvider(client.Auth, cfg.Session.MaxRetries, cfg.SessionRetryDelay())
		authMiddleware = middleware.AuthMiddleware(cfg.Supabase.JWTSecret)
		staleAfter = cfg.StaleAfter()
	}

	cache := query.New(staleAfter)
	itineraries := itinsvc.NewService(dataSource)
	preferences := prefsvc.NewService(dataSource)

	r := router.SetupRouter(router.Dependencies{
		Config:             cfg,
		AuthHandler:        handlers.NewAuthHandler(sessions),
		HealthHandler:      handlers.NewHealthHandler(cfg),
		ItineraryHandler:   handlers.NewItineraryHandler(itineraries, cache),
		PreferencesHandler: handlers.NewPreferencesHandler(preferences, cache),
		DestinationHandler: handlers.NewDestinationHandler(itineraries, cache),
		AuthMiddleware:     authMiddleware,
	})

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
