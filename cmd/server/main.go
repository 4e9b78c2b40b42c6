package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/whisperlink/whisperlink-backend/internal/config"
	"github.com/whisperlink/whisperlink-backend/internal/database"
	"github.com/whisperlink/whisperlink-backend/internal/handlers"
	"github.com/whisperlink/whisperlink-backend/internal/middleware"
	"github.com/whisperlink/whisperlink-backend/internal/routes"
	"github.com/whisperlink/whisperlink-backend/internal/services"
	"github.com/whisperlink/whisperlink-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.TogetherAPIKey == "" || cfg.TogetherAPIKey == config.TogetherPlaceholderKey {
		log.Println("⚠️  WARNING: TOGETHER_API_KEY not set. AI feedback enhancement will fall back to raw input.")
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Start the shared Redis subscriber feeding dashboard websockets
	services.StartFeedbackSubscriber(context.Background())

	// Wire up stores and the feedback flow
	profiles := store.NewProfileStore(database.PostgresDB)
	feedbacks := store.NewFeedbackStore(database.PostgresDB)
	augmenter := services.NewTogetherService(cfg)
	fh := handlers.NewFeedbackHandler(profiles, feedbacks, augmenter)
	dh := handlers.NewDashboardHandler(profiles, feedbacks, cfg.FrontendURL)

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit, then the Redis limiter
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	}
	r.Use(middleware.RateLimitMiddleware)

	// Health check
	r.Get("/health", handlers.HealthCheck)

	// Setup routes
	routes.SetupRoutes(r, fh, dh)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/signin")
	log.Println("  POST   /api/auth/signout")
	log.Println("  GET    /api/auth/me")
	log.Println("  GET    /api/feedback/{linkID}")
	log.Println("  POST   /api/feedback/{linkID}")
	log.Println("  POST   /api/feedback/{linkID}/preview")
	log.Println("  POST   /api/feedback/{linkID}/confirm")
	log.Println("  DELETE /api/feedback/delete/{deleteToken}")
	log.Println("  GET    /api/dashboard")
	log.Println("  GET    /api/profile")
	log.Println("  DELETE /api/dashboard/feedback/{feedbackID}")
	log.Println("  GET    /ws/dashboard")

	log.Printf("🚀 WhisperLink backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
