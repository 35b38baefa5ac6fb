package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/opencivic/data-request-backend/internal/auth"
	"github.com/opencivic/data-request-backend/internal/classification"
	"github.com/opencivic/data-request-backend/internal/config"
	"github.com/opencivic/data-request-backend/internal/database"
	"github.com/opencivic/data-request-backend/internal/handler"
	appMiddleware "github.com/opencivic/data-request-backend/internal/middleware"
	"github.com/opencivic/data-request-backend/internal/repository"
	"github.com/opencivic/data-request-backend/internal/service"
)

func main() {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(db); err != nil {
			log.Printf("Failed to disconnect from database: %v", err)
		}
	}()

	// Bootstrap indexes and seed data
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(startupCtx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize JWT manager (identity stub)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	// Initialize repositories and services
	requestRepo := repository.NewDataRequestRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	requestService := service.NewDataRequestService(requestRepo, voteRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	classificationService := classification.NewService(cfg.CacheTTL, nil)

	if err := categoryService.Seed(startupCtx); err != nil {
		log.Fatalf("Failed to seed default categories: %v", err)
	}
	log.Println("Default categories seeded")

	// Initialize handlers
	requestHandler := handler.NewDataRequestHandler(requestService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	classificationHandler := handler.NewClassificationHandler(classificationService)

	// Initialize router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appMiddleware.Identity(jwtManager))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/data-requests", func(r chi.Router) {
			// Public reads
			r.Get("/", requestHandler.List)
			r.Get("/popular", requestHandler.Popular)
			r.Get("/stats", requestHandler.Stats)
			r.Get("/user/{userID}", requestHandler.UserRequests)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Get("/{id}", categoryHandler.GetByID)
			})

			r.Get("/{id}", requestHandler.GetByID)

			// Writes require a caller identity
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireUser)
				r.Post("/", requestHandler.Create)
				r.Put("/{id}", requestHandler.Update)
				r.Delete("/{id}", requestHandler.Delete)
				r.Post("/{id}/vote", requestHandler.Vote)
				r.Delete("/{id}/vote", requestHandler.Unvote)
				r.Put("/{id}/status", requestHandler.UpdateStatus)
			})
		})

		// Classification routes
		r.Mount("/classification", classificationHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s (env: %s)", port, cfg.Environment)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
