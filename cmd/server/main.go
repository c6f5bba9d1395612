package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironcoach/tri-planner/internal/api"
	"ironcoach/tri-planner/internal/config"
	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/repository/mongo"
	"ironcoach/tri-planner/internal/service"
	"ironcoach/tri-planner/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Tri Planner Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection(mongo.UserCollection))
		mongo.EnsureProfileIndexes(ctx, appDB.Collection(mongo.ProfileCollection))
		mongo.EnsureLogIndexes(ctx, appDB.Collection(mongo.LogCollection))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection(mongo.PlanCollection))
		mongo.EnsurePreferencesIndexes(ctx, appDB.Collection(mongo.PreferencesCollection))
		mongo.EnsureWellnessIndexes(ctx, appDB.Collection(mongo.WellnessCollection))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	logRepo := mongo.NewMongoLogRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	prefsRepo := mongo.NewMongoPreferencesRepository(appDB)
	wellnessRepo := mongo.NewMongoWellnessRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	plannerService := service.NewPlannerService(profileRepo, logRepo, planRepo, prefsRepo, wellnessRepo, service.PlannerOptions{
		DefaultStrategy:     domain.SchedulingStrategyName(cfg.Planner.DefaultStrategy),
		DefaultRampLimit:    cfg.Planner.DefaultRampLimit,
		MaxHorizonMonths:    cfg.Planner.MaxHorizonMonths,
		EnableSmartPlanning: cfg.Planner.EnableSmartPlanning,
	})
	athleteService := service.NewAthleteService(profileRepo, prefsRepo, wellnessRepo, logRepo)
	importService := service.NewImportService(logRepo, profileRepo)
	backupService := service.NewBackupService(profileRepo, prefsRepo, planRepo, fileStorage)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, plannerService, athleteService, importService, backupService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
