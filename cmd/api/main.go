package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/strideapp/stride-engine/internal/adapters/cache"
	adapterHTTP "github.com/strideapp/stride-engine/internal/adapters/handler/http"
	"github.com/strideapp/stride-engine/internal/adapters/repository"
	"github.com/strideapp/stride-engine/internal/core/domain"
	"github.com/strideapp/stride-engine/internal/core/services"
	"github.com/strideapp/stride-engine/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var goalRepo domain.GoalRepository = repository.NewPostgresGoalRepository(db)
	completionRepo := repository.NewPostgresCompletionRepository(db)
	eventRepo := repository.NewPostgresEventRepository(db)
	noteRepo := repository.NewPostgresNoteRepository(db)
	summaryRepo := repository.NewPostgresSummaryRepository(db)
	accountRepo := repository.NewPostgresAccountRepository(db)

	redisClient, err := cache.NewClient(cache.Config{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		redisClient = nil
	} else {
		goalRepo = repository.NewCachedGoalRepository(goalRepo, redisClient)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	summaryWorker := workers.NewSummaryWorker(goalRepo, completionRepo, summaryRepo)
	summaryWorker.Start(workerCtx)

	tokenService := services.NewTokenService(jwtSecret, "stride-engine", 24*time.Hour)
	authService := services.NewAuthService(accountRepo)
	goalService := services.NewGoalService(goalRepo, completionRepo, eventRepo)
	checkinService := services.NewCheckinService(goalRepo, completionRepo, eventRepo, summaryWorker)
	noteService := services.NewNoteService(noteRepo, eventRepo)
	timelineService := services.NewTimelineService(goalRepo, completionRepo, eventRepo, summaryRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		GoalHandler:     adapterHTTP.NewGoalHandler(goalService),
		CheckinHandler:  adapterHTTP.NewCheckinHandler(checkinService),
		NoteHandler:     adapterHTTP.NewNoteHandler(noteService),
		TimelineHandler: adapterHTTP.NewTimelineHandler(timelineService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           redisClient,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Stride Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
