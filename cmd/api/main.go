package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/cadenza-app/cadenza/internal/adapters/cache"
	adapterHTTP "github.com/cadenza-app/cadenza/internal/adapters/handler/http"
	"github.com/cadenza-app/cadenza/internal/adapters/repository"
	"github.com/cadenza-app/cadenza/internal/core/domain"
	"github.com/cadenza-app/cadenza/internal/core/services"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	serverPort := getenv("PORT", "8080")

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

	userRepo := repository.NewPostgresUserRepository(db)
	checkInRepo := repository.NewPostgresCheckInRepository(db)
	followRepo := repository.NewPostgresFollowRepository(db)

	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)

	rdb, err := cache.NewRedisClient(
		getenv("REDIS_HOST", "localhost"),
		getenv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	} else {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb)
	}

	workers, _ := strconv.Atoi(getenv("LEADERBOARD_WORKERS", "8"))

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "cadenza-api", 7*24*time.Hour, userRepo)
	habitService := services.NewHabitService(habitRepo)
	checkInService := services.NewCheckInService(checkInRepo, habitRepo)
	socialService := services.NewSocialService(followRepo, userRepo, habitRepo, checkInRepo)
	leaderboardService := services.NewLeaderboardService(userRepo, habitRepo, checkInRepo, workers)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:        adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:       adapterHTTP.NewHabitHandler(habitService, checkInService),
		CheckInHandler:     adapterHTTP.NewCheckInHandler(checkInService),
		SocialHandler:      adapterHTTP.NewSocialHandler(socialService, authService),
		LeaderboardHandler: adapterHTTP.NewLeaderboardHandler(leaderboardService),
		TokenService:       tokenService,
		DB:                 db,
		Redis:              rdb,
		StartTime:          startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Cadenza API running on http://localhost:%s", serverPort)
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
