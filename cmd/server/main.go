package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/camera"
	"github.com/presensia/presensia-backend/internal/config"
	"github.com/presensia/presensia-backend/internal/database"
	"github.com/presensia/presensia-backend/internal/facematch"
	"github.com/presensia/presensia-backend/internal/handler"
	"github.com/presensia/presensia-backend/internal/logger"
	"github.com/presensia/presensia-backend/internal/repository"
	"github.com/presensia/presensia-backend/internal/router"
	"github.com/presensia/presensia-backend/internal/service"
	"github.com/presensia/presensia-backend/internal/validator"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("face_skip", cfg.FaceSkip).
		Msg("Starting Presensia Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories.
	operatorRepo := repository.NewOperatorRepository(pool)
	personRepo := repository.NewPersonRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	// Services.
	authService := service.NewAuthService(cfg, rdb)
	registry := service.NewRegistry()
	sessionService := service.NewSessionService(scheduleRepo, attendanceRepo, registry, log)
	personService := service.NewPersonService(personRepo, log)
	publisher := service.NewRedisAttendancePublisher(rdb)
	ledgerService := service.NewLedgerService(personRepo, attendanceRepo, publisher, log)

	matcher := facematch.New(cfg.FaceServiceURL, cfg.FaceSkip)
	hub := camera.NewHub()

	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, operatorRepo),
		Person:  handler.NewPersonHandler(personService),
		Session: handler.NewSessionHandler(sessionService),
		Stream:  handler.NewStreamHandler(cfg, hub, sessionService, ledgerService, matcher, log),
		Monitor: handler.NewMonitorHandler(rdb, sessionService, log),
		WS:      handler.NewWSHandler(hub, sessionService, log, cfg.AllowedOrigins),
	}

	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests. In-flight MJPEG and SSE streams
	// observe their request contexts being canceled and unwind, releasing
	// their cameras on the way out.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
