package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scryptocybershield/sportsclub/internal/api"
	"github.com/scryptocybershield/sportsclub/internal/config"
	"github.com/scryptocybershield/sportsclub/internal/database"
	"github.com/scryptocybershield/sportsclub/internal/metrics"
)

// main is the entry point for the sports club backend server.
func main() {
	// --- 1. Load Configuration ---
	// A .env file is convenient during development; in production the
	// variables come from the environment.
	envErr := godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load application configuration")
	}

	// --- 2. Configure Logging ---
	setupLogging(cfg)
	if envErr != nil {
		log.Info().Msg("no .env file found, using environment variables from the system")
	}

	// --- 3. Ensure the Data Directory Exists ---
	// Only needed when the database lives under DATA_PATH.
	if cfg.DbPath != "" {
		if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
			log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("failed to create data directory")
		}
	}

	// --- 4. Initialize Database Service and Schema ---
	dbService, err := database.NewService(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database service")
	}
	defer dbService.Close()

	if err := dbService.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	// --- 5. Set Up API Server and Routes ---
	serverAPI := api.NewServer(cfg, dbService, metrics.New())
	if err := serverAPI.EnsureBootstrapKey(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to provision bootstrap api key")
	}
	if !cfg.AuthEnabled {
		log.Warn().Msg("authentication is disabled; every request is accepted")
	}

	router := chi.NewRouter()
	serverAPI.RegisterRoutes(router)

	// --- 6. Start the HTTP Server ---
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("sports club server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// --- 7. Wait for a Shutdown Signal ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("sports club server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(cfg.LogFormat, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "sportsclub").Logger()
}
