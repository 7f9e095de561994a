package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/SolarPredictor/internal/app"
	"github.com/Alias1177/SolarPredictor/internal/config"
	"github.com/Alias1177/SolarPredictor/internal/geo"
	"github.com/Alias1177/SolarPredictor/internal/server"
	"github.com/Alias1177/SolarPredictor/internal/validation"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.SetupLogging(cfg.LogLevel)

	profile, err := validation.ProfileByName(cfg.ValidationProfile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid VALIDATION_PROFILE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, app.NewPredictorClient(cfg))
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing services")
		}
	}()

	if err := a.LoadHistory(ctx); err != nil {
		log.Warn().Err(err).Msg("Starting with empty history")
	}

	opts := server.Options{
		Profile:     profile,
		DefaultForm: validation.DefaultForm(cfg),
		Locator: geo.StaticProvider{Position: geo.Coordinates{
			Latitude:  cfg.DefaultLatitude,
			Longitude: cfg.DefaultLongitude,
		}},
		HistoryLimit:   cfg.HistoryLimit,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	}
	if a.DB != nil {
		opts.History = a.DB
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(a.Gateway, opts).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.HTTPAddr).
			Str("predictor", cfg.PredictorURL).
			Str("profile", profile.Name).
			Bool("record_history", cfg.RecordHistory).
			Msg("Solar dashboard API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
