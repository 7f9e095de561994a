// Package app wires configuration into a ready dashboard gateway with its
// optional persistence, notification and event hooks.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Alias1177/SolarPredictor/internal/api/predictor"
	"github.com/Alias1177/SolarPredictor/internal/config"
	"github.com/Alias1177/SolarPredictor/internal/dashboard"
	"github.com/Alias1177/SolarPredictor/internal/database"
	"github.com/Alias1177/SolarPredictor/internal/events"
	"github.com/Alias1177/SolarPredictor/internal/notify"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived services of a process
type App struct {
	Config    *config.Config
	Gateway   *dashboard.Gateway
	DB        *database.DB // nil unless DB_HOST is set
	Notifier  *notify.Telegram
	Publisher *events.Publisher

	closers []func() error
}

// SetupLogging configures the global zerolog logger
func SetupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

// NewPredictorClient builds the prediction service client from cfg
func NewPredictorClient(cfg *config.Config) *predictor.Client {
	return predictor.NewClient(predictor.ClientOptions{
		BaseURL:         cfg.PredictorURL,
		RequestTimeout:  cfg.RequestTimeoutDuration(),
		RequestsPerSec:  cfg.RequestsPerSec,
		MaxRetries:      cfg.MaxRetries,
		MaxRetryTimeout: cfg.MaxRetryTimeoutDuration(),
	})
}

// New connects the configured side services and builds the gateway.
// Side services that fail to start are logged and skipped.
func New(ctx context.Context, cfg *config.Config, client models.PredictionClient) *App {
	a := &App{Config: cfg}
	logger := log.With().Str("component", "app").Logger()

	var opts []dashboard.Option
	if cfg.RecordHistory {
		opts = append(opts, dashboard.WithHistory(cfg.HistoryLimit))
	}

	if cfg.DB.Enabled() {
		db, err := database.New(ctx, database.ConnectionParams{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			DBName:   cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize database, history will not be persisted")
		} else {
			a.DB = db
			a.closers = append(a.closers, db.Close)
			opts = append(opts, dashboard.WithHook("postgres", db.SavePrediction))
			logger.Info().Str("host", cfg.DB.Host).Msg("Prediction history store enabled")
		}
	}

	if cfg.Telegram.Enabled() {
		n, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Error().Err(err).Msg("Telegram notifier disabled")
		} else {
			a.Notifier = n
			opts = append(opts, dashboard.WithHook("telegram", n.NotifyPrediction))
			logger.Info().Int64("chat_id", cfg.Telegram.ChatID).Msg("Telegram notifier enabled")
		}
	}

	if cfg.Kafka.Enabled() {
		a.Publisher = events.NewPublisher(events.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		a.closers = append(a.closers, a.Publisher.Close)
		opts = append(opts, dashboard.WithHook("kafka", a.Publisher.PublishPrediction))
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher enabled")
	}

	a.Gateway = dashboard.NewGateway(client, dashboard.NewStore(), opts...)
	return a
}

// LoadHistory seeds the dashboard history from the database
func (a *App) LoadHistory(ctx context.Context) error {
	if a.DB == nil || !a.Config.RecordHistory {
		return nil
	}
	records, err := a.DB.RecentPredictions(ctx, a.Config.HistoryLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	a.Gateway.ApplyUpdate(dashboard.WithHistoricalData(dashboard.HistoryRows(records)))
	return nil
}

// Close releases every side service
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
