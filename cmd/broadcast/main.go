package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/SolarPredictor/internal/app"
	"github.com/Alias1177/SolarPredictor/internal/config"
	"github.com/Alias1177/SolarPredictor/internal/database"
	"github.com/Alias1177/SolarPredictor/internal/notify"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.SetupLogging(cfg.LogLevel)

	limit := flag.Int("limit", 10, "Number of recent predictions to summarise")
	flag.Parse()

	if !cfg.DB.Enabled() {
		log.Fatal().Msg("DB_HOST not set in environment")
	}
	if !cfg.Telegram.Enabled() {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Initialize Telegram bot
	notifier, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	records, err := db.RecentPredictions(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load predictions")
	}
	total, err := db.CountPredictions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count predictions")
		total = len(records)
	}

	log.Info().Int("found", len(records)).Int("total", total).Msg("Loaded predictions")

	if err := notifier.Send(ctx, summary(records, total)); err != nil {
		log.Fatal().Err(err).Msg("Failed to send broadcast")
	}

	log.Info().Int64("chat_id", cfg.Telegram.ChatID).Msg("Broadcast completed")
}

// summary renders the broadcast text for records, oldest first
func summary(records []models.PredictionRecord, total int) string {
	if len(records) == 0 {
		return "☀️ No solar predictions recorded yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "☀️ Latest %d of %d solar predictions\n", len(records), total)

	var sum, best float64
	var bestAt string
	for _, rec := range records {
		kw := rec.Response.PredictedGeneratedKW
		sum += kw
		if bestAt == "" || kw > best {
			best = kw
			bestAt = label(rec)
		}

		fmt.Fprintf(&b, "\n• %s  %s: %.2f kW", rec.CreatedAt.Format("2006-01-02 15:04"), label(rec), kw)
		if rec.Optimal != nil {
			fmt.Fprintf(&b, " (tilt %.1f°, azimuth %.0f°)", rec.Optimal.OptimalTilt, rec.Optimal.OptimalAzimuth)
		}
	}

	fmt.Fprintf(&b, "\n\nAverage: %.2f kW\nBest: %.2f kW at %s", sum/float64(len(records)), best, bestAt)
	return b.String()
}

func label(rec models.PredictionRecord) string {
	if rec.Input.Location != "" {
		return rec.Input.Location
	}
	return fmt.Sprintf("%.4f, %.4f", rec.Response.Latitude, rec.Response.Longitude)
}
