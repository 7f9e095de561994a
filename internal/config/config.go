package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	PredictorURL    string   `env:"PREDICTOR_API_URL" envDefault:"http://127.0.0.1:8000"`
	RequestTimeout  int      `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	RequestsPerSec  int      `env:"REQUESTS_PER_SEC" envDefault:"5"`
	MaxRetries      int      `env:"MAX_RETRIES" envDefault:"3"`
	MaxRetryTimeout int      `env:"MAX_RETRY_TIMEOUT" envDefault:"30"` // seconds
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr        string   `env:"HTTP_ADDR" envDefault:":8080"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:4200,http://127.0.0.1:4200"`
	MetricsEnabled  bool     `env:"METRICS_ENABLED" envDefault:"true"`

	ValidationProfile string `env:"VALIDATION_PROFILE" envDefault:"wide"`
	RecordHistory     bool   `env:"RECORD_HISTORY" envDefault:"false"`
	HistoryLimit      int    `env:"HISTORY_LIMIT" envDefault:"50"`
	ExportDir         string `env:"EXPORT_DIR" envDefault:"."`

	DefaultLocation  string  `env:"DEFAULT_LOCATION" envDefault:"Mumbai, India"`
	DefaultLatitude  float64 `env:"DEFAULT_LATITUDE" envDefault:"19.076"`
	DefaultLongitude float64 `env:"DEFAULT_LONGITUDE" envDefault:"72.8777"`

	DB       DatabaseConfig
	Telegram TelegramConfig
	Kafka    KafkaConfig
}

// DatabaseConfig holds PostgreSQL settings for the prediction history store
type DatabaseConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"solar"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// Enabled reports whether a database host was configured
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// TelegramConfig holds notifier settings
type TelegramConfig struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `env:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether both token and chat were configured
func (c TelegramConfig) Enabled() bool { return c.BotToken != "" && c.ChatID != 0 }

// KafkaConfig holds prediction event publisher settings
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"solar-prediction-topic"`
}

// Enabled reports whether any broker was configured
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// RequestTimeoutDuration returns RequestTimeout as a time.Duration
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// MaxRetryTimeoutDuration returns MaxRetryTimeout as a time.Duration
func (c *Config) MaxRetryTimeoutDuration() time.Duration {
	return time.Duration(c.MaxRetryTimeout) * time.Second
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	return FromEnv(), nil
}

// FromEnv builds the configuration from the current process environment
func FromEnv() *Config {
	var cfg Config

	cfg.PredictorURL = strings.TrimRight(getEnvWithDefault("PREDICTOR_API_URL", "http://127.0.0.1:8000"), "/")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.MaxRetries = getEnvIntWithDefault("MAX_RETRIES", 3)
	cfg.MaxRetryTimeout = getEnvIntWithDefault("MAX_RETRY_TIMEOUT", 30)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.HTTPAddr = getEnvWithDefault("HTTP_ADDR", ":8080")
	cfg.AllowedOrigins = getEnvListWithDefault("ALLOWED_ORIGINS", []string{"http://localhost:4200", "http://127.0.0.1:4200"})
	cfg.MetricsEnabled = getEnvBoolWithDefault("METRICS_ENABLED", true)

	cfg.ValidationProfile = getEnvWithDefault("VALIDATION_PROFILE", "wide")
	cfg.RecordHistory = getEnvBoolWithDefault("RECORD_HISTORY", false)
	cfg.HistoryLimit = getEnvIntWithDefault("HISTORY_LIMIT", 50)
	cfg.ExportDir = getEnvWithDefault("EXPORT_DIR", ".")

	cfg.DefaultLocation = getEnvWithDefault("DEFAULT_LOCATION", "Mumbai, India")
	cfg.DefaultLatitude = getEnvFloatWithDefault("DEFAULT_LATITUDE", 19.076)
	cfg.DefaultLongitude = getEnvFloatWithDefault("DEFAULT_LONGITUDE", 72.8777)

	cfg.DB = DatabaseConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     getEnvWithDefault("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     getEnvWithDefault("DB_NAME", "solar"),
		SSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
	}

	cfg.Telegram = TelegramConfig{
		BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:   getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),
	}

	cfg.Kafka = KafkaConfig{
		Brokers: getEnvListWithDefault("KAFKA_BROKERS", nil),
		Topic:   getEnvWithDefault("KAFKA_TOPIC", "solar-prediction-topic"),
	}

	return &cfg
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvListWithDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
