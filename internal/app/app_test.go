package app

import (
	"context"
	"testing"

	"github.com/Alias1177/SolarPredictor/internal/config"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okClient struct{}

func (okClient) Predict(context.Context, models.PredictionInput) (*models.PredictionResponse, error) {
	return &models.PredictionResponse{Latitude: 12.97, Longitude: 77.59, PredictedGeneratedKW: 2.5}, nil
}

func TestNewWithoutSideServices(t *testing.T) {
	cfg := &config.Config{RecordHistory: true, HistoryLimit: 5}
	a := New(context.Background(), cfg, okClient{})

	assert.Nil(t, a.DB)
	assert.Nil(t, a.Notifier)
	assert.Nil(t, a.Publisher)
	require.NoError(t, a.LoadHistory(context.Background()))

	_, err := a.Gateway.Submit(context.Background(), models.PredictionInput{Irradiance: 600})
	require.NoError(t, err)
	assert.Len(t, a.Gateway.Snapshot().HistoricalData, 1)

	assert.NoError(t, a.Close())
}

func TestNewWithKafka(t *testing.T) {
	cfg := &config.Config{Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "solar"}}
	a := New(context.Background(), cfg, okClient{})

	require.NotNil(t, a.Publisher)
	assert.NoError(t, a.Close())
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	SetupLogging("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogging("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNewPredictorClient(t *testing.T) {
	cfg := config.FromEnv()
	assert.NotNil(t, NewPredictorClient(cfg))
}
