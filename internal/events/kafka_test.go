package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/SolarPredictor/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishPrediction(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w)
	p.newID = func() string { return "evt-1" }

	created := time.Date(2026, 6, 21, 8, 0, 0, 0, time.UTC)
	rec := models.PredictionRecord{
		ID:        "rec-1",
		Response:  models.PredictionResponse{Latitude: 10, Longitude: 20, PredictedGeneratedKW: 1.5},
		CreatedAt: created,
	}
	require.NoError(t, p.PublishPrediction(context.Background(), rec))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "rec-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventPredictionCompleted, string(msg.Headers[0].Value))

	var event PredictionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "evt-1", event.EventID)
	assert.Equal(t, EventPredictionCompleted, event.Type)
	assert.True(t, created.Equal(event.OccurredAt))
	assert.Equal(t, 1.5, event.Prediction.Response.PredictedGeneratedKW)
}

func TestPublishPredictionError(t *testing.T) {
	p := NewPublisher(&fakeWriter{err: errors.New("no brokers")})
	err := p.PublishPrediction(context.Background(), models.PredictionRecord{ID: "x"})
	assert.ErrorContains(t, err, "write prediction event")
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "solar-prediction-topic")
	assert.Equal(t, "solar-prediction-topic", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())

	p := NewPublisher(&fakeWriter{})
	assert.NoError(t, p.Close())
}
