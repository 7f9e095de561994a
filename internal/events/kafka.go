// Package events publishes completed predictions to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alias1177/SolarPredictor/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// EventPredictionCompleted is the type of every event written by Publisher
const EventPredictionCompleted = "prediction.completed"

// PredictionEvent is the message value written to the topic
type PredictionEvent struct {
	EventID    string                  `json:"event_id"`
	Type       string                  `json:"type"`
	OccurredAt time.Time               `json:"occurred_at"`
	Prediction models.PredictionRecord `json:"prediction"`
}

// MessageWriter is the part of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes prediction events
type Publisher struct {
	writer MessageWriter
	logger zerolog.Logger
	newID  func() string
}

// NewWriter creates the Kafka writer for the prediction topic
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher creates a publisher on writer
func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{
		writer: writer,
		logger: log.With().Str("component", "kafka_publisher").Logger(),
		newID:  uuid.NewString,
	}
}

// PublishPrediction writes rec keyed by its id. It matches dashboard.PredictionHook.
func (p *Publisher) PublishPrediction(ctx context.Context, rec models.PredictionRecord) error {
	event := PredictionEvent{
		EventID:    p.newID(),
		Type:       EventPredictionCompleted,
		OccurredAt: rec.CreatedAt,
		Prediction: rec,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal prediction event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventPredictionCompleted)},
		},
	})
	if err != nil {
		return fmt.Errorf("write prediction event: %w", err)
	}

	p.logger.Debug().Str("event_id", event.EventID).Str("prediction_id", rec.ID).Msg("Prediction event published")
	return nil
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
