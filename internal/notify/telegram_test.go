package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/Alias1177/SolarPredictor/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestNotifyPrediction(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramWithSender(sender, 42)

	rec := models.PredictionRecord{
		ID:       "abc",
		Input:    models.PredictionInput{Location: "Mumbai, India"},
		Response: models.PredictionResponse{Latitude: 19.076, Longitude: 72.8777, PredictedGeneratedKW: 4.2},
	}
	require.NoError(t, n.NotifyPrediction(context.Background(), rec))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "Mumbai, India")
	assert.Contains(t, sender.sent[0].Text, "generate 4.20 kW of power.")
}

func TestNotifyPredictionError(t *testing.T) {
	n := NewTelegramWithSender(&fakeSender{err: errors.New("forbidden")}, 1)
	err := n.NotifyPrediction(context.Background(), models.PredictionRecord{})
	assert.ErrorContains(t, err, "forbidden")
}

func TestSendHonoursContext(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramWithSender(sender, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "hi"), context.Canceled)
	assert.Empty(t, sender.sent)
}
