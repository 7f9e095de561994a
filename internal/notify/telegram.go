// Package notify forwards completed predictions to a Telegram chat.
package notify

import (
	"context"
	"fmt"

	"github.com/Alias1177/SolarPredictor/internal/report"
	"github.com/Alias1177/SolarPredictor/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends prediction summaries to a single chat
type Telegram struct {
	sender Sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegram connects to the Bot API with token
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return NewTelegramWithSender(bot, chatID), nil
}

// NewTelegramWithSender creates a notifier on an existing sender
func NewTelegramWithSender(sender Sender, chatID int64) *Telegram {
	return &Telegram{
		sender: sender,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Int64("chat_id", chatID).Logger(),
	}
}

// Send delivers a plain text message to the chat
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

// NotifyPrediction sends the summary of rec. It matches dashboard.PredictionHook.
func (t *Telegram) NotifyPrediction(ctx context.Context, rec models.PredictionRecord) error {
	if err := t.Send(ctx, report.RecordMessage(rec)); err != nil {
		return err
	}
	t.logger.Debug().Str("prediction_id", rec.ID).Msg("Prediction sent to Telegram")
	return nil
}
