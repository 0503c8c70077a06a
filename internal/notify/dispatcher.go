package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

// Delivery is a message to push to a chat.
type Delivery struct {
	UserID int64
	ChatID int64
	Text   string
}

// Dispatcher pushes already-stored notifications. Delivery is best effort:
// failures are logged by the implementation and never returned.
type Dispatcher interface {
	Dispatch(ctx context.Context, deliveries []Delivery)
}

// Deliveries pairs notifications with the recipients' chat ids, skipping
// recipients that have none.
func Deliveries(d *model.AppointmentDetails, notifications []*model.Notification) []Delivery {
	var out []Delivery
	for _, n := range notifications {
		chatID := d.ChatIDFor(n.UserID)
		if chatID == nil {
			continue
		}
		out = append(out, Delivery{UserID: n.UserID, ChatID: *chatID, Text: n.Message})
	}
	return out
}

type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, []Delivery) {}

// TelegramDispatcher отправляет уведомления через Telegram бота
type TelegramDispatcher struct {
	bot    *bot.Bot
	logger *zap.Logger
}

// NewTelegramDispatcher создаёт клиента бота по токену
func NewTelegramDispatcher(token string, logger *zap.Logger) (*TelegramDispatcher, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramDispatcher{bot: b, logger: logger}, nil
}

// Dispatch отправляет сообщения по одному и логирует если не удалось
func (d *TelegramDispatcher) Dispatch(ctx context.Context, deliveries []Delivery) {
	for _, dl := range deliveries {
		_, err := d.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: dl.ChatID,
			Text:   dl.Text,
		})
		if err != nil {
			d.logger.Error("Failed to push notification",
				zap.Int64("user_id", dl.UserID),
				zap.Int64("chat_id", dl.ChatID),
				zap.Error(err),
			)
			continue
		}
		d.logger.Debug("Notification pushed",
			zap.Int64("user_id", dl.UserID),
			zap.Int64("chat_id", dl.ChatID),
		)
	}
}
