package notifier

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram messages are capped at 4096 characters.
const maxMessageLength = 4096

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    sender
	chatID int64
}

func NewTelegram(botToken, chatID string) (*Telegram, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: id}, nil
}

func (t *Telegram) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runes := []rune(message)
	if len(runes) > maxMessageLength {
		message = string(runes[:maxMessageLength-1]) + "…"
	}

	msg := tgbotapi.NewMessage(t.chatID, message)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}

	return nil
}
