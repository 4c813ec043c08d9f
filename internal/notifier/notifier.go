package notifier

import (
	"fmt"

	"auction-bot/internal/telegram"
	"auction-bot/utils"
)

// Notifier delivers outcome messages to users. Delivery is best-effort:
// callers log failures and never let them affect committed state.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// TelegramNotifier sends notifications through the Telegram Bot API
type TelegramNotifier struct {
	client *telegram.Client
}

// NewTelegramNotifier creates a Telegram-backed notifier
func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

// Notify sends a plain-text message to the chat
func (n *TelegramNotifier) Notify(chatID int64, text string) error {
	if err := n.client.SendMessage(chatID, text, nil); err != nil {
		return fmt.Errorf("notify chat %d: %w", chatID, err)
	}
	return nil
}

// LogNotifier writes notifications to the log instead of a chat transport.
// Used when running without a live bot, and in tests.
type LogNotifier struct{}

// Notify logs the notification and always succeeds
func (LogNotifier) Notify(chatID int64, text string) error {
	utils.Info("notification", map[string]any{"chat_id": chatID, "text": text})
	return nil
}
