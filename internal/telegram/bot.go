package telegram

import (
	"context"
	"time"

	"auction-bot/utils"
)

// UpdateHandler turns inbound commands and callbacks into reply text. An
// empty reply means no response is sent.
type UpdateHandler interface {
	HandleCommand(userID, chatID int64, username, text string) (string, *InlineKeyboardMarkup)
	HandleCallback(userID, chatID int64, data string) string
}

// Bot runs the long-polling loop and dispatches each update to the handler.
// Updates are handled on their own goroutines so a slow command does not
// stall polling; all shared state lives behind the persistence gateway.
type Bot struct {
	client      *Client
	handler     UpdateHandler
	pollTimeout int
}

// NewBot creates the polling bot
func NewBot(client *Client, handler UpdateHandler, pollTimeoutSeconds int) *Bot {
	return &Bot{
		client:      client,
		handler:     handler,
		pollTimeout: pollTimeoutSeconds,
	}
}

// Run polls for updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			utils.Warn("polling failed", map[string]any{"error": err.Error()})
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go b.dispatch(update)
		}
	}
}

// dispatch routes one update to the handler and sends the reply
func (b *Bot) dispatch(update Update) {
	switch {
	case update.Message != nil && update.Message.From != nil && update.Message.Text != "":
		msg := update.Message
		reply, markup := b.handler.HandleCommand(msg.From.ID, msg.Chat.ID, msg.From.Username, msg.Text)
		if reply == "" {
			return
		}
		if err := b.client.SendMessage(msg.Chat.ID, reply, markup); err != nil {
			utils.Error("failed to send reply", map[string]any{"chat_id": msg.Chat.ID, "error": err.Error()})
		}

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if err := b.client.AnswerCallbackQuery(cb.ID); err != nil {
			utils.Warn("failed to answer callback", map[string]any{"callback_id": cb.ID, "error": err.Error()})
		}
		var chatID int64
		if cb.Message != nil {
			chatID = cb.Message.Chat.ID
		}
		reply := b.handler.HandleCallback(cb.From.ID, chatID, cb.Data)
		if reply == "" || chatID == 0 {
			return
		}
		if err := b.client.SendMessage(chatID, reply, nil); err != nil {
			utils.Error("failed to send callback reply", map[string]any{"chat_id": chatID, "error": err.Error()})
		}
	}
}
