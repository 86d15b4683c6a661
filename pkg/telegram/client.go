package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier defines the interface for a Telegram notifier.
type Notifier interface {
	SendMessage(text string) error
}

// client is an implementation of Notifier.
type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient creates a new Telegram notifier client.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NewNotifier returns a Telegram client, or a no-op notifier when no bot
// token is configured.
func NewNotifier(botToken string, chatID int64) (Notifier, error) {
	if botToken == "" || chatID == 0 {
		return NopNotifier{}, nil
	}
	return NewClient(botToken, chatID)
}

// SendMessage sends a message to the configured Telegram chat.
func (c *client) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown // Using Markdown for formatting
	_, err := c.bot.Send(msg)
	return err
}

// NopNotifier discards every message.
type NopNotifier struct{}

// SendMessage does nothing.
func (NopNotifier) SendMessage(string) error { return nil }
