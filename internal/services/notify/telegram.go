package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"argus/internal/domain/alert"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

const (
	telegramMaxAttempts = 3
	telegramRetryDelay  = time.Second
)

// MessageSender abstracts the bot client so retry behavior can be tested
// without the network
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Ensure TelegramChannel implements Channel
var _ Channel = (*TelegramChannel)(nil)

// TelegramChannel delivers alerts to a chat. Server-side (5xx) and transport
// errors are retried with linear backoff up to the attempt cap; client errors
// (4xx) fail immediately.
type TelegramChannel struct {
	sender MessageSender
	chatID int64
	sleep  func(time.Duration)
	log    *logger.Logger
}

// NewTelegramChannel creates a telegram channel for one chat
func NewTelegramChannel(sender MessageSender, chatID int64, log *logger.Logger) *TelegramChannel {
	return &TelegramChannel{
		sender: sender,
		chatID: chatID,
		sleep:  time.Sleep,
		log:    log.With("channel", "telegram", "chat_id", chatID),
	}
}

func (c *TelegramChannel) Name() string { return "telegram" }

// Notify sends the alert, retrying transient failures
func (c *TelegramChannel) Notify(ctx context.Context, a *alert.Alert) bool {
	text := c.format(a)

	for attempt := 1; attempt <= telegramMaxAttempts; attempt++ {
		err := c.sender.SendMessage(ctx, c.chatID, text)
		if err == nil {
			return true
		}

		if !retryable(err) {
			c.log.Warnw("Telegram send rejected, not retrying", "alert_id", a.ID, "error", err)
			return false
		}

		c.log.Warnw("Telegram send failed",
			"alert_id", a.ID, "attempt", attempt, "error", err)

		if attempt < telegramMaxAttempts {
			c.sleep(telegramRetryDelay * time.Duration(attempt))
		}
	}

	c.log.Errorw("Telegram delivery exhausted retries", "alert_id", a.ID)
	return false
}

func (c *TelegramChannel) format(a *alert.Alert) string {
	text := fmt.Sprintf("🚨 *%s*\n%s", a.Symbol, a.Message)
	if summary := summaryFor(a); summary != "" {
		text += fmt.Sprintf("\n\n_%s_", summary)
	}
	return text
}

// retryable reports whether a send error is worth another attempt. API
// errors below 500 are client mistakes and will not heal on retry; anything
// else (5xx, timeouts, transport failures) might.
func retryable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500
	}
	return true
}
