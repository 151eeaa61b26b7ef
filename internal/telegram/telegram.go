// Package telegram sends run alerts to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/deusflow/analystbot/internal/logger"
)

// maxDetailLen keeps formatted alerts under the 4096 character message limit.
const maxDetailLen = 3000

// Sender delivers an HTML message to a chat.
type Sender interface {
	SendHTML(ctx context.Context, chatID int64, text string) error
}

// BotSender implements Sender with the Bot API.
type BotSender struct {
	api *tgbotapi.BotAPI
}

// NewBotSender authenticates token against the Bot API.
func NewBotSender(token string) (*BotSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &BotSender{api: api}, nil
}

// NewBotSenderWithEndpoint is NewBotSender against a custom API endpoint,
// formatted like tgbotapi.APIEndpoint.
func NewBotSenderWithEndpoint(token, endpoint string, client tgbotapi.HTTPClient) (*BotSender, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &BotSender{api: api}, nil
}

func (s *BotSender) SendHTML(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Notifier formats and sends run reports. A nil *Notifier is valid and
// sends nothing.
type Notifier struct {
	sender Sender
	chatID int64
	log    *slog.Logger
}

func NewNotifier(sender Sender, chatID int64, log *slog.Logger) *Notifier {
	return &Notifier{sender: sender, chatID: chatID, log: logger.OrDiscard(log)}
}

// Published reports a successful run.
func (n *Notifier) Published(ctx context.Context, title, location, model string) {
	n.send(ctx, FormatPublished(title, location, model))
}

// Failed reports a failed run.
func (n *Notifier) Failed(ctx context.Context, stage string, err error) {
	n.send(ctx, FormatFailure(stage, err))
}

// Alerts are best effort; delivery errors are only logged.
func (n *Notifier) send(ctx context.Context, text string) {
	if n == nil || n.sender == nil {
		return
	}
	if err := n.sender.SendHTML(ctx, n.chatID, text); err != nil {
		n.log.Warn("failed to send telegram alert", "error", err)
	}
}

// FormatPublished renders the success alert.
func FormatPublished(title, location, model string) string {
	var b strings.Builder
	b.WriteString("✅ <b>Post published</b>\n")
	b.WriteString(html.EscapeString(truncate(title)))
	b.WriteString("\n\n<code>")
	b.WriteString(html.EscapeString(location))
	b.WriteString("</code>")
	if model != "" {
		b.WriteString("\nmodel: ")
		b.WriteString(html.EscapeString(model))
	}
	return b.String()
}

// FormatFailure renders the failure alert.
func FormatFailure(stage string, err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf("❌ <b>Run failed</b> at %s\n<pre>%s</pre>",
		html.EscapeString(stage), html.EscapeString(truncate(msg)))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailLen {
		return s
	}
	return string(r[:maxDetailLen-1]) + "…"
}
