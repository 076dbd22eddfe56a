// Package telegram adapts the Telegram Bot API to the transport
// interface.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ferranmt/saludbot/internal/metrics"
	"github.com/ferranmt/saludbot/internal/transport"
)

// Transport sends and edits messages through the Bot API.
type Transport struct {
	api *tgbotapi.BotAPI
}

// New authorizes against the Bot API with the given token.
func New(token string) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	slog.Info("authorized on telegram", "account", api.Self.UserName)
	return &Transport{api: api}, nil
}

// API exposes the underlying client for update polling.
func (t *Transport) API() *tgbotapi.BotAPI { return t.api }

// SendMessage delivers text to a chat.
func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string, opts transport.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = opts.ParseMode
	msg.DisableWebPagePreview = opts.DisablePreview
	if markup := keyboard(opts.Buttons); markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := t.api.Send(msg); err != nil {
		metrics.MessagesSent.WithLabelValues("error").Inc()
		return fmt.Errorf("telegram send failed: %w", err)
	}
	metrics.MessagesSent.WithLabelValues("ok").Inc()
	return nil
}

func keyboard(rows [][]transport.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		out = append(out, btns)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &markup
}

// EditMessage replaces the text of an existing message.
func (t *Transport) EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts transport.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = opts.ParseMode
	if markup := keyboard(opts.Buttons); markup != nil {
		edit.ReplyMarkup = markup
	}

	if _, err := t.api.Send(edit); err != nil {
		metrics.MessagesSent.WithLabelValues("error").Inc()
		return fmt.Errorf("telegram edit failed: %w", err)
	}
	metrics.MessagesSent.WithLabelValues("ok").Inc()
	return nil
}
