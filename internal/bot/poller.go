package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poller consumes Telegram updates over long polling and feeds them to
// the conversation handler.
type Poller struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	log     *slog.Logger
}

// NewPoller builds a poller over an authorized Bot API client.
func NewPoller(api *tgbotapi.BotAPI, handler *Handler) *Poller {
	return &Poller{
		api:     api,
		handler: handler,
		log:     slog.With("component", "poller"),
	}
}

// Run polls for updates until the context is cancelled. Each update is
// handled inline: ordering per chat matters more than throughput here.
func (p *Poller) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60

	updates := p.api.GetUpdatesChan(cfg)
	p.log.Info("polling for updates")

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			p.log.Info("poller stopped")
			return
		case update, ok := <-updates:
			if !ok {
				p.log.Info("update channel closed")
				return
			}
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.Message == nil || q.From == nil {
			return
		}
		// Acknowledge the tap so the client stops its spinner.
		if _, err := p.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
			p.log.Debug("callback ack failed", "error", err)
		}
		p.handler.HandleCallback(ctx, q.From.ID, q.Message.Chat.ID, q.Message.MessageID, q.Data)

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return
		}
		if msg.Chat != nil && !msg.Chat.IsPrivate() {
			p.handler.send(ctx, msg.Chat.ID, privateOnlyMessage, nil)
			return
		}
		if msg.IsCommand() {
			p.handler.HandleCommand(ctx, msg.From.ID, msg.Chat.ID, msg.Command())
			return
		}
		p.handler.HandleText(ctx, msg.From.ID, msg.Chat.ID, strings.TrimSpace(msg.Text))
	}
}
