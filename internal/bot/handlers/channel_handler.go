package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
	"github.com/edgard/lingvobot/internal/config"
)

// NewChannelHandler returns the handler for the channel menu button.
func NewChannelHandler(deps HandlerDeps) bot.HandlerFunc {
	return channelHandler{deps}.Handle
}

type channelHandler struct {
	deps HandlerDeps
}

func (h channelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "channel")
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.deps.Conversations.Clear(update.Message.From.ID)

	cfg := h.deps.Config
	var markup models.ReplyMarkup
	if cfg.Telegram.ChannelURL != "" {
		markup = ui.LinksKeyboard([]config.Link{{Title: cfg.Buttons.OpenChannel, URL: cfg.Telegram.ChannelURL}})
	}
	sendHTML(ctx, b, log, update.Message.Chat.ID, cfg.Messages.Channel, markup)
}
