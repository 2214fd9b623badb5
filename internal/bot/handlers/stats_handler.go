package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatsHandler returns a handler for the /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

// statsHandler reports today's and lifetime quiz results.
type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	daily, err := h.deps.Engine.DailyStats(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load daily stats", "error", err, "user_id", userID)
		sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError, nil)
		return
	}
	lifetime, err := h.deps.Engine.LifetimeStats(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load lifetime stats", "error", err, "user_id", userID)
		sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError, nil)
		return
	}

	text := fmt.Sprintf(h.deps.Config.Messages.Stats,
		daily.Correct, daily.Total, daily.Accuracy(),
		lifetime.Correct, lifetime.Total, lifetime.Accuracy())
	sendHTML(ctx, b, log, chatID, text, nil)
}
