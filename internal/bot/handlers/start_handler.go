package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler subscribes private-chat users and shows the main menu.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	if update.Message.Chat.Type != models.ChatTypePrivate {
		log.DebugContext(ctx, "Ignoring /start outside private chat", "chat_id", update.Message.Chat.ID)
		return
	}

	userID := update.Message.From.ID
	h.deps.Conversations.Clear(userID)

	created, err := h.deps.Store.AddUser(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", userID)
	} else if created {
		log.InfoContext(ctx, "Registered new subscriber", "user_id", userID)
	}

	welcome := h.deps.Config.Messages.Welcome
	if info := h.deps.Config.Telegram.BotInfo; info != nil && info.Username != "" {
		welcome = strings.ReplaceAll(welcome, "@botname", "@"+info.Username)
	}
	sendHTML(ctx, b, log, update.Message.Chat.ID, welcome, ui.MainMenu(h.deps.Config.Buttons))
}
