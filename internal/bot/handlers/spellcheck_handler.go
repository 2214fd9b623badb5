package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/bot/ui"
)

// NewSpellCheckHandler returns the handler for the spell-check menu button.
// The next text message from the user is checked.
func NewSpellCheckHandler(deps HandlerDeps) bot.HandlerFunc {
	return spellCheckHandler{deps}.Handle
}

type spellCheckHandler struct {
	deps HandlerDeps
}

func (h spellCheckHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "spell_check")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.deps.Conversations.Set(update.Message.From.ID, conversation.Session{State: conversation.StateSpellCheck})
	sendHTML(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.SpellCheckPrompt, ui.MainMenu(h.deps.Config.Buttons))
}

// Complete checks the text the user sent after pressing the button. A too
// long text keeps the dialogue open.
func (h spellCheckHandler) Complete(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "spell_check")
	if !withinLength(h.deps, msg.Text) {
		sendHTML(ctx, b, log, msg.Chat.ID, fmt.Sprintf(h.deps.Config.Messages.TooLong, h.deps.Config.RateLimit.MaxInputLength), nil)
		return
	}
	h.deps.Conversations.Clear(msg.From.ID)
	askModel(ctx, h.deps, b, log, msg, h.deps.Config.Prompts.SpellCheck, msg.Text)
}
