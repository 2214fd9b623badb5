package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/bot/ui"
)

// NewDefaultHandler returns the handler for updates no other handler
// matched. Free text continues the user's open dialogue; anything else gets
// the "not understood" reply and the menu.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	return defaultHandler{deps}.Handle
}

type defaultHandler struct {
	deps HandlerDeps
}

func (h defaultHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "default")

	if cq := update.CallbackQuery; cq != nil {
		log.DebugContext(ctx, "Unhandled callback", "data", cq.Data, "user_id", cq.From.ID)
		answerCallback(ctx, b, log, cq, "", false)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != models.ChatTypePrivate {
		return
	}

	userID := msg.From.ID
	sess, ok := h.deps.Conversations.Get(userID)
	if !ok || msg.Text == "" {
		sendHTML(ctx, b, log, msg.Chat.ID, h.deps.Config.Messages.Unknown, ui.MainMenu(h.deps.Config.Buttons))
		return
	}

	log.DebugContext(ctx, "Continuing dialogue", "user_id", userID, "state", sess.State)
	switch sess.State {
	case conversation.StateSpellCheck:
		spellCheckHandler{h.deps}.Complete(ctx, b, msg)
	case conversation.StateTextTopic:
		textGenHandler{h.deps}.Topic(ctx, b, msg)
	case conversation.StateTextTone:
		textGenHandler{h.deps}.askTone(ctx, b, msg.Chat.ID)
	case conversation.StateTextDetails:
		textGenHandler{h.deps}.Details(ctx, b, msg, sess)
	case conversation.StateFeedback:
		feedbackHandler{h.deps}.Forward(ctx, b, msg)
	case conversation.StateAdminReply:
		if !h.deps.Config.IsAdmin(userID) {
			h.deps.Conversations.Clear(userID)
			sendHTML(ctx, b, log, msg.Chat.ID, h.deps.Config.Messages.NotAuthorized, nil)
			return
		}
		h.deps.Conversations.Clear(userID)
		feedbackHandler{h.deps}.SendReply(ctx, b, msg, sess)
	default:
		sendHTML(ctx, b, log, msg.Chat.ID, h.deps.Config.Messages.Unknown, ui.MainMenu(h.deps.Config.Buttons))
	}
}
