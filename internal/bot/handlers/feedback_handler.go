package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/bot/ui"
)

// NewFeedbackHandler returns the handler for the feedback menu button.
func NewFeedbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.Handle
}

// NewWriteUsHandler starts capturing a message for the administrator.
func NewWriteUsHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.WriteUs
}

// NewTellFriendHandler shares the invite link.
func NewTellFriendHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.TellFriend
}

// NewProjectsHandler lists related projects as link buttons.
func NewProjectsHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.Projects
}

// NewReplyHandler lets the administrator answer a forwarded message. It must
// be wrapped with AdminOnly.
func NewReplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.Reply
}

type feedbackHandler struct {
	deps HandlerDeps
}

func (h feedbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "feedback")
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.deps.Conversations.Clear(update.Message.From.ID)
	sendHTML(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.FeedbackMenu, ui.FeedbackKeyboard(h.deps.Config.Buttons))
}

func (h feedbackHandler) WriteUs(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "write_us")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)

	chatID, _, _, _ := callbackMessage(cq)
	h.deps.Conversations.Set(cq.From.ID, conversation.Session{State: conversation.StateFeedback})
	sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.FeedbackPrompt, nil)
}

// Forward delivers the captured message to the administrator with a reply
// button.
func (h feedbackHandler) Forward(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "feedback_forward")
	cfg := h.deps.Config
	p := h.deps.Policy
	h.deps.Conversations.Clear(msg.From.ID)

	keyboard, err := ui.ReplyKeyboard(cfg.Buttons.Reply, msg.From.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build reply keyboard", "error", err, "user_id", msg.From.ID)
		sendHTML(ctx, b, log, msg.Chat.ID, cfg.Messages.GeneralError, nil)
		return
	}

	text := fmt.Sprintf(cfg.Messages.FeedbackForward, p.PlainText(fullName(msg.From)), p.PlainText(msg.Text))
	if sendHTML(ctx, b, log, cfg.Telegram.AdminUserID, text, keyboard) == nil {
		sendHTML(ctx, b, log, msg.Chat.ID, cfg.Messages.GeneralError, nil)
		return
	}
	log.InfoContext(ctx, "Feedback forwarded to administrator", "user_id", msg.From.ID)
	sendHTML(ctx, b, log, msg.Chat.ID, cfg.Messages.FeedbackSent, nil)
}

func (h feedbackHandler) Reply(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "admin_reply")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)

	chatID, _, forwarded, _ := callbackMessage(cq)
	msgs := h.deps.Config.Messages

	target, err := ui.ParseReplyCallback(cq.Data)
	if err != nil {
		log.WarnContext(ctx, "Malformed reply payload", "data", cq.Data)
		sendHTML(ctx, b, log, chatID, msgs.AdminReplyNoTarget, nil)
		return
	}

	// The forwarded message reads: header line, sender name, blank, text.
	name := ""
	if lines := strings.Split(forwarded, "\n"); len(lines) > 1 {
		name = strings.TrimSpace(lines[1])
	}

	h.deps.Conversations.Set(cq.From.ID, conversation.Session{
		State:      conversation.StateAdminReply,
		TargetID:   target,
		TargetName: name,
	})
	sendHTML(ctx, b, log, chatID, fmt.Sprintf(msgs.AdminReplyPrompt, h.deps.Policy.PlainText(name), target), nil)
}

// SendReply delivers the administrator's answer to the user chosen with the
// reply button.
func (h feedbackHandler) SendReply(ctx context.Context, b *bot.Bot, msg *models.Message, sess conversation.Session) {
	log := h.deps.Logger.With("handler", "admin_reply")
	msgs := h.deps.Config.Messages

	if sess.TargetID == 0 {
		sendHTML(ctx, b, log, msg.Chat.ID, msgs.AdminReplyNoTarget, nil)
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    sess.TargetID,
		Text:      fmt.Sprintf(msgs.AdminReplyPrefix, h.deps.Policy.PlainText(msg.Text)),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to deliver administrator reply", "error", err, "user_id", sess.TargetID)
		sendHTML(ctx, b, log, msg.Chat.ID, fmt.Sprintf(msgs.AdminReplyFailed, h.deps.Policy.PlainText(err.Error())), nil)
		return
	}
	log.InfoContext(ctx, "Administrator reply delivered", "user_id", sess.TargetID, "name", sess.TargetName)
	sendHTML(ctx, b, log, msg.Chat.ID, fmt.Sprintf(msgs.AdminReplySent, sess.TargetID), nil)
}

func (h feedbackHandler) TellFriend(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "tell_friend")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)

	chatID, _, _, _ := callbackMessage(cq)
	invite := h.deps.Config.Telegram.InviteURL
	if invite == "" {
		if info := h.deps.Config.Telegram.BotInfo; info != nil && info.Username != "" {
			invite = "https://t.me/" + info.Username
		}
	}
	sendHTML(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.TellFriend, invite), nil)
}

func (h feedbackHandler) Projects(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "our_projects")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)

	chatID, _, _, _ := callbackMessage(cq)
	sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.Projects, ui.LinksKeyboard(h.deps.Config.Telegram.Projects))
}
