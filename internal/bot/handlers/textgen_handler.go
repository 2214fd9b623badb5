package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/bot/ui"
)

// NewTextGenHandler returns the handler for the text generation menu
// button. The dialogue continues with the topic, a tone button and optional
// details.
func NewTextGenHandler(deps HandlerDeps) bot.HandlerFunc {
	return textGenHandler{deps}.Handle
}

// NewToneHandler returns the handler for tone buttons.
func NewToneHandler(deps HandlerDeps) bot.HandlerFunc {
	return textGenHandler{deps}.HandleTone
}

type textGenHandler struct {
	deps HandlerDeps
}

func (h textGenHandler) log() *slog.Logger { return h.deps.Logger.With("handler", "text_generation") }

func (h textGenHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.deps.Conversations.Set(update.Message.From.ID, conversation.Session{State: conversation.StateTextTopic})
	sendHTML(ctx, b, h.log(), update.Message.Chat.ID, h.deps.Config.Messages.TextTopicPrompt, ui.MainMenu(h.deps.Config.Buttons))
}

// Topic stores the topic and asks for a tone.
func (h textGenHandler) Topic(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.log()
	if !withinLength(h.deps, msg.Text) {
		sendHTML(ctx, b, log, msg.Chat.ID, fmt.Sprintf(h.deps.Config.Messages.TooLong, h.deps.Config.RateLimit.MaxInputLength), nil)
		return
	}
	h.deps.Conversations.Set(msg.From.ID, conversation.Session{State: conversation.StateTextTone, Topic: msg.Text})
	h.askTone(ctx, b, msg.Chat.ID)
}

func (h textGenHandler) askTone(ctx context.Context, b *bot.Bot, chatID int64) {
	log := h.log()
	keyboard, err := ui.ToneKeyboard(ui.Tones(h.deps.Config.Buttons))
	if err != nil {
		log.ErrorContext(ctx, "Failed to build tone keyboard", "error", err)
		sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError, nil)
		return
	}
	sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.TextTonePrompt, keyboard)
}

func (h textGenHandler) HandleTone(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.log()
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)

	chatID, _, _, _ := callbackMessage(cq)
	sess, ok := h.deps.Conversations.Get(cq.From.ID)
	if !ok || sess.State != conversation.StateTextTone {
		log.DebugContext(ctx, "Tone chosen outside text dialogue", "user_id", cq.From.ID)
		sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.TextTopicPrompt, nil)
		h.deps.Conversations.Set(cq.From.ID, conversation.Session{State: conversation.StateTextTopic})
		return
	}

	tone, err := ui.ParseToneCallback(cq.Data, ui.Tones(h.deps.Config.Buttons))
	if err != nil {
		log.WarnContext(ctx, "Unknown tone", "data", cq.Data)
		h.askTone(ctx, b, chatID)
		return
	}

	sess.State = conversation.StateTextDetails
	sess.Tone = fmt.Sprintf("%s (%s)", strings.ToLower(tone.Name()), tone.Code)
	h.deps.Conversations.Set(cq.From.ID, sess)
	sendHTML(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.TextDetailsPrompt, h.deps.Policy.PlainText(tone.Name())), nil)
}

// Details composes the instruction and runs the request. Too long details
// keep the dialogue open for a shorter retry.
func (h textGenHandler) Details(ctx context.Context, b *bot.Bot, msg *models.Message, sess conversation.Session) {
	log := h.log()
	if !withinLength(h.deps, msg.Text) {
		sendHTML(ctx, b, log, msg.Chat.ID, fmt.Sprintf(h.deps.Config.Messages.TooLong, h.deps.Config.RateLimit.MaxInputLength), nil)
		return
	}
	h.deps.Conversations.Clear(msg.From.ID)

	prompts := h.deps.Config.Prompts
	instruction := fmt.Sprintf(prompts.GenerateText, sess.Tone, sess.Topic)

	details := strings.TrimSpace(msg.Text)
	if strings.EqualFold(strings.Trim(details, "'\". "), h.deps.Config.Messages.NoDetailsAnswer) {
		details = ""
	}
	if details != "" {
		instruction += fmt.Sprintf(prompts.TextDetails, details)
	}

	askModel(ctx, h.deps, b, log, msg, instruction, sess.Topic)
}
