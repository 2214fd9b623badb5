package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
)

// NewTopikHandler returns the handler for the TOPIK menu button, which
// explains the daily broadcast and offers to unsubscribe.
func NewTopikHandler(deps HandlerDeps) bot.HandlerFunc {
	return subscriptionHandler{deps}.Handle
}

// NewUnsubscribeHandler removes the user from the broadcast list.
func NewUnsubscribeHandler(deps HandlerDeps) bot.HandlerFunc {
	return subscriptionHandler{deps}.Unsubscribe
}

// NewStayHandler acknowledges the decision to keep the subscription.
func NewStayHandler(deps HandlerDeps) bot.HandlerFunc {
	return subscriptionHandler{deps}.Stay
}

// NewResubscribeHandler puts the user back on the broadcast list.
func NewResubscribeHandler(deps HandlerDeps) bot.HandlerFunc {
	return subscriptionHandler{deps}.Resubscribe
}

type subscriptionHandler struct {
	deps HandlerDeps
}

func (h subscriptionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "topik")
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.deps.Conversations.Clear(update.Message.From.ID)
	sendHTML(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.TopikInfo, ui.SubscriptionKeyboard(h.deps.Config.Buttons))
}

func (h subscriptionHandler) Unsubscribe(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "unsubscribe")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)
	chatID, _, _, _ := callbackMessage(cq)
	msgs := h.deps.Config.Messages

	if _, err := h.deps.Store.DeleteUser(ctx, cq.From.ID); err != nil {
		log.ErrorContext(ctx, "Failed to unsubscribe user", "error", err, "user_id", cq.From.ID)
		sendHTML(ctx, b, log, chatID, msgs.UnsubscribeError, nil)
		return
	}
	log.InfoContext(ctx, "User unsubscribed", "user_id", cq.From.ID)
	sendHTML(ctx, b, log, chatID, msgs.Unsubscribed, ui.ResubscribeKeyboard(h.deps.Config.Buttons))
}

func (h subscriptionHandler) Stay(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stay_subscribed")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)
	chatID, _, _, _ := callbackMessage(cq)
	sendHTML(ctx, b, log, chatID, h.deps.Config.Messages.StaySubscribed, nil)
}

func (h subscriptionHandler) Resubscribe(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "resubscribe")
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	defer answerCallback(ctx, b, log, cq, "", false)
	chatID, _, _, _ := callbackMessage(cq)
	msgs := h.deps.Config.Messages

	if _, err := h.deps.Store.AddUser(ctx, cq.From.ID); err != nil {
		log.ErrorContext(ctx, "Failed to resubscribe user", "error", err, "user_id", cq.From.ID)
		sendHTML(ctx, b, log, chatID, msgs.ResubscribeError, nil)
		return
	}
	log.InfoContext(ctx, "User resubscribed", "user_id", cq.From.ID)
	sendHTML(ctx, b, log, chatID, msgs.Resubscribed, nil)
}
