package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
	"github.com/edgard/lingvobot/internal/llm"
)

// askModel runs one quota-counted model request for msg and replies with the
// answer followed by the remaining quota. It reports whether the request was
// made; a too long or over-quota request is rejected with a notice.
func askModel(ctx context.Context, deps HandlerDeps, b *bot.Bot, log *slog.Logger, msg *models.Message, instruction, content string) bool {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	msgs := deps.Config.Messages
	menu := ui.MainMenu(deps.Config.Buttons)

	notice, allowed, err := deps.Limiter.Check(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to check quota", "error", err, "user_id", userID)
		sendHTML(ctx, b, log, chatID, msgs.GeneralError, menu)
		return false
	}
	if !allowed {
		sendHTML(ctx, b, log, chatID, notice, menu)
		return false
	}

	if !withinLength(deps, msg.Text) {
		sendHTML(ctx, b, log, chatID, fmt.Sprintf(msgs.TooLong, deps.Config.RateLimit.MaxInputLength), nil)
		return false
	}

	notice, allowed, err = deps.Limiter.Acquire(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to record request", "error", err, "user_id", userID)
		sendHTML(ctx, b, log, chatID, msgs.GeneralError, menu)
		return false
	}
	if !allowed {
		sendHTML(ctx, b, log, chatID, notice, menu)
		return false
	}

	processing := sendHTML(ctx, b, log, chatID, msgs.Processing, nil)

	answer := llm.Ask(ctx, deps.LLM, log, instruction, content, llm.Placeholders{
		Empty: msgs.EmptyModelResponse,
		Error: msgs.ModelError,
	})
	deliverAnswer(ctx, deps, b, log, chatID, answer)

	if processing != nil {
		if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: processing.ID}); err != nil {
			log.WarnContext(ctx, "Failed to delete processing notice", "error", err, "chat_id", chatID)
		}
	}

	remaining, err := deps.Limiter.RemainingMessage(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read remaining quota", "error", err, "user_id", userID)
		return true
	}
	sendHTML(ctx, b, log, chatID, remaining, menu)
	return true
}

// deliverAnswer sends the model output as Telegram HTML, falling back to
// escaped plain text if Telegram rejects the markup.
func deliverAnswer(ctx context.Context, deps HandlerDeps, b *bot.Bot, log *slog.Logger, chatID int64, answer string) {
	menu := ui.MainMenu(deps.Config.Buttons)
	formatted := deps.Policy.TelegramHTML(answer)
	if formatted == "" {
		formatted = deps.Config.Messages.EmptyModelResponse
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        formatted,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: menu,
	})
	if err == nil {
		return
	}
	log.WarnContext(ctx, "Formatted answer rejected, resending as plain text", "error", err, "chat_id", chatID)
	sendHTML(ctx, b, log, chatID, deps.Policy.PlainText(answer), menu)
}

func withinLength(deps HandlerDeps, text string) bool {
	return utf8.RuneCountInString(text) <= deps.Config.RateLimit.MaxInputLength
}
