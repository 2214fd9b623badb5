package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// sendHTML sends an HTML message and logs a failure.
func sendHTML(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string, markup models.ReplyMarkup) *models.Message {
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
		return nil
	}
	return msg
}

// answerCallback acknowledges a button press, optionally with a notice.
func answerCallback(ctx context.Context, b *bot.Bot, log *slog.Logger, cq *models.CallbackQuery, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err, "user_id", cq.From.ID)
	}
}

// callbackMessage returns where the pressed button lives. ok is false when
// the message is unknown; chatID then falls back to the presser's private chat.
func callbackMessage(cq *models.CallbackQuery) (chatID int64, messageID int, text string, ok bool) {
	switch {
	case cq.Message.Message != nil:
		m := cq.Message.Message
		return m.Chat.ID, m.ID, m.Text, true
	case cq.Message.InaccessibleMessage != nil:
		m := cq.Message.InaccessibleMessage
		return m.Chat.ID, m.MessageID, "", true
	default:
		return cq.From.ID, 0, "", false
	}
}

func fullName(u *models.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.Username != "" {
		return "@" + u.Username
	}
	return name
}
