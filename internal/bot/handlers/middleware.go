// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that lets only the configured administrator
// through. Others get a "not authorized" reply or callback notice.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			log := deps.Logger.With("middleware", "AdminOnly")

			switch {
			case update.CallbackQuery != nil:
				cq := update.CallbackQuery
				if deps.Config.IsAdmin(cq.From.ID) {
					next(ctx, bot, update)
					return
				}
				log.WarnContext(ctx, "Unauthorized callback", "user_id", cq.From.ID, "data", cq.Data)
				answerCallback(ctx, bot, log, cq, deps.Config.Messages.NotAuthorized, true)

			case update.Message != nil && update.Message.From != nil:
				if deps.Config.IsAdmin(update.Message.From.ID) {
					next(ctx, bot, update)
					return
				}
				chatID := update.Message.Chat.ID
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", update.Message.From.ID, "chat_id", chatID)
				sendHTML(ctx, bot, log, chatID, deps.Config.Messages.NotAuthorized, nil)
			}
		}
	}
}
