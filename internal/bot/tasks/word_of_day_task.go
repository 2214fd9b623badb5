package tasks

import (
	"bytes"
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/config"
)

// newWordOfDayTask prepares one card and sends it to every subscriber, as a
// photo when an image was produced and as text otherwise.
func newWordOfDayTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.TaskWordOfDay)

	return func(ctx context.Context) error {
		users, err := deps.Store.ListUserIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list subscribers: %w", err)
		}
		if len(users) == 0 {
			log.InfoContext(ctx, "No subscribers, skipping word of the day")
			return nil
		}

		card, err := deps.WordOfDay.Prepare(ctx)
		if err != nil {
			return fmt.Errorf("failed to prepare word of the day: %w", err)
		}
		defer card.Cleanup()

		caption := card.Caption(deps.Config.Messages.WordOfDay, deps.Policy)
		log.InfoContext(ctx, "Prepared word of the day", "word", card.Word, "photo", card.Photo != nil)

		report := deps.Broadcaster.Run(ctx, config.TaskWordOfDay, users, func(ctx context.Context, userID int64) error {
			if card.Photo != nil {
				_, err := deps.Bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
					ChatID:    userID,
					Photo:     &models.InputFileUpload{Filename: card.PhotoName, Data: bytes.NewReader(card.Photo)},
					Caption:   caption,
					ParseMode: models.ParseModeHTML,
				})
				return err
			}
			_, err := deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID:    userID,
				Text:      caption,
				ParseMode: models.ParseModeHTML,
			})
			return err
		})

		log.InfoContext(ctx, "Word of the day delivered",
			"total", report.Total, "delivered", report.Delivered, "failed", report.Failed)
		return nil
	}
}
