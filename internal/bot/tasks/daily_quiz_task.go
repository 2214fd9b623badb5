package tasks

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
	"github.com/edgard/lingvobot/internal/broadcast"
	"github.com/edgard/lingvobot/internal/config"
)

// newDailyQuizTask picks one question and issues it to every subscriber.
// A quiz that could not be delivered is withdrawn so nothing is left
// waiting for an answer that cannot come. A store failure stops the run.
func newDailyQuizTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.TaskDailyQuiz)

	return func(ctx context.Context) error {
		users, err := deps.Store.ListUserIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list subscribers: %w", err)
		}
		if len(users) == 0 {
			log.InfoContext(ctx, "No subscribers, skipping daily quiz")
			return nil
		}

		prepared, err := deps.Questions.Pick()
		if err != nil {
			return fmt.Errorf("failed to pick quiz question: %w", err)
		}
		log.InfoContext(ctx, "Picked quiz question", "correct_word", prepared.Question.Correct)

		report := deps.Broadcaster.Run(ctx, config.TaskDailyQuiz, users, func(ctx context.Context, userID int64) error {
			active, err := deps.Engine.Issue(ctx, userID, prepared)
			if err != nil {
				return fmt.Errorf("%w: %w", broadcast.ErrAbort, err)
			}

			text, keyboard := ui.RenderQuiz(deps.Config.Messages.QuizHeader, deps.Policy, active)
			_, err = deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID:      userID,
				Text:        text,
				ParseMode:   models.ParseModeHTML,
				ReplyMarkup: keyboard,
			})
			if err != nil {
				if cancelErr := deps.Engine.Cancel(context.WithoutCancel(ctx), active); cancelErr != nil {
					log.ErrorContext(ctx, "Failed to withdraw undelivered quiz", "user_id", userID, "error", cancelErr)
				}
				return err
			}
			return nil
		})

		if report.Err != nil {
			return fmt.Errorf("daily quiz stopped after %d deliveries: %w", report.Delivered, report.Err)
		}
		log.InfoContext(ctx, "Daily quiz delivered",
			"total", report.Total, "delivered", report.Delivered, "failed", report.Failed)
		return nil
	}
}
