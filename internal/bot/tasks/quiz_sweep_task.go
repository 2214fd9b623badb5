package tasks

import (
	"context"
	"fmt"

	"github.com/edgard/lingvobot/internal/config"
)

// newQuizSweepTask drops unanswered quizzes past their TTL together with
// abandoned dialogue sessions.
func newQuizSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.TaskQuizSweep)

	return func(ctx context.Context) error {
		quizzes, err := deps.Engine.Sweep(ctx)
		if err != nil {
			return fmt.Errorf("quiz sweep failed: %w", err)
		}

		sessions := 0
		if deps.Conversations != nil {
			sessions = deps.Conversations.SweepExpired()
		}

		if quizzes > 0 || sessions > 0 {
			log.InfoContext(ctx, "Swept stale state", "quizzes", quizzes, "sessions", sessions)
		}
		return nil
	}
}
