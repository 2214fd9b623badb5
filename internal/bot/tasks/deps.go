// Package tasks implements the scheduled jobs of the Lingvo bot: the
// word-of-day and daily quiz broadcasts and the housekeeping sweeps.
package tasks

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/broadcast"
	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/content"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/sanitize"
)

// CardSource prepares the word-of-day card.
type CardSource interface {
	Prepare(ctx context.Context) (*content.Card, error)
}

// QuestionSource picks the next quiz question.
type QuestionSource interface {
	Pick() (quiz.Prepared, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger        *slog.Logger
	Config        *config.Config
	Store         database.Store
	Bot           *tgbot.Bot
	Broadcaster   *broadcast.Broadcaster
	WordOfDay     CardSource
	Questions     QuestionSource
	Engine        *quiz.Engine
	Conversations *conversation.Store
	Policy        *sanitize.Policy
}
