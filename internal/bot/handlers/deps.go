package handlers

import (
	"log/slog"
	"math/rand/v2"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/llm"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/ratelimit"
	"github.com/edgard/lingvobot/internal/sanitize"
)

// QuestionSource picks a quiz question.
type QuestionSource interface {
	Pick() (quiz.Prepared, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger        *slog.Logger
	Config        *config.Config
	Store         database.Store
	LLM           llm.Client
	Limiter       *ratelimit.Limiter
	Engine        *quiz.Engine
	Questions     QuestionSource
	Conversations *conversation.Store
	Policy        *sanitize.Policy

	// IntN picks consolation phrases; nil means math/rand/v2.
	IntN func(int) int
}

func (d HandlerDeps) intN(n int) int {
	if d.IntN != nil {
		return d.IntN(n)
	}
	return rand.IntN(n)
}
