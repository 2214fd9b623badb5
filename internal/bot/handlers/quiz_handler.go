package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
	"github.com/edgard/lingvobot/internal/quiz"
)

// NewQuizHandler returns a handler for the /quiz command, which issues a
// quiz on demand.
func NewQuizHandler(deps HandlerDeps) bot.HandlerFunc {
	return quizHandler{deps}.Handle
}

type quizHandler struct {
	deps HandlerDeps
}

func (h quizHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "quiz")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	msgs := h.deps.Config.Messages

	prepared, err := h.deps.Questions.Pick()
	if err != nil {
		log.ErrorContext(ctx, "Failed to pick quiz question", "error", err)
		sendHTML(ctx, b, log, chatID, msgs.QuizUnavailable, nil)
		return
	}

	active, err := h.deps.Engine.Issue(ctx, userID, prepared)
	if err != nil {
		log.ErrorContext(ctx, "Failed to issue quiz", "error", err, "user_id", userID)
		sendHTML(ctx, b, log, chatID, msgs.QuizUnavailable, nil)
		return
	}

	text, keyboard := ui.RenderQuiz(msgs.QuizHeader, h.deps.Policy, active)
	if sendHTML(ctx, b, log, chatID, text, keyboard) == nil {
		if err := h.deps.Engine.Cancel(context.WithoutCancel(ctx), active); err != nil {
			log.ErrorContext(ctx, "Failed to withdraw undelivered quiz", "error", err, "user_id", userID)
		}
	}
}

// NewQuizAnswerHandler returns a handler for quiz answer buttons.
func NewQuizAnswerHandler(deps HandlerDeps) bot.HandlerFunc {
	return quizAnswerHandler{deps}.Handle
}

// quizAnswerHandler scores a pressed option against the stored quiz and
// rewrites the quiz message with the outcome.
type quizAnswerHandler struct {
	deps HandlerDeps
}

func (h quizAnswerHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "quiz_answer")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	msgs := h.deps.Config.Messages

	result, err := h.deps.Engine.Answer(ctx, cq.From.ID, cq.Data)
	if err != nil {
		log.ErrorContext(ctx, "Failed to process quiz answer", "error", err, "user_id", cq.From.ID)
		answerCallback(ctx, b, log, cq, msgs.GeneralError, false)
		return
	}

	switch result.Status {
	case quiz.StatusMalformed:
		answerCallback(ctx, b, log, cq, msgs.QuizMalformed, false)
		return
	case quiz.StatusForeign:
		answerCallback(ctx, b, log, cq, msgs.QuizForeign, false)
		return
	case quiz.StatusExpired:
		answerCallback(ctx, b, log, cq, msgs.QuizExpired, false)
		return
	}

	p := h.deps.Policy
	q := result.Quiz
	var text, notice string
	alert := false

	if result.Status == quiz.StatusCorrect {
		original := q.OriginalSentence
		if original == "" {
			original = q.CorrectWord
		}
		text = fmt.Sprintf(msgs.QuizCorrect, p.PlainText(original))
	} else {
		consolation := ""
		if n := len(msgs.Consolations); n > 0 {
			consolation = msgs.Consolations[h.deps.intN(n)]
		}
		header, _ := ui.RenderQuiz(msgs.QuizHeader, p, q)
		text = header + fmt.Sprintf(msgs.QuizWrong, p.PlainText(q.CorrectWord), p.PlainText(consolation))
		notice, alert = consolation, true
	}

	h.showOutcome(ctx, b, cq, text)
	answerCallback(ctx, b, log, cq, notice, alert)
}

// showOutcome replaces the quiz message, or sends a new one when the
// original cannot be edited.
func (h quizAnswerHandler) showOutcome(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, text string) {
	log := h.deps.Logger.With("handler", "quiz_answer")

	chatID, messageID, _, ok := callbackMessage(cq)
	if ok {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err == nil {
			return
		}
		log.WarnContext(ctx, "Failed to edit quiz message, sending a new one", "error", err, "chat_id", chatID)
	}
	sendHTML(ctx, b, log, chatID, text, nil)
}
