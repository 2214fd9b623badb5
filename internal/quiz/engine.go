package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/lingvobot/internal/database"
)

// Status is the outcome of an answer.
type Status int

const (
	StatusCorrect Status = iota
	StatusWrong
	// StatusExpired: the quiz was already answered, superseded or swept.
	StatusExpired
	// StatusForeign: the quiz belongs to another user.
	StatusForeign
	// StatusMalformed: the payload is not a valid answer.
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusWrong:
		return "wrong"
	case StatusExpired:
		return "expired"
	case StatusForeign:
		return "foreign"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result describes a processed answer. Quiz is set for correct and wrong
// answers.
type Result struct {
	Status   Status
	Quiz     *database.ActiveQuiz
	Selected int
}

// Stats is a correct/total tally.
type Stats struct {
	Correct int
	Total   int
}

// Accuracy returns the share of correct answers in percent, 0 when there
// were no answers.
func (s Stats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Engine issues quizzes and scores answers against the server-held record.
type Engine struct {
	store    database.Store
	ttl      time.Duration
	location *time.Location
	now      func() time.Time
	log      *slog.Logger
}

// NewEngine creates an Engine. Unanswered quizzes older than ttl expire.
func NewEngine(store database.Store, ttl time.Duration, location *time.Location, log *slog.Logger) *Engine {
	if location == nil {
		location = time.Local
	}
	return &Engine{
		store:    store,
		ttl:      ttl,
		location: location,
		now:      time.Now,
		log:      log.With("component", "quiz_engine"),
	}
}

func (e *Engine) day() string {
	return e.now().In(e.location).Format(time.DateOnly)
}

// Issue stores p as the user's active quiz under a fresh token, superseding
// any unanswered one.
func (e *Engine) Issue(ctx context.Context, userID int64, p Prepared) (*database.ActiveQuiz, error) {
	quiz := &database.ActiveQuiz{
		UserID:           userID,
		Token:            NewToken(),
		Question:         p.Question.Sentence,
		Options:          database.StringList(p.Options),
		CorrectIndex:     p.CorrectIndex,
		CorrectWord:      p.Question.Correct,
		OriginalSentence: p.Question.Original,
		Translation:      p.Question.Translation,
		CreatedAt:        e.now().Unix(),
	}
	if err := e.store.SaveActiveQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to issue quiz: %w", err)
	}
	return quiz, nil
}

// Cancel withdraws a quiz that could not be delivered. A newer quiz for the
// same user is left alone.
func (e *Engine) Cancel(ctx context.Context, quiz *database.ActiveQuiz) error {
	if _, err := e.store.DeleteActiveQuiz(ctx, quiz.UserID, quiz.Token); err != nil {
		return fmt.Errorf("failed to cancel quiz: %w", err)
	}
	return nil
}

// Answer scores the callback data sent by userID. Each quiz counts at most
// once: the record is consumed and today's stats updated in one transaction.
// Only store failures are returned as errors.
func (e *Engine) Answer(ctx context.Context, userID int64, data string) (Result, error) {
	token, option, err := ParseCallback(data)
	if err != nil {
		return Result{Status: StatusMalformed}, nil
	}

	quiz, err := e.store.GetActiveQuizByToken(ctx, token)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return Result{Status: StatusExpired, Selected: option}, nil
	}
	if quiz.UserID != userID {
		e.log.WarnContext(ctx, "Answer to another user's quiz", "user_id", userID, "owner_id", quiz.UserID)
		return Result{Status: StatusForeign, Selected: option}, nil
	}
	if option >= len(quiz.Options) {
		return Result{Status: StatusMalformed, Selected: option}, nil
	}

	if e.ttl > 0 && e.now().Sub(time.Unix(quiz.CreatedAt, 0)) > e.ttl {
		if _, err := e.store.DeleteActiveQuiz(ctx, quiz.UserID, quiz.Token); err != nil {
			return Result{}, fmt.Errorf("failed to drop expired quiz: %w", err)
		}
		return Result{Status: StatusExpired, Selected: option}, nil
	}

	correct := option == quiz.CorrectIndex
	done, err := e.store.CompleteActiveQuiz(ctx, userID, token, e.day(), correct, quiz.CorrectWord)
	if err != nil {
		return Result{}, fmt.Errorf("failed to record answer: %w", err)
	}
	if !done {
		// A concurrent tap consumed it first.
		return Result{Status: StatusExpired, Selected: option}, nil
	}

	status := StatusWrong
	if correct {
		status = StatusCorrect
	}
	e.log.InfoContext(ctx, "Quiz answered", "user_id", userID, "status", status)
	return Result{Status: status, Quiz: quiz, Selected: option}, nil
}

// DailyStats returns the user's tally for today.
func (e *Engine) DailyStats(ctx context.Context, userID int64) (Stats, error) {
	t, err := e.store.GetDailyStats(ctx, userID, e.day())
	if err != nil {
		return Stats{}, err
	}
	return Stats{Correct: t.Correct, Total: t.Total}, nil
}

// LifetimeStats returns the user's tally across all days.
func (e *Engine) LifetimeStats(ctx context.Context, userID int64) (Stats, error) {
	t, err := e.store.GetLifetimeStats(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Correct: t.Correct, Total: t.Total}, nil
}

// Sweep deletes unanswered quizzes older than the TTL.
func (e *Engine) Sweep(ctx context.Context) (int64, error) {
	if e.ttl <= 0 {
		return 0, nil
	}
	n, err := e.store.DeleteActiveQuizzesBefore(ctx, e.now().Add(-e.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep quizzes: %w", err)
	}
	return n, nil
}
