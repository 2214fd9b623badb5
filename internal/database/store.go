package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Lookups return nil, nil when the row does not exist.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// AddUser registers userID. It reports false if the user already existed.
	AddUser(ctx context.Context, userID int64) (bool, error)

	// DeleteUser removes userID. It reports false if the user was not registered.
	DeleteUser(ctx context.Context, userID int64) (bool, error)

	// UserExists reports whether userID is registered.
	UserExists(ctx context.Context, userID int64) (bool, error)

	// ListUserIDs returns every registered user in ascending id order.
	ListUserIDs(ctx context.Context) ([]int64, error)

	// SaveActiveQuiz stores quiz as the user's active quiz, replacing any
	// previous one.
	SaveActiveQuiz(ctx context.Context, quiz *ActiveQuiz) error

	// GetActiveQuiz returns the user's active quiz.
	GetActiveQuiz(ctx context.Context, userID int64) (*ActiveQuiz, error)

	// GetActiveQuizByToken returns the active quiz identified by token.
	GetActiveQuizByToken(ctx context.Context, token string) (*ActiveQuiz, error)

	// DeleteActiveQuiz removes the user's active quiz if it still carries token.
	DeleteActiveQuiz(ctx context.Context, userID int64, token string) (bool, error)

	// CompleteActiveQuiz consumes the user's active quiz identified by token and
	// records the answer in the QuizStat row for day, in one transaction. It
	// reports false, leaving stats untouched, when no such quiz exists.
	CompleteActiveQuiz(ctx context.Context, userID int64, token, day string, correct bool, word string) (bool, error)

	// DeleteActiveQuizzesBefore removes active quizzes created before cutoff.
	DeleteActiveQuizzesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// GetDailyStats returns the user's totals for day.
	GetDailyStats(ctx context.Context, userID int64, day string) (StatTotals, error)

	// GetLifetimeStats returns the user's totals across all days.
	GetLifetimeStats(ctx context.Context, userID int64) (StatTotals, error)

	// GetRequestCount returns the user's model request count for day.
	GetRequestCount(ctx context.Context, userID int64, day string) (int, error)

	// IncrementRequestCount adds one request for day, resetting the counter
	// when the stored day differs, and returns the new count.
	IncrementRequestCount(ctx context.Context, userID int64, day string) (int, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case isContextErr(err):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// --- Users ---

func (s *sqlxStore) AddUser(ctx context.Context, userID int64) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("user_id cannot be zero")
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id, created_at) VALUES (?, ?);`,
		userID, time.Now().Unix())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error adding user", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to add user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for user %d: %w", userID, err)
	}
	if affected > 0 {
		s.logger.InfoContext(ctx, "User registered", "user_id", userID)
	}
	return affected > 0, nil
}

func (s *sqlxStore) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?;`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for user %d: %w", userID, err)
	}
	if affected > 0 {
		s.logger.InfoContext(ctx, "User unregistered", "user_id", userID)
	}
	return affected > 0, nil
}

func (s *sqlxStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?);`, userID)
	if err != nil {
		if isContextErr(err) {
			return false, err
		}
		s.logger.ErrorContext(ctx, "Error checking user existence", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	return exists, nil
}

func (s *sqlxStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var ids []int64
	err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY user_id;`)

	switch {
	case isContextErr(err):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing users", "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed users", "count", len(ids))
	return ids, nil
}

// --- Active quizzes ---

const activeQuizColumns = `user_id, token, question, options, correct_index, correct_word,
	original_sentence, translation, created_at`

func (s *sqlxStore) SaveActiveQuiz(ctx context.Context, quiz *ActiveQuiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil active quiz")
	}
	if quiz.UserID == 0 {
		return fmt.Errorf("active quiz must have a non-zero user_id")
	}
	if quiz.Token == "" {
		return fmt.Errorf("active quiz must have a token")
	}
	if quiz.CorrectIndex < 0 || quiz.CorrectIndex >= len(quiz.Options) {
		return fmt.Errorf("active quiz correct_index %d out of range for %d options", quiz.CorrectIndex, len(quiz.Options))
	}
	if quiz.CreatedAt == 0 {
		quiz.CreatedAt = time.Now().Unix()
	}

	query := `
        INSERT INTO active_quizzes (` + activeQuizColumns + `)
        VALUES (:user_id, :token, :question, :options, :correct_index, :correct_word,
                :original_sentence, :translation, :created_at)
        ON CONFLICT (user_id) DO UPDATE SET
            token             = excluded.token,
            question          = excluded.question,
            options           = excluded.options,
            correct_index     = excluded.correct_index,
            correct_word      = excluded.correct_word,
            original_sentence = excluded.original_sentence,
            translation       = excluded.translation,
            created_at        = excluded.created_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, quiz); err != nil {
		s.logger.ErrorContext(ctx, "Error saving active quiz", "user_id", quiz.UserID, "error", err)
		return fmt.Errorf("failed to save active quiz for user %d: %w", quiz.UserID, err)
	}

	s.logger.DebugContext(ctx, "Active quiz saved", "user_id", quiz.UserID)
	return nil
}

func (s *sqlxStore) getActiveQuiz(ctx context.Context, where string, arg any) (*ActiveQuiz, error) {
	var quiz ActiveQuiz
	err := s.db.GetContext(ctx, &quiz,
		`SELECT `+activeQuizColumns+` FROM active_quizzes WHERE `+where+` = ?;`, arg)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil

	case isContextErr(err):
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting active quiz", "by", where, "error", err)
		return nil, fmt.Errorf("failed to get active quiz by %s: %w", where, err)
	}

	return &quiz, nil
}

func (s *sqlxStore) GetActiveQuiz(ctx context.Context, userID int64) (*ActiveQuiz, error) {
	return s.getActiveQuiz(ctx, "user_id", userID)
}

func (s *sqlxStore) GetActiveQuizByToken(ctx context.Context, token string) (*ActiveQuiz, error) {
	if token == "" {
		return nil, nil
	}
	return s.getActiveQuiz(ctx, "token", token)
}

func (s *sqlxStore) DeleteActiveQuiz(ctx context.Context, userID int64, token string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM active_quizzes WHERE user_id = ? AND token = ?;`, userID, token)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting active quiz", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete active quiz for user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for user %d: %w", userID, err)
	}
	return affected > 0, nil
}

func (s *sqlxStore) CompleteActiveQuiz(ctx context.Context, userID int64, token, day string, correct bool, word string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for quiz completion", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM active_quizzes WHERE user_id = ? AND token = ?;`, userID, token)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error consuming active quiz", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to consume active quiz for user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for user %d: %w", userID, err)
	}
	if affected == 0 {
		s.logger.DebugContext(ctx, "No active quiz to complete", "user_id", userID)
		return false, nil
	}

	correctInc := 0
	if correct {
		correctInc = 1
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO quiz_stats (user_id, day, correct_count, total_count, last_word)
        VALUES (?, ?, ?, 1, ?)
        ON CONFLICT (user_id, day) DO UPDATE SET
            correct_count = quiz_stats.correct_count + excluded.correct_count,
            total_count   = quiz_stats.total_count + 1,
            last_word     = excluded.last_word;
    `, userID, day, correctInc, word)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording quiz answer", "user_id", userID, "day", day, "error", err)
		return false, fmt.Errorf("failed to record quiz answer for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	// Successfully committed, set tx to nil to avoid rollback
	tx = nil

	s.logger.DebugContext(ctx, "Quiz answer recorded", "user_id", userID, "day", day, "correct", correct)
	return true, nil
}

func (s *sqlxStore) DeleteActiveQuizzesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM active_quizzes WHERE created_at < ?;`, cutoff.Unix())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting stale active quizzes", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete stale active quizzes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

// --- Stats ---

func (s *sqlxStore) GetDailyStats(ctx context.Context, userID int64, day string) (StatTotals, error) {
	var totals StatTotals
	err := s.db.GetContext(ctx, &totals, `
        SELECT COALESCE(SUM(correct_count), 0) AS correct, COALESCE(SUM(total_count), 0) AS total
        FROM quiz_stats WHERE user_id = ? AND day = ?;
    `, userID, day)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting daily stats", "user_id", userID, "day", day, "error", err)
		return StatTotals{}, fmt.Errorf("failed to get daily stats for user %d: %w", userID, err)
	}
	return totals, nil
}

func (s *sqlxStore) GetLifetimeStats(ctx context.Context, userID int64) (StatTotals, error) {
	var totals StatTotals
	err := s.db.GetContext(ctx, &totals, `
        SELECT COALESCE(SUM(correct_count), 0) AS correct, COALESCE(SUM(total_count), 0) AS total
        FROM quiz_stats WHERE user_id = ?;
    `, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting lifetime stats", "user_id", userID, "error", err)
		return StatTotals{}, fmt.Errorf("failed to get lifetime stats for user %d: %w", userID, err)
	}
	return totals, nil
}

// --- Request counters ---

func (s *sqlxStore) GetRequestCount(ctx context.Context, userID int64, day string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT count FROM request_counters WHERE user_id = ? AND day = ?;`, userID, day)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting request count", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to get request count for user %d: %w", userID, err)
	}
	return count, nil
}

func (s *sqlxStore) IncrementRequestCount(ctx context.Context, userID int64, day string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
        INSERT INTO request_counters (user_id, day, count) VALUES (?, ?, 1)
        ON CONFLICT (user_id) DO UPDATE SET
            count = CASE WHEN request_counters.day = excluded.day THEN request_counters.count + 1 ELSE 1 END,
            day   = excluded.day
        RETURNING count;
    `, userID, day)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing request count", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to increment request count for user %d: %w", userID, err)
	}
	return count, nil
}
