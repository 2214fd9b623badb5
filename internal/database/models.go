package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StatTotals sums the correct and total counts of one or more quiz_stats rows.
type StatTotals struct {
	Correct int `db:"correct"`
	Total   int `db:"total"`
}

// ActiveQuiz is the single unanswered quiz held for a user. Token is the
// opaque identifier carried by the answer buttons.
type ActiveQuiz struct {
	UserID           int64      `db:"user_id"`
	Token            string     `db:"token"`
	Question         string     `db:"question"`
	Options          StringList `db:"options"`
	CorrectIndex     int        `db:"correct_index"`
	CorrectWord      string     `db:"correct_word"`
	OriginalSentence string     `db:"original_sentence"`
	Translation      string     `db:"translation"`
	CreatedAt        int64      `db:"created_at"` // unix seconds
}

// StringList stores a string slice as a JSON array column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}
