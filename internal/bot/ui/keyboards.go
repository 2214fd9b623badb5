package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/sanitize"
)

// Tone is a Korean speech level offered for text generation.
type Tone struct {
	Code  string // speech level, also the callback suffix
	Label string // button text
}

// Name is the label without its leading pictogram.
func (t Tone) Name() string {
	return strings.TrimLeftFunc(t.Label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Tones lists the speech levels from most to least formal.
func Tones(b config.ButtonsConfig) []Tone {
	return []Tone{
		{Code: "존댓말", Label: b.ToneFormal},
		{Code: "해요체", Label: b.ToneSemiFormal},
		{Code: "반말", Label: b.ToneFriendly},
	}
}

// MainMenu is the persistent reply keyboard. Its labels are matched exactly
// by the text handlers.
func MainMenu(b config.ButtonsConfig) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: b.SpellCheck}, {Text: b.GenerateText}},
			{{Text: b.Channel}},
			{{Text: b.Topik}, {Text: b.Feedback}},
		},
		ResizeKeyboard: true,
	}
}

// QuizKeyboard lays the options out two per row.
func QuizKeyboard(token string, options []string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, (len(options)+1)/2)
	for i, option := range options {
		button := models.InlineKeyboardButton{Text: option, CallbackData: quiz.BuildCallback(token, i)}
		if i%2 == 0 {
			rows = append(rows, []models.InlineKeyboardButton{button})
		} else {
			rows[len(rows)-1] = append(rows[len(rows)-1], button)
		}
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ToneKeyboard offers one button per tone.
func ToneKeyboard(tones []Tone) (*models.InlineKeyboardMarkup, error) {
	rows := make([][]models.InlineKeyboardButton, 0, len(tones))
	for _, t := range tones {
		data, err := BuildToneCallback(t.Code)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: t.Label, CallbackData: data}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

func SubscriptionKeyboard(b config.ButtonsConfig) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: b.Unsubscribe, CallbackData: CallbackUnsubscribe}},
			{{Text: b.Stay, CallbackData: CallbackStay}},
		},
	}
}

func ResubscribeKeyboard(b config.ButtonsConfig) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: b.Resubscribe, CallbackData: CallbackResubscribe}},
		},
	}
}

func FeedbackKeyboard(b config.ButtonsConfig) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: b.WriteUs, CallbackData: CallbackWriteUs}},
			{{Text: b.TellFriend, CallbackData: CallbackTellFriend}},
			{{Text: b.OurProjects, CallbackData: CallbackOurProjects}},
		},
	}
}

// LinksKeyboard renders one URL button per link.
func LinksKeyboard(links []config.Link) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(links))
	for _, l := range links {
		rows = append(rows, []models.InlineKeyboardButton{{Text: l.Title, URL: l.URL}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ReplyKeyboard is attached to feedback forwarded to the administrator.
func ReplyKeyboard(label string, userID int64) (*models.InlineKeyboardMarkup, error) {
	data, err := BuildReplyCallback(userID)
	if err != nil {
		return nil, err
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: label, CallbackData: data}},
		},
	}, nil
}

// RenderQuiz renders an issued quiz: the header template filled with the
// escaped question, and its answer buttons.
func RenderQuiz(template string, p *sanitize.Policy, q *database.ActiveQuiz) (string, *models.InlineKeyboardMarkup) {
	return fmt.Sprintf(template, p.PlainText(q.Question)), QuizKeyboard(q.Token, q.Options)
}
