// Package quiz picks daily quiz questions, holds the single active quiz per
// user on the server, and scores answers.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/edgard/lingvobot/internal/content"
)

// Blank marks the gap in a question sentence.
const Blank = "___"

// MaxWrongOptions is the number of distractors shown next to the correct word.
const MaxWrongOptions = 3

// Question is one bank entry: a sentence with a blank, the word that fills
// it, distractors, and the completed sentence.
type Question struct {
	Sentence    string   `json:"sentence"`
	Correct     string   `json:"correct_word"`
	Wrong       []string `json:"wrong_options"`
	Original    string   `json:"original_sentence"`
	Translation string   `json:"translation,omitempty"`
}

// LoadBank reads a JSON question bank. Entries without a sentence, a correct
// word or a distractor are skipped.
func LoadBank(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}

	var all []Question
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to parse question bank %s: %w", path, err)
	}

	bank := all[:0]
	for _, q := range all {
		q.Wrong = distractors(q.Correct, q.Wrong)
		if strings.TrimSpace(q.Sentence) == "" || strings.TrimSpace(q.Correct) == "" || len(q.Wrong) == 0 {
			continue
		}
		bank = append(bank, q)
	}
	return bank, nil
}

// distractors drops blanks, repeats and the correct word, keeping at most
// MaxWrongOptions.
func distractors(correct string, wrong []string) []string {
	seen := map[string]struct{}{correct: {}}
	out := make([]string, 0, MaxWrongOptions)
	for _, w := range wrong {
		w = strings.TrimSpace(w)
		if _, dup := seen[w]; dup || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == MaxWrongOptions {
			break
		}
	}
	return out
}

// Prepared is a question with its options in display order.
type Prepared struct {
	Question     Question
	Options      []string
	CorrectIndex int
}

// Shuffle puts the correct word and the distractors in random order and
// records where the correct word landed.
func Shuffle(q Question, shuffle func(n int, swap func(i, j int))) Prepared {
	options := make([]string, 0, 1+len(q.Wrong))
	options = append(options, q.Correct)
	options = append(options, q.Wrong...)

	shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	idx := 0
	for i, o := range options {
		if o == q.Correct {
			idx = i
			break
		}
	}
	return Prepared{Question: q, Options: options, CorrectIndex: idx}
}

// Picker chooses questions from the bank, or synthesizes a fallback from the
// word list when no bank is available. Both files are read on every pick.
type Picker struct {
	bankPath  string
	wordsPath string
	log       *slog.Logger
	intN      func(int) int
	shuffle   func(n int, swap func(i, j int))
}

// NewPicker creates a Picker. bankPath may be empty.
func NewPicker(bankPath, wordsPath string, log *slog.Logger) *Picker {
	if log == nil {
		log = slog.Default()
	}
	return &Picker{
		bankPath:  bankPath,
		wordsPath: wordsPath,
		log:       log.With("component", "quiz_picker"),
		intN:      rand.IntN,
		shuffle:   rand.Shuffle,
	}
}

// Pick returns a shuffled question.
func (p *Picker) Pick() (Prepared, error) {
	if p.bankPath != "" {
		bank, err := LoadBank(p.bankPath)
		switch {
		case err != nil:
			p.log.Warn("Failed to load question bank, using word list fallback", "path", p.bankPath, "error", err)
		case len(bank) == 0:
			p.log.Warn("Question bank is empty, using word list fallback", "path", p.bankPath)
		default:
			return Shuffle(bank[p.intN(len(bank))], p.shuffle), nil
		}
	}

	words, err := content.LoadWords(p.wordsPath)
	if err != nil {
		return Prepared{}, err
	}
	q, err := Fallback(words, p.intN)
	if err != nil {
		return Prepared{}, err
	}
	return Shuffle(q, p.shuffle), nil
}

// ErrNotEnoughWords is returned when the word list has fewer distinct words
// than a fallback question needs.
var ErrNotEnoughWords = errors.New("not enough distinct words for a quiz")

// FallbackTemplate is the sentence every fallback question uses.
const FallbackTemplate = "나는 " + Blank + " 을(를) 좋아해요."

// Fallback synthesizes a question from the word list: a random correct word
// and three other distinct words as distractors, drawn by rejection sampling.
func Fallback(words []content.Word, intN func(int) int) (Question, error) {
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w.Word] = struct{}{}
	}
	if len(distinct) < MaxWrongOptions+1 {
		return Question{}, ErrNotEnoughWords
	}

	correct := words[intN(len(words))]
	seen := map[string]struct{}{correct.Word: {}}
	wrong := make([]string, 0, MaxWrongOptions)
	for len(wrong) < MaxWrongOptions {
		candidate := words[intN(len(words))].Word
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		wrong = append(wrong, candidate)
	}

	translation := correct.Translation
	if translation == "" {
		translation = correct.Gloss
	}
	return Question{
		Sentence:    FallbackTemplate,
		Correct:     correct.Word,
		Wrong:       wrong,
		Original:    strings.Replace(FallbackTemplate, Blank, correct.Word, 1),
		Translation: translation,
	}, nil
}
