// Package content loads the reference word list and prepares word-of-day
// cards.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoWords is returned when the word list holds no usable entries.
var ErrNoWords = errors.New("word list is empty")

// Word is one reference entry. Either Translation is given directly, or Gloss
// holds a source-language meaning that is translated when broadcast.
// Several senses in Gloss are separated by "/".
type Word struct {
	Word        string `json:"word"`
	Translation string `json:"translation,omitempty"`
	Gloss       string `json:"gloss,omitempty"`
	Image       string `json:"image,omitempty"`
	Example     string `json:"example,omitempty"`
}

// LoadWords reads the JSON word list at path. Entries without a word are
// skipped.
func LoadWords(path string) ([]Word, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	var all []Word
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to parse word list %s: %w", path, err)
	}

	words := all[:0]
	for _, w := range all {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word == "" {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}

// Senses splits a gloss into its trimmed, non-empty senses.
func Senses(gloss string) []string {
	var out []string
	for _, s := range strings.Split(gloss, "/") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
