package content

import (
	"regexp"
	"strings"
)

var (
	exampleLabel  = regexp.MustCompile(`(?i)^\s*[*_]*\s*(?:пример|example|예문|예시|예)\s*[*_]*\s*[:：]\s*[*_]*\s*`)
	parenthetical = regexp.MustCompile(`\s*[(（][^()（）]*[)）]`)
	glossTail     = regexp.MustCompile(`\s+[-–—]\s+.*$`)
	wrapQuotes    = "\"'«»“”„`*_ "
)

// CleanExample reduces a model answer to the bare example sentence: the first
// non-empty line without a leading label, parenthetical translations or a
// trailing " - gloss".
func CleanExample(s string) string {
	line := firstLine(s)
	line = exampleLabel.ReplaceAllString(line, "")
	line = parenthetical.ReplaceAllString(line, "")
	line = glossTail.ReplaceAllString(line, "")
	return strings.Trim(line, wrapQuotes)
}

// CleanTranslation trims quotes, a trailing period and extra lines from a
// translated gloss.
func CleanTranslation(s string) string {
	line := strings.Trim(firstLine(s), wrapQuotes)
	return strings.TrimSpace(strings.TrimSuffix(line, "."))
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
