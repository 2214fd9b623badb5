package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/lingvobot/internal/sanitize"
)

func TestTelegramHTML(t *testing.T) {
	t.Parallel()
	p := sanitize.NewTelegramPolicy()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "  \n ",
			expected: "",
		},
		{
			name:     "markdown bold becomes b",
			input:    "**Исправленный текст:** 안녕하세요",
			expected: "<b>Исправленный текст:</b> 안녕하세요",
		},
		{
			name:     "allowed raw html kept",
			input:    "<b>Ошибки:</b> нет",
			expected: "<b>Ошибки:</b> нет",
		},
		{
			name:     "italic and strike",
			input:    "*tone* and ~~typo~~",
			expected: "<i>tone</i> and <s>typo</s>",
		},
		{
			name:     "paragraphs",
			input:    "first\n\n\n\nsecond",
			expected: "first\n\nsecond",
		},
		{
			name:     "list",
			input:    "- 사과\n- 바다",
			expected: "• 사과\n• 바다",
		},
		{
			name:     "heading",
			input:    "# 제목\nтекст",
			expected: "<b>제목</b>\nтекст",
		},
		{
			name:     "link",
			input:    "[site](https://example.com)",
			expected: `<a href="https://example.com">site</a>`,
		},
		{
			name:     "special characters escaped",
			input:    "a < b & c",
			expected: "a &lt; b &amp; c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, p.TelegramHTML(tt.input))
		})
	}
}

func TestTelegramHTMLDropsScripts(t *testing.T) {
	t.Parallel()
	p := sanitize.NewTelegramPolicy()

	out := p.TelegramHTML("<script>alert(1)</script>\n\nhello <span>world</span>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "span")
	assert.Contains(t, out, "hello world")
}

func TestPlainText(t *testing.T) {
	t.Parallel()
	p := sanitize.NewTelegramPolicy()

	assert.Equal(t, "사과 &lt;3", p.PlainText("사과 <3"))
	assert.Equal(t, "바다", p.PlainText("  바다 "))
	assert.Equal(t, "a&lt;b&gt;c", p.PlainText("a<b>c"))
	assert.Equal(t, "Слово &lt;사랑&gt; значит любовь, a&lt;b&gt;c &amp; &lt;i&gt;x&lt;/i&gt;",
		p.PlainText("Слово <사랑> значит любовь, a<b>c & <i>x</i>"))
}
