// Package sanitize turns model output into text Telegram accepts with
// ParseMode HTML.
package sanitize

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// blockRewrites map goldmark's block and emphasis markup onto the tags
// Telegram supports, in order.
var blockRewrites = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`<(/?)strong>`), "<${1}b>"},
	{regexp.MustCompile(`<(/?)em>`), "<${1}i>"},
	{regexp.MustCompile(`<(/?)del>`), "<${1}s>"},
	{regexp.MustCompile(`<h[1-6][^>]*>`), "<b>"},
	{regexp.MustCompile(`</h[1-6]>`), "</b>"},
	{regexp.MustCompile(`<br\s*/?>`), "\n"},
	{regexp.MustCompile(`<hr\s*/?>`), "\n"},
	{regexp.MustCompile(`<p>`), ""},
	{regexp.MustCompile(`</p>`), "\n\n"},
	{regexp.MustCompile(`<(?:ul|ol)[^>]*>\s*`), ""},
	{regexp.MustCompile(`</(?:ul|ol)>`), "\n"},
	{regexp.MustCompile(`<li>\s*`), "• "},
	{regexp.MustCompile(`\s*</li>\s*`), "\n"},
}

var extraNewlines = regexp.MustCompile(`\n{3,}`)

// Policy converts markdown or loose HTML into the Telegram HTML subset
// (b, i, u, s, code, pre, a).
type Policy struct {
	telegram *bluemonday.Policy
	markdown goldmark.Markdown
}

// NewTelegramPolicy creates a Policy for Telegram HTML messages.
func NewTelegramPolicy() *Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "u", "s", "code", "pre")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "tg")
	p.RequireParseableURLs(true)
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w-]+$`)).OnElements("code")

	return &Policy{
		telegram: p,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// TelegramHTML renders text as Telegram HTML. Markup outside the supported
// subset is dropped, keeping its text.
func (p *Policy) TelegramHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		return p.PlainText(text)
	}

	out := buf.String()
	for _, rw := range blockRewrites {
		out = rw.re.ReplaceAllString(out, rw.repl)
	}

	out = p.telegram.Sanitize(out)
	out = extraNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// PlainText escapes text literally, angle brackets included, so it is safe
// to embed in a Telegram HTML template.
func (p *Policy) PlainText(text string) string {
	return html.EscapeString(strings.TrimSpace(text))
}
