package formatters

import (
	"html"
	"regexp"
	"strings"

	"github.com/goliatone/go-markitup/markup"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Plain escapes text and turns blank-line separated blocks into paragraphs.
// Single newlines inside a block become <br>.
type Plain struct{}

// Format satisfies markup.Formatter.
func (Plain) Format(raw string, _ markup.Options) (string, error) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return "", nil
	}

	blocks := paragraphBreak.Split(normalized, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		escaped := html.EscapeString(block)
		out = append(out, "<p>"+strings.ReplaceAll(escaped, "\n", "<br>")+"</p>")
	}
	return strings.Join(out, "\n\n"), nil
}

// HTML passes trusted markup through untouched.
type HTML struct{}

// Format satisfies markup.Formatter.
func (HTML) Format(raw string, _ markup.Options) (string, error) {
	return raw, nil
}
