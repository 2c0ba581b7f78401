package formatters

import (
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/goliatone/go-markitup/markup"
)

const (
	optionStyle       = "style"
	optionLineNumbers = "line_numbers"
	optionCSSClasses  = "css_classes"

	defaultHighlightStyle = "monokai"
)

// HighlightedMarkdown renders markdown and runs fenced code blocks through
// chroma.
type HighlightedMarkdown struct{}

// NewHighlightedMarkdown returns the highlighting markdown formatter.
func NewHighlightedMarkdown() *HighlightedMarkdown {
	return &HighlightedMarkdown{}
}

// Format satisfies markup.Formatter.
func (HighlightedMarkdown) Format(raw string, opts markup.Options) (string, error) {
	ext := highlighting.NewHighlighting(
		highlighting.WithStyle(opts.String(optionStyle, defaultHighlightStyle)),
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(opts.Bool(optionCSSClasses, true)),
			chromahtml.WithLineNumbers(opts.Bool(optionLineNumbers, false)),
		),
	)
	return NewMarkdown(ext).Format(raw, opts)
}

func highlightSchema() map[string]any {
	return markdownSchema(map[string]any{
		optionStyle:       map[string]any{"type": "string", "minLength": 1},
		optionLineNumbers: map[string]any{"type": "boolean"},
		optionCSSClasses:  map[string]any{"type": "boolean"},
	})
}
