package formatters

import "github.com/goliatone/go-markitup/markup"

// Identifiers of the formatters registered by DefaultRegistry.
const (
	NameMarkdown          = "markdown"
	NameMarkdownHighlight = "markdown_highlight"
	NamePlain             = "plain"
	NameHTML              = "html"
)

// DefaultRegistry returns a registry populated with the built-in formatters.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	RegisterBuiltins(registry)
	return registry
}

// RegisterBuiltins adds the built-in formatters to registry, replacing any
// entries with the same names.
func RegisterBuiltins(registry *Registry) {
	registry.MustRegister(NameMarkdown, Registration{
		Formatter:     NewMarkdown(),
		Description:   "CommonMark with GitHub flavoured extensions",
		OptionsSchema: markdownSchema(nil),
		Defaults: markup.Options{
			optionStripFrontMatter: true,
		},
	})
	registry.MustRegister(NameMarkdownHighlight, Registration{
		Formatter:     NewHighlightedMarkdown(),
		Description:   "Markdown with chroma highlighted code blocks",
		OptionsSchema: highlightSchema(),
		Defaults: markup.Options{
			optionStripFrontMatter: true,
			optionStyle:            defaultHighlightStyle,
		},
	})
	registry.MustRegister(NamePlain, Registration{
		Formatter:   Plain{},
		Description: "Escaped text with paragraphs and line breaks",
	})
	registry.MustRegister(NameHTML, Registration{
		Formatter:   HTML{},
		Description: "Trusted HTML passed through unchanged",
	})
}
