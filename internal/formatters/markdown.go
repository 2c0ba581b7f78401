package formatters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-markitup/markup"
)

const (
	optionExtensions       = "extensions"
	optionHardWraps        = "hard_wraps"
	optionSafeMode         = "safe_mode"
	optionStripFrontMatter = "strip_front_matter"
)

// MarkdownOptions mirrors the option keys understood by the markdown
// formatters.
type MarkdownOptions struct {
	Extensions       []string
	HardWraps        bool
	SafeMode         bool
	StripFrontMatter bool
}

func markdownOptionsFrom(opts markup.Options) MarkdownOptions {
	return MarkdownOptions{
		Extensions:       opts.Strings(optionExtensions),
		HardWraps:        opts.Bool(optionHardWraps, false),
		SafeMode:         opts.Bool(optionSafeMode, false),
		StripFrontMatter: opts.Bool(optionStripFrontMatter, true),
	}
}

// Markdown renders CommonMark plus the configured goldmark extensions.
type Markdown struct {
	extra []goldmark.Extender
}

// NewMarkdown returns a markdown formatter. extra extenders are appended to
// the ones selected through options, which is how the highlighting variant is
// built.
func NewMarkdown(extra ...goldmark.Extender) *Markdown {
	return &Markdown{extra: extra}
}

// Format satisfies markup.Formatter.
func (m *Markdown) Format(raw string, opts markup.Options) (string, error) {
	settings := markdownOptionsFrom(opts)

	source := []byte(raw)
	if settings.StripFrontMatter {
		// A leading thematic break looks like a front matter fence; render
		// the text as-is when it does not parse.
		if _, body, err := SplitFrontMatter(raw); err == nil {
			source = []byte(body)
		}
	}

	engine := newGoldmarkEngine(settings, m.extra...)
	var buf bytes.Buffer
	if err := engine.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// SplitFrontMatter separates a YAML/TOML front matter block from the markdown
// body. Text without front matter is returned unchanged with nil metadata.
func SplitFrontMatter(raw string) (map[string]any, string, error) {
	trimmed := strings.TrimLeft(raw, "\ufeff")
	if !strings.HasPrefix(trimmed, "---") && !strings.HasPrefix(trimmed, "+++") {
		return nil, raw, nil
	}
	meta := map[string]any{}
	body, err := frontmatter.Parse(strings.NewReader(trimmed), &meta)
	if err != nil {
		return nil, "", fmt.Errorf("front matter: %w", err)
	}
	return meta, string(body), nil
}

// newGoldmarkEngine builds a goldmark.Markdown for one render. Unknown
// extension names are ignored.
func newGoldmarkEngine(opts MarkdownOptions, extra ...goldmark.Extender) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	exts = append(exts, extra...)

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}

func markdownSchema(extra map[string]any) map[string]any {
	properties := map[string]any{
		optionExtensions: map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		optionHardWraps:        map[string]any{"type": "boolean"},
		optionSafeMode:         map[string]any{"type": "boolean"},
		optionStripFrontMatter: map[string]any{"type": "boolean"},
	}
	for key, value := range extra {
		properties[key] = value
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}
