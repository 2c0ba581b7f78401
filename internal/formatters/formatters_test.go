package formatters_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-markitup/internal/formatters"
	"github.com/goliatone/go-markitup/markup"
)

func TestMarkdownRendersCommonMark(t *testing.T) {
	got, err := formatters.NewMarkdown().Format("# Heading\n\nHello **world**", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected strong text, got %q", got)
	}
}

func TestMarkdownStripsFrontMatter(t *testing.T) {
	raw := "---\ntitle: Hello\n---\n# Body"

	got, err := formatters.NewMarkdown().Format(raw, markup.Options{"strip_front_matter": true})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(got, "title: Hello") {
		t.Fatalf("expected front matter to be stripped, got %q", got)
	}
	if !strings.Contains(got, "Body</h1>") {
		t.Fatalf("expected body heading, got %q", got)
	}

	meta, body, err := formatters.SplitFrontMatter(raw)
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if meta["title"] != "Hello" {
		t.Fatalf("expected title metadata, got %#v", meta)
	}
	if strings.TrimSpace(body) != "# Body" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestMarkdownStripsFrontMatterAfterByteOrderMark(t *testing.T) {
	raw := "\ufeff---\ntitle: Marked\n---\nText"

	meta, body, err := formatters.SplitFrontMatter(raw)
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if meta["title"] != "Marked" {
		t.Fatalf("expected title metadata, got %#v", meta)
	}
	if strings.TrimSpace(body) != "Text" {
		t.Fatalf("unexpected body %q", body)
	}

	got, err := formatters.NewMarkdown().Format(raw, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(got, "title:") || !strings.Contains(got, "<p>Text</p>") {
		t.Fatalf("expected front matter stripped, got %q", got)
	}
}

func TestMarkdownSafeModeEscapesHTML(t *testing.T) {
	raw := "<script>alert(1)</script>\n\ntext"

	unsafe, err := formatters.NewMarkdown().Format(raw, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(unsafe, "<script>") {
		t.Fatalf("expected raw HTML to pass without safe mode, got %q", unsafe)
	}

	safe, err := formatters.NewMarkdown().Format(raw, markup.Options{"safe_mode": true})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(safe, "<script>") {
		t.Fatalf("expected raw HTML to be omitted in safe mode, got %q", safe)
	}
}

func TestMarkdownHardWraps(t *testing.T) {
	got, err := formatters.NewMarkdown().Format("one\ntwo", markup.Options{"hard_wraps": true})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(got, "<br") {
		t.Fatalf("expected hard wrap, got %q", got)
	}
}

func TestMarkdownExtensionsSelection(t *testing.T) {
	raw := "| a | b |\n|---|---|\n| 1 | 2 |"

	withTables, err := formatters.NewMarkdown().Format(raw, markup.Options{"extensions": []any{"table"}})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(withTables, "<table>") {
		t.Fatalf("expected table output, got %q", withTables)
	}

	withoutTables, err := formatters.NewMarkdown().Format(raw, markup.Options{"extensions": []string{"footnote"}})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(withoutTables, "<table>") {
		t.Fatalf("expected no table without the extension, got %q", withoutTables)
	}
}

func TestHighlightedMarkdownUsesChromaClasses(t *testing.T) {
	raw := "```go\nfunc main() {}\n```"

	got, err := formatters.NewHighlightedMarkdown().Format(raw, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Fatalf("expected chroma classes, got %q", got)
	}
}

func TestPlainFormatter(t *testing.T) {
	got, err := formatters.Plain{}.Format("first <line>\nsecond\n\nnext & last", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "<p>first &lt;line&gt;<br>second</p>\n\n<p>next &amp; last</p>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	empty, err := formatters.Plain{}.Format("  \n ", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if empty != "" {
		t.Fatalf("expected empty output, got %q", empty)
	}
}

func TestHTMLFormatterPassesThrough(t *testing.T) {
	got, err := formatters.HTML{}.Format("<em>as is</em>", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "<em>as is</em>" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestFormatterBackedMarkupValue(t *testing.T) {
	formatter, err := formatters.DefaultRegistry().Resolve(formatters.NameMarkdown)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	value, err := markup.New("*hello*", formatter)
	if err != nil {
		t.Fatalf("markup.New: %v", err)
	}
	if !strings.Contains(string(value.Rendered()), "<em>hello</em>") {
		t.Fatalf("expected emphasis, got %q", value.Rendered())
	}
	if err := value.SetRaw("**bye**"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if !strings.Contains(string(value.Rendered()), "<strong>bye</strong>") {
		t.Fatalf("expected strong text, got %q", value.Rendered())
	}
}
