package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-markitup/markup"
)

//go:embed markitup/*.html
var embedded embed.FS

// Template names resolved by the engine.
const (
	EditorTemplate  = "markitup/editor.html"
	PreviewTemplate = "markitup/preview.html"
)

// Options configures the template engine.
type Options struct {
	// Dir holds host templates. Files there shadow the bundled ones, so a
	// host can ship its own markitup/editor.html.
	Dir   string
	Debug bool
}

// Engine renders the editor snippet, the preview page and host templates
// that use the markitup tags.
type Engine struct {
	set *pongo2.TemplateSet
}

// EditorContext feeds markitup/editor.html.
type EditorContext struct {
	TextareaID  string
	PreviewURL  string
	AutoPreview bool
}

// PreviewContext feeds markitup/preview.html.
type PreviewContext struct {
	HTML       markup.SafeHTML
	PreviewCSS string
}

// New builds an engine over the bundled templates and the optional host
// directory.
func New(opts Options) (*Engine, error) {
	registerFilters()

	var source fs.FS = embedded
	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("templates: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates: not a directory: %s", dir)
		}
		source = layered{host: os.DirFS(dir), fallback: embedded}
	}

	set := pongo2.NewSet("markitup", pongo2.NewFSLoader(source))
	set.Debug = opts.Debug
	return &Engine{set: set}, nil
}

// layered resolves template names against the host directory first and the
// bundled templates second. Both layers see the same relative name.
type layered struct {
	host     fs.FS
	fallback fs.FS
}

func (l layered) Open(name string) (fs.File, error) {
	file, err := l.host.Open(name)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return l.fallback.Open(name)
}

// MustNew panics when New fails.
func MustNew(opts Options) *Engine {
	engine, err := New(opts)
	if err != nil {
		panic(err)
	}
	return engine
}

// RenderEditor renders the snippet that attaches the editor to a textarea.
func (e *Engine) RenderEditor(data EditorContext) (markup.SafeHTML, error) {
	out, err := e.Render(EditorTemplate, pongo2.Context{
		"textarea_id":  data.TextareaID,
		"preview_url":  data.PreviewURL,
		"auto_preview": data.AutoPreview,
	})
	if err != nil {
		return "", err
	}
	return markup.SafeHTML(strings.TrimRight(out, "\n")), nil
}

// RenderPreview renders the preview page around already-formatted HTML.
func (e *Engine) RenderPreview(data PreviewContext) (string, error) {
	return e.Render(PreviewTemplate, pongo2.Context{
		"preview":     pongo2.AsSafeValue(data.HTML.String()),
		"preview_css": data.PreviewCSS,
	})
}

// Render executes a named template.
func (e *Engine) Render(name string, data pongo2.Context) (string, error) {
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("templates: load %s: %w", name, err)
	}
	out, err := tpl.Execute(data)
	if err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	return out, nil
}

// RenderString compiles and executes an inline template.
func (e *Engine) RenderString(source string, data pongo2.Context) (string, error) {
	tpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("templates: compile: %w", err)
	}
	out, err := tpl.Execute(data)
	if err != nil {
		return "", fmt.Errorf("templates: render: %w", err)
	}
	return out, nil
}
