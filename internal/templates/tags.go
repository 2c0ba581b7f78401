package templates

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-markitup/internal/assets"
	"github.com/goliatone/go-markitup/internal/routes"
	"github.com/goliatone/go-markitup/markup"
)

// Arguments accepted by markitup_editor after the textarea id.
const (
	ModeAutoPreview   = "auto_preview"
	ModeNoAutoPreview = "no_auto_preview"
)

// TagsConfig carries the process defaults the tags fall back to.
type TagsConfig struct {
	Media       assets.MediaConfig
	Previews    routes.Resolver
	AutoPreview bool
}

// Tags exposes the markitup helpers to host templates.
type Tags struct {
	engine *Engine
	cfg    TagsConfig
}

// NewTags binds the helpers to an engine.
func NewTags(engine *Engine, cfg TagsConfig) *Tags {
	if cfg.Previews == nil {
		cfg.Previews = routes.None
	}
	return &Tags{engine: engine, cfg: cfg}
}

// Media renders the editor stylesheets and scripts.
func (t *Tags) Media() markup.SafeHTML {
	return markup.SafeHTML(assets.EditorMedia(t.cfg.Media).Render())
}

// CSS renders only the editor stylesheets.
func (t *Tags) CSS() markup.SafeHTML {
	return markup.SafeHTML(assets.EditorMedia(t.cfg.Media).RenderCSS())
}

// JS renders only the editor scripts.
func (t *Tags) JS() markup.SafeHTML {
	return markup.SafeHTML(assets.EditorMedia(t.cfg.Media).RenderJS())
}

// Editor renders the editor snippet for an existing textarea. An optional
// mode overrides the auto preview default.
func (t *Tags) Editor(textareaID string, mode ...string) (markup.SafeHTML, error) {
	auto, err := t.autoPreview(mode)
	if err != nil {
		return "", err
	}
	return t.engine.RenderEditor(EditorContext{
		TextareaID:  strings.TrimPrefix(strings.TrimSpace(textareaID), "#"),
		PreviewURL:  t.cfg.Previews.Preview(),
		AutoPreview: auto,
	})
}

func (t *Tags) autoPreview(mode []string) (bool, error) {
	if len(mode) == 0 {
		return t.cfg.AutoPreview, nil
	}
	switch strings.TrimSpace(mode[0]) {
	case "":
		return t.cfg.AutoPreview, nil
	case ModeAutoPreview:
		return true, nil
	case ModeNoAutoPreview:
		return false, nil
	default:
		return false, fmt.Errorf("templates: markitup_editor mode must be %q or %q, got %q", ModeAutoPreview, ModeNoAutoPreview, mode[0])
	}
}

// Context returns the helpers as pongo2 functions:
// {{ markitup_media() }}, {{ markitup_css() }}, {{ markitup_js() }} and
// {{ markitup_editor("id_body", "auto_preview") }}.
func (t *Tags) Context() pongo2.Context {
	return pongo2.Context{
		"markitup_media": func() *pongo2.Value {
			return pongo2.AsSafeValue(t.Media().String())
		},
		"markitup_css": func() *pongo2.Value {
			return pongo2.AsSafeValue(t.CSS().String())
		},
		"markitup_js": func() *pongo2.Value {
			return pongo2.AsSafeValue(t.JS().String())
		},
		"markitup_editor": func(id string, mode ...string) (*pongo2.Value, error) {
			out, err := t.Editor(id, mode...)
			if err != nil {
				return nil, err
			}
			return pongo2.AsSafeValue(out.String()), nil
		},
	}
}

// Render executes a host template with the helpers merged into data.
func (t *Tags) Render(name string, data pongo2.Context) (string, error) {
	return t.engine.Render(name, t.Context().Update(data))
}

// RenderString executes an inline host template with the helpers.
func (t *Tags) RenderString(source string, data pongo2.Context) (string, error) {
	return t.engine.RenderString(source, t.Context().Update(data))
}
