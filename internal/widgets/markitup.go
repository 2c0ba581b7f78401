package widgets

import (
	"strings"

	"github.com/goliatone/go-markitup/internal/assets"
	"github.com/goliatone/go-markitup/internal/routes"
	"github.com/goliatone/go-markitup/internal/templates"
	"github.com/goliatone/go-markitup/markup"
)

// WidgetClass marks textareas managed by the editor.
const WidgetClass = "markitup-widget"

// AdminClass matches the size of other admin textareas.
const AdminClass = "vLargeTextarea"

// Config holds the process-wide editor defaults.
type Config struct {
	Media       assets.MediaConfig
	AutoPreview bool
	Templates   *templates.Engine
	Previews    routes.Resolver
}

// Overrides replaces editor defaults for one field or one render. Empty
// values fall through to the next layer.
type Overrides struct {
	Set         string
	Skin        string
	AutoPreview *bool
}

func (o Overrides) over(lower Overrides) Overrides {
	out := lower
	if strings.TrimSpace(o.Set) != "" {
		out.Set = o.Set
	}
	if strings.TrimSpace(o.Skin) != "" {
		out.Skin = o.Skin
	}
	if o.AutoPreview != nil {
		out.AutoPreview = o.AutoPreview
	}
	return out
}

// MarkItUp is a markup textarea with the editor attached.
type MarkItUp struct {
	MarkupTextarea
	cfg     Config
	field   Overrides
	classes []string
}

// NewMarkItUp builds the editor widget. field carries per-field settings.
func NewMarkItUp(cfg Config, field Overrides, attrs Attrs) *MarkItUp {
	if cfg.Templates == nil {
		cfg.Templates = templates.MustNew(templates.Options{})
	}
	if cfg.Previews == nil {
		cfg.Previews = routes.None
	}
	return &MarkItUp{
		MarkupTextarea: *NewMarkupTextarea(attrs),
		cfg:            cfg,
		field:          field,
	}
}

// NewAdminMarkItUp is the editor widget styled like admin textareas.
func NewAdminMarkItUp(cfg Config, field Overrides, attrs Attrs) *MarkItUp {
	widget := NewMarkItUp(cfg, field, attrs)
	widget.classes = []string{AdminClass}
	return widget
}

// Render renders the textarea followed by the editor snippet.
func (w *MarkItUp) Render(name string, value any, attrs Attrs) (markup.SafeHTML, error) {
	return w.RenderWith(name, value, attrs, Overrides{})
}

// RenderWith renders with per-call overrides, which beat the field settings
// and the process defaults.
func (w *MarkItUp) RenderWith(name string, value any, attrs Attrs, call Overrides) (markup.SafeHTML, error) {
	final := w.Attrs.Merge(attrs).AddClass(w.Classes()...)
	if !final.Has("id") {
		final = final.With("id", "id_"+name)
	}
	id, _ := final.Get("id")
	textarea := renderTextarea(name, formatValue(RawValue(value)), final, nil)

	settings := w.settings(call)

	editor, err := w.cfg.Templates.RenderEditor(templates.EditorContext{
		TextareaID:  id,
		PreviewURL:  w.cfg.Previews.Preview(),
		AutoPreview: *settings.AutoPreview,
	})
	if err != nil {
		return "", err
	}
	return textarea + editor, nil
}

// Classes returns the extra classes added to the textarea.
func (w *MarkItUp) Classes() []string {
	return append(append([]string(nil), w.classes...), WidgetClass)
}

// Media lists the editor assets for this field's set and skin.
func (w *MarkItUp) Media() Media {
	settings := w.settings(Overrides{})
	cfg := w.cfg.Media
	cfg.Set = settings.Set
	cfg.Skin = settings.Skin
	return assets.EditorMedia(cfg)
}

// AutoPreview reports the effective auto preview flag for a render.
func (w *MarkItUp) AutoPreview(call Overrides) bool {
	return *w.settings(call).AutoPreview
}

func (w *MarkItUp) settings(call Overrides) Overrides {
	auto := w.cfg.AutoPreview
	defaults := Overrides{Set: w.cfg.Media.Set, Skin: w.cfg.Media.Skin, AutoPreview: &auto}
	return call.over(w.field.over(defaults))
}
