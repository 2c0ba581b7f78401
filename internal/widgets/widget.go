package widgets

import (
	"fmt"

	"github.com/goliatone/go-markitup/internal/assets"
	"github.com/goliatone/go-markitup/markup"
)

// Media is the set of stylesheets and scripts a widget depends on.
type Media = assets.Media

// Widget renders a form control for a named value.
type Widget interface {
	Render(name string, value any, attrs Attrs) (markup.SafeHTML, error)
	Media() Media
}

// Default textarea size.
const (
	DefaultRows = "10"
	DefaultCols = "40"
)

// Textarea renders a plain <textarea>.
type Textarea struct {
	Attrs Attrs
}

// NewTextarea returns a textarea with the default size and extra attrs.
func NewTextarea(attrs Attrs) *Textarea {
	return &Textarea{Attrs: A("rows", DefaultRows, "cols", DefaultCols).Merge(attrs)}
}

func (w *Textarea) Render(name string, value any, attrs Attrs) (markup.SafeHTML, error) {
	return renderTextarea(name, formatValue(value), w.Attrs, attrs), nil
}

func (w *Textarea) Media() Media { return Media{} }

// HiddenInput renders <input type="hidden">.
type HiddenInput struct {
	Attrs Attrs
}

// NewHiddenInput returns a hidden input widget.
func NewHiddenInput(attrs Attrs) *HiddenInput {
	return &HiddenInput{Attrs: attrs}
}

func (w *HiddenInput) Render(name string, value any, attrs Attrs) (markup.SafeHTML, error) {
	return renderHidden(name, formatValue(value), w.Attrs, attrs), nil
}

func (w *HiddenInput) Media() Media { return Media{} }

// MarkupTextarea is a textarea that edits the raw text of markup values.
type MarkupTextarea struct {
	Textarea
}

// NewMarkupTextarea returns the default form widget for markup fields.
func NewMarkupTextarea(attrs Attrs) *MarkupTextarea {
	return &MarkupTextarea{Textarea: *NewTextarea(attrs)}
}

func (w *MarkupTextarea) Render(name string, value any, attrs Attrs) (markup.SafeHTML, error) {
	return w.Textarea.Render(name, RawValue(value), attrs)
}

// MarkupHidden carries the raw text of a markup value in a hidden input.
type MarkupHidden struct {
	HiddenInput
}

// NewMarkupHidden returns a hidden input for markup values.
func NewMarkupHidden(attrs Attrs) *MarkupHidden {
	return &MarkupHidden{HiddenInput: HiddenInput{Attrs: attrs}}
}

func (w *MarkupHidden) Render(name string, value any, attrs Attrs) (markup.SafeHTML, error) {
	return w.HiddenInput.Render(name, RawValue(value), attrs)
}

// RawValue unwraps markup values to their raw text. Anything else is
// returned untouched.
func RawValue(value any) any {
	switch v := value.(type) {
	case *markup.Value:
		if v == nil {
			return nil
		}
		return v.Raw()
	case markup.Value:
		return v.Raw()
	default:
		return value
	}
}

// renderTextarea emits id first, then widget attrs, call attrs and name.
func renderTextarea(name, value string, base, extra Attrs) markup.SafeHTML {
	final := leadingID(base.Merge(extra)).With("name", name)
	return markup.SafeHTML("<textarea" + final.String() + ">" + assets.EscapeAttr(value) + "</textarea>")
}

func renderHidden(name, value string, base, extra Attrs) markup.SafeHTML {
	final := A("type", "hidden", "name", name, "value", value).Merge(base, extra)
	return markup.SafeHTML("<input" + final.String() + " />")
}

func leadingID(attrs Attrs) Attrs {
	id, ok := attrs.Get("id")
	if !ok {
		return attrs
	}
	return A("id", id).Merge(attrs.Without("id"))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case markup.SafeHTML:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
