package forms

import (
	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/internal/widgets"
	"github.com/goliatone/go-markitup/markup"
)

// BoundField pairs a field with its widget and current value.
type BoundField struct {
	form    *Form
	field   fields.Field
	widget  widgets.Widget
	initial any
}

// Name returns the input name.
func (b *BoundField) Name() string { return b.field.Name }

// ID returns the element id.
func (b *BoundField) ID() string { return IDPrefix + b.field.Name }

// Field returns the underlying field.
func (b *BoundField) Field() fields.Field { return b.field }

// Widget returns the widget chosen for the form context.
func (b *BoundField) Widget() widgets.Widget { return b.widget }

// Initial returns the unbound value.
func (b *BoundField) Initial() any { return b.initial }

// Value returns submitted data once bound, the initial value otherwise.
func (b *BoundField) Value() any {
	if b.form.bound {
		return b.form.data.Get(b.field.Name)
	}
	return b.initial
}

// Error returns the validation message for the field, if any.
func (b *BoundField) Error() string {
	return b.form.errors[b.field.Name]
}

// Render renders the widget. Fields whose default is computed per form also
// carry the initial value in a hidden input so a host can detect changes.
func (b *BoundField) Render() (markup.SafeHTML, error) {
	attrs := widgets.A("id", b.ID())
	if b.field.Required {
		attrs = attrs.WithFlag("required")
	}
	html, err := b.widget.Render(b.field.Name, b.Value(), attrs)
	if err != nil {
		return "", err
	}
	if !b.field.HasCallableDefault() {
		return html, nil
	}
	hidden, err := widgets.NewMarkupHidden(nil).Render(
		InitialPrefix+b.field.Name,
		b.initial,
		widgets.A("id", InitialPrefix+b.ID()),
	)
	if err != nil {
		return "", err
	}
	return html + hidden, nil
}

// String renders the field, swallowing errors as pongo2 and fmt callers
// expect.
func (b *BoundField) String() string {
	html, err := b.Render()
	if err != nil {
		return ""
	}
	return html.String()
}
