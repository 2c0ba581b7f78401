package fields

import (
	"strings"

	"github.com/goliatone/go-markitup/markup"
)

// Kind identifies how a field is stored and edited.
type Kind string

const (
	KindText      Kind = "text"
	KindMarkup    Kind = "markup"
	KindTimestamp Kind = "timestamp"
)

// DefaultFormatter is used by markup fields that do not name one.
const DefaultFormatter = "markdown"

// RenderedPrefix and RenderedSuffix surround a markup field's name to build
// the companion column holding its HTML.
const (
	RenderedPrefix = "_"
	RenderedSuffix = "_rendered"
)

// RenderedColumnName returns the rendered companion column for a markup field.
func RenderedColumnName(field string) string {
	return RenderedPrefix + strings.TrimSpace(field) + RenderedSuffix
}

// WidgetOverrides carries per-field editor settings. Empty values fall back
// to the process defaults.
type WidgetOverrides struct {
	Set         string
	Skin        string
	AutoPreview *bool
	Attrs       map[string]string
}

// Field describes a single column-backed attribute of a record.
type Field struct {
	Name             string
	Kind             Kind
	Formatter        string
	FormatterOptions markup.Options
	NoRenderedField  bool
	Unique           bool
	Required         bool
	Default          string
	DefaultFunc      func() string
	Widget           WidgetOverrides
}

// IsMarkup reports whether the field carries a markup value.
func (f Field) IsMarkup() bool {
	return f.Kind == KindMarkup
}

// HasCallableDefault reports whether the initial value is computed per form.
func (f Field) HasCallableDefault() bool {
	return f.DefaultFunc != nil
}

// Initial resolves the field's initial form value.
func (f Field) Initial() string {
	if f.DefaultFunc != nil {
		return f.DefaultFunc()
	}
	return f.Default
}

// Column is a physical storage column emitted by a definition.
type Column struct {
	Name     string
	Field    string
	Kind     Kind
	Rendered bool
	Unique   bool
	Primary  bool
}

// Option mutates a field while it is declared on a builder.
type Option func(*Field)

// WithFormatter selects the formatter identifier for a markup field.
func WithFormatter(name string) Option {
	return func(f *Field) {
		f.Formatter = name
	}
}

// WithFormatterOptions sets per-field formatter options.
func WithFormatterOptions(opts markup.Options) Option {
	return func(f *Field) {
		f.FormatterOptions = markup.Merge(f.FormatterOptions, opts)
	}
}

// WithoutRenderedField suppresses the automatic rendered column. The caller
// must declare it with Builder.Column.
func WithoutRenderedField() Option {
	return func(f *Field) {
		f.NoRenderedField = true
	}
}

// WithDefault sets a static initial value.
func WithDefault(value string) Option {
	return func(f *Field) {
		f.Default = value
	}
}

// WithDefaultFunc sets a callable initial value.
func WithDefaultFunc(fn func() string) Option {
	return func(f *Field) {
		f.DefaultFunc = fn
	}
}

// WithWidget sets per-field widget overrides.
func WithWidget(overrides WidgetOverrides) Option {
	return func(f *Field) {
		f.Widget = overrides
	}
}

// Unique marks the column unique in generated DDL.
func Unique() Option {
	return func(f *Field) {
		f.Unique = true
	}
}

// Required rejects empty submissions for the field.
func Required() Option {
	return func(f *Field) {
		f.Required = true
	}
}
