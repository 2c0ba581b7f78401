package forms

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/internal/widgets"
	"github.com/goliatone/go-markitup/markup"
)

// IDPrefix and InitialPrefix build element ids and hidden initial names.
const (
	IDPrefix      = "id_"
	InitialPrefix = "initial-"
)

// Form renders and binds the editable fields of a record definition.
type Form struct {
	def      *fields.Definition
	registry *widgets.Registry
	context  widgets.Context
	only     []string
	exclude  []string
	initial  map[string]any

	fields  []*BoundField
	data    url.Values
	bound   bool
	errors  map[string]string
	cleaned map[string]string
	values  map[string]*markup.Value
}

// Option customises a form.
type Option func(*Form)

// WithContext selects the widget context, form by default.
func WithContext(ctx widgets.Context) Option {
	return func(f *Form) {
		if ctx != "" {
			f.context = ctx
		}
	}
}

// WithFields limits the form to the named fields, in that order.
func WithFields(names ...string) Option {
	return func(f *Form) {
		f.only = append(f.only, names...)
	}
}

// WithExclude drops the named fields.
func WithExclude(names ...string) Option {
	return func(f *Form) {
		f.exclude = append(f.exclude, names...)
	}
}

// WithInitial seeds unbound values, typically from an existing record.
// Markup values render their raw text.
func WithInitial(values map[string]any) Option {
	return func(f *Form) {
		for key, value := range values {
			f.initial[key] = value
		}
	}
}

// New builds a form over def. Timestamp fields are skipped unless named
// through WithFields.
func New(def *fields.Definition, registry *widgets.Registry, opts ...Option) *Form {
	form := &Form{
		def:      def,
		registry: registry,
		context:  widgets.ContextForm,
		initial:  map[string]any{},
		errors:   map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(form)
		}
	}
	if form.registry == nil {
		form.registry = widgets.NewRegistry()
	}
	for _, field := range form.selectFields() {
		initial, ok := form.initial[field.Name]
		if !ok && (field.Default != "" || field.HasCallableDefault()) {
			initial = field.Initial()
		}
		form.fields = append(form.fields, &BoundField{
			form:    form,
			field:   field,
			widget:  form.registry.WidgetFor(field, form.context),
			initial: initial,
		})
	}
	return form
}

func (f *Form) selectFields() []fields.Field {
	if f.def == nil {
		return nil
	}
	if len(f.only) > 0 {
		out := make([]fields.Field, 0, len(f.only))
		for _, name := range f.only {
			if field, ok := f.def.Field(strings.TrimSpace(name)); ok && !contains(f.exclude, field.Name) {
				out = append(out, field)
			}
		}
		return out
	}
	var out []fields.Field
	for _, field := range f.def.Fields() {
		if field.Kind == fields.KindTimestamp || contains(f.exclude, field.Name) {
			continue
		}
		out = append(out, field)
	}
	return out
}

// Fields returns the bound fields in display order.
func (f *Form) Fields() []*BoundField {
	out := make([]*BoundField, len(f.fields))
	copy(out, f.fields)
	return out
}

// Field returns the bound field called name.
func (f *Form) Field(name string) (*BoundField, bool) {
	for _, field := range f.fields {
		if field.field.Name == name {
			return field, true
		}
	}
	return nil, false
}

// Bind attaches submitted data and clears previous results.
func (f *Form) Bind(data url.Values) *Form {
	f.data = data
	if f.data == nil {
		f.data = url.Values{}
	}
	f.bound = true
	f.errors = map[string]string{}
	f.cleaned = nil
	f.values = nil
	return f
}

// IsBound reports whether Bind was called.
func (f *Form) IsBound() bool { return f.bound }

// Validate checks submitted data and builds a markup value per markup field.
// Each value is rendered exactly once here.
func (f *Form) Validate() error {
	if !f.bound {
		return goerrors.New("form is not bound", goerrors.CategoryBadInput).
			WithTextCode("FORM_UNBOUND")
	}

	f.errors = map[string]string{}
	errs := validation.Errors{}
	cleaned := map[string]string{}
	for _, bf := range f.fields {
		raw := f.data.Get(bf.field.Name)
		var rules []validation.Rule
		if bf.field.Required {
			rules = append(rules, validation.Required)
		}
		if err := validation.Validate(strings.TrimSpace(raw), rules...); err != nil {
			errs[bf.field.Name] = err
			continue
		}
		cleaned[bf.field.Name] = raw
	}
	if err := errs.Filter(); err != nil {
		for name, fieldErr := range errs {
			f.errors[name] = fieldErr.Error()
		}
		return goerrors.FromOzzoValidation(err, "form validation failed")
	}

	values := map[string]*markup.Value{}
	for _, bf := range f.fields {
		if !bf.field.IsMarkup() {
			continue
		}
		value, err := f.def.Bind(bf.field.Name, cleaned[bf.field.Name])
		if err != nil {
			f.errors[bf.field.Name] = err.Error()
			return err
		}
		values[bf.field.Name] = value
	}

	f.cleaned = cleaned
	f.values = values
	return nil
}

// IsValid runs Validate and reports whether it passed.
func (f *Form) IsValid() bool {
	return f.Validate() == nil
}

// Errors returns field error messages from the last validation.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for key, value := range f.errors {
		out[key] = value
	}
	return out
}

// Values returns the cleaned raw values after a successful Validate.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.cleaned))
	for key, value := range f.cleaned {
		out[key] = value
	}
	return out
}

// Markup returns the value built for a markup field by Validate.
func (f *Form) Markup(name string) (*markup.Value, bool) {
	value, ok := f.values[name]
	return value, ok
}

// Media merges the media of every widget on the form.
func (f *Form) Media() widgets.Media {
	var media widgets.Media
	for _, bf := range f.fields {
		media = media.Merge(bf.widget.Media())
	}
	return media
}

// Render renders every field, one per line.
func (f *Form) Render() (markup.SafeHTML, error) {
	parts := make([]string, 0, len(f.fields))
	for _, bf := range f.fields {
		html, err := bf.Render()
		if err != nil {
			return "", err
		}
		parts = append(parts, html.String())
	}
	return markup.SafeHTML(strings.Join(parts, "\n")), nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) == target {
			return true
		}
	}
	return false
}
