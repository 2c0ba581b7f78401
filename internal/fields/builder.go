package fields

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-markitup/markup"
)

// IDColumn is the primary key emitted for every concrete definition.
const IDColumn = "id"

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// FormatterResolver resolves formatter identifiers while a definition is
// built. formatters.Registry satisfies it.
type FormatterResolver interface {
	ResolveWithOptions(name string, opts markup.Options) (markup.Formatter, error)
}

// Builder collects field declarations for a record type.
type Builder struct {
	table            string
	abstract         bool
	parents          []*Definition
	fields           []Field
	explicitColumns  []string
	defaultFormatter string
	defaultOptions   markup.Options
}

// NewBuilder starts a definition for table.
func NewBuilder(table string) *Builder {
	return &Builder{
		table:            strings.TrimSpace(table),
		defaultFormatter: DefaultFormatter,
	}
}

// Abstract marks the definition as a mixin: it yields no table and no id
// column, only fields for children to inherit.
func (b *Builder) Abstract() *Builder {
	b.abstract = true
	return b
}

// DefaultFormatter changes the formatter used by markup fields that do not
// name one, together with process-wide options.
func (b *Builder) DefaultFormatter(name string, opts markup.Options) *Builder {
	if strings.TrimSpace(name) != "" {
		b.defaultFormatter = name
	}
	b.defaultOptions = markup.Merge(opts)
	return b
}

// Extend inherits the fields of parent. Fields declared on the child replace
// inherited fields with the same name.
func (b *Builder) Extend(parent *Definition) *Builder {
	if parent != nil {
		b.parents = append(b.parents, parent)
	}
	return b
}

// Text declares a plain text column.
func (b *Builder) Text(name string, opts ...Option) *Builder {
	return b.add(Field{Name: name, Kind: KindText}, opts)
}

// Markup declares a markup field. Unless WithoutRenderedField is set, it
// also emits the rendered companion column.
func (b *Builder) Markup(name string, opts ...Option) *Builder {
	return b.add(Field{Name: name, Kind: KindMarkup}, opts)
}

// Timestamp declares a timestamp column.
func (b *Builder) Timestamp(name string, opts ...Option) *Builder {
	return b.add(Field{Name: name, Kind: KindTimestamp}, opts)
}

// Column declares a raw text column outside any field. It is how callers
// supply the rendered column of a field built WithoutRenderedField.
func (b *Builder) Column(name string) *Builder {
	b.explicitColumns = append(b.explicitColumns, strings.TrimSpace(name))
	return b
}

func (b *Builder) add(field Field, opts []Option) *Builder {
	field.Name = strings.TrimSpace(field.Name)
	for _, opt := range opts {
		if opt != nil {
			opt(&field)
		}
	}
	b.fields = append(b.fields, field)
	return b
}

// Build validates the declarations, resolves every markup formatter and
// returns the immutable definition. Unknown formatters and malformed options
// fail here, before any value is created.
func (b *Builder) Build(resolver FormatterResolver) (*Definition, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	fields := b.mergedFields()
	def := &Definition{
		table:      b.table,
		abstract:   b.abstract,
		fields:     fields,
		index:      make(map[string]int, len(fields)),
		formatters: make(map[string]markup.Formatter),
	}
	for i, field := range fields {
		def.index[field.Name] = i
	}

	explicit := b.allExplicitColumns()
	for i, field := range fields {
		if !field.IsMarkup() {
			continue
		}
		if field.NoRenderedField && !contains(explicit, RenderedColumnName(field.Name)) {
			return nil, markup.NewConfigurationError(field.Name,
				fmt.Sprintf("rendered column %q must be declared when the rendered field is disabled", RenderedColumnName(field.Name)), nil)
		}
		if resolver == nil {
			return nil, markup.NewConfigurationError(field.Name, "a formatter resolver is required for markup fields", nil)
		}
		name := field.Formatter
		if strings.TrimSpace(name) == "" {
			name = b.defaultFormatter
		}
		formatter, err := resolver.ResolveWithOptions(name, markup.Merge(b.defaultOptions, field.FormatterOptions))
		if err != nil {
			return nil, err
		}
		fields[i].Formatter = name
		def.formatters[field.Name] = formatter
	}

	def.columns = buildColumns(def, explicit)
	return def, nil
}

// MustBuild panics when Build fails.
func (b *Builder) MustBuild(resolver FormatterResolver) *Definition {
	def, err := b.Build(resolver)
	if err != nil {
		panic(err)
	}
	return def
}

func (b *Builder) validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(b.table, validation.Required, validation.Match(identifierPattern)); err != nil {
		errs["table"] = err
	}

	seen := map[string]struct{}{}
	for i, field := range b.fields {
		key := fmt.Sprintf("fields.%d", i)
		if field.Name != "" {
			key = "fields." + field.Name
		}
		if err := validateField(field); err != nil {
			errs[key] = err
			continue
		}
		if _, dup := seen[field.Name]; dup {
			errs[key] = validation.NewError("validation_field_duplicate", "field is declared more than once")
			continue
		}
		seen[field.Name] = struct{}{}
	}
	for i, column := range b.explicitColumns {
		if column == "" {
			errs[fmt.Sprintf("columns.%d", i)] = validation.NewError("validation_column_required", "column name is required")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return markup.NewConfigurationError(b.table, "invalid record definition",
		goerrors.FromOzzoValidation(errs, "record definition validation failed"))
}

func validateField(field Field) error {
	return validation.ValidateStruct(&field,
		validation.Field(&field.Name,
			validation.Required,
			validation.Match(identifierPattern),
			validation.NotIn(IDColumn).Error("id is reserved for the primary key"),
		),
		validation.Field(&field.Kind,
			validation.Required,
			validation.In(KindText, KindMarkup, KindTimestamp),
		),
	)
}

func (b *Builder) mergedFields() []Field {
	var out []Field
	position := map[string]int{}
	push := func(field Field) {
		if idx, ok := position[field.Name]; ok {
			out[idx] = field
			return
		}
		position[field.Name] = len(out)
		out = append(out, field)
	}
	for _, parent := range b.parents {
		for _, field := range parent.fields {
			push(field)
		}
	}
	for _, field := range b.fields {
		push(field)
	}
	return out
}

func (b *Builder) allExplicitColumns() []string {
	var out []string
	for _, parent := range b.parents {
		out = append(out, parent.explicit...)
	}
	return append(out, b.explicitColumns...)
}

func buildColumns(def *Definition, explicit []string) []Column {
	var columns []Column
	seen := map[string]struct{}{}
	push := func(col Column) {
		if _, ok := seen[col.Name]; ok {
			return
		}
		seen[col.Name] = struct{}{}
		columns = append(columns, col)
	}

	if !def.abstract {
		push(Column{Name: IDColumn, Kind: KindText, Primary: true})
	}
	for _, field := range def.fields {
		push(Column{Name: field.Name, Field: field.Name, Kind: field.Kind, Unique: field.Unique})
		if field.IsMarkup() && !field.NoRenderedField {
			push(Column{Name: RenderedColumnName(field.Name), Field: field.Name, Kind: KindText, Rendered: true})
		}
	}
	for _, name := range explicit {
		col := Column{Name: name, Kind: KindText}
		for _, field := range def.fields {
			if field.IsMarkup() && RenderedColumnName(field.Name) == name {
				col.Field = field.Name
				col.Rendered = true
			}
		}
		push(col)
	}
	def.explicit = explicit
	return columns
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
