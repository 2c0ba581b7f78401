package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-markitup/markup"
)

// Definition is the built, immutable description of a record type.
type Definition struct {
	table      string
	abstract   bool
	fields     []Field
	index      map[string]int
	columns    []Column
	explicit   []string
	formatters map[string]markup.Formatter
}

// Table returns the storage table name.
func (d *Definition) Table() string { return d.table }

// IsAbstract reports whether the definition only exists to be extended.
func (d *Definition) IsAbstract() bool { return d.abstract }

// Fields returns the declared fields, inherited ones first.
func (d *Definition) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field looks up a field by name.
func (d *Definition) Field(name string) (Field, bool) {
	idx, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[idx], true
}

// MarkupFields lists the markup fields in declaration order.
func (d *Definition) MarkupFields() []Field {
	var out []Field
	for _, field := range d.fields {
		if field.IsMarkup() {
			out = append(out, field)
		}
	}
	return out
}

// Columns returns the physical columns in storage order.
func (d *Definition) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in storage order.
func (d *Definition) ColumnNames() []string {
	names := make([]string, 0, len(d.columns))
	for _, col := range d.columns {
		names = append(names, col.Name)
	}
	return names
}

// Formatter returns the formatter bound to a markup field.
func (d *Definition) Formatter(field string) (markup.Formatter, bool) {
	formatter, ok := d.formatters[field]
	return formatter, ok
}

// Bind creates a markup value for field, rendering raw with the field's
// formatter.
func (d *Definition) Bind(field, raw string) (*markup.Value, error) {
	formatter, err := d.markupFormatter(field)
	if err != nil {
		return nil, err
	}
	return markup.New(raw, formatter)
}

// Load rebuilds a markup value from stored columns without rendering.
func (d *Definition) Load(field, raw, rendered string) (*markup.Value, error) {
	formatter, err := d.markupFormatter(field)
	if err != nil {
		return nil, err
	}
	return markup.Load(raw, rendered, formatter), nil
}

func (d *Definition) markupFormatter(field string) (markup.Formatter, error) {
	formatter, ok := d.formatters[field]
	if !ok {
		return nil, markup.NewConfigurationError(field, "not a markup field of "+d.table, nil)
	}
	return formatter, nil
}

// CreateTableSQL renders portable DDL for the definition. Abstract
// definitions have no table and return an empty string.
func (d *Definition) CreateTableSQL() string {
	if d.abstract {
		return ""
	}
	lines := make([]string, 0, len(d.columns))
	for _, col := range d.columns {
		lines = append(lines, "\t"+columnDDL(col))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", quoteIdent(d.table), strings.Join(lines, ",\n"))
}

func columnDDL(col Column) string {
	name := quoteIdent(col.Name)
	switch {
	case col.Primary:
		return name + " TEXT PRIMARY KEY"
	case col.Kind == KindTimestamp:
		return name + " TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"
	case col.Unique:
		return name + " TEXT NOT NULL UNIQUE"
	default:
		return name + " TEXT NOT NULL DEFAULT ''"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
