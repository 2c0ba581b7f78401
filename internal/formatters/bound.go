package formatters

import (
	"github.com/goliatone/go-markitup/internal/validation"
	"github.com/goliatone/go-markitup/markup"
)

// bound pairs a registered formatter with the options resolved for a field.
// Per-call options passed to Format take precedence over the bound ones.
type bound struct {
	name    string
	inner   markup.Formatter
	options markup.Options
	schema  *validation.Schema
}

var (
	_ markup.Formatter = (*bound)(nil)
	_ markup.Named     = (*bound)(nil)
)

func (b *bound) Name() string { return b.name }

// Options returns a copy of the resolved options.
func (b *bound) Options() markup.Options {
	return markup.Merge(b.options)
}

func (b *bound) Format(raw string, opts markup.Options) (string, error) {
	if len(opts) == 0 {
		return b.inner.Format(raw, b.options)
	}
	merged := markup.Merge(b.options, opts)
	if err := b.schema.Validate(merged); err != nil {
		return "", err
	}
	return b.inner.Format(raw, merged)
}
