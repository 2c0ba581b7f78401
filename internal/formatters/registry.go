package formatters

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-markitup/internal/validation"
	"github.com/goliatone/go-markitup/markup"
)

// ErrUnknownFormatter is wrapped by Resolve when no formatter is registered
// under the requested name.
var ErrUnknownFormatter = errors.New("formatters: unknown formatter")

// ErrInvalidOptions is wrapped when options fail the formatter's schema.
var ErrInvalidOptions = errors.New("formatters: invalid options")

// Registration describes a formatter and the options it understands.
type Registration struct {
	Formatter     markup.Formatter
	Description   string
	OptionsSchema map[string]any
	Defaults      markup.Options
}

// Descriptor is the public, read-only view of a registration.
type Descriptor struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	OptionsSchema map[string]any `json:"options_schema,omitempty"`
}

type entry struct {
	registration Registration
	schema       *validation.Schema
}

// Registry maps formatter identifiers to implementations. Lookups are case
// and whitespace insensitive.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register adds or replaces a formatter. The options schema is compiled here
// so a broken schema surfaces at setup rather than on first use.
func (r *Registry) Register(name string, registration Registration) error {
	key := canonicalKey(name)
	if key == "" {
		return markup.NewConfigurationError("", "formatter name is required", nil)
	}
	if registration.Formatter == nil {
		return markup.NewConfigurationError(key, "formatter implementation is required", nil)
	}
	schema, err := validation.Compile(registration.OptionsSchema)
	if err != nil {
		return markup.NewConfigurationError(key, "options schema does not compile", err)
	}
	if err := schema.Validate(registration.Defaults); err != nil {
		return markup.NewConfigurationError(key, "default options do not match schema", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]entry)
	}
	r.entries[key] = entry{registration: registration, schema: schema}
	return nil
}

// RegisterFunc is a shorthand for formatters without options.
func (r *Registry) RegisterFunc(name string, fn markup.FormatterFunc) error {
	return r.Register(name, Registration{Formatter: fn})
}

// MustRegister panics when Register fails. Intended for package-level setup.
func (r *Registry) MustRegister(name string, registration Registration) {
	if err := r.Register(name, registration); err != nil {
		panic(err)
	}
}

// Resolve returns the formatter registered under name, bound to its default
// options. Unknown names yield a configuration error.
func (r *Registry) Resolve(name string) (markup.Formatter, error) {
	return r.ResolveWithOptions(name, nil)
}

// ResolveWithOptions returns the named formatter with opts layered over its
// defaults. The merged options are validated against the formatter's schema
// before the formatter is handed out.
func (r *Registry) ResolveWithOptions(name string, opts markup.Options) (markup.Formatter, error) {
	key := canonicalKey(name)
	found, ok := r.lookup(key)
	if !ok {
		return nil, markup.NewConfigurationError(key, "formatter is not registered", ErrUnknownFormatter)
	}
	merged := markup.Merge(found.registration.Defaults, opts)
	if err := found.schema.Validate(merged); err != nil {
		return nil, markup.NewConfigurationError(key, "malformed formatter options", errors.Join(ErrInvalidOptions, err))
	}
	return &bound{name: key, inner: found.registration.Formatter, options: merged, schema: found.schema}, nil
}

// ValidateOptions checks opts against the named formatter's schema without
// resolving it.
func (r *Registry) ValidateOptions(name string, opts markup.Options) error {
	_, err := r.ResolveWithOptions(name, opts)
	return err
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.lookup(canonicalKey(name))
	return ok
}

// Names lists registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns descriptors for every registered formatter.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.entries))
	for name, found := range r.entries {
		out = append(out, Descriptor{
			Name:          name,
			Description:   found.registration.Description,
			OptionsSchema: found.registration.OptionsSchema,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) lookup(key string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entries == nil || key == "" {
		return entry{}, false
	}
	found, ok := r.entries[key]
	return found, ok
}

func canonicalKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
