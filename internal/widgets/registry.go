package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-markitup/internal/fields"
)

// Context names where a form is rendered.
type Context string

const (
	// ContextForm is a plain form: markup fields get a markup textarea.
	ContextForm Context = "form"
	// ContextEditor attaches the editor to markup fields.
	ContextEditor Context = "editor"
	// ContextAdmin is the admin substitution: the editor styled for admin.
	ContextAdmin Context = "admin"
)

// Factory builds the widget for a field.
type Factory func(field fields.Field) Widget

// Registry maps a field kind and render context to a widget factory.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry wires the built-in widgets against the editor defaults.
func DefaultRegistry(cfg Config) *Registry {
	registry := NewRegistry()
	textarea := func(field fields.Field) Widget { return NewTextarea(FieldAttrs(field)) }
	registry.Register(fields.KindText, ContextForm, textarea)
	registry.Register(fields.KindMarkup, ContextForm, func(field fields.Field) Widget {
		return NewMarkupTextarea(FieldAttrs(field))
	})
	registry.Register(fields.KindMarkup, ContextEditor, func(field fields.Field) Widget {
		return NewMarkItUp(cfg, FieldOverrides(field), FieldAttrs(field))
	})
	registry.Register(fields.KindMarkup, ContextAdmin, func(field fields.Field) Widget {
		return NewAdminMarkItUp(cfg, FieldOverrides(field), FieldAttrs(field))
	})
	registry.Register(fields.KindTimestamp, ContextForm, func(field fields.Field) Widget {
		return NewHiddenInput(FieldAttrs(field))
	})
	return registry
}

// Register adds or replaces the factory for kind in ctx. Nil factories are
// ignored.
func (r *Registry) Register(kind fields.Kind, ctx Context, factory Factory) {
	if factory == nil {
		return
	}
	key := registryKey(kind, ctx)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	r.factories[key] = factory
}

// Lookup returns the factory registered for kind in ctx.
func (r *Registry) Lookup(kind fields.Kind, ctx Context) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.factories == nil {
		return nil, false
	}
	factory, ok := r.factories[registryKey(kind, ctx)]
	return factory, ok
}

// WidgetFor builds the widget for field in ctx. Contexts without an entry
// fall back to the form context, then to a textarea.
func (r *Registry) WidgetFor(field fields.Field, ctx Context) Widget {
	if factory, ok := r.Lookup(field.Kind, ctx); ok {
		return factory(field)
	}
	if factory, ok := r.Lookup(field.Kind, ContextForm); ok {
		return factory(field)
	}
	if field.IsMarkup() {
		return NewMarkupTextarea(FieldAttrs(field))
	}
	return NewTextarea(FieldAttrs(field))
}

// Keys lists registered kind/context pairs as "kind:context".
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.factories))
	for key := range r.factories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FieldOverrides lifts a field's widget settings into editor overrides.
func FieldOverrides(field fields.Field) Overrides {
	return Overrides{
		Set:         field.Widget.Set,
		Skin:        field.Widget.Skin,
		AutoPreview: field.Widget.AutoPreview,
	}
}

// FieldAttrs returns the extra attrs configured on a field.
func FieldAttrs(field fields.Field) Attrs {
	return FromMap(field.Widget.Attrs)
}

func registryKey(kind fields.Kind, ctx Context) string {
	k := canonicalKey(string(kind))
	c := canonicalKey(string(ctx))
	if k == "" || c == "" {
		return ""
	}
	return k + ":" + c
}

func canonicalKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
