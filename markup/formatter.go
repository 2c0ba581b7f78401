package markup

import "strings"

// Options carries formatter-specific settings. Formatters read the keys they
// understand and ignore the rest.
type Options map[string]any

// Formatter converts raw markup into HTML. Implementations must be pure: the
// same raw text and options always produce the same output.
type Formatter interface {
	Format(raw string, opts Options) (string, error)
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc func(raw string, opts Options) (string, error)

// Format satisfies Formatter.
func (f FormatterFunc) Format(raw string, opts Options) (string, error) {
	return f(raw, opts)
}

// Named is implemented by formatters that can report the identifier they were
// registered under. It is only used to enrich error metadata.
type Named interface {
	Name() string
}

// Merge layers option maps from lowest to highest precedence. Later maps win
// on key collisions; nil maps are skipped.
func Merge(layers ...Options) Options {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	if size == 0 {
		return nil
	}
	merged := make(Options, size)
	for _, layer := range layers {
		for key, value := range layer {
			merged[key] = value
		}
	}
	return merged
}

// String returns a string option or the fallback when missing or mistyped.
func (o Options) String(key, fallback string) string {
	if value, ok := o[key].(string); ok {
		return value
	}
	return fallback
}

// Bool returns a boolean option or the fallback when missing or mistyped.
func (o Options) Bool(key string, fallback bool) bool {
	if value, ok := o[key].(bool); ok {
		return value
	}
	return fallback
}

// Strings returns a list option. Both []string and []any holding strings are
// accepted so decoded JSON and YAML payloads work without conversion.
func (o Options) Strings(key string) []string {
	switch typed := o[key].(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}

func formatterName(f Formatter) string {
	if named, ok := f.(Named); ok {
		return named.Name()
	}
	return ""
}
