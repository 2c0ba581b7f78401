package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Value holds raw markup and the HTML rendered from it. The pair is kept in
// sync on every write to raw; rendered has no setter.
//
// A Value is owned by a single record and is not safe for concurrent mutation.
type Value struct {
	raw       string
	rendered  string
	formatter Formatter
}

// New renders raw with f and returns the populated value. A formatter failure
// is returned as an error matching ErrFormatting and no value is produced.
func New(raw string, f Formatter) (*Value, error) {
	if f == nil {
		return nil, NewConfigurationError("", "formatter is required", nil)
	}
	rendered, err := render(f, raw, nil)
	if err != nil {
		return nil, err
	}
	return &Value{raw: raw, rendered: rendered, formatter: f}, nil
}

// Load rebuilds a value from a persisted raw/rendered pair. The formatter is
// bound for later writes but is not invoked.
func Load(raw, rendered string, f Formatter) *Value {
	return &Value{raw: raw, rendered: rendered, formatter: f}
}

// Raw returns the source text.
func (v *Value) Raw() string {
	if v == nil {
		return ""
	}
	return v.raw
}

// Rendered returns the cached HTML. It never triggers rendering.
func (v *Value) Rendered() SafeHTML {
	if v == nil {
		return ""
	}
	return SafeHTML(v.rendered)
}

// Formatter returns the bound formatter.
func (v *Value) Formatter() Formatter {
	if v == nil {
		return nil
	}
	return v.formatter
}

// SetRaw replaces the source text and re-renders it with the bound formatter.
// On failure both raw and rendered keep their previous values.
func (v *Value) SetRaw(raw string) error {
	if v == nil {
		return NewConfigurationError("", "value is nil", nil)
	}
	if v.formatter == nil {
		return NewConfigurationError("", "formatter is required", nil)
	}
	rendered, err := render(v.formatter, raw, nil)
	if err != nil {
		return err
	}
	v.raw = raw
	v.rendered = rendered
	return nil
}

// SetRendered always fails: rendered is derived from raw.
func (v *Value) SetRendered(string) error {
	return readOnlyError()
}

// RenderWith re-renders the current raw text with override and opts. The bound
// formatter is left untouched, so the next SetRaw uses it again. On failure
// rendered keeps its previous value.
func (v *Value) RenderWith(override Formatter, opts Options) error {
	if v == nil {
		return NewConfigurationError("", "value is nil", nil)
	}
	if override == nil {
		return NewConfigurationError("", "override formatter is required", nil)
	}
	rendered, err := render(override, v.raw, opts)
	if err != nil {
		return err
	}
	v.rendered = rendered
	return nil
}

// Assign sets raw from a string, SafeHTML or another value. Assigning a value
// copies its raw text and re-renders with this value's formatter.
func (v *Value) Assign(input any) error {
	switch typed := input.(type) {
	case nil:
		return v.SetRaw("")
	case string:
		return v.SetRaw(typed)
	case SafeHTML:
		return v.SetRaw(string(typed))
	case *Value:
		if typed == v {
			return nil
		}
		return v.SetRaw(typed.Raw())
	case Value:
		return v.SetRaw(typed.raw)
	default:
		return NewConfigurationError("", "unsupported markup input", nil)
	}
}

// Len reports the character length of raw, not of rendered.
func (v *Value) Len() int {
	return utf8.RuneCountInString(v.Raw())
}

// IsEmpty reports whether raw is empty.
func (v *Value) IsEmpty() bool {
	return v.Raw() == ""
}

// String returns the rendered HTML so values print as their markup.
func (v *Value) String() string {
	return string(v.Rendered())
}

// HTML returns the rendered HTML. The result is already safe for output.
func (v *Value) HTML() SafeHTML {
	return v.Rendered()
}

// Equal compares raw text only; rendered is a function of raw.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.raw == other.raw
}

type wireValue struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

// MarshalJSON emits raw and rendered as independent fields.
func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireValue{Raw: v.Raw(), Rendered: string(v.Rendered())})
}

// UnmarshalJSON accepts the persisted pair verbatim without re-rendering. A
// bare JSON string is taken as raw and re-rendered when a formatter is bound.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		if v.formatter != nil {
			return v.SetRaw(raw)
		}
		v.raw = raw
		v.rendered = ""
		return nil
	}
	var wire wireValue
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}
	v.raw = wire.Raw
	v.rendered = wire.Rendered
	return nil
}

// MarshalText emits raw, which is what form and query encoders expect.
func (v *Value) MarshalText() ([]byte, error) {
	return []byte(v.Raw()), nil
}

func render(f Formatter, raw string, opts Options) (out string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			out = ""
			err = wrapFormattingError(f, raw, fmt.Errorf("panic: %v", recovered))
		}
	}()
	out, err = f.Format(raw, opts)
	if err != nil {
		return "", wrapFormattingError(f, raw, err)
	}
	return out, nil
}
