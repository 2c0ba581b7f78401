package widgets

import (
	"sort"
	"strings"

	"github.com/goliatone/go-markitup/internal/assets"
)

// Attr is a single HTML attribute. A boolean attribute such as required is
// stored with Bool set and renders without a value.
type Attr struct {
	Name  string
	Value string
	Bool  bool
}

// Attrs keeps HTML attributes in insertion order so rendered markup is
// stable.
type Attrs []Attr

// A builds attrs from name/value pairs. A trailing name without a value is
// dropped.
func A(pairs ...string) Attrs {
	out := make(Attrs, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = out.With(pairs[i], pairs[i+1])
	}
	return out
}

// FromMap converts an unordered map, sorting by name.
func FromMap(values map[string]string) Attrs {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(Attrs, 0, len(names))
	for _, name := range names {
		out = out.With(name, values[name])
	}
	return out
}

// Get returns the value stored under name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether name is set.
func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// With returns a copy with name set to value, keeping its original position
// when it already exists.
func (a Attrs) With(name, value string) Attrs {
	return a.set(Attr{Name: name, Value: value})
}

// WithFlag returns a copy with a valueless boolean attribute.
func (a Attrs) WithFlag(name string) Attrs {
	return a.set(Attr{Name: name, Bool: true})
}

func (a Attrs) set(next Attr) Attrs {
	next.Name = strings.TrimSpace(next.Name)
	if next.Name == "" {
		return a.clone()
	}
	out := a.clone()
	for i, attr := range out {
		if attr.Name == next.Name {
			out[i] = next
			return out
		}
	}
	return append(out, next)
}

// Without returns a copy with name removed.
func (a Attrs) Without(name string) Attrs {
	out := make(Attrs, 0, len(a))
	for _, attr := range a {
		if attr.Name != name {
			out = append(out, attr)
		}
	}
	return out
}

// Merge layers others over a. Later values win, new names are appended.
func (a Attrs) Merge(others ...Attrs) Attrs {
	out := a.clone()
	for _, other := range others {
		for _, attr := range other {
			out = out.set(attr)
		}
	}
	return out
}

// AddClass appends class names to the class attribute, skipping ones already
// present.
func (a Attrs) AddClass(classes ...string) Attrs {
	current, _ := a.Get("class")
	existing := strings.Fields(current)
	for _, class := range classes {
		for _, name := range strings.Fields(class) {
			if !contains(existing, name) {
				existing = append(existing, name)
			}
		}
	}
	if len(existing) == 0 {
		return a.clone()
	}
	return a.With("class", strings.Join(existing, " "))
}

// String renders the attributes with a leading space before each one.
func (a Attrs) String() string {
	var b strings.Builder
	for _, attr := range a {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		if attr.Bool {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(assets.EscapeAttr(attr.Value))
		b.WriteByte('"')
	}
	return b.String()
}

func (a Attrs) clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
