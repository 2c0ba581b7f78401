package markup

import (
	"fmt"
	"html"
)

// SafeHTML is markup that is ready for output and must not be escaped again.
type SafeHTML string

// String satisfies fmt.Stringer.
func (s SafeHTML) String() string { return string(s) }

// HTML returns the markup unchanged.
func (s SafeHTML) HTML() SafeHTML { return s }

// HTMLer is implemented by values that render to already-safe markup.
type HTMLer interface {
	HTML() SafeHTML
}

// MarkSafe flags input as safe without escaping it. Marking something that is
// already safe returns it unchanged, so MarkSafe(MarkSafe(x)) == MarkSafe(x).
// Values contribute their rendered HTML.
func MarkSafe(input any) SafeHTML {
	switch typed := input.(type) {
	case nil:
		return ""
	case SafeHTML:
		return typed
	case HTMLer:
		return typed.HTML()
	case string:
		return SafeHTML(typed)
	case fmt.Stringer:
		return SafeHTML(typed.String())
	default:
		return SafeHTML(fmt.Sprint(typed))
	}
}

// Escape converts untrusted input into safe markup. Input that is already safe
// passes through as-is, which keeps escaping from compounding.
func Escape(input any) SafeHTML {
	switch typed := input.(type) {
	case nil:
		return ""
	case SafeHTML:
		return typed
	case HTMLer:
		return typed.HTML()
	case string:
		return SafeHTML(html.EscapeString(typed))
	case fmt.Stringer:
		return SafeHTML(html.EscapeString(typed.String()))
	default:
		return SafeHTML(html.EscapeString(fmt.Sprint(typed)))
	}
}
