package templates

import (
	"sync"
	"sync/atomic"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-markitup/markup"
)

// FilterRenderMarkup is the name of the filter that renders markup in host
// templates: {{ body|render_markup }}.
const FilterRenderMarkup = "render_markup"

var (
	registerOnce     sync.Once
	defaultFormatter atomic.Pointer[formatterHolder]
)

type formatterHolder struct {
	formatter markup.Formatter
}

// SetDefaultFormatter sets the formatter the render_markup filter applies to
// plain strings. pongo2 filters are process-wide, so this is too.
func SetDefaultFormatter(formatter markup.Formatter) {
	registerFilters()
	defaultFormatter.Store(&formatterHolder{formatter: formatter})
}

func registerFilters() {
	registerOnce.Do(func() {
		if !pongo2.FilterExists(FilterRenderMarkup) {
			_ = pongo2.RegisterFilter(FilterRenderMarkup, filterRenderMarkup)
		}
	})
}

// RenderMarkup applies the render_markup rules outside templates: markup
// values yield their stored rendering, safe HTML passes through and strings
// run through the default formatter. Without a formatter strings are escaped.
func RenderMarkup(input any) (markup.SafeHTML, error) {
	switch value := input.(type) {
	case nil:
		return "", nil
	case *markup.Value:
		if value == nil {
			return "", nil
		}
		return value.Rendered(), nil
	case markup.Value:
		return value.Rendered(), nil
	case markup.SafeHTML:
		return value, nil
	case string:
		holder := defaultFormatter.Load()
		if holder == nil || holder.formatter == nil {
			return markup.Escape(value), nil
		}
		out, err := holder.formatter.Format(value, nil)
		if err != nil {
			return "", err
		}
		return markup.SafeHTML(out), nil
	default:
		return markup.Escape(value), nil
	}
}

func filterRenderMarkup(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	out, err := RenderMarkup(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:" + FilterRenderMarkup, OrigError: err}
	}
	return pongo2.AsSafeValue(out.String()), nil
}
