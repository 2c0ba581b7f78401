package assets

import (
	"path"
	"strings"
)

// Default locations, relative to the static URL.
const (
	DefaultStaticURL = "/static/"
	DefaultJQueryURL = "//ajax.googleapis.com/ajax/libs/jquery/2.0.3/jquery.min.js"
	DefaultSet       = "markitup/sets/default"
	DefaultSkin      = "markitup/skins/simple"

	CSRFScript    = "markitup/ajax_csrf.js"
	EditorScript  = "markitup/jquery.markitup.js"
	InitScript    = "markitup/markitup-init.js"
	PreviewCSS    = "markitup/preview.css"
	SetScriptFile = "set.js"
	StyleFile     = "style.css"
)

// AbsoluteURL resolves p against staticURL. Paths that are already absolute
// (scheme, protocol-relative or rooted) are returned unchanged; trailing
// slashes are preserved so callers can keep joining onto directories.
func AbsoluteURL(staticURL, p string) string {
	if p == "" || IsAbsolute(p) {
		return p
	}
	base := staticURL
	if base == "" {
		base = DefaultStaticURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// IsAbsolute reports whether p needs no static prefix.
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "http://") ||
		strings.HasPrefix(p, "https://") ||
		strings.HasPrefix(p, "/")
}

// Join appends file to a directory URL, tolerating a trailing slash on dir.
func Join(dir, file string) string {
	if dir == "" {
		return file
	}
	if i := strings.Index(dir, "://"); i >= 0 {
		scheme, rest := dir[:i+3], dir[i+3:]
		return scheme + path.Join(rest, file)
	}
	if strings.HasPrefix(dir, "//") {
		return "/" + path.Join(dir, file)
	}
	return path.Join(dir, file)
}
