package routes

import "strings"

// PreviewRouteName is the named route the preview endpoint is registered as.
const PreviewRouteName = "markitup_preview"

// DefaultPreviewPath is where the preview endpoint is mounted by default.
const DefaultPreviewPath = "/markitup/preview/"

// Resolver reverses the URLs the editor needs. An empty string means the
// route is not configured; editors then render without a preview URL.
type Resolver interface {
	Preview() string
}

// StaticResolver returns a fixed preview URL.
type StaticResolver string

// Preview satisfies Resolver.
func (s StaticResolver) Preview() string {
	return strings.TrimSpace(string(s))
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() string

// Preview satisfies Resolver.
func (f ResolverFunc) Preview() string {
	if f == nil {
		return ""
	}
	return f()
}

// None never resolves.
var None Resolver = StaticResolver("")
