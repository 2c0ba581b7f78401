package routes

import (
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager *urlkit.RouteManager
	Group   string
	Route   string
}

// URLKitResolver reverses the preview route through a go-urlkit RouteManager.
type URLKitResolver struct {
	manager *urlkit.RouteManager
	group   string
	route   string

	once   sync.Once
	cached string
}

// NewURLKitResolver constructs a resolver backed by go-urlkit. Route defaults
// to PreviewRouteName.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	route := strings.TrimSpace(opts.Route)
	if route == "" {
		route = PreviewRouteName
	}
	return &URLKitResolver{
		manager: opts.Manager,
		group:   strings.TrimSpace(opts.Group),
		route:   route,
	}
}

// Preview returns the preview URL, or "" when the group or route is missing.
// Routes are static so the first result is cached.
func (r *URLKitResolver) Preview() string {
	if r == nil {
		return ""
	}
	r.once.Do(func() {
		url, err := r.build()
		if err == nil {
			r.cached = url
		}
	})
	return r.cached
}

func (r *URLKitResolver) build() (string, error) {
	if r.manager == nil || r.group == "" {
		return "", fmt.Errorf("routes: route manager not configured")
	}
	group, err := r.lookupGroup()
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}
	return builder.Build()
}

func (r *URLKitResolver) lookupGroup() (group *urlkit.Group, err error) {
	parts := strings.Split(r.group, ".")
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("routes: route group %q not found", r.group)
		}
	}()
	group = r.manager.Group(parts[0])
	for _, part := range parts[1:] {
		group = group.Group(part)
	}
	if group == nil {
		return nil, fmt.Errorf("routes: route group %q not found", r.group)
	}
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("routes: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}
