package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/formatters"
	"github.com/goliatone/go-markitup/internal/routes"
)

// Default mount points.
const (
	DefaultAPIPath    = "/markitup/api"
	DefaultStaticPath = "/static/"
)

// API mounts the markitup endpoints on a chi router.
type API struct {
	previewPath string
	apiPath     string
	staticPath  string
	preview     *PreviewHandler
	static      http.Handler
	documents   documents.Service
	registry    *formatters.Registry
	rerender    RerenderCommand
}

// APIOption mutates the API configuration.
type APIOption func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...APIOption) *API {
	api := &API{
		previewPath: routes.DefaultPreviewPath,
		apiPath:     DefaultAPIPath,
		staticPath:  DefaultStaticPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithPreview mounts handler at path. An empty path keeps the default.
func WithPreview(path string, handler *PreviewHandler) APIOption {
	return func(api *API) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.previewPath = trimmed
		}
		api.preview = handler
	}
}

// WithStatic serves handler under path, typically the asset resolver.
func WithStatic(path string, handler http.Handler) APIOption {
	return func(api *API) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.staticPath = trimmed
		}
		api.static = handler
	}
}

// WithDocuments mounts the document endpoints.
func WithDocuments(service documents.Service) APIOption {
	return func(api *API) {
		if api != nil {
			api.documents = service
		}
	}
}

// WithFormatterRegistry exposes the registered formatters.
func WithFormatterRegistry(registry *formatters.Registry) APIOption {
	return func(api *API) {
		if api != nil {
			api.registry = registry
		}
	}
}

// WithRerenderCommand routes the rerender endpoint through handler instead of
// calling the document service directly.
func WithRerenderCommand(handler RerenderCommand) APIOption {
	return func(api *API) {
		if api != nil {
			api.rerender = handler
		}
	}
}

// WithAPIPath overrides the JSON API prefix.
func WithAPIPath(path string) APIOption {
	return func(api *API) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.apiPath = trimmed
		}
	}
}

// PreviewPath returns the path the preview handler answers on.
func (api *API) PreviewPath() string {
	return api.previewPath
}

// Register attaches the configured endpoints to router.
func (api *API) Register(router chi.Router) error {
	if router == nil {
		return fmt.Errorf("http: router is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	if api.preview != nil {
		path := joinPath(api.previewPath, "")
		router.Handle(path, api.preview)
		// Editors post to the trailing slash form.
		router.Handle(path+"/", api.preview)
	}

	if api.static != nil {
		prefix := joinPath(api.staticPath, "") + "/"
		if prefix == "//" {
			prefix = "/"
		}
		router.Handle(prefix+"*", http.StripPrefix(prefix, api.static))
	}

	if api.documents != nil {
		router.Mount(joinPath(api.apiPath, "documents"), NewDocumentsHandler(api.documents, api.rerender).Routes())
	}

	if api.registry != nil {
		registry := api.registry
		router.Get(joinPath(api.apiPath, "formatters"), func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, registry.List())
		})
	}
	return nil
}
