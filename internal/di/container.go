package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-markitup/internal/assets"
	rerendercmd "github.com/goliatone/go-markitup/internal/commands/rerender"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/internal/formatters"
	mhttp "github.com/goliatone/go-markitup/internal/http"
	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/internal/routes"
	"github.com/goliatone/go-markitup/internal/runtimeconfig"
	"github.com/goliatone/go-markitup/internal/templates"
	"github.com/goliatone/go-markitup/internal/widgets"
	"github.com/goliatone/go-markitup/markup"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// Container wires the markitup services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	formatterRegistry *formatters.Registry
	defaultFormatter  markup.Formatter

	documentDef  *fields.Definition
	documentRepo documents.DocumentRepository
	documentSvc  documents.Service
	rerender     *rerendercmd.RerenderDocumentsHandler

	routeManager *urlkit.RouteManager
	previews     routes.Resolver

	assetResolver  *assets.Resolver
	themes         *assets.Themes
	templateEngine *templates.Engine
	tags           *templates.Tags
	widgetRegistry *widgets.Registry
	previewHandler *mhttp.PreviewHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB uses db for document storage instead of opening one from the
// storage config. The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithThemes resolves editor skins through themes. Manifests found under
// the configured editor themes directory are added to it.
func WithThemes(themes *assets.Themes) Option {
	return func(c *Container) {
		c.themes = themes
	}
}

// WithCache overrides the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithFormatterRegistry replaces the built-in formatter registry.
func WithFormatterRegistry(registry *formatters.Registry) Option {
	return func(c *Container) {
		c.formatterRegistry = registry
	}
}

// WithDocumentRepository overrides the document repository binding.
func WithDocumentRepository(repo documents.DocumentRepository) Option {
	return func(c *Container) {
		c.documentRepo = repo
	}
}

// WithDocumentService overrides the document service binding.
func WithDocumentService(svc documents.Service) Option {
	return func(c *Container) {
		c.documentSvc = svc
	}
}

// WithRouteManager reverses the preview route through manager instead of
// building one from the routes config.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.TTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLogger,
		c.configureFormatters,
		c.configureCacheDefaults,
		c.configureStorage,
		c.configureDocuments,
		c.configureCommands,
		c.configureRoutes,
		c.configurePresentation,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	logging.ModuleLogger(c.loggerProvider, "markitup").Info("container.configured",
		"storage", c.storageName(),
		"formatter", c.Config.Editor.DefaultFormatter,
		"cache", c.cacheService != nil,
		"preview", c.previewHandler != nil,
		"commands", c.rerender != nil,
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := newLoggerProvider(c.Config.Logging)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureFormatters() error {
	if c.formatterRegistry == nil {
		c.formatterRegistry = formatters.DefaultRegistry()
	}
	formatter, err := c.formatterRegistry.ResolveWithOptions(c.Config.Editor.DefaultFormatter, markup.Options(c.Config.Editor.FormatterOptions))
	if err != nil {
		return err
	}
	c.defaultFormatter = formatter
	templates.SetDefaultFormatter(formatter)
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if !c.Config.Cache.Enabled {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("markitup cache: %w", err)
		}
		c.cacheService = service
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || c.documentRepo != nil || c.documentSvc != nil {
		return nil
	}
	if c.Config.StorageDriver() == runtimeconfig.DriverMemory {
		return nil
	}
	db, err := OpenDatabase(c.Config.Storage)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureDocuments() error {
	if c.documentDef == nil {
		def, err := documents.NewDefinition(c.formatterRegistry, c.Config.Editor.DefaultFormatter, markup.Options(c.Config.Editor.FormatterOptions))
		if err != nil {
			return err
		}
		c.documentDef = def
	}

	if c.documentRepo == nil {
		if c.bunDB != nil {
			c.documentRepo = documents.NewBunDocumentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.documentRepo = documents.NewMemoryDocumentRepository()
		}
	}

	if c.documentSvc == nil {
		c.documentSvc = documents.NewService(c.documentRepo, c.documentDef,
			documents.WithLogger(logging.DocumentsLogger(c.loggerProvider)),
			documents.WithFormatterResolver(c.formatterRegistry),
			documents.WithDeterministicIDs(c.Config.Documents.DeterministicIDs),
		)
	}
	return nil
}

func (c *Container) configureRoutes() error {
	if c.previews != nil {
		return nil
	}

	routesCfg := c.Config.Routes
	if c.routeManager == nil && routesCfg.Config != nil {
		c.routeManager = urlkit.NewRouteManager(routesCfg.Config)
	}
	if c.routeManager != nil {
		c.previews = routes.NewURLKitResolver(routes.URLKitResolverOptions{
			Manager: c.routeManager,
			Group:   strings.TrimSpace(routesCfg.Group),
			Route:   strings.TrimSpace(routesCfg.Route),
		})
		return nil
	}

	if c.Config.Preview.Enabled {
		c.previews = routes.StaticResolver(c.Config.Preview.Path)
		return nil
	}
	c.previews = routes.None
	return nil
}

func (c *Container) configurePresentation() error {
	resolver, err := assets.NewResolver(c.Config.Assets.OverrideDir)
	if err != nil {
		return err
	}
	c.assetResolver = resolver

	if c.themes == nil {
		c.themes = assets.NewThemes()
	}
	if err := c.themes.LoadDir(c.Config.Editor.ThemesDir); err != nil {
		return err
	}

	engine, err := templates.New(templates.Options{
		Dir:   c.Config.Templates.Dir,
		Debug: c.Config.Templates.Debug,
	})
	if err != nil {
		return err
	}
	c.templateEngine = engine

	media := c.MediaConfig()
	c.tags = templates.NewTags(engine, templates.TagsConfig{
		Media:       media,
		Previews:    c.previews,
		AutoPreview: c.Config.Editor.AutoPreview,
	})
	c.widgetRegistry = widgets.DefaultRegistry(widgets.Config{
		Media:       media,
		AutoPreview: c.Config.Editor.AutoPreview,
		Templates:   engine,
		Previews:    c.previews,
	})

	if c.Config.Preview.Enabled {
		c.previewHandler = mhttp.NewPreviewHandler(c.defaultFormatter,
			mhttp.WithPreviewResolver(c.formatterRegistry),
			mhttp.WithPreviewTemplates(engine),
			mhttp.WithPreviewCSS(assets.AbsoluteURL(c.Config.StaticURL, c.Config.Editor.PreviewCSS)),
			mhttp.WithMaxBytes(c.Config.Preview.MaxBytes),
			mhttp.WithPreviewLogger(logging.PreviewLogger(c.loggerProvider)),
		)
	}
	return nil
}

func (c *Container) configureCommands() error {
	if !c.Config.Features.Commands || c.documentSvc == nil {
		return nil
	}
	handler, err := rerendercmd.RegisterRerenderCommands(nil, c.documentSvc, c.loggerProvider)
	if err != nil {
		return fmt.Errorf("register rerender command: %w", err)
	}
	c.rerender = handler
	return nil
}

func (c *Container) storageName() string {
	switch {
	case c.bunDB != nil:
		return c.Config.StorageDriver()
	case c.documentRepo != nil && c.Config.StorageDriver() == runtimeconfig.DriverMemory:
		return runtimeconfig.DriverMemory
	default:
		return "custom"
	}
}

// MediaConfig returns the asset locations derived from the editor config.
func (c *Container) MediaConfig() assets.MediaConfig {
	return assets.MediaConfig{
		StaticURL: c.Config.StaticURL,
		JQueryURL: c.Config.Editor.JQueryURL,
		Set:       c.Config.Editor.Set,
		Skin:      c.Config.Editor.Skin,
		Themes:    c.themes,
	}
}

// API builds the HTTP surface: preview, static assets, documents and the
// formatter listing.
func (c *Container) API() *mhttp.API {
	opts := []mhttp.APIOption{
		mhttp.WithDocuments(c.documentSvc),
		mhttp.WithFormatterRegistry(c.formatterRegistry),
	}
	if c.rerender != nil {
		opts = append(opts, mhttp.WithRerenderCommand(c.rerender))
	}
	if c.previewHandler != nil {
		opts = append(opts, mhttp.WithPreview(c.Config.Preview.Path, c.previewHandler))
	}
	if staticPath := strings.TrimSpace(c.Config.StaticURL); strings.HasPrefix(staticPath, "/") && !strings.HasPrefix(staticPath, "//") {
		opts = append(opts, mhttp.WithStatic(staticPath, c.assetResolver.Handler()))
	}
	return mhttp.NewAPI(opts...)
}

// Migrate creates the document table when a database is configured.
func (c *Container) Migrate(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return documents.Migrate(ctx, c.bunDB, c.documentDef)
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

// LoggerProvider exposes the configured logger provider, nil when logging is
// disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the document database, nil for in-memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// FormatterRegistry returns the formatter registry.
func (c *Container) FormatterRegistry() *formatters.Registry {
	return c.formatterRegistry
}

// DefaultFormatter returns the process default formatter.
func (c *Container) DefaultFormatter() markup.Formatter {
	return c.defaultFormatter
}

// DocumentDefinition returns the document record definition.
func (c *Container) DocumentDefinition() *fields.Definition {
	return c.documentDef
}

// DocumentService returns the configured document service.
func (c *Container) DocumentService() documents.Service {
	return c.documentSvc
}

// RerenderHandler returns the rerender command handler, nil unless
// Features.Commands is enabled.
func (c *Container) RerenderHandler() *rerendercmd.RerenderDocumentsHandler {
	return c.rerender
}

// Previews returns the preview URL resolver.
func (c *Container) Previews() routes.Resolver {
	return c.previews
}

// Assets returns the static asset resolver.
func (c *Container) Assets() *assets.Resolver {
	return c.assetResolver
}

// Themes returns the skin themes.
func (c *Container) Themes() *assets.Themes {
	return c.themes
}

// Templates returns the template engine.
func (c *Container) Templates() *templates.Engine {
	return c.templateEngine
}

// Tags returns the template helpers bound to the container defaults.
func (c *Container) Tags() *templates.Tags {
	return c.tags
}

// Widgets returns the widget registry.
func (c *Container) Widgets() *widgets.Registry {
	return c.widgetRegistry
}

// PreviewHandler returns the preview endpoint, nil when preview is disabled.
func (c *Container) PreviewHandler() *mhttp.PreviewHandler {
	return c.previewHandler
}
