package markitup

import (
	"context"

	"github.com/goliatone/go-markitup/internal/di"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/internal/formatters"
	mhttp "github.com/goliatone/go-markitup/internal/http"
	"github.com/goliatone/go-markitup/internal/forms"
	"github.com/goliatone/go-markitup/internal/templates"
	"github.com/goliatone/go-markitup/internal/widgets"
	"github.com/goliatone/go-markitup/markup"
)

// Value exports the markup value holder.
type Value = markup.Value

// Formatter exports the formatter contract.
type Formatter = markup.Formatter

// FormatterFunc adapts a function to Formatter.
type FormatterFunc = markup.FormatterFunc

// Options exports formatter options.
type Options = markup.Options

// SafeHTML exports the trusted HTML string type.
type SafeHTML = markup.SafeHTML

// Document exports the stored document record.
type Document = documents.Document

// DocumentService exports the document service contract.
type DocumentService = documents.Service

// FormatterRegistry exports the formatter registry.
type FormatterRegistry = *formatters.Registry

// Definition exports the record definition built from markup fields.
type Definition = fields.Definition

// WidgetRegistry exports the widget registry.
type WidgetRegistry = *widgets.Registry

// Error sentinels matched with errors.Is.
var (
	ErrFormatting        = markup.ErrFormatting
	ErrReadOnlyAttribute = markup.ErrReadOnlyAttribute
	ErrConfiguration     = markup.ErrConfiguration
)

// NewValue renders raw with f and returns the holder.
func NewValue(raw string, f Formatter) (*Value, error) {
	return markup.New(raw, f)
}

// MarkSafe marks input as trusted HTML.
func MarkSafe(input any) SafeHTML {
	return markup.MarkSafe(input)
}

// Module represents the top level markitup runtime.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Documents returns the configured document service.
func (m *Module) Documents() DocumentService {
	return m.container.DocumentService()
}

// Formatters returns the formatter registry.
func (m *Module) Formatters() FormatterRegistry {
	return m.container.FormatterRegistry()
}

// DefaultFormatter returns the configured default formatter.
func (m *Module) DefaultFormatter() Formatter {
	return m.container.DefaultFormatter()
}

// Widgets returns the widget registry.
func (m *Module) Widgets() WidgetRegistry {
	return m.container.Widgets()
}

// Tags returns the template helpers.
func (m *Module) Tags() *templates.Tags {
	return m.container.Tags()
}

// DocumentForm builds a form over the document record.
func (m *Module) DocumentForm(opts ...forms.Option) *forms.Form {
	return forms.New(m.container.DocumentDefinition(), m.container.Widgets(), opts...)
}

// API returns the HTTP endpoints for mounting on a chi router.
func (m *Module) API() *mhttp.API {
	return m.container.API()
}

// Migrate creates the document table when a database is configured.
func (m *Module) Migrate(ctx context.Context) error {
	return m.container.Migrate(ctx)
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// RenderMarkup renders input with the default formatter, passing values that
// already carry HTML through unchanged.
func RenderMarkup(input any) (SafeHTML, error) {
	return templates.RenderMarkup(input)
}
