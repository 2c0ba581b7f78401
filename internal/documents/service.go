package documents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/internal/formatters"
	"github.com/goliatone/go-markitup/internal/identity"
	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/markup"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// Service manages markup documents. Every write that carries new raw text
// re-renders it exactly once before persisting.
type Service interface {
	Create(ctx context.Context, input CreateDocumentInput) (*Document, error)
	Update(ctx context.Context, input UpdateDocumentInput) (*Document, error)
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	GetBySlug(ctx context.Context, slug string) (*Document, error)
	List(ctx context.Context, opts ListOptions) ([]*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Rerender(ctx context.Context, input RerenderInput) (*RerenderResult, error)
	Definition() *fields.Definition
}

// CreateDocumentInput captures a new document. Slug falls back to the title
// and the title to the body's front matter.
type CreateDocumentInput struct {
	Slug  string
	Title string
	Body  string
}

// UpdateDocumentInput carries the mutable parts of a document. Nil pointers
// leave the stored value untouched.
type UpdateDocumentInput struct {
	ID    uuid.UUID
	Title *string
	Body  *string
}

// RerenderInput re-renders stored documents. Empty IDs select every
// document. A Formatter name renders with that formatter instead of the
// bound one.
type RerenderInput struct {
	IDs       []uuid.UUID
	Formatter string
	Options   markup.Options
	DryRun    bool
}

// RerenderResult reports the outcome of a re-render pass.
type RerenderResult struct {
	Processed int
	Changed   []uuid.UUID
}

var (
	ErrSlugRequired       = errors.New("documents: slug or title required")
	ErrSlugInvalid        = errors.New("documents: slug is invalid")
	ErrSlugExists         = errors.New("documents: slug already exists")
	ErrDocumentIDRequired = errors.New("documents: document id required")
	ErrResolverRequired   = errors.New("documents: formatter resolver required for overrides")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures the document service.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDeterministicIDs derives document IDs from their slug.
func WithDeterministicIDs(enabled bool) ServiceOption {
	return func(s *service) {
		s.deterministic = enabled
	}
}

// WithLogger sets the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFormatterResolver wires the registry used by Rerender overrides.
func WithFormatterResolver(resolver fields.FormatterResolver) ServiceOption {
	return func(s *service) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

type service struct {
	repo          DocumentRepository
	definition    *fields.Definition
	resolver      fields.FormatterResolver
	now           func() time.Time
	id            IDGenerator
	deterministic bool
	logger        interfaces.Logger
}

// NewService constructs a document service over repo using def to bind and
// load the body field.
func NewService(repo DocumentRepository, def *fields.Definition, opts ...ServiceOption) Service {
	s := &service{
		repo:       repo,
		definition: def,
		now:        time.Now,
		id:         uuid.New,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Definition() *fields.Definition {
	return s.definition
}

func (s *service) Create(ctx context.Context, input CreateDocumentInput) (*Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = frontMatterTitle(input.Body)
	}
	docSlug, err := normalizeSlug(input.Slug, title)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = docSlug
	}

	if existing, err := s.repo.GetBySlug(ctx, docSlug); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	body, err := s.definition.Bind(BodyField, input.Body)
	if err != nil {
		return nil, err
	}

	now := s.now()
	id := s.id()
	if s.deterministic {
		id = identity.DocumentUUID(docSlug)
	}
	doc := &Document{
		ID:        id,
		Slug:      docSlug,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Sync()

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := created.Hydrate(s.definition); err != nil {
		return nil, err
	}
	s.documentLogger(created).Info("document created")
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateDocumentInput) (*Document, error) {
	if input.ID == uuid.Nil {
		return nil, ErrDocumentIDRequired
	}
	doc, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		doc.Title = strings.TrimSpace(*input.Title)
	}
	if input.Body != nil {
		if err := doc.Body.SetRaw(*input.Body); err != nil {
			return nil, err
		}
		doc.Sync()
	}
	doc.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := updated.Hydrate(s.definition); err != nil {
		return nil, err
	}
	s.documentLogger(updated).Info("document updated")
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Hydrate(s.definition); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *service) GetBySlug(ctx context.Context, value string) (*Document, error) {
	doc, err := s.repo.GetBySlug(ctx, strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	if err := doc.Hydrate(s.definition); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Document, error) {
	docs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if err := doc.Hydrate(s.definition); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrDocumentIDRequired
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("document deleted", "document_id", id.String())
	return nil
}

func (s *service) Rerender(ctx context.Context, input RerenderInput) (*RerenderResult, error) {
	var override markup.Formatter
	if name := strings.TrimSpace(input.Formatter); name != "" {
		if s.resolver == nil {
			return nil, ErrResolverRequired
		}
		resolved, err := s.resolver.ResolveWithOptions(name, input.Options)
		if err != nil {
			return nil, err
		}
		override = resolved
	}

	docs, err := s.selectDocuments(ctx, input.IDs)
	if err != nil {
		return nil, err
	}

	result := &RerenderResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		before := doc.BodyRendered
		if override != nil {
			err = doc.Body.RenderWith(override, nil)
		} else {
			err = doc.Body.SetRaw(doc.Body.Raw())
		}
		if err != nil {
			return result, err
		}
		doc.Sync()
		result.Processed++
		if doc.BodyRendered == before {
			continue
		}
		result.Changed = append(result.Changed, doc.ID)
		if input.DryRun {
			continue
		}
		doc.UpdatedAt = s.now()
		if _, err := s.repo.Update(ctx, doc); err != nil {
			return result, err
		}
		s.documentLogger(doc).Debug("document re-rendered")
	}

	s.logger.Info("rerender completed",
		"processed", result.Processed,
		"changed", len(result.Changed),
		"dry_run", input.DryRun,
	)
	return result, nil
}

func (s *service) selectDocuments(ctx context.Context, ids []uuid.UUID) ([]*Document, error) {
	if len(ids) == 0 {
		return s.List(ctx, ListOptions{})
	}
	docs := make([]*Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *service) documentLogger(doc *Document) interfaces.Logger {
	formatter := ""
	if field, ok := s.definition.Field(BodyField); ok {
		formatter = field.Formatter
	}
	return logging.WithDocumentContext(s.logger, doc.ID.String(), doc.Slug, formatter)
}

func normalizeSlug(candidate, title string) (string, error) {
	source := strings.TrimSpace(candidate)
	if source == "" {
		source = title
	}
	if source == "" {
		return "", ErrSlugRequired
	}
	normalized, err := slug.Normalize(source)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}

func frontMatterTitle(body string) string {
	meta, _, err := formatters.SplitFrontMatter(body)
	if err != nil || meta == nil {
		return ""
	}
	if title, ok := meta["title"].(string); ok {
		return strings.TrimSpace(title)
	}
	return ""
}
