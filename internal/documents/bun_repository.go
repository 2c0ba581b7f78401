package documents

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const resourceDocument = "markup_document"

// BunDocumentRepository implements DocumentRepository with optional caching.
type BunDocumentRepository struct {
	repo repository.Repository[*Document]
}

// NewBunDocumentRepository creates a document repository without caching.
func NewBunDocumentRepository(db *bun.DB) *BunDocumentRepository {
	return NewBunDocumentRepositoryWithCache(db, nil, nil)
}

// NewBunDocumentRepositoryWithCache creates a document repository with caching.
func NewBunDocumentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunDocumentRepository {
	base := NewDocumentRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunDocumentRepository{repo: base}
}

func (r *BunDocumentRepository) Create(ctx context.Context, document *Document) (*Document, error) {
	record, err := r.repo.Create(ctx, document)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, resourceDocument, id.String())
	}
	return record, nil
}

func (r *BunDocumentRepository) GetBySlug(ctx context.Context, slug string) (*Document, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, resourceDocument, slug)
	}
	return record, nil
}

func (r *BunDocumentRepository) List(ctx context.Context, opts ListOptions) ([]*Document, error) {
	ordered := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.slug ASC")
	})
	if opts.Limit <= 0 {
		records, _, err := r.repo.List(ctx, ordered)
		return records, err
	}
	records, _, err := r.repo.List(ctx, ordered, repository.SelectPaginate(opts.Limit, opts.Offset))
	return records, err
}

func (r *BunDocumentRepository) Update(ctx context.Context, document *Document) (*Document, error) {
	updated, err := r.repo.Update(ctx, document,
		repository.UpdateByID(document.ID.String()),
		repository.UpdateColumns(
			"title",
			"body",
			"_body_rendered",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, resourceDocument, document.ID.String())
	}
	return updated, nil
}

func (r *BunDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Document{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
