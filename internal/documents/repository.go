package documents

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DocumentRepository exposes persistence operations for markup documents.
type DocumentRepository interface {
	Create(ctx context.Context, document *Document) (*Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetBySlug(ctx context.Context, slug string) (*Document, error)
	List(ctx context.Context, opts ListOptions) ([]*Document, error)
	Update(ctx context.Context, document *Document) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a document cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NewDocumentRecordRepository creates the generic bun repository for documents.
func NewDocumentRecordRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord:          func() *Document { return &Document{} },
		GetID:              func(doc *Document) uuid.UUID { return doc.ID },
		SetID:              func(doc *Document, id uuid.UUID) { doc.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(doc *Document) string { return doc.Slug },
	})
}
