package documents

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryDocumentRepository constructs an in-memory document repository.
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{
		byID:   make(map[uuid.UUID]*Document),
		bySlug: make(map[string]uuid.UUID),
	}
}

type memoryDocumentRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Document
	bySlug map[string]uuid.UUID
}

func (m *memoryDocumentRepository) Create(_ context.Context, document *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneDocument(document)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return cloneDocument(cloned), nil
}

func (m *memoryDocumentRepository) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: resourceDocument, Key: id.String()}
	}
	return cloneDocument(record), nil
}

func (m *memoryDocumentRepository) GetBySlug(_ context.Context, slug string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: resourceDocument, Key: slug}
	}
	return cloneDocument(m.byID[id]), nil
}

func (m *memoryDocumentRepository) List(_ context.Context, opts ListOptions) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Document, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneDocument(record))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Slug < records[j].Slug })

	if opts.Offset > 0 {
		if opts.Offset >= len(records) {
			return []*Document{}, nil
		}
		records = records[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}
	return records, nil
}

func (m *memoryDocumentRepository) Update(_ context.Context, document *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[document.ID]
	if !ok {
		return nil, &NotFoundError{Resource: resourceDocument, Key: document.ID.String()}
	}
	updated := cloneDocument(existing)
	updated.Title = document.Title
	updated.BodyRaw = document.BodyRaw
	updated.BodyRendered = document.BodyRendered
	updated.UpdatedAt = document.UpdatedAt
	m.byID[updated.ID] = updated
	return cloneDocument(updated), nil
}

func (m *memoryDocumentRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: resourceDocument, Key: id.String()}
	}
	delete(m.bySlug, record.Slug)
	delete(m.byID, id)
	return nil
}
