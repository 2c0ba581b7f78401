package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/pkg/testsupport"
)

func TestDocumentsService_WithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	bunDB := testsupport.NewBunSQLiteDB(t)

	counter := &countingFormatter{}
	registry := newRegistry(t, counter)
	def := newDefinition(t, registry)
	if err := documents.Migrate(ctx, bunDB, def); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	repo := documents.NewBunDocumentRepositoryWithCache(bunDB, cacheSvc, keySerializer)
	service := documents.NewService(repo, def,
		documents.WithClock(func() time.Time { return now }),
		documents.WithFormatterResolver(registry),
	)

	created, err := service.Create(ctx, documents.CreateDocumentInput{
		Slug:  "storage-test",
		Title: "Storage",
		Body:  "replace this text",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	counter.calls.Store(0)
	fetched, err := service.GetBySlug(ctx, "storage-test")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, fetched.ID)
	}
	if fetched.BodyRaw != "replace this text" || fetched.BodyRendered != "replacement text" {
		t.Fatalf("unexpected stored pair %q / %q", fetched.BodyRaw, fetched.BodyRendered)
	}
	if counter.calls.Load() != 0 {
		t.Fatalf("expected load not to render, got %d calls", counter.calls.Load())
	}

	body := "new text, replace this"
	if _, err := service.Update(ctx, documents.UpdateDocumentInput{ID: created.ID, Body: &body}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Read through a fresh repository to bypass the cache.
	uncached := documents.NewService(documents.NewBunDocumentRepository(bunDB), def)
	reloaded, err := uncached.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Body.Rendered() != "new text, replacement" {
		t.Fatalf("unexpected persisted rendering %q", reloaded.Body.Rendered())
	}

	var count int
	if err := bunDB.NewRaw(`SELECT COUNT(*) FROM markup_documents WHERE "_body_rendered" = ?`, "new text, replacement").Scan(ctx, &count); err != nil {
		t.Fatalf("raw count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rendered column to be stored, got %d rows", count)
	}

	if err := uncached.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var nf *documents.NotFoundError
	if _, err := uncached.Get(ctx, created.ID); !errors.As(err, &nf) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
