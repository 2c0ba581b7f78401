package di_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-markitup/internal/di"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/runtimeconfig"
	"github.com/goliatone/go-markitup/internal/widgets"
	"github.com/goliatone/go-markitup/markup"
	"github.com/goliatone/go-markitup/pkg/testsupport"
)

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Errorf("close container: %v", err)
		}
	})
	return container
}

func TestNewContainerDefaultsToMemoryStorage(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())

	if container.BunDB() != nil {
		t.Fatal("expected no database for the memory driver")
	}
	if container.PreviewHandler() == nil {
		t.Fatal("expected preview handler to be configured")
	}
	if got := container.Previews().Preview(); got != "/markitup/preview/" {
		t.Fatalf("unexpected preview url %q", got)
	}

	doc, err := container.DocumentService().Create(context.Background(), documents.CreateDocumentInput{
		Title: "Hello",
		Body:  "**bold**",
	})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	if !strings.Contains(doc.Body.Rendered().String(), "<strong>bold</strong>") {
		t.Fatalf("expected rendered markdown, got %q", doc.Body.Rendered())
	}
	if err := container.Migrate(context.Background()); err != nil {
		t.Fatalf("expected migrate to be a no-op without a database, got %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Editor.DefaultFormatter = ""

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDefaultFormatterRequired) {
		t.Fatalf("expected ErrDefaultFormatterRequired, got %v", err)
	}
}

func TestNewContainerRejectsUnknownFormatter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Editor.DefaultFormatter = "textile"

	if _, err := di.NewContainer(cfg); !errors.Is(err, markup.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewContainerRejectsMalformedFormatterOptions(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Editor.FormatterOptions = map[string]any{"hard_wraps": "yes"}

	if _, err := di.NewContainer(cfg); !errors.Is(err, markup.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestContainerAPIServesPreviewAndAssets(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())

	router := chi.NewRouter()
	if err := container.API().Register(router); err != nil {
		t.Fatalf("register api: %v", err)
	}

	form := url.Values{"data": {"**hi**"}}
	req := httptest.NewRequest(http.MethodPost, "/markitup/preview/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from preview, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>hi</strong>") {
		t.Fatalf("expected rendered preview, got %s", body)
	}
	if !strings.Contains(body, "/static/markitup/preview.css") {
		t.Fatalf("expected preview stylesheet link, got %s", body)
	}

	asset := httptest.NewRecorder()
	router.ServeHTTP(asset, httptest.NewRequest(http.MethodGet, "/static/markitup/jquery.markitup.js", nil))
	if asset.Code != http.StatusOK {
		t.Fatalf("expected bundled asset, got %d", asset.Code)
	}
}

func TestContainerWithoutPreview(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Preview.Enabled = false

	container := newContainer(t, cfg)
	if container.PreviewHandler() != nil {
		t.Fatal("expected preview handler to be disabled")
	}
	if got := container.Previews().Preview(); got != "" {
		t.Fatalf("expected empty preview url, got %q", got)
	}
}

func TestContainerSQLiteStorageWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:di_sqlite_%d?mode=memory&cache=shared", time.Now().UnixNano())
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Minute

	container := newContainer(t, cfg)
	if container.BunDB() == nil {
		t.Fatal("expected sqlite database to be opened")
	}
	ctx := context.Background()
	if err := container.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := container.DocumentService()
	created, err := svc.Create(ctx, documents.CreateDocumentInput{Slug: "intro", Body: "# Intro"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fetched, err := svc.GetBySlug(ctx, "intro")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, fetched.ID)
	}
	if !strings.Contains(fetched.Body.Rendered().String(), "<h1") {
		t.Fatalf("expected stored rendering, got %q", fetched.Body.Rendered())
	}
}

func TestContainerKeepsProvidedDatabaseOpen(t *testing.T) {
	db := testsupport.NewBunSQLiteDB(t)

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if err := container.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("expected caller-owned database to stay open, got %v", err)
	}
}

func TestContainerResolvesPreviewThroughRouteConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Routes.Group = "frontend"
	cfg.Routes.Config = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"markitup_preview": "/markitup/preview/",
				},
			},
		},
	}

	container := newContainer(t, cfg)
	if got := container.Previews().Preview(); !strings.HasPrefix(got, "https://example.com/markitup/preview") {
		t.Fatalf("unexpected preview url %q", got)
	}
}

func TestContainerWidgetsFollowEditorConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Editor.AutoPreview = true
	container := newContainer(t, cfg)

	field, ok := container.DocumentDefinition().Field(documents.BodyField)
	if !ok {
		t.Fatal("expected body field on the document definition")
	}
	widget := container.Widgets().WidgetFor(field, widgets.ContextAdmin)
	html, err := widget.Render("body", "text", nil)
	if err != nil {
		t.Fatalf("render widget: %v", err)
	}
	for _, want := range []string{widgets.AdminClass, `data-auto-preview="1"`, `data-preview-url="/markitup/preview/"`} {
		if !strings.Contains(html.String(), want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}

	media := container.Tags().Media().String()
	if !strings.Contains(media, "/static/markitup/jquery.markitup.js") {
		t.Fatalf("expected editor script in media, got %s", media)
	}
}

func TestContainerCommandsFeatureRoutesRerenderThroughHandler(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Commands = true
	container := newContainer(t, cfg)

	if container.RerenderHandler() == nil {
		t.Fatal("expected rerender handler when commands feature is enabled")
	}
	if _, err := container.DocumentService().Create(context.Background(), documents.CreateDocumentInput{Slug: "cmd", Body: "*x*"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	router := chi.NewRouter()
	if err := container.API().Register(router); err != nil {
		t.Fatalf("register api: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/markitup/api/documents/rerender", strings.NewReader(`{"formatter":"html","dry_run":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from rerender, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"processed":1`) {
		t.Fatalf("expected one processed document, got %s", rec.Body.String())
	}
	if last := container.RerenderHandler().LastResult(); last == nil || last.Processed != 1 {
		t.Fatalf("expected the command handler to run, got %#v", last)
	}

	bad := httptest.NewRequest(http.MethodPost, "/markitup/api/documents/rerender", strings.NewReader(`{"options":{"hard_wraps":true}}`))
	bad.Header.Set("Content-Type", "application/json")
	badRec := httptest.NewRecorder()
	router.ServeHTTP(badRec, bad)
	if badRec.Code != http.StatusUnprocessableEntity && badRec.Code != http.StatusBadRequest {
		t.Fatalf("expected a client error for options without formatter, got %d: %s", badRec.Code, badRec.Body.String())
	}
}

func TestContainerCommandsFeatureDisabledByDefault(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())
	if container.RerenderHandler() != nil {
		t.Fatal("expected no rerender handler by default")
	}
}
