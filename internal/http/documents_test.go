package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerendercmd "github.com/goliatone/go-markitup/internal/commands/rerender"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/formatters"
	"github.com/goliatone/go-markitup/markup"
)

func setupDocumentsAPI(t *testing.T) chi.Router {
	t.Helper()
	registry := formatters.DefaultRegistry()
	require.NoError(t, registry.RegisterFunc("replace", replaceFormatter().Format))
	require.NoError(t, registry.RegisterFunc("upper", func(raw string, _ markup.Options) (string, error) {
		return strings.ToUpper(raw), nil
	}))
	def, err := documents.NewDefinition(registry, "replace", nil)
	require.NoError(t, err)
	service := documents.NewService(documents.NewMemoryDocumentRepository(), def,
		documents.WithFormatterResolver(registry))

	router := chi.NewRouter()
	require.NoError(t, NewAPI(WithDocuments(service), WithFormatterRegistry(registry)).Register(router))
	return router
}

func doJSONRequest(t *testing.T, router http.Handler, method, path string, body any, expectedStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, expectedStatus, rec.Code, rec.Body.String())
	return rec
}

func TestDocumentsAPILifecycle(t *testing.T) {
	router := setupDocumentsAPI(t)

	createResp := doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents",
		map[string]any{"title": "Example Post", "body": "replace this text"}, http.StatusCreated)
	var created documents.Document
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))
	assert.Equal(t, "example-post", created.Slug)
	assert.Equal(t, "replace this text", created.BodyRaw)
	assert.Equal(t, "replacement text", created.BodyRendered)

	path := "/markitup/api/documents/" + created.ID.String()
	updateResp := doJSONRequest(t, router, http.MethodPut, path,
		map[string]any{"body": "replace this other text"}, http.StatusOK)
	var updated documents.Document
	require.NoError(t, json.Unmarshal(updateResp.Body.Bytes(), &updated))
	assert.Equal(t, "replacement other text", updated.BodyRendered)
	assert.Equal(t, "Example Post", updated.Title)

	bySlug := doJSONRequest(t, router, http.MethodGet, "/markitup/api/documents/slug/example-post", nil, http.StatusOK)
	assert.Contains(t, bySlug.Body.String(), `"_body_rendered":"replacement other text"`)

	listResp := doJSONRequest(t, router, http.MethodGet, "/markitup/api/documents?limit=10", nil, http.StatusOK)
	var list []documents.Document
	require.NoError(t, json.Unmarshal(listResp.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rerenderResp := doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents/rerender",
		map[string]any{"formatter": "upper", "dry_run": true}, http.StatusOK)
	var rerendered rerenderResponse
	require.NoError(t, json.Unmarshal(rerenderResp.Body.Bytes(), &rerendered))
	assert.Equal(t, 1, rerendered.Processed)
	assert.Equal(t, []string{created.ID.String()}, rerendered.Changed)

	getResp := doJSONRequest(t, router, http.MethodGet, path, nil, http.StatusOK)
	assert.Contains(t, getResp.Body.String(), "replacement other text", "dry run must not persist")

	doJSONRequest(t, router, http.MethodDelete, path, nil, http.StatusNoContent)
	doJSONRequest(t, router, http.MethodGet, path, nil, http.StatusNotFound)
}

func TestDocumentsAPIErrors(t *testing.T) {
	router := setupDocumentsAPI(t)

	doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents",
		map[string]any{"slug": "dup", "body": "one"}, http.StatusCreated)
	doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents",
		map[string]any{"slug": "dup", "body": "two"}, http.StatusConflict)
	doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents",
		map[string]any{"body": "no title"}, http.StatusBadRequest)
	doJSONRequest(t, router, http.MethodGet, "/markitup/api/documents/not-a-uuid", nil, http.StatusBadRequest)
	doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents/rerender",
		map[string]any{"formatter": "missing"}, http.StatusBadRequest)
}

type stubRerenderCommand struct {
	messages []rerendercmd.RerenderDocumentsCommand
	result   *documents.RerenderResult
}

func (s *stubRerenderCommand) Execute(_ context.Context, msg rerendercmd.RerenderDocumentsCommand) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *stubRerenderCommand) LastResult() *documents.RerenderResult { return s.result }

func TestDocumentsRerenderUsesCommandHandler(t *testing.T) {
	id := uuid.New()
	command := &stubRerenderCommand{result: &documents.RerenderResult{Processed: 3, Changed: []uuid.UUID{id}}}
	service := documents.NewService(documents.NewMemoryDocumentRepository(), nil)

	router := chi.NewRouter()
	require.NoError(t, NewAPI(WithDocuments(service), WithRerenderCommand(command)).Register(router))

	rec := doJSONRequest(t, router, http.MethodPost, "/markitup/api/documents/rerender",
		map[string]any{"ids": []string{id.String()}, "formatter": "upper", "dry_run": true}, http.StatusOK)

	require.Len(t, command.messages, 1)
	assert.Equal(t, []uuid.UUID{id}, command.messages[0].IDs)
	assert.Equal(t, "upper", command.messages[0].Formatter)
	assert.True(t, command.messages[0].DryRun)

	var resp rerenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Processed)
	assert.Equal(t, []string{id.String()}, resp.Changed)
	assert.True(t, resp.DryRun)
}

func TestFormattersEndpoint(t *testing.T) {
	router := setupDocumentsAPI(t)

	resp := doJSONRequest(t, router, http.MethodGet, "/markitup/api/formatters", nil, http.StatusOK)
	var descriptors []formatters.Descriptor
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &descriptors))
	names := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		names = append(names, descriptor.Name)
	}
	assert.Contains(t, names, formatters.NameMarkdown)
	assert.Contains(t, names, "replace")
}
