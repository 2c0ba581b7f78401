package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	rerendercmd "github.com/goliatone/go-markitup/internal/commands/rerender"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/markup"
)

type documentRequest struct {
	Slug  string  `json:"slug"`
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (d *documentRequest) Bind(*http.Request) error { return nil }

type rerenderRequest struct {
	IDs       []string       `json:"ids"`
	Formatter string         `json:"formatter"`
	Options   markup.Options `json:"options"`
	DryRun    bool           `json:"dry_run"`
}

func (rr *rerenderRequest) Bind(*http.Request) error { return nil }

type rerenderResponse struct {
	Processed int      `json:"processed"`
	Changed   []string `json:"changed"`
	DryRun    bool     `json:"dry_run"`
}

// RerenderCommand executes rerender messages and reports the last outcome.
type RerenderCommand interface {
	Execute(ctx context.Context, msg rerendercmd.RerenderDocumentsCommand) error
	LastResult() *documents.RerenderResult
}

// DocumentsHandler exposes the document service as JSON.
type DocumentsHandler struct {
	service  documents.Service
	rerender RerenderCommand
}

// NewDocumentsHandler wraps service. A nil command makes the rerender route
// call the service directly.
func NewDocumentsHandler(service documents.Service, command RerenderCommand) *DocumentsHandler {
	return &DocumentsHandler{service: service, rerender: command}
}

// Routes returns the document routes.
func (h *DocumentsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/rerender", h.handleRerender)
	r.Get("/slug/{slug}", h.getBySlug)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *DocumentsHandler) list(w http.ResponseWriter, r *http.Request) {
	opts := documents.ListOptions{
		Limit:  parseIntQuery(r.URL.Query().Get("limit"), 0),
		Offset: parseIntQuery(r.URL.Query().Get("offset"), 0),
	}
	docs, err := h.service.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []*documents.Document{}
	}
	render.JSON(w, r, docs)
}

func (h *DocumentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := render.Bind(r, &req); err != nil {
		writeError(w, r, classifyBodyError(err))
		return
	}
	input := documents.CreateDocumentInput{Slug: req.Slug}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Body != nil {
		input.Body = *req.Body
	}
	doc, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, doc)
}

func (h *DocumentsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, doc)
}

func (h *DocumentsHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, doc)
}

func (h *DocumentsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req documentRequest
	if err := render.Bind(r, &req); err != nil {
		writeError(w, r, classifyBodyError(err))
		return
	}
	doc, err := h.service.Update(r.Context(), documents.UpdateDocumentInput{
		ID:    id,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, doc)
}

func (h *DocumentsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentsHandler) handleRerender(w http.ResponseWriter, r *http.Request) {
	var req rerenderRequest
	if err := render.Bind(r, &req); err != nil {
		writeError(w, r, classifyBodyError(err))
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseUUID(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ids = append(ids, id)
	}
	result, err := h.runRerender(r.Context(), rerendercmd.RerenderDocumentsCommand{
		IDs:       ids,
		Formatter: req.Formatter,
		Options:   req.Options,
		DryRun:    req.DryRun,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	changed := make([]string, 0, len(result.Changed))
	for _, id := range result.Changed {
		changed = append(changed, id.String())
	}
	render.JSON(w, r, rerenderResponse{Processed: result.Processed, Changed: changed, DryRun: req.DryRun})
}

func (h *DocumentsHandler) runRerender(ctx context.Context, msg rerendercmd.RerenderDocumentsCommand) (*documents.RerenderResult, error) {
	if h.rerender == nil {
		return h.service.Rerender(ctx, documents.RerenderInput{
			IDs:       msg.IDs,
			Formatter: msg.Formatter,
			Options:   msg.Options,
			DryRun:    msg.DryRun,
		})
	}
	if err := h.rerender.Execute(ctx, msg); err != nil {
		return nil, err
	}
	result := h.rerender.LastResult()
	if result == nil {
		result = &documents.RerenderResult{}
	}
	return result, nil
}

func parseIntQuery(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
