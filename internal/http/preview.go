package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"

	"github.com/goliatone/go-markitup/internal/fields"
	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/internal/templates"
	"github.com/goliatone/go-markitup/internal/yamlutil"
	"github.com/goliatone/go-markitup/markup"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// DefaultMaxPreviewBytes bounds preview payloads when no limit is set.
const DefaultMaxPreviewBytes int64 = 1 << 20

var (
	errBodyTooLarge   = errors.New("http: preview payload too large")
	errInvalidPayload = errors.New("http: invalid payload")
)

// PreviewRequest is the JSON form of a preview submission.
type PreviewRequest struct {
	Data      string         `json:"data"`
	Formatter string         `json:"formatter,omitempty"`
	Options   markup.Options `json:"options,omitempty"`
}

// PreviewResponse is returned to clients that accept JSON.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// PreviewHandler renders untrusted markup with the same formatter used for
// stored values. Nothing is persisted.
type PreviewHandler struct {
	formatter  markup.Formatter
	resolver   fields.FormatterResolver
	engine     *templates.Engine
	previewCSS string
	maxBytes   int64
	logger     interfaces.Logger
}

// PreviewOption configures the preview handler.
type PreviewOption func(*PreviewHandler)

// WithPreviewResolver allows a "formatter" field to pick a registered
// formatter per request.
func WithPreviewResolver(resolver fields.FormatterResolver) PreviewOption {
	return func(h *PreviewHandler) {
		h.resolver = resolver
	}
}

// WithPreviewTemplates sets the engine that renders markitup/preview.html.
func WithPreviewTemplates(engine *templates.Engine) PreviewOption {
	return func(h *PreviewHandler) {
		if engine != nil {
			h.engine = engine
		}
	}
}

// WithPreviewCSS sets the stylesheet URL linked from the preview page.
func WithPreviewCSS(href string) PreviewOption {
	return func(h *PreviewHandler) {
		h.previewCSS = strings.TrimSpace(href)
	}
}

// WithMaxBytes bounds the request body. Non-positive values keep the default.
func WithMaxBytes(limit int64) PreviewOption {
	return func(h *PreviewHandler) {
		if limit > 0 {
			h.maxBytes = limit
		}
	}
}

// WithPreviewLogger sets the logger.
func WithPreviewLogger(logger interfaces.Logger) PreviewOption {
	return func(h *PreviewHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewPreviewHandler builds the handler around the default formatter.
func NewPreviewHandler(formatter markup.Formatter, opts ...PreviewOption) *PreviewHandler {
	h := &PreviewHandler{
		formatter: formatter,
		maxBytes:  DefaultMaxPreviewBytes,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.engine == nil {
		h.engine = templates.MustNew(templates.Options{})
	}
	return h
}

// ServeHTTP accepts POST only.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{
			Error:   "method_not_allowed",
			Message: fmt.Sprintf("%s is not allowed", r.Method),
		})
		return
	}

	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	html, err := h.render(req)
	if err != nil {
		h.logger.Warn("markitup.preview.failed", "error", err, "formatter", req.Formatter)
		writeError(w, r, err)
		return
	}
	h.logger.Debug("markitup.preview.rendered", "bytes", len(req.Data), "formatter", req.Formatter)

	if wantsJSON(r) {
		render.JSON(w, r, PreviewResponse{HTML: html.String()})
		return
	}
	page, err := h.engine.RenderPreview(templates.PreviewContext{HTML: html, PreviewCSS: h.previewCSS})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.HTML(w, r, page)
}

func (h *PreviewHandler) render(req PreviewRequest) (markup.SafeHTML, error) {
	formatter := h.formatter
	if name := strings.TrimSpace(req.Formatter); name != "" {
		if h.resolver == nil {
			return "", markup.NewConfigurationError(name, "preview formatter overrides are disabled", nil)
		}
		resolved, err := h.resolver.ResolveWithOptions(name, req.Options)
		if err != nil {
			return "", err
		}
		formatter = resolved
	}
	if formatter == nil {
		return "", markup.NewConfigurationError("preview", "no formatter configured", nil)
	}
	// The preview shares the value holder so failures surface the same way
	// they do on save.
	value, err := markup.New(req.Data, formatter)
	if err != nil {
		return "", err
	}
	return value.Rendered(), nil
}

func (h *PreviewHandler) decode(w http.ResponseWriter, r *http.Request) (PreviewRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req PreviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return PreviewRequest{}, classifyBodyError(err)
		}
		return req, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return PreviewRequest{}, classifyBodyError(err)
	}
	if mediaType == "multipart/form-data" {
		return PreviewRequest{}, errors.Join(errInvalidPayload, errors.New("multipart previews are not supported"))
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return PreviewRequest{}, errors.Join(errInvalidPayload, err)
	}
	options, err := formOptions(values)
	if err != nil {
		return PreviewRequest{}, errors.Join(errInvalidPayload, err)
	}
	return PreviewRequest{
		Data:      values.Get("data"),
		Formatter: values.Get("formatter"),
		Options:   options,
	}, nil
}

// formOptions reads formatter options from a form body. "options" may carry a
// JSON object; options[key] entries are parsed as YAML scalars and win over
// the same key in the object.
func formOptions(values url.Values) (markup.Options, error) {
	var options markup.Options
	if encoded := strings.TrimSpace(values.Get("options")); encoded != "" {
		if err := json.Unmarshal([]byte(encoded), &options); err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
	}
	for key, entries := range values {
		if !strings.HasPrefix(key, "options[") || !strings.HasSuffix(key, "]") || len(entries) == 0 {
			continue
		}
		name := strings.TrimSpace(key[len("options[") : len(key)-1])
		if name == "" {
			continue
		}
		var parsed any = ""
		if raw := entries[len(entries)-1]; strings.TrimSpace(raw) != "" {
			if err := yamlutil.Unmarshal([]byte(raw), &parsed); err != nil {
				return nil, fmt.Errorf("option %s: %w", name, err)
			}
		}
		if options == nil {
			options = markup.Options{}
		}
		options[name] = parsed
	}
	return options, nil
}

func classifyBodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errors.Join(errInvalidPayload, err)
}
