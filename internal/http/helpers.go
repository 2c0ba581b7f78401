package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/formatters"
	"github.com/goliatone/go-markitup/internal/validation"
	"github.com/goliatone/go-markitup/markup"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Code    string                       `json:"code,omitempty"`
	Issues  []validation.Issue `json:"issues,omitempty"`
	Fields  []goerrors.FieldError        `json:"fields,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if w == nil {
		return
	}
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	render.Status(r, status)
	render.JSON(w, r, payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	writeJSON(w, r, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var notFound *documents.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		}
	}

	if errors.Is(err, documents.ErrSlugExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, markup.ErrFormatting) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "formatting_failed",
			Message: err.Error(),
			Code:    markup.TextCodeFormattingFailed,
		}
	}

	if errors.Is(err, markup.ErrConfiguration) || errors.Is(err, formatters.ErrUnknownFormatter) {
		return http.StatusBadRequest, errorResponse{
			Error:   "invalid_configuration",
			Message: err.Error(),
			Code:    markup.TextCodeConfiguration,
			Issues:  validation.Issues(err),
		}
	}

	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge, errorResponse{
			Error:   "payload_too_large",
			Message: err.Error(),
		}
	}

	if errors.Is(err, documents.ErrSlugRequired) ||
		errors.Is(err, documents.ErrSlugInvalid) ||
		errors.Is(err, documents.ErrDocumentIDRequired) ||
		errors.Is(err, errInvalidPayload) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	var categorized *goerrors.Error
	if errors.As(err, &categorized) {
		switch categorized.Category {
		case goerrors.CategoryValidation:
			return http.StatusUnprocessableEntity, errorResponse{
				Error:   "validation_failed",
				Message: categorized.Message,
				Code:    categorized.TextCode,
				Fields:  categorized.ValidationErrors,
			}
		case goerrors.CategoryBadInput:
			return http.StatusBadRequest, errorResponse{
				Error:   "bad_request",
				Message: categorized.Message,
				Code:    categorized.TextCode,
			}
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, documents.ErrDocumentIDRequired
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, errors.Join(errInvalidPayload, err)
	}
	return parsed, nil
}

func wantsJSON(r *http.Request) bool {
	return render.GetAcceptedContentType(r) == render.ContentTypeJSON
}
