package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-markitup/pkg/interfaces"
)

const (
	rootModule       = "markitup"
	documentsModule  = "markitup.documents"
	previewModule    = "markitup.preview"
	formattersModule = "markitup.formatters"
	commandsModule   = "markitup.commands"
)

const (
	fieldDocumentID   = "document_id"
	fieldDocumentSlug = "slug"
	fieldFormatter    = "formatter"
)

// ModuleLogger returns a module-scoped logger, falling back to a no-op
// implementation when no provider is supplied. The module name is attached as
// a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DocumentsLogger returns the logger namespace reserved for document services.
func DocumentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, documentsModule)
}

// PreviewLogger returns the logger namespace reserved for the preview endpoint.
func PreviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, previewModule)
}

// FormattersLogger returns the logger namespace reserved for the formatter registry.
func FormattersLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formattersModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithDocumentContext enriches logger with the document id, slug and
// formatter. Empty values are skipped.
func WithDocumentContext(logger interfaces.Logger, id, slug, formatter string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldDocumentSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(formatter); trimmed != "" {
		fields[fieldFormatter] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
