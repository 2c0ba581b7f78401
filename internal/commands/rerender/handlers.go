package rerendercmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-markitup/internal/commands"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

const rerenderOperation = "documents.rerender"

var _ command.Commander[RerenderDocumentsCommand] = (*RerenderDocumentsHandler)(nil)

// RerenderDocumentsHandler runs batch re-renders through the shared command
// handler.
type RerenderDocumentsHandler struct {
	inner *commands.Handler[RerenderDocumentsCommand]
	last  *documents.RerenderResult
}

// NewRerenderDocumentsHandler binds the handler to the document service.
func NewRerenderDocumentsHandler(service documents.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RerenderDocumentsCommand]) *RerenderDocumentsHandler {
	baseLogger := commands.EnsureLogger(logger)
	handler := &RerenderDocumentsHandler{}

	exec := func(ctx context.Context, msg RerenderDocumentsCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Rerender(ctx, documents.RerenderInput{
			IDs:       msg.IDs,
			Formatter: msg.Formatter,
			Options:   msg.Options,
			DryRun:    msg.DryRun,
		})
		handler.last = result
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"processed_count": result.Processed,
			"changed_count":   len(result.Changed),
			"dry_run":         msg.DryRun,
		}).Info("documents.command.rerender.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RerenderDocumentsCommand]{
		commands.WithLogger[RerenderDocumentsCommand](baseLogger),
		commands.WithOperation[RerenderDocumentsCommand](rerenderOperation),
		commands.WithMessageFields(func(msg RerenderDocumentsCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.IDs) > 0 {
				fields["document_count"] = len(msg.IDs)
			}
			if msg.Formatter != "" {
				fields["formatter"] = msg.Formatter
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RerenderDocumentsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	handler.inner = commands.NewHandler(exec, handlerOpts...)
	return handler
}

// Execute satisfies command.Commander[RerenderDocumentsCommand].
func (h *RerenderDocumentsHandler) Execute(ctx context.Context, msg RerenderDocumentsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LastResult returns the outcome of the most recent execution, including
// partial progress when it failed.
func (h *RerenderDocumentsHandler) LastResult() *documents.RerenderResult {
	return h.last
}
