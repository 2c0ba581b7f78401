package commands

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// DefaultCommandTimeout bounds one execution. Rerendering a large document
// set is the slowest command and fits comfortably.
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext never returns nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout bounds ctx by timeout. Zero or negative leaves ctx as is.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}

// EnsureLogger never returns nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger != nil {
		return logger
	}
	return logging.NoOp()
}

// CommandLogger returns the markitup.commands logger tagged with the module
// the command operates on, e.g. "documents".
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = "markitup"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_module": module,
	})
}
