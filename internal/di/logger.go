package di

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-markitup/internal/logging/console"
	"github.com/goliatone/go-markitup/internal/logging/gologger"
	"github.com/goliatone/go-markitup/internal/runtimeconfig"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingLevelInvalid, cfg.Level)
		}
		return console.NewProvider(console.Options{MinLevel: &level, Focus: cfg.Focus}), nil
	case "gologger":
		goProvider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return goProvider, nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, provider)
	}
}
