package runtimeconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/goliatone/go-markitup/internal/yamlutil"
)

// Load builds a Config from DefaultConfig, an optional YAML file and the
// MARKITUP_* environment, in that order. The result is validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("markitup config: read %s: %w", path, err)
		}
		if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("markitup config: parse %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("markitup config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
