package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrDefaultFormatterRequired = errors.New("markitup config: default formatter is required")
var ErrPreviewPathInvalid = errors.New("markitup config: preview path must start with /")
var ErrPreviewMaxBytesInvalid = errors.New("markitup config: preview max bytes must be zero or positive")
var ErrStorageDriverUnknown = errors.New("markitup config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("markitup config: storage dsn is required for sql drivers")
var ErrCacheTTLInvalid = errors.New("markitup config: cache ttl must be positive when cache is enabled")
var ErrRoutesGroupRequired = errors.New("markitup config: routes group is required when a route config is supplied")
var ErrLoggingProviderRequired = errors.New("markitup config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("markitup config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("markitup config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("markitup config: logging format is invalid")

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the explicit process-wide configuration. Per-field settings and
// per-call arguments take precedence over it.
type Config struct {
	StaticURL string          `yaml:"static_url" env:"MARKITUP_STATIC_URL"`
	Editor    EditorConfig    `yaml:"editor"`
	Preview   PreviewConfig   `yaml:"preview"`
	Routes    RoutesConfig    `yaml:"routes"`
	Assets    AssetsConfig    `yaml:"assets"`
	Templates TemplatesConfig `yaml:"templates"`
	Documents DocumentsConfig `yaml:"documents"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Features  Features        `yaml:"features"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
}

// EditorConfig holds the editor and formatter defaults.
type EditorConfig struct {
	DefaultFormatter string         `yaml:"default_formatter" env:"MARKITUP_FORMATTER"`
	FormatterOptions map[string]any `yaml:"formatter_options"`
	Set              string         `yaml:"set" env:"MARKITUP_SET"`
	Skin             string         `yaml:"skin" env:"MARKITUP_SKIN"`
	ThemesDir        string         `yaml:"themes_dir" env:"MARKITUP_THEMES_DIR"`
	JQueryURL        string         `yaml:"jquery_url" env:"MARKITUP_JQUERY_URL"`
	AutoPreview      bool           `yaml:"auto_preview" env:"MARKITUP_AUTO_PREVIEW"`
	PreviewCSS       string         `yaml:"preview_css" env:"MARKITUP_PREVIEW_CSS"`
}

// PreviewConfig controls the preview endpoint.
type PreviewConfig struct {
	Enabled  bool   `yaml:"enabled" env:"MARKITUP_PREVIEW_ENABLED"`
	Path     string `yaml:"path" env:"MARKITUP_PREVIEW_PATH"`
	MaxBytes int64  `yaml:"max_bytes" env:"MARKITUP_PREVIEW_MAX_BYTES"`
}

// RoutesConfig resolves the preview URL through go-urlkit. Without a route
// config the preview path is used as-is.
type RoutesConfig struct {
	Config *urlkit.Config `yaml:"-"`
	Group  string         `yaml:"group" env:"MARKITUP_ROUTES_GROUP"`
	Route  string         `yaml:"route" env:"MARKITUP_ROUTES_ROUTE"`
}

// AssetsConfig points at a directory whose files shadow the bundled assets.
type AssetsConfig struct {
	OverrideDir string `yaml:"override_dir" env:"MARKITUP_ASSETS_DIR"`
}

// TemplatesConfig points at host templates that shadow the bundled ones.
type TemplatesConfig struct {
	Dir   string `yaml:"dir" env:"MARKITUP_TEMPLATES_DIR"`
	Debug bool   `yaml:"debug" env:"MARKITUP_TEMPLATES_DEBUG"`
}

// DocumentsConfig tunes the document service.
type DocumentsConfig struct {
	DeterministicIDs bool `yaml:"deterministic_ids" env:"MARKITUP_DETERMINISTIC_IDS"`
}

// StorageConfig selects the document store.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"MARKITUP_STORAGE_DRIVER"`
	DSN    string `yaml:"dsn" env:"MARKITUP_STORAGE_DSN"`
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"MARKITUP_CACHE_ENABLED"`
	TTL     time.Duration `yaml:"ttl" env:"MARKITUP_CACHE_TTL"`
}

// Features toggles optional modules.
type Features struct {
	Logger   bool `yaml:"logger" env:"MARKITUP_FEATURE_LOGGER"`
	Commands bool `yaml:"commands" env:"MARKITUP_FEATURE_COMMANDS"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" env:"MARKITUP_LOG_PROVIDER"`
	Level     string   `yaml:"level" env:"MARKITUP_LOG_LEVEL"`
	Format    string   `yaml:"format" env:"MARKITUP_LOG_FORMAT"`
	AddSource bool     `yaml:"add_source" env:"MARKITUP_LOG_ADD_SOURCE"`
	Focus     []string `yaml:"focus" env:"MARKITUP_LOG_FOCUS" env-separator:","`
}

// ServerConfig configures the bundled HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"MARKITUP_ADDR"`
}

// DefaultConfig returns the defaults the editor ships with.
func DefaultConfig() Config {
	return Config{
		StaticURL: "/static/",
		Editor: EditorConfig{
			DefaultFormatter: "markdown",
			FormatterOptions: map[string]any{},
			Set:              "markitup/sets/default",
			Skin:             "markitup/skins/simple",
			JQueryURL:        "//ajax.googleapis.com/ajax/libs/jquery/2.0.3/jquery.min.js",
			AutoPreview:      false,
			PreviewCSS:       "markitup/preview.css",
		},
		Preview: PreviewConfig{
			Enabled:  true,
			Path:     "/markitup/preview/",
			MaxBytes: 1 << 20,
		},
		Routes: RoutesConfig{
			Route: "markitup_preview",
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Editor.DefaultFormatter) == "" {
		return ErrDefaultFormatterRequired
	}
	if cfg.Preview.Enabled && !strings.HasPrefix(strings.TrimSpace(cfg.Preview.Path), "/") {
		return fmt.Errorf("%w: %q", ErrPreviewPathInvalid, cfg.Preview.Path)
	}
	if cfg.Preview.MaxBytes < 0 {
		return ErrPreviewMaxBytesInvalid
	}
	if cfg.Routes.Config != nil && strings.TrimSpace(cfg.Routes.Group) == "" {
		return ErrRoutesGroupRequired
	}
	switch normalizeDriver(cfg.Storage.Driver) {
	case "", DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// StorageDriver returns the normalized driver, memory when unset.
func (cfg Config) StorageDriver() string {
	if driver := normalizeDriver(cfg.Storage.Driver); driver != "" {
		return driver
	}
	return DriverMemory
}

func normalizeDriver(driver string) string {
	switch value := strings.ToLower(strings.TrimSpace(driver)); value {
	case "sqlite3":
		return DriverSQLite
	case "pg", "postgresql":
		return DriverPostgres
	default:
		return value
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
