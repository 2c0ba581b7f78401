package markitup

import "github.com/goliatone/go-markitup/internal/runtimeconfig"

var (
	ErrDefaultFormatterRequired = runtimeconfig.ErrDefaultFormatterRequired
	ErrPreviewPathInvalid       = runtimeconfig.ErrPreviewPathInvalid
	ErrPreviewMaxBytesInvalid   = runtimeconfig.ErrPreviewMaxBytesInvalid
	ErrStorageDriverUnknown     = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrRoutesGroupRequired      = runtimeconfig.ErrRoutesGroupRequired
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	EditorConfig    = runtimeconfig.EditorConfig
	PreviewConfig   = runtimeconfig.PreviewConfig
	RoutesConfig    = runtimeconfig.RoutesConfig
	AssetsConfig    = runtimeconfig.AssetsConfig
	TemplatesConfig = runtimeconfig.TemplatesConfig
	DocumentsConfig = runtimeconfig.DocumentsConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	Features        = runtimeconfig.Features
	LoggingConfig   = runtimeconfig.LoggingConfig
	ServerConfig    = runtimeconfig.ServerConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads an optional YAML file and MARKITUP_* environment
// overrides on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
