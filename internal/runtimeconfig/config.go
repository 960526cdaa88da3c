package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrImageModeInvalid = errors.New("edxml config: image mode must be one of url, base64, file")

// ErrImageDirRequired guards file mode, which needs a destination directory.
var ErrImageDirRequired = errors.New("edxml config: image directory is required in file mode")
var ErrImageTimeoutInvalid = errors.New("edxml config: image fetch timeout must be zero or positive")
var ErrConverterEngineInvalid = errors.New("edxml config: converter engine is invalid")
var ErrPandocPathRequired = errors.New("edxml config: pandoc path is required for the pandoc engine")
var ErrHeadingOffsetInvalid = errors.New("edxml config: heading offset must be between 0 and 5")
var ErrWorkersInvalid = errors.New("edxml config: worker count must be zero or positive")

// ErrArchiveFeatureRequired keeps archive settings behind the archive flag.
var ErrArchiveFeatureRequired = errors.New("edxml config: archive feature must be enabled to configure the archive")
var ErrArchiveDSNRequired = errors.New("edxml config: archive DSN is required for the sqlite driver")
var ErrArchiveDriverInvalid = errors.New("edxml config: archive driver is invalid")
var ErrLoggingProviderRequired = errors.New("edxml config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("edxml config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("edxml config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("edxml config: logging format is invalid")

const (
	ImageModeURL    = "url"
	ImageModeBase64 = "base64"
	ImageModeFile   = "file"
)

const (
	EngineHTMLToMarkdown = "html-to-markdown"
	EnginePandoc         = "pandoc"
	EnginePassthrough    = "passthrough"
)

const (
	ArchiveDriverMemory = "memory"
	ArchiveDriverSQLite = "sqlite"
)

// Config aggregates feature flags and adapter settings for the conversion
// module. Hosts build it in code; nothing here is read from disk.
type Config struct {
	Images    ImagesConfig
	Converter ConverterConfig
	Pipeline  PipelineConfig
	Archive   ArchiveConfig
	Preview   PreviewConfig
	Features  Features
	Logging   LoggingConfig
}

// ImagesConfig controls how image sources are resolved while rendering.
type ImagesConfig struct {
	Mode        string
	Dir         string
	MarkdownDir string
	Timeout     time.Duration
	UserAgent   string
	MaxBytes    int64
}

// ConverterConfig selects the external HTML to Markdown engine.
type ConverterConfig struct {
	Engine     string
	PandocPath string
	// Domain is used by html-to-markdown to absolutize relative links.
	Domain string
}

// PipelineConfig captures conversion run behaviour.
type PipelineConfig struct {
	Workers       int
	HeadingOffset int
	Memoize       bool
}

// ArchiveConfig configures the conversion archive.
type ArchiveConfig struct {
	Driver string
	DSN    string
}

// PreviewConfig mirrors interfaces.ParseOptions for the HTML preview.
type PreviewConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// Features toggles optional capabilities.
type Features struct {
	Archive bool
	Logger  bool
	Preview bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Images: ImagesConfig{
			Mode:    ImageModeURL,
			Timeout: 10 * time.Second,
		},
		Converter: ConverterConfig{
			Engine:     EngineHTMLToMarkdown,
			PandocPath: "pandoc",
		},
		Pipeline: PipelineConfig{
			Workers: 0,
			Memoize: true,
		},
		Archive: ArchiveConfig{
			Driver: ArchiveDriverMemory,
		},
		Preview: PreviewConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Images.Mode) {
	case "", ImageModeURL, ImageModeBase64:
	case ImageModeFile:
		if strings.TrimSpace(cfg.Images.Dir) == "" {
			return ErrImageDirRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrImageModeInvalid, cfg.Images.Mode)
	}
	if cfg.Images.Timeout < 0 {
		return ErrImageTimeoutInvalid
	}

	switch normalize(cfg.Converter.Engine) {
	case "", EngineHTMLToMarkdown, EnginePassthrough:
	case EnginePandoc:
		if strings.TrimSpace(cfg.Converter.PandocPath) == "" {
			return ErrPandocPathRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrConverterEngineInvalid, cfg.Converter.Engine)
	}

	if cfg.Pipeline.HeadingOffset < 0 || cfg.Pipeline.HeadingOffset > 5 {
		return fmt.Errorf("%w: %d", ErrHeadingOffsetInvalid, cfg.Pipeline.HeadingOffset)
	}
	if cfg.Pipeline.Workers < 0 {
		return ErrWorkersInvalid
	}

	if !cfg.Features.Archive {
		if strings.TrimSpace(cfg.Archive.DSN) != "" {
			return ErrArchiveFeatureRequired
		}
	} else {
		switch normalize(cfg.Archive.Driver) {
		case "", ArchiveDriverMemory:
		case ArchiveDriverSQLite:
			if strings.TrimSpace(cfg.Archive.DSN) == "" {
				return ErrArchiveDSNRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrArchiveDriverInvalid, cfg.Archive.Driver)
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
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

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
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
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
