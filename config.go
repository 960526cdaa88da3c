package edxml

import "github.com/goliatone/go-edxml/internal/runtimeconfig"

var (
	ErrImageModeInvalid        = runtimeconfig.ErrImageModeInvalid
	ErrImageDirRequired        = runtimeconfig.ErrImageDirRequired
	ErrImageTimeoutInvalid     = runtimeconfig.ErrImageTimeoutInvalid
	ErrConverterEngineInvalid  = runtimeconfig.ErrConverterEngineInvalid
	ErrPandocPathRequired      = runtimeconfig.ErrPandocPathRequired
	ErrHeadingOffsetInvalid    = runtimeconfig.ErrHeadingOffsetInvalid
	ErrWorkersInvalid          = runtimeconfig.ErrWorkersInvalid
	ErrArchiveFeatureRequired  = runtimeconfig.ErrArchiveFeatureRequired
	ErrArchiveDSNRequired      = runtimeconfig.ErrArchiveDSNRequired
	ErrArchiveDriverInvalid    = runtimeconfig.ErrArchiveDriverInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	ImageModeURL    = runtimeconfig.ImageModeURL
	ImageModeBase64 = runtimeconfig.ImageModeBase64
	ImageModeFile   = runtimeconfig.ImageModeFile

	EngineHTMLToMarkdown = runtimeconfig.EngineHTMLToMarkdown
	EnginePandoc         = runtimeconfig.EnginePandoc
	EnginePassthrough    = runtimeconfig.EnginePassthrough

	ArchiveDriverMemory = runtimeconfig.ArchiveDriverMemory
	ArchiveDriverSQLite = runtimeconfig.ArchiveDriverSQLite
)

type (
	Config          = runtimeconfig.Config
	ImagesConfig    = runtimeconfig.ImagesConfig
	ConverterConfig = runtimeconfig.ConverterConfig
	PipelineConfig  = runtimeconfig.PipelineConfig
	ArchiveConfig   = runtimeconfig.ArchiveConfig
	PreviewConfig   = runtimeconfig.PreviewConfig
	Features        = runtimeconfig.Features
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
