package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-edxml/internal/archive"
	"github.com/goliatone/go-edxml/internal/commands"
	convertcmd "github.com/goliatone/go-edxml/internal/commands/convert"
	"github.com/goliatone/go-edxml/internal/convert"
	"github.com/goliatone/go-edxml/internal/edxml"
	"github.com/goliatone/go-edxml/internal/images"
	"github.com/goliatone/go-edxml/internal/lessons"
	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/internal/logging/console"
	"github.com/goliatone/go-edxml/internal/logging/gologger"
	"github.com/goliatone/go-edxml/internal/markdown"
	"github.com/goliatone/go-edxml/internal/pipeline"
	"github.com/goliatone/go-edxml/internal/render"
	"github.com/goliatone/go-edxml/internal/runtimeconfig"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// Container wires the conversion pipeline and its collaborators from a
// runtimeconfig.Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	fetcher        interfaces.ImageFetcher
	resolver       interfaces.ImageResolver
	converter      interfaces.MarkdownConverter
	archive        interfaces.ConversionArchive

	bunDB  *bun.DB
	ownsDB bool

	pipeline  *pipeline.Pipeline
	assembler *lessons.Assembler
	previewer *markdown.Previewer

	convertHandler  *convertcmd.ConvertDocumentHandler
	assembleHandler *convertcmd.AssembleLessonHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithImageFetcher replaces the HTTP image fetcher.
func WithImageFetcher(fetcher interfaces.ImageFetcher) Option {
	return func(c *Container) {
		c.fetcher = fetcher
	}
}

// WithImageResolver replaces the configured image resolver entirely.
func WithImageResolver(resolver interfaces.ImageResolver) Option {
	return func(c *Container) {
		c.resolver = resolver
	}
}

// WithConverter overrides the conversion engine selected by the config.
func WithConverter(converter interfaces.MarkdownConverter) Option {
	return func(c *Container) {
		c.converter = converter
	}
}

// WithArchive injects a conversion archive.
func WithArchive(store interfaces.ConversionArchive) Option {
	return func(c *Container) {
		c.archive = store
	}
}

// WithBunDB backs the archive with an existing database.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureImages(); err != nil {
		return nil, err
	}
	if err := c.configureConverter(); err != nil {
		return nil, err
	}
	if err := c.configureArchive(); err != nil {
		return nil, err
	}
	if err := c.configurePipeline(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureCommands()

	if cfg.Features.Preview {
		c.previewer = markdown.NewPreviewer(interfaces.ParseOptions{
			Extensions: cfg.Preview.Extensions,
			HardWraps:  cfg.Preview.HardWraps,
			SafeMode:   cfg.Preview.SafeMode,
		})
	}

	logging.PipelineLogger(c.loggerProvider).Debug("edxml.container.configured",
		"converter", c.converter.Name(),
		"image_mode", imageMode(cfg),
		"archive", c.archive != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureImages() error {
	if c.resolver != nil {
		return nil
	}
	mode, err := images.ParseMode(c.Config.Images.Mode)
	if err != nil {
		return err
	}

	fetcher := c.fetcher
	if fetcher == nil && mode != images.ModeURL {
		fetcher = images.NewHTTPFetcher(
			images.WithTimeout(c.Config.Images.Timeout),
			images.WithUserAgent(c.Config.Images.UserAgent),
			images.WithMaxBytes(c.Config.Images.MaxBytes),
		)
	}

	c.resolver = images.NewResolver(mode,
		images.WithFetcher(fetcher),
		images.WithImageDir(c.Config.Images.Dir),
		images.WithMarkdownDir(c.Config.Images.MarkdownDir),
		images.WithLogger(logging.ImagesLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureConverter() error {
	if c.converter != nil {
		return nil
	}
	converter, err := convert.FromConfig(c.Config.Converter)
	if err != nil {
		return err
	}
	c.converter = converter
	return nil
}

func (c *Container) configureArchive() error {
	if c.archive != nil || !c.Config.Features.Archive {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Archive.Driver)) {
	case runtimeconfig.ArchiveDriverSQLite:
		if c.bunDB == nil {
			db, err := archive.OpenSQLite(context.Background(), c.Config.Archive.DSN)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			c.bunDB = db
			c.ownsDB = true
		} else if err := archive.EnsureSchema(context.Background(), c.bunDB); err != nil {
			return fmt.Errorf("prepare archive: %w", err)
		}
		c.archive = archive.NewBunStore(c.bunDB)
	default:
		c.archive = archive.NewMemoryStore()
	}
	return nil
}

func (c *Container) configurePipeline() error {
	renderer := render.New(
		render.WithImageResolver(c.resolver),
		render.WithLogger(logging.RenderLogger(c.loggerProvider)),
	)

	opts := []pipeline.Option{
		pipeline.WithParser(edxml.NewParser(edxml.WithParserLogger(logging.ParserLogger(c.loggerProvider)))),
		pipeline.WithRenderer(renderer),
		pipeline.WithLogger(logging.PipelineLogger(c.loggerProvider)),
		pipeline.WithHeadingOffset(c.Config.Pipeline.HeadingOffset),
		pipeline.WithWorkers(c.Config.Pipeline.Workers),
		pipeline.WithFingerprint(fingerprint(c.Config)...),
	}
	if c.archive != nil && c.Config.Pipeline.Memoize {
		opts = append(opts, pipeline.WithArchive(c.archive))
	}

	p, err := pipeline.New(c.converter, opts...)
	if err != nil {
		return err
	}
	c.pipeline = p

	assemblerOpts := []lessons.Option{lessons.WithLogger(logging.LessonsLogger(c.loggerProvider))}
	if c.Config.Pipeline.HeadingOffset > 0 {
		// The pipeline already demotes slide bodies.
		assemblerOpts = append(assemblerOpts, lessons.WithHeadingOffset(0))
	}
	assembler, err := lessons.NewAssembler(p, assemblerOpts...)
	if err != nil {
		return err
	}
	c.assembler = assembler
	return nil
}

func (c *Container) configureCommands() {
	logger := commands.CommandLogger(c.loggerProvider, "convert")
	c.convertHandler = convertcmd.NewConvertDocumentHandler(c.pipeline, logger)
	c.assembleHandler = convertcmd.NewAssembleLessonHandler(c.assembler, logger)
}

// Close releases the archive database when the container opened it.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

func (c *Container) Pipeline() *pipeline.Pipeline { return c.pipeline }

func (c *Container) Assembler() *lessons.Assembler { return c.assembler }

// Previewer returns nil unless the preview feature is enabled.
func (c *Container) Previewer() *markdown.Previewer { return c.previewer }

func (c *Container) Converter() interfaces.MarkdownConverter { return c.converter }

func (c *Container) ImageResolver() interfaces.ImageResolver { return c.resolver }

// Archive returns nil when the archive feature is disabled.
func (c *Container) Archive() interfaces.ConversionArchive { return c.archive }

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) ConvertDocumentHandler() *convertcmd.ConvertDocumentHandler {
	return c.convertHandler
}

func (c *Container) AssembleLessonHandler() *convertcmd.AssembleLessonHandler {
	return c.assembleHandler
}

// fingerprint lists the settings outside the converter name and heading
// offset that change conversion output.
func fingerprint(cfg runtimeconfig.Config) []string {
	mode := imageMode(cfg)
	parts := []string{"images=" + mode}
	if domain := strings.TrimSpace(cfg.Converter.Domain); domain != "" {
		parts = append(parts, "domain="+domain)
	}
	if mode == runtimeconfig.ImageModeFile {
		parts = append(parts,
			"image_dir="+strings.TrimSpace(cfg.Images.Dir),
			"markdown_dir="+strings.TrimSpace(cfg.Images.MarkdownDir),
		)
	}
	return parts
}

func imageMode(cfg runtimeconfig.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.Images.Mode))
	if mode == "" {
		return runtimeconfig.ImageModeURL
	}
	return mode
}
