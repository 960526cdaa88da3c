package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-edxml"
	"github.com/goliatone/go-edxml/internal/di"
	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// Options captures the CLI flags that shape the module configuration.
type Options struct {
	ImageMode      string
	ImageDir       string
	MarkdownDir    string
	ImageTimeout   time.Duration
	HeadingOffset  int
	Workers        int
	Engine         string
	PandocPath     string
	Domain         string
	ArchiveDSN     string
	Preview        bool
	LogProvider    string
	LogLevel       string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the conversion module and a CLI logger.
type Module struct {
	Module *edxml.Module
	Logger interfaces.Logger
}

// Config maps opts onto a validated-ready edxml.Config.
func Config(opts Options) edxml.Config {
	cfg := edxml.DefaultConfig()

	if mode := strings.TrimSpace(opts.ImageMode); mode != "" {
		cfg.Images.Mode = mode
	}
	cfg.Images.Dir = strings.TrimSpace(opts.ImageDir)
	cfg.Images.MarkdownDir = strings.TrimSpace(opts.MarkdownDir)
	if opts.ImageTimeout > 0 {
		cfg.Images.Timeout = opts.ImageTimeout
	}

	if engine := strings.TrimSpace(opts.Engine); engine != "" {
		cfg.Converter.Engine = engine
	}
	if path := strings.TrimSpace(opts.PandocPath); path != "" {
		cfg.Converter.PandocPath = path
	}
	cfg.Converter.Domain = strings.TrimSpace(opts.Domain)

	cfg.Pipeline.HeadingOffset = opts.HeadingOffset
	cfg.Pipeline.Workers = opts.Workers

	if dsn := strings.TrimSpace(opts.ArchiveDSN); dsn != "" {
		cfg.Features.Archive = true
		cfg.Archive.Driver = edxml.ArchiveDriverSQLite
		cfg.Archive.DSN = dsn
	}

	cfg.Features.Preview = opts.Preview

	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = level
		if provider := strings.TrimSpace(opts.LogProvider); provider != "" {
			cfg.Logging.Provider = provider
		}
		if cfg.Logging.Provider == "gologger" {
			cfg.Logging.Format = "console"
		}
	}
	return cfg
}

// BuildModule constructs a conversion module for the CLI.
func BuildModule(opts Options) (*Module, error) {
	cfg := Config(opts)

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := edxml.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise edxml module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "edxml.cli"),
	}, nil
}
