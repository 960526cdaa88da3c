package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

const (
	rootModule     = "edxml"
	parserModule   = "edxml.parser"
	renderModule   = "edxml.render"
	imagesModule   = "edxml.images"
	pipelineModule = "edxml.pipeline"
	archiveModule  = "edxml.archive"
	lessonsModule  = "edxml.lessons"
)

const (
	fieldDocumentID     = "document_id"
	fieldDocumentSource = "source"
	fieldConverter      = "converter"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ParserLogger returns the logger namespace reserved for the EdXML parser.
func ParserLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, parserModule)
}

// RenderLogger returns the logger namespace reserved for the renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// ImagesLogger returns the logger namespace reserved for image resolution.
func ImagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, imagesModule)
}

// PipelineLogger returns the logger namespace reserved for conversion runs.
func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
}

// ArchiveLogger returns the logger namespace reserved for the conversion archive.
func ArchiveLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, archiveModule)
}

// LessonsLogger returns the logger namespace reserved for slide assembly.
func LessonsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lessonsModule)
}

// WithDocumentContext enriches the logger with the document identifier, its
// source label and the converter in use. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, id, source, converter string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldDocumentSource] = trimmed
	}
	if trimmed := strings.TrimSpace(converter); trimmed != "" {
		fields[fieldConverter] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
