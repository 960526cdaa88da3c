// Package edxml converts EdXML lesson markup into Markdown.
package edxml

import (
	"context"
	"errors"

	convertcmd "github.com/goliatone/go-edxml/internal/commands/convert"
	"github.com/goliatone/go-edxml/internal/di"
	"github.com/goliatone/go-edxml/internal/lessons"
	"github.com/goliatone/go-edxml/internal/pipeline"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// ErrPreviewDisabled is returned by Preview when Features.Preview is off.
var ErrPreviewDisabled = errors.New("edxml: preview feature disabled")

type (
	Lesson    = lessons.Lesson
	Slide     = lessons.Slide
	SlideType = lessons.SlideType
	Document  = pipeline.Document
	Result    = pipeline.Result

	ConvertDocumentCommand = convertcmd.ConvertDocumentCommand
	AssembleLessonCommand  = convertcmd.AssembleLessonCommand

	Logger         = interfaces.Logger
	LoggerProvider = interfaces.LoggerProvider
)

const (
	SlideDocument = lessons.SlideDocument
	SlideCode     = lessons.SlideCode
	SlideQuiz     = lessons.SlideQuiz
	SlidePDF      = lessons.SlidePDF
)

// Module is the top level conversion façade.
type Module struct {
	container *di.Container
}

// New constructs a Module using cfg and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Convert turns one EdXML document into Markdown.
func (m *Module) Convert(ctx context.Context, raw string) (string, error) {
	return m.container.Pipeline().Convert(ctx, raw)
}

// ConvertBatch converts docs concurrently, keeping input order.
func (m *Module) ConvertBatch(ctx context.Context, docs []Document) []Result {
	return m.container.Pipeline().ConvertBatch(ctx, docs)
}

// AssembleLesson renders every slide of lesson into one Markdown document.
func (m *Module) AssembleLesson(ctx context.Context, lesson Lesson) (string, error) {
	return m.container.Assembler().Assemble(ctx, lesson)
}

// Preview renders Markdown as a standalone HTML page.
func (m *Module) Preview(title, markdown string) ([]byte, error) {
	previewer := m.container.Previewer()
	if previewer == nil {
		return nil, ErrPreviewDisabled
	}
	return previewer.Page(title, []byte(markdown))
}

// ConvertDocumentHandler returns the go-command handler for ConvertDocumentCommand.
func (m *Module) ConvertDocumentHandler() *convertcmd.ConvertDocumentHandler {
	return m.container.ConvertDocumentHandler()
}

// AssembleLessonHandler returns the go-command handler for AssembleLessonCommand.
func (m *Module) AssembleLessonHandler() *convertcmd.AssembleLessonHandler {
	return m.container.AssembleLessonHandler()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
