package convertcmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-edxml/internal/commands"
	"github.com/goliatone/go-edxml/internal/lessons"
	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/internal/postprocess"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

const (
	convertOperation  = "convert.document"
	assembleOperation = "convert.lesson"
)

// ErrLessonsUnavailable is returned when no assembler was configured.
var ErrLessonsUnavailable = errors.New("convert command: lesson assembler not configured")

var (
	_ command.Commander[ConvertDocumentCommand] = (*ConvertDocumentHandler)(nil)
	_ command.Commander[AssembleLessonCommand]  = (*AssembleLessonHandler)(nil)
)

// DocumentConverter is the subset of the pipeline used by the handlers.
type DocumentConverter interface {
	Convert(ctx context.Context, raw string) (string, error)
}

// ConvertDocumentHandler runs a ConvertDocumentCommand through the pipeline.
type ConvertDocumentHandler struct {
	inner *commands.Handler[ConvertDocumentCommand]
}

// NewConvertDocumentHandler binds a handler to converter.
func NewConvertDocumentHandler(converter DocumentConverter, logger interfaces.Logger, opts ...commands.HandlerOption[ConvertDocumentCommand]) *ConvertDocumentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ConvertDocumentCommand) error {
		ctx = logging.ContextWithDocument(ctx, msg.DocumentID)
		markdown, err := converter.Convert(ctx, msg.Source)
		if err != nil {
			return err
		}
		markdown = postprocess.ShiftHeadings(markdown, msg.HeadingOffset)
		logging.WithFields(baseLogger, map[string]any{
			"bytes": len(markdown),
		}).Debug("edxml.command.convert_document.completed")
		return msg.Output(markdown)
	}

	handlerOpts := []commands.HandlerOption[ConvertDocumentCommand]{
		commands.WithLogger[ConvertDocumentCommand](baseLogger),
		commands.WithOperation[ConvertDocumentCommand](convertOperation),
		commands.WithMessageFields(func(msg ConvertDocumentCommand) map[string]any {
			fields := map[string]any{}
			if id := strings.TrimSpace(msg.DocumentID); id != "" {
				fields["document_id"] = id
			}
			if msg.HeadingOffset > 0 {
				fields["heading_offset"] = msg.HeadingOffset
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ConvertDocumentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ConvertDocumentCommand].
func (h *ConvertDocumentHandler) Execute(ctx context.Context, msg ConvertDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// AssembleLessonHandler runs an AssembleLessonCommand through the lesson assembler.
type AssembleLessonHandler struct {
	inner *commands.Handler[AssembleLessonCommand]
}

// NewAssembleLessonHandler binds a handler to assembler.
func NewAssembleLessonHandler(assembler *lessons.Assembler, logger interfaces.Logger, opts ...commands.HandlerOption[AssembleLessonCommand]) *AssembleLessonHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg AssembleLessonCommand) error {
		if assembler == nil {
			return ErrLessonsUnavailable
		}
		markdown, err := assembler.Assemble(ctx, msg.Lesson)
		if err != nil {
			return err
		}
		return msg.Output(markdown)
	}

	handlerOpts := []commands.HandlerOption[AssembleLessonCommand]{
		commands.WithLogger[AssembleLessonCommand](baseLogger),
		commands.WithOperation[AssembleLessonCommand](assembleOperation),
		commands.WithMessageFields(func(msg AssembleLessonCommand) map[string]any {
			return map[string]any{
				"lesson_id":   msg.Lesson.ID,
				"slide_count": len(msg.Lesson.Slides),
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &AssembleLessonHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[AssembleLessonCommand].
func (h *AssembleLessonHandler) Execute(ctx context.Context, msg AssembleLessonCommand) error {
	return h.inner.Execute(ctx, msg)
}
