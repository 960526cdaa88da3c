package convertcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-edxml/internal/lessons"
)

const (
	convertDocumentMessageType = "edxml.convert.document"
	assembleLessonMessageType  = "edxml.convert.lesson"
)

// MaxHeadingOffset bounds the extra heading demotion a command may request.
const MaxHeadingOffset = 5

// Sink receives the finished Markdown.
type Sink func(markdown string) error

// ConvertDocumentCommand converts one EdXML document.
type ConvertDocumentCommand struct {
	// DocumentID labels log entries; it is optional.
	DocumentID string `json:"document_id,omitempty"`
	// Source is the raw EdXML text.
	Source string `json:"source"`
	// HeadingOffset demotes headings on top of the pipeline offset.
	HeadingOffset int `json:"heading_offset,omitempty"`
	// Output receives the Markdown.
	Output Sink `json:"-"`
}

// Type implements command.Message.
func (ConvertDocumentCommand) Type() string { return convertDocumentMessageType }

// Validate ensures a source and an output are present.
func (cmd ConvertDocumentCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("edxml.convert.document.source_required", "source is required")
			}
			return nil
		})),
		validation.Field(&cmd.HeadingOffset, validation.Min(0), validation.Max(MaxHeadingOffset)),
	)
	if err != nil {
		return err
	}
	return requireOutput(cmd.Output)
}

// AssembleLessonCommand stitches the slides of a lesson into one document.
type AssembleLessonCommand struct {
	Lesson lessons.Lesson `json:"lesson"`
	Output Sink           `json:"-"`
}

// Type implements command.Message.
func (AssembleLessonCommand) Type() string { return assembleLessonMessageType }

// Validate ensures the lesson has slides and an output is present.
func (cmd AssembleLessonCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Lesson, validation.By(func(value any) error {
			lesson, _ := value.(lessons.Lesson)
			if len(lesson.Slides) == 0 {
				return validation.NewError("edxml.convert.lesson.slides_required", "lesson has no slides")
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	return requireOutput(cmd.Output)
}

func requireOutput(output Sink) error {
	if output == nil {
		return validation.Errors{
			"output": validation.NewError("edxml.convert.output_required", "output is required"),
		}
	}
	return nil
}
