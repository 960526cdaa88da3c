package convertcmd

import (
	"testing"

	"github.com/goliatone/go-edxml/internal/lessons"
)

func discard(string) error { return nil }

func TestConvertDocumentCommandValidate(t *testing.T) {
	cmd := ConvertDocumentCommand{Output: discard}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when source missing")
	}

	cmd.Source = "<paragraph>x</paragraph>"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd.HeadingOffset = MaxHeadingOffset + 1
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error for out of range heading offset")
	}

	cmd.HeadingOffset = 0
	cmd.Output = nil
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when output missing")
	}
}

func TestAssembleLessonCommandValidate(t *testing.T) {
	cmd := AssembleLessonCommand{Output: discard}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error for lesson without slides")
	}

	cmd.Lesson = lessons.Lesson{Slides: []lessons.Slide{{Index: 1, Type: lessons.SlideQuiz}}}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
