package lessons_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-edxml/internal/lessons"
)

type stubConverter map[string]string

func (s stubConverter) Convert(_ context.Context, raw string) (string, error) {
	out, ok := s[raw]
	if !ok {
		return "", errors.New("unexpected input")
	}
	return out, nil
}

type prefixResolver string

func (p prefixResolver) Resolve(_ context.Context, src string) string {
	return string(p) + src[strings.LastIndex(src, "/")+1:]
}

func TestAssembleSlideTypes(t *testing.T) {
	converter := stubConverter{
		"doc":      "# Intro\n\nBody text",
		"code":     "```go\nfmt.Println()\n```",
		"solution": "Use Println.",
	}
	assembler, err := lessons.NewAssembler(converter)
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}

	lesson := lessons.Lesson{ID: "l1", Slides: []lessons.Slide{
		{Index: 1, Title: "Welcome", Type: lessons.SlideDocument, Content: "doc"},
		{Index: 2, Type: lessons.SlideCode, Content: "code", Explanation: "solution"},
		{Index: 3, Title: "Check", Type: lessons.SlideQuiz},
		{Index: 4, Title: "Notes", Type: lessons.SlidePDF, FileURL: "https://cdn.example.com/files/notes.pdf?x=1"},
		{Index: 5, Title: "Video", Type: "video"},
	}}

	md, err := assembler.Assemble(context.Background(), lesson)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	expected := strings.Join([]string{
		"# Welcome",
		"## Intro\n\nBody text",
		"# Slide 2",
		"```go\nfmt.Println()\n```",
		"# Slide 2 - Solution",
		"Use Println.",
		"# Check",
		"_Quiz slide: questions/responses not converted to markdown yet._",
		"# Notes",
		"[notes.pdf](https://cdn.example.com/files/notes.pdf?x=1)",
		"# Video",
		"_Slide of type `video` not converted._",
	}, "\n\n") + "\n"

	if md != expected {
		t.Fatalf("unexpected lesson markdown:\n%s\nwant:\n%s", md, expected)
	}
}

func TestAssembleSkipsFailedBodies(t *testing.T) {
	assembler, err := lessons.NewAssembler(stubConverter{})
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}
	md, err := assembler.Assemble(context.Background(), lessons.Lesson{Slides: []lessons.Slide{
		{Index: 1, Title: "Broken", Type: lessons.SlideDocument, Content: "<paragraph>x</paragraph>"},
		{Index: 2, Title: "Empty", Type: lessons.SlideDocument},
	}})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if md != "# Broken\n\n# Empty\n" {
		t.Fatalf("expected titles only, got %q", md)
	}
}

func TestAssemblePDFAssetResolver(t *testing.T) {
	assembler, err := lessons.NewAssembler(stubConverter{},
		lessons.WithAssetResolver(prefixResolver("assets/")),
		lessons.WithHeadingOffset(0),
	)
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}
	md, err := assembler.Assemble(context.Background(), lessons.Lesson{Slides: []lessons.Slide{
		{Index: 1, Type: lessons.SlidePDF, FileURL: "https://x.test/a/slides.pdf"},
		{Index: 2, Type: lessons.SlidePDF},
	}})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !strings.Contains(md, "[slides.pdf](assets/slides.pdf)") {
		t.Fatalf("expected resolved pdf link, got:\n%s", md)
	}
	if !strings.Contains(md, "_PDF slide: file URL missing._") {
		t.Fatalf("expected missing url note, got:\n%s", md)
	}
}

func TestAssembleCancelled(t *testing.T) {
	assembler, err := lessons.NewAssembler(stubConverter{})
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = assembler.Assemble(ctx, lessons.Lesson{Slides: []lessons.Slide{{Index: 1}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewAssemblerRequiresConverter(t *testing.T) {
	if _, err := lessons.NewAssembler(nil); !errors.Is(err, lessons.ErrConverterRequired) {
		t.Fatalf("expected ErrConverterRequired, got %v", err)
	}
}
