package edxml_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-edxml"
)

func TestModuleConvert(t *testing.T) {
	module, err := edxml.New(edxml.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	md, err := module.Convert(context.Background(),
		`<document><heading level="2">Loops</heading><paragraph>Use <code>range</code>.</paragraph></document>`)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(md, "## Loops") || !strings.Contains(md, "`range`") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func TestModuleAssembleLesson(t *testing.T) {
	module, err := edxml.New(edxml.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	md, err := module.AssembleLesson(context.Background(), edxml.Lesson{Slides: []edxml.Slide{
		{Index: 1, Title: "Start", Type: edxml.SlideDocument,
			Content: `<document><heading level="1">Overview</heading><paragraph>Text</paragraph></document>`},
		{Index: 2, Type: edxml.SlideQuiz},
	}})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !strings.HasPrefix(md, "# Start\n\n## Overview") {
		t.Fatalf("expected slide title followed by demoted heading:\n%s", md)
	}
	if !strings.Contains(md, "# Slide 2") || !strings.HasSuffix(md, "\n") {
		t.Fatalf("unexpected lesson markdown:\n%s", md)
	}
}

func TestModulePreview(t *testing.T) {
	module, err := edxml.New(edxml.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if _, err := module.Preview("x", "text"); !errors.Is(err, edxml.ErrPreviewDisabled) {
		t.Fatalf("expected ErrPreviewDisabled, got %v", err)
	}

	cfg := edxml.DefaultConfig()
	cfg.Features.Preview = true
	module, err = edxml.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	page, err := module.Preview("Lesson", "# Hi")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(string(page), `<h1 id="hi">Hi</h1>`) {
		t.Fatalf("unexpected preview:\n%s", page)
	}
}

func TestModuleConvertBatch(t *testing.T) {
	module, err := edxml.New(edxml.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	results := module.ConvertBatch(context.Background(), []edxml.Document{
		{ID: "one", Source: `<paragraph>first</paragraph>`},
		{ID: "two", Source: `<paragraph>second</paragraph>`},
	})
	if len(results) != 2 || results[0].Markdown != "first" || results[1].Markdown != "second" {
		t.Fatalf("unexpected batch results: %+v", results)
	}
}
