package lessons_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-edxml/internal/lessons"
)

func TestParseSlideSourceWithFrontMatter(t *testing.T) {
	raw := []byte(`---
title: Loops
type: Code
index: 7
explanation: "<paragraph>Use range.</paragraph>"
---
<document><paragraph>for i := range xs {}</paragraph></document>
`)
	source, err := lessons.ParseSlideSource(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if source.Meta.Title != "Loops" {
		t.Fatalf("expected title Loops, got %q", source.Meta.Title)
	}
	if !strings.HasPrefix(strings.TrimSpace(source.Body), "<document>") {
		t.Fatalf("expected EdXML body, got %q", source.Body)
	}

	slide := source.Slide(1)
	if slide.Type != lessons.SlideCode || slide.Index != 7 {
		t.Fatalf("unexpected slide %+v", slide)
	}
	if slide.Explanation != "<paragraph>Use range.</paragraph>" {
		t.Fatalf("unexpected explanation %q", slide.Explanation)
	}
}

func TestParseSlideSourceWithoutFrontMatter(t *testing.T) {
	raw := []byte("<document><paragraph>plain</paragraph></document>")
	source, err := lessons.ParseSlideSource(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if source.Body != string(raw) {
		t.Fatalf("expected body unchanged, got %q", source.Body)
	}
	slide := source.Slide(3)
	if slide.Type != lessons.SlideDocument || slide.Index != 3 {
		t.Fatalf("unexpected defaults %+v", slide)
	}
	if lessons.SlideTitle(slide) != "Slide 3" {
		t.Fatalf("unexpected title %q", lessons.SlideTitle(slide))
	}
}
