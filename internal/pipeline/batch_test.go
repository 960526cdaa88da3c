package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-edxml/internal/convert"
	"github.com/goliatone/go-edxml/internal/pipeline"
)

func TestConvertBatchPreservesOrder(t *testing.T) {
	converter := convert.Func(func(_ context.Context, markup string) (string, error) {
		if strings.Contains(markup, "fail") {
			return "", errors.New("converter rejected input")
		}
		if strings.Contains(markup, "slow") {
			time.Sleep(20 * time.Millisecond)
		}
		return markup, nil
	})
	p, err := pipeline.New(converter, pipeline.WithWorkers(3))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	docs := []pipeline.Document{
		{ID: "a", Source: `<paragraph>slow</paragraph>`},
		{ID: "b", Source: `<paragraph>fast</paragraph>`},
		{ID: "c", Source: `<paragraph>fail</paragraph>`},
		{ID: "d", Source: `<paragraph>last</paragraph>`},
	}
	results := p.ConvertBatch(context.Background(), docs)
	if len(results) != len(docs) {
		t.Fatalf("expected %d results, got %d", len(docs), len(results))
	}
	for i, result := range results {
		if result.ID != docs[i].ID {
			t.Fatalf("result %d: expected id %s, got %s", i, docs[i].ID, result.ID)
		}
	}
	if results[0].Markdown != "<p>slow</p>" || results[3].Markdown != "<p>last</p>" {
		t.Fatalf("unexpected markdown: %+v", results)
	}
	if results[2].Err == nil || !convert.IsBoundaryFailure(results[2].Err) {
		t.Fatalf("expected boundary failure for c, got %v", results[2].Err)
	}
	if results[1].Err != nil || results[3].Err != nil {
		t.Fatalf("expected other documents to succeed: %+v", results)
	}
}

func TestConvertBatchCancelled(t *testing.T) {
	p, err := pipeline.New(convert.Passthrough{}, pipeline.WithWorkers(1))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.ConvertBatch(ctx, []pipeline.Document{
		{ID: "a", Source: `<paragraph>a</paragraph>`},
		{ID: "b", Source: `<paragraph>b</paragraph>`},
	})
	for _, result := range results {
		if !errors.Is(result.Err, context.Canceled) {
			t.Fatalf("expected cancellation for %s, got %v", result.ID, result.Err)
		}
	}
}

func TestConvertBatchEmpty(t *testing.T) {
	p, err := pipeline.New(convert.Passthrough{})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	if got := p.ConvertBatch(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}
