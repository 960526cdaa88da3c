package pipeline

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/goliatone/go-edxml/internal/logging"
)

// Document is a single batch input.
type Document struct {
	ID     string
	Source string
}

// Result is the outcome of converting one Document.
type Result struct {
	ID       string
	Markdown string
	Err      error
	Duration time.Duration
}

type batchJob struct {
	index int
	doc   Document
}

// ConvertBatch converts docs on a worker pool. Results keep the input order
// and carry per-document errors; one failure never stops the batch.
func (p *Pipeline) ConvertBatch(ctx context.Context, docs []Document) []Result {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]Result, len(docs))
	if len(docs) == 0 {
		return results
	}

	workers := p.effectiveWorkerCount(len(docs))
	jobs := make(chan batchJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.index] = p.convertOne(ctx, job.doc)
			}
		}()
	}

	for i, doc := range docs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			for j := i; j < len(docs); j++ {
				results[j] = Result{ID: docs[j].ID, Err: ctx.Err()}
			}
			return results
		case jobs <- batchJob{index: i, doc: doc}:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (p *Pipeline) convertOne(ctx context.Context, doc Document) Result {
	started := time.Now()
	ctx = logging.ContextWithDocument(ctx, doc.ID)
	markdown, err := p.Convert(ctx, doc.Source)
	result := Result{
		ID:       doc.ID,
		Markdown: markdown,
		Err:      err,
		Duration: time.Since(started),
	}
	if err != nil {
		p.logger.WithContext(ctx).Warn("edxml.pipeline.document_failed", "error", err)
	}
	return result
}

func (p *Pipeline) effectiveWorkerCount(docCount int) int {
	workers := p.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if docCount > 0 && workers > docCount {
		return docCount
	}
	return workers
}
