package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-edxml/internal/convert"
	"github.com/goliatone/go-edxml/internal/edxml"
	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/internal/postprocess"
	"github.com/goliatone/go-edxml/internal/render"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// ErrConverterRequired indicates the pipeline was built without a conversion boundary.
var ErrConverterRequired = errors.New("pipeline: markdown converter is required")

const archiveFailedCode = "ARCHIVE_FAILED"

// Pipeline runs Parse, Render, Convert and Postprocess for one document at a
// time. A single Pipeline may be shared across goroutines as long as its
// image resolver is thread-safe.
type Pipeline struct {
	parser        *edxml.Parser
	renderer      *render.Renderer
	converter     interfaces.MarkdownConverter
	archive       interfaces.ConversionArchive
	logger        interfaces.Logger
	headingOffset int
	workers       int
	fingerprint   []string
	now           func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithParser overrides the EdXML parser.
func WithParser(parser *edxml.Parser) Option {
	return func(p *Pipeline) {
		if parser != nil {
			p.parser = parser
		}
	}
}

// WithRenderer overrides the renderer, typically to inject an image resolver.
func WithRenderer(renderer *render.Renderer) Option {
	return func(p *Pipeline) {
		if renderer != nil {
			p.renderer = renderer
		}
	}
}

// WithArchive enables memoization of finished conversions.
func WithArchive(archive interfaces.ConversionArchive) Option {
	return func(p *Pipeline) {
		p.archive = archive
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHeadingOffset demotes every heading of the final Markdown by offset.
func WithHeadingOffset(offset int) Option {
	return func(p *Pipeline) {
		if offset >= 0 {
			p.headingOffset = offset
		}
	}
}

// WithWorkers sets the ConvertBatch pool size. Zero uses runtime.NumCPU().
func WithWorkers(workers int) Option {
	return func(p *Pipeline) {
		if workers >= 0 {
			p.workers = workers
		}
	}
}

// WithFingerprint adds settings that change conversion output, such as the
// image mode, to the archive key.
func WithFingerprint(parts ...string) Option {
	return func(p *Pipeline) {
		p.fingerprint = append(p.fingerprint, parts...)
	}
}

// WithClock overrides the clock used to stamp archive entries.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Pipeline around converter.
func New(converter interfaces.MarkdownConverter, opts ...Option) (*Pipeline, error) {
	if converter == nil {
		return nil, ErrConverterRequired
	}
	p := &Pipeline{
		converter: converter,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.parser == nil {
		p.parser = edxml.NewParser(edxml.WithParserLogger(p.logger))
	}
	if p.renderer == nil {
		p.renderer = render.New(render.WithLogger(p.logger))
	}
	return p, nil
}

// Converter returns the conversion boundary in use.
func (p *Pipeline) Converter() interfaces.MarkdownConverter { return p.converter }

// RenderCanonical parses raw and renders the canonical markup without
// crossing the conversion boundary.
func (p *Pipeline) RenderCanonical(ctx context.Context, raw string) render.Result {
	return p.renderer.Render(ctx, p.parser.Parse(raw))
}

// Convert turns raw EdXML into final Markdown. The only error it returns for
// a document is a conversion boundary failure (or context cancellation).
func (p *Pipeline) Convert(ctx context.Context, raw string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ""
	if p.archive != nil {
		key = p.ArchiveKey(raw)
		if cached, ok := p.lookup(ctx, key); ok {
			return cached, nil
		}
	}

	result := p.RenderCanonical(ctx, raw)
	if strings.TrimSpace(result.Markup) == "" {
		return "", nil
	}

	markdown, err := p.converter.Convert(ctx, result.Markup)
	if err != nil {
		err = convert.WrapBoundaryError(err, p.converter.Name())
		p.logger.WithContext(ctx).Error("edxml.pipeline.conversion_failed",
			"converter", p.converter.Name(),
			"error", err,
		)
		return "", err
	}

	markdown = postprocess.Process(markdown, result.Placeholders)
	if p.headingOffset > 0 {
		markdown = postprocess.ShiftHeadings(markdown, p.headingOffset)
	}

	if p.archive != nil {
		p.save(ctx, key, raw, markdown)
	}
	return markdown, nil
}

// ArchiveKey derives the memoization key for raw under the current settings.
func (p *Pipeline) ArchiveKey(raw string) string {
	sum := sha256.Sum256([]byte(p.Fingerprint() + "\x00" + raw))
	return hex.EncodeToString(sum[:])
}

// Fingerprint describes the settings that influence conversion output.
func (p *Pipeline) Fingerprint() string {
	parts := append([]string{p.converter.Name()}, p.fingerprint...)
	if p.headingOffset > 0 {
		parts = append(parts, "offset="+strconv.Itoa(p.headingOffset))
	}
	return strings.Join(parts, "|")
}

func (p *Pipeline) lookup(ctx context.Context, key string) (string, bool) {
	entry, err := p.archive.Lookup(ctx, key)
	if err != nil {
		p.logger.Warn("edxml.pipeline.archive_lookup_failed", "key", key, "error", wrapArchiveError(err))
		return "", false
	}
	if entry == nil {
		return "", false
	}
	p.logger.Debug("edxml.pipeline.archive_hit", "key", key)
	return entry.Markdown, true
}

func (p *Pipeline) save(ctx context.Context, key, raw, markdown string) {
	err := p.archive.Save(ctx, interfaces.ArchivedConversion{
		Key:         key,
		Fingerprint: p.Fingerprint(),
		Source:      raw,
		Markdown:    markdown,
		CreatedAt:   p.now().UTC(),
	})
	if err != nil {
		p.logger.Warn("edxml.pipeline.archive_save_failed", "key", key, "error", wrapArchiveError(err))
	}
}

func wrapArchiveError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "conversion archive failed").
		WithTextCode(archiveFailedCode)
}
