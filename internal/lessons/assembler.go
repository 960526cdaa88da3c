package lessons

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/internal/postprocess"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// ErrConverterRequired indicates the assembler has no document converter.
var ErrConverterRequired = errors.New("lessons: document converter is required")

// DefaultHeadingOffset pushes slide body headings below the slide title.
const DefaultHeadingOffset = 1

const (
	quizNote       = "_Quiz slide: questions/responses not converted to markdown yet._"
	missingPDFNote = "_PDF slide: file URL missing._"
)

// Assembler stitches the slides of a lesson into one Markdown document.
type Assembler struct {
	converter     DocumentConverter
	assets        interfaces.ImageResolver
	logger        interfaces.Logger
	headingOffset int
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithAssetResolver rewrites PDF URLs, e.g. to a downloaded local copy.
func WithAssetResolver(resolver interfaces.ImageResolver) Option {
	return func(a *Assembler) {
		a.assets = resolver
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHeadingOffset sets how far slide body headings are demoted.
func WithHeadingOffset(offset int) Option {
	return func(a *Assembler) {
		if offset >= 0 {
			a.headingOffset = offset
		}
	}
}

// NewAssembler constructs an Assembler around converter.
func NewAssembler(converter DocumentConverter, opts ...Option) (*Assembler, error) {
	if converter == nil {
		return nil, ErrConverterRequired
	}
	a := &Assembler{
		converter:     converter,
		logger:        logging.NoOp(),
		headingOffset: DefaultHeadingOffset,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Assemble renders every slide of lesson in order. A slide whose body fails
// to convert keeps its title and loses its body; only context cancellation
// aborts the whole lesson.
func (a *Assembler) Assemble(ctx context.Context, lesson Lesson) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	parts := make([]string, 0, len(lesson.Slides)*2)
	for _, slide := range lesson.Slides {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		parts = append(parts, a.slide(ctx, lesson, slide)...)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

func (a *Assembler) slide(ctx context.Context, lesson Lesson, slide Slide) []string {
	title := SlideTitle(slide)
	parts := []string{"# " + title}

	switch slide.Type {
	case SlideDocument:
		parts = appendNonEmpty(parts, a.body(ctx, lesson, slide, "content", slide.Content))
	case SlideCode:
		parts = appendNonEmpty(parts, a.body(ctx, lesson, slide, "content", slide.Content))
		if explanation := a.body(ctx, lesson, slide, "explanation", slide.Explanation); explanation != "" {
			parts = append(parts, "# "+title+" - Solution", explanation)
		}
	case SlideQuiz:
		parts = append(parts, quizNote)
	case SlidePDF:
		parts = append(parts, a.pdfLink(ctx, slide.FileURL))
	default:
		parts = append(parts, "_Slide of type `"+string(slide.Type)+"` not converted._")
	}
	return parts
}

func (a *Assembler) body(ctx context.Context, lesson Lesson, slide Slide, field, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	md, err := a.converter.Convert(ctx, raw)
	if err != nil {
		a.logger.Error("edxml.lessons.slide_failed",
			"lesson_id", lesson.ID,
			"slide_id", slide.ID,
			"field", field,
			"error", err,
		)
		return ""
	}
	return postprocess.ShiftHeadings(md, a.headingOffset)
}

func (a *Assembler) pdfLink(ctx context.Context, fileURL string) string {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return missingPDFNote
	}
	target := fileURL
	if a.assets != nil {
		if resolved := a.assets.Resolve(ctx, fileURL); resolved != "" {
			target = resolved
		}
	}
	return "[" + pdfLabel(target) + "](" + target + ")"
}

// SlideTitle returns the slide title or "Slide <index>" when it is blank.
func SlideTitle(slide Slide) string {
	if title := strings.TrimSpace(slide.Title); title != "" {
		return title
	}
	return "Slide " + strconv.Itoa(slide.Index)
}

func pdfLabel(target string) string {
	p := target
	if parsed, err := url.Parse(target); err == nil && parsed.Path != "" {
		p = parsed.Path
	}
	name := path.Base(strings.TrimRight(p, "/"))
	if name == "." || name == "/" || name == "" {
		return "PDF"
	}
	return name
}

func appendNonEmpty(parts []string, value string) []string {
	if value == "" {
		return parts
	}
	return append(parts, value)
}
