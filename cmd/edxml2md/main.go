package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-edxml"
	"github.com/goliatone/go-edxml/cmd/edxml2md/internal/bootstrap"
	"github.com/goliatone/go-edxml/internal/lessons"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("edxml2md: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("edxml2md", flag.ContinueOnError)
	imageMode := fs.String("image-mode", edxml.ImageModeURL, "Image handling: url, base64 or file")
	imageDir := fs.String("image-dir", "", "Directory for downloaded images (file mode)")
	markdownDir := fs.String("markdown-dir", "", "Directory the Markdown will live in; image paths are relative to it")
	headingOffset := fs.Int("heading-offset", 0, "Demote every heading by this many levels (0-5)")
	workers := fs.Int("workers", 0, "Batch worker count (0 uses the CPU count)")
	engine := fs.String("engine", edxml.EngineHTMLToMarkdown, "Conversion engine: html-to-markdown, pandoc or passthrough")
	pandocPath := fs.String("pandoc", "pandoc", "Path to the pandoc binary")
	domain := fs.String("domain", "", "Base URL used to absolutize relative links")
	archiveDSN := fs.String("archive", "", "SQLite DSN used to memoize conversions")
	lesson := fs.Bool("lesson", false, "Treat each input file as a slide and assemble one lesson")
	preview := fs.Bool("preview", false, "Emit an HTML preview instead of Markdown")
	output := fs.String("o", "", "Write output to this file instead of stdout")
	logLevel := fs.String("log-level", "", "Enable logging at this level (trace, debug, info, warn, error)")
	logProvider := fs.String("log-provider", "console", "Logging provider: console or gologger")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ImageMode:     *imageMode,
		ImageDir:      *imageDir,
		MarkdownDir:   *markdownDir,
		HeadingOffset: *headingOffset,
		Workers:       *workers,
		Engine:        *engine,
		PandocPath:    *pandocPath,
		Domain:        *domain,
		ArchiveDSN:    *archiveDSN,
		Preview:       *preview,
		LogProvider:   *logProvider,
		LogLevel:      *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	inputs, err := readInputs(fs.Args(), stdin)
	if err != nil {
		return err
	}

	var markdown string
	switch {
	case *lesson:
		markdown, err = assembleLesson(ctx, module, inputs)
	case len(inputs) == 1:
		markdown, err = convertDocument(ctx, module, inputs[0])
	default:
		markdown, err = convertBatch(ctx, module, inputs)
	}
	if err != nil {
		return err
	}

	payload := []byte(markdown)
	if *preview {
		title := inputs[0].name
		if payload, err = module.Module.Preview(title, markdown); err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
	}

	if *output != "" {
		return os.WriteFile(*output, payload, 0o644)
	}
	_, err = stdout.Write(payload)
	return err
}

type input struct {
	name string
	data []byte
}

func readInputs(paths []string, stdin io.Reader) ([]input, error) {
	if len(paths) == 0 || (len(paths) == 1 && paths[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []input{{name: "stdin", data: data}}, nil
	}

	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		inputs = append(inputs, input{name: filepath.Base(path), data: data})
	}
	return inputs, nil
}

func convertDocument(ctx context.Context, module *bootstrap.Module, in input) (string, error) {
	var markdown string
	err := module.Module.ConvertDocumentHandler().Execute(ctx, edxml.ConvertDocumentCommand{
		DocumentID: in.name,
		Source:     string(in.data),
		Output: func(md string) error {
			markdown = md
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", in.name, err)
	}
	return withTrailingNewline(markdown), nil
}

func convertBatch(ctx context.Context, module *bootstrap.Module, inputs []input) (string, error) {
	docs := make([]edxml.Document, 0, len(inputs))
	for _, in := range inputs {
		docs = append(docs, edxml.Document{ID: in.name, Source: string(in.data)})
	}

	var (
		parts []string
		errs  []error
	)
	for _, result := range module.Module.ConvertBatch(ctx, docs) {
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("convert %s: %w", result.ID, result.Err))
			continue
		}
		module.Logger.Debug("edxml.cli.converted", "document_id", result.ID, "duration_ms", result.Duration.Milliseconds())
		parts = append(parts, result.Markdown)
	}
	if err := errors.Join(errs...); err != nil {
		return "", err
	}
	return withTrailingNewline(strings.Join(parts, "\n\n")), nil
}

func assembleLesson(ctx context.Context, module *bootstrap.Module, inputs []input) (string, error) {
	lesson := edxml.Lesson{ID: inputs[0].name}
	for i, in := range inputs {
		source, err := lessons.ParseSlideSource(in.data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", in.name, err)
		}
		slide := source.Slide(i + 1)
		if slide.ID == "" {
			slide.ID = in.name
		}
		lesson.Slides = append(lesson.Slides, slide)
	}

	var markdown string
	err := module.Module.AssembleLessonHandler().Execute(ctx, edxml.AssembleLessonCommand{
		Lesson: lesson,
		Output: func(md string) error {
			markdown = md
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("assemble lesson: %w", err)
	}
	return markdown, nil
}

func withTrailingNewline(markdown string) string {
	if markdown == "" || strings.HasSuffix(markdown, "\n") {
		return markdown
	}
	return markdown + "\n"
}
