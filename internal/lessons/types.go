package lessons

import "context"

// SlideType names the kind of slide a lesson contains.
type SlideType string

const (
	SlideDocument SlideType = "document"
	SlideCode     SlideType = "code"
	SlideQuiz     SlideType = "quiz"
	SlidePDF      SlideType = "pdf"
)

// Slide is one page of a lesson. Content and Explanation hold EdXML.
type Slide struct {
	ID          string
	Index       int
	Title       string
	Type        SlideType
	Content     string
	Explanation string
	FileURL     string
}

// Lesson is an ordered list of slides.
type Lesson struct {
	ID     string
	Title  string
	Slides []Slide
}

// DocumentConverter turns EdXML into Markdown. *pipeline.Pipeline satisfies it.
type DocumentConverter interface {
	Convert(ctx context.Context, raw string) (string, error)
}
