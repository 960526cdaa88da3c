package lessons

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// SlideMeta is the optional YAML header of a slide source file.
type SlideMeta struct {
	ID          string `yaml:"id"`
	Index       int    `yaml:"index"`
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	FileURL     string `yaml:"file_url"`
	Explanation string `yaml:"explanation"`
}

// SlideSource is a slide file split into header and EdXML body.
type SlideSource struct {
	Meta SlideMeta
	Body string
}

// ParseSlideSource extracts the optional front matter from raw. Files without
// a header are returned whole as the body.
func ParseSlideSource(raw []byte) (SlideSource, error) {
	var meta SlideMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return SlideSource{}, fmt.Errorf("parse slide front matter: %w", err)
	}
	return SlideSource{Meta: meta, Body: string(body)}, nil
}

// Slide builds a Slide from the source. index is used when the header does
// not set one; the type defaults to document.
func (s SlideSource) Slide(index int) Slide {
	slideType := SlideType(strings.ToLower(strings.TrimSpace(s.Meta.Type)))
	if slideType == "" {
		slideType = SlideDocument
	}
	if s.Meta.Index > 0 {
		index = s.Meta.Index
	}
	return Slide{
		ID:          s.Meta.ID,
		Index:       index,
		Title:       s.Meta.Title,
		Type:        slideType,
		Content:     s.Body,
		Explanation: s.Meta.Explanation,
		FileURL:     s.Meta.FileURL,
	}
}
