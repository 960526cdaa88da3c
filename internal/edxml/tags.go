package edxml

import "strings"

// Tag identifies an element in the EdXML vocabulary. The set is closed;
// anything outside it maps to TagUnknown and renders transparently.
type Tag uint8

const (
	TagUnknown Tag = iota
	TagDocument
	TagParagraph
	TagHeading
	TagBreak
	TagImage
	TagList
	TagListItem
	TagBold
	TagItalic
	TagUnderline
	TagBlockquote
	TagQuote
	TagCode
	TagPre
	TagIframe
	TagLink
	TagSnippet
	TagSnippetFile
	TagWebSnippet
	TagWebSnippetFile
	TagSpoiler

	tagCount
)

var tagNames = [tagCount]string{
	TagUnknown:        "",
	TagDocument:       "document",
	TagParagraph:      "paragraph",
	TagHeading:        "heading",
	TagBreak:          "break",
	TagImage:          "image",
	TagList:           "list",
	TagListItem:       "list-item",
	TagBold:           "bold",
	TagItalic:         "italic",
	TagUnderline:      "underline",
	TagBlockquote:     "blockquote",
	TagQuote:          "quote",
	TagCode:           "code",
	TagPre:            "pre",
	TagIframe:         "iframe",
	TagLink:           "link",
	TagSnippet:        "snippet",
	TagSnippetFile:    "snippet-file",
	TagWebSnippet:     "web-snippet",
	TagWebSnippetFile: "web-snippet-file",
	TagSpoiler:        "spoiler",
}

var tagsByName = func() map[string]Tag {
	out := make(map[string]Tag, len(tagNames))
	for tag, name := range tagNames {
		if name != "" {
			out[name] = Tag(tag)
		}
	}
	return out
}()

// LookupTag resolves an element name, case-insensitively.
func LookupTag(name string) Tag {
	if tag, ok := tagsByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return tag
	}
	return TagUnknown
}

// Tags returns every known tag, TagUnknown included, in declaration order.
func Tags() []Tag {
	out := make([]Tag, 0, tagCount)
	for tag := TagUnknown; tag < tagCount; tag++ {
		out = append(out, tag)
	}
	return out
}

func (t Tag) String() string {
	if t < tagCount && tagNames[t] != "" {
		return tagNames[t]
	}
	return "unknown"
}
