package render

import (
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-edxml/internal/edxml"
)

type rule func(s *state, n *edxml.Node) string

// ruleFor returns the rule for tag. The second result is false for tags
// outside the vocabulary, which render their children only.
func ruleFor(tag edxml.Tag) (rule, bool) {
	switch tag {
	case edxml.TagUnknown, edxml.TagDocument, edxml.TagSnippetFile, edxml.TagWebSnippetFile:
		return renderTransparent, true
	case edxml.TagParagraph:
		return wrap("p"), true
	case edxml.TagHeading:
		return renderHeading, true
	case edxml.TagBreak:
		return renderBreak, true
	case edxml.TagImage:
		return renderImage, true
	case edxml.TagList:
		return renderList, true
	case edxml.TagListItem:
		return wrap("li"), true
	case edxml.TagBold:
		return wrap("strong"), true
	case edxml.TagItalic:
		return wrap("em"), true
	case edxml.TagUnderline:
		return wrap("u"), true
	case edxml.TagBlockquote, edxml.TagQuote:
		return wrap("blockquote"), true
	case edxml.TagCode:
		return wrap("code"), true
	case edxml.TagPre:
		return renderPre, true
	case edxml.TagIframe:
		return renderIframe, true
	case edxml.TagLink:
		return renderLink, true
	case edxml.TagSnippet:
		return renderSnippet, true
	case edxml.TagWebSnippet:
		return renderWebSnippet, true
	case edxml.TagSpoiler:
		return renderSpoiler, true
	default:
		return renderTransparent, false
	}
}

func escapeText(text string) string {
	return html.EscapeString(text)
}

func renderTransparent(s *state, n *edxml.Node) string {
	return s.children(n)
}

func wrap(element string) rule {
	open, end := "<"+element+">", "</"+element+">"
	return func(s *state, n *edxml.Node) string {
		return open + s.children(n) + end
	}
}

// HeadingLevel parses a heading level attribute, clamped to 1..6 and
// defaulting to 1.
func HeadingLevel(raw string) int {
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return min(max(level, 1), 6)
}

func renderHeading(s *state, n *edxml.Node) string {
	tag := "h" + strconv.Itoa(HeadingLevel(n.AttrOr("level", "")))
	return "<" + tag + ">" + s.children(n) + "</" + tag + ">"
}

func renderBreak(*state, *edxml.Node) string {
	return "<br />"
}

func renderImage(s *state, n *edxml.Node) string {
	src := strings.TrimSpace(n.AttrOr("src", ""))
	if src == "" {
		return ""
	}
	resolved := s.renderer.images.Resolve(s.ctx, src)
	if resolved == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(html.EscapeString(resolved))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(n.AttrOr("alt", "")))
	b.WriteByte('"')
	for _, key := range []string{"width", "height"} {
		if value, ok := n.Attr(key); ok && strings.TrimSpace(value) != "" {
			b.WriteString(" " + key + `="` + html.EscapeString(strings.TrimSpace(value)) + `"`)
		}
	}
	b.WriteString(" />")
	return b.String()
}

func renderList(s *state, n *edxml.Node) string {
	element := "ul"
	if strings.EqualFold(strings.TrimSpace(n.AttrOr("style", "")), "number") {
		element = "ol"
	}
	return "<" + element + ">" + s.children(n) + "</" + element + ">"
}

func renderPre(s *state, n *edxml.Node) string {
	return "<pre><code>" + s.children(n) + "</code></pre>"
}

// renderIframe re-emits the element with every attribute escaped. Attributes
// are written in name order so output stays deterministic.
func renderIframe(s *state, n *edxml.Node) string {
	attrs := n.Attrs()
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<iframe")
	for _, key := range keys {
		b.WriteString(" " + html.EscapeString(key) + `="` + html.EscapeString(attrs[key]) + `"`)
	}
	b.WriteByte('>')
	b.WriteString(s.children(n))
	b.WriteString("</iframe>")
	return b.String()
}

func renderLink(s *state, n *edxml.Node) string {
	href := html.EscapeString(strings.TrimSpace(n.AttrOr("href", "")))
	return `<a href="` + href + `">` + s.children(n) + "</a>"
}

// renderSnippet emits a code block built from every snippet-file payload.
// Payloads are entity-decoded first so pre-escaped source is not double escaped.
func renderSnippet(s *state, n *edxml.Node) string {
	var files []string
	for _, child := range n.Children() {
		if child.Tag() == edxml.TagSnippetFile {
			files = append(files, child.TextContent())
		}
	}
	code := strings.Trim(strings.Join(files, "\n"), "\n")
	if strings.TrimSpace(code) == "" {
		return ""
	}
	code = html.EscapeString(html.UnescapeString(code))

	class := ""
	if lang := strings.TrimSpace(n.AttrOr("language", "")); lang != "" {
		class = ` class="language-` + html.EscapeString(strings.ToLower(lang)) + `"`
	}
	return "<pre><code" + class + ">" + code + "</code></pre>"
}

func renderSpoiler(s *state, n *edxml.Node) string {
	inner := strings.TrimSpace(s.children(n))
	fragment := "<details><summary>Expand</summary>\n" + inner + "\n</details>"
	return s.protect(fragment)
}
