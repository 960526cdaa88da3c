package render

import (
	"html"
	"io"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"

	"github.com/goliatone/go-edxml/internal/edxml"
)

const iframeStyle = "width: 100%; height: 450px; border: none;"

var horizontalSpace = regexp.MustCompile(`[ \t\f\r]{2,}`)

// WebSnippet holds the decoded sources of a web-snippet bundle in document order.
type WebSnippet struct {
	HTML []string
	CSS  []string
	JS   []string
}

// Empty reports whether the bundle has no recognised source.
func (w WebSnippet) Empty() bool {
	return len(w.HTML) == 0 && len(w.CSS) == 0 && len(w.JS) == 0
}

// Fragment assembles the HTML body, then a style block, then a script block.
func (w WebSnippet) Fragment() string {
	var b strings.Builder
	b.WriteString(strings.Join(w.HTML, "\n"))
	if len(w.CSS) > 0 {
		b.WriteString("\n<style>\n" + strings.Join(w.CSS, "\n") + "\n</style>")
	}
	if len(w.JS) > 0 {
		b.WriteString("\n<script>\n" + strings.Join(w.JS, "\n") + "\n</script>")
	}
	return strings.TrimSpace(b.String())
}

// CollectWebSnippet gathers the web-snippet-file children of n.
func CollectWebSnippet(n *edxml.Node) WebSnippet {
	var bundle WebSnippet
	for _, child := range n.Children() {
		if child.Tag() != edxml.TagWebSnippetFile {
			continue
		}
		source := strings.TrimSpace(html.UnescapeString(child.TextContent()))
		if source == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(child.AttrOr("language", ""))) {
		case "html":
			bundle.HTML = append(bundle.HTML, source)
		case "css":
			bundle.CSS = append(bundle.CSS, source)
		case "js", "javascript":
			bundle.JS = append(bundle.JS, source)
		}
	}
	return bundle
}

// SandboxedIframe wraps fragment as the srcdoc of a fixed-size iframe. The
// document is kept on one line so it stays a single HTML block in Markdown.
func SandboxedIframe(fragment string) string {
	srcdoc := strings.ReplaceAll(fragment, "&", "&amp;")
	srcdoc = strings.ReplaceAll(srcdoc, "'", "&#39;")
	lines := strings.Split(srcdoc, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	srcdoc = strings.Join(kept, "&#10;")
	return `<iframe srcdoc='` + srcdoc + `' style="` + iframeStyle + `" sandbox="allow-scripts"></iframe>`
}

// ContainsIframe reports whether fragment already declares an iframe element.
func ContainsIframe(fragment string) bool {
	tokenizer := nethtml.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case nethtml.ErrorToken:
			if tokenizer.Err() != io.EOF {
				return strings.Contains(strings.ToLower(fragment), "<iframe")
			}
			return false
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "iframe" {
				return true
			}
		}
	}
}

func renderWebSnippet(s *state, n *edxml.Node) string {
	bundle := CollectWebSnippet(n)
	if bundle.Empty() {
		return ""
	}
	fragment := bundle.Fragment()
	if fragment == "" {
		return ""
	}
	if !ContainsIframe(fragment) {
		fragment = SandboxedIframe(fragment)
	}
	return s.protect(fragment)
}
