package postprocess

import (
	"regexp"
	"strings"
)

// Restorer swaps opaque placeholder tokens back for their protected
// fragments. *render.Placeholders satisfies it.
type Restorer interface {
	Restore(text string) string
}

// Process repairs the known artifacts of the conversion boundary and then
// restores protected fragments. Fenced code blocks and raw HTML blocks pass
// through untouched. Process is idempotent on its own output.
func Process(markdown string, placeholders Restorer) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")

	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	scan := newBlockScanner()

	for _, line := range lines {
		if scan.protected(line) {
			out = append(out, line)
			continue
		}
		if isEmptyComment(line) {
			continue
		}
		out = append(out, fixLine(line))
	}

	result := strings.Join(out, "\n")
	if placeholders != nil {
		result = placeholders.Restore(result)
	}
	return strings.TrimSpace(result)
}

// fixLine applies every line rule in order.
func fixLine(line string) string {
	for _, rule := range lineRules {
		line = rule.apply(line)
	}
	return line
}

// blockScanner tracks fenced code blocks and raw HTML blocks so neither is
// rewritten. An HTML block opens on a line whose content, after indentation
// and list markers, starts with a tag. It ends at the next blank line unless
// a details element or a raw text element (script, style, pre, textarea) is
// still open.
type blockScanner struct {
	fence        string
	inHTML       bool
	detailsDepth int
	rawClose     string
}

var (
	listMarkers = regexp.MustCompile(`^(?:(?:[-*+]|\d+[.)])\s+)*`)
	htmlTagLine = regexp.MustCompile(`^</?[a-z][a-z0-9-]*(?:\s|/?>|$)`)
	rawTextTags = []string{"script", "style", "pre", "textarea"}
)

func newBlockScanner() *blockScanner {
	return &blockScanner{}
}

func (b *blockScanner) protected(line string) bool {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	if b.rawClose != "" {
		if strings.Contains(lower, b.rawClose) {
			b.rawClose = ""
		}
		b.track(lower)
		return true
	}
	if b.fence != "" {
		if strings.HasPrefix(trimmed, b.fence) {
			b.fence = ""
		}
		return true
	}

	if trimmed == "" {
		if b.detailsDepth > 0 {
			return true
		}
		b.inHTML = false
		return false
	}
	if !b.inHTML && b.detailsDepth == 0 {
		if fence := fenceMarker(trimmed); fence != "" {
			b.fence = fence
			return true
		}
		if !htmlTagLine.MatchString(listMarkers.ReplaceAllString(lower, "")) {
			return false
		}
		b.inHTML = true
	}
	b.track(lower)
	return true
}

// track updates open element state from one protected line.
func (b *blockScanner) track(lower string) {
	b.detailsDepth += strings.Count(lower, "<details") - strings.Count(lower, "</details>")
	if b.detailsDepth < 0 {
		b.detailsDepth = 0
	}
	if b.rawClose != "" {
		return
	}
	for _, tag := range rawTextTags {
		open := strings.LastIndex(lower, "<"+tag)
		if open >= 0 && strings.LastIndex(lower, "</"+tag+">") < open {
			b.rawClose = "</" + tag + ">"
			return
		}
	}
}

func fenceMarker(trimmed string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker
		}
	}
	return ""
}
