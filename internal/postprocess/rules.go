package postprocess

import (
	"html"
	"regexp"
	"strings"
)

type lineRule struct {
	name  string
	apply func(line string) string
}

var lineRules = []lineRule{
	{name: "images", apply: fixImages},
	{name: "underline", apply: fixUnderline},
	{name: "list-markers", apply: fixListMarkers},
	{name: "emphasis-escapes", apply: stripEmphasisEscapes},
	{name: "trailing-backslash", apply: stripTrailingBackslash},
	{name: "bracket-escapes", apply: stripBracketEscapes},
	{name: "autolinks", apply: unwrapAutolinks},
}

var (
	emptyComment   = regexp.MustCompile(`^\s*<!--\s*-->\s*$`)
	imagePattern   = regexp.MustCompile(`!\[((?:\\.|[^\]])*)\]\(([^)\s]*)(?:\s+"[^"]*")?\)(\{[^}]*\})?`)
	sizeAttr       = regexp.MustCompile(`(width|height)\s*=\s*"?([^"\s}]+)"?`)
	underlineSpan  = regexp.MustCompile(`\[([^\]]+)\]\s*\{\.underline\}`)
	numberedBullet = regexp.MustCompile(`^(\s*)(\d+)\.(?:\s+-)+\s+`)
	doubledBullet  = regexp.MustCompile(`^(\s*)-(?:\s+-)+\s+`)
	thematicBreak  = regexp.MustCompile(`^\s*([-*_])(?:\s*[-*_])+\s*$`)
	autolink       = regexp.MustCompile(`(^|[^(])<(https?://[^\s<>]+)>`)
	markdownEscape = regexp.MustCompile("\\\\([!-/:-@\\[-`{-~])")
)

func isEmptyComment(line string) bool {
	return emptyComment.MatchString(line)
}

// fixImages turns ![alt](src){width=.. height=..} into a literal img tag.
func fixImages(line string) string {
	if !strings.Contains(line, "![") {
		return line
	}
	return imagePattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := imagePattern.FindStringSubmatch(match)
		alt := markdownEscape.ReplaceAllString(parts[1], "$1")
		src := parts[2]

		var b strings.Builder
		b.WriteString(`<img src="`)
		b.WriteString(html.EscapeString(src))
		b.WriteString(`" alt="`)
		b.WriteString(html.EscapeString(alt))
		b.WriteByte('"')
		if parts[3] != "" {
			sizes := map[string]string{}
			for _, attr := range sizeAttr.FindAllStringSubmatch(parts[3], -1) {
				sizes[attr[1]] = attr[2]
			}
			for _, key := range []string{"width", "height"} {
				if value, ok := sizes[key]; ok {
					b.WriteString(" " + key + `="` + html.EscapeString(value) + `"`)
				}
			}
		}
		b.WriteString(" />")
		return b.String()
	})
}

func fixUnderline(line string) string {
	if !strings.Contains(line, "{.underline}") {
		return line
	}
	return underlineSpan.ReplaceAllString(line, "<u>$1</u>")
}

// fixListMarkers collapses "1. - x" into "1. x" and "- - x" into "- x".
func fixListMarkers(line string) string {
	if thematicBreak.MatchString(line) {
		return line
	}
	line = numberedBullet.ReplaceAllString(line, "${1}${2}. ")
	return doubledBullet.ReplaceAllString(line, "${1}- ")
}

func stripEmphasisEscapes(line string) string {
	return stripEscapes(line, func(rest string) bool {
		return strings.HasPrefix(rest, "**") || strings.HasPrefix(rest, "__")
	})
}

func stripBracketEscapes(line string) string {
	return stripEscapes(line, func(rest string) bool {
		return strings.HasPrefix(rest, "[") || strings.HasPrefix(rest, "]")
	})
}

// stripTrailingBackslash drops a dangling escape backslash at the end of a
// line. An even run of backslashes is an escaped literal and is kept.
func stripTrailingBackslash(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	run := len(trimmed) - len(strings.TrimRight(trimmed, `\`))
	if run%2 == 0 {
		return line
	}
	return trimmed[:len(trimmed)-1]
}

func unwrapAutolinks(line string) string {
	if !strings.Contains(line, "<http") {
		return line
	}
	return autolink.ReplaceAllString(line, "${1}${2}")
}

// stripEscapes removes the backslash that ends an odd run of backslashes
// when the text following it satisfies next. Even runs are escaped
// backslashes and stay intact, which keeps the rule idempotent.
func stripEscapes(line string, next func(rest string) bool) string {
	if !strings.Contains(line, `\`) {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); {
		if line[i] != '\\' {
			b.WriteByte(line[i])
			i++
			continue
		}
		j := i
		for j < len(line) && line[j] == '\\' {
			j++
		}
		run := j - i
		if run%2 == 1 && next(line[j:]) {
			run--
		}
		b.WriteString(strings.Repeat(`\`, run))
		i = j
	}
	return b.String()
}
