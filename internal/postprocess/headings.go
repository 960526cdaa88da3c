package postprocess

import (
	"regexp"
	"strings"
)

var atxHeading = regexp.MustCompile(`^(#{1,6})(\s+.*)$`)

// ShiftHeadings demotes every ATX heading by offset levels, clamped to 6.
// Lines inside fenced code blocks are left alone.
func ShiftHeadings(markdown string, offset int) string {
	if offset <= 0 || markdown == "" {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if marker := fenceMarker(trimmed); marker != "" {
			fence = marker
			continue
		}

		match := atxHeading.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		level := min(len(match[1])+offset, 6)
		lines[i] = strings.Repeat("#", level) + match[2]
	}
	return strings.Join(lines, "\n")
}
