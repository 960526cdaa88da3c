package images

import (
	"fmt"
	"strings"
)

// Mode selects how image sources are emitted in rendered markup.
type Mode string

const (
	// ModeURL passes the source through unchanged without any network access.
	ModeURL Mode = "url"
	// ModeBase64 inlines the fetched bytes as a data URI.
	ModeBase64 Mode = "base64"
	// ModeFile downloads the image next to the Markdown output.
	ModeFile Mode = "file"
)

// ParseMode maps a configuration label onto a Mode. Empty labels default to ModeURL.
func ParseMode(label string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(label))) {
	case "", ModeURL:
		return ModeURL, nil
	case ModeBase64:
		return ModeBase64, nil
	case ModeFile:
		return ModeFile, nil
	default:
		return "", fmt.Errorf("images: unknown mode %q", label)
	}
}
