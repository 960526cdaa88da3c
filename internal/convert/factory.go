package convert

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-edxml/internal/runtimeconfig"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// FromConfig builds the converter selected by cfg.Engine.
func FromConfig(cfg runtimeconfig.ConverterConfig) (interfaces.MarkdownConverter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", runtimeconfig.EngineHTMLToMarkdown:
		return NewHTMLToMarkdown(WithDomain(cfg.Domain)), nil
	case runtimeconfig.EnginePandoc:
		return NewPandoc(cfg.PandocPath), nil
	case runtimeconfig.EnginePassthrough:
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrConverterEngineInvalid, cfg.Engine)
	}
}
