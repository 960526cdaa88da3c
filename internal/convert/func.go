package convert

import (
	"context"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// Func adapts a plain function into a MarkdownConverter.
type Func func(ctx context.Context, markup string) (string, error)

var _ interfaces.MarkdownConverter = Func(nil)

func (f Func) Name() string { return "func" }

// Convert calls f, tagging failures as boundary errors.
func (f Func) Convert(ctx context.Context, markup string) (string, error) {
	if f == nil {
		return markup, nil
	}
	out, err := f(ctx, markup)
	if err != nil {
		return "", WrapBoundaryError(err, f.Name())
	}
	return out, nil
}

// Passthrough returns the canonical markup unchanged. It is useful for
// inspecting renderer output.
type Passthrough struct{}

var _ interfaces.MarkdownConverter = Passthrough{}

func (Passthrough) Name() string { return "passthrough" }

func (Passthrough) Convert(_ context.Context, markup string) (string, error) {
	return markup, nil
}
