package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-edxml/internal/edxml"
	"github.com/goliatone/go-edxml/internal/images"
	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// Result is the canonical markup for one document together with the
// placeholder table that must be drained after conversion.
type Result struct {
	Markup       string
	Placeholders *Placeholders
}

// Renderer turns an EdXML tree into canonical HTML-equivalent markup. It is
// stateless between calls and safe for concurrent use when its image resolver is.
type Renderer struct {
	images interfaces.ImageResolver
	logger interfaces.Logger
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithImageResolver sets the resolver used for image sources. Defaults to a
// url-mode resolver, which never touches the network.
func WithImageResolver(resolver interfaces.ImageResolver) Option {
	return func(r *Renderer) {
		if resolver != nil {
			r.images = resolver
		}
	}
}

// WithLogger attaches a logger for per-node render failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		images: images.NewResolver(images.ModeURL),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render produces canonical markup for root. Rendering the same tree twice
// yields identical output, placeholder tokens included.
func (r *Renderer) Render(ctx context.Context, root *edxml.Node) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &state{
		ctx:          ctx,
		renderer:     r,
		placeholders: NewPlaceholders(),
	}
	if root == nil {
		return Result{Placeholders: s.placeholders}
	}
	return Result{
		Markup:       s.node(root),
		Placeholders: s.placeholders,
	}
}

// state carries per-document rendering data.
type state struct {
	ctx          context.Context
	renderer     *Renderer
	placeholders *Placeholders
}

// node renders a single node. A failing rule renders nothing for that node
// and leaves its siblings intact.
func (s *state) node(n *edxml.Node) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.renderer.logger.Error("edxml.render.node_failed",
				"tag", n.Name(),
				"error", fmt.Sprint(rec),
			)
			out = ""
		}
	}()

	if n.IsText() {
		return escapeText(n.Text())
	}
	rule, _ := ruleFor(n.Tag())
	return rule(s, n)
}

func (s *state) children(n *edxml.Node) string {
	var b strings.Builder
	for i := 0; i < n.Len(); i++ {
		b.WriteString(s.node(n.Child(i)))
	}
	return b.String()
}

// protect registers fragment and returns the block that replaces it in the
// canonical markup.
func (s *state) protect(fragment string) string {
	token := s.placeholders.Protect(fragment)
	return "<p>" + token + "</p>"
}
