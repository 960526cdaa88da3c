package convert

import (
	"context"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// HTMLToMarkdown is the default conversion boundary, backed by
// github.com/JohannesKaufmann/html-to-markdown/v2.
type HTMLToMarkdown struct {
	conv   *converter.Converter
	domain string
}

// HTMLToMarkdownOption customises the converter.
type HTMLToMarkdownOption func(*htmlToMarkdownConfig)

type htmlToMarkdownConfig struct {
	domain  string
	plugins []converter.Plugin
}

// WithDomain absolutizes relative link targets against domain. Image sources
// are left as resolved.
func WithDomain(domain string) HTMLToMarkdownOption {
	return func(cfg *htmlToMarkdownConfig) {
		cfg.domain = strings.TrimSpace(domain)
	}
}

// WithPlugins appends extra html-to-markdown plugins.
func WithPlugins(plugins ...converter.Plugin) HTMLToMarkdownOption {
	return func(cfg *htmlToMarkdownConfig) {
		cfg.plugins = append(cfg.plugins, plugins...)
	}
}

// NewHTMLToMarkdown builds the converter with dash bullets, backtick fences,
// ATX headings and the attribute plugin that emits the extension syntax the
// post-processor expects.
func NewHTMLToMarkdown(opts ...HTMLToMarkdownOption) *HTMLToMarkdown {
	cfg := &htmlToMarkdownConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(
			commonmark.WithBulletListMarker("-"),
			commonmark.WithCodeBlockFence("```"),
			commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
			commonmark.WithEmDelimiter("*"),
			commonmark.WithStrongDelimiter("**"),
			commonmark.WithListEndComment(false),
		),
		NewAttributesPlugin(),
	}
	plugins = append(plugins, cfg.plugins...)

	return &HTMLToMarkdown{
		conv:   converter.NewConverter(converter.WithPlugins(plugins...)),
		domain: cfg.domain,
	}
}

var _ interfaces.MarkdownConverter = (*HTMLToMarkdown)(nil)

func (c *HTMLToMarkdown) Name() string { return "html-to-markdown" }

// Convert satisfies interfaces.MarkdownConverter.
func (c *HTMLToMarkdown) Convert(ctx context.Context, markup string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []converter.ConvertOptionFunc{converter.WithContext(ctx)}
	if c.domain != "" {
		opts = append(opts, converter.WithDomain(c.domain))
	}
	out, err := c.conv.ConvertString(markup, opts...)
	if err != nil {
		return "", WrapBoundaryError(err, c.Name())
	}
	return out, nil
}

// attributesPlugin renders the constructs plain CommonMark cannot express
// using the bracketed-attribute extension syntax: underline spans become
// [text]{.underline} and sized images become ![alt](src){width=".." height=".."}.
// Image sources are written verbatim.
// Iframes are kept as raw HTML instead of being dropped.
type attributesPlugin struct{}

// NewAttributesPlugin returns the html-to-markdown plugin used by NewHTMLToMarkdown.
func NewAttributesPlugin() converter.Plugin {
	return &attributesPlugin{}
}

func (p *attributesPlugin) Name() string { return "edxml-attributes" }

func (p *attributesPlugin) Init(conv *converter.Converter) error {
	conv.Register.RendererFor("u", converter.TagTypeInline, p.renderUnderline, converter.PriorityEarly)
	conv.Register.RendererFor("img", converter.TagTypeInline, p.renderImage, converter.PriorityEarly)
	conv.Register.RendererFor("iframe", converter.TagTypeBlock, base.RenderAsHTML, converter.PriorityEarly)
	return nil
}

func (p *attributesPlugin) renderUnderline(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf strings.Builder
	ctx.RenderChildNodes(ctx, &buf, n)
	content := strings.TrimSpace(buf.String())
	if content == "" {
		return converter.RenderSuccess
	}
	w.WriteString("[" + content + "]{.underline}")
	return converter.RenderSuccess
}

// renderImage writes every image itself so src reaches the Markdown exactly
// as the image resolver produced it. Relative file-mode paths must stay
// relative even when a domain is configured for links.
func (p *attributesPlugin) renderImage(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
	if src == "" {
		return converter.RenderSuccess
	}
	width := strings.TrimSpace(dom.GetAttributeOr(n, "width", ""))
	height := strings.TrimSpace(dom.GetAttributeOr(n, "height", ""))

	alt := strings.ReplaceAll(dom.GetAttributeOr(n, "alt", ""), "\n", " ")
	alt = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(alt)

	target := imageDestination.Replace(src)
	if title := strings.TrimSpace(dom.GetAttributeOr(n, "title", "")); title != "" {
		target += ` "` + strings.ReplaceAll(title, `"`, "&quot;") + `"`
	}

	var attrs []string
	if width != "" {
		attrs = append(attrs, `width="`+width+`"`)
	}
	if height != "" {
		attrs = append(attrs, `height="`+height+`"`)
	}

	w.WriteString("![" + alt + "](" + target + ")")
	if len(attrs) > 0 {
		w.WriteString("{" + strings.Join(attrs, " ") + "}")
	}
	return converter.RenderSuccess
}

var imageDestination = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29")
