package render

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-edxml/internal/edxml"
)

func renderString(t *testing.T, raw string, opts ...Option) Result {
	t.Helper()
	return New(opts...).Render(context.Background(), edxml.Parse(raw))
}

func parseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse rendered markup: %v", err)
	}
	return doc
}

func TestRenderPreservesInlineOrder(t *testing.T) {
	got := renderString(t, `<paragraph>a<bold>b</bold>c</paragraph>`).Markup
	if got != "<p>a<strong>b</strong>c</p>" {
		t.Fatalf("unexpected markup %q", got)
	}
}

func TestRenderHeadingClamp(t *testing.T) {
	cases := map[string]string{
		`<heading level="9">X</heading>`:   "<h6>X</h6>",
		`<heading level="0">X</heading>`:   "<h1>X</h1>",
		`<heading level="abc">X</heading>`: "<h1>X</h1>",
		`<heading>X</heading>`:             "<h1>X</h1>",
		`<heading level=" 3 ">X</heading>`: "<h3>X</h3>",
	}
	for raw, want := range cases {
		if got := renderString(t, raw).Markup; got != want {
			t.Fatalf("%s: expected %q, got %q", raw, want, got)
		}
	}
}

func TestRenderOrderedList(t *testing.T) {
	result := renderString(t, `<list style="number"><list-item>x</list-item><list-item>y</list-item></list>`)
	doc := parseHTML(t, result.Markup)

	items := doc.Find("ol > li")
	if items.Length() != 2 {
		t.Fatalf("expected two ordered items, got %d in %q", items.Length(), result.Markup)
	}
	if items.Eq(0).Text() != "x" || items.Eq(1).Text() != "y" {
		t.Fatalf("unexpected item text in %q", result.Markup)
	}

	bullet := renderString(t, `<list style="bullet"><list-item>z</list-item></list>`).Markup
	if bullet != "<ul><li>z</li></ul>" {
		t.Fatalf("unexpected unordered list %q", bullet)
	}
}

func TestRenderImageURLMode(t *testing.T) {
	result := renderString(t, `<image src="http://x/y.png" width="300"/>`)
	img := parseHTML(t, result.Markup).Find("img")

	if src, _ := img.Attr("src"); src != "http://x/y.png" {
		t.Fatalf("expected unchanged src, got %q", src)
	}
	if width, _ := img.Attr("width"); width != "300" {
		t.Fatalf("expected width to be kept, got %q", width)
	}
	if _, ok := img.Attr("height"); ok {
		t.Fatal("absent height must not be emitted")
	}
}

func TestRenderImageWithoutSourceIsDropped(t *testing.T) {
	if got := renderString(t, `<paragraph>a<image src=""/>b</paragraph>`).Markup; got != "<p>ab</p>" {
		t.Fatalf("unexpected markup %q", got)
	}
}

func TestRenderEscapesText(t *testing.T) {
	got := renderString(t, `<paragraph>1 &lt; 2 &amp; "q"</paragraph>`).Markup
	if got != "<p>1 &lt; 2 &amp; &#34;q&#34;</p>" {
		t.Fatalf("unexpected markup %q", got)
	}
}

func TestRenderInlineWrappers(t *testing.T) {
	raw := `<paragraph><italic>i</italic><underline>u</underline><code>c</code><break/><link href="https://e.com/?a=1&amp;b=2">l</link></paragraph>`
	want := `<p><em>i</em><u>u</u><code>c</code><br /><a href="https://e.com/?a=1&amp;b=2">l</a></p>`
	if got := renderString(t, raw).Markup; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderQuotesAndPre(t *testing.T) {
	got := renderString(t, `<document><quote>q</quote><blockquote>b</blockquote><pre>x &lt; y</pre></document>`).Markup
	want := "<blockquote>q</blockquote><blockquote>b</blockquote><pre><code>x &lt; y</code></pre>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderIframeEscapesAttributes(t *testing.T) {
	result := renderString(t, `<iframe src="https://v.example/embed?a=1&amp;b=2" title="say &quot;hi&quot;"></iframe>`)

	if !strings.Contains(result.Markup, `src="https://v.example/embed?a=1&amp;b=2"`) {
		t.Fatalf("expected escaped src, got %q", result.Markup)
	}
	if !strings.Contains(result.Markup, `title="say &#34;hi&#34;"`) {
		t.Fatalf("expected escaped title, got %q", result.Markup)
	}
	frame := parseHTML(t, result.Markup).Find("iframe")
	if title, _ := frame.Attr("title"); title != `say "hi"` {
		t.Fatalf("unexpected decoded title %q", title)
	}
}

func TestRenderSnippet(t *testing.T) {
	raw := `<snippet language="Go"><snippet-file>a := 1</snippet-file><snippet-file>if a &amp;lt; 2 {}</snippet-file></snippet>`
	want := "<pre><code class=\"language-go\">a := 1\nif a &lt; 2 {}</code></pre>"
	if got := renderString(t, raw).Markup; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	plain := renderString(t, `<snippet><snippet-file>x</snippet-file></snippet>`).Markup
	if plain != "<pre><code>x</code></pre>" {
		t.Fatalf("unexpected snippet without language %q", plain)
	}

	if empty := renderString(t, `<snippet language="go"></snippet>`).Markup; empty != "" {
		t.Fatalf("expected empty snippet to render nothing, got %q", empty)
	}
}

func TestRenderUnknownTagIsTransparent(t *testing.T) {
	got := renderString(t, `<paragraph><callout>in<bold>b</bold></callout></paragraph>`).Markup
	if got != "<p>in<strong>b</strong></p>" {
		t.Fatalf("unexpected markup %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	raw := `<document><iframe width="1" height="2" src="s"></iframe><spoiler><paragraph>x</paragraph></spoiler></document>`
	first := renderString(t, raw)
	second := renderString(t, raw)
	if first.Markup != second.Markup {
		t.Fatalf("expected byte-identical output\n%s\n%s", first.Markup, second.Markup)
	}
}

type panickingResolver struct{}

func (panickingResolver) Resolve(context.Context, string) string { panic("resolver exploded") }

func TestRenderRecoversPerNode(t *testing.T) {
	result := renderString(t,
		`<paragraph>before<image src="https://x/y.png"/>after</paragraph>`,
		WithImageResolver(panickingResolver{}),
	)
	if result.Markup != "<p>beforeafter</p>" {
		t.Fatalf("expected failing node to render nothing, got %q", result.Markup)
	}
}

func TestEveryTagHasARule(t *testing.T) {
	for _, tag := range edxml.Tags() {
		if _, ok := ruleFor(tag); !ok {
			t.Fatalf("missing render rule for %s", tag)
		}
	}
	if _, ok := ruleFor(edxml.Tag(255)); ok {
		t.Fatalf("expected out of range tag to fall back to transparent rendering")
	}
}
