package convert

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-edxml/internal/runtimeconfig"
)

func convertHTML(t *testing.T, markup string) string {
	t.Helper()
	out, err := NewHTMLToMarkdown().Convert(context.Background(), markup)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return out
}

func TestHTMLToMarkdownBasics(t *testing.T) {
	out := convertHTML(t, "<h2>Title</h2><p>Hello <strong>world</strong></p>")
	if !strings.Contains(out, "## Title") {
		t.Fatalf("expected ATX heading, got %q", out)
	}
	if !strings.Contains(out, "Hello **world**") {
		t.Fatalf("expected strong text, got %q", out)
	}
}

func TestHTMLToMarkdownUnderlineSpan(t *testing.T) {
	out := convertHTML(t, "<p>a <u>under</u> b</p>")
	if !strings.Contains(out, "[under]{.underline}") {
		t.Fatalf("expected underline span syntax, got %q", out)
	}
}

func TestHTMLToMarkdownSizedImage(t *testing.T) {
	out := convertHTML(t, `<p><img src="a.png" alt="x" width="300" /></p>`)
	if !strings.Contains(out, `![x](a.png){width="300"}`) {
		t.Fatalf("expected sized image syntax, got %q", out)
	}

	plain := convertHTML(t, `<p><img src="b.png" alt="y" /></p>`)
	if !strings.Contains(plain, "![y](b.png)") || strings.Contains(plain, "{") {
		t.Fatalf("expected plain image syntax, got %q", plain)
	}
}

func TestHTMLToMarkdownKeepsIframes(t *testing.T) {
	out := convertHTML(t, `<iframe src="https://player.example/1"></iframe>`)
	if !strings.Contains(out, `<iframe src="https://player.example/1"></iframe>`) {
		t.Fatalf("expected iframe to be kept as HTML, got %q", out)
	}
}

func TestHTMLToMarkdownFencedCode(t *testing.T) {
	out := convertHTML(t, `<pre><code class="language-go">a := 1</code></pre>`)
	if !strings.Contains(out, "```go\na := 1\n```") {
		t.Fatalf("expected fenced code block, got %q", out)
	}
}

func TestFuncWrapsFailures(t *testing.T) {
	conv := Func(func(context.Context, string) (string, error) {
		return "", errors.New("engine down")
	})

	_, err := conv.Convert(context.Background(), "<p>x</p>")
	if !IsBoundaryFailure(err) {
		t.Fatalf("expected boundary failure, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
}

func TestPassthrough(t *testing.T) {
	out, err := Passthrough{}.Convert(context.Background(), "<p>x</p>")
	if err != nil || out != "<p>x</p>" {
		t.Fatalf("unexpected passthrough result %q %v", out, err)
	}
}

func TestPandocMissingBinaryIsBoundaryFailure(t *testing.T) {
	_, err := NewPandoc("/nonexistent/pandoc-binary").Convert(context.Background(), "<p>x</p>")
	if !IsBoundaryFailure(err) {
		t.Fatalf("expected boundary failure, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	conv, err := FromConfig(runtimeconfig.ConverterConfig{Engine: "pandoc", PandocPath: "/usr/bin/pandoc"})
	if err != nil || conv.Name() != "pandoc" {
		t.Fatalf("expected pandoc converter, got %v %v", conv, err)
	}

	conv, err = FromConfig(runtimeconfig.ConverterConfig{})
	if err != nil || conv.Name() != "html-to-markdown" {
		t.Fatalf("expected default converter, got %v %v", conv, err)
	}

	if _, err := FromConfig(runtimeconfig.ConverterConfig{Engine: "turndown"}); !errors.Is(err, runtimeconfig.ErrConverterEngineInvalid) {
		t.Fatalf("expected ErrConverterEngineInvalid, got %v", err)
	}
}

func TestHTMLToMarkdownDomainLeavesImageSourcesAlone(t *testing.T) {
	conv := NewHTMLToMarkdown(WithDomain("https://edstem.org"))
	out, err := conv.Convert(context.Background(),
		`<p><img src="images/img001.png" alt="a" width="40" /> <img src="images/img002.png" alt="b" title="Fig 2" /> <a href="/courses/1">course</a></p>`)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, want := range []string{
		`![a](images/img001.png){width="40"}`,
		`![b](images/img002.png "Fig 2")`,
		"(https://edstem.org/courses/1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
