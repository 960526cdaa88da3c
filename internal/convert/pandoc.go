package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// Pandoc shells out to the pandoc binary. Its Markdown writer produces the
// bracketed-attribute artifacts the post-processor repairs.
type Pandoc struct {
	path string
	args []string
}

// NewPandoc returns a converter invoking the binary at path ("pandoc" when empty).
func NewPandoc(path string, extraArgs ...string) *Pandoc {
	if strings.TrimSpace(path) == "" {
		path = "pandoc"
	}
	args := []string{"--from=html", "--to=markdown", "--wrap=none"}
	args = append(args, extraArgs...)
	return &Pandoc{path: path, args: args}
}

var _ interfaces.MarkdownConverter = (*Pandoc)(nil)

func (p *Pandoc) Name() string { return "pandoc" }

// Convert pipes markup through pandoc.
func (p *Pandoc) Convert(ctx context.Context, markup string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, p.path, p.args...)
	cmd.Stdin = strings.NewReader(markup)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", WrapBoundaryError(err, p.Name())
	}
	return stdout.String(), nil
}
