package edxml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

const parseFailedCode = "PARSE_FAILED"

var (
	errMultipleRoots = errors.New("edxml: content after document root")
	errStrayText     = errors.New("edxml: text outside document root")
	errNoRoot        = errors.New("edxml: missing document root")
)

// Parser converts raw EdXML into a Node tree. It never fails: malformed input
// is retried inside a synthetic document root and, when that also fails,
// degrades to an empty document.
type Parser struct {
	logger interfaces.Logger
}

// ParserOption customises a Parser.
type ParserOption func(*Parser)

// WithParserLogger attaches a logger used to report recovered parse failures.
func WithParserLogger(logger interfaces.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser constructs a Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse is shorthand for NewParser().Parse(raw).
func Parse(raw string) *Node {
	return NewParser().Parse(raw)
}

// Parse returns the tree for raw. The result is always a non-nil element.
func (p *Parser) Parse(raw string) *Node {
	root, err := ParseStrict(raw)
	if err == nil {
		return root
	}

	wrapped, wrapErr := ParseStrict("<document>" + raw + "</document>")
	if wrapErr == nil {
		p.logger.Debug("edxml.parser.wrapped", "error", err)
		return wrapped
	}

	p.logger.Warn("edxml.parser.recovered",
		"error", wrapErr,
		"input_bytes", len(raw),
	)
	return EmptyDocument()
}

// ParseStrict parses raw as exactly one well-formed document. Failures are
// returned as bad-input errors carrying the PARSE_FAILED text code.
func ParseStrict(raw string) (*Node, error) {
	root, err := decode(raw)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "edxml parse failed").
			WithTextCode(parseFailedCode)
	}
	return root, nil
}

func decode(raw string) (*Node, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	decoder.Strict = true
	decoder.Entity = xml.HTMLEntity

	var (
		root  *Node
		stack []*Node
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, errMultipleRoots
			}
			node := &Node{
				kind:  KindElement,
				name:  strings.ToLower(tok.Name.Local),
				attrs: convertAttrs(tok.Attr),
			}
			node.tag = LookupTag(node.name)
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			// The decoder enforces balanced tags in strict mode.
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(tok)) != "" {
					return nil, errStrayText
				}
				continue
			}
			appendText(stack[len(stack)-1], string(tok))
		}
	}

	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

// appendText merges adjacent character data (e.g. CDATA sections split around
// entities) into a single text run so tails stay word-adjacent.
func appendText(parent *Node, text string) {
	if text == "" {
		return
	}
	if n := len(parent.children); n > 0 && parent.children[n-1].kind == KindText {
		parent.children[n-1].text += text
		return
	}
	parent.children = append(parent.children, NewText(text))
}

func convertAttrs(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		name := attr.Name.Local
		if attr.Name.Space != "" && attr.Name.Space != "xmlns" {
			name = attr.Name.Space + ":" + name
		}
		out[strings.ToLower(name)] = attr.Value
	}
	return out
}
