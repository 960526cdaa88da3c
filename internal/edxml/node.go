package edxml

import (
	"maps"
	"strings"
)

// Kind distinguishes element nodes from text runs.
type Kind uint8

const (
	KindElement Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "element"
}

// Node is an immutable EdXML tree node. Element nodes carry a lowercased name,
// attributes and ordered children (text runs included); text nodes carry the
// raw text payload only. Each node is owned by exactly one parent.
type Node struct {
	kind     Kind
	name     string
	tag      Tag
	attrs    map[string]string
	children []*Node
	text     string
}

// NewElement builds an element node. Names are lowercased, attrs are copied
// with lowercased keys, and children are copied into an owned slice.
func NewElement(name string, attrs map[string]string, children ...*Node) *Node {
	name = strings.ToLower(name)
	node := &Node{
		kind: KindElement,
		name: name,
		tag:  LookupTag(name),
	}
	if len(attrs) > 0 {
		node.attrs = make(map[string]string, len(attrs))
		for key, value := range attrs {
			node.attrs[strings.ToLower(key)] = value
		}
	}
	for _, child := range children {
		if child != nil {
			node.children = append(node.children, child)
		}
	}
	return node
}

// NewText builds a text node.
func NewText(text string) *Node {
	return &Node{kind: KindText, text: text}
}

// EmptyDocument returns a document root with no children.
func EmptyDocument() *Node {
	return NewElement(TagDocument.String(), nil)
}

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsText() bool { return n != nil && n.kind == KindText }

// Name returns the lowercased element name, empty for text nodes.
func (n *Node) Name() string { return n.name }

// Tag returns the vocabulary entry for the element, TagUnknown for text
// nodes and unrecognized names.
func (n *Node) Tag() Tag {
	if n.kind == KindText {
		return TagUnknown
	}
	return n.tag
}

// Text returns the raw payload of a text node.
func (n *Node) Text() string { return n.text }

// Attr returns the attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	value, ok := n.attrs[strings.ToLower(name)]
	return value, ok
}

// AttrOr returns the attribute value or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if value, ok := n.Attr(name); ok {
		return value
	}
	return def
}

// Attrs returns a copy of the attribute map.
func (n *Node) Attrs() map[string]string {
	if len(n.attrs) == 0 {
		return map[string]string{}
	}
	return maps.Clone(n.attrs)
}

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len reports the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// TextContent concatenates every descendant text run in document order.
func (n *Node) TextContent() string {
	if n.kind == KindText {
		return n.text
	}
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	for _, child := range n.children {
		if child.kind == KindText {
			b.WriteString(child.text)
			continue
		}
		child.appendText(b)
	}
}
