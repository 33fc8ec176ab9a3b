package document

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingRoot is returned when a document does not carry the expected
// root section (config, profile, theme, keymap).
var ErrMissingRoot = errors.New("missing root element")

// Node is one element of a parsed document tree.
//
// A node is either a section (Children, keyed by name and kept in document
// order), a list (Items) or a leaf carrying text. A leaf whose value is empty
// or null is still present: Text is "" and IsText is true.
type Node struct {
	Name     string
	Text     string
	IsText   bool
	Children []*Node
	Items    []*Node
	Line     int
}

// Child returns the first child section or leaf with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Path walks nested children, returning nil as soon as one is missing.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Value returns the text of a leaf. ok is false when n is nil or not a leaf.
func (n *Node) Value() (string, bool) {
	if n == nil || !n.IsText {
		return "", false
	}
	return n.Text, true
}

// Attr returns the text of the named leaf child. Theme colour components and
// keymap identifiers are read this way.
func (n *Node) Attr(name string) (string, bool) {
	return n.Child(name).Value()
}

// Parse decodes a YAML document into a Node tree rooted at an unnamed node.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("failed to parse document: empty document")
	}

	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse document: line %d: top level must be a mapping", top.Line)
	}
	return convert("", top), nil
}

// ParseRoot parses data and returns the section named root.
func ParseRoot(data []byte, root string) (*Node, error) {
	tree, err := Parse(data)
	if err != nil {
		return nil, err
	}
	node := tree.Child(root)
	if node == nil {
		return nil, fmt.Errorf("%w %q", ErrMissingRoot, root)
	}
	return node, nil
}

func convert(name string, y *yaml.Node) *Node {
	if y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}

	n := &Node{Name: name, Line: y.Line}

	switch y.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i]
			n.Children = append(n.Children, convert(key.Value, y.Content[i+1]))
		}
	case yaml.SequenceNode:
		for _, item := range y.Content {
			n.Items = append(n.Items, convert(name, item))
		}
	case yaml.ScalarNode:
		n.IsText = true
		if y.Tag != "!!null" {
			n.Text = y.Value
		}
	}

	return n
}

// String renders the tree for debugging.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case n.IsText:
		fmt.Fprintf(b, "%s%s=%q\n", indent, n.Name, n.Text)
	case len(n.Items) > 0:
		fmt.Fprintf(b, "%s%s[%d]\n", indent, n.Name, len(n.Items))
		for _, item := range n.Items {
			item.write(b, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, n.Name)
		for _, c := range n.Children {
			c.write(b, depth+1)
		}
	}
}
