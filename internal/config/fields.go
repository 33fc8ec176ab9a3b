package config

import (
	"strconv"
	"strings"

	"github.com/muurk/pagerterm/internal/document"
)

// overlay writes document values onto a Config field by field. A field whose
// node is absent is never touched; a field whose text cannot be converted is
// left unchanged and recorded as a diagnostic.
type overlay struct {
	path  string
	diags []error
}

// section is one named node of a document being overlaid.
type section struct {
	o      *overlay
	node   *document.Node
	prefix string
}

func (o *overlay) root(n *document.Node, name string) section {
	return section{o: o, node: n, prefix: name}
}

func (o *overlay) malformed(field, text, message string) {
	o.diags = append(o.diags, newFieldError(o.path, field, text, message))
}

// sub returns the named child section. A missing child yields a section
// whose reads are all no-ops.
func (s section) sub(name string) section {
	return section{o: s.o, node: s.node.Child(name), prefix: s.field(name)}
}

func (s section) present() bool {
	return s.node != nil
}

func (s section) field(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "." + name
}

// str sets dst to the text of the named leaf. An empty or null leaf is an
// explicit empty string.
func (s section) str(name string, dst *string) {
	n := s.node.Child(name)
	if n == nil {
		return
	}
	text, ok := n.Value()
	if !ok {
		s.o.malformed(s.field(name), "", "expected text, found section")
		return
	}
	*dst = text
}

// boolean sets dst to true iff the named node's trimmed text is exactly
// "true". Any other content, including a section, writes false.
func (s section) boolean(name string, dst *bool) {
	n := s.node.Child(name)
	if n == nil {
		return
	}
	text, _ := n.Value()
	*dst = strings.TrimSpace(text) == "true"
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

func bitSize[T unsigned]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	default:
		return 32
	}
}

// uintField parses the named leaf into dst. Text that is not a number, or
// that does not fit the field width, leaves dst unchanged.
func uintField[T unsigned](s section, name string, dst *T) {
	n := s.node.Child(name)
	if n == nil {
		return
	}
	text, ok := n.Value()
	if !ok {
		s.o.malformed(s.field(name), "", "expected number, found section")
		return
	}
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, bitSize[T]())
	if err != nil {
		s.o.malformed(s.field(name), text, "invalid unsigned integer")
		return
	}
	*dst = T(v)
}

// colour overlays the r, g and b attributes of the named node. Each missing
// component is left unchanged.
func (s section) colour(name string, dst *RGB) {
	c := s.sub(name)
	if !c.present() {
		return
	}
	for i, comp := range []string{"r", "g", "b"} {
		uintField(c, comp, &dst[i])
	}
}
