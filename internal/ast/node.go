package ast

import "fmt"

// Position locates a node in the source text. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String formats the position as "line L, column C".
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Attribute is a raw name/value pair as written in the source.
type Attribute struct {
	Name  string
	Value string
}

// Node is a component in the parse tree.
type Node struct {
	Kind     Kind
	Attrs    []Attribute
	Children []*Node

	// Content holds the verbatim inner markup of ending kinds and the text of comments.
	Content string

	Pos Position
}

// Tag returns the node's tag name.
func (n *Node) Tag() string {
	return n.Kind.Tag()
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attribute{Name: name, Value: value})
}

// AttrMap copies the attributes into a map.
func (n *Node) AttrMap() map[string]string {
	m := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Describe names the node for error messages, e.g. "<mj-image> at line 3, column 5".
func (n *Node) Describe() string {
	if n.Kind == KindComment {
		return "comment at " + n.Pos.String()
	}
	return fmt.Sprintf("<%s> at %s", n.Tag(), n.Pos)
}

// Document is the root of a parsed template.
type Document struct {
	Root *Node // the <mjml> element
	Head *Node // nil when the document has no mj-head
	Body *Node // nil when the document has no mj-body
}

// Lang returns the lang attribute of the root element.
func (d *Document) Lang() string {
	if d.Root == nil {
		return ""
	}
	v, _ := d.Root.Attr("lang")
	return v
}

// Dir returns the dir attribute of the root element.
func (d *Document) Dir() string {
	if d.Root == nil {
		return ""
	}
	v, _ := d.Root.Attr("dir")
	return v
}

// Walk calls fn for n and every descendant in document order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
