// Package xmlnode builds an element tree over an XML part that remembers the
// byte offsets of every tag, so writers can splice replacement bytes into the
// original part instead of re-serializing it.
package xmlnode

import (
	"encoding/xml"
	"strings"
)

// Node is one element of a parsed part.
type Node struct {
	// Name is the resolved name; Name.Space holds the namespace URI.
	Name xml.Name
	// Prefix is the prefix exactly as written in the source tag.
	Prefix string
	// Attr holds the attributes with resolved names, including xmlns declarations.
	Attr     []xml.Attr
	Parent   *Node
	Children []*Node

	// Start is the offset of '<' of the start tag.
	Start int
	// ContentStart is the offset just past the start tag's '>'.
	ContentStart int
	// ContentEnd is the offset of "</" of the end tag (== ContentStart when self-closing).
	ContentEnd int
	// End is the offset just past the end tag.
	End int
	// SelfClosing reports whether the element was written as <x/>.
	SelfClosing bool

	text strings.Builder
}

// Is reports whether the node has the given namespace URI and local name.
func (n *Node) Is(space, local string) bool {
	return n != nil && n.Name.Local == local && n.Name.Space == space
}

// QName returns the qualified name as written in the source.
func (n *Node) QName() string {
	if n.Prefix == "" {
		return n.Name.Local
	}
	return n.Prefix + ":" + n.Name.Local
}

// Text returns the character data directly inside the node.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.text.String()
}

// DeepText returns the concatenated character data of the node and all its
// descendants in document order.
func (n *Node) DeepText() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	if len(n.Children) == 0 {
		b.WriteString(n.text.String())
		return
	}
	// Mixed content loses interleaving; OOXML text lives in leaf elements.
	b.WriteString(n.text.String())
	for _, c := range n.Children {
		c.collectText(b)
	}
}

// Child returns the first direct child with the given name.
func (n *Node) Child(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(space, local) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct children with the given name.
func (n *Node) ChildrenNamed(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Is(space, local) {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of direct children in one namespace.
func (n *Node) Path(space string, locals ...string) *Node {
	cur := n
	for _, l := range locals {
		cur = cur.Child(space, l)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Find returns the first descendant (depth-first, document order) with the
// given name.
func (n *Node) Find(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(space, local) {
			return c
		}
		if f := c.Find(space, local); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every descendant with the given name in document order.
func (n *Node) FindAll(space, local string) []*Node {
	var out []*Node
	n.Walk(func(d *Node) bool {
		if d != n && d.Is(space, local) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// FindLocal returns the first descendant with the given local name in any namespace.
func (n *Node) FindLocal(local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
		if f := c.FindLocal(local); f != nil {
			return f
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the visited node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// AttrValue returns the value of the attribute with the given namespace and
// local name.
func (n *Node) AttrValue(space, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of an unqualified attribute or fallback.
func (n *Node) AttrOr(local, fallback string) string {
	if v, ok := n.AttrValue("", local); ok {
		return v
	}
	return fallback
}

// LookupPrefix returns the prefix bound to uri in the node's scope.
func (n *Node) LookupPrefix(uri string) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		for _, a := range cur.Attr {
			if a.Value != uri {
				continue
			}
			if a.Name.Space == "xmlns" {
				return a.Name.Local, true
			}
			if a.Name.Space == "" && a.Name.Local == "xmlns" {
				return "", true
			}
		}
	}
	return "", false
}

// Ancestor returns the nearest ancestor with the given name.
func (n *Node) Ancestor(space, local string) *Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Is(space, local) {
			return cur
		}
	}
	return nil
}

// StartTag returns the raw bytes of the start tag.
func (n *Node) StartTag(data []byte) []byte {
	return data[n.Start:n.ContentStart]
}

// Inner returns the raw bytes between the start and end tags.
func (n *Node) Inner(data []byte) []byte {
	return data[n.ContentStart:n.ContentEnd]
}

// Outer returns the raw bytes of the whole element.
func (n *Node) Outer(data []byte) []byte {
	return data[n.Start:n.End]
}
