package xmlnode

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Document is a parsed part together with its source bytes.
type Document struct {
	Data []byte
	Root *Node
}

// Parse builds the offset-indexed tree for a well-formed XML part.
func Parse(data []byte) (*Document, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	return build(d, data)
}

// ParseLenient builds the tree for loosely formed markup such as VML
// drawings, which may contain unclosed HTML-style tags.
func ParseLenient(data []byte) (*Document, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	return build(d, data)
}

func build(d *xml.Decoder, data []byte) (*Document, error) {
	doc := &Document{Data: data}
	var stack []*Node

	for {
		before := int(d.InputOffset())
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}
		after := int(d.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Name:         t.Name,
				Attr:         t.Copy().Attr,
				Start:        before,
				ContentStart: after,
			}
			n.Prefix = rawPrefix(data, before, after)
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			} else if doc.Root == nil {
				doc.Root = n
			} else {
				return nil, errors.New("xml: multiple root elements")
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("xml: unexpected end element")
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if before == after && before == n.ContentStart {
				n.SelfClosing = true
				n.ContentEnd = n.ContentStart
				n.End = n.ContentStart
			} else {
				n.ContentEnd = before
				n.End = after
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if doc.Root == nil {
		return nil, errors.New("xml: no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("xml: unclosed element %s", stack[len(stack)-1].Name.Local)
	}
	return doc, nil
}

// rawPrefix reads the prefix of a start tag straight from the source bytes.
func rawPrefix(data []byte, start, end int) string {
	if start >= end || data[start] != '<' {
		return ""
	}
	i := start + 1
	for i < end {
		switch data[i] {
		case ':':
			return string(data[start+1 : i])
		case ' ', '\t', '\r', '\n', '/', '>':
			return ""
		}
		i++
	}
	return ""
}

// PrefixFor returns the prefix the document's root binds to uri, or fallback
// when the root does not declare it.
func (doc *Document) PrefixFor(uri, fallback string) string {
	if p, ok := doc.Root.LookupPrefix(uri); ok {
		return p
	}
	return fallback
}
