package xmlnode

import (
	"bytes"
	"fmt"
)

// RawAttr is an attribute located inside a raw start tag.
type RawAttr struct {
	// QName is the attribute name as written, prefix included.
	QName string
	// ValueStart and ValueEnd bound the value between its quotes, relative to
	// the start of the tag.
	ValueStart int
	ValueEnd   int
}

// ScanAttrs lists the attributes of a raw start tag in source order.
func ScanAttrs(tag []byte) ([]RawAttr, error) {
	i := 1 // skip '<'
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	var attrs []RawAttr
	for {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			return attrs, nil
		}
		nameStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) {
			i++
		}
		name := string(tag[nameStart:i])
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			return nil, fmt.Errorf("attribute %q has no value", name)
		}
		i++
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			return nil, fmt.Errorf("attribute %q is not quoted", name)
		}
		quote := tag[i]
		i++
		valStart := i
		end := bytes.IndexByte(tag[i:], quote)
		if end < 0 {
			return nil, fmt.Errorf("attribute %q is unterminated", name)
		}
		i += end
		attrs = append(attrs, RawAttr{QName: name, ValueStart: valStart, ValueEnd: i})
		i++
	}
}

// SetTagAttr returns a copy of the raw start tag with the attribute qname set
// to value. An existing value is replaced in place; otherwise the attribute is
// appended before the tag's closing delimiter.
func SetTagAttr(tag []byte, qname, value string) ([]byte, error) {
	attrs, err := ScanAttrs(tag)
	if err != nil {
		return nil, err
	}
	escaped := escapeAttr(value)
	for _, a := range attrs {
		if a.QName == qname {
			out := make([]byte, 0, len(tag)+len(escaped))
			out = append(out, tag[:a.ValueStart]...)
			out = append(out, escaped...)
			out = append(out, tag[a.ValueEnd:]...)
			return out, nil
		}
	}
	cut := len(tag) - 1
	if cut > 0 && tag[cut-1] == '/' {
		cut--
	}
	out := make([]byte, 0, len(tag)+len(qname)+len(escaped)+4)
	out = append(out, tag[:cut]...)
	out = append(out, ' ')
	out = append(out, qname...)
	out = append(out, '=', '"')
	out = append(out, escaped...)
	out = append(out, '"')
	out = append(out, tag[cut:]...)
	return out, nil
}

// TagAttrEdit returns an Edit that sets an attribute in the start tag of n.
func TagAttrEdit(data []byte, n *Node, qname, value string) (Edit, error) {
	tag, err := SetTagAttr(n.StartTag(data), qname, value)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: %w", n.QName(), err)
	}
	return Edit{Start: n.Start, End: n.ContentStart, Replacement: tag}, nil
}

func escapeAttr(s string) []byte {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.Bytes()
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
