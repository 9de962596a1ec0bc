package xmlnode

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Edit replaces data[Start:End] with Replacement. Start == End inserts.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// Splice applies non-overlapping edits to data and returns the new bytes.
// Inserts at the same offset are applied in the order given.
func Splice(data []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return data, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var buf bytes.Buffer
	buf.Grow(len(data))
	pos := 0
	for _, e := range sorted {
		if e.Start < pos || e.End < e.Start || e.End > len(data) {
			return nil, fmt.Errorf("splice: edit [%d,%d) overlaps or is out of range", e.Start, e.End)
		}
		buf.Write(data[pos:e.Start])
		buf.Write(e.Replacement)
		pos = e.End
	}
	buf.Write(data[pos:])
	return buf.Bytes(), nil
}

// EscapeText escapes s for use as element character data. Quotes, tabs and
// newlines are left alone since they need no escaping in content. Runes
// XML 1.0 does not allow are dropped.
func EscapeText(s string) []byte {
	var buf bytes.Buffer
	buf.Grow(len(s))
	for _, r := range s {
		if !IsXMLChar(r) {
			continue
		}
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.Bytes()
}

// IsXMLChar reports whether r may appear in an XML 1.0 document.
func IsXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// ValidText reports whether every rune of s is an XML character.
func ValidText(s string) bool {
	for _, r := range s {
		if !IsXMLChar(r) {
			return false
		}
	}
	return true
}

// NeedsPreserve reports whether s needs xml:space="preserve" to survive
// whitespace normalization.
func NeedsPreserve(s string) bool {
	if s == "" {
		return false
	}
	return strings.TrimSpace(s[:1]) == "" || strings.TrimSpace(s[len(s)-1:]) == "" || strings.Contains(s, "  ")
}

// OpenTag returns the start tag of n in its non-self-closing form.
func OpenTag(data []byte, n *Node) []byte {
	tag := n.StartTag(data)
	if !n.SelfClosing {
		return append([]byte(nil), tag...)
	}
	cut := bytes.LastIndex(tag, []byte("/>"))
	if cut < 0 {
		return append([]byte(nil), tag...)
	}
	out := append([]byte(nil), tag[:cut]...)
	return append(out, '>')
}

// ContentEdit returns an Edit that replaces the content of n with inner. A
// self-closing element is expanded into a start and end tag pair.
func ContentEdit(data []byte, n *Node, inner []byte) Edit {
	if !n.SelfClosing {
		return Edit{Start: n.ContentStart, End: n.ContentEnd, Replacement: inner}
	}
	var buf bytes.Buffer
	buf.Write(OpenTag(data, n))
	buf.Write(inner)
	buf.WriteString("</" + n.QName() + ">")
	return Edit{Start: n.Start, End: n.End, Replacement: buf.Bytes()}
}

// AppendEdit returns an Edit that inserts child as the last content of n.
func AppendEdit(data []byte, n *Node, child []byte) Edit {
	if n.SelfClosing {
		return ContentEdit(data, n, child)
	}
	return Edit{Start: n.ContentEnd, End: n.ContentEnd, Replacement: child}
}

// PrependEdit returns an Edit that inserts child as the first content of n.
func PrependEdit(data []byte, n *Node, child []byte) Edit {
	if n.SelfClosing {
		return ContentEdit(data, n, child)
	}
	return Edit{Start: n.ContentStart, End: n.ContentStart, Replacement: child}
}

// RemoveEdit returns an Edit that deletes n.
func RemoveEdit(n *Node) Edit {
	return Edit{Start: n.Start, End: n.End}
}
