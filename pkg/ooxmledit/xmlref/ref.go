// Package xmlref implements positional references: path strings such as
// "tbl[0]/tr[1]/tc[2]/p[0]/r[0]" that address a structural unit by its
// ordinal among same-kind siblings, and their resolution back to XML nodes.
package xmlref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// Separator joins path segments.
const Separator = "/"

// Segment is one step of a path: the kind of unit and its zero-based ordinal.
type Segment struct {
	Kind  string
	Index int
}

func (s Segment) String() string {
	return s.Kind + "[" + strconv.Itoa(s.Index) + "]"
}

// Path is a parsed positional reference.
type Path []Segment

// Assign derives the reference of the ordinal-th unit of kind under parent.
// It is a pure function of structural position.
func Assign(parent, kind string, ordinal int) string {
	seg := Segment{Kind: kind, Index: ordinal}.String()
	if parent == "" {
		return seg
	}
	return parent + Separator + seg
}

// Parse parses a reference string.
func Parse(ref string) (Path, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ooxml.ErrInvalidReference)
	}
	parts := strings.Split(ref, Separator)
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		open := strings.IndexByte(part, '[')
		if open <= 0 || !strings.HasSuffix(part, "]") {
			return nil, fmt.Errorf("%w: bad segment %q in %q", ooxml.ErrInvalidReference, part, ref)
		}
		idx, err := strconv.Atoi(part[open+1 : len(part)-1])
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: bad ordinal in %q", ooxml.ErrInvalidReference, part)
		}
		path = append(path, Segment{Kind: part[:open], Index: idx})
	}
	return path, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and constant references.
func MustParse(ref string) Path {
	p, err := Parse(ref)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, Separator)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Last returns the final segment.
func (p Path) Last() Segment {
	if len(p) == 0 {
		return Segment{}
	}
	return p[len(p)-1]
}

// HasPrefix reports whether q is an ancestor path of (or equal to) p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Navigator lists the children of kind visible from ctx, in document order.
// It returns ok=false when kind is not addressable from ctx.
type Navigator func(ctx *xmlnode.Node, kind string) (children []*xmlnode.Node, ok bool)

// ReferenceError reports the segment at which resolution failed.
type ReferenceError struct {
	Ref     string
	Segment int
	Err     error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference %q (segment %d): %v", e.Ref, e.Segment, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Resolve walks path from root using nav and returns the addressed node.
func Resolve(root *xmlnode.Node, path Path, nav Navigator) (*xmlnode.Node, error) {
	cur := root
	for i, seg := range path {
		children, ok := nav(cur, seg.Kind)
		if !ok {
			return nil, &ReferenceError{
				Ref:     path.String(),
				Segment: i,
				Err:     fmt.Errorf("%w: %s not addressable under %s", ooxml.ErrUnresolvableReference, seg.Kind, cur.Name.Local),
			}
		}
		if seg.Index >= len(children) {
			return nil, &ReferenceError{
				Ref:     path.String(),
				Segment: i,
				Err:     fmt.Errorf("%w: %s has %d, want index %d", ooxml.ErrUnresolvableReference, seg.Kind, len(children), seg.Index),
			}
		}
		cur = children[seg.Index]
	}
	return cur, nil
}

// ResolveString parses ref and resolves it.
func ResolveString(root *xmlnode.Node, ref string, nav Navigator) (*xmlnode.Node, error) {
	path, err := Parse(ref)
	if err != nil {
		return nil, &ReferenceError{Ref: ref, Segment: 0, Err: err}
	}
	return Resolve(root, path, nav)
}
