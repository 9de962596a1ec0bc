package xmlref

import (
	"errors"
	"testing"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

func TestAssign(t *testing.T) {
	tests := []struct {
		parent   string
		kind     string
		ordinal  int
		expected string
	}{
		{"", "p", 0, "p[0]"},
		{"p[3]", "r", 2, "p[3]/r[2]"},
		{"tbl[0]/tr[1]/tc[2]", "p", 0, "tbl[0]/tr[1]/tc[2]/p[0]"},
	}
	for _, tt := range tests {
		if got := Assign(tt.parent, tt.kind, tt.ordinal); got != tt.expected {
			t.Errorf("Assign(%q, %q, %d) = %q, expected %q", tt.parent, tt.kind, tt.ordinal, got, tt.expected)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	refs := []string{"p[0]", "tbl[0]/tr[1]/tc[2]/p[0]/r[0]", "p[4]/sdt[1]"}
	for _, ref := range refs {
		p, err := Parse(ref)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", ref, err)
			continue
		}
		if p.String() != ref {
			t.Errorf("Parse(%q).String() = %q", ref, p.String())
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{"", "p", "p[", "[0]", "p[x]", "p[-1]", "p[0]//r[1]"}
	for _, ref := range bad {
		if _, err := Parse(ref); !errors.Is(err, ooxml.ErrInvalidReference) {
			t.Errorf("Parse(%q) error = %v, expected ErrInvalidReference", ref, err)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	p := MustParse("tbl[0]/tr[1]/tc[2]")
	if !p.HasPrefix(MustParse("tbl[0]/tr[1]")) {
		t.Error("expected prefix match")
	}
	if p.HasPrefix(MustParse("tbl[0]/tr[2]")) {
		t.Error("unexpected prefix match")
	}
	if p.Parent().String() != "tbl[0]/tr[1]" {
		t.Errorf("Parent = %q", p.Parent().String())
	}
}

func TestResolve(t *testing.T) {
	doc, err := xmlnode.Parse([]byte(`<root><a/><b/><a><c>x</c></a></root>`))
	if err != nil {
		t.Fatal(err)
	}
	nav := func(ctx *xmlnode.Node, kind string) ([]*xmlnode.Node, bool) {
		switch kind {
		case "a", "b", "c":
			return ctx.ChildrenNamed("", kind), true
		}
		return nil, false
	}

	n, err := ResolveString(doc.Root, "a[1]/c[0]", nav)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if n.Text() != "x" {
		t.Errorf("resolved node text = %q", n.Text())
	}

	_, err = ResolveString(doc.Root, "a[2]", nav)
	if !errors.Is(err, ooxml.ErrUnresolvableReference) {
		t.Errorf("out of range error = %v", err)
	}
	var refErr *ReferenceError
	if !errors.As(err, &refErr) || refErr.Segment != 0 {
		t.Errorf("expected ReferenceError at segment 0, got %v", err)
	}

	if _, err := ResolveString(doc.Root, "z[0]", nav); !errors.Is(err, ooxml.ErrUnresolvableReference) {
		t.Errorf("unknown kind error = %v", err)
	}
}
