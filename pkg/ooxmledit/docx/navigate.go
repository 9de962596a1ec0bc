// Package docx parses the main part of a word-processing package into the
// block tree and patches model edits back into the original bytes.
package docx

import (
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlref"
)

const (
	w   = ooxml.NSWordMain
	w14 = ooxml.NSWord2010
)

// Reference segment kinds.
const (
	KindParagraph = "p"
	KindTable     = "tbl"
	KindRow       = "tr"
	KindCell      = "tc"
	KindRun       = "r"
	KindControl   = "sdt"
	KindDrawing   = "drawing"
)

// Navigate lists the children of kind visible from ctx. It is the single
// source of ordinals for both parsing and reference resolution.
func Navigate(ctx *xmlnode.Node, kind string) ([]*xmlnode.Node, bool) {
	if ctx == nil || ctx.Name.Space != w {
		return nil, false
	}
	switch ctx.Name.Local {
	case "body", "tc":
		switch kind {
		case KindParagraph, KindTable:
			return filterLocal(blockChildren(ctx), kind), true
		}
	case "tbl":
		if kind == KindRow {
			return rowChildren(ctx), true
		}
	case "tr":
		if kind == KindCell {
			return cellChildren(ctx), true
		}
	case "p":
		switch kind {
		case KindRun:
			return paragraphRuns(ctx), true
		case KindControl:
			return paragraphControls(ctx), true
		case KindDrawing:
			return ctx.FindAll(w, "drawing"), true
		}
	}
	return nil, false
}

var _ xmlref.Navigator = Navigate

// resolve resolves ref against the document body.
func resolve(body *xmlnode.Node, ref string) (*xmlnode.Node, error) {
	return xmlref.ResolveString(body, ref, Navigate)
}

func filterLocal(nodes []*xmlnode.Node, local string) []*xmlnode.Node {
	var out []*xmlnode.Node
	for _, n := range nodes {
		if n.Name.Local == local {
			out = append(out, n)
		}
	}
	return out
}

// blockChildren returns the paragraphs and tables of a body or cell in
// document order. Block-level content controls and custom XML wrappers are
// transparent.
func blockChildren(n *xmlnode.Node) []*xmlnode.Node {
	if n == nil {
		return nil
	}
	var out []*xmlnode.Node
	for _, c := range n.Children {
		if c.Name.Space != w {
			continue
		}
		switch c.Name.Local {
		case "p", "tbl":
			out = append(out, c)
		case "sdt":
			out = append(out, blockChildren(c.Child(w, "sdtContent"))...)
		case "customXml":
			out = append(out, blockChildren(c)...)
		}
	}
	return out
}

func rowChildren(tbl *xmlnode.Node) []*xmlnode.Node {
	return unwrapped(tbl, "tr")
}

func cellChildren(tr *xmlnode.Node) []*xmlnode.Node {
	return unwrapped(tr, "tc")
}

// unwrapped collects the children named local, looking through content
// control and custom XML wrappers.
func unwrapped(n *xmlnode.Node, local string) []*xmlnode.Node {
	if n == nil {
		return nil
	}
	var out []*xmlnode.Node
	for _, c := range n.Children {
		if c.Name.Space != w {
			continue
		}
		switch c.Name.Local {
		case local:
			out = append(out, c)
		case "sdt":
			out = append(out, unwrapped(c.Child(w, "sdtContent"), local)...)
		case "customXml":
			out = append(out, unwrapped(c, local)...)
		}
	}
	return out
}

// inlineWrappers are paragraph-level elements whose runs count as runs of
// the paragraph itself.
var inlineWrappers = map[string]bool{
	"hyperlink": true,
	"ins":       true,
	"moveTo":    true,
	"smartTag":  true,
	"customXml": true,
	"fldSimple": true,
}

// walkInline visits runs and control content controls of a paragraph in
// document order. Deleted content is skipped.
func walkInline(n *xmlnode.Node, run func(*xmlnode.Node), control func(*xmlnode.Node)) {
	for _, c := range n.Children {
		if c.Name.Space != w {
			continue
		}
		switch {
		case c.Name.Local == "r":
			run(c)
		case c.Name.Local == "sdt":
			if isControl(c) {
				control(c)
				continue
			}
			if content := c.Child(w, "sdtContent"); content != nil {
				walkInline(content, run, control)
			}
		case inlineWrappers[c.Name.Local]:
			walkInline(c, run, control)
		}
	}
}

func paragraphRuns(p *xmlnode.Node) []*xmlnode.Node {
	if controlWrapper(p) != nil {
		return nil
	}
	var out []*xmlnode.Node
	walkInline(p, func(r *xmlnode.Node) { out = append(out, r) }, func(*xmlnode.Node) {})
	return out
}

func paragraphControls(p *xmlnode.Node) []*xmlnode.Node {
	if wrapper := controlWrapper(p); wrapper != nil {
		if firstParagraph(wrapper) == p {
			return []*xmlnode.Node{wrapper}
		}
		return nil
	}
	var out []*xmlnode.Node
	walkInline(p, func(*xmlnode.Node) {}, func(s *xmlnode.Node) { out = append(out, s) })
	return out
}

// controlWrapper returns the checkbox or dropdown content control that
// wraps p at block, row or cell level. The search stops at the enclosing
// table so paragraphs of nested tables are not claimed.
func controlWrapper(p *xmlnode.Node) *xmlnode.Node {
	for cur := p.Parent; cur != nil; cur = cur.Parent {
		if cur.Name.Space != w {
			continue
		}
		switch cur.Name.Local {
		case "tbl", "body":
			return nil
		case "sdt":
			if isControl(cur) {
				return cur
			}
		}
	}
	return nil
}

// firstParagraph returns the first paragraph inside a wrapping control,
// not descending into tables.
func firstParagraph(sdt *xmlnode.Node) *xmlnode.Node {
	var found *xmlnode.Node
	sdt.Child(w, "sdtContent").Walk(func(n *xmlnode.Node) bool {
		if found != nil || n.Is(w, "tbl") {
			return false
		}
		if n.Is(w, "p") {
			found = n
			return false
		}
		return true
	})
	return found
}
