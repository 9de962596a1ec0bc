package xlsx

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// PresetGeomMap maps preset geometry names to readable type labels.
var PresetGeomMap = map[string]string{
	"flowChartProcess":           "AutoShape-FlowchartProcess",
	"flowChartDecision":          "AutoShape-FlowchartDecision",
	"flowChartTerminator":        "AutoShape-FlowchartTerminator",
	"flowChartData":              "AutoShape-FlowchartData",
	"flowChartDocument":          "AutoShape-FlowchartDocument",
	"flowChartPredefinedProcess": "AutoShape-FlowchartPredefinedProcess",
	"flowChartConnector":         "AutoShape-FlowchartConnector",
	"rect":                       "AutoShape-Rectangle",
	"roundRect":                  "AutoShape-RoundedRectangle",
	"ellipse":                    "AutoShape-Oval",
	"diamond":                    "AutoShape-Diamond",
	"triangle":                   "AutoShape-IsoscelesTriangle",
	"rightArrow":                 "AutoShape-RightArrow",
	"leftArrow":                  "AutoShape-LeftArrow",
	"straightConnector1":         "Line",
	"bentConnector2":             "AutoShape-Connector",
	"bentConnector3":             "AutoShape-Connector",
	"bentConnector4":             "AutoShape-Connector",
	"curvedConnector3":           "AutoShape-Connector",
	"line":                       "Line",
	"textBox":                    "TextBox",
}

// Shape kinds.
const (
	KindShape     = "shape"
	KindConnector = "connector"
	KindPicture   = "picture"
	KindGroup     = "group"
)

// drawings reads the shapes and charts of the sheet's drawing part.
func (p *parser) drawings(s *models.Sheet, root *xmlnode.Node, rels map[string]container.Relationship) {
	id, ok := root.Child(ns, "drawing").AttrValue(nsR, "id")
	if !ok {
		return
	}
	rel, ok := rels[id]
	if !ok || rel.External || !p.c.Has(rel.Resolved) {
		return
	}
	part := rel.Resolved
	doc, err := p.loadPart(part)
	if err != nil {
		p.log.Warn("skipping unreadable drawing", "part", part, "error", err)
		return
	}
	drawingRels, err := p.c.RelationshipMap(part)
	if err != nil {
		p.log.Warn("skipping drawing relationships", "part", part, "error", err)
	}

	for _, anchor := range doc.Root.Children {
		switch anchor.Name.Local {
		case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
		default:
			continue
		}
		cells := anchorRange(anchor)
		for _, el := range anchor.Children {
			if el.Is(nsXDR, "graphicFrame") {
				if ch, ok := p.chart(el, drawingRels); ok {
					ch.ID = s.ID + "-chart-" + strconv.Itoa(len(s.Charts))
					s.Charts = append(s.Charts, ch)
				}
				continue
			}
			for _, sh := range shapes(el, cells) {
				sh.ID = s.ID + "-shape-" + strconv.Itoa(len(s.Shapes))
				s.Shapes = append(s.Shapes, sh)
			}
		}
	}
	resolveConnectors(s.Shapes)
}

// anchorRange renders the cell range of a two-cell anchor, e.g. "B2:D6".
func anchorRange(anchor *xmlnode.Node) string {
	from, to := anchor.Child(nsXDR, "from"), anchor.Child(nsXDR, "to")
	if from == nil || to == nil {
		return ""
	}
	start := CellName(atoiOr(from.Child(nsXDR, "col").Text(), 0)+1, atoiOr(from.Child(nsXDR, "row").Text(), 0)+1)
	end := CellName(atoiOr(to.Child(nsXDR, "col").Text(), 0)+1, atoiOr(to.Child(nsXDR, "row").Text(), 0)+1)
	return start + ":" + end
}

// shapes flattens one anchored element; groups contribute themselves and
// their members.
func shapes(el *xmlnode.Node, cells string) []models.Shape {
	var kind, props, nv string
	switch {
	case el.Is(nsXDR, "sp"):
		kind, props, nv = KindShape, "spPr", "nvSpPr"
	case el.Is(nsXDR, "cxnSp"):
		kind, props, nv = KindConnector, "spPr", "nvCxnSpPr"
	case el.Is(nsXDR, "pic"):
		kind, props, nv = KindPicture, "spPr", "nvPicPr"
	case el.Is(nsXDR, "grpSp"):
		kind, props, nv = KindGroup, "grpSpPr", "nvGrpSpPr"
	default:
		return nil
	}

	cnv := el.Path(nsXDR, nv, "cNvPr")
	sp := models.Shape{
		DrawingID: cnv.AttrOr("id", ""),
		Name:      cnv.AttrOr("name", ""),
		Kind:      kind,
		Anchor:    cells,
	}
	pr := el.Child(nsXDR, props)
	xfrm := pr.Child(nsA, "xfrm")
	applyXfrm(&sp, xfrm)

	prst := pr.Child(nsA, "prstGeom").AttrOr("prst", "")
	switch {
	case prst != "":
		if label, ok := PresetGeomMap[prst]; ok {
			sp.Type = label
		} else {
			sp.Type = "AutoShape-" + prst
		}
	case kind == KindPicture:
		sp.Type = "Picture"
	case kind == KindGroup:
		sp.Type = "Group"
	}
	if kind == KindShape && isConnectorShape(prst, sp.Type) {
		sp.Kind = KindConnector
	}

	if tx := el.Child(nsXDR, "txBody"); tx != nil {
		var parts []string
		for _, t := range tx.FindAll(nsA, "t") {
			parts = append(parts, t.Text())
		}
		sp.Text = strings.TrimSpace(strings.Join(parts, ""))
	}

	if sp.Kind == KindConnector {
		if ln := pr.Child(nsA, "ln"); ln != nil {
			sp.BeginArrow = ln.Child(nsA, "headEnd").AttrOr("type", "")
			sp.EndArrow = ln.Child(nsA, "tailEnd").AttrOr("type", "")
		}
		cxn := el.Path(nsXDR, nv, "cNvCxnSpPr")
		sp.BeginID = cxn.Child(nsA, "stCxn").AttrOr("id", "")
		sp.EndID = cxn.Child(nsA, "endCxn").AttrOr("id", "")
		dx, dy := sp.W, sp.H
		if boolAttr(xfrm, "flipH", false) {
			dx = -dx
		}
		if boolAttr(xfrm, "flipV", false) {
			dy = -dy
		}
		sp.Direction = computeDirection(dx, dy)
	}

	out := []models.Shape{sp}
	if kind == KindGroup {
		for _, member := range el.Children {
			out = append(out, shapes(member, cells)...)
		}
	}
	return out
}

func applyXfrm(sp *models.Shape, xfrm *xmlnode.Node) {
	if xfrm == nil {
		return
	}
	if rot, ok := xfrm.AttrValue("", "rot"); ok {
		if v, err := strconv.ParseInt(rot, 10, 64); err == nil {
			deg := float64(v) / 60000.0
			if math.Abs(deg) >= 1e-6 {
				sp.Rotation = &deg
			}
		}
	}
	off, ext := xfrm.Child(nsA, "off"), xfrm.Child(nsA, "ext")
	sp.L = ooxml.EMUToPixels(int64Attr(off, "x"))
	sp.T = ooxml.EMUToPixels(int64Attr(off, "y"))
	sp.W = ooxml.EMUToPixels(int64Attr(ext, "cx"))
	sp.H = ooxml.EMUToPixels(int64Attr(ext, "cy"))
}

func int64Attr(n *xmlnode.Node, local string) int64 {
	v, ok := n.AttrValue("", local)
	if !ok {
		return 0
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

// computeDirection returns the compass heading of a connector spanning
// (dx, dy) pixels, with y growing downwards.
func computeDirection(dx, dy int) string {
	if dx == 0 && dy == 0 {
		return ""
	}

	angle := math.Atan2(float64(-dy), float64(dx)) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}

	switch {
	case angle >= 337.5 || angle < 22.5:
		return "E"
	case angle < 67.5:
		return "NE"
	case angle < 112.5:
		return "N"
	case angle < 157.5:
		return "NW"
	case angle < 202.5:
		return "W"
	case angle < 247.5:
		return "SW"
	case angle < 292.5:
		return "S"
	default:
		return "SE"
	}
}

// isConnectorShape reports whether a plain shape is drawn as a line.
func isConnectorShape(prst, typeLabel string) bool {
	lower := strings.ToLower(prst)
	if strings.Contains(lower, "connector") || strings.Contains(lower, "line") {
		return true
	}
	return strings.Contains(typeLabel, "Line") || strings.Contains(typeLabel, "Connector")
}

// resolveConnectors drops connection ids that point at no shape of the
// drawing.
func resolveConnectors(shapes []models.Shape) {
	known := make(map[string]bool, len(shapes))
	for _, sh := range shapes {
		if sh.Kind != KindConnector && sh.DrawingID != "" {
			known[sh.DrawingID] = true
		}
	}
	for i := range shapes {
		if shapes[i].Kind != KindConnector {
			continue
		}
		if !known[shapes[i].BeginID] {
			shapes[i].BeginID = ""
		}
		if !known[shapes[i].EndID] {
			shapes[i].EndID = ""
		}
	}
}
