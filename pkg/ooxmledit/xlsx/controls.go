package xlsx

import (
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// controlTypes maps lower-cased VML ObjectType and ctrlProp objectType values.
var controlTypes = map[string]models.FormControlType{
	"checkbox": models.ControlCheckbox,
	"radio":    models.ControlRadio,
	"button":   models.ControlButton,
	"drop":     models.ControlDropdown,
	"list":     models.ControlListbox,
	"spin":     models.ControlSpinner,
	"scroll":   models.ControlScrollbar,
	"gbox":     models.ControlGroupBox,
	"label":    models.ControlLabel,
}

// controls reads form controls from the legacy VML drawing and from the
// sheet's controls element with its ctrlProp parts. Both describe the same
// shapes, joined by shape id; VML order wins.
func (p *parser) controls(s *models.Sheet, root *xmlnode.Node, rels map[string]container.Relationship) {
	var out []*models.FormControl
	byShape := map[string]*models.FormControl{}

	for _, part := range vmlParts(root, rels) {
		for _, fc := range p.vmlControls(part) {
			out = append(out, fc)
			if fc.ShapeID != "" {
				byShape[fc.ShapeID] = fc
			}
		}
	}

	for _, cn := range root.FindAll(ns, "control") {
		if cn.Ancestor(ooxml.NSCompatibility, "Fallback") != nil {
			continue
		}
		shapeID := cn.AttrOr("shapeId", "")
		fc, seen := byShape[shapeID]
		if !seen {
			fc = &models.FormControl{ShapeID: shapeID}
		}
		if fc.Name == "" {
			fc.Name = cn.AttrOr("name", "")
		}
		if fc.Anchor == nil {
			fc.Anchor = controlPrAnchor(cn.Path(ns, "controlPr", "anchor"))
		}
		if id, ok := cn.AttrValue(nsR, "id"); ok {
			if r, ok := rels[id]; ok && !r.External && p.c.Has(r.Resolved) {
				fc.PropsPart = r.Resolved
				p.ctrlProps(fc, r.Resolved)
			}
		}
		if fc.Type == "" {
			continue
		}
		if !seen {
			out = append(out, fc)
			if shapeID != "" {
				byShape[shapeID] = fc
			}
		}
	}

	for i, fc := range out {
		fc.ID = s.ID + "-ctrl-" + strconv.Itoa(i)
		s.FormControls = append(s.FormControls, *fc)
	}
}

// vmlParts returns the legacy drawing parts of a sheet, the one named by
// legacyDrawing first.
func vmlParts(root *xmlnode.Node, rels map[string]container.Relationship) []string {
	var parts []string
	seen := map[string]bool{}
	if id, ok := root.Child(ns, "legacyDrawing").AttrValue(nsR, "id"); ok {
		if r, ok := rels[id]; ok && !r.External {
			parts = append(parts, r.Resolved)
			seen[r.Resolved] = true
		}
	}
	for _, r := range rels {
		if strings.HasSuffix(r.Type, relVMLDrawing) && !r.External && !seen[r.Resolved] {
			parts = append(parts, r.Resolved)
			seen[r.Resolved] = true
		}
	}
	return parts
}

// vmlControls reads control shapes from a VML part. VML is rarely
// well-formed, so it is parsed leniently and skipped when unreadable.
func (p *parser) vmlControls(part string) []*models.FormControl {
	data, err := p.c.OptionalPart(part)
	if err != nil || data == nil {
		if err != nil {
			p.log.Warn("skipping unreadable vml part", "part", part, "error", err)
		}
		return nil
	}
	doc, err := xmlnode.ParseLenient(data)
	if err != nil {
		p.log.Warn("skipping unreadable vml part", "part", part, "error", err)
		return nil
	}

	var out []*models.FormControl
	for _, shape := range doc.Root.FindAll(ooxml.NSVML, "shape") {
		cd := shape.Child(ooxml.NSVMLExcel, "ClientData")
		typ, ok := controlTypes[strings.ToLower(cd.AttrOr("ObjectType", ""))]
		if !ok {
			continue
		}
		fc := &models.FormControl{
			ShapeID:    vmlShapeID(shape),
			Type:       typ,
			LinkedCell: strings.TrimSpace(cd.Child(ooxml.NSVMLExcel, "FmlaLink").Text()),
			InputRange: strings.TrimSpace(cd.Child(ooxml.NSVMLExcel, "FmlaRange").Text()),
			Anchor:     vmlAnchor(cd.Child(ooxml.NSVMLExcel, "Anchor").Text()),
			Text:       strings.TrimSpace(shape.Child(ooxml.NSVML, "textbox").DeepText()),
			Min:        vmlInt(cd, "Min"),
			Max:        vmlInt(cd, "Max"),
			Inc:        vmlInt(cd, "Inc"),
			Page:       vmlInt(cd, "Page"),
			Value:      vmlInt(cd, "Val"),
			VML:        true,
		}
		if typ == models.ControlCheckbox || typ == models.ControlRadio {
			checked := false
			if c := cd.Child(ooxml.NSVMLExcel, "Checked"); c != nil {
				v := strings.TrimSpace(c.Text())
				checked = v == "" || v != "0"
			}
			fc.Checked = &checked
		}
		out = append(out, fc)
	}
	return out
}

// vmlShapeID turns "_x0000_s1025" into the numeric shape id "1025".
func vmlShapeID(shape *xmlnode.Node) string {
	id, ok := shape.AttrValue(ooxml.NSVMLOffice, "spid")
	if !ok {
		id = shape.AttrOr("id", "")
	}
	if i := strings.LastIndex(id, "_s"); i >= 0 {
		return id[i+2:]
	}
	return id
}

func vmlInt(cd *xmlnode.Node, local string) *int {
	n := cd.Child(ooxml.NSVMLExcel, local)
	if n == nil {
		return nil
	}
	return atoiPtr(strings.TrimSpace(n.Text()), true)
}

// vmlAnchor reads "LeftColumn, LeftOffset, TopRow, TopOffset, RightColumn,
// RightOffset, BottomRow, BottomOffset".
func vmlAnchor(text string) *models.ControlAnchor {
	fields := strings.Split(text, ",")
	if len(fields) != 8 {
		return nil
	}
	vals := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil
		}
		vals[i] = v
	}
	return &models.ControlAnchor{FromCol: vals[0], FromRow: vals[2], ToCol: vals[4], ToRow: vals[6]}
}

func controlPrAnchor(anchor *xmlnode.Node) *models.ControlAnchor {
	from, to := anchor.Child(ns, "from"), anchor.Child(ns, "to")
	if from == nil || to == nil {
		return nil
	}
	return &models.ControlAnchor{
		FromCol: atoiOr(from.Child(nsXDR, "col").Text(), 0),
		FromRow: atoiOr(from.Child(nsXDR, "row").Text(), 0),
		ToCol:   atoiOr(to.Child(nsXDR, "col").Text(), 0),
		ToRow:   atoiOr(to.Child(nsXDR, "row").Text(), 0),
	}
}

// ctrlProps fills fields the VML shape did not provide from a formControlPr
// part.
func (p *parser) ctrlProps(fc *models.FormControl, part string) {
	doc, err := p.loadPart(part)
	if err != nil {
		p.log.Warn("skipping unreadable control properties", "part", part, "error", err)
		return
	}
	pr := doc.Root
	if fc.Type == "" {
		fc.Type = controlTypes[strings.ToLower(pr.AttrOr("objectType", ""))]
	}
	if fc.LinkedCell == "" {
		fc.LinkedCell = pr.AttrOr("fmlaLink", "")
	}
	if fc.InputRange == "" {
		fc.InputRange = pr.AttrOr("fmlaRange", "")
	}
	if fc.Checked == nil && (fc.Type == models.ControlCheckbox || fc.Type == models.ControlRadio) {
		checked := pr.AttrOr("checked", "") == "Checked"
		fc.Checked = &checked
	}
	fill := func(dst **int, local string) {
		if *dst == nil {
			v, ok := pr.AttrValue("", local)
			*dst = atoiPtr(v, ok)
		}
	}
	fill(&fc.Min, "min")
	fill(&fc.Max, "max")
	fill(&fc.Inc, "inc")
	fill(&fc.Page, "page")
	fill(&fc.Value, "val")
}
