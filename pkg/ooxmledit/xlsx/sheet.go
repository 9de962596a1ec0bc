package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// sheet fills s from its worksheet part. Auxiliary parts (comments, tables,
// drawings, VML) that fail to load are logged and skipped.
func (p *parser) sheet(s *models.Sheet) error {
	doc, err := p.loadPart(s.Path)
	if err != nil {
		return err
	}
	root := doc.Root
	if !root.Is(ns, "worksheet") {
		return ooxml.Malformed(s.Path, "parse", fmt.Errorf("root element is %s", root.Name.Local))
	}

	rels, err := p.c.Relationships(s.Path)
	if err != nil {
		return err
	}
	relByID := make(map[string]container.Relationship, len(rels))
	for _, r := range rels {
		relByID[r.ID] = r
	}

	s.Dimension = root.Child(ns, "dimension").AttrOr("ref", "")
	if err := p.cells(s, root.Child(ns, "sheetData")); err != nil {
		return err
	}
	s.Merges = p.merges(s, root.Child(ns, "mergeCells"))
	applyMerges(s)
	s.Columns = columns(root.Child(ns, "cols"))
	s.View = sheetView(s.ID, root.Path(ns, "sheetViews", "sheetView"))
	s.Hyperlinks = hyperlinks(s.ID, root.Child(ns, "hyperlinks"), relByID)
	s.DataValidations = dataValidations(s.ID, root)
	s.ConditionalFormats = conditionalFormats(s.ID, root)

	p.controls(s, root, relByID)
	p.comments(s, rels)
	p.tables(s, root, relByID)
	p.drawings(s, root, relByID)

	p.log.Debug("parsed sheet",
		"part", s.Path,
		"sheet", s.Name,
		"cells", len(s.Cells),
		"merges", len(s.Merges))
	return nil
}

// cells reads sheetData. Rows and cells without explicit positions follow the
// previous one, as spreadsheet applications do when writing compact XML.
func (p *parser) cells(s *models.Sheet, sheetData *xmlnode.Node) error {
	prevRow := 0
	for _, rn := range sheetData.ChildrenNamed(ns, "row") {
		row := atoiOr(rn.AttrOr("r", ""), prevRow+1)
		prevRow = row

		if info, ok := rowInfo(row, rn); ok {
			s.Rows = append(s.Rows, info)
		}

		prevCol := 0
		for _, cn := range rn.ChildrenNamed(ns, "c") {
			col := prevCol + 1
			ref := cn.AttrOr("r", "")
			if ref != "" {
				c, r, err := ParseCellRef(ref)
				if err != nil {
					return ooxml.Malformed(s.Path, "parse", err)
				}
				col, row = c, r
			}
			prevCol = col
			ref = CellName(col, row)

			cell := p.cell(cn)
			cell.ID = models.CellID(s.ID, ref)
			cell.Ref = ref
			cell.Row = row
			cell.Col = col
			s.Cells = append(s.Cells, cell)
		}
	}
	return nil
}

func rowInfo(row int, rn *xmlnode.Node) (models.RowInfo, bool) {
	info := models.RowInfo{
		Row:          row,
		Height:       floatAttr(rn, "ht"),
		CustomHeight: boolAttr(rn, "customHeight", false),
		Hidden:       boolAttr(rn, "hidden", false),
		OutlineLevel: atoiOr(rn.AttrOr("outlineLevel", "0"), 0),
	}
	if boolAttr(rn, "customFormat", false) {
		v, ok := rn.AttrValue("", "s")
		info.StyleIndex = atoiPtr(v, ok)
	}
	_, hasHeight := rn.AttrValue("", "ht")
	return info, hasHeight || info.Hidden || info.CustomHeight
}

func (p *parser) cell(cn *xmlnode.Node) *models.Cell {
	t := cn.AttrOr("t", "n")
	cell := &models.Cell{Type: t, Value: models.EmptyValue()}
	if v, ok := cn.AttrValue("", "s"); ok {
		cell.StyleIndex = atoiPtr(v, ok)
	}

	if f := cn.Child(ns, "f"); f != nil {
		cell.Formula = f.Text()
		cell.FormulaType = f.AttrOr("t", models.FormulaNormal)
		cell.FormulaRef = f.AttrOr("ref", "")
		si, ok := f.AttrValue("", "si")
		cell.FormulaIndex = atoiPtr(si, ok)
	}

	vn := cn.Child(ns, "v")
	raw := vn.Text()
	switch t {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			break
		}
		cell.StringIndex = &idx
		if p.sst != nil {
			if text, ok := p.sst.Get(idx); ok {
				cell.Value = models.StringValue(text)
			}
		}
	case "b":
		if vn != nil {
			cell.Value = models.BoolValue(strings.TrimSpace(raw) == "1")
		}
	case "e":
		if vn != nil {
			cell.Value = models.ErrorValue(raw)
		}
	case "str", "d":
		if vn != nil {
			cell.Value = models.StringValue(raw)
		}
	case "inlineStr":
		if is := cn.Child(ns, "is"); is != nil {
			cell.Value = models.StringValue(stringItem(is).Text)
		}
	default:
		if strings.TrimSpace(raw) == "" {
			break
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			cell.Value = models.StringValue(raw)
			break
		}
		cell.Value = models.NumberValue(f)
	}
	return cell
}

func (p *parser) merges(s *models.Sheet, mc *xmlnode.Node) []models.MergeRange {
	var out []models.MergeRange
	for i, m := range mc.ChildrenNamed(ns, "mergeCell") {
		ref := m.AttrOr("ref", "")
		r, err := ParseRange(ref)
		if err != nil {
			p.log.Warn("skipping malformed merge", "part", s.Path, "ref", ref, "error", err)
			continue
		}
		out = append(out, models.MergeRange{
			ID:    s.ID + "-merge-" + strconv.Itoa(i),
			Ref:   ref,
			Range: r,
		})
	}
	return out
}

// applyMerges flags merged cells and empties the values of every cell but the
// top-left one, which is how spreadsheet applications present merged ranges.
func applyMerges(s *models.Sheet) {
	for _, m := range s.Merges {
		for _, c := range s.Cells {
			if !m.Range.Contains(c.Row, c.Col) {
				continue
			}
			c.IsMerged = true
			c.MergeRange = m.Ref
			c.IsMergeOrigin = c.Row == m.Range.R1 && c.Col == m.Range.C1
			if !c.IsMergeOrigin {
				c.Value = models.EmptyValue()
			}
		}
	}
}

func columns(cols *xmlnode.Node) []models.ColumnInfo {
	var out []models.ColumnInfo
	for _, cn := range cols.ChildrenNamed(ns, "col") {
		info := models.ColumnInfo{
			Min:          atoiOr(cn.AttrOr("min", "0"), 0),
			Max:          atoiOr(cn.AttrOr("max", "0"), 0),
			Width:        floatAttr(cn, "width"),
			CustomWidth:  boolAttr(cn, "customWidth", false),
			Hidden:       boolAttr(cn, "hidden", false),
			OutlineLevel: atoiOr(cn.AttrOr("outlineLevel", "0"), 0),
		}
		v, ok := cn.AttrValue("", "style")
		info.StyleIndex = atoiPtr(v, ok)
		out = append(out, info)
	}
	return out
}

func sheetView(sheetID string, sv *xmlnode.Node) *models.SheetView {
	if sv == nil {
		return nil
	}
	view := &models.SheetView{
		ID:                sheetID + "-view",
		View:              sv.AttrOr("view", "normal"),
		ZoomScale:         atoiOr(sv.AttrOr("zoomScale", "100"), 100),
		ShowGridLines:     sv.AttrOr("showGridLines", "1") != "0",
		ShowRowColHeaders: sv.AttrOr("showRowColHeaders", "1") != "0",
		ShowFormulas:      boolAttr(sv, "showFormulas", false),
		ShowZeros:         sv.AttrOr("showZeros", "1") != "0",
		RightToLeft:       boolAttr(sv, "rightToLeft", false),
		TabSelected:       boolAttr(sv, "tabSelected", false),
	}
	if sels := sv.ChildrenNamed(ns, "selection"); len(sels) > 0 {
		last := sels[len(sels)-1]
		view.ActiveCell = last.AttrOr("activeCell", "")
		view.Selection = last.AttrOr("sqref", "")
	}
	if pane := sv.Child(ns, "pane"); pane != nil {
		state := pane.AttrOr("state", "split")
		if state == "frozen" || state == "frozenSplit" {
			view.Freeze = &models.FreezePane{
				XSplit:      int(floatAttr(pane, "xSplit")),
				YSplit:      int(floatAttr(pane, "ySplit")),
				TopLeftCell: pane.AttrOr("topLeftCell", ""),
				ActivePane:  pane.AttrOr("activePane", ""),
				State:       state,
			}
		} else {
			view.SplitX = floatAttr(pane, "xSplit")
			view.SplitY = floatAttr(pane, "ySplit")
		}
	}
	return view
}

func hyperlinks(sheetID string, hl *xmlnode.Node, rels map[string]container.Relationship) []models.Hyperlink {
	var out []models.Hyperlink
	for i, h := range hl.ChildrenNamed(ns, "hyperlink") {
		link := models.Hyperlink{
			ID:       sheetID + "-hl-" + strconv.Itoa(i),
			Ref:      h.AttrOr("ref", ""),
			Location: h.AttrOr("location", ""),
			Display:  h.AttrOr("display", ""),
			Tooltip:  h.AttrOr("tooltip", ""),
		}
		if id, ok := h.AttrValue(nsR, "id"); ok {
			if r, ok := rels[id]; ok {
				link.Target = r.Target
			}
		}
		out = append(out, link)
	}
	return out
}
