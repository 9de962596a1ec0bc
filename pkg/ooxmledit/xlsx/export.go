package xlsx

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// ExportReport summarizes an export.
type ExportReport struct {
	// Sheets lists the sheet parts that were rewritten.
	Sheets []string `json:"sheets,omitempty"`
	// SharedStringsAdded counts the entries appended to the shared-string part.
	SharedStringsAdded int `json:"shared_strings_added,omitempty"`
}

// Export writes the dirty cells of wb into original and returns the new
// package. Only sheets holding a dirty cell are rewritten, and the
// shared-string part only when the table grew. Every other part is copied
// as it was. On success the dirty flags are cleared and the shared-string
// table is marked written.
func Export(wb *models.Workbook, original []byte, opts Options) ([]byte, *ExportReport, error) {
	c, err := container.Open(original)
	if err != nil {
		return nil, nil, err
	}
	if c.Format != container.FormatXLSX {
		return nil, nil, ooxml.NewPartError(c.MainPart, "export",
			fmt.Errorf("%w: %s is not a spreadsheet package", ooxml.ErrUnsupportedPackageLayout, c.Format))
	}
	log := opts.logger()

	report := &ExportReport{}
	overrides := map[string][]byte{}
	for _, s := range wb.DirtySheets() {
		data, err := c.Part(s.Path)
		if err != nil {
			return nil, nil, ooxml.Malformed(s.Path, "export", err)
		}
		out, err := ExportSheet(s, data)
		if err != nil {
			return nil, nil, err
		}
		overrides[s.Path] = out
		report.Sheets = append(report.Sheets, s.Path)
		log.Debug("rewrote sheet", "part", s.Path, "sheet", s.Name, "dirty", len(s.DirtyCells()))
	}

	if sst := wb.SharedStrings; sst != nil && len(sst.Added()) > 0 && len(overrides) > 0 {
		data, err := c.Part(wb.SharedStringsPath)
		if err != nil {
			return nil, nil, ooxml.Malformed(wb.SharedStringsPath, "export", err)
		}
		out, err := ExportSharedStrings(sst, data, sharedStringRefs(wb))
		if err != nil {
			return nil, nil, ooxml.NewPartError(wb.SharedStringsPath, "export", err)
		}
		overrides[wb.SharedStringsPath] = out
		report.SharedStringsAdded = len(sst.Added())
		log.Debug("rewrote shared strings", "part", wb.SharedStringsPath, "added", report.SharedStringsAdded)
	}

	if len(overrides) == 0 {
		return original, report, nil
	}
	out, err := container.Assemble(c, overrides)
	if err != nil {
		return nil, nil, err
	}

	for _, s := range wb.Sheets {
		s.ClearDirty()
	}
	if wb.SharedStrings != nil {
		wb.SharedStrings.Commit()
	}
	return out, report, nil
}

// sharedStringRefs counts the cells that reference the shared-string table.
func sharedStringRefs(wb *models.Workbook) int {
	n := 0
	for _, s := range wb.Sheets {
		for _, c := range s.Cells {
			if c.Type == "s" && c.StringIndex != nil {
				n++
			}
		}
	}
	return n
}

// ExportSharedStrings appends the table's new entries to a shared-string
// part. Existing entries and the root tag are kept byte for byte apart from
// the count and uniqueCount attributes.
func ExportSharedStrings(sst *models.SharedStringTable, data []byte, refs int) ([]byte, error) {
	doc, err := xmlnode.Parse(data)
	if err != nil {
		return nil, err
	}
	env, err := xmlnode.CaptureEnvelope(doc)
	if err != nil {
		return nil, err
	}
	if err := env.SetRootAttr("count", strconv.Itoa(refs)); err != nil {
		return nil, err
	}
	if err := env.SetRootAttr("uniqueCount", strconv.Itoa(sst.Len())); err != nil {
		return nil, err
	}

	prefix := doc.Root.Prefix
	var inner bytes.Buffer
	inner.Write(doc.Root.Inner(data))
	for _, it := range sst.Added() {
		inner.WriteString("<" + qname(prefix, "si") + ">")
		inner.Write(textElement(prefix, it.Text))
		inner.WriteString("</" + qname(prefix, "si") + ">")
	}
	return env.Wrap(inner.Bytes()), nil
}

// ExportSheet rewrites the cells of a worksheet part. The part's envelope
// and every root child other than sheetData are copied verbatim; the
// dimension element only changes when the used range grew. Inside
// sheetData, rows and cells without dirty cells are copied as they were.
func ExportSheet(s *models.Sheet, data []byte) ([]byte, error) {
	doc, err := xmlnode.Parse(data)
	if err != nil {
		return nil, ooxml.Malformed(s.Path, "export", err)
	}
	root := doc.Root
	if !root.Is(ns, "worksheet") {
		return nil, ooxml.Malformed(s.Path, "export", fmt.Errorf("root element is %s", root.Name.Local))
	}
	env, err := xmlnode.CaptureEnvelope(doc)
	if err != nil {
		return nil, ooxml.Malformed(s.Path, "export", err)
	}

	w := &sheetWriter{sheet: s, data: data, prefix: doc.PrefixFor(ns, root.Prefix)}
	var inner bytes.Buffer
	pos := root.ContentStart
	wroteData := false
	for _, child := range root.Children {
		inner.Write(data[pos:child.Start])
		pos = child.End
		switch {
		case child.Is(ns, "sheetData"):
			w.sheetData(&inner, child)
			wroteData = true
		case child.Is(ns, "dimension"):
			if err := w.dimension(&inner, child); err != nil {
				return nil, ooxml.NewPartError(s.Path, "export", err)
			}
		default:
			if !wroteData && sheetDataFollows(child) {
				w.sheetData(&inner, nil)
				wroteData = true
			}
			inner.Write(child.Outer(data))
		}
	}
	if !wroteData {
		w.sheetData(&inner, nil)
	}
	inner.Write(data[pos:root.ContentEnd])
	return env.Wrap(inner.Bytes()), nil
}

// sheetDataFollows reports whether a worksheet child belongs after
// sheetData in schema order.
func sheetDataFollows(n *xmlnode.Node) bool {
	switch n.Name.Local {
	case "sheetPr", "dimension", "sheetViews", "sheetFormatPr", "cols":
		return false
	}
	return true
}

type sheetWriter struct {
	sheet  *models.Sheet
	data   []byte
	prefix string
}

func (w *sheetWriter) tag(local string) string {
	return qname(w.prefix, local)
}

// dimension copies the dimension element, widening its ref to cover every
// cell of the model.
func (w *sheetWriter) dimension(buf *bytes.Buffer, n *xmlnode.Node) error {
	ref := n.AttrOr("ref", "")
	used, ok := usedRange(w.sheet.Cells)
	if !ok {
		buf.Write(n.Outer(w.data))
		return nil
	}
	if cur, err := ParseRange(ref); err == nil {
		used = union(cur, used)
		if used == cur {
			buf.Write(n.Outer(w.data))
			return nil
		}
	}
	tag, err := xmlnode.SetTagAttr(n.StartTag(w.data), "ref", FormatRange(used))
	if err != nil {
		return err
	}
	buf.Write(tag)
	buf.Write(w.data[n.ContentStart:n.End])
	w.sheet.Dimension = FormatRange(used)
	return nil
}

func usedRange(cells []*models.Cell) (models.CellRange, bool) {
	if len(cells) == 0 {
		return models.CellRange{}, false
	}
	r := models.CellRange{R1: cells[0].Row, C1: cells[0].Col, R2: cells[0].Row, C2: cells[0].Col}
	for _, c := range cells[1:] {
		r = union(r, models.CellRange{R1: c.Row, C1: c.Col, R2: c.Row, C2: c.Col})
	}
	return r, true
}

func union(a, b models.CellRange) models.CellRange {
	return models.CellRange{
		R1: min(a.R1, b.R1),
		C1: min(a.C1, b.C1),
		R2: max(a.R2, b.R2),
		C2: max(a.C2, b.C2),
	}
}

type rowNode struct {
	num   int
	node  *xmlnode.Node
	cells map[int]*xmlnode.Node
}

// sheetData writes the regenerated sheetData element. n is nil when the part
// had none.
func (w *sheetWriter) sheetData(buf *bytes.Buffer, n *xmlnode.Node) {
	dirty := map[int][]*models.Cell{}
	for _, c := range w.sheet.DirtyCells() {
		dirty[c.Row] = append(dirty[c.Row], c)
	}

	if n == nil {
		if len(dirty) == 0 {
			return
		}
		buf.WriteString("<" + w.tag("sheetData") + ">")
		w.rows(buf, nil, dirty, 0)
		buf.WriteString("</" + w.tag("sheetData") + ">")
		return
	}

	rows := indexRows(n)
	if n.SelfClosing {
		if len(dirty) == 0 {
			buf.Write(n.Outer(w.data))
			return
		}
		buf.WriteString("<" + w.tag("sheetData") + ">")
		w.rows(buf, rows, dirty, n.ContentStart)
		buf.WriteString("</" + w.tag("sheetData") + ">")
		return
	}
	buf.Write(n.StartTag(w.data))
	w.rows(buf, rows, dirty, n.ContentStart)
	end := n.ContentStart
	if len(rows) > 0 {
		end = rows[len(rows)-1].node.End
	}
	buf.Write(w.data[end:n.End])
}

func indexRows(sheetData *xmlnode.Node) []rowNode {
	var out []rowNode
	prev := 0
	for _, rn := range sheetData.ChildrenNamed(ns, "row") {
		num := atoiOr(rn.AttrOr("r", ""), prev+1)
		prev = num
		row := rowNode{num: num, node: rn, cells: map[int]*xmlnode.Node{}}
		prevCol := 0
		for _, cn := range rn.ChildrenNamed(ns, "c") {
			col := prevCol + 1
			if ref := cn.AttrOr("r", ""); ref != "" {
				if c, _, err := ParseCellRef(ref); err == nil {
					col = c
				}
			}
			prevCol = col
			row.cells[col] = cn
		}
		out = append(out, row)
	}
	return out
}

// rows merges the original rows with rows that only exist in the model.
// Bytes between original rows are kept; new rows are inserted in order.
func (w *sheetWriter) rows(buf *bytes.Buffer, rows []rowNode, dirty map[int][]*models.Cell, pos int) {
	nums := make([]int, 0, len(dirty))
	for num := range dirty {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	next := 0
	for _, row := range rows {
		for next < len(nums) && nums[next] < row.num {
			w.newRow(buf, nums[next], dirty[nums[next]])
			next++
		}
		buf.Write(w.data[pos:row.node.Start])
		pos = row.node.End
		cells, ok := dirty[row.num]
		if ok && next < len(nums) && nums[next] == row.num {
			next++
		}
		if !ok {
			buf.Write(row.node.Outer(w.data))
			continue
		}
		w.patchRow(buf, row, cells)
	}
	for ; next < len(nums); next++ {
		w.newRow(buf, nums[next], dirty[nums[next]])
	}
}

func (w *sheetWriter) newRow(buf *bytes.Buffer, num int, cells []*models.Cell) {
	var body bytes.Buffer
	for _, c := range cells {
		w.cell(&body, c, nil)
	}
	if body.Len() == 0 {
		return
	}
	buf.WriteString("<" + w.tag("row") + ` r="` + strconv.Itoa(num) + `">`)
	buf.Write(body.Bytes())
	buf.WriteString("</" + w.tag("row") + ">")
}

// patchRow rewrites a row that holds dirty cells. Untouched cells and the
// bytes between them are copied; the row tag keeps its attributes, with
// spans widened when a new cell falls outside it.
func (w *sheetWriter) patchRow(buf *bytes.Buffer, row rowNode, cells []*models.Cell) {
	byCol := make(map[int]*models.Cell, len(cells))
	cols := make([]int, 0, len(row.cells)+len(cells))
	for col := range row.cells {
		cols = append(cols, col)
	}
	for _, c := range cells {
		byCol[c.Col] = c
		if _, ok := row.cells[c.Col]; !ok {
			cols = append(cols, c.Col)
		}
	}
	sort.Ints(cols)

	rn := row.node
	open := rn.StartTag(w.data)
	if spans, ok := rn.AttrValue("", "spans"); ok && len(cols) > 0 {
		if widened := widenSpans(spans, cols[0], cols[len(cols)-1]); widened != spans {
			if tag, err := xmlnode.SetTagAttr(open, "spans", widened); err == nil {
				open = tag
			}
		}
	}
	if rn.SelfClosing {
		if cut := bytes.LastIndex(open, []byte("/>")); cut >= 0 {
			open = append(append([]byte(nil), open[:cut]...), '>')
		}
	}
	buf.Write(open)

	pos := rn.ContentStart
	for _, col := range cols {
		orig := row.cells[col]
		if orig != nil {
			buf.Write(w.data[pos:orig.Start])
			pos = orig.End
		}
		if c, ok := byCol[col]; ok {
			w.cell(buf, c, orig)
			continue
		}
		buf.Write(orig.Outer(w.data))
	}
	if rn.SelfClosing {
		buf.WriteString("</" + w.tag("row") + ">")
		return
	}
	buf.Write(w.data[pos:rn.End])
}

func widenSpans(spans string, lo, hi int) string {
	var a, b int
	if _, err := fmt.Sscanf(spans, "%d:%d", &a, &b); err != nil {
		return spans
	}
	return strconv.Itoa(min(a, lo)) + ":" + strconv.Itoa(max(b, hi))
}

// cell serializes a dirty cell. orig is the cell's original element, used to
// keep attributes the model does not track. An empty cell without a style is
// dropped.
func (w *sheetWriter) cell(buf *bytes.Buffer, c *models.Cell, orig *xmlnode.Node) {
	if c.Value.IsEmpty() && c.StyleIndex == nil && c.Formula == "" && c.FormulaIndex == nil {
		return
	}

	typ := cellType(c)
	name := w.tag("c")
	buf.WriteString("<" + name + ` r="` + c.Ref + `"`)
	if c.StyleIndex != nil {
		buf.WriteString(` s="` + strconv.Itoa(*c.StyleIndex) + `"`)
	}
	if typ != "" {
		buf.WriteString(` t="` + typ + `"`)
	}
	if ph, ok := orig.AttrValue("", "ph"); ok {
		buf.WriteString(` ph="` + ph + `"`)
	}
	content := w.cellContent(c, typ)
	if len(content) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteString(">")
	buf.Write(content)
	buf.WriteString("</" + name + ">")
}

// cellType returns the t attribute to write. String results of detached
// formulas are stored inline since "str" requires a formula.
func cellType(c *models.Cell) string {
	switch c.Value.Kind {
	case models.ValueString:
		switch {
		case c.Type == "s" && c.StringIndex != nil:
			return "s"
		case c.Type == "d":
			return "d"
		case c.Type == "str" && c.HasFormula():
			return "str"
		}
		return "inlineStr"
	case models.ValueBoolean:
		return "b"
	case models.ValueError:
		return "e"
	}
	return ""
}

func (w *sheetWriter) cellContent(c *models.Cell, typ string) []byte {
	var buf bytes.Buffer
	if c.Formula != "" || c.FormulaIndex != nil {
		f := w.tag("f")
		buf.WriteString("<" + f)
		if c.FormulaType != "" && c.FormulaType != models.FormulaNormal {
			buf.WriteString(` t="` + c.FormulaType + `"`)
		}
		if c.FormulaRef != "" {
			buf.WriteString(` ref="` + c.FormulaRef + `"`)
		}
		if c.FormulaIndex != nil {
			buf.WriteString(` si="` + strconv.Itoa(*c.FormulaIndex) + `"`)
		}
		if c.Formula == "" {
			buf.WriteString("/>")
		} else {
			buf.WriteString(">")
			buf.Write(xmlnode.EscapeText(c.Formula))
			buf.WriteString("</" + f + ">")
		}
	}

	v := w.tag("v")
	value := func(s string) {
		buf.WriteString("<" + v + ">")
		buf.Write(xmlnode.EscapeText(s))
		buf.WriteString("</" + v + ">")
	}
	switch typ {
	case "s":
		value(strconv.Itoa(*c.StringIndex))
	case "inlineStr":
		buf.WriteString("<" + w.tag("is") + ">")
		buf.Write(textElement(w.prefix, c.Value.Text))
		buf.WriteString("</" + w.tag("is") + ">")
	case "b":
		if c.Value.Bool {
			value("1")
		} else {
			value("0")
		}
	case "e", "d", "str":
		value(c.Value.Text)
	default:
		if c.Value.Kind == models.ValueNumber {
			value(models.FormatNumber(c.Value.Number))
		}
	}
	return buf.Bytes()
}

func qname(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// textElement renders a t element, preserving surrounding whitespace.
// Characters XML cannot carry are written with the _xHHHH_ escape.
func textElement(prefix, text string) []byte {
	text = encodeText(text)
	t := qname(prefix, "t")
	var buf bytes.Buffer
	buf.WriteString("<" + t)
	if xmlnode.NeedsPreserve(text) {
		buf.WriteString(` xml:space="preserve"`)
	}
	buf.WriteString(">")
	buf.Write(xmlnode.EscapeText(text))
	buf.WriteString("</" + t + ">")
	return buf.Bytes()
}
