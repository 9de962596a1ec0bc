package docx

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// PatchReport summarizes a patch run.
type PatchReport struct {
	// Patched counts the units whose bytes changed.
	Patched int `json:"patched"`
	// Stale lists the units whose references no longer resolve. Their
	// changes were skipped.
	Stale []models.StaleReference `json:"stale,omitempty"`
}

// Patch writes the model's text and control state into the main part of
// original and returns the new package. Only units whose content differs
// from the original are touched; every other byte of the part and every
// other part is kept. With nothing to change the original bytes are
// returned as they are.
func Patch(doc *models.Document, original []byte, opts Options) ([]byte, *PatchReport, error) {
	c, err := container.Open(original)
	if err != nil {
		return nil, nil, err
	}
	if c.Format != container.FormatDOCX {
		return nil, nil, ooxml.NewPartError(c.MainPart, "patch",
			fmt.Errorf("%w: %s is not a word-processing package", ooxml.ErrUnsupportedPackageLayout, c.Format))
	}
	data, err := c.Part(c.MainPart)
	if err != nil {
		return nil, nil, ooxml.Malformed(c.MainPart, "patch", err)
	}

	patched, report, err := PatchDocument(doc, c.MainPart, data, opts)
	if err != nil {
		return nil, nil, err
	}
	if report.Patched == 0 {
		return original, report, nil
	}

	out, err := container.Assemble(c, map[string][]byte{c.MainPart: patched})
	if err != nil {
		return nil, nil, ooxml.NewPartError(c.MainPart, "export", err)
	}
	return out, report, nil
}

// PatchDocument applies the model to the bytes of a main document part.
func PatchDocument(doc *models.Document, part string, data []byte, opts Options) ([]byte, *PatchReport, error) {
	_, body, err := loadBody(part, data)
	if err != nil {
		return nil, nil, err
	}

	p := &patcher{
		doc:    doc,
		data:   data,
		body:   body,
		nodes:  make(map[string]*xmlnode.Node),
		report: &PatchReport{},
		log:    opts.logger().With("part", part),
	}
	for _, idx := range doc.Body {
		p.block(idx)
	}
	if len(p.edits) == 0 {
		return data, p.report, nil
	}

	out, err := xmlnode.Splice(data, p.edits)
	if err != nil {
		return nil, nil, ooxml.NewPartError(part, "patch", err)
	}
	p.log.Debug("patched document", "units", p.report.Patched, "stale", len(p.report.Stale))
	return out, p.report, nil
}

type patcher struct {
	doc    *models.Document
	data   []byte
	body   *xmlnode.Node
	nodes  map[string]*xmlnode.Node
	edits  []xmlnode.Edit
	report *PatchReport
	log    *slog.Logger
}

// resolveAs resolves ref and checks that it lands on a w:<local> element.
func (p *patcher) resolveAs(ref, local string) (*xmlnode.Node, error) {
	n, ok := p.nodes[ref]
	if !ok {
		var err error
		n, err = resolve(p.body, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ooxml.ErrStaleReference, err)
		}
		p.nodes[ref] = n
	}
	if !n.Is(w, local) {
		return nil, fmt.Errorf("%w: %s resolves to %s", ooxml.ErrStaleReference, ref, n.Name.Local)
	}
	return n, nil
}

func (p *patcher) stale(ref, kind string, err error) {
	p.report.Stale = append(p.report.Stale, models.StaleReference{Ref: ref, Kind: kind, Reason: err.Error()})
	p.log.Warn("skipping stale reference", "ref", ref, "kind", kind, "error", err)
}

func (p *patcher) block(idx int) {
	if idx < 0 || idx >= len(p.doc.Blocks) {
		return
	}
	b := &p.doc.Blocks[idx]
	switch b.Kind {
	case models.BlockParagraph:
		p.paragraph(b)
	case models.BlockTable:
		p.table(b)
	case models.BlockDrawing:
	}
}

// table patches a table. A table, row or cell that no longer resolves is
// reported once and its whole subtree skipped.
func (p *patcher) table(b *models.Block) {
	if _, err := p.resolveAs(b.Ref, "tbl"); err != nil {
		p.stale(b.Ref, "table", err)
		return
	}
	for ri := range b.Table.Rows {
		row := &b.Table.Rows[ri]
		if _, err := p.resolveAs(row.Ref, "tr"); err != nil {
			p.stale(row.Ref, "row", err)
			continue
		}
		for ci := range row.Cells {
			cell := &row.Cells[ci]
			if _, err := p.resolveAs(cell.Ref, "tc"); err != nil {
				p.stale(cell.Ref, "cell", err)
				continue
			}
			for _, child := range cell.Blocks {
				p.block(child)
			}
		}
	}
}

func (p *patcher) paragraph(b *models.Block) {
	pn, err := p.resolveAs(b.Ref, "p")
	if err != nil {
		p.stale(b.Ref, "paragraph", err)
		return
	}
	for i := range b.Paragraph.Inlines {
		in := &b.Paragraph.Inlines[i]
		switch in.Kind {
		case models.InlineText:
			p.run(pn, in)
		case models.InlineCheckbox:
			p.checkbox(in)
		case models.InlineDropdown:
			p.dropdown(in)
		}
	}
}

func (p *patcher) run(pn *xmlnode.Node, in *models.Inline) {
	rn, err := p.resolveAs(in.Ref, "r")
	if err != nil {
		if in.Text.Synthetic && controlWrapper(pn) == nil && len(paragraphRuns(pn)) == 0 {
			p.synthesize(pn, in.Text.Text)
			return
		}
		p.stale(in.Ref, "run", err)
		return
	}
	if runText(rn) == in.Text.Text {
		return
	}

	ts := rn.ChildrenNamed(w, "t")
	if len(ts) == 0 {
		p.edits = append(p.edits, xmlnode.AppendEdit(p.data, rn, textElement(rn.Prefix, in.Text.Text)))
	} else {
		p.edits = append(p.edits, p.textEdit(ts[0], in.Text.Text))
		for _, t := range ts[1:] {
			if t.ContentEnd > t.ContentStart {
				p.edits = append(p.edits, xmlnode.ContentEdit(p.data, t, nil))
			}
		}
	}
	p.report.Patched++
}

// synthesize appends a minimal run to a paragraph that has none.
func (p *patcher) synthesize(pn *xmlnode.Node, text string) {
	if text == "" {
		return
	}
	r := qname(pn.Prefix, "r")
	var buf bytes.Buffer
	buf.WriteString("<" + r + ">")
	buf.Write(textElement(pn.Prefix, text))
	buf.WriteString("</" + r + ">")
	p.edits = append(p.edits, xmlnode.AppendEdit(p.data, pn, buf.Bytes()))
	p.report.Patched++
}

// textEdit replaces the content of a text node, adding xml:space="preserve"
// when the new text has significant whitespace.
func (p *patcher) textEdit(t *xmlnode.Node, text string) xmlnode.Edit {
	escaped := xmlnode.EscapeText(text)
	if space, _ := t.AttrValue(ooxml.NSXML, "space"); !xmlnode.NeedsPreserve(text) || space == "preserve" {
		return xmlnode.ContentEdit(p.data, t, escaped)
	}
	open, err := xmlnode.SetTagAttr(xmlnode.OpenTag(p.data, t), "xml:space", "preserve")
	if err != nil {
		return xmlnode.ContentEdit(p.data, t, escaped)
	}
	var buf bytes.Buffer
	buf.Write(open)
	buf.Write(escaped)
	buf.WriteString("</" + t.QName() + ">")
	return xmlnode.Edit{Start: t.Start, End: t.End, Replacement: buf.Bytes()}
}

func (p *patcher) checkbox(in *models.Inline) {
	sdt, err := p.resolveAs(in.Ref, "sdt")
	if err != nil {
		p.stale(in.Ref, "checkbox", err)
		return
	}
	cb := checkboxElement(sdt)
	if cb == nil {
		p.stale(in.Ref, "checkbox", fmt.Errorf("%w: %s is not a checkbox", ooxml.ErrStaleReference, in.Ref))
		return
	}
	want := in.Checkbox.Checked
	if checkedValue(cb) == want {
		return
	}

	value := "0"
	if want {
		value = "1"
	}
	if ck := cb.Child(w14, "checked"); ck != nil {
		edit, err := xmlnode.TagAttrEdit(p.data, ck, qname(ck.Prefix, "val"), value)
		if err != nil {
			p.stale(in.Ref, "checkbox", err)
			return
		}
		p.edits = append(p.edits, edit)
	} else {
		el := "<" + qname(cb.Prefix, "checked") + " " + qname(cb.Prefix, "val") + `="` + value + `"/>`
		p.edits = append(p.edits, xmlnode.PrependEdit(p.data, cb, []byte(el)))
	}

	glyph := checkboxGlyph(cb, want)
	content := sdt.Child(w, "sdtContent")
	if t := content.Find(w, "t"); t != nil {
		p.edits = append(p.edits, xmlnode.ContentEdit(p.data, t, xmlnode.EscapeText(string(glyph))))
	} else if sym := content.Find(w, "sym"); sym != nil {
		if edit, err := xmlnode.TagAttrEdit(p.data, sym, qname(sym.Prefix, "char"), fmt.Sprintf("%04X", glyph)); err == nil {
			p.edits = append(p.edits, edit)
		}
	}
	p.report.Patched++
}

func (p *patcher) dropdown(in *models.Inline) {
	sdt, err := p.resolveAs(in.Ref, "sdt")
	if err != nil {
		p.stale(in.Ref, "dropdown", err)
		return
	}
	if listElement(sdt) == nil {
		p.stale(in.Ref, "dropdown", fmt.Errorf("%w: %s is not a dropdown", ooxml.ErrStaleReference, in.Ref))
		return
	}
	content := sdt.Child(w, "sdtContent")
	want := in.Dropdown.Selected
	if selectionText(content) == want {
		return
	}
	if content == nil {
		p.stale(in.Ref, "dropdown", fmt.Errorf("%w: %s has no content", ooxml.ErrStaleReference, in.Ref))
		return
	}

	ts := content.FindAll(w, "t")
	target := -1
	for i, t := range ts {
		if t.Text() != "" {
			target = i
			break
		}
	}
	if target < 0 && len(ts) > 0 {
		target = 0
	}
	switch {
	case target >= 0:
		for i, t := range ts {
			switch {
			case i == target:
				p.edits = append(p.edits, p.textEdit(t, want))
			case t.ContentEnd > t.ContentStart:
				p.edits = append(p.edits, xmlnode.ContentEdit(p.data, t, nil))
			}
		}
	case content.Find(w, "r") != nil:
		r := content.Find(w, "r")
		p.edits = append(p.edits, xmlnode.AppendEdit(p.data, r, textElement(r.Prefix, want)))
	default:
		host := content
		if para := content.Find(w, "p"); para != nil {
			host = para
		}
		r := qname(host.Prefix, "r")
		el := "<" + r + ">" + string(textElement(host.Prefix, want)) + "</" + r + ">"
		p.edits = append(p.edits, xmlnode.AppendEdit(p.data, host, []byte(el)))
	}

	if ph := sdt.Child(w, "sdtPr").Child(w, "showingPlcHdr"); ph != nil && want != "" {
		p.edits = append(p.edits, xmlnode.RemoveEdit(ph))
	}
	p.report.Patched++
}

func qname(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// textElement renders a text node that keeps its whitespace.
func textElement(prefix, text string) []byte {
	t := qname(prefix, "t")
	var buf bytes.Buffer
	buf.WriteString("<" + t + ` xml:space="preserve">`)
	buf.Write(xmlnode.EscapeText(text))
	buf.WriteString("</" + t + ">")
	return buf.Bytes()
}
