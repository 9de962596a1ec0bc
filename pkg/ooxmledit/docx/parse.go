package docx

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlref"
)

// Options configures parsing and patching.
type Options struct {
	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Parse parses the main part of a word-processing package into a block tree.
func Parse(c *container.Container, opts Options) (*models.Document, error) {
	if c.Format != container.FormatDOCX {
		return nil, ooxml.NewPartError(c.MainPart, "parse",
			fmt.Errorf("%w: %s is not a word-processing package", ooxml.ErrUnsupportedPackageLayout, c.Format))
	}
	data, err := c.Part(c.MainPart)
	if err != nil {
		return nil, ooxml.Malformed(c.MainPart, "parse", err)
	}
	return ParseDocument(c.MainPart, data, opts)
}

// ParseDocument parses the bytes of a main document part.
func ParseDocument(part string, data []byte, opts Options) (*models.Document, error) {
	_, body, err := loadBody(part, data)
	if err != nil {
		return nil, err
	}

	p := &parser{doc: &models.Document{Body: []int{}, Blocks: []models.Block{}}}
	p.doc.Body = p.blocks(body, "")
	p.doc.DeriveLegacyFields()

	opts.logger().Debug("parsed document",
		"part", part,
		"blocks", len(p.doc.Blocks),
		"paragraphs", p.paragraphs,
		"tables", p.tables,
		"checkboxes", len(p.doc.Checkboxes),
		"dropdowns", len(p.doc.Dropdowns))
	return p.doc, nil
}

// loadBody parses a main document part and returns its w:body.
func loadBody(part string, data []byte) (*xmlnode.Document, *xmlnode.Node, error) {
	xdoc, err := xmlnode.Parse(data)
	if err != nil {
		return nil, nil, ooxml.Malformed(part, "parse", err)
	}
	if !xdoc.Root.Is(w, "document") {
		return nil, nil, ooxml.NewPartError(part, "parse",
			fmt.Errorf("%w: root element is %s", ooxml.ErrUnsupportedPackageLayout, xdoc.Root.Name.Local))
	}
	body := xdoc.Root.Child(w, "body")
	if body == nil {
		return nil, nil, ooxml.Malformed(part, "parse", fmt.Errorf("missing w:body"))
	}
	return xdoc, body, nil
}

type parser struct {
	doc        *models.Document
	paragraphs int
	tables     int
	drawings   int
	unnamed    int
}

// blocks parses the block content of a body or cell.
func (p *parser) blocks(n *xmlnode.Node, parentRef string) []int {
	out := []int{}
	var pi, ti int
	for _, child := range blockChildren(n) {
		switch child.Name.Local {
		case "p":
			ref := xmlref.Assign(parentRef, KindParagraph, pi)
			pi++
			out = append(out, p.paragraph(child, ref))
			out = append(out, p.drawingBlocks(child, ref)...)
		case "tbl":
			ref := xmlref.Assign(parentRef, KindTable, ti)
			ti++
			out = append(out, p.table(child, ref))
		}
	}
	return out
}

func (p *parser) paragraph(n *xmlnode.Node, ref string) int {
	num := p.paragraphs
	p.paragraphs++

	para := &models.Paragraph{
		Style:   val(n.Path(w, "pPr", "pStyle")),
		Inlines: []models.Inline{},
	}
	if wrapper := controlWrapper(n); wrapper != nil {
		para.Wrapped = true
		if firstParagraph(wrapper) == n {
			if c, ok := readControl(wrapper); ok {
				para.Inlines = append(para.Inlines, p.controlInline(c, xmlref.Assign(ref, KindControl, 0)))
			}
		}
	} else {
		var ri, si int
		walkInline(n,
			func(r *xmlnode.Node) {
				para.Inlines = append(para.Inlines, models.Inline{
					Kind: models.InlineText,
					ID:   runID(num, ri),
					Ref:  xmlref.Assign(ref, KindRun, ri),
					Text: readRun(r),
				})
				ri++
			},
			func(s *xmlnode.Node) {
				c, _ := readControl(s)
				para.Inlines = append(para.Inlines, p.controlInline(c, xmlref.Assign(ref, KindControl, si)))
				si++
			})
	}

	return p.doc.AddBlock(models.Block{
		Kind:      models.BlockParagraph,
		ID:        "p-" + strconv.Itoa(num),
		Ref:       ref,
		Paragraph: para,
	})
}

func runID(paragraph, run int) string {
	return "run-" + strconv.Itoa(paragraph) + "-" + strconv.Itoa(run)
}

func (p *parser) controlInline(c control, ref string) models.Inline {
	id := c.id
	if id == "" {
		id = "n" + strconv.Itoa(p.unnamed)
		p.unnamed++
	}
	return c.inline(string(c.kind)+"-"+id, ref)
}

// runText concatenates the text nodes of a run.
func runText(r *xmlnode.Node) string {
	var b strings.Builder
	for _, t := range r.ChildrenNamed(w, "t") {
		b.WriteString(t.Text())
	}
	return b.String()
}

func readRun(r *xmlnode.Node) *models.TextRun {
	rPr := r.Child(w, "rPr")
	return &models.TextRun{
		Text:   runText(r),
		Bold:   onOff(rPr.Child(w, "b")),
		Italic: onOff(rPr.Child(w, "i")),
		Color:  val(rPr.Child(w, "color")),
	}
}

func (p *parser) table(n *xmlnode.Node, ref string) int {
	num := p.tables
	p.tables++

	tbl := &models.Table{Rows: []models.Row{}}
	for ri, tr := range rowChildren(n) {
		rowRef := xmlref.Assign(ref, KindRow, ri)
		row := models.Row{
			ID:    fmt.Sprintf("row-%d-%d", num, ri),
			Ref:   rowRef,
			Cells: []models.TableCell{},
		}
		grid := atoiOr(val(tr.Path(w, "trPr", "gridBefore")), 0)
		for ci, tc := range cellChildren(tr) {
			cell := readCell(tc)
			cell.ID = fmt.Sprintf("cell-%d-%d-%d", num, ri, ci)
			cell.Ref = xmlref.Assign(rowRef, KindCell, ci)
			cell.GridCol = grid
			grid += cell.ColSpan
			cell.Blocks = []int{}
			if cell.VMerge != models.VMergeContinue {
				cell.Blocks = p.blocks(tc, cell.Ref)
			}
			row.Cells = append(row.Cells, cell)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	tbl.ComputeRowSpans()

	return p.doc.AddBlock(models.Block{
		Kind:  models.BlockTable,
		ID:    "tbl-" + strconv.Itoa(num),
		Ref:   ref,
		Table: tbl,
	})
}

func readCell(tc *xmlnode.Node) models.TableCell {
	pr := tc.Child(w, "tcPr")
	cell := models.TableCell{ColSpan: 1, RowSpan: 1}
	if span := atoiOr(val(pr.Child(w, "gridSpan")), 1); span > 1 {
		cell.ColSpan = span
	}
	if vm := pr.Child(w, "vMerge"); vm != nil {
		if val(vm) == "restart" {
			cell.VMerge = models.VMergeStart
		} else {
			cell.VMerge = models.VMergeContinue
		}
	}
	if fill, ok := pr.Child(w, "shd").AttrValue(w, "fill"); ok && fill != "" && !strings.EqualFold(fill, "auto") {
		cell.Background = fill
	}
	if b := pr.Child(w, "tcBorders"); b != nil {
		cell.Borders = &models.CellBorders{
			Top:    readBorder(b.Child(w, "top")),
			Bottom: readBorder(b.Child(w, "bottom")),
			Left:   readBorder(firstChild(b, "left", "start")),
			Right:  readBorder(firstChild(b, "right", "end")),
		}
	}
	return cell
}

func firstChild(n *xmlnode.Node, locals ...string) *xmlnode.Node {
	for _, l := range locals {
		if c := n.Child(w, l); c != nil {
			return c
		}
	}
	return nil
}

func readBorder(n *xmlnode.Node) *models.Border {
	if n == nil {
		return nil
	}
	b := &models.Border{Style: val(n)}
	if b.Style == "" || b.Style == "nil" {
		b.Style = "none"
	}
	if sz, ok := n.AttrValue(w, "sz"); ok {
		if v, err := strconv.Atoi(sz); err == nil {
			b.Width = &v
		}
	}
	if color, _ := n.AttrValue(w, "color"); color != "" && !strings.EqualFold(color, "auto") {
		b.Color = color
	}
	return b
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
