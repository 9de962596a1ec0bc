// Package xlsx parses spreadsheet packages into the flat cell model and
// writes cell edits back into the original parts.
package xlsx

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

const (
	ns    = ooxml.NSSheetMain
	nsR   = ooxml.NSRelationships
	nsX14 = ooxml.NSSheet2009
	nsXM  = ooxml.NSExcelMain
	nsXDR = ooxml.NSSheetDrawing
	nsA   = ooxml.NSDrawingMain
	nsC   = ooxml.NSChart
)

// Relationship type suffixes.
const (
	relWorksheet     = "/worksheet"
	relSharedStrings = "/sharedStrings"
	relDrawing       = "/drawing"
	relVMLDrawing    = "/vmlDrawing"
	relCtrlProp      = "/ctrlProp"
	relComments      = "/comments"
	relTable         = "/table"
	relChart         = "/chart"
)

// Options configures parsing and export.
type Options struct {
	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
	// ResolveStyles fills Workbook.Styles and Workbook.Properties.
	ResolveStyles bool
	// ResolveListSources expands range-sourced list validations into the
	// values of the referenced cells.
	ResolveListSources bool
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Parse parses a spreadsheet package into a workbook model.
func Parse(c *container.Container, opts Options) (*models.Workbook, error) {
	if c.Format != container.FormatXLSX {
		return nil, ooxml.NewPartError(c.MainPart, "parse",
			fmt.Errorf("%w: %s is not a spreadsheet package", ooxml.ErrUnsupportedPackageLayout, c.Format))
	}

	p := &parser{c: c, opts: opts, log: opts.logger()}
	wb, err := p.workbook()
	if err != nil {
		return nil, err
	}

	if opts.ResolveListSources {
		resolveListSources(wb)
	}
	if opts.ResolveStyles {
		if err := resolveStyles(c, wb); err != nil {
			p.log.Warn("skipping style resolution", "error", err)
		}
	}

	p.log.Debug("parsed workbook",
		"part", c.MainPart,
		"sheets", len(wb.Sheets),
		"shared_strings", sstLen(wb.SharedStrings))
	return wb, nil
}

func sstLen(t *models.SharedStringTable) int {
	if t == nil {
		return 0
	}
	return t.Len()
}

type parser struct {
	c    *container.Container
	opts Options
	log  *slog.Logger
	sst  *models.SharedStringTable
}

// loadPart reads and parses an XML part.
func (p *parser) loadPart(name string) (*xmlnode.Document, error) {
	data, err := p.c.Part(name)
	if err != nil {
		return nil, ooxml.Malformed(name, "parse", err)
	}
	doc, err := xmlnode.Parse(data)
	if err != nil {
		return nil, ooxml.Malformed(name, "parse", err)
	}
	return doc, nil
}

func (p *parser) workbook() (*models.Workbook, error) {
	part := p.c.MainPart
	doc, err := p.loadPart(part)
	if err != nil {
		return nil, err
	}
	root := doc.Root
	if !root.Is(ns, "workbook") {
		return nil, ooxml.NewPartError(part, "parse",
			fmt.Errorf("%w: root element is %s", ooxml.ErrUnsupportedPackageLayout, root.Name.Local))
	}

	rels, err := p.c.Relationships(part)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]container.Relationship, len(rels))
	for _, r := range rels {
		byID[r.ID] = r
	}

	wb := &models.Workbook{Sheets: []*models.Sheet{}}
	if r, ok := container.FirstOfType(rels, relSharedStrings); ok && p.c.Has(r.Resolved) {
		sst, err := p.sharedStrings(r.Resolved)
		if err != nil {
			return nil, err
		}
		wb.SharedStrings = sst
		wb.SharedStringsPath = r.Resolved
		p.sst = sst
	}

	if view := root.Path(ns, "bookViews", "workbookView"); view != nil {
		wb.ActiveSheet = atoiOr(view.AttrOr("activeTab", "0"), 0)
	}

	for i, sn := range root.Child(ns, "sheets").ChildrenNamed(ns, "sheet") {
		relID, _ := sn.AttrValue(nsR, "id")
		sheet := &models.Sheet{
			ID:      "sheet-" + strconv.Itoa(i),
			Name:    sn.AttrOr("name", ""),
			Index:   i,
			SheetID: atoiOr(sn.AttrOr("sheetId", "0"), 0),
			RelID:   relID,
			State:   sn.AttrOr("state", "visible"),
			Cells:   []*models.Cell{},
		}
		rel, ok := byID[relID]
		if !ok || rel.External || !p.c.Has(rel.Resolved) {
			return nil, ooxml.NewPartError(part, "parse",
				fmt.Errorf("%w: sheet %q has no worksheet part", ooxml.ErrMalformedContainer, sheet.Name))
		}
		sheet.Path = rel.Resolved
		if err := p.sheet(sheet); err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	wb.DefinedNames = definedNames(root.Child(ns, "definedNames"), wb)
	return wb, nil
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func atoiPtr(s string, ok bool) *int {
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// boolAttr reads an xsd:boolean attribute.
func boolAttr(n *xmlnode.Node, local string, fallback bool) bool {
	v, ok := n.AttrValue("", local)
	if !ok {
		return fallback
	}
	return v == "1" || v == "true"
}

func floatAttr(n *xmlnode.Node, local string) float64 {
	v, ok := n.AttrValue("", local)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
