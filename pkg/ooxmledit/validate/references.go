package validate

import (
	"fmt"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/docx"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlref"
)

// Reference check codes.
const (
	CodeUnreadableBase    = "unreadable_base"
	CodeUnresolvedRef     = "unresolved_ref"
	CodeRefKindMismatch   = "ref_kind_mismatch"
	CodeRoundTripFailed   = "roundtrip_failed"
	CodeRoundTripMismatch = "roundtrip_mismatch"
	CodeStaleRef          = "stale_ref"
)

// References checks that every block, row, cell, run and control reference
// of doc resolves to an element of the same kind in the main part of
// original. Runs created by edits have no element yet and are skipped.
func References(doc *models.Document, original []byte) models.ValidationReport {
	report := newReport()
	if doc == nil {
		return report
	}
	body, err := documentBody(original)
	if err != nil {
		report.Add(models.SeverityError, CodeUnreadableBase, "", err.Error())
		return report
	}

	check := func(ref, local string) {
		if ref == "" {
			return
		}
		n, err := xmlref.ResolveString(body, ref, docx.Navigate)
		if err != nil {
			report.Add(models.SeverityError, CodeUnresolvedRef, ref, err.Error())
			return
		}
		if !n.Is(ooxml.NSWordMain, local) {
			report.Add(models.SeverityError, CodeRefKindMismatch, ref,
				fmt.Sprintf("reference resolves to %s, expected %s", n.Name.Local, local))
		}
	}

	doc.Walk(func(_ int, b *models.Block, _ *models.TableCell) bool {
		switch b.Kind {
		case models.BlockParagraph:
			check(b.Ref, "p")
			if b.Paragraph == nil {
				return true
			}
			for _, in := range b.Paragraph.Inlines {
				switch in.Kind {
				case models.InlineText:
					if in.Text == nil || !in.Text.Synthetic {
						check(in.Ref, "r")
					}
				case models.InlineCheckbox, models.InlineDropdown:
					check(in.Ref, "sdt")
				}
			}
		case models.BlockTable:
			check(b.Ref, "tbl")
			if b.Table == nil {
				return true
			}
			for _, row := range b.Table.Rows {
				check(row.Ref, "tr")
				for _, c := range row.Cells {
					check(c.Ref, "tc")
				}
			}
		case models.BlockDrawing:
			check(b.Ref, "drawing")
		}
		return true
	})
	return report
}

// documentBody returns the w:body element of a word-processing package.
func documentBody(data []byte) (*xmlnode.Node, error) {
	c, err := container.Open(data)
	if err != nil {
		return nil, err
	}
	if c.Format != container.FormatDOCX {
		return nil, fmt.Errorf("%w: %s is not a word-processing package", ooxml.ErrUnsupportedPackageLayout, c.Format)
	}
	part, err := c.Part(c.MainPart)
	if err != nil {
		return nil, ooxml.Malformed(c.MainPart, "validate", err)
	}
	xdoc, err := xmlnode.Parse(part)
	if err != nil {
		return nil, ooxml.Malformed(c.MainPart, "validate", err)
	}
	body := xdoc.Root.Child(ooxml.NSWordMain, "body")
	if body == nil {
		return nil, ooxml.Malformed(c.MainPart, "validate", fmt.Errorf("missing w:body"))
	}
	return body, nil
}
