// Package validate checks the structural consistency of parsed models.
// Checks report issues and never fail; callers decide which issues are fatal.
package validate

import (
	"fmt"
	"reflect"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
)

// Issue codes.
const (
	CodeMissingID         = "missing_id"
	CodeMissingRef        = "missing_ref"
	CodeDuplicateID       = "duplicate_id"
	CodeDuplicateRef      = "duplicate_ref"
	CodeDanglingBlock     = "dangling_block"
	CodeInvalidSpan       = "invalid_span"
	CodeBrokenVMerge      = "broken_vmerge"
	CodeLegacyMismatch    = "legacy_mismatch"
	CodeDuplicateCell     = "duplicate_cell"
	CodeCellOutOfBounds   = "cell_out_of_bounds"
	CodeOrphanMergedCell  = "orphan_merged_cell"
	CodeMergedCellValue   = "merged_cell_value"
	CodeInvalidMerge      = "invalid_merge"
	CodeOverlappingMerge  = "overlapping_merge"
	CodeInvalidSqref      = "invalid_sqref"
	CodeRangeOutOfBounds  = "range_out_of_bounds"
	CodeUnresolvedSource  = "unresolved_list_source"
	CodeEmptyRange        = "empty_range"
	CodeInvalidLinkedCell = "invalid_linked_cell"
	CodeUnknownLocalSheet = "unknown_local_sheet"
)

func newReport() models.ValidationReport {
	return models.ValidationReport{Valid: true, Issues: []models.ValidationIssue{}}
}

// ids records identifiers and references, reporting repeats.
type ids struct {
	report *models.ValidationReport
	seen   map[string]string
	refs   map[string]string
}

func newIDs(r *models.ValidationReport) *ids {
	return &ids{report: r, seen: map[string]string{}, refs: map[string]string{}}
}

func (s *ids) id(id, what string) {
	if id == "" {
		s.report.Add(models.SeverityError, CodeMissingID, "", what+" has no id")
		return
	}
	if prev, ok := s.seen[id]; ok {
		s.report.Add(models.SeverityError, CodeDuplicateID, id,
			fmt.Sprintf("%s id %q is already used by a %s", what, id, prev))
		return
	}
	s.seen[id] = what
}

func (s *ids) ref(id, ref, what string) {
	if ref == "" {
		s.report.Add(models.SeverityError, CodeMissingRef, id, fmt.Sprintf("%s %s has no reference", what, id))
		return
	}
	if prev, ok := s.refs[ref]; ok {
		s.report.Add(models.SeverityError, CodeDuplicateRef, ref,
			fmt.Sprintf("%s reference %q is already used by a %s", what, ref, prev))
		return
	}
	s.refs[ref] = what
}

// Document checks a word-processing model.
func Document(doc *models.Document) models.ValidationReport {
	report := newReport()
	if doc == nil {
		return report
	}
	seen := newIDs(&report)

	for _, idx := range doc.Body {
		if idx < 0 || idx >= len(doc.Blocks) {
			report.Add(models.SeverityError, CodeDanglingBlock, "",
				fmt.Sprintf("body refers to block %d outside the arena of %d", idx, len(doc.Blocks)))
		}
	}

	doc.Walk(func(_ int, b *models.Block, _ *models.TableCell) bool {
		seen.id(b.ID, string(b.Kind))
		seen.ref(b.ID, b.Ref, string(b.Kind))
		switch b.Kind {
		case models.BlockParagraph:
			if b.Paragraph != nil {
				paragraph(seen, b.Paragraph)
			}
		case models.BlockTable:
			if b.Table != nil {
				table(&report, seen, doc, b.Table)
			}
		case models.BlockDrawing:
		}
		return true
	})

	legacy(&report, doc)
	return report
}

func paragraph(seen *ids, p *models.Paragraph) {
	for _, in := range p.Inlines {
		seen.id(in.ID, string(in.Kind))
		seen.ref(in.ID, in.Ref, string(in.Kind))
	}
}

func table(report *models.ValidationReport, seen *ids, doc *models.Document, t *models.Table) {
	for ri := range t.Rows {
		row := &t.Rows[ri]
		seen.id(row.ID, "row")
		seen.ref(row.ID, row.Ref, "row")
		for ci := range row.Cells {
			c := &row.Cells[ci]
			seen.id(c.ID, "cell")
			seen.ref(c.ID, c.Ref, "cell")
			if c.ColSpan < 1 || c.RowSpan < 1 {
				report.Add(models.SeverityError, CodeInvalidSpan, c.Ref,
					fmt.Sprintf("cell spans %d columns and %d rows", c.ColSpan, c.RowSpan))
			}
			for _, idx := range c.Blocks {
				if idx < 0 || idx >= len(doc.Blocks) {
					report.Add(models.SeverityError, CodeDanglingBlock, c.Ref,
						fmt.Sprintf("cell refers to block %d outside the arena of %d", idx, len(doc.Blocks)))
				}
			}
			if c.VMerge == models.VMergeContinue && !continuesAbove(t, ri, c.GridCol) {
				report.Add(models.SeverityError, CodeBrokenVMerge, c.Ref,
					fmt.Sprintf("vertical merge continuation at grid column %d has no start above", c.GridCol))
			}
		}
	}
}

// continuesAbove reports whether the cell above row ri at grid column col
// starts or continues a vertical merge.
func continuesAbove(t *models.Table, ri, col int) bool {
	if ri == 0 {
		return false
	}
	above := t.Rows[ri-1].CellAtGridCol(col)
	return above != nil && (above.VMerge == models.VMergeStart || above.VMerge == models.VMergeContinue)
}

// legacy compares the flat checkbox and dropdown views with the ones derived
// from the block tree.
func legacy(report *models.ValidationReport, doc *models.Document) {
	derived := *doc
	derived.DeriveLegacyFields()
	if !sameFields(doc.Checkboxes, derived.Checkboxes) {
		report.Add(models.SeverityError, CodeLegacyMismatch, "checkboxes",
			"checkbox list does not match the controls in the document")
	}
	if !sameFields(doc.Dropdowns, derived.Dropdowns) {
		report.Add(models.SeverityError, CodeLegacyMismatch, "dropdowns",
			"dropdown list does not match the controls in the document")
	}
}

func sameFields[T any](a, b []T) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
