package validate

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xlsx"
)

// Workbook checks a spreadsheet model.
func Workbook(wb *models.Workbook) models.ValidationReport {
	report := newReport()
	if wb == nil {
		return report
	}
	seen := newIDs(&report)

	for _, s := range wb.Sheets {
		seen.id(s.ID, "sheet")
		sheetIDs(seen, s)
		cells(&report, s)
		merges(&report, s)
		validations(&report, wb, s)
		controls(&report, s)
	}

	for _, dn := range wb.DefinedNames {
		if dn.LocalSheetID == nil {
			continue
		}
		if id := *dn.LocalSheetID; id < 0 || id >= len(wb.Sheets) {
			report.Add(models.SeverityError, CodeUnknownLocalSheet, dn.Name,
				fmt.Sprintf("defined name %q is scoped to sheet %d, which does not exist", dn.Name, id))
		}
	}
	return report
}

func sheetIDs(seen *ids, s *models.Sheet) {
	for _, c := range s.Cells {
		seen.id(c.ID, "cell")
	}
	for _, m := range s.Merges {
		seen.id(m.ID, "merge")
	}
	for _, dv := range s.DataValidations {
		seen.id(dv.ID, "data validation")
	}
	for _, cf := range s.ConditionalFormats {
		seen.id(cf.ID, "conditional format")
	}
	for _, fc := range s.FormControls {
		seen.id(fc.ID, "form control")
	}
	if s.View != nil {
		seen.id(s.View.ID, "sheet view")
	}
	for _, h := range s.Hyperlinks {
		seen.id(h.ID, "hyperlink")
	}
	for _, c := range s.Comments {
		seen.id(c.ID, "comment")
	}
	for _, t := range s.Tables {
		seen.id(t.ID, "table")
	}
	for _, sh := range s.Shapes {
		seen.id(sh.ID, "shape")
	}
	for _, ch := range s.Charts {
		seen.id(ch.ID, "chart")
	}
}

func inBounds(r models.CellRange) bool {
	return r.R1 >= 1 && r.C1 >= 1 && r.R2 <= excelize.TotalRows && r.C2 <= excelize.MaxColumns
}

func cells(report *models.ValidationReport, s *models.Sheet) {
	pos := make(map[[2]int]string, len(s.Cells))
	for _, c := range s.Cells {
		if c.Ref == "" {
			report.Add(models.SeverityError, CodeMissingRef, c.ID,
				fmt.Sprintf("cell at row %d, column %d has no reference", c.Row, c.Col))
		}
		if !inBounds(models.CellRange{R1: c.Row, C1: c.Col, R2: c.Row, C2: c.Col}) {
			report.Add(models.SeverityError, CodeCellOutOfBounds, c.ID,
				fmt.Sprintf("cell at row %d, column %d lies outside the sheet", c.Row, c.Col))
			continue
		}
		key := [2]int{c.Row, c.Col}
		if prev, ok := pos[key]; ok {
			report.Add(models.SeverityError, CodeDuplicateCell, c.ID,
				fmt.Sprintf("%s!%s is also held by %s", s.Name, c.Ref, prev))
			continue
		}
		pos[key] = c.ID
	}
}

func merges(report *models.ValidationReport, s *models.Sheet) {
	var valid []models.MergeRange
	for _, m := range s.Merges {
		r, err := xlsx.ParseRange(m.Ref)
		if err != nil || r != m.Range || !inBounds(r) || r.Cells() < 2 {
			report.Add(models.SeverityError, CodeInvalidMerge, m.ID,
				fmt.Sprintf("merge %q on %s is not a well-formed multi-cell range", m.Ref, s.Name))
			continue
		}
		for _, o := range valid {
			if o.Range.Overlaps(r) {
				report.Add(models.SeverityError, CodeOverlappingMerge, m.ID,
					fmt.Sprintf("merge %s overlaps %s on %s", m.Ref, o.Ref, s.Name))
			}
		}
		valid = append(valid, m)
	}

	for _, c := range s.Cells {
		if !c.IsMerged || c.IsMergeOrigin {
			continue
		}
		m := s.MergeByRef(c.MergeRange)
		if m == nil || !m.Range.Contains(c.Row, c.Col) {
			report.Add(models.SeverityError, CodeOrphanMergedCell, c.ID,
				fmt.Sprintf("%s!%s is marked merged but no merge %q covers it", s.Name, c.Ref, c.MergeRange))
			continue
		}
		if !c.Value.IsEmpty() {
			report.Add(models.SeverityError, CodeMergedCellValue, c.ID,
				fmt.Sprintf("%s!%s is covered by %s but holds a value", s.Name, c.Ref, m.Ref))
		}
	}
}

func validations(report *models.ValidationReport, wb *models.Workbook, s *models.Sheet) {
	for _, dv := range s.DataValidations {
		ranges, err := xlsx.ParseSqref(dv.Sqref)
		if err != nil {
			report.Add(models.SeverityError, CodeInvalidSqref, dv.ID,
				fmt.Sprintf("validation range %q on %s: %v", dv.Sqref, s.Name, err))
		}
		for _, r := range ranges {
			if !inBounds(r) {
				report.Add(models.SeverityError, CodeRangeOutOfBounds, dv.ID,
					fmt.Sprintf("validation range %s lies outside %s", xlsx.FormatRange(r), s.Name))
			}
		}
		if dv.Type == "list" && dv.OptionsSource != "" {
			listSource(report, wb, s, dv)
		}
	}
}

// listSource checks that a range-sourced list resolves to existing cells.
func listSource(report *models.ValidationReport, wb *models.Workbook, s *models.Sheet, dv models.DataValidation) {
	areas := xlsx.ParseAreas(dv.OptionsSource, s.Name)
	if len(areas) == 0 {
		name := strings.TrimPrefix(dv.OptionsSource, "=")
		for _, dn := range wb.DefinedNames {
			if strings.EqualFold(dn.Name, name) && (dn.LocalSheetID == nil || *dn.LocalSheetID == s.Index) {
				areas = dn.Areas
				break
			}
		}
	}
	if len(areas) == 0 {
		report.Add(models.SeverityError, CodeUnresolvedSource, dv.ID,
			fmt.Sprintf("list source %q does not name a cell range", dv.OptionsSource))
		return
	}

	for _, a := range areas {
		target := wb.SheetByName(a.Sheet)
		if target == nil {
			report.Add(models.SeverityError, CodeUnresolvedSource, dv.ID,
				fmt.Sprintf("list source %q refers to unknown sheet %q", dv.OptionsSource, a.Sheet))
			continue
		}
		if !inBounds(a.Range) {
			report.Add(models.SeverityError, CodeRangeOutOfBounds, dv.ID,
				fmt.Sprintf("list source %s lies outside %s", xlsx.FormatRange(a.Range), a.Sheet))
			continue
		}
		if !anyCell(target, a.Range) {
			report.Add(models.SeverityWarning, CodeEmptyRange, dv.ID,
				fmt.Sprintf("list source %s!%s holds no cells", a.Sheet, xlsx.FormatRange(a.Range)))
		}
	}
}

func anyCell(s *models.Sheet, r models.CellRange) bool {
	for _, c := range s.Cells {
		if r.Contains(c.Row, c.Col) && !c.Value.IsEmpty() {
			return true
		}
	}
	return false
}

func controls(report *models.ValidationReport, s *models.Sheet) {
	for _, fc := range s.FormControls {
		if fc.LinkedCell == "" {
			continue
		}
		_, area := xlsx.SplitSheetRef(fc.LinkedCell)
		if _, _, err := xlsx.ParseCellRef(area); err != nil {
			report.Add(models.SeverityError, CodeInvalidLinkedCell, fc.ID,
				fmt.Sprintf("control %q links to %q, which is not a cell", fc.Name, fc.LinkedCell))
		}
	}
}
