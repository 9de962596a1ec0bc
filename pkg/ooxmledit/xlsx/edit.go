package xlsx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

// CellEdit is one value assignment of a batch.
type CellEdit struct {
	Sheet string           `json:"sheet"`
	Cell  string           `json:"cell"`
	Value models.CellValue `json:"value"`
}

// EditFailure records an edit of a batch that was rejected.
type EditFailure struct {
	Edit    CellEdit `json:"edit"`
	Message string   `json:"error"`
	Err     error    `json:"-"`
}

// BatchResult is the outcome of SetCellValues.
type BatchResult struct {
	Applied  int              `json:"applied"`
	Warnings []models.Warning `json:"warnings,omitempty"`
	Failures []EditFailure    `json:"failures,omitempty"`
}

// SetCellValue assigns value to a cell, creating the cell when it does not
// exist. sheetRef is a sheet name or id. Assigning a value to a formula cell
// removes the formula and reports it as a warning. Cells inside a merged
// range other than its top-left cell cannot be edited.
func SetCellValue(wb *models.Workbook, sheetRef, cellRef string, value models.CellValue) ([]models.Warning, error) {
	sheet := wb.SheetByRef(sheetRef)
	if sheet == nil {
		return nil, fmt.Errorf("%w: %q", ooxml.ErrUnknownSheet, sheetRef)
	}
	col, row, err := ParseCellRef(cellRef)
	if err != nil {
		return nil, err
	}
	ref := CellName(col, row)

	var merge *models.MergeRange
	for i := range sheet.Merges {
		m := &sheet.Merges[i]
		if !m.Range.Contains(row, col) {
			continue
		}
		if row != m.Range.R1 || col != m.Range.C1 {
			return nil, fmt.Errorf("%w: %s!%s lies inside %s", ooxml.ErrMergedCellNotOrigin, sheet.Name, ref, m.Ref)
		}
		merge = m
	}

	cell := sheet.Cell(row, col)
	if cell == nil {
		cell = &models.Cell{
			ID:    models.CellID(sheet.ID, ref),
			Ref:   ref,
			Row:   row,
			Col:   col,
			Value: models.EmptyValue(),
		}
		if merge != nil {
			cell.IsMerged = true
			cell.MergeRange = merge.Ref
			cell.IsMergeOrigin = true
		}
		sheet.AddCell(cell)
	} else if !cell.HasFormula() && cell.Value.Equal(value) {
		return nil, nil
	}

	var warnings []models.Warning
	if cell.HasFormula() {
		warnings = clearFormula(sheet, cell)
	}

	assign(wb, cell, value)
	return warnings, nil
}

// clearFormula removes the formula of cell. Removing the master of a shared
// formula group also detaches the cells that borrowed its expression, since
// they cannot be evaluated without it.
func clearFormula(sheet *models.Sheet, cell *models.Cell) []models.Warning {
	text := formulaText(sheet, cell)
	warnings := []models.Warning{formulaWarning(sheet, cell.Ref, text)}

	master := cell.FormulaType == models.FormulaShared && cell.Formula != "" && cell.FormulaIndex != nil
	if master {
		si := *cell.FormulaIndex
		for _, dep := range sheet.Cells {
			if dep == cell || dep.FormulaType != models.FormulaShared || dep.FormulaIndex == nil || *dep.FormulaIndex != si {
				continue
			}
			warnings = append(warnings, formulaWarning(sheet, dep.Ref, shiftFormula(text, dep.Row-cell.Row, dep.Col-cell.Col)))
			dep.ClearFormula()
			dep.Dirty = true
		}
	}
	cell.ClearFormula()
	return warnings
}

// formulaText returns the expression of cell. Members of a shared formula
// group get the master's text moved by their offset from the master.
func formulaText(sheet *models.Sheet, cell *models.Cell) string {
	if cell.Formula != "" || cell.FormulaIndex == nil {
		return cell.Formula
	}
	for _, c := range sheet.Cells {
		if c.FormulaType == models.FormulaShared && c.Formula != "" &&
			c.FormulaIndex != nil && *c.FormulaIndex == *cell.FormulaIndex {
			return shiftFormula(c.Formula, cell.Row-c.Row, cell.Col-c.Col)
		}
	}
	return ""
}

func formulaWarning(sheet *models.Sheet, ref, formula string) models.Warning {
	return models.Warning{
		Kind:    models.WarningFormulaCleared,
		Sheet:   sheet.Name,
		Cell:    ref,
		Formula: formula,
		Message: fmt.Sprintf("Cell %s had formula '=%s' which was cleared", ref, formula),
	}
}

// assign stores value and the matching cell type. Strings go through the
// shared-string table when the workbook has one and are written inline
// otherwise.
func assign(wb *models.Workbook, cell *models.Cell, value models.CellValue) {
	cell.StringIndex = nil
	switch value.Kind {
	case models.ValueString:
		if wb.SharedStrings != nil {
			idx, _ := wb.SharedStrings.Intern(value.Text)
			cell.Type = "s"
			cell.StringIndex = &idx
		} else {
			cell.Type = "inlineStr"
		}
	case models.ValueNumber:
		cell.Type = "n"
	case models.ValueBoolean:
		cell.Type = "b"
	case models.ValueError:
		cell.Type = "e"
	default:
		value = models.EmptyValue()
		cell.Type = "n"
	}
	cell.Value = value
	cell.Dirty = true
}

// SetCellValues applies edits in order. A rejected edit is recorded and does
// not stop the batch.
func SetCellValues(wb *models.Workbook, edits []CellEdit) BatchResult {
	var res BatchResult
	for _, e := range edits {
		warnings, err := SetCellValue(wb, e.Sheet, e.Cell, e.Value)
		if err != nil {
			res.Failures = append(res.Failures, EditFailure{Edit: e, Message: err.Error(), Err: err})
			continue
		}
		res.Applied++
		res.Warnings = append(res.Warnings, warnings...)
	}
	return res
}

var errorCodes = map[string]bool{
	"#NULL!":  true,
	"#DIV/0!": true,
	"#VALUE!": true,
	"#REF!":   true,
	"#NAME?":  true,
	"#NUM!":   true,
	"#N/A":    true,
}

// ParseCellInput interprets text typed by a user. Numbers, TRUE/FALSE and
// error codes become typed values; a leading apostrophe forces text.
func ParseCellInput(s string) models.CellValue {
	if s == "" {
		return models.EmptyValue()
	}
	if strings.HasPrefix(s, "'") {
		return models.StringValue(s[1:])
	}
	trimmed := strings.TrimSpace(s)
	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return models.BoolValue(true)
	case "FALSE":
		return models.BoolValue(false)
	}
	if errorCodes[strings.ToUpper(trimmed)] {
		return models.ErrorValue(strings.ToUpper(trimmed))
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return models.NumberValue(float64(i))
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return models.NumberValue(f)
	}
	return models.StringValue(s)
}
