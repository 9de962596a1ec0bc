package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

// ParseCellRef parses an A1 reference, absolute markers allowed, into 1-based
// column and row numbers.
func ParseCellRef(ref string) (col, row int, err error) {
	col, row, err = excelize.CellNameToCoordinates(strings.ReplaceAll(strings.TrimSpace(ref), "$", ""))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ooxml.ErrInvalidReference, ref, err)
	}
	return col, row, nil
}

// CellName returns the A1 reference of a 1-based column and row.
func CellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

// ParseRange parses "A1:C3" or a single cell "B2" into normalized bounds.
func ParseRange(ref string) (models.CellRange, error) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(ref), "$", ""), ":")
	if len(parts) > 2 || parts[0] == "" {
		return models.CellRange{}, fmt.Errorf("%w: range %q", ooxml.ErrInvalidReference, ref)
	}

	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.CellRange{}, fmt.Errorf("%w: range %q: %v", ooxml.ErrInvalidReference, ref, err)
	}
	c2, r2 := c1, r1
	if len(parts) == 2 {
		c2, r2, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return models.CellRange{}, fmt.Errorf("%w: range %q: %v", ooxml.ErrInvalidReference, ref, err)
		}
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return models.CellRange{R1: r1, C1: c1, R2: r2, C2: c2}, nil
}

// ParseSqref parses a space separated list of ranges as used by sqref
// attributes.
func ParseSqref(sqref string) ([]models.CellRange, error) {
	var out []models.CellRange
	for _, part := range strings.Fields(sqref) {
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty sqref", ooxml.ErrInvalidReference)
	}
	return out, nil
}

// FormatRange renders bounds as "A1:C3", or "A1" for a single cell.
func FormatRange(r models.CellRange) string {
	start := CellName(r.C1, r.R1)
	if r.R1 == r.R2 && r.C1 == r.C2 {
		return start
	}
	return start + ":" + CellName(r.C2, r.R2)
}

// SplitSheetRef splits "'My Sheet'!$A$1:$B$2" into the unquoted sheet name
// and the area. A reference without a sheet returns an empty sheet.
func SplitSheetRef(ref string) (sheet, area string) {
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", ref
	}
	sheet = ref[:idx]
	if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, ref[idx+1:]
}

// RangeOperands returns the range operands of a formula in order, e.g.
// ["Sheet1!$A$1:$A$5"] for "=Sheet1!$A$1:$A$5" or both halves of a union.
func RangeOperands(formula string) []string {
	if strings.TrimSpace(formula) == "" {
		return nil
	}
	p := efp.ExcelParser()
	var out []string
	for _, tok := range p.Parse(formula) {
		if tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange {
			out = append(out, tok.TValue)
		}
	}
	return out
}

// ParseAreas resolves a defined-name or list-source formula into sheet
// areas. Operands that are not plain cell ranges, such as names or whole
// columns, are skipped. defaultSheet qualifies unqualified operands.
func ParseAreas(formula, defaultSheet string) []models.SheetArea {
	var areas []models.SheetArea
	for _, operand := range RangeOperands(formula) {
		sheet, area := SplitSheetRef(operand)
		if sheet == "" {
			sheet = defaultSheet
		}
		r, err := ParseRange(area)
		if err != nil {
			continue
		}
		areas = append(areas, models.SheetArea{Sheet: sheet, Range: r})
	}
	return areas
}
