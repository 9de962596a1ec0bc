package xlsx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"
)

var (
	cellPartRE   = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)$`)
	columnPartRE = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})$`)
	rowPartRE    = regexp.MustCompile(`^(\$?)([0-9]+)$`)
)

// shiftFormula moves the relative references of formula by dRow rows and
// dCol columns, the way a shared formula reads from a member cell. Parts
// anchored with $ stay put; a reference pushed off the sheet becomes #REF!.
func shiftFormula(formula string, dRow, dCol int) string {
	if formula == "" || (dRow == 0 && dCol == 0) {
		return formula
	}
	var b strings.Builder
	pos := 0
	ps := efp.ExcelParser()
	for _, tok := range ps.Parse(formula) {
		if tok.TValue == "" || (tok.TType == efp.TokenTypeFunction && strings.HasPrefix(tok.TValue, "ARRAY")) {
			continue
		}
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			if tok.TSubType == efp.TokenSubTypeText {
				tok.TValue = `"` + strings.ReplaceAll(tok.TValue, `"`, `""`) + `"`
			}
			if i := strings.Index(formula[pos:], tok.TValue); i >= 0 {
				b.WriteString(formula[pos : pos+i+len(tok.TValue)])
				pos += i + len(tok.TValue)
			}
			continue
		}

		// Quoted sheet names lose their quotes in the token, so only the
		// area after the last ! is located in the source text.
		_, area := SplitSheetRef(tok.TValue)
		i := strings.Index(formula[pos:], area)
		if strings.Contains(tok.TValue, "!") {
			i = strings.Index(formula[pos:], "!"+area)
			if i >= 0 {
				i++
			}
		}
		if i < 0 {
			continue
		}
		b.WriteString(formula[pos : pos+i])
		b.WriteString(shiftArea(area, dRow, dCol))
		pos += i + len(area)
	}
	b.WriteString(formula[pos:])
	return b.String()
}

// shiftArea shifts a cell, a cell range, or a whole-column or whole-row
// range. Anything else, such as a defined name, is returned unchanged.
func shiftArea(area string, dRow, dCol int) string {
	parts := strings.Split(area, ":")
	if len(parts) > 2 {
		return area
	}
	for i, p := range parts {
		shifted, ok := shiftCellPart(p, dRow, dCol)
		if !ok && len(parts) == 2 {
			shifted, ok = shiftLinePart(p, dRow, dCol)
		}
		if !ok {
			return area
		}
		if shifted == "" {
			return "#REF!"
		}
		parts[i] = shifted
	}
	return strings.Join(parts, ":")
}

// shiftCellPart shifts an A1 part. It returns "" with ok set when the result
// falls outside the sheet.
func shiftCellPart(p string, dRow, dCol int) (string, bool) {
	m := cellPartRE.FindStringSubmatch(p)
	if m == nil {
		return "", false
	}
	col, row, err := ParseCellRef(m[2] + m[4])
	if err != nil {
		return "", false
	}
	if m[1] == "" {
		col += dCol
	}
	if m[3] == "" {
		row += dRow
	}
	name := CellName(col, row)
	if name == "" {
		return "", true
	}
	letters := strings.TrimRight(name, "0123456789")
	return m[1] + letters + m[3] + name[len(letters):], true
}

func shiftLinePart(p string, dRow, dCol int) (string, bool) {
	if m := columnPartRE.FindStringSubmatch(p); m != nil {
		if m[1] != "" {
			return p, true
		}
		col, err := excelize.ColumnNameToNumber(m[2])
		if err != nil {
			return "", false
		}
		name, err := excelize.ColumnNumberToName(col + dCol)
		if err != nil {
			return "", true
		}
		return name, true
	}
	if m := rowPartRE.FindStringSubmatch(p); m != nil {
		if m[1] != "" {
			return p, true
		}
		row, _ := strconv.Atoi(m[2])
		row += dRow
		if row < 1 || row > excelize.TotalRows {
			return "", true
		}
		return strconv.Itoa(row), true
	}
	return "", false
}
