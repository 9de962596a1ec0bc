package models

import (
	"strconv"
	"strings"
)

// ValueKind discriminates cell value variants.
type ValueKind string

const (
	ValueEmpty   ValueKind = "empty"
	ValueNumber  ValueKind = "number"
	ValueString  ValueKind = "string"
	ValueBoolean ValueKind = "boolean"
	ValueError   ValueKind = "error"
)

// CellValue is a typed cell value. Number is used for ValueNumber, Bool for
// ValueBoolean and Text for ValueString and ValueError.
type CellValue struct {
	// Kind selects the populated field.
	Kind ValueKind `json:"kind"`
	// Number holds numeric values.
	Number float64 `json:"number,omitempty"`
	// Text holds string values and error codes such as "#N/A".
	Text string `json:"text,omitempty"`
	// Bool holds boolean values.
	Bool bool `json:"bool,omitempty"`
}

// EmptyValue returns an empty value.
func EmptyValue() CellValue { return CellValue{Kind: ValueEmpty} }

// NumberValue returns a numeric value.
func NumberValue(f float64) CellValue { return CellValue{Kind: ValueNumber, Number: f} }

// StringValue returns a string value.
func StringValue(s string) CellValue { return CellValue{Kind: ValueString, Text: s} }

// BoolValue returns a boolean value.
func BoolValue(b bool) CellValue { return CellValue{Kind: ValueBoolean, Bool: b} }

// ErrorValue returns an error value such as "#DIV/0!".
func ErrorValue(code string) CellValue { return CellValue{Kind: ValueError, Text: code} }

// IsEmpty reports whether the value is empty.
func (v CellValue) IsEmpty() bool {
	return v.Kind == "" || v.Kind == ValueEmpty
}

// String renders the value the way a grid would display it.
func (v CellValue) String() string {
	switch v.Kind {
	case ValueNumber:
		return FormatNumber(v.Number)
	case ValueString, ValueError:
		return v.Text
	case ValueBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ValueEmpty:
		return ""
	}
	return ""
}

// Equal reports whether two values are the same.
func (v CellValue) Equal(o CellValue) bool {
	if v.IsEmpty() && o.IsEmpty() {
		return true
	}
	return v == o
}

// FormatNumber formats a float the way spreadsheet XML stores it: the
// shortest decimal form, with an exponent only for very large or very small
// magnitudes.
func FormatNumber(f float64) string {
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs >= 1e15 || abs < 1e-6) {
		return strings.ToUpper(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Formula types as written in the f element's t attribute.
const (
	FormulaNormal = "normal"
	FormulaShared = "shared"
	FormulaArray  = "array"
)

// Cell is one occupied cell of a sheet.
type Cell struct {
	// ID is the unique cell identifier within the workbook.
	ID string `json:"id"`
	// Ref is the A1-style reference, e.g. "B2".
	Ref string `json:"ref"`
	// Row is the 1-based row number.
	Row int `json:"row"`
	// Col is the 1-based column number.
	Col int `json:"col"`
	// Type is the t attribute as parsed (s, n, b, e, str, inlineStr, d).
	Type string `json:"type,omitempty"`
	// Value is the typed value.
	Value CellValue `json:"value"`
	// StringIndex is the shared-string index for Type "s".
	StringIndex *int `json:"string_index,omitempty"`
	// Formula is the formula expression without the leading "=".
	Formula string `json:"formula,omitempty"`
	// FormulaType is normal, shared or array.
	FormulaType string `json:"formula_type,omitempty"`
	// FormulaRef is the range of a shared or array formula master.
	FormulaRef string `json:"formula_ref,omitempty"`
	// FormulaIndex is the shared formula group index (si).
	FormulaIndex *int `json:"formula_index,omitempty"`
	// StyleIndex is the cell format index (s attribute).
	StyleIndex *int `json:"style_index,omitempty"`
	// IsMerged reports membership in a merged range.
	IsMerged bool `json:"is_merged,omitempty"`
	// MergeRange is the merged range's reference, e.g. "A1:C2".
	MergeRange string `json:"merge_range,omitempty"`
	// IsMergeOrigin reports the top-left cell of a merged range.
	IsMergeOrigin bool `json:"is_merge_origin,omitempty"`
	// Dirty marks a value or formula change not yet written.
	Dirty bool `json:"dirty,omitempty"`
}

// HasFormula reports whether the cell holds a formula or belongs to a shared
// formula group.
func (c *Cell) HasFormula() bool {
	return c.Formula != "" || c.FormulaType == FormulaShared && c.FormulaIndex != nil
}

// ClearFormula removes every formula attribute from the cell.
func (c *Cell) ClearFormula() {
	c.Formula = ""
	c.FormulaType = ""
	c.FormulaRef = ""
	c.FormulaIndex = nil
}
