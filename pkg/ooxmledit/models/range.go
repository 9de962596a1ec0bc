package models

// CellRange represents inclusive 1-based cell coordinate bounds.
type CellRange struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Contains reports whether the range covers (row, col).
func (r CellRange) Contains(row, col int) bool {
	return row >= r.R1 && row <= r.R2 && col >= r.C1 && col <= r.C2
}

// Overlaps reports whether two ranges share at least one cell.
func (r CellRange) Overlaps(o CellRange) bool {
	return r.R1 <= o.R2 && o.R1 <= r.R2 && r.C1 <= o.C2 && o.C1 <= r.C2
}

// Cells returns the number of cells covered.
func (r CellRange) Cells() int {
	return (r.R2 - r.R1 + 1) * (r.C2 - r.C1 + 1)
}

// SheetArea is a range qualified by a sheet name, as found in defined names.
type SheetArea struct {
	// Sheet is the sheet name without quotes.
	Sheet string `json:"sheet"`
	// Range is the covered area.
	Range CellRange `json:"range"`
}

// DefinedName is a workbook or sheet scoped name.
type DefinedName struct {
	// Name is the defined name, including the _xlnm. prefix for built-ins.
	Name string `json:"name"`
	// RefersTo is the formula text of the name.
	RefersTo string `json:"refers_to"`
	// LocalSheetID is the zero-based sheet index for sheet-scoped names.
	LocalSheetID *int `json:"local_sheet_id,omitempty"`
	// Hidden reports a hidden name.
	Hidden bool `json:"hidden,omitempty"`
	// Builtin reports a built-in name such as _xlnm.Print_Area.
	Builtin bool `json:"builtin,omitempty"`
	// Comment is the name's comment.
	Comment string `json:"comment,omitempty"`
	// Areas holds the sheet ranges RefersTo resolves to, when it is a plain
	// reference list.
	Areas []SheetArea `json:"areas,omitempty"`
}

// MergeRange is a merged cell range.
type MergeRange struct {
	// ID is the unique merge identifier.
	ID string `json:"id"`
	// Ref is the range reference, e.g. "A1:C2".
	Ref string `json:"ref"`
	// Range holds the parsed bounds.
	Range CellRange `json:"range"`
}
