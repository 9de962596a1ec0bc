package models

import "sort"

// Workbook is a parsed spreadsheet package.
type Workbook struct {
	// ID identifies the workbook within its session.
	ID string `json:"id"`
	// Sheets holds the sheets in workbook order.
	Sheets []*Sheet `json:"sheets"`
	// SharedStrings is the workbook's string pool; nil when the package has
	// no shared-string part.
	SharedStrings *SharedStringTable `json:"shared_strings,omitempty"`
	// SharedStringsPath is the shared-string part name, if any.
	SharedStringsPath string `json:"shared_strings_path,omitempty"`
	// DefinedNames holds workbook and sheet scoped names.
	DefinedNames []DefinedName `json:"defined_names,omitempty"`
	// ActiveSheet is the zero-based index of the active tab.
	ActiveSheet int `json:"active_sheet"`
	// Styles maps used cell format indices to resolved styles.
	Styles map[int]CellStyle `json:"styles,omitempty"`
	// Properties holds core document properties.
	Properties *DocProperties `json:"properties,omitempty"`
}

// SheetByName returns the sheet with the given name.
func (w *Workbook) SheetByName(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SheetByRef returns the sheet addressed by name or by id.
func (w *Workbook) SheetByRef(ref string) *Sheet {
	if s := w.SheetByName(ref); s != nil {
		return s
	}
	for _, s := range w.Sheets {
		if s.ID == ref {
			return s
		}
	}
	return nil
}

// DirtySheets returns the sheets holding at least one dirty cell.
func (w *Workbook) DirtySheets() []*Sheet {
	var out []*Sheet
	for _, s := range w.Sheets {
		if s.HasDirty() {
			out = append(out, s)
		}
	}
	return out
}

// Sheet is one worksheet. Cells are kept in row-major order.
type Sheet struct {
	// ID is the unique sheet identifier.
	ID string `json:"id"`
	// Name is the sheet tab name.
	Name string `json:"name"`
	// Index is the zero-based position in the workbook.
	Index int `json:"index"`
	// SheetID is the workbook's sheetId attribute.
	SheetID int `json:"sheet_id"`
	// RelID is the workbook relationship id of the sheet part.
	RelID string `json:"rel_id"`
	// Path is the sheet part name.
	Path string `json:"path"`
	// State is "visible", "hidden" or "veryHidden".
	State string `json:"state"`
	// Dimension is the used range as written in the part.
	Dimension string `json:"dimension,omitempty"`
	// Cells holds the occupied cells in row-major order.
	Cells []*Cell `json:"cells"`
	// Merges holds merged ranges.
	Merges []MergeRange `json:"merges,omitempty"`
	// DataValidations holds validation rules.
	DataValidations []DataValidation `json:"data_validations,omitempty"`
	// ConditionalFormats holds conditional formatting blocks.
	ConditionalFormats []ConditionalFormat `json:"conditional_formats,omitempty"`
	// FormControls holds legacy and modern form controls.
	FormControls []FormControl `json:"form_controls,omitempty"`
	// View holds the first sheet view.
	View *SheetView `json:"view,omitempty"`
	// Columns holds column definitions.
	Columns []ColumnInfo `json:"columns,omitempty"`
	// Rows holds rows with non-default properties.
	Rows []RowInfo `json:"rows,omitempty"`
	// Hyperlinks holds cell hyperlinks.
	Hyperlinks []Hyperlink `json:"hyperlinks,omitempty"`
	// Comments holds cell comments.
	Comments []Comment `json:"comments,omitempty"`
	// Tables holds table (list object) definitions.
	Tables []TableDef `json:"tables,omitempty"`
	// Shapes holds drawing shapes and pictures.
	Shapes []Shape `json:"shapes,omitempty"`
	// Charts holds embedded charts.
	Charts []Chart `json:"charts,omitempty"`

	index map[[2]int]int
}

// Cell returns the cell at a 1-based row and column.
func (s *Sheet) Cell(row, col int) *Cell {
	s.ensureIndex()
	if i, ok := s.index[[2]int{row, col}]; ok {
		return s.Cells[i]
	}
	return nil
}

// AddCell inserts a cell keeping row-major order. An existing cell at the same
// position is replaced.
func (s *Sheet) AddCell(c *Cell) {
	s.ensureIndex()
	if i, ok := s.index[[2]int{c.Row, c.Col}]; ok {
		s.Cells[i] = c
		return
	}
	pos := sort.Search(len(s.Cells), func(i int) bool {
		o := s.Cells[i]
		return o.Row > c.Row || o.Row == c.Row && o.Col > c.Col
	})
	s.Cells = append(s.Cells, nil)
	copy(s.Cells[pos+1:], s.Cells[pos:])
	s.Cells[pos] = c
	s.index = nil
}

// HasDirty reports whether any cell is dirty.
func (s *Sheet) HasDirty() bool {
	for _, c := range s.Cells {
		if c.Dirty {
			return true
		}
	}
	return false
}

// DirtyCells returns the dirty cells in row-major order.
func (s *Sheet) DirtyCells() []*Cell {
	var out []*Cell
	for _, c := range s.Cells {
		if c.Dirty {
			out = append(out, c)
		}
	}
	return out
}

// ClearDirty resets every dirty flag.
func (s *Sheet) ClearDirty() {
	for _, c := range s.Cells {
		c.Dirty = false
	}
}

// MergeByRef returns the merged range with the given reference.
func (s *Sheet) MergeByRef(ref string) *MergeRange {
	for i := range s.Merges {
		if s.Merges[i].Ref == ref {
			return &s.Merges[i]
		}
	}
	return nil
}

func (s *Sheet) ensureIndex() {
	if s.index != nil && len(s.index) == len(s.Cells) {
		return
	}
	s.index = make(map[[2]int]int, len(s.Cells))
	for i, c := range s.Cells {
		s.index[[2]int{c.Row, c.Col}] = i
	}
}

// CellID builds the identifier of a cell from its sheet id and A1 reference.
func CellID(sheetID, ref string) string {
	return sheetID + "-" + ref
}

// DocProperties holds core document properties.
type DocProperties struct {
	Title          string `json:"title,omitempty"`
	Subject        string `json:"subject,omitempty"`
	Creator        string `json:"creator,omitempty"`
	Keywords       string `json:"keywords,omitempty"`
	Description    string `json:"description,omitempty"`
	LastModifiedBy string `json:"last_modified_by,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
}

// CellStyle is a resolved cell format.
type CellStyle struct {
	// NumberFormat is the built-in number format id.
	NumberFormat int `json:"number_format,omitempty"`
	// CustomNumberFormat is the format code of a custom number format.
	CustomNumberFormat string `json:"custom_number_format,omitempty"`
	// FontName is the font family.
	FontName string `json:"font_name,omitempty"`
	// FontSize is the font size in points.
	FontSize float64 `json:"font_size,omitempty"`
	// FontColor is the font color.
	FontColor string `json:"font_color,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline string `json:"underline,omitempty"`
	Strike    bool   `json:"strike,omitempty"`
	// FillColor is the first pattern fill color.
	FillColor string `json:"fill_color,omitempty"`
	// FillPattern is the pattern fill index.
	FillPattern int `json:"fill_pattern,omitempty"`
	// HorizontalAlign and VerticalAlign are alignment names.
	HorizontalAlign string `json:"horizontal_align,omitempty"`
	VerticalAlign   string `json:"vertical_align,omitempty"`
	WrapText        bool   `json:"wrap_text,omitempty"`
	// Borders lists the edges that carry a border.
	Borders []StyleBorder `json:"borders,omitempty"`
}

// StyleBorder is one border edge of a cell format.
type StyleBorder struct {
	Edge  string `json:"edge"`
	Style int    `json:"style"`
	Color string `json:"color,omitempty"`
}
