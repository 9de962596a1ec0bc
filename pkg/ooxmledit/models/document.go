// Package models defines the editable structural models produced by the
// word-processing and spreadsheet codecs.
package models

// BlockKind discriminates the variants of Block.
type BlockKind string

const (
	// BlockParagraph is a paragraph of inline items.
	BlockParagraph BlockKind = "paragraph"
	// BlockTable is a table of rows and cells.
	BlockTable BlockKind = "table"
	// BlockDrawing is an opaque drawing placeholder.
	BlockDrawing BlockKind = "drawing"
)

// Document is a parsed word-processing document. Blocks live in a flat
// arena; Body and table cells refer to them by index, so tables can nest to
// any depth without self-referential ownership.
type Document struct {
	// ID identifies the document within its session.
	ID string `json:"id"`
	// Body lists the top-level blocks in document order as indices into Blocks.
	Body []int `json:"body"`
	// Blocks is the arena holding every block, nested ones included.
	Blocks []Block `json:"blocks"`
	// Checkboxes is the legacy flat view of every checkbox control.
	Checkboxes []CheckboxField `json:"checkboxes"`
	// Dropdowns is the legacy flat view of every dropdown control.
	Dropdowns []DropdownField `json:"dropdowns"`
}

// Block is one body-level unit. Exactly one of Paragraph, Table or Drawing
// is set, as named by Kind.
type Block struct {
	// Kind selects the populated variant.
	Kind BlockKind `json:"kind"`
	// ID is the unique block identifier.
	ID string `json:"id"`
	// Ref is the positional reference of the block.
	Ref string `json:"ref"`
	// Paragraph is set when Kind is BlockParagraph.
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	// Table is set when Kind is BlockTable.
	Table *Table `json:"table,omitempty"`
	// Drawing is set when Kind is BlockDrawing.
	Drawing *Drawing `json:"drawing,omitempty"`
}

// Paragraph is an ordered list of inline items.
type Paragraph struct {
	// Style is the paragraph style id (w:pStyle), if any.
	Style string `json:"style,omitempty"`
	// Inlines holds runs and controls in document order.
	Inlines []Inline `json:"inlines"`
	// Wrapped marks a paragraph whose content is the display text of an
	// enclosing checkbox or dropdown control. Its text is not editable.
	Wrapped bool `json:"wrapped,omitempty"`
}

// InlineKind discriminates the variants of Inline.
type InlineKind string

const (
	// InlineText is a formatted text run.
	InlineText InlineKind = "text"
	// InlineCheckbox is a checkbox content control.
	InlineCheckbox InlineKind = "checkbox"
	// InlineDropdown is a dropdown or combo-box content control.
	InlineDropdown InlineKind = "dropdown"
)

// Inline is one item inside a paragraph. Exactly one of Text, Checkbox or
// Dropdown is set, as named by Kind.
type Inline struct {
	// Kind selects the populated variant.
	Kind InlineKind `json:"kind"`
	// ID is the unique inline identifier.
	ID string `json:"id"`
	// Ref is the positional reference of the run or control.
	Ref string `json:"ref"`
	// Text is set when Kind is InlineText.
	Text *TextRun `json:"text,omitempty"`
	// Checkbox is set when Kind is InlineCheckbox.
	Checkbox *CheckboxControl `json:"checkbox,omitempty"`
	// Dropdown is set when Kind is InlineDropdown.
	Dropdown *DropdownControl `json:"dropdown,omitempty"`
}

// TextRun is a run of text with its character formatting.
type TextRun struct {
	// Text is the run's text content.
	Text string `json:"text"`
	// Bold reports w:b.
	Bold bool `json:"bold,omitempty"`
	// Italic reports w:i.
	Italic bool `json:"italic,omitempty"`
	// Color is the w:color value (hex RGB or "auto"), if any.
	Color string `json:"color,omitempty"`
	// Synthetic marks a run created by an edit that has no source element yet.
	Synthetic bool `json:"synthetic,omitempty"`
}

// CheckboxControl is a content control with a boolean toggle.
type CheckboxControl struct {
	// Label is the control alias, tag, or a generated name.
	Label string `json:"label"`
	// Checked is the current state.
	Checked bool `json:"checked"`
}

// DropdownOption is one entry of a dropdown list.
type DropdownOption struct {
	// Display is the text shown to the user.
	Display string `json:"display"`
	// Value is the stored value.
	Value string `json:"value"`
}

// DropdownControl is a content control with an option list.
type DropdownControl struct {
	// Label is the control alias, tag, or a generated name.
	Label string `json:"label"`
	// Options lists the choices in order.
	Options []DropdownOption `json:"options"`
	// Selected is the displayed selection text.
	Selected string `json:"selected"`
	// FreeText is true for combo boxes, which accept text outside Options.
	FreeText bool `json:"free_text,omitempty"`
}

// Table is an ordered list of rows.
type Table struct {
	// Rows holds the table rows in order.
	Rows []Row `json:"rows"`
}

// Row is one table row.
type Row struct {
	// ID is the unique row identifier.
	ID string `json:"id"`
	// Ref is the positional reference of the row.
	Ref string `json:"ref"`
	// Cells holds the row's cells in order.
	Cells []TableCell `json:"cells"`
}

// VMerge is the vertical-merge state of a table cell.
type VMerge string

const (
	// VMergeNone marks a cell outside any vertical merge.
	VMergeNone VMerge = ""
	// VMergeStart marks the first cell of a vertical merge.
	VMergeStart VMerge = "start"
	// VMergeContinue marks a cell covered by the start cell above it.
	VMergeContinue VMerge = "continue"
)

// TableCell is one cell of a word-processing table.
type TableCell struct {
	// ID is the unique cell identifier.
	ID string `json:"id"`
	// Ref is the positional reference of the cell.
	Ref string `json:"ref"`
	// GridCol is the zero-based grid column the cell starts at.
	GridCol int `json:"grid_col"`
	// ColSpan is the number of grid columns spanned (w:gridSpan).
	ColSpan int `json:"col_span"`
	// RowSpan is the number of rows spanned; derived for vertical-merge starts.
	RowSpan int `json:"row_span"`
	// VMerge is the vertical-merge state.
	VMerge VMerge `json:"v_merge,omitempty"`
	// Background is the shading fill color, if any.
	Background string `json:"background,omitempty"`
	// Borders holds per-edge borders, if any are set.
	Borders *CellBorders `json:"borders,omitempty"`
	// Blocks lists the cell's content as indices into Document.Blocks.
	Blocks []int `json:"blocks"`
}

// CellBorders holds the four edge borders of a cell.
type CellBorders struct {
	Top    *Border `json:"top,omitempty"`
	Bottom *Border `json:"bottom,omitempty"`
	Left   *Border `json:"left,omitempty"`
	Right  *Border `json:"right,omitempty"`
}

// Border describes one edge.
type Border struct {
	// Style is the border style (w:val), "none" when unset.
	Style string `json:"style"`
	// Width is the border width in eighths of a point (w:sz).
	Width *int `json:"width,omitempty"`
	// Color is the border color; empty for "auto".
	Color string `json:"color,omitempty"`
}

// DrawingType is a coarse classification of a drawing.
type DrawingType string

const (
	DrawingImage       DrawingType = "image"
	DrawingVectorGroup DrawingType = "vector_group"
	DrawingShape       DrawingType = "shape"
	DrawingChart       DrawingType = "chart"
	DrawingUnknown     DrawingType = "unknown"
)

// Drawing is an opaque placeholder for embedded graphics.
type Drawing struct {
	// Name is the drawing's docPr name.
	Name string `json:"name"`
	// Width is the extent width in inches.
	Width float64 `json:"width"`
	// Height is the extent height in inches.
	Height float64 `json:"height"`
	// Type is the coarse drawing type.
	Type DrawingType `json:"type"`
	// Inline reports an inline (rather than anchored) drawing.
	Inline bool `json:"inline"`
}

// CheckboxField is the legacy flat view of a checkbox control.
type CheckboxField struct {
	ID      string `json:"id"`
	Ref     string `json:"ref"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// DropdownField is the legacy flat view of a dropdown control.
type DropdownField struct {
	ID       string   `json:"id"`
	Ref      string   `json:"ref"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}
