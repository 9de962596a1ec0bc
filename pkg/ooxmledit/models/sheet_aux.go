package models

// DataValidation is one dataValidation rule.
type DataValidation struct {
	// ID is the unique rule identifier.
	ID string `json:"id"`
	// Sqref is the space separated list of covered ranges.
	Sqref string `json:"sqref"`
	// Type is the validation type (list, whole, decimal, date, time,
	// textLength, custom), empty for "any value".
	Type string `json:"type,omitempty"`
	// Operator is the comparison operator.
	Operator string `json:"operator,omitempty"`
	// Formula1 is the first constraint formula.
	Formula1 string `json:"formula1,omitempty"`
	// Formula2 is the second constraint formula.
	Formula2 string `json:"formula2,omitempty"`
	// AllowBlank reports allowBlank.
	AllowBlank bool `json:"allow_blank,omitempty"`
	// HideDropDown mirrors showDropDown, which hides the in-cell arrow when set.
	HideDropDown bool `json:"hide_drop_down,omitempty"`
	// ShowInputMessage and ShowErrorMessage mirror their attributes.
	ShowInputMessage bool `json:"show_input_message,omitempty"`
	ShowErrorMessage bool `json:"show_error_message,omitempty"`
	// ErrorStyle is stop, warning or information.
	ErrorStyle  string `json:"error_style,omitempty"`
	ErrorTitle  string `json:"error_title,omitempty"`
	Error       string `json:"error,omitempty"`
	PromptTitle string `json:"prompt_title,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	// Options holds the choices of a list validation.
	Options []string `json:"options,omitempty"`
	// OptionsSource is the range a list validation draws its choices from.
	OptionsSource string `json:"options_source,omitempty"`
	// Extended reports a rule stored in the x14 extension list.
	Extended bool `json:"extended,omitempty"`
}

// CFValue is a threshold of a color scale, data bar or icon set.
type CFValue struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ColorScale summarizes a colorScale rule.
type ColorScale struct {
	Values []CFValue `json:"values"`
	Colors []string  `json:"colors"`
}

// DataBar summarizes a dataBar rule.
type DataBar struct {
	Min   CFValue `json:"min"`
	Max   CFValue `json:"max"`
	Color string  `json:"color,omitempty"`
}

// IconSet summarizes an iconSet rule.
type IconSet struct {
	Name      string    `json:"name,omitempty"`
	Values    []CFValue `json:"values"`
	ShowValue bool      `json:"show_value"`
	Reverse   bool      `json:"reverse,omitempty"`
}

// CFRule is one cfRule.
type CFRule struct {
	// Type is the rule type (cellIs, expression, colorScale, ...).
	Type string `json:"type"`
	// Priority orders rules across the sheet.
	Priority int `json:"priority"`
	// Operator is the cellIs operator.
	Operator string `json:"operator,omitempty"`
	// DxfID is the differential format applied when the rule matches.
	DxfID *int `json:"dxf_id,omitempty"`
	// StopIfTrue reports stopIfTrue.
	StopIfTrue bool `json:"stop_if_true,omitempty"`
	// Text is the text operand of text rules.
	Text string `json:"text,omitempty"`
	// Formulas holds the rule formulas.
	Formulas   []string    `json:"formulas,omitempty"`
	ColorScale *ColorScale `json:"color_scale,omitempty"`
	DataBar    *DataBar    `json:"data_bar,omitempty"`
	IconSet    *IconSet    `json:"icon_set,omitempty"`
}

// ConditionalFormat is one conditionalFormatting block.
type ConditionalFormat struct {
	// ID is the unique block identifier.
	ID string `json:"id"`
	// Sqref is the space separated list of covered ranges.
	Sqref string `json:"sqref"`
	// Rules holds the block's rules in order.
	Rules []CFRule `json:"rules"`
	// Extended reports a block stored in the x14 extension list.
	Extended bool `json:"extended,omitempty"`
}

// FormControlType classifies a form control.
type FormControlType string

const (
	ControlCheckbox  FormControlType = "checkbox"
	ControlRadio     FormControlType = "radio"
	ControlButton    FormControlType = "button"
	ControlDropdown  FormControlType = "dropdown"
	ControlListbox   FormControlType = "listbox"
	ControlSpinner   FormControlType = "spinner"
	ControlScrollbar FormControlType = "scrollbar"
	ControlGroupBox  FormControlType = "groupbox"
	ControlLabel     FormControlType = "label"
)

// ControlAnchor is the cell anchor of a control (zero-based, as in VML).
type ControlAnchor struct {
	FromCol int `json:"from_col"`
	FromRow int `json:"from_row"`
	ToCol   int `json:"to_col"`
	ToRow   int `json:"to_row"`
}

// FormControl is a sheet form control.
type FormControl struct {
	// ID is the unique control identifier.
	ID string `json:"id"`
	// Name is the control name.
	Name string `json:"name,omitempty"`
	// ShapeID is the drawing shape id linking the control to its VML shape.
	ShapeID string `json:"shape_id,omitempty"`
	// Type is the control type.
	Type FormControlType `json:"type"`
	// Checked is the state of checkboxes and radio buttons.
	Checked *bool `json:"checked,omitempty"`
	// LinkedCell is the cell the control writes its value to.
	LinkedCell string `json:"linked_cell,omitempty"`
	// InputRange is the range a list or dropdown reads its items from.
	InputRange string `json:"input_range,omitempty"`
	// Anchor is the control position.
	Anchor *ControlAnchor `json:"anchor,omitempty"`
	// Min, Max, Inc, Page and Value describe spinners and scrollbars.
	Min   *int `json:"min,omitempty"`
	Max   *int `json:"max,omitempty"`
	Inc   *int `json:"inc,omitempty"`
	Page  *int `json:"page,omitempty"`
	Value *int `json:"value,omitempty"`
	// Text is the caption.
	Text string `json:"text,omitempty"`
	// PropsPart is the ctrlProp part describing the control, if any.
	PropsPart string `json:"props_part,omitempty"`
	// VML reports that the legacy VML shape was found.
	VML bool `json:"vml,omitempty"`
}

// FreezePane describes frozen rows and columns.
type FreezePane struct {
	XSplit      int    `json:"x_split"`
	YSplit      int    `json:"y_split"`
	TopLeftCell string `json:"top_left_cell,omitempty"`
	ActivePane  string `json:"active_pane,omitempty"`
	State       string `json:"state"`
}

// SheetView holds view settings of the first sheetView.
type SheetView struct {
	// ID is the unique view identifier.
	ID string `json:"id"`
	// View is normal, pageBreakPreview or pageLayout.
	View              string `json:"view"`
	ZoomScale         int    `json:"zoom_scale"`
	ShowGridLines     bool   `json:"show_grid_lines"`
	ShowRowColHeaders bool   `json:"show_row_col_headers"`
	ShowFormulas      bool   `json:"show_formulas,omitempty"`
	ShowZeros         bool   `json:"show_zeros"`
	RightToLeft       bool   `json:"right_to_left,omitempty"`
	TabSelected       bool   `json:"tab_selected,omitempty"`
	// ActiveCell and Selection come from the last selection element.
	ActiveCell string `json:"active_cell,omitempty"`
	Selection  string `json:"selection,omitempty"`
	// Freeze is set for frozen panes.
	Freeze *FreezePane `json:"freeze,omitempty"`
	// SplitX and SplitY are split positions (twips) for unfrozen splits.
	SplitX float64 `json:"split_x,omitempty"`
	SplitY float64 `json:"split_y,omitempty"`
}

// ColumnInfo is one col element.
type ColumnInfo struct {
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	Width        float64 `json:"width,omitempty"`
	CustomWidth  bool    `json:"custom_width,omitempty"`
	Hidden       bool    `json:"hidden,omitempty"`
	StyleIndex   *int    `json:"style_index,omitempty"`
	OutlineLevel int     `json:"outline_level,omitempty"`
}

// RowInfo is a row with non-default properties.
type RowInfo struct {
	Row          int     `json:"row"`
	Height       float64 `json:"height,omitempty"`
	CustomHeight bool    `json:"custom_height,omitempty"`
	Hidden       bool    `json:"hidden,omitempty"`
	StyleIndex   *int    `json:"style_index,omitempty"`
	OutlineLevel int     `json:"outline_level,omitempty"`
}

// Hyperlink is a cell hyperlink.
type Hyperlink struct {
	ID string `json:"id"`
	// Ref is the cell or range carrying the link.
	Ref string `json:"ref"`
	// Target is the external URL, resolved through the sheet relationships.
	Target string `json:"target,omitempty"`
	// Location is an in-workbook location such as "Sheet2!A1".
	Location string `json:"location,omitempty"`
	Display  string `json:"display,omitempty"`
	Tooltip  string `json:"tooltip,omitempty"`
}

// Comment is a cell note.
type Comment struct {
	ID     string `json:"id"`
	Ref    string `json:"ref"`
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

// TableDef is a table (list object) definition.
type TableDef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Ref         string   `json:"ref"`
	Columns     []string `json:"columns,omitempty"`
	HeaderRow   bool     `json:"header_row"`
	TotalsRow   bool     `json:"totals_row,omitempty"`
	Style       string   `json:"style,omitempty"`
	Part        string   `json:"part"`
}
