package models

import (
	"encoding/json"
	"testing"
)

func TestSharedStringTableIntern(t *testing.T) {
	sst := NewSharedStringTable([]SharedString{
		{Text: "Pending"},
		{Text: "Styled", Rich: true},
		{Text: "Pending"},
	})

	idx, added := sst.Intern("Pending")
	if idx != 0 || added {
		t.Errorf("Intern(Pending) = %d, %v, expected 0, false", idx, added)
	}

	idx, added = sst.Intern("Styled")
	if idx != 1 || added {
		t.Errorf("Intern(Styled) = %d, %v, expected the rich entry 1, false", idx, added)
	}

	idx, added = sst.Intern("Fresh")
	if idx != 3 || !added {
		t.Errorf("Intern(Fresh) = %d, %v, expected 3, true", idx, added)
	}
	again, added := sst.Intern("Fresh")
	if again != idx || added {
		t.Errorf("second Intern(Fresh) = %d, %v, expected %d, false", again, added, idx)
	}

	if got := len(sst.Added()); got != 1 {
		t.Errorf("Added() has %d entries, expected 1", got)
	}
	sst.Commit()
	if sst.Added() != nil {
		t.Errorf("Added() after Commit = %v, expected nil", sst.Added())
	}
	if sst.Base != 4 {
		t.Errorf("Base = %d, expected 4", sst.Base)
	}
}

func TestSharedStringTableAfterUnmarshal(t *testing.T) {
	data, err := json.Marshal(NewSharedStringTable([]SharedString{{Text: "a"}, {Text: "b"}}))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var sst SharedStringTable
	if err := json.Unmarshal(data, &sst); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if idx, added := sst.Intern("b"); idx != 1 || added {
		t.Errorf("Intern(b) = %d, %v, expected 1, false", idx, added)
	}
	if idx, added := sst.Intern("c"); idx != 2 || !added {
		t.Errorf("Intern(c) = %d, %v, expected 2, true", idx, added)
	}
}

func TestSheetAddCellOrdering(t *testing.T) {
	s := &Sheet{ID: "sheet-1"}
	for _, pos := range [][2]int{{2, 1}, {1, 3}, {1, 1}, {3, 2}, {2, 4}} {
		s.AddCell(&Cell{Row: pos[0], Col: pos[1]})
	}
	expected := [][2]int{{1, 1}, {1, 3}, {2, 1}, {2, 4}, {3, 2}}
	if len(s.Cells) != len(expected) {
		t.Fatalf("got %d cells, expected %d", len(s.Cells), len(expected))
	}
	for i, pos := range expected {
		if c := s.Cells[i]; c.Row != pos[0] || c.Col != pos[1] {
			t.Errorf("Cells[%d] = (%d,%d), expected (%d,%d)", i, c.Row, c.Col, pos[0], pos[1])
		}
	}

	replacement := &Cell{Row: 2, Col: 1, Value: StringValue("x")}
	s.AddCell(replacement)
	if len(s.Cells) != 5 {
		t.Errorf("replacing a cell changed the count to %d", len(s.Cells))
	}
	if s.Cell(2, 1) != replacement {
		t.Errorf("Cell(2,1) did not return the replacement")
	}
	if s.Cell(9, 9) != nil {
		t.Errorf("Cell(9,9) expected nil")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{100, "100"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e15, "1E+15"},
		{1.5e-7, "1.5E-07"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.expected {
			t.Errorf("FormatNumber(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestCellValueEqual(t *testing.T) {
	if !EmptyValue().Equal(CellValue{}) {
		t.Errorf("zero value should equal EmptyValue")
	}
	if StringValue("1").Equal(NumberValue(1)) {
		t.Errorf("string and number values should differ")
	}
	if !BoolValue(true).Equal(BoolValue(true)) {
		t.Errorf("equal booleans should compare equal")
	}
}

func buildMergedTable() *Table {
	cell := func(col int, vm VMerge) TableCell {
		return TableCell{GridCol: col, ColSpan: 1, VMerge: vm}
	}
	return &Table{Rows: []Row{
		{Cells: []TableCell{cell(0, VMergeStart), cell(1, VMergeNone)}},
		{Cells: []TableCell{cell(0, VMergeContinue), cell(1, VMergeStart)}},
		{Cells: []TableCell{cell(0, VMergeContinue), cell(1, VMergeNone)}},
		{Cells: []TableCell{cell(0, VMergeNone), cell(1, VMergeContinue)}},
	}}
}

func TestComputeRowSpans(t *testing.T) {
	tbl := buildMergedTable()
	tbl.ComputeRowSpans()

	tests := []struct {
		row, cell int
		expected  int
	}{
		{0, 0, 3},
		{0, 1, 1},
		{1, 1, 1},
		{1, 0, 1},
		{3, 0, 1},
	}
	for _, tt := range tests {
		if got := tbl.Rows[tt.row].Cells[tt.cell].RowSpan; got != tt.expected {
			t.Errorf("row %d cell %d RowSpan = %d, expected %d", tt.row, tt.cell, got, tt.expected)
		}
	}
}

func TestDeriveLegacyFields(t *testing.T) {
	doc := &Document{}
	para := doc.AddBlock(Block{
		Kind: BlockParagraph,
		ID:   "p-1",
		Ref:  "p[0]",
		Paragraph: &Paragraph{Inlines: []Inline{
			{Kind: InlineText, ID: "run-1", Ref: "p[0]/r[0]", Text: &TextRun{Text: "Agree"}},
			{Kind: InlineCheckbox, ID: "checkbox-7", Ref: "p[0]/sdt[0]", Checkbox: &CheckboxControl{Label: "Agree", Checked: true}},
		}},
	})
	inner := doc.AddBlock(Block{
		Kind: BlockParagraph,
		ID:   "p-2",
		Ref:  "tbl[0]/tr[0]/tc[0]/p[0]",
		Paragraph: &Paragraph{Inlines: []Inline{
			{Kind: InlineDropdown, ID: "dropdown-9", Ref: "tbl[0]/tr[0]/tc[0]/p[0]/sdt[0]", Dropdown: &DropdownControl{
				Label:    "Status",
				Options:  []DropdownOption{{Display: "Open", Value: "o"}, {Display: "Closed", Value: "c"}},
				Selected: "Open",
			}},
		}},
	})
	tbl := doc.AddBlock(Block{
		Kind: BlockTable,
		ID:   "tbl-1",
		Ref:  "tbl[0]",
		Table: &Table{Rows: []Row{{
			ID:    "row-1",
			Ref:   "tbl[0]/tr[0]",
			Cells: []TableCell{{ID: "cell-1", Ref: "tbl[0]/tr[0]/tc[0]", ColSpan: 1, Blocks: []int{inner}}},
		}}},
	})
	doc.Body = []int{para, tbl}

	doc.DeriveLegacyFields()

	if len(doc.Checkboxes) != 1 || doc.Checkboxes[0].ID != "checkbox-7" || !doc.Checkboxes[0].Checked {
		t.Errorf("Checkboxes = %+v", doc.Checkboxes)
	}
	if len(doc.Dropdowns) != 1 {
		t.Fatalf("Dropdowns = %+v", doc.Dropdowns)
	}
	dd := doc.Dropdowns[0]
	if dd.Selected != "Open" || len(dd.Options) != 2 || dd.Options[1] != "Closed" {
		t.Errorf("Dropdowns[0] = %+v", dd)
	}

	if b := doc.BlockByRef("tbl[0]/tr[0]/tc[0]/p[0]"); b == nil || b.ID != "p-2" {
		t.Errorf("BlockByRef on nested paragraph = %+v", b)
	}
	if in, p := doc.InlineByRef("p[0]/r[0]"); in == nil || p == nil || in.ID != "run-1" {
		t.Errorf("InlineByRef(p[0]/r[0]) = %+v", in)
	}
	if c := doc.CellByRef("tbl[0]/tr[0]/tc[0]"); c == nil || c.ID != "cell-1" {
		t.Errorf("CellByRef = %+v", c)
	}
}

func TestValidationReportAdd(t *testing.T) {
	r := ValidationReport{Valid: true}
	r.Add(SeverityWarning, "empty_range", "A1", "no cells")
	if !r.Valid {
		t.Errorf("warning should not invalidate the report")
	}
	r.Add(SeverityError, "duplicate_id", "p-1", "duplicate")
	if r.Valid {
		t.Errorf("error should invalidate the report")
	}
	if len(r.Errors()) != 1 {
		t.Errorf("Errors() = %d, expected 1", len(r.Errors()))
	}
}
