package xlsx

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ooxmledit-go/internal/ooxmltest"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

func parseWorkbook(t *testing.T, data []byte, opts Options) *models.Workbook {
	t.Helper()
	c, err := container.Open(data)
	if err != nil {
		t.Fatalf("container.Open failed: %v", err)
	}
	wb, err := Parse(c, opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return wb
}

// excelizeWorkbook builds a workbook the way a spreadsheet application
// would write it.
func excelizeWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "Header1")
	f.SetCellValue(sheet, "B1", "Header2")
	f.SetCellValue(sheet, "A2", 100)
	f.SetCellValue(sheet, "B2", 200.5)
	f.SetCellValue(sheet, "A3", true)
	if err := f.SetCellFormula(sheet, "B3", "SUM(A2:B2)"); err != nil {
		t.Fatalf("SetCellFormula failed: %v", err)
	}
	if err := f.MergeCell(sheet, "D1", "E2"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}
	dv := excelize.NewDataValidation(true)
	dv.Sqref = "C1:C5"
	if err := dv.SetDropList([]string{"Pending", "Approved", "Rejected"}); err != nil {
		t.Fatalf("SetDropList failed: %v", err)
	}
	if err := f.AddDataValidation(sheet, dv); err != nil {
		t.Fatalf("AddDataValidation failed: %v", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		t.Fatalf("SetPanes failed: %v", err)
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "Sheet1!$A$1:$B$3",
		Scope:    "Sheet1",
	}); err != nil {
		t.Fatalf("SetDefinedName failed: %v", err)
	}
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func TestParseExcelizeWorkbook(t *testing.T) {
	wb := parseWorkbook(t, excelizeWorkbook(t), Options{})

	if len(wb.Sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(wb.Sheets))
	}
	s := wb.Sheets[0]
	if s.ID != "sheet-0" || s.Name != "Sheet1" || s.Path != "xl/worksheets/sheet1.xml" {
		t.Errorf("Unexpected sheet identity: %q %q %q", s.ID, s.Name, s.Path)
	}
	if wb.Sheets[1].Name != "Data" || wb.Sheets[1].ID != "sheet-1" {
		t.Errorf("Unexpected second sheet: %q %q", wb.Sheets[1].ID, wb.Sheets[1].Name)
	}

	tests := []struct {
		row, col int
		expected models.CellValue
	}{
		{1, 1, models.StringValue("Header1")},
		{1, 2, models.StringValue("Header2")},
		{2, 1, models.NumberValue(100)},
		{2, 2, models.NumberValue(200.5)},
		{3, 1, models.BoolValue(true)},
	}
	for _, tt := range tests {
		c := s.Cell(tt.row, tt.col)
		if c == nil {
			t.Errorf("Cell(%d, %d) missing", tt.row, tt.col)
			continue
		}
		if !c.Value.Equal(tt.expected) {
			t.Errorf("Cell(%d, %d) = %+v, expected %+v", tt.row, tt.col, c.Value, tt.expected)
		}
	}

	if c := s.Cell(1, 1); c.ID != "sheet-0-A1" || c.Ref != "A1" {
		t.Errorf("Unexpected cell identity: %q %q", c.ID, c.Ref)
	}
	if c := s.Cell(3, 2); c == nil || c.Formula != "SUM(A2:B2)" {
		t.Errorf("Expected formula SUM(A2:B2) on B3, got %+v", c)
	}

	if len(s.Merges) != 1 || s.Merges[0].Ref != "D1:E2" || s.Merges[0].ID != "sheet-0-merge-0" {
		t.Fatalf("Unexpected merges: %+v", s.Merges)
	}

	if len(s.DataValidations) != 1 {
		t.Fatalf("Expected 1 data validation, got %d", len(s.DataValidations))
	}
	dv := s.DataValidations[0]
	if dv.Type != "list" || dv.Sqref != "C1:C5" {
		t.Errorf("Unexpected validation: %+v", dv)
	}
	if got := len(dv.Options); got != 3 || dv.Options[1] != "Approved" {
		t.Errorf("Expected options [Pending Approved Rejected], got %v", dv.Options)
	}

	if s.View == nil || s.View.Freeze == nil {
		t.Fatalf("Expected frozen pane, got %+v", s.View)
	}
	if s.View.Freeze.TopLeftCell != "B2" || s.View.Freeze.XSplit != 1 || s.View.Freeze.YSplit != 1 {
		t.Errorf("Unexpected freeze pane: %+v", s.View.Freeze)
	}

	areas := PrintAreas(wb, "Sheet1")
	if len(areas) != 1 || areas[0] != (models.CellRange{R1: 1, C1: 1, R2: 3, C2: 2}) {
		t.Errorf("Unexpected print areas: %+v", areas)
	}
}

func TestParseResolvesStyles(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
	})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	f.SetCellValue("Sheet1", "A1", "styled")
	if err := f.SetCellStyle("Sheet1", "A1", "A1", style); err != nil {
		t.Fatalf("SetCellStyle failed: %v", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: "Quarterly", Creator: "ops"}); err != nil {
		t.Fatalf("SetDocProps failed: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}

	wb := parseWorkbook(t, buf.Bytes(), Options{ResolveStyles: true})
	c := wb.Sheets[0].Cell(1, 1)
	if c.StyleIndex == nil {
		t.Fatalf("Expected a style index on A1")
	}
	st, ok := wb.Styles[*c.StyleIndex]
	if !ok {
		t.Fatalf("Style %d not resolved", *c.StyleIndex)
	}
	if !st.Bold || st.FontName != "Arial" || st.FontSize != 14 {
		t.Errorf("Unexpected font: %+v", st)
	}
	if !strings.HasSuffix(st.FillColor, "FFFF00") {
		t.Errorf("Expected fill FFFF00, got %q", st.FillColor)
	}
	if wb.Properties == nil || wb.Properties.Title != "Quarterly" || wb.Properties.Creator != "ops" {
		t.Errorf("Unexpected properties: %+v", wb.Properties)
	}
}

const cellTypesSheet = `<dimension ref="A1:F2"/>` +
	`<sheetData>` +
	`<row r="1" ht="30" customHeight="1">` +
	`<c r="A1" t="s"><v>1</v></c>` +
	`<c r="B1" t="inlineStr"><is><t>inline</t></is></c>` +
	`<c r="C1" t="e"><v>#DIV/0!</v></c>` +
	`<c r="D1" t="str"><f>"a"&amp;"b"</f><v>ab</v></c>` +
	`<c r="E1" t="b"><v>0</v></c>` +
	`<c r="F1" s="3"/>` +
	`</row>` +
	`<row r="2"><c r="A2"><f t="shared" ref="A2:A4" si="0">B2*2</f><v>4</v></c></row>` +
	`<row r="3"><c r="A3"><f t="shared" si="0"/><v>6</v></c></row>` +
	`</sheetData>`

func TestParseCellTypes(t *testing.T) {
	data := ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets:        []ooxmltest.Sheet{{Name: "Types", XML: ooxmltest.SheetXML(cellTypesSheet)}},
		SharedStrings: `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2"><si><t>plain</t></si><si><r><t>rich </t></r><r><rPr><b/></rPr><t>text</t></r><rPh sb="0" eb="1"><t>ignored</t></rPh></si></sst>`,
	})
	wb := parseWorkbook(t, data, Options{})
	s := wb.Sheets[0]

	if !wb.SharedStrings.Items[1].Rich || wb.SharedStrings.Items[1].Text != "rich text" {
		t.Errorf("Unexpected rich item: %+v", wb.SharedStrings.Items[1])
	}

	tests := []struct {
		ref      string
		typ      string
		expected models.CellValue
	}{
		{"A1", "s", models.StringValue("rich text")},
		{"B1", "inlineStr", models.StringValue("inline")},
		{"C1", "e", models.ErrorValue("#DIV/0!")},
		{"D1", "str", models.StringValue("ab")},
		{"E1", "b", models.BoolValue(false)},
		{"F1", "n", models.EmptyValue()},
	}
	for _, tt := range tests {
		col, row, err := ParseCellRef(tt.ref)
		if err != nil {
			t.Fatalf("ParseCellRef(%q) failed: %v", tt.ref, err)
		}
		c := s.Cell(row, col)
		if c == nil {
			t.Errorf("%s missing", tt.ref)
			continue
		}
		if c.Type != tt.typ || !c.Value.Equal(tt.expected) {
			t.Errorf("%s = (%q, %+v), expected (%q, %+v)", tt.ref, c.Type, c.Value, tt.typ, tt.expected)
		}
	}

	if c := s.Cell(1, 4); c.Formula != `"a"&"b"` {
		t.Errorf("Expected unescaped formula, got %q", c.Formula)
	}
	if c := s.Cell(1, 6); c.StyleIndex == nil || *c.StyleIndex != 3 {
		t.Errorf("Expected style 3 on F1, got %v", c.StyleIndex)
	}
	master, member := s.Cell(2, 1), s.Cell(3, 1)
	if master.FormulaType != models.FormulaShared || master.FormulaRef != "A2:A4" || *master.FormulaIndex != 0 {
		t.Errorf("Unexpected shared master: %+v", master)
	}
	if member.Formula != "" || !member.HasFormula() {
		t.Errorf("Expected a shared member without text, got %+v", member)
	}

	if len(s.Rows) != 1 || s.Rows[0].Row != 1 || s.Rows[0].Height != 30 || !s.Rows[0].CustomHeight {
		t.Errorf("Unexpected row info: %+v", s.Rows)
	}
}

func TestParseMergedCellsAreEmptied(t *testing.T) {
	sheet := ooxmltest.SheetXML(`<sheetData><row r="1">` +
		`<c r="A1" t="inlineStr"><is><t>Title</t></is></c>` +
		`<c r="B1" t="inlineStr"><is><t>hidden</t></is></c>` +
		`</row></sheetData><mergeCells count="1"><mergeCell ref="A1:C1"/></mergeCells>`)
	wb := parseWorkbook(t, ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets: []ooxmltest.Sheet{{Name: "S", XML: sheet}},
	}), Options{})
	s := wb.Sheets[0]

	origin, other := s.Cell(1, 1), s.Cell(1, 2)
	if !origin.IsMerged || !origin.IsMergeOrigin || origin.MergeRange != "A1:C1" {
		t.Errorf("Unexpected origin flags: %+v", origin)
	}
	if origin.Value.Text != "Title" {
		t.Errorf("Expected origin value Title, got %+v", origin.Value)
	}
	if !other.IsMerged || other.IsMergeOrigin || !other.Value.IsEmpty() {
		t.Errorf("Expected emptied non-origin cell, got %+v", other)
	}
}

const controlsSheet = `<sheetData/>` +
	`<legacyDrawing r:id="rId1"/>` +
	`<mc:AlternateContent><mc:Choice Requires="x14"><controls>` +
	`<mc:AlternateContent><mc:Choice Requires="x14">` +
	`<control shapeId="1025" r:id="rId2" name="Check Box 1"><controlPr defaultSize="0" autoPict="0">` +
	`<anchor moveWithCells="1"><from><xdr:col>1</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>2</xdr:row><xdr:rowOff>0</xdr:rowOff></from>` +
	`<to><xdr:col>3</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>3</xdr:row><xdr:rowOff>0</xdr:rowOff></to></anchor>` +
	`</controlPr></control></mc:Choice></mc:AlternateContent>` +
	`</controls></mc:Choice></mc:AlternateContent>`

const controlsVML = `<xml xmlns:v="urn:schemas-microsoft-com:vml" xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel">` +
	` <o:shapelayout v:ext="edit"><o:idmap v:ext="edit" data="1"/></o:shapelayout>` +
	`<v:shape id="_x0000_s1025" type="#_x0000_t201" o:spid="_x0000_s1025"><v:textbox><div>Approve</div></v:textbox>` +
	`<x:ClientData ObjectType="Checkbox"><x:Anchor>1, 15, 2, 5, 3, 20, 3, 10</x:Anchor><x:Checked>1</x:Checked><x:FmlaLink>$D$3</x:FmlaLink></x:ClientData></v:shape>` +
	`<v:shape id="_x0000_s1026"><x:ClientData ObjectType="Note"><x:Row>0</x:Row></x:ClientData></v:shape>` +
	`<v:shape id="_x0000_s1027"><x:ClientData ObjectType="Spin"><x:Val>3</x:Val><x:Min>0</x:Min><x:Max>10</x:Max><x:FmlaLink>$E$1</x:FmlaLink></x:ClientData></v:shape>` +
	`</xml>`

func controlsWorkbook(t *testing.T) []byte {
	t.Helper()
	sheet := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" ` +
		`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">` + controlsSheet + `</worksheet>`
	return ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets: []ooxmltest.Sheet{{
			Name: "Form",
			XML:  sheet,
			Rels: `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing" Target="../drawings/vmlDrawing1.vml"/>` +
				`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/ctrlProp" Target="../ctrlProps/ctrlProp1.xml"/>`,
		}},
		Extra: []ooxmltest.Entry{
			{Name: "xl/drawings/vmlDrawing1.vml", Body: controlsVML},
			{Name: "xl/ctrlProps/ctrlProp1.xml", Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<formControlPr xmlns="http://schemas.microsoft.com/office/spreadsheetml/2009/9/main" objectType="CheckBox" checked="Checked" fmlaLink="$D$3" lockText="1"/>`},
		},
	})
}

func TestParseFormControls(t *testing.T) {
	wb := parseWorkbook(t, controlsWorkbook(t), Options{})
	controls := wb.Sheets[0].FormControls
	if len(controls) != 2 {
		t.Fatalf("Expected 2 controls, got %d: %+v", len(controls), controls)
	}

	cb := controls[0]
	if cb.ID != "sheet-0-ctrl-0" || cb.Type != models.ControlCheckbox || cb.ShapeID != "1025" {
		t.Errorf("Unexpected checkbox identity: %+v", cb)
	}
	if cb.Checked == nil || !*cb.Checked {
		t.Errorf("Expected checked checkbox")
	}
	if cb.Name != "Check Box 1" || cb.LinkedCell != "$D$3" || cb.Text != "Approve" || !cb.VML {
		t.Errorf("Unexpected checkbox fields: %+v", cb)
	}
	if cb.PropsPart != "xl/ctrlProps/ctrlProp1.xml" {
		t.Errorf("Expected props part, got %q", cb.PropsPart)
	}
	if cb.Anchor == nil || *cb.Anchor != (models.ControlAnchor{FromCol: 1, FromRow: 2, ToCol: 3, ToRow: 3}) {
		t.Errorf("Unexpected anchor: %+v", cb.Anchor)
	}

	spin := controls[1]
	if spin.Type != models.ControlSpinner || spin.Value == nil || *spin.Value != 3 || spin.Max == nil || *spin.Max != 10 {
		t.Errorf("Unexpected spinner: %+v", spin)
	}
	if spin.Checked != nil {
		t.Errorf("Spinner should carry no checked state")
	}
}

func TestParseVMLCheckedValues(t *testing.T) {
	tests := []struct {
		clientData string
		expected   bool
	}{
		{`<x:Checked/>`, true},
		{`<x:Checked>1</x:Checked>`, true},
		{`<x:Checked>2</x:Checked>`, true},
		{`<x:Checked>0</x:Checked>`, false},
		{``, false},
	}
	for _, tt := range tests {
		vml := `<xml xmlns:v="urn:schemas-microsoft-com:vml" xmlns:x="urn:schemas-microsoft-com:office:excel">` +
			`<v:shape id="_x0000_s1025"><x:ClientData ObjectType="Radio">` + tt.clientData + `</x:ClientData></v:shape></xml>`
		data := ooxmltest.Xlsx(t, ooxmltest.Workbook{
			Sheets: []ooxmltest.Sheet{{
				Name: "S",
				XML:  ooxmltest.SheetXML(`<sheetData/><legacyDrawing r:id="rId1"/>`),
				Rels: `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing" Target="../drawings/vmlDrawing1.vml"/>`,
			}},
			Extra: []ooxmltest.Entry{{Name: "xl/drawings/vmlDrawing1.vml", Body: vml}},
		})
		controls := parseWorkbook(t, data, Options{}).Sheets[0].FormControls
		if len(controls) != 1 || controls[0].Checked == nil {
			t.Fatalf("%q: expected one radio control, got %+v", tt.clientData, controls)
		}
		if *controls[0].Checked != tt.expected {
			t.Errorf("%q: checked = %v, expected %v", tt.clientData, *controls[0].Checked, tt.expected)
		}
	}
}

const rulesSheet = `<sheetData/>` +
	`<conditionalFormatting sqref="A1:A10"><cfRule type="cellIs" dxfId="0" priority="1" operator="greaterThan"><formula>5</formula></cfRule></conditionalFormatting>` +
	`<conditionalFormatting sqref="B1:B10"><cfRule type="colorScale" priority="2"><colorScale>` +
	`<cfvo type="min"/><cfvo type="max"/><color rgb="FFF8696B"/><color rgb="FF63BE7B"/></colorScale></cfRule></conditionalFormatting>` +
	`<dataValidations count="1"><dataValidation type="whole" operator="between" allowBlank="1" showErrorMessage="1" errorTitle="Range" sqref="D1:D5">` +
	`<formula1>1</formula1><formula2>10</formula2></dataValidation></dataValidations>` +
	`<extLst><ext uri="{CCE6A557-97BC-4b89-ADB6-D9C93CAAB3DF}" xmlns:x14="http://schemas.microsoft.com/office/spreadsheetml/2009/9/main">` +
	`<x14:dataValidations count="1" xmlns:xm="http://schemas.microsoft.com/office/excel/2006/main">` +
	`<x14:dataValidation type="list" allowBlank="1"><x14:formula1><xm:f>Lists!$A$1:$A$3</xm:f></x14:formula1><xm:sqref>C1:C5</xm:sqref></x14:dataValidation>` +
	`</x14:dataValidations></ext></extLst>`

const listsSheet = `<sheetData>` +
	`<row r="1"><c r="A1" t="inlineStr"><is><t>Red</t></is></c></row>` +
	`<row r="2"><c r="A2" t="inlineStr"><is><t>Green</t></is></c></row>` +
	`<row r="3"><c r="A3" t="inlineStr"><is><t>Blue</t></is></c></row>` +
	`</sheetData>`

func TestParseRulesAndListSources(t *testing.T) {
	data := ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets: []ooxmltest.Sheet{
			{Name: "Rules", XML: ooxmltest.SheetXML(rulesSheet)},
			{Name: "Lists", XML: ooxmltest.SheetXML(listsSheet)},
		},
	})
	wb := parseWorkbook(t, data, Options{ResolveListSources: true})
	s := wb.Sheets[0]

	if len(s.ConditionalFormats) != 2 {
		t.Fatalf("Expected 2 conditional formats, got %d", len(s.ConditionalFormats))
	}
	cellIs := s.ConditionalFormats[0].Rules[0]
	if cellIs.Type != "cellIs" || cellIs.Operator != "greaterThan" || cellIs.DxfID == nil || *cellIs.DxfID != 0 {
		t.Errorf("Unexpected cellIs rule: %+v", cellIs)
	}
	if len(cellIs.Formulas) != 1 || cellIs.Formulas[0] != "5" {
		t.Errorf("Unexpected formulas: %v", cellIs.Formulas)
	}
	scale := s.ConditionalFormats[1].Rules[0].ColorScale
	if scale == nil || len(scale.Values) != 2 || scale.Colors[1] != "FF63BE7B" {
		t.Errorf("Unexpected color scale: %+v", scale)
	}

	if len(s.DataValidations) != 2 {
		t.Fatalf("Expected 2 validations, got %d", len(s.DataValidations))
	}
	whole := s.DataValidations[0]
	if whole.ID != "sheet-0-dv-0" || whole.Formula1 != "1" || whole.Formula2 != "10" || whole.ErrorTitle != "Range" {
		t.Errorf("Unexpected whole-number validation: %+v", whole)
	}
	list := s.DataValidations[1]
	if !list.Extended || list.Sqref != "C1:C5" || list.OptionsSource != "Lists!$A$1:$A$3" {
		t.Errorf("Unexpected extended validation: %+v", list)
	}
	if got := list.Options; len(got) != 3 || got[0] != "Red" || got[2] != "Blue" {
		t.Errorf("Expected resolved options [Red Green Blue], got %v", got)
	}
}

func TestParseRejectsDocuments(t *testing.T) {
	c, err := container.Open(ooxmltest.Docx(t, `<w:p/>`))
	if err != nil {
		t.Fatalf("container.Open failed: %v", err)
	}
	_, err = Parse(c, Options{})
	if !errors.Is(err, ooxml.ErrUnsupportedPackageLayout) {
		t.Errorf("Expected ErrUnsupportedPackageLayout, got %v", err)
	}
}

func TestParseMissingSheetPart(t *testing.T) {
	data := ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets: []ooxmltest.Sheet{{Name: "S", XML: ooxmltest.SheetXML(`<sheetData/>`)}},
	})
	parts := ooxmltest.Parts(t, data)
	var entries []ooxmltest.Entry
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "xl/workbook.xml", "xl/_rels/workbook.xml.rels"} {
		entries = append(entries, ooxmltest.Entry{Name: name, Body: string(parts[name])})
	}
	c, err := container.Open(ooxmltest.Zip(t, entries...))
	if err != nil {
		t.Fatalf("container.Open failed: %v", err)
	}
	_, err = Parse(c, Options{})
	var pe *ooxml.PartError
	if !errors.As(err, &pe) || !errors.Is(err, ooxml.ErrMalformedContainer) {
		t.Fatalf("Expected a malformed PartError, got %v", err)
	}
	if pe.Part != "xl/workbook.xml" {
		t.Errorf("Expected part xl/workbook.xml, got %q", pe.Part)
	}
}

func TestParseSkipsUnreadableComments(t *testing.T) {
	data := ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets: []ooxmltest.Sheet{{
			Name: "S",
			XML:  ooxmltest.SheetXML(`<sheetData/>`),
			Rels: `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments" Target="../comments1.xml"/>`,
		}},
		Extra: []ooxmltest.Entry{{Name: "xl/comments1.xml", Body: `<comments><broken`}},
	})
	wb := parseWorkbook(t, data, Options{})
	if len(wb.Sheets[0].Comments) != 0 {
		t.Errorf("Expected no comments, got %+v", wb.Sheets[0].Comments)
	}
}
