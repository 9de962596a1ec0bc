package xlsx

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ukaji3/ooxmledit-go/internal/ooxmltest"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

const sheetPart = "xl/worksheets/sheet1.xml"

func exportWorkbook(t *testing.T, wb *models.Workbook, original []byte) ([]byte, *ExportReport) {
	t.Helper()
	out, report, err := Export(wb, original, Options{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	return out, report
}

func TestExportUnchangedIsIdentity(t *testing.T) {
	for name, data := range map[string][]byte{
		"status":   statusWorkbook(t),
		"controls": controlsWorkbook(t),
		"drawing":  drawingWorkbook(t),
		"excelize": excelizeWorkbook(t),
	} {
		wb := parseWorkbook(t, data, Options{ResolveListSources: true})
		out, report := exportWorkbook(t, wb, data)
		if !bytes.Equal(out, data) {
			t.Errorf("%s: unchanged export differs from the input", name)
		}
		if len(report.Sheets) != 0 || report.SharedStringsAdded != 0 {
			t.Errorf("%s: unexpected report %+v", name, report)
		}
	}
}

func TestExportReusedSharedStringTouchesOnlyTheCell(t *testing.T) {
	data := statusWorkbook(t)
	wb := parseWorkbook(t, data, Options{})
	if _, err := SetCellValue(wb, "Status", "B2", models.StringValue("Approved")); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	out, report := exportWorkbook(t, wb, data)

	changed := ooxmltest.ChangedParts(t, data, out)
	if !reflect.DeepEqual(changed, []string{sheetPart}) {
		t.Errorf("Expected only %s to change, got %v", sheetPart, changed)
	}
	if report.SharedStringsAdded != 0 {
		t.Errorf("Expected no shared strings added, got %d", report.SharedStringsAdded)
	}

	before := ooxmltest.Parts(t, data)[sheetPart]
	after := ooxmltest.Parts(t, out)[sheetPart]
	expected := bytes.Replace(before, []byte(statusCell), []byte(`<c r="B2" s="1" t="s"><v>2</v></c>`), 1)
	if !bytes.Equal(after, expected) {
		t.Errorf("Sheet part differs beyond B2:\n got: %s\nwant: %s", after, expected)
	}
	if wb.Sheets[0].HasDirty() {
		t.Errorf("Export should clear dirty flags")
	}
}

func TestExportKeepsEnvelope(t *testing.T) {
	data := statusWorkbook(t)
	wb := parseWorkbook(t, data, Options{})
	if _, err := SetCellValue(wb, "Status", "B11", models.NumberValue(100)); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	out, _ := exportWorkbook(t, wb, data)
	after := string(ooxmltest.Parts(t, out)[sheetPart])

	prolog := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" + `<worksheet ` + ooxmltest.SheetNamespaceDecls + `>`
	if !strings.HasPrefix(after, prolog) {
		t.Errorf("Root start tag changed: %s", after[:min(len(after), len(prolog))])
	}
	if !strings.Contains(after, `<c r="B11"><v>100</v></c>`) {
		t.Errorf("Expected B11 as a plain number: %s", after)
	}
	if strings.Contains(after, "SUM(B1:B10)") {
		t.Errorf("Formula should be gone: %s", after)
	}
	if !strings.Contains(after, `<row r="11" spans="1:2" x14ac:dyDescent="0.25">`) {
		t.Errorf("Row attributes should survive: %s", after)
	}
}

func TestExportNewSharedString(t *testing.T) {
	data := statusWorkbook(t)
	wb := parseWorkbook(t, data, Options{})
	if _, err := SetCellValue(wb, "Status", "B2", models.StringValue("Escalated & closed")); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	out, report := exportWorkbook(t, wb, data)
	if report.SharedStringsAdded != 1 {
		t.Errorf("Expected 1 shared string added, got %d", report.SharedStringsAdded)
	}

	sst := string(ooxmltest.Parts(t, out)["xl/sharedStrings.xml"])
	if !strings.Contains(sst, `count="2" uniqueCount="5"`) {
		t.Errorf("Expected count 2 and uniqueCount 5: %s", sst)
	}
	if !strings.HasSuffix(sst, `<si><t>Escalated &amp; closed</t></si></sst>`) {
		t.Errorf("Expected the new entry appended: %s", sst)
	}
	if !strings.Contains(sst, `<si><t>Pending</t></si>`) {
		t.Errorf("Existing entries must be kept: %s", sst)
	}

	sheet := string(ooxmltest.Parts(t, out)[sheetPart])
	if !strings.Contains(sheet, `<c r="B2" s="1" t="s"><v>4</v></c>`) {
		t.Errorf("Expected B2 to reference index 4: %s", sheet)
	}

	reparsed := parseWorkbook(t, out, Options{})
	if got := reparsed.Sheets[0].Cell(2, 2).Value; got.Text != "Escalated & closed" {
		t.Errorf("Re-parsed B2 = %+v", got)
	}

	// A second export of the same model writes nothing new.
	again, report := exportWorkbook(t, wb, out)
	if !bytes.Equal(again, out) || report.SharedStringsAdded != 0 {
		t.Errorf("Second export should be an identity")
	}
}

func TestExportEscapesControlCharacters(t *testing.T) {
	data := statusWorkbook(t)
	wb := parseWorkbook(t, data, Options{})
	values := map[string]string{
		"C1": "bell\x07ring",
		"C2": "code _x0041_ kept",
	}
	for ref, text := range values {
		if _, err := SetCellValue(wb, "Status", ref, models.StringValue(text)); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", ref, err)
		}
	}
	out, _ := exportWorkbook(t, wb, data)

	sst := string(ooxmltest.Parts(t, out)["xl/sharedStrings.xml"])
	for _, want := range []string{`<t>bell_x0007_ring</t>`, `<t>code _x005F_x0041_ kept</t>`} {
		if !strings.Contains(sst, want) {
			t.Errorf("Expected %s in %s", want, sst)
		}
	}
	if strings.ContainsRune(sst, 0x07) {
		t.Errorf("Raw control character written: %q", sst)
	}

	reparsed := parseWorkbook(t, out, Options{})
	for ref, text := range values {
		col, row, _ := ParseCellRef(ref)
		if got := reparsed.Sheets[0].Cell(row, col).Value.Text; got != text {
			t.Errorf("Re-parsed %s = %q, expected %q", ref, got, text)
		}
	}
}

func TestExportEscapesInlineStrings(t *testing.T) {
	sheet := ooxmltest.SheetXML(`<dimension ref="A1"/><sheetData><row r="1"><c r="A1"><v>1</v></c></row></sheetData>`)
	data := ooxmltest.Xlsx(t, ooxmltest.Workbook{Sheets: []ooxmltest.Sheet{{Name: "S", XML: sheet}}})
	wb := parseWorkbook(t, data, Options{})

	if _, err := SetCellValue(wb, "S", "A1", models.StringValue("tab\tand\x1Fsep")); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	out, _ := exportWorkbook(t, wb, data)
	got := string(ooxmltest.Parts(t, out)[sheetPart])
	want := "<is><t>tab\tand_x001F_sep</t></is>"
	if !strings.Contains(got, want) {
		t.Errorf("Expected %q in %q", want, got)
	}
	if v := parseWorkbook(t, out, Options{}).Sheets[0].Cell(1, 1).Value.Text; v != "tab\tand\x1Fsep" {
		t.Errorf("Re-parsed A1 = %q", v)
	}
}

func TestExportInsertsRowsAndWidensDimension(t *testing.T) {
	data := statusWorkbook(t)
	wb := parseWorkbook(t, data, Options{})
	edits := []CellEdit{
		{Sheet: "Status", Cell: "C5", Value: models.BoolValue(true)},
		{Sheet: "Status", Cell: "A12", Value: models.NumberValue(1.5)},
		{Sheet: "Status", Cell: "C2", Value: models.ErrorValue("#N/A")},
	}
	if res := SetCellValues(wb, edits); res.Applied != 3 {
		t.Fatalf("Expected 3 applied edits, got %+v", res)
	}
	out, _ := exportWorkbook(t, wb, data)
	sheet := string(ooxmltest.Parts(t, out)[sheetPart])

	for _, want := range []string{
		`<dimension ref="A1:C12"/>`,
		`<row r="2" spans="1:3" x14ac:dyDescent="0.25">` + statusCell + `<c r="C2" t="e"><v>#N/A</v></c></row>`,
		`</row><row r="5"><c r="C5" t="b"><v>1</v></c></row><row r="11"`,
		`<row r="12"><c r="A12"><v>1.5</v></c></row></sheetData>`,
	} {
		if !strings.Contains(sheet, want) {
			t.Errorf("Expected %s in:\n%s", want, sheet)
		}
	}
	if wb.Sheets[0].Dimension != "A1:C12" {
		t.Errorf("Expected model dimension A1:C12, got %q", wb.Sheets[0].Dimension)
	}

	reparsed := parseWorkbook(t, out, Options{})
	if c := reparsed.Sheets[0].Cell(5, 3); c == nil || !c.Value.Equal(models.BoolValue(true)) {
		t.Errorf("Re-parsed C5 = %+v", c)
	}
}

func TestExportInlineStringWithoutTable(t *testing.T) {
	sheet := ooxmltest.SheetXML(`<dimension ref="A1"/><sheetData><row r="1"><c r="A1"><v>1</v></c></row></sheetData>`)
	data := ooxmltest.Xlsx(t, ooxmltest.Workbook{Sheets: []ooxmltest.Sheet{{Name: "S", XML: sheet}}})
	wb := parseWorkbook(t, data, Options{})

	if _, err := SetCellValue(wb, "S", "A1", models.StringValue(" padded ")); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	out, _ := exportWorkbook(t, wb, data)
	got := string(ooxmltest.Parts(t, out)[sheetPart])
	want := `<c r="A1" t="inlineStr"><is><t xml:space="preserve"> padded </t></is></c>`
	if !strings.Contains(got, want) {
		t.Errorf("Expected %s in %s", want, got)
	}
	if changed := ooxmltest.ChangedParts(t, data, out); len(changed) != 1 {
		t.Errorf("Expected a single changed part, got %v", changed)
	}
}

func TestExportClearedCellIsDropped(t *testing.T) {
	data := statusWorkbook(t)
	wb := parseWorkbook(t, data, Options{})
	if _, err := SetCellValue(wb, "Status", "A1", models.EmptyValue()); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	out, _ := exportWorkbook(t, wb, data)
	sheet := string(ooxmltest.Parts(t, out)[sheetPart])
	if strings.Contains(sheet, `r="A1"`) {
		t.Errorf("Expected A1 to be removed: %s", sheet)
	}
	if !strings.Contains(sheet, `<row r="1" spans="1:2" x14ac:dyDescent="0.25"></row>`) {
		t.Errorf("Expected the emptied row to keep its tag: %s", sheet)
	}
}

func TestExportSheetWithoutSheetData(t *testing.T) {
	s := &models.Sheet{ID: "sheet-0", Name: "S", Path: sheetPart}
	s.AddCell(&models.Cell{Ref: "B3", Row: 3, Col: 2, Value: models.NumberValue(7), Dirty: true})
	data := []byte(ooxmltest.SheetXML(`<sheetViews><sheetView workbookViewId="0"/></sheetViews><pageMargins left="0.7"/>`))

	out, err := ExportSheet(s, data)
	if err != nil {
		t.Fatalf("ExportSheet failed: %v", err)
	}
	want := `</sheetViews><sheetData><row r="3"><c r="B3"><v>7</v></c></row></sheetData><pageMargins left="0.7"/>`
	if !strings.Contains(string(out), want) {
		t.Errorf("Expected %s in %s", want, out)
	}
}

func TestExportRejectsDocuments(t *testing.T) {
	wb := parseWorkbook(t, statusWorkbook(t), Options{})
	_, _, err := Export(wb, ooxmltest.Docx(t, `<w:p/>`), Options{})
	if !errors.Is(err, ooxml.ErrUnsupportedPackageLayout) {
		t.Errorf("Expected ErrUnsupportedPackageLayout, got %v", err)
	}
}

func TestWidenSpans(t *testing.T) {
	tests := []struct {
		spans    string
		lo, hi   int
		expected string
	}{
		{"1:2", 1, 2, "1:2"},
		{"1:2", 1, 5, "1:5"},
		{"3:4", 1, 4, "1:4"},
		{"bogus", 1, 4, "bogus"},
	}
	for _, tt := range tests {
		if got := widenSpans(tt.spans, tt.lo, tt.hi); got != tt.expected {
			t.Errorf("widenSpans(%q, %d, %d) = %q, expected %q", tt.spans, tt.lo, tt.hi, got, tt.expected)
		}
	}
}
