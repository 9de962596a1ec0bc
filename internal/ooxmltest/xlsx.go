package ooxmltest

import (
	"fmt"
	"strings"
	"testing"
)

// SheetNamespaceDecls is the namespace declaration list used by SheetXML.
const SheetNamespaceDecls = `xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" ` +
	`xmlns:x14ac="http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac" ` +
	`xmlns:xr="http://schemas.microsoft.com/office/spreadsheetml/2014/revision" ` +
	`mc:Ignorable="x14ac xr" xr:uid="{00000000-0001-0000-0000-000000000000}"`

// SheetXML wraps worksheet children in a worksheet root.
func SheetXML(children string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
		`<worksheet ` + SheetNamespaceDecls + `>` + children + `</worksheet>`
}

// SharedStringsXML builds a shared-string part holding plain items.
func SharedStringsXML(items ...string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("<si><t>" + it + "</t></si>")
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
		fmt.Sprintf(`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="%d" uniqueCount="%d">`, len(items), len(items)) +
		b.String() + `</sst>`
}

// Sheet is one worksheet of a test workbook.
type Sheet struct {
	Name string
	// XML is the full worksheet part.
	XML string
	// Rels are Relationship elements for the sheet's .rels part.
	Rels string
}

// Workbook describes a test workbook.
type Workbook struct {
	Sheets []Sheet
	// SharedStrings is the full shared-string part; empty omits it.
	SharedStrings string
	// DefinedNames holds definedName elements.
	DefinedNames string
	// Extra parts are appended after the generated ones.
	Extra []Entry
}

// Xlsx builds a spreadsheet package.
func Xlsx(t testing.TB, wb Workbook) []byte {
	t.Helper()
	var ct, sheets, rels strings.Builder
	ct.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="vml" ContentType="application/vnd.openxmlformats-officedocument.vmlDrawing"/>` +
		`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`)
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)

	var entries []Entry
	for i, s := range wb.Sheets {
		n := i + 1
		part := fmt.Sprintf("xl/worksheets/sheet%d.xml", n)
		ct.WriteString(fmt.Sprintf(`<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`, part))
		sheets.WriteString(fmt.Sprintf(`<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, s.Name, n, n))
		rels.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet%d.xml"/>`, n, n))
		entries = append(entries, Entry{Name: part, Body: s.XML})
		if s.Rels != "" {
			entries = append(entries, Entry{
				Name: fmt.Sprintf("xl/worksheets/_rels/sheet%d.xml.rels", n),
				Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
					`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
					s.Rels + `</Relationships>`,
			})
		}
	}
	if wb.SharedStrings != "" {
		ct.WriteString(`<Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/>`)
		rels.WriteString(`<Relationship Id="rIdSST" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings" Target="sharedStrings.xml"/>`)
		entries = append(entries, Entry{Name: "xl/sharedStrings.xml", Body: wb.SharedStrings})
	}
	ct.WriteString(`</Types>`)
	rels.WriteString(`</Relationships>`)

	names := ""
	if wb.DefinedNames != "" {
		names = "<definedNames>" + wb.DefinedNames + "</definedNames>"
	}
	workbook := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
		`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<bookViews><workbookView activeTab="0"/></bookViews>` +
		`<sheets>` + sheets.String() + `</sheets>` + names + `</workbook>`

	all := []Entry{
		{Name: "[Content_Types].xml", Body: ct.String()},
		{Name: "_rels/.rels", Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
			`</Relationships>`},
		{Name: "xl/workbook.xml", Body: workbook},
		{Name: "xl/_rels/workbook.xml.rels", Body: rels.String()},
	}
	all = append(all, entries...)
	all = append(all, wb.Extra...)
	return Zip(t, all...)
}
