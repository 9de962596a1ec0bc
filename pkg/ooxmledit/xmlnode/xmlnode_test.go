package xmlnode

import (
	"strings"
	"testing"
)

const sample = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="urn:w" xmlns:mc="urn:mc" mc:Ignorable="w14"><w:body><w:p><w:r><w:t>Hello</w:t></w:r><w:r/></w:p></w:body></w:document>`

func TestParseOffsets(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	data := doc.Data
	if doc.Root.QName() != "w:document" {
		t.Errorf("root qname = %q", doc.Root.QName())
	}

	tNode := doc.Root.Find("urn:w", "t")
	if tNode == nil {
		t.Fatal("w:t not found")
	}
	if got := string(tNode.Inner(data)); got != "Hello" {
		t.Errorf("Inner = %q, expected Hello", got)
	}
	if got := string(tNode.Outer(data)); got != "<w:t>Hello</w:t>" {
		t.Errorf("Outer = %q", got)
	}
	if tNode.Text() != "Hello" {
		t.Errorf("Text = %q", tNode.Text())
	}

	runs := doc.Root.FindAll("urn:w", "r")
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[1].SelfClosing {
		t.Error("second run should be self-closing")
	}
	if got := string(runs[1].Outer(data)); got != "<w:r/>" {
		t.Errorf("self-closing Outer = %q", got)
	}
	if p, ok := tNode.LookupPrefix("urn:mc"); !ok || p != "mc" {
		t.Errorf("LookupPrefix = %q, %v", p, ok)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tests := []string{"", "not xml", "<a><b></a>"}
	for _, in := range tests {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestParseLenientAcceptsUnclosedBreaks(t *testing.T) {
	in := `<xml xmlns:v="urn:v"><v:shape id="s1"><div>a<br>b</div></v:shape></xml>`
	doc, err := ParseLenient([]byte(in))
	if err != nil {
		t.Fatalf("ParseLenient failed: %v", err)
	}
	if doc.Root.Find("urn:v", "shape") == nil {
		t.Error("v:shape not found")
	}
}

func TestSplice(t *testing.T) {
	data := []byte("0123456789")
	tests := []struct {
		name     string
		edits    []Edit
		expected string
		wantErr  bool
	}{
		{"replace", []Edit{{2, 4, []byte("ab")}}, "01ab456789", false},
		{"insert", []Edit{{5, 5, []byte("X")}}, "01234X56789", false},
		{"unordered", []Edit{{8, 9, []byte("Z")}, {0, 1, []byte("A")}}, "A1234567Z9", false},
		{"double insert", []Edit{{3, 3, []byte("a")}, {3, 3, []byte("b")}}, "012ab3456789", false},
		{"overlap", []Edit{{2, 5, nil}, {4, 6, nil}}, "", true},
	}
	for _, tt := range tests {
		got, err := Splice(data, tt.edits)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && string(got) != tt.expected {
			t.Errorf("%s: got %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

func TestSetTagAttr(t *testing.T) {
	tests := []struct {
		tag      string
		qname    string
		value    string
		expected string
	}{
		{`<sst xmlns="urn:x" count="3" uniqueCount="2">`, "count", "4", `<sst xmlns="urn:x" count="4" uniqueCount="2">`},
		{`<sst xmlns="urn:x" count="3" uniqueCount="2">`, "uniqueCount", "5", `<sst xmlns="urn:x" count="3" uniqueCount="5">`},
		{`<sst xmlns="urn:x">`, "count", "1", `<sst xmlns="urn:x" count="1">`},
		{`<w14:checked w14:val='0'/>`, "w14:val", "1", `<w14:checked w14:val='1'/>`},
		{`<x/>`, "a", `"q"`, `<x a="&quot;q&quot;"/>`},
	}
	for _, tt := range tests {
		got, err := SetTagAttr([]byte(tt.tag), tt.qname, tt.value)
		if err != nil {
			t.Errorf("SetTagAttr(%q) error: %v", tt.tag, err)
			continue
		}
		if string(got) != tt.expected {
			t.Errorf("SetTagAttr(%q, %q) = %q, expected %q", tt.tag, tt.qname, got, tt.expected)
		}
	}
}

func TestEnvelopeKeepsIgnorableNamespaces(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
		`<worksheet xmlns="urn:main" xmlns:mc="urn:mc" xmlns:x14ac="urn:x14ac" xmlns:xr="urn:xr" mc:Ignorable="x14ac xr" xr:uid="{1}"><sheetData/></worksheet>`
	doc, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	env, err := CaptureEnvelope(doc)
	if err != nil {
		t.Fatalf("CaptureEnvelope failed: %v", err)
	}
	out := string(env.Wrap([]byte("<sheetData><row r=\"1\"/></sheetData>")))
	if !strings.HasPrefix(out, in[:strings.Index(in, "<sheetData/>")]) {
		t.Errorf("prolog and open tag not preserved: %q", out)
	}
	if !strings.HasSuffix(out, "</worksheet>") {
		t.Errorf("close tag not preserved: %q", out)
	}
	if !strings.Contains(out, `xmlns:x14ac="urn:x14ac"`) {
		t.Error("unused but ignorable namespace declaration dropped")
	}
}

func TestEnvelopeSelfClosingRoot(t *testing.T) {
	doc, err := Parse([]byte(`<sst xmlns="urn:x" count="0"/>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	env, err := CaptureEnvelope(doc)
	if err != nil {
		t.Fatalf("CaptureEnvelope failed: %v", err)
	}
	if err := env.SetRootAttr("count", "1"); err != nil {
		t.Fatalf("SetRootAttr failed: %v", err)
	}
	got := string(env.Wrap([]byte("<si><t>a</t></si>")))
	expected := `<sst xmlns="urn:x" count="1"><si><t>a</t></si></sst>`
	if got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}
}

func TestNeedsPreserve(t *testing.T) {
	tests := []struct {
		in       string
		expected bool
	}{
		{"", false},
		{"Hello", false},
		{"Hello ", true},
		{" Hello", true},
		{"a  b", true},
		{"a b", false},
	}
	for _, tt := range tests {
		if got := NeedsPreserve(tt.in); got != tt.expected {
			t.Errorf("NeedsPreserve(%q) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestContentEditExpandsSelfClosing(t *testing.T) {
	in := []byte(`<w:p xmlns:w="urn:w"><w:r><w:t/></w:r><w:r><w:t>old</w:t></w:r></w:p>`)
	doc, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ts := doc.Root.FindAll("urn:w", "t")
	out, err := Splice(in, []Edit{
		ContentEdit(in, ts[0], []byte("new")),
		ContentEdit(in, ts[1], nil),
		AppendEdit(in, doc.Root, []byte(`<w:r/>`)),
	})
	if err != nil {
		t.Fatalf("Splice failed: %v", err)
	}
	expected := `<w:p xmlns:w="urn:w"><w:r><w:t>new</w:t></w:r><w:r><w:t></w:t></w:r><w:r/></w:p>`
	if string(out) != expected {
		t.Errorf("got %s, expected %s", out, expected)
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`a & b`, `a &amp; b`},
		{`<tag>`, `&lt;tag&gt;`},
		{`"quoted" 'x'`, `"quoted" 'x'`},
		{"tab\there", "tab\there"},
		{"bell\x07 and nul\x00", "bell and nul"},
		{"cr\r", "cr&#xD;"},
	}
	for _, tt := range tests {
		if got := string(EscapeText(tt.input)); got != tt.expected {
			t.Errorf("EscapeText(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestValidText(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"plain text", true},
		{"line\nbreak\ttab", true},
		{"emoji \U0001F600", true},
		{"vertical\x0Btab", false},
		{"escape\x1B[0m", false},
		{"noncharacter \uFFFE", false},
	}
	for _, tt := range tests {
		if got := ValidText(tt.input); got != tt.expected {
			t.Errorf("ValidText(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
