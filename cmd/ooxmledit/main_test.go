package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/ooxmledit-go/internal/ooxmltest"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit"
)

type cliEnv struct {
	dir        string
	configPath string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := "[store]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "store", "sessions.db")) + "\"\n" +
		"[export]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "exports")) + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "exports"), 0o755); err != nil {
		t.Fatalf("mkdir exports: %v", err)
	}
	return &cliEnv{dir: dir, configPath: configPath}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *cliEnv) write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const formBody = `<w:p><w:r><w:t>Request</w:t></w:r></w:p>` +
	`<w:p><w:sdt><w:sdtPr><w:alias w:val="Urgent"/><w:id w:val="3"/>` +
	`<w14:checkbox><w14:checked w14:val="0"/><w14:checkedState w14:val="2612" w14:font="MS Gothic"/>` +
	`<w14:uncheckedState w14:val="2610" w14:font="MS Gothic"/></w14:checkbox></w:sdtPr>` +
	`<w:sdtContent><w:r><w:t>☐</w:t></w:r></w:sdtContent></w:sdt></w:p>`

func statusWorkbook(t *testing.T) []byte {
	t.Helper()
	sheet := ooxmltest.SheetXML(`<dimension ref="A1:B2"/><sheetData>` +
		`<row r="1"><c r="A1" t="s"><v>0</v></c></row>` +
		`<row r="2"><c r="B2" t="s"><v>1</v></c></row>` +
		`</sheetData>`)
	return ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets:        []ooxmltest.Sheet{{Name: "Sheet1", XML: sheet}},
		SharedStrings: ooxmltest.SharedStringsXML("Status", "Pending", "Approved"),
	})
}

func parseOutput(t *testing.T, path string) *ooxmledit.Model {
	t.Helper()
	m, _, err := ooxmledit.ParseFile(path, ooxmledit.DefaultOptions())
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return m
}

func TestInspectWritesJSON(t *testing.T) {
	env := setupCLIEnv(t)
	input := env.write(t, "form.docx", ooxmltest.Docx(t, formBody))

	out, err := env.run(t, "inspect", "--pretty", input)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var m ooxmledit.Model
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if m.Format != ooxmledit.FormatDOCX || m.Document == nil || len(m.Document.Checkboxes) != 1 {
		t.Fatalf("unexpected model: %+v", m)
	}

	target := filepath.Join(env.dir, "form.json")
	if _, err := env.run(t, "inspect", "-o", target, input); err != nil {
		t.Fatalf("inspect -o failed: %v", err)
	}
	if data, err := os.ReadFile(target); err != nil || !bytes.HasPrefix(data, []byte(`{"id":`)) {
		t.Fatalf("unexpected output file %q: %v", data, err)
	}
}

func TestInspectMissingFile(t *testing.T) {
	env := setupCLIEnv(t)
	_, err := env.run(t, "inspect", filepath.Join(env.dir, "missing.xlsx"))
	if !errors.Is(err, ooxmledit.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestValidateReportsInOrder(t *testing.T) {
	env := setupCLIEnv(t)
	doc := env.write(t, "form.docx", ooxmltest.Docx(t, formBody))
	wb := env.write(t, "status.xlsx", statusWorkbook(t))
	bad := env.write(t, "broken.xlsx", []byte("not a package"))

	out, err := env.run(t, "validate", "--json", "-j", "2", doc, wb, bad)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected errValidationFailed, got %v", err)
	}
	var reports []fileReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	for i, want := range []string{doc, wb, bad} {
		if reports[i].Path != want {
			t.Fatalf("report %d is for %q, expected %q", i, reports[i].Path, want)
		}
	}
	if reports[0].failed() || reports[1].failed() || !reports[2].failed() {
		t.Fatalf("unexpected outcomes: %+v", reports)
	}

	if _, err := env.run(t, "validate", doc, wb); err != nil {
		t.Fatalf("expected valid files to pass, got %v", err)
	}
}

func TestValidateAgainstBase(t *testing.T) {
	env := setupCLIEnv(t)
	input := env.write(t, "form.docx", ooxmltest.Docx(t, formBody))
	model := filepath.Join(env.dir, "form.json")
	if _, err := env.run(t, "inspect", "-o", model, input); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if _, err := env.run(t, "validate", "--base", input, model); err != nil {
		t.Fatalf("expected the fresh model to validate against its base, got %v", err)
	}

	data, err := os.ReadFile(model)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	m, err := ooxmledit.Unmarshal(data)
	if err != nil {
		t.Fatalf("decode model: %v", err)
	}
	m.Document.Blocks[m.Document.Body[0]].Paragraph.Inlines[0].Ref = "p[0]/r[5]"
	encoded, err := ooxmledit.Marshal(m)
	if err != nil {
		t.Fatalf("encode model: %v", err)
	}
	edited := env.write(t, "edited.json", encoded)

	out, err := env.run(t, "validate", "--json", "--base", input, model, edited)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected errValidationFailed, got %v", err)
	}
	var reports []fileReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 2 || reports[0].failed() || !reports[1].failed() {
		t.Fatalf("unexpected outcomes: %+v", reports)
	}
	var codes []string
	for _, is := range reports[1].Report.Issues {
		codes = append(codes, is.Code)
	}
	if !strings.Contains(strings.Join(codes, ","), "unresolved_ref") {
		t.Errorf("expected unresolved_ref among %v", codes)
	}

	if _, err := env.run(t, "validate", "--base", filepath.Join(env.dir, "missing.docx"), model); !errors.Is(err, ooxmledit.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound for a missing base, got %v", err)
	}
}

func TestEditWorkbook(t *testing.T) {
	env := setupCLIEnv(t)
	input := env.write(t, "status.xlsx", statusWorkbook(t))
	output := filepath.Join(env.dir, "status-out.xlsx")

	out, err := env.run(t, "edit", input, output, "--cell", "Sheet1!B2=Approved", "--cell", "A3=42")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !strings.Contains(out, "wrote "+output) {
		t.Fatalf("unexpected output %q", out)
	}

	sheet := parseOutput(t, output).Workbook.Sheets[0]
	if got := sheet.Cell(2, 2).Value.Text; got != "Approved" {
		t.Fatalf("B2 = %q, expected Approved", got)
	}
	if got := sheet.Cell(3, 1).Value.Number; got != 42 {
		t.Fatalf("A3 = %v, expected 42", got)
	}
}

func TestEditRejectsBadInput(t *testing.T) {
	env := setupCLIEnv(t)
	input := env.write(t, "form.docx", ooxmltest.Docx(t, formBody))
	output := filepath.Join(env.dir, "never.docx")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"cell on document", []string{"--cell", "Sheet1!A1=1"}, ooxmledit.ErrWrongFormat},
		{"unknown control", []string{"--control", "p[0]/sdt[4]=true"}, ooxmledit.ErrUnknownControl},
		{"bad state", []string{"--control", "p[1]/sdt[0]=maybe"}, ooxmledit.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, append([]string{"edit", input, output}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
				t.Fatalf("expected no output to be written")
			}
		})
	}

	if _, err := env.run(t, "edit", input, output, "--text", "no-equals"); err == nil {
		t.Fatal("expected an error for a malformed --text value")
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := setupCLIEnv(t)
	input := env.write(t, "form.docx", ooxmltest.Docx(t, formBody))

	out, err := env.run(t, "session", "open", input)
	if err != nil {
		t.Fatalf("session open failed: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("expected a session id")
	}

	if _, err := env.run(t, "session", "patch-text", id, "p[0]/r[0]", "Approved request"); err != nil {
		t.Fatalf("patch-text failed: %v", err)
	}
	if _, err := env.run(t, "session", "toggle", id, "p[1]/sdt[0]", "checked"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := env.run(t, "session", "set-cell", id, "Sheet1", "A1", "x"); !errors.Is(err, ooxmledit.ErrWrongFormat) {
		t.Fatalf("expected ErrWrongFormat, got %v", err)
	}

	out, err = env.run(t, "session", "show", id)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var view sessionView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	if view.Version != 3 || !view.Validation.Valid {
		t.Fatalf("unexpected session view: %+v", view)
	}

	if _, err := env.run(t, "session", "export", id, "form-out.docx"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	exported := filepath.Join(env.dir, "exports", "form-out.docx")
	m := parseOutput(t, exported)
	if text := m.Document.BlockByRef("p[0]").Paragraph.Text(); text != "Approved request" {
		t.Fatalf("exported text %q", text)
	}
	if !m.Document.Checkboxes[0].Checked {
		t.Fatal("expected the exported checkbox to be checked")
	}

	// A second export without edits reproduces the first byte for byte.
	if _, err := env.run(t, "session", "export", id, "form-again.docx"); err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	first, _ := os.ReadFile(exported)
	second, _ := os.ReadFile(filepath.Join(env.dir, "exports", "form-again.docx"))
	if !bytes.Equal(first, second) {
		t.Fatal("expected repeated export to be identical")
	}

	if _, err := env.run(t, "session", "close", id); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := env.run(t, "session", "show", id); err == nil {
		t.Fatal("expected show to fail after close")
	}
}

func TestSessionWorkbookWarnings(t *testing.T) {
	env := setupCLIEnv(t)
	sheet := ooxmltest.SheetXML(`<sheetData><row r="1"><c r="A1"><f>1+1</f><v>2</v></c></row></sheetData>`)
	input := env.write(t, "calc.xlsx", ooxmltest.Xlsx(t, ooxmltest.Workbook{
		Sheets: []ooxmltest.Sheet{{Name: "Calc", XML: sheet}},
	}))

	out, err := env.run(t, "session", "open", input)
	if err != nil {
		t.Fatalf("session open failed: %v", err)
	}
	id := strings.TrimSpace(out)

	out, err = env.run(t, "session", "set-cell", id, "Calc", "A1", "5")
	if err != nil {
		t.Fatalf("set-cell failed: %v", err)
	}
	if !strings.Contains(out, "Cell A1 had formula '=1+1' which was cleared") {
		t.Fatalf("expected a formula warning, got %q", out)
	}

	target := filepath.Join(env.dir, "calc-out.xlsx")
	if _, err := env.run(t, "session", "export", id, target); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	cell := parseOutput(t, target).Workbook.Sheets[0].Cell(1, 1)
	if cell.HasFormula() || cell.Value.Number != 5 {
		t.Fatalf("unexpected exported cell: %+v", cell)
	}
}

func TestSessionRejectsMalformedIDs(t *testing.T) {
	env := setupCLIEnv(t)

	tests := [][]string{
		{"session", "show", "../../escape"},
		{"session", "patch-text", "../x", "p[0]", "text"},
		{"session", "toggle", "not-a-uuid", "p[0]/sdt[0]", "true"},
		{"session", "export", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", "out.docx"},
		{"session", "close", "/tmp/x"},
	}
	for _, args := range tests {
		if _, err := env.run(t, args...); !errors.Is(err, errInvalidSessionID) {
			t.Errorf("%v: expected errInvalidSessionID, got %v", args, err)
		}
	}
	if _, err := os.Stat(filepath.Join(env.dir, "escape.lock")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no lock file outside the store, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "store")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the store to stay untouched, got %v", err)
	}
}
