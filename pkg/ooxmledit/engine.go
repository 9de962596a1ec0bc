package ooxmledit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/docx"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/validate"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xlsx"
)

// Format names the kind of package a model was parsed from.
type Format string

const (
	// FormatDOCX is a word-processing document.
	FormatDOCX Format = "docx"
	// FormatXLSX is a spreadsheet.
	FormatXLSX Format = "xlsx"
)

// Model is a parsed package. Exactly one of Document and Workbook is set.
type Model struct {
	// ID identifies the model across sessions.
	ID string `json:"id"`
	// Format selects the populated field.
	Format Format `json:"format"`
	// Document is set for word-processing packages.
	Document *models.Document `json:"document,omitempty"`
	// Workbook is set for spreadsheets.
	Workbook *models.Workbook `json:"workbook,omitempty"`
}

// Parse parses a package into a model.
func Parse(data []byte, opts Options) (*Model, error) {
	c, err := container.Open(data)
	if err != nil {
		return nil, err
	}
	m := &Model{ID: uuid.NewString()}
	switch c.Format {
	case container.FormatDOCX:
		doc, err := docx.Parse(c, opts.docxOptions())
		if err != nil {
			return nil, err
		}
		doc.ID = m.ID
		m.Format, m.Document = FormatDOCX, doc
	case container.FormatXLSX:
		wb, err := xlsx.Parse(c, opts.xlsxOptions())
		if err != nil {
			return nil, err
		}
		wb.ID = m.ID
		m.Format, m.Workbook = FormatXLSX, wb
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPackageLayout, c.Format)
	}
	opts.logger().Debug("parsed package", "id", m.ID, "format", m.Format, "size", len(data))
	return m, nil
}

// ParseFile reads and parses the package at path.
func ParseFile(path string, opts Options) (*Model, []byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, nil, err
	}
	m, err := Parse(data, opts)
	if err != nil {
		return nil, nil, err
	}
	return m, data, nil
}

func (m *Model) document() (*models.Document, error) {
	if m.Format != FormatDOCX || m.Document == nil {
		return nil, fmt.Errorf("%w: %s model has no document", ErrWrongFormat, m.Format)
	}
	return m.Document, nil
}

func (m *Model) workbook() (*models.Workbook, error) {
	if m.Format != FormatXLSX || m.Workbook == nil {
		return nil, fmt.Errorf("%w: %s model has no workbook", ErrWrongFormat, m.Format)
	}
	return m.Workbook, nil
}

// PatchText replaces the text of the run, paragraph or table cell addressed
// by ref.
func PatchText(m *Model, ref, text string) error {
	doc, err := m.document()
	if err != nil {
		return err
	}
	return docx.PatchText(doc, ref, text)
}

// SetCellValue assigns a value to a cell. Clearing a formula is reported as
// a warning, not an error.
func SetCellValue(m *Model, sheet, cell string, value models.CellValue) ([]models.Warning, error) {
	wb, err := m.workbook()
	if err != nil {
		return nil, err
	}
	return xlsx.SetCellValue(wb, sheet, cell, value)
}

// SetCellValues applies a batch of cell edits. Rejected edits are reported
// in the result and do not stop the batch.
func SetCellValues(m *Model, edits []xlsx.CellEdit) (xlsx.BatchResult, error) {
	wb, err := m.workbook()
	if err != nil {
		return xlsx.BatchResult{}, err
	}
	return xlsx.SetCellValues(wb, edits), nil
}

// ToggleControl sets the state of a checkbox or dropdown content control.
func ToggleControl(m *Model, ref, state string) error {
	doc, err := m.document()
	if err != nil {
		return err
	}
	return docx.ToggleControl(doc, ref, state)
}

// ExportResult is the outcome of Export.
type ExportResult struct {
	// Data is the written package.
	Data []byte `json:"-"`
	// Parts lists the part names that were rewritten.
	Parts []string `json:"parts"`
	// Patched counts the document units whose bytes changed.
	Patched int `json:"patched,omitempty"`
	// Stale lists document units whose references no longer resolve.
	Stale []models.StaleReference `json:"stale,omitempty"`
	// SharedStringsAdded counts new shared-string entries.
	SharedStringsAdded int `json:"shared_strings_added,omitempty"`
}

// Export writes the model's changes into the original package. Parts that
// hold no change are copied byte for byte.
func Export(m *Model, original []byte, opts Options) (*ExportResult, error) {
	log := opts.logger()
	switch m.Format {
	case FormatDOCX:
		doc, err := m.document()
		if err != nil {
			return nil, err
		}
		out, report, err := docx.Patch(doc, original, opts.docxOptions())
		if err != nil {
			return nil, err
		}
		res := &ExportResult{Data: out, Parts: []string{}, Patched: report.Patched, Stale: report.Stale}
		if report.Patched > 0 {
			c, err := container.Open(original)
			if err != nil {
				return nil, err
			}
			res.Parts = append(res.Parts, c.MainPart)
		}
		for _, s := range report.Stale {
			log.Warn("skipped stale reference", "id", m.ID, "ref", s.Ref, "kind", s.Kind, "reason", s.Reason)
		}
		return res, nil
	case FormatXLSX:
		wb, err := m.workbook()
		if err != nil {
			return nil, err
		}
		out, report, err := xlsx.Export(wb, original, opts.xlsxOptions())
		if err != nil {
			return nil, err
		}
		parts := append([]string{}, report.Sheets...)
		if report.SharedStringsAdded > 0 {
			parts = append(parts, wb.SharedStringsPath)
		}
		return &ExportResult{Data: out, Parts: parts, SharedStringsAdded: report.SharedStringsAdded}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrWrongFormat, m.Format)
}

// Validate checks the structural consistency of a model.
func Validate(m *Model) models.ValidationReport {
	switch m.Format {
	case FormatDOCX:
		return validate.Document(m.Document)
	case FormatXLSX:
		return validate.Workbook(m.Workbook)
	}
	report := models.ValidationReport{Issues: []models.ValidationIssue{}}
	report.Add(models.SeverityError, "unknown_format", m.ID, fmt.Sprintf("model format %q is not supported", m.Format))
	return report
}

// ValidateAgainst runs Validate and then the checks that need the package
// the model applies to: reference resolution for documents and an export
// dry run that re-parses the result. m is not modified.
func ValidateAgainst(m *Model, original []byte) models.ValidationReport {
	report := Validate(m)
	var extra []models.ValidationReport
	switch m.Format {
	case FormatDOCX:
		extra = append(extra, validate.References(m.Document, original), validate.DocumentRoundTrip(m.Document, original))
	case FormatXLSX:
		extra = append(extra, validate.WorkbookRoundTrip(m.Workbook, original))
	}
	for _, r := range extra {
		for _, is := range r.Issues {
			report.Add(is.Severity, is.Code, is.Ref, is.Message)
		}
	}
	return report
}

// Marshal encodes a model for a snapshot.
func Marshal(m *Model) ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes a model written by Marshal.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	var err error
	switch m.Format {
	case FormatDOCX:
		_, err = m.document()
	case FormatXLSX:
		_, err = m.workbook()
	default:
		err = fmt.Errorf("%w: %q", ErrWrongFormat, m.Format)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
