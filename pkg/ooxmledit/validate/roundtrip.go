package validate

import (
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/docx"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xlsx"
)

// DocumentRoundTrip patches doc into original, parses the result and
// reports every paragraph text or control state that did not survive.
// doc is not modified.
func DocumentRoundTrip(doc *models.Document, original []byte) models.ValidationReport {
	report := newReport()
	if doc == nil {
		return report
	}
	out, patch, err := docx.Patch(doc, original, docx.Options{})
	if err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "export: "+err.Error())
		return report
	}
	stale := make([]string, 0, len(patch.Stale))
	for _, s := range patch.Stale {
		stale = append(stale, s.Ref)
		report.Add(models.SeverityError, CodeStaleRef, s.Ref, fmt.Sprintf("%s edit would be skipped: %s", s.Kind, s.Reason))
	}

	c, err := container.Open(out)
	if err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "reopen: "+err.Error())
		return report
	}
	again, err := docx.Parse(c, docx.Options{})
	if err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "reparse: "+err.Error())
		return report
	}

	mismatch := func(ref, what string, want, got any) {
		report.Add(models.SeverityError, CodeRoundTripMismatch, ref,
			fmt.Sprintf("%s is %v after export, expected %v", what, got, want))
	}
	doc.Walk(func(_ int, b *models.Block, _ *models.TableCell) bool {
		if b.Kind != models.BlockParagraph || b.Paragraph == nil || under(b.Ref, stale) {
			return true
		}
		other := again.BlockByRef(b.Ref)
		if other == nil || other.Paragraph == nil {
			report.Add(models.SeverityError, CodeRoundTripMismatch, b.Ref, "paragraph is missing after export")
			return true
		}
		if want, got := b.Paragraph.Text(), other.Paragraph.Text(); !b.Paragraph.Wrapped && want != got {
			mismatch(b.Ref, "text", fmt.Sprintf("%q", want), fmt.Sprintf("%q", got))
		}
		for _, in := range b.Paragraph.Inlines {
			if in.Kind == models.InlineText || under(in.Ref, stale) {
				continue
			}
			o, _ := again.InlineByRef(in.Ref)
			switch {
			case o == nil || o.Kind != in.Kind:
				report.Add(models.SeverityError, CodeRoundTripMismatch, in.Ref, string(in.Kind)+" is missing after export")
			case in.Kind == models.InlineCheckbox && o.Checkbox.Checked != in.Checkbox.Checked:
				mismatch(in.Ref, "checked state", in.Checkbox.Checked, o.Checkbox.Checked)
			case in.Kind == models.InlineDropdown && o.Dropdown.Selected != in.Dropdown.Selected:
				mismatch(in.Ref, "selection", fmt.Sprintf("%q", in.Dropdown.Selected), fmt.Sprintf("%q", o.Dropdown.Selected))
			}
		}
		return true
	})
	return report
}

func under(ref string, prefixes []string) bool {
	for _, p := range prefixes {
		if ref == p || strings.HasPrefix(ref, p+"/") {
			return true
		}
	}
	return false
}

// WorkbookRoundTrip exports a copy of wb into original, parses the result
// and reports every cell value or formula that did not survive. wb keeps
// its dirty flags and shared-string state.
func WorkbookRoundTrip(wb *models.Workbook, original []byte) models.ValidationReport {
	report := newReport()
	if wb == nil {
		return report
	}
	var clone models.Workbook
	if err := deepcopy.Copy(&clone, wb); err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "copy model: "+err.Error())
		return report
	}
	out, _, err := xlsx.Export(&clone, original, xlsx.Options{})
	if err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "export: "+err.Error())
		return report
	}
	c, err := container.Open(out)
	if err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "reopen: "+err.Error())
		return report
	}
	again, err := xlsx.Parse(c, xlsx.Options{})
	if err != nil {
		report.Add(models.SeverityError, CodeRoundTripFailed, "", "reparse: "+err.Error())
		return report
	}

	for _, s := range wb.Sheets {
		other := again.SheetByName(s.Name)
		if other == nil {
			report.Add(models.SeverityError, CodeRoundTripMismatch, s.Name, "sheet is missing after export")
			continue
		}
		for _, cell := range s.Cells {
			ref := s.Name + "!" + cell.Ref
			got := other.Cell(cell.Row, cell.Col)
			if got == nil {
				if !cell.Value.IsEmpty() || cell.HasFormula() {
					report.Add(models.SeverityError, CodeRoundTripMismatch, ref, "cell is missing after export")
				}
				continue
			}
			if !cell.Value.Equal(got.Value) {
				report.Add(models.SeverityError, CodeRoundTripMismatch, ref,
					fmt.Sprintf("value is %q after export, expected %q", got.Value.String(), cell.Value.String()))
			}
			if cell.Formula != got.Formula {
				report.Add(models.SeverityError, CodeRoundTripMismatch, ref,
					fmt.Sprintf("formula is %q after export, expected %q", got.Formula, cell.Formula))
			}
		}
		for _, cell := range other.Cells {
			if s.Cell(cell.Row, cell.Col) == nil && !cell.Value.IsEmpty() {
				report.Add(models.SeverityError, CodeRoundTripMismatch, s.Name+"!"+cell.Ref, "cell appeared after export")
			}
		}
	}
	return report
}
