package docx

import (
	"fmt"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlref"
)

// PatchText replaces the text addressed by ref. ref may name a text run, a
// paragraph or a table cell. For a paragraph the text goes into its first
// run and the other runs are emptied; a paragraph without runs gets a new
// run that is written out on export. A cell edits its first paragraph.
// Text holding characters XML cannot carry is rejected.
func PatchText(doc *models.Document, ref, text string) error {
	if err := checkText(text); err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	if in, _ := doc.InlineByRef(ref); in != nil {
		if in.Kind != models.InlineText {
			return fmt.Errorf("%w: %s is a %s control, not a text run", ooxml.ErrInvalidReference, ref, in.Kind)
		}
		in.Text.Text = text
		return nil
	}

	if b := doc.BlockByRef(ref); b != nil {
		if b.Kind != models.BlockParagraph {
			return fmt.Errorf("%w: %s is a %s, not text", ooxml.ErrInvalidReference, ref, b.Kind)
		}
		return setParagraphText(b, text)
	}

	if cell := doc.CellByRef(ref); cell != nil {
		if cell.VMerge == models.VMergeContinue {
			return fmt.Errorf("%w: %s continues a vertical merge", ooxml.ErrMergedCellNotOrigin, ref)
		}
		for _, idx := range cell.Blocks {
			if b := &doc.Blocks[idx]; b.Kind == models.BlockParagraph {
				return setParagraphText(b, text)
			}
		}
		return fmt.Errorf("%w: cell %s has no paragraph", ooxml.ErrInvalidReference, ref)
	}

	return fmt.Errorf("%w: %s", ooxml.ErrUnresolvableReference, ref)
}

func setParagraphText(b *models.Block, text string) error {
	para := b.Paragraph
	if para.Wrapped {
		return fmt.Errorf("%w: %s holds the display text of a content control", ooxml.ErrInvalidReference, b.Ref)
	}
	first := true
	for i := range para.Inlines {
		in := &para.Inlines[i]
		if in.Kind != models.InlineText {
			continue
		}
		if first {
			in.Text.Text = text
			first = false
			continue
		}
		in.Text.Text = ""
	}
	if !first {
		return nil
	}

	para.Inlines = append(para.Inlines, models.Inline{
		Kind: models.InlineText,
		ID:   strings.Replace(b.ID, "p-", "run-", 1) + "-0",
		Ref:  xmlref.Assign(b.Ref, KindRun, 0),
		Text: &models.TextRun{Text: text, Synthetic: true},
	})
	return nil
}

// controlByRef finds a checkbox or dropdown by reference or by id.
func controlByRef(doc *models.Document, ref string) (*models.Inline, error) {
	if in, _ := doc.InlineByRef(ref); in != nil {
		if in.Kind == models.InlineText {
			return nil, fmt.Errorf("%w: %s is a text run", ooxml.ErrUnknownControl, ref)
		}
		return in, nil
	}
	var found *models.Inline
	doc.Walk(func(_ int, b *models.Block, _ *models.TableCell) bool {
		if found != nil {
			return false
		}
		if b.Kind != models.BlockParagraph {
			return true
		}
		for i := range b.Paragraph.Inlines {
			in := &b.Paragraph.Inlines[i]
			if in.Kind != models.InlineText && in.ID == ref {
				found = in
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ooxml.ErrUnknownControl, ref)
	}
	return found, nil
}

// ToggleControl sets the state of the checkbox or dropdown addressed by ref
// (a positional reference or a control id). Checkboxes accept true, false,
// 1, 0, checked and unchecked; dropdowns accept one of their options, and
// combo boxes any text.
func ToggleControl(doc *models.Document, ref, state string) error {
	in, err := controlByRef(doc, ref)
	if err != nil {
		return err
	}
	switch in.Kind {
	case models.InlineCheckbox:
		checked, err := ParseCheckState(state)
		if err != nil {
			return err
		}
		in.Checkbox.Checked = checked
	case models.InlineDropdown:
		if err := selectOption(in.Dropdown, state); err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
	case models.InlineText:
		return fmt.Errorf("%w: %s", ooxml.ErrUnknownControl, ref)
	}
	doc.DeriveLegacyFields()
	return nil
}

// SetChecked sets a checkbox state.
func SetChecked(doc *models.Document, ref string, checked bool) error {
	in, err := controlByRef(doc, ref)
	if err != nil {
		return err
	}
	if in.Kind != models.InlineCheckbox {
		return fmt.Errorf("%w: %s is not a checkbox", ooxml.ErrUnknownControl, ref)
	}
	in.Checkbox.Checked = checked
	doc.DeriveLegacyFields()
	return nil
}

// SelectOption sets a dropdown selection. option may be an option's display
// text or its value.
func SelectOption(doc *models.Document, ref, option string) error {
	in, err := controlByRef(doc, ref)
	if err != nil {
		return err
	}
	if in.Kind != models.InlineDropdown {
		return fmt.Errorf("%w: %s is not a dropdown", ooxml.ErrUnknownControl, ref)
	}
	if err := selectOption(in.Dropdown, option); err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	doc.DeriveLegacyFields()
	return nil
}

func selectOption(dd *models.DropdownControl, option string) error {
	if err := checkText(option); err != nil {
		return err
	}
	for _, o := range dd.Options {
		if o.Display == option || o.Value == option {
			dd.Selected = o.Display
			return nil
		}
	}
	if dd.FreeText {
		dd.Selected = option
		return nil
	}
	return fmt.Errorf("%w: %q is not one of the options", ooxml.ErrInvalidState, option)
}

func checkText(text string) error {
	for i, r := range text {
		if !xmlnode.IsXMLChar(r) {
			return fmt.Errorf("%w: character %U at offset %d is not allowed in XML", ooxml.ErrInvalidState, r, i)
		}
	}
	return nil
}

// ParseCheckState parses a checkbox state.
func ParseCheckState(state string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "true", "1", "checked", "on", "yes":
		return true, nil
	case "false", "0", "unchecked", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a checkbox state", ooxml.ErrInvalidState, state)
}
