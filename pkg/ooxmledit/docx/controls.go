package docx

import (
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// Display glyphs Word uses when a checkbox declares no custom states.
const (
	glyphChecked   = '☒'
	glyphUnchecked = '☐'
)

// control is what a checkbox or dropdown content control carries.
type control struct {
	kind     models.InlineKind
	id       string
	label    string
	checked  bool
	options  []models.DropdownOption
	selected string
	freeText bool
}

func val(n *xmlnode.Node) string {
	v, _ := n.AttrValue(w, "val")
	return v
}

// onOff reads an OOXML toggle property: present means on unless w:val says
// otherwise.
func onOff(n *xmlnode.Node) bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(val(n)) {
	case "0", "false", "off":
		return false
	}
	return true
}

func checkboxElement(sdt *xmlnode.Node) *xmlnode.Node {
	return sdt.Child(w, "sdtPr").Child(w14, "checkbox")
}

// listElement returns the dropDownList or comboBox of sdt.
func listElement(sdt *xmlnode.Node) *xmlnode.Node {
	pr := sdt.Child(w, "sdtPr")
	if l := pr.Child(w, "dropDownList"); l != nil {
		return l
	}
	return pr.Child(w, "comboBox")
}

// isControl reports whether sdt is a checkbox or dropdown content control.
func isControl(sdt *xmlnode.Node) bool {
	return checkboxElement(sdt) != nil || listElement(sdt) != nil
}

// readControl extracts the properties of a checkbox or dropdown control.
func readControl(sdt *xmlnode.Node) (control, bool) {
	pr := sdt.Child(w, "sdtPr")
	c := control{id: val(pr.Child(w, "id"))}
	label := val(pr.Child(w, "alias"))
	if label == "" {
		label = val(pr.Child(w, "tag"))
	}

	if cb := checkboxElement(sdt); cb != nil {
		c.kind = models.InlineCheckbox
		c.checked = checkedValue(cb)
		if label == "" {
			label = "Checkbox " + c.id
		}
		c.label = label
		return c, true
	}

	list := listElement(sdt)
	if list == nil {
		return control{}, false
	}
	c.kind = models.InlineDropdown
	c.freeText = list.Name.Local == "comboBox"
	c.options = []models.DropdownOption{}
	for _, item := range list.ChildrenNamed(w, "listItem") {
		display, _ := item.AttrValue(w, "displayText")
		value, hasValue := item.AttrValue(w, "value")
		if display == "" {
			display = value
		}
		if !hasValue {
			value = display
		}
		c.options = append(c.options, models.DropdownOption{Display: display, Value: value})
	}
	c.selected = selectionText(sdt.Child(w, "sdtContent"))
	if label == "" {
		label = "Dropdown " + c.id
	}
	c.label = label
	return c, true
}

func checkedValue(cb *xmlnode.Node) bool {
	v, _ := cb.Child(w14, "checked").AttrValue(w14, "val")
	return v == "1" || strings.EqualFold(v, "true")
}

// selectionText returns the first non-empty text node of a control's content.
func selectionText(content *xmlnode.Node) string {
	for _, t := range content.FindAll(w, "t") {
		if t.Text() != "" {
			return t.Text()
		}
	}
	return ""
}

// checkboxGlyph returns the display character for a state, honoring the
// w14:checkedState and w14:uncheckedState code points when declared.
func checkboxGlyph(cb *xmlnode.Node, checked bool) rune {
	name, fallback := "uncheckedState", glyphUnchecked
	if checked {
		name, fallback = "checkedState", glyphChecked
	}
	hex, ok := cb.Child(w14, name).AttrValue(w14, "val")
	if !ok {
		return fallback
	}
	cp, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || cp == 0 {
		return fallback
	}
	return rune(cp)
}

func (c control) inline(id, ref string) models.Inline {
	in := models.Inline{Kind: c.kind, ID: id, Ref: ref}
	switch c.kind {
	case models.InlineCheckbox:
		in.Checkbox = &models.CheckboxControl{Label: c.label, Checked: c.checked}
	case models.InlineDropdown:
		in.Dropdown = &models.DropdownControl{
			Label:    c.label,
			Options:  c.options,
			Selected: c.selected,
			FreeText: c.freeText,
		}
	case models.InlineText:
	}
	return in
}
