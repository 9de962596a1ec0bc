package xlsx

import (
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// extensions returns the children of worksheet/extLst/ext that carry the
// given x14 element.
func extensions(root *xmlnode.Node, local string) []*xmlnode.Node {
	var out []*xmlnode.Node
	for _, ext := range root.Child(ns, "extLst").ChildrenNamed(ns, "ext") {
		if n := ext.Child(nsX14, local); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func dataValidations(sheetID string, root *xmlnode.Node) []models.DataValidation {
	var out []models.DataValidation
	next := func() string { return sheetID + "-dv-" + strconv.Itoa(len(out)) }

	for _, dv := range root.Child(ns, "dataValidations").ChildrenNamed(ns, "dataValidation") {
		v := validationAttrs(dv)
		v.ID = next()
		v.Sqref = dv.AttrOr("sqref", "")
		v.Formula1 = dv.Child(ns, "formula1").Text()
		v.Formula2 = dv.Child(ns, "formula2").Text()
		listOptions(&v)
		out = append(out, v)
	}

	for _, block := range extensions(root, "dataValidations") {
		for _, dv := range block.ChildrenNamed(nsX14, "dataValidation") {
			v := validationAttrs(dv)
			v.ID = next()
			v.Sqref = dv.Child(nsXM, "sqref").Text()
			v.Formula1 = dv.Path(nsX14, "formula1").Child(nsXM, "f").Text()
			v.Formula2 = dv.Path(nsX14, "formula2").Child(nsXM, "f").Text()
			v.Extended = true
			listOptions(&v)
			out = append(out, v)
		}
	}
	return out
}

func validationAttrs(dv *xmlnode.Node) models.DataValidation {
	return models.DataValidation{
		Type:             dv.AttrOr("type", ""),
		Operator:         dv.AttrOr("operator", ""),
		AllowBlank:       boolAttr(dv, "allowBlank", false),
		HideDropDown:     boolAttr(dv, "showDropDown", false),
		ShowInputMessage: boolAttr(dv, "showInputMessage", false),
		ShowErrorMessage: boolAttr(dv, "showErrorMessage", false),
		ErrorStyle:       dv.AttrOr("errorStyle", ""),
		ErrorTitle:       dv.AttrOr("errorTitle", ""),
		Error:            dv.AttrOr("error", ""),
		PromptTitle:      dv.AttrOr("promptTitle", ""),
		Prompt:           dv.AttrOr("prompt", ""),
	}
}

// listOptions splits an inline list ("a,b,c" with quotes) into options or
// records the source formula of a range-backed list.
func listOptions(v *models.DataValidation) {
	if v.Type != "list" || v.Formula1 == "" {
		return
	}
	f := strings.TrimSpace(v.Formula1)
	if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
		for _, opt := range strings.Split(f[1:len(f)-1], ",") {
			v.Options = append(v.Options, strings.TrimSpace(opt))
		}
		return
	}
	v.OptionsSource = strings.TrimPrefix(f, "=")
}

// resolveListSources fills the options of range-backed list validations with
// the non-empty values of the referenced cells.
func resolveListSources(wb *models.Workbook) {
	for _, s := range wb.Sheets {
		for i := range s.DataValidations {
			v := &s.DataValidations[i]
			if v.OptionsSource == "" || len(v.Options) > 0 {
				continue
			}
			v.Options = AreaValues(wb, ParseAreas(v.OptionsSource, s.Name))
		}
	}
}

// AreaValues returns the displayed values of the non-empty cells inside the
// areas, in row-major order per area.
func AreaValues(wb *models.Workbook, areas []models.SheetArea) []string {
	var out []string
	for _, a := range areas {
		target := wb.SheetByName(a.Sheet)
		if target == nil {
			continue
		}
		for _, c := range target.Cells {
			if a.Range.Contains(c.Row, c.Col) && !c.Value.IsEmpty() {
				out = append(out, c.Value.String())
			}
		}
	}
	return out
}

func conditionalFormats(sheetID string, root *xmlnode.Node) []models.ConditionalFormat {
	var out []models.ConditionalFormat
	next := func() string { return sheetID + "-cf-" + strconv.Itoa(len(out)) }

	for _, cf := range root.ChildrenNamed(ns, "conditionalFormatting") {
		block := models.ConditionalFormat{ID: next(), Sqref: cf.AttrOr("sqref", "")}
		for _, r := range cf.ChildrenNamed(ns, "cfRule") {
			block.Rules = append(block.Rules, cfRule(r, ns, ns))
		}
		out = append(out, block)
	}

	for _, list := range extensions(root, "conditionalFormattings") {
		for _, cf := range list.ChildrenNamed(nsX14, "conditionalFormatting") {
			block := models.ConditionalFormat{
				ID:       next(),
				Sqref:    cf.Child(nsXM, "sqref").Text(),
				Extended: true,
			}
			for _, r := range cf.ChildrenNamed(nsX14, "cfRule") {
				block.Rules = append(block.Rules, cfRule(r, nsX14, nsXM))
			}
			out = append(out, block)
		}
	}
	return out
}

// cfRule reads a rule. Main-namespace rules keep formulas in formula
// elements; x14 rules keep them in xm:f.
func cfRule(r *xmlnode.Node, space, formulaSpace string) models.CFRule {
	rule := models.CFRule{
		Type:       r.AttrOr("type", ""),
		Priority:   atoiOr(r.AttrOr("priority", "0"), 0),
		Operator:   r.AttrOr("operator", ""),
		StopIfTrue: boolAttr(r, "stopIfTrue", false),
		Text:       r.AttrOr("text", ""),
	}
	dxf, ok := r.AttrValue("", "dxfId")
	rule.DxfID = atoiPtr(dxf, ok)

	formulaLocal := "formula"
	if formulaSpace == nsXM {
		formulaLocal = "f"
	}
	for _, f := range r.ChildrenNamed(formulaSpace, formulaLocal) {
		rule.Formulas = append(rule.Formulas, f.Text())
	}

	if cs := r.Child(space, "colorScale"); cs != nil {
		scale := &models.ColorScale{}
		for _, v := range cs.ChildrenNamed(space, "cfvo") {
			scale.Values = append(scale.Values, cfValue(v, formulaSpace))
		}
		for _, c := range cs.ChildrenNamed(space, "color") {
			scale.Colors = append(scale.Colors, colorOf(c))
		}
		rule.ColorScale = scale
	}
	if db := r.Child(space, "dataBar"); db != nil {
		bar := &models.DataBar{Color: colorOf(db.Child(space, "color"))}
		if vs := db.ChildrenNamed(space, "cfvo"); len(vs) >= 2 {
			bar.Min = cfValue(vs[0], formulaSpace)
			bar.Max = cfValue(vs[1], formulaSpace)
		}
		rule.DataBar = bar
	}
	if is := r.Child(space, "iconSet"); is != nil {
		set := &models.IconSet{
			Name:      is.AttrOr("iconSet", "3TrafficLights1"),
			ShowValue: is.AttrOr("showValue", "1") != "0",
			Reverse:   boolAttr(is, "reverse", false),
		}
		for _, v := range is.ChildrenNamed(space, "cfvo") {
			set.Values = append(set.Values, cfValue(v, formulaSpace))
		}
		rule.IconSet = set
	}
	return rule
}

func cfValue(v *xmlnode.Node, formulaSpace string) models.CFValue {
	out := models.CFValue{Type: v.AttrOr("type", ""), Value: v.AttrOr("val", "")}
	if out.Value == "" && formulaSpace == nsXM {
		out.Value = v.Child(nsXM, "f").Text()
	}
	return out
}

func colorOf(c *xmlnode.Node) string {
	if c == nil {
		return ""
	}
	if rgb, ok := c.AttrValue("", "rgb"); ok {
		return rgb
	}
	if theme, ok := c.AttrValue("", "theme"); ok {
		return "theme:" + theme
	}
	if idx, ok := c.AttrValue("", "indexed"); ok {
		return "indexed:" + idx
	}
	return ""
}
