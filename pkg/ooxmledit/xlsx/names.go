package xlsx

import (
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

const builtinPrefix = "_xlnm."

// definedNames reads workbook and sheet scoped names. Areas are resolved for
// names that refer to plain ranges, such as _xlnm.Print_Area.
func definedNames(n *xmlnode.Node, wb *models.Workbook) []models.DefinedName {
	var out []models.DefinedName
	for _, dn := range n.ChildrenNamed(ns, "definedName") {
		local, hasLocal := dn.AttrValue("", "localSheetId")
		name := models.DefinedName{
			Name:         dn.AttrOr("name", ""),
			RefersTo:     dn.Text(),
			LocalSheetID: atoiPtr(local, hasLocal),
			Hidden:       boolAttr(dn, "hidden", false),
			Comment:      dn.AttrOr("comment", ""),
		}
		name.Builtin = strings.HasPrefix(strings.ToLower(name.Name), strings.ToLower(builtinPrefix))

		defaultSheet := ""
		if id := name.LocalSheetID; id != nil && *id >= 0 && *id < len(wb.Sheets) {
			defaultSheet = wb.Sheets[*id].Name
		}
		name.Areas = ParseAreas(name.RefersTo, defaultSheet)
		out = append(out, name)
	}
	return out
}

// PrintAreas returns the print areas of a sheet.
func PrintAreas(wb *models.Workbook, sheet string) []models.CellRange {
	var out []models.CellRange
	for _, dn := range wb.DefinedNames {
		if !strings.EqualFold(dn.Name, builtinPrefix+"Print_Area") {
			continue
		}
		for _, a := range dn.Areas {
			if a.Sheet == sheet {
				out = append(out, a.Range)
			}
		}
	}
	return out
}
