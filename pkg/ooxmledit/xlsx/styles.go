package xlsx

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
)

// resolveStyles fills Workbook.Styles for every format index used by a cell
// and Workbook.Properties from the core properties part.
func resolveStyles(c *container.Container, wb *models.Workbook) error {
	f, err := excelize.OpenReader(bytes.NewReader(c.Bytes()))
	if err != nil {
		return fmt.Errorf("open workbook for styles: %w", err)
	}
	defer f.Close()

	wb.Styles = make(map[int]models.CellStyle)
	for _, idx := range usedStyles(wb) {
		st, err := f.GetStyle(idx)
		if err != nil || st == nil {
			continue
		}
		wb.Styles[idx] = convertStyle(st)
	}

	props, err := f.GetDocProps()
	if err == nil && props != nil {
		wb.Properties = &models.DocProperties{
			Title:          props.Title,
			Subject:        props.Subject,
			Creator:        props.Creator,
			Keywords:       props.Keywords,
			Description:    props.Description,
			LastModifiedBy: props.LastModifiedBy,
			Created:        props.Created,
			Modified:       props.Modified,
		}
	}
	return nil
}

func usedStyles(wb *models.Workbook) []int {
	seen := map[int]bool{}
	for _, s := range wb.Sheets {
		for _, c := range s.Cells {
			if c.StyleIndex != nil {
				seen[*c.StyleIndex] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func convertStyle(st *excelize.Style) models.CellStyle {
	out := models.CellStyle{NumberFormat: st.NumFmt}
	if st.CustomNumFmt != nil {
		out.CustomNumberFormat = *st.CustomNumFmt
	}
	if font := st.Font; font != nil {
		out.FontName = font.Family
		out.FontSize = font.Size
		out.FontColor = font.Color
		out.Bold = font.Bold
		out.Italic = font.Italic
		out.Underline = font.Underline
		out.Strike = font.Strike
	}
	if st.Fill.Type == "pattern" {
		out.FillPattern = st.Fill.Pattern
		if len(st.Fill.Color) > 0 {
			out.FillColor = st.Fill.Color[0]
		}
	}
	if a := st.Alignment; a != nil {
		out.HorizontalAlign = a.Horizontal
		out.VerticalAlign = a.Vertical
		out.WrapText = a.WrapText
	}
	for _, b := range st.Border {
		if b.Style == 0 {
			continue
		}
		out.Borders = append(out.Borders, models.StyleBorder{Edge: b.Type, Style: b.Style, Color: b.Color})
	}
	return out
}
