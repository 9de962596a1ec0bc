package xlsx

import (
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// ChartTypeMap maps plot element names to chart type names.
var ChartTypeMap = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// chart reads a graphic frame that embeds a chart part.
func (p *parser) chart(frame *xmlnode.Node, rels map[string]container.Relationship) (models.Chart, bool) {
	ref := frame.Find(nsC, "chart")
	id, ok := ref.AttrValue(nsR, "id")
	if !ok {
		return models.Chart{}, false
	}
	rel, ok := rels[id]
	if !ok || rel.External {
		return models.Chart{}, false
	}

	var pos models.Shape
	applyXfrm(&pos, frame.Child(nsXDR, "xfrm"))
	ch := models.Chart{
		Name:      frame.Path(nsXDR, "nvGraphicFramePr", "cNvPr").AttrOr("name", ""),
		Part:      rel.Resolved,
		ChartType: "unknown",
		L:         pos.L,
		T:         pos.T,
		W:         pos.W,
		H:         pos.H,
	}

	doc, err := p.loadPart(rel.Resolved)
	if err != nil {
		p.log.Warn("skipping unreadable chart", "part", rel.Resolved, "error", err)
		return ch, true
	}
	parseChart(&ch, doc.Root.Child(nsC, "chart"))
	return ch, true
}

func parseChart(ch *models.Chart, c *xmlnode.Node) {
	ch.Title = chartTitle(c.Child(nsC, "title"))
	plot := c.Child(nsC, "plotArea")
	for _, el := range plot.Children {
		if el.Name.Space != nsC {
			continue
		}
		if typ, ok := ChartTypeMap[el.Name.Local]; ok && len(ch.Series) == 0 {
			ch.ChartType = typ
			for _, ser := range el.ChildrenNamed(nsC, "ser") {
				ch.Series = append(ch.Series, chartSeries(ser))
			}
		}
		if el.Name.Local == "valAx" && ch.YAxisTitle == "" {
			ch.YAxisTitle = chartTitle(el.Child(nsC, "title"))
		}
	}
	if ch.Series == nil {
		ch.Series = []models.ChartSeries{}
	}
}

func chartTitle(title *xmlnode.Node) string {
	if title == nil {
		return ""
	}
	var parts []string
	for _, t := range title.FindAll(nsA, "t") {
		parts = append(parts, t.Text())
	}
	if len(parts) == 0 {
		// Titles linked to a cell keep their text in the string cache.
		return strings.TrimSpace(title.Find(nsC, "v").Text())
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

func chartSeries(ser *xmlnode.Node) models.ChartSeries {
	var s models.ChartSeries
	if tx := ser.Child(nsC, "tx"); tx != nil {
		s.NameRange = strings.TrimSpace(tx.Find(nsC, "f").Text())
		s.Name = strings.TrimSpace(tx.Find(nsC, "v").Text())
	}
	for _, local := range []string{"cat", "xVal"} {
		if n := ser.Child(nsC, local); n != nil {
			s.XRange = strings.TrimSpace(n.Find(nsC, "f").Text())
			break
		}
	}
	for _, local := range []string{"val", "yVal"} {
		if n := ser.Child(nsC, local); n != nil {
			s.YRange = strings.TrimSpace(n.Find(nsC, "f").Text())
			break
		}
	}
	return s
}
