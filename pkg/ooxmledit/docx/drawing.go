package docx

import (
	"strconv"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlref"
)

// drawingBlocks emits one drawing block per w:drawing inside a paragraph.
// They follow the paragraph in the block sequence.
func (p *parser) drawingBlocks(para *xmlnode.Node, paraRef string) []int {
	var out []int
	for d, dn := range para.FindAll(w, "drawing") {
		num := p.drawings
		p.drawings++
		drawing := readDrawing(dn)
		out = append(out, p.doc.AddBlock(models.Block{
			Kind:    models.BlockDrawing,
			ID:      "drawing-" + strconv.Itoa(num),
			Ref:     xmlref.Assign(paraRef, KindDrawing, d),
			Drawing: &drawing,
		}))
	}
	return out
}

func readDrawing(dn *xmlnode.Node) models.Drawing {
	d := models.Drawing{Type: models.DrawingUnknown}
	frame := dn.Child(ooxml.NSWordDrawing, "inline")
	d.Inline = frame != nil
	if frame == nil {
		frame = dn.Child(ooxml.NSWordDrawing, "anchor")
	}
	if frame == nil {
		return d
	}

	if ext := frame.Child(ooxml.NSWordDrawing, "extent"); ext != nil {
		d.Width = emuInches(ext.AttrOr("cx", "0"))
		d.Height = emuInches(ext.AttrOr("cy", "0"))
	}
	d.Name = frame.Child(ooxml.NSWordDrawing, "docPr").AttrOr("name", "")
	d.Type = drawingType(frame)
	return d
}

func emuInches(s string) float64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return ooxml.EMUToInches(v)
}

// drawingType classifies the graphic inside a drawing frame.
func drawingType(frame *xmlnode.Node) models.DrawingType {
	switch {
	case frame.Find(ooxml.NSWordGroup, "wgp") != nil, frame.Find(ooxml.NSWordCanvas, "wpc") != nil:
		return models.DrawingVectorGroup
	case frame.Find(ooxml.NSPicture, "pic") != nil:
		return models.DrawingImage
	case frame.Find(ooxml.NSWordShape, "wsp") != nil:
		return models.DrawingShape
	}
	if gd := frame.Find(ooxml.NSDrawingMain, "graphicData"); gd != nil {
		if strings.Contains(gd.AttrOr("uri", ""), "/chart") {
			return models.DrawingChart
		}
	}
	return models.DrawingUnknown
}
