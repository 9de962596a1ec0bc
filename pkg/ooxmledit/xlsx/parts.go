package xlsx

import (
	"strconv"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/container"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

// optionalPart loads an auxiliary part, logging and skipping it when it is
// missing or unreadable.
func (p *parser) optionalPart(kind, part string) *xmlnode.Document {
	if !p.c.Has(part) {
		p.log.Warn("skipping missing "+kind, "part", part)
		return nil
	}
	doc, err := p.loadPart(part)
	if err != nil {
		p.log.Warn("skipping unreadable "+kind, "part", part, "error", err)
		return nil
	}
	return doc
}

func (p *parser) comments(s *models.Sheet, rels []container.Relationship) {
	for _, rel := range container.AllOfType(rels, relComments) {
		if rel.External {
			continue
		}
		doc := p.optionalPart("comments", rel.Resolved)
		if doc == nil {
			continue
		}
		authors := doc.Root.Child(ns, "authors").ChildrenNamed(ns, "author")
		for _, cn := range doc.Root.Child(ns, "commentList").ChildrenNamed(ns, "comment") {
			c := models.Comment{
				ID:   s.ID + "-comment-" + strconv.Itoa(len(s.Comments)),
				Ref:  cn.AttrOr("ref", ""),
				Text: stringItem(cn.Child(ns, "text")).Text,
			}
			if i := atoiOr(cn.AttrOr("authorId", "-1"), -1); i >= 0 && i < len(authors) {
				c.Author = authors[i].Text()
			}
			s.Comments = append(s.Comments, c)
		}
	}
}

func (p *parser) tables(s *models.Sheet, root *xmlnode.Node, rels map[string]container.Relationship) {
	for _, tp := range root.Child(ns, "tableParts").ChildrenNamed(ns, "tablePart") {
		id, _ := tp.AttrValue(nsR, "id")
		rel, ok := rels[id]
		if !ok || rel.External {
			continue
		}
		doc := p.optionalPart("table", rel.Resolved)
		if doc == nil {
			continue
		}
		t := doc.Root
		def := models.TableDef{
			ID:          s.ID + "-table-" + t.AttrOr("id", strconv.Itoa(len(s.Tables))),
			Name:        t.AttrOr("name", ""),
			DisplayName: t.AttrOr("displayName", ""),
			Ref:         t.AttrOr("ref", ""),
			HeaderRow:   atoiOr(t.AttrOr("headerRowCount", "1"), 1) > 0,
			TotalsRow:   atoiOr(t.AttrOr("totalsRowCount", "0"), 0) > 0,
			Style:       t.Child(ns, "tableStyleInfo").AttrOr("name", ""),
			Part:        rel.Resolved,
		}
		for _, col := range t.Child(ns, "tableColumns").ChildrenNamed(ns, "tableColumn") {
			def.Columns = append(def.Columns, col.AttrOr("name", ""))
		}
		s.Tables = append(s.Tables, def)
	}
}
