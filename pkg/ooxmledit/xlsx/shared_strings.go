package xlsx

import (
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/xmlnode"
)

func (p *parser) sharedStrings(part string) (*models.SharedStringTable, error) {
	doc, err := p.loadPart(part)
	if err != nil {
		return nil, err
	}
	sis := doc.Root.ChildrenNamed(ns, "si")
	items := make([]models.SharedString, 0, len(sis))
	for _, si := range sis {
		items = append(items, stringItem(si))
	}
	p.log.Debug("parsed shared strings", "part", part, "items", len(items))
	return models.NewSharedStringTable(items), nil
}

// stringItem reads a shared-string or inline-string item. Rich text runs are
// concatenated; phonetic runs are ignored. _xHHHH_ escapes are decoded.
func stringItem(si *xmlnode.Node) models.SharedString {
	runs := si.ChildrenNamed(ns, "r")
	if len(runs) == 0 {
		return models.SharedString{Text: decodeText(si.Child(ns, "t").Text())}
	}
	var b strings.Builder
	b.WriteString(si.Child(ns, "t").Text())
	for _, r := range runs {
		b.WriteString(r.Child(ns, "t").Text())
	}
	return models.SharedString{Text: decodeText(b.String()), Rich: true}
}
