package models

// BlockVisitor is called for every block reachable from the body. cell is
// the enclosing table cell, or nil for body-level blocks.
type BlockVisitor func(idx int, b *Block, cell *TableCell) bool

// Walk visits every reachable block depth-first in document order. Returning
// false from fn stops the walk below the visited block.
func (d *Document) Walk(fn BlockVisitor) {
	for _, idx := range d.Body {
		d.walk(idx, nil, fn)
	}
}

func (d *Document) walk(idx int, cell *TableCell, fn BlockVisitor) {
	if idx < 0 || idx >= len(d.Blocks) {
		return
	}
	b := &d.Blocks[idx]
	if !fn(idx, b, cell) {
		return
	}
	if b.Kind != BlockTable || b.Table == nil {
		return
	}
	for ri := range b.Table.Rows {
		row := &b.Table.Rows[ri]
		for ci := range row.Cells {
			c := &row.Cells[ci]
			for _, child := range c.Blocks {
				d.walk(child, c, fn)
			}
		}
	}
}

// AddBlock appends a block to the arena and returns its index.
func (d *Document) AddBlock(b Block) int {
	d.Blocks = append(d.Blocks, b)
	return len(d.Blocks) - 1
}

// BlockByRef returns the block with the given reference.
func (d *Document) BlockByRef(ref string) *Block {
	var found *Block
	d.Walk(func(_ int, b *Block, _ *TableCell) bool {
		if found != nil {
			return false
		}
		if b.Ref == ref {
			found = b
			return false
		}
		return true
	})
	return found
}

// InlineByRef returns the inline item with the given reference and the
// paragraph holding it.
func (d *Document) InlineByRef(ref string) (*Inline, *Paragraph) {
	var (
		inl  *Inline
		para *Paragraph
	)
	d.Walk(func(_ int, b *Block, _ *TableCell) bool {
		if inl != nil {
			return false
		}
		if b.Kind != BlockParagraph || b.Paragraph == nil {
			return true
		}
		for i := range b.Paragraph.Inlines {
			if b.Paragraph.Inlines[i].Ref == ref {
				inl, para = &b.Paragraph.Inlines[i], b.Paragraph
				return false
			}
		}
		return true
	})
	return inl, para
}

// CellByRef returns the table cell with the given reference.
func (d *Document) CellByRef(ref string) *TableCell {
	var found *TableCell
	d.Walk(func(_ int, b *Block, _ *TableCell) bool {
		if found != nil {
			return false
		}
		if b.Kind != BlockTable || b.Table == nil {
			return true
		}
		for ri := range b.Table.Rows {
			for ci := range b.Table.Rows[ri].Cells {
				if c := &b.Table.Rows[ri].Cells[ci]; c.Ref == ref {
					found = c
					return false
				}
			}
		}
		return true
	})
	return found
}

// Text returns the plain text of a paragraph's text runs.
func (p *Paragraph) Text() string {
	var s string
	for _, in := range p.Inlines {
		if in.Kind == InlineText && in.Text != nil {
			s += in.Text.Text
		}
	}
	return s
}

// DeriveLegacyFields rebuilds the legacy checkbox and dropdown collections
// from the block tree.
func (d *Document) DeriveLegacyFields() {
	d.Checkboxes = []CheckboxField{}
	d.Dropdowns = []DropdownField{}
	d.Walk(func(_ int, b *Block, _ *TableCell) bool {
		if b.Kind != BlockParagraph || b.Paragraph == nil {
			return true
		}
		for _, in := range b.Paragraph.Inlines {
			switch in.Kind {
			case InlineCheckbox:
				d.Checkboxes = append(d.Checkboxes, CheckboxField{
					ID:      in.ID,
					Ref:     in.Ref,
					Label:   in.Checkbox.Label,
					Checked: in.Checkbox.Checked,
				})
			case InlineDropdown:
				opts := make([]string, len(in.Dropdown.Options))
				for i, o := range in.Dropdown.Options {
					opts[i] = o.Display
				}
				d.Dropdowns = append(d.Dropdowns, DropdownField{
					ID:       in.ID,
					Ref:      in.Ref,
					Label:    in.Dropdown.Label,
					Options:  opts,
					Selected: in.Dropdown.Selected,
				})
			case InlineText:
			}
		}
		return true
	})
}

// ComputeRowSpans derives RowSpan for every vertical-merge start cell: one
// plus the number of immediately following continuation cells at the same
// grid column. Other cells get RowSpan 1.
func (t *Table) ComputeRowSpans() {
	for ri := range t.Rows {
		for ci := range t.Rows[ri].Cells {
			c := &t.Rows[ri].Cells[ci]
			c.RowSpan = 1
			if c.VMerge != VMergeStart {
				continue
			}
			for below := ri + 1; below < len(t.Rows); below++ {
				next := t.Rows[below].CellAtGridCol(c.GridCol)
				if next == nil || next.VMerge != VMergeContinue {
					break
				}
				c.RowSpan++
			}
		}
	}
}

// CellAtGridCol returns the cell starting at the given grid column.
func (r *Row) CellAtGridCol(col int) *TableCell {
	for i := range r.Cells {
		if r.Cells[i].GridCol == col {
			return &r.Cells[i]
		}
	}
	return nil
}
