package models

// SharedString is one entry of the shared-string table.
type SharedString struct {
	// Text is the plain text of the entry.
	Text string `json:"text"`
	// Rich reports an entry made of formatted runs.
	Rich bool `json:"rich,omitempty"`
}

// SharedStringTable is the per-workbook pool of strings referenced by index.
// Indices are stable once assigned. Interning reuses the first entry with
// equal text, rich or plain, and appends otherwise.
type SharedStringTable struct {
	// Items holds the entries in index order.
	Items []SharedString `json:"items"`
	// Base is the number of entries present in the written part.
	Base int `json:"base"`

	index map[string]int
}

// NewSharedStringTable returns a table whose written part holds items.
func NewSharedStringTable(items []SharedString) *SharedStringTable {
	return &SharedStringTable{Items: items, Base: len(items)}
}

// Len returns the number of entries.
func (t *SharedStringTable) Len() int {
	return len(t.Items)
}

// Get returns the text at index i.
func (t *SharedStringTable) Get(i int) (string, bool) {
	if i < 0 || i >= len(t.Items) {
		return "", false
	}
	return t.Items[i].Text, true
}

// Lookup returns the index of the first entry with the given text.
func (t *SharedStringTable) Lookup(text string) (int, bool) {
	t.ensureIndex()
	i, ok := t.index[text]
	return i, ok
}

// Intern returns the index for text, appending a new entry when no entry
// matches. added reports whether the table grew.
func (t *SharedStringTable) Intern(text string) (idx int, added bool) {
	if i, ok := t.Lookup(text); ok {
		return i, false
	}
	t.Items = append(t.Items, SharedString{Text: text})
	idx = len(t.Items) - 1
	t.index[text] = idx
	return idx, true
}

// Added returns the entries appended since the part was last written.
func (t *SharedStringTable) Added() []SharedString {
	if t.Base >= len(t.Items) {
		return nil
	}
	return t.Items[t.Base:]
}

// Commit marks every entry as written.
func (t *SharedStringTable) Commit() {
	t.Base = len(t.Items)
}

func (t *SharedStringTable) ensureIndex() {
	if t.index != nil {
		return
	}
	t.index = make(map[string]int, len(t.Items))
	for i, it := range t.Items {
		if _, dup := t.index[it.Text]; !dup {
			t.index[it.Text] = i
		}
	}
}
