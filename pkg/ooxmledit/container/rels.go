package container

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`

	// External is true for TargetMode="External"; Target is then a URL.
	External bool `xml:"-"`
	// Resolved is the package part name the target points at.
	Resolved string `xml:"-"`
}

type relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// RelsPath returns the relationship part that belongs to a source part.
// The package itself (source "") uses _rels/.rels.
func RelsPath(source string) string {
	if source == "" {
		return RootRelsPart
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves a relationship target relative to its source part.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir("/"+source), target), "/")
}

// Relationships reads the relationships of a source part. A missing .rels
// part yields no relationships and no error.
func (c *Container) Relationships(source string) ([]Relationship, error) {
	relsPath := RelsPath(source)
	data, err := c.OptionalPart(relsPath)
	if err != nil || data == nil {
		return nil, err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, ooxml.Malformed(relsPath, "parse", err)
	}
	for i := range rels.Relationships {
		r := &rels.Relationships[i]
		r.External = strings.EqualFold(r.TargetMode, "External")
		if !r.External {
			r.Resolved = ResolveTarget(source, r.Target)
		}
	}
	return rels.Relationships, nil
}

// RelationshipMap returns a source part's relationships keyed by ID.
func (c *Container) RelationshipMap(source string) (map[string]Relationship, error) {
	rels, err := c.Relationships(source)
	if err != nil {
		return nil, err
	}
	m := make(map[string]Relationship, len(rels))
	for _, r := range rels {
		m[r.ID] = r
	}
	return m, nil
}

// FirstOfType returns the first relationship whose type ends with suffix.
func FirstOfType(rels []Relationship, suffix string) (Relationship, bool) {
	for _, r := range rels {
		if strings.HasSuffix(r.Type, suffix) {
			return r, true
		}
	}
	return Relationship{}, false
}

// AllOfType returns every relationship whose type ends with suffix.
func AllOfType(rels []Relationship, suffix string) []Relationship {
	var out []Relationship
	for _, r := range rels {
		if strings.HasSuffix(r.Type, suffix) {
			out = append(out, r)
		}
	}
	return out
}
