package container

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

// Format represents a supported document format.
type Format int

const (
	// FormatUnknown indicates an unrecognized package.
	FormatUnknown Format = iota
	// FormatDOCX is a word-processing package (docx, docm).
	FormatDOCX
	// FormatXLSX is a spreadsheet package (xlsx, xlsm).
	FormatXLSX
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatDOCX:
		return "docx"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// Extension returns the default file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatDOCX:
		return ".docx"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ""
	}
}

// ContentTypesPart is the package content-type manifest.
const ContentTypesPart = "[Content_Types].xml"

// RootRelsPart is the package-level relationship part.
const RootRelsPart = "_rels/.rels"

const relTypeOfficeDocument = "/officeDocument"

var zipMagic = []byte("PK\x03\x04")

// IsZip reports whether data starts with a local file header signature.
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// FormatForContentType maps a main-part content type to a format.
func FormatForContentType(ct string) Format {
	switch {
	case strings.Contains(ct, "wordprocessingml.document.main"),
		strings.Contains(ct, "wordprocessingml.template.main"),
		strings.Contains(ct, "ms-word.document.macroEnabled.main"),
		strings.Contains(ct, "ms-word.template.macroEnabledTemplate.main"):
		return FormatDOCX
	case strings.Contains(ct, "spreadsheetml.sheet.main"),
		strings.Contains(ct, "spreadsheetml.template.main"),
		strings.Contains(ct, "ms-excel.sheet.macroEnabled.main"),
		strings.Contains(ct, "ms-excel.template.macroEnabled.main"):
		return FormatXLSX
	}
	return FormatUnknown
}

type contentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (ct *contentTypes) lookup(part string) string {
	want := "/" + strings.TrimPrefix(part, "/")
	for _, o := range ct.Overrides {
		if strings.EqualFold(o.PartName, want) {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// ContentType returns the content type declared for a part, or "".
func (c *Container) ContentType(part string) string {
	ct, err := c.contentTypes()
	if err != nil || ct == nil {
		return ""
	}
	return ct.lookup(part)
}

func (c *Container) contentTypes() (*contentTypes, error) {
	data, err := c.OptionalPart(ContentTypesPart)
	if err != nil || data == nil {
		return nil, err
	}
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, ooxml.Malformed(ContentTypesPart, "parse", err)
	}
	return &ct, nil
}

// detect locates the main part via the officeDocument relationship, falling
// back to content-type overrides and the well-known part names.
func (c *Container) detect() error {
	ct, err := c.contentTypes()
	if err != nil {
		return err
	}

	main := ""
	rels, err := c.Relationships("")
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, relTypeOfficeDocument) && !rel.External {
			main = rel.Resolved
			break
		}
	}
	if main == "" && ct != nil {
		for _, o := range ct.Overrides {
			if FormatForContentType(o.ContentType) != FormatUnknown {
				main = strings.TrimPrefix(o.PartName, "/")
				break
			}
		}
	}
	if main == "" {
		for _, candidate := range []string{"word/document.xml", "xl/workbook.xml"} {
			if c.Has(candidate) {
				main = candidate
				break
			}
		}
	}
	if main == "" {
		return ooxml.Malformed("", "open", fmt.Errorf("no main content part"))
	}
	f := c.lookup(main)
	if f == nil {
		return ooxml.Malformed(main, "open", fmt.Errorf("main content part missing from archive"))
	}
	c.MainPart = f.Name

	if ct != nil {
		c.MainContentType = ct.lookup(c.MainPart)
	}
	c.Format = FormatForContentType(c.MainContentType)
	if c.Format == FormatUnknown && c.MainContentType == "" {
		// No manifest entry: trust the conventional location.
		switch c.MainPart {
		case "word/document.xml":
			c.Format = FormatDOCX
		case "xl/workbook.xml":
			c.Format = FormatXLSX
		}
	}
	if c.Format == FormatUnknown {
		return ooxml.NewPartError(c.MainPart, "open",
			fmt.Errorf("%w: main content type %q", ooxml.ErrUnsupportedPackageLayout, c.MainContentType))
	}
	return nil
}
