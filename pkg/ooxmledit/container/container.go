// Package container reads and writes the ZIP packages that hold the XML
// parts of word-processing and spreadsheet documents.
package container

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

// Container is an opened package. Parts keep their original order and
// headers so they can be copied back unchanged.
type Container struct {
	data   []byte
	reader *zip.Reader
	byName map[string]*zip.File
	byFold map[string]*zip.File

	// Format is the detected document format.
	Format Format
	// MainPart is the name of the main content part (e.g. "word/document.xml").
	MainPart string
	// MainContentType is the content type declared for MainPart.
	MainContentType string
}

// Open opens a package from its bytes and locates the main content part.
func Open(data []byte) (*Container, error) {
	if !IsZip(data) {
		return nil, ooxml.Malformed("", "open", errors.New("not a zip archive"))
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ooxml.Malformed("", "open", err)
	}

	c := &Container{
		data:   data,
		reader: r,
		byName: make(map[string]*zip.File, len(r.File)),
		byFold: make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		if _, dup := c.byName[f.Name]; dup {
			return nil, ooxml.Malformed(f.Name, "open", errors.New("duplicate part name"))
		}
		c.byName[f.Name] = f
		c.byFold[strings.ToLower(f.Name)] = f
	}

	if err := c.detect(); err != nil {
		return nil, err
	}
	return c, nil
}

// Bytes returns the original package bytes.
func (c *Container) Bytes() []byte {
	return c.data
}

// Names returns part names in archive order.
func (c *Container) Names() []string {
	names := make([]string, 0, len(c.reader.File))
	for _, f := range c.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Has reports whether the package holds the named part.
func (c *Container) Has(name string) bool {
	return c.lookup(name) != nil
}

func (c *Container) lookup(name string) *zip.File {
	name = strings.TrimPrefix(name, "/")
	if f, ok := c.byName[name]; ok {
		return f
	}
	// Part names are case-insensitive in OPC.
	return c.byFold[strings.ToLower(name)]
}

// Part returns the decompressed bytes of a part.
func (c *Container) Part(name string) ([]byte, error) {
	f := c.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("part %s: %w", name, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, ooxml.Malformed(name, "open", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, ooxml.Malformed(name, "open", err)
	}
	return b, nil
}

// OptionalPart returns a part's bytes, or nil without error when the part is
// absent.
func (c *Container) OptionalPart(name string) ([]byte, error) {
	if c.lookup(name) == nil {
		return nil, nil
	}
	return c.Part(name)
}

// Parts returns every part's decompressed bytes keyed by name.
func (c *Container) Parts() (map[string][]byte, error) {
	out := make(map[string][]byte, len(c.reader.File))
	for _, f := range c.reader.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		b, err := c.Part(f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = b
	}
	return out, nil
}

// Assemble writes a new package: parts named in overrides get the new bytes,
// every other part is copied byte-for-byte in its compressed form. Part order,
// compression methods, extra fields and the archive comment are kept. With no
// overrides the original bytes are returned as-is.
func Assemble(c *Container, overrides map[string][]byte) ([]byte, error) {
	if len(overrides) == 0 {
		return c.data, nil
	}
	pending := make(map[string][]byte, len(overrides))
	for name, b := range overrides {
		f := c.lookup(name)
		if f == nil {
			return nil, ooxml.NewPartError(name, "export", fmt.Errorf("override for missing part: %w", fs.ErrNotExist))
		}
		pending[f.Name] = b
	}

	var buf bytes.Buffer
	buf.Grow(len(c.data))
	w := zip.NewWriter(&buf)

	for _, f := range c.reader.File {
		if b, ok := pending[f.Name]; ok {
			if err := writeReplaced(w, f, b); err != nil {
				return nil, ooxml.NewPartError(f.Name, "export", err)
			}
			continue
		}
		if err := copyRaw(w, f); err != nil {
			return nil, ooxml.NewPartError(f.Name, "export", err)
		}
	}

	if c.reader.Comment != "" {
		if err := w.SetComment(c.reader.Comment); err != nil {
			return nil, ooxml.NewPartError("", "export", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, ooxml.NewPartError("", "export", err)
	}
	return buf.Bytes(), nil
}

func copyRaw(w *zip.Writer, f *zip.File) error {
	fh := f.FileHeader
	// A zero Modified keeps the original DOS timestamp and avoids a second
	// extended-timestamp extra field.
	fh.Modified = time.Time{}
	dst, err := w.CreateRaw(&fh)
	if err != nil {
		return err
	}
	src, err := f.OpenRaw()
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func writeReplaced(w *zip.Writer, f *zip.File, b []byte) error {
	fh := zip.FileHeader{
		Name:           f.Name,
		Comment:        f.Comment,
		NonUTF8:        f.NonUTF8,
		Method:         f.Method,
		ModifiedTime:   f.ModifiedTime,
		ModifiedDate:   f.ModifiedDate,
		ExternalAttrs:  f.ExternalAttrs,
		CreatorVersion: f.CreatorVersion,
		Extra:          stripZip64Extra(f.Extra),
	}
	dst, err := w.CreateHeader(&fh)
	if err != nil {
		return err
	}
	_, err = dst.Write(b)
	return err
}

// stripZip64Extra drops the zip64 extended-information field, whose sizes
// would no longer match the rewritten data. The writer adds its own when needed.
func stripZip64Extra(extra []byte) []byte {
	if len(extra) == 0 {
		return nil
	}
	var out []byte
	for len(extra) >= 4 {
		id := binary.LittleEndian.Uint16(extra[0:2])
		size := int(binary.LittleEndian.Uint16(extra[2:4]))
		if 4+size > len(extra) {
			break
		}
		if id != 0x0001 {
			out = append(out, extra[:4+size]...)
		}
		extra = extra[4+size:]
	}
	return out
}
