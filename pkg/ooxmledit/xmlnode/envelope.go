package xmlnode

import (
	"bytes"
	"errors"
)

// Envelope is the verbatim frame around a part's root element: everything
// before the root, the root's opening tag exactly as written (namespace
// declarations and mc:Ignorable hints included), the closing tag, and
// whatever trails it. Writers regenerate only the inner content and wrap it
// back in the captured envelope.
type Envelope struct {
	Prolog []byte
	Open   []byte
	Close  []byte
	Epilog []byte
}

// CaptureEnvelope captures the envelope of a parsed part.
func CaptureEnvelope(doc *Document) (*Envelope, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New("envelope: empty document")
	}
	root, data := doc.Root, doc.Data
	env := &Envelope{
		Prolog: clone(data[:root.Start]),
		Epilog: clone(data[root.End:]),
	}
	if root.SelfClosing {
		open := root.StartTag(data)
		cut := bytes.LastIndex(open, []byte("/>"))
		if cut < 0 {
			return nil, errors.New("envelope: malformed self-closing root")
		}
		env.Open = append(clone(open[:cut]), '>')
		env.Close = []byte("</" + root.QName() + ">")
		return env, nil
	}
	env.Open = clone(root.StartTag(data))
	env.Close = clone(data[root.ContentEnd:root.End])
	return env, nil
}

// SetRootAttr sets an attribute on the captured opening tag, leaving every
// other byte of the tag as it was.
func (e *Envelope) SetRootAttr(qname, value string) error {
	tag, err := SetTagAttr(e.Open, qname, value)
	if err != nil {
		return err
	}
	e.Open = tag
	return nil
}

// Wrap reattaches the envelope around regenerated inner content.
func (e *Envelope) Wrap(inner []byte) []byte {
	out := make([]byte, 0, len(e.Prolog)+len(e.Open)+len(inner)+len(e.Close)+len(e.Epilog))
	out = append(out, e.Prolog...)
	out = append(out, e.Open...)
	out = append(out, inner...)
	out = append(out, e.Close...)
	out = append(out, e.Epilog...)
	return out
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
