package ooxmledit

import (
	"errors"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/ooxml"
)

// Errors returned by the engine. They alias the codec errors so callers need
// only this package for errors.Is checks.
var (
	ErrMalformedContainer       = ooxml.ErrMalformedContainer
	ErrUnsupportedPackageLayout = ooxml.ErrUnsupportedPackageLayout
	ErrUnresolvableReference    = ooxml.ErrUnresolvableReference
	ErrStaleReference           = ooxml.ErrStaleReference
	ErrInvalidReference         = ooxml.ErrInvalidReference
	ErrUnknownSheet             = ooxml.ErrUnknownSheet
	ErrUnknownControl           = ooxml.ErrUnknownControl
	ErrInvalidState             = ooxml.ErrInvalidState
	ErrMergedCellNotOrigin      = ooxml.ErrMergedCellNotOrigin
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrWrongFormat indicates an operation that does not apply to the model's
// format, such as a cell edit on a document.
var ErrWrongFormat = errors.New("operation does not apply to this format")

// PartError names the package part a parse or export failure occurred in.
type PartError = ooxml.PartError
