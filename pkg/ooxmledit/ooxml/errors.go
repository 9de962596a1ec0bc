package ooxml

import (
	"errors"
	"fmt"
)

// ErrMalformedContainer indicates an unreadable archive, unreadable XML, or a
// missing main content part.
var ErrMalformedContainer = errors.New("malformed container")

// ErrUnsupportedPackageLayout indicates a readable package whose structure is
// not one the codecs understand.
var ErrUnsupportedPackageLayout = errors.New("unsupported package layout")

// ErrUnresolvableReference indicates a positional reference whose segments do
// not match the XML it is resolved against.
var ErrUnresolvableReference = errors.New("unresolvable reference")

// ErrStaleReference indicates a model unit whose reference no longer resolves
// in the base document at patch time.
var ErrStaleReference = errors.New("stale reference")

// ErrInvalidReference indicates a reference string that cannot be parsed.
var ErrInvalidReference = errors.New("invalid reference")

// ErrUnknownSheet indicates a sheet reference that matches no sheet.
var ErrUnknownSheet = errors.New("unknown sheet")

// ErrUnknownControl indicates a control reference that matches no control.
var ErrUnknownControl = errors.New("unknown control")

// ErrInvalidState indicates a control state the control cannot take.
var ErrInvalidState = errors.New("invalid control state")

// ErrMergedCellNotOrigin indicates an edit aimed at a merged cell other than
// the top-left origin of its range.
var ErrMergedCellNotOrigin = errors.New("merged cell is not the merge origin")

// PartError attaches the offending part name and operation to a failure.
type PartError struct {
	Part string
	Op   string // "open", "parse", "patch", "export"
	Err  error
}

func (e *PartError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Part, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

// NewPartError creates a new PartError.
func NewPartError(part, op string, err error) *PartError {
	return &PartError{
		Part: part,
		Op:   op,
		Err:  err,
	}
}

// Malformed wraps err as ErrMalformedContainer for the given part.
func Malformed(part, op string, err error) *PartError {
	if err == nil {
		return NewPartError(part, op, ErrMalformedContainer)
	}
	return NewPartError(part, op, fmt.Errorf("%w: %v", ErrMalformedContainer, err))
}
