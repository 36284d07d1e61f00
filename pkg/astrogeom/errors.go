package astrogeom

import (
	"errors"
	"fmt"
)

var (
	ErrShapeParse = errors.New("invalid shape description")
	ErrEmptyInput = errors.New("no shapes to bound")
	ErrNilShape   = errors.New("nil shape")
)

// ShapeParseError describes a descriptor line that could not be turned into
// a Shape. It matches ErrShapeParse with errors.Is.
type ShapeParseError struct {
	Line   string
	Reason string
	Err    error // underlying strconv error, if any
}

func (e *ShapeParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse shape %q: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse shape %q: %s", e.Line, e.Reason)
}

func (e *ShapeParseError) Is(target error) bool {
	return target == ErrShapeParse
}

func (e *ShapeParseError) Unwrap() error {
	return e.Err
}

// EmptyInputError is returned when a reduction is asked for zero shapes.
type EmptyInputError struct{}

func (*EmptyInputError) Error() string {
	return ErrEmptyInput.Error()
}

func (*EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// NilShapeError reports a nil element in a shape sequence.
type NilShapeError struct {
	Index int
}

func (e *NilShapeError) Error() string {
	return fmt.Sprintf("shape %d: %v", e.Index, ErrNilShape)
}

func (e *NilShapeError) Is(target error) bool {
	return target == ErrNilShape
}
