// Package astrogeom computes axis-aligned minimum bounding rectangles (MBR)
// for points, line segments and circles on an integer grid.
//
// Coordinates are int64 on every platform. Descriptors are limited to the
// int32 range, so center ± radius is always exact.
package astrogeom

import "fmt"

// Point is an integer coordinate pair.
type Point struct {
	X, Y int64
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Shape is one of Dot, Line or Circle. The set is closed: the unexported
// method keeps other packages from adding variants. A nil Shape is not a
// shape; the reducers reject it with *NilShapeError.
type Shape interface {
	shape()
}

// Dot is a degenerate shape sitting on a single coordinate.
type Dot struct {
	At Point
}

// Line is a segment between two endpoints. Endpoint order does not matter.
type Line struct {
	P0, P1 Point
}

// Circle is a disk. Radius is used as is, a negative value is not rejected.
type Circle struct {
	Center Point
	Radius int64
}

func (Dot) shape()    {}
func (Line) shape()   {}
func (Circle) shape() {}

// =============================
// Extremal rule
// =============================

// Extremum picks one of two values, applied to each axis independently.
type Extremum func(a, b int64) int64

// Min and Max are the two extremum functions used by MinPoint and MaxPoint.
var (
	Min Extremum = func(a, b int64) int64 { return min(a, b) }
	Max Extremum = func(a, b int64) int64 { return max(a, b) }
)

// ExtremalPoint returns the corner of s selected by ext.
//
//	Dot    → its own coordinates
//	Line   → (ext(p0.x, p1.x), ext(p0.y, p1.y))
//	Circle → (ext(x-r, x+r), ext(y-r, y+r))
//
// The result for a Line may mix coordinates from both endpoints.
func ExtremalPoint(s Shape, ext Extremum) Point {
	switch v := s.(type) {
	case Dot:
		return v.At
	case Line:
		return Point{
			X: ext(v.P0.X, v.P1.X),
			Y: ext(v.P0.Y, v.P1.Y),
		}
	case Circle:
		c, r := v.Center, v.Radius
		return Point{
			X: ext(c.X-r, c.X+r),
			Y: ext(c.Y-r, c.Y+r),
		}
	default:
		// nil is the only value that gets here; callers filter it first.
		panic(fmt.Sprintf("astrogeom: unknown shape %T", s))
	}
}

// MinPoint returns the lower-left corner of the shape's bounding box.
func MinPoint(s Shape) Point {
	return ExtremalPoint(s, Min)
}

// MaxPoint returns the upper-right corner of the shape's bounding box.
func MaxPoint(s Shape) Point {
	return ExtremalPoint(s, Max)
}

// MBR returns the minimum bounding rectangle of a single shape.
func MBR(s Shape) Rectangle {
	return Rectangle{P0: MinPoint(s), P1: MaxPoint(s)}
}
