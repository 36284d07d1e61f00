package astrogeom

import "fmt"

// Rectangle is an axis-aligned box stored as a Line from its minimum corner
// (P0) to its maximum corner (P1). It is not a Shape and never goes back
// into a shape sequence.
type Rectangle Line

// Min returns the lower-left corner.
func (r Rectangle) Min() Point { return r.P0 }

// Max returns the upper-right corner.
func (r Rectangle) Max() Point { return r.P1 }

// Width and Height may be negative only for rectangles built by hand from
// a circle with negative radius; the reducer never produces those.
func (r Rectangle) Width() int64  { return r.P1.X - r.P0.X }
func (r Rectangle) Height() int64 { return r.P1.Y - r.P0.Y }

// Contains reports whether p lies inside r or on its border.
func (r Rectangle) Contains(p Point) bool {
	return r.P0.X <= p.X && p.X <= r.P1.X &&
		r.P0.Y <= p.Y && p.Y <= r.P1.Y
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rectangle) ContainsRect(o Rectangle) bool {
	return r.Contains(o.P0) && r.Contains(o.P1)
}

// String formats r as "x_min y_min x_max y_max", the batch output format.
func (r Rectangle) String() string {
	return fmt.Sprintf("%d %d %d %d", r.P0.X, r.P0.Y, r.P1.X, r.P1.Y)
}

// Combine returns the smallest rectangle containing both a and b.
// Both corner pairs are folded through the Line extremal rule so there is a
// single definition of min/max for shapes and rectangles alike.
func Combine(a, b Rectangle) Rectangle {
	return Rectangle{
		P0: MinPoint(Line{P0: a.P0, P1: b.P0}),
		P1: MaxPoint(Line{P0: a.P1, P1: b.P1}),
	}
}
