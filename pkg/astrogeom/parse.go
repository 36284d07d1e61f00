package astrogeom

import (
	"fmt"
	"strconv"
	"strings"
)

// Descriptor tags, one per shape variant.
const (
	TagPoint  = "p"
	TagLine   = "l"
	TagCircle = "c"
)

// arity is the number of integer tokens that follow each tag.
var arity = map[string]int{
	TagPoint:  2,
	TagLine:   4,
	TagCircle: 3,
}

// ParseShape turns one descriptor line into a Shape:
//
//	p x y
//	l x0 y0 x1 y1
//	c x y r
//
// Tokens are separated by any whitespace. Numbers are base-10 signed 32-bit
// integers. Every failure is a *ShapeParseError.
func ParseShape(line string) (Shape, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &ShapeParseError{Line: line, Reason: "empty description"}
	}

	tag, args := fields[0], fields[1:]
	want, ok := arity[tag]
	if !ok {
		return nil, &ShapeParseError{Line: line, Reason: fmt.Sprintf("unknown shape tag %q", tag)}
	}
	if len(args) != want {
		return nil, &ShapeParseError{
			Line:   line,
			Reason: fmt.Sprintf("shape %q takes %d numbers, got %d", tag, want, len(args)),
		}
	}

	n := make([]int64, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, &ShapeParseError{
				Line:   line,
				Reason: fmt.Sprintf("token %d is not an integer", i+1),
				Err:    err,
			}
		}
		n[i] = v
	}

	switch tag {
	case TagPoint:
		return Dot{At: Point{X: n[0], Y: n[1]}}, nil
	case TagLine:
		return Line{P0: Point{X: n[0], Y: n[1]}, P1: Point{X: n[2], Y: n[3]}}, nil
	default:
		return Circle{Center: Point{X: n[0], Y: n[1]}, Radius: n[2]}, nil
	}
}

// FormatShape renders s in the descriptor grammar accepted by ParseShape.
func FormatShape(s Shape) string {
	switch v := s.(type) {
	case Dot:
		return fmt.Sprintf("%s %d %d", TagPoint, v.At.X, v.At.Y)
	case Line:
		return fmt.Sprintf("%s %d %d %d %d", TagLine, v.P0.X, v.P0.Y, v.P1.X, v.P1.Y)
	case Circle:
		return fmt.Sprintf("%s %d %d %d", TagCircle, v.Center.X, v.Center.Y, v.Radius)
	default:
		return ""
	}
}
