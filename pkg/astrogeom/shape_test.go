package astrogeom

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randPoint(r *rand.Rand) Point {
	return Point{X: r.Int64N(2001) - 1000, Y: r.Int64N(2001) - 1000}
}

func randShape(r *rand.Rand) Shape {
	switch r.IntN(3) {
	case 0:
		return Dot{At: randPoint(r)}
	case 1:
		return Line{P0: randPoint(r), P1: randPoint(r)}
	default:
		return Circle{Center: randPoint(r), Radius: r.Int64N(200)}
	}
}

func TestDotExtremesAreItsCoordinates(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		p := randPoint(r)
		d := Dot{At: p}
		assert.Equal(t, p, MinPoint(d))
		assert.Equal(t, p, MaxPoint(d))
	}
}

func TestLineExtremesPerAxis(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		p0, p1 := randPoint(r), randPoint(r)
		l := Line{P0: p0, P1: p1}
		assert.Equal(t, Point{X: min(p0.X, p1.X), Y: min(p0.Y, p1.Y)}, MinPoint(l))
		assert.Equal(t, Point{X: max(p0.X, p1.X), Y: max(p0.Y, p1.Y)}, MaxPoint(l))
	}
}

func TestLineExtremesMixEndpoints(t *testing.T) {
	l := Line{P0: Point{X: -3, Y: 5}, P1: Point{X: 4, Y: -25}}
	assert.Equal(t, Point{X: -3, Y: -25}, MinPoint(l))
	assert.Equal(t, Point{X: 4, Y: 5}, MaxPoint(l))
}

func TestCircleExtremes(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 200; i++ {
		c := randPoint(r)
		rad := r.Int64N(500)
		s := Circle{Center: c, Radius: rad}
		assert.Equal(t, Point{X: c.X - rad, Y: c.Y - rad}, MinPoint(s))
		assert.Equal(t, Point{X: c.X + rad, Y: c.Y + rad}, MaxPoint(s))
	}

	s := Circle{Center: Point{X: -3, Y: 5}, Radius: 10}
	assert.Equal(t, Point{X: -13, Y: -5}, MinPoint(s))
	assert.Equal(t, Point{X: 7, Y: 15}, MaxPoint(s))
}

func TestCircleNegativeRadiusIsNotRejected(t *testing.T) {
	s := Circle{Center: Point{X: 0, Y: 0}, Radius: -4}
	assert.Equal(t, Point{X: -4, Y: -4}, MinPoint(s))
	assert.Equal(t, Point{X: 4, Y: 4}, MaxPoint(s))
}

func TestMBROfSingleShapeIsOrdered(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 200; i++ {
		rect := MBR(randShape(r))
		assert.LessOrEqual(t, rect.P0.X, rect.P1.X)
		assert.LessOrEqual(t, rect.P0.Y, rect.P1.Y)
	}
}

func TestCircleAtInt32ExtremesIsExact(t *testing.T) {
	s, err := ParseShape("c 2147483647 -2147483648 2147483647")
	require.NoError(t, err)

	assert.Equal(t, Point{X: 0, Y: -4294967295}, MinPoint(s))
	assert.Equal(t, Point{X: math.MaxInt32 * 2, Y: -1}, MaxPoint(s))
}
