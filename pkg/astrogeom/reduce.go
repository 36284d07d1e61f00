package astrogeom

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest slice a parallel worker is given; below it the
// goroutine overhead outweighs the fold.
const minChunk = 1024

// BoundingRectangle folds shapes left to right into their common MBR.
func BoundingRectangle(shapes []Shape) (Rectangle, error) {
	if err := validate(shapes); err != nil {
		return Rectangle{}, err
	}
	return fold(shapes), nil
}

func validate(shapes []Shape) error {
	if len(shapes) == 0 {
		return &EmptyInputError{}
	}
	for i, s := range shapes {
		if s == nil {
			return &NilShapeError{Index: i}
		}
	}
	return nil
}

// BoundingRectangleParallel computes the same rectangle as BoundingRectangle
// by folding contiguous chunks concurrently and combining the partial
// results. Combine is associative and commutative, so the answer does not
// depend on how the slice is split.
func BoundingRectangleParallel(ctx context.Context, shapes []Shape, workers int) (Rectangle, error) {
	if err := validate(shapes); err != nil {
		return Rectangle{}, err
	}
	if err := ctx.Err(); err != nil {
		return Rectangle{}, err
	}

	chunks := workers
	if n := len(shapes) / minChunk; n < chunks {
		chunks = n
	}
	if chunks <= 1 {
		return fold(shapes), nil
	}

	size := (len(shapes) + chunks - 1) / chunks
	chunks = (len(shapes) + size - 1) / size
	partial := make([]Rectangle, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < chunks; i++ {
		lo := i * size
		hi := min(lo+size, len(shapes))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial[i] = fold(shapes[lo:hi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Rectangle{}, err
	}

	return combineAll(partial), nil
}

func fold(shapes []Shape) Rectangle {
	acc := MBR(shapes[0])
	for _, s := range shapes[1:] {
		acc = Combine(acc, MBR(s))
	}
	return acc
}

// combineAll merges rectangles pairwise, halving the slice each round.
func combineAll(rects []Rectangle) Rectangle {
	for len(rects) > 1 {
		next := rects[:0]
		for i := 0; i < len(rects); i += 2 {
			if i+1 < len(rects) {
				next = append(next, Combine(rects[i], rects[i+1]))
			} else {
				next = append(next, rects[i])
			}
		}
		rects = next
	}
	return rects[0]
}
