// Package astrobatch runs the line-oriented MBR batch format:
//
//	T             number of cases
//	N             shapes in case 1
//	<shape>       N descriptor lines (see astrogeom.ParseShape)
//	...
//	N             shapes in case 2
//	...
//
// Blank lines between cases are ignored. Each case produces one output line,
// "x_min y_min x_max y_max", or "error: ..." when the case cannot be reduced.
package astrobatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Asteroidea-tn/asterombr/pkg/astrogeom"
)

type Options struct {
	// Workers bounds how many cases are reduced at once, and how many
	// goroutines a single large case may use.
	Workers int
	// ParallelThreshold is the shape count from which a case is reduced with
	// astrogeom.BoundingRectangleParallel. Zero disables it.
	ParallelThreshold int
	// ParseCacheSize enables an LRU of parsed descriptor lines. Batches often
	// repeat the same shapes across cases.
	ParseCacheSize int
	// FailFast aborts the run on the first case error.
	FailFast bool
	Logger   zerolog.Logger
}

// Result is the outcome of one case. Case numbers start at 1.
type Result struct {
	Case   int
	Shapes int
	Rect   astrogeom.Rectangle
	Err    error
}

type Summary struct {
	Cases     int
	Failed    int
	Shapes    int
	CacheHits int
	Elapsed   time.Duration
	Results   []Result
}

type Runner struct {
	opts  Options
	log   zerolog.Logger
	cache *lru.Cache[string, astrogeom.Shape]
}

func New(opts Options) (*Runner, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	r := &Runner{opts: opts, log: opts.Logger.With().Str("component", "astrobatch").Logger()}
	if opts.ParseCacheSize > 0 {
		c, err := lru.New[string, astrogeom.Shape](opts.ParseCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create parse cache: %w", err)
		}
		r.cache = c
	}
	return r, nil
}

// maxPrealloc caps slice capacity taken from count lines; the counts are
// untrusted and append grows past it when the lines really are there.
const maxPrealloc = 4096

// pending is a case whose lines have been read but not yet reduced.
type pending struct {
	shapes []astrogeom.Shape
	err    error
}

// Run reads a whole batch from in, reduces every case and writes one line
// per case to out in input order. Structural problems (bad counts, early
// EOF) return an error wrapping ErrMalformedBatch. Per-case problems are
// reported in Summary.Results and only stop the run when FailFast is set.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	start := time.Now()
	var sum Summary

	cases, hits, err := r.readCases(in)
	sum.CacheHits = hits
	if err != nil {
		return sum, err
	}
	r.log.Debug().Int("cases", len(cases)).Int("cache_hits", hits).Msg("batch read")

	results := make([]Result, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, c := range cases {
		g.Go(func() error {
			res := r.reduce(gctx, i+1, c)
			results[i] = res
			if res.Err != nil && r.opts.FailFast {
				return fmt.Errorf("case %d: %w", res.Case, res.Err)
			}
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		sum.Elapsed = time.Since(start)
		return sum, err
	}

	w := bufio.NewWriter(out)
	for _, res := range results {
		sum.Cases++
		sum.Shapes += res.Shapes
		if res.Err != nil {
			sum.Failed++
			r.log.Warn().Err(res.Err).Int("case", res.Case).Msg("case skipped")
			fmt.Fprintf(w, "error: %v\n", res.Err)
			continue
		}
		fmt.Fprintln(w, res.Rect.String())
	}
	if err := w.Flush(); err != nil {
		return sum, fmt.Errorf("write results: %w", err)
	}

	sum.Results = results
	sum.Elapsed = time.Since(start)
	r.log.Info().
		Int("cases", sum.Cases).
		Int("failed", sum.Failed).
		Int("shapes", sum.Shapes).
		Dur("elapsed", sum.Elapsed).
		Msg("batch done")
	return sum, nil
}

func (r *Runner) readCases(in io.Reader) ([]pending, int, error) {
	lr := newLineReader(in)
	total, err := lr.count("case count")
	if err != nil {
		return nil, 0, err
	}

	hits := 0
	cases := make([]pending, 0, min(total, maxPrealloc))
	for i := 1; i <= total; i++ {
		n, err := lr.count(fmt.Sprintf("shape count of case %d", i))
		if err != nil {
			return nil, hits, err
		}

		c := pending{shapes: make([]astrogeom.Shape, 0, min(n, maxPrealloc))}
		for j := 0; j < n; j++ {
			line, err := lr.next()
			if err != nil {
				return nil, hits, fmt.Errorf("%w: case %d: expected %d shapes, got %d: %w", ErrMalformedBatch, i, n, j, err)
			}
			s, hit, err := r.parse(line)
			if hit {
				hits++
			}
			if err != nil {
				// keep consuming the case so the next count line is read in sync
				if c.err == nil {
					c.err = fmt.Errorf("line %d: %w", lr.line, err)
				}
				continue
			}
			c.shapes = append(c.shapes, s)
		}
		if c.err != nil && r.opts.FailFast {
			return nil, hits, fmt.Errorf("case %d: %w", i, c.err)
		}
		cases = append(cases, c)
	}
	return cases, hits, nil
}

func (r *Runner) parse(line string) (astrogeom.Shape, bool, error) {
	if r.cache == nil {
		s, err := astrogeom.ParseShape(line)
		return s, false, err
	}
	key := strings.Join(strings.Fields(line), " ")
	if s, ok := r.cache.Get(key); ok {
		return s, true, nil
	}
	s, err := astrogeom.ParseShape(line)
	if err != nil {
		return nil, false, err
	}
	r.cache.Add(key, s)
	return s, false, nil
}

func (r *Runner) reduce(ctx context.Context, n int, c pending) Result {
	res := Result{Case: n, Shapes: len(c.shapes)}
	if c.err != nil {
		res.Err = c.err
		return res
	}

	var err error
	if r.opts.ParallelThreshold > 0 && len(c.shapes) >= r.opts.ParallelThreshold {
		res.Rect, err = astrogeom.BoundingRectangleParallel(ctx, c.shapes, r.opts.Workers)
	} else {
		res.Rect, err = astrogeom.BoundingRectangle(c.shapes)
	}
	if err != nil {
		res.Err = err
		return res
	}

	r.log.Debug().
		Int("case", n).
		Int("shapes", res.Shapes).
		Str("mbr", res.Rect.String()).
		Msg("case reduced")
	return res
}
