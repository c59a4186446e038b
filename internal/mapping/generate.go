package mapping

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/roach88/noisegraph/internal/engine"
	"github.com/roach88/noisegraph/internal/ir"
)

// Evaluator answers point queries. *engine.Executor satisfies it.
type Evaluator interface {
	Kind(idx ir.Index) (ir.ValueKind, error)
	Evaluate(idx ir.Index, c engine.Coord, want ir.ValueKind) (engine.Result, error)
}

type options struct {
	workers   int
	pool      *Pool
	normalize bool
}

// Option configures Generate.
type Option func(*options)

// WithWorkers sets the number of goroutines used when Generate starts its
// own pool. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPool runs bands on an existing pool instead of starting one.
func WithPool(p *Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithNormalize rescales scalar output so the observed minimum maps to 0
// and the maximum to 1. A constant image maps to 0.
func WithNormalize() Option {
	return func(o *options) { o.normalize = true }
}

// rowsPerBand keeps bands small enough to balance across workers.
func rowsPerBand(height, workers int) int {
	return max(1, height/(workers*4))
}

// Generate evaluates idx at every pixel described by spec.
//
// The context is checked before each band starts; on cancellation the
// partial raster is discarded and ctx.Err() is returned.
func Generate(ctx context.Context, ev Evaluator, idx ir.Index, spec Spec, opts ...Option) (*Raster, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if int(spec.Mode) >= len(lifts) {
		return nil, fmt.Errorf("unknown mapping mode %d", spec.Mode)
	}
	if spec.Format.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("unknown pixel format %d", spec.Format)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", spec.Width, spec.Height)
	}

	kind, err := ev.Kind(idx)
	if err != nil {
		return nil, err
	}
	// Probe one pixel so reference, arity and kind errors surface before
	// any work is queued.
	if _, err := ev.Evaluate(idx, coordinate(spec, 0, 0, nil), kind); err != nil {
		return nil, err
	}

	pool := o.pool
	if pool == nil {
		pool = NewPool(o.workers)
		defer pool.Close()
	}

	w, h := spec.Width, spec.Height
	values := make([]ir.RGBA, w*h)

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	band := rowsPerBand(h, pool.Workers())
	var tasks []func()
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		tasks = append(tasks, func() {
			if ctx.Err() != nil || failed() {
				return
			}
			buf := make([]float64, 0, ir.MaxDims)
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					buf = coordinate(spec, x, y, buf)
					r, err := ev.Evaluate(idx, buf, kind)
					if err != nil {
						fail(fmt.Errorf("pixel (%d,%d): %w", x, y, err))
						return
					}
					if kind == ir.Color {
						values[y*w+x] = r.Color
					} else {
						values[y*w+x] = ir.Gray(r.Scalar)
					}
				}
			}
		})
	}
	pool.Run(tasks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if kind == ir.Scalar && o.normalize {
		normalize(values)
	}

	r := newRaster(w, h, spec.Format)
	bpp := spec.Format.BytesPerPixel()
	for i, c := range values {
		if kind == ir.Scalar {
			c = ir.Gray(clamp01(c.R))
		}
		pack(spec.Format, c, r.Pix[i*bpp:])
	}
	return r, nil
}

// normalize maps the gray values of a scalar image onto [0,1].
func normalize(values []ir.RGBA) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range values {
		if c.R < lo {
			lo = c.R
		}
		if c.R > hi {
			hi = c.R
		}
	}
	span := hi - lo
	for i, c := range values {
		v := 0.0
		if span > 0 {
			v = (c.R - lo) / span
		}
		values[i] = ir.Gray(v)
	}
}
