package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/noisegraph/internal/compiler"
	"github.com/roach88/noisegraph/internal/engine"
	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/mapping"
	"github.com/roach88/noisegraph/internal/scene"
	"github.com/roach88/noisegraph/internal/session"
	"github.com/roach88/noisegraph/internal/store"
)

// Harness runs scenes.
type Harness struct {
	logger    *slog.Logger
	store     *store.Store
	outputDir string
	dryRun    bool
	workers   int
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithStore records every render in the catalog.
func WithStore(s *store.Store) Option {
	return func(h *Harness) { h.store = s }
}

// WithOutputDir writes relative outputs under dir instead of the scene's
// directory.
func WithOutputDir(dir string) Option {
	return func(h *Harness) { h.outputDir = dir }
}

// DryRun renders without writing output files.
func DryRun() Option {
	return func(h *Harness) { h.dryRun = true }
}

// WithWorkers sets the raster worker count.
func WithWorkers(n int) Option {
	return func(h *Harness) { h.workers = n }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scene with default options and no output files.
func Run(ctx context.Context, sc *scene.Scene) (*Result, error) {
	return New(DryRun()).Run(ctx, sc)
}

// Run executes sc in a fresh session.
//
// Execution flow:
//  1. Compile bindings in declaration order
//  2. Render each raster, compare digests, write outputs, record runs
//  3. Evaluate each probe
//
// Compile, render and I/O failures abort the run and are returned.
// Probe and digest mismatches are collected on the Result.
func (h *Harness) Run(ctx context.Context, sc *scene.Scene) (*Result, error) {
	sess := session.New(session.WithLogger(h.logger), session.WithWorkers(h.workers))
	defer sess.Close()

	result := NewResult(sc.Name)

	for _, b := range sc.Bindings {
		idx, err := sess.Define(b.Name, b.Expr)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.Name, compiler.WrapErrorWithSource(err, b.Expr))
		}
		digest, err := sess.Digest(idx)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.Name, err)
		}
		result.Bindings = append(result.Bindings, BindingResult{Name: b.Name, Root: idx, GraphDigest: digest})
		h.logger.Debug("binding compiled", "scene", sc.Name, "name", b.Name, "root", idx)
	}

	for _, r := range sc.Renders {
		rr, err := h.render(ctx, sess, sc, r)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", r.Name, err)
		}
		if err := checkDigest(r, rr.RasterDigest); err != nil {
			result.AddError(err.Error())
		}
		result.Renders = append(result.Renders, rr)
	}

	for i, p := range sc.Probes {
		pr, err := h.probe(sess, p)
		if err != nil {
			return nil, fmt.Errorf("probe %d: %w", i, err)
		}
		if err := checkProbe(p, pr); err != nil {
			result.AddError(err.Error())
		}
		result.Probes = append(result.Probes, pr)
	}

	h.logger.Info("scene finished",
		"scene", sc.Name,
		"renders", len(result.Renders),
		"probes", len(result.Probes),
		"pass", result.Pass,
	)
	return result, nil
}

// resolve returns the node a root names: a binding, or else a freshly
// compiled expression.
func resolve(sess *session.Session, root string) (ir.Index, error) {
	if idx, ok := sess.Lookup(root); ok {
		return idx, nil
	}
	idx, err := sess.Compile(root)
	if err != nil {
		return 0, compiler.WrapErrorWithSource(err, root)
	}
	return idx, nil
}

func (h *Harness) render(ctx context.Context, sess *session.Session, sc *scene.Scene, r scene.Render) (RenderResult, error) {
	idx, err := resolve(sess, r.Root)
	if err != nil {
		return RenderResult{}, err
	}
	spec, err := r.Spec()
	if err != nil {
		return RenderResult{}, err
	}
	var opts []mapping.Option
	if r.Normalize {
		opts = append(opts, mapping.WithNormalize())
	}

	start := time.Now()
	raster, err := sess.Render(ctx, idx, spec, opts...)
	if err != nil {
		return RenderResult{}, err
	}
	elapsed := time.Since(start)

	graph, err := sess.Digest(idx)
	if err != nil {
		return RenderResult{}, err
	}
	rr := RenderResult{
		Name:         r.Name,
		Root:         idx,
		Width:        raster.Width,
		Height:       raster.Height,
		Mode:         spec.Mode.String(),
		Format:       spec.Format.String(),
		GraphDigest:  graph,
		RasterDigest: raster.Digest(),
		Elapsed:      elapsed,
	}

	if path := sc.OutputPath(r, h.outputDir); path != "" && !h.dryRun {
		if err := raster.Save(path); err != nil {
			return RenderResult{}, err
		}
		rr.Output = path
	}

	if h.store != nil {
		d := spec.Domain
		rec, err := h.store.RecordRender(ctx, store.Render{
			Scene:        sc.Name,
			Name:         r.Name,
			Expr:         r.Root,
			Root:         idx,
			GraphDigest:  rr.GraphDigest,
			RasterDigest: rr.RasterDigest,
			Mode:         rr.Mode,
			Format:       rr.Format,
			Width:        rr.Width,
			Height:       rr.Height,
			Domain:       [4]float64{d.X, d.Y, d.W, d.H},
			Output:       rr.Output,
			Elapsed:      elapsed,
		})
		if err != nil {
			return RenderResult{}, err
		}
		h.logger.Debug("render recorded", "id", rec.ID, "seq", rec.Seq)
	}

	h.logger.Info("render complete",
		"scene", sc.Name,
		"name", r.Name,
		"size", raster.Header(),
		"raster_digest", rr.RasterDigest,
	)
	return rr, nil
}

func (h *Harness) probe(sess *session.Session, p scene.Probe) (ProbeResult, error) {
	idx, err := resolve(sess, p.Root)
	if err != nil {
		return ProbeResult{}, err
	}
	pr := ProbeResult{Root: idx, At: p.At}

	exec := sess.Executor()
	pr.Kind, err = exec.Kind(idx)
	if err != nil {
		return ProbeResult{}, err
	}
	res, err := exec.Evaluate(idx, engine.Coord(p.At), pr.Kind)
	if err != nil {
		return ProbeResult{}, err
	}
	pr.Scalar, pr.Color = res.Scalar, res.Color
	pr.Pass = checkProbe(p, pr) == nil
	return pr, nil
}
