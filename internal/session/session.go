// Package session bundles a kernel with everything that reads it.
//
// A Session is the engine context: one append-only kernel, the executor
// and compiler over it, and a worker pool for raster generation. There is
// no package-level state; callers create as many sessions as they need.
//
// Construction and compilation must run on one goroutine at a time.
// Evaluation and generation are safe to call concurrently once the kernel
// is no longer being mutated.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/noisegraph/internal/compiler"
	"github.com/roach88/noisegraph/internal/engine"
	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/kernel"
	"github.com/roach88/noisegraph/internal/mapping"
)

// Session is the engine context.
type Session struct {
	k    *kernel.Kernel
	exec *engine.Executor
	comp *compiler.Compiler

	logger    *slog.Logger
	workers   int
	normalize bool

	poolMu     sync.Mutex
	pool       *mapping.Pool
	poolClosed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. By default a session logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers sets the raster worker count. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Session) { s.workers = n }
}

// WithNormalize makes Generate rescale scalar output to the observed range.
func WithNormalize(on bool) Option {
	return func(s *Session) { s.normalize = on }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	k := kernel.New()
	s := &Session{
		k:      k,
		exec:   engine.New(k),
		comp:   compiler.New(k),
		logger: newNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close stops the worker pool, if one was started. Generating after Close
// still works; bands then run on the calling goroutine.
func (s *Session) Close() {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()
	s.poolClosed = true
	if s.pool != nil {
		s.pool.Close()
	}
}

// Kernel exposes the graph builders.
func (s *Session) Kernel() *kernel.Kernel { return s.k }

// Executor exposes the evaluator.
func (s *Session) Executor() *engine.Executor { return s.exec }

// Compile compiles text and returns its root node.
func (s *Session) Compile(text string) (ir.Index, error) {
	before := s.k.Len()
	idx, err := s.comp.Compile(text)
	if err != nil {
		s.logger.Debug("compile failed", "expr", text, "error", err)
		return 0, err
	}
	s.logger.Debug("compiled", "expr", text, "root", idx, "nodes_added", s.k.Len()-before)
	return idx, nil
}

// Bind names an existing node for later expressions.
func (s *Session) Bind(name string, idx ir.Index) error {
	return s.comp.Bind(name, idx)
}

// Define compiles text and binds the result to name.
func (s *Session) Define(name, text string) (ir.Index, error) {
	idx, err := s.comp.Define(name, text)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("defined", "name", name, "root", idx)
	return idx, nil
}

// Lookup returns the node bound to name.
func (s *Session) Lookup(name string) (ir.Index, bool) {
	return s.comp.Lookup(name)
}

// Bindings returns every bound name.
func (s *Session) Bindings() map[string]ir.Index {
	return s.comp.Bindings()
}

// Digest returns the content digest of the subgraph idx depends on.
func (s *Session) Digest(idx ir.Index) (string, error) {
	return s.k.Digest(idx)
}

// EvaluateScalar evaluates a scalar node at coord.
func (s *Session) EvaluateScalar(coord engine.Coord, idx ir.Index) (float64, error) {
	return s.exec.Scalar(coord, idx)
}

// EvaluateColor evaluates a color node at coord.
func (s *Session) EvaluateColor(coord engine.Coord, idx ir.Index) (ir.RGBA, error) {
	return s.exec.Color(coord, idx)
}

func (s *Session) workerPool() *mapping.Pool {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()
	if s.pool == nil {
		s.pool = mapping.NewPool(s.workers)
		if s.poolClosed {
			s.pool.Close()
		} else {
			s.logger.Debug("worker pool started", "workers", s.pool.Workers())
		}
	}
	return s.pool
}

// Render generates a raster for an arbitrary mapping spec.
func (s *Session) Render(ctx context.Context, idx ir.Index, spec mapping.Spec, opts ...mapping.Option) (*mapping.Raster, error) {
	all := []mapping.Option{mapping.WithPool(s.workerPool())}
	if s.normalize {
		all = append(all, mapping.WithNormalize())
	}
	all = append(all, opts...)

	start := time.Now()
	r, err := mapping.Generate(ctx, s.exec, idx, spec, all...)
	if err != nil {
		s.logger.Debug("render failed", "root", idx, "error", err)
		return nil, err
	}
	s.logger.Debug("rendered",
		"root", idx,
		"mode", spec.Mode.String(),
		"size", r.Header(),
		"elapsed", time.Since(start),
	)
	return r, nil
}

// Generate rasterizes idx over rect at w×h pixels.
func (s *Session) Generate(ctx context.Context, idx ir.Index, mode mapping.Mode, rect mapping.Rect, w, h int, format mapping.Format) (*mapping.Raster, error) {
	return s.Render(ctx, idx, mapping.Spec{Mode: mode, Domain: rect, Width: w, Height: h, Format: format})
}

// GenerateToFile is Generate followed by Raster.Save. The raster is
// returned even when saving fails.
func (s *Session) GenerateToFile(ctx context.Context, idx ir.Index, mode mapping.Mode, rect mapping.Rect, w, h int, format mapping.Format, path string) (*mapping.Raster, error) {
	r, err := s.Generate(ctx, idx, mode, rect, w, h, format)
	if err != nil {
		return nil, err
	}
	if err := r.Save(path); err != nil {
		return r, err
	}
	s.logger.Info("saved raster", "path", path, "size", r.Header())
	return r, nil
}
