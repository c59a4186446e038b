package engine

import (
	"sync"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/kernel"
)

// Coord is a query coordinate of 2, 3, 4 or 6 components.
type Coord []float64

// Result is the value of one query.
type Result struct {
	Kind   ir.ValueKind
	Scalar float64
	Color  ir.RGBA
}

// Executor evaluates nodes of a kernel.
//
// The executor reads the kernel's current node list on every query, so
// nodes appended after New are visible to later queries.
type Executor struct {
	k      *kernel.Kernel
	frames sync.Pool
}

// New creates an executor over k.
func New(k *kernel.Kernel) *Executor {
	e := &Executor{k: k}
	e.frames.New = func() any { return new(frame) }
	return e
}

// Kind reports whether idx produces a scalar or a color.
func (e *Executor) Kind(idx ir.Index) (ir.ValueKind, error) {
	n, ok := e.k.Node(idx)
	if !ok {
		return 0, ir.NewInvalidReference(idx, "node %d does not exist, kernel has %d nodes", idx, e.k.Len())
	}
	return n.Produces(), nil
}

// Evaluate computes the value of idx at c.
//
// Checks run in order: idx must exist (INVALID_REFERENCE), c must have 2,
// 3, 4 or 6 components (INVALID_COORDINATE), and the node must produce
// want (TYPE_MISMATCH).
func (e *Executor) Evaluate(idx ir.Index, c Coord, want ir.ValueKind) (Result, error) {
	nodes := e.k.Nodes()
	if int(idx) >= len(nodes) {
		return Result{}, ir.NewInvalidReference(idx, "node %d does not exist, kernel has %d nodes", idx, len(nodes))
	}
	if !validArity(len(c)) {
		return Result{}, NewInvalidCoordinate(len(c))
	}
	if got := nodes[idx].Produces(); got != want {
		return Result{}, ir.NewTypeMismatch(idx, want, got)
	}

	f := e.frames.Get().(*frame)
	defer e.frames.Put(f)
	f.begin(nodes, c)

	r := Result{Kind: want}
	if want == ir.Color {
		r.Color = f.color(idx)
	} else {
		r.Scalar = f.scalar(idx)
	}
	f.end()
	return r, nil
}

// Scalar evaluates a scalar node at c.
func (e *Executor) Scalar(c Coord, idx ir.Index) (float64, error) {
	r, err := e.Evaluate(idx, c, ir.Scalar)
	return r.Scalar, err
}

// Color evaluates a color node at c.
func (e *Executor) Color(c Coord, idx ir.Index) (ir.RGBA, error) {
	r, err := e.Evaluate(idx, c, ir.Color)
	return r.Color, err
}

func (e *Executor) Scalar2D(x, y float64, idx ir.Index) (float64, error) {
	return e.Scalar(Coord{x, y}, idx)
}

func (e *Executor) Scalar3D(x, y, z float64, idx ir.Index) (float64, error) {
	return e.Scalar(Coord{x, y, z}, idx)
}

func (e *Executor) Scalar4D(x, y, z, w float64, idx ir.Index) (float64, error) {
	return e.Scalar(Coord{x, y, z, w}, idx)
}

func (e *Executor) Scalar6D(x, y, z, w, u, v float64, idx ir.Index) (float64, error) {
	return e.Scalar(Coord{x, y, z, w, u, v}, idx)
}

func (e *Executor) Color2D(x, y float64, idx ir.Index) (ir.RGBA, error) {
	return e.Color(Coord{x, y}, idx)
}

func (e *Executor) Color3D(x, y, z float64, idx ir.Index) (ir.RGBA, error) {
	return e.Color(Coord{x, y, z}, idx)
}

func (e *Executor) Color4D(x, y, z, w float64, idx ir.Index) (ir.RGBA, error) {
	return e.Color(Coord{x, y, z, w}, idx)
}

func (e *Executor) Color6D(x, y, z, w, u, v float64, idx ir.Index) (ir.RGBA, error) {
	return e.Color(Coord{x, y, z, w, u, v}, idx)
}
