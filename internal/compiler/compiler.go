package compiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/kernel"
)

// Compiler turns expression text into kernel nodes.
//
// Each Compile call builds on a fork of the kernel and merges only on
// success, so a failed expression leaves the kernel unchanged. Names bound
// with Bind are visible to every later expression.
type Compiler struct {
	k     *kernel.Kernel
	names map[string]ir.Index
}

// New creates a compiler that appends to k.
func New(k *kernel.Kernel) *Compiler {
	return &Compiler{k: k, names: make(map[string]ir.Index)}
}

// Kernel returns the kernel the compiler appends to.
func (c *Compiler) Kernel() *kernel.Kernel { return c.k }

// Bind makes name resolve to idx in later expressions. Names are NFC
// normalized. Binding an existing name replaces it.
func (c *Compiler) Bind(name string, idx ir.Index) error {
	name = ir.NormalizeName(name)
	if !validName(name) {
		return &ir.Error{Code: ir.ErrCodeParse, Message: fmt.Sprintf("invalid name %q", name)}
	}
	if _, ok := c.k.Node(idx); !ok {
		return ir.NewInvalidReference(idx, "cannot bind %q: node does not exist (kernel has %d nodes)", name, c.k.Len())
	}
	c.names[name] = idx
	return nil
}

// Lookup returns the node bound to name.
func (c *Compiler) Lookup(name string) (ir.Index, bool) {
	idx, ok := c.names[ir.NormalizeName(name)]
	return idx, ok
}

// Bindings returns a copy of every bound name.
func (c *Compiler) Bindings() map[string]ir.Index {
	out := make(map[string]ir.Index, len(c.names))
	for k, v := range c.names {
		out[k] = v
	}
	return out
}

// Compile parses src, appends its nodes and returns the root index.
//
// Errors are *ParseError values carrying the offending position; when the
// kernel rejected a node, the kernel's error is the Cause.
func (c *Compiler) Compile(src string) (ir.Index, error) {
	tree, err := parse(src)
	if err != nil {
		return 0, err
	}

	fork := c.k.Fork()
	em := &emitter{
		src:    src,
		f:      fork,
		names:  c.names,
		lits:   make(map[uint64]ir.Index),
		idents: make(map[string]ir.Index),
	}
	root, err := em.emit(tree)
	if err != nil {
		return 0, err
	}
	if err := c.k.Merge(fork); err != nil {
		return 0, fmt.Errorf("commit expression: %w", err)
	}
	return root, nil
}

// Define compiles src and binds the result to name in one step.
func (c *Compiler) Define(name, src string) (ir.Index, error) {
	if !validName(ir.NormalizeName(name)) {
		return 0, &ir.Error{Code: ir.ErrCodeParse, Message: fmt.Sprintf("invalid name %q", name)}
	}
	idx, err := c.Compile(src)
	if err != nil {
		return 0, err
	}
	return idx, c.Bind(name, idx)
}

// emitter walks one expression tree into a kernel fork. Literals and axis
// reads are deduplicated within a single expression.
type emitter struct {
	src    string
	f      *kernel.Kernel
	names  map[string]ir.Index
	lits   map[uint64]ir.Index
	idents map[string]ir.Index
}

func (em *emitter) errAt(at int, format string, args ...any) *ParseError {
	return newParseError(em.src, at, format, args...)
}

// check converts a kernel rejection into a positioned ParseError.
func (em *emitter) check(at int, idx ir.Index, err error) (ir.Index, error) {
	if err == nil {
		return idx, nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return 0, pe
	}
	e := em.errAt(at, "%v", err)
	e.Cause = err
	return 0, e
}

func (em *emitter) literal(v float64) ir.Index {
	key := math.Float64bits(v)
	if idx, ok := em.lits[key]; ok {
		return idx
	}
	idx := em.f.Constant(v)
	em.lits[key] = idx
	return idx
}

func (em *emitter) emit(e expr) (ir.Index, error) {
	switch v := e.(type) {
	case numberLit:
		return em.literal(v.value), nil

	case nodeRef:
		if _, ok := em.f.Node(v.index); !ok {
			pe := em.errAt(v.at, "node $%d does not exist (kernel has %d nodes)", v.index, em.f.Len())
			pe.Cause = ir.NewInvalidReference(v.index, "no such node")
			return 0, pe
		}
		return v.index, nil

	case identRef:
		return em.ident(v)

	case negExpr:
		if lit, ok := v.operand.(numberLit); ok {
			return em.literal(-lit.value), nil
		}
		x, err := em.emit(v.operand)
		if err != nil {
			return 0, err
		}
		idx, err := em.f.Subtract(em.literal(0), x)
		return em.check(v.at, idx, err)

	case binaryExpr:
		return em.binary(v)

	case callExpr:
		return em.call(v)
	}
	return 0, em.errAt(e.pos(), "unsupported expression %T", e)
}

func (em *emitter) ident(v identRef) (ir.Index, error) {
	if idx, ok := em.names[v.name]; ok {
		return idx, nil
	}
	if idx, ok := em.idents[v.name]; ok {
		return idx, nil
	}
	if axis, ok := axisNamed(v.name); ok {
		idx, err := em.f.Axis(axis)
		if err != nil {
			return em.check(v.at, idx, err)
		}
		em.idents[v.name] = idx
		return idx, nil
	}
	if c, ok := constants[v.name]; ok {
		return em.literal(c), nil
	}
	return 0, em.errAt(v.at, "unknown identifier %q", v.name)
}

func axisNamed(name string) (ir.Axis, bool) {
	for a := ir.AxisX; a < ir.AxisAll; a++ {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

func (em *emitter) binary(v binaryExpr) (ir.Index, error) {
	l, err := em.emit(v.left)
	if err != nil {
		return 0, err
	}
	r, err := em.emit(v.right)
	if err != nil {
		return 0, err
	}

	var idx ir.Index
	switch v.op {
	case PLUS:
		idx, err = em.f.Add(l, r)
	case MINUS:
		idx, err = em.f.Subtract(l, r)
	case STAR:
		idx, err = em.f.Multiply(l, r)
	case SLASH:
		idx, err = em.f.Divide(l, r)
	case CARET:
		idx, err = em.f.Pow(l, r)
	default:
		return 0, em.errAt(v.at, "unsupported operator %s", v.op)
	}
	return em.check(v.at, idx, err)
}

// static resolves an argument that must be known at compile time: a
// numeric literal, a negated literal, or a constant name that is not
// shadowed by a binding.
func (em *emitter) static(e expr) (float64, bool) {
	switch v := e.(type) {
	case numberLit:
		return v.value, true
	case negExpr:
		x, ok := em.static(v.operand)
		return -x, ok
	case identRef:
		if _, bound := em.names[v.name]; bound {
			return 0, false
		}
		c, ok := constants[v.name]
		return c, ok
	}
	return 0, false
}

func (em *emitter) call(v callExpr) (ir.Index, error) {
	fn, ok := functions[v.name]
	if !ok {
		return 0, em.errAt(v.at, "unknown function %q", v.name)
	}
	if n := len(v.args); n < fn.required() || n > len(fn.params) {
		want := fmt.Sprintf("%d", len(fn.params))
		if fn.required() != len(fn.params) {
			want = fmt.Sprintf("%d to %d", fn.required(), len(fn.params))
		}
		return 0, em.errAt(v.at, "%s takes %s arguments, got %d", v.name, want, n)
	}

	a := args{
		nodes: make([]ir.Index, len(fn.params)),
		lits:  make([]float64, len(fn.params)),
		n:     len(v.args),
	}
	for i, arg := range v.args {
		if fn.params[i] == 's' {
			lit, ok := em.static(arg)
			if !ok {
				return 0, em.errAt(arg.pos(), "argument %d of %s must be a numeric literal", i+1, v.name)
			}
			a.lits[i] = lit
			continue
		}
		idx, err := em.emit(arg)
		if err != nil {
			return 0, err
		}
		a.nodes[i] = idx
	}

	idx, err := fn.build(em.f, a)
	var ae *argError
	if errors.As(err, &ae) {
		return 0, em.errAt(v.args[ae.i].pos(), "%s: %s", v.name, ae.msg)
	}
	return em.check(v.at, idx, err)
}
