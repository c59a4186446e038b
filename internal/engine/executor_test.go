package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/kernel"
)

// must unwraps a builder result, failing the test on error:
//
//	idx := must(t)(k.Add(a, b))
func must(t *testing.T) func(ir.Index, error) ir.Index {
	return func(idx ir.Index, err error) ir.Index {
		t.Helper()
		require.NoError(t, err)
		return idx
	}
}

func TestEvaluateCheckOrder(t *testing.T) {
	k := kernel.New()
	one := k.One()
	e := New(k)

	// Out of range wins over a bad coordinate.
	_, err := e.Evaluate(5, Coord{1}, ir.Color)
	assert.True(t, ir.IsInvalidReference(err))

	// Bad coordinate wins over a type mismatch.
	_, err = e.Evaluate(one, Coord{1, 2, 3, 4, 5}, ir.Color)
	assert.True(t, IsInvalidCoordinate(err))

	_, err = e.Evaluate(one, Coord{1, 2}, ir.Color)
	assert.True(t, ir.IsTypeMismatch(err))

	for _, n := range []int{0, 1, 5, 7} {
		_, err := e.Scalar(make(Coord, n), one)
		assert.True(t, IsInvalidCoordinate(err), "arity %d", n)
	}
	for _, n := range []int{2, 3, 4, 6} {
		v, err := e.Scalar(make(Coord, n), one)
		require.NoError(t, err, "arity %d", n)
		assert.Equal(t, 1.0, v)
	}
}

// buildEveryKind appends one node of every kind and returns them.
func buildEveryKind(t *testing.T, k *kernel.Kernel) []ir.Index {
	t.Helper()
	one, zero := k.One(), k.Zero()
	seed := k.Seed(1)
	interp := k.Constant(float64(ir.InterpQuintic))
	out := []ir.Index{one, seed, k.X(), k.Radial(), k.HexBump(), k.Color(ir.Gray(0.5))}

	add := func(idx ir.Index, err error) {
		out = append(out, must(t)(idx, err))
	}
	add(k.Seeder(seed, one))
	add(k.ValueBasis(interp, seed))
	add(k.GradientBasis(interp, seed))
	add(k.SimplexBasis(seed))
	add(k.CellularBasis([4]ir.Index{one, zero, zero, zero}, [4]ir.Index{zero, zero, zero, zero}, zero, seed))
	for _, build := range []func(a, b ir.Index) (ir.Index, error){
		k.Add, k.Subtract, k.Multiply, k.Divide, k.Maximum, k.Minimum, k.Pow, k.Bias, k.Gain,
		k.Scale, k.Translate, k.Tiers, k.SmoothTiers, k.Step, k.DX,
	} {
		add(build(one, one))
	}
	for _, build := range []func(a ir.Index) (ir.Index, error){
		k.Cos, k.Sin, k.Tan, k.Acos, k.Asin, k.Atan, k.Abs, k.HexTile,
	} {
		add(build(one))
	}
	add(k.Rotate(one, one, zero, zero, one))
	add(k.AddSequence(one, 1, 1))
	add(k.Mix(zero, one, one))
	add(k.Select(zero, one, one, one, zero))
	add(k.Clamp(one, zero, one))
	add(k.Sigmoid(one, zero, one))
	add(k.LinearStep(zero, one, one))
	add(k.SmoothStep(zero, one, one))
	add(k.SmootherStep(zero, one, one))
	add(k.CurveSection(zero, zero, one, zero, one, one))
	add(k.Ease(one, ir.EaseInOutCubic))
	add(k.Randomize(seed, zero, one))
	add(k.Fractal(seed, one, one, one, one, one))
	add(k.CombineRGBA(one, one, one, one))
	add(k.CombineHSVA(one, one, one, one))
	return out
}

func TestTypeConsistencyEveryKind(t *testing.T) {
	k := kernel.New()
	indices := buildEveryKind(t, k)
	e := New(k)

	seen := make(map[ir.Op]bool)
	for _, idx := range indices {
		n, _ := k.Node(idx)
		seen[n.Op()] = true

		other := ir.Color
		if n.Produces() == ir.Color {
			other = ir.Scalar
		}
		_, err := e.Evaluate(idx, Coord{0.3, 0.7}, other)
		assert.True(t, ir.IsTypeMismatch(err), "%s queried as %s", n.Op(), other)

		_, err = e.Evaluate(idx, Coord{0.3, 0.7}, n.Produces())
		assert.NoError(t, err, "%s", n.Op())
	}
	for o := ir.OpConstant; o <= ir.OpFractal; o++ {
		if o == ir.OpTranslateDomain || o == ir.OpScaleDomain {
			continue
		}
		assert.True(t, seen[o] || o == ir.OpMultiplySequence || o == ir.OpMaxSequence || o == ir.OpMinSequence, "missing %s", o)
	}
}

func TestDeterminism(t *testing.T) {
	k := kernel.New()
	idx := must(t)(k.FBM(ir.BasisGradient, ir.InterpQuintic, 4, 2, 42, true))
	e := New(k)

	first, err := e.Scalar3D(0.25, 0.75, 0.5, idx)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		v, err := e.Scalar3D(0.25, 0.75, 0.5, idx)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first), math.Float64bits(v))
	}
}

func TestConcurrentQueries(t *testing.T) {
	k := kernel.New()
	idx := must(t)(k.FBM(ir.BasisSimplex, ir.InterpQuintic, 3, 1, 9, true))
	e := New(k)

	want := make([]float64, 64)
	for i := range want {
		v, err := e.Scalar2D(float64(i)*0.1, 0.5, idx)
		require.NoError(t, err)
		want[i] = v
	}

	var wg sync.WaitGroup
	got := make([][]float64, 8)
	for w := range got {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			got[w] = make([]float64, len(want))
			for i := range want {
				got[w][i], _ = e.Scalar2D(float64(i)*0.1, 0.5, idx)
			}
		}(w)
	}
	wg.Wait()
	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestGradientBasisAcrossKernels(t *testing.T) {
	eval := func(seed uint32) float64 {
		k := kernel.New()
		interp := k.Constant(float64(ir.InterpQuintic))
		idx := must(t)(k.GradientBasis(interp, k.Seed(seed)))
		v, err := New(k).Scalar2D(0.25, 0.75, idx)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, eval(42), eval(42))
	assert.NotEqual(t, eval(42), eval(43))
}

func TestFBMOneOctaveEqualsBasis(t *testing.T) {
	for _, kind := range []ir.BasisKind{ir.BasisValue, ir.BasisGradient, ir.BasisSimplex, ir.BasisCellular} {
		t.Run(kind.String(), func(t *testing.T) {
			k := kernel.New()
			fbm := must(t)(k.FBM(kind, ir.InterpQuintic, 1, 2, 17, false))

			interp := k.Constant(float64(ir.InterpQuintic))
			seed := k.Seed(17)
			var basis ir.Index
			switch kind {
			case ir.BasisValue:
				basis = must(t)(k.ValueBasis(interp, seed))
			case ir.BasisGradient:
				basis = must(t)(k.GradientBasis(interp, seed))
			case ir.BasisSimplex:
				basis = must(t)(k.SimplexBasis(seed))
			case ir.BasisCellular:
				one, zero := k.One(), k.Zero()
				basis = must(t)(k.CellularBasis([4]ir.Index{one, zero, zero, zero}, [4]ir.Index{zero, zero, zero, zero}, zero, seed))
			}
			scaled := must(t)(k.Scale(basis, k.Constant(2)))

			e := New(k)
			for _, c := range []Coord{{0.25, 0.75}, {-1.5, 3.25, 0.5}, {0.1, 0.2, 0.3, 0.4}} {
				a, err := e.Scalar(c, fbm)
				require.NoError(t, err)
				b, err := e.Scalar(c, scaled)
				require.NoError(t, err)
				assert.Equal(t, b, a)
			}
		})
	}
}

func TestSeederOverridesSeed(t *testing.T) {
	k := kernel.New()
	interp := k.Constant(float64(ir.InterpLinear))
	b1 := must(t)(k.ValueBasis(interp, k.Seed(1)))
	b5 := must(t)(k.ValueBasis(interp, k.Seed(5)))
	reseeded := must(t)(k.Seeder(k.Constant(5), b1))
	e := New(k)

	c := Coord{0.3, 0.4, 0.5}
	want, _ := e.Scalar(c, b5)
	got, err := e.Scalar(c, reseeded)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The shared node is still seed 1 outside the seeder.
	plain, _ := e.Scalar(c, b1)
	sum := must(t)(k.Add(b1, reseeded))
	both, err := e.Scalar(c, sum)
	require.NoError(t, err)
	assert.Equal(t, plain+want, both)
}

func TestFractalNodeOneOctave(t *testing.T) {
	k := kernel.New()
	layer := must(t)(k.SimplexBasis(k.Seed(0)))
	frac := must(t)(k.Fractal(k.Seed(8), layer, k.Point5(), k.Constant(2), k.One(), k.Constant(3)))

	ref := must(t)(k.SimplexBasis(k.Seed(8)))
	scaled := must(t)(k.Scale(ref, k.Constant(3)))

	e := New(k)
	a, _ := e.Scalar2D(0.4, 0.9, frac)
	b, _ := e.Scalar2D(0.4, 0.9, scaled)
	assert.Equal(t, b, a)
}

func TestArithmetic(t *testing.T) {
	k := kernel.New()
	c := func(v float64) ir.Index { return k.Constant(v) }
	e := New(k)

	tests := []struct {
		name  string
		build func() (ir.Index, error)
		want  float64
	}{
		{"add", func() (ir.Index, error) { return k.Add(c(1), c(2)) }, 3},
		{"subtract", func() (ir.Index, error) { return k.Subtract(c(1), c(2)) }, -1},
		{"multiply", func() (ir.Index, error) { return k.Multiply(c(3), c(2)) }, 6},
		{"divide", func() (ir.Index, error) { return k.Divide(c(3), c(2)) }, 1.5},
		{"divide zero by zero", func() (ir.Index, error) { return k.Divide(c(0), c(0)) }, 0},
		{"divide positive by zero", func() (ir.Index, error) { return k.Divide(c(2), c(0)) }, math.MaxFloat64},
		{"divide negative by zero", func() (ir.Index, error) { return k.Divide(c(-2), c(0)) }, -math.MaxFloat64},
		{"max", func() (ir.Index, error) { return k.Maximum(c(3), c(2)) }, 3},
		{"min", func() (ir.Index, error) { return k.Minimum(c(3), c(2)) }, 2},
		{"pow", func() (ir.Index, error) { return k.Pow(c(2), c(10)) }, 1024},
		{"bias half", func() (ir.Index, error) { return k.Bias(c(0.5), c(0.25)) }, 0.25},
		{"gain half", func() (ir.Index, error) { return k.Gain(c(0.25), c(0.5)) }, 0.25},
		{"clamp", func() (ir.Index, error) { return k.Clamp(c(5), c(0), c(1)) }, 1},
		{"mix", func() (ir.Index, error) { return k.Mix(c(0), c(10), c(0.25)) }, 2.5},
		{"step below", func() (ir.Index, error) { return k.Step(c(0.5), c(0.4)) }, 0},
		{"step above", func() (ir.Index, error) { return k.Step(c(0.5), c(0.6)) }, 1},
		{"linear step", func() (ir.Index, error) { return k.LinearStep(c(0), c(2), c(0.5)) }, 0.25},
		{"smooth step", func() (ir.Index, error) { return k.SmoothStep(c(0), c(2), c(1)) }, 0.5},
		{"smoother step", func() (ir.Index, error) { return k.SmootherStep(c(0), c(2), c(3)) }, 1},
		{"tiers", func() (ir.Index, error) { return k.Tiers(c(0.55), c(4)) }, 0.5},
		{"smooth tiers on level", func() (ir.Index, error) { return k.SmoothTiers(c(0.5), c(4)) }, 0.5},
		{"sigmoid center", func() (ir.Index, error) { return k.Sigmoid(c(2), c(2), c(10)) }, 0.5},
		{"curve section below", func() (ir.Index, error) { return k.CurveSection(c(7), c(1), c(2), c(0), c(1), c(0)) }, 7},
		{"curve section mid", func() (ir.Index, error) { return k.CurveSection(c(7), c(1), c(2), c(0), c(1), c(1.5)) }, 0.5},
		{"select low", func() (ir.Index, error) { return k.Select(c(1), c(2), c(0.2), c(0.5), c(0)) }, 1},
		{"select high", func() (ir.Index, error) { return k.Select(c(1), c(2), c(0.8), c(0.5), c(0.1)) }, 2},
		{"select blend", func() (ir.Index, error) { return k.Select(c(1), c(2), c(0.5), c(0.5), c(0.1)) }, 1.5},
		{"ease linear", func() (ir.Index, error) { return k.Ease(c(0.25), ir.EaseLinear) }, 0.25},
		{"ease clamps", func() (ir.Index, error) { return k.Ease(c(4), ir.EaseOutBounce) }, 1},
		{"abs", func() (ir.Index, error) { return k.Abs(c(-3)) }, 3},
		{"cos", func() (ir.Index, error) { return k.Cos(c(0)) }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := must(t)(tt.build())
			v, err := e.Scalar2D(0, 0, idx)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v, 1e-6)
		})
	}
}

func TestSequences(t *testing.T) {
	k := kernel.New()
	for _, v := range []float64{2, 3, 4, 5} {
		k.Constant(v)
	}
	e := New(k)

	tests := []struct {
		name  string
		build func() (ir.Index, error)
		want  float64
	}{
		{"add", func() (ir.Index, error) { return k.AddSequence(0, 4, 1) }, 14},
		{"multiply strided", func() (ir.Index, error) { return k.MultiplySequence(0, 2, 2) }, 8},
		{"max", func() (ir.Index, error) { return k.MaxSequence(0, 4, 1) }, 5},
		{"min", func() (ir.Index, error) { return k.MinSequence(1, 3, 1) }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := e.Scalar2D(0, 0, must(t)(tt.build()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDomainTransforms(t *testing.T) {
	k := kernel.New()
	x, y := k.X(), k.Y()
	two := k.Constant(2)
	e := New(k)

	scaled := must(t)(k.ScaleX(x, two))
	v, _ := e.Scalar2D(1.5, 4, scaled)
	assert.Equal(t, 3.0, v)

	untouched := must(t)(k.ScaleX(y, two))
	v, _ = e.Scalar2D(1.5, 4, untouched)
	assert.Equal(t, 4.0, v)

	moved := must(t)(k.Translate(y, two))
	v, _ = e.Scalar2D(1.5, 4, moved)
	assert.Equal(t, 6.0, v)

	// Axes beyond the coordinate arity are ignored.
	w := must(t)(k.TranslateW(x, two))
	v, _ = e.Scalar2D(1.5, 4, w)
	assert.Equal(t, 1.5, v)

	rot := must(t)(k.Rotate(x, k.Constant(math.Pi/2), k.Zero(), k.Zero(), k.One()))
	v, _ = e.Scalar2D(1, 2, rot)
	assert.InDelta(t, -2, v, 1e-12)
	v, _ = e.Scalar3D(1, 2, 5, rot)
	assert.InDelta(t, -2, v, 1e-12)

	r := k.Radial()
	v, _ = e.Scalar2D(3, 4, r)
	assert.Equal(t, 5.0, v)

	z := k.Z()
	v, _ = e.Scalar2D(3, 4, z)
	assert.Equal(t, 0.0, v)
}

func TestDerivative(t *testing.T) {
	k := kernel.New()
	x := k.X()
	sq := must(t)(k.Multiply(x, x))
	d := must(t)(k.DX(sq, k.Constant(0.01)))
	dy := must(t)(k.DY(sq, k.Constant(0.01)))
	e := New(k)

	v, err := e.Scalar2D(3, 1, d)
	require.NoError(t, err)
	assert.InDelta(t, 6, v, 1e-9)

	v, _ = e.Scalar2D(3, 1, dy)
	assert.Equal(t, 0.0, v)
}

func TestColors(t *testing.T) {
	k := kernel.New()
	one, zero := k.One(), k.Zero()
	e := New(k)

	red := must(t)(k.CombineHSVA(zero, one, one, one))
	c, err := e.Color2D(0, 0, red)
	require.NoError(t, err)
	assert.Equal(t, ir.RGBA{R: 1, G: 0, B: 0, A: 1}, c)

	// Hue wraps: 1 + 1/3 is green.
	green := must(t)(k.CombineHSVA(k.Constant(4.0/3.0), one, one, one))
	c, _ = e.Color2D(0, 0, green)
	assert.InDelta(t, 0, c.R, 1e-9)
	assert.InDelta(t, 1, c.G, 1e-9)

	rgba := must(t)(k.CombineRGBA(k.X(), k.Y(), zero, one))
	c, _ = e.Color3D(0.25, 0.5, 9, rgba)
	assert.Equal(t, ir.RGBA{R: 0.25, G: 0.5, B: 0, A: 1}, c)

	lit := k.Color(ir.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 0.4})
	c, _ = e.Color6D(1, 2, 3, 4, 5, 6, lit)
	assert.Equal(t, ir.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 0.4}, c)
}

func TestRandomizeIsCoordinateIndependent(t *testing.T) {
	k := kernel.New()
	r := must(t)(k.Randomize(k.Seed(4), k.Constant(10), k.Constant(20)))
	e := New(k)

	a, _ := e.Scalar2D(0, 0, r)
	b, _ := e.Scalar4D(5, 6, 7, 8, r)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 10.0)
	assert.Less(t, a, 20.0)
}

func TestToSeed(t *testing.T) {
	assert.Equal(t, uint32(7), toSeed(7.9))
	assert.Equal(t, uint32(math.MaxUint32), toSeed(-1))
	assert.Equal(t, uint32(0), toSeed(math.NaN()))
	assert.Equal(t, uint32(1), toSeed(1<<32+1))
}
