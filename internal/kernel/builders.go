package kernel

import (
	"math"

	"github.com/roach88/noisegraph/internal/ir"
)

// Constant appends a node evaluating to v everywhere.
func (k *Kernel) Constant(v float64) ir.Index {
	return k.mustPush(ir.Constant{Value: v})
}

func (k *Kernel) Pi() ir.Index     { return k.Constant(math.Pi) }
func (k *Kernel) E() ir.Index      { return k.Constant(math.E) }
func (k *Kernel) One() ir.Index    { return k.Constant(1) }
func (k *Kernel) Zero() ir.Index   { return k.Constant(0) }
func (k *Kernel) Point5() ir.Index { return k.Constant(0.5) }
func (k *Kernel) Sqrt2() ir.Index  { return k.Constant(math.Sqrt2) }

// Seed appends a seed node. Basis functions take their seed from a seed
// node so Seeder and Fractal can override it.
func (k *Kernel) Seed(v uint32) ir.Index {
	return k.mustPush(ir.Seed{Value: v})
}

// Seeder evaluates src with every seed node under it replaced by the value
// of seed.
func (k *Kernel) Seeder(seed, src ir.Index) (ir.Index, error) {
	return k.push(ir.Seeder{Seed: seed, Source: src})
}

// ---------------------------------------------------------------------------
// Basis functions
// ---------------------------------------------------------------------------

func (k *Kernel) ValueBasis(interp, seed ir.Index) (ir.Index, error) {
	return k.push(ir.LatticeBasis{Kind: ir.BasisValue, Interp: interp, Seed: seed})
}

func (k *Kernel) GradientBasis(interp, seed ir.Index) (ir.Index, error) {
	return k.push(ir.LatticeBasis{Kind: ir.BasisGradient, Interp: interp, Seed: seed})
}

func (k *Kernel) SimplexBasis(seed ir.Index) (ir.Index, error) {
	return k.push(ir.SimplexBasis{Seed: seed})
}

// CellularBasis weights the four nearest feature distances by f and the
// four matching cell values by d.
func (k *Kernel) CellularBasis(f, d [4]ir.Index, distance, seed ir.Index) (ir.Index, error) {
	return k.push(ir.CellularBasis{F: f, D: d, Distance: distance, Seed: seed})
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func (k *Kernel) binary(op ir.Op, a, b ir.Index) (ir.Index, error) {
	return k.push(ir.Binary{Kind: op, A: a, B: b})
}

func (k *Kernel) Add(a, b ir.Index) (ir.Index, error)      { return k.binary(ir.OpAdd, a, b) }
func (k *Kernel) Subtract(a, b ir.Index) (ir.Index, error) { return k.binary(ir.OpSubtract, a, b) }
func (k *Kernel) Multiply(a, b ir.Index) (ir.Index, error) { return k.binary(ir.OpMultiply, a, b) }
func (k *Kernel) Divide(a, b ir.Index) (ir.Index, error)   { return k.binary(ir.OpDivide, a, b) }
func (k *Kernel) Maximum(a, b ir.Index) (ir.Index, error)  { return k.binary(ir.OpMaximum, a, b) }
func (k *Kernel) Minimum(a, b ir.Index) (ir.Index, error)  { return k.binary(ir.OpMinimum, a, b) }
func (k *Kernel) Pow(a, b ir.Index) (ir.Index, error)      { return k.binary(ir.OpPow, a, b) }
func (k *Kernel) Bias(a, b ir.Index) (ir.Index, error)     { return k.binary(ir.OpBias, a, b) }
func (k *Kernel) Gain(a, b ir.Index) (ir.Index, error)     { return k.binary(ir.OpGain, a, b) }

// ---------------------------------------------------------------------------
// Sequences
// ---------------------------------------------------------------------------

// sequence folds count nodes starting at base, stepping by stride. Every
// referenced index must exist; count and stride must be at least 1.
func (k *Kernel) sequence(op ir.Op, base ir.Index, count, stride uint32) (ir.Index, error) {
	if count == 0 || stride == 0 {
		return 0, ir.NewInvalidReference(base, "%s needs count >= 1 and stride >= 1, got count=%d stride=%d", op, count, stride)
	}
	last := uint64(base) + uint64(count-1)*uint64(stride)
	if last >= uint64(k.Len()) {
		return 0, ir.NewInvalidReference(base, "%s reaches node %d, kernel has %d nodes", op, last, k.Len())
	}
	return k.push(ir.Sequence{Kind: op, Base: base, Count: count, Stride: stride})
}

func (k *Kernel) AddSequence(base ir.Index, count, stride uint32) (ir.Index, error) {
	return k.sequence(ir.OpAddSequence, base, count, stride)
}

func (k *Kernel) MultiplySequence(base ir.Index, count, stride uint32) (ir.Index, error) {
	return k.sequence(ir.OpMultiplySequence, base, count, stride)
}

func (k *Kernel) MaxSequence(base ir.Index, count, stride uint32) (ir.Index, error) {
	return k.sequence(ir.OpMaxSequence, base, count, stride)
}

func (k *Kernel) MinSequence(base ir.Index, count, stride uint32) (ir.Index, error) {
	return k.sequence(ir.OpMinSequence, base, count, stride)
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

func (k *Kernel) Mix(low, high, control ir.Index) (ir.Index, error) {
	return k.push(ir.Mix{Low: low, High: high, Control: control})
}

func (k *Kernel) Select(low, high, control, threshold, falloff ir.Index) (ir.Index, error) {
	return k.push(ir.Select{Low: low, High: high, Control: control, Threshold: threshold, Falloff: falloff})
}

func (k *Kernel) Clamp(src, low, high ir.Index) (ir.Index, error) {
	return k.push(ir.Clamp{Source: src, Low: low, High: high})
}

// ---------------------------------------------------------------------------
// Scalar functions
// ---------------------------------------------------------------------------

func (k *Kernel) unary(op ir.Op, src ir.Index) (ir.Index, error) {
	return k.push(ir.Unary{Kind: op, Source: src})
}

func (k *Kernel) Cos(src ir.Index) (ir.Index, error)  { return k.unary(ir.OpCos, src) }
func (k *Kernel) Sin(src ir.Index) (ir.Index, error)  { return k.unary(ir.OpSin, src) }
func (k *Kernel) Tan(src ir.Index) (ir.Index, error)  { return k.unary(ir.OpTan, src) }
func (k *Kernel) Acos(src ir.Index) (ir.Index, error) { return k.unary(ir.OpAcos, src) }
func (k *Kernel) Asin(src ir.Index) (ir.Index, error) { return k.unary(ir.OpAsin, src) }
func (k *Kernel) Atan(src ir.Index) (ir.Index, error) { return k.unary(ir.OpAtan, src) }
func (k *Kernel) Abs(src ir.Index) (ir.Index, error)  { return k.unary(ir.OpAbs, src) }

func (k *Kernel) Sigmoid(src, center, ramp ir.Index) (ir.Index, error) {
	return k.push(ir.Sigmoid{Source: src, Center: center, Ramp: ramp})
}

// ---------------------------------------------------------------------------
// Smoothing and steps
// ---------------------------------------------------------------------------

func (k *Kernel) Tiers(src, count ir.Index) (ir.Index, error) {
	return k.push(ir.Tiers{Source: src, Count: count})
}

func (k *Kernel) SmoothTiers(src, count ir.Index) (ir.Index, error) {
	return k.push(ir.Tiers{Smooth: true, Source: src, Count: count})
}

func (k *Kernel) Step(value, control ir.Index) (ir.Index, error) {
	return k.push(ir.Step{Value: value, Control: control})
}

func (k *Kernel) LinearStep(low, high, control ir.Index) (ir.Index, error) {
	return k.push(ir.Ramp{Kind: ir.OpLinearStep, Low: low, High: high, Control: control})
}

func (k *Kernel) SmoothStep(low, high, control ir.Index) (ir.Index, error) {
	return k.push(ir.Ramp{Kind: ir.OpSmoothStep, Low: low, High: high, Control: control})
}

func (k *Kernel) SmootherStep(low, high, control ir.Index) (ir.Index, error) {
	return k.push(ir.Ramp{Kind: ir.OpSmootherStep, Low: low, High: high, Control: control})
}

func (k *Kernel) CurveSection(lowv, t0, t1, v0, v1, control ir.Index) (ir.Index, error) {
	return k.push(ir.CurveSection{LowV: lowv, T0: t0, T1: t1, V0: v0, V1: v1, Control: control})
}

// Ease clamps src to [0,1] and maps it through curve.
func (k *Kernel) Ease(src ir.Index, curve ir.EaseCurve) (ir.Index, error) {
	if !curve.Valid() {
		return 0, ir.NewInvalidReference(src, "unknown ease curve %d", curve)
	}
	return k.push(ir.Ease{Source: src, Curve: curve})
}

// ---------------------------------------------------------------------------
// Patterns and randomness
// ---------------------------------------------------------------------------

func (k *Kernel) Radial() ir.Index  { return k.mustPush(ir.Radial{}) }
func (k *Kernel) HexBump() ir.Index { return k.mustPush(ir.HexBump{}) }

func (k *Kernel) HexTile(seed ir.Index) (ir.Index, error) {
	return k.push(ir.HexTile{Seed: seed})
}

func (k *Kernel) Randomize(seed, low, high ir.Index) (ir.Index, error) {
	return k.push(ir.Randomize{Seed: seed, Low: low, High: high})
}

// ---------------------------------------------------------------------------
// Color
// ---------------------------------------------------------------------------

func (k *Kernel) Color(c ir.RGBA) ir.Index {
	return k.mustPush(ir.ColorLiteral{Value: c})
}

func (k *Kernel) CombineRGBA(r, g, b, a ir.Index) (ir.Index, error) {
	return k.push(ir.Combine{Kind: ir.OpCombineRGBA, Channels: [4]ir.Index{r, g, b, a}})
}

// CombineHSVA converts hue, saturation, value and alpha channels to RGBA.
// Hue wraps into [0,1).
func (k *Kernel) CombineHSVA(h, s, v, a ir.Index) (ir.Index, error) {
	return k.push(ir.Combine{Kind: ir.OpCombineHSVA, Channels: [4]ir.Index{h, s, v, a}})
}

// ScaleOffset returns src*scale + offset, synthesizing the constants.
func (k *Kernel) ScaleOffset(src ir.Index, scale, offset float64) (ir.Index, error) {
	return k.atomically(func(f *Kernel) (ir.Index, error) {
		m, err := f.Multiply(src, f.Constant(scale))
		if err != nil {
			return 0, err
		}
		return f.Add(m, f.Constant(offset))
	})
}
