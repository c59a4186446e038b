package kernel

import (
	"fmt"
	"math"

	"github.com/roach88/noisegraph/internal/ir"
)

// atomically runs build on a fork and merges it only on success, so a
// composite builder either appends its whole subgraph or nothing.
func (k *Kernel) atomically(build func(f *Kernel) (ir.Index, error)) (ir.Index, error) {
	f := k.Fork()
	idx, err := build(f)
	if err != nil {
		return 0, err
	}
	if err := k.Merge(f); err != nil {
		return 0, err
	}
	return idx, nil
}

// Rotation applies a domain rotation to a layer.
type Rotation struct {
	Angle      float64
	AX, AY, AZ float64
}

// DefaultRotation is the rotation layers use when none is given.
var DefaultRotation = Rotation{Angle: 0.5, AZ: 1}

type layerShape uint8

const (
	shapeFractal layerShape = iota
	shapeRidged             // 1 - |b|
	shapeBillow             // 2|b| - 1
)

// basis appends a seed node and a basis node of the given kind. Cellular
// layers use F1 distance only, with the Euclidean metric.
func (k *Kernel) basis(kind ir.BasisKind, interp ir.Index, seed uint32) (ir.Index, error) {
	s := k.Seed(seed)
	switch kind {
	case ir.BasisValue:
		return k.ValueBasis(interp, s)
	case ir.BasisGradient:
		return k.GradientBasis(interp, s)
	case ir.BasisSimplex:
		if _, ok := k.Node(interp); !ok {
			return 0, ir.NewInvalidReference(interp, "layer interpolation references node %d, kernel has %d nodes", interp, k.Len())
		}
		return k.SimplexBasis(s)
	case ir.BasisCellular:
		one, zero := k.One(), k.Zero()
		dist := k.Constant(float64(ir.DistanceEuclid))
		return k.CellularBasis(
			[4]ir.Index{one, zero, zero, zero},
			[4]ir.Index{zero, zero, zero, zero},
			dist, s)
	default:
		return 0, &ir.Error{Code: ir.ErrCodeInvalidReference, Message: fmt.Sprintf("unknown basis kind %d", kind)}
	}
}

func (k *Kernel) layer(shape layerShape, kind ir.BasisKind, interp ir.Index, scale, frequency float64, seed uint32, rot *Rotation) (ir.Index, error) {
	return k.atomically(func(f *Kernel) (ir.Index, error) {
		b, err := f.basis(kind, interp, seed)
		if err != nil {
			return 0, err
		}
		switch shape {
		case shapeRidged:
			if b, err = f.Abs(b); err != nil {
				return 0, err
			}
			if b, err = f.Subtract(f.One(), b); err != nil {
				return 0, err
			}
		case shapeBillow:
			if b, err = f.Abs(b); err != nil {
				return 0, err
			}
			if b, err = f.Multiply(b, f.Constant(2)); err != nil {
				return 0, err
			}
			if b, err = f.Subtract(b, f.One()); err != nil {
				return 0, err
			}
		}
		if b, err = f.Scale(b, f.Constant(frequency)); err != nil {
			return 0, err
		}
		if rot != nil {
			ax, ay, az := normalizeAxis(rot.AX, rot.AY, rot.AZ)
			b, err = f.Rotate(b, f.Constant(rot.Angle), f.Constant(ax), f.Constant(ay), f.Constant(az))
			if err != nil {
				return 0, err
			}
		}
		return f.Multiply(b, f.Constant(scale))
	})
}

func normalizeAxis(x, y, z float64) (float64, float64, float64) {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return 0, 0, 1
	}
	return x / l, y / l, z / l
}

// FractalLayer is one octave: the basis scaled in domain by frequency,
// optionally rotated, and multiplied by scale. rot may be nil.
func (k *Kernel) FractalLayer(kind ir.BasisKind, interp ir.Index, scale, frequency float64, seed uint32, rot *Rotation) (ir.Index, error) {
	return k.layer(shapeFractal, kind, interp, scale, frequency, seed, rot)
}

// RidgedLayer is FractalLayer over 1 - |basis|.
func (k *Kernel) RidgedLayer(kind ir.BasisKind, interp ir.Index, scale, frequency float64, seed uint32, rot *Rotation) (ir.Index, error) {
	return k.layer(shapeRidged, kind, interp, scale, frequency, seed, rot)
}

// BillowLayer is FractalLayer over 2|basis| - 1.
func (k *Kernel) BillowLayer(kind ir.BasisKind, interp ir.Index, scale, frequency float64, seed uint32, rot *Rotation) (ir.Index, error) {
	return k.layer(shapeBillow, kind, interp, scale, frequency, seed, rot)
}

// Fractal sums octaves of layer evaluated at the executor: octave i is
// sampled at frequency*lacunarity^i, weighted by persistence^i and
// re-seeded with seed+i.
func (k *Kernel) Fractal(seed, layer, persistence, lacunarity, octaves, frequency ir.Index) (ir.Index, error) {
	return k.push(ir.Fractal{
		Seed:        seed,
		Layer:       layer,
		Persistence: persistence,
		Lacunarity:  lacunarity,
		Octaves:     octaves,
		Frequency:   frequency,
	})
}

// Octave seeds are spaced this far apart.
const octaveSeedStride = 1000

// FBM sums octaves of plain layers. Octave i uses seed seed+1000*i,
// frequency frequency*2^i and amplitude 0.5^i. octaves must lie in
// [1, ir.MaxOctaves].
func (k *Kernel) FBM(kind ir.BasisKind, interp ir.InterpKind, octaves uint32, frequency float64, seed uint32, rot bool) (ir.Index, error) {
	return k.octaveSum(shapeFractal, kind, interp, octaves, frequency, seed, rot)
}

// RidgedMultifractal sums octaves of ridged layers.
func (k *Kernel) RidgedMultifractal(kind ir.BasisKind, interp ir.InterpKind, octaves uint32, frequency float64, seed uint32, rot bool) (ir.Index, error) {
	return k.octaveSum(shapeRidged, kind, interp, octaves, frequency, seed, rot)
}

// Billow sums octaves of billow layers.
func (k *Kernel) Billow(kind ir.BasisKind, interp ir.InterpKind, octaves uint32, frequency float64, seed uint32, rot bool) (ir.Index, error) {
	return k.octaveSum(shapeBillow, kind, interp, octaves, frequency, seed, rot)
}

func (k *Kernel) octaveSum(shape layerShape, kind ir.BasisKind, interp ir.InterpKind, octaves uint32, frequency float64, seed uint32, rot bool) (ir.Index, error) {
	if octaves == 0 {
		return 0, &ir.Error{Code: ir.ErrCodeInvalidReference, Message: "fractal needs at least one octave"}
	}
	if octaves > ir.MaxOctaves {
		return 0, &ir.Error{
			Code:    ir.ErrCodeInvalidReference,
			Message: fmt.Sprintf("fractal has %d octaves, at most %d allowed", octaves, ir.MaxOctaves),
		}
	}
	return k.atomically(func(f *Kernel) (ir.Index, error) {
		interpIdx := f.Constant(float64(interp))

		var sum ir.Index
		for i := uint32(0); i < octaves; i++ {
			octaveSeed := seed + octaveSeedStride*i
			var r *Rotation
			if rot {
				rr := octaveRotation(octaveSeed)
				r = &rr
			}
			l, err := f.layer(shape, kind, interpIdx,
				math.Pow(0.5, float64(i)),
				frequency*math.Pow(2, float64(i)),
				octaveSeed, r)
			if err != nil {
				return 0, err
			}
			if i == 0 {
				sum = l
				continue
			}
			if sum, err = f.Add(sum, l); err != nil {
				return 0, err
			}
		}
		return sum, nil
	})
}

// octaveRotation picks a pseudo-random rotation from a seeded LCG so that
// octave lattices do not line up.
func octaveRotation(seed uint32) Rotation {
	s := uint64(seed)
	next := func() float64 {
		s = s*6364136223846793005 + 1442695040888963407
		return float64(s>>11) / (1 << 53)
	}
	return Rotation{
		Angle: next() * 2 * math.Pi,
		AX:    next()*2 - 1,
		AY:    next()*2 - 1,
		AZ:    next()*2 - 1,
	}
}
