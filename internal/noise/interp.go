package noise

import "github.com/roach88/noisegraph/internal/ir"

// Interp applies the blending kernel of kind to t in [0,1].
func Interp(kind ir.InterpKind, t float64) float64 {
	switch kind {
	case ir.InterpLinear:
		return t
	case ir.InterpHermite:
		return Hermite(t)
	case ir.InterpQuintic:
		return Quintic(t)
	default:
		return 0
	}
}

// Hermite is the cubic smoothstep 3t²-2t³.
func Hermite(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Quintic is the quintic smootherstep 6t⁵-15t⁴+10t³.
func Quintic(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// Lerp blends a and b by t.
func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}
