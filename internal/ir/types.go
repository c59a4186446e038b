package ir

import (
	"fmt"
	"strings"
)

// Index identifies a node by its position in a kernel's node list.
// Indices are assigned in creation order and never change.
type Index uint32

// ValueKind distinguishes the two result shapes a node can produce.
type ValueKind uint8

const (
	Scalar ValueKind = iota // a single float64
	Color                   // four float64 channels
)

func (k ValueKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Color:
		return "color"
	default:
		return "unknown"
	}
}

// RGBA is a color with float64 channels, nominally in [0,1].
type RGBA struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// Gray returns an opaque gray color with all three channels set to v.
func Gray(v float64) RGBA {
	return RGBA{R: v, G: v, B: v, A: 1}
}

// Axis names one coordinate axis of the six-dimensional working space.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisW
	AxisU
	AxisV

	// AxisAll applies a domain transform uniformly to every axis.
	AxisAll
)

// MaxDims is the largest coordinate arity the engine evaluates.
const MaxDims = 6

// MaxOctaves bounds the octave count of every fractal, whether summed at
// evaluation time by a Fractal node or synthesized by the kernel.
const MaxOctaves = 64

var axisNames = [...]string{"x", "y", "z", "w", "u", "v", "all"}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "unknown"
}

// InterpKind selects how lattice basis functions blend between lattice points.
type InterpKind uint8

const (
	InterpNone InterpKind = iota
	InterpLinear
	InterpHermite
	InterpQuintic
)

var interpNames = [...]string{"none", "linear", "hermite", "quintic"}

func (k InterpKind) String() string {
	if int(k) < len(interpNames) {
		return interpNames[k]
	}
	return "unknown"
}

// ParseInterp converts a lowercase name into an InterpKind.
func ParseInterp(s string) (InterpKind, error) {
	for i, n := range interpNames {
		if strings.EqualFold(n, s) {
			return InterpKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q: must be one of %v", s, interpNames)
}

// DistanceKind selects the metric used by cellular basis functions.
type DistanceKind uint8

const (
	DistanceEuclid DistanceKind = iota
	DistanceManhattan
	DistanceLeastAxis
	DistanceGreatestAxis
)

var distanceNames = [...]string{"euclid", "manhattan", "leastaxis", "greatestaxis"}

func (k DistanceKind) String() string {
	if int(k) < len(distanceNames) {
		return distanceNames[k]
	}
	return "unknown"
}

// ParseDistance converts a lowercase name into a DistanceKind.
func ParseDistance(s string) (DistanceKind, error) {
	for i, n := range distanceNames {
		if strings.EqualFold(n, s) {
			return DistanceKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown distance %q: must be one of %v", s, distanceNames)
}

// BasisKind selects the primitive noise generator of a fractal layer.
type BasisKind uint8

const (
	BasisValue BasisKind = iota
	BasisGradient
	BasisSimplex
	BasisCellular
)

var basisNames = [...]string{"value", "gradient", "simplex", "cellular"}

func (k BasisKind) String() string {
	if int(k) < len(basisNames) {
		return basisNames[k]
	}
	return "unknown"
}

// ParseBasis converts a lowercase name into a BasisKind.
func ParseBasis(s string) (BasisKind, error) {
	for i, n := range basisNames {
		if strings.EqualFold(n, s) {
			return BasisKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown basis %q: must be one of %v", s, basisNames)
}

// EaseCurve names an easing curve applied by Ease nodes.
type EaseCurve uint8

const (
	EaseLinear EaseCurve = iota
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInQuart
	EaseOutQuart
	EaseInOutQuart
	EaseInQuint
	EaseOutQuint
	EaseInOutQuint
	EaseInSine
	EaseOutSine
	EaseInOutSine
	EaseInExpo
	EaseOutExpo
	EaseInOutExpo
	EaseInCirc
	EaseOutCirc
	EaseInOutCirc
	EaseInElastic
	EaseOutElastic
	EaseInOutElastic
	EaseInBack
	EaseOutBack
	EaseInOutBack
	EaseInBounce
	EaseOutBounce
	EaseInOutBounce

	easeCount
)

var easeNames = [easeCount]string{
	"linear",
	"in_quad", "out_quad", "in_out_quad",
	"in_cubic", "out_cubic", "in_out_cubic",
	"in_quart", "out_quart", "in_out_quart",
	"in_quint", "out_quint", "in_out_quint",
	"in_sine", "out_sine", "in_out_sine",
	"in_expo", "out_expo", "in_out_expo",
	"in_circ", "out_circ", "in_out_circ",
	"in_elastic", "out_elastic", "in_out_elastic",
	"in_back", "out_back", "in_out_back",
	"in_bounce", "out_bounce", "in_out_bounce",
}

func (c EaseCurve) String() string {
	if c < easeCount {
		return easeNames[c]
	}
	return "unknown"
}

// Valid reports whether c names a known curve.
func (c EaseCurve) Valid() bool { return c < easeCount }

// ParseEase converts a curve name such as "in_out_cubic" into an EaseCurve.
func ParseEase(s string) (EaseCurve, error) {
	for i, n := range easeNames {
		if strings.EqualFold(n, s) {
			return EaseCurve(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ease curve %q", s)
}

// EaseCurves returns every curve name in declaration order.
func EaseCurves() []string {
	out := make([]string, len(easeNames))
	copy(out, easeNames[:])
	return out
}
