package compiler

import (
	"fmt"
	"math"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/kernel"
)

// function describes one callable name in the expression language.
type function struct {
	// params has one byte per parameter: 'n' is a node expression, 's' is
	// a static numeric literal.
	params string
	// min is the number of required parameters; zero means all of them.
	min   int
	build func(f *kernel.Kernel, a args) (ir.Index, error)
}

func (fn function) required() int {
	if fn.min == 0 {
		return len(fn.params)
	}
	return fn.min
}

// args holds evaluated call arguments by parameter position.
type args struct {
	nodes []ir.Index
	lits  []float64
	n     int
}

// argError reports a bad static argument at parameter i.
type argError struct {
	i   int
	msg string
}

func (e *argError) Error() string { return e.msg }

func (a args) has(i int) bool { return i < a.n }

func (a args) uint(i int, what string) (uint32, error) {
	v := a.lits[i]
	if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, &argError{i, fmt.Sprintf("%s must be a non-negative integer, got %g", what, v)}
	}
	return uint32(v), nil
}

func (a args) basis(i int) (ir.BasisKind, error) {
	v, err := a.uint(i, "basis")
	if err != nil || v > uint32(ir.BasisCellular) {
		return 0, &argError{i, fmt.Sprintf("basis must be value, gradient, simplex or cellular, got %g", a.lits[i])}
	}
	return ir.BasisKind(v), nil
}

func (a args) interp(i int) (ir.InterpKind, error) {
	v, err := a.uint(i, "interpolation")
	if err != nil || v > uint32(ir.InterpQuintic) {
		return 0, &argError{i, fmt.Sprintf("interpolation must be none, linear, hermite or quintic, got %g", a.lits[i])}
	}
	return ir.InterpKind(v), nil
}

// optional returns the literal at i, or def when the argument was omitted.
func (a args) optional(i int, def float64) float64 {
	if a.has(i) {
		return a.lits[i]
	}
	return def
}

func leaf(b func(*kernel.Kernel) ir.Index) function {
	return function{build: func(f *kernel.Kernel, _ args) (ir.Index, error) { return b(f), nil }}
}

func fn1(b func(*kernel.Kernel, ir.Index) (ir.Index, error)) function {
	return function{params: "n", build: func(f *kernel.Kernel, a args) (ir.Index, error) {
		return b(f, a.nodes[0])
	}}
}

func fn2(b func(*kernel.Kernel, ir.Index, ir.Index) (ir.Index, error)) function {
	return function{params: "nn", build: func(f *kernel.Kernel, a args) (ir.Index, error) {
		return b(f, a.nodes[0], a.nodes[1])
	}}
}

func fn3(b func(*kernel.Kernel, ir.Index, ir.Index, ir.Index) (ir.Index, error)) function {
	return function{params: "nnn", build: func(f *kernel.Kernel, a args) (ir.Index, error) {
		return b(f, a.nodes[0], a.nodes[1], a.nodes[2])
	}}
}

func sequenceFn(b func(*kernel.Kernel, ir.Index, uint32, uint32) (ir.Index, error)) function {
	return function{params: "nss", build: func(f *kernel.Kernel, a args) (ir.Index, error) {
		count, err := a.uint(1, "count")
		if err != nil {
			return 0, err
		}
		stride, err := a.uint(2, "stride")
		if err != nil {
			return 0, err
		}
		return b(f, a.nodes[0], count, stride)
	}}
}

type layerBuilder func(*kernel.Kernel, ir.BasisKind, ir.Index, float64, float64, uint32, *kernel.Rotation) (ir.Index, error)

// layerFn takes (basis, interp, scale, frequency, seed[, rot, angle, ax, ay, az]).
// Rotation is on unless rot is 0.
func layerFn(b layerBuilder) function {
	return function{params: "snssssssss", min: 5, build: func(f *kernel.Kernel, a args) (ir.Index, error) {
		kind, err := a.basis(0)
		if err != nil {
			return 0, err
		}
		seed, err := a.uint(4, "seed")
		if err != nil {
			return 0, err
		}
		var rot *kernel.Rotation
		if a.optional(5, 1) != 0 {
			d := kernel.DefaultRotation
			rot = &kernel.Rotation{
				Angle: a.optional(6, d.Angle),
				AX:    a.optional(7, d.AX),
				AY:    a.optional(8, d.AY),
				AZ:    a.optional(9, d.AZ),
			}
		}
		return b(f, kind, a.nodes[1], a.lits[2], a.lits[3], seed, rot)
	}}
}

type octaveBuilder func(*kernel.Kernel, ir.BasisKind, ir.InterpKind, uint32, float64, uint32, bool) (ir.Index, error)

// octaveFn takes (basis, interp, octaves, frequency, seed[, rot]).
func octaveFn(b octaveBuilder) function {
	return function{params: "ssssss", min: 5, build: func(f *kernel.Kernel, a args) (ir.Index, error) {
		kind, err := a.basis(0)
		if err != nil {
			return 0, err
		}
		interp, err := a.interp(1)
		if err != nil {
			return 0, err
		}
		octaves, err := a.uint(2, "octaves")
		if err != nil {
			return 0, err
		}
		seed, err := a.uint(4, "seed")
		if err != nil {
			return 0, err
		}
		return b(f, kind, interp, octaves, a.lits[3], seed, a.optional(5, 1) != 0)
	}}
}

var functions map[string]function

func init() {
	type K = kernel.Kernel
	functions = map[string]function{
		"pi":     leaf((*K).Pi),
		"e":      leaf((*K).E),
		"one":    leaf((*K).One),
		"zero":   leaf((*K).Zero),
		"point5": leaf((*K).Point5),
		"sqrt2":  leaf((*K).Sqrt2),

		"seed": {params: "s", build: func(f *K, a args) (ir.Index, error) {
			v, err := a.uint(0, "seed")
			if err != nil {
				return 0, err
			}
			return f.Seed(v), nil
		}},
		"seeder": fn2((*K).Seeder),

		"value_basis":    fn2((*K).ValueBasis),
		"gradient_basis": fn2((*K).GradientBasis),
		"simplex_basis":  fn1((*K).SimplexBasis),
		"cellular_basis": {params: "nnnnnnnnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.CellularBasis(
				[4]ir.Index{n[0], n[1], n[2], n[3]},
				[4]ir.Index{n[4], n[5], n[6], n[7]},
				n[8], n[9])
		}},

		"add":      fn2((*K).Add),
		"subtract": fn2((*K).Subtract),
		"multiply": fn2((*K).Multiply),
		"divide":   fn2((*K).Divide),
		"max":      fn2((*K).Maximum),
		"min":      fn2((*K).Minimum),
		"pow":      fn2((*K).Pow),
		"bias":     fn2((*K).Bias),
		"gain":     fn2((*K).Gain),

		"scale":       fn2((*K).Scale),
		"scale_x":     fn2((*K).ScaleX),
		"scale_y":     fn2((*K).ScaleY),
		"scale_z":     fn2((*K).ScaleZ),
		"scale_w":     fn2((*K).ScaleW),
		"scale_u":     fn2((*K).ScaleU),
		"scale_v":     fn2((*K).ScaleV),
		"translate":   fn2((*K).Translate),
		"translate_x": fn2((*K).TranslateX),
		"translate_y": fn2((*K).TranslateY),
		"translate_z": fn2((*K).TranslateZ),
		"translate_w": fn2((*K).TranslateW),
		"translate_u": fn2((*K).TranslateU),
		"translate_v": fn2((*K).TranslateV),
		"rotate": {params: "nnnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.Rotate(n[0], n[1], n[2], n[3], n[4])
		}},

		"add_sequence":      sequenceFn((*K).AddSequence),
		"multiply_sequence": sequenceFn((*K).MultiplySequence),
		"max_sequence":      sequenceFn((*K).MaxSequence),
		"min_sequence":      sequenceFn((*K).MinSequence),

		"mix": fn3((*K).Mix),
		"select": {params: "nnnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.Select(n[0], n[1], n[2], n[3], n[4])
		}},
		"clamp": fn3((*K).Clamp),

		"cos":     fn1((*K).Cos),
		"sin":     fn1((*K).Sin),
		"tan":     fn1((*K).Tan),
		"acos":    fn1((*K).Acos),
		"asin":    fn1((*K).Asin),
		"atan":    fn1((*K).Atan),
		"abs":     fn1((*K).Abs),
		"sigmoid": fn3((*K).Sigmoid),

		"tiers":        fn2((*K).Tiers),
		"smooth_tiers": fn2((*K).SmoothTiers),

		"x":      leaf((*K).X),
		"y":      leaf((*K).Y),
		"z":      leaf((*K).Z),
		"w":      leaf((*K).W),
		"u":      leaf((*K).U),
		"v":      leaf((*K).V),
		"radial": leaf((*K).Radial),

		"dx": fn2((*K).DX),
		"dy": fn2((*K).DY),
		"dz": fn2((*K).DZ),
		"dw": fn2((*K).DW),
		"du": fn2((*K).DU),
		"dv": fn2((*K).DV),

		"randomize": fn3((*K).Randomize),

		"step":          fn2((*K).Step),
		"linear_step":   fn3((*K).LinearStep),
		"smooth_step":   fn3((*K).SmoothStep),
		"smoother_step": fn3((*K).SmootherStep),
		"curve_section": {params: "nnnnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.CurveSection(n[0], n[1], n[2], n[3], n[4], n[5])
		}},

		"hex_tile": fn1((*K).HexTile),
		"hex_bump": leaf((*K).HexBump),

		"ease": {params: "ns", build: func(f *K, a args) (ir.Index, error) {
			v, err := a.uint(1, "ease curve")
			if err != nil || !ir.EaseCurve(v).Valid() {
				return 0, &argError{1, fmt.Sprintf("unknown ease curve %g", a.lits[1])}
			}
			return f.Ease(a.nodes[0], ir.EaseCurve(v))
		}},

		"color": {params: "ssss", build: func(f *K, a args) (ir.Index, error) {
			l := a.lits
			return f.Color(ir.RGBA{R: l[0], G: l[1], B: l[2], A: l[3]}), nil
		}},
		"combine_rgba": {params: "nnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.CombineRGBA(n[0], n[1], n[2], n[3])
		}},
		"combine_hsva": {params: "nnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.CombineHSVA(n[0], n[1], n[2], n[3])
		}},

		"scale_offset": {params: "nss", build: func(f *K, a args) (ir.Index, error) {
			return f.ScaleOffset(a.nodes[0], a.lits[1], a.lits[2])
		}},

		"fractal_layer": layerFn((*K).FractalLayer),
		"ridged_layer":  layerFn((*K).RidgedLayer),
		"billow_layer":  layerFn((*K).BillowLayer),
		"fractal": {params: "nnnnnn", build: func(f *K, a args) (ir.Index, error) {
			n := a.nodes
			return f.Fractal(n[0], n[1], n[2], n[3], n[4], n[5])
		}},
		"fbm":                 octaveFn((*K).FBM),
		"ridged_multifractal": octaveFn((*K).RidgedMultifractal),
		"billow":              octaveFn((*K).Billow),
	}
}

// constants are identifiers that evaluate to fixed numbers. Enum names
// evaluate to their ordinals so they can be passed to basis and fractal
// functions.
var constants = func() map[string]float64 {
	m := map[string]float64{
		"pi":    math.Pi,
		"e":     math.E,
		"sqrt2": math.Sqrt2,

		"value":    float64(ir.BasisValue),
		"gradient": float64(ir.BasisGradient),
		"simplex":  float64(ir.BasisSimplex),
		"cellular": float64(ir.BasisCellular),

		"none":    float64(ir.InterpNone),
		"linear":  float64(ir.InterpLinear),
		"hermite": float64(ir.InterpHermite),
		"quintic": float64(ir.InterpQuintic),

		"euclid":       float64(ir.DistanceEuclid),
		"manhattan":    float64(ir.DistanceManhattan),
		"leastaxis":    float64(ir.DistanceLeastAxis),
		"greatestaxis": float64(ir.DistanceGreatestAxis),
		"greataxis":    float64(ir.DistanceGreatestAxis),
	}
	for i, name := range ir.EaseCurves() {
		m["ease_"+name] = float64(i)
	}
	return m
}()

// Functions returns the names of every callable function.
func Functions() []string {
	out := make([]string, 0, len(functions))
	for name := range functions {
		out = append(out, name)
	}
	return out
}
