package engine

import (
	"math"

	"github.com/tanema/gween/ease"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/noise"
)

func binary(op ir.Op, a, b float64) float64 {
	switch op {
	case ir.OpAdd:
		return a + b
	case ir.OpSubtract:
		return a - b
	case ir.OpMultiply:
		return a * b
	case ir.OpDivide:
		return divide(a, b)
	case ir.OpMaximum:
		return math.Max(a, b)
	case ir.OpMinimum:
		return math.Min(a, b)
	case ir.OpPow:
		return math.Pow(a, b)
	case ir.OpBias:
		return bias(b, a)
	case ir.OpGain:
		return gain(b, a)
	default:
		return 0
	}
}

// divide never fails: 0/0 is 0, x/0 is ±MaxFloat64 with the sign of x,
// and any other NaN quotient is 0.
func divide(a, b float64) float64 {
	if b == 0 {
		if a == 0 || math.IsNaN(a) {
			return 0
		}
		return math.Copysign(math.MaxFloat64, a)
	}
	q := a / b
	if math.IsNaN(q) {
		return 0
	}
	return q
}

// bias remaps t in [0,1] so that 0.5 maps to b.
func bias(b, t float64) float64 {
	return math.Pow(t, math.Log(b)/math.Log(0.5))
}

// gain is a bias applied symmetrically around 0.5.
func gain(g, t float64) float64 {
	if t < 0.5 {
		return bias(1-g, 2*t) / 2
	}
	return 1 - bias(1-g, 2-2*t)/2
}

func unary(op ir.Op, x float64) float64 {
	switch op {
	case ir.OpCos:
		return math.Cos(x)
	case ir.OpSin:
		return math.Sin(x)
	case ir.OpTan:
		return math.Tan(x)
	case ir.OpAcos:
		return math.Acos(x)
	case ir.OpAsin:
		return math.Asin(x)
	case ir.OpAtan:
		return math.Atan(x)
	case ir.OpAbs:
		return math.Abs(x)
	default:
		return 0
	}
}

func sigmoid(x, center, ramp float64) float64 {
	return 1 / (1 + math.Exp(-ramp*(x-center)))
}

// tiers quantizes x into count levels. Smooth tiers blend between adjacent
// levels with the quintic curve.
func tiers(x, count float64, smooth bool) float64 {
	steps := math.Floor(count)
	if steps < 1 || math.IsNaN(steps) {
		steps = 1
	}
	lo := math.Floor(x * steps)
	if !smooth {
		return lo / steps
	}
	t := noise.Quintic(x*steps - lo)
	return noise.Lerp(t, lo/steps, (lo+1)/steps)
}

// unitRange maps x from [lo, hi] onto [0,1], clamped. A degenerate range
// acts as a step at lo.
func unitRange(lo, hi, x float64) float64 {
	if hi == lo {
		if x < lo {
			return 0
		}
		return 1
	}
	return math.Max(0, math.Min(1, (x-lo)/(hi-lo)))
}

func ramp(op ir.Op, lo, hi, x float64) float64 {
	t := unitRange(lo, hi, x)
	switch op {
	case ir.OpSmoothStep:
		return noise.Hermite(t)
	case ir.OpSmootherStep:
		return noise.Quintic(t)
	default:
		return t
	}
}

var easeFuncs = [...]ease.TweenFunc{
	ir.EaseLinear:       ease.Linear,
	ir.EaseInQuad:       ease.InQuad,
	ir.EaseOutQuad:      ease.OutQuad,
	ir.EaseInOutQuad:    ease.InOutQuad,
	ir.EaseInCubic:      ease.InCubic,
	ir.EaseOutCubic:     ease.OutCubic,
	ir.EaseInOutCubic:   ease.InOutCubic,
	ir.EaseInQuart:      ease.InQuart,
	ir.EaseOutQuart:     ease.OutQuart,
	ir.EaseInOutQuart:   ease.InOutQuart,
	ir.EaseInQuint:      ease.InQuint,
	ir.EaseOutQuint:     ease.OutQuint,
	ir.EaseInOutQuint:   ease.InOutQuint,
	ir.EaseInSine:       ease.InSine,
	ir.EaseOutSine:      ease.OutSine,
	ir.EaseInOutSine:    ease.InOutSine,
	ir.EaseInExpo:       ease.InExpo,
	ir.EaseOutExpo:      ease.OutExpo,
	ir.EaseInOutExpo:    ease.InOutExpo,
	ir.EaseInCirc:       ease.InCirc,
	ir.EaseOutCirc:      ease.OutCirc,
	ir.EaseInOutCirc:    ease.InOutCirc,
	ir.EaseInElastic:    ease.InElastic,
	ir.EaseOutElastic:   ease.OutElastic,
	ir.EaseInOutElastic: ease.InOutElastic,
	ir.EaseInBack:       ease.InBack,
	ir.EaseOutBack:      ease.OutBack,
	ir.EaseInOutBack:    ease.InOutBack,
	ir.EaseInBounce:     ease.InBounce,
	ir.EaseOutBounce:    ease.OutBounce,
	ir.EaseInOutBounce:  ease.InOutBounce,
}

// easeCurve clamps x to [0,1] and maps it through the named curve. Curves are
// evaluated in float32, as the tween functions are defined.
func easeCurve(curve ir.EaseCurve, x float64) float64 {
	t := math.Max(0, math.Min(1, x))
	if int(curve) >= len(easeFuncs) {
		return t
	}
	return float64(easeFuncs[curve](float32(t), 0, 1, 1))
}

// hsva converts hue, saturation and value to RGB. Hue wraps into [0,1).
func hsva(h, s, v, a float64) ir.RGBA {
	h -= math.Floor(h)
	if s <= 0 {
		return ir.RGBA{R: v, G: v, B: v, A: a}
	}
	h6 := h * 6
	sector := math.Floor(h6)
	frac := h6 - sector
	p := v * (1 - s)
	q := v * (1 - s*frac)
	t := v * (1 - s*(1-frac))

	switch int(sector) % 6 {
	case 0:
		return ir.RGBA{R: v, G: t, B: p, A: a}
	case 1:
		return ir.RGBA{R: q, G: v, B: p, A: a}
	case 2:
		return ir.RGBA{R: p, G: v, B: t, A: a}
	case 3:
		return ir.RGBA{R: p, G: q, B: v, A: a}
	case 4:
		return ir.RGBA{R: t, G: p, B: v, A: a}
	default:
		return ir.RGBA{R: v, G: p, B: q, A: a}
	}
}

// toSeed truncates an evaluated seed to uint32, wrapping negatives.
func toSeed(x float64) uint32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(x), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

// toCount rounds x to a non-negative count no larger than max.
func toCount(x float64, max int) int {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > float64(max) {
		return max
	}
	return int(math.Round(x))
}

func toInterp(x float64) ir.InterpKind {
	return ir.InterpKind(toCount(x, int(ir.InterpQuintic)))
}

func toDistance(x float64) ir.DistanceKind {
	return ir.DistanceKind(toCount(x, int(ir.DistanceGreatestAxis)))
}
