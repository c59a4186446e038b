package engine

import (
	"math"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/noise"
)

// seedState is the seed override in effect while a subgraph evaluates.
type seedState struct {
	set   bool
	value uint32
}

// entry is one cached node result. It is valid for the query whose
// generation it carries, and only at the coordinate and seed override it
// was computed under.
type entry struct {
	gen    uint64
	n      int
	coord  [ir.MaxDims]float64
	seed   seedState
	scalar float64
	color  ir.RGBA
}

// frame is the private state of one query.
type frame struct {
	nodes []ir.Node
	cache []entry
	gen   uint64

	n     int
	coord [ir.MaxDims]float64
	seed  seedState
}

func (f *frame) begin(nodes []ir.Node, c Coord) {
	f.nodes = nodes
	if cap(f.cache) < len(nodes) {
		f.cache = make([]entry, len(nodes), len(nodes)+len(nodes)/4)
	} else {
		f.cache = f.cache[:len(nodes)]
	}
	f.gen++
	f.n = len(c)
	f.coord = [ir.MaxDims]float64{}
	copy(f.coord[:], c)
	f.seed = seedState{}
}

// end drops the node list so a pooled frame does not pin it.
func (f *frame) end() {
	f.nodes = nil
}

func (f *frame) lookup(i ir.Index) (*entry, bool) {
	e := &f.cache[i]
	return e, e.gen == f.gen && e.n == f.n && e.coord == f.coord && e.seed == f.seed
}

func (f *frame) store(e *entry) {
	e.gen = f.gen
	e.n = f.n
	e.coord = f.coord
	e.seed = f.seed
}

func (f *frame) point() []float64 {
	return f.coord[:f.n]
}

func (f *frame) scalar(i ir.Index) float64 {
	if e, ok := f.lookup(i); ok {
		return e.scalar
	}
	v := f.computeScalar(f.nodes[i])
	e := &f.cache[i]
	f.store(e)
	e.scalar = v
	return v
}

func (f *frame) color(i ir.Index) ir.RGBA {
	if e, ok := f.lookup(i); ok {
		return e.color
	}
	c := f.computeColor(f.nodes[i])
	e := &f.cache[i]
	f.store(e)
	e.color = c
	return c
}

// withSeed evaluates i under a seed override.
func (f *frame) withSeed(seed uint32, i ir.Index) float64 {
	saved := f.seed
	f.seed = seedState{set: true, value: seed}
	v := f.scalar(i)
	f.seed = saved
	return v
}

// at evaluates i at a transformed coordinate.
func (f *frame) at(coord [ir.MaxDims]float64, i ir.Index) float64 {
	saved := f.coord
	f.coord = coord
	v := f.scalar(i)
	f.coord = saved
	return v
}

func (f *frame) computeColor(n ir.Node) ir.RGBA {
	switch v := n.(type) {
	case ir.ColorLiteral:
		return v.Value
	case ir.Combine:
		a, b, c, d := f.scalar(v.Channels[0]), f.scalar(v.Channels[1]), f.scalar(v.Channels[2]), f.scalar(v.Channels[3])
		if v.Kind == ir.OpCombineHSVA {
			return hsva(a, b, c, d)
		}
		return ir.RGBA{R: a, G: b, B: c, A: d}
	default:
		// Construction guarantees only color nodes reach here.
		return ir.RGBA{}
	}
}

func (f *frame) computeScalar(n ir.Node) float64 {
	switch v := n.(type) {
	case ir.Constant:
		return v.Value

	case ir.Seed:
		if f.seed.set {
			return float64(f.seed.value)
		}
		return float64(v.Value)

	case ir.Seeder:
		return f.withSeed(toSeed(f.scalar(v.Seed)), v.Source)

	case ir.LatticeBasis:
		interp := toInterp(f.scalar(v.Interp))
		seed := toSeed(f.scalar(v.Seed))
		if v.Kind == ir.BasisValue {
			return noise.Value(f.point(), interp, seed)
		}
		return noise.Gradient(f.point(), interp, seed)

	case ir.SimplexBasis:
		return noise.Simplex(f.point(), toSeed(f.scalar(v.Seed)))

	case ir.CellularBasis:
		cells := noise.Cellular(f.point(), toDistance(f.scalar(v.Distance)), toSeed(f.scalar(v.Seed)))
		sum := 0.0
		for i := 0; i < 4; i++ {
			sum += f.scalar(v.F[i])*cells.F[i] + f.scalar(v.D[i])*cells.D[i]
		}
		return sum

	case ir.Binary:
		return binary(v.Kind, f.scalar(v.A), f.scalar(v.B))

	case ir.Unary:
		return unary(v.Kind, f.scalar(v.Source))

	case ir.Sigmoid:
		return sigmoid(f.scalar(v.Source), f.scalar(v.Center), f.scalar(v.Ramp))

	case ir.Domain:
		return f.domain(v)

	case ir.Rotate:
		return f.rotate(v)

	case ir.Sequence:
		return f.sequence(v)

	case ir.Mix:
		return noise.Lerp(f.scalar(v.Control), f.scalar(v.Low), f.scalar(v.High))

	case ir.Select:
		return f.selectBand(v)

	case ir.Clamp:
		return math.Max(f.scalar(v.Low), math.Min(f.scalar(v.High), f.scalar(v.Source)))

	case ir.Tiers:
		return tiers(f.scalar(v.Source), f.scalar(v.Count), v.Smooth)

	case ir.Step:
		if f.scalar(v.Control) < f.scalar(v.Value) {
			return 0
		}
		return 1

	case ir.Ramp:
		return ramp(v.Kind, f.scalar(v.Low), f.scalar(v.High), f.scalar(v.Control))

	case ir.CurveSection:
		control, t0 := f.scalar(v.Control), f.scalar(v.T0)
		if control < t0 {
			return f.scalar(v.LowV)
		}
		t := noise.Quintic(unitRange(t0, f.scalar(v.T1), control))
		return noise.Lerp(t, f.scalar(v.V0), f.scalar(v.V1))

	case ir.Ease:
		return easeCurve(v.Curve, f.scalar(v.Source))

	case ir.AxisValue:
		if int(v.Axis) < f.n {
			return f.coord[v.Axis]
		}
		return 0

	case ir.Radial:
		sq := 0.0
		for _, c := range f.point() {
			sq += c * c
		}
		return math.Sqrt(sq)

	case ir.Derivative:
		return f.derivative(v)

	case ir.Randomize:
		r := noise.Random(toSeed(f.scalar(v.Seed)))
		return noise.Lerp(r, f.scalar(v.Low), f.scalar(v.High))

	case ir.HexTile:
		return noise.HexTile(f.point(), toSeed(f.scalar(v.Seed)))

	case ir.HexBump:
		return noise.HexBump(f.point())

	case ir.Fractal:
		return f.fractal(v)

	default:
		// Construction guarantees only scalar nodes reach here.
		return 0
	}
}

func (f *frame) domain(v ir.Domain) float64 {
	amount := f.scalar(v.Amount)
	c := f.coord
	for i := 0; i < f.n; i++ {
		if v.Axis != ir.AxisAll && int(v.Axis) != i {
			continue
		}
		if v.Kind == ir.OpScaleDomain {
			c[i] *= amount
		} else {
			c[i] += amount
		}
	}
	return f.at(c, v.Source)
}

// rotate turns the coordinate about (ax, ay, az) using Rodrigues' formula.
// Two-dimensional coordinates rotate in the xy plane; axes past z are left
// unchanged.
func (f *frame) rotate(v ir.Rotate) float64 {
	angle := f.scalar(v.Angle)
	sin, cos := math.Sincos(angle)
	c := f.coord

	if f.n == 2 {
		x, y := c[0], c[1]
		c[0] = x*cos - y*sin
		c[1] = x*sin + y*cos
		return f.at(c, v.Source)
	}

	ax, ay, az := f.scalar(v.AX), f.scalar(v.AY), f.scalar(v.AZ)
	l := math.Sqrt(ax*ax + ay*ay + az*az)
	if l == 0 {
		return f.at(c, v.Source)
	}
	ax, ay, az = ax/l, ay/l, az/l

	x, y, z := c[0], c[1], c[2]
	dot := ax*x + ay*y + az*z
	cx := ay*z - az*y
	cy := az*x - ax*z
	cz := ax*y - ay*x
	c[0] = x*cos + cx*sin + ax*dot*(1-cos)
	c[1] = y*cos + cy*sin + ay*dot*(1-cos)
	c[2] = z*cos + cz*sin + az*dot*(1-cos)
	return f.at(c, v.Source)
}

func (f *frame) sequence(v ir.Sequence) float64 {
	acc := f.scalar(v.Base)
	for i := uint32(1); i < v.Count; i++ {
		x := f.scalar(v.Base + ir.Index(i*v.Stride))
		switch v.Kind {
		case ir.OpAddSequence:
			acc += x
		case ir.OpMultiplySequence:
			acc *= x
		case ir.OpMaxSequence:
			acc = math.Max(acc, x)
		case ir.OpMinSequence:
			acc = math.Min(acc, x)
		}
	}
	return acc
}

// selectBand picks low below threshold-falloff, high above
// threshold+falloff, and blends quintically in between. Only the branches
// needed are evaluated.
func (f *frame) selectBand(v ir.Select) float64 {
	control := f.scalar(v.Control)
	threshold := f.scalar(v.Threshold)
	falloff := f.scalar(v.Falloff)

	if falloff <= 0 {
		if control < threshold {
			return f.scalar(v.Low)
		}
		return f.scalar(v.High)
	}

	lower, upper := threshold-falloff, threshold+falloff
	switch {
	case control < lower:
		return f.scalar(v.Low)
	case control > upper:
		return f.scalar(v.High)
	}
	t := noise.Quintic((control - lower) / (upper - lower))
	return noise.Lerp(t, f.scalar(v.Low), f.scalar(v.High))
}

// derivative is the central difference (src(p+h) - src(p-h)) / 2h.
func (f *frame) derivative(v ir.Derivative) float64 {
	h := f.scalar(v.Spacing)
	if int(v.Axis) >= f.n || h == 0 {
		return 0
	}
	hi, lo := f.coord, f.coord
	hi[v.Axis] += h
	lo[v.Axis] -= h
	return (f.at(hi, v.Source) - f.at(lo, v.Source)) / (2 * h)
}

// fractal sums octaves of the layer: octave i is sampled at the coordinate
// scaled by frequency*lacunarity^i, weighted by persistence^i, and
// re-seeded with seed+i.
func (f *frame) fractal(v ir.Fractal) float64 {
	seed := toSeed(f.scalar(v.Seed))
	persistence := f.scalar(v.Persistence)
	lacunarity := f.scalar(v.Lacunarity)
	freq := f.scalar(v.Frequency)
	octaves := toCount(f.scalar(v.Octaves), ir.MaxOctaves)

	sum, amp := 0.0, 1.0
	for i := 0; i < octaves; i++ {
		c := f.coord
		for k := 0; k < f.n; k++ {
			c[k] *= freq
		}
		saved := f.coord
		f.coord = c
		sum += amp * f.withSeed(seed+uint32(i), v.Layer)
		f.coord = saved

		amp *= persistence
		freq *= lacunarity
	}
	return sum
}
