package noise

import (
	"math"

	"github.com/roach88/noisegraph/internal/ir"
)

// lattice holds the cell and blending weights for one lattice query.
type lattice struct {
	n    int
	cell [ir.MaxDims]int
	frac [ir.MaxDims]float64
	t    [ir.MaxDims]float64
}

func (l *lattice) set(p []float64, interp ir.InterpKind) {
	l.n = len(p)
	for i, v := range p {
		f := math.Floor(v)
		l.cell[i] = int(f)
		l.frac[i] = v - f
		l.t[i] = Interp(interp, l.frac[i])
	}
}

// weight is the multilinear weight of the corner selected by bits.
func (l *lattice) weight(bits uint) float64 {
	w := 1.0
	for i := 0; i < l.n; i++ {
		if bits>>i&1 == 1 {
			w *= l.t[i]
		} else {
			w *= 1 - l.t[i]
		}
	}
	return w
}

func (l *lattice) corner(bits uint) [ir.MaxDims]int {
	c := l.cell
	for i := 0; i < l.n; i++ {
		c[i] += int(bits >> i & 1)
	}
	return c
}

// Value returns value noise at p in [-1,1].
func Value(p []float64, interp ir.InterpKind, seed uint32) float64 {
	var l lattice
	l.set(p, interp)

	sum := 0.0
	for bits := uint(0); bits < 1<<l.n; bits++ {
		w := l.weight(bits)
		if w == 0 {
			continue
		}
		c := l.corner(bits)
		sum += w * signed(hashCell(seed, c[:l.n]))
	}
	return sum
}

// Gradient returns gradient noise at p, scaled so the theoretical extreme
// sqrt(n)/2 maps onto ±1.
func Gradient(p []float64, interp ir.InterpKind, seed uint32) float64 {
	var l lattice
	l.set(p, interp)

	sum := 0.0
	var g [ir.MaxDims]float64
	for bits := uint(0); bits < 1<<l.n; bits++ {
		w := l.weight(bits)
		if w == 0 {
			continue
		}
		c := l.corner(bits)
		gradient(hashCell(seed, c[:l.n]), l.n, &g)
		dot := 0.0
		for i := 0; i < l.n; i++ {
			off := l.frac[i] - float64(bits>>i&1)
			dot += g[i] * off
		}
		sum += w * dot
	}
	return clamp1(sum * 2 / math.Sqrt(float64(l.n)))
}

// gradient fills g[:n] with a unit vector picked by h.
func gradient(h uint32, n int, g *[ir.MaxDims]float64) {
	sq := 0.0
	for i := 0; i < n; i++ {
		g[i] = signed(stream(h, i))
		sq += g[i] * g[i]
	}
	if sq == 0 {
		g[0] = 1
		return
	}
	inv := 1 / math.Sqrt(sq)
	for i := 0; i < n; i++ {
		g[i] *= inv
	}
}

func clamp1(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
