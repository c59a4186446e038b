package noise

import (
	"math"

	"github.com/roach88/noisegraph/internal/ir"
)

// Cells holds the four nearest feature distances (ascending) and the random
// value in [-1,1] of each matching cell.
type Cells struct {
	F [4]float64
	D [4]float64
}

// Cellular evaluates Worley noise at p with one feature point per cell,
// searching the 3ⁿ cells around the containing cell.
func Cellular(p []float64, dist ir.DistanceKind, seed uint32) Cells {
	n := len(p)
	var base [ir.MaxDims]int
	for i, v := range p {
		base[i] = int(math.Floor(v))
	}

	out := Cells{F: [4]float64{math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1)}}

	neighbors := 1
	for i := 0; i < n; i++ {
		neighbors *= 3
	}

	var (
		cell  [ir.MaxDims]int
		delta [ir.MaxDims]float64
	)
	for k := 0; k < neighbors; k++ {
		rem := k
		for i := 0; i < n; i++ {
			cell[i] = base[i] + rem%3 - 1
			rem /= 3
		}
		h := hashCell(seed, cell[:n])
		for i := 0; i < n; i++ {
			feature := float64(cell[i]) + unit(stream(h, i))
			delta[i] = feature - p[i]
		}
		out.insert(distance(dist, delta[:n]), signed(h))
	}
	return out
}

// insert keeps F sorted ascending with D following.
func (c *Cells) insert(f, d float64) {
	if f >= c.F[3] {
		return
	}
	i := 3
	for i > 0 && f < c.F[i-1] {
		c.F[i], c.D[i] = c.F[i-1], c.D[i-1]
		i--
	}
	c.F[i], c.D[i] = f, d
}

func distance(kind ir.DistanceKind, d []float64) float64 {
	switch kind {
	case ir.DistanceManhattan:
		s := 0.0
		for _, v := range d {
			s += math.Abs(v)
		}
		return s
	case ir.DistanceLeastAxis:
		m := math.Inf(1)
		for _, v := range d {
			m = math.Min(m, math.Abs(v))
		}
		return m
	case ir.DistanceGreatestAxis:
		m := 0.0
		for _, v := range d {
			m = math.Max(m, math.Abs(v))
		}
		return m
	default:
		s := 0.0
		for _, v := range d {
			s += v * v
		}
		return math.Sqrt(s)
	}
}
