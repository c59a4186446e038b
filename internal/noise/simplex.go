package noise

import (
	"math"

	"github.com/roach88/noisegraph/internal/ir"
)

// simplexScale brings each dimension's output to roughly [-1,1].
var simplexScale = [ir.MaxDims + 1]float64{2: 99, 3: 45, 4: 47, 5: 50, 6: 50}

// Simplex returns N-dimensional simplex noise at p, clamped to [-1,1].
//
// The input is skewed onto the simplex lattice, the containing simplex is
// found by ranking the offset components, and the n+1 vertex contributions
// (r² - |d|²)⁴ · (g·d) are summed.
func Simplex(p []float64, seed uint32) float64 {
	n := len(p)
	fn := float64(n)
	skew := (math.Sqrt(fn+1) - 1) / fn
	unskew := (1 - 1/math.Sqrt(fn+1)) / fn

	s := 0.0
	for _, v := range p {
		s += v
	}
	s *= skew

	var cell [ir.MaxDims]int
	cellSum := 0
	for i, v := range p {
		cell[i] = int(math.Floor(v + s))
		cellSum += cell[i]
	}
	t := float64(cellSum) * unskew

	var d0 [ir.MaxDims]float64
	for i, v := range p {
		d0[i] = v - (float64(cell[i]) - t)
	}

	// Axes ranked by descending offset give the traversal order.
	var order [ir.MaxDims]int
	for i := 0; i < n; i++ {
		order[i] = i
		for j := i; j > 0 && d0[order[j]] > d0[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	r2 := 0.6
	if n == 2 {
		r2 = 0.5
	}

	var (
		off   [ir.MaxDims]int
		d     [ir.MaxDims]float64
		g     [ir.MaxDims]float64
		total float64
	)
	for k := 0; k <= n; k++ {
		if k > 0 {
			off[order[k-1]] = 1
		}
		r := r2
		for i := 0; i < n; i++ {
			d[i] = d0[i] - float64(off[i]) + float64(k)*unskew
			r -= d[i] * d[i]
		}
		if r <= 0 {
			continue
		}
		var c [ir.MaxDims]int
		for i := 0; i < n; i++ {
			c[i] = cell[i] + off[i]
		}
		gradient(hashCell(seed, c[:n]), n, &g)
		dot := 0.0
		for i := 0; i < n; i++ {
			dot += g[i] * d[i]
		}
		r *= r
		total += r * r * dot
	}
	return clamp1(total * simplexScale[n])
}
