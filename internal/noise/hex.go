package noise

import "math"

// Hexes are pointy-top with unit circumradius, laid out in axial (q, r)
// coordinates. Only the first two coordinate components are used.

var sqrt3 = math.Sqrt(3)

// hexCell returns the axial cell containing (x, y) and the offset from its
// center.
func hexCell(x, y float64) (q, r int, dx, dy float64) {
	fq := (sqrt3/3)*x - y/3
	fr := (2.0 / 3.0) * y
	fs := -fq - fr

	rq, rr, rs := math.Round(fq), math.Round(fr), math.Round(fs)
	eq, er, es := math.Abs(rq-fq), math.Abs(rr-fr), math.Abs(rs-fs)
	switch {
	case eq > er && eq > es:
		rq = -rr - rs
	case er > es:
		rr = -rq - rs
	}

	cx := sqrt3 * (rq + rr/2)
	cy := 1.5 * rr
	return int(rq), int(rr), x - cx, y - cy
}

// HexTile gives every hexagon a random value in [0,1).
func HexTile(p []float64, seed uint32) float64 {
	q, r, _, _ := hexCell(p[0], p[1])
	return unit(hashCell(seed, []int{q, r}))
}

// HexBump is 1 at each hexagon center and falls linearly to 0 at the
// inscribed circle, staying 0 out to the corners.
func HexBump(p []float64) float64 {
	_, _, dx, dy := hexCell(p[0], p[1])
	inner := sqrt3 / 2
	return math.Max(0, 1-math.Hypot(dx, dy)/inner)
}
