package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/ir"
)

var samplePoints = [][]float64{
	{0.25, 0.75},
	{-3.1, 7.9},
	{0.5, 1.5, -2.25},
	{10.1, -0.3, 4.4, 2.2},
	{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
}

func TestInterp(t *testing.T) {
	tests := []struct {
		kind ir.InterpKind
		t    float64
		want float64
	}{
		{ir.InterpNone, 0.7, 0},
		{ir.InterpLinear, 0.7, 0.7},
		{ir.InterpHermite, 0.5, 0.5},
		{ir.InterpHermite, 1, 1},
		{ir.InterpQuintic, 0.5, 0.5},
		{ir.InterpQuintic, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, Interp(tt.kind, tt.t), 1e-12)
		})
	}
}

func TestBasisDeterministic(t *testing.T) {
	for _, p := range samplePoints {
		assert.Equal(t, Value(p, ir.InterpQuintic, 7), Value(p, ir.InterpQuintic, 7))
		assert.Equal(t, Gradient(p, ir.InterpQuintic, 7), Gradient(p, ir.InterpQuintic, 7))
		assert.Equal(t, Simplex(p, 7), Simplex(p, 7))
		assert.Equal(t, Cellular(p, ir.DistanceEuclid, 7), Cellular(p, ir.DistanceEuclid, 7))
	}
}

func TestBasisSeedSensitivity(t *testing.T) {
	p := []float64{0.25, 0.75}
	assert.NotEqual(t, Gradient(p, ir.InterpQuintic, 42), Gradient(p, ir.InterpQuintic, 43))
	assert.NotEqual(t, Value(p, ir.InterpQuintic, 42), Value(p, ir.InterpQuintic, 43))
	assert.NotEqual(t, Simplex(p, 42), Simplex(p, 43))
}

func TestBasisRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		f := float64(i)
		for _, n := range []int{2, 3, 4, 6} {
			p := make([]float64, n)
			for k := range p {
				p[k] = math.Sin(f*1.37+float64(k)) * 13.7
			}
			v := Value(p, ir.InterpHermite, uint32(i))
			require.GreaterOrEqual(t, v, -1.0)
			require.LessOrEqual(t, v, 1.0)

			g := Gradient(p, ir.InterpQuintic, uint32(i))
			require.GreaterOrEqual(t, g, -1.0)
			require.LessOrEqual(t, g, 1.0)

			s := Simplex(p, uint32(i))
			require.GreaterOrEqual(t, s, -1.0)
			require.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestGradientVanishesOnLattice(t *testing.T) {
	assert.InDelta(t, 0, Gradient([]float64{3, -2}, ir.InterpQuintic, 9), 1e-12)
	assert.InDelta(t, 0, Gradient([]float64{1, 2, 3}, ir.InterpLinear, 9), 1e-12)
}

func TestValueInterpNoneIsPiecewiseConstant(t *testing.T) {
	a := Value([]float64{2.1, 5.2}, ir.InterpNone, 3)
	b := Value([]float64{2.9, 5.8}, ir.InterpNone, 3)
	assert.Equal(t, a, b)
}

func TestCellularOrdering(t *testing.T) {
	for _, kind := range []ir.DistanceKind{ir.DistanceEuclid, ir.DistanceManhattan, ir.DistanceLeastAxis, ir.DistanceGreatestAxis} {
		t.Run(kind.String(), func(t *testing.T) {
			for _, p := range samplePoints {
				c := Cellular(p, kind, 11)
				for i := 1; i < 4; i++ {
					assert.LessOrEqual(t, c.F[i-1], c.F[i])
				}
				for _, d := range c.D {
					assert.GreaterOrEqual(t, d, -1.0)
					assert.Less(t, d, 1.0)
				}
				assert.False(t, math.IsInf(c.F[3], 1))
			}
		})
	}
}

func TestHex(t *testing.T) {
	assert.InDelta(t, 1, HexBump([]float64{0, 0}), 1e-12)
	assert.InDelta(t, 1, HexBump([]float64{math.Sqrt(3), 0}), 1e-12)
	assert.InDelta(t, 0, HexBump([]float64{math.Sqrt(3) / 2, 0}), 1e-9)

	// Two points inside the same hexagon share a tile value.
	assert.Equal(t, HexTile([]float64{0.1, 0.1}, 5), HexTile([]float64{-0.2, 0.3}, 5))
	v := HexTile([]float64{4.2, -1.3}, 5)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestRandom(t *testing.T) {
	assert.Equal(t, Random(12), Random(12))
	assert.NotEqual(t, Random(12), Random(13))
}
