package kernel

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/ir"
)

func TestLastIndex(t *testing.T) {
	k := New()
	_, ok := k.LastIndex()
	assert.False(t, ok, "empty kernel has no last index")

	k.Constant(1)
	idx := k.Pi()
	last, ok := k.LastIndex()
	require.True(t, ok)
	assert.Equal(t, idx, last)
	assert.Equal(t, 2, k.Len())
}

func TestForwardReferenceRejected(t *testing.T) {
	k := New()
	a := k.Constant(1)

	_, err := k.Add(a, a+1)
	require.Error(t, err)
	assert.True(t, ir.IsInvalidReference(err))
	assert.Equal(t, 1, k.Len(), "rejected builder must not append")

	_, err = k.Sin(ir.Index(99))
	assert.True(t, ir.IsInvalidReference(err))
}

func TestColorInputRejected(t *testing.T) {
	k := New()
	c := k.Color(ir.RGBA{R: 1, A: 1})
	one := k.One()

	_, err := k.Add(c, one)
	require.Error(t, err)
	assert.True(t, ir.IsTypeMismatch(err))

	_, err = k.CombineRGBA(one, one, c, one)
	assert.True(t, ir.IsTypeMismatch(err))
}

func TestSequenceValidation(t *testing.T) {
	tests := []struct {
		name   string
		base   ir.Index
		count  uint32
		stride uint32
		ok     bool
	}{
		{"all", 0, 5, 1, true},
		{"strided", 0, 3, 2, true},
		{"single", 4, 1, 1, true},
		{"past end", 0, 6, 1, false},
		{"strided past end", 1, 3, 2, false},
		{"zero count", 0, 0, 1, false},
		{"zero stride", 0, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New()
			for i := 0; i < 5; i++ {
				k.Constant(float64(i))
			}

			_, err := k.AddSequence(tt.base, tt.count, tt.stride)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, ir.IsInvalidReference(err), "got %v", err)
			}
		})
	}
}

func TestAxisBuilders(t *testing.T) {
	k := New()
	_, err := k.Axis(ir.AxisAll)
	assert.True(t, ir.IsInvalidReference(err))

	_, err = k.Derivative(ir.AxisAll, k.X(), k.One())
	assert.True(t, ir.IsInvalidReference(err))

	_, err = k.Ease(k.X(), ir.EaseCurve(200))
	assert.True(t, ir.IsInvalidReference(err))
}

func TestForkMerge(t *testing.T) {
	k := New()
	one := k.One()

	f := k.Fork()
	two := f.Constant(2)
	_, err := f.Add(one, two)
	require.NoError(t, err)
	assert.Equal(t, 1, k.Len(), "fork appends are private")
	assert.Equal(t, 3, f.Len())

	require.NoError(t, k.Merge(f))
	assert.Equal(t, 3, k.Len())
	n, ok := k.Node(2)
	require.True(t, ok)
	assert.Equal(t, ir.OpAdd, n.Op())
}

func TestForkHoldsOnlyItsOwnNodes(t *testing.T) {
	k := New()
	for i := 0; i < 1000; i++ {
		k.Constant(float64(i))
	}

	f := k.Fork()
	assert.Empty(t, f.nodes, "fork starts without copying the arena")
	top := f.Constant(-1)
	assert.Len(t, f.nodes, 1)

	inner := f.Fork()
	sum, err := inner.Add(ir.Index(999), top)
	require.NoError(t, err)
	assert.Len(t, inner.nodes, 1)

	n, ok := inner.Node(ir.Index(3))
	require.True(t, ok, "parent prefix resolves through the fork chain")
	assert.Equal(t, ir.Constant{Value: 3}, n)
	assert.Len(t, inner.Nodes(), 1002)

	require.NoError(t, f.Merge(inner))
	require.NoError(t, k.Merge(f))
	assert.Equal(t, 1002, k.Len())
	n, ok = k.Node(sum)
	require.True(t, ok)
	assert.Equal(t, ir.OpAdd, n.Op())
}

func TestMergeAfterParentGrew(t *testing.T) {
	k := New()
	k.One()

	f := k.Fork()
	f.Constant(2)
	k.Constant(3)

	err := k.Merge(f)
	require.Error(t, err)
	assert.True(t, ir.HasCode(err, ir.ErrCodeConcurrentMutation))
	assert.Equal(t, 2, k.Len())

	other := New()
	assert.True(t, ir.HasCode(other.Merge(k.Fork()), ir.ErrCodeConcurrentMutation))
}

func TestScaleOffsetAtomic(t *testing.T) {
	k := New()
	_, err := k.ScaleOffset(7, 2, 1)
	require.Error(t, err)
	assert.Equal(t, 0, k.Len())

	x := k.X()
	idx, err := k.ScaleOffset(x, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, k.Len())
	n, _ := k.Node(idx)
	assert.Equal(t, ir.OpAdd, n.Op())
}

func TestDumpGolden(t *testing.T) {
	k := New()
	one := k.Constant(1)
	two := k.Constant(2)
	sum, err := k.Add(one, two)
	require.NoError(t, err)
	seed := k.Seed(42)
	interp := k.Constant(float64(ir.InterpQuintic))
	g, err := k.GradientBasis(interp, seed)
	require.NoError(t, err)
	s, err := k.ScaleX(g, two)
	require.NoError(t, err)
	_, err = k.Mix(sum, s, one)
	require.NoError(t, err)
	k.Color(ir.RGBA{R: 1, G: 0.5, B: 0, A: 1})
	_, err = k.AddSequence(one, 2, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, k.Dump(&buf))

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "kernel_dump", buf.Bytes())
}

func TestDigest(t *testing.T) {
	build := func() *Kernel {
		k := New()
		a := k.Constant(1)
		b := k.X()
		_, err := k.Multiply(a, b)
		require.NoError(t, err)
		return k
	}

	k1, k2 := build(), build()
	d1, err := k1.Digest(2)
	require.NoError(t, err)
	d2, err := k2.Digest(2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	_, err = k1.Digest(3)
	assert.True(t, ir.IsInvalidReference(err))
}

func TestDigestIndependentOfPosition(t *testing.T) {
	product := func(k *Kernel) ir.Index {
		idx, err := k.Multiply(k.Constant(1), k.X())
		require.NoError(t, err)
		return idx
	}

	fresh := New()
	want, err := fresh.Digest(product(fresh))
	require.NoError(t, err)

	t.Run("after unrelated nodes", func(t *testing.T) {
		k := New()
		k.Z()
		k.Constant(7)
		got, err := k.Digest(product(k))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("built twice", func(t *testing.T) {
		k := New()
		first := product(k)
		second := product(k)
		require.NotEqual(t, first, second)

		d1, err := k.Digest(first)
		require.NoError(t, err)
		d2, err := k.Digest(second)
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
		assert.Equal(t, want, d2)
	})

	t.Run("sequence members renumbered", func(t *testing.T) {
		seq := func(k *Kernel) ir.Index {
			base := k.Constant(1)
			k.Constant(2)
			k.Constant(3)
			idx, err := k.AddSequence(base, 2, 2)
			require.NoError(t, err)
			return idx
		}
		a := New()
		da, err := a.Digest(seq(a))
		require.NoError(t, err)

		b := New()
		b.Y()
		db, err := b.Digest(seq(b))
		require.NoError(t, err)
		assert.Equal(t, da, db)
	})

	t.Run("different shape differs", func(t *testing.T) {
		k := New()
		idx, err := k.Multiply(k.X(), k.Constant(1))
		require.NoError(t, err)
		got, err := k.Digest(idx)
		require.NoError(t, err)
		assert.NotEqual(t, want, got)
	})
}
