package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/scene"
)

func scalarProbe(want, tol float64) scene.Probe {
	return scene.Probe{Root: "x", At: []float64{0.5, 0}, Expect: &want, Tolerance: tol}
}

func TestCheckProbe_Scalar(t *testing.T) {
	p := scalarProbe(0.5, 1e-6)

	assert.NoError(t, checkProbe(p, ProbeResult{Kind: ir.Scalar, Scalar: 0.5000001}))

	err := checkProbe(p, ProbeResult{Kind: ir.Scalar, Scalar: 0.51})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "probe", ae.Type)
	assert.Equal(t, "x", ae.Subject)
	assert.Equal(t, "scalar 0.51", ae.Actual)
}

func TestCheckProbe_KindMismatch(t *testing.T) {
	err := checkProbe(scalarProbe(1, 1e-9), ProbeResult{Kind: ir.Color, Color: ir.RGBA{R: 1, G: 1, B: 1, A: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Actual: color")

	p := scene.Probe{Root: "c", Color: &ir.RGBA{A: 1}, Tolerance: 1e-9}
	err = checkProbe(p, ProbeResult{Kind: ir.Scalar, Scalar: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Actual: scalar 0")
}

func TestCheckProbe_ColorChannels(t *testing.T) {
	want := ir.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}
	p := scene.Probe{Root: "c", Color: &want, Tolerance: 0.01}

	assert.NoError(t, checkProbe(p, ProbeResult{Kind: ir.Color, Color: ir.RGBA{R: 0.205, G: 0.4, B: 0.6, A: 1}}))
	assert.Error(t, checkProbe(p, ProbeResult{Kind: ir.Color, Color: ir.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 0.9}}))
}

func TestCheckDigest(t *testing.T) {
	assert.NoError(t, checkDigest(scene.Render{Name: "a"}, "abc"))
	assert.NoError(t, checkDigest(scene.Render{Name: "a", Digest: "abc"}, "abc"))

	err := checkDigest(scene.Render{Name: "a", Digest: "abc"}, "def")
	require.Error(t, err)
	assert.Equal(t, "Assertion failed: digest a\n  Expected: abc\n  Actual: def\n", err.Error())
}
