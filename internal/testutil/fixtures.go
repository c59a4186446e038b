// Package testutil holds fixtures shared by tests in several packages.
package testutil

// The ramp fixture is the expression "x" rendered over the domain
// (0,0,1,1) at 4x2 in gray8. Every value is small enough to check by hand:
// columns sample x = 0, 0.25, 0.5, 0.75 and quantize to 0, 64, 128, 191.
const (
	RampExpr         = "x"
	RampWidth        = 4
	RampHeight       = 2
	RampHeader       = "4x2 gray8"
	RampGraphDigest  = "29d368caa2608af5936b858507b2a948300660a3a30ea86b1ed175783f87d303"
	RampRasterDigest = "205718e483456cf598aa46c58fc6035a5b964f15a82e82f76991dfe799151b70"
)

// RampPix returns the expected pixel data of the ramp fixture.
func RampPix() []byte {
	return []byte{0, 64, 128, 191, 0, 64, 128, 191}
}
