package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/scene"
)

// AssertionError describes a failed probe or digest check.
type AssertionError struct {
	Type     string // "probe" or "digest"
	Subject  string // probe root or render name
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s %s\n", e.Type, e.Subject)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// checkProbe compares an evaluated probe with its expectation.
func checkProbe(p scene.Probe, got ProbeResult) error {
	if p.Expect != nil {
		if got.Kind == ir.Scalar && within(got.Scalar, *p.Expect, p.Tolerance) {
			return nil
		}
		return &AssertionError{
			Type:     "probe",
			Subject:  p.Root,
			Expected: fmt.Sprintf("%g ± %g at %v", *p.Expect, p.Tolerance, p.At),
			Actual:   describe(got),
		}
	}

	want := *p.Color
	if got.Kind == ir.Color &&
		within(got.Color.R, want.R, p.Tolerance) &&
		within(got.Color.G, want.G, p.Tolerance) &&
		within(got.Color.B, want.B, p.Tolerance) &&
		within(got.Color.A, want.A, p.Tolerance) {
		return nil
	}
	return &AssertionError{
		Type:     "probe",
		Subject:  p.Root,
		Expected: fmt.Sprintf("%+v ± %g at %v", want, p.Tolerance, p.At),
		Actual:   describe(got),
	}
}

// checkDigest compares a raster digest with the one a scene expects.
func checkDigest(r scene.Render, got string) error {
	if r.Digest == "" || r.Digest == got {
		return nil
	}
	return &AssertionError{
		Type:     "digest",
		Subject:  r.Name,
		Expected: r.Digest,
		Actual:   got,
	}
}

func within(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func describe(p ProbeResult) string {
	if p.Kind == ir.Color {
		return fmt.Sprintf("color %+v", p.Color)
	}
	return fmt.Sprintf("scalar %g", p.Scalar)
}
