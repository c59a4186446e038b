package harness

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/scene"
)

// Snapshot renders r as stable text for golden comparison. Timings and
// output paths are omitted.
func Snapshot(r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scene %s\n", r.Scene)
	for _, br := range r.Bindings {
		fmt.Fprintf(&b, "binding %s root=%d graph=%s\n", br.Name, br.Root, br.GraphDigest)
	}
	for _, rr := range r.Renders {
		fmt.Fprintf(&b, "render %s root=%d %dx%d %s mode=%s graph=%s raster=%s\n",
			rr.Name, rr.Root, rr.Width, rr.Height, rr.Format, rr.Mode, rr.GraphDigest, rr.RasterDigest)
	}
	for i, pr := range r.Probes {
		status := "ok"
		if !pr.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "probe %d root=%d at=%s %s %s\n", i, pr.Root, floats(pr.At), value(pr), status)
	}
	fmt.Fprintf(&b, "pass %t\n", r.Pass)
	return []byte(b.String())
}

func floats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func value(pr ProbeResult) string {
	if pr.Kind == ir.Color {
		c := pr.Color
		return "color=" + floats([]float64{c.R, c.G, c.B, c.A})
	}
	return "value=" + strconv.FormatFloat(pr.Scalar, 'g', -1, 64)
}

// RunWithGolden runs sc without writing outputs and compares its snapshot
// with testdata/golden/{sc.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *scene.Scene) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), sc)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, sc.Name, result)
	return result, nil
}

// AssertGolden compares an existing result with its golden snapshot.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
