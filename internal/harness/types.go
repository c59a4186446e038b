package harness

import (
	"time"

	"github.com/roach88/noisegraph/internal/ir"
)

// BindingResult is one compiled binding.
type BindingResult struct {
	Name        string
	Root        ir.Index
	GraphDigest string
}

// RenderResult is one produced raster.
type RenderResult struct {
	Name         string   `json:"name"`
	Root         ir.Index `json:"root"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Mode         string   `json:"mode"`
	Format       string   `json:"format"`
	GraphDigest  string   `json:"graph_digest"`
	RasterDigest string   `json:"raster_digest"`

	// Output is the file written, or "" when the render was not saved.
	Output  string        `json:"output,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// ProbeResult is one evaluated probe.
type ProbeResult struct {
	Root   ir.Index
	At     []float64
	Kind   ir.ValueKind
	Scalar float64
	Color  ir.RGBA
	Pass   bool
}

// Result is the outcome of running a scene.
type Result struct {
	Scene string

	// Pass is true when every probe matched and every expected digest
	// was reproduced.
	Pass bool

	Bindings []BindingResult
	Renders  []RenderResult
	Probes   []ProbeResult

	// Errors describes each failed check. Empty if Pass is true.
	Errors []string
}

// NewResult creates a passing result for the named scene.
func NewResult(scene string) *Result {
	return &Result{Scene: scene, Pass: true, Errors: []string{}}
}

// AddError records a failed check and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
