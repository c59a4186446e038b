// Package scene loads scene files: named expressions plus the rasters and
// point probes to produce from them.
//
// A scene is written in YAML or CUE; both decode into the same Scene
// value and go through the same validation. CUE files are additionally
// unified with an embedded schema, so type errors carry file positions.
//
//	name: terrain
//	bindings:
//	  - name: base
//	    expr: fbm(gradient, quintic, 4, 2, 7)
//	renders:
//	  - name: tile
//	    root: base
//	    mode: xy
//	    width: 256
//	    height: 256
//	    output: tile.png
//	probes:
//	  - root: base * 0
//	    at: [0.5, 0.5]
//	    expect: 0
//
// Bindings are compiled in order, so later expressions may use earlier
// names. A render or probe root is either a binding name or an expression.
package scene

import (
	"fmt"
	"path/filepath"

	"github.com/roach88/noisegraph/internal/ir"
	"github.com/roach88/noisegraph/internal/mapping"
)

// Scene is a decoded scene file.
type Scene struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Bindings    []Binding `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Renders     []Render  `json:"renders,omitempty" yaml:"renders,omitempty"`
	Probes      []Probe   `json:"probes,omitempty" yaml:"probes,omitempty"`

	// Dir is the directory of the source file; relative outputs resolve
	// against it. Empty for scenes parsed from memory.
	Dir string `json:"-" yaml:"-"`
}

// Binding names the result of an expression.
type Binding struct {
	Name string `json:"name" yaml:"name"`
	Expr string `json:"expr" yaml:"expr"`
}

// Render describes one raster.
type Render struct {
	Name      string        `json:"name" yaml:"name"`
	Root      string        `json:"root" yaml:"root"`
	Mode      string        `json:"mode,omitempty" yaml:"mode,omitempty"`
	Format    string        `json:"format,omitempty" yaml:"format,omitempty"`
	Width     int           `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int           `json:"height,omitempty" yaml:"height,omitempty"`
	Domain    *mapping.Rect `json:"domain,omitempty" yaml:"domain,omitempty"`
	Normalize bool          `json:"normalize,omitempty" yaml:"normalize,omitempty"`
	Slice     []float64     `json:"slice,omitempty" yaml:"slice,omitempty"`
	Output    string        `json:"output,omitempty" yaml:"output,omitempty"`

	// Digest, when set, is the expected raster digest.
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`
}

// Probe evaluates a root at one coordinate and compares the result.
// Exactly one of Expect and Color is set.
type Probe struct {
	Root      string    `json:"root" yaml:"root"`
	At        []float64 `json:"at" yaml:"at"`
	Expect    *float64  `json:"expect,omitempty" yaml:"expect,omitempty"`
	Color     *ir.RGBA  `json:"color,omitempty" yaml:"color,omitempty"`
	Tolerance float64   `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}

// Defaults applied to omitted render and probe fields.
const (
	DefaultMode      = "none"
	DefaultFormat    = "rgba8"
	DefaultSize      = 256
	DefaultTolerance = 1e-9
)

// Spec converts a render into a mapping spec.
func (r Render) Spec() (mapping.Spec, error) {
	mode, err := mapping.ParseMode(r.Mode)
	if err != nil {
		return mapping.Spec{}, err
	}
	format, err := mapping.ParseFormat(r.Format)
	if err != nil {
		return mapping.Spec{}, err
	}
	domain := mapping.DefaultDomain
	if r.Domain != nil {
		domain = *r.Domain
	}
	return mapping.Spec{
		Mode:   mode,
		Domain: domain,
		Width:  r.Width,
		Height: r.Height,
		Format: format,
		Slice:  r.Slice,
	}, nil
}

// OutputPath resolves r.Output against dir, then the scene directory.
// It returns "" when the render has no output.
func (s *Scene) OutputPath(r Render, dir string) string {
	if r.Output == "" {
		return ""
	}
	if filepath.IsAbs(r.Output) {
		return r.Output
	}
	if dir == "" {
		dir = s.Dir
	}
	return filepath.Join(dir, r.Output)
}

// normalize fills defaults and NFC-normalizes names so that YAML and CUE
// sources describing the same scene decode identically.
func (s *Scene) normalize() {
	s.Name = ir.NormalizeName(s.Name)
	if len(s.Bindings) == 0 {
		s.Bindings = nil
	}
	if len(s.Renders) == 0 {
		s.Renders = nil
	}
	if len(s.Probes) == 0 {
		s.Probes = nil
	}
	for i := range s.Bindings {
		s.Bindings[i].Name = ir.NormalizeName(s.Bindings[i].Name)
	}
	for i := range s.Renders {
		r := &s.Renders[i]
		r.Name = ir.NormalizeName(r.Name)
		if r.Mode == "" {
			r.Mode = DefaultMode
		}
		if r.Format == "" {
			r.Format = DefaultFormat
		}
		if r.Width == 0 {
			r.Width = DefaultSize
		}
		if r.Height == 0 {
			r.Height = DefaultSize
		}
		if len(r.Slice) == 0 {
			r.Slice = nil
		}
	}
	for i := range s.Probes {
		if s.Probes[i].Tolerance == 0 {
			s.Probes[i].Tolerance = DefaultTolerance
		}
	}
}

// validate checks everything a schema cannot: parseable enums, unique
// names, coordinate arity.
func (s *Scene) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Renders) == 0 && len(s.Probes) == 0 {
		return fmt.Errorf("scene %q has no renders or probes", s.Name)
	}

	seen := make(map[string]bool)
	for i, b := range s.Bindings {
		if b.Name == "" {
			return fmt.Errorf("bindings[%d]: name is required", i)
		}
		if b.Expr == "" {
			return fmt.Errorf("bindings[%d] %q: expr is required", i, b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("bindings[%d]: duplicate name %q", i, b.Name)
		}
		seen[b.Name] = true
	}

	renders := make(map[string]bool)
	for i, r := range s.Renders {
		if r.Name == "" {
			return fmt.Errorf("renders[%d]: name is required", i)
		}
		if renders[r.Name] {
			return fmt.Errorf("renders[%d]: duplicate name %q", i, r.Name)
		}
		renders[r.Name] = true
		if r.Root == "" {
			return fmt.Errorf("renders[%d] %q: root is required", i, r.Name)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("renders[%d] %q: size %dx%d must be positive", i, r.Name, r.Width, r.Height)
		}
		if _, err := r.Spec(); err != nil {
			return fmt.Errorf("renders[%d] %q: %w", i, r.Name, err)
		}
		if r.Domain != nil && (r.Domain.W == 0 || r.Domain.H == 0) {
			return fmt.Errorf("renders[%d] %q: domain must have non-zero width and height", i, r.Name)
		}
	}

	for i, p := range s.Probes {
		if p.Root == "" {
			return fmt.Errorf("probes[%d]: root is required", i)
		}
		switch len(p.At) {
		case 2, 3, 4, 6:
		default:
			return fmt.Errorf("probes[%d]: at has %d components, want 2, 3, 4 or 6", i, len(p.At))
		}
		if (p.Expect == nil) == (p.Color == nil) {
			return fmt.Errorf("probes[%d]: exactly one of expect and color is required", i)
		}
		if p.Tolerance < 0 {
			return fmt.Errorf("probes[%d]: tolerance must not be negative", i)
		}
	}
	return nil
}
