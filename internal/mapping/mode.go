package mapping

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how pixels are lifted into noise space.
type Mode uint8

const (
	SeamlessNone Mode = iota
	SeamlessX
	SeamlessY
	SeamlessXY
	Spherical
)

var modeNames = [...]string{"none", "x", "y", "xy", "spherical"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a name such as "xy" or "spherical" into a Mode.
// The "seamless_" prefix is accepted and ignored.
func ParseMode(s string) (Mode, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "seamless_")
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mapping mode %q: must be one of %v", s, modeNames)
}

// Rect is the region of noise space a raster covers.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// DefaultDomain is the rectangle used when none is given.
var DefaultDomain = Rect{X: -1, Y: -1, W: 2, H: 2}

// Spec describes one raster to generate.
type Spec struct {
	Mode   Mode
	Domain Rect
	Width  int
	Height int
	Format Format

	// Slice holds extra trailing axes for SeamlessNone, so a 2D image can
	// be cut from a 3D, 4D or 6D field.
	Slice []float64
}

// lift maps normalized pixel position (s, t) into dst and returns it.
type lift func(spec Spec, s, t float64, dst []float64) []float64

var lifts = [...]lift{
	SeamlessNone: liftPlain,
	SeamlessX:    liftCylinderX,
	SeamlessY:    liftCylinderY,
	SeamlessXY:   liftTorus,
	Spherical:    liftSphere,
}

func liftPlain(spec Spec, s, t float64, dst []float64) []float64 {
	d := spec.Domain
	dst = append(dst, d.X+s*d.W, d.Y+t*d.H)
	return append(dst, spec.Slice...)
}

func liftCylinderX(spec Spec, s, t float64, dst []float64) []float64 {
	d := spec.Domain
	a := 2 * math.Pi * s
	rx := d.W / (2 * math.Pi)
	return append(dst, d.X+rx*math.Cos(a), d.Y+t*d.H, d.X+rx*math.Sin(a))
}

func liftCylinderY(spec Spec, s, t float64, dst []float64) []float64 {
	d := spec.Domain
	b := 2 * math.Pi * t
	ry := d.H / (2 * math.Pi)
	return append(dst, d.X+s*d.W, d.Y+ry*math.Cos(b), d.Y+ry*math.Sin(b))
}

func liftTorus(spec Spec, s, t float64, dst []float64) []float64 {
	d := spec.Domain
	a, b := 2*math.Pi*s, 2*math.Pi*t
	rx, ry := d.W/(2*math.Pi), d.H/(2*math.Pi)
	return append(dst,
		d.X+rx*math.Cos(a),
		d.Y+ry*math.Cos(b),
		d.X+rx*math.Sin(a),
		d.Y+ry*math.Sin(b),
	)
}

// liftSphere treats s as longitude and t as latitude, pole to pole, on a
// sphere centred on the domain with circumference W.
func liftSphere(spec Spec, s, t float64, dst []float64) []float64 {
	d := spec.Domain
	lon := 2 * math.Pi * s
	lat := math.Pi * (t - 0.5)
	r := d.W / (2 * math.Pi)
	cx, cy := d.X+d.W/2, d.Y+d.H/2
	return append(dst,
		cx+r*math.Cos(lat)*math.Cos(lon),
		cy+r*math.Sin(lat),
		r*math.Cos(lat)*math.Sin(lon),
	)
}

// Coordinate returns the noise-space point sampled for pixel (col, row).
// Columns and rows beyond the raster are allowed; for wrapping modes col W
// samples the same point as col 0.
func Coordinate(spec Spec, col, row int) ([]float64, error) {
	if int(spec.Mode) >= len(lifts) {
		return nil, fmt.Errorf("unknown mapping mode %d", spec.Mode)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", spec.Width, spec.Height)
	}
	return coordinate(spec, col, row, make([]float64, 0, 6)), nil
}

func coordinate(spec Spec, col, row int, dst []float64) []float64 {
	s := float64(col) / float64(spec.Width)
	t := float64(row) / float64(spec.Height)
	return lifts[spec.Mode](spec, s, t, dst[:0])
}
