package ir

// Op enumerates every node operation kind.
type Op uint8

const (
	OpConstant Op = iota
	OpSeed
	OpSeeder

	OpValueBasis
	OpGradientBasis
	OpSimplexBasis
	OpCellularBasis

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpMaximum
	OpMinimum
	OpPow
	OpBias
	OpGain

	OpScaleDomain
	OpTranslateDomain
	OpRotateDomain

	OpAddSequence
	OpMultiplySequence
	OpMaxSequence
	OpMinSequence

	OpMix
	OpSelect
	OpClamp

	OpCos
	OpSin
	OpTan
	OpAcos
	OpAsin
	OpAtan
	OpAbs
	OpSigmoid

	OpTiers
	OpSmoothTiers

	OpAxis
	OpRadial
	OpDerivative
	OpRandomize

	OpStep
	OpLinearStep
	OpSmoothStep
	OpSmootherStep
	OpCurveSection

	OpHexTile
	OpHexBump
	OpEase

	OpColor
	OpCombineRGBA
	OpCombineHSVA

	OpFractal

	opCount
)

var opNames = [opCount]string{
	OpConstant:         "constant",
	OpSeed:             "seed",
	OpSeeder:           "seeder",
	OpValueBasis:       "value_basis",
	OpGradientBasis:    "gradient_basis",
	OpSimplexBasis:     "simplex_basis",
	OpCellularBasis:    "cellular_basis",
	OpAdd:              "add",
	OpSubtract:         "subtract",
	OpMultiply:         "multiply",
	OpDivide:           "divide",
	OpMaximum:          "max",
	OpMinimum:          "min",
	OpPow:              "pow",
	OpBias:             "bias",
	OpGain:             "gain",
	OpScaleDomain:      "scale",
	OpTranslateDomain:  "translate",
	OpRotateDomain:     "rotate",
	OpAddSequence:      "add_sequence",
	OpMultiplySequence: "multiply_sequence",
	OpMaxSequence:      "max_sequence",
	OpMinSequence:      "min_sequence",
	OpMix:              "mix",
	OpSelect:           "select",
	OpClamp:            "clamp",
	OpCos:              "cos",
	OpSin:              "sin",
	OpTan:              "tan",
	OpAcos:             "acos",
	OpAsin:             "asin",
	OpAtan:             "atan",
	OpAbs:              "abs",
	OpSigmoid:          "sigmoid",
	OpTiers:            "tiers",
	OpSmoothTiers:      "smooth_tiers",
	OpAxis:             "axis",
	OpRadial:           "radial",
	OpDerivative:       "derivative",
	OpRandomize:        "randomize",
	OpStep:             "step",
	OpLinearStep:       "linear_step",
	OpSmoothStep:       "smooth_step",
	OpSmootherStep:     "smoother_step",
	OpCurveSection:     "curve_section",
	OpHexTile:          "hex_tile",
	OpHexBump:          "hex_bump",
	OpEase:             "ease",
	OpColor:            "color",
	OpCombineRGBA:      "combine_rgba",
	OpCombineHSVA:      "combine_hsva",
	OpFractal:          "fractal",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return "unknown"
}

// Node is a single operation in the noise graph.
//
// Node is a sealed interface: only types in this package implement it, so
// the executor's type switch over the concrete node types is exhaustive.
type Node interface {
	// Op returns the operation kind.
	Op() Op
	// Inputs returns every node referenced by this node, in field order.
	Inputs() []Index
	// Produces returns the shape of the value this node evaluates to.
	Produces() ValueKind

	node() // marker method restricting implementations to this package
}

// scalarNode is embedded by every node kind that produces a scalar.
type scalarNode struct{}

func (scalarNode) Produces() ValueKind { return Scalar }
func (scalarNode) node()               {}

// colorNode is embedded by every node kind that produces a color.
type colorNode struct{}

func (colorNode) Produces() ValueKind { return Color }
func (colorNode) node()               {}

// ---------------------------------------------------------------------------
// Constants and seeds
// ---------------------------------------------------------------------------

// Constant evaluates to a fixed number everywhere.
type Constant struct {
	scalarNode
	Value float64 `json:"value"`
}

func (Constant) Op() Op          { return OpConstant }
func (Constant) Inputs() []Index { return nil }

// Seed evaluates to its seed value. Basis nodes read their seed through a
// Seed node so that Seeder nodes can override it.
type Seed struct {
	scalarNode
	Value uint32 `json:"value"`
}

func (Seed) Op() Op          { return OpSeed }
func (Seed) Inputs() []Index { return nil }

// Seeder evaluates Source with every reachable Seed node re-seeded by the
// value of the Seed input.
type Seeder struct {
	scalarNode
	Seed   Index `json:"seed"`
	Source Index `json:"source"`
}

func (Seeder) Op() Op            { return OpSeeder }
func (n Seeder) Inputs() []Index { return []Index{n.Seed, n.Source} }

// ---------------------------------------------------------------------------
// Basis functions
// ---------------------------------------------------------------------------

// LatticeBasis is a value or gradient noise basis. Interp is evaluated and
// rounded to an InterpKind; Seed is evaluated and truncated to uint32.
type LatticeBasis struct {
	scalarNode
	Kind   BasisKind `json:"kind"`
	Interp Index     `json:"interp"`
	Seed   Index     `json:"seed"`
}

func (n LatticeBasis) Op() Op {
	if n.Kind == BasisValue {
		return OpValueBasis
	}
	return OpGradientBasis
}
func (n LatticeBasis) Inputs() []Index { return []Index{n.Interp, n.Seed} }

// SimplexBasis is a simplex noise basis.
type SimplexBasis struct {
	scalarNode
	Seed Index `json:"seed"`
}

func (SimplexBasis) Op() Op            { return OpSimplexBasis }
func (n SimplexBasis) Inputs() []Index { return []Index{n.Seed} }

// CellularBasis combines the four nearest feature-point distances (weighted
// by F) and the four matching per-cell random values (weighted by D).
type CellularBasis struct {
	scalarNode
	F        [4]Index `json:"f"`
	D        [4]Index `json:"d"`
	Distance Index    `json:"distance"`
	Seed     Index    `json:"seed"`
}

func (CellularBasis) Op() Op { return OpCellularBasis }
func (n CellularBasis) Inputs() []Index {
	return []Index{n.F[0], n.F[1], n.F[2], n.F[3], n.D[0], n.D[1], n.D[2], n.D[3], n.Distance, n.Seed}
}

// ---------------------------------------------------------------------------
// Arithmetic and scalar functions
// ---------------------------------------------------------------------------

// Binary applies a two-operand arithmetic operation.
// Kind is one of OpAdd through OpGain.
type Binary struct {
	scalarNode
	Kind Op    `json:"op"`
	A    Index `json:"a"`
	B    Index `json:"b"`
}

func (n Binary) Op() Op          { return n.Kind }
func (n Binary) Inputs() []Index { return []Index{n.A, n.B} }

// Unary applies a one-operand function. Kind is one of OpCos through OpAbs.
type Unary struct {
	scalarNode
	Kind   Op    `json:"op"`
	Source Index `json:"source"`
}

func (n Unary) Op() Op          { return n.Kind }
func (n Unary) Inputs() []Index { return []Index{n.Source} }

// Sigmoid is a logistic curve centered on Center with slope Ramp.
type Sigmoid struct {
	scalarNode
	Source Index `json:"source"`
	Center Index `json:"center"`
	Ramp   Index `json:"ramp"`
}

func (Sigmoid) Op() Op            { return OpSigmoid }
func (n Sigmoid) Inputs() []Index { return []Index{n.Source, n.Center, n.Ramp} }

// ---------------------------------------------------------------------------
// Domain transforms
// ---------------------------------------------------------------------------

// Domain evaluates Source at a coordinate scaled or translated by Amount,
// along one axis or along all of them. Kind is OpScaleDomain or
// OpTranslateDomain.
type Domain struct {
	scalarNode
	Kind   Op    `json:"op"`
	Axis   Axis  `json:"axis"`
	Source Index `json:"source"`
	Amount Index `json:"amount"`
}

func (n Domain) Op() Op          { return n.Kind }
func (n Domain) Inputs() []Index { return []Index{n.Source, n.Amount} }

// Rotate evaluates Source at a coordinate rotated by Angle radians around
// the axis (AX, AY, AZ). Two-dimensional queries rotate in the xy plane.
type Rotate struct {
	scalarNode
	Source Index `json:"source"`
	Angle  Index `json:"angle"`
	AX     Index `json:"ax"`
	AY     Index `json:"ay"`
	AZ     Index `json:"az"`
}

func (Rotate) Op() Op            { return OpRotateDomain }
func (n Rotate) Inputs() []Index { return []Index{n.Source, n.Angle, n.AX, n.AY, n.AZ} }

// ---------------------------------------------------------------------------
// Sequences
// ---------------------------------------------------------------------------

// Sequence folds Count nodes starting at Base and stepping by Stride.
// Kind is one of OpAddSequence through OpMinSequence.
type Sequence struct {
	scalarNode
	Kind   Op     `json:"op"`
	Base   Index  `json:"base"`
	Count  uint32 `json:"count"`
	Stride uint32 `json:"stride"`
}

func (n Sequence) Op() Op { return n.Kind }
func (n Sequence) Inputs() []Index {
	out := make([]Index, n.Count)
	for i := range out {
		out[i] = n.Base + Index(uint32(i)*n.Stride)
	}
	return out
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

// Mix blends Low and High by Control.
type Mix struct {
	scalarNode
	Low     Index `json:"low"`
	High    Index `json:"high"`
	Control Index `json:"control"`
}

func (Mix) Op() Op            { return OpMix }
func (n Mix) Inputs() []Index { return []Index{n.Low, n.High, n.Control} }

// Select picks Low below Threshold and High above it, blending across a
// band of width 2*Falloff.
type Select struct {
	scalarNode
	Low       Index `json:"low"`
	High      Index `json:"high"`
	Control   Index `json:"control"`
	Threshold Index `json:"threshold"`
	Falloff   Index `json:"falloff"`
}

func (Select) Op() Op { return OpSelect }
func (n Select) Inputs() []Index {
	return []Index{n.Low, n.High, n.Control, n.Threshold, n.Falloff}
}

// Clamp limits Source to [Low, High].
type Clamp struct {
	scalarNode
	Source Index `json:"source"`
	Low    Index `json:"low"`
	High   Index `json:"high"`
}

func (Clamp) Op() Op            { return OpClamp }
func (n Clamp) Inputs() []Index { return []Index{n.Source, n.Low, n.High} }

// ---------------------------------------------------------------------------
// Smoothing and steps
// ---------------------------------------------------------------------------

// Tiers quantizes Source into Count levels, optionally smoothing between them.
type Tiers struct {
	scalarNode
	Smooth bool  `json:"smooth"`
	Source Index `json:"source"`
	Count  Index `json:"count"`
}

func (n Tiers) Op() Op {
	if n.Smooth {
		return OpSmoothTiers
	}
	return OpTiers
}
func (n Tiers) Inputs() []Index { return []Index{n.Source, n.Count} }

// Step is 0 where Control < Value and 1 otherwise.
type Step struct {
	scalarNode
	Value   Index `json:"value"`
	Control Index `json:"control"`
}

func (Step) Op() Op            { return OpStep }
func (n Step) Inputs() []Index { return []Index{n.Value, n.Control} }

// Ramp maps Control from [Low, High] onto [0,1] with a linear, Hermite or
// quintic profile. Kind is OpLinearStep, OpSmoothStep or OpSmootherStep.
type Ramp struct {
	scalarNode
	Kind    Op    `json:"op"`
	Low     Index `json:"low"`
	High    Index `json:"high"`
	Control Index `json:"control"`
}

func (n Ramp) Op() Op          { return n.Kind }
func (n Ramp) Inputs() []Index { return []Index{n.Low, n.High, n.Control} }

// CurveSection is LowV below T0 and otherwise a quintic blend from V0 at T0
// to V1 at T1.
type CurveSection struct {
	scalarNode
	LowV    Index `json:"lowv"`
	T0      Index `json:"t0"`
	T1      Index `json:"t1"`
	V0      Index `json:"v0"`
	V1      Index `json:"v1"`
	Control Index `json:"control"`
}

func (CurveSection) Op() Op { return OpCurveSection }
func (n CurveSection) Inputs() []Index {
	return []Index{n.LowV, n.T0, n.T1, n.V0, n.V1, n.Control}
}

// Ease clamps Source to [0,1] and maps it through an easing curve.
type Ease struct {
	scalarNode
	Source Index     `json:"source"`
	Curve  EaseCurve `json:"curve"`
}

func (Ease) Op() Op            { return OpEase }
func (n Ease) Inputs() []Index { return []Index{n.Source} }

// ---------------------------------------------------------------------------
// Coordinate-derived values
// ---------------------------------------------------------------------------

// AxisValue evaluates to one component of the query coordinate.
type AxisValue struct {
	scalarNode
	Axis Axis `json:"axis"`
}

func (AxisValue) Op() Op          { return OpAxis }
func (AxisValue) Inputs() []Index { return nil }

// Radial evaluates to the length of the query coordinate.
type Radial struct {
	scalarNode
}

func (Radial) Op() Op          { return OpRadial }
func (Radial) Inputs() []Index { return nil }

// Derivative is the central difference of Source along Axis.
type Derivative struct {
	scalarNode
	Axis    Axis  `json:"axis"`
	Source  Index `json:"source"`
	Spacing Index `json:"spacing"`
}

func (Derivative) Op() Op            { return OpDerivative }
func (n Derivative) Inputs() []Index { return []Index{n.Source, n.Spacing} }

// Randomize is a coordinate-independent value in [Low, High] picked by Seed.
type Randomize struct {
	scalarNode
	Seed Index `json:"seed"`
	Low  Index `json:"low"`
	High Index `json:"high"`
}

func (Randomize) Op() Op            { return OpRandomize }
func (n Randomize) Inputs() []Index { return []Index{n.Seed, n.Low, n.High} }

// HexTile gives every cell of a hexagonal tiling a random value in [0,1].
type HexTile struct {
	scalarNode
	Seed Index `json:"seed"`
}

func (HexTile) Op() Op            { return OpHexTile }
func (n HexTile) Inputs() []Index { return []Index{n.Seed} }

// HexBump is 1 at each hexagon center falling to 0 at its edge.
type HexBump struct {
	scalarNode
}

func (HexBump) Op() Op          { return OpHexBump }
func (HexBump) Inputs() []Index { return nil }

// ---------------------------------------------------------------------------
// Color
// ---------------------------------------------------------------------------

// ColorLiteral evaluates to a fixed color everywhere.
type ColorLiteral struct {
	colorNode
	Value RGBA `json:"value"`
}

func (ColorLiteral) Op() Op          { return OpColor }
func (ColorLiteral) Inputs() []Index { return nil }

// Combine packs four scalar channels into a color. Kind is OpCombineRGBA or
// OpCombineHSVA; HSVA channels are converted to RGB.
type Combine struct {
	colorNode
	Kind     Op       `json:"op"`
	Channels [4]Index `json:"channels"`
}

func (n Combine) Op() Op { return n.Kind }
func (n Combine) Inputs() []Index {
	return []Index{n.Channels[0], n.Channels[1], n.Channels[2], n.Channels[3]}
}

// ---------------------------------------------------------------------------
// Fractals
// ---------------------------------------------------------------------------

// Fractal sums Octaves evaluations of Layer. Octave i is evaluated at the
// coordinate scaled by Frequency*Lacunarity^i, weighted by Persistence^i,
// with every Seed node under Layer re-seeded by Seed+i.
type Fractal struct {
	scalarNode
	Seed        Index `json:"seed"`
	Layer       Index `json:"layer"`
	Persistence Index `json:"persistence"`
	Lacunarity  Index `json:"lacunarity"`
	Octaves     Index `json:"octaves"`
	Frequency   Index `json:"frequency"`
}

func (Fractal) Op() Op { return OpFractal }
func (n Fractal) Inputs() []Index {
	return []Index{n.Seed, n.Layer, n.Persistence, n.Lacunarity, n.Octaves, n.Frequency}
}
