package ir

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalLine renders a node as a single stable line of text.
//
// The format is the operation name followed by space-separated key=value
// fields in a fixed per-kind order:
//
//	add a=3 b=4
//	constant value=0.5
//	scale axis=x source=7 amount=8
//
// Floats use the shortest representation that round-trips exactly, so two
// nodes render identically if and only if they are identical. This is the
// ONLY serialization used for graph digests.
func CanonicalLine(n Node) string {
	return canonicalLine(n, nil)
}

// canonicalLine renders n with every input Index translated through local.
// A nil local writes absolute indices. With a local numbering, sequences
// list their members explicitly since renumbering does not keep strides.
func canonicalLine(n Node, local map[Index]int) string {
	var b strings.Builder
	b.WriteString(n.Op().String())

	field := func(key string, val string) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(val)
	}
	idx := func(key string, i Index) {
		if local != nil {
			field(key, strconv.Itoa(local[i]))
			return
		}
		field(key, strconv.FormatUint(uint64(i), 10))
	}

	switch v := n.(type) {
	case Constant:
		field("value", formatFloat(v.Value))
	case Seed:
		field("value", strconv.FormatUint(uint64(v.Value), 10))
	case Seeder:
		idx("seed", v.Seed)
		idx("source", v.Source)
	case LatticeBasis:
		idx("interp", v.Interp)
		idx("seed", v.Seed)
	case SimplexBasis:
		idx("seed", v.Seed)
	case CellularBasis:
		for i, f := range v.F {
			idx(fmt.Sprintf("f%d", i+1), f)
		}
		for i, d := range v.D {
			idx(fmt.Sprintf("d%d", i+1), d)
		}
		idx("distance", v.Distance)
		idx("seed", v.Seed)
	case Binary:
		idx("a", v.A)
		idx("b", v.B)
	case Unary:
		idx("source", v.Source)
	case Sigmoid:
		idx("source", v.Source)
		idx("center", v.Center)
		idx("ramp", v.Ramp)
	case Domain:
		field("axis", v.Axis.String())
		idx("source", v.Source)
		idx("amount", v.Amount)
	case Rotate:
		idx("source", v.Source)
		idx("angle", v.Angle)
		idx("ax", v.AX)
		idx("ay", v.AY)
		idx("az", v.AZ)
	case Sequence:
		if local != nil {
			members := make([]string, 0, v.Count)
			for _, in := range v.Inputs() {
				members = append(members, strconv.Itoa(local[in]))
			}
			field("members", strings.Join(members, ","))
			break
		}
		idx("base", v.Base)
		field("count", strconv.FormatUint(uint64(v.Count), 10))
		field("stride", strconv.FormatUint(uint64(v.Stride), 10))
	case Mix:
		idx("low", v.Low)
		idx("high", v.High)
		idx("control", v.Control)
	case Select:
		idx("low", v.Low)
		idx("high", v.High)
		idx("control", v.Control)
		idx("threshold", v.Threshold)
		idx("falloff", v.Falloff)
	case Clamp:
		idx("source", v.Source)
		idx("low", v.Low)
		idx("high", v.High)
	case Tiers:
		idx("source", v.Source)
		idx("count", v.Count)
	case Step:
		idx("value", v.Value)
		idx("control", v.Control)
	case Ramp:
		idx("low", v.Low)
		idx("high", v.High)
		idx("control", v.Control)
	case CurveSection:
		idx("lowv", v.LowV)
		idx("t0", v.T0)
		idx("t1", v.T1)
		idx("v0", v.V0)
		idx("v1", v.V1)
		idx("control", v.Control)
	case Ease:
		idx("source", v.Source)
		field("curve", v.Curve.String())
	case AxisValue:
		field("axis", v.Axis.String())
	case Radial, HexBump:
	case Derivative:
		field("axis", v.Axis.String())
		idx("source", v.Source)
		idx("spacing", v.Spacing)
	case Randomize:
		idx("seed", v.Seed)
		idx("low", v.Low)
		idx("high", v.High)
	case HexTile:
		idx("seed", v.Seed)
	case ColorLiteral:
		field("r", formatFloat(v.Value.R))
		field("g", formatFloat(v.Value.G))
		field("b", formatFloat(v.Value.B))
		field("a", formatFloat(v.Value.A))
	case Combine:
		names := [4]string{"r", "g", "b", "a"}
		if v.Kind == OpCombineHSVA {
			names = [4]string{"h", "s", "v", "a"}
		}
		for i, c := range v.Channels {
			idx(names[i], c)
		}
	case Fractal:
		idx("seed", v.Seed)
		idx("layer", v.Layer)
		idx("persistence", v.Persistence)
		idx("lacunarity", v.Lacunarity)
		idx("octaves", v.Octaves)
		idx("frequency", v.Frequency)
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// NormalizeName prepares a user-supplied identifier for lookup.
// Names are NFC normalized so that visually identical identifiers
// typed with different Unicode compositions bind to the same node.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
