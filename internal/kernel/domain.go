package kernel

import (
	"fmt"

	"github.com/roach88/noisegraph/internal/ir"
)

// Axis gradients evaluate to one component of the query coordinate.

func (k *Kernel) Axis(a ir.Axis) (ir.Index, error) {
	if a >= ir.AxisAll {
		return 0, &ir.Error{Code: ir.ErrCodeInvalidReference, Message: fmt.Sprintf("axis %s has no gradient", a)}
	}
	return k.mustPush(ir.AxisValue{Axis: a}), nil
}

func (k *Kernel) X() ir.Index { return k.mustPush(ir.AxisValue{Axis: ir.AxisX}) }
func (k *Kernel) Y() ir.Index { return k.mustPush(ir.AxisValue{Axis: ir.AxisY}) }
func (k *Kernel) Z() ir.Index { return k.mustPush(ir.AxisValue{Axis: ir.AxisZ}) }
func (k *Kernel) W() ir.Index { return k.mustPush(ir.AxisValue{Axis: ir.AxisW}) }
func (k *Kernel) U() ir.Index { return k.mustPush(ir.AxisValue{Axis: ir.AxisU}) }
func (k *Kernel) V() ir.Index { return k.mustPush(ir.AxisValue{Axis: ir.AxisV}) }

// Scale evaluates src at the coordinate multiplied by s on every axis.
func (k *Kernel) Scale(src, s ir.Index) (ir.Index, error) {
	return k.ScaleAxis(ir.AxisAll, src, s)
}

// ScaleAxis evaluates src at the coordinate multiplied by s along axis.
func (k *Kernel) ScaleAxis(axis ir.Axis, src, s ir.Index) (ir.Index, error) {
	if axis > ir.AxisAll {
		return 0, ir.NewInvalidReference(src, "unknown axis %d", axis)
	}
	return k.push(ir.Domain{Kind: ir.OpScaleDomain, Axis: axis, Source: src, Amount: s})
}

func (k *Kernel) ScaleX(src, s ir.Index) (ir.Index, error) { return k.ScaleAxis(ir.AxisX, src, s) }
func (k *Kernel) ScaleY(src, s ir.Index) (ir.Index, error) { return k.ScaleAxis(ir.AxisY, src, s) }
func (k *Kernel) ScaleZ(src, s ir.Index) (ir.Index, error) { return k.ScaleAxis(ir.AxisZ, src, s) }
func (k *Kernel) ScaleW(src, s ir.Index) (ir.Index, error) { return k.ScaleAxis(ir.AxisW, src, s) }
func (k *Kernel) ScaleU(src, s ir.Index) (ir.Index, error) { return k.ScaleAxis(ir.AxisU, src, s) }
func (k *Kernel) ScaleV(src, s ir.Index) (ir.Index, error) { return k.ScaleAxis(ir.AxisV, src, s) }

// Translate evaluates src at the coordinate offset by t on every axis.
func (k *Kernel) Translate(src, t ir.Index) (ir.Index, error) {
	return k.TranslateAxis(ir.AxisAll, src, t)
}

// TranslateAxis evaluates src at the coordinate offset by t along axis.
func (k *Kernel) TranslateAxis(axis ir.Axis, src, t ir.Index) (ir.Index, error) {
	if axis > ir.AxisAll {
		return 0, ir.NewInvalidReference(src, "unknown axis %d", axis)
	}
	return k.push(ir.Domain{Kind: ir.OpTranslateDomain, Axis: axis, Source: src, Amount: t})
}

func (k *Kernel) TranslateX(src, t ir.Index) (ir.Index, error) { return k.TranslateAxis(ir.AxisX, src, t) }
func (k *Kernel) TranslateY(src, t ir.Index) (ir.Index, error) { return k.TranslateAxis(ir.AxisY, src, t) }
func (k *Kernel) TranslateZ(src, t ir.Index) (ir.Index, error) { return k.TranslateAxis(ir.AxisZ, src, t) }
func (k *Kernel) TranslateW(src, t ir.Index) (ir.Index, error) { return k.TranslateAxis(ir.AxisW, src, t) }
func (k *Kernel) TranslateU(src, t ir.Index) (ir.Index, error) { return k.TranslateAxis(ir.AxisU, src, t) }
func (k *Kernel) TranslateV(src, t ir.Index) (ir.Index, error) { return k.TranslateAxis(ir.AxisV, src, t) }

// Rotate evaluates src at the coordinate rotated by angle radians around
// the axis (ax, ay, az).
func (k *Kernel) Rotate(src, angle, ax, ay, az ir.Index) (ir.Index, error) {
	return k.push(ir.Rotate{Source: src, Angle: angle, AX: ax, AY: ay, AZ: az})
}

// Derivative is the central difference of src along axis with the given
// spacing.
func (k *Kernel) Derivative(axis ir.Axis, src, spacing ir.Index) (ir.Index, error) {
	if axis >= ir.AxisAll {
		return 0, ir.NewInvalidReference(src, "axis %s has no derivative", axis)
	}
	return k.push(ir.Derivative{Axis: axis, Source: src, Spacing: spacing})
}

func (k *Kernel) DX(src, spacing ir.Index) (ir.Index, error) { return k.Derivative(ir.AxisX, src, spacing) }
func (k *Kernel) DY(src, spacing ir.Index) (ir.Index, error) { return k.Derivative(ir.AxisY, src, spacing) }
func (k *Kernel) DZ(src, spacing ir.Index) (ir.Index, error) { return k.Derivative(ir.AxisZ, src, spacing) }
func (k *Kernel) DW(src, spacing ir.Index) (ir.Index, error) { return k.Derivative(ir.AxisW, src, spacing) }
func (k *Kernel) DU(src, spacing ir.Index) (ir.Index, error) { return k.Derivative(ir.AxisU, src, spacing) }
func (k *Kernel) DV(src, spacing ir.Index) (ir.Index, error) { return k.Derivative(ir.AxisV, src, spacing) }
