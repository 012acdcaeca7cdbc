package digitize

import (
	"math"
	"testing"
)

func TestVec2Algebra(t *testing.T) {
	v := Vec(3, 4)
	diff(t, 5.0, v.Hypot())
	diff(t, 25.0, v.Hypot2())
	diff(t, Vec(1.5, 2), v.Div(2))
	diff(t, Vec(6, 8), v.Mul(2))
	diff(t, Vec(-3, -4), v.Negate())
	diff(t, 11.0, v.Dot(Vec(1, 2)))
	diff(t, 2.0, v.Cross(Vec(1, 2)))
	diff(t, Vec(0.6, 0.8), v.Normalize())
	diff(t, 1.0, v.Normalize().Hypot())
	if !Vec(0, 0).Normalize().IsNaN() {
		t.Error("normalizing the zero vector must produce NaN")
	}
}

func TestVec2Angle(t *testing.T) {
	approx(t, math.Pi/2, Vec(0, 1).Angle(), 1e-12)
	got := VecFromAngle(math.Pi / 2)
	approx(t, 0, got.X, 1e-12)
	approx(t, 1, got.Y, 1e-12)
}
