package digitize

import "math"

// TangentMode distinguishes tangents derived from neighboring knots from
// tangents set explicitly by the user.
type TangentMode int

const (
	// TangentAuto derives the tangent from the knot's neighbors
	// (Catmull-Rom style) whenever the curve is rebuilt.
	TangentAuto TangentMode = iota
	// TangentManual uses the angle and magnitudes stored on the knot.
	TangentManual
)

// HandleKind selects one of a knot's two tangent handles.
type HandleKind int

const (
	// HandleIn is the handle controlling the incoming tangent.
	HandleIn HandleKind = iota
	// HandleOut is the handle controlling the outgoing tangent.
	HandleOut
)

const (
	// DefaultTension is the tension of a newly created knot.
	DefaultTension = 0.5
	// DefaultTangentMagnitude is the raw handle magnitude of a newly
	// created knot, in pixels.
	DefaultTangentMagnitude = 50.0

	// Tension t scales raw handle magnitudes by 1 − 0.8t, so full tension
	// leaves a fifth of the reach.
	tensionReach = 0.8

	minTangentMagnitude = 1.0
)

// Knot is a user-placed control point on a curve. It carries a position in
// pixel space, a tension in [0, 1] that shortens its tangent handles, and a
// tangent that is automatic or manual. In the default colinear mode the in
// and out handles share one direction, keeping the curve smooth through the
// knot; with independent handles the two directions may differ, forming a
// corner.
//
// Handle positions are a pure function of position, tangent and tension, and
// are recomputed eagerly by every mutator.
type Knot struct {
	pos         Point
	tension     float64
	mode        TangentMode
	resolved    bool // automatic tangent has been derived from neighbors
	angle       float64
	angleIn     option[float64]
	magOut      float64
	magIn       float64
	independent bool
	inHandle    option[Point]
	outHandle   option[Point]
	version     uint64
}

// NewKnot returns a knot at the given position with the default tension and
// an automatic tangent.
func NewKnot(pos Point) *Knot {
	return &Knot{
		pos:     pos,
		tension: DefaultTension,
		magOut:  DefaultTangentMagnitude,
		magIn:   DefaultTangentMagnitude,
	}
}

// Position returns the knot's position in pixel space.
func (k *Knot) Position() Point { return k.pos }

// SetPosition moves the knot. Previously computed handle positions are
// translated by the same delta, carrying the handle shape along with the
// knot.
func (k *Knot) SetPosition(pos Point) {
	d := pos.Sub(k.pos)
	k.pos = pos
	if k.inHandle.isSet {
		k.inHandle.set(k.inHandle.value.Translate(d))
	}
	if k.outHandle.isSet {
		k.outHandle.set(k.outHandle.value.Translate(d))
	}
	k.version++
}

// Tension returns the knot's tension.
func (k *Knot) Tension() float64 { return k.tension }

// SetTension sets the knot's tension, clamped to [0, 1].
func (k *Knot) SetTension(t float64) {
	k.tension = clamp01(t)
	k.updateHandles()
	k.version++
}

// Mode reports whether the knot's tangent is automatic or manual.
func (k *Knot) Mode() TangentMode { return k.mode }

// Independent reports whether the in and out handles have independent
// directions.
func (k *Knot) Independent() bool { return k.independent }

// SetIndependent switches between colinear and independent handle modes.
// Leaving independent mode discards the separate in-handle angle, forcing
// the handles colinear again.
func (k *Knot) SetIndependent(independent bool) {
	k.independent = independent
	if !independent {
		k.angleIn.clear()
	}
	k.updateHandles()
	k.version++
}

// Angle returns the tangent angle in radians. The value is meaningful once
// the tangent is manual or an automatic tangent has been resolved.
func (k *Knot) Angle() float64 { return k.angle }

// AngleIn returns the separate in-handle angle, if one is set. It is only
// meaningful in independent mode.
func (k *Knot) AngleIn() (float64, bool) {
	return k.angleIn.value, k.angleIn.isSet
}

// Magnitudes returns the raw out and in handle magnitudes, before tension is
// applied.
func (k *Knot) Magnitudes() (out, in float64) {
	return k.magOut, k.magIn
}

// SetTangent sets a manual tangent angle, keeping the current magnitudes. In
// colinear mode any separate in-handle angle is discarded.
func (k *Knot) SetTangent(angle float64) {
	k.angle = angle
	k.mode = TangentManual
	if !k.independent {
		k.angleIn.clear()
	}
	k.updateHandles()
	k.version++
}

// SetTangentMagnitudes sets the raw out and in handle magnitudes, each
// clamped to at least 1. It does not affect whether the tangent is automatic
// or manual.
func (k *Knot) SetTangentMagnitudes(out, in float64) {
	k.magOut = math.Max(minTangentMagnitude, out)
	k.magIn = math.Max(minTangentMagnitude, in)
	k.updateHandles()
	k.version++
}

// SetHandlePosition moves one of the tangent handles to the given pixel
// position, as when dragging a handle graphically. The handle's magnitude
// becomes its distance from the knot and its angle is derived from the drag
// direction. In colinear mode the opposite handle is re-derived to stay on
// the same line through the knot.
func (k *Knot) SetHandlePosition(kind HandleKind, pos Point) {
	d := pos.Sub(k.pos)
	switch kind {
	case HandleIn:
		k.inHandle.set(pos)
		k.magIn = d.Hypot()
		if k.magIn > 0 {
			if k.independent {
				k.angleIn.set(d.Angle())
			} else {
				// The out handle points opposite the in handle.
				k.angle = d.Negate().Angle()
				k.mode = TangentManual
				k.updateOutHandle()
			}
		}
	case HandleOut:
		k.outHandle.set(pos)
		k.magOut = d.Hypot()
		if k.magOut > 0 {
			k.angle = d.Angle()
			k.mode = TangentManual
			if !k.independent {
				k.updateInHandle()
			}
		}
	}
	k.version++
}

// InHandle returns the in-handle position. It reports false while an
// automatic tangent has not been resolved yet.
func (k *Knot) InHandle() (Point, bool) {
	return k.inHandle.value, k.inHandle.isSet
}

// OutHandle returns the out-handle position. It reports false while an
// automatic tangent has not been resolved yet.
func (k *Knot) OutHandle() (Point, bool) {
	return k.outHandle.value, k.outHandle.isSet
}

// hasTangent reports whether the knot's angle and magnitudes describe an
// actual tangent, either manual or a resolved automatic one.
func (k *Knot) hasTangent() bool {
	return k.mode == TangentManual || k.resolved
}

func (k *Knot) effectiveScale() float64 {
	return 1 - k.tension*tensionReach
}

// EffectiveMagnitude returns the handle magnitude after tension is applied:
// raw × (1 − 0.8·tension).
func (k *Knot) EffectiveMagnitude(kind HandleKind) float64 {
	if kind == HandleIn {
		return k.magIn * k.effectiveScale()
	}
	return k.magOut * k.effectiveScale()
}

// TangentVector returns the Hermite tangent vector fed to segment
// construction. The out vector points along the tangent angle; the in vector
// points the same way in colinear mode (keeping the curve C¹ through the
// knot) and opposite the separate in-handle direction in independent mode.
// The zero vector is returned while an automatic tangent is unresolved.
func (k *Knot) TangentVector(kind HandleKind) Vec2 {
	if !k.hasTangent() {
		return Vec2{}
	}
	if kind == HandleIn {
		mag := k.magIn * k.effectiveScale()
		if k.independent && k.angleIn.isSet {
			return VecFromAngle(k.angleIn.unwrap() + math.Pi).Mul(mag)
		}
		return VecFromAngle(k.angle).Mul(mag)
	}
	return VecFromAngle(k.angle).Mul(k.magOut * k.effectiveScale())
}

// updateHandles recomputes both handle positions from the knot's tangent
// state. It is a no-op while an automatic tangent is unresolved.
func (k *Knot) updateHandles() {
	if !k.hasTangent() {
		return
	}
	k.updateOutHandle()
	k.updateInHandle()
}

func (k *Knot) updateOutHandle() {
	if !k.hasTangent() {
		return
	}
	mag := k.magOut * k.effectiveScale()
	k.outHandle.set(k.pos.Translate(VecFromAngle(k.angle).Mul(mag)))
}

func (k *Knot) updateInHandle() {
	if !k.hasTangent() {
		return
	}
	mag := k.magIn * k.effectiveScale()
	if k.independent && k.angleIn.isSet {
		k.inHandle.set(k.pos.Translate(VecFromAngle(k.angleIn.unwrap()).Mul(mag)))
	} else {
		// Colinear: the in handle sits opposite the out direction, scaled
		// by its own magnitude.
		k.inHandle.set(k.pos.Translate(VecFromAngle(k.angle).Mul(-mag)))
	}
}

// resolveAuto stores a tangent derived from neighbors. The knot stays in
// automatic mode so that later neighbor edits re-derive it.
func (k *Knot) resolveAuto(angle, magOut, magIn float64) {
	k.angle = angle
	k.magOut = magOut
	k.magIn = magIn
	k.resolved = true
	k.updateHandles()
}
