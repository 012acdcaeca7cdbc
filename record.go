package digitize

import (
	"encoding/json"
	"fmt"
)

// knotRecord is the persisted form of a knot. The legacy form carries a
// single tangent_magnitude; the extended form splits it into out/in
// magnitudes and adds the independent-handle fields. Absent optional fields
// take the documented defaults.
type knotRecord struct {
	X                   float64  `json:"x"`
	Y                   float64  `json:"y"`
	Tension             *float64 `json:"tension,omitempty"`
	TangentAngle        *float64 `json:"tangent_angle"`
	TangentMagnitude    *float64 `json:"tangent_magnitude,omitempty"`
	TangentMagnitudeOut *float64 `json:"tangent_magnitude_out,omitempty"`
	TangentMagnitudeIn  *float64 `json:"tangent_magnitude_in,omitempty"`
	IndependentHandles  bool     `json:"independent_handles,omitempty"`
	TangentAngleIn      *float64 `json:"tangent_angle_in,omitempty"`
}

type curveRecord struct {
	Knots []knotRecord `json:"knots"`
}

type axisRecord struct {
	Kind     string  `json:"type"`
	MinPixel float64 `json:"min_pixel"`
	MaxPixel float64 `json:"max_pixel"`
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
}

// MarshalJSON writes the extended knot record. A knot in automatic mode
// stores a null tangent angle.
func (k *Knot) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordFromKnot(k))
}

func recordFromKnot(k *Knot) knotRecord {
	rec := knotRecord{
		X:                   k.pos.X,
		Y:                   k.pos.Y,
		Tension:             ptr(k.tension),
		TangentMagnitudeOut: ptr(k.magOut),
		TangentMagnitudeIn:  ptr(k.magIn),
		IndependentHandles:  k.independent,
	}
	if k.mode == TangentManual {
		rec.TangentAngle = ptr(k.angle)
	}
	if k.angleIn.isSet {
		rec.TangentAngleIn = ptr(k.angleIn.value)
	}
	return rec
}

// UnmarshalJSON accepts both the legacy single-magnitude record and the
// extended record.
func (k *Knot) UnmarshalJSON(data []byte) error {
	var rec knotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*k = *knotFromRecord(rec)
	return nil
}

func knotFromRecord(rec knotRecord) *Knot {
	k := NewKnot(Pt(rec.X, rec.Y))
	if rec.Tension != nil {
		k.tension = clamp01(*rec.Tension)
	}
	switch {
	case rec.TangentMagnitudeOut != nil || rec.TangentMagnitudeIn != nil:
		if rec.TangentMagnitudeOut != nil {
			k.magOut = *rec.TangentMagnitudeOut
		}
		if rec.TangentMagnitudeIn != nil {
			k.magIn = *rec.TangentMagnitudeIn
		}
	case rec.TangentMagnitude != nil:
		k.magOut = *rec.TangentMagnitude
		k.magIn = *rec.TangentMagnitude
	}
	k.independent = rec.IndependentHandles
	if rec.TangentAngleIn != nil {
		k.angleIn.set(*rec.TangentAngleIn)
	}
	if rec.TangentAngle != nil {
		k.angle = *rec.TangentAngle
		k.mode = TangentManual
		k.updateHandles()
	}
	return k
}

// MarshalJSON writes the persisted curve record, preserving knot order.
func (c *Curve) MarshalJSON() ([]byte, error) {
	rec := curveRecord{Knots: make([]knotRecord, 0, len(c.knots))}
	for _, k := range c.knots {
		rec.Knots = append(rec.Knots, recordFromKnot(k))
	}
	return json.Marshal(rec)
}

func (c *Curve) UnmarshalJSON(data []byte) error {
	var rec curveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	knots := make([]*Knot, 0, len(rec.Knots))
	for _, kr := range rec.Knots {
		knots = append(knots, knotFromRecord(kr))
	}
	*c = Curve{knots: knots, structural: 1}
	return nil
}

// MarshalJSON writes the axis calibration record.
func (a *Axis) MarshalJSON() ([]byte, error) {
	return json.Marshal(axisRecord{
		Kind:     a.kind.String(),
		MinPixel: a.minPixel,
		MaxPixel: a.maxPixel,
		MinValue: a.minValue,
		MaxValue: a.maxValue,
	})
}

func (a *Axis) UnmarshalJSON(data []byte) error {
	var rec axisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	var kind AxisKind
	switch rec.Kind {
	case Linear.String():
		kind = Linear
	case Logarithmic.String():
		kind = Logarithmic
	default:
		return fmt.Errorf("unknown axis type %q", rec.Kind)
	}
	*a = Axis{
		kind:     kind,
		minPixel: rec.MinPixel,
		maxPixel: rec.MaxPixel,
		minValue: rec.MinValue,
		maxValue: rec.MaxValue,
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
