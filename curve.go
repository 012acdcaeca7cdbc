package digitize

import (
	"math"
	"slices"
)

// Neighbor spans closer to vertical than this snap the automatic tangent to
// ±π/2, avoiding the atan2 branch discontinuity.
const verticalSpanEpsilon = 0.001

// autoMagnitudeScale is the fraction of the neighbor distance used as the
// magnitude of an automatic tangent.
const autoMagnitudeScale = 0.3

// HermiteSegment is a cubic Hermite interpolant between two knots, defined by
// the endpoint positions and tangent vectors.
type HermiteSegment struct {
	P0 Point
	P1 Point
	T0 Vec2
	T1 Vec2
}

// Eval evaluates the segment at local parameter u ∈ [0, 1] using the cubic
// Hermite basis.
func (s HermiteSegment) Eval(u float64) Point {
	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	return Point{
		X: h00*s.P0.X + h10*s.T0.X + h01*s.P1.X + h11*s.T1.X,
		Y: h00*s.P0.Y + h10*s.T0.Y + h01*s.P1.Y + h11*s.T1.Y,
	}
}

func (s HermiteSegment) Start() Point { return s.P0 }
func (s HermiteSegment) End() Point   { return s.P1 }

// Curve is an ordered collection of knots joined by cubic Hermite segments.
//
// Knots are kept sorted by ascending x on insertion. Moving a knot past a
// neighbor's x does not re-sort the list; segment adjacency follows list
// order, which lets a dragged knot produce a self-intersecting curve. This
// matches the interactive editing model, where insertion order is the user's
// statement of intent.
//
// Derived segment state is cached and rebuilt lazily: every knot mutation
// bumps that knot's version counter, and evaluation rebuilds when the
// combined version of the curve has changed.
type Curve struct {
	knots      []*Knot
	segments   []HermiteSegment
	structural uint64
	built      option[uint64]
}

// NewCurve returns an empty curve.
func NewCurve() *Curve {
	return &Curve{}
}

// Len returns the number of knots.
func (c *Curve) Len() int { return len(c.knots) }

// Knot returns the i'th knot in list order.
func (c *Curve) Knot(i int) *Knot { return c.knots[i] }

// Knots returns the knots in list order. The slice is shared with the curve
// and must not be modified structurally.
func (c *Curve) Knots() []*Knot { return c.knots }

// AddKnot inserts a knot, keeping the list sorted by ascending x. A knot
// whose x ties an existing knot's is placed at or after it.
func (c *Curve) AddKnot(k *Knot) {
	i := len(c.knots)
	if len(c.knots) > 0 && k.pos.X < c.knots[len(c.knots)-1].pos.X {
		for j, other := range c.knots {
			if k.pos.X < other.pos.X {
				i = j
				break
			}
		}
	}
	c.knots = slices.Insert(c.knots, i, k)
	c.structural++
}

// RemoveKnot removes the i'th knot. Out-of-range indices are ignored.
func (c *Curve) RemoveKnot(i int) {
	if i < 0 || i >= len(c.knots) {
		return
	}
	// The removed knot's version leaves the epoch sum; fold it into the
	// structural counter so the epoch still strictly advances.
	c.structural += c.knots[i].version + 1
	c.knots = append(c.knots[:i], c.knots[i+1:]...)
}

// epoch combines the structural version with every knot's version. Any
// mutation changes the result.
func (c *Curve) epoch() uint64 {
	e := c.structural
	for _, k := range c.knots {
		e += k.version
	}
	return e
}

// ensure rebuilds the segment cache if any knot changed since the last
// rebuild.
func (c *Curve) ensure() {
	if e := c.epoch(); !c.built.isSet || c.built.value != e {
		c.Rebuild()
	}
}

// Rebuild resolves automatic tangents and reconstructs the Hermite segments.
// With fewer than two knots the segment list is empty. Rebuilding twice
// without mutation produces identical segments.
func (c *Curve) Rebuild() {
	e := c.epoch()
	if len(c.knots) < 2 {
		c.segments = nil
		c.built.set(e)
		return
	}
	c.resolveAutoTangents()
	c.segments = c.segments[:0]
	for i := 0; i < len(c.knots)-1; i++ {
		k0 := c.knots[i]
		k1 := c.knots[i+1]
		c.segments = append(c.segments, HermiteSegment{
			P0: k0.pos,
			P1: k1.pos,
			T0: k0.TangentVector(HandleOut),
			T1: k1.TangentVector(HandleIn),
		})
	}
	c.built.set(e)
}

// resolveAutoTangents derives tangents for every knot in automatic mode.
// Endpoints point at their sole neighbor; interior knots take the direction
// from the previous to the next knot, Catmull-Rom style, with magnitudes
// proportional to the neighbor distances.
func (c *Curve) resolveAutoTangents() {
	n := len(c.knots)
	for i, k := range c.knots {
		if k.mode == TangentManual {
			continue
		}
		switch {
		case n == 1:
			k.resolveAuto(0, DefaultTangentMagnitude, DefaultTangentMagnitude)
		case i == 0:
			d := c.knots[1].pos.Sub(k.pos)
			mag := d.Hypot() * autoMagnitudeScale
			k.resolveAuto(d.Angle(), mag, mag)
		case i == n-1:
			d := k.pos.Sub(c.knots[i-1].pos)
			mag := d.Hypot() * autoMagnitudeScale
			k.resolveAuto(d.Angle(), mag, mag)
		default:
			prev := c.knots[i-1]
			next := c.knots[i+1]
			span := next.pos.Sub(prev.pos)
			if math.Abs(span.X) > verticalSpanEpsilon {
				magIn := k.pos.Distance(prev.pos) * autoMagnitudeScale
				magOut := next.pos.Distance(k.pos) * autoMagnitudeScale
				k.resolveAuto(span.Angle(), magOut, magIn)
			} else {
				angle := math.Pi / 2
				if span.Y <= 0 {
					angle = -math.Pi / 2
				}
				k.resolveAuto(angle, DefaultTangentMagnitude, DefaultTangentMagnitude)
			}
		}
	}
}

// Segments returns the Hermite segments, rebuilding them first if stale. The
// slice is shared with the curve and valid until the next rebuild.
func (c *Curve) Segments() []HermiteSegment {
	c.ensure()
	return c.segments
}

// Eval evaluates the curve at global parameter t ∈ [0, 1], spread evenly
// across the segments. Values outside [0, 1] clamp to the curve's endpoints.
// It reports false when the curve has fewer than two knots.
func (c *Curve) Eval(t float64) (Point, bool) {
	c.ensure()
	if len(c.segments) == 0 {
		return Point{}, false
	}
	return c.eval(t), true
}

// eval requires a non-empty, up-to-date segment list.
func (c *Curve) eval(t float64) Point {
	n := len(c.segments)
	if t <= 0 {
		return c.segments[0].P0
	}
	if t >= 1 {
		return c.segments[n-1].P1
	}
	i := int(t * float64(n))
	if i >= n {
		i = n - 1
	}
	u := t*float64(n) - float64(i)
	return c.segments[i].Eval(u)
}

// Sample evaluates the curve at n parameter values spaced uniformly in
// [0, 1]. It returns nil when the curve has fewer than two knots or n < 1.
func (c *Curve) Sample(n int) []Point {
	if len(c.knots) < 2 || n < 1 {
		return nil
	}
	c.ensure()
	if len(c.segments) == 0 {
		return nil
	}
	if n == 1 {
		return []Point{c.eval(0)}
	}
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = c.eval(float64(i) / float64(n-1))
	}
	return pts
}

// AdaptiveSample samples the curve with density driven by local curvature.
//
// Starting from one sample per segment boundary, it walks adjacent sample
// pairs in parameter order and, wherever the curve's midpoint deviates from
// the pair's chord midpoint by more than maxError pixels, inserts the curve
// midpoint and re-examines the pair. Refinement stops when no pair exceeds
// the tolerance or maxPoints is reached. If fewer than minPoints result, the
// largest parameter gap is bisected until minPoints is met.
//
// The returned points are in pixel space, ordered by increasing parameter.
// Nil is returned when the curve has fewer than two knots.
func (c *Curve) AdaptiveSample(maxError float64, minPoints, maxPoints int) []Point {
	if len(c.knots) < 2 {
		return nil
	}
	c.ensure()
	if len(c.segments) == 0 {
		return nil
	}

	n := len(c.segments)
	params := make([]float64, 0, n+1)
	points := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		params = append(params, t)
		if i < n {
			points = append(points, c.segments[i].P0)
		} else {
			points = append(points, c.segments[n-1].P1)
		}
	}

	for i := 0; i < len(params)-1 && len(params) < maxPoints; {
		tMid := 0.5 * (params[i] + params[i+1])
		pMid := c.eval(tMid)
		chord := points[i].Midpoint(points[i+1])
		if pMid.Distance(chord) > maxError {
			params = slices.Insert(params, i+1, tMid)
			points = slices.Insert(points, i+1, pMid)
		} else {
			i++
		}
	}

	for len(points) < minPoints {
		gap := 0
		for i := 1; i < len(params)-1; i++ {
			if params[i+1]-params[i] > params[gap+1]-params[gap] {
				gap = i
			}
		}
		tNew := 0.5 * (params[gap] + params[gap+1])
		params = slices.Insert(params, gap+1, tNew)
		points = slices.Insert(points, gap+1, c.eval(tNew))
	}

	return points
}
