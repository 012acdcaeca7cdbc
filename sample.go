package digitize

import "math"

// denseInversionSamples is the number of curve evaluations used to invert
// pixel x positions during uniform sampling.
const denseInversionSamples = 1000

// Sample is one digitized record in data space.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is an ordered sequence of digitized records.
type Series []Sample

// SeriesStats summarizes a series.
type SeriesStats struct {
	Count             int
	XMin, XMax, XMean float64
	YMin, YMax, YMean float64
}

// Stats computes summary statistics. It reports false for an empty series.
func (s Series) Stats() (SeriesStats, bool) {
	if len(s) == 0 {
		return SeriesStats{}, false
	}
	st := SeriesStats{
		Count: len(s),
		XMin:  s[0].X, XMax: s[0].X,
		YMin: s[0].Y, YMax: s[0].Y,
	}
	for _, p := range s {
		st.XMin = math.Min(st.XMin, p.X)
		st.XMax = math.Max(st.XMax, p.X)
		st.YMin = math.Min(st.YMin, p.Y)
		st.YMax = math.Max(st.YMax, p.Y)
		st.XMean += p.X
		st.YMean += p.Y
	}
	st.XMean /= float64(len(s))
	st.YMean /= float64(len(s))
	return st, true
}

// UniformSeries samples the curve at n x positions spaced evenly in data
// space, linearly or logarithmically depending on the x axis kind. The x
// range is spanned by the knots' x positions converted to data values.
//
// Inversion from a target pixel x to a curve point is approximate: the curve
// is evaluated densely and the point with the nearest pixel x wins. For
// curves with several y values per x, this silently picks one branch.
//
// An empty series is returned when the curve has fewer than two knots.
func UniformSeries(c *Curve, xAxis, yAxis *Axis, n int) (Series, error) {
	if c.Len() < 2 || n < 1 {
		return nil, nil
	}
	dense := c.Sample(denseInversionSamples)
	if len(dense) == 0 {
		return nil, nil
	}

	xMin := math.Inf(1)
	xMax := math.Inf(-1)
	for _, k := range c.Knots() {
		v := xAxis.PixelToValue(k.Position().X)
		xMin = math.Min(xMin, v)
		xMax = math.Max(xMax, v)
	}

	out := make(Series, 0, n)
	for i := 0; i < n; i++ {
		var s float64
		if n > 1 {
			s = float64(i) / float64(n-1)
		}
		var x float64
		if xAxis.Kind() == Logarithmic {
			x = math.Pow(10, math.Log10(xMin)+s*(math.Log10(xMax)-math.Log10(xMin)))
		} else {
			x = xMin + s*(xMax-xMin)
		}
		px, err := xAxis.ValueToPixel(x)
		if err != nil {
			return nil, err
		}
		nearest := dense[0]
		best := math.Abs(dense[0].X - px)
		for _, p := range dense[1:] {
			if d := math.Abs(p.X - px); d < best {
				best = d
				nearest = p
			}
		}
		out = append(out, Sample{
			X: xAxis.PixelToValue(nearest.X),
			Y: yAxis.PixelToValue(nearest.Y),
		})
	}
	return out, nil
}

// AdaptiveSeries samples the curve adaptively in pixel space (see
// [Curve.AdaptiveSample]; maxError is in pixel units) and converts the
// resulting points to data values through the two axes.
//
// An empty series is returned when the curve has fewer than two knots.
func AdaptiveSeries(c *Curve, xAxis, yAxis *Axis, maxError float64, minPoints, maxPoints int) Series {
	pts := c.AdaptiveSample(maxError, minPoints, maxPoints)
	if len(pts) == 0 {
		return nil
	}
	out := make(Series, 0, len(pts))
	for _, p := range pts {
		out = append(out, Sample{
			X: xAxis.PixelToValue(p.X),
			Y: yAxis.PixelToValue(p.Y),
		})
	}
	return out
}
