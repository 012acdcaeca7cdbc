// Package digitize recovers calibrated (x, y) data from curves traced over
// digitized plot images.
//
// The central model is a piecewise cubic Hermite curve defined by user-placed
// control knots. Each [Knot] carries a position in image pixel space, a
// tension that shortens its tangent handles, and a tangent that is either
// derived automatically from its neighbors (Catmull-Rom style) or set
// manually, optionally with independent in/out handle directions to form a
// visible corner. A [Curve] orders its knots by ascending x, builds one
// Hermite segment per consecutive knot pair, and evaluates them over a global
// parameter t ∈ [0, 1].
//
// Two sampling strategies produce the output points:
//
//   - [Curve.Sample] evaluates at uniformly spaced parameter values.
//   - [Curve.AdaptiveSample] refines the sampling wherever the curve deviates
//     from the chord between neighboring samples by more than a tolerance,
//     bounded by minimum and maximum point counts.
//
// An [Axis] maps pixel coordinates to data values, linearly or
// logarithmically, and [UniformSeries] and [AdaptiveSeries] combine a curve
// with two axes into a [Series] of calibrated records ready for export.
//
// [PerspectiveTransform] and [Warp] correct plots photographed at an angle by
// mapping a four-corner quadrilateral onto an axis-aligned rectangle.
//
// The package performs pure in-memory computation and is not safe for
// concurrent mutation; an editing session is strictly single-actor. Derived
// curve state is rebuilt lazily on evaluation.
package digitize
