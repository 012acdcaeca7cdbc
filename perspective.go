package digitize

import (
	"errors"
	"image"
	"image/color"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// PerspectiveTransform is a 2D projective transform, used to correct plots
// photographed at an angle.
type PerspectiveTransform struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// IdentityTransform returns the identity transform.
func IdentityTransform() PerspectiveTransform {
	return PerspectiveTransform{a11: 1, a22: 1, a33: 1}
}

// SquareToQuad returns the transform mapping the unit square onto the
// quadrilateral q, with corners in the order (0,0), (1,0), (1,1), (0,1).
func SquareToQuad(q [4]Point) PerspectiveTransform {
	dx3 := q[0].X - q[1].X + q[2].X - q[3].X
	dy3 := q[0].Y - q[1].Y + q[2].Y - q[3].Y
	if dx3 == 0 && dy3 == 0 {
		// Affine case.
		return PerspectiveTransform{
			a11: q[1].X - q[0].X, a21: q[2].X - q[1].X, a31: q[0].X,
			a12: q[1].Y - q[0].Y, a22: q[2].Y - q[1].Y, a32: q[0].Y,
			a33: 1,
		}
	}
	dx1 := q[1].X - q[2].X
	dx2 := q[3].X - q[2].X
	dy1 := q[1].Y - q[2].Y
	dy2 := q[3].Y - q[2].Y
	den := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / den
	a23 := (dx1*dy3 - dx3*dy1) / den
	return PerspectiveTransform{
		a11: q[1].X - q[0].X + a13*q[1].X, a21: q[3].X - q[0].X + a23*q[3].X, a31: q[0].X,
		a12: q[1].Y - q[0].Y + a13*q[1].Y, a22: q[3].Y - q[0].Y + a23*q[3].Y, a32: q[0].Y,
		a13: a13, a23: a23, a33: 1,
	}
}

// QuadToSquare returns the transform mapping the quadrilateral q onto the
// unit square.
func QuadToSquare(q [4]Point) PerspectiveTransform {
	return SquareToQuad(q).adjoint()
}

// QuadToQuad returns the transform mapping the quadrilateral from onto the
// quadrilateral to, corner by corner.
func QuadToQuad(from, to [4]Point) PerspectiveTransform {
	return SquareToQuad(to).Mul(QuadToSquare(from))
}

// adjoint returns the transpose of the cofactor matrix. For a projective
// transform it acts as the inverse, as the common scale factor cancels in
// Apply.
func (t PerspectiveTransform) adjoint() PerspectiveTransform {
	return PerspectiveTransform{
		a11: t.a22*t.a33 - t.a23*t.a32,
		a21: t.a23*t.a31 - t.a21*t.a33,
		a31: t.a21*t.a32 - t.a22*t.a31,
		a12: t.a13*t.a32 - t.a12*t.a33,
		a22: t.a11*t.a33 - t.a13*t.a31,
		a32: t.a12*t.a31 - t.a11*t.a32,
		a13: t.a12*t.a23 - t.a13*t.a22,
		a23: t.a13*t.a21 - t.a11*t.a23,
		a33: t.a11*t.a22 - t.a12*t.a21,
	}
}

// Inverse returns the inverse transform.
func (t PerspectiveTransform) Inverse() PerspectiveTransform {
	return t.adjoint()
}

// Mul returns the composition t∘o, applying o first.
func (t PerspectiveTransform) Mul(o PerspectiveTransform) PerspectiveTransform {
	return PerspectiveTransform{
		a11: t.a11*o.a11 + t.a21*o.a12 + t.a31*o.a13,
		a21: t.a11*o.a21 + t.a21*o.a22 + t.a31*o.a23,
		a31: t.a11*o.a31 + t.a21*o.a32 + t.a31*o.a33,
		a12: t.a12*o.a11 + t.a22*o.a12 + t.a32*o.a13,
		a22: t.a12*o.a21 + t.a22*o.a22 + t.a32*o.a23,
		a32: t.a12*o.a31 + t.a22*o.a32 + t.a32*o.a33,
		a13: t.a13*o.a11 + t.a23*o.a12 + t.a33*o.a13,
		a23: t.a13*o.a21 + t.a23*o.a22 + t.a33*o.a23,
		a33: t.a13*o.a31 + t.a23*o.a32 + t.a33*o.a33,
	}
}

// Apply transforms a point.
func (t PerspectiveTransform) Apply(p Point) Point {
	den := t.a13*p.X + t.a23*p.Y + t.a33
	return Point{
		X: (t.a11*p.X + t.a21*p.Y + t.a31) / den,
		Y: (t.a12*p.X + t.a22*p.Y + t.a32) / den,
	}
}

// InvertPoint maps a point through the inverse transform, taking a point in
// the corrected image back to the source image when t is the matrix returned
// by [Warp].
func (t PerspectiveTransform) InvertPoint(p Point) Point {
	return t.Inverse().Apply(p)
}

// ReorderCorners orders four arbitrary corner points as top-left, top-right,
// bottom-right, bottom-left, assuming image coordinates with y growing
// downward. Points are sorted by angle about their centroid.
func ReorderCorners(pts [4]Point) [4]Point {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= 4
	cy /= 4
	out := pts
	sort.Slice(out[:], func(i, j int) bool {
		return out[i].Sub(Pt(cx, cy)).Angle() < out[j].Sub(Pt(cx, cy)).Angle()
	})
	return out
}

// ErrBadWarpSize is returned when a warp target has a non-positive dimension.
var ErrBadWarpSize = errors.New("digitize: warp target dimensions must be positive")

// Warp maps the quadrilateral of src delimited by the four corner points
// (ordered top-left, top-right, bottom-right, bottom-left) onto a new
// width×height image, resampling bilinearly. It returns the corrected image
// along with the forward transform from source to corrected coordinates, so
// that callers can carry existing pixel-space annotations across.
func Warp(src image.Image, corners [4]Point, width, height int) (*image.NRGBA, PerspectiveTransform, error) {
	if width <= 0 || height <= 0 {
		return nil, PerspectiveTransform{}, ErrBadWarpSize
	}
	target := [4]Point{
		Pt(0, 0),
		Pt(float64(width), 0),
		Pt(float64(width), float64(height)),
		Pt(0, float64(height)),
	}
	forward := QuadToQuad(corners, target)
	backward := QuadToQuad(target, corners)

	nsrc := toNRGBA(src)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sp := backward.Apply(Pt(float64(x), float64(y)))
			dst.SetNRGBA(x, y, bilinearNRGBA(nsrc, sp))
		}
	}
	return dst, forward, nil
}

// toNRGBA normalizes any image to NRGBA with a zero-based origin.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

func bilinearNRGBA(img *image.NRGBA, p Point) color.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	x0 := int(p.X)
	y0 := int(p.Y)
	if p.X < 0 || p.Y < 0 || x0 >= w || y0 >= h {
		return color.NRGBA{}
	}
	fx := p.X - float64(x0)
	fy := p.Y - float64(y0)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)

	blend := func(a, b uint8, t float64) float64 {
		return float64(a)*(1-t) + float64(b)*t
	}
	var out [4]uint8
	for i := range out {
		top := blend(img.Pix[img.PixOffset(x0, y0)+i], img.Pix[img.PixOffset(x1, y0)+i], fx)
		bot := blend(img.Pix[img.PixOffset(x0, y1)+i], img.Pix[img.PixOffset(x1, y1)+i], fx)
		out[i] = uint8(top*(1-fy) + bot*fy + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}
