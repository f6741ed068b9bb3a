package scrollfx

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeDeltaTransform computes the affine matrix that maps the element's
// layout box (document space) to where its animated transform places it.
// Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-pivot) -> Scale -> Rotate -> Translate(pivot + X, Y + YPercent*Height)
//
// The pivot is the point (PivotX*Width, PivotY*Height) inside the layout box.
func computeDeltaTransform(e *Element) [6]float64 {
	px := e.Left + e.PivotX*e.Width
	py := e.Top + e.PivotY*e.Height

	sin, cos := math.Sincos(e.Rotation)
	sx, sy := e.ScaleX, e.ScaleY

	a := cos * sx
	b := sin * sx
	c := -sin * sy
	d := cos * sy

	tx := px + e.X
	ty := py + e.Y + e.YPercent/100*e.Height

	return [6]float64{a, b, c, d, tx - (a*px + c*py), ty - (b*px + d*py)}
}

// LocalTransform returns the element's own animated transform, excluding
// ancestors, as [a, b, c, d, tx, ty] in document space.
func (e *Element) LocalTransform() [6]float64 {
	return computeDeltaTransform(e)
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// WorldTransform returns the element's document-space transform, composed
// with every ancestor's animated transform (children move with their parent).
func (e *Element) WorldTransform() [6]float64 {
	m := computeDeltaTransform(e)
	for p := e.Parent; p != nil; p = p.Parent {
		m = multiplyAffine(computeDeltaTransform(p), m)
	}
	return m
}

// WorldAlpha returns the element's alpha multiplied by every ancestor's alpha.
func (e *Element) WorldAlpha() float64 {
	a := e.Alpha
	for p := e.Parent; p != nil; p = p.Parent {
		a *= p.Alpha
	}
	return a
}

// ScreenTransform returns the matrix that maps document coordinates of the
// element's layout box to viewport (screen) coordinates.
func (e *Element) ScreenTransform(vp *Viewport) [6]float64 {
	view := [6]float64{1, 0, 0, 1, -vp.ScrollX, -vp.ScrollY}
	return multiplyAffine(view, e.WorldTransform())
}

// ScreenBounds returns the axis-aligned bounds of the element's animated box
// in viewport coordinates.
func (e *Element) ScreenBounds(vp *Viewport) Rect {
	m := e.ScreenTransform(vp)
	x0, y0 := transformPoint(m, e.Left, e.Top)
	x1, y1 := transformPoint(m, e.Left+e.Width, e.Top)
	x2, y2 := transformPoint(m, e.Left+e.Width, e.Top+e.Height)
	x3, y3 := transformPoint(m, e.Left, e.Top+e.Height)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
