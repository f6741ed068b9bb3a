package scrollfx

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestDeltaTransformIdentity(t *testing.T) {
	e := NewElement("box", Rect{X: 10, Y: 20, Width: 100, Height: 50})
	m := computeDeltaTransform(e)
	for i := range m {
		if !approxEqual(m[i], identityTransform[i], epsilon) {
			t.Fatalf("delta = %v, want identity", m)
		}
	}
}

func TestScreenBoundsScroll(t *testing.T) {
	e := NewElement("box", Rect{X: 0, Y: 1000, Width: 100, Height: 50})
	vp := NewViewport(800, 600)
	vp.ScrollY = 400
	b := e.ScreenBounds(vp)
	if !approxEqual(b.Y, 600, epsilon) || !approxEqual(b.Height, 50, epsilon) {
		t.Errorf("ScreenBounds = %v, want Y=600 H=50", b)
	}
}

func TestScreenBoundsYPercent(t *testing.T) {
	e := NewElement("bg", Rect{X: 0, Y: 0, Width: 100, Height: 200})
	e.YPercent = -30
	b := e.ScreenBounds(NewViewport(800, 600))
	if !approxEqual(b.Y, -60, epsilon) {
		t.Errorf("Y = %f, want -60", b.Y)
	}
}

func TestScaleAroundPivot(t *testing.T) {
	e := NewElement("bottle", Rect{X: 0, Y: 0, Width: 100, Height: 100})
	e.ScaleX, e.ScaleY = 2, 2
	b := e.ScreenBounds(NewViewport(800, 600))
	// Center pivot: box grows by 50 on each side.
	if !approxEqual(b.X, -50, epsilon) || !approxEqual(b.Width, 200, epsilon) {
		t.Errorf("bounds = %v, want X=-50 W=200", b)
	}
}

func TestChildInheritsParentOffset(t *testing.T) {
	p := NewElement("content", Rect{X: 0, Y: 100, Width: 400, Height: 400})
	c := NewElement("line", Rect{X: 10, Y: 120, Width: 100, Height: 20})
	p.AddChild(c)
	p.Y = 40
	p.Alpha = 0.5
	c.Alpha = 0.5

	b := c.ScreenBounds(NewViewport(800, 600))
	if !approxEqual(b.Y, 160, epsilon) {
		t.Errorf("child Y = %f, want 160", b.Y)
	}
	if !approxEqual(c.WorldAlpha(), 0.25, epsilon) {
		t.Errorf("WorldAlpha = %f, want 0.25", c.WorldAlpha())
	}
}
