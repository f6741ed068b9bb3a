package scrollfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// TweenTransform (ambient loop legs) or TweenScroll (smooth scrolling) and
// call Update(dt) each frame. The group auto-applies values and marks its
// element dirty. If the target element is disposed, the group stops
// immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Element
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the element dirty. If the target element has been disposed, Done
// is set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Stop halts the group where it is. Fields keep their current values.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// TweenTransform creates a TweenGroup that animates X, Y and Rotation
// (radians) together. Ambient loops use it for each leg.
func TweenTransform(e *Element, toX, toY, toRot float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: e}
	g.tweens[0] = gween.New(float32(e.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.Y), float32(toY), duration, fn)
	g.tweens[2] = gween.New(float32(e.Rotation), float32(toRot), duration, fn)
	g.fields[0] = &e.X
	g.fields[1] = &e.Y
	g.fields[2] = &e.Rotation
	return g
}

// TweenScroll creates a TweenGroup that animates v.ScrollY to y. It has no
// target element; the viewport clamps the result after each update.
func TweenScroll(v *Viewport, y float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(v.ScrollY), float32(y), duration, fn)
	g.fields[0] = &v.ScrollY
	return g
}
