package scrollfx

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Viewport is the visible window onto the page: scroll offset and size.
// The rendering layer keeps Width, Height and ContentHeight current; the
// runtime moves ScrollY in response to scroll events.
type Viewport struct {
	// ScrollX and ScrollY are the document offsets of the viewport's top-left corner.
	ScrollX, ScrollY float64
	// Width and Height are the viewport dimensions in pixels.
	Width, Height float64
	// ContentHeight is the total page height. Zero disables clamping.
	ContentHeight float64

	scrollTween *TweenGroup
}

// NewViewport creates a viewport of the given size scrolled to the top.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// ScrollTo animates ScrollY to y over duration seconds. A zero duration
// jumps immediately.
func (v *Viewport) ScrollTo(y float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		v.scrollTween = nil
		v.ScrollY = y
		v.ClampToContent()
		return
	}
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	v.scrollTween = TweenScroll(v, y, duration, easeFn)
}

// SetScroll jumps to y, cancelling any smooth scroll in progress.
func (v *Viewport) SetScroll(y float64) {
	v.scrollTween = nil
	v.ScrollY = y
	v.ClampToContent()
}

// Scrolling reports whether a smooth scroll is in progress.
func (v *Viewport) Scrolling() bool {
	return v.scrollTween != nil
}

// Resize updates the viewport dimensions and re-clamps the scroll offset.
func (v *Viewport) Resize(width, height float64) {
	v.Width = width
	v.Height = height
	v.ClampToContent()
}

// MaxScroll returns the largest valid ScrollY. Content shorter than the
// viewport pins the page at the top.
func (v *Viewport) MaxScroll() float64 {
	if v.ContentHeight <= 0 {
		return math.Inf(1)
	}
	return math.Max(0, v.ContentHeight-v.Height)
}

// ClampToContent restricts ScrollY to [0, MaxScroll]. No-op if
// ContentHeight is zero apart from the lower bound.
func (v *Viewport) ClampToContent() {
	v.ScrollY = math.Max(0, math.Min(v.ScrollY, v.MaxScroll()))
}

// update advances smooth scrolling. Reports whether ScrollY changed.
func (v *Viewport) update(dt float32) bool {
	if v.scrollTween == nil {
		return false
	}
	prev := v.ScrollY
	v.scrollTween.Update(dt)
	if v.scrollTween.Done {
		v.scrollTween = nil
	}
	v.ClampToContent()
	return v.ScrollY != prev
}

// ViewportTop returns where the top of e currently sits relative to the top
// of the viewport. It is recomputed from the live layout box every call.
func (v *Viewport) ViewportTop(e *Element) float64 {
	return e.Top - v.ScrollY
}

// Visible reports whether any part of e's layout box is inside the viewport.
func (v *Viewport) Visible(e *Element) bool {
	view := Rect{X: v.ScrollX, Y: v.ScrollY, Width: v.Width, Height: v.Height}
	return view.Intersects(e.Box())
}
