package ebitenfx

import "github.com/phanxgames/scrollfx"

// colorRGBA adapts a scrollfx.Color to color.Color (premultiplied).
type colorRGBA struct {
	c scrollfx.Color
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.c.A) * 0xffff)
	r = uint32(clamp01(c.c.R) * clamp01(c.c.A) * 0xffff)
	g = uint32(clamp01(c.c.G) * clamp01(c.c.A) * 0xffff)
	b = uint32(clamp01(c.c.B) * clamp01(c.c.A) * 0xffff)
	return
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
