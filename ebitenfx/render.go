package ebitenfx

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/scrollfx"
)

// color32 is a compact RGBA color using float32, for draw commands only.
type color32 struct {
	R, G, B, A float32
}

// drawCommand fills one element's layout box. Transform maps the unit square
// to screen space.
type drawCommand struct {
	Element   *scrollfx.Element
	Transform [6]float32
	Color     color32
	treeOrder int
}

// affine32 converts a [6]float64 affine matrix to [6]float32.
func affine32(m [6]float64) [6]float32 {
	return [6]float32{float32(m[0]), float32(m[1]), float32(m[2]), float32(m[3]), float32(m[4]), float32(m[5])}
}

// geoM converts an affine matrix into an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// traverse walks the element tree depth-first and emits one command per
// visible, tinted, on-screen element. Children are always traversed: an
// animated child can sit outside its parent's box.
func (g *Game) traverse(e *scrollfx.Element, parent ebiten.GeoM, parentAlpha float64, treeOrder *int) {
	if !e.Visible || e.IsDisposed() {
		return
	}
	world := geoM(e.LocalTransform())
	world.Concat(parent)
	alpha := parentAlpha * e.Alpha

	if e.Color.A > 0 && alpha > 0 && !g.culled(e) {
		// Unit square -> layout box -> world.
		var box ebiten.GeoM
		box.Scale(e.Width, e.Height)
		box.Translate(e.Left, e.Top)
		box.Concat(world)

		*treeOrder++
		g.commands = append(g.commands, drawCommand{
			Element:   e,
			Transform: affine32(geoElements(box)),
			Color:     color32{float32(e.Color.R), float32(e.Color.G), float32(e.Color.B), float32(e.Color.A * alpha)},
			treeOrder: *treeOrder,
		})
	}

	for _, c := range e.Children() {
		g.traverse(c, world, alpha, treeOrder)
	}
}

func geoElements(g ebiten.GeoM) [6]float64 {
	return [6]float64{g.Element(0, 0), g.Element(1, 0), g.Element(0, 1), g.Element(1, 1), g.Element(0, 2), g.Element(1, 2)}
}

// culled reports whether e's animated box lies entirely off screen.
func (g *Game) culled(e *scrollfx.Element) bool {
	vp := g.rt.Viewport()
	screen := scrollfx.Rect{Width: vp.Width, Height: vp.Height}
	return !e.ScreenBounds(vp).Intersects(screen)
}

// buildCommands collects this frame's draw commands.
func (g *Game) buildCommands() {
	g.commands = g.commands[:0]
	if g.root == nil {
		return
	}
	vp := g.rt.Viewport()
	var view ebiten.GeoM
	view.Translate(-vp.ScrollX, -vp.ScrollY)
	treeOrder := 0
	g.traverse(g.root, view, 1, &treeOrder)
}

// submit draws every command as a tinted white pixel stretched over its box.
func (g *Game) submit(target *ebiten.Image) {
	var op ebiten.DrawImageOptions
	for i := range g.commands {
		cmd := &g.commands[i]
		op.GeoM.Reset()
		op.GeoM.SetElement(0, 0, float64(cmd.Transform[0]))
		op.GeoM.SetElement(1, 0, float64(cmd.Transform[1]))
		op.GeoM.SetElement(0, 1, float64(cmd.Transform[2]))
		op.GeoM.SetElement(1, 1, float64(cmd.Transform[3]))
		op.GeoM.SetElement(0, 2, float64(cmd.Transform[4]))
		op.GeoM.SetElement(1, 2, float64(cmd.Transform[5]))
		op.ColorScale.Reset()
		a := cmd.Color.A
		op.ColorScale.Scale(cmd.Color.R*a, cmd.Color.G*a, cmd.Color.B*a, a)
		target.DrawImage(g.pixel, &op)
	}
}
