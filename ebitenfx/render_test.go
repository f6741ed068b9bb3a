package ebitenfx

import (
	"math"
	"testing"

	"github.com/phanxgames/scrollfx"
)

func newTestGame(root *scrollfx.Element) *Game {
	rt := scrollfx.NewRuntime(scrollfx.RuntimeConfig{Width: 800, Height: 600})
	return NewGame(rt, root, RunConfig{})
}

func tinted(name string, x, y, w, h float64) *scrollfx.Element {
	e := scrollfx.NewElement(name, scrollfx.Rect{X: x, Y: y, Width: w, Height: h})
	e.Color = scrollfx.Color{R: 1, G: 0.5, B: 0, A: 1}
	return e
}

func container(name string) *scrollfx.Element {
	e := scrollfx.NewElement(name, scrollfx.Rect{Width: 800, Height: 2000})
	e.Color = scrollfx.Color{}
	return e
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestSingleElementEmitsOneCommand(t *testing.T) {
	e := tinted("box", 10, 20, 100, 50)
	g := newTestGame(e)
	g.buildCommands()

	if len(g.commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(g.commands))
	}
	want := [6]float32{100, 0, 0, 50, 10, 20}
	for i, v := range g.commands[0].Transform {
		if !approx(v, want[i]) {
			t.Fatalf("transform = %v, want %v", g.commands[0].Transform, want)
		}
	}
	if c := g.commands[0].Color; c.R != 1 || c.G != 0.5 || c.A != 1 {
		t.Errorf("color = %+v", c)
	}
}

func TestTransparentContainerNoCommand(t *testing.T) {
	root := container("page")
	root.AddChild(tinted("a", 0, 0, 10, 10))
	g := newTestGame(root)
	g.buildCommands()

	if len(g.commands) != 1 || g.commands[0].Element.Name != "a" {
		t.Fatalf("commands = %+v, want only a", g.commands)
	}
}

func TestInvisibleSubtreeSkipped(t *testing.T) {
	root := container("page")
	parent := tinted("parent", 0, 0, 100, 100)
	parent.AddChild(tinted("child", 10, 10, 10, 10))
	root.AddChild(parent)
	parent.Visible = false

	g := newTestGame(root)
	g.buildCommands()
	if len(g.commands) != 0 {
		t.Errorf("commands = %d, want 0", len(g.commands))
	}
}

func TestAlphaMultipliesDownTree(t *testing.T) {
	root := container("page")
	parent := tinted("parent", 0, 0, 100, 100)
	parent.Alpha = 0.5
	child := tinted("child", 10, 10, 10, 10)
	child.Alpha = 0.5
	parent.AddChild(child)
	root.AddChild(parent)

	g := newTestGame(root)
	g.buildCommands()
	if len(g.commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(g.commands))
	}
	if a := g.commands[1].Color.A; !approx(a, 0.25) {
		t.Errorf("child alpha = %v, want 0.25", a)
	}
}

func TestZeroAlphaSkipped(t *testing.T) {
	e := tinted("box", 0, 0, 10, 10)
	e.Alpha = 0
	g := newTestGame(e)
	g.buildCommands()
	if len(g.commands) != 0 {
		t.Errorf("commands = %d, want 0", len(g.commands))
	}
}

func TestScrollOffsetsCommands(t *testing.T) {
	e := tinted("box", 10, 100, 100, 50)
	g := newTestGame(e)
	g.rt.Viewport().SetScroll(30)
	g.buildCommands()

	if len(g.commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(g.commands))
	}
	if ty := g.commands[0].Transform[5]; !approx(ty, 70) {
		t.Errorf("ty = %v, want 70", ty)
	}
}

func TestOffscreenElementCulled(t *testing.T) {
	root := container("page")
	root.AddChild(tinted("visible", 0, 0, 10, 10))
	root.AddChild(tinted("below", 0, 1200, 10, 10))

	g := newTestGame(root)
	g.buildCommands()
	if len(g.commands) != 1 || g.commands[0].Element.Name != "visible" {
		t.Fatalf("commands = %+v, want only visible", g.commands)
	}

	g.rt.Viewport().SetScroll(1000)
	g.buildCommands()
	if len(g.commands) != 1 || g.commands[0].Element.Name != "below" {
		t.Fatalf("after scroll commands = %+v, want only below", g.commands)
	}
}

func TestAnimatedTransformFollowsParent(t *testing.T) {
	root := container("page")
	parent := tinted("parent", 0, 0, 100, 100)
	child := tinted("child", 10, 10, 10, 10)
	parent.AddChild(child)
	root.AddChild(parent)
	parent.Y = 40
	parent.YPercent = -10

	g := newTestGame(root)
	g.buildCommands()
	// Parent moves 40 - 10% of 100 = 30; child top is 10.
	if ty := g.commands[1].Transform[5]; !approx(ty, 40) {
		t.Errorf("child ty = %v, want 40", ty)
	}
}

func TestTreeOrderAssignment(t *testing.T) {
	root := container("page")
	for _, name := range []string{"a", "b", "c"} {
		root.AddChild(tinted(name, 0, 0, 10, 10))
	}
	g := newTestGame(root)
	g.buildCommands()
	for i, cmd := range g.commands {
		if cmd.treeOrder != i+1 {
			t.Errorf("command %d treeOrder = %d", i, cmd.treeOrder)
		}
	}
}

func TestLayoutForwardsResize(t *testing.T) {
	g := newTestGame(container("page"))
	if w, h := g.Layout(800, 600); w != 800 || h != 600 {
		t.Fatalf("Layout = %d,%d", w, h)
	}
	if g.rt.Pending() {
		t.Fatal("unchanged size should not resize")
	}
	g.Layout(1024, 768)
	g.rt.Frame(1.0 / 60)
	vp := g.rt.Viewport()
	if vp.Width != 1024 || vp.Height != 768 {
		t.Errorf("viewport = %vx%v, want 1024x768", vp.Width, vp.Height)
	}
}

func TestNewGameDefaults(t *testing.T) {
	g := newTestGame(nil)
	if g.cfg.WheelStep != defaultWheelStep {
		t.Errorf("WheelStep = %v", g.cfg.WheelStep)
	}
	if g.cfg.Width != 800 || g.cfg.Height != 600 {
		t.Errorf("window = %dx%d, want runtime viewport", g.cfg.Width, g.cfg.Height)
	}
	g.buildCommands()
	if len(g.commands) != 0 {
		t.Error("nil root should emit nothing")
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := colorOf(scrollfx.Color{R: 1, G: 0, B: 0.5, A: 0.5}).RGBA()
	if a != 0x7fff || r != 0x7fff || g != 0 || b != 0x3fff {
		t.Errorf("RGBA = %x %x %x %x", r, g, b, a)
	}
}

func TestEndOf(t *testing.T) {
	vp := scrollfx.NewViewport(800, 600)
	vp.SetScroll(120)
	if got := endOf(vp); got != 120 {
		t.Errorf("endOf unbounded = %v, want current 120", got)
	}
	vp.ContentHeight = 2000
	if got := endOf(vp); got != 1400 {
		t.Errorf("endOf = %v, want 1400", got)
	}
}
