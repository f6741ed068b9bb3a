// Package ebitenfx hosts a scrollfx runtime in an Ebitengine window. The
// mouse wheel and keyboard scroll the page, window resizes feed the runtime's
// viewport, and every element with a visible tint is drawn as a filled box
// honoring its animated transform.
//
// Quick start:
//
//	rt := scrollfx.NewRuntime(scrollfx.RuntimeConfig{Width: 1280, Height: 800})
//	rt.NewSurface("home").Mount(setup)
//	ebitenfx.Run(rt, root, ebitenfx.RunConfig{Title: "Home"})
package ebitenfx

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/scrollfx"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the initial window size. Zero uses the runtime's
	// viewport size.
	Width, Height int
	ShowFPS       bool
	// Background clears the screen each frame. The zero value is black.
	Background scrollfx.Color
	// WheelStep is the scroll distance of one wheel notch. Zero uses 60.
	WheelStep float64
	// ScreenshotDir is where F12 screenshots go. Empty uses "screenshots".
	ScreenshotDir string
}

const (
	defaultWheelStep = 60
	keyScrollSpeed   = 8 // px per tick while an arrow key is held
	pageFraction     = 0.9
	jumpDuration     = 0.6
)

// Game implements ebiten.Game for a scrollfx runtime and the element tree
// under root.
type Game struct {
	rt   *scrollfx.Runtime
	root *scrollfx.Element
	cfg  RunConfig

	// ScreenshotDir is the directory queued screenshots are written to.
	ScreenshotDir   string
	screenshotQueue []string

	commands []drawCommand
	pixel    *ebiten.Image
	fps      fpsOverlay

	width, height int
}

// NewGame creates a game that drives rt and draws root.
func NewGame(rt *scrollfx.Runtime, root *scrollfx.Element, cfg RunConfig) *Game {
	if cfg.WheelStep <= 0 {
		cfg.WheelStep = defaultWheelStep
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	vp := rt.Viewport()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = int(vp.Width), int(vp.Height)
	}
	return &Game{
		rt:            rt,
		root:          root,
		cfg:           cfg,
		ScreenshotDir: cfg.ScreenshotDir,
		width:         int(vp.Width),
		height:        int(vp.Height),
	}
}

// Runtime returns the driven runtime.
func (g *Game) Runtime() *scrollfx.Runtime { return g.rt }

// Update reads input and runs one scheduling pass.
func (g *Game) Update() error {
	g.handleInput()
	dt := 1.0 / float64(g.rt.TPS())
	stats := g.rt.Frame(dt)
	if g.cfg.ShowFPS {
		g.fps.update(dt, stats, g.rt.Viewport().ScrollY)
	}
	return nil
}

// Draw renders the element tree.
func (g *Game) Draw(screen *ebiten.Image) {
	bg := g.cfg.Background
	screen.Fill(colorOf(bg))
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(colorOf(scrollfx.ColorWhite))
	}
	g.buildCommands()
	g.submit(screen)
	if g.cfg.ShowFPS {
		g.fps.draw(screen)
	}
	g.flushScreenshots(screen)
}

// Layout reports the outside size as the screen size and forwards changes
// to the runtime as a resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.rt.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (g *Game) handleInput() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.rt.ScrollBy(-wy * g.cfg.WheelStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyJ) {
		g.rt.ScrollBy(keyScrollSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyK) {
		g.rt.ScrollBy(-keyScrollSpeed)
	}

	vp := g.rt.Viewport()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.rt.ScrollTo(vp.ScrollY+vp.Height*pageFraction, jumpDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.rt.ScrollTo(vp.ScrollY-vp.Height*pageFraction, jumpDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.rt.ScrollTo(0, jumpDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.rt.ScrollTo(endOf(vp), jumpDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.Screenshot("frame")
	}
}

// endOf returns the bottom scroll position, or the current one when the
// content height is unknown.
func endOf(vp *scrollfx.Viewport) float64 {
	if m := vp.MaxScroll(); !math.IsInf(m, 1) {
		return m
	}
	return vp.ScrollY
}

func colorOf(c scrollfx.Color) colorRGBA {
	return colorRGBA{c}
}

// Run opens a window and drives rt until the window closes.
func Run(rt *scrollfx.Runtime, root *scrollfx.Element, cfg RunConfig) error {
	return NewGame(rt, root, cfg).Run(nil)
}

// Run opens the window configured for g. A non-nil outer game is driven in
// place of g; it must call g's Update, Draw and Layout itself.
func (g *Game) Run(outer ebiten.Game) error {
	if g.cfg.Title != "" {
		ebiten.SetWindowTitle(g.cfg.Title)
	}
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.rt.TPS())
	if outer == nil {
		outer = g
	}
	return ebiten.RunGame(outer)
}
