package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/scrollfx"
	"github.com/phanxgames/scrollfx/presets"
)

const (
	pageWidth    = 1280.0
	cellAspect   = 2.0 // terminal cells are about twice as tall as wide
	pageFraction = 0.9
	jumpDuration = 0.6
)

// preview renders a preset page into a terminal, one cell per block of
// document pixels, and maps keys to scrolling.
type preview struct {
	screen tcell.Screen
	rt     *scrollfx.Runtime

	names  []string
	index  int
	preset *presets.Preset

	cols, rows   int
	cellW, cellH float64
}

func newPreview(screen tcell.Screen, rt *scrollfx.Runtime, names []string, index int) (*preview, error) {
	p := &preview{screen: screen, rt: rt, names: names, index: index}
	p.resize()
	if err := p.load(index); err != nil {
		return nil, err
	}
	return p, nil
}

// resize recomputes the cell grid and resizes the viewport to the page area
// it covers. The bottom row is the status line.
func (p *preview) resize() {
	cols, rows := p.screen.Size()
	p.cols, p.rows = max(cols, 1), max(rows-1, 1)
	p.cellW = pageWidth / float64(p.cols)
	p.cellH = p.cellW * cellAspect
	p.rt.Resize(pageWidth, float64(p.rows)*p.cellH)
}

// load navigates to preset i, unmounting the current page.
func (p *preview) load(i int) error {
	i = (i + len(p.names)) % len(p.names)
	pr, err := presets.Load(p.names[i])
	if err != nil {
		return err
	}
	p.index, p.preset = i, pr
	vp := p.rt.Viewport()
	vp.ContentHeight = pr.Height()
	vp.SetScroll(0)
	p.rt.Navigate(p.rt.NewSurface(p.names[i]), pr.Setup())
	return nil
}

// handleKey applies a key press. It returns false when the preview should
// quit.
func (p *preview) handleKey(ev *tcell.EventKey) bool {
	vp := p.rt.Viewport()
	line := p.cellH * 2
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyDown:
		p.rt.ScrollBy(line)
	case tcell.KeyUp:
		p.rt.ScrollBy(-line)
	case tcell.KeyPgDn:
		p.rt.ScrollTo(vp.ScrollY+vp.Height*pageFraction, jumpDuration)
	case tcell.KeyPgUp:
		p.rt.ScrollTo(vp.ScrollY-vp.Height*pageFraction, jumpDuration)
	case tcell.KeyHome:
		p.rt.ScrollTo(0, jumpDuration)
	case tcell.KeyEnd:
		p.rt.ScrollTo(vp.MaxScroll(), jumpDuration)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			p.rt.ScrollBy(line)
		case 'k':
			p.rt.ScrollBy(-line)
		case ' ':
			p.rt.ScrollTo(vp.ScrollY+vp.Height*pageFraction, jumpDuration)
		case 'n':
			_ = p.load(p.index + 1)
		case 'p':
			_ = p.load(p.index - 1)
		case 'r':
			_ = p.load(p.index)
		}
	}
	return true
}

// tick runs one scheduling pass and redraws.
func (p *preview) tick(dt float64) scrollfx.FrameStats {
	stats := p.rt.Frame(dt)
	p.draw(stats)
	return stats
}

func (p *preview) draw(stats scrollfx.FrameStats) {
	p.screen.Clear()
	p.drawElement(p.preset.Root, 1)

	vp := p.rt.Viewport()
	status := fmt.Sprintf(" %s  scroll %.0f/%.0f  writes %d  j/k scroll  space page  n/p preset  r replay  q quit",
		p.names[p.index], vp.ScrollY, vp.MaxScroll(), stats.Mutations)
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= p.cols {
			break
		}
		p.screen.SetContent(x, p.rows, r, nil, style)
		x++
	}
	for ; x < p.cols; x++ {
		p.screen.SetContent(x, p.rows, ' ', nil, style)
	}
	p.screen.Show()
}

// drawElement fills the cells covered by e's animated box, then draws its
// children on top. Alpha darkens the tint toward black.
func (p *preview) drawElement(e *scrollfx.Element, parentAlpha float64) {
	if !e.Visible || e.IsDisposed() {
		return
	}
	alpha := parentAlpha * e.Alpha
	if e.Color.A > 0 && alpha > 0 {
		b := e.ScreenBounds(p.rt.Viewport())
		x0 := max(int(math.Floor(b.X/p.cellW)), 0)
		y0 := max(int(math.Floor(b.Y/p.cellH)), 0)
		x1 := min(int(math.Ceil((b.X+b.Width)/p.cellW)), p.cols)
		y1 := min(int(math.Ceil((b.Y+b.Height)/p.cellH)), p.rows)
		style := tcell.StyleDefault.Background(cellColor(e.Color, alpha))
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				p.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}
	for _, c := range e.Children() {
		p.drawElement(c, alpha)
	}
}

func cellColor(c scrollfx.Color, alpha float64) tcell.Color {
	k := max(0, min(c.A*alpha, 1))
	return tcell.NewRGBColor(int32(c.R*k*255), int32(c.G*k*255), int32(c.B*k*255))
}
