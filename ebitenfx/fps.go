package ebitenfx

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/scrollfx"
)

// fpsOverlay shows FPS, TPS and the last frame's scheduling stats. The
// image is redrawn every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func (o *fpsOverlay) update(dt float64, stats scrollfx.FrameStats, scrollY float64) {
	o.lastUpdate += dt
	if o.img != nil && o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0

	// 180x64 fits four DebugPrint lines.
	if o.img == nil {
		o.img = ebiten.NewImage(180, 64)
	}
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nscroll: %.0f\nwrites: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), scrollY, stats.Mutations))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		return
	}
	screen.DrawImage(o.img, nil)
}
