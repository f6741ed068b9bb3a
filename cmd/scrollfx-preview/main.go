// Command scrollfx-preview plays the bundled page presets in a terminal.
//
// Usage:
//
//	scrollfx-preview [-preset hero] [-tps 60] [-script scroll.json] [-debug]
//
// j/k or the arrow keys scroll, space and PgUp/PgDn page, n/p switch preset,
// r replays the current one and q quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/scrollfx"
	"github.com/phanxgames/scrollfx/presets"
)

func main() {
	name := flag.String("preset", "hero", "preset to open: "+strings.Join(presets.Names(), ", "))
	tps := flag.Int("tps", 60, "scheduling passes per second")
	script := flag.String("script", "", "JSON scroll script to replay")
	debug := flag.Bool("debug", false, "log per-frame stats to debug.log")
	flag.Parse()

	names := presets.Names()
	index := slices.Index(names, *name)
	if index < 0 {
		fmt.Fprintf(os.Stderr, "unknown preset %q (have %s)\n", *name, strings.Join(names, ", "))
		os.Exit(2)
	}

	cfg := scrollfx.RuntimeConfig{Width: pageWidth, Height: 800, TPS: *tps}
	if *debug {
		f, err := os.Create("debug.log")
		if err != nil {
			log.Fatalf("create debug log: %v", err)
		}
		defer f.Close()
		cfg.Debug, cfg.DebugOutput = true, f
	}
	rt := scrollfx.NewRuntime(cfg)

	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			log.Fatalf("read script: %v", err)
		}
		runner, err := scrollfx.LoadScrollScript(data)
		if err != nil {
			log.Fatal(err)
		}
		rt.SetScriptRunner(runner)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := newPreview(screen, rt, names, index)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	run(p, rt.TPS())
	screen.Fini()
}

func run(p *preview, tps int) {
	dt := 1.0 / float64(tps)
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go pollEvents(p.screen, events)

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !p.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				p.resize()
				p.screen.Sync()
			case nil:
				return
			}
		case <-ticker.C:
			p.tick(dt)
		}
	}
}

// pollEvents forwards screen events until the screen is finalized, which
// PollEvent reports with a nil event.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		events <- ev
		if ev == nil {
			return
		}
	}
}
