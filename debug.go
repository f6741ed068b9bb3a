package scrollfx

import (
	"fmt"
)

// debugLog prints frame stats. Only called when debug mode is on.
func (rt *Runtime) debugLog(stats FrameStats) {
	if !rt.debug {
		return
	}
	w := rt.debugWriter()
	_, _ = fmt.Fprintf(w,
		"[scrollfx] frame %d | surfaces: %d | bindings: %d | playbacks: %d | loops: %d | time: %v\n",
		stats.Frame, stats.Surfaces, stats.Bindings, stats.Playbacks, stats.Loops, stats.Elapsed)
	_, _ = fmt.Fprintf(w,
		"[scrollfx] scroll: %.1f | mutations: %d | coalesced: %d\n",
		rt.viewport.ScrollY, stats.Mutations, stats.Coalesced)
	if stats.Mutations > debugMaxMutations {
		_, _ = fmt.Fprintf(w, "[scrollfx] warning: %d property writes in one frame (threshold %d)\n",
			stats.Mutations, debugMaxMutations)
	}
}

// debugMaxMutations is the per-frame write count above which a warning is
// printed; a page that hits it is usually animating far more than is visible.
const debugMaxMutations = 1000

// debugf prints a single tagged line when debug mode is on.
func (rt *Runtime) debugf(format string, args ...any) {
	if !rt.debug {
		return
	}
	_, _ = fmt.Fprintf(rt.debugWriter(), "[scrollfx] "+format+"\n", args...)
}
