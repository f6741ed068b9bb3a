package scrollfx

type syntheticKind uint8

const (
	syntheticScroll syntheticKind = iota
	syntheticScrollBy
	syntheticResize
)

// syntheticEvent is one injected scroll or resize. Injected events go
// through the same pending-flag path as real ones.
type syntheticEvent struct {
	kind          syntheticKind
	y             float64
	width, height float64
}

// InjectScroll queues a scroll to y. Injected events are consumed one per
// frame, at the start of Frame.
func (rt *Runtime) InjectScroll(y float64) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: syntheticScroll, y: y})
}

// InjectScrollBy queues a relative scroll.
func (rt *Runtime) InjectScrollBy(dy float64) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: syntheticScrollBy, y: dy})
}

// InjectResize queues a viewport resize.
func (rt *Runtime) InjectResize(width, height float64) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: syntheticResize, width: width, height: height})
}

// InjectScrollSweep queues a linear scroll from 'from' to 'to' spread over
// frames frames. Minimum frames is 2.
func (rt *Runtime) InjectScrollSweep(from, to float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		rt.InjectScroll(from + (to-from)*t)
	}
}

// Injected returns the number of queued synthetic events.
func (rt *Runtime) Injected() int { return len(rt.injectQueue) }

// processInjected pops one event from the inject queue and records it as
// pending. Returns true if an event was consumed.
func (rt *Runtime) processInjected() bool {
	if len(rt.injectQueue) == 0 {
		return false
	}
	evt := rt.injectQueue[0]
	copy(rt.injectQueue, rt.injectQueue[1:])
	rt.injectQueue = rt.injectQueue[:len(rt.injectQueue)-1]

	switch evt.kind {
	case syntheticScroll:
		rt.Scroll(evt.y)
	case syntheticScrollBy:
		rt.ScrollBy(evt.y)
	case syntheticResize:
		rt.Resize(evt.width, evt.height)
	}
	return true
}
