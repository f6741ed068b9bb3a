package scrollfx

import (
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/tanema/gween/ease"
)

const defaultTPS = 60

// RuntimeConfig configures a Runtime. The zero value is usable.
type RuntimeConfig struct {
	// Width and Height are the initial viewport size. Zero uses 1280x720.
	Width, Height float64
	// ContentHeight bounds scrolling. Zero leaves the bottom unbounded.
	ContentHeight float64
	// BaseStagger is the ambient loop stagger unit. Zero uses DefaultBaseStagger.
	BaseStagger time.Duration
	// Rand drives ambient loop sampling. Nil uses the package-level source.
	Rand *rand.Rand
	// TPS is the frame rate hosts drive Frame at. Zero uses 60.
	TPS int
	// Sink receives lifecycle events.
	Sink EventSink
	// Debug enables per-frame stats logging to DebugOutput (stderr if nil).
	Debug       bool
	DebugOutput io.Writer
}

// FrameStats summarizes one scheduling pass.
type FrameStats struct {
	Frame     uint64
	Surfaces  int
	Bindings  int
	Playbacks int
	Loops     int
	Mutations int
	// Coalesced counts scroll and resize events folded into this frame.
	Coalesced int
	Elapsed   time.Duration
}

// Runtime owns the viewport and the active surfaces and runs one
// scheduling pass per rendered frame. It is single-threaded: every method
// must be called from the goroutine that drives Frame.
type Runtime struct {
	cfg      RuntimeConfig
	viewport *Viewport
	sink     EventSink
	debug    bool

	surfaces []*Surface
	active   []*Surface
	iter     []*Surface
	nextID   uint32

	// Pending scroll/resize, applied once at the start of the next frame.
	pendingScroll bool
	scrollY       float64
	pendingResize bool
	width, height float64
	coalesced     int

	injectQueue []syntheticEvent
	script      *ScriptRunner

	frame uint64
	stats FrameStats
}

var defaultRuntime *Runtime

// InitRuntime creates the process-wide runtime on first call and returns
// it unchanged on every later call; cfg is ignored after the first call.
// Call it once before mounting any surface.
func InitRuntime(cfg RuntimeConfig) *Runtime {
	if defaultRuntime == nil {
		defaultRuntime = NewRuntime(cfg)
	}
	return defaultRuntime
}

// DefaultRuntime returns the runtime created by InitRuntime, or nil.
func DefaultRuntime() *Runtime {
	return defaultRuntime
}

// NewRuntime creates an isolated runtime, independent of InitRuntime.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.TPS <= 0 {
		cfg.TPS = defaultTPS
	}
	if cfg.BaseStagger <= 0 {
		cfg.BaseStagger = DefaultBaseStagger
	}
	vp := NewViewport(cfg.Width, cfg.Height)
	vp.ContentHeight = cfg.ContentHeight
	return &Runtime{
		cfg:      cfg,
		viewport: vp,
		sink:     cfg.Sink,
		debug:    cfg.Debug,
	}
}

// Viewport returns the runtime's viewport.
func (rt *Runtime) Viewport() *Viewport { return rt.viewport }

// TPS returns the configured frame rate.
func (rt *Runtime) TPS() int { return rt.cfg.TPS }

// SetEventSink sets the optional lifecycle event receiver.
func (rt *Runtime) SetEventSink(sink EventSink) {
	rt.sink = sink
}

// SetDebugMode enables or disables per-frame stats logging.
func (rt *Runtime) SetDebugMode(enabled bool) {
	rt.debug = enabled
}

// EmitEvent stamps event with the current frame and forwards it to the sink.
func (rt *Runtime) EmitEvent(event AnimationEvent) {
	event.Frame = rt.frame
	if rt.debug {
		rt.debugf("event %s surface=%q", event.Type, event.Surface)
	}
	if rt.sink != nil {
		rt.sink.EmitEvent(event)
	}
}

// NewSurface creates an unmounted surface owned by this runtime.
func (rt *Runtime) NewSurface(name string) *Surface {
	rt.nextID++
	s := &Surface{id: rt.nextID, name: name, rt: rt}
	rt.surfaces = append(rt.surfaces, s)
	return s
}

// Surfaces returns every surface created on this runtime. The returned
// slice MUST NOT be mutated.
func (rt *Runtime) Surfaces() []*Surface { return rt.surfaces }

// ActiveSurfaces returns the Active surfaces in mount order. The returned
// slice MUST NOT be mutated.
func (rt *Runtime) ActiveSurfaces() []*Surface { return rt.active }

// Navigate unmounts every active surface and then mounts to with setup.
func (rt *Runtime) Navigate(to *Surface, setup func(*Context)) {
	for len(rt.active) > 0 {
		rt.active[len(rt.active)-1].Unmount()
	}
	to.Mount(setup)
}

func (rt *Runtime) activate(s *Surface) {
	rt.active = append(rt.active, s)
}

func (rt *Runtime) deactivate(s *Surface) {
	for i, a := range rt.active {
		if a == s {
			copy(rt.active[i:], rt.active[i+1:])
			rt.active[len(rt.active)-1] = nil
			rt.active = rt.active[:len(rt.active)-1]
			return
		}
	}
}

// Scroll records a new scroll offset. Only the latest offset reaches the
// next frame.
func (rt *Runtime) Scroll(y float64) {
	if rt.pendingScroll {
		rt.coalesced++
	}
	rt.pendingScroll = true
	rt.scrollY = y
}

// ScrollBy records a scroll relative to the latest offset.
func (rt *Runtime) ScrollBy(dy float64) {
	y := rt.viewport.ScrollY
	if rt.pendingScroll {
		y = rt.scrollY
	}
	rt.Scroll(y + dy)
}

// ScrollTo smooth-scrolls to y over duration seconds.
func (rt *Runtime) ScrollTo(y float64, duration float32) {
	rt.pendingScroll = false
	rt.viewport.ScrollTo(y, duration, ease.InOutQuad)
}

// Resize records a new viewport size, applied at the next frame.
func (rt *Runtime) Resize(width, height float64) {
	if rt.pendingResize {
		rt.coalesced++
	}
	rt.pendingResize = true
	rt.width, rt.height = width, height
}

// Pending reports whether a scroll or resize is waiting for the next frame.
func (rt *Runtime) Pending() bool {
	return rt.pendingScroll || rt.pendingResize
}

// Stats returns the stats of the most recent frame.
func (rt *Runtime) Stats() FrameStats { return rt.stats }

// Frame runs one scheduling pass dt seconds after the previous one:
// scripted and injected input, the pending scroll/resize (applied once),
// smooth scrolling, then every Active surface's bindings, playbacks and
// loops in mount order.
func (rt *Runtime) Frame(dt float64) FrameStats {
	var t0 time.Time
	if rt.debug {
		t0 = time.Now()
	}
	rt.frame++
	stats := FrameStats{Frame: rt.frame}

	if rt.script != nil {
		rt.script.step(rt)
	}
	rt.processInjected()

	stats.Coalesced = rt.coalesced
	rt.coalesced = 0
	if rt.pendingResize {
		rt.pendingResize = false
		rt.viewport.Resize(rt.width, rt.height)
	}
	if rt.pendingScroll {
		rt.pendingScroll = false
		rt.viewport.SetScroll(rt.scrollY)
	}
	rt.viewport.update(float32(dt))

	rt.iter = append(rt.iter[:0], rt.active...)
	for _, s := range rt.iter {
		// A surface unmounted earlier in this pass must not write.
		if s.state != Active || s.ctx == nil {
			continue
		}
		stats.Surfaces++
		s.ctx.update(rt.viewport, dt, &stats)
	}
	clear(rt.iter)

	if rt.debug {
		stats.Elapsed = time.Since(t0)
		rt.debugLog(stats)
	}
	rt.stats = stats
	return stats
}

// debugWriter returns where debug output goes.
func (rt *Runtime) debugWriter() io.Writer {
	if rt.cfg.DebugOutput != nil {
		return rt.cfg.DebugOutput
	}
	return os.Stderr
}
