package scrollfx

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func newTestRuntime() *Runtime {
	return NewRuntime(RuntimeConfig{Width: 800, Height: 800, Rand: testRand()})
}

func TestInitRuntimeIdempotent(t *testing.T) {
	defer func() { defaultRuntime = nil }()
	defaultRuntime = nil

	if DefaultRuntime() != nil {
		t.Fatal("DefaultRuntime should be nil before InitRuntime")
	}
	a := InitRuntime(RuntimeConfig{Width: 400, Height: 300})
	b := InitRuntime(RuntimeConfig{Width: 1920, Height: 1080})
	if a != b {
		t.Fatal("InitRuntime returned a different runtime on the second call")
	}
	if a.Viewport().Width != 400 {
		t.Errorf("Width = %v, want 400 (second config ignored)", a.Viewport().Width)
	}
	if NewRuntime(RuntimeConfig{}) == a {
		t.Error("NewRuntime should return an isolated runtime")
	}
}

func TestRuntimeDefaults(t *testing.T) {
	rt := NewRuntime(RuntimeConfig{})
	if rt.Viewport().Width != 1280 || rt.Viewport().Height != 720 {
		t.Errorf("viewport = %vx%v, want 1280x720", rt.Viewport().Width, rt.Viewport().Height)
	}
	if rt.TPS() != 60 {
		t.Errorf("TPS = %d, want 60", rt.TPS())
	}
}

func TestScrollCoalescedPerFrame(t *testing.T) {
	rt := newTestRuntime()
	s := rt.NewSurface("page")
	anchor := NewElement("section", Rect{Y: 0, Height: 800})
	calls := 0
	s.Mount(func(c *Context) {
		c.Bind(ScrollBinding{
			Anchor: anchor,
			Start:  &Trigger{},
			End:    &DefaultEnd,
			Policy: ContinuousScrub,
		}, PropertyMap(func(float64) { calls++ }))
	})

	rt.Frame(1.0 / 60)
	calls = 0
	for y := 10.0; y <= 100; y += 10 {
		rt.Scroll(y)
	}
	if !rt.Pending() {
		t.Fatal("expected pending scroll")
	}
	stats := rt.Frame(1.0 / 60)
	if calls != 1 {
		t.Errorf("effect evaluated %d times, want 1", calls)
	}
	if stats.Coalesced != 9 {
		t.Errorf("Coalesced = %d, want 9", stats.Coalesced)
	}
	if rt.Viewport().ScrollY != 100 {
		t.Errorf("ScrollY = %v, want 100", rt.Viewport().ScrollY)
	}
	if rt.Pending() {
		t.Error("pending flag not cleared")
	}
}

func TestResizeAppliedAtFrame(t *testing.T) {
	rt := newTestRuntime()
	rt.Resize(1024, 600)
	rt.Resize(1280, 700)
	if rt.Viewport().Width != 800 {
		t.Fatal("resize applied before Frame")
	}
	rt.Frame(1.0 / 60)
	if rt.Viewport().Width != 1280 || rt.Viewport().Height != 700 {
		t.Errorf("viewport = %vx%v, want 1280x700", rt.Viewport().Width, rt.Viewport().Height)
	}
}

func TestScrollByUsesPendingOffset(t *testing.T) {
	rt := newTestRuntime()
	rt.Scroll(100)
	rt.ScrollBy(50)
	rt.Frame(1.0 / 60)
	if rt.Viewport().ScrollY != 150 {
		t.Errorf("ScrollY = %v, want 150", rt.Viewport().ScrollY)
	}
}

func TestUnmountMidTickProducesNoMutations(t *testing.T) {
	rt := newTestRuntime()
	s := rt.NewSurface("home")

	var particles []*Element
	for i := 0; i < 3; i++ {
		particles = append(particles, box("particle"))
	}
	anchor := NewElement("hero", Rect{Y: 0, Height: 1600})
	title := box("title")

	s.Mount(func(c *Context) {
		for i, p := range particles {
			c.AddLoop(particleSpec(p, i))
		}
		c.Bind(ScrollBinding{
			Anchor: anchor,
			Start:  &Trigger{},
			End:    &DefaultEnd,
			Policy: ContinuousScrub,
			Scrub:  1,
		}, TimelineEffect(Build(KeyframeGroup{
			Targets:   Elements(title),
			Keyframes: []Keyframe{To(PropYPercent, -30, time.Second, ease.Linear)},
		})))
	})
	if s.Context().Len() != 4 {
		t.Fatalf("registrations = %d, want 4", s.Context().Len())
	}
	for i := 0; i < 30; i++ {
		rt.Scroll(float64(i * 10))
		rt.Frame(1.0 / 60)
	}

	// A scroll event is in flight when navigation tears the surface down.
	rt.Scroll(900)
	s.Unmount()

	type pose struct{ x, y, r, yp float64 }
	snap := func() []pose {
		var out []pose
		for _, e := range append(particles, title) {
			out = append(out, pose{e.X, e.Y, e.Rotation, e.YPercent})
		}
		return out
	}
	before := snap()
	for _, e := range append(particles, title) {
		e.ClearDirty()
	}

	stats := rt.Frame(1.0 / 60)
	if stats.Mutations != 0 {
		t.Errorf("Mutations = %d, want 0", stats.Mutations)
	}
	after := snap()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("element %d changed after unmount: %+v -> %+v", i, before[i], after[i])
		}
	}
	for _, e := range append(particles, title) {
		if e.Dirty() {
			t.Errorf("element %q written after unmount", e.Name)
		}
	}
}

func TestUnmountFromEffectStopsPass(t *testing.T) {
	rt := newTestRuntime()
	s := rt.NewSurface("page")
	anchor := NewElement("section", Rect{Y: 0, Height: 800})
	second := 0
	s.Mount(func(c *Context) {
		scrub := ScrollBinding{Anchor: anchor, Start: &Trigger{}, End: &DefaultEnd, Policy: ContinuousScrub}
		c.Bind(scrub, PropertyMap(func(float64) { s.Unmount() }))
		c.Bind(scrub, PropertyMap(func(float64) { second++ }))
	})
	rt.Frame(1.0 / 60)
	if second != 0 {
		t.Errorf("binding after unmount ran %d times", second)
	}
	if s.State() != Unmounted {
		t.Errorf("State = %v, want unmounted", s.State())
	}
}

func TestNavigateSwapsSurfaces(t *testing.T) {
	rt := newTestRuntime()
	home := rt.NewSurface("home")
	about := rt.NewSurface("about")
	e := box("hero")
	e.Alpha = 0.2

	rt.Navigate(home, func(c *Context) {
		c.AddTimeline(Build(KeyframeGroup{
			Targets:   Elements(e),
			Keyframes: []Keyframe{To(PropAlpha, 1, time.Second, ease.Linear)},
		}))
	})
	rt.Frame(0.5)
	rt.Navigate(about, nil)

	if home.State() != Unmounted || about.State() != Active {
		t.Errorf("states = %v, %v; want unmounted, active", home.State(), about.State())
	}
	if e.Alpha != 0.2 {
		t.Errorf("Alpha = %v, want 0.2 after leaving home", e.Alpha)
	}
	if got := rt.ActiveSurfaces(); len(got) != 1 || got[0] != about {
		t.Errorf("ActiveSurfaces = %v", got)
	}
}

func TestRuntimeEvents(t *testing.T) {
	rt := newTestRuntime()
	var got []EventType
	rt.SetEventSink(EventSinkFunc(func(ev AnimationEvent) { got = append(got, ev.Type) }))

	s := rt.NewSurface("about")
	anchor := NewElement("section", Rect{Y: 1000, Height: 400})
	s.Mount(func(c *Context) {
		c.Bind(ScrollBinding{Anchor: anchor, Start: &Trigger{Viewport: 0.8}, Policy: PlayReverseOnLeave},
			TimelineEffect(Build(KeyframeGroup{
				Targets:   Elements(box("title")),
				Keyframes: []Keyframe{To(PropY, 10, 100*time.Millisecond, nil)},
			})))
	})
	rt.Scroll(500)
	rt.Frame(0.2)
	rt.Scroll(0)
	rt.Frame(0.2)
	s.Unmount()

	want := []EventType{
		EventSurfaceMounted,
		EventBindingEnter,
		EventTimelineComplete,
		EventBindingLeave,
		EventSurfaceUnmounted,
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDebugLogOutput(t *testing.T) {
	var buf bytes.Buffer
	rt := NewRuntime(RuntimeConfig{Debug: true, DebugOutput: &buf})
	s := rt.NewSurface("art")
	s.Mount(nil)
	rt.Frame(1.0 / 60)

	out := buf.String()
	for _, want := range []string{"[scrollfx] mount \"art\"", "[scrollfx] frame 1", "mutations: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	rt.SetDebugMode(false)
	rt.Frame(1.0 / 60)
	if buf.Len() != 0 {
		t.Errorf("debug output with debug off: %q", buf.String())
	}
}

func TestInjectedEventsOnePerFrame(t *testing.T) {
	rt := newTestRuntime()
	rt.InjectScroll(100)
	rt.InjectScrollBy(50)
	rt.InjectResize(640, 480)

	rt.Frame(1.0 / 60)
	if rt.Viewport().ScrollY != 100 {
		t.Errorf("frame 1 ScrollY = %v, want 100", rt.Viewport().ScrollY)
	}
	rt.Frame(1.0 / 60)
	if rt.Viewport().ScrollY != 150 {
		t.Errorf("frame 2 ScrollY = %v, want 150", rt.Viewport().ScrollY)
	}
	rt.Frame(1.0 / 60)
	if rt.Viewport().Width != 640 {
		t.Errorf("frame 3 Width = %v, want 640", rt.Viewport().Width)
	}
	if rt.Injected() != 0 {
		t.Errorf("Injected = %d, want 0", rt.Injected())
	}
}

func TestInjectScrollSweep(t *testing.T) {
	rt := newTestRuntime()
	rt.InjectScrollSweep(0, 300, 4)
	var ys []float64
	for i := 0; i < 4; i++ {
		rt.Frame(1.0 / 60)
		ys = append(ys, rt.Viewport().ScrollY)
	}
	want := []float64{0, 100, 200, 300}
	for i := range want {
		if !approxEqual(ys[i], want[i], 1e-9) {
			t.Errorf("frame %d ScrollY = %v, want %v", i, ys[i], want[i])
		}
	}
}

func TestRuntimeScrollToSmooth(t *testing.T) {
	rt := newTestRuntime()
	rt.ScrollTo(400, 0.5)
	rt.Frame(0.25)
	if y := rt.Viewport().ScrollY; y <= 0 || y >= 400 {
		t.Errorf("mid ScrollY = %v, want in (0, 400)", y)
	}
	rt.Frame(0.25)
	if !approxEqual(rt.Viewport().ScrollY, 400, 0.01) {
		t.Errorf("final ScrollY = %v, want 400", rt.Viewport().ScrollY)
	}
}
