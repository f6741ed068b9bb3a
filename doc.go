// Package scrollfx is a scroll-driven animation runtime for page-like
// surfaces: entrance timelines, scroll-triggered and scrubbed effects, and
// ambient loops, all scoped to a surface's mount lifetime.
//
// # Quick start
//
// Create a runtime, mount a surface with a setup function, and call
// [Runtime.Frame] once per rendered frame. Hosts forward scroll and resize
// events as they arrive; they are coalesced and applied at the next frame.
//
//	rt := scrollfx.NewRuntime(scrollfx.RuntimeConfig{Width: 1280, Height: 800})
//	home := rt.NewSurface("home")
//	home.Mount(func(c *scrollfx.Context) {
//		c.AddTimeline(scrollfx.Build(scrollfx.KeyframeGroup{
//			Targets:   scrollfx.Elements(title),
//			Keyframes: []scrollfx.Keyframe{scrollfx.FromTo(scrollfx.PropAlpha, 0, 1, time.Second, ease.OutQuart)},
//		}))
//	})
//
//	// host loop
//	rt.Scroll(y)
//	rt.Frame(1.0 / 60)
//
// The ebitenfx subpackage provides a ready-made window host, and presets
// bundles YAML page manifests that can be mounted directly.
//
// # Elements
//
// An [Element] is the handle the rendering layer gives the core for a mounted
// node. The rendering layer keeps its layout box current; the core writes the
// animatable fields (X, Y, ScaleX, ScaleY, Rotation, Alpha, YPercent, Color)
// and reads the box when evaluating scroll triggers. Elements that are
// missing or disposed are skipped wherever they appear as targets.
//
// # Timelines
//
// A [Timeline] is an ordered list of [KeyframeGroup] values. Each group
// starts at the timeline cursor, at an absolute time, or relative to the
// cursor ([ParseOffset] accepts "1.2", "+=0.5" and "-=0.8"). Targets within a
// group are staggered in list order. [Play] starts a [Playback]; reverting a
// playback restores every touched property exactly.
//
// # Scroll bindings
//
// [Context.Bind] attaches a timeline or a [PropertyMap] to a scroll region
// of an anchor element, described by a start and end [Trigger] such as
// "top 80%" or "bottom top". The [ReplayPolicy] picks between playing once,
// playing forward on entry and backward on exit, and scrubbing progress
// continuously with optional exponential or spring smoothing.
//
// # Ambient loops
//
// [Context.AddLoop] starts an endless loop that moves an element toward
// random offsets sampled from per-axis ranges. Loops are staggered by their
// index and can yoyo back to their base position on alternate legs.
//
// # Surfaces and contexts
//
// A [Surface] moves through Unmounted, Mounting, Active and Unmounting. Every
// registration made during Mount lives in the surface's [Context] and is
// reverted, in reverse order, when the surface unmounts. No effect runs for
// a surface that is not Active, even when it unmounts mid-frame.
//
// # Manifests
//
// A [Manifest] describes a surface's effects in YAML. [Manifest.Setup]
// resolves element names through an [ElementLookup] and returns a mount
// function.
//
// # Testing
//
// [Runtime.InjectScroll], [Runtime.InjectScrollSweep] and
// [Runtime.InjectResize] queue synthetic input consumed one event per frame.
// [LoadScrollScript] replays a JSON script of the same actions.
package scrollfx
