package scrollfx

import (
	"math/rand/v2"
	"time"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in document coordinates. The origin is at
// the top-left of the page, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Range is a general-purpose min/max range. Used by ambient loops for axis
// offsets and leg durations.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
// A nil rng uses the package-level source.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	if rng == nil {
		return r.Min + rand.Float64()*(r.Max-r.Min)
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsZero reports whether both bounds are zero.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// ReplayPolicy selects how a scroll binding reacts to its trigger region.
type ReplayPolicy uint8

const (
	PlayOnce           ReplayPolicy = iota // play forward the first time the region is entered
	PlayReverseOnLeave                     // play on entry, reverse on exit
	ContinuousScrub                        // map scroll progress directly onto the effect
)

// String returns the policy name.
func (p ReplayPolicy) String() string {
	switch p {
	case PlayOnce:
		return "play-once"
	case PlayReverseOnLeave:
		return "play-reverse-on-leave"
	case ContinuousScrub:
		return "continuous-scrub"
	default:
		return "unknown"
	}
}

// Smoothing selects how a scrub binding damps its progress toward the raw
// scroll progress.
type Smoothing uint8

const (
	SmoothExponential Smoothing = iota // exponential approach, time constant = Scrub seconds
	SmoothSpring                       // critically damped spring (harmonica)
)

// EventType identifies a kind of lifecycle event delivered to an EventSink.
type EventType uint8

const (
	EventSurfaceMounted   EventType = iota // surface finished Mounting and is Active
	EventSurfaceUnmounted                  // surface finished Unmounting
	EventBindingEnter                      // scroll position entered a binding's trigger region
	EventBindingLeave                      // scroll position left a binding's trigger region
	EventTimelineComplete                  // a playback reached its end in the forward direction
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventSurfaceMounted:
		return "surface-mounted"
	case EventSurfaceUnmounted:
		return "surface-unmounted"
	case EventBindingEnter:
		return "binding-enter"
	case EventBindingLeave:
		return "binding-leave"
	case EventTimelineComplete:
		return "timeline-complete"
	default:
		return "unknown"
	}
}

// seconds converts a duration to float32 seconds for gween.
func seconds(d time.Duration) float32 {
	return float32(d.Seconds())
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
