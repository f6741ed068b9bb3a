package scrollfx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/harmonica"
)

// Trigger locates one end of a trigger region: the point Edge of the anchor
// (0 = top, 1 = bottom) meets the point Viewport of the viewport
// (0 = top, 1 = bottom). Pixel offsets are added to either side.
type Trigger struct {
	Edge       float64
	EdgePx     float64
	Viewport   float64
	ViewportPx float64
}

// Default triggers: the region starts when the anchor's top enters the bottom
// of the viewport and ends when its bottom leaves the top.
var (
	DefaultStart = Trigger{Edge: 0, Viewport: 1}
	DefaultEnd   = Trigger{Edge: 1, Viewport: 0}
)

// ScrollY returns the scroll offset at which the trigger is met for anchor
// a in a viewport of height vpHeight. The anchor's layout box is read live.
func (t Trigger) ScrollY(a *Element, vpHeight float64) float64 {
	anchor := a.Top + t.Edge*a.Height + t.EdgePx
	return anchor - (t.Viewport*vpHeight + t.ViewportPx)
}

// String renders the trigger in "top 80%" notation.
func (t Trigger) String() string {
	return formatTriggerPart(t.Edge, t.EdgePx) + " " + formatTriggerPart(t.Viewport, t.ViewportPx)
}

func formatTriggerPart(frac, px float64) string {
	if px != 0 && frac == 0 {
		return strconv.FormatFloat(px, 'f', -1, 64) + "px"
	}
	switch frac {
	case 0:
		return "top"
	case 0.5:
		return "center"
	case 1:
		return "bottom"
	}
	return strconv.FormatFloat(frac*100, 'f', -1, 64) + "%"
}

// ParseTrigger parses "<anchor> <viewport>", where each half is top, center,
// bottom, a percentage ("80%") or a pixel offset ("120px" or "120").
// A single word applies to the anchor and the viewport defaults to top.
func ParseTrigger(s string) (Trigger, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Trigger{}, fmt.Errorf("parse trigger %q: want \"<anchor> <viewport>\"", s)
	}
	var t Trigger
	var err error
	if t.Edge, t.EdgePx, err = parseTriggerPart(fields[0]); err != nil {
		return Trigger{}, fmt.Errorf("parse trigger %q: %w", s, err)
	}
	if len(fields) == 2 {
		if t.Viewport, t.ViewportPx, err = parseTriggerPart(fields[1]); err != nil {
			return Trigger{}, fmt.Errorf("parse trigger %q: %w", s, err)
		}
	}
	return t, nil
}

func parseTriggerPart(s string) (frac, px float64, err error) {
	switch strings.ToLower(s) {
	case "top":
		return 0, 0, nil
	case "center":
		return 0.5, 0, nil
	case "bottom":
		return 1, 0, nil
	}
	if v, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, 0, err
		}
		return f / 100, 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, 0, err
	}
	return 0, f, nil
}

// ParseToggleActions maps a toggle-actions string ("onEnter onLeave
// onEnterBack onLeaveBack") to a replay policy. Any "reverse" action means
// PlayReverseOnLeave; otherwise PlayOnce.
func ParseToggleActions(s string) (ReplayPolicy, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return PlayOnce, fmt.Errorf("parse toggle actions %q: want 4 actions", s)
	}
	policy := PlayOnce
	for _, f := range fields {
		switch f {
		case "reverse":
			policy = PlayReverseOnLeave
		case "play", "none", "restart", "resume", "pause", "reset", "complete":
		default:
			return PlayOnce, fmt.Errorf("parse toggle actions %q: unknown action %q", s, f)
		}
	}
	return policy, nil
}

// ScrollBinding attaches an effect to a scroll region of Anchor.
type ScrollBinding struct {
	Anchor *Element
	// Start defaults to DefaultStart. A nil End leaves discrete regions open
	// downward; scrub regions fall back to DefaultEnd.
	Start, End *Trigger
	// Scrub is the smoothing lag in seconds for ContinuousScrub. Zero maps
	// progress directly.
	Scrub     float64
	Policy    ReplayPolicy
	Smoothing Smoothing
}

// Effect is what a binding drives: a timeline or a progress callback.
type Effect struct {
	timeline *Timeline
	mapFn    func(progress float64)
}

// TimelineEffect drives tl. Discrete policies play and reverse it; scrub
// seeks it to the scroll progress.
func TimelineEffect(tl *Timeline) Effect {
	return Effect{timeline: tl}
}

// PropertyMap calls fn with the scroll progress whenever it changes.
// Only meaningful for ContinuousScrub bindings.
func PropertyMap(fn func(progress float64)) Effect {
	return Effect{mapFn: fn}
}

// Binding is the handle returned by ScrollBinder.Bind.
type Binding struct {
	spec     ScrollBinding
	effect   Effect
	playback *Playback

	inside   bool
	side     regionSide
	plays    int
	raw      float64
	progress float64
	started  bool
	velocity float64
	spring   harmonica.Spring
	springDT float64
	unbound  bool
}

// Policy returns the binding's replay policy.
func (b *Binding) Policy() ReplayPolicy { return b.spec.Policy }

// Anchor returns the element whose layout box defines the region.
func (b *Binding) Anchor() *Element { return b.spec.Anchor }

// Playback returns the playback of a timeline effect, or nil.
func (b *Binding) Playback() *Playback { return b.playback }

// Inside reports whether the last update found the scroll position inside
// the trigger region.
func (b *Binding) Inside() bool { return b.inside }

// PlayCount returns how many times the effect was started forward.
func (b *Binding) PlayCount() int { return b.plays }

// RawProgress returns the unsmoothed region progress from the last update.
func (b *Binding) RawProgress() float64 { return b.raw }

// Progress returns the progress last applied to the effect.
func (b *Binding) Progress() float64 { return b.progress }

// Unbound reports whether the binding was removed.
func (b *Binding) Unbound() bool { return b.unbound }

// Region returns the scroll offsets where the region starts and ends for
// the given viewport height. End is +Inf for open regions.
func (b *Binding) Region(vpHeight float64) (startY, endY float64) {
	start := DefaultStart
	if b.spec.Start != nil {
		start = *b.spec.Start
	}
	startY = start.ScrollY(b.spec.Anchor, vpHeight)
	switch {
	case b.spec.End != nil:
		endY = b.spec.End.ScrollY(b.spec.Anchor, vpHeight)
	case b.spec.Policy == ContinuousScrub:
		endY = DefaultEnd.ScrollY(b.spec.Anchor, vpHeight)
	default:
		endY = math.Inf(1)
	}
	return startY, endY
}

// ScrollBinder evaluates scroll bindings against a viewport.
type ScrollBinder struct {
	bindings []*Binding
	iter     []*Binding
	sink     EventSink
	surface  string
}

// NewScrollBinder creates an empty binder.
func NewScrollBinder() *ScrollBinder {
	return &ScrollBinder{}
}

// Bind registers effect under b. A nil or disposed anchor, or an empty
// effect, is skipped and Bind returns nil. Timeline effects render their
// explicit from-values immediately.
func (s *ScrollBinder) Bind(b ScrollBinding, effect Effect) *Binding {
	if !live(b.Anchor) {
		return nil
	}
	if effect.timeline == nil && effect.mapFn == nil {
		return nil
	}
	bd := &Binding{spec: b, effect: effect, side: sideBefore}
	if effect.timeline != nil {
		bd.playback = newPlayback(effect.timeline)
	}
	s.bindings = append(s.bindings, bd)
	return bd
}

// Unbind removes bd. Discrete timeline effects are reverted to their rest
// state; scrub effects keep their last applied value. Nil and repeated
// calls are no-ops.
func (s *ScrollBinder) Unbind(bd *Binding) {
	if bd == nil || bd.unbound {
		return
	}
	bd.unbound = true
	for i, b := range s.bindings {
		if b == bd {
			copy(s.bindings[i:], s.bindings[i+1:])
			s.bindings[len(s.bindings)-1] = nil
			s.bindings = s.bindings[:len(s.bindings)-1]
			break
		}
	}
	if bd.playback != nil && bd.spec.Policy != ContinuousScrub {
		bd.playback.Revert()
	}
}

// Len returns the number of live bindings.
func (s *ScrollBinder) Len() int { return len(s.bindings) }

// Update evaluates every binding in registration order against vp, dt
// seconds after the previous update. Returns the number of property writes.
func (s *ScrollBinder) Update(vp *Viewport, dt float64) int {
	// Effects may unbind (or unmount the whole surface) while we iterate.
	s.iter = append(s.iter[:0], s.bindings...)
	writes := 0
	for _, bd := range s.iter {
		if bd.unbound {
			continue
		}
		writes += s.evaluate(bd, vp, dt)
	}
	clear(s.iter)
	return writes
}

func (s *ScrollBinder) evaluate(bd *Binding, vp *Viewport, dt float64) int {
	if !live(bd.spec.Anchor) {
		// The anchor left the page; keep the effect where it is.
		if bd.playback != nil && bd.spec.Policy != ContinuousScrub {
			return bd.playback.advance(dt)
		}
		return 0
	}

	startY, endY := bd.Region(vp.Height)
	y := vp.ScrollY
	var inside bool
	switch {
	case endY < startY:
		// Degenerate region: always active.
		inside = true
		bd.raw = 1
	case math.IsInf(endY, 1):
		inside = y >= startY
		if inside {
			bd.raw = 1
		} else {
			bd.raw = 0
		}
	case endY == startY:
		inside = y == startY
		if y >= startY {
			bd.raw = 1
		} else {
			bd.raw = 0
		}
	default:
		inside = y >= startY && y <= endY
		bd.raw = clamp01((y - startY) / (endY - startY))
	}

	side := sideInside
	if !inside {
		side = sideBefore
		if y > startY {
			side = sideAfter
		}
	}
	prev := bd.side
	bd.side = side

	if inside != bd.inside {
		bd.inside = inside
		if inside {
			s.emit(EventBindingEnter, bd)
		} else {
			s.emit(EventBindingLeave, bd)
		}
		writes := s.toggle(bd, inside)
		return writes + s.step(bd, dt)
	}
	if !inside && prev != sideInside && prev != side {
		// Jumped over the whole region in one tick.
		s.emit(EventBindingEnter, bd)
		writes := s.toggle(bd, true)
		s.emit(EventBindingLeave, bd)
		writes += s.toggle(bd, false)
		return writes + s.step(bd, dt)
	}
	return s.step(bd, dt)
}

// regionSide is where the scroll position sits relative to a region.
type regionSide int8

const (
	sideBefore regionSide = iota - 1
	sideInside
	sideAfter
)

// toggle applies the replay policy to a region transition.
func (s *ScrollBinder) toggle(bd *Binding, entered bool) int {
	if bd.playback == nil {
		return 0
	}
	switch bd.spec.Policy {
	case PlayOnce:
		if entered && bd.plays == 0 {
			bd.plays++
			bd.playback.PlayForward()
		}
	case PlayReverseOnLeave:
		if entered {
			bd.plays++
			bd.playback.PlayForward()
		} else {
			bd.playback.PlayBackward()
		}
	}
	return 0
}

// step advances the effect by dt.
func (s *ScrollBinder) step(bd *Binding, dt float64) int {
	if bd.spec.Policy != ContinuousScrub {
		if bd.playback == nil {
			return 0
		}
		wasDone := bd.playback.Done()
		n := bd.playback.advance(dt)
		if !wasDone && bd.playback.Done() && !bd.playback.Reversed() {
			s.emit(EventTimelineComplete, bd)
		}
		bd.progress = bd.playback.Progress()
		return n
	}

	prev := bd.progress
	if !bd.started || bd.spec.Scrub <= 0 {
		bd.progress = bd.raw
		bd.velocity = 0
	} else {
		bd.progress = bd.smooth(dt)
	}
	changed := !bd.started || bd.progress != prev
	bd.started = true
	if !changed {
		return 0
	}
	if bd.playback != nil {
		return bd.playback.seek(bd.progress * bd.playback.total)
	}
	bd.effect.mapFn(bd.progress)
	return 1
}

// smooth moves progress toward raw. Exponential smoothing uses
// alpha = 1 - exp(-dt/scrub); spring smoothing uses a critically damped
// harmonica spring whose settle time tracks the scrub lag.
func (bd *Binding) smooth(dt float64) float64 {
	var p float64
	switch bd.spec.Smoothing {
	case SmoothSpring:
		if dt <= 0 {
			return bd.progress
		}
		if bd.springDT != dt {
			bd.spring = harmonica.NewSpring(dt, 4/bd.spec.Scrub, 1)
			bd.springDT = dt
		}
		p, bd.velocity = bd.spring.Update(bd.progress, bd.velocity, bd.raw)
	default:
		alpha := 1 - math.Exp(-dt/bd.spec.Scrub)
		p = bd.progress + (bd.raw-bd.progress)*alpha
	}
	if math.Abs(bd.raw-p) < 1e-4 {
		bd.velocity = 0
		return bd.raw
	}
	return clamp01(p)
}

func (s *ScrollBinder) emit(t EventType, bd *Binding) {
	if s.sink == nil {
		return
	}
	s.sink.EmitEvent(AnimationEvent{Type: t, Surface: s.surface, Element: bd.spec.Anchor})
}

// reset unbinds everything, reverting discrete effects.
func (s *ScrollBinder) reset() {
	for len(s.bindings) > 0 {
		s.Unbind(s.bindings[len(s.bindings)-1])
	}
}
