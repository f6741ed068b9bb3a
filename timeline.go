package scrollfx

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tanema/gween"
)

// Keyframe describes one property transition. When HasFrom is false the
// starting value is whatever the property holds when the timeline reaches it
// (the end value of an earlier keyframe on the same property, or the value
// captured at Play). With ToRest set, To is ignored and the keyframe ends at
// the value captured at Play.
type Keyframe struct {
	Property Property
	From     float64
	HasFrom  bool
	To       float64
	ToRest   bool
	Duration time.Duration
	Ease     EaseFunc
	Delay    time.Duration
}

// To returns a keyframe that animates p from its current value to v.
func To(p Property, v float64, d time.Duration, fn EaseFunc) Keyframe {
	return Keyframe{Property: p, To: v, Duration: d, Ease: fn}
}

// FromTo returns a keyframe that animates p from 'from' to 'to'. The from
// value is rendered as soon as the timeline is played.
func FromTo(p Property, from, to float64, d time.Duration, fn EaseFunc) Keyframe {
	return Keyframe{Property: p, From: from, HasFrom: true, To: to, Duration: d, Ease: fn}
}

// From returns a keyframe that animates p from 'from' back to the value the
// property held at Play.
func From(p Property, from float64, d time.Duration, fn EaseFunc) Keyframe {
	return Keyframe{Property: p, From: from, HasFrom: true, ToRest: true, Duration: d, Ease: fn}
}

// OffsetKind selects how a group's start time is resolved.
type OffsetKind uint8

const (
	OffsetSequential OffsetKind = iota // start where the previous group ended
	OffsetAbsolute                     // start at a fixed time
	OffsetRelative                     // start relative to where the previous group ended
)

// Offset positions a KeyframeGroup on the timeline.
type Offset struct {
	Kind OffsetKind
	// D is the absolute start (OffsetAbsolute) or the signed shift from the
	// end of the previous group (OffsetRelative; negative overlaps).
	D time.Duration
}

// At places a group at an absolute time.
func At(d time.Duration) Offset { return Offset{Kind: OffsetAbsolute, D: d} }

// After places a group d after the end of the previous group ("+=").
func After(d time.Duration) Offset { return Offset{Kind: OffsetRelative, D: d} }

// Overlap starts a group d before the end of the previous group ("-=").
func Overlap(d time.Duration) Offset { return Offset{Kind: OffsetRelative, D: -d} }

// String renders the offset in the "-=0.5s" notation.
func (o Offset) String() string {
	switch o.Kind {
	case OffsetAbsolute:
		return o.D.String()
	case OffsetRelative:
		if o.D < 0 {
			return "-=" + (-o.D).String()
		}
		return "+=" + o.D.String()
	default:
		return ""
	}
}

// ParseOffset parses a position string: "" (sequential), "1.2" or "1.2s"
// or "500ms" (absolute), "-=0.8" / "+=200ms" (relative). Bare numbers are
// seconds.
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Offset{}, nil
	}
	kind := OffsetAbsolute
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(s, "-="):
		kind, sign, s = OffsetRelative, -1, s[2:]
	case strings.HasPrefix(s, "+="):
		kind, s = OffsetRelative, s[2:]
	}
	d, err := parseSeconds(s)
	if err != nil {
		return Offset{}, fmt.Errorf("parse offset: %w", err)
	}
	if kind == OffsetAbsolute && d < 0 {
		return Offset{}, fmt.Errorf("parse offset: negative absolute time %q", s)
	}
	return Offset{Kind: kind, D: sign * d}, nil
}

// parseSeconds accepts a Go duration ("500ms", "1.5s") or a bare number of
// seconds ("0.8").
func parseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(math.Round(f * float64(time.Second))), nil
	}
	return time.ParseDuration(s)
}

// KeyframeGroup applies the same keyframes to every target. Target i starts
// i*Stagger after the group start, in list order.
type KeyframeGroup struct {
	Targets   ElementList
	Keyframes []Keyframe
	Stagger   time.Duration
	Position  Offset
}

// span returns how long the group runs from its start to the end of its last
// staggered target.
func (g KeyframeGroup) span() time.Duration {
	var longest time.Duration
	for _, kf := range g.Keyframes {
		if d := kf.Delay + maxDuration(kf.Duration, 0); d > longest {
			longest = d
		}
	}
	n := g.Targets.Len()
	if n == 0 {
		return 0
	}
	return time.Duration(n-1)*g.Stagger + longest
}

// track is one resolved (element, property) transition.
type track struct {
	elem     *Element
	prop     Property
	from     float64
	hasFrom  bool
	to       float64
	toRest   bool
	start    time.Duration
	duration time.Duration
	ease     EaseFunc
}

// Timeline is an immutable, time-resolved set of property transitions.
// Building one performs no visual mutation; see Play.
type Timeline struct {
	tracks   []track
	starts   []time.Duration
	delay    time.Duration
	duration time.Duration
}

// Build resolves groups into a Timeline. A running cursor starts at zero;
// each group's start is the cursor (sequential), a fixed time (absolute), or
// the cursor shifted by the offset (relative). The cursor then moves to the
// end of that group. Groups without targets are skipped and leave the
// cursor where it was.
func Build(groups ...KeyframeGroup) *Timeline {
	tl := &Timeline{}
	var cursor time.Duration
	for _, g := range groups {
		g.Targets = liveTargets(g.Targets)
		if g.Targets.Len() == 0 || len(g.Keyframes) == 0 {
			continue
		}

		start := cursor
		switch g.Position.Kind {
		case OffsetAbsolute:
			start = g.Position.D
		case OffsetRelative:
			start = cursor + g.Position.D
		}
		if start < 0 {
			start = 0
		}
		tl.starts = append(tl.starts, start)

		for i, e := range g.Targets.All() {
			elemStart := start + time.Duration(i)*g.Stagger
			for _, kf := range g.Keyframes {
				fn := kf.Ease
				if fn == nil {
					fn = DefaultEase
				}
				tl.tracks = append(tl.tracks, track{
					elem:     e,
					prop:     kf.Property,
					from:     kf.From,
					hasFrom:  kf.HasFrom,
					to:       kf.To,
					toRest:   kf.ToRest,
					start:    elemStart + maxDuration(kf.Delay, 0),
					duration: maxDuration(kf.Duration, 0),
					ease:     fn,
				})
			}
		}

		cursor = start + g.span()
		if cursor > tl.duration {
			tl.duration = cursor
		}
	}
	return tl
}

// WithDelay returns a copy of the timeline that waits d before its first group.
func (tl *Timeline) WithDelay(d time.Duration) *Timeline {
	cp := *tl
	cp.delay = maxDuration(d, 0)
	return &cp
}

// Delay returns the timeline-level delay.
func (tl *Timeline) Delay() time.Duration { return tl.delay }

// Duration returns the time from the first group start to the end of the
// last group, excluding Delay.
func (tl *Timeline) Duration() time.Duration { return tl.duration }

// TotalDuration returns Delay + Duration.
func (tl *Timeline) TotalDuration() time.Duration { return tl.delay + tl.duration }

// GroupStarts returns the resolved start time of every non-empty group.
func (tl *Timeline) GroupStarts() []time.Duration {
	out := make([]time.Duration, len(tl.starts))
	copy(out, tl.starts)
	return out
}

// Empty reports whether the timeline animates nothing.
func (tl *Timeline) Empty() bool {
	return len(tl.tracks) == 0
}

// Targets returns every distinct element the timeline writes, in first-use order.
func (tl *Timeline) Targets() []*Element {
	seen := make(map[*Element]bool)
	var out []*Element
	for _, tr := range tl.tracks {
		if !seen[tr.elem] {
			seen[tr.elem] = true
			out = append(out, tr.elem)
		}
	}
	return out
}

// liveTargets drops disposed handles so a missing element never aborts the
// rest of the group.
func liveTargets(l ElementList) ElementList {
	for _, e := range l.elems {
		if !live(e) {
			var b ElementListBuilder
			for _, e := range l.elems {
				if live(e) {
					b.Add(e)
				}
			}
			return b.Finalize()
		}
	}
	return l
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// --- Playback ---

// segment is a track with its starting value resolved at Play time.
type segment struct {
	start, duration float64 // seconds
	from, to        float64
	hasFrom         bool
	toRest          bool
	ease            EaseFunc
	tween           *gween.Tween
}

func (s *segment) valueAt(local float64) float64 {
	switch {
	case s.duration <= 0 || local >= s.duration:
		return s.to
	case local <= 0:
		return s.from
	}
	v, _ := s.tween.Set(float32(local))
	return float64(v)
}

// channel is every segment writing one (element, property) pair.
type channel struct {
	elem     *Element
	prop     Property
	segments []segment
	last     float64
	written  bool
}

// Playback is the handle returned by Play. It owns the interpolation state
// of one timeline run and can be advanced, sought, reversed and reverted.
type Playback struct {
	tl        *Timeline
	channels  []channel
	snapshots []propertySnapshot

	time      float64 // seconds, including the timeline delay
	total     float64
	direction float64
	paused    bool
	done      bool
	reverted  bool

	onComplete func()
}

// Play starts tl. Every targeted property is captured first so Revert can
// restore it exactly; explicit from-values are rendered immediately.
func Play(tl *Timeline) *Playback {
	p := newPlayback(tl)
	p.paused = false
	return p
}

// newPlayback prepares a paused playback at time zero.
func newPlayback(tl *Timeline) *Playback {
	p := &Playback{
		tl:        tl,
		total:     tl.TotalDuration().Seconds(),
		direction: 1,
		paused:    true,
	}

	type key struct {
		e *Element
		p Property
	}
	index := make(map[key]int)
	for _, tr := range tl.tracks {
		k := key{tr.elem, tr.prop}
		ci, ok := index[k]
		if !ok {
			ci = len(p.channels)
			index[k] = ci
			p.channels = append(p.channels, channel{elem: tr.elem, prop: tr.prop})
			p.snapshots = append(p.snapshots, takeSnapshot(tr.elem, tr.prop))
		}
		p.channels[ci].segments = append(p.channels[ci].segments, segment{
			start:    (tl.delay + tr.start).Seconds(),
			duration: tr.duration.Seconds(),
			from:     tr.from,
			hasFrom:  tr.hasFrom,
			to:       tr.to,
			toRest:   tr.toRest,
			ease:     tr.ease,
		})
	}

	// Resolve implicit from-values in time order per channel.
	for ci := range p.channels {
		ch := &p.channels[ci]
		sort.SliceStable(ch.segments, func(i, j int) bool { return ch.segments[i].start < ch.segments[j].start })
		rest := p.snapshots[ci].value
		prev := rest
		for si := range ch.segments {
			seg := &ch.segments[si]
			if !seg.hasFrom {
				seg.from = prev
			}
			if seg.toRest {
				seg.to = rest
			}
			seg.tween = gween.New(float32(seg.from), float32(seg.to), float32(seg.duration), seg.ease)
			prev = seg.to
		}
	}

	p.apply()
	return p
}

// OnComplete registers fn to run each time the playback reaches its end
// moving forward.
func (p *Playback) OnComplete(fn func()) {
	p.onComplete = fn
}

// Timeline returns the timeline being played.
func (p *Playback) Timeline() *Timeline { return p.tl }

// Time returns the playhead position in seconds (including delay).
func (p *Playback) Time() float64 { return p.time }

// Progress returns the playhead position as a fraction of the total duration.
func (p *Playback) Progress() float64 {
	if p.total <= 0 {
		if p.done && p.direction > 0 {
			return 1
		}
		return 0
	}
	return clamp01(p.time / p.total)
}

// Done reports whether the playhead reached the end of its current direction.
func (p *Playback) Done() bool { return p.done }

// Reversed reports whether the playhead is moving backward.
func (p *Playback) Reversed() bool { return p.direction < 0 }

// Reverted reports whether Revert has been called.
func (p *Playback) Reverted() bool { return p.reverted }

// Paused reports whether the playback ignores Update.
func (p *Playback) Paused() bool { return p.paused }

// Update advances the playhead by dt seconds in the current direction and
// writes interpolated values.
func (p *Playback) Update(dt float32) {
	p.advance(float64(dt))
}

// advance moves the playhead and returns the number of property writes.
func (p *Playback) advance(dt float64) int {
	if p.reverted || p.paused || p.done {
		return 0
	}
	p.time += dt * p.direction
	if p.direction > 0 && p.time >= p.total {
		p.time = p.total
		p.done = true
	} else if p.direction < 0 && p.time <= 0 {
		p.time = 0
		p.done = true
	}
	n := p.apply()
	if p.done && p.direction > 0 && p.onComplete != nil {
		p.onComplete()
	}
	return n
}

// Seek moves the playhead to t seconds and renders that instant. Seeking
// does not fire OnComplete.
func (p *Playback) Seek(t float64) {
	p.seek(t)
}

func (p *Playback) seek(t float64) int {
	if p.reverted {
		return 0
	}
	if t < 0 {
		t = 0
	}
	if t > p.total {
		t = p.total
	}
	p.time = t
	p.done = (p.direction > 0 && t >= p.total) || (p.direction < 0 && t <= 0)
	return p.apply()
}

// SeekProgress seeks to fraction f of the total duration.
func (p *Playback) SeekProgress(f float64) {
	p.seek(clamp01(f) * p.total)
}

// PlayForward resumes the playback moving toward the end. Calling it while
// reversing flips the in-flight direction.
func (p *Playback) PlayForward() {
	if p.reverted {
		return
	}
	p.direction = 1
	p.paused = false
	p.done = p.time >= p.total
}

// PlayBackward resumes the playback moving toward the start.
func (p *Playback) PlayBackward() {
	if p.reverted {
		return
	}
	p.direction = -1
	p.paused = false
	p.done = p.time <= 0
}

// Reverse flips the current direction.
func (p *Playback) Reverse() {
	if p.direction > 0 {
		p.PlayBackward()
	} else {
		p.PlayForward()
	}
}

// Pause stops Update from moving the playhead.
func (p *Playback) Pause() { p.paused = true }

// Revert restores every targeted property to its value before Play and
// halts the playback for good. Safe to call more than once and mid-flight.
func (p *Playback) Revert() {
	if p.reverted {
		return
	}
	p.reverted = true
	p.paused = true
	for i := len(p.snapshots) - 1; i >= 0; i-- {
		p.snapshots[i].restore()
	}
}

// apply renders every channel at the current playhead. Channels only write
// when their value changed, so idle playbacks produce no mutations.
func (p *Playback) apply() int {
	writes := 0
	for ci := range p.channels {
		ch := &p.channels[ci]
		if !live(ch.elem) {
			continue
		}
		v := ch.valueAt(p.time)
		if ch.written && v == ch.last {
			continue
		}
		ch.prop.Set(ch.elem, v)
		ch.last = v
		ch.written = true
		writes++
	}
	return writes
}

// valueAt returns the channel value at time t: the last segment that has
// started wins; before any segment starts, the first segment's from-value.
func (ch *channel) valueAt(t float64) float64 {
	idx := -1
	for i := range ch.segments {
		if ch.segments[i].start <= t {
			idx = i
		}
	}
	if idx < 0 {
		return ch.segments[0].from
	}
	s := &ch.segments[idx]
	return s.valueAt(t - s.start)
}
