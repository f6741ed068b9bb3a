package scrollfx

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// DefaultBaseStagger delays loop i's first leg by i times this value.
const DefaultBaseStagger = 200 * time.Millisecond

// AxisRange is the offset range an ambient loop samples on one axis. With
// Yoyo set, every other leg returns the axis to its base value.
type AxisRange struct {
	Range
	Yoyo bool
}

// AmbientLoopSpec describes an endless randomized drift of one element.
// X and Y are pixel offsets, Rotation is in degrees and Duration is the leg
// duration range in seconds.
type AmbientLoopSpec struct {
	Element      *Element
	X, Y         AxisRange
	Rotation     AxisRange
	Duration     Range
	StaggerIndex int
	Ease         EaseFunc
}

// Loop is the handle returned by LoopScheduler.Start.
type Loop struct {
	spec  AmbientLoopSpec
	sched *LoopScheduler

	baseX, baseY, baseRot float64
	// away[i] is true when axis i (x, y, rotation) last moved off its base.
	away [3]bool

	leg     *TweenGroup
	wait    float64
	legs    int
	stopped bool
}

// Element returns the looping element.
func (l *Loop) Element() *Element { return l.spec.Element }

// Legs returns how many legs have started.
func (l *Loop) Legs() int { return l.legs }

// Stopped reports whether the loop was stopped.
func (l *Loop) Stopped() bool { return l.stopped }

// Waiting reports whether the loop is still inside its stagger delay.
func (l *Loop) Waiting() bool { return !l.stopped && l.wait > 0 }

// LoopScheduler advances ambient loops. Loops are independent of each
// other and of scroll position.
type LoopScheduler struct {
	loops       []*Loop
	rng         *rand.Rand
	baseStagger time.Duration
}

// NewLoopScheduler creates a scheduler drawing from rng (nil uses the
// package-level source). A non-positive baseStagger uses DefaultBaseStagger.
func NewLoopScheduler(rng *rand.Rand, baseStagger time.Duration) *LoopScheduler {
	if baseStagger <= 0 {
		baseStagger = DefaultBaseStagger
	}
	return &LoopScheduler{rng: rng, baseStagger: baseStagger}
}

// Start begins a loop around the element's current position. A nil or
// disposed element is skipped and Start returns nil.
func (s *LoopScheduler) Start(spec AmbientLoopSpec) *Loop {
	e := spec.Element
	if !live(e) {
		return nil
	}
	if spec.Ease == nil {
		spec.Ease = ease.InOutSine
	}
	if spec.Duration.Max <= 0 {
		spec.Duration = Range{Min: 4, Max: 6}
	}
	l := &Loop{
		spec:    spec,
		sched:   s,
		baseX:   e.X,
		baseY:   e.Y,
		baseRot: e.Rotation,
		wait:    float64(spec.StaggerIndex) * s.baseStagger.Seconds(),
	}
	s.loops = append(s.loops, l)
	if l.wait <= 0 {
		l.nextLeg()
	}
	return l
}

// Stop freezes l at its current interpolated position and removes it.
// Nil and repeated calls are no-ops.
func (s *LoopScheduler) Stop(l *Loop) {
	if l == nil || l.stopped {
		return
	}
	l.stopped = true
	if l.leg != nil {
		l.leg.Stop()
	}
	for i, x := range s.loops {
		if x == l {
			copy(s.loops[i:], s.loops[i+1:])
			s.loops[len(s.loops)-1] = nil
			s.loops = s.loops[:len(s.loops)-1]
			break
		}
	}
}

// Len returns the number of running loops.
func (s *LoopScheduler) Len() int { return len(s.loops) }

// Update advances every loop by dt seconds. Returns the number of elements
// written.
func (s *LoopScheduler) Update(dt float64) int {
	writes := 0
	for i := 0; i < len(s.loops); i++ {
		l := s.loops[i]
		if !live(l.spec.Element) {
			s.Stop(l)
			i--
			continue
		}
		step := dt
		if l.wait > 0 {
			l.wait -= dt
			if l.wait > 0 {
				continue
			}
			// Carry the overshoot into the first leg.
			step = -l.wait
			l.wait = 0
			l.nextLeg()
		}
		l.leg.Update(float32(step))
		writes++
		if l.leg.Done {
			l.nextLeg()
		}
	}
	return writes
}

// reset stops every loop.
func (s *LoopScheduler) reset() {
	for len(s.loops) > 0 {
		s.Stop(s.loops[len(s.loops)-1])
	}
}

// nextLeg samples the next target and duration and starts a tween toward it.
func (l *Loop) nextLeg() {
	rng := l.sched.rng
	x := l.sample(0, l.baseX, l.spec.X, rng)
	y := l.sample(1, l.baseY, l.spec.Y, rng)
	rot := l.sample(2, l.baseRot, l.spec.Rotation.scaled(math.Pi/180), rng)
	d := l.spec.Duration.Random(rng)
	l.leg = TweenTransform(l.spec.Element, x, y, rot, float32(d), l.spec.Ease)
	l.legs++
}

// sample returns the next target for one axis.
func (l *Loop) sample(axis int, base float64, r AxisRange, rng *rand.Rand) float64 {
	if r.Yoyo && l.away[axis] {
		l.away[axis] = false
		return base
	}
	l.away[axis] = true
	return base + r.Random(rng)
}

func (r AxisRange) scaled(k float64) AxisRange {
	return AxisRange{Range: Range{Min: r.Min * k, Max: r.Max * k}, Yoyo: r.Yoyo}
}
