package scrollfx

import "fmt"

// Token identifies one registration. The high 32 bits hold the owning
// surface's ID and the low 32 bits a per-context sequence number, so tokens
// from different surfaces never collide.
type Token uint64

func newToken(surface, seq uint32) Token {
	return Token(uint64(surface)<<32 | uint64(seq))
}

// Surface returns the ID of the surface that issued the token.
func (t Token) Surface() uint32 { return uint32(t >> 32) }

// Seq returns the token's sequence number within its context.
func (t Token) Seq() uint32 { return uint32(t) }

// String renders the token as "surface:seq".
func (t Token) String() string {
	return fmt.Sprintf("%d:%d", t.Surface(), t.Seq())
}

// RegistrationKind tells which effect a Registration holds.
type RegistrationKind uint8

const (
	RegTimeline RegistrationKind = iota
	RegBinding
	RegLoop
)

// Registration is one effect owned by a Context. Exactly one of the
// pointer fields is set, matching Kind.
type Registration struct {
	Kind     RegistrationKind
	Playback *Playback
	Binding  *Binding
	Loop     *Loop
}

// Context is the registry of everything one surface instance has started.
// It is created when the surface mounts and reverted when it unmounts; no
// registration outlives it.
type Context struct {
	surface *Surface
	binder  *ScrollBinder
	loops   *LoopScheduler

	playbacks []*Playback
	completed []bool
	regs      map[Token]Registration
	order     []Token
	seq       uint32
	reverted  bool
}

func newContext(s *Surface) *Context {
	rt := s.rt
	c := &Context{
		surface: s,
		binder:  NewScrollBinder(),
		loops:   NewLoopScheduler(rt.cfg.Rand, rt.cfg.BaseStagger),
		regs:    make(map[Token]Registration),
	}
	c.binder.sink = rt
	c.binder.surface = s.name
	return c
}

// Surface returns the surface that owns the context.
func (c *Context) Surface() *Surface { return c.surface }

// Runtime returns the runtime the owning surface belongs to.
func (c *Context) Runtime() *Runtime { return c.surface.rt }

// Viewport returns the runtime's viewport.
func (c *Context) Viewport() *Viewport { return c.surface.rt.viewport }

func (c *Context) register(r Registration) Token {
	c.seq++
	t := newToken(c.surface.id, c.seq)
	c.regs[t] = r
	c.order = append(c.order, t)
	return t
}

func (c *Context) mustBeLive() {
	if c.reverted {
		panic("scrollfx: register on reverted context")
	}
}

// AddTimeline plays tl under this context. A nil timeline is skipped and
// returns a zero token. Panics if the context was reverted.
func (c *Context) AddTimeline(tl *Timeline) (Token, *Playback) {
	c.mustBeLive()
	if tl == nil {
		return 0, nil
	}
	p := Play(tl)
	c.playbacks = append(c.playbacks, p)
	c.completed = append(c.completed, false)
	return c.register(Registration{Kind: RegTimeline, Playback: p}), p
}

// Bind attaches a scroll-bound effect. A binding with a missing anchor is
// skipped and returns a zero token. Panics if the context was reverted.
func (c *Context) Bind(b ScrollBinding, effect Effect) (Token, *Binding) {
	c.mustBeLive()
	bd := c.binder.Bind(b, effect)
	if bd == nil {
		return 0, nil
	}
	return c.register(Registration{Kind: RegBinding, Binding: bd}), bd
}

// AddLoop starts an ambient loop. A loop on a missing element is skipped
// and returns a zero token. Panics if the context was reverted.
func (c *Context) AddLoop(spec AmbientLoopSpec) (Token, *Loop) {
	c.mustBeLive()
	l := c.loops.Start(spec)
	if l == nil {
		return 0, nil
	}
	return c.register(Registration{Kind: RegLoop, Loop: l}), l
}

// Lookup returns the registration for t.
func (c *Context) Lookup(t Token) (Registration, bool) {
	r, ok := c.regs[t]
	return r, ok
}

// Len returns the number of registrations.
func (c *Context) Len() int { return len(c.regs) }

// Tokens returns every token in registration order.
func (c *Context) Tokens() []Token {
	out := make([]Token, len(c.order))
	copy(out, c.order)
	return out
}

// Reverted reports whether Revert has run.
func (c *Context) Reverted() bool { return c.reverted }

// Revert tears down every registration in reverse registration order:
// playbacks are reverted, bindings unbound and loops stopped. A property
// touched by several registrations ends at the value captured by the
// earliest one. Safe to call more than once.
func (c *Context) Revert() {
	if c.reverted {
		return
	}
	c.reverted = true
	for i := len(c.order) - 1; i >= 0; i-- {
		r := c.regs[c.order[i]]
		switch r.Kind {
		case RegTimeline:
			r.Playback.Revert()
		case RegBinding:
			c.binder.Unbind(r.Binding)
		case RegLoop:
			c.loops.Stop(r.Loop)
		}
	}
	c.binder.reset()
	c.loops.reset()
	c.playbacks = nil
	c.completed = nil
	clear(c.regs)
	c.order = nil
}

// update runs one scheduling pass for the context. Stops as soon as the
// context is reverted, even part way through.
func (c *Context) update(vp *Viewport, dt float64, stats *FrameStats) {
	if c.reverted {
		return
	}
	stats.Bindings += c.binder.Len()
	stats.Mutations += c.binder.Update(vp, dt)
	if c.reverted {
		return
	}
	for i, p := range c.playbacks {
		if c.reverted {
			return
		}
		stats.Playbacks++
		stats.Mutations += p.advance(dt)
		if c.reverted {
			return
		}
		if p.Done() && !p.Reversed() && !c.completed[i] {
			c.completed[i] = true
			c.surface.rt.EmitEvent(AnimationEvent{Type: EventTimelineComplete, Surface: c.surface.name})
		}
	}
	stats.Loops += c.loops.Len()
	stats.Mutations += c.loops.Update(dt)
}
