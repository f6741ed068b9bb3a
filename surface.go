package scrollfx

import "fmt"

// SurfaceState is a step of a surface's mount lifecycle.
type SurfaceState uint8

const (
	Unmounted SurfaceState = iota
	Mounting
	Active
	Unmounting
)

// String returns the state name.
func (s SurfaceState) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Active:
		return "active"
	case Unmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// Surface is one page (or overlay) whose effects live and die together.
// Every Mount gets a fresh Context; Unmount reverts it synchronously.
type Surface struct {
	id    uint32
	name  string
	rt    *Runtime
	state SurfaceState
	ctx   *Context
}

// ID returns the surface's runtime-unique ID.
func (s *Surface) ID() uint32 { return s.id }

// Name returns the surface name.
func (s *Surface) Name() string { return s.name }

// State returns the current lifecycle state.
func (s *Surface) State() SurfaceState { return s.state }

// Context returns the context of the current mount, or nil when unmounted.
func (s *Surface) Context() *Context { return s.ctx }

// Runtime returns the runtime the surface belongs to.
func (s *Surface) Runtime() *Runtime { return s.rt }

// Mount creates a fresh context, runs setup against it and makes the
// surface Active. setup may be nil. Panics unless the surface is Unmounted.
func (s *Surface) Mount(setup func(*Context)) {
	if s.state != Unmounted {
		panic(fmt.Sprintf("scrollfx: mount surface %q in state %s", s.name, s.state))
	}
	s.state = Mounting
	s.ctx = newContext(s)
	if setup != nil {
		setup(s.ctx)
	}
	if s.state != Mounting {
		// setup unmounted us
		return
	}
	s.state = Active
	s.rt.activate(s)
	s.rt.debugf("mount %q: %d registrations", s.name, s.ctx.Len())
	s.rt.EmitEvent(AnimationEvent{Type: EventSurfaceMounted, Surface: s.name})
}

// Unmount reverts every effect registered under the current context and
// discards it. After Unmount returns nothing registered by this mount can
// write to an element. Calling it on an unmounted surface is a no-op.
func (s *Surface) Unmount() {
	if s.state != Active && s.state != Mounting {
		return
	}
	s.state = Unmounting
	s.rt.deactivate(s)
	n := s.ctx.Len()
	s.ctx.Revert()
	s.ctx = nil
	s.state = Unmounted
	s.rt.debugf("unmount %q: reverted %d registrations", s.name, n)
	s.rt.EmitEvent(AnimationEvent{Type: EventSurfaceUnmounted, Surface: s.name})
}
