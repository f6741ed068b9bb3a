package scrollfx

// EventSink receives lifecycle events from the runtime. When set on a
// Runtime, surface, binding and timeline events are forwarded to it.
type EventSink interface {
	EmitEvent(event AnimationEvent)
}

// AnimationEvent carries lifecycle data for an EventSink.
type AnimationEvent struct {
	Type EventType
	// Surface is the name of the surface the event belongs to.
	Surface string
	// Element is the binding anchor for binding events and nil otherwise.
	Element *Element
	// Frame is the runtime frame counter when the event fired.
	Frame uint64
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(AnimationEvent)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event AnimationEvent) {
	f(event)
}
