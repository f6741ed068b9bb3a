package ecs

import (
	"github.com/phanxgames/scrollfx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEventType is the Donburi event type for scrollfx lifecycle events.
var AnimationEventType = events.NewEventType[scrollfx.AnimationEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on AnimationEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) scrollfx.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event scrollfx.AnimationEvent) {
	AnimationEventType.Publish(s.world, event)
}
