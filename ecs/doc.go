// Package ecs bridges scrollfx lifecycle events into an ECS world.
//
// [NewDonburiSink] returns a [scrollfx.EventSink] that publishes every
// [scrollfx.AnimationEvent] to a [Donburi] world as a typed event.
// Subscribe to [AnimationEventType] in your ECS systems to receive them.
//
// Usage:
//
//	rt.SetEventSink(ecs.NewDonburiSink(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
