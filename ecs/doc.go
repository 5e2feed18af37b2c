// Package ecs provides ECS adapters for quill's editor event stream.
//
// The primary adapter is [NewDonburiStore], which bridges quill editor events
// (state changes, selection changes, created, moved, resized and deleted
// shapes) into a [Donburi] world as typed events. Subscribe to
// [EditorEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	editor.SetEventStore(store)
//
// Render requests are high-frequency and carry no data, so the store drops
// them unless created with [WithRenderEvents].
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
