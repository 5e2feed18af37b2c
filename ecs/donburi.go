package ecs

import (
	"github.com/phanxgames/quill"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditorEventType is the Donburi event type for quill editor events.
var EditorEventType = events.NewEventType[quill.EditorEvent]()

// Option configures a Donburi store.
type Option func(*donburiStore)

// WithRenderEvents forwards EditorRenderRequested events too.
func WithRenderEvents() Option {
	return func(s *donburiStore) { s.renders = true }
}

type donburiStore struct {
	world   donburi.World
	renders bool
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Editor events are published to EditorEventType and can be consumed with
// Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World, opts ...Option) quill.EventStore {
	s := &donburiStore{world: world}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *donburiStore) EmitEvent(event quill.EditorEvent) {
	if event.Type == quill.EditorRenderRequested && !s.renders {
		return
	}
	// Subscribers run at ProcessEvents time; copy the ids.
	if event.IDs != nil {
		event.IDs = append([]string(nil), event.IDs...)
	}
	EditorEventType.Publish(s.world, event)
}
