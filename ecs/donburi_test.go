package ecs

import (
	"testing"

	"github.com/phanxgames/quill"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []quill.EditorEvent
	EditorEventType.Subscribe(world, func(w donburi.World, e quill.EditorEvent) {
		received = append(received, e)
	})

	store.EmitEvent(quill.EditorEvent{
		Type: quill.EditorStateChanged,
		From: quill.StateIdle,
		To:   quill.StateSelecting,
	})
	store.EmitEvent(quill.EditorEvent{
		Type:  quill.EditorShapesMoved,
		IDs:   []string{"a", "b"},
		Delta: quill.Vec2{X: 10, Y: 5},
	})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("expected no events before processing, got %d", len(received))
	}
	EditorEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != quill.EditorStateChanged || e0.From != quill.StateIdle || e0.To != quill.StateSelecting {
		t.Errorf("event 0: %+v", e0)
	}
	e1 := received[1]
	if e1.Type != quill.EditorShapesMoved || len(e1.IDs) != 2 || e1.Delta.X != 10 {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_CopiesIDs(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var got []string
	EditorEventType.Subscribe(world, func(w donburi.World, e quill.EditorEvent) {
		got = e.IDs
	})

	ids := []string{"a"}
	store.EmitEvent(quill.EditorEvent{Type: quill.EditorSelectionChanged, IDs: ids})
	ids[0] = "mutated"
	EditorEventType.ProcessEvents(world)

	if len(got) != 1 || got[0] != "a" {
		t.Errorf("IDs = %v, want [a]", got)
	}
}

func TestDonburiStore_DropsRenderRequests(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want int
	}{
		{"default", nil, 0},
		{"with renders", []Option{WithRenderEvents()}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := donburi.NewWorld()
			store := NewDonburiStore(world, tt.opts...)
			var count int
			EditorEventType.Subscribe(world, func(w donburi.World, e quill.EditorEvent) {
				count++
			})
			store.EmitEvent(quill.EditorEvent{Type: quill.EditorRenderRequested})
			EditorEventType.ProcessEvents(world)
			if count != tt.want {
				t.Errorf("count = %d, want %d", count, tt.want)
			}
		})
	}
}

func TestDonburiStore_ImplementsEventStore(t *testing.T) {
	world := donburi.NewWorld()
	var store quill.EventStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_EditorIntegration(t *testing.T) {
	world := donburi.NewWorld()
	shapes := quill.NewMemoryStore(&quill.Shape{ID: "a", W: 100, H: 100})
	ed := quill.NewEditor(quill.DefaultConfig(), shapes, nil)
	ed.SetEventStore(NewDonburiStore(world))

	var received []quill.EditorEvent
	EditorEventType.Subscribe(world, func(w donburi.World, e quill.EditorEvent) {
		received = append(received, e)
	})

	ed.Dispatch(quill.PointerDown(50, 50, quill.MouseButtonLeft, 0))
	ed.Dispatch(quill.PointerUp(50, 50, quill.MouseButtonLeft, 0))
	events.ProcessAllEvents(world)

	var selected, transitions int
	for _, e := range received {
		switch e.Type {
		case quill.EditorSelectionChanged:
			selected++
			if len(e.IDs) != 1 || e.IDs[0] != "a" {
				t.Errorf("selection IDs = %v, want [a]", e.IDs)
			}
		case quill.EditorStateChanged:
			transitions++
		case quill.EditorRenderRequested:
			t.Error("render requests should be dropped by default")
		}
	}
	if selected != 1 {
		t.Errorf("selection events = %d, want 1", selected)
	}
	if transitions != 2 {
		t.Errorf("state events = %d, want 2", transitions)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	EditorEventType.Subscribe(world, func(w donburi.World, e quill.EditorEvent) {
		count1++
	})
	EditorEventType.Subscribe(world, func(w donburi.World, e quill.EditorEvent) {
		count2++
	})

	store.EmitEvent(quill.EditorEvent{Type: quill.EditorToolChanged, Tool: quill.ToolHand})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
