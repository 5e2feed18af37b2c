package quill

import "fmt"

// InteractionState is the dispatcher's current interaction mode. Exactly one
// state is live at a time.
type InteractionState uint8

const (
	// StateUnchanged is only used in a Result to request no transition.
	StateUnchanged InteractionState = iota
	StateIdle
	StateHover
	StateSelecting
	StateDragging
	StateCreating
	StateDrawing
	StateResizing
	StatePanning
)

var stateNames = [...]string{
	"unchanged", "idle", "hover", "selecting", "dragging",
	"creating", "drawing", "resizing", "panning",
}

func (s InteractionState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("InteractionState(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s InteractionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// expectedTransitions is the advisory adjacency table. Transitions outside it
// are logged, never blocked: tools legitimately jump across it.
var expectedTransitions = map[InteractionState][]InteractionState{
	StateIdle:      {StateHover, StateSelecting, StateCreating, StateDrawing, StatePanning},
	StateHover:     {StateIdle, StateSelecting, StateCreating, StateDrawing},
	StateSelecting: {StateIdle, StateDragging, StateResizing},
	StateDragging:  {StateIdle, StateSelecting},
	StateCreating:  {StateIdle},
	StateDrawing:   {StateIdle},
	StatePanning:   {StateIdle},
	StateResizing:  {StateIdle, StateSelecting},
}

// CanTransition reports whether from -> to is in the expected adjacency
// table. Staying in the same state is always expected.
func CanTransition(from, to InteractionState) bool {
	if from == to {
		return true
	}
	for _, s := range expectedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
