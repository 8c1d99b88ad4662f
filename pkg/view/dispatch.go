package view

// EventKind tags an input event.
type EventKind int

const (
	// EventQuit asks the loop to stop.
	EventQuit EventKind = iota
	// EventToggleAssemblies flips assembly visibility.
	EventToggleAssemblies
	// EventSelect moves the selection to Event.Index.
	EventSelect
)

// Event is an input event already translated from raw keys.
type Event struct {
	Kind  EventKind
	Index int // for EventSelect
}

// Quit returns a quit event.
func Quit() Event { return Event{Kind: EventQuit} }

// ToggleAssemblies returns a visibility toggle event.
func ToggleAssemblies() Event { return Event{Kind: EventToggleAssemblies} }

// Select returns a selection event for list index i.
func Select(i int) Event { return Event{Kind: EventSelect, Index: i} }

// Render tells the terminal layer what to redraw after a transition.
type Render int

const (
	// RenderNone means the event was not handled; the widget's default
	// input handling applies.
	RenderNone Render = iota
	// RenderPanes redraws the three dependency panes. The node list redraws
	// itself as part of its own navigation.
	RenderPanes
	// RenderAll redraws the node list and the three panes.
	RenderAll
	// RenderQuit stops the loop.
	RenderQuit
)

func (r Render) String() string {
	switch r {
	case RenderNone:
		return "none"
	case RenderPanes:
		return "panes"
	case RenderAll:
		return "all"
	case RenderQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Transition applies an event to the state.
type Transition func(*State, Event) Render

// Dispatcher maps event kinds to transitions.
type Dispatcher struct {
	state *State
	table map[EventKind]Transition
}

// NewDispatcher returns a dispatcher over s with the standard transitions.
func NewDispatcher(s *State) *Dispatcher {
	return &Dispatcher{
		state: s,
		table: map[EventKind]Transition{
			EventQuit: func(*State, Event) Render {
				return RenderQuit
			},
			EventToggleAssemblies: func(s *State, _ Event) Render {
				s.ToggleAssemblies()
				return RenderAll
			},
			EventSelect: func(s *State, e Event) Render {
				s.SelectIndex(e.Index)
				return RenderPanes
			},
		},
	}
}

// State returns the state the dispatcher mutates.
func (d *Dispatcher) State() *State { return d.state }

// Dispatch runs the transition registered for e.Kind. Events without a
// transition yield RenderNone and leave the state untouched.
func (d *Dispatcher) Dispatch(e Event) Render {
	t, ok := d.table[e.Kind]
	if !ok {
		return RenderNone
	}
	return t(d.state, e)
}

// Projection projects the current state.
func (d *Dispatcher) Projection() Projection {
	return Project(d.state.Graph(), d.state)
}
