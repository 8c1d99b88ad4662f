package view

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/depends/pkg/graph"
)

// State is the selection and filter state over a graph.
//
// Invariants, for every reachable state:
//   - the listed nodes are the graph's nodes sorted by ID (stable),
//     without assembly nodes when assemblies are hidden;
//   - 0 <= SelectedIndex() < Len() whenever Len() > 0.
//
// State is not safe for concurrent use; the interaction loop owns it.
type State struct {
	graph             *graph.Graph
	ordered           []graph.Node
	assembliesVisible bool
	selected          int
}

// NewState returns the initial state for g: every node listed,
// assemblies visible, first node selected.
func NewState(g *graph.Graph) *State {
	s := &State{graph: g, assembliesVisible: true}
	s.ordered = s.order()
	return s
}

func (s *State) order() []graph.Node {
	nodes := s.graph.Nodes()
	if !s.assembliesVisible {
		nodes = slices.DeleteFunc(nodes, graph.Node.IsAssembly)
	}
	slices.SortStableFunc(nodes, func(a, b graph.Node) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return nodes
}

// Graph returns the graph the state navigates.
func (s *State) Graph() *graph.Graph { return s.graph }

// Nodes returns the listed nodes. The slice must not be modified.
func (s *State) Nodes() []graph.Node { return s.ordered }

// Len returns the number of listed nodes.
func (s *State) Len() int { return len(s.ordered) }

// AssembliesVisible reports whether assembly nodes are listed.
func (s *State) AssembliesVisible() bool { return s.assembliesVisible }

// SelectedIndex returns the index of the selected node. It is meaningless
// when Len() == 0.
func (s *State) SelectedIndex() int { return s.selected }

// Selected returns the selected node, or false when nothing is listed.
func (s *State) Selected() (graph.Node, bool) {
	if len(s.ordered) == 0 {
		return graph.Node{}, false
	}
	return s.ordered[s.selected], true
}

// SelectIndex selects the node at index i.
//
// An out-of-range index means the caller is broken, not that the operator
// did something unexpected, so SelectIndex panics.
func (s *State) SelectIndex(i int) {
	if i < 0 || i >= len(s.ordered) {
		panic(fmt.Sprintf("view: select index %d out of range [0, %d)", i, len(s.ordered)))
	}
	s.selected = i
}

// ToggleAssemblies flips assembly visibility, rebuilds the node list and
// selects the first entry.
func (s *State) ToggleAssemblies() {
	s.assembliesVisible = !s.assembliesVisible
	s.ordered = s.order()
	s.selected = 0
}

// IndexOf returns the list index of the node with the given ID, or -1.
func (s *State) IndexOf(id string) int {
	return slices.IndexFunc(s.ordered, func(n graph.Node) bool { return n.ID == id })
}
