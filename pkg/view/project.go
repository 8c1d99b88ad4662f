package view

import (
	"github.com/matzehuels/depends/pkg/graph"
)

// Projection is what the three dependency panes display for the selected
// node.
type Projection struct {
	// Runtime lists assemblies the selected node depends on.
	Runtime []graph.Node
	// Packages lists packages the selected node depends on, rendered with
	// the wanted version.
	Packages []string
	// Reverse lists nodes depending on the selected node, rendered with the
	// version they want.
	Reverse []string
}

// Empty reports whether all three lists are empty.
func (p Projection) Empty() bool {
	return len(p.Runtime) == 0 && len(p.Packages) == 0 && len(p.Reverse) == 0
}

// Project derives the panes for the node selected in s. Lists follow edge
// insertion order. With nothing selected all three lists are empty.
func Project(g *graph.Graph, s *State) Projection {
	p := Projection{
		Runtime:  []graph.Node{},
		Packages: []string{},
		Reverse:  []string{},
	}
	sel, ok := s.Selected()
	if !ok {
		return p
	}

	for _, e := range g.Outgoing(sel.ID) {
		end := mustNode(g, e.End)
		switch end.Kind {
		case graph.KindAssembly:
			p.Runtime = append(p.Runtime, end)
		case graph.KindPackage:
			p.Packages = append(p.Packages, Wanted(end.ID, e.Label))
		case graph.KindProject, graph.KindSolution:
		}
	}
	for _, e := range g.Incoming(sel.ID) {
		p.Reverse = append(p.Reverse, Wanted(e.Start, e.Label))
	}
	return p
}

// Wanted renders a node name with the version an edge asks for:
// "Name (Wanted: 1.0.0)", or just "Name" without a label.
func Wanted(name, label string) string {
	if label == "" {
		return name
	}
	return name + " (Wanted: " + label + ")"
}

// mustNode looks up an edge endpoint. Graphs reject dangling edges on
// construction, so a miss is a broken invariant.
func mustNode(g *graph.Graph, id string) graph.Node {
	n, ok := g.Node(id)
	if !ok {
		panic("view: edge references unknown node " + id)
	}
	return n
}
