package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownStartNode is returned by [Graph.AddEdge] when the Start node
	// does not exist.
	ErrUnknownStartNode = errors.New("unknown start node")

	// ErrUnknownEndNode is returned by [Graph.AddEdge] when the End node does
	// not exist.
	ErrUnknownEndNode = errors.New("unknown end node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrUnknownKind is returned by [ParseKind] for unrecognized kind names.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrKindMismatch is returned by [Graph.EnsureNode] when the ID is taken
	// by a node of another kind.
	ErrKindMismatch = errors.New("node ID taken by another kind")
)

// Kind discriminates the node variants. The set is closed; switches over
// Kind are expected to be exhaustive.
type Kind int

const (
	// KindProject is a build project (csproj, fsproj, vbproj).
	KindProject Kind = iota
	// KindPackage is a package reference resolved from a registry.
	KindPackage
	// KindAssembly is a compiled assembly a node depends on at runtime.
	KindAssembly
	// KindSolution groups projects.
	KindSolution
)

var kindNames = [...]string{
	KindProject:  "project",
	KindPackage:  "package",
	KindAssembly: "assembly",
	KindSolution: "solution",
}

// String returns the lowercase kind name used in serialized graphs.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Node is a vertex in the dependency graph. Identity is the ID.
type Node struct {
	ID      string // Unique identifier, also the display name
	Kind    Kind
	Version string // Resolved version for packages and assemblies (optional)
}

// IsAssembly reports whether n is an assembly node.
func (n Node) IsAssembly() bool { return n.Kind == KindAssembly }

// IsPackage reports whether n is a package node.
func (n Node) IsPackage() bool { return n.Kind == KindPackage }

// String returns the node ID.
func (n Node) String() string { return n.ID }

// Edge is a directed relationship from Start to End. Label, when non-empty,
// is the version Start wants of End.
type Edge struct {
	Start string
	End   string
	Label string
}

// Graph is an insertion-ordered set of nodes and labeled directed edges.
//
// The zero value is not usable - use New to create a Graph.
type Graph struct {
	nodes    []Node
	index    map[string]int
	edges    []Edge
	outgoing map[string][]int // nodeID -> edge indices with Start == nodeID
	incoming map[string][]int // nodeID -> edge indices with End == nodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]int),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID if the ID is empty or
// ErrDuplicateNodeID if the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// EnsureNode adds n unless a node with the same ID exists, and returns the
// stored node. Builders use it to merge references discovered repeatedly.
// Returns ErrKindMismatch if the existing node has a different Kind.
func (g *Graph) EnsureNode(n Node) (Node, error) {
	if existing, ok := g.Node(n.ID); ok {
		if existing.Kind != n.Kind {
			return Node{}, fmt.Errorf("%w: %q is a %s, not a %s", ErrKindMismatch, n.ID, existing.Kind, n.Kind)
		}
		return existing, nil
	}
	if err := g.AddNode(n); err != nil {
		return Node{}, err
	}
	return n, nil
}

// RenameNode changes a node's ID and rewrites the edges that reference it.
// Returns ErrInvalidNodeID if to is empty or ErrDuplicateNodeID if to is
// taken.
func (g *Graph) RenameNode(from, to string) error {
	i, ok := g.index[from]
	if !ok {
		return fmt.Errorf("rename %q: node not found", from)
	}
	if from == to {
		return nil
	}
	if to == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[to]; exists {
		return ErrDuplicateNodeID
	}

	g.nodes[i].ID = to
	delete(g.index, from)
	g.index[to] = i

	for _, j := range g.outgoing[from] {
		g.edges[j].Start = to
	}
	for _, j := range g.incoming[from] {
		g.edges[j].End = to
	}
	if out, ok := g.outgoing[from]; ok {
		g.outgoing[to] = out
		delete(g.outgoing, from)
	}
	if in, ok := g.incoming[from]; ok {
		g.incoming[to] = in
		delete(g.incoming, from)
	}
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Returns
// ErrUnknownStartNode or ErrUnknownEndNode if an endpoint is missing.
// Parallel edges are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.Start]; !ok {
		return ErrUnknownStartNode
	}
	if _, ok := g.index[e.End]; !ok {
		return ErrUnknownEndNode
	}
	i := len(g.edges)
	g.edges = append(g.edges, e)
	g.outgoing[e.Start] = append(g.outgoing[e.Start], i)
	g.incoming[e.End] = append(g.incoming[e.End], i)
	return nil
}

// HasEdge reports whether an edge start->end with the given label exists.
func (g *Graph) HasEdge(start, end, label string) bool {
	for _, i := range g.outgoing[start] {
		if e := g.edges[i]; e.End == end && e.Label == label {
			return true
		}
	}
	return false
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns a copy of all nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Outgoing returns edges with Start == id, in insertion order.
func (g *Graph) Outgoing(id string) []Edge { return g.collect(g.outgoing[id]) }

// Incoming returns edges with End == id, in insertion order.
func (g *Graph) Incoming(id string) []Edge { return g.collect(g.incoming[id]) }

func (g *Graph) collect(idx []int) []Edge {
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// CountKind returns the number of nodes of kind k.
func (g *Graph) CountKind(k Kind) int {
	n := 0
	for _, node := range g.nodes {
		if node.Kind == k {
			n++
		}
	}
	return n
}

// Validate checks that every edge endpoint is a node of the graph.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.index[e.Start]; !ok {
			return fmt.Errorf("%w: %s->%s: start", ErrInvalidEdgeEndpoint, e.Start, e.End)
		}
		if _, ok := g.index[e.End]; !ok {
			return fmt.Errorf("%w: %s->%s: end", ErrInvalidEdgeEndpoint, e.Start, e.End)
		}
	}
	return nil
}

// Filter returns a new graph with the nodes for which keep returns true and
// the edges between them.
func (g *Graph) Filter(keep func(Node) bool) *Graph {
	out := New()
	for _, n := range g.nodes {
		if keep(n) {
			_ = out.AddNode(n)
		}
	}
	for _, e := range g.edges {
		_ = out.AddEdge(e)
	}
	return out
}
