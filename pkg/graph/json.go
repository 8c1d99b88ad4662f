package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// document is the JSON representation of a Graph.
type document struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Version string `json:"version,omitempty"`
}

type jsonEdge struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label,omitempty"`
}

// WriteJSON writes g as indented JSON to w. Nodes and edges keep insertion
// order so output is deterministic.
func WriteJSON(g *Graph, w io.Writer) error {
	doc := document{
		Nodes: make([]jsonNode, 0, g.NodeCount()),
		Edges: make([]jsonEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, jsonNode{ID: n.ID, Kind: n.Kind.String(), Version: n.Version})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, jsonEdge{Start: e.Start, End: e.End, Label: e.Label})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON graph from r.
//
// Each node must have "id" and "kind" fields; kind is one of project,
// package, assembly or solution. Each edge must have "start" and "end"
// fields that reference node IDs; "label" is optional.
//
// ReadJSON returns an error if the JSON is malformed, a kind is unknown, a
// node ID is duplicated or an edge references an unknown node. Errors are
// wrapped with the offending node or edge; use errors.Is to check for the
// sentinel errors of this package. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New()
	for _, n := range doc.Nodes {
		kind, err := ParseKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if err := g.AddNode(Node{ID: n.ID, Kind: kind, Version: n.Version}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(Edge{Start: e.Start, End: e.End, Label: e.Label}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.Start, e.End, err)
		}
	}
	return g, nil
}

// ReadJSONFile reads a JSON graph file.
func ReadJSONFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSONFile writes g to a JSON file, creating or truncating it.
func WriteJSONFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
