// Package graph provides the read-only dependency graph explored by depends.
//
// # Overview
//
// A [Graph] holds nodes of a closed set of kinds ([KindProject],
// [KindPackage], [KindAssembly], [KindSolution]) and directed edges between
// them. An edge may carry a label; for package references the label is the
// version the referencing node asked for (the "wanted" version).
//
// Graphs are produced once per session by a builder (see package analyze)
// and never modified afterwards. Nodes and edges are kept in insertion order
// so every query is reproducible for the same input.
//
// # Basic Usage
//
//	g := graph.New()
//	g.AddNode(graph.Node{ID: "App", Kind: graph.KindProject})
//	g.AddNode(graph.Node{ID: "Serilog", Kind: graph.KindPackage})
//	g.AddEdge(graph.Edge{Start: "App", End: "Serilog", Label: "3.1.1"})
//
// [Graph.AddEdge] rejects edges whose endpoints are unknown, so every graph
// built through this API satisfies the endpoint invariant. [Graph.Validate]
// re-checks it for graphs assembled elsewhere.
//
// # Serialization
//
// [WriteJSON] and [ReadJSON] round-trip a graph through a small JSON format:
//
//	{
//	  "nodes": [{"id": "App", "kind": "project"}],
//	  "edges": [{"start": "App", "end": "Serilog", "label": "3.1.1"}]
//	}
//
// [ToDOT] renders the graph for Graphviz.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it is only read,
// and concurrent reads are safe.
package graph
