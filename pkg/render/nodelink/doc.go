// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as shapes connected by arrows. It backs `depends export`
// for the dot and svg formats.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Node Styles
//
// Each node kind gets its own shape so the four kinds stay apart in a
// dense diagram:
//
//   - solution: folder, blue fill
//   - project: box, green fill
//   - package: rounded box, white fill
//   - assembly: note, grey fill
//
// Edges carrying a wanted version are labeled with it.
//
// # Options
//
//   - Detailed: When true, node labels include the resolved version.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
