// Package pkg provides the core libraries for depends, an interactive
// explorer for .NET dependency graphs.
//
// # Overview
//
// The pkg directory is organized into these areas:
//
//  1. [target] - Resolves a path into one solution or project file
//  2. [analyze] - Builds graphs from solutions, projects, and NuGet packages
//  3. [graph] - Nodes, labeled edges, and the JSON graph format
//  4. [view] - Selection state, projection, and event dispatch for the explorer
//  5. [render/nodelink] - DOT and SVG export
//  6. [integrations] - Cached, retrying registry clients (NuGet)
//  7. [cache], [httputil], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through depends:
//
//	Directory / .sln / *.csproj / --package
//	         ↓
//	    [target] package (pick exactly one file)
//	         ↓
//	    [analyze] package (MSBuild, solution, nuspec, assets)
//	         ↓
//	    [graph] package (validated graph)
//	         ↓
//	    [view] package (select, filter, project)
//	         ↓
//	    explorer TUI, or JSON/DOT/SVG export
//
// # Quick Start
//
//	path, err := target.Resolve(".")
//	if err != nil {
//	    return err
//	}
//	g, err := analyze.New(nil, analyze.Options{}).Analyze(ctx, path, "net8.0")
//	if err != nil {
//	    return err
//	}
//	s := view.NewState(g)
//	p := view.Project(g, s)
//	fmt.Println(p.Packages)
//
// [target]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/target
// [analyze]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/analyze
// [graph]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/graph
// [view]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/view
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/render/nodelink
// [integrations]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/depends/pkg/buildinfo
package pkg
