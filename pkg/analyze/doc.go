// Package analyze builds dependency graphs from .NET build inputs.
//
// # Overview
//
// An [Analyzer] turns one input into a validated [graph.Graph]:
//
//   - a project file (.csproj, .fsproj, .vbproj, ...): its package, project
//     and assembly references, plus the restored closure from
//     obj/project.assets.json when a restore has run
//   - a solution file (.sln): every project it lists
//   - a NuGet package: its dependency tree from the registry
//   - a graph file (.json): a graph previously written by [graph.WriteJSON]
//
// [Builder.Analyze] dispatches on the file extension.
//
// # Target Frameworks
//
// Every operation takes an optional target framework moniker ("net8.0").
// ItemGroups conditioned on a different TargetFramework are skipped, the
// matching restore target is read from the assets file, and the matching
// nuspec dependency group is followed. An empty framework includes
// everything.
//
// # Edge Labels
//
// Edges to packages carry the wanted version as declared by the dependent:
// the Version of a PackageReference or the version range in a nuspec or
// assets file. Node versions are the resolved versions.
//
// # Errors
//
// Failures are returned as [errors.Error] values: ANALYSIS_FAILED for
// unreadable or malformed inputs, PACKAGE_NOT_FOUND and NETWORK_ERROR from
// the registry, UNSUPPORTED for unknown file types and INVALID_GRAPH when
// the result fails validation.
//
// [errors.Error]: github.com/matzehuels/depends/pkg/errors.Error
package analyze
