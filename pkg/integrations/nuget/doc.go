// Package nuget provides an HTTP client for the NuGet v3 flat container.
//
// # Overview
//
// The flat container (https://api.nuget.org/v3-flatcontainer) serves two
// documents per package that are enough to walk a dependency tree:
//
//   - {id}/index.json: every published version
//   - {id}/{version}/{id}.nuspec: the package manifest with dependency groups
//
// Package IDs and versions are lowercased in both URLs.
//
// # Usage
//
//	client := nuget.NewClient(c, "", 24*time.Hour)
//
//	version, err := client.LatestStable(ctx, "Serilog", false)
//	pkg, err := client.FetchPackage(ctx, "Serilog", version, false)
//	for _, dep := range pkg.DependenciesFor("net8.0") {
//	    fmt.Println(dep.ID, dep.Range)
//	}
//
// # Dependency Groups
//
// A nuspec lists dependencies per target framework. [PackageInfo.DependenciesFor]
// picks the group matching the requested framework exactly, falls back to the
// framework-agnostic group, and returns every group's dependencies when no
// framework is requested.
//
// # Version Ranges
//
// Dependencies declare NuGet version ranges ("1.0", "[1.0,2.0)", "[1.0]").
// [LowerBound] resolves a range to the version a restore would pick when
// floating is off: its minimum.
package nuget
