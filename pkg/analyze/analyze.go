package analyze

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/integrations"
	"github.com/matzehuels/depends/pkg/integrations/nuget"
	"github.com/matzehuels/depends/pkg/observability"
	"github.com/matzehuels/depends/pkg/target"

	deperrors "github.com/matzehuels/depends/pkg/errors"
)

const (
	DefaultMaxDepth = 10 // Default NuGet dependency depth
	DefaultWorkers  = 8  // Default concurrent registry fetches
)

// Analyzer builds dependency graphs. Each method returns a graph that
// passes [graph.Graph.Validate], or an error.
type Analyzer interface {
	AnalyzeProject(ctx context.Context, path, framework string) (*graph.Graph, error)
	AnalyzeSolution(ctx context.Context, path, framework string) (*graph.Graph, error)
	AnalyzePackage(ctx context.Context, name, version, framework string) (*graph.Graph, error)
}

// Options configures a Builder.
type Options struct {
	MaxDepth int                  // NuGet dependency depth (default: 10)
	Workers  int                  // Concurrent registry fetches (default: 8)
	Refresh  bool                 // Bypass cached registry responses
	Logger   func(string, ...any) // Warning callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// PackageSource fetches package manifests from a registry.
// [*nuget.Client] is the production implementation.
type PackageSource interface {
	LatestStable(ctx context.Context, id string, refresh bool) (string, error)
	FetchPackage(ctx context.Context, id, version string, refresh bool) (*nuget.PackageInfo, error)
}

// Builder implements Analyzer. Package analysis requires a PackageSource;
// project and solution analysis never touch the network.
type Builder struct {
	source PackageSource
	opts   Options
}

var _ Analyzer = (*Builder)(nil)

// New creates a Builder. source may be nil when package analysis is not
// needed.
func New(source PackageSource, opts Options) *Builder {
	return &Builder{source: source, opts: opts.WithDefaults()}
}

// Analyze builds the graph for a file, choosing the analysis by extension:
// .sln for solutions, *proj for projects and .json for graph files.
func (b *Builder) Analyze(ctx context.Context, path, framework string) (*graph.Graph, error) {
	switch {
	case target.IsSolutionFile(path):
		return b.AnalyzeSolution(ctx, path, framework)
	case target.IsProjectFile(path):
		return b.AnalyzeProject(ctx, path, framework)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return b.AnalyzeGraphFile(ctx, path)
	default:
		return nil, deperrors.New(deperrors.ErrCodeUnsupported,
			"cannot analyze %s: expected a solution, project or graph file", filepath.Base(path))
	}
}

// AnalyzeProject builds the graph rooted at a project file.
func (b *Builder) AnalyzeProject(ctx context.Context, path, framework string) (*graph.Graph, error) {
	return run(ctx, "project", path, func() (*graph.Graph, error) {
		g := graph.New()
		if _, err := newProjectWalker(g, framework, b.opts.Logger).walk(ctx, path); err != nil {
			return nil, err
		}
		return g, nil
	})
}

// AnalyzeSolution builds the graph rooted at a solution file.
func (b *Builder) AnalyzeSolution(ctx context.Context, path, framework string) (*graph.Graph, error) {
	return run(ctx, "solution", path, func() (*graph.Graph, error) {
		return b.analyzeSolution(ctx, path, framework)
	})
}

// AnalyzePackage builds the dependency tree of a NuGet package. An empty
// version selects the latest stable release.
func (b *Builder) AnalyzePackage(ctx context.Context, name, version, framework string) (*graph.Graph, error) {
	if err := deperrors.ValidateNuGetPackageID(name); err != nil {
		return nil, err
	}
	if err := deperrors.ValidateVersion(version); err != nil {
		return nil, err
	}
	if b.source == nil {
		return nil, deperrors.New(deperrors.ErrCodeInternal, "package analysis requires a package source")
	}
	return run(ctx, "package", name, func() (*graph.Graph, error) {
		return b.analyzePackage(ctx, name, version, framework)
	})
}

// AnalyzeGraphFile loads a precomputed graph.
func (b *Builder) AnalyzeGraphFile(ctx context.Context, path string) (*graph.Graph, error) {
	return run(ctx, "file", path, func() (*graph.Graph, error) {
		g, err := graph.ReadJSONFile(path)
		if err != nil {
			return nil, deperrors.Wrap(deperrors.ErrCodeInvalidGraph, err, "read graph %s", filepath.Base(path))
		}
		return g, nil
	})
}

// run wraps a build with observability hooks and final validation.
func run(ctx context.Context, kind, subject string, build func() (*graph.Graph, error)) (*graph.Graph, error) {
	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, kind, subject)
	start := time.Now()

	g, err := build()
	if err == nil {
		if verr := g.Validate(); verr != nil {
			g, err = nil, deperrors.Wrap(deperrors.ErrCodeInvalidGraph, verr, "%s %s produced an invalid graph", kind, subject)
		}
	}

	var nodes, edges int
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	hooks.OnAnalyzeComplete(ctx, kind, subject, nodes, edges, time.Since(start), err)
	return g, err
}

// link adds an edge unless an identical one exists.
func link(g *graph.Graph, start, end, label string) error {
	if g.HasEdge(start, end, label) {
		return nil
	}
	return g.AddEdge(graph.Edge{Start: start, End: end, Label: label})
}

// registryError maps registry client errors onto error codes.
func registryError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, integrations.ErrNotFound):
		return deperrors.Wrap(deperrors.ErrCodePackageNotFound, err, format, args...)
	case errors.Is(err, integrations.ErrNetwork):
		return deperrors.Wrap(deperrors.ErrCodeNetwork, err, format, args...)
	default:
		return deperrors.Wrap(deperrors.ErrCodeAnalysisFailed, err, format, args...)
	}
}
