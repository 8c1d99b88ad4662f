package analyze

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/integrations/nuget"
)

type packageJob struct {
	id      string
	version string
}

type packageResult struct {
	info *nuget.PackageInfo
	err  error
}

// packageCrawler walks a NuGet dependency tree breadth-first. Each level
// is fetched concurrently; results are merged in level order so the graph
// is identical from run to run.
type packageCrawler struct {
	source    PackageSource
	framework string
	opts      Options

	g        *graph.Graph
	packages *packageIndex
}

func (b *Builder) analyzePackage(ctx context.Context, name, version, framework string) (*graph.Graph, error) {
	if version == "" {
		latest, err := b.source.LatestStable(ctx, name, b.opts.Refresh)
		if err != nil {
			return nil, registryError(err, "resolve latest version of %s", name)
		}
		version = latest
	}

	g := graph.New()
	c := &packageCrawler{
		source:    b.source,
		framework: framework,
		opts:      b.opts,
		g:         g,
		packages:  newPackageIndex(g),
	}
	if err := c.run(ctx, name, version); err != nil {
		return nil, err
	}
	return c.g, nil
}

func (c *packageCrawler) run(ctx context.Context, root, version string) error {
	level := []packageJob{{id: root, version: version}}
	visited := map[string]bool{strings.ToLower(root): true}

	for depth := 0; len(level) > 0; depth++ {
		results := c.fetchLevel(ctx, level)
		if err := ctx.Err(); err != nil {
			return err
		}

		var next []packageJob
		for i, r := range results {
			job := level[i]
			if r.err != nil {
				if depth == 0 {
					return registryError(r.err, "fetch %s %s", job.id, job.version)
				}
				c.opts.Logger("fetch failed: %s %s: %v", job.id, job.version, r.err)
				continue
			}

			// The root is spelled as the registry spells it.
			id := job.id
			if depth == 0 && r.info.ID != "" {
				id = r.info.ID
			}
			from, err := c.packages.ensure(id, job.version)
			if err != nil {
				return err
			}

			for _, dep := range r.info.DependenciesFor(c.framework) {
				lower := nuget.LowerBound(dep.Range)
				to, err := c.packages.ensure(dep.ID, lower)
				if err != nil {
					return err
				}
				if err := link(c.g, from, to, dep.Range); err != nil {
					return err
				}

				key := strings.ToLower(dep.ID)
				if visited[key] || depth+1 >= c.opts.MaxDepth {
					continue
				}
				visited[key] = true
				if lower == "" {
					c.opts.Logger("skipping %s: range %q has no lower bound", dep.ID, dep.Range)
					continue
				}
				next = append(next, packageJob{id: dep.ID, version: lower})
			}

			for _, name := range r.info.AssembliesFor(c.framework) {
				asm, err := c.g.EnsureNode(graph.Node{ID: assemblyID(name), Kind: graph.KindAssembly})
				if err != nil {
					return err
				}
				if err := link(c.g, from, asm.ID, ""); err != nil {
					return err
				}
			}
		}
		level = next
	}
	return nil
}

// fetchLevel fetches every job with a bounded worker pool. results[i]
// belongs to jobs[i].
func (c *packageCrawler) fetchLevel(ctx context.Context, jobs []packageJob) []packageResult {
	results := make([]packageResult, len(jobs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for range min(c.opts.Workers, len(jobs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := ctx.Err(); err != nil {
					results[i] = packageResult{err: err}
					continue
				}
				info, err := c.source.FetchPackage(ctx, jobs[i].id, jobs[i].version, c.opts.Refresh)
				results[i] = packageResult{info: info, err: err}
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}

// packageIndex adds package nodes to a graph. NuGet compares package IDs
// case-insensitively, so the first spelling seen becomes the node ID.
type packageIndex struct {
	g     *graph.Graph
	names map[string]string // lowercased ID -> node ID
}

func newPackageIndex(g *graph.Graph) *packageIndex {
	return &packageIndex{g: g, names: make(map[string]string)}
}

// lookup returns the node ID of a package already in the graph.
func (x *packageIndex) lookup(id string) (string, bool) {
	existing, ok := x.names[strings.ToLower(id)]
	return existing, ok
}

// ensure returns the node ID for a package, adding the node the first
// time the package is seen.
func (x *packageIndex) ensure(id, version string) (string, error) {
	if existing, ok := x.lookup(id); ok {
		return existing, nil
	}
	n, err := x.g.EnsureNode(graph.Node{ID: id, Kind: graph.KindPackage, Version: version})
	if err != nil {
		return "", err
	}
	x.names[strings.ToLower(id)] = n.ID
	return n.ID, nil
}
