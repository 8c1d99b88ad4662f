package nuget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depends/pkg/cache"
	"github.com/matzehuels/depends/pkg/integrations"
)

// DefaultSource is the public NuGet flat container endpoint.
const DefaultSource = "https://api.nuget.org/v3-flatcontainer"

// PackageInfo holds the parts of a nuspec the dependency walk needs.
type PackageInfo struct {
	ID                  string              `json:"id"`
	Version             string              `json:"version"`
	Description         string              `json:"description,omitempty"`
	Groups              []DependencyGroup   `json:"groups,omitempty"`
	FrameworkAssemblies []FrameworkAssembly `json:"framework_assemblies,omitempty"`
}

// DependencyGroup is the set of dependencies declared for one target
// framework. An empty TargetFramework applies to every framework.
type DependencyGroup struct {
	TargetFramework string       `json:"target_framework,omitempty"`
	Dependencies    []Dependency `json:"dependencies,omitempty"`
}

// Dependency is a package reference with a NuGet version range.
type Dependency struct {
	ID    string `json:"id"`
	Range string `json:"range,omitempty"`
}

// FrameworkAssembly is a reference to an assembly shipped with the framework
// (for example System.Net.Http on .NET Framework).
type FrameworkAssembly struct {
	Name            string `json:"name"`
	TargetFramework string `json:"target_framework,omitempty"`
}

// DependenciesFor returns the dependencies that apply to framework.
//
// A group naming the same framework wins, long monikers such as
// ".NETStandard2.0" matching their short form; otherwise the
// framework-agnostic group is used. With an empty framework every group's
// dependencies are returned, deduplicated by ID in declaration order.
func (p *PackageInfo) DependenciesFor(framework string) []Dependency {
	if framework == "" {
		var out []Dependency
		seen := make(map[string]bool)
		for _, g := range p.Groups {
			for _, d := range g.Dependencies {
				key := strings.ToLower(d.ID)
				if !seen[key] {
					seen[key] = true
					out = append(out, d)
				}
			}
		}
		return out
	}

	var agnostic *DependencyGroup
	for i := range p.Groups {
		g := &p.Groups[i]
		if g.TargetFramework != "" && SameFramework(g.TargetFramework, framework) {
			return g.Dependencies
		}
		if g.TargetFramework == "" && agnostic == nil {
			agnostic = g
		}
	}
	if agnostic != nil {
		return agnostic.Dependencies
	}
	return nil
}

// AssembliesFor returns the framework assemblies that apply to framework.
// Entries without a target framework apply everywhere.
func (p *PackageInfo) AssembliesFor(framework string) []string {
	var out []string
	for _, fa := range p.FrameworkAssemblies {
		if framework == "" || fa.TargetFramework == "" || SameFramework(fa.TargetFramework, framework) {
			out = append(out, fa.Name)
		}
	}
	return out
}

// Client provides access to a NuGet v3 flat container.
// It handles HTTP requests with caching and automatic retries.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a NuGet client backed by c. An empty source selects
// [DefaultSource]; responses are cached for cacheTTL.
func NewClient(c cache.Cache, source string, cacheTTL time.Duration) *Client {
	if source == "" {
		source = DefaultSource
	}
	return &Client{
		Client:  integrations.NewClient(c, "nuget:", cacheTTL, nil),
		baseURL: strings.TrimSuffix(source, "/"),
	}
}

// FetchVersions returns every published version of id in the order the
// registry lists them.
//
// Returns [integrations.ErrNotFound] if the package does not exist.
func (c *Client) FetchVersions(ctx context.Context, id string, refresh bool) ([]string, error) {
	id = integrations.NormalizePkgName(id)
	key := cache.Key("index", id)

	var versions []string
	err := c.Cached(ctx, key, refresh, &versions, func() error {
		var resp indexResponse
		url := fmt.Sprintf("%s/%s/index.json", c.baseURL, integrations.URLEncode(id))
		if err := c.Get(ctx, url, &resp); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: nuget package %s", err, id)
			}
			return err
		}
		versions = resp.Versions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// LatestStable returns the highest version of id without a prerelease tag.
// If every version is a prerelease, the highest prerelease is returned.
func (c *Client) LatestStable(ctx context.Context, id string, refresh bool) (string, error) {
	versions, err := c.FetchVersions(ctx, id, refresh)
	if err != nil {
		return "", err
	}
	v, ok := Latest(versions)
	if !ok {
		return "", fmt.Errorf("%w: nuget package %s has no versions", integrations.ErrNotFound, id)
	}
	return v, nil
}

// FetchPackage retrieves and parses the nuspec for id at version.
//
// Returns [integrations.ErrNotFound] if the package or version does not exist
// and [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchPackage(ctx context.Context, id, version string, refresh bool) (*PackageInfo, error) {
	lid := integrations.NormalizePkgName(id)
	lver := strings.ToLower(strings.TrimSpace(version))
	key := cache.Key("nuspec", lid, lver)

	var info PackageInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		url := fmt.Sprintf("%s/%s/%s/%s.nuspec", c.baseURL,
			integrations.URLEncode(lid), integrations.URLEncode(lver), integrations.URLEncode(lid))

		var spec nuspec
		if err := c.GetXML(ctx, url, &spec); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: nuget package %s %s", err, id, version)
			}
			return err
		}
		info = spec.toInfo()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

type indexResponse struct {
	Versions []string `json:"versions"`
}

type nuspec struct {
	Metadata struct {
		ID           string `xml:"id"`
		Version      string `xml:"version"`
		Description  string `xml:"description"`
		Dependencies struct {
			Groups []struct {
				TargetFramework string          `xml:"targetFramework,attr"`
				Dependencies    []nuspecDepends `xml:"dependency"`
			} `xml:"group"`
			Flat []nuspecDepends `xml:"dependency"`
		} `xml:"dependencies"`
		FrameworkAssemblies struct {
			Items []struct {
				Name            string `xml:"assemblyName,attr"`
				TargetFramework string `xml:"targetFramework,attr"`
			} `xml:"frameworkAssembly"`
		} `xml:"frameworkAssemblies"`
	} `xml:"metadata"`
}

type nuspecDepends struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

func (n *nuspec) toInfo() PackageInfo {
	m := n.Metadata
	info := PackageInfo{
		ID:          strings.TrimSpace(m.ID),
		Version:     strings.TrimSpace(m.Version),
		Description: strings.TrimSpace(m.Description),
	}

	// Legacy manifests list dependencies without groups.
	if len(m.Dependencies.Flat) > 0 {
		info.Groups = append(info.Groups, DependencyGroup{Dependencies: convertDeps(m.Dependencies.Flat)})
	}
	for _, g := range m.Dependencies.Groups {
		info.Groups = append(info.Groups, DependencyGroup{
			TargetFramework: strings.TrimSpace(g.TargetFramework),
			Dependencies:    convertDeps(g.Dependencies),
		})
	}
	for _, fa := range m.FrameworkAssemblies.Items {
		for _, name := range strings.Split(fa.Name, ",") {
			if name = strings.TrimSpace(name); name != "" {
				info.FrameworkAssemblies = append(info.FrameworkAssemblies, FrameworkAssembly{
					Name:            name,
					TargetFramework: strings.TrimSpace(fa.TargetFramework),
				})
			}
		}
	}
	return info
}

func convertDeps(in []nuspecDepends) []Dependency {
	var out []Dependency
	for _, d := range in {
		if id := strings.TrimSpace(d.ID); id != "" {
			out = append(out, Dependency{ID: id, Range: strings.TrimSpace(d.Version)})
		}
	}
	return out
}
