package analyze

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/integrations/nuget"

	deperrors "github.com/matzehuels/depends/pkg/errors"
)

// projectWalker analyzes a project and, recursively, the projects it
// references, merging everything into one graph.
type projectWalker struct {
	g         *graph.Graph
	framework string
	visited   map[string]string // absolute path -> node ID
	files     map[string]string // project node ID -> project file name
	packages  *packageIndex
	central   map[string]map[string]string
	logf      func(string, ...any)
}

func newProjectWalker(g *graph.Graph, framework string, logf func(string, ...any)) *projectWalker {
	return &projectWalker{
		g:         g,
		framework: framework,
		visited:   make(map[string]string),
		files:     make(map[string]string),
		packages:  newPackageIndex(g),
		logf:      logf,
	}
}

// walk analyzes the project at path and returns its node ID.
func (p *projectWalker) walk(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", deperrors.Wrap(deperrors.ErrCodeAnalysisFailed, err, "resolve %s", path)
	}
	if id, ok := p.visited[abs]; ok {
		return id, nil
	}

	proj, err := readProject(abs)
	if err != nil {
		return "", deperrors.Wrap(deperrors.ErrCodeAnalysisFailed, err, "parse project %s", filepath.Base(abs))
	}

	id, err := p.ensureProject(abs, proj.property("Version"))
	if err != nil {
		return "", err
	}
	p.visited[abs] = id

	dir := filepath.Dir(abs)
	restore := p.loadAssets(dir)

	for _, group := range proj.ItemGroups {
		if !conditionApplies(group.Condition, p.framework) {
			continue
		}
		for _, ref := range group.PackageReferences {
			if err := p.addPackageReference(abs, dir, ref, restore); err != nil {
				return "", err
			}
		}
		for _, ref := range group.ProjectReferences {
			if err := p.addProjectReference(ctx, abs, dir, ref); err != nil {
				return "", err
			}
		}
		for _, ref := range group.References {
			if err := p.addAssemblyReference(abs, ref); err != nil {
				return "", err
			}
		}
	}

	if restore != nil {
		if err := restore.addTo(p.g, p.ensurePackage); err != nil {
			return "", err
		}
	}
	// A package reference may have renamed this project.
	return p.visited[abs], nil
}

// ensureProject returns the node ID for the project file at path. Projects
// are named without their extension unless a package already uses that ID.
func (p *projectWalker) ensureProject(path, version string) (string, error) {
	id := projectName(path)
	if n, ok := p.g.Node(id); ok && n.Kind != graph.KindProject {
		id = filepath.Base(path)
	}
	n, err := p.g.EnsureNode(graph.Node{ID: id, Kind: graph.KindProject, Version: version})
	if err != nil {
		return "", err
	}
	p.files[n.ID] = filepath.Base(path)
	return n.ID, nil
}

// ensurePackage returns the node ID for a package. A project holding the
// package's ID is renamed to its file name first.
func (p *projectWalker) ensurePackage(id, version string) (string, error) {
	if _, ok := p.packages.lookup(id); !ok {
		if n, ok := p.g.Node(id); ok && n.Kind == graph.KindProject {
			if err := p.renameProject(n.ID); err != nil {
				return "", err
			}
		}
	}
	return p.packages.ensure(id, version)
}

func (p *projectWalker) renameProject(id string) error {
	file := p.files[id]
	if file == "" || file == id {
		return deperrors.New(deperrors.ErrCodeAnalysisFailed, "project %s collides with a package of the same name", id)
	}
	if err := p.g.RenameNode(id, file); err != nil {
		return deperrors.Wrap(deperrors.ErrCodeAnalysisFailed, err, "rename project %s", id)
	}
	delete(p.files, id)
	p.files[file] = file
	for path, v := range p.visited {
		if v == id {
			p.visited[path] = file
		}
	}
	return nil
}

// addPackageReference links the project at abs to a package. The project's
// node ID is read after the package exists because adding it may rename
// the project.
func (p *projectWalker) addPackageReference(abs, dir string, ref packageReference, restore *assetsTarget) error {
	name := strings.TrimSpace(ref.Include)
	if name == "" || !conditionApplies(ref.Condition, p.framework) {
		return nil
	}

	wanted := ref.version()
	if wanted == "" {
		wanted = p.centralVersion(dir, name)
	}
	resolved := restore.version(name)
	if resolved == "" {
		resolved = nuget.LowerBound(wanted)
	}

	to, err := p.ensurePackage(name, resolved)
	if err != nil {
		return err
	}
	return link(p.g, p.visited[abs], to, wanted)
}

func (p *projectWalker) addProjectReference(ctx context.Context, abs, dir string, ref projectReference) error {
	include := strings.TrimSpace(ref.Include)
	if include == "" || !conditionApplies(ref.Condition, p.framework) {
		return nil
	}

	path := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(include, `\`, "/")))
	if _, err := os.Stat(path); err != nil {
		p.logf("referenced project not found: %s", path)
		id, err := p.ensureProject(path, "")
		if err != nil {
			return err
		}
		return link(p.g, p.visited[abs], id, "")
	}

	id, err := p.walk(ctx, path)
	if err != nil {
		return err
	}
	return link(p.g, p.visited[abs], id, "")
}

func (p *projectWalker) addAssemblyReference(abs string, ref assemblyReference) error {
	name, version := parseStrongName(ref.Include)
	if name == "" || !conditionApplies(ref.Condition, p.framework) {
		return nil
	}
	n, err := p.g.EnsureNode(graph.Node{ID: assemblyID(name), Kind: graph.KindAssembly, Version: version})
	if err != nil {
		return err
	}
	return link(p.g, p.visited[abs], n.ID, "")
}

func (p *projectWalker) loadAssets(dir string) *assetsTarget {
	path := filepath.Join(dir, "obj", "project.assets.json")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	t, err := readAssets(path, p.framework)
	if err != nil {
		p.logf("ignoring %s: %v", path, err)
		return nil
	}
	return t
}

// centralVersion looks up a PackageVersion from the nearest
// Directory.Packages.props at or above dir.
func (p *projectWalker) centralVersion(dir, name string) string {
	if p.central == nil {
		p.central = make(map[string]map[string]string)
	}
	versions, ok := p.central[dir]
	if !ok {
		versions = readCentralVersions(dir, p.framework)
		p.central[dir] = versions
	}
	return versions[strings.ToLower(name)]
}

func readCentralVersions(dir, framework string) map[string]string {
	versions := make(map[string]string)
	for d := dir; ; {
		path := filepath.Join(d, "Directory.Packages.props")
		if data, err := os.ReadFile(path); err == nil {
			var props msbuildProject
			if xml.Unmarshal(data, &props) == nil {
				for _, group := range props.ItemGroups {
					if !conditionApplies(group.Condition, framework) {
						continue
					}
					for _, pv := range group.PackageVersions {
						if v := pv.version(); pv.Include != "" && v != "" {
							versions[strings.ToLower(strings.TrimSpace(pv.Include))] = v
						}
					}
				}
			}
			return versions
		}
		parent := filepath.Dir(d)
		if parent == d {
			return versions
		}
		d = parent
	}
}

var targetFrameworkCondition = regexp.MustCompile(`'\$\(TargetFramework\)'\s*(==|!=)\s*'([^']*)'`)

// conditionApplies reports whether an MSBuild Condition admits framework.
// Only comparisons against $(TargetFramework) are evaluated; any other
// condition, and every condition when no framework is requested, applies.
func conditionApplies(cond, framework string) bool {
	if framework == "" || cond == "" {
		return true
	}
	m := targetFrameworkCondition.FindStringSubmatch(cond)
	if m == nil {
		return true
	}
	same := nuget.SameFramework(m[2], framework)
	if m[1] == "==" {
		return same
	}
	return !same
}

// projectName returns the project file name without its extension.
func projectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseStrongName splits "System.Xml, Version=4.0.0.0, Culture=neutral, ..."
// into the simple name and version.
func parseStrongName(s string) (name, version string) {
	parts := strings.Split(s, ",")
	name = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), "Version") {
			version = strings.TrimSpace(v)
		}
	}
	return name, version
}

// assemblyID names assembly nodes by file name so that an assembly never
// collides with the package that ships it.
func assemblyID(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".dll") || strings.EqualFold(filepath.Ext(name), ".exe") {
		return name
	}
	return name + ".dll"
}

func readProject(path string) (*msbuildProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var proj msbuildProject
	if err := xml.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

type msbuildProject struct {
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
	ItemGroups     []itemGroup     `xml:"ItemGroup"`
}

// property returns the first non-empty value of a property.
func (p *msbuildProject) property(name string) string {
	for _, pg := range p.PropertyGroups {
		for _, prop := range pg.Properties {
			if prop.XMLName.Local == name {
				if v := strings.TrimSpace(prop.Value); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

type propertyGroup struct {
	Condition  string     `xml:"Condition,attr"`
	Properties []property `xml:",any"`
}

type property struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type itemGroup struct {
	Condition         string              `xml:"Condition,attr"`
	PackageReferences []packageReference  `xml:"PackageReference"`
	PackageVersions   []packageReference  `xml:"PackageVersion"`
	ProjectReferences []projectReference  `xml:"ProjectReference"`
	References        []assemblyReference `xml:"Reference"`
}

type packageReference struct {
	Include      string `xml:"Include,attr"`
	VersionAttr  string `xml:"Version,attr"`
	VersionChild string `xml:"Version"`
	Condition    string `xml:"Condition,attr"`
}

func (r packageReference) version() string {
	if v := strings.TrimSpace(r.VersionAttr); v != "" {
		return v
	}
	return strings.TrimSpace(r.VersionChild)
}

type projectReference struct {
	Include   string `xml:"Include,attr"`
	Condition string `xml:"Condition,attr"`
}

type assemblyReference struct {
	Include   string `xml:"Include,attr"`
	Condition string `xml:"Condition,attr"`
}
