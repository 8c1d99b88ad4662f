package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/integrations/nuget"
)

// assetsTarget is one restore target ("net8.0") of obj/project.assets.json:
// the resolved package closure of a project for a framework.
type assetsTarget struct {
	name      string
	libraries []assetsLibrary
	versions  map[string]string // lowercased package ID -> resolved version
}

type assetsLibrary struct {
	id           string
	version      string
	dependencies [][2]string // (id, range) sorted by id
	runtime      []string    // runtime assembly file names, sorted
}

type assetsFile struct {
	Targets map[string]map[string]assetsEntry `json:"targets"`
}

type assetsEntry struct {
	Type         string                     `json:"type"`
	Dependencies map[string]string          `json:"dependencies"`
	Runtime      map[string]json.RawMessage `json:"runtime"`
}

// readAssets loads the restore target for framework. An empty framework
// selects the first target by name; runtime-specific targets
// ("net8.0/win-x64") are only used when named exactly.
func readAssets(filePath, framework string) (*assetsTarget, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var f assetsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	name, ok := selectTarget(f.Targets, framework)
	if !ok {
		return nil, fmt.Errorf("no restore target for %q", framework)
	}

	t := &assetsTarget{name: name, versions: make(map[string]string)}
	for _, key := range sortedKeys(f.Targets[name]) {
		entry := f.Targets[name][key]
		if entry.Type != "package" {
			continue
		}
		id, version, _ := strings.Cut(key, "/")
		lib := assetsLibrary{id: id, version: version}
		for _, dep := range sortedKeys(entry.Dependencies) {
			lib.dependencies = append(lib.dependencies, [2]string{dep, entry.Dependencies[dep]})
		}
		for _, file := range sortedKeys(entry.Runtime) {
			base := path.Base(file)
			// "_._" marks a framework that needs no assembly.
			if strings.EqualFold(path.Ext(base), ".dll") {
				lib.runtime = append(lib.runtime, base)
			}
		}
		t.libraries = append(t.libraries, lib)
		t.versions[strings.ToLower(id)] = version
	}
	return t, nil
}

func selectTarget(targets map[string]map[string]assetsEntry, framework string) (string, bool) {
	names := sortedKeys(targets)
	if framework != "" {
		for _, name := range names {
			if nuget.SameFramework(name, framework) {
				return name, true
			}
		}
		return "", false
	}
	for _, name := range names {
		if !strings.Contains(name, "/") {
			return name, true
		}
	}
	return "", false
}

// version returns the resolved version of a package, or "" when unknown.
func (t *assetsTarget) version(id string) string {
	if t == nil {
		return ""
	}
	return t.versions[strings.ToLower(id)]
}

// addTo merges the restored closure into g: package -> package edges
// labeled with the declared range and package -> assembly edges for
// runtime assemblies. Package nodes are added through ensure.
func (t *assetsTarget) addTo(g *graph.Graph, ensure func(id, version string) (string, error)) error {
	for _, lib := range t.libraries {
		from, err := ensure(lib.id, lib.version)
		if err != nil {
			return err
		}
		for _, dep := range lib.dependencies {
			id, rng := dep[0], dep[1]
			version := t.version(id)
			if version == "" {
				version = nuget.LowerBound(rng)
			}
			to, err := ensure(id, version)
			if err != nil {
				return err
			}
			if err := link(g, from, to, rng); err != nil {
				return err
			}
		}
		for _, file := range lib.runtime {
			asm, err := g.EnsureNode(graph.Node{ID: file, Kind: graph.KindAssembly, Version: lib.version})
			if err != nil {
				return err
			}
			if err := link(g, from, asm.ID, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
