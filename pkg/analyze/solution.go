package analyze

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/target"

	deperrors "github.com/matzehuels/depends/pkg/errors"
)

// solutionProject matches project entries of a .sln file:
//
//	Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "App", "src\App\App.csproj", "{GUID}"
var solutionProject = regexp.MustCompile(`^\s*Project\("[^"]*"\)\s*=\s*"([^"]*)"\s*,\s*"([^"]*)"`)

// solutionEntry is a project listed in a solution.
type solutionEntry struct {
	Name string
	Path string // relative to the solution, slash-separated
}

// parseSolution lists the project entries of a solution file. Solution
// folders and other non-project entries are skipped.
func parseSolution(path string) ([]solutionEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []solutionEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := solutionProject.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		rel := strings.ReplaceAll(strings.TrimSpace(m[2]), `\`, "/")
		if !target.IsProjectFile(rel) {
			continue
		}
		entries = append(entries, solutionEntry{Name: m[1], Path: rel})
	}
	return entries, sc.Err()
}

func (b *Builder) analyzeSolution(ctx context.Context, path, framework string) (*graph.Graph, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeAnalysisFailed, err, "resolve %s", path)
	}
	entries, err := parseSolution(abs)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeAnalysisFailed, err, "parse solution %s", filepath.Base(abs))
	}

	// Solutions keep their extension so "App.sln" never collides with
	// the "App" project it usually contains.
	g := graph.New()
	sln := filepath.Base(abs)
	if err := g.AddNode(graph.Node{ID: sln, Kind: graph.KindSolution}); err != nil {
		return nil, err
	}

	w := newProjectWalker(g, framework, b.opts.Logger)
	dir := filepath.Dir(abs)
	for _, e := range entries {
		projPath := filepath.Join(dir, filepath.FromSlash(e.Path))
		if _, err := os.Stat(projPath); err != nil {
			b.opts.Logger("project %s listed in %s not found", e.Path, filepath.Base(abs))
			id, err := w.ensureProject(projPath, "")
			if err != nil {
				return nil, err
			}
			if err := link(g, sln, id, ""); err != nil {
				return nil, err
			}
			continue
		}

		id, err := w.walk(ctx, projPath)
		if err != nil {
			return nil, err
		}
		if err := link(g, sln, id, ""); err != nil {
			return nil, err
		}
	}
	return g, nil
}
