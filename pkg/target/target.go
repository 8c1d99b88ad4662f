// Package target resolves the path an operator passes on the command line
// into exactly one file a graph builder can analyze.
//
// The rules, applied once before any analysis or UI work:
//
//  1. A path that is neither a file nor a directory fails with NOT_FOUND.
//  2. A file is accepted as-is (made absolute). What kind of file it is
//     is left to the graph builder.
//  3. A directory is searched (never recursively) for solution files
//     (*.sln). One match wins; more than one fails with AMBIGUOUS_SOLUTION.
//  4. With no solution, the directory is searched for project files, any
//     extension ending in "proj" (*.csproj, *.fsproj, *.vbproj, ...). One
//     match wins; more fails with AMBIGUOUS_PROJECT; none fails with
//     NO_TARGET_FOUND.
//
// Suffix matching is case-insensitive. Solutions always take priority over
// projects.
package target

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/depends/pkg/errors"
)

const (
	solutionExt   = ".sln"
	projectSuffix = "proj"
)

// IsSolutionFile reports whether name has a solution file extension.
func IsSolutionFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), solutionExt)
}

// IsProjectFile reports whether name has an extension ending in "proj".
func IsProjectFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return len(ext) > 1 && strings.HasSuffix(ext, projectSuffix)
}

// Resolve turns path into the absolute path of a single analyzable file.
// It reads the filesystem but never changes it, and calling it twice on an
// unchanged directory yields the same result.
//
// Failures are *errors.Error values with one of the codes
// ErrCodeNotFound, ErrCodeAmbiguousSolution, ErrCodeAmbiguousProject or
// ErrCodeNoTargetFound.
func Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.New(errors.ErrCodeNotFound, "%s is neither an existing file nor a directory", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}

	if !info.IsDir() {
		return abs, nil
	}

	solutions, projects, err := scan(abs)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "read directory %s", abs)
	}

	switch len(solutions) {
	case 1:
		return solutions[0], nil
	case 0:
	default:
		return "", errors.New(errors.ErrCodeAmbiguousSolution,
			"found %d solution files in %s (%s); specify which one to use",
			len(solutions), abs, baseNames(solutions))
	}

	switch len(projects) {
	case 1:
		return projects[0], nil
	case 0:
		return "", errors.New(errors.ErrCodeNoTargetFound,
			"no solution or project file found in %s", abs)
	default:
		return "", errors.New(errors.ErrCodeAmbiguousProject,
			"found %d project files in %s (%s); specify which one to use",
			len(projects), abs, baseNames(projects))
	}
}

// scan lists the solution and project files directly inside dir, sorted
// by name.
func scan(dir string) (solutions, projects []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if !isRegular(dir, e) {
			continue
		}
		switch name := e.Name(); {
		case IsSolutionFile(name):
			solutions = append(solutions, filepath.Join(dir, name))
		case IsProjectFile(name):
			projects = append(projects, filepath.Join(dir, name))
		}
	}
	slices.Sort(solutions)
	slices.Sort(projects)
	return solutions, projects, nil
}

// isRegular reports whether e is a file, following symlinks.
func isRegular(dir string, e os.DirEntry) bool {
	if e.IsDir() {
		return false
	}
	if e.Type()&os.ModeSymlink == 0 {
		return true
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && !info.IsDir()
}

func baseNames(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}
