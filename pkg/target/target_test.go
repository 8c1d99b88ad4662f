package target

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depends/pkg/errors"
)

// layout creates files (and directories, for names ending in "/") under a
// fresh temporary directory and returns it.
func layout(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		p := filepath.Join(dir, name)
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("<Project />"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestResolveDirectory(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		want     string
		wantCode errors.Code
	}{
		{"single solution", []string{"App.sln"}, "App.sln", ""},
		{"solution beats projects", []string{"App.sln", "App.csproj", "Lib.fsproj"}, "App.sln", ""},
		{"solution case-insensitive", []string{"App.SLN", "App.csproj"}, "App.SLN", ""},
		{"single csproj", []string{"App.csproj", "README.md"}, "App.csproj", ""},
		{"single fsproj", []string{"Lib.fsproj"}, "Lib.fsproj", ""},
		{"project case-insensitive", []string{"App.CsProj"}, "App.CsProj", ""},
		{"two solutions", []string{"A.sln", "B.sln", "A.csproj"}, "", errors.ErrCodeAmbiguousSolution},
		{"two projects", []string{"A.csproj", "B.vbproj"}, "", errors.ErrCodeAmbiguousProject},
		{"empty", nil, "", errors.ErrCodeNoTargetFound},
		{"unrelated files", []string{"notes.txt", "proj", "App.projx"}, "", errors.ErrCodeNoTargetFound},
		{"subdirectories ignored", []string{"src/App.csproj", "src/App.sln"}, "", errors.ErrCodeNoTargetFound},
		{"directory named like solution", []string{"Weird.sln/", "App.csproj"}, "App.csproj", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := layout(t, tt.files...)
			got, err := Resolve(dir)

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Resolve() err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() err = %v", err)
			}
			abs, _ := filepath.Abs(filepath.Join(dir, tt.want))
			if got != abs {
				t.Errorf("Resolve() = %q, want %q", got, abs)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("Resolve() = %q is not absolute", got)
			}
		})
	}
}

func TestResolveAmbiguousMessageNamesCount(t *testing.T) {
	dir := layout(t, "A.sln", "B.sln", "C.sln")
	_, err := Resolve(dir)
	msg := errors.UserMessage(err)
	if !strings.Contains(msg, "found 3 solution files") {
		t.Errorf("message %q does not name the count", msg)
	}
	if !strings.Contains(msg, "A.sln, B.sln, C.sln") {
		t.Errorf("message %q does not list the candidates", msg)
	}
}

func TestResolveFile(t *testing.T) {
	dir := layout(t, "graph.json", "App.csproj", "Other.csproj")

	// A file is accepted whatever its extension.
	got, err := Resolve(filepath.Join(dir, "graph.json"))
	if err != nil {
		t.Fatalf("Resolve(file) err = %v", err)
	}
	if got != filepath.Join(dir, "graph.json") {
		t.Errorf("Resolve(file) = %q", got)
	}

	// Naming a project directly sidesteps ambiguity in its directory.
	got, err = Resolve(filepath.Join(dir, "Other.csproj"))
	if err != nil || filepath.Base(got) != "Other.csproj" {
		t.Errorf("Resolve(Other.csproj) = %q, %v", got, err)
	}
}

func TestResolveRelativeFileIsMadeAbsolute(t *testing.T) {
	dir := layout(t, "App.csproj")
	t.Chdir(dir)

	got, err := Resolve("App.csproj")
	if err != nil {
		t.Fatalf("Resolve err = %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "App.csproj" {
		t.Errorf("Resolve(relative) = %q", got)
	}

	got, err = Resolve(".")
	if err != nil || filepath.Base(got) != "App.csproj" {
		t.Errorf("Resolve(.) = %q, %v", got, err)
	}
}

func TestResolveNotFound(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	for _, files := range [][]string{
		{"App.sln", "App.csproj"},
		{"A.csproj", "B.csproj"},
		{"Only.fsproj"},
	} {
		dir := layout(t, files...)
		first, err1 := Resolve(dir)
		second, err2 := Resolve(dir)
		if first != second || errors.GetCode(err1) != errors.GetCode(err2) {
			t.Errorf("%v: Resolve not idempotent: (%q, %v) vs (%q, %v)", files, first, err1, second, err2)
		}
	}
}

func TestIsProjectFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.csproj", true},
		{"a.FSPROJ", true},
		{"a.vcxproj", true},
		{"a.proj", true},
		{"a.sln", false},
		{"proj", false},
		{"a.projx", false},
		{"csproj", false},
	}
	for _, tt := range tests {
		if got := IsProjectFile(tt.name); got != tt.want {
			t.Errorf("IsProjectFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
