package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	deperrors "github.com/matzehuels/depends/pkg/errors"
	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/observability"
)

const testProject = `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Serilog" Version="3.1.1" />
    <Reference Include="System.Xml, Version=4.0.0.0, Culture=neutral" />
  </ItemGroup>
</Project>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newTestCLI returns a CLI isolated from the user's config and cache.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DEPENDS_CACHE_DIR", t.TempDir())
	t.Setenv(envNuGetSource, "")
	t.Cleanup(observability.Reset)
	return c, &logs
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootResolutionErrors(t *testing.T) {
	ambiguous := t.TempDir()
	writeFile(t, filepath.Join(ambiguous, "A.sln"), "")
	writeFile(t, filepath.Join(ambiguous, "B.sln"), "")

	empty := t.TempDir()

	tests := []struct {
		name string
		args []string
		want deperrors.Code
	}{
		{"ambiguous solution", []string{ambiguous}, deperrors.ErrCodeAmbiguousSolution},
		{"no target", []string{empty}, deperrors.ErrCodeNoTargetFound},
		{"missing path", []string{filepath.Join(empty, "nope")}, deperrors.ErrCodeNotFound},
		{"version without package", []string{"--version", "1.0.0", empty}, deperrors.ErrCodeInvalidInput},
		{"bad verbosity", []string{"-v", "loud", empty}, deperrors.ErrCodeInvalidInput},
		{"bad framework", []string{"-f", "net8.0;net48", empty}, deperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t)
			_, err := execute(t, c, tt.args...)
			if !deperrors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestRootTooManyArgs(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := execute(t, c, "a", "b"); err == nil {
		t.Error("expected error for two positional arguments")
	}
}

func TestExportJSONFile(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "App.csproj"), testProject)
	out := filepath.Join(t.TempDir(), "graph.json")

	if _, err := execute(t, c, "export", dir, "-o", out); err != nil {
		t.Fatalf("export error: %v", err)
	}

	g, err := graph.ReadJSONFile(out)
	if err != nil {
		t.Fatalf("ReadJSONFile() error: %v", err)
	}
	for _, id := range []string{"App", "Serilog", "System.Xml.dll"} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("node %q missing", id)
		}
	}
	if !g.HasEdge("App", "Serilog", "3.1.1") {
		t.Error("missing edge App -> Serilog (3.1.1)")
	}
}

func TestExportDOTHideAssemblies(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "App.csproj"), testProject)

	out, err := execute(t, c, "export", dir, "--format", "dot", "--hide-assemblies")
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("output is not DOT: %q", out)
	}
	if !strings.Contains(out, `"App" -> "Serilog"`) {
		t.Error("DOT missing App -> Serilog")
	}
	if strings.Contains(out, "System.Xml.dll") {
		t.Error("DOT should not contain assemblies")
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "App.csproj"), testProject)

	_, err := execute(t, c, "export", dir, "--format", "png")
	if !deperrors.Is(err, deperrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestExportRejectsFormatBeforeAnalysis(t *testing.T) {
	c, _ := newTestCLI(t)
	missing := filepath.Join(t.TempDir(), "nope")

	// The path does not exist, so analysis would fail with NOT_FOUND.
	_, err := execute(t, c, "export", missing, "--format", "png")
	if !deperrors.Is(err, deperrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     string
		wantHint bool
	}{
		{"resolution", deperrors.New(deperrors.ErrCodeAmbiguousSolution, "found 2 solutions"), "[AMBIGUOUS_SOLUTION]", true},
		{"analysis", deperrors.New(deperrors.ErrCodeAnalysisFailed, "parse project App.csproj"), "[ANALYSIS_FAILED]", false},
		{"plain", errors.New("boom"), "boom", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, tt.err)
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("PrintError() = %q, want %q", out, tt.want)
			}
			if got := strings.Contains(out, "depends src/App.sln"); got != tt.wantHint {
				t.Errorf("hint shown = %v, want %v", got, tt.wantHint)
			}
		})
	}
}

func TestExportGraphFile(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()

	g := graph.New()
	_ = g.AddNode(graph.Node{ID: "A", Kind: graph.KindPackage})
	_ = g.AddNode(graph.Node{ID: "B", Kind: graph.KindPackage})
	_ = g.AddEdge(graph.Edge{Start: "A", End: "B", Label: "1.0.0"})
	path := filepath.Join(dir, "deps.json")
	if err := graph.WriteJSONFile(g, path); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, c, "export", path, "--format", "dot")
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if !strings.Contains(out, `"A" -> "B" [label="1.0.0"];`) {
		t.Errorf("DOT missing labeled edge: %q", out)
	}
}

func TestVersionShort(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := execute(t, c, "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("version --short printed nothing")
	}
}

func TestCompletion(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := execute(t, c, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "depends") {
		t.Error("bash completion should mention the command name")
	}

	if _, err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("expected error for unknown shell")
	}
}

func TestSetupAppliesConfig(t *testing.T) {
	c, logs := newTestCLI(t)
	writeFile(t, c.configPath, `verbosity = "Debug"
framework = "net8.0"
nuget_source = "https://example.test/v3"
cache_ttl = "1h"
`)

	if _, err := execute(t, c, "cache", "path"); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if c.Config.Framework != "net8.0" || c.Config.NuGetSource != "https://example.test/v3" {
		t.Errorf("Config = %+v", c.Config)
	}
	if !strings.Contains(logs.String(), "config loaded") {
		t.Error("debug verbosity from config should log config loading")
	}
}

func TestVerbosityFlagOverridesConfig(t *testing.T) {
	c, logs := newTestCLI(t)
	writeFile(t, c.configPath, `verbosity = "Debug"`)

	if _, err := execute(t, c, "-v", "Error", "cache", "path"); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no logs at Error verbosity, got %q", logs.String())
	}
}
