package nuget

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/depends/pkg/cache"
	"github.com/matzehuels/depends/pkg/integrations"
)

const serilogNuspec = `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>Serilog.Sinks.File</id>
    <version>5.0.0</version>
    <description>Write Serilog events to text files.</description>
    <dependencies>
      <group targetFramework=".NETFramework4.5">
        <dependency id="Serilog" version="2.10.0" exclude="Build,Analyzers" />
      </group>
      <group targetFramework="net5.0">
        <dependency id="Serilog" version="[2.10.0, )" />
        <dependency id="System.Text.Json" version="5.0.0" />
      </group>
      <group>
        <dependency id="Serilog" version="2.9.0" />
      </group>
    </dependencies>
    <frameworkAssemblies>
      <frameworkAssembly assemblyName="System.IO, System.Runtime" targetFramework=".NETFramework4.5" />
    </frameworkAssemblies>
  </metadata>
</package>`

func newTestServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		switch r.URL.Path {
		case "/serilog.sinks.file/index.json":
			w.Write([]byte(`{"versions":["4.1.0","5.0.0","6.0.0-dev-00001"]}`))
		case "/serilog.sinks.file/5.0.0/serilog.sinks.file.nuspec":
			w.Write([]byte(serilogNuspec))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClientLatestStable(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	client := NewClient(cache.NewNullCache(), server.URL, time.Hour)

	got, err := client.LatestStable(context.Background(), "Serilog.Sinks.File", false)
	if err != nil {
		t.Fatalf("LatestStable() error: %v", err)
	}
	if got != "5.0.0" {
		t.Errorf("LatestStable() = %q, want %q", got, "5.0.0")
	}
}

func TestClientFetchPackage(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	client := NewClient(cache.NewNullCache(), server.URL+"/", time.Hour)

	pkg, err := client.FetchPackage(context.Background(), "Serilog.Sinks.File", "5.0.0", false)
	if err != nil {
		t.Fatalf("FetchPackage() error: %v", err)
	}
	if pkg.ID != "Serilog.Sinks.File" || pkg.Version != "5.0.0" {
		t.Errorf("FetchPackage() = %s %s", pkg.ID, pkg.Version)
	}
	if len(pkg.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(pkg.Groups))
	}
	if len(pkg.FrameworkAssemblies) != 2 {
		t.Errorf("framework assemblies = %v, want 2 entries", pkg.FrameworkAssemblies)
	}
	if deps := pkg.DependenciesFor("net45"); len(deps) != 1 || deps[0].Range != "2.10.0" {
		t.Errorf("DependenciesFor(net45) = %v, want the .NETFramework4.5 group", deps)
	}
	if asms := pkg.AssembliesFor("net45"); len(asms) != 2 {
		t.Errorf("AssembliesFor(net45) = %v, want 2", asms)
	}
}

func TestClientFetchPackageNotFound(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	client := NewClient(cache.NewNullCache(), server.URL, time.Hour)

	_, err := client.FetchPackage(context.Background(), "Missing", "1.0.0", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchPackage() error = %v, want ErrNotFound", err)
	}
}

func TestClientFetchPackageErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/serilog.sinks.file/5.0.0/serilog.sinks.file.nuspec":
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(serilogNuspec))
		default:
			attempts++
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(cache.NewNullCache(), server.URL, time.Hour)
	ctx := context.Background()

	pkg, err := client.FetchPackage(ctx, "Serilog.Sinks.File", "5.0.0", false)
	if err != nil {
		t.Fatalf("FetchPackage() after a 503 error: %v", err)
	}
	if pkg.ID != "Serilog.Sinks.File" || attempts != 2 {
		t.Errorf("ID = %q after %d attempts, want Serilog.Sinks.File after 2", pkg.ID, attempts)
	}

	attempts = 0
	_, err = client.FetchPackage(ctx, "Serilog.Sinks.File", "9.9.9", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchPackage(9.9.9) error = %v, want ErrNotFound", err)
	}
	if attempts != 1 {
		t.Errorf("missing version fetched %d times, want 1", attempts)
	}
}

func TestClientCachesResponses(t *testing.T) {
	hits := 0
	server := newTestServer(t, &hits)
	defer server.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, server.URL, time.Hour)
	ctx := context.Background()

	for range 3 {
		if _, err := client.FetchVersions(ctx, "Serilog.Sinks.File", false); err != nil {
			t.Fatalf("FetchVersions() error: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}

	if _, err := client.FetchVersions(ctx, "Serilog.Sinks.File", true); err != nil {
		t.Fatalf("FetchVersions(refresh) error: %v", err)
	}
	if hits != 2 {
		t.Errorf("server hits after refresh = %d, want 2", hits)
	}
}

func TestDependenciesFor(t *testing.T) {
	pkg := PackageInfo{
		Groups: []DependencyGroup{
			{TargetFramework: "net5.0", Dependencies: []Dependency{{ID: "Serilog", Range: "[2.10.0, )"}, {ID: "System.Text.Json", Range: "5.0.0"}}},
			{Dependencies: []Dependency{{ID: "Serilog", Range: "2.9.0"}}},
		},
	}
	tests := []struct {
		name      string
		framework string
		want      []string
	}{
		{"exact match", "net5.0", []string{"Serilog", "System.Text.Json"}},
		{"case-insensitive match", "NET5.0", []string{"Serilog", "System.Text.Json"}},
		{"agnostic fallback", "net8.0", []string{"Serilog"}},
		{"all groups", "", []string{"Serilog", "System.Text.Json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := pkg.DependenciesFor(tt.framework)
			if len(deps) != len(tt.want) {
				t.Fatalf("DependenciesFor(%q) = %v, want %v", tt.framework, deps, tt.want)
			}
			for i, d := range deps {
				if d.ID != tt.want[i] {
					t.Errorf("DependenciesFor(%q)[%d] = %s, want %s", tt.framework, i, d.ID, tt.want[i])
				}
			}
		})
	}
}

func TestDependenciesForLongFrameworkNames(t *testing.T) {
	pkg := PackageInfo{
		Groups: []DependencyGroup{
			{TargetFramework: ".NETFramework4.6.2", Dependencies: []Dependency{{ID: "System.ValueTuple"}}},
			{TargetFramework: ".NETStandard2.0", Dependencies: []Dependency{{ID: "Microsoft.Bcl.AsyncInterfaces"}}},
			{TargetFramework: ".NETCoreApp3.1", Dependencies: []Dependency{{ID: "System.Text.Json"}}},
		},
	}
	tests := []struct {
		framework string
		want      string
	}{
		{"netstandard2.0", "Microsoft.Bcl.AsyncInterfaces"},
		{"net462", "System.ValueTuple"},
		{"netcoreapp3.1", "System.Text.Json"},
		{".NETStandard2.0", "Microsoft.Bcl.AsyncInterfaces"},
	}

	for _, tt := range tests {
		deps := pkg.DependenciesFor(tt.framework)
		if len(deps) != 1 || deps[0].ID != tt.want {
			t.Errorf("DependenciesFor(%q) = %v, want [%s]", tt.framework, deps, tt.want)
		}
	}
}

func TestDependenciesForNoAgnosticGroup(t *testing.T) {
	pkg := PackageInfo{
		Groups: []DependencyGroup{
			{TargetFramework: "net5.0", Dependencies: []Dependency{{ID: "Serilog"}}},
		},
	}
	if deps := pkg.DependenciesFor("net48"); len(deps) != 0 {
		t.Errorf("DependenciesFor(net48) = %v, want none", deps)
	}
}

func TestAssembliesFor(t *testing.T) {
	pkg := PackageInfo{
		FrameworkAssemblies: []FrameworkAssembly{
			{Name: "System.IO", TargetFramework: ".NETFramework4.5"},
			{Name: "System.Xml"},
		},
	}
	if got := pkg.AssembliesFor("net5.0"); len(got) != 1 || got[0] != "System.Xml" {
		t.Errorf("AssembliesFor(net5.0) = %v, want [System.Xml]", got)
	}
	if got := pkg.AssembliesFor("net45"); len(got) != 2 {
		t.Errorf("AssembliesFor(net45) = %v, want both", got)
	}
	if got := pkg.AssembliesFor(""); len(got) != 2 {
		t.Errorf("AssembliesFor(\"\") = %v, want both", got)
	}
}
