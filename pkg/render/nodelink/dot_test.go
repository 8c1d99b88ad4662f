package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/depends/pkg/graph"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "App.sln", Kind: graph.KindSolution},
		{ID: "App", Kind: graph.KindProject},
		{ID: "Serilog", Kind: graph.KindPackage, Version: "3.1.1"},
		{ID: "Serilog.dll", Kind: graph.KindAssembly},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []graph.Edge{
		{Start: "App.sln", End: "App"},
		{Start: "App", End: "Serilog", Label: "3.1.1"},
		{Start: "Serilog", End: "Serilog.dll"},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleGraph(t), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{
		`"App" [label="App", shape=box`,
		`"App.sln" -> "App";`,
		`"App" -> "Serilog" [label="3.1.1"];`,
		`"Serilog" -> "Serilog.dll";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_KindStyles(t *testing.T) {
	dot := ToDOT(sampleGraph(t), Options{})

	if !strings.Contains(dot, "shape=folder") {
		t.Error("ToDOT() solution missing folder shape")
	}
	if !strings.Contains(dot, "shape=note") {
		t.Error("ToDOT() assembly missing note shape")
	}
	if !strings.Contains(dot, `"Serilog" [label="Serilog"];`) {
		t.Error("ToDOT() package should use node defaults")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleGraph(t), Options{Detailed: true})

	if !strings.Contains(dot, `label="Serilog\n3.1.1"`) {
		t.Error("ToDOT() detailed output missing version")
	}
	if !strings.Contains(dot, `label="App"`) {
		t.Error("ToDOT() detailed output should leave unversioned labels alone")
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	if ToDOT(sampleGraph(t), Options{}) != ToDOT(sampleGraph(t), Options{}) {
		t.Error("ToDOT() output differs between equal graphs")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %q, want prefix %q", out, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); string(got) != string(noBox) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %q", got)
	}
}
