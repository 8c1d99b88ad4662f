package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/depends/pkg/graph"
)

func explorerGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "App", Kind: graph.KindProject},
		{ID: "Serilog", Kind: graph.KindPackage, Version: "3.1.1"},
		{ID: "Serilog.dll", Kind: graph.KindAssembly},
		{ID: "Lib", Kind: graph.KindProject},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []graph.Edge{
		{Start: "App", End: "Serilog", Label: "3.0.0"},
		{Start: "App", End: "Lib"},
		{Start: "Serilog", End: "Serilog.dll"},
		{Start: "Lib", End: "Serilog", Label: "3.1.1"},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msgs through Update and returns the final model and the last
// command.
func send(m ExplorerModel, msgs ...tea.Msg) (ExplorerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(ExplorerModel)
	}
	return m, cmd
}

func selectedID(t *testing.T, m ExplorerModel) string {
	t.Helper()
	n, ok := m.State().Selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	return n.ID
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestExplorerInitialState(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")

	// Sorted by ID: App, Lib, Serilog, Serilog.dll
	if got := selectedID(t, m); got != "App" {
		t.Errorf("selected = %q, want App", got)
	}
	if m.State().Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.State().Len())
	}

	view := m.View()
	for _, want := range []string{"App.sln", "4 nodes", "4 edges", "Serilog (Wanted: 3.0.0)", "[1/4]", "assemblies shown"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestExplorerNavigation(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")

	tests := []struct {
		name string
		msg  tea.Msg
		want string
	}{
		{"down", tea.KeyMsg{Type: tea.KeyDown}, "Lib"},
		{"j", keyRunes("j"), "Serilog"},
		{"k", keyRunes("k"), "Lib"},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, "App"},
		{"up at top", tea.KeyMsg{Type: tea.KeyUp}, "App"},
	}

	for _, tt := range tests {
		m, _ = send(m, tt.msg)
		if got := selectedID(t, m); got != tt.want {
			t.Errorf("%s: selected = %q, want %q", tt.name, got, tt.want)
		}
	}

	m, _ = send(m, keyRunes("j"), keyRunes("j"), keyRunes("j"), keyRunes("j"))
	if got := selectedID(t, m); got != "Serilog.dll" {
		t.Errorf("down past end: selected = %q, want Serilog.dll", got)
	}
}

func TestExplorerPanesFollowSelection(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")
	m, _ = send(m, keyRunes("j"), keyRunes("j")) // Serilog

	view := m.View()
	for _, want := range []string{"Serilog.dll", "App (Wanted: 3.0.0)", "Lib (Wanted: 3.1.1)", "[3/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestExplorerToggleAssemblies(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")
	m, _ = send(m, keyRunes("j"), keyRunes("j"))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.State().AssembliesVisible() {
		t.Error("assemblies should be hidden")
	}
	if m.State().Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.State().Len())
	}
	if got := selectedID(t, m); got != "App" {
		t.Errorf("toggle should reset selection to first node, got %q", got)
	}
	if !strings.Contains(m.View(), "assemblies hidden") {
		t.Error("status line should show hidden assemblies")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if !m.State().AssembliesVisible() || m.State().Len() != 4 {
		t.Error("second toggle should show assemblies again")
	}
}

func TestExplorerFocusCycle(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusRuntime {
		t.Errorf("focus = %d, want runtime pane", m.focus)
	}

	// Keys go to the focused pane, not the node list.
	m, _ = send(m, keyRunes("j"))
	if got := selectedID(t, m); got != "App" {
		t.Errorf("selection moved while a pane had focus: %q", got)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusReverse {
		t.Errorf("focus = %d, want reverse pane after wrapping", m.focus)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusNodes {
		t.Errorf("focus = %d, want node list", m.focus)
	}
}

func TestExplorerQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := NewExplorerModel(explorerGraph(t), "App.sln")
		m, cmd := send(m, msg)
		if !isQuit(cmd) {
			t.Errorf("%s should quit", msg)
		}
		if m.View() != "" {
			t.Errorf("%s: View() after quit should be empty", msg)
		}
	}

	m := NewExplorerModel(explorerGraph(t), "App.sln")
	if _, cmd := send(m, keyRunes("q")); isQuit(cmd) {
		t.Error("q should not quit")
	}
}

func TestExplorerSearch(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")

	m, _ = send(m, keyRunes("/"))
	if !m.searching {
		t.Fatal("/ should open search")
	}

	m, _ = send(m, keyRunes("l"), keyRunes("i"), keyRunes("b"))
	if got := selectedID(t, m); got != "Lib" {
		t.Errorf("search selected %q, want Lib", got)
	}

	// Esc closes search without quitting.
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching || isQuit(cmd) {
		t.Error("esc should close search only")
	}
	if got := selectedID(t, m); got != "Lib" {
		t.Errorf("selection after search = %q, want Lib", got)
	}
}

func TestExplorerSearchNoMatch(t *testing.T) {
	m := NewExplorerModel(explorerGraph(t), "App.sln")
	m, _ = send(m, keyRunes("/"), keyRunes("z"), keyRunes("z"))
	if got := selectedID(t, m); got != "App" {
		t.Errorf("selection moved without a match: %q", got)
	}
}

func TestExplorerEmptyGraph(t *testing.T) {
	m := NewExplorerModel(graph.New(), "empty.json")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyCtrlA})

	if _, ok := m.State().Selected(); ok {
		t.Error("empty graph should have no selection")
	}
	view := m.View()
	if !strings.Contains(view, "[0/0]") || !strings.Contains(view, "no nodes") {
		t.Errorf("View() = %q", view)
	}
}

func TestExplorerScrollsWithSelection(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		_ = g.AddNode(graph.Node{ID: id, Kind: graph.KindPackage})
	}
	m := NewExplorerModel(g, "g.json")
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 9})
	if m.Height != 7 {
		t.Fatalf("Height = %d, want 7", m.Height)
	}

	for i := 0; i < 7; i++ {
		m, _ = send(m, keyRunes("j"))
	}
	if got := selectedID(t, m); got != "h" {
		t.Fatalf("selected = %q, want h", got)
	}
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.Offset != 0 {
		t.Errorf("Offset after toggle = %d, want 0", m.Offset)
	}
}
