package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	paneFocusedStyle = paneStyle.BorderForeground(colorCyan)
	paneTitleStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

var kindStyles = map[graph.Kind]lipgloss.Style{
	graph.KindSolution: lipgloss.NewStyle().Foreground(colorYellow),
	graph.KindProject:  lipgloss.NewStyle().Foreground(colorGreen),
	graph.KindPackage:  lipgloss.NewStyle().Foreground(colorBlue),
	graph.KindAssembly: lipgloss.NewStyle().Foreground(colorGray),
}

func kindTag(k graph.Kind) string {
	switch k {
	case graph.KindSolution:
		return "sln"
	case graph.KindProject:
		return "prj"
	case graph.KindPackage:
		return "pkg"
	case graph.KindAssembly:
		return "dll"
	}
	return "?"
}

// =============================================================================
// Key bindings
// =============================================================================

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Search key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Toggle: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "assemblies")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Toggle, k.Search, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev}, {k.Toggle, k.Search, k.Quit}}
}

// =============================================================================
// ExplorerModel - Interactive dependency explorer
// =============================================================================

type focusPane int

const (
	focusNodes focusPane = iota
	focusRuntime
	focusPackages
	focusReverse
	focusCount
)

var paneTitles = [...]string{"Runtime", "Packages", "Reverse"}

// ExplorerModel is the bubbletea model for the dependency explorer: a node
// list on the left and the selected node's runtime, package, and reverse
// dependencies on the right.
type ExplorerModel struct {
	dispatch *view.Dispatcher
	name     string
	nodes    int
	edges    int

	keys  keyMap
	help  help.Model
	focus focusPane

	Offset int
	Height int
	Width  int

	panes     [3]viewport.Model
	search    textinput.Model
	searching bool
	quitting  bool
}

// NewExplorerModel creates the explorer over g. name is shown in the header.
func NewExplorerModel(g *graph.Graph, name string) ExplorerModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search nodes"
	ti.CharLimit = 64

	m := ExplorerModel{
		dispatch: view.NewDispatcher(view.NewState(g)),
		name:     name,
		nodes:    g.NodeCount(),
		edges:    g.EdgeCount(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		search:   ti,
	}
	m.resize(100, 30)
	m.refreshPanes()
	return m
}

// State returns the selection state the model drives.
func (m ExplorerModel) State() *view.State {
	return m.dispatch.State()
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshPanes()
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m ExplorerModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.apply(m.dispatch.Dispatch(view.Quit()))
	case key.Matches(msg, m.keys.Toggle):
		return m.apply(m.dispatch.Dispatch(view.ToggleAssemblies()))
	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		cmd := m.search.Focus()
		return m, cmd
	}

	if m.focus != focusNodes {
		// Panes scroll with the viewport's own bindings.
		i := int(m.focus - focusRuntime)
		var cmd tea.Cmd
		m.panes[i], cmd = m.panes[i].Update(msg)
		return m, cmd
	}

	sel := m.State().SelectedIndex()
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.selectIndex(sel - 1)
	case key.Matches(msg, m.keys.Down):
		return m.selectIndex(sel + 1)
	}
	return m, nil
}

// updateSearch handles keys while the search box has focus. Every edit
// moves the selection to the best fuzzy match.
func (m ExplorerModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "ctrl+c":
		return m.apply(m.dispatch.Dispatch(view.Quit()))
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if i, ok := m.bestMatch(m.search.Value()); ok {
		next, _ := m.selectIndex(i)
		return next, cmd
	}
	return m, cmd
}

// bestMatch returns the list index of the node ID that best matches query.
func (m ExplorerModel) bestMatch(query string) (int, bool) {
	if query == "" {
		return 0, false
	}
	nodes := m.State().Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	matches := fuzzy.Find(query, ids)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Index, true
}

// selectIndex emits a selection event for list index i. Out-of-range
// moves are ignored.
func (m ExplorerModel) selectIndex(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= m.State().Len() {
		return m, nil
	}
	return m.apply(m.dispatch.Dispatch(view.Select(i)))
}

// apply performs the redraw a transition asks for.
func (m ExplorerModel) apply(r view.Render) (tea.Model, tea.Cmd) {
	switch r {
	case view.RenderQuit:
		m.quitting = true
		return m, tea.Quit
	case view.RenderAll:
		m.Offset = 0
		m.scrollToSelection()
		m.refreshPanes()
	case view.RenderPanes:
		m.scrollToSelection()
		m.refreshPanes()
	case view.RenderNone:
	}
	return m, nil
}

func (m *ExplorerModel) scrollToSelection() {
	sel := m.State().SelectedIndex()
	if sel < m.Offset {
		m.Offset = sel
	}
	if sel >= m.Offset+m.Height {
		m.Offset = sel - m.Height + 1
	}
}

// resize lays out the list and panes for a terminal of w by h cells.
func (m *ExplorerModel) resize(w, h int) {
	m.Width = w
	m.help.Width = w

	// header, blank line, status, help
	body := h - 4
	if body < 9 {
		body = 9
	}
	m.Height = body - 2
	if m.Height < 3 {
		m.Height = 3
	}

	paneW := w - m.listWidth() - 4
	if paneW < 20 {
		paneW = 20
	}
	paneH := body/3 - 3 // border and title
	if paneH < 1 {
		paneH = 1
	}
	for i := range m.panes {
		m.panes[i] = viewport.New(paneW, paneH)
	}
	m.scrollToSelection()
}

func (m ExplorerModel) listWidth() int {
	return m.Width * 2 / 5
}

// refreshPanes projects the current state into the three panes.
func (m *ExplorerModel) refreshPanes() {
	p := m.dispatch.Projection()

	runtime := make([]string, len(p.Runtime))
	for i, n := range p.Runtime {
		runtime[i] = n.ID
	}
	for i, lines := range [][]string{runtime, p.Packages, p.Reverse} {
		m.panes[i].SetContent(paneContent(lines))
		m.panes[i].GotoTop()
	}
}

func paneContent(lines []string) string {
	if len(lines) == 0 {
		return listDimStyle.Render("(none)")
	}
	return strings.Join(lines, "\n")
}

func (m ExplorerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · %d edges", m.nodes, m.edges)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewList(), m.viewPanes()))
	b.WriteString("\n")

	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

func (m ExplorerModel) viewList() string {
	s := m.State()
	nodes := s.Nodes()
	w := m.listWidth()

	var lines []string
	if len(nodes) == 0 {
		lines = append(lines, listDimStyle.Render("no nodes"))
	}

	end := m.Offset + m.Height
	if end > len(nodes) {
		end = len(nodes)
	}
	for i := m.Offset; i < end; i++ {
		n := nodes[i]

		cursor := "  "
		style := listNormalStyle
		if i == s.SelectedIndex() {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := cursor + kindStyles[n.Kind].Render(kindTag(n.Kind)) + " " + style.Render(n.ID)
		if n.Version != "" {
			line += " " + listDimStyle.Render(n.Version)
		}
		lines = append(lines, line)
	}

	box := paneStyle
	if m.focus == focusNodes {
		box = paneFocusedStyle
	}
	return box.Width(w).Height(m.Height).MaxHeight(m.Height + 2).Render(strings.Join(lines, "\n"))
}

func (m ExplorerModel) viewPanes() string {
	views := make([]string, len(m.panes))
	for i, p := range m.panes {
		box := paneStyle
		if m.focus == focusRuntime+focusPane(i) {
			box = paneFocusedStyle
		}
		views[i] = box.Width(p.Width).Render(paneTitleStyle.Render(paneTitles[i]) + "\n" + p.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

func (m ExplorerModel) viewStatus() string {
	s := m.State()

	filter := "assemblies shown"
	if !s.AssembliesVisible() {
		filter = "assemblies hidden"
	}

	pos := "[0/0]"
	if s.Len() > 0 {
		pos = fmt.Sprintf("[%d/%d]", s.SelectedIndex()+1, s.Len())
	}
	return listDimStyle.Render("  " + filter + "  " + pos)
}

// runExplorer runs the explorer until the user quits or ctx is cancelled.
func runExplorer(ctx context.Context, g *graph.Graph, name string) error {
	p := tea.NewProgram(NewExplorerModel(g, name), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("explorer: %w", err)
	}
	return nil
}
