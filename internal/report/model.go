// Package report renders a VerificationResult as an interactive
// terminal dashboard: a tab for the flat problem list, one for recorded
// deprecated/experimental/internal usages, and one for the resolved
// dependency graph, in the charmbracelet/bubbletea+lipgloss idiom the
// teacher's own internal/tui package is built on (plus ntcharts, which
// the teacher declares but never imports).
package report

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
	"github.com/Ololoshechkin/plugin-verifier/utils"
)

type Tab int

const (
	ProblemsTab Tab = iota
	UsagesTab
	DependenciesTab
)

func (t Tab) String() string {
	switch t {
	case ProblemsTab:
		return "Problems"
	case UsagesTab:
		return "Usages"
	case DependenciesTab:
		return "Dependencies"
	default:
		return "Unknown"
	}
}

var allTabs = []Tab{ProblemsTab, UsagesTab, DependenciesTab}

type KeyMap struct {
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the bubbletea model wrapping one VerificationResult.
type Model struct {
	result engine.VerificationResult

	tab      Tab
	width    int
	height   int
	selected int
	keys     KeyMap
}

func NewModel(result engine.VerificationResult) Model {
	return Model{result: result, keys: DefaultKeyMap()}
}

// Run starts the interactive dashboard; blocks until the user quits.
func Run(result engine.VerificationResult) error {
	m := NewModel(result)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("report TUI error: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Right):
			utils.CycleEnumPtr(&m.tab, 1, Tab(len(allTabs)-1))
			m.selected = 0
		case key.Matches(msg, m.keys.Left):
			utils.CycleEnumPtr(&m.tab, -1, Tab(len(allTabs)-1))
			m.selected = 0
		case key.Matches(msg, m.keys.Down):
			if m.tab == ProblemsTab && m.selected < len(m.result.Problems)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Up):
			if m.tab == ProblemsTab && m.selected > 0 {
				m.selected--
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	header := m.renderHeader()
	tabBar := m.renderTabBar()
	content := m.renderActiveTab()

	return lipgloss.JoinVertical(lipgloss.Left, header, tabBar, "", content)
}

func (m Model) renderHeader() string {
	return TitleStyle.Render(fmt.Sprintf("%s — %s (%s)", m.result.PluginID, m.result.Kind.String(), utils.FormatDuration(m.result.Duration)))
}

func (m Model) renderTabBar() string {
	var rendered []string
	for _, t := range allTabs {
		style := TabInactiveStyle
		if t == m.tab {
			style = TabActiveStyle
		}
		rendered = append(rendered, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderActiveTab() string {
	switch m.tab {
	case ProblemsTab:
		chart := buildProblemKindChart(m.result.Problems, max(m.width-4, 20), 8)
		list := renderProblemList(m.result.Problems, m.selected)
		if chart == "" {
			return list
		}
		return lipgloss.JoinVertical(lipgloss.Left, chart, "", list)
	case UsagesTab:
		return renderUsageList(m.result.Usages)
	case DependenciesTab:
		return renderDependencyGraph(m.result.DependencyGraph)
	default:
		return ""
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
