package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
)

// renderProblemList renders problems as a scrollable list of entries,
// one selector/description pair per problem, mirroring the
// selected/expanded-item shape of a bubbletea issue browser.
func renderProblemList(problems []problem.Problem, selected int) string {
	if len(problems) == 0 {
		return GoodStyle.Render("no compatibility problems found")
	}

	var lines []string
	for i, p := range problems {
		lines = append(lines, renderProblemItem(p, i == selected)...)
	}
	return strings.Join(lines, "\n")
}

func renderProblemItem(p problem.Problem, isSelected bool) []string {
	style := severityStyle(isCritical(p.Kind))

	selector := " "
	if isSelected {
		selector = "▶"
	}

	title := fmt.Sprintf("%s %s", selector, p.Kind.String())
	if isSelected {
		title = lipgloss.NewStyle().Background(InfoColor).Foreground(lipgloss.Color("#FFFFFF")).Render(title)
	} else {
		title = style.Render(title)
	}

	detail := MutedStyle.Render("  ├─ " + p.ShortDescription())
	location := MutedStyle.Render("  └─ at " + p.At.String())

	return []string{title, detail, location}
}

func renderUsageList(usages []problem.Usage) string {
	if len(usages) == 0 {
		return MutedStyle.Render("no deprecated/experimental/internal usages recorded")
	}
	var lines []string
	for _, u := range usages {
		lines = append(lines, fmt.Sprintf("%s %s at %s", InfoStyle.Render(u.Kind.String()), u.Ref.String(), u.At.String()))
	}
	return strings.Join(lines, "\n")
}
