package report

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
)

// buildProblemKindChart renders a bar chart of problem
// counts grouped by Kind, using the teacher's own (declared but
// previously unwired) ntcharts dependency.
func buildProblemKindChart(problems []problem.Problem, width, height int) string {
	counts := map[problem.Kind]int{}
	order := make([]problem.Kind, 0)
	for _, p := range problems {
		if _, ok := counts[p.Kind]; !ok {
			order = append(order, p.Kind)
		}
		counts[p.Kind]++
	}
	if len(order) == 0 {
		return ""
	}

	bc := barchart.New(width, height)
	for _, k := range order {
		style := WarningStyle
		if isCritical(k) {
			style = CriticalStyle
		}
		bc.Push(barchart.BarData{
			Label: k.String(),
			Values: []barchart.BarValue{
				{Name: k.String(), Value: float64(counts[k]), Style: lipgloss.NewStyle().Inherit(style)},
			},
		})
	}
	bc.Draw()
	return bc.View()
}
