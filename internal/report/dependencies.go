package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
)

// renderDependencyGraph summarizes a resolved dependency graph: every
// resolved plugin vertex, every mandatory-missing dependency, and every
// warning (unresolved optional dependency or a detected cycle).
func renderDependencyGraph(g *depgraph.Graph) string {
	if g == nil {
		return MutedStyle.Render("no dependency graph available")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", TitleStyle.Render("root: "+g.RootID))

	ids := make([]string, 0, len(g.Plugins))
	for id := range g.Plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		b.WriteString(MutedStyle.Render("no transitive dependencies resolved") + "\n")
	}
	for _, id := range ids {
		p := g.Plugins[id]
		fmt.Fprintf(&b, "%s %s (%d declared dependencies)\n", GoodStyle.Render("●"), id, len(p.Dependencies))
	}

	if len(g.Missing) > 0 {
		b.WriteString("\n" + CriticalStyle.Render("missing mandatory dependencies:") + "\n")
		for _, m := range g.Missing {
			fmt.Fprintf(&b, "  %s %s: %s\n", CriticalStyle.Render("✗"), m.ID, m.Reason)
		}
	}

	if len(g.Warnings) > 0 {
		b.WriteString("\n" + WarningStyle.Render("warnings:") + "\n")
		for _, w := range g.Warnings {
			fmt.Fprintf(&b, "  %s %s\n", WarningStyle.Render("⚠"), w.Message)
		}
	}

	return b.String()
}
