package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

func TestIsCritical_ClassifiesReadAndLookupErrorsAsCritical(t *testing.T) {
	assert.True(t, isCritical(problem.ClassNotFound))
	assert.True(t, isCritical(problem.MethodNotFound))
	assert.True(t, isCritical(problem.InvalidClassFile))
	assert.False(t, isCritical(problem.OverridingFinalMethod))
	assert.False(t, isCritical(problem.MultipleDefaultImplementations))
}

func TestRenderProblemList_EmptyShowsGoodMessage(t *testing.T) {
	out := renderProblemList(nil, 0)
	assert.Contains(t, out, "no compatibility problems found")
}

func TestRenderProblemList_RendersEachProblem(t *testing.T) {
	problems := []problem.Problem{
		{Kind: problem.ClassNotFound, At: symref.InClass("p/A"), Ref: symref.Class("q/B")},
		{Kind: problem.OverridingFinalMethod, At: symref.InClass("p/A")},
	}
	out := renderProblemList(problems, 1)
	assert.Contains(t, out, "ClassNotFound")
	assert.Contains(t, out, "OverridingFinalMethod")
}

func TestRenderDependencyGraph_NilIsSafe(t *testing.T) {
	out := renderDependencyGraph(nil)
	assert.Contains(t, out, "no dependency graph")
}

func TestRenderDependencyGraph_ListsMissingAndWarnings(t *testing.T) {
	g := &depgraph.Graph{
		RootID:  "root",
		Plugins: map[string]*depgraph.PluginDetails{"dep-a": {PluginID: "dep-a"}},
		Missing: []depgraph.MissingDependency{{ID: "dep-b", Reason: "not found"}},
		Warnings: []depgraph.Warning{{Message: "dependency cycle detected among plugins"}},
	}
	out := renderDependencyGraph(g)
	assert.Contains(t, out, "dep-a")
	assert.Contains(t, out, "dep-b")
	assert.Contains(t, out, "cycle")
}

func TestBuildProblemKindChart_EmptyReturnsEmptyString(t *testing.T) {
	assert.Equal(t, "", buildProblemKindChart(nil, 40, 8))
}

func TestBuildProblemKindChart_NonEmptyRendersSomething(t *testing.T) {
	problems := []problem.Problem{
		{Kind: problem.ClassNotFound},
		{Kind: problem.ClassNotFound},
		{Kind: problem.MethodNotFound},
	}
	out := buildProblemKindChart(problems, 40, 8)
	assert.NotEmpty(t, out)
}

func TestNewModel_InitialTabIsProblems(t *testing.T) {
	m := NewModel(engine.VerificationResult{PluginID: "x", Kind: engine.Ok})
	assert.Equal(t, ProblemsTab, m.tab)
}
