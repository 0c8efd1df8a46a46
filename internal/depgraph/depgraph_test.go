package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFinder struct {
	plugins map[string]*PluginDetails
}

func (f mapFinder) Find(id string) FindResult {
	if d, ok := f.plugins[id]; ok {
		return FindResult{Kind: FoundPlugin, Details: d}
	}
	return FindResult{Kind: NotFound, Reason: "no such plugin " + id}
}

func TestBuild_ResolvesTransitiveDependencies(t *testing.T) {
	finder := mapFinder{plugins: map[string]*PluginDetails{
		"dep.a": {PluginID: "dep.a", Dependencies: []Dependency{{ID: "dep.b"}}},
		"dep.b": {PluginID: "dep.b"},
	}}

	g := Build("root", []Dependency{{ID: "dep.a"}}, finder)
	require.Contains(t, g.Plugins, "dep.a")
	require.Contains(t, g.Plugins, "dep.b")
	assert.Empty(t, g.Missing)
}

func TestBuild_MandatoryUnresolvedIsMissing(t *testing.T) {
	finder := mapFinder{plugins: map[string]*PluginDetails{}}
	g := Build("root", []Dependency{{ID: "dep.gone", Optional: false}}, finder)
	require.Len(t, g.Missing, 1)
	assert.Equal(t, "dep.gone", g.Missing[0].ID)
}

func TestBuild_OptionalUnresolvedIsWarningNotMissing(t *testing.T) {
	finder := mapFinder{plugins: map[string]*PluginDetails{}}
	g := Build("root", []Dependency{{ID: "dep.gone", Optional: true}}, finder)
	assert.Empty(t, g.Missing)
	assert.NotEmpty(t, g.Warnings)
}

func TestBuild_CycleDetectedOnce(t *testing.T) {
	finder := mapFinder{plugins: map[string]*PluginDetails{
		"dep.a": {PluginID: "dep.a", Dependencies: []Dependency{{ID: "dep.b"}}},
		"dep.b": {PluginID: "dep.b", Dependencies: []Dependency{{ID: "dep.a"}}},
	}}

	g := Build("root", []Dependency{{ID: "dep.a"}}, finder)
	cycleWarnings := 0
	for _, w := range g.Warnings {
		if w.Message == "dependency cycle detected among plugins" {
			cycleWarnings++
		}
	}
	assert.Equal(t, 1, cycleWarnings, "a single SCC must produce exactly one warning")
}
