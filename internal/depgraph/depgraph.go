// Package depgraph builds a plugin's transitive dependency closure by
// BFS, detects dependency cycles (strongly connected components of
// size > 1), and exposes the resolved set as a single Resolver layer.
package depgraph

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
)

// FindKind tags a DependencyFinder.Find result.
type FindKind int

const (
	FoundPlugin FindKind = iota
	NotFound
	Failed
)

// FindResult is one DependencyFinder.Find outcome.
type FindResult struct {
	Kind    FindKind
	Details *PluginDetails
	Reason  string
}

// PluginDetails is the minimal shape depgraph needs from a resolved
// dependency: its id, its own declared dependencies (for transitive
// closure), and the Resolver over its classes.
type PluginDetails struct {
	PluginID     string
	Dependencies []Dependency
	ClassPool    resolver.Resolver
}

// Dependency is a single declared (id, optional) pair.
type Dependency struct {
	ID       string
	Optional bool
}

// DependencyFinder is the external collaborator that resolves a plugin
// id to its details (spec.md §4.8).
type DependencyFinder interface {
	Find(pluginID string) FindResult
}

// MissingDependency is a mandatory dependency that could not be resolved.
type MissingDependency struct {
	ID     string
	Reason string
}

// Warning is a non-fatal finding surfaced during graph construction:
// an unresolved optional dependency, or a cycle.
type Warning struct {
	Message string
}

// Graph is the result of building a plugin's dependency closure.
type Graph struct {
	RootID  string
	Plugins map[string]*PluginDetails // resolved vertices, keyed by id

	Missing  []MissingDependency
	Warnings []Warning
}

// Build performs BFS from rootID (the plugin under verification, whose
// own details/deps are already known) over its declared dependencies,
// resolving each via finder, adding a vertex per resolved id and an
// edge per declared dependency, continuing transitively through each
// resolved dependency's own declared dependencies.
func Build(rootID string, rootDeps []Dependency, finder DependencyFinder) *Graph {
	g := &Graph{RootID: rootID, Plugins: make(map[string]*PluginDetails)}

	visited := map[string]bool{rootID: true}
	var edges []graphEdge
	queue := make([]Dependency, len(rootDeps))
	copy(queue, rootDeps)
	queueFrom := make([]string, len(rootDeps))
	for i := range queueFrom {
		queueFrom[i] = rootID
	}

	for len(queue) > 0 {
		dep := queue[0]
		from := queueFrom[0]
		queue = queue[1:]
		queueFrom = queueFrom[1:]

		edges = append(edges, graphEdge{from: from, to: dep.ID})

		if visited[dep.ID] {
			continue
		}
		visited[dep.ID] = true

		res := finder.Find(dep.ID)
		switch res.Kind {
		case FoundPlugin:
			g.Plugins[dep.ID] = res.Details
			for _, d := range res.Details.Dependencies {
				queue = append(queue, d)
				queueFrom = append(queueFrom, dep.ID)
			}
		case NotFound:
			if dep.Optional {
				g.Warnings = append(g.Warnings, Warning{Message: "optional dependency " + dep.ID + " not found: " + res.Reason})
			} else {
				g.Missing = append(g.Missing, MissingDependency{ID: dep.ID, Reason: res.Reason})
			}
		case Failed:
			if dep.Optional {
				g.Warnings = append(g.Warnings, Warning{Message: "optional dependency " + dep.ID + " could not be resolved: " + res.Reason})
			} else {
				g.Missing = append(g.Missing, MissingDependency{ID: dep.ID, Reason: res.Reason})
			}
		}
	}

	g.detectCycles(rootID, edges)
	return g
}

type graphEdge struct{ from, to string }

// detectCycles finds strongly connected components of size > 1 among
// the resolved vertices (plus the root) using Tarjan's algorithm, and
// attaches a single Warning per such component.
func (g *Graph) detectCycles(rootID string, rawEdges []graphEdge) {
	adj := make(map[string][]string)
	nodes := map[string]bool{rootID: true}
	for id := range g.Plugins {
		nodes[id] = true
	}
	for _, e := range rawEdges {
		if !nodes[e.from] || !nodes[e.to] {
			continue
		}
		adj[e.from] = append(adj[e.from], e.to)
	}

	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string

	var sccs [][]string
	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := range nodes {
		if _, ok := indices[v]; !ok {
			strongconnect(v)
		}
	}

	for _, scc := range sccs {
		if len(scc) > 1 {
			g.Warnings = append(g.Warnings, Warning{Message: "dependency cycle detected among plugins"})
		}
	}
}

// Resolver exposes the union of all resolved vertices' class pools as a
// single Resolver layer, suitable for appending after the host/JDK
// layers in the verification classpath.
func (g *Graph) Resolver() resolver.Resolver {
	var children []resolver.Resolver
	for _, p := range g.Plugins {
		children = append(children, p.ClassPool)
	}
	return resolver.NewUnion(children...)
}

// Close closes every resolved dependency's class pool once the job is
// done with it. The DependencyFinder that supplied a pool may still hold
// the same handle (engine.MapDependencyFinder keeps it in its map and
// hands it to later jobs).
func (g *Graph) Close() error {
	var firstErr error
	for _, p := range g.Plugins {
		if err := p.ClassPool.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
