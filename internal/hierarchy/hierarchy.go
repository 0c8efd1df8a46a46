// Package hierarchy walks class supertype graphs: superclass chains and
// superinterface lattices, against a Resolver, with cycle-safe BFS. It
// never trusts a single class's declared parents — malformed or
// adversarial class hierarchies (including self-referential ones) must
// still terminate.
package hierarchy

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

const objectClass = "java/lang/Object"

// Sink is anything that can receive problems discovered while walking
// (ClassNotFound when a parent is missing, FailedToReadClassFile or
// InvalidClassFile when it cannot be read). Implemented by *registrar.Registrar; kept as a minimal
// interface here so this package doesn't depend on registrar.
type Sink interface {
	Report(p problem.Problem)
}

// Walker resolves parent classes against a Resolver and reports
// ClassNotFound (or a read error) for any link it cannot follow, without ever looping
// forever on a cyclic hierarchy.
type Walker struct {
	Resolver resolver.Resolver
	Sink     Sink
}

func New(r resolver.Resolver, sink Sink) *Walker {
	return &Walker{Resolver: r, Sink: sink}
}

// IsSubclassOrSelf reports whether child is parent or a transitive
// subclass/subinterface of parent, per spec: BFS over superName plus
// interfaces with a visited set, and an early-return true when parent
// is java/lang/Object.
func (w *Walker) IsSubclassOrSelf(child *classfile.ClassNode, parent string) bool {
	if child.Name == parent {
		return true
	}
	return w.IsSubclass(child, parent)
}

// IsSubclass reports whether child is a strict transitive
// subclass/subinterface of parent.
func (w *Walker) IsSubclass(child *classfile.ClassNode, parent string) bool {
	if parent == objectClass {
		return true
	}

	visited := map[string]bool{child.Name: true}
	queue := w.directParents(child)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		if name == parent {
			return true
		}
		if name == objectClass {
			continue
		}

		res := w.Resolver.Find(name)
		switch res.Kind {
		case resolver.Found:
			queue = append(queue, w.directParents(res.Class)...)
		case resolver.NotFound:
			w.reportMissingParent(child, name)
		case resolver.FailedToRead, resolver.Invalid:
			w.reportUnreadableParent(child, name, res)
		}
	}
	return false
}

func (w *Walker) directParents(c *classfile.ClassNode) []string {
	var out []string
	if c.Super != "" {
		out = append(out, c.Super)
	}
	out = append(out, c.Interfaces...)
	return out
}

func (w *Walker) reportMissingParent(walking *classfile.ClassNode, missing string) {
	if w.Sink == nil {
		return
	}
	w.Sink.Report(problem.Problem{
		Kind: problem.ClassNotFound,
		At:   symref.InClass(walking.Name),
		Ref:  symref.Class(missing),
	})
}

func (w *Walker) reportUnreadableParent(walking *classfile.ClassNode, name string, res resolver.Resolution) {
	if w.Sink == nil {
		return
	}
	kind := problem.FailedToReadClassFile
	if res.Kind == resolver.Invalid {
		kind = problem.InvalidClassFile
	}
	w.Sink.Report(problem.Problem{
		Kind:   kind,
		At:     symref.InClass(walking.Name),
		Ref:    symref.Class(name),
		Reason: res.Reason,
	})
}
