// Package fieldres implements the JVM §5.4.3.2-style field resolution
// algorithm: check the class itself, then each direct superinterface in
// declaration order (each searched recursively, depth-first), then
// recurse into its superclass.
package fieldres

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

// LookupKind tags a Lookup's variant.
type LookupKind int

const (
	LookupFound LookupKind = iota
	LookupNotFound
	LookupFailed
)

type Lookup struct {
	Kind      LookupKind
	Declaring *classfile.ClassNode
	Field     *classfile.FieldNode
}

type Sink interface {
	Report(p problem.Problem)
}

type Resolver struct {
	Classes resolver.Resolver
	Sink    Sink
}

func New(classes resolver.Resolver, sink Sink) *Resolver {
	return &Resolver{Classes: classes, Sink: sink}
}

// ResolveField resolves (owner, name, desc) against the class hierarchy
// rooted at owner: (a) the class itself, (b) each direct superinterface
// in declaration order, searched recursively (depth-first) by the same
// algorithm, (c) its superclass, recursively.
func (r *Resolver) ResolveField(owner *classfile.ClassNode, name, desc string) Lookup {
	return r.resolve(owner, owner, name, desc, map[string]bool{})
}

func (r *Resolver) resolve(reportingAt, c *classfile.ClassNode, name, desc string, visited map[string]bool) Lookup {
	if visited[c.Name] {
		return Lookup{Kind: LookupNotFound}
	}
	visited[c.Name] = true

	if f := c.FindField(name, desc); f != nil {
		return Lookup{Kind: LookupFound, Declaring: c, Field: f}
	}

	for _, ifaceName := range c.Interfaces {
		iface, ok := r.resolveParent(reportingAt, ifaceName)
		if !ok {
			return Lookup{Kind: LookupFailed}
		}
		if iface == nil {
			continue
		}
		if lk := r.resolve(reportingAt, iface, name, desc, visited); lk.Kind == LookupFound {
			return lk
		} else if lk.Kind == LookupFailed {
			return lk
		}
	}

	if c.Super != "" {
		super, ok := r.resolveParent(reportingAt, c.Super)
		if !ok {
			return Lookup{Kind: LookupFailed}
		}
		if super != nil {
			return r.resolve(reportingAt, super, name, desc, visited)
		}
	}

	return Lookup{Kind: LookupNotFound}
}

func (r *Resolver) resolveParent(reportingAt *classfile.ClassNode, name string) (*classfile.ClassNode, bool) {
	res := r.Classes.Find(name)
	switch res.Kind {
	case resolver.Found:
		return res.Class, true
	case resolver.NotFound:
		r.report(problem.Problem{
			Kind: problem.ClassNotFound,
			At:   symref.InClass(reportingAt.Name),
			Ref:  symref.Class(name),
		})
		return nil, true
	default:
		kind := problem.FailedToReadClassFile
		if res.Kind == resolver.Invalid {
			kind = problem.InvalidClassFile
		}
		r.report(problem.Problem{
			Kind:   kind,
			At:     symref.InClass(reportingAt.Name),
			Ref:    symref.Class(name),
			Reason: res.Reason,
		})
		return nil, false
	}
}

func (r *Resolver) report(p problem.Problem) {
	if r.Sink != nil {
		r.Sink.Report(p)
	}
}
