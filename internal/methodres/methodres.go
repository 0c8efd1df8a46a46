// Package methodres implements the JVM §5.4.3.3/§5.4.3.4-style method
// resolution algorithms: class-method lookup and interface-method
// lookup, including maximally-specific-superinterface-method selection
// and signature-polymorphic method detection.
package methodres

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/hierarchy"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

const (
	objectClass       = "java/lang/Object"
	methodHandleClass = "java/lang/invoke/MethodHandle"
	varHandleClass    = "java/lang/invoke/VarHandle"
)

// LookupKind tags a Lookup's variant.
type LookupKind int

const (
	LookupFound LookupKind = iota
	LookupNotFound
	LookupFailed
)

// Lookup is the result of resolving a method: either a declaring class
// and method, a definite absence, or Failed — meaning a prerequisite
// class resolution already registered a problem and the caller should
// abandon this invocation's remaining checks.
type Lookup struct {
	Kind        LookupKind
	Declaring   *classfile.ClassNode
	Method      *classfile.MethodNode
	SignaturePolymorphic bool
}

// Sink receives problems discovered during resolution.
type Sink interface {
	Report(p problem.Problem)
}

type Resolver struct {
	Classes resolver.Resolver
	Walker  *hierarchy.Walker
	Sink    Sink
}

func New(classes resolver.Resolver, sink Sink) *Resolver {
	return &Resolver{Classes: classes, Walker: hierarchy.New(classes, sinkAdapter{sink}), Sink: sink}
}

type sinkAdapter struct{ Sink }

func (s sinkAdapter) Report(p problem.Problem) {
	if s.Sink != nil {
		s.Sink.Report(p)
	}
}

// ResolveClassMethod implements the class-method lookup algorithm
// (step numbers follow the JVM §5.4.3.3 analogue).
func (r *Resolver) ResolveClassMethod(c *classfile.ClassNode, name, desc string) Lookup {
	if c.IsInterface() {
		r.report(problem.Problem{
			Kind: problem.IncompatibleClassToInterfaceChange,
			At:   symref.InClass(c.Name),
			Ref:  symref.Class(c.Name),
		})
		return Lookup{Kind: LookupFailed}
	}

	cur := c
	for {
		if sp := signaturePolymorphicMethod(cur, name); sp != nil {
			return Lookup{Kind: LookupFound, Declaring: cur, Method: sp, SignaturePolymorphic: true}
		}
		if m := cur.FindMethod(name, desc); m != nil {
			return Lookup{Kind: LookupFound, Declaring: cur, Method: m}
		}

		if cur.Super == "" {
			break
		}
		next, ok := r.resolveParent(c, cur.Super)
		if !ok {
			return Lookup{Kind: LookupFailed}
		}
		if next == nil {
			break
		}
		cur = next
	}

	if lk := r.maximallySpecificSuperinterfaceMethod(c, name, desc); lk.Kind == LookupFound {
		return lk
	}
	if lk := r.anyNonPrivateNonStaticSuperinterfaceMethod(c, name, desc); lk.Kind == LookupFound {
		return lk
	}
	return Lookup{Kind: LookupNotFound}
}

// ResolveInterfaceMethod implements the interface-method lookup algorithm.
func (r *Resolver) ResolveInterfaceMethod(c *classfile.ClassNode, name, desc string) Lookup {
	if !c.IsInterface() {
		r.report(problem.Problem{
			Kind: problem.IncompatibleInterfaceToClassChange,
			At:   symref.InClass(c.Name),
			Ref:  symref.Class(c.Name),
		})
		return Lookup{Kind: LookupFailed}
	}

	if m := c.FindMethod(name, desc); m != nil {
		return Lookup{Kind: LookupFound, Declaring: c, Method: m}
	}

	if object, ok := r.resolveParent(c, objectClass); ok && object != nil {
		if m := object.FindMethod(name, desc); m != nil && m.IsPublic() && !m.IsStatic() {
			return Lookup{Kind: LookupFound, Declaring: object, Method: m}
		}
	}

	if lk := r.maximallySpecificSuperinterfaceMethod(c, name, desc); lk.Kind == LookupFound {
		return lk
	}
	if lk := r.anyNonPrivateNonStaticSuperinterfaceMethod(c, name, desc); lk.Kind == LookupFound {
		return lk
	}
	return Lookup{Kind: LookupNotFound}
}

// signaturePolymorphicMethod returns X's sole method named `name` if X is
// MethodHandle/VarHandle and that method is native+varargs with exactly
// one parameter of type Object[]. Descriptor is deliberately not matched
// — per the Open Question decision, this detection is NOT broadened
// beyond the name/native/varargs/one-Object[]-parameter shape.
func signaturePolymorphicMethod(x *classfile.ClassNode, name string) *classfile.MethodNode {
	if x.Name != methodHandleClass && x.Name != varHandleClass {
		return nil
	}
	candidates := x.FindMethodsByName(name)
	if len(candidates) != 1 {
		return nil
	}
	m := candidates[0]
	if !m.IsNative() || !m.IsVarargs() {
		return nil
	}
	params, err := classfile.DescriptorParameterTypes(m.Desc)
	if err != nil || len(params) != 1 || params[0] != "[Ljava/lang/Object;" {
		return nil
	}
	return m
}

// collectSuperinterfaceMethods collects every method reached by BFS over the
// transitive superinterfaces of c (direct interfaces of c, and
// recursively their own superinterfaces) matching (name, desc) that is
// neither private nor static, alongside the interface that declares it.
type superinterfaceMatch struct {
	iface  *classfile.ClassNode
	method *classfile.MethodNode
}

func (r *Resolver) collectSuperinterfaceMethods(c *classfile.ClassNode, name, desc string) ([]superinterfaceMatch, bool) {
	visited := map[string]bool{c.Name: true}
	queue := append([]string{}, c.Interfaces...)
	var matches []superinterfaceMatch

	for len(queue) > 0 {
		ifaceName := queue[0]
		queue = queue[1:]
		if visited[ifaceName] {
			continue
		}
		visited[ifaceName] = true

		iface, ok := r.resolveParent(c, ifaceName)
		if !ok {
			return nil, false
		}
		if iface == nil {
			continue
		}

		if m := iface.FindMethod(name, desc); m != nil && !m.IsPrivate() && !m.IsStatic() {
			matches = append(matches, superinterfaceMatch{iface: iface, method: m})
		}
		queue = append(queue, iface.Interfaces...)
	}
	return matches, true
}

// maximallySpecificSuperinterfaceMethod keeps match m declared in
// interface I iff no other match is declared in a strict subinterface
// of I, then returns it only when the surviving set has exactly one
// member and that member is non-abstract (concrete default method).
func (r *Resolver) maximallySpecificSuperinterfaceMethod(c *classfile.ClassNode, name, desc string) Lookup {
	matches, ok := r.collectSuperinterfaceMethods(c, name, desc)
	if !ok {
		return Lookup{Kind: LookupFailed}
	}
	maximal := r.filterMaximallySpecific(matches)
	if len(maximal) != 1 {
		return Lookup{Kind: LookupNotFound}
	}
	winner := maximal[0]
	if winner.method.IsAbstract() {
		return Lookup{Kind: LookupNotFound}
	}
	return Lookup{Kind: LookupFound, Declaring: winner.iface, Method: winner.method}
}

func (r *Resolver) anyNonPrivateNonStaticSuperinterfaceMethod(c *classfile.ClassNode, name, desc string) Lookup {
	matches, ok := r.collectSuperinterfaceMethods(c, name, desc)
	if !ok {
		return Lookup{Kind: LookupFailed}
	}
	if len(matches) == 0 {
		return Lookup{Kind: LookupNotFound}
	}
	winner := matches[0]
	return Lookup{Kind: LookupFound, Declaring: winner.iface, Method: winner.method}
}

// filterMaximallySpecific drops any match declared in interface I when
// another match is declared in a strict subinterface of I (i.e. I
// appears, transitively, among that subinterface's superinterfaces).
func (r *Resolver) filterMaximallySpecific(matches []superinterfaceMatch) []superinterfaceMatch {
	var out []superinterfaceMatch
	for _, m := range matches {
		shadowed := false
		for _, other := range matches {
			if other.iface.Name == m.iface.Name {
				continue
			}
			if r.isStrictSubinterface(other.iface, m.iface.Name) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			out = append(out, m)
		}
	}
	return out
}

func (r *Resolver) isStrictSubinterface(candidate *classfile.ClassNode, ancestorName string) bool {
	return r.Walker.IsSubclass(candidate, ancestorName)
}

// resolveParent resolves a named parent class relative to the class
// `reportingAt` that is being analyzed, for location purposes. Returns
// (nil, true) when the parent is NotFound but a problem was already
// registered and the caller should treat the branch as a dead end
// rather than a hard failure; (nil, false) only on FailedToRead/Invalid
// where the enclosing invocation must be abandoned.
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
