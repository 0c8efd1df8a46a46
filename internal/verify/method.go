package verify

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

// verifyOverridesFinal reports OverridingFinalMethod when method
// overrides a final, non-abstract ancestor method — grounded directly
// on the original verifier's OverrideNonFinalVerifier, which walks only
// the superclass chain (not superinterfaces) since a final method can
// only ever be overridden, illegally, along a class inheritance line.
func (c *Context) verifyOverridesFinal(class *classfile.ClassNode, method *classfile.MethodNode) {
	if method.IsPrivate() || method.IsStatic() || method.IsConstructor() || method.IsClassInit() {
		return
	}
	if class.Super == "" {
		return
	}

	at := symref.InClass(class.Name)
	super, ok := c.resolveClass(at, class.Super)
	if !ok {
		return
	}

	ancestorMethod := c.findInSuperclassChain(at, super, method.Name, method.Desc)
	if ancestorMethod == nil {
		return
	}
	if ancestorMethod.IsFinal() && !ancestorMethod.IsAbstract() {
		c.Sink.Report(problem.Problem{
			Kind: problem.OverridingFinalMethod,
			At:   symref.InMethod(class.Name, method.Name, method.Desc),
			Ref:  symref.Method(class.Name, method.Name, method.Desc),
			Ref2: symref.Method(ancestorMethod.Owner.Name, ancestorMethod.Name, ancestorMethod.Desc),
		})
	}
}

func (c *Context) findInSuperclassChain(at symref.Location, start *classfile.ClassNode, name, desc string) *classfile.MethodNode {
	cur := start
	visited := map[string]bool{}
	for cur != nil && !visited[cur.Name] {
		visited[cur.Name] = true
		if m := cur.FindMethod(name, desc); m != nil {
			return m
		}
		if cur.Super == "" {
			return nil
		}
		next, ok := c.resolveClass(at, cur.Super)
		if !ok {
			return nil
		}
		cur = next
	}
	return nil
}
