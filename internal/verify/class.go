package verify

import (
	"sort"

	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

// VerifyClass runs every class-level, method-level, field-level and
// instruction-level check against one plugin class (spec.md §4.6/§4.7,
// plus the per-instruction checks dispatched from verifyInstruction).
func (c *Context) VerifyClass(class *classfile.ClassNode) {
	c.verifySuperclass(class)
	c.verifySuperinterfaces(class)
	c.verifyAbstractMethodsImplemented(class)
	c.verifyMultipleDefaultImplementations(class)

	for _, m := range class.Methods {
		c.verifyOverridesFinal(class, m)
		for _, insn := range m.Instructions {
			c.verifyInstruction(class, m, insn)
		}
	}

	for _, f := range class.Fields {
		typeName, err := classfile.ExtractClassNameFromTypeDescriptor(f.Desc)
		if err != nil || typeName == "" {
			continue
		}
		c.resolveClass(symref.InField(class.Name, f.Name, f.Desc), typeName)
	}
}

func (c *Context) verifySuperclass(class *classfile.ClassNode) {
	if class.Super == "" {
		return
	}
	at := symref.InClass(class.Name)
	super, ok := c.resolveClass(at, class.Super)
	if !ok {
		return
	}
	if super.IsInterface() {
		c.Sink.Report(problem.Problem{Kind: problem.SuperClassBecameInterface, At: at, Ref: symref.Class(class.Super)})
		return
	}
	if super.IsFinal() {
		c.Sink.Report(problem.Problem{Kind: problem.InheritFromFinalClass, At: at, Ref: symref.Class(class.Super)})
	}
}

func (c *Context) verifySuperinterfaces(class *classfile.ClassNode) {
	at := symref.InClass(class.Name)
	for _, ifaceName := range class.Interfaces {
		iface, ok := c.resolveClass(at, ifaceName)
		if !ok {
			continue
		}
		if !iface.IsInterface() {
			c.Sink.Report(problem.Problem{Kind: problem.SuperInterfaceBecameClass, At: at, Ref: symref.Class(ifaceName)})
		}
	}
}

// verifyAbstractMethodsImplemented walks every ancestor (superclasses
// and superinterfaces) of a non-abstract, non-interface class, collects
// abstract method signatures, and subtracts any signature that has a
// concrete (non-abstract) override somewhere along the chain —
// including on the class itself.
func (c *Context) verifyAbstractMethodsImplemented(class *classfile.ClassNode) {
	if class.IsInterface() || class.IsAbstract() {
		return
	}

	type sig struct{ name, desc string }
	abstractSigs := make(map[sig]bool)
	concreteSigs := make(map[sig]bool)

	visited := map[string]bool{}
	var walk func(cn *classfile.ClassNode)
	walk = func(cn *classfile.ClassNode) {
		if cn == nil || visited[cn.Name] {
			return
		}
		visited[cn.Name] = true

		for _, m := range cn.Methods {
			if m.IsConstructor() || m.IsClassInit() || m.IsStatic() || m.IsPrivate() {
				continue
			}
			s := sig{m.Name, m.Desc}
			if m.IsAbstract() {
				if !concreteSigs[s] {
					abstractSigs[s] = true
				}
			} else {
				concreteSigs[s] = true
				delete(abstractSigs, s)
			}
		}

		if cn.Super != "" {
			if super, ok := c.resolveClass(symref.InClass(class.Name), cn.Super); ok {
				walk(super)
			}
		}
		for _, ifaceName := range cn.Interfaces {
			if iface, ok := c.resolveClass(symref.InClass(class.Name), ifaceName); ok {
				walk(iface)
			}
		}
	}
	walk(class)

	if len(abstractSigs) == 0 {
		return
	}
	at := symref.InClass(class.Name)

	ordered := make([]sig, 0, len(abstractSigs))
	for s := range abstractSigs {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].name != ordered[j].name {
			return ordered[i].name < ordered[j].name
		}
		return ordered[i].desc < ordered[j].desc
	})

	for _, s := range ordered {
		c.Sink.Report(problem.Problem{
			Kind: problem.MethodNotImplemented,
			At:   at,
			Ref:  symref.Method(class.Name, s.name, s.desc),
		})
	}
}

// verifyMultipleDefaultImplementations reports when class declares
// neither an override nor an abstract redeclaration of (name, desc),
// and two or more of its direct/indirect superinterfaces provide
// unrelated (neither a subinterface of the other) concrete default
// implementations.
type defaultImplSite struct {
	iface *classfile.ClassNode
}

func (c *Context) verifyMultipleDefaultImplementations(class *classfile.ClassNode) {
	if class.IsInterface() {
		return
	}

	type sig struct{ name, desc string }
	defaults := make(map[sig][]defaultImplSite)

	visited := map[string]bool{class.Name: true}
	queue := append([]string{}, class.Interfaces...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		iface, ok := c.resolveClass(symref.InClass(class.Name), name)
		if !ok {
			continue
		}
		for _, m := range iface.Methods {
			if m.IsAbstract() || m.IsStatic() || m.IsPrivate() {
				continue
			}
			s := sig{m.Name, m.Desc}
			defaults[s] = append(defaults[s], defaultImplSite{iface: iface})
		}
		queue = append(queue, iface.Interfaces...)
	}

	at := symref.InClass(class.Name)

	ordered := make([]sig, 0, len(defaults))
	for s := range defaults {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].name != ordered[j].name {
			return ordered[i].name < ordered[j].name
		}
		return ordered[i].desc < ordered[j].desc
	})

	for _, s := range ordered {
		sites := defaults[s]
		if len(sites) < 2 {
			continue
		}
		if m := class.FindMethod(s.name, s.desc); m != nil {
			continue // class itself overrides or redeclares abstractly
		}
		if !hasUnrelatedPair(c, sites) {
			continue
		}
		c.Sink.Report(problem.Problem{
			Kind: problem.MultipleDefaultImplementations,
			At:   at,
			Ref:  symref.Method(class.Name, s.name, s.desc),
		})
	}
}

func hasUnrelatedPair(c *Context, sites []defaultImplSite) bool {
	for i := range sites {
		for j := range sites {
			if i == j {
				continue
			}
			if sites[i].iface.Name == sites[j].iface.Name {
				continue
			}
			iRelated := c.walker.IsSubclass(sites[i].iface, sites[j].iface.Name) || c.walker.IsSubclass(sites[j].iface, sites[i].iface.Name)
			if !iRelated {
				return true
			}
		}
	}
	return false
}
