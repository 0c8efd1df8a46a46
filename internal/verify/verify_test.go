package verify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/registrar"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
)

type fakeResolver struct {
	classes map[string]*classfile.ClassNode
}

func newFakeResolver() *fakeResolver { return &fakeResolver{classes: map[string]*classfile.ClassNode{}} }

func (f *fakeResolver) add(c *classfile.ClassNode) {
	for _, m := range c.Methods {
		m.Owner = c
	}
	for _, fd := range c.Fields {
		fd.Owner = c
	}
	f.classes[c.Name] = c
}

func (f *fakeResolver) Contains(name string) bool { _, ok := f.classes[name]; return ok }
func (f *fakeResolver) Find(name string) resolver.Resolution {
	if c, ok := f.classes[name]; ok {
		return resolver.ResolutionFound(c)
	}
	return resolver.ResolutionNotFound()
}
func (f *fakeResolver) AllClassNames() []string { return nil }
func (f *fakeResolver) ClassPath() []string     { return nil }
func (f *fakeResolver) Close() error            { return nil }

func invoke(owner, name, desc string, opcode classfile.Opcode, itf bool) classfile.Instruction {
	return classfile.Instruction{Opcode: opcode, Owner: owner, Name: name, Desc: desc, IsItf: itf}
}

// Scenario 1: override final.
func TestScenario_OverrideFinal(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	a := &classfile.ClassNode{Name: "p/A", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccFinal},
	}}
	b := &classfile.ClassNode{Name: "q/B", Super: "p/A", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic},
	}}
	r.add(object)
	r.add(a)
	r.add(b)

	reg := registrar.New(nil)
	ctx := NewContext(r, reg, nil, false)
	ctx.VerifyClass(b)

	problems := reg.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, problem.OverridingFinalMethod, problems[0].Kind)
	assert.Equal(t, "q/B.m()V", problems[0].Ref.String())
	assert.Equal(t, "p/A.m()V", problems[0].Ref2.String())
}

// Scenario 2: invoke virtual on static.
func TestScenario_InvokeVirtualOnStatic(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	s := &classfile.ClassNode{Name: "p/S", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "s", Desc: "()V", Access: classfile.AccPublic | classfile.AccStatic},
	}}
	caller := &classfile.ClassNode{Name: "q/P", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "run", Desc: "()V", Instructions: []classfile.Instruction{
			invoke("p/S", "s", "()V", classfile.OpInvokeVirtual, false),
		}},
	}}
	r.add(object)
	r.add(s)
	r.add(caller)

	reg := registrar.New(nil)
	ctx := NewContext(r, reg, nil, false)
	ctx.VerifyClass(caller)

	problems := reg.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, problem.InvokeVirtualOnStaticMethod, problems[0].Kind)
}

// Scenario 3: package not found rollup of 15 ClassNotFounds.
func TestScenario_PackageNotFound(t *testing.T) {
	r := newFakeResolver()
	var instructions []classfile.Instruction
	for i := 0; i < registrar.PackageNotFoundThreshold; i++ {
		instructions = append(instructions, invoke(fmt.Sprintf("removed/pkg/Class%d", i), "x", "()V", classfile.OpInvokeStatic, false))
	}
	caller := &classfile.ClassNode{Name: "q/P", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "run", Desc: "()V", Instructions: instructions},
	}}
	r.add(&classfile.ClassNode{Name: "java/lang/Object"})
	r.add(caller)

	reg := registrar.New(nil)
	ctx := NewContext(r, reg, nil, false)
	ctx.VerifyClass(caller)

	problems := reg.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, problem.PackageNotFound, problems[0].Kind)
	assert.Equal(t, "removed/pkg", problems[0].PackagePrefix)
	assert.Len(t, problems[0].Children, registrar.PackageNotFoundThreshold)
}

// Scenario 4: interface became class.
func TestScenario_InterfaceBecameClass(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	iface := &classfile.ClassNode{Name: "p/Iface", Super: "java/lang/Object"} // no longer an interface
	impl := &classfile.ClassNode{Name: "q/Impl", Super: "java/lang/Object", Interfaces: []string{"p/Iface"}}
	r.add(object)
	r.add(iface)
	r.add(impl)

	reg := registrar.New(nil)
	ctx := NewContext(r, reg, nil, false)
	ctx.VerifyClass(impl)

	problems := reg.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, problem.SuperInterfaceBecameClass, problems[0].Kind)
	assert.Equal(t, "p/Iface", problems[0].Ref.Owner)
}

// Scenario 5: missing default + multiple defaults.
func TestScenario_MultipleDefaultImplementations(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	ifaceA := &classfile.ClassNode{Name: "p/IfaceA", Access: classfile.AccInterface, Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic},
	}}
	ifaceB := &classfile.ClassNode{Name: "p/IfaceB", Access: classfile.AccInterface, Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic},
	}}
	c := &classfile.ClassNode{Name: "q/C", Super: "java/lang/Object", Interfaces: []string{"p/IfaceA", "p/IfaceB"}}
	r.add(object)
	r.add(ifaceA)
	r.add(ifaceB)
	r.add(c)

	reg := registrar.New(nil)
	ctx := NewContext(r, reg, nil, false)
	ctx.VerifyClass(c)

	problems := reg.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, problem.MultipleDefaultImplementations, problems[0].Kind)
	assert.Equal(t, "q/C", problems[0].Ref.Owner)
}

// Scenario 6: external package suppresses errors.
func TestScenario_ExternalPackageSuppressesErrors(t *testing.T) {
	r := newFakeResolver()
	caller := &classfile.ClassNode{Name: "q/P", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "run", Desc: "()V", Instructions: []classfile.Instruction{
			invoke("org/unknown/X", "x", "()V", classfile.OpInvokeStatic, false),
			invoke("com/absent/Y", "y", "()V", classfile.OpInvokeStatic, false),
		}},
	}}
	r.add(&classfile.ClassNode{Name: "java/lang/Object"})
	r.add(caller)

	external, err := resolver.NewExternal([]string{"org/unknown"})
	require.NoError(t, err)

	reg := registrar.New(nil)
	ctx := NewContext(r, reg, external, false)
	ctx.VerifyClass(caller)

	problems := reg.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, problem.ClassNotFound, problems[0].Kind)
	assert.Equal(t, "com/absent/Y", problems[0].Ref.Owner)
}
