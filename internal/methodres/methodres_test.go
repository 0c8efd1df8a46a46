package methodres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
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

type recordingSink struct{ problems []problem.Problem }

func (s *recordingSink) Report(p problem.Problem) { s.problems = append(s.problems, p) }

func TestResolveClassMethod_FoundOnSelf(t *testing.T) {
	r := newFakeResolver()
	c := &classfile.ClassNode{Name: "p/A", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V"},
	}}
	r.add(c)

	mr := New(r, nil)
	lk := mr.ResolveClassMethod(c, "m", "()V")
	require.Equal(t, LookupFound, lk.Kind)
	assert.Equal(t, "p/A", lk.Declaring.Name)
}

func TestResolveClassMethod_WalksSuperclassChain(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	a := &classfile.ClassNode{Name: "p/A", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccFinal},
	}}
	b := &classfile.ClassNode{Name: "p/B", Super: "p/A"}
	r.add(object)
	r.add(a)
	r.add(b)

	mr := New(r, nil)
	lk := mr.ResolveClassMethod(b, "m", "()V")
	require.Equal(t, LookupFound, lk.Kind)
	assert.Equal(t, "p/A", lk.Declaring.Name)
	assert.True(t, lk.Method.IsFinal())
}

func TestResolveClassMethod_OnInterfaceFailsWithIncompatibleChange(t *testing.T) {
	r := newFakeResolver()
	iface := &classfile.ClassNode{Name: "p/Iface", Access: classfile.AccInterface}
	r.add(iface)

	sink := &recordingSink{}
	mr := New(r, sink)
	lk := mr.ResolveClassMethod(iface, "m", "()V")
	require.Equal(t, LookupFailed, lk.Kind)
	require.Len(t, sink.problems, 1)
	assert.Equal(t, problem.IncompatibleClassToInterfaceChange, sink.problems[0].Kind)
}

func TestResolveInterfaceMethod_OnClassFailsWithIncompatibleChange(t *testing.T) {
	r := newFakeResolver()
	class := &classfile.ClassNode{Name: "p/Impl", Super: "java/lang/Object"}
	r.add(class)

	sink := &recordingSink{}
	mr := New(r, sink)
	lk := mr.ResolveInterfaceMethod(class, "m", "()V")
	require.Equal(t, LookupFailed, lk.Kind)
	require.Len(t, sink.problems, 1)
	assert.Equal(t, problem.IncompatibleInterfaceToClassChange, sink.problems[0].Kind)
}

func TestMaximallySpecificSuperinterfaceMethod_UniqueDefaultWins(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	grandparent := &classfile.ClassNode{Name: "p/Grandparent", Access: classfile.AccInterface, Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V"}, // no AccAbstract flag, so a concrete default in this model
	}}
	parent := &classfile.ClassNode{
		Name: "p/Parent", Access: classfile.AccInterface, Interfaces: []string{"p/Grandparent"},
		Methods: []*classfile.MethodNode{{Name: "m", Desc: "()V"}}, // overrides with a concrete default
	}
	impl := &classfile.ClassNode{Name: "p/Impl", Super: "java/lang/Object", Interfaces: []string{"p/Parent"}}
	r.add(object)
	r.add(grandparent)
	r.add(parent)
	r.add(impl)

	mr := New(r, nil)
	lk := mr.ResolveClassMethod(impl, "m", "()V")
	require.Equal(t, LookupFound, lk.Kind)
	assert.Equal(t, "p/Parent", lk.Declaring.Name, "the subinterface's method must shadow the grandparent's")
}

func TestMaximallySpecificSuperinterfaceMethod_TwoUnrelatedDefaultsIsAmbiguous(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	ifaceA := &classfile.ClassNode{Name: "p/IfaceA", Access: classfile.AccInterface, Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V"},
	}}
	ifaceB := &classfile.ClassNode{Name: "p/IfaceB", Access: classfile.AccInterface, Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V"},
	}}
	impl := &classfile.ClassNode{Name: "p/Impl", Super: "java/lang/Object", Interfaces: []string{"p/IfaceA", "p/IfaceB"}}
	r.add(object)
	r.add(ifaceA)
	r.add(ifaceB)
	r.add(impl)

	mr := New(r, nil)
	lk := mr.ResolveClassMethod(impl, "m", "()V")
	require.Equal(t, LookupFound, lk.Kind, "no unique maximally-specific default, so lookup falls back to any non-private non-static superinterface method")
	assert.Equal(t, "p/IfaceA", lk.Declaring.Name, "the fallback returns the first match in superinterface BFS order")
}

func TestSignaturePolymorphicMethod_MatchesNativeVarargsObjectArray(t *testing.T) {
	r := newFakeResolver()
	mh := &classfile.ClassNode{Name: "java/lang/invoke/MethodHandle", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "invoke", Desc: "([Ljava/lang/Object;)Ljava/lang/Object;", Access: classfile.AccNative | classfile.AccVarargs | classfile.AccPublic},
	}}
	r.add(mh)

	mr := New(r, nil)
	lk := mr.ResolveClassMethod(mh, "invoke", "(I)V") // descriptor deliberately mismatched
	require.Equal(t, LookupFound, lk.Kind)
	assert.True(t, lk.SignaturePolymorphic)
}

func TestSignaturePolymorphicMethod_NotBroadenedToOtherClasses(t *testing.T) {
	r := newFakeResolver()
	other := &classfile.ClassNode{Name: "p/NotAHandle", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "invoke", Desc: "([Ljava/lang/Object;)Ljava/lang/Object;", Access: classfile.AccNative | classfile.AccVarargs | classfile.AccPublic},
	}}
	r.add(other)

	mr := New(r, nil)
	lk := mr.ResolveClassMethod(other, "invoke", "(I)V")
	assert.Equal(t, LookupNotFound, lk.Kind, "signature-polymorphic detection must not broaden beyond MethodHandle/VarHandle")
}
