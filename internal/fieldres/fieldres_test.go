package fieldres

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

type recordingSink struct{ problems []problem.Problem }

func (s *recordingSink) Report(p problem.Problem) { s.problems = append(s.problems, p) }

func TestResolveField_FoundOnSelf(t *testing.T) {
	r := newFakeResolver()
	c := &classfile.ClassNode{Name: "p/A", Fields: []*classfile.FieldNode{{Name: "x", Desc: "I"}}}
	r.add(c)

	fr := New(r, nil)
	lk := fr.ResolveField(c, "x", "I")
	require.Equal(t, LookupFound, lk.Kind)
	assert.Equal(t, "p/A", lk.Declaring.Name)
}

func TestResolveField_FoundOnSuperinterfaceBeforeSuperclass(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	iface := &classfile.ClassNode{Name: "p/Iface", Fields: []*classfile.FieldNode{
		{Name: "x", Desc: "I", Access: classfile.AccStatic | classfile.AccFinal},
	}}
	parent := &classfile.ClassNode{Name: "p/Parent", Super: "java/lang/Object", Fields: []*classfile.FieldNode{
		{Name: "x", Desc: "I"},
	}}
	child := &classfile.ClassNode{Name: "p/Child", Super: "p/Parent", Interfaces: []string{"p/Iface"}}
	r.add(object)
	r.add(iface)
	r.add(parent)
	r.add(child)

	fr := New(r, nil)
	lk := fr.ResolveField(child, "x", "I")
	require.Equal(t, LookupFound, lk.Kind)
	assert.Equal(t, "p/Iface", lk.Declaring.Name, "superinterfaces are searched before the superclass")
}

func TestResolveField_FallsBackToSuperclass(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	parent := &classfile.ClassNode{Name: "p/Parent", Super: "java/lang/Object", Fields: []*classfile.FieldNode{
		{Name: "x", Desc: "I"},
	}}
	child := &classfile.ClassNode{Name: "p/Child", Super: "p/Parent"}
	r.add(object)
	r.add(parent)
	r.add(child)

	fr := New(r, nil)
	lk := fr.ResolveField(child, "x", "I")
	require.Equal(t, LookupFound, lk.Kind)
	assert.Equal(t, "p/Parent", lk.Declaring.Name)
}

func TestResolveField_NotFoundReportsNothingItself(t *testing.T) {
	r := newFakeResolver()
	c := &classfile.ClassNode{Name: "p/A"}
	r.add(c)

	sink := &recordingSink{}
	fr := New(r, sink)
	lk := fr.ResolveField(c, "missing", "I")
	assert.Equal(t, LookupNotFound, lk.Kind)
	assert.Empty(t, sink.problems)
}

func TestResolveField_MissingSuperclassReportsClassNotFound(t *testing.T) {
	r := newFakeResolver()
	c := &classfile.ClassNode{Name: "p/A", Super: "p/Gone"}
	r.add(c)

	sink := &recordingSink{}
	fr := New(r, sink)
	lk := fr.ResolveField(c, "x", "I")
	assert.Equal(t, LookupNotFound, lk.Kind)
	require.Len(t, sink.problems, 1)
	assert.Equal(t, problem.ClassNotFound, sink.problems[0].Kind)
}
