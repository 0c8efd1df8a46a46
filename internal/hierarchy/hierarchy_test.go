package hierarchy

import (
	"testing"
	"time"

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

func (f *fakeResolver) add(c *classfile.ClassNode) { f.classes[c.Name] = c }

func (f *fakeResolver) Contains(name string) bool { _, ok := f.classes[name]; return ok }
func (f *fakeResolver) Find(name string) resolver.Resolution {
	if c, ok := f.classes[name]; ok {
		return resolver.ResolutionFound(c)
	}
	return resolver.ResolutionNotFound()
}
func (f *fakeResolver) AllClassNames() []string {
	var out []string
	for n := range f.classes {
		out = append(out, n)
	}
	return out
}
func (f *fakeResolver) ClassPath() []string { return nil }
func (f *fakeResolver) Close() error        { return nil }

type recordingSink struct {
	problems []problem.Problem
}

func (s *recordingSink) Report(p problem.Problem) { s.problems = append(s.problems, p) }

func TestIsSubclassOrSelf_DirectChain(t *testing.T) {
	r := newFakeResolver()
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	a := &classfile.ClassNode{Name: "p/A", Super: "java/lang/Object"}
	b := &classfile.ClassNode{Name: "p/B", Super: "p/A"}
	r.add(object)
	r.add(a)
	r.add(b)

	w := New(r, nil)
	assert.True(t, w.IsSubclassOrSelf(b, "p/B"))
	assert.True(t, w.IsSubclassOrSelf(b, "p/A"))
	assert.True(t, w.IsSubclassOrSelf(b, "java/lang/Object"))
	assert.False(t, w.IsSubclass(b, "p/Unrelated"))
}

func TestIsSubclass_ThroughInterfaces(t *testing.T) {
	r := newFakeResolver()
	iface := &classfile.ClassNode{Name: "p/Iface", Access: classfile.AccInterface}
	impl := &classfile.ClassNode{Name: "p/Impl", Super: "java/lang/Object", Interfaces: []string{"p/Iface"}}
	r.add(iface)
	r.add(impl)

	w := New(r, nil)
	assert.True(t, w.IsSubclass(impl, "p/Iface"))
}

func TestIsSubclass_CycleTerminates(t *testing.T) {
	r := newFakeResolver()
	a := &classfile.ClassNode{Name: "p/A", Super: "p/B"}
	b := &classfile.ClassNode{Name: "p/B", Super: "p/A"}
	r.add(a)
	r.add(b)

	w := New(r, nil)
	done := make(chan bool, 1)
	go func() { done <- w.IsSubclass(a, "p/NotThere") }()
	select {
	case result := <-done:
		assert.False(t, result)
	case <-time.After(2 * time.Second):
		t.Fatal("IsSubclass did not terminate on a cyclic hierarchy")
	}
}

func TestIsSubclass_MissingParentReportsClassNotFound(t *testing.T) {
	r := newFakeResolver()
	a := &classfile.ClassNode{Name: "p/A", Super: "p/Missing"}
	r.add(a)

	sink := &recordingSink{}
	w := New(r, sink)
	found := w.IsSubclass(a, "p/SomethingElse")
	require.False(t, found)
	require.Len(t, sink.problems, 1)
	assert.Equal(t, problem.ClassNotFound, sink.problems[0].Kind)
	assert.Equal(t, "p/Missing", sink.problems[0].Ref.Owner)
}
