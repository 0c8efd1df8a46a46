package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
	"github.com/Ololoshechkin/plugin-verifier/internal/errs"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
)

type memResolver struct {
	classes map[string]*classfile.ClassNode
}

func newMemResolver(classes ...*classfile.ClassNode) *memResolver {
	m := &memResolver{classes: map[string]*classfile.ClassNode{}}
	for _, c := range classes {
		for _, meth := range c.Methods {
			meth.Owner = c
		}
		m.classes[c.Name] = c
	}
	return m
}

func (r *memResolver) Contains(name string) bool { _, ok := r.classes[name]; return ok }
func (r *memResolver) Find(name string) resolver.Resolution {
	if c, ok := r.classes[name]; ok {
		return resolver.ResolutionFound(c)
	}
	return resolver.ResolutionNotFound()
}
func (r *memResolver) AllClassNames() []string {
	names := make([]string, 0, len(r.classes))
	for n := range r.classes {
		names = append(names, n)
	}
	return names
}
func (r *memResolver) ClassPath() []string { return nil }
func (r *memResolver) Close() error        { return nil }

type fakePlugin struct {
	id      string
	deps    []depgraph.Dependency
	classes resolver.Resolver
	check   []string
}

func (p *fakePlugin) PluginID() string                           { return p.id }
func (p *fakePlugin) DeclaredDependencies() []depgraph.Dependency { return p.deps }
func (p *fakePlugin) PluginClassResolver() resolver.Resolver      { return p.classes }
func (p *fakePlugin) ClassesToCheck() []string                    { return p.check }
func (p *fakePlugin) Close() error                                { return nil }

type fakeIde struct {
	version string
	classes resolver.Resolver
}

func (i *fakeIde) Version() string                 { return i.version }
func (i *fakeIde) ClassResolver() resolver.Resolver { return i.classes }
func (i *fakeIde) BundledJDK() (JdkDescriptor, bool) { return nil, false }
func (i *fakeIde) Close() error                      { return nil }

type noDepsFinder struct{}

func (noDepsFinder) Find(id string) depgraph.FindResult {
	return depgraph.FindResult{Kind: depgraph.NotFound, Reason: "no deps in this test"}
}

func TestJob_Run_OkWhenNoProblems(t *testing.T) {
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	plugin := &classfile.ClassNode{Name: "p/Plugin", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "run", Desc: "()V"},
	}}
	ide := newMemResolver(object)
	pluginClasses := newMemResolver(plugin)

	job := NewJob(Request{
		Plugin: &fakePlugin{id: "my-plugin", classes: pluginClasses, check: []string{"p/Plugin"}},
		Ide:    &fakeIde{version: "2024.1", classes: ide},
		Finder: noDepsFinder{},
	})

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Ok, result.Kind)
	assert.Equal(t, "my-plugin", result.PluginID)
	assert.Empty(t, result.Problems)
}

func TestJob_Run_CompatibilityProblemsWhenVerifierFindsSomething(t *testing.T) {
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	sup := &classfile.ClassNode{Name: "p/Sup", Super: "java/lang/Object", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccFinal},
	}}
	sub := &classfile.ClassNode{Name: "p/Sub", Super: "p/Sup", Methods: []*classfile.MethodNode{
		{Name: "m", Desc: "()V", Access: classfile.AccPublic},
	}}
	ide := newMemResolver(object, sup)
	pluginClasses := newMemResolver(sub)

	job := NewJob(Request{
		Plugin: &fakePlugin{id: "my-plugin", classes: pluginClasses, check: []string{"p/Sub"}},
		Ide:    &fakeIde{version: "2024.1", classes: ide},
		Finder: noDepsFinder{},
	})

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CompatibilityProblems, result.Kind)
	require.Len(t, result.Problems, 1)
	assert.Equal(t, problem.OverridingFinalMethod, result.Problems[0].Kind)
}

func TestJob_Run_MissingMandatoryDependency(t *testing.T) {
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	ide := newMemResolver(object)
	pluginClasses := newMemResolver()

	job := NewJob(Request{
		Plugin: &fakePlugin{
			id:      "my-plugin",
			classes: pluginClasses,
			deps:    []depgraph.Dependency{{ID: "absent-dep", Optional: false}},
		},
		Ide:    &fakeIde{version: "2024.1", classes: ide},
		Finder: noDepsFinder{},
	})

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MissingDependencies, result.Kind)
	require.Len(t, result.DependencyGraph.Missing, 1)
	assert.Equal(t, "absent-dep", result.DependencyGraph.Missing[0].ID)
}

func TestJob_Run_RespectsCancelledContext(t *testing.T) {
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	ide := newMemResolver(object)
	pluginClasses := newMemResolver()

	job := NewJob(Request{
		Plugin: &fakePlugin{id: "my-plugin", classes: pluginClasses},
		Ide:    &fakeIde{version: "2024.1", classes: ide},
		Finder: noDepsFinder{},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := job.Run(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.CodeCancelled))
	assert.Equal(t, InvalidPlugin, result.Kind)
	assert.Contains(t, result.FailureReason, "cancelled")
}

func TestScheduler_RunsSubmittedJobsConcurrently(t *testing.T) {
	object := &classfile.ClassNode{Name: "java/lang/Object"}
	ide := newMemResolver(object)

	sched := NewScheduler(2)
	var outcomes []<-chan JobOutcome
	for i := 0; i < 4; i++ {
		pluginClasses := newMemResolver()
		job := NewJob(Request{
			Plugin: &fakePlugin{id: "plugin", classes: pluginClasses},
			Ide:    &fakeIde{version: "2024.1", classes: ide},
			Finder: noDepsFinder{},
		})
		outcomes = append(outcomes, sched.Submit(job))
	}

	for _, ch := range outcomes {
		out := <-ch
		require.NoError(t, out.Err)
		assert.Equal(t, Ok, out.Result.Kind)
	}
	sched.Wait()
}
