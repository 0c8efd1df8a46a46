package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
)

type memResolver struct{ classes map[string]*classfile.ClassNode }

func (r *memResolver) Contains(name string) bool { _, ok := r.classes[name]; return ok }
func (r *memResolver) Find(name string) resolver.Resolution {
	if c, ok := r.classes[name]; ok {
		return resolver.ResolutionFound(c)
	}
	return resolver.ResolutionNotFound()
}
func (r *memResolver) AllClassNames() []string { return nil }
func (r *memResolver) ClassPath() []string     { return nil }
func (r *memResolver) Close() error            { return nil }

type fakePlugin struct{ classes resolver.Resolver }

func (p *fakePlugin) PluginID() string                           { return "watched-plugin" }
func (p *fakePlugin) DeclaredDependencies() []depgraph.Dependency { return nil }
func (p *fakePlugin) PluginClassResolver() resolver.Resolver      { return p.classes }
func (p *fakePlugin) ClassesToCheck() []string                    { return nil }
func (p *fakePlugin) Close() error                                { return nil }

type fakeIde struct{ classes resolver.Resolver }

func (i *fakeIde) Version() string                  { return "dev" }
func (i *fakeIde) ClassResolver() resolver.Resolver { return i.classes }
func (i *fakeIde) BundledJDK() (engine.JdkDescriptor, bool) { return nil, false }
func (i *fakeIde) Close() error                      { return nil }

type noDepsFinder struct{}

func (noDepsFinder) Find(id string) depgraph.FindResult {
	return depgraph.FindResult{Kind: depgraph.NotFound}
}

func TestWatcher_RerunsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	watchedFile := filepath.Join(dir, "plugin.jar")
	require.NoError(t, os.WriteFile(watchedFile, []byte("v1"), 0o644))

	ide := &memResolver{classes: map[string]*classfile.ClassNode{"java/lang/Object": {Name: "java/lang/Object"}}}
	sched := engine.NewScheduler(1)
	defer sched.Stop()

	results := make(chan engine.JobOutcome, 4)
	newJob := func() *engine.Job {
		return engine.NewJob(engine.Request{
			Plugin: &fakePlugin{classes: &memResolver{classes: map[string]*classfile.ClassNode{}}},
			Ide:    &fakeIde{classes: ide},
			Finder: noDepsFinder{},
		})
	}

	w, err := New(sched, []string{dir}, 20*time.Millisecond, newJob, func(o engine.JobOutcome) { results <- o })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(watchedFile, []byte("v2"), 0o644))

	select {
	case out := <-results:
		require.NoError(t, out.Err)
		require.Equal(t, engine.Ok, out.Result.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher to re-run job after file write")
	}
}

func TestWatcher_SkipsCycleWhenNewJobReturnsNil(t *testing.T) {
	dir := t.TempDir()
	watchedFile := filepath.Join(dir, "plugin.jar")
	require.NoError(t, os.WriteFile(watchedFile, []byte("v1"), 0o644))

	sched := engine.NewScheduler(1)
	defer sched.Stop()

	results := make(chan engine.JobOutcome, 4)
	w, err := New(sched, []string{dir}, 20*time.Millisecond, func() *engine.Job { return nil }, func(o engine.JobOutcome) { results <- o })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(watchedFile, []byte("v2"), 0o644))

	select {
	case <-results:
		t.Fatal("onResult should not be called when newJob returns nil")
	case <-time.After(200 * time.Millisecond):
	}
}
