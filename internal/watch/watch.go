// Package watch re-runs a verification job whenever the files it reads
// change on disk, wrapping fsnotify the way code-watch's internal/
// watcher debounces filesystem events before firing a callback. Unlike
// that watcher it watches a small fixed set of paths given by its caller
// (the watch command passes only the plugin path) rather than walking an entire
// project tree, and each firing enqueues one more fully independent
// engine.Job per spec.md §5 — no state is shared between runs.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
	"github.com/Ololoshechkin/plugin-verifier/internal/obsv"
)

// Watcher watches a fixed set of paths and, after a debounce window once
// they settle, runs a job built by newJob and passes its outcome to onResult.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	newJob   func() *engine.Job
	onResult func(engine.JobOutcome)
	sched    *engine.Scheduler

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// New builds a Watcher over paths (each a file or directory), debouncing
// bursts of events within debounce before re-running newJob() on sched.
// onResult is called once per completed re-verification.
func New(sched *engine.Scheduler, paths []string, debounce time.Duration, newJob func() *engine.Job, onResult func(engine.JobOutcome)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, debounce: debounce, newJob: newJob, onResult: onResult, sched: sched}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(path))
	}
	return filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}

// Run blocks, dispatching debounced re-verifications until ctx is
// cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			obsv.WatchEventsTotal.Inc()
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleRerun(ctx)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) scheduleRerun(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.rerun(ctx) })
}

func (w *Watcher) rerun(ctx context.Context) {
	job := w.newJob()
	if job == nil {
		// newJob reports its own failure (e.g. a transient read while the
		// watched file is still being written) and skips this cycle.
		return
	}
	outcome := <-w.sched.Submit(job)
	w.onResult(outcome)
}

// Close stops the underlying fsnotify watcher and any pending timer.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
