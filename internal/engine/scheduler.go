package engine

import (
	"context"
	"sync"
)

// Scheduler runs verification jobs on a bounded worker pool, realizing
// spec.md §5's "may run multiple plugin-verifications in parallel as
// fully independent jobs": each job is single-threaded and
// self-contained, and a failure in one never touches another's result.
// No pack example wires a worker-pool library for this exact shape, so
// the pool is a plain buffered-channel/sync.WaitGroup construction (see
// DESIGN.md).
type Scheduler struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	cancel context.CancelFunc
	ctx    context.Context
}

// NewScheduler builds a Scheduler that runs at most maxConcurrent jobs
// at once. Cancelling the scheduler's context (via Stop) cooperatively
// cancels every job still running: each job's Run checks ctx.Err()
// between classes and at entry.
func NewScheduler(maxConcurrent int) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{sem: make(chan struct{}, maxConcurrent), cancel: cancel, ctx: ctx}
}

// Submit enqueues job for execution and returns a channel that receives
// exactly one (VerificationResult, error) pair once it completes. The
// job blocks on the pool's semaphore until a worker slot is free.
func (s *Scheduler) Submit(job *Job) <-chan JobOutcome {
	out := make(chan JobOutcome, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			out <- JobOutcome{JobID: job.ID, Err: s.ctx.Err()}
			close(out)
			return
		}
		defer func() { <-s.sem }()

		result, err := job.Run(s.ctx)
		out <- JobOutcome{JobID: job.ID, Result: result, Err: err}
		close(out)
	}()
	return out
}

// JobOutcome pairs a completed job's id with its result or error.
type JobOutcome struct {
	JobID  string
	Result VerificationResult
	Err    error
}

// Stop cancels every running and queued job's context and blocks until
// all workers have observed the cancellation and returned.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until every job submitted so far has completed, without
// cancelling anything.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
