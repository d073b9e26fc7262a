// Copyright 2026 Oxbridge Economics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tasks

import (
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// defaultScheduledWorkers bounds concurrent scheduled collections.
const defaultScheduledWorkers = 2

// Runner executes task jobs. Scheduled collections share a small worker
// pool so periodic syncs for many owners cannot saturate the host; manual
// runs are user-initiated and start immediately on their own goroutine.
type Runner struct {
	pool   *ants.Pool
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	workers int
	logger  *slog.Logger
}

// RunnerWithWorkers sets the scheduled worker pool size.
// Default is 2.
func RunnerWithWorkers(workers int) RunnerOption {
	return func(c *runnerConfig) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// RunnerWithLogger sets a custom logger. Default is slog.Default().
func RunnerWithLogger(logger *slog.Logger) RunnerOption {
	return func(c *runnerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	cfg := runnerConfig{
		workers: defaultScheduledWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	pool, err := ants.NewPool(cfg.workers)
	if err != nil {
		return nil, err
	}

	return &Runner{
		pool:   pool,
		logger: cfg.logger.With("component", "runner"),
	}, nil
}

// Submit queues a job for execution. Scheduled jobs wait for a pool
// worker; manual jobs run immediately. Submit never blocks on job
// execution.
func (r *Runner) Submit(kind core.TaskKind, job func()) error {
	if job == nil {
		return ErrJobRequired
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRunnerClosed
	}
	r.wg.Add(1)
	r.mu.Unlock()

	wrapped := func() {
		defer r.wg.Done()
		job()
	}

	if kind == core.TaskKindScheduled {
		// Pool submission blocks while all workers are busy; hand it off so
		// the caller returns immediately and Waiting reflects the queue.
		go func() {
			if err := r.pool.Submit(wrapped); err != nil {
				r.logger.Error("scheduled job rejected", "error", err)
				r.wg.Done()
			}
		}()
		return nil
	}

	go wrapped()
	return nil
}

// Waiting returns the number of scheduled jobs queued behind busy workers.
func (r *Runner) Waiting() int {
	return r.pool.Waiting()
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
	r.pool.Release()
}
