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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

// afterQueryKey carries the resume point for scheduled collections inside
// the task's opaque query.
const afterQueryKey = "after"

// Manager owns task lifecycle transitions. Every mutation validates the
// transition against the state machine and persists atomically before
// returning, so concurrent status readers never observe an illegal state.
type Manager struct {
	repo    storage.TaskRepository
	cursors storage.CursorRepository
	now     func() time.Time
	logger  *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// ManagerWithLogger sets a custom logger. Default is slog.Default().
func ManagerWithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// ManagerWithClock overrides the time source.
func ManagerWithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a task manager.
func NewManager(repo storage.TaskRepository, cursors storage.CursorRepository, opts ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if cursors == nil {
		return nil, ErrCursorRepositoryRequired
	}

	m := &Manager{
		repo:    repo,
		cursors: cursors,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "tasks")
	return m, nil
}

// Create registers a new Pending task and persists it.
func (m *Manager) Create(ctx context.Context, userId, service string, kind core.TaskKind, query map[string]string) (*core.Task, error) {
	now := m.now()
	task := &core.Task{
		Id:        uuid.NewString(),
		UserId:    userId,
		Service:   service,
		Kind:      kind,
		Status:    core.TaskStatusPending,
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := core.ValidateTask(task); err != nil {
		return nil, err
	}
	if err := m.repo.Put(ctx, task); err != nil {
		return nil, fmt.Errorf("persist task: %w", err)
	}

	m.logger.Info("task created", "task", task.Id, "user", userId, "service", service, "kind", kind)
	return task, nil
}

// Start moves a task to InProgress.
func (m *Manager) Start(ctx context.Context, task *core.Task) error {
	return m.transition(ctx, task, core.TaskStatusInProgress)
}

// ItemProcessed records one more processed source item. The status is
// unchanged; only the counter and timestamp move.
func (m *Manager) ItemProcessed(ctx context.Context, task *core.Task) error {
	if task == nil {
		return ErrTaskRequired
	}

	task.Processed++
	task.UpdatedAt = m.now()
	if err := m.repo.Put(ctx, task); err != nil {
		return fmt.Errorf("persist task: %w", err)
	}
	return nil
}

// Complete moves a task to Completed. Scheduled tasks additionally advance
// their resume cursor: the query's "after" field and the owner's sync
// cursor both record this run's completion time, so the next scheduled run
// collects only newer items.
func (m *Manager) Complete(ctx context.Context, task *core.Task) error {
	if task == nil {
		return ErrTaskRequired
	}

	completedAt := m.now()
	if task.Kind == core.TaskKindScheduled {
		if task.Query == nil {
			task.Query = make(map[string]string, 1)
		}
		task.Query[afterQueryKey] = completedAt.UTC().Format(time.RFC3339)
	}

	if err := m.transition(ctx, task, core.TaskStatusCompleted); err != nil {
		return err
	}

	if task.Kind == core.TaskKindScheduled {
		cursor := &core.SyncCursor{
			Service:       task.Service,
			TaskId:        task.Id,
			LastCollected: completedAt,
		}
		if err := m.cursors.Set(ctx, task.UserId, cursor); err != nil {
			// The task is already terminal; the next run falls back to the
			// task query's own cursor.
			m.logger.Error("failed to advance sync cursor", "task", task.Id, "error", err)
		}
	}

	m.logger.Info("task completed", "task", task.Id, "processed", task.Processed)
	return nil
}

// Fail moves a task to Failed, recording the first unrecoverable error.
func (m *Manager) Fail(ctx context.Context, task *core.Task, cause error) error {
	if task == nil {
		return ErrTaskRequired
	}

	if cause != nil && task.Error == "" {
		task.Error = cause.Error()
	}
	if err := m.transition(ctx, task, core.TaskStatusFailed); err != nil {
		return err
	}

	m.logger.Warn("task failed", "task", task.Id, "processed", task.Processed, "error", task.Error)
	return nil
}

// Status resolves a task's status by id alone.
// Returns storage.ErrNotFound for unknown ids.
func (m *Manager) Status(ctx context.Context, taskId string) (core.TaskStatus, error) {
	return m.repo.FindStatus(ctx, taskId)
}

// List returns an owner's task history, most recent last.
func (m *Manager) List(ctx context.Context, userId string) ([]*core.Task, error) {
	return m.repo.List(ctx, userId)
}

// Cursor returns the owner's last successful collection for a service.
// Returns storage.ErrNotFound before the first completed scheduled run.
func (m *Manager) Cursor(ctx context.Context, userId, service string) (*core.SyncCursor, error) {
	return m.cursors.Get(ctx, userId, service)
}

// transition validates, applies and persists one status change.
func (m *Manager) transition(ctx context.Context, task *core.Task, next core.TaskStatus) error {
	if task == nil {
		return ErrTaskRequired
	}

	if err := core.ValidateTransition(task.Status, next); err != nil {
		return err
	}

	task.Status = next
	task.UpdatedAt = m.now()
	if err := m.repo.Put(ctx, task); err != nil {
		return fmt.Errorf("persist task: %w", err)
	}
	return nil
}
