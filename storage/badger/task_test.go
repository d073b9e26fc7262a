package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

func makeTask(id, userId string, status core.TaskStatus) *core.Task {
	now := time.Now().UTC()
	return &core.Task{
		Id:        id,
		UserId:    userId,
		Service:   "gmail",
		Kind:      core.TaskKindScheduled,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskRepositoryBasics(t *testing.T) {
	taskRepo, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() {
		chunkStore.Close()
		taskRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	task := makeTask("task-1", "user-1", core.TaskStatusPending)
	if err := taskRepo.Put(ctx, task); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}

	retrieved, err := taskRepo.Get(ctx, "user-1", "task-1")
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if retrieved.Id != "task-1" {
		t.Fatalf("Expected task-1, got %s", retrieved.Id)
	}
	if retrieved.Status != core.TaskStatusPending {
		t.Fatalf("Expected pending status, got %s", retrieved.Status)
	}

	// Get for the wrong owner misses
	_, err = taskRepo.Get(ctx, "user-2", "task-1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestTaskRepository_PutReplacesInPlace(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := taskRepo.Put(ctx, makeTask("task-1", "user-1", core.TaskStatusPending)); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}
	if err := taskRepo.Put(ctx, makeTask("task-2", "user-1", core.TaskStatusPending)); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}

	// Re-put the first task with a new status
	updated := makeTask("task-1", "user-1", core.TaskStatusCompleted)
	updated.Processed = 5
	if err := taskRepo.Put(ctx, updated); err != nil {
		t.Fatalf("Failed to replace task: %v", err)
	}

	tasks, err := taskRepo.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks after replace, got %d", len(tasks))
	}

	// Replacement keeps the original position
	if tasks[0].Id != "task-1" {
		t.Fatalf("Expected task-1 first, got %s", tasks[0].Id)
	}
	if tasks[0].Status != core.TaskStatusCompleted {
		t.Fatalf("Expected completed status, got %s", tasks[0].Status)
	}
	if tasks[0].Processed != 5 {
		t.Fatalf("Expected Processed=5, got %d", tasks[0].Processed)
	}
}

func TestTaskRepository_HistoryCap(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	for i := 0; i < maxTaskHistory+2; i++ {
		task := makeTask(fmt.Sprintf("task-%d", i), "user-1", core.TaskStatusCompleted)
		if err := taskRepo.Put(ctx, task); err != nil {
			t.Fatalf("Failed to put task %d: %v", i, err)
		}
	}

	tasks, err := taskRepo.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != maxTaskHistory {
		t.Fatalf("Expected history capped at %d, got %d", maxTaskHistory, len(tasks))
	}

	// Oldest entries are gone, newest survive
	if tasks[0].Id != "task-2" {
		t.Fatalf("Expected task-2 as oldest survivor, got %s", tasks[0].Id)
	}
	if tasks[len(tasks)-1].Id != fmt.Sprintf("task-%d", maxTaskHistory+1) {
		t.Fatalf("Expected newest task last, got %s", tasks[len(tasks)-1].Id)
	}

	// The evicted tasks' index entries are cleaned up too
	for _, evicted := range []string{"task-0", "task-1"} {
		if _, err := taskRepo.FindStatus(ctx, evicted); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for evicted %s, got %v", evicted, err)
		}
	}
}

func TestTaskRepository_FindStatus(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	// Tasks from two owners; FindStatus resolves without knowing the owner
	if err := taskRepo.Put(ctx, makeTask("task-a", "user-1", core.TaskStatusInProgress)); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}
	if err := taskRepo.Put(ctx, makeTask("task-b", "user-2", core.TaskStatusFailed)); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}

	status, err := taskRepo.FindStatus(ctx, "task-a")
	if err != nil {
		t.Fatalf("Failed to find status: %v", err)
	}
	if status != core.TaskStatusInProgress {
		t.Fatalf("Expected in_progress, got %s", status)
	}

	status, err = taskRepo.FindStatus(ctx, "task-b")
	if err != nil {
		t.Fatalf("Failed to find status: %v", err)
	}
	if status != core.TaskStatusFailed {
		t.Fatalf("Expected failed, got %s", status)
	}

	if _, err := taskRepo.FindStatus(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestTaskRepository_ListEmpty(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	tasks, err := taskRepo.List(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Failed to list empty history: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("Expected empty history, got %d tasks", len(tasks))
	}
}

func TestTaskRepository_PutValidates(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	task := makeTask("", "user-1", core.TaskStatusPending)
	if err := taskRepo.Put(context.Background(), task); !errors.Is(err, core.ErrInvalidTask) {
		t.Fatalf("Expected ErrInvalidTask, got %v", err)
	}
}

func TestTaskRepository_OwnerIsolation(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := taskRepo.Put(ctx, makeTask("task-1", "user-1", core.TaskStatusPending)); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}
	if err := taskRepo.Put(ctx, makeTask("task-2", "user-2", core.TaskStatusPending)); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}

	tasks, err := taskRepo.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Id != "task-1" {
		t.Fatalf("Expected only task-1 for user-1, got %v", tasks)
	}
}

func TestTaskRepository_PutKeepsCallerTimestamps(t *testing.T) {
	taskRepo, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	stamp := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	task := makeTask("task-1", "user-1", core.TaskStatusPending)
	task.CreatedAt = stamp
	task.UpdatedAt = stamp

	if err := taskRepo.Put(ctx, task); err != nil {
		t.Fatalf("Failed to put task: %v", err)
	}
	if !task.UpdatedAt.Equal(stamp) {
		t.Fatalf("Put mutated UpdatedAt to %v", task.UpdatedAt)
	}

	retrieved, err := taskRepo.Get(ctx, "user-1", "task-1")
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if !retrieved.UpdatedAt.Equal(stamp) {
		t.Fatalf("Expected stored UpdatedAt %v, got %v", stamp, retrieved.UpdatedAt)
	}
	if !retrieved.CreatedAt.Equal(stamp) {
		t.Fatalf("Expected stored CreatedAt %v, got %v", stamp, retrieved.CreatedAt)
	}
}
