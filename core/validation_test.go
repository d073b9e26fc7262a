package core

import (
	"errors"
	"testing"
	"time"
)

func validTask() *Task {
	now := time.Now().UTC()
	return &Task{
		Id:        "task-1",
		UserId:    "user-1",
		Service:   "gmail",
		Kind:      TaskKindScheduled,
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{
			name:    "valid task",
			mutate:  func(task *Task) {},
			wantErr: nil,
		},
		{
			name:    "valid task with query",
			mutate:  func(task *Task) { task.Query = map[string]string{"after": "2026-01-01T00:00:00Z"} },
			wantErr: nil,
		},
		{
			name:    "empty id",
			mutate:  func(task *Task) { task.Id = "" },
			wantErr: ErrEmptyTaskId,
		},
		{
			name:    "empty user id",
			mutate:  func(task *Task) { task.UserId = "" },
			wantErr: ErrEmptyUserId,
		},
		{
			name:    "empty service",
			mutate:  func(task *Task) { task.Service = "" },
			wantErr: ErrEmptyService,
		},
		{
			name:    "invalid status",
			mutate:  func(task *Task) { task.Status = TaskStatus(99) },
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "zero status",
			mutate:  func(task *Task) { task.Status = TaskStatus(0) },
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "invalid kind",
			mutate:  func(task *Task) { task.Kind = TaskKind(7) },
			wantErr: ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := ValidateTask(task)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTask() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTask() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidTask) {
				t.Errorf("ValidateTask() error = %v, want wrapped %v", err, ErrInvalidTask)
			}
		})
	}
}

func TestValidateTask_Nil(t *testing.T) {
	err := ValidateTask(nil)
	if !errors.Is(err, ErrInvalidTask) {
		t.Errorf("ValidateTask(nil) error = %v, want %v", err, ErrInvalidTask)
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:    "valid chunk",
			chunk:   &Chunk{Id: "abc-0", Content: "some text"},
			wantErr: nil,
		},
		{
			name: "valid chunk without vector",
			chunk: &Chunk{
				Id:       "abc-1",
				Content:  "more text",
				Metadata: map[string]string{MetaService: "file"},
			},
			wantErr: nil,
		},
		{
			name:    "empty id",
			chunk:   &Chunk{Content: "text"},
			wantErr: ErrEmptyChunkId,
		},
		{
			name:    "empty content",
			chunk:   &Chunk{Id: "abc-0"},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed} {
		if err := ValidateStatus(status); err != nil {
			t.Errorf("ValidateStatus(%v) error = %v, want nil", status, err)
		}
	}
	for _, status := range []TaskStatus{TaskStatus(0), TaskStatus(5), TaskStatus(-1)} {
		if err := ValidateStatus(status); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ValidateStatus(%d) error = %v, want %v", status, err, ErrInvalidStatus)
		}
	}
}

func TestValidateKind(t *testing.T) {
	for _, kind := range []TaskKind{TaskKindManual, TaskKindScheduled} {
		if err := ValidateKind(kind); err != nil {
			t.Errorf("ValidateKind(%v) error = %v, want nil", kind, err)
		}
	}
	if err := ValidateKind(TaskKind(0)); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("ValidateKind(0) error = %v, want %v", err, ErrInvalidKind)
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current TaskStatus
		next    TaskStatus
		wantErr error
	}{
		{"pending to in progress", TaskStatusPending, TaskStatusInProgress, nil},
		{"in progress to completed", TaskStatusInProgress, TaskStatusCompleted, nil},
		{"in progress to failed", TaskStatusInProgress, TaskStatusFailed, nil},
		{"pending straight to completed", TaskStatusPending, TaskStatusCompleted, ErrIllegalTransition},
		{"pending straight to failed", TaskStatusPending, TaskStatusFailed, ErrIllegalTransition},
		{"in progress back to pending", TaskStatusInProgress, TaskStatusPending, ErrIllegalTransition},
		{"completed to in progress", TaskStatusCompleted, TaskStatusInProgress, ErrTaskFinalized},
		{"completed to failed", TaskStatusCompleted, TaskStatusFailed, ErrTaskFinalized},
		{"failed to completed", TaskStatusFailed, TaskStatusCompleted, ErrTaskFinalized},
		{"invalid target status", TaskStatusPending, TaskStatus(42), ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.next)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTransition(%v, %v) error = %v, want nil", tt.current, tt.next, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTransition(%v, %v) error = %v, want %v", tt.current, tt.next, err, tt.wantErr)
			}
		})
	}
}
